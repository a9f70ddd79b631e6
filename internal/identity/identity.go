// Package identity resolves the payer signing keypair.
//
// The keypair is derived from a BIP-39 mnemonic exactly once per
// Resolver; the outcome (success or failure) is cached for the life of
// the resolver and the configuration is never re-read. Every read
// returns a fresh copy of the key material so callers can never share
// or mutate the cached key.
package identity

import (
	"crypto/ed25519"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/tyler-smith/go-bip39"

	"github.com/sss-labs/sss-shared/config"
	"github.com/sss-labs/sss-shared/internal/log"
)

// Resolver derives and caches the payer keypair.
type Resolver struct {
	mnemonic string

	once sync.Once
	key  solana.PrivateKey
	err  error
}

// NewResolver creates a resolver bound to the configured mnemonic.
// Nothing is derived until the first Keypair call.
func NewResolver(cfg config.Config) *Resolver {
	return &Resolver{mnemonic: cfg.PayerMnemonic}
}

// Keypair returns a fresh copy of the payer keypair, deriving it on
// first use. The cached outcome is immutable: a derivation failure is
// returned on every subsequent call without re-reading configuration.
func (r *Resolver) Keypair() (solana.PrivateKey, error) {
	r.once.Do(r.derive)
	if r.err != nil {
		return nil, r.err
	}
	if len(r.key) == 0 {
		// Derivation panicked mid-flight; refuse to hand out a zero key.
		return nil, fmt.Errorf("identity derivation did not complete")
	}
	out := make(solana.PrivateKey, len(r.key))
	copy(out, r.key)
	return out, nil
}

// PublicKey returns the payer's public key.
func (r *Resolver) PublicKey() (solana.PublicKey, error) {
	kp, err := r.Keypair()
	if err != nil {
		return solana.PublicKey{}, err
	}
	return kp.PublicKey(), nil
}

func (r *Resolver) derive() {
	if r.mnemonic == "" {
		r.err = fmt.Errorf("payer mnemonic not found in environment")
		return
	}
	if !bip39.IsMnemonicValid(r.mnemonic) {
		r.err = fmt.Errorf("invalid mnemonic phrase")
		return
	}

	// Empty passphrase, same as the wallets this library must stay
	// compatible with. The ed25519 key comes from the first 32 bytes of
	// the 64-byte BIP-39 seed.
	seed, err := bip39.NewSeedWithErrorChecking(r.mnemonic, "")
	if err != nil {
		r.err = fmt.Errorf("derive seed from mnemonic: %w", err)
		return
	}

	priv := ed25519.NewKeyFromSeed(seed[:ed25519.SeedSize])
	r.key = solana.PrivateKey(priv)

	log.Identity.Debug().
		Str("pubkey", r.key.PublicKey().String()).
		Msg("payer keypair derived")
}
