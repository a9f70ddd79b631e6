// Package token assembles, signs and submits token transactions.
//
// Two operations exist: creating a fungible token (mint account plus
// metadata record) and minting supply of an existing token into an
// owner's associated token account. Both resolve the payer identity,
// fetch a fresh blockhash, sign and submit in one blocking call; there
// are no retries and no partial-success states beyond what the ledger
// itself may have committed before a lost confirmation.
package token

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/sss-labs/sss-shared/internal/errs"
	"github.com/sss-labs/sss-shared/internal/identity"
	"github.com/sss-labs/sss-shared/internal/log"
	"github.com/sss-labs/sss-shared/pkg/tokenmeta"
)

// Chain is the ledger surface the service needs.
type Chain interface {
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}

// Service builds and submits token transactions.
type Service struct {
	identity *identity.Resolver
	chain    Chain
}

// NewService creates a token service.
func NewService(ident *identity.Resolver, chain Chain) *Service {
	return &Service{identity: ident, chain: chain}
}

// CreateRequest holds the inputs for creating a token.
type CreateRequest struct {
	URI      string
	Name     string
	Decimals uint8
}

// CreateResult is the outcome of a successful creation.
type CreateResult struct {
	Signature solana.Signature
	Mint      solana.PublicKey
}

// MintRequest holds the inputs for minting supply.
type MintRequest struct {
	Mint solana.PublicKey

	// Owner receives the minted tokens. Nil means the payer itself.
	Owner *solana.PublicKey

	Amount uint64
}

// CreateToken creates a fungible token with a freshly generated mint
// keypair.
func (s *Service) CreateToken(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	mint := solana.NewWallet()
	sig, err := s.CreateTokenWithMint(ctx, mint.PrivateKey, req)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Signature: sig, Mint: mint.PublicKey()}, nil
}

// CreateTokenWithMint creates a fungible token using a caller-supplied
// mint keypair. The mint co-signs the transaction alongside the payer.
func (s *Service) CreateTokenWithMint(ctx context.Context, mint solana.PrivateKey, req CreateRequest) (solana.Signature, error) {
	payer, err := s.identity.Keypair()
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "get payer keypair")
	}

	mintPub := mint.PublicKey()
	metadata, err := tokenmeta.MetadataAddress(mintPub)
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "derive token metadata address")
	}

	ix, err := tokenmeta.NewCreateV1Instruction(tokenmeta.CreateV1Params{
		Metadata:             metadata,
		Mint:                 mintPub,
		Authority:            payer.PublicKey(),
		Payer:                payer.PublicKey(),
		UpdateAuthority:      payer.PublicKey(),
		Name:                 req.Name,
		Symbol:               tokenmeta.DefaultSymbol,
		URI:                  req.URI,
		SellerFeeBasisPoints: tokenmeta.DefaultSellerFeeBasisPoints,
		Decimals:             req.Decimals,
	})
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "build create token instruction")
	}

	sig, err := s.signAndSubmit(ctx, []solana.Instruction{ix}, payer, mint)
	if err != nil {
		return solana.Signature{}, err
	}

	log.Token.Info().
		Str("signature", sig.String()).
		Str("mint", mintPub.String()).
		Str("name", req.Name).
		Msg("token created")
	return sig, nil
}

// MintToken mints req.Amount units of an existing token. The payer acts
// as mint authority; a second, independent clone of its keypair signs
// in that role.
func (s *Service) MintToken(ctx context.Context, req MintRequest) (solana.Signature, error) {
	payer, err := s.identity.Keypair()
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "get payer keypair")
	}
	authority, err := s.identity.Keypair()
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "get authority keypair")
	}

	owner := payer.PublicKey()
	if req.Owner != nil {
		owner = *req.Owner
	}

	metadata, err := tokenmeta.MetadataAddress(req.Mint)
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "derive token metadata address")
	}
	tokenAccount, _, err := solana.FindAssociatedTokenAddress(owner, req.Mint)
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "derive token account address")
	}

	ix, err := tokenmeta.NewMintV1Instruction(tokenmeta.MintV1Params{
		Token:      tokenAccount,
		TokenOwner: owner,
		Metadata:   metadata,
		Mint:       req.Mint,
		Authority:  authority.PublicKey(),
		Payer:      payer.PublicKey(),
		Amount:     req.Amount,
	})
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "build mint instruction")
	}

	sig, err := s.signAndSubmit(ctx, []solana.Instruction{ix}, payer, authority)
	if err != nil {
		return solana.Signature{}, err
	}

	log.Token.Info().
		Str("signature", sig.String()).
		Str("mint", req.Mint.String()).
		Str("owner", owner.String()).
		Uint64("amount", req.Amount).
		Msg("tokens minted")
	return sig, nil
}

// signAndSubmit wraps the instructions in a payer-funded message,
// fetches a fresh blockhash, signs with the given keys and submits.
func (s *Service) signAndSubmit(ctx context.Context, ixs []solana.Instruction, payer solana.PrivateKey, extra ...solana.PrivateKey) (solana.Signature, error) {
	blockhash, err := s.chain.LatestBlockhash(ctx)
	if err != nil {
		return solana.Signature{}, err // already classified by the ledger handle
	}

	tx, err := solana.NewTransaction(ixs, blockhash, solana.TransactionPayer(payer.PublicKey()))
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "build token transaction")
	}

	signers := append([]solana.PrivateKey{payer}, extra...)
	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		for i := range signers {
			if signers[i].PublicKey().Equals(key) {
				return &signers[i]
			}
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "sign token transaction")
	}

	sig, err := s.chain.SubmitAndConfirm(ctx, tx)
	if err != nil {
		if _, ok := errs.KindOf(err); ok {
			return solana.Signature{}, err
		}
		// On-chain rejections arrive unclassified from the ledger.
		return solana.Signature{}, errs.Wrap(err, "token transaction rejected")
	}
	return sig, nil
}
