// Package config handles library configuration.
//
// All settings come from environment variables, read once by the process
// wiring and never re-read: changing the environment at runtime has no
// effect until the process restarts.
package config

import "os"

// Environment variable names.
const (
	EnvPayerMnemonic = "PAYER_MNEMONIC"
	EnvRPCURL        = "SOLANA_RPC_URL"
	EnvAssetIndexURL = "ASSET_INDEX_URL"
)

// Defaults applied when the corresponding variable is unset.
const (
	// DefaultRPCURL is the public devnet RPC endpoint.
	DefaultRPCURL = "https://api.devnet.solana.com"

	// DefaultAssetIndexURL is the devnet DAS (Digital Asset Standard)
	// indexing endpoint used by the asset query.
	DefaultAssetIndexURL = "https://devnet.helius-rpc.com"
)

// Config holds client configuration.
type Config struct {
	// RPCURL is the ledger RPC endpoint.
	RPCURL string

	// PayerMnemonic is the BIP-39 phrase the signing identity is derived
	// from. Left empty when unset; validity is checked by the identity
	// resolver on first signing use, not here.
	PayerMnemonic string

	// AssetIndexURL is the DAS indexing-service endpoint.
	AssetIndexURL string
}

// FromEnv builds a Config from the environment, applying defaults for
// the endpoint URLs.
func FromEnv() Config {
	return Config{
		RPCURL:        envOr(EnvRPCURL, DefaultRPCURL),
		PayerMnemonic: os.Getenv(EnvPayerMnemonic),
		AssetIndexURL: envOr(EnvAssetIndexURL, DefaultAssetIndexURL),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
