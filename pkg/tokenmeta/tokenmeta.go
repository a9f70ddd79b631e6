// Package tokenmeta encodes instructions for the token-metadata
// program.
//
// The program has no generated Go client, so instructions are built by
// hand: account lists and borsh-encoded argument blobs matching the
// program's CreateV1 and MintV1 handlers. Only the fungible-token
// subset this library needs is covered.
package tokenmeta

import (
	"github.com/gagliardetto/solana-go"
)

// ProgramID is the token-metadata program address.
var ProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

// Instruction discriminators (borsh enum index of the program's
// instruction enum).
const (
	createV1Discriminator byte = 42
	mintV1Discriminator   byte = 43
)

// tokenStandardFungible is the TokenStandard enum index for fungible
// tokens.
const tokenStandardFungible byte = 2

// Defaults this library applies to every created token.
const (
	// DefaultSymbol is the (empty) token symbol.
	DefaultSymbol = ""

	// DefaultSellerFeeBasisPoints is the royalty, always zero for
	// fungible tokens.
	DefaultSellerFeeBasisPoints uint16 = 0
)

// metadataSeed is the fixed first PDA seed of metadata accounts.
var metadataSeed = []byte("metadata")

// MetadataAddress derives the metadata-record address for a mint. The
// derivation is a pure function of the mint: same input, same address.
func MetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{metadataSeed, ProgramID.Bytes(), mint.Bytes()},
		ProgramID,
	)
	return addr, err
}
