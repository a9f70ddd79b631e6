package tokenmeta

import (
	"bytes"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MintV1Params are the inputs for a MintV1 instruction.
type MintV1Params struct {
	Token      solana.PublicKey
	TokenOwner solana.PublicKey
	Metadata   solana.PublicKey
	Mint       solana.PublicKey
	Authority  solana.PublicKey
	Payer      solana.PublicKey

	Amount uint64
}

// NewMintV1Instruction builds a MintV1 instruction minting Amount units
// of an existing fungible token into the owner's associated token
// account (created by the program if absent).
func NewMintV1Instruction(p MintV1Params) (solana.Instruction, error) {
	data, err := encodeMintV1Args(p.Amount)
	if err != nil {
		return nil, fmt.Errorf("encode mint args: %w", err)
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(p.Token, true, false),
		solana.NewAccountMeta(p.TokenOwner, false, false),
		solana.NewAccountMeta(p.Metadata, false, false),
		solana.NewAccountMeta(ProgramID, false, false), // master edition: none
		solana.NewAccountMeta(ProgramID, false, false), // token record: none
		solana.NewAccountMeta(p.Mint, true, false),
		solana.NewAccountMeta(p.Authority, false, true),
		solana.NewAccountMeta(ProgramID, false, false), // delegate record: none
		solana.NewAccountMeta(p.Payer, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(ProgramID, false, false), // authorization rules program: none
		solana.NewAccountMeta(ProgramID, false, false), // authorization rules: none
	}

	return solana.NewInstruction(ProgramID, accounts, data), nil
}

// encodeMintV1Args serializes MintArgs::V1: the amount plus an
// always-None authorization payload.
func encodeMintV1Args(amount uint64) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	w := &borshWriter{enc: enc}

	w.byte(mintV1Discriminator)
	w.byte(0) // MintArgs::V1
	w.u64(amount)
	w.none() // authorization_data

	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}
