package tokenmeta

import (
	"bytes"
	"encoding/binary"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// CreateV1Params are the inputs for a fungible CreateV1 instruction.
type CreateV1Params struct {
	Metadata        solana.PublicKey
	Mint            solana.PublicKey
	Authority       solana.PublicKey
	Payer           solana.PublicKey
	UpdateAuthority solana.PublicKey

	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	Decimals             uint8
}

// NewCreateV1Instruction builds a CreateV1 instruction that creates a
// fungible token: mint account, metadata record, zero royalty, mutable
// metadata. The mint must co-sign the transaction (the instruction
// initializes it).
func NewCreateV1Instruction(p CreateV1Params) (solana.Instruction, error) {
	data, err := encodeCreateV1Args(p)
	if err != nil {
		return nil, fmt.Errorf("encode create args: %w", err)
	}

	// Account order is fixed by the program. Optional accounts that are
	// unused (master edition, for fungibles) are pinned to the program
	// ID itself, matching the program's convention.
	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(p.Metadata, true, false),
		solana.NewAccountMeta(ProgramID, false, false), // master edition: none
		solana.NewAccountMeta(p.Mint, true, true),
		solana.NewAccountMeta(p.Authority, false, true),
		solana.NewAccountMeta(p.Payer, true, true),
		solana.NewAccountMeta(p.UpdateAuthority, false, false),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarInstructionsPubkey, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
	}

	return solana.NewInstruction(ProgramID, accounts, data), nil
}

// encodeCreateV1Args serializes CreateArgs::V1 for a fungible token.
// Layout: discriminator, enum variant, then the V1 fields in program
// order; creators, collection, uses, collection details, rule set and
// print supply are always None, decimals always Some.
func encodeCreateV1Args(p CreateV1Params) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	w := &borshWriter{enc: enc}

	w.byte(createV1Discriminator)
	w.byte(0) // CreateArgs::V1
	w.str(p.Name)
	w.str(p.Symbol)
	w.str(p.URI)
	w.u16(p.SellerFeeBasisPoints)
	w.none()         // creators
	w.boolean(false) // primary_sale_happened
	w.boolean(true)  // is_mutable
	w.byte(tokenStandardFungible)
	w.none() // collection
	w.none() // uses
	w.none() // collection_details
	w.none() // rule_set
	w.some() // decimals
	w.byte(p.Decimals)
	w.none() // print_supply

	if w.err != nil {
		return nil, w.err
	}
	return buf.Bytes(), nil
}

// borshWriter sequences encoder writes, keeping the first error.
type borshWriter struct {
	enc *bin.Encoder
	err error
}

func (w *borshWriter) byte(b byte) {
	if w.err == nil {
		w.err = w.enc.WriteByte(b)
	}
}

func (w *borshWriter) boolean(b bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(b)
	}
}

func (w *borshWriter) u16(v uint16) {
	if w.err == nil {
		w.err = w.enc.WriteUint16(v, binary.LittleEndian)
	}
}

func (w *borshWriter) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, binary.LittleEndian)
	}
}

func (w *borshWriter) str(s string) {
	if w.err == nil {
		w.err = w.enc.WriteString(s)
	}
}

// none writes a borsh Option::None tag.
func (w *borshWriter) none() { w.byte(0) }

// some writes a borsh Option::Some tag; the value follows.
func (w *borshWriter) some() { w.byte(1) }
