// Package ffi implements the C-boundary marshaling layer.
//
// All raw-pointer handling lives here, behind plain Go entry points the
// cgo shim forwards into. Nothing in this package depends on cgo, so
// the whole boundary — null checks, C-string decoding, bounded buffer
// writes, status codes — is testable in-process with Go-allocated
// memory.
//
// The numeric status codes are a binary-compatibility contract with
// existing C hosts. Do not renumber them.
package ffi

import (
	"context"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/gagliardetto/solana-go"

	"github.com/sss-labs/sss-shared/internal/log"
	"github.com/sss-labs/sss-shared/internal/token"
)

// Status codes shared by both entry points.
const (
	// StatusOK signals success.
	StatusOK int32 = 0
	// StatusNullPointer is returned when any required pointer is null.
	// Nothing has been written.
	StatusNullPointer int32 = -1
)

// create_token status codes.
const (
	StatusInvalidURI        int32 = -2
	StatusInvalidName       int32 = -3
	StatusSignatureTooSmall int32 = -6
	StatusMintAddrTooSmall  int32 = -7
	StatusCreateTokenFailed int32 = -8
)

// mint_token_ffi status codes.
const (
	StatusInvalidMintAddr  int32 = -2
	StatusInvalidOwnerAddr int32 = -3
	StatusMintSigTooSmall  int32 = -4
	StatusMintTokenFailed  int32 = -5
)

// TokenOps is the token surface the boundary invokes.
type TokenOps interface {
	CreateToken(ctx context.Context, req token.CreateRequest) (*token.CreateResult, error)
	MintToken(ctx context.Context, req token.MintRequest) (solana.Signature, error)
}

var _ TokenOps = (*token.Service)(nil)

// Boundary adapts raw-pointer calls onto the token service. Calls are
// synchronous and block the calling thread through network I/O; no
// timeout is applied beyond the transport's own.
type Boundary struct {
	Tokens TokenOps
}

// CreateToken implements the create_token entry point: validate,
// decode, invoke, encode into the caller's buffers.
func (b *Boundary) CreateToken(uriPtr, namePtr unsafe.Pointer, decimals byte, sigOut, mintOut unsafe.Pointer, sigLen, mintLen int32) int32 {
	if uriPtr == nil || namePtr == nil || sigOut == nil || mintOut == nil {
		return StatusNullPointer
	}

	uri, ok := goString(uriPtr)
	if !ok {
		return StatusInvalidURI
	}
	name, ok := goString(namePtr)
	if !ok {
		return StatusInvalidName
	}

	res, err := b.Tokens.CreateToken(context.Background(), token.CreateRequest{
		URI:      uri,
		Name:     name,
		Decimals: decimals,
	})
	if err != nil {
		log.FFI.Error().Err(err).Str("name", name).Msg("create_token failed")
		return StatusCreateTokenFailed
	}

	// Two sequential copies: a too-small mint buffer can leave the
	// signature buffer already written. Callers observing -7 must not
	// trust either buffer.
	if !copyToBuffer(res.Signature.String(), sigOut, int(sigLen)) {
		return StatusSignatureTooSmall
	}
	if !copyToBuffer(res.Mint.String(), mintOut, int(mintLen)) {
		return StatusMintAddrTooSmall
	}
	return StatusOK
}

// MintToken implements the mint_token_ffi entry point. A null owner
// pointer means "mint to the payer", not an error.
func (b *Boundary) MintToken(mintPtr, ownerPtr unsafe.Pointer, amount uint64, sigOut unsafe.Pointer, sigLen int32) int32 {
	if mintPtr == nil || sigOut == nil {
		return StatusNullPointer
	}

	mintStr, ok := goString(mintPtr)
	if !ok {
		return StatusInvalidMintAddr
	}
	mint, err := solana.PublicKeyFromBase58(mintStr)
	if err != nil {
		return StatusInvalidMintAddr
	}

	var owner *solana.PublicKey
	if ownerPtr != nil {
		ownerStr, ok := goString(ownerPtr)
		if !ok {
			return StatusInvalidOwnerAddr
		}
		pk, err := solana.PublicKeyFromBase58(ownerStr)
		if err != nil {
			return StatusInvalidOwnerAddr
		}
		owner = &pk
	}

	sig, err := b.Tokens.MintToken(context.Background(), token.MintRequest{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
	})
	if err != nil {
		log.FFI.Error().Err(err).Str("mint", mint.String()).Msg("mint_token failed")
		return StatusMintTokenFailed
	}

	if !copyToBuffer(sig.String(), sigOut, int(sigLen)) {
		return StatusMintSigTooSmall
	}
	return StatusOK
}

// goString decodes a null-terminated C string. Returns false for
// invalid UTF-8.
func goString(p unsafe.Pointer) (string, bool) {
	if p == nil {
		return "", false
	}
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++
	}
	b := unsafe.Slice((*byte)(p), n)
	if !utf8.Valid(b) {
		return "", false
	}
	return string(b), true
}

// copyToBuffer writes s plus a null terminator into the caller's
// buffer. If the buffer is too small (or s carries an interior null),
// nothing is written at all.
func copyToBuffer(s string, buf unsafe.Pointer, bufLen int) bool {
	if strings.IndexByte(s, 0) >= 0 {
		return false
	}
	need := len(s) + 1
	if bufLen < need {
		return false
	}
	dst := unsafe.Slice((*byte)(buf), need)
	copy(dst, s)
	dst[len(s)] = 0
	return true
}
