package ffi

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"unsafe"

	"github.com/gagliardetto/solana-go"

	"github.com/sss-labs/sss-shared/internal/token"
)

type stubOps struct {
	createRes *token.CreateResult
	createErr error
	mintSig   solana.Signature
	mintErr   error

	createCalls int
	mintCalls   int
	lastMint    token.MintRequest
}

func (s *stubOps) CreateToken(ctx context.Context, req token.CreateRequest) (*token.CreateResult, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.createRes, nil
}

func (s *stubOps) MintToken(ctx context.Context, req token.MintRequest) (solana.Signature, error) {
	s.mintCalls++
	s.lastMint = req
	if s.mintErr != nil {
		return solana.Signature{}, s.mintErr
	}
	return s.mintSig, nil
}

func happyOps() *stubOps {
	return &stubOps{
		createRes: &token.CreateResult{
			Signature: solana.SignatureFromBytes(bytes.Repeat([]byte{7}, 64)),
			Mint:      solana.NewWallet().PublicKey(),
		},
		mintSig: solana.SignatureFromBytes(bytes.Repeat([]byte{9}, 64)),
	}
}

// cstr allocates a null-terminated copy of s.
func cstr(s string) unsafe.Pointer {
	b := append([]byte(s), 0)
	return unsafe.Pointer(&b[0])
}

// cbytes returns a pointer to raw bytes (already terminated by caller).
func cbytes(b []byte) unsafe.Pointer {
	return unsafe.Pointer(&b[0])
}

// bufString reads a null-terminated string back out of a buffer.
func bufString(t *testing.T, b []byte) string {
	t.Helper()
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		t.Fatal("buffer is not null-terminated")
	}
	return string(b[:i])
}

// sentinel fills a buffer with a recognizable pattern so untouched
// writes can be asserted.
func sentinel(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = 0xAA
	}
	return b
}

func isSentinel(b []byte) bool {
	for _, c := range b {
		if c != 0xAA {
			return false
		}
	}
	return true
}

func TestCreateToken_Success(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}

	sigBuf := sentinel(128)
	mintBuf := sentinel(128)

	status := b.CreateToken(
		cstr("https://x/y.json"), cstr("Test"), 6,
		cbytes(sigBuf), cbytes(mintBuf), int32(len(sigBuf)), int32(len(mintBuf)),
	)
	if status != StatusOK {
		t.Fatalf("status = %d, want %d", status, StatusOK)
	}
	if ops.createCalls != 1 {
		t.Fatalf("createCalls = %d, want 1", ops.createCalls)
	}

	gotSig := bufString(t, sigBuf)
	if gotSig != ops.createRes.Signature.String() || gotSig == "" {
		t.Errorf("signature buffer = %q, want %q", gotSig, ops.createRes.Signature)
	}
	gotMint := bufString(t, mintBuf)
	if gotMint != ops.createRes.Mint.String() || gotMint == "" {
		t.Errorf("mint buffer = %q, want %q", gotMint, ops.createRes.Mint)
	}
}

func TestCreateToken_NullPointers(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}
	buf := sentinel(128)

	tests := []struct {
		name                 string
		uri, nm, sigO, mintO unsafe.Pointer
	}{
		{"null uri", nil, cstr("n"), cbytes(buf), cbytes(buf)},
		{"null name", cstr("u"), nil, cbytes(buf), cbytes(buf)},
		{"null signature out", cstr("u"), cstr("n"), nil, cbytes(buf)},
		{"null mint out", cstr("u"), cstr("n"), cbytes(buf), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := b.CreateToken(tt.uri, tt.nm, 0, tt.sigO, tt.mintO, 128, 128)
			if status != StatusNullPointer {
				t.Errorf("status = %d, want %d", status, StatusNullPointer)
			}
		})
	}

	if ops.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", ops.createCalls)
	}
	if !isSentinel(buf) {
		t.Error("buffer was written despite null-pointer rejection")
	}
}

func TestCreateToken_InvalidEncoding(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}
	buf := make([]byte, 128)
	bad := []byte{0xff, 0xfe, 0x00}

	if status := b.CreateToken(cbytes(bad), cstr("Test"), 0, cbytes(buf), cbytes(buf), 128, 128); status != StatusInvalidURI {
		t.Errorf("bad uri status = %d, want %d", status, StatusInvalidURI)
	}
	if status := b.CreateToken(cstr("https://x"), cbytes(bad), 0, cbytes(buf), cbytes(buf), 128, 128); status != StatusInvalidName {
		t.Errorf("bad name status = %d, want %d", status, StatusInvalidName)
	}
	if ops.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0", ops.createCalls)
	}
}

func TestCreateToken_SignatureBufferTooSmall(t *testing.T) {
	b := &Boundary{Tokens: happyOps()}

	sigBuf := sentinel(1)
	mintBuf := sentinel(128)

	status := b.CreateToken(cstr("https://x/y.json"), cstr("Test"), 6,
		cbytes(sigBuf), cbytes(mintBuf), 1, 128)
	if status != StatusSignatureTooSmall {
		t.Fatalf("status = %d, want %d", status, StatusSignatureTooSmall)
	}
	if !isSentinel(sigBuf) {
		t.Error("signature buffer modified on short-buffer failure")
	}
	if !isSentinel(mintBuf) {
		t.Error("mint buffer modified on short-buffer failure")
	}
}

func TestCreateToken_MintBufferTooSmall(t *testing.T) {
	b := &Boundary{Tokens: happyOps()}

	sigBuf := sentinel(128)
	mintBuf := sentinel(4)

	status := b.CreateToken(cstr("https://x/y.json"), cstr("Test"), 6,
		cbytes(sigBuf), cbytes(mintBuf), 128, 4)
	if status != StatusMintAddrTooSmall {
		t.Fatalf("status = %d, want %d", status, StatusMintAddrTooSmall)
	}
	if !isSentinel(mintBuf) {
		t.Error("mint buffer modified on short-buffer failure")
	}
}

func TestCreateToken_ExactFit(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}

	sigNeed := len(ops.createRes.Signature.String()) + 1
	mintNeed := len(ops.createRes.Mint.String()) + 1
	sigBuf := make([]byte, sigNeed)
	mintBuf := make([]byte, mintNeed)

	status := b.CreateToken(cstr("u"), cstr("n"), 0,
		cbytes(sigBuf), cbytes(mintBuf), int32(sigNeed), int32(mintNeed))
	if status != StatusOK {
		t.Fatalf("status = %d, want %d", status, StatusOK)
	}

	// One byte short must fail.
	short := sentinel(sigNeed - 1)
	status = b.CreateToken(cstr("u"), cstr("n"), 0,
		cbytes(short), cbytes(mintBuf), int32(sigNeed-1), int32(mintNeed))
	if status != StatusSignatureTooSmall {
		t.Errorf("status = %d, want %d", status, StatusSignatureTooSmall)
	}
	if !isSentinel(short) {
		t.Error("short buffer was partially written")
	}
}

func TestCreateToken_OperationFailure(t *testing.T) {
	b := &Boundary{Tokens: &stubOps{createErr: errors.New("boom")}}
	buf := sentinel(128)

	status := b.CreateToken(cstr("u"), cstr("n"), 0, cbytes(buf), cbytes(buf), 128, 128)
	if status != StatusCreateTokenFailed {
		t.Fatalf("status = %d, want %d", status, StatusCreateTokenFailed)
	}
	if !isSentinel(buf) {
		t.Error("buffer written despite operation failure")
	}
}

func TestMintToken_Success(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}

	mint := solana.NewWallet().PublicKey()
	sigBuf := make([]byte, 128)

	status := b.MintToken(cstr(mint.String()), nil, 1_000_000, cbytes(sigBuf), 128)
	if status != StatusOK {
		t.Fatalf("status = %d, want %d", status, StatusOK)
	}
	if got := bufString(t, sigBuf); got != ops.mintSig.String() {
		t.Errorf("signature buffer = %q, want %q", got, ops.mintSig)
	}
	if !ops.lastMint.Mint.Equals(mint) {
		t.Errorf("mint = %s, want %s", ops.lastMint.Mint, mint)
	}
	// A null owner pointer means no override, not an error.
	if ops.lastMint.Owner != nil {
		t.Errorf("owner = %v, want nil", ops.lastMint.Owner)
	}
	if ops.lastMint.Amount != 1_000_000 {
		t.Errorf("amount = %d, want 1000000", ops.lastMint.Amount)
	}
}

func TestMintToken_OwnerOverride(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}

	mint := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()
	sigBuf := make([]byte, 128)

	status := b.MintToken(cstr(mint.String()), cstr(owner.String()), 5, cbytes(sigBuf), 128)
	if status != StatusOK {
		t.Fatalf("status = %d, want %d", status, StatusOK)
	}
	if ops.lastMint.Owner == nil || !ops.lastMint.Owner.Equals(owner) {
		t.Errorf("owner = %v, want %s", ops.lastMint.Owner, owner)
	}
}

func TestMintToken_NullPointers(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}
	buf := make([]byte, 128)
	mint := solana.NewWallet().PublicKey()

	if status := b.MintToken(nil, nil, 1, cbytes(buf), 128); status != StatusNullPointer {
		t.Errorf("null mint status = %d, want %d", status, StatusNullPointer)
	}
	if status := b.MintToken(cstr(mint.String()), nil, 1, nil, 128); status != StatusNullPointer {
		t.Errorf("null out status = %d, want %d", status, StatusNullPointer)
	}
	if ops.mintCalls != 0 {
		t.Errorf("mintCalls = %d, want 0", ops.mintCalls)
	}
}

func TestMintToken_InvalidAddresses(t *testing.T) {
	ops := happyOps()
	b := &Boundary{Tokens: ops}
	buf := make([]byte, 128)
	mint := solana.NewWallet().PublicKey()
	badUTF8 := []byte{0xff, 0x00}

	tests := []struct {
		name  string
		mintP unsafe.Pointer
		ownP  unsafe.Pointer
		want  int32
	}{
		{"mint not base58", cstr("not-a-key-0OIl"), nil, StatusInvalidMintAddr},
		{"mint bad utf8", cbytes(badUTF8), nil, StatusInvalidMintAddr},
		{"owner not base58", cstr(mint.String()), cstr("nope-0OIl"), StatusInvalidOwnerAddr},
		{"owner bad utf8", cstr(mint.String()), cbytes(badUTF8), StatusInvalidOwnerAddr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if status := b.MintToken(tt.mintP, tt.ownP, 1, cbytes(buf), 128); status != tt.want {
				t.Errorf("status = %d, want %d", status, tt.want)
			}
		})
	}

	// Address validation happens before any network-facing call.
	if ops.mintCalls != 0 {
		t.Errorf("mintCalls = %d, want 0", ops.mintCalls)
	}
}

func TestMintToken_BufferTooSmall(t *testing.T) {
	b := &Boundary{Tokens: happyOps()}
	mint := solana.NewWallet().PublicKey()
	buf := sentinel(8)

	status := b.MintToken(cstr(mint.String()), nil, 1, cbytes(buf), 8)
	if status != StatusMintSigTooSmall {
		t.Fatalf("status = %d, want %d", status, StatusMintSigTooSmall)
	}
	if !isSentinel(buf) {
		t.Error("buffer modified on short-buffer failure")
	}
}

func TestMintToken_OperationFailure(t *testing.T) {
	b := &Boundary{Tokens: &stubOps{mintErr: errors.New("boom")}}
	mint := solana.NewWallet().PublicKey()
	buf := make([]byte, 128)

	status := b.MintToken(cstr(mint.String()), nil, 1, cbytes(buf), 128)
	if status != StatusMintTokenFailed {
		t.Errorf("status = %d, want %d", status, StatusMintTokenFailed)
	}
}

func TestGoString_RoundTrip(t *testing.T) {
	want := solana.NewWallet().PublicKey()

	got, ok := goString(cstr(want.String()))
	if !ok {
		t.Fatal("goString rejected a valid base58 string")
	}
	decoded, err := solana.PublicKeyFromBase58(got)
	if err != nil {
		t.Fatalf("decode round-tripped address: %v", err)
	}
	if !decoded.Equals(want) {
		t.Errorf("round trip = %s, want %s", decoded, want)
	}
}
