// libsss is the C-ABI shared library build of the token client.
//
// Build with:
//
//	go build -buildmode=c-shared -o libsss_shared.so ./cmd/libsss
//
// The exported surface and its status codes are declared in
// include/sss_shared.h. All exports are synchronous: they perform
// network I/O on the calling thread with no timeout beyond the
// transport's own.
package main

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/sss-labs/sss-shared/config"
	"github.com/sss-labs/sss-shared/internal/ffi"
	"github.com/sss-labs/sss-shared/internal/identity"
	"github.com/sss-labs/sss-shared/internal/ledger"
	"github.com/sss-labs/sss-shared/internal/token"
)

var (
	wireOnce sync.Once
	bound    *ffi.Boundary
)

// boundary wires the process-wide services on first use. Configuration
// is read from the environment exactly once; later changes have no
// effect until the process restarts.
func boundary() *ffi.Boundary {
	wireOnce.Do(func() {
		cfg := config.FromEnv()
		svc := token.NewService(identity.NewResolver(cfg), ledger.New(cfg))
		bound = &ffi.Boundary{Tokens: svc}
	})
	return bound
}

//export create_token
func create_token(uriPtr, namePtr *C.char, decimals C.uchar, signatureOut, mintAddressOut *C.char, signatureLen, mintAddressLen C.int) C.int {
	return C.int(boundary().CreateToken(
		unsafe.Pointer(uriPtr),
		unsafe.Pointer(namePtr),
		byte(decimals),
		unsafe.Pointer(signatureOut),
		unsafe.Pointer(mintAddressOut),
		int32(signatureLen),
		int32(mintAddressLen),
	))
}

//export mint_token_ffi
func mint_token_ffi(mintStr, tokenOwnerStr *C.char, amount C.ulonglong, signatureOut *C.char, signatureLen C.int) C.int {
	return C.int(boundary().MintToken(
		unsafe.Pointer(mintStr),
		unsafe.Pointer(tokenOwnerStr),
		uint64(amount),
		unsafe.Pointer(signatureOut),
		int32(signatureLen),
	))
}

//export free_string
func free_string(ptr *C.char) {
	if ptr != nil {
		C.free(unsafe.Pointer(ptr))
	}
}

func main() {}
