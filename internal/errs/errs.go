// Package errs defines the library's closed error taxonomy.
//
// Every failure surfaced to callers is one of five kinds. Wrap attaches
// a context label to an underlying error and classifies the kind from
// substrings of that label. The substring rules are part of the
// library's observable behavior and must not change: call sites pick
// their kind by how they word the label.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies the category of a library error.
type Kind int

const (
	// KindConfig covers environment and configuration failures.
	KindConfig Kind = iota
	// KindKeypair covers signing-identity derivation failures.
	KindKeypair
	// KindRPC covers ledger transport failures.
	KindRPC
	// KindToken covers token-operation failures reported by the ledger
	// or the metadata program.
	KindToken
	// KindFFI covers marshaling failures at the C boundary, and is the
	// fallback for labels matching no other kind.
	KindFFI
)

// String returns the kind's display prefix.
func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "Configuration"
	case KindKeypair:
		return "Keypair"
	case KindRPC:
		return "RPC"
	case KindToken:
		return "Token"
	default:
		return "FFI"
	}
}

// Error is a classified library error.
type Error struct {
	Kind    Kind
	Context string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Context)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Context, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap attaches a context label to err and classifies the result.
// Returns nil if err is nil.
//
// Classification is a pure function of the label: "config"/"env" map to
// KindConfig, "keypair"/"signer" to KindKeypair, "rpc"/"client" to
// KindRPC, "token"/"mint" to KindToken, anything else to KindFFI. The
// first matching rule in that order wins.
func Wrap(err error, context string) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: Classify(context), Context: context, Err: err}
}

// New creates a classified error from a context label alone.
func New(context string) error {
	return &Error{Kind: Classify(context), Context: context}
}

// Kindf creates an error of an explicit kind, bypassing label
// classification. Used where the call site already knows the kind
// regardless of wording.
func Kindf(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Context: fmt.Sprintf(format, args...)}
}

// Classify maps a context label to a Kind via the substring rules.
func Classify(context string) Kind {
	switch {
	case strings.Contains(context, "config") || strings.Contains(context, "env"):
		return KindConfig
	case strings.Contains(context, "keypair") || strings.Contains(context, "signer"):
		return KindKeypair
	case strings.Contains(context, "rpc") || strings.Contains(context, "client"):
		return KindRPC
	case strings.Contains(context, "token") || strings.Contains(context, "mint"):
		return KindToken
	default:
		return KindFFI
	}
}

// KindOf extracts the kind from an error produced by this package.
// ok is false when err carries no *Error anywhere in its chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
