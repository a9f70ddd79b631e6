// Package ledger provides the process-wide handle to the Solana RPC
// endpoint.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/sss-labs/sss-shared/config"
	"github.com/sss-labs/sss-shared/internal/errs"
	"github.com/sss-labs/sss-shared/internal/log"
)

// confirmPollInterval is how often SubmitAndConfirm polls for the
// signature status after submission.
const confirmPollInterval = 500 * time.Millisecond

// Handle is an immutable handle to a configured RPC endpoint. It is
// created once and safely shared by all operations without locking.
type Handle struct {
	rpc      *rpc.Client
	endpoint string
}

// New creates a handle bound to the configured endpoint.
func New(cfg config.Config) *Handle {
	return &Handle{rpc: rpc.New(cfg.RPCURL), endpoint: cfg.RPCURL}
}

// NewWithClient creates a handle around an existing RPC client.
func NewWithClient(client *rpc.Client, endpoint string) *Handle {
	return &Handle{rpc: client, endpoint: endpoint}
}

// Endpoint returns the configured endpoint URL.
func (h *Handle) Endpoint() string {
	return h.endpoint
}

// LatestBlockhash fetches the freshness token required for transaction
// submission. A transport failure surfaces immediately as an RPC error;
// there is no retry.
func (h *Handle) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := h.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Hash{}, errs.Wrap(err, "rpc get latest blockhash")
	}
	return out.Value.Blockhash, nil
}

// SubmitAndConfirm sends a signed transaction and polls its signature
// status until it reaches confirmed or finalized commitment, bounded
// only by ctx.
//
// Transport failures return an RPC-kind error. A transaction the chain
// executed and rejected returns a plain error carrying the on-chain
// error value, so the caller can classify it for its own operation.
//
// Known ambiguity: if the ledger accepted the transaction but the
// confirmation response is lost, the caller sees a transport error yet
// the transaction may have landed. That is inherent to the ledger's
// submission semantics.
func (h *Handle) SubmitAndConfirm(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := h.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: rpc.CommitmentProcessed,
	})
	if err != nil {
		return solana.Signature{}, errs.Wrap(err, "rpc send transaction")
	}

	log.Ledger.Debug().
		Str("signature", sig.String()).
		Msg("transaction submitted, awaiting confirmation")

	ticker := time.NewTicker(confirmPollInterval)
	defer ticker.Stop()

	for {
		out, err := h.rpc.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			return solana.Signature{}, errs.Wrap(err, "rpc get signature status")
		}
		if len(out.Value) > 0 && out.Value[0] != nil {
			st := out.Value[0]
			if st.Err != nil {
				return solana.Signature{}, fmt.Errorf("transaction failed on chain: %v", st.Err)
			}
			if st.ConfirmationStatus == rpc.ConfirmationStatusConfirmed ||
				st.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
				return sig, nil
			}
		}

		select {
		case <-ctx.Done():
			return solana.Signature{}, errs.Wrap(ctx.Err(), "rpc confirm transaction")
		case <-ticker.C:
		}
	}
}
