package ledger

import (
	"context"

	"github.com/pkg/errors"
)

// ErrLedgerUnavailable is returned when the external ledger cannot be
// reached or the call timed out. Callers may retry; no state change
// should be assumed on either side.
var ErrLedgerUnavailable = errors.New("ledger unavailable")

// ExecutionError is returned when the ledger accepted an execution call
// but reported that it failed (for example, the contract reverted).
// Unlike ErrLedgerUnavailable this is a definitive rejection.
type ExecutionError struct {
	Reason string
}

func (e *ExecutionError) Error() string {
	return "execution failed: " + e.Reason
}

// IsUnavailable returns whether the given error represents a transient
// failure to reach the ledger rather than a definitive rejection.
func IsUnavailable(err error) bool {
	switch errors.Cause(err) {
	case ErrLedgerUnavailable, context.DeadlineExceeded, context.Canceled:
		return true
	}
	return false
}

// IsExecutionError returns whether the given error is a definitive
// execution failure reported by the ledger.
func IsExecutionError(err error) bool {
	_, ok := errors.Cause(err).(*ExecutionError)
	return ok
}

// WalletState is the owner configuration and balance of a multisig
// contract as observed on the ledger.
type WalletState struct {
	Owners    []string
	Threshold int
	Balance   string
}

// Client is the interface to the external ledger. All calls are
// fallible and latent; callers are expected to bound them with a
// context deadline.
type Client interface {
	// ProvisionWallet deploys a new multisig contract with the given
	// owners and threshold and returns its address.
	ProvisionWallet(ctx context.Context, owners []string, threshold int) (string, error)

	// ReadWalletState returns the owners, threshold and balance of the
	// contract at the given address.
	ReadWalletState(ctx context.Context, address string) (*WalletState, error)

	// ExecuteTransaction submits the transaction at the given index for
	// execution by the contract and returns the ledger transaction hash.
	ExecuteTransaction(ctx context.Context, address string, txIndex uint64, destination string, value int64, data []byte) (string, error)
}
