package core

import "fmt"

// ErrorKind classifies coordinator failures. Every failed operation on
// the node returns exactly one kind plus a human-readable detail.
type ErrorKind string

const (
	// ErrInvalidInput signals a malformed request such as a blank
	// field, a bad threshold or a negative value. Safe to retry after
	// correction.
	ErrInvalidInput ErrorKind = "INVALID_INPUT"

	// ErrNotFound signals an unknown wallet or transaction ID.
	ErrNotFound ErrorKind = "NOT_FOUND"

	// ErrNotAnOwner signals a confirmation attempted by an address
	// outside the wallet's owner set.
	ErrNotAnOwner ErrorKind = "NOT_AN_OWNER"

	// ErrInvalidState signals an operation that is not legal in the
	// transaction's current status, such as executing without quorum
	// or confirming a closed transaction.
	ErrInvalidState ErrorKind = "INVALID_STATE"

	// ErrExternalUnavailable signals that the external ledger could
	// not be reached or timed out. Callers may retry.
	ErrExternalUnavailable ErrorKind = "EXTERNAL_UNAVAILABLE"

	// ErrExecutionFailed signals that the external ledger accepted the
	// execution call but reported a failure. The transaction is marked
	// failed; its confirmations are preserved.
	ErrExecutionFailed ErrorKind = "EXECUTION_FAILED"
)

// Error pairs an error kind with a human-readable detail string.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Detail
}

// NewError returns a new coordinator error of the given kind.
func NewError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
	}
}

// KindOf returns the kind of the given error or an empty string if it
// is not a coordinator error.
func KindOf(err error) ErrorKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}

// IsInvalidInputError returns whether the provided error is an
// ErrInvalidInput error.
func IsInvalidInputError(err error) bool {
	return KindOf(err) == ErrInvalidInput
}

// IsNotFoundError returns whether the provided error is an ErrNotFound
// error.
func IsNotFoundError(err error) bool {
	return KindOf(err) == ErrNotFound
}

// IsNotAnOwnerError returns whether the provided error is an
// ErrNotAnOwner error.
func IsNotAnOwnerError(err error) bool {
	return KindOf(err) == ErrNotAnOwner
}

// IsInvalidStateError returns whether the provided error is an
// ErrInvalidState error.
func IsInvalidStateError(err error) bool {
	return KindOf(err) == ErrInvalidState
}

// IsExternalUnavailableError returns whether the provided error is an
// ErrExternalUnavailable error.
func IsExternalUnavailableError(err error) bool {
	return KindOf(err) == ErrExternalUnavailable
}

// IsExecutionFailedError returns whether the provided error is an
// ErrExecutionFailed error.
func IsExecutionFailedError(err error) bool {
	return KindOf(err) == ErrExecutionFailed
}
