package models

import (
	"encoding/json"
	"time"
)

// TransactionStatus describes where a transaction is in its lifecycle.
type TransactionStatus string

const (
	// StatusSubmitted is a proposed transaction collecting confirmations.
	StatusSubmitted TransactionStatus = "SUBMITTED"

	// StatusConfirmed means the confirmation count has reached the
	// wallet's threshold and the transaction is awaiting execution.
	StatusConfirmed TransactionStatus = "CONFIRMED"

	// StatusExecuting means an execution attempt has claimed the
	// transaction and the external ledger call is in flight.
	StatusExecuting TransactionStatus = "EXECUTING"

	// StatusExecuted means the ledger accepted the execution. Terminal.
	StatusExecuted TransactionStatus = "EXECUTED"

	// StatusFailed means the last execution attempt errored. The
	// confirmation set is preserved so the attempt may be retried.
	StatusFailed TransactionStatus = "FAILED"
)

// Transaction holds the state of a proposed value transfer out of a
// multisig wallet. This model is saved in the database indexed by the
// transaction ID.
type Transaction struct {
	ID string `gorm:"primary_key"`

	WalletID string `gorm:"index"`

	// SequenceIndex is a per-wallet ordinal assigned at submission.
	// It is strictly increasing and never reused. It correlates the
	// transaction with the ledger's own index.
	SequenceIndex uint64

	Destination string
	Value       int64
	Data        []byte

	Status TransactionStatus `gorm:"index"`

	SerializedConfirmations json.RawMessage

	LedgerTxHash string
	ErrorDetail  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Confirmations returns the set of owner addresses that have confirmed
// this transaction.
func (t *Transaction) Confirmations() ([]string, error) {
	if len(t.SerializedConfirmations) == 0 {
		return nil, nil
	}
	var confirmations []string
	if err := json.Unmarshal(t.SerializedConfirmations, &confirmations); err != nil {
		return nil, err
	}
	return confirmations, nil
}

// HasConfirmation returns whether addr has already confirmed this
// transaction.
func (t *Transaction) HasConfirmation(addr string) (bool, error) {
	confirmations, err := t.Confirmations()
	if err != nil {
		return false, err
	}
	for _, c := range confirmations {
		if c == addr {
			return true, nil
		}
	}
	return false, nil
}

// AddConfirmation records addr's confirmation. It returns false if addr
// has already confirmed, in which case the set is unchanged.
func (t *Transaction) AddConfirmation(addr string) (bool, error) {
	has, err := t.HasConfirmation(addr)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}
	confirmations, err := t.Confirmations()
	if err != nil {
		return false, err
	}
	ser, err := json.Marshal(append(confirmations, addr))
	if err != nil {
		return false, err
	}
	t.SerializedConfirmations = ser
	return true, nil
}

// Open returns whether the transaction may still accrue confirmations.
// A transaction stops being open once an execution attempt claims it.
func (t *Transaction) Open() bool {
	return t.Status == StatusSubmitted || t.Status == StatusConfirmed
}
