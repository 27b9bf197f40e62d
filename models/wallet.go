package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Wallet holds the coordinator's view of a multisig wallet. The owner
// set and threshold mirror the external ledger contract and are only
// updated by syncing observed on-chain state, never by a confirm or
// execute call. This model is saved in the database indexed by the
// wallet ID.
type Wallet struct {
	ID string `gorm:"primary_key"`

	LedgerAddress string `gorm:"unique_index"`

	Name        string
	Description string

	SerializedOwners json.RawMessage
	Threshold        int

	Balance string

	NextSequence uint64

	SyncWarning string
	LastSynced  time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Owners returns the deserialized owner set.
func (w *Wallet) Owners() ([]string, error) {
	if len(w.SerializedOwners) == 0 {
		return nil, nil
	}
	var owners []string
	if err := json.Unmarshal(w.SerializedOwners, &owners); err != nil {
		return nil, err
	}
	return owners, nil
}

// SetOwners serializes the given owner set into the model.
func (w *Wallet) SetOwners(owners []string) error {
	ser, err := json.Marshal(owners)
	if err != nil {
		return err
	}
	w.SerializedOwners = ser
	return nil
}

// IsOwner returns whether addr is a member of the wallet's owner set.
func (w *Wallet) IsOwner(addr string) (bool, error) {
	owners, err := w.Owners()
	if err != nil {
		return false, err
	}
	for _, o := range owners {
		if o == addr {
			return true, nil
		}
	}
	return false, nil
}

// ValidateOwners returns an error if the owner set is empty, contains a
// blank or duplicate address, or if the threshold falls outside
// [1, len(owners)].
func ValidateOwners(owners []string, threshold int) error {
	if len(owners) == 0 {
		return errors.New("owner set is empty")
	}
	seen := make(map[string]bool)
	for _, o := range owners {
		if o == "" {
			return errors.New("owner address is blank")
		}
		if seen[o] {
			return fmt.Errorf("duplicate owner %s", o)
		}
		seen[o] = true
	}
	if threshold < 1 || threshold > len(owners) {
		return fmt.Errorf("threshold must be between 1 and %d", len(owners))
	}
	return nil
}
