package core

import (
	"time"

	"github.com/covault/covault/events"
	"github.com/covault/covault/ledger"
	"github.com/covault/covault/repo"
)

// MockNode builds a node with a temp data directory, in-memory
// database, and mock ledger.
func MockNode() (*CovaultNode, error) {
	r, err := repo.MockRepo()
	if err != nil {
		return nil, err
	}

	return &CovaultNode{
		repo:          r,
		ledgerClient:  ledger.NewMock(),
		eventBus:      events.NewBus(),
		locker:        newTransactionLocker(),
		ledgerTimeout: time.Second * 5,
		shutdown:      make(chan struct{}),
	}, nil
}
