package core

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/covault/covault/events"
	"github.com/covault/covault/ledger"
	"github.com/covault/covault/repo"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("CORE")

// CovaultNode holds all the components that make up the multisig
// coordination service. It also exposes an exported API which is
// consumed by the transport layer.
type CovaultNode struct {

	// repo holds the database and data directory.
	repo *repo.Repo

	// ledgerClient is the client for the external ledger which is
	// the source of truth for owner sets, balances and executions.
	ledgerClient ledger.Client

	// eventBus is used to notify subscribers of state changes.
	eventBus events.Bus

	// locker serializes confirm and execute operations per-transaction.
	locker *transactionLocker

	// ledgerTimeout bounds every external ledger call.
	ledgerTimeout time.Duration

	// syncInterval is the interval between background wallet syncs.
	// Zero disables the syncer.
	syncInterval time.Duration

	// shutdown is closed when the node is stopped. Any listening
	// goroutines can use this to terminate.
	shutdown chan struct{}
}

// NewNode constructs a new CovaultNode from the given config.
func NewNode(cfg *repo.Config) (*CovaultNode, error) {
	r, err := repo.NewRepo(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	var client ledger.Client
	if cfg.MockLedger {
		client = ledger.NewMock()
	} else {
		if cfg.LedgerEndpoint == "" {
			return nil, errors.New("a ledger endpoint is required unless the mock ledger is enabled")
		}
		client = ledger.NewHTTPClient(cfg.LedgerEndpoint)
	}

	return &CovaultNode{
		repo:          r,
		ledgerClient:  client,
		eventBus:      events.NewBus(),
		locker:        newTransactionLocker(),
		ledgerTimeout: time.Second * time.Duration(cfg.LedgerTimeout),
		syncInterval:  time.Second * time.Duration(cfg.SyncInterval),
		shutdown:      make(chan struct{}),
	}, nil
}

// Start gets the node up and running. It launches the background
// wallet syncer if a sync interval is configured.
func (n *CovaultNode) Start() {
	if n.syncInterval > 0 {
		go n.syncWallets()
	}
}

// Stop cleanly shuts down the CovaultNode and signals to any listening
// goroutines that it's time to stop.
func (n *CovaultNode) Stop() {
	close(n.shutdown)
	n.repo.Close()
}

// DestroyNode shuts down the node and deletes the entire data directory.
// This should only be used during testing as destroying a live node will
// result in data loss.
func (n *CovaultNode) DestroyNode() {
	n.Stop()
	n.repo.DestroyRepo()
}

// Repo returns the node's repo.
func (n *CovaultNode) Repo() *repo.Repo {
	return n.repo
}

// SubscribeEvent returns a subscription to the given event type.
func (n *CovaultNode) SubscribeEvent(event interface{}) (events.Subscription, error) {
	return n.eventBus.Subscribe(event)
}

// ledgerContext bounds the given context with the node's ledger
// timeout. Every external ledger call must go through this so that a
// slow ledger can never hold an operation hostage.
func (n *CovaultNode) ledgerContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, n.ledgerTimeout)
}

// newID returns a random 16 byte hex encoded ID.
func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
