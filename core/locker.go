package core

import "sync"

// transactionLocker provides per-transaction mutual exclusion. Locks
// for unrelated transactions do not contend, allowing concurrent
// progress across wallets while serializing the read-then-write
// sections for any single transaction.
type transactionLocker struct {
	mtx   sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mtx  sync.Mutex
	refs int
}

func newTransactionLocker() *transactionLocker {
	return &transactionLocker{
		locks: make(map[string]*lockEntry),
	}
}

// Lock acquires the exclusive lock for the given transaction ID.
func (l *transactionLocker) Lock(transactionID string) {
	l.mtx.Lock()
	entry, ok := l.locks[transactionID]
	if !ok {
		entry = &lockEntry{}
		l.locks[transactionID] = entry
	}
	entry.refs++
	l.mtx.Unlock()

	entry.mtx.Lock()
}

// Unlock releases the exclusive lock for the given transaction ID. The
// entry is removed from the table once no goroutine holds or waits on
// it.
func (l *transactionLocker) Unlock(transactionID string) {
	l.mtx.Lock()
	entry, ok := l.locks[transactionID]
	if !ok {
		l.mtx.Unlock()
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, transactionID)
	}
	l.mtx.Unlock()

	entry.mtx.Unlock()
}
