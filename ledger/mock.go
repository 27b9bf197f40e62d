package ledger

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Mock is an in-memory ledger that conforms to the Client interface.
// It is used by the test suite and by nodes started with the mock
// ledger option. Unavailability, execution failures and latency can
// be injected to exercise failure paths.
type Mock struct {
	mtx sync.Mutex

	contracts map[string]*WalletState

	unavailable bool
	executeErr  error
	latency     time.Duration

	executeCalls int
}

var _ Client = (*Mock)(nil)

// NewMock returns a new empty mock ledger.
func NewMock() *Mock {
	return &Mock{
		contracts: make(map[string]*WalletState),
	}
}

// SetUnavailable makes every subsequent call fail with
// ErrLedgerUnavailable until reset.
func (m *Mock) SetUnavailable(unavailable bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.unavailable = unavailable
}

// FailNextExecution makes the next ExecuteTransaction call return a
// definitive ExecutionError with the given reason.
func (m *Mock) FailNextExecution(reason string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.executeErr = &ExecutionError{Reason: reason}
}

// SetLatency adds an artificial delay to every call. The delay honors
// context cancellation.
func (m *Mock) SetLatency(d time.Duration) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.latency = d
}

// ExecuteCalls returns the number of ExecuteTransaction calls that have
// reached the ledger.
func (m *Mock) ExecuteCalls() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return m.executeCalls
}

// SeedWallet records a pre-existing contract at the given address so
// that it can be linked to.
func (m *Mock) SeedWallet(address string, state *WalletState) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	m.contracts[address] = copyState(state)
}

// SetBalance updates the balance of the contract at the given address.
func (m *Mock) SetBalance(address, balance string) {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	if state, ok := m.contracts[address]; ok {
		state.Balance = balance
	}
}

// ProvisionWallet deploys a new in-memory contract and returns its
// address.
func (m *Mock) ProvisionWallet(ctx context.Context, owners []string, threshold int) (string, error) {
	if err := m.sleep(ctx); err != nil {
		return "", err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.unavailable {
		return "", ErrLedgerUnavailable
	}

	address := "0x" + randomHex(20)
	m.contracts[address] = &WalletState{
		Owners:    append([]string(nil), owners...),
		Threshold: threshold,
		Balance:   "0",
	}
	return address, nil
}

// ReadWalletState returns the state of the contract at the given
// address.
func (m *Mock) ReadWalletState(ctx context.Context, address string) (*WalletState, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.unavailable {
		return nil, ErrLedgerUnavailable
	}

	state, ok := m.contracts[address]
	if !ok {
		return nil, errors.Wrapf(ErrLedgerUnavailable, "no contract at %s", address)
	}
	return copyState(state), nil
}

// ExecuteTransaction records the execution attempt and returns a random
// transaction hash, or the injected failure.
func (m *Mock) ExecuteTransaction(ctx context.Context, address string, txIndex uint64, destination string, value int64, data []byte) (string, error) {
	if err := m.sleep(ctx); err != nil {
		return "", err
	}
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.unavailable {
		return "", ErrLedgerUnavailable
	}

	if _, ok := m.contracts[address]; !ok {
		return "", errors.Wrapf(ErrLedgerUnavailable, "no contract at %s", address)
	}

	m.executeCalls++

	if m.executeErr != nil {
		err := m.executeErr
		m.executeErr = nil
		return "", err
	}

	return randomHex(32), nil
}

func (m *Mock) sleep(ctx context.Context) error {
	m.mtx.Lock()
	latency := m.latency
	m.mtx.Unlock()

	if latency == 0 {
		return nil
	}
	select {
	case <-time.After(latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func copyState(state *WalletState) *WalletState {
	return &WalletState{
		Owners:    append([]string(nil), state.Owners...),
		Threshold: state.Threshold,
		Balance:   state.Balance,
	}
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b)
	return hex.EncodeToString(b)
}
