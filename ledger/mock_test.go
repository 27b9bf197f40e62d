package ledger

import (
	"context"
	"testing"
	"time"
)

func TestMockProvisionAndRead(t *testing.T) {
	m := NewMock()

	address, err := m.ProvisionWallet(context.Background(), []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if address == "" {
		t.Fatal("Expected non-empty address")
	}

	state, err := m.ReadWalletState(context.Background(), address)
	if err != nil {
		t.Fatal(err)
	}
	if len(state.Owners) != 3 {
		t.Errorf("Expected 3 owners, got %d", len(state.Owners))
	}
	if state.Threshold != 2 {
		t.Errorf("Expected threshold 2, got %d", state.Threshold)
	}

	if _, err := m.ReadWalletState(context.Background(), "0xdeadbeef"); !IsUnavailable(err) {
		t.Errorf("Expected unavailable error for unknown contract, got %v", err)
	}
}

func TestMockUnavailable(t *testing.T) {
	m := NewMock()
	m.SetUnavailable(true)

	if _, err := m.ProvisionWallet(context.Background(), []string{"a"}, 1); !IsUnavailable(err) {
		t.Errorf("Expected unavailable error, got %v", err)
	}

	m.SetUnavailable(false)
	if _, err := m.ProvisionWallet(context.Background(), []string{"a"}, 1); err != nil {
		t.Errorf("Expected success after recovery, got %v", err)
	}
}

func TestMockExecute(t *testing.T) {
	m := NewMock()

	address, err := m.ProvisionWallet(context.Background(), []string{"a"}, 1)
	if err != nil {
		t.Fatal(err)
	}

	txHash, err := m.ExecuteTransaction(context.Background(), address, 0, "dest", 100, nil)
	if err != nil {
		t.Fatal(err)
	}
	if txHash == "" {
		t.Error("Expected non-empty transaction hash")
	}

	m.FailNextExecution("reverted")
	_, err = m.ExecuteTransaction(context.Background(), address, 1, "dest", 100, nil)
	if !IsExecutionError(err) {
		t.Errorf("Expected execution error, got %v", err)
	}
	if IsUnavailable(err) {
		t.Error("Execution error should not be classified as unavailable")
	}

	if calls := m.ExecuteCalls(); calls != 2 {
		t.Errorf("Expected 2 execute calls, got %d", calls)
	}
}

func TestMockLatencyHonorsContext(t *testing.T) {
	m := NewMock()
	m.SetLatency(time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond*10)
	defer cancel()

	_, err := m.ProvisionWallet(ctx, []string{"a"}, 1)
	if !IsUnavailable(err) {
		t.Errorf("Expected unavailable error on timeout, got %v", err)
	}
}
