package core

import (
	"context"
	"sync"
	"testing"

	"github.com/covault/covault/models"
)

func TestCovaultNode_ConfirmTransaction(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	wallet, err := node.CreateWallet(context.Background(), "treasury", "", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	transaction, err := node.SubmitTransaction(wallet.ID, "dest", 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := node.ConfirmTransaction("nope", "a"); !IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if _, err := node.ConfirmTransaction(transaction.ID, "intruder"); !IsNotAnOwnerError(err) {
		t.Errorf("Expected not an owner error, got %v", err)
	}

	result, err := node.ConfirmTransaction(transaction.ID, "a")
	if err != nil {
		t.Fatal(err)
	}
	if result.Confirmations != 1 {
		t.Errorf("Expected 1 confirmation, got %d", result.Confirmations)
	}
	if result.QuorumReached {
		t.Error("Quorum should not be reached with 1 of 2 confirmations")
	}
	if result.Transaction.Status != models.StatusSubmitted {
		t.Errorf("Expected submitted status, got %s", result.Transaction.Status)
	}

	result, err = node.ConfirmTransaction(transaction.ID, "b")
	if err != nil {
		t.Fatal(err)
	}
	if result.Confirmations != 2 {
		t.Errorf("Expected 2 confirmations, got %d", result.Confirmations)
	}
	if !result.QuorumReached {
		t.Error("Quorum should be reached with 2 of 2 confirmations")
	}
	if result.Transaction.Status != models.StatusConfirmed {
		t.Errorf("Expected confirmed status, got %s", result.Transaction.Status)
	}
}

func TestCovaultNode_ConfirmTransactionIdempotent(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	wallet, err := node.CreateWallet(context.Background(), "treasury", "", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	transaction, err := node.SubmitTransaction(wallet.ID, "dest", 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		result, err := node.ConfirmTransaction(transaction.ID, "a")
		if err != nil {
			t.Fatal(err)
		}
		if result.Confirmations != 1 {
			t.Errorf("Expected 1 confirmation after repeat confirm, got %d", result.Confirmations)
		}
		if result.QuorumReached {
			t.Error("Repeated confirmations from one owner must not reach quorum")
		}
	}
}

func TestCovaultNode_ConfirmTransactionThresholdOne(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	wallet, err := node.CreateWallet(context.Background(), "solo", "", []string{"a"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	transaction, err := node.SubmitTransaction(wallet.ID, "dest", 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := node.ConfirmTransaction(transaction.ID, "a")
	if err != nil {
		t.Fatal(err)
	}
	if !result.QuorumReached {
		t.Error("Quorum should be reached on the first confirmation with threshold 1")
	}
	if result.Transaction.Status != models.StatusConfirmed {
		t.Errorf("Expected confirmed status, got %s", result.Transaction.Status)
	}
}

func TestCovaultNode_ConfirmClosedTransaction(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	wallet, err := node.CreateWallet(context.Background(), "treasury", "", []string{"a", "b", "c"}, 2)
	if err != nil {
		t.Fatal(err)
	}
	transaction, err := node.SubmitTransaction(wallet.ID, "dest", 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := node.ConfirmTransaction(transaction.ID, "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := node.ConfirmTransaction(transaction.ID, "b"); err != nil {
		t.Fatal(err)
	}
	if _, err := node.ExecuteTransaction(context.Background(), transaction.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := node.ConfirmTransaction(transaction.ID, "c"); !IsInvalidStateError(err) {
		t.Errorf("Expected invalid state error confirming an executed transaction, got %v", err)
	}
}

func TestCovaultNode_ConcurrentConfirms(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	owners := []string{"a", "b", "c", "d", "e"}
	wallet, err := node.CreateWallet(context.Background(), "treasury", "", owners, 5)
	if err != nil {
		t.Fatal(err)
	}
	transaction, err := node.SubmitTransaction(wallet.ID, "dest", 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	var (
		wg         sync.WaitGroup
		mtx        sync.Mutex
		quorumSeen int
	)
	for _, owner := range owners {
		wg.Add(1)
		go func(owner string) {
			defer wg.Done()
			result, err := node.ConfirmTransaction(transaction.ID, owner)
			if err != nil {
				t.Error(err)
				return
			}
			if result.QuorumReached {
				mtx.Lock()
				quorumSeen++
				mtx.Unlock()
			}
		}(owner)
	}
	wg.Wait()

	// Exactly one confirm call observes the transition to quorum.
	if quorumSeen != 1 {
		t.Errorf("Expected exactly 1 caller to see quorum reached, got %d", quorumSeen)
	}

	loaded, err := node.GetTransaction(transaction.ID)
	if err != nil {
		t.Fatal(err)
	}
	confirmations, err := loaded.Confirmations()
	if err != nil {
		t.Fatal(err)
	}
	if len(confirmations) != 5 {
		t.Errorf("Expected 5 confirmations, got %d", len(confirmations))
	}
	if loaded.Status != models.StatusConfirmed {
		t.Errorf("Expected confirmed status, got %s", loaded.Status)
	}
}
