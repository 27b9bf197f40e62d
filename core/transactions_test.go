package core

import (
	"context"
	"testing"

	"github.com/covault/covault/models"
)

func TestCovaultNode_SubmitTransaction(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	wallet, err := node.CreateWallet(context.Background(), "treasury", "", []string{"a", "b"}, 2)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := node.SubmitTransaction("nope", "dest", 100, nil); !IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
	if _, err := node.SubmitTransaction(wallet.ID, "", 100, nil); !IsInvalidInputError(err) {
		t.Errorf("Expected invalid input error, got %v", err)
	}
	if _, err := node.SubmitTransaction(wallet.ID, "dest", -1, nil); !IsInvalidInputError(err) {
		t.Errorf("Expected invalid input error, got %v", err)
	}

	transaction, err := node.SubmitTransaction(wallet.ID, "dest", 100, []byte{0x01})
	if err != nil {
		t.Fatal(err)
	}
	if transaction.Status != models.StatusSubmitted {
		t.Errorf("Expected submitted status, got %s", transaction.Status)
	}
	if transaction.SequenceIndex != 0 {
		t.Errorf("Expected sequence index 0, got %d", transaction.SequenceIndex)
	}
	confirmations, err := transaction.Confirmations()
	if err != nil {
		t.Fatal(err)
	}
	if len(confirmations) != 0 {
		t.Errorf("Expected zero confirmations, got %d", len(confirmations))
	}
}

func TestCovaultNode_SequenceIndexIncreases(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	wallet, err := node.CreateWallet(context.Background(), "treasury", "", []string{"a"}, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := uint64(0); i < 5; i++ {
		transaction, err := node.SubmitTransaction(wallet.ID, "dest", 10, nil)
		if err != nil {
			t.Fatal(err)
		}
		if transaction.SequenceIndex != i {
			t.Errorf("Expected sequence index %d, got %d", i, transaction.SequenceIndex)
		}
	}

	// A second wallet gets its own sequence.
	wallet2, err := node.CreateWallet(context.Background(), "ops", "", []string{"a"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	transaction, err := node.SubmitTransaction(wallet2.ID, "dest", 10, nil)
	if err != nil {
		t.Fatal(err)
	}
	if transaction.SequenceIndex != 0 {
		t.Errorf("Expected sequence index 0 for new wallet, got %d", transaction.SequenceIndex)
	}
}

func TestCovaultNode_ListTransactions(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	wallet, err := node.CreateWallet(context.Background(), "treasury", "", []string{"a"}, 1)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := node.SubmitTransaction(wallet.ID, "dest", int64(i), nil); err != nil {
			t.Fatal(err)
		}
	}

	transactions, err := node.ListTransactions(wallet.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(transactions) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(transactions))
	}
	for i, transaction := range transactions {
		if transaction.SequenceIndex != uint64(i) {
			t.Errorf("Expected sequence index %d at position %d, got %d", i, i, transaction.SequenceIndex)
		}
	}

	if _, err := node.ListTransactions("nope"); !IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}
