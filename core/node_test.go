package core

import (
	"context"
	"testing"

	"github.com/covault/covault/events"
	"github.com/covault/covault/models"
)

// TestCovaultNode_RoundTrip walks a transaction through its full
// lifecycle: create a 2-of-3 wallet, submit, confirm twice, execute,
// then verify the transaction is closed.
func TestCovaultNode_RoundTrip(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.DestroyNode()

	executedSub, err := node.SubscribeEvent(&events.TransactionExecuted{})
	if err != nil {
		t.Fatal(err)
	}
	defer executedSub.Close()

	wallet, err := node.CreateWallet(context.Background(), "treasury", "main treasury wallet", []string{"A", "B", "C"}, 2)
	if err != nil {
		t.Fatal(err)
	}

	transaction, err := node.SubmitTransaction(wallet.ID, "D", 100, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := node.ConfirmTransaction(transaction.ID, "A")
	if err != nil {
		t.Fatal(err)
	}
	if result.Confirmations != 1 || result.QuorumReached {
		t.Errorf("Expected 1 confirmation without quorum, got %d (quorum %v)", result.Confirmations, result.QuorumReached)
	}

	result, err = node.ConfirmTransaction(transaction.ID, "B")
	if err != nil {
		t.Fatal(err)
	}
	if result.Confirmations != 2 || !result.QuorumReached {
		t.Errorf("Expected 2 confirmations with quorum, got %d (quorum %v)", result.Confirmations, result.QuorumReached)
	}
	if result.Transaction.Status != models.StatusConfirmed {
		t.Errorf("Expected confirmed status, got %s", result.Transaction.Status)
	}

	executed, err := node.ExecuteTransaction(context.Background(), transaction.ID)
	if err != nil {
		t.Fatal(err)
	}
	if executed.Status != models.StatusExecuted {
		t.Errorf("Expected executed status, got %s", executed.Status)
	}
	if executed.LedgerTxHash == "" {
		t.Error("Expected ledger tx hash to be set")
	}

	notif := <-executedSub.Out()
	event, ok := notif.(*events.TransactionExecuted)
	if !ok {
		t.Fatal("Notification is wrong type")
	}
	if event.TransactionID != transaction.ID {
		t.Errorf("Expected event for transaction %s, got %s", transaction.ID, event.TransactionID)
	}

	// A late confirmation from the third owner must be rejected.
	if _, err := node.ConfirmTransaction(transaction.ID, "C"); !IsInvalidStateError(err) {
		t.Errorf("Expected invalid state error, got %v", err)
	}
}

func TestCovaultNode_StartStop(t *testing.T) {
	node, err := MockNode()
	if err != nil {
		t.Fatal(err)
	}
	defer node.Repo().DestroyRepo()

	node.Start()
	node.Stop()
}
