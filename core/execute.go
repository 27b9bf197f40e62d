package core

import (
	"context"

	"github.com/covault/covault/events"
	"github.com/covault/covault/ledger"
	"github.com/covault/covault/models"
	"github.com/jinzhu/gorm"
)

// ExecuteTransaction dispatches the transaction to the external ledger
// for execution once quorum has been reached.
//
// The execute-once guarantee works in three phases. Under the
// per-transaction lock the status and quorum are checked and the
// transaction is claimed by flipping its status to executing. The
// external call then runs with the lock released and a bounded
// timeout. Finally the result is recorded under the lock again. A
// competing execute call observes the executing status and fails fast,
// so at most one external execution attempt can ever be in flight.
//
// A failed transaction may be executed again without re-collecting
// confirmations; failed here means the ledger call errored, not that
// the owners' intent became invalid.
func (n *CovaultNode) ExecuteTransaction(ctx context.Context, transactionID string) (*models.Transaction, error) {
	transaction, wallet, err := n.claimTransaction(transactionID)
	if err != nil {
		return nil, err
	}

	lctx, cancel := n.ledgerContext(ctx)
	defer cancel()

	txHash, execErr := n.ledgerClient.ExecuteTransaction(
		lctx,
		wallet.LedgerAddress,
		transaction.SequenceIndex,
		transaction.Destination,
		transaction.Value,
		transaction.Data,
	)

	return n.finalizeExecution(transaction, txHash, execErr)
}

// claimTransaction checks that the transaction is executable and flips
// its status to executing under the per-transaction lock. If the
// external call later fails transiently, finalizeExecution releases
// the claim by restoring the confirmed status.
func (n *CovaultNode) claimTransaction(transactionID string) (*models.Transaction, *models.Wallet, error) {
	n.locker.Lock(transactionID)
	defer n.locker.Unlock(transactionID)

	transaction, err := n.GetTransaction(transactionID)
	if err != nil {
		return nil, nil, err
	}
	wallet, err := n.GetWallet(transaction.WalletID)
	if err != nil {
		return nil, nil, err
	}

	switch transaction.Status {
	case models.StatusExecuted:
		return nil, nil, NewError(ErrInvalidState, "already executed")
	case models.StatusExecuting:
		return nil, nil, NewError(ErrInvalidState, "execution already in progress")
	}

	confirmations, err := transaction.Confirmations()
	if err != nil {
		return nil, nil, err
	}
	if wallet.Threshold < 1 || len(confirmations) < wallet.Threshold {
		return nil, nil, NewError(ErrInvalidState, "quorum not met: %d of %d confirmations", len(confirmations), wallet.Threshold)
	}

	transaction.Status = models.StatusExecuting
	err = n.repo.DB().Update(func(tx *gorm.DB) error {
		return tx.Save(transaction).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return transaction, wallet, nil
}

// finalizeExecution records the outcome of the external call under the
// per-transaction lock.
func (n *CovaultNode) finalizeExecution(transaction *models.Transaction, txHash string, execErr error) (*models.Transaction, error) {
	n.locker.Lock(transaction.ID)
	defer n.locker.Unlock(transaction.ID)

	var returnErr error
	switch {
	case execErr == nil:
		transaction.Status = models.StatusExecuted
		transaction.LedgerTxHash = txHash
		transaction.ErrorDetail = ""

	case ledger.IsExecutionError(execErr):
		transaction.Status = models.StatusFailed
		transaction.ErrorDetail = execErr.Error()
		returnErr = NewError(ErrExecutionFailed, "%s", execErr.Error())

	default:
		// The ledger could not be reached. Release the claim and leave
		// the transaction as it was so the caller can retry.
		transaction.Status = models.StatusConfirmed
		returnErr = NewError(ErrExternalUnavailable, "execute transaction: %s", execErr.Error())
	}

	err := n.repo.DB().Update(func(tx *gorm.DB) error {
		return tx.Save(transaction).Error
	})
	if err != nil {
		if execErr == nil {
			// The ledger executed but we failed to record it. Log the
			// hash so an operator can reconcile.
			log.Errorf("Failed to record execution of transaction %s (ledger hash %s): %s", transaction.ID, txHash, err)
		}
		return nil, err
	}

	switch {
	case execErr == nil:
		log.Infof("Transaction %s executed, ledger hash %s", transaction.ID, txHash)
		n.eventBus.Emit(&events.TransactionExecuted{
			TransactionID: transaction.ID,
			LedgerTxHash:  txHash,
		})
	case ledger.IsExecutionError(execErr):
		log.Warningf("Transaction %s failed: %s", transaction.ID, execErr)
		n.eventBus.Emit(&events.TransactionFailed{
			TransactionID: transaction.ID,
			Reason:        execErr.Error(),
		})
	}

	if returnErr != nil {
		return nil, returnErr
	}
	return transaction, nil
}
