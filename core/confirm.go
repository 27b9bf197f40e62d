package core

import (
	"github.com/covault/covault/events"
	"github.com/covault/covault/models"
	"github.com/jinzhu/gorm"
)

// ConfirmationResult is returned by ConfirmTransaction.
type ConfirmationResult struct {
	Transaction   *models.Transaction
	Confirmations int
	QuorumReached bool
}

// ConfirmTransaction records the given owner's confirmation of the
// transaction. Confirming twice with the same owner is a no-op that
// returns the current count rather than an error, so owners may retry
// safely. The confirmation count and the quorum check are evaluated
// atomically under the per-transaction lock; the moment the count
// reaches the wallet's threshold the transaction transitions to the
// confirmed state.
func (n *CovaultNode) ConfirmTransaction(transactionID, ownerAddress string) (*ConfirmationResult, error) {
	if ownerAddress == "" {
		return nil, NewError(ErrInvalidInput, "owner address is required")
	}

	n.locker.Lock(transactionID)
	defer n.locker.Unlock(transactionID)

	transaction, err := n.GetTransaction(transactionID)
	if err != nil {
		return nil, err
	}
	wallet, err := n.GetWallet(transaction.WalletID)
	if err != nil {
		return nil, err
	}

	isOwner, err := wallet.IsOwner(ownerAddress)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, NewError(ErrNotAnOwner, "%s is not an owner of wallet %s", ownerAddress, wallet.ID)
	}

	if !transaction.Open() {
		if transaction.Status == models.StatusExecuting {
			return nil, NewError(ErrInvalidState, "execution already in progress")
		}
		return nil, NewError(ErrInvalidState, "transaction is closed with status %s", transaction.Status)
	}

	added, err := transaction.AddConfirmation(ownerAddress)
	if err != nil {
		return nil, err
	}

	confirmations, err := transaction.Confirmations()
	if err != nil {
		return nil, err
	}
	count := len(confirmations)
	quorumReached := wallet.Threshold > 0 && count >= wallet.Threshold

	if added {
		if quorumReached && transaction.Status == models.StatusSubmitted {
			transaction.Status = models.StatusConfirmed
		}
		err = n.repo.DB().Update(func(tx *gorm.DB) error {
			return tx.Save(transaction).Error
		})
		if err != nil {
			return nil, err
		}

		log.Infof("Transaction %s confirmed by %s (%d/%d)", transactionID, ownerAddress, count, wallet.Threshold)
		n.eventBus.Emit(&events.TransactionConfirmed{
			TransactionID: transactionID,
			Owner:         ownerAddress,
			Confirmations: count,
			QuorumReached: quorumReached,
		})
	}

	return &ConfirmationResult{
		Transaction:   transaction,
		Confirmations: count,
		QuorumReached: quorumReached,
	}, nil
}
