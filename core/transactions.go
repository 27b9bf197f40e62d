package core

import (
	"github.com/covault/covault/events"
	"github.com/covault/covault/models"
	"github.com/jinzhu/gorm"
)

// SubmitTransaction proposes a new transaction for the given wallet.
// The transaction is assigned the wallet's next sequence index and
// starts in the submitted state with zero confirmations. Submission
// never implicitly confirms; every owner, including the submitter,
// must issue an explicit confirmation.
func (n *CovaultNode) SubmitTransaction(walletID, destination string, value int64, data []byte) (*models.Transaction, error) {
	if destination == "" {
		return nil, NewError(ErrInvalidInput, "destination is required")
	}
	if value < 0 {
		return nil, NewError(ErrInvalidInput, "value must not be negative")
	}
	if _, err := n.GetWallet(walletID); err != nil {
		return nil, err
	}

	transaction := &models.Transaction{
		ID:          newID(),
		WalletID:    walletID,
		Destination: destination,
		Value:       value,
		Data:        data,
		Status:      models.StatusSubmitted,
	}

	// The sequence assignment and the insert must commit together so
	// an index is never reused.
	err := n.repo.DB().Update(func(tx *gorm.DB) error {
		var wallet models.Wallet
		if err := tx.Where("id = ?", walletID).First(&wallet).Error; err != nil {
			return err
		}
		transaction.SequenceIndex = wallet.NextSequence
		wallet.NextSequence++
		if err := tx.Save(&wallet).Error; err != nil {
			return err
		}
		return tx.Create(transaction).Error
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Submitted transaction %s (wallet %s, sequence %d)", transaction.ID, walletID, transaction.SequenceIndex)
	n.eventBus.Emit(&events.TransactionSubmitted{
		WalletID:      walletID,
		TransactionID: transaction.ID,
		SequenceIndex: transaction.SequenceIndex,
	})
	return transaction, nil
}

// GetTransaction returns the transaction with the given ID.
func (n *CovaultNode) GetTransaction(transactionID string) (*models.Transaction, error) {
	var transaction models.Transaction
	err := n.repo.DB().View(func(tx *gorm.DB) error {
		return tx.Where("id = ?", transactionID).First(&transaction).Error
	})
	if gorm.IsRecordNotFoundError(err) {
		return nil, NewError(ErrNotFound, "transaction %s not found", transactionID)
	} else if err != nil {
		return nil, err
	}
	return &transaction, nil
}

// ListTransactions returns all transactions for the given wallet
// ordered by sequence index.
func (n *CovaultNode) ListTransactions(walletID string) ([]models.Transaction, error) {
	if _, err := n.GetWallet(walletID); err != nil {
		return nil, err
	}
	var transactions []models.Transaction
	err := n.repo.DB().View(func(tx *gorm.DB) error {
		return tx.Where("wallet_id = ?", walletID).Order("sequence_index asc").Find(&transactions).Error
	})
	if err != nil {
		return nil, err
	}
	return transactions, nil
}
