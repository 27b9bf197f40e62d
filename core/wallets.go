package core

import (
	"context"
	"time"

	"github.com/covault/covault/events"
	"github.com/covault/covault/ledger"
	"github.com/covault/covault/models"
	"github.com/jinzhu/gorm"
)

// CreateWallet provisions a new multisig contract on the external
// ledger with the given owners and threshold and records it locally.
func (n *CovaultNode) CreateWallet(ctx context.Context, name, description string, owners []string, threshold int) (*models.Wallet, error) {
	if name == "" {
		return nil, NewError(ErrInvalidInput, "name is required")
	}
	if err := models.ValidateOwners(owners, threshold); err != nil {
		return nil, NewError(ErrInvalidInput, "%s", err.Error())
	}

	lctx, cancel := n.ledgerContext(ctx)
	defer cancel()

	address, err := n.ledgerClient.ProvisionWallet(lctx, owners, threshold)
	if err != nil {
		return nil, NewError(ErrExternalUnavailable, "provision wallet: %s", err.Error())
	}

	wallet := &models.Wallet{
		ID:            newID(),
		LedgerAddress: address,
		Name:          name,
		Description:   description,
		Threshold:     threshold,
		Balance:       "0",
		LastSynced:    time.Now(),
	}
	if err := wallet.SetOwners(owners); err != nil {
		return nil, err
	}

	err = n.repo.DB().Update(func(tx *gorm.DB) error {
		return tx.Create(wallet).Error
	})
	if err != nil {
		// The contract exists on the ledger but we failed to record
		// it. Log the address so an operator can reconcile by linking
		// the wallet manually.
		log.Errorf("Failed to persist wallet for provisioned contract %s: %s", address, err)
		return nil, err
	}

	log.Infof("Created wallet %s at ledger address %s", wallet.ID, address)
	n.eventBus.Emit(&events.WalletCreated{
		WalletID:      wallet.ID,
		LedgerAddress: address,
	})
	return wallet, nil
}

// LinkWallet attaches a pre-existing ledger contract to a new local
// wallet record and imports its observed owners and threshold. If the
// ledger read fails the wallet is still recorded with a non-fatal sync
// warning so that operators can register wallets while the ledger is
// transiently unreachable.
func (n *CovaultNode) LinkWallet(ctx context.Context, name, description, ledgerAddress string) (*models.Wallet, error) {
	if name == "" {
		return nil, NewError(ErrInvalidInput, "name is required")
	}
	if ledgerAddress == "" {
		return nil, NewError(ErrInvalidInput, "ledger address is required")
	}

	var existing models.Wallet
	err := n.repo.DB().View(func(tx *gorm.DB) error {
		return tx.Where("ledger_address = ?", ledgerAddress).First(&existing).Error
	})
	if err == nil {
		return nil, NewError(ErrInvalidInput, "ledger address %s is already linked to wallet %s", ledgerAddress, existing.ID)
	} else if !gorm.IsRecordNotFoundError(err) {
		return nil, err
	}

	wallet := &models.Wallet{
		ID:            newID(),
		LedgerAddress: ledgerAddress,
		Name:          name,
		Description:   description,
	}

	lctx, cancel := n.ledgerContext(ctx)
	defer cancel()

	state, err := n.ledgerClient.ReadWalletState(lctx, ledgerAddress)
	if err != nil {
		wallet.SyncWarning = "ledger state could not be read at link time: " + err.Error()
		log.Warningf("Linking wallet %s without ledger state: %s", wallet.ID, err)
	} else {
		if err := wallet.SetOwners(state.Owners); err != nil {
			return nil, err
		}
		wallet.Threshold = state.Threshold
		wallet.Balance = state.Balance
		wallet.LastSynced = time.Now()
	}

	err = n.repo.DB().Update(func(tx *gorm.DB) error {
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, err
	}

	log.Infof("Linked wallet %s to ledger address %s", wallet.ID, ledgerAddress)
	n.eventBus.Emit(&events.WalletLinked{
		WalletID:      wallet.ID,
		LedgerAddress: ledgerAddress,
		SyncWarning:   wallet.SyncWarning,
	})
	return wallet, nil
}

// GetWallet returns the wallet with the given ID.
func (n *CovaultNode) GetWallet(walletID string) (*models.Wallet, error) {
	var wallet models.Wallet
	err := n.repo.DB().View(func(tx *gorm.DB) error {
		return tx.Where("id = ?", walletID).First(&wallet).Error
	})
	if gorm.IsRecordNotFoundError(err) {
		return nil, NewError(ErrNotFound, "wallet %s not found", walletID)
	} else if err != nil {
		return nil, err
	}
	return &wallet, nil
}

// RefreshWallet re-reads the wallet's owners, threshold and balance
// from the external ledger. If the read fails the last-known snapshot
// is returned annotated with a warning rather than failing the call.
func (n *CovaultNode) RefreshWallet(ctx context.Context, walletID string) (*models.Wallet, error) {
	wallet, err := n.GetWallet(walletID)
	if err != nil {
		return nil, err
	}

	lctx, cancel := n.ledgerContext(ctx)
	defer cancel()

	state, err := n.ledgerClient.ReadWalletState(lctx, wallet.LedgerAddress)
	if err != nil {
		// Stale-but-available is preferred to unavailable.
		wallet.SyncWarning = "ledger state could not be refreshed: " + err.Error()
		if dbErr := n.saveWallet(wallet); dbErr != nil {
			return nil, dbErr
		}
		log.Warningf("Refresh of wallet %s failed, returning stale snapshot: %s", walletID, err)
		return wallet, nil
	}

	if err := wallet.SetOwners(state.Owners); err != nil {
		return nil, err
	}
	wallet.Threshold = state.Threshold
	wallet.Balance = state.Balance
	wallet.SyncWarning = ""
	wallet.LastSynced = time.Now()

	if err := n.saveWallet(wallet); err != nil {
		return nil, err
	}

	n.eventBus.Emit(&events.WalletSynced{
		WalletID: wallet.ID,
		Balance:  wallet.Balance,
	})
	return wallet, nil
}

func (n *CovaultNode) saveWallet(wallet *models.Wallet) error {
	return n.repo.DB().Update(func(tx *gorm.DB) error {
		return tx.Save(wallet).Error
	})
}

// LedgerClient returns the node's ledger client.
func (n *CovaultNode) LedgerClient() ledger.Client {
	return n.ledgerClient
}
