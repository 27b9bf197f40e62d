package core

import (
	"context"
	"time"

	"github.com/covault/covault/models"
	"github.com/jinzhu/gorm"
)

// syncWallets periodically refreshes every wallet's on-chain state so
// that balances and owner sets stay reasonably fresh without callers
// having to pull. It runs until the node is stopped.
func (n *CovaultNode) syncWallets() {
	ticker := time.NewTicker(n.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-n.shutdown:
			return
		case <-ticker.C:
			var wallets []models.Wallet
			err := n.repo.DB().View(func(tx *gorm.DB) error {
				return tx.Find(&wallets).Error
			})
			if err != nil {
				log.Errorf("Wallet sync: %s", err)
				continue
			}
			for _, wallet := range wallets {
				if _, err := n.RefreshWallet(context.Background(), wallet.ID); err != nil {
					log.Errorf("Wallet sync for %s: %s", wallet.ID, err)
				}
			}
		}
	}
}
