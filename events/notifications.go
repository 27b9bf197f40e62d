package events

// WalletCreated is an event that fires when a new wallet has been
// provisioned on the external ledger and recorded locally.
type WalletCreated struct {
	WalletID      string `json:"walletID"`
	LedgerAddress string `json:"ledgerAddress"`
}

// WalletLinked is an event that fires when an existing ledger contract
// has been attached to a new local wallet record. SyncWarning is
// non-empty if the initial ledger read failed.
type WalletLinked struct {
	WalletID      string `json:"walletID"`
	LedgerAddress string `json:"ledgerAddress"`
	SyncWarning   string `json:"syncWarning,omitempty"`
}

// WalletSynced is an event that fires whenever a wallet's on-chain
// state has been successfully refreshed.
type WalletSynced struct {
	WalletID string `json:"walletID"`
	Balance  string `json:"balance"`
}

// TransactionSubmitted is an event that fires when a new transaction
// has been proposed for a wallet.
type TransactionSubmitted struct {
	WalletID      string `json:"walletID"`
	TransactionID string `json:"transactionID"`
	SequenceIndex uint64 `json:"sequenceIndex"`
}

// TransactionConfirmed is an event that fires when an owner records a
// new confirmation on a transaction.
type TransactionConfirmed struct {
	TransactionID string `json:"transactionID"`
	Owner         string `json:"owner"`
	Confirmations int    `json:"confirmations"`
	QuorumReached bool   `json:"quorumReached"`
}

// TransactionExecuted is an event that fires when the external ledger
// has accepted a transaction's execution.
type TransactionExecuted struct {
	TransactionID string `json:"transactionID"`
	LedgerTxHash  string `json:"ledgerTxHash"`
}

// TransactionFailed is an event that fires when an execution attempt
// was rejected by the external ledger.
type TransactionFailed struct {
	TransactionID string `json:"transactionID"`
	Reason        string `json:"reason"`
}
