package repo

import "github.com/jinzhu/gorm"

// Database is an interface which exposes the minimal amount of methods
// needed to atomically read and write to the coordinator's data store.
type Database interface {
	// View invokes the passed function in the context of a managed
	// read-only transaction. Any errors returned from the user-supplied
	// function are returned from this function.
	View(fn func(tx *gorm.DB) error) error

	// Update invokes the passed function in the context of a managed
	// read-write transaction. Any errors returned from the user-supplied
	// function will cause the transaction to be rolled back and are
	// returned from this function. Otherwise, the transaction is
	// committed when the user-supplied function returns a nil error.
	Update(fn func(tx *gorm.DB) error) error

	// Close cleanly shuts down the database and syncs all data. It will
	// block until all database transactions have been finalized (rolled
	// back or committed).
	Close() error
}
