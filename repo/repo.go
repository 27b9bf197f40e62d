package repo

import (
	"io/ioutil"
	"os"
	"path"
	"strconv"

	"github.com/covault/covault/models"
	"github.com/jinzhu/gorm"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

const (
	// defaultRepoVersion is the current repo version used for migrations.
	defaultRepoVersion = 0

	// versionFileName is the name of the version file.
	versionFileName = "version"
)

var log = logging.MustGetLogger("REPO")

// Repo is a representation of a covault data directory.
// In this we store:
// - The covault.conf file
// - The log directory
// - The covault database
type Repo struct {
	db      Database
	dataDir string
}

// NewRepo returns a new Repo for the given data directory. It will
// be initialized if it is not yet.
func NewRepo(dataDir string) (*Repo, error) {
	return newRepo(dataDir, false)
}

// MockRepo returns a repo which uses a tmp data directory
// and in-memory database.
func MockRepo() (*Repo, error) {
	dataDir, err := ioutil.TempDir(os.TempDir(), "covault-test")
	if err != nil {
		return nil, err
	}
	return newRepo(dataDir, true)
}

func newRepo(dataDir string, inMemory bool) (*Repo, error) {
	if err := os.MkdirAll(path.Join(dataDir, "datastore"), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(path.Join(dataDir, defaultLogDirname), 0755); err != nil {
		return nil, err
	}

	var (
		db  Database
		err error
	)
	if inMemory {
		db, err = NewMemoryDB()
	} else {
		db, err = NewSqliteDB(dataDir)
	}
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := autoMigrateDatabase(db); err != nil {
		return nil, errors.Wrap(err, "migrate database")
	}

	if err := writeRepoVersion(dataDir); err != nil {
		return nil, err
	}

	return &Repo{db: db, dataDir: dataDir}, nil
}

// DB returns the database implementation.
func (r *Repo) DB() Database {
	return r.db
}

// DataDir returns the data directory associated with this repo.
func (r *Repo) DataDir() string {
	return r.dataDir
}

// Close will close the repo and associated databases.
func (r *Repo) Close() {
	if err := r.db.Close(); err != nil {
		log.Errorf("Error closing database: %s", err)
	}
}

// DestroyRepo deletes the entire directory. Do NOT use outside of tests.
func (r *Repo) DestroyRepo() error {
	return os.RemoveAll(r.dataDir)
}

func autoMigrateDatabase(db Database) error {
	dbModels := []interface{}{
		&models.Wallet{},
		&models.Transaction{},
	}
	return db.Update(func(tx *gorm.DB) error {
		for _, m := range dbModels {
			if err := tx.AutoMigrate(m).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func writeRepoVersion(dataDir string) error {
	versionFile := path.Join(dataDir, versionFileName)
	if _, err := os.Stat(versionFile); os.IsNotExist(err) {
		return ioutil.WriteFile(versionFile, []byte(strconv.Itoa(defaultRepoVersion)), 0644)
	}
	return nil
}
