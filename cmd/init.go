package cmd

import (
	"errors"
	"os"
	"path"

	"github.com/covault/covault/repo"
)

// Init initializes a new covault data directory at the provided path.
type Init struct {
	DataDir string `short:"d" long:"datadir" description:"Directory to store data"`
	Force   bool   `short:"f" long:"force" description:"Force overwrite existing repo (dangerous!)"`
}

// Execute initializes the covault data directory.
func (x *Init) Execute(args []string) error {
	if x.DataDir == "" {
		x.DataDir = repo.DefaultHomeDir
	}

	if _, err := os.Stat(path.Join(x.DataDir, "datastore")); !os.IsNotExist(err) {
		if !x.Force {
			return errors.New("node is already initialized")
		}
		if err := os.RemoveAll(x.DataDir); err != nil {
			return err
		}
	}

	r, err := repo.NewRepo(x.DataDir)
	if err != nil {
		return err
	}
	defer r.Close()

	log.Infof("Initialized covault data directory at %s", x.DataDir)
	return nil
}
