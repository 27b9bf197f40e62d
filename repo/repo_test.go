package repo

import (
	"os"
	"path"
	"testing"
)

func TestNewRepo(t *testing.T) {
	r, err := MockRepo()
	if err != nil {
		t.Fatal(err)
	}
	defer r.DestroyRepo()

	if _, err := os.Stat(path.Join(r.DataDir(), "datastore")); os.IsNotExist(err) {
		t.Error("Datastore directory was not created")
	}
	if _, err := os.Stat(path.Join(r.DataDir(), versionFileName)); os.IsNotExist(err) {
		t.Error("Version file was not created")
	}

	r.Close()
}

func TestCleanAndExpandPath(t *testing.T) {
	expanded := cleanAndExpandPath("~/somedir")
	if expanded == "~/somedir" {
		t.Error("Tilde was not expanded")
	}
}
