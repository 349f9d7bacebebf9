package weavetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// Use it instead of store.MemStore when a test needs the exact storage
// implementation the daemon is using.
func CommitKVStore(t testing.TB) (db custody.CommitKVStore, cleanup func()) {
	t.Helper()
	dbpath, err := ioutil.TempDir("", "custody-")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	cs, err := iavl.NewCommitStore(dbpath, "db")
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot create commit store: %s", err)
	}
	return cs, func() { os.RemoveAll(dbpath) }
}
