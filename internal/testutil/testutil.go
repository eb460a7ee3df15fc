// Package testutil provides shared test helpers for setting up content
// directories, catalogs, and state stores.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/sowilo/internal/catalog"
	"github.com/starford/sowilo/internal/statestore"
	"github.com/starford/sowilo/internal/storage"
)

// TestCatalog creates a temporary SQLite catalog that is automatically cleaned up.
func TestCatalog(t *testing.T) *catalog.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "sowilo-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := catalog.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestContentDir creates a temporary content directory with a storage.Provider.
func TestContentDir(t *testing.T) (string, storage.Provider) {
	t.Helper()
	contentDir := t.TempDir()
	store, err := storage.NewFS(contentDir)
	if err != nil {
		t.Fatal(err)
	}
	return contentDir, store
}

// TestStateStore creates a state store in a temporary directory.
func TestStateStore(t *testing.T) *statestore.Store {
	t.Helper()
	store, err := statestore.New(filepath.Join(t.TempDir(), "state"))
	if err != nil {
		t.Fatal(err)
	}
	return store
}

// WriteContent writes a Markdown file under the content directory, creating
// parent directories as needed.
func WriteContent(t *testing.T, contentDir, rel, body string) {
	t.Helper()
	full := filepath.Join(contentDir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}
