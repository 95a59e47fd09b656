package testsupport

import (
	"testing"

	"librarian/internal/books"
	"librarian/internal/config"
	"librarian/internal/vinyl"
)

// MustOpenBooks opens the books store for a test config and closes it on
// cleanup.
func MustOpenBooks(t testing.TB, cfg *config.Config) *books.Store {
	t.Helper()
	store, err := books.Open(cfg.BooksDBPath())
	if err != nil {
		t.Fatalf("open books store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// MustOpenVinyl opens the vinyl store for a test config and closes it on
// cleanup.
func MustOpenVinyl(t testing.TB, cfg *config.Config) *vinyl.Store {
	t.Helper()
	store, err := vinyl.Open(cfg.VinylDBPath())
	if err != nil {
		t.Fatalf("open vinyl store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}
