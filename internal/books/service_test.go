package books_test

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"librarian/internal/books"
	"librarian/internal/services/openlibrary"
	"librarian/internal/testsupport"
)

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/isbn/0140328726.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"title": "Fantastic Mr. Fox",
			"key": "/books/OL7353617M",
			"type": {"key": "/type/edition"},
			"publish_date": "October 1, 1988",
			"publishers": ["Puffin"],
			"isbn_10": ["0140328726"],
			"isbn_13": ["9780140328721"],
			"covers": [8739161],
			"authors": [{"key": "/authors/OL34184A"}],
			"works": [{"key": "/works/OL45804W"}],
			"number_of_pages": 96
		}`)
	})
	mux.HandleFunc("/works/OL45804W.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"title": "Fantastic Mr Fox",
			"key": "/works/OL45804W",
			"type": {"key": "/type/work"},
			"authors": [{"author": {"key": "/authors/OL34184A"}}],
			"description": "The main character of Fantastic Mr Fox is an extremely clever fox."
		}`)
	})
	mux.HandleFunc("/authors/OL34184A.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "Roald Dahl",
			"key": "/authors/OL34184A",
			"type": {"key": "/type/author"},
			"birth_date": "13 September 1916"
		}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestAddByISBNEndToEnd(t *testing.T) {
	server := newCatalogServer(t)
	ctx := t.Context()

	cfg := testsupport.NewConfig(t, testsupport.WithOpenLibraryURL(server.URL))
	store := testsupport.MustOpenBooks(t, cfg)

	client, err := openlibrary.New(cfg.OpenLibrary.BaseURL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	service := books.NewService(store, client, slog.New(slog.DiscardHandler))

	first, err := service.AddByISBN(ctx, "0140328726")
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Book.Title != "Fantastic Mr. Fox" {
		t.Fatalf("unexpected title %q", first.Book.Title)
	}
	if first.Book.Description != "The main character of Fantastic Mr Fox is an extremely clever fox." {
		t.Fatalf("expected work description, got %q", first.Book.Description)
	}
	if len(first.Authors) != 1 || first.Authors[0].Name != "Roald Dahl" {
		t.Fatalf("unexpected authors %+v", first.Authors)
	}

	// Re-adding the same ISBN must touch the same rows.
	second, err := service.AddByISBN(ctx, "0140328726")
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.Book.ID != first.Book.ID {
		t.Fatalf("surrogate id changed: %d != %d", second.Book.ID, first.Book.ID)
	}
	if second.Authors[0].ID != first.Authors[0].ID {
		t.Fatalf("author id changed: %d != %d", second.Authors[0].ID, first.Authors[0].ID)
	}

	listings, err := service.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected one listing, got %d", len(listings))
	}
	if listings[0].ISBN != "9780140328721" {
		t.Fatalf("expected ISBN-13 in listing, got %q", listings[0].ISBN)
	}
	if listings[0].Authors != "Roald Dahl" {
		t.Fatalf("unexpected authors %q", listings[0].Authors)
	}
}

func TestAddByISBNRejectsEmpty(t *testing.T) {
	service := books.NewService(nil, nil, nil)
	if _, err := service.AddByISBN(t.Context(), "  "); err == nil {
		t.Fatal("expected error for empty isbn")
	}
}
