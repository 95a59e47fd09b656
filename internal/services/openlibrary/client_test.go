package openlibrary_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"librarian/internal/services"
	"librarian/internal/services/openlibrary"
)

func TestGetBookByISBN(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/isbn/0140328726.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("User-Agent") == "" {
			t.Fatal("expected User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"title": "Fantastic Mr. Fox",
			"key": "/books/OL7353617M",
			"type": {"key": "/type/edition"},
			"isbn_10": ["0140328726"],
			"authors": [{"key": "/authors/OL34184A"}]
		}`))
	}))
	defer server.Close()

	client, err := openlibrary.New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	book, err := client.GetBookByISBN(t.Context(), "0140328726")
	if err != nil {
		t.Fatalf("GetBookByISBN: %v", err)
	}
	if book.Key != "OL7353617M" {
		t.Fatalf("unexpected key %q", book.Key)
	}
}

func TestGetBookByISBNNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	client, err := openlibrary.New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.GetBookByISBN(t.Context(), "0000000000"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAuthorServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := openlibrary.New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.GetAuthor(t.Context(), "OL34184A"); !errors.Is(err, services.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestGetWork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/works/OL45804W.json" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"title": "Fantastic Mr Fox",
			"key": "/works/OL45804W",
			"type": {"key": "/type/work"},
			"description": {"type": "/type/text", "value": "A clever fox."}
		}`))
	}))
	defer server.Close()

	client, err := openlibrary.New(server.URL)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	work, err := client.GetWork(t.Context(), "OL45804W")
	if err != nil {
		t.Fatalf("GetWork: %v", err)
	}
	if work.Description != "A clever fox." {
		t.Fatalf("unexpected description %q", work.Description)
	}
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	if _, err := openlibrary.New("   "); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}
