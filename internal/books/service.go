package books

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"librarian/internal/services/openlibrary"
)

// Service orchestrates OpenLibrary lookups with collection persistence.
type Service struct {
	store  *Store
	client *openlibrary.Client
	logger *slog.Logger
}

// NewService wires a books service.
func NewService(store *Store, client *openlibrary.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, client: client, logger: logger.With("component", "books")}
}

// AddByISBN fetches the edition for an ISBN along with its works and
// authors, then upserts everything into the collection. Works contribute the
// description, and when a work carries an author list it supersedes the
// edition's own author references.
func (s *Service) AddByISBN(ctx context.Context, isbn string) (*AddResult, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, errors.New("isbn must not be empty")
	}

	book, err := s.client.GetBookByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}

	works := make([]*openlibrary.Work, 0, len(book.WorkKeys))
	for _, key := range book.WorkKeys {
		work, err := s.client.GetWork(ctx, key)
		if err != nil {
			return nil, err
		}
		works = append(works, work)
	}

	authorKeys := book.AuthorKeys
	if workAuthors := collectWorkAuthorKeys(works); len(workAuthors) > 0 {
		authorKeys = workAuthors
	}
	authorKeys = dedupe(authorKeys)

	authors := make([]*openlibrary.Author, 0, len(authorKeys))
	for _, key := range authorKeys {
		author, err := s.client.GetAuthor(ctx, key)
		if err != nil {
			return nil, err
		}
		authors = append(authors, author)
	}

	result, err := s.store.AddBook(ctx, book, works, authors)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "book added",
		"isbn", isbn,
		"title", result.Book.Title,
		"openlibrary_key", result.Book.OpenLibraryKey,
		"authors", len(result.Authors),
	)
	return result, nil
}

// List returns the collection contents from the read view.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	return s.store.List(ctx)
}

// Search runs a full-text query over book titles and author names.
func (s *Service) Search(ctx context.Context, query string) ([]Listing, error) {
	return s.store.Search(ctx, query)
}

func collectWorkAuthorKeys(works []*openlibrary.Work) []string {
	var keys []string
	for _, work := range works {
		keys = append(keys, work.AuthorKeys...)
	}
	return keys
}

func dedupe(values []string) []string {
	if len(values) < 2 {
		return values
	}
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
