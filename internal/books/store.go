package books

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"librarian/internal/services"
	"librarian/internal/services/openlibrary"
	"librarian/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

const booksView = `
CREATE VIEW books_with_authors AS
SELECT
    b.id AS id,
    b.title AS title,
    coalesce(b.isbn_13, b.isbn_10) AS isbn,
    (
        SELECT group_concat(a.name, ', ')
        FROM books_authors ba
        JOIN authors a ON a.id = ba.author_id
        WHERE ba.book_id = b.id
        ORDER BY a.name
    ) AS authors
FROM books b`

// Store manages book collection persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the books database, applies the schema,
// and rebuilds the read view.
func Open(path string) (*Store, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	// The view is derived state, rebuild it on every open so definition
	// changes take effect without migrations.
	if _, err := tx.ExecContext(ctx, "DROP VIEW IF EXISTS books_with_authors"); err != nil {
		return fmt.Errorf("drop view: %w", err)
	}
	if _, err := tx.ExecContext(ctx, booksView); err != nil {
		return fmt.Errorf("create view: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// AddBook upserts a normalized book, its authors, the links between them,
// and the raw payload archive, all inside one transaction. Re-adding the
// same book updates rows in place and keeps their surrogate ids stable.
func (s *Store) AddBook(ctx context.Context, book *openlibrary.Book, works []*openlibrary.Work, authors []*openlibrary.Author) (*AddResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "add", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.archiveEntity(ctx, tx, book.Key, "book", book.Raw); err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "add", "archive book payload", err)
	}
	for _, work := range works {
		if err := s.archiveEntity(ctx, tx, work.Key, "work", work.Raw); err != nil {
			return nil, services.Wrap(services.ErrStorage, "books", "add", "archive work payload", err)
		}
	}
	for _, author := range authors {
		if err := s.archiveEntity(ctx, tx, author.Key, "author", author.Raw); err != nil {
			return nil, services.Wrap(services.ErrStorage, "books", "add", "archive author payload", err)
		}
	}

	row, err := s.upsertBook(ctx, tx, book, works)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "add", "upsert book", err)
	}

	result := &AddResult{Book: *row}
	for _, author := range authors {
		authorRow, err := s.upsertAuthor(ctx, tx, author)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "books", "add", "upsert author", err)
		}
		result.Authors = append(result.Authors, *authorRow)
	}
	if err := linkAuthors(ctx, tx, row.ID, result.Authors); err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "add", "link authors", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "add", "commit", err)
	}
	return result, nil
}

// linkAuthors writes every (book, author) pair in one idempotent statement.
func linkAuthors(ctx context.Context, tx *sql.Tx, bookID int64, authors []Author) error {
	if len(authors) == 0 {
		return nil
	}
	groups := make([]string, 0, len(authors))
	args := make([]any, 0, len(authors)*2)
	for _, author := range authors {
		groups = append(groups, "("+storage.Placeholders(2)+")")
		args = append(args, bookID, author.ID)
	}
	_, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO books_authors (book_id, author_id) VALUES "+strings.Join(groups, ", "),
		args...)
	return err
}

func (s *Store) archiveEntity(ctx context.Context, tx *sql.Tx, key, entityType string, data []byte) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO openlibrary_entities (openlibrary_key, entity_type, data, updated_at)
         VALUES (?, ?, ?, ?)
         ON CONFLICT(openlibrary_key) DO UPDATE SET
             entity_type = excluded.entity_type,
             data = excluded.data,
             updated_at = excluded.updated_at`,
		key, entityType, string(data), storage.FormatTime(time.Now()),
	)
	return err
}

func (s *Store) upsertBook(ctx context.Context, tx *sql.Tx, book *openlibrary.Book, works []*openlibrary.Work) (*Book, error) {
	isbn10 := ""
	if len(book.ISBN10) > 0 {
		isbn10 = book.ISBN10[0]
	}
	isbn13 := ""
	if len(book.ISBN13) > 0 {
		isbn13 = book.ISBN13[0]
	}
	description := ""
	for _, work := range works {
		if work.Description != "" {
			description = work.Description
			break
		}
	}

	var publishDate any
	if book.PublishDate != nil {
		publishDate = storage.FormatTime(*book.PublishDate)
	}

	now := storage.FormatTime(time.Now())

	// Duplicate external keys are tolerated; the lowest id wins so repeat
	// adds keep touching the same row.
	var existingID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM books WHERE openlibrary_key = ? ORDER BY id LIMIT 1",
		book.Key,
	).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx,
			`INSERT INTO books (
                title, openlibrary_key, publish_date, isbn_10, isbn_13,
                cover_url, description, first_sentence, created_at, updated_at
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			book.Title, book.Key, publishDate,
			storage.NullableString(isbn10), storage.NullableString(isbn13),
			storage.NullableString(book.CoverURL()),
			storage.NullableString(description),
			storage.NullableString(book.FirstSentence),
			now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert book: %w", err)
		}
		existingID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup book: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			`UPDATE books SET
                title = ?, publish_date = ?, isbn_10 = ?, isbn_13 = ?,
                cover_url = ?, description = ?, first_sentence = ?, updated_at = ?
             WHERE id = ?`,
			book.Title, publishDate,
			storage.NullableString(isbn10), storage.NullableString(isbn13),
			storage.NullableString(book.CoverURL()),
			storage.NullableString(description),
			storage.NullableString(book.FirstSentence),
			now, existingID,
		); err != nil {
			return nil, fmt.Errorf("update book: %w", err)
		}
	}

	return s.getBook(ctx, tx, existingID)
}

func (s *Store) upsertAuthor(ctx context.Context, tx *sql.Tx, author *openlibrary.Author) (*Author, error) {
	now := storage.FormatTime(time.Now())

	var existingID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM authors WHERE openlibrary_key = ? ORDER BY id LIMIT 1",
		author.Key,
	).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx,
			"INSERT INTO authors (name, openlibrary_key, created_at, updated_at) VALUES (?, ?, ?, ?)",
			author.Name, author.Key, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert author: %w", err)
		}
		existingID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup author: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE authors SET name = ?, updated_at = ? WHERE id = ?",
			author.Name, now, existingID,
		); err != nil {
			return nil, fmt.Errorf("update author: %w", err)
		}
	}

	return s.getAuthor(ctx, tx, existingID)
}

func (s *Store) getBook(ctx context.Context, tx *sql.Tx, id int64) (*Book, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT id, title, openlibrary_key, publish_date, isbn_10, isbn_13,
                cover_url, description, first_sentence, created_at, updated_at
         FROM books WHERE id = ?`, id)
	return scanBook(row)
}

func (s *Store) getAuthor(ctx context.Context, tx *sql.Tx, id int64) (*Author, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT id, name, openlibrary_key, created_at, updated_at FROM authors WHERE id = ?", id)
	return scanAuthor(row)
}

// GetBookByKey fetches a stored book by its OpenLibrary key.
func (s *Store) GetBookByKey(ctx context.Context, key string) (*Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, openlibrary_key, publish_date, isbn_10, isbn_13,
                cover_url, description, first_sentence, created_at, updated_at
         FROM books WHERE openlibrary_key = ? ORDER BY id LIMIT 1`, key)
	book, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, services.Wrap(services.ErrNotFound, "books", "get", "no book with key "+key, nil)
	}
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "get", "scan book", err)
	}
	return book, nil
}

// List returns every book from the denormalized read view, ordered by title.
func (s *Store) List(ctx context.Context) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, isbn, authors FROM books_with_authors ORDER BY title")
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "list", "query view", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

// Search matches the query against book titles and author names using the
// full-text indexes and returns the view rows for matching books.
func (s *Store) Search(ctx context.Context, query string) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT v.id, v.title, v.isbn, v.authors
         FROM books_with_authors v
         WHERE v.id IN (
             SELECT rowid FROM books_fts WHERE books_fts MATCH ?
             UNION
             SELECT ba.book_id
             FROM books_authors ba
             JOIN (SELECT rowid FROM authors_fts WHERE authors_fts MATCH ?) matched
               ON matched.rowid = ba.author_id
         )
         ORDER BY v.title`,
		query, query,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "search", "query view", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]Listing, error) {
	var listings []Listing
	for rows.Next() {
		var listing Listing
		var isbn, authors sql.NullString
		if err := rows.Scan(&listing.ID, &listing.Title, &isbn, &authors); err != nil {
			return nil, services.Wrap(services.ErrStorage, "books", "list", "scan row", err)
		}
		listing.ISBN = isbn.String
		listing.Authors = authors.String
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "books", "list", "iterate rows", err)
	}
	return listings, nil
}

func scanBook(scanner storage.Scanner) (*Book, error) {
	var book Book
	var publishDate, isbn10, isbn13, coverURL, description, firstSentence sql.NullString
	var createdAt, updatedAt string
	if err := scanner.Scan(
		&book.ID, &book.Title, &book.OpenLibraryKey, &publishDate,
		&isbn10, &isbn13, &coverURL, &description, &firstSentence,
		&createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	if publishDate.Valid {
		parsed, err := storage.ParseTime(publishDate.String)
		if err != nil {
			return nil, fmt.Errorf("parse publish date: %w", err)
		}
		book.PublishDate = &parsed
	}
	book.ISBN10 = isbn10.String
	book.ISBN13 = isbn13.String
	book.CoverURL = coverURL.String
	book.Description = description.String
	book.FirstSentence = firstSentence.String

	var err error
	if book.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if book.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &book, nil
}

func scanAuthor(scanner storage.Scanner) (*Author, error) {
	var author Author
	var createdAt, updatedAt string
	if err := scanner.Scan(&author.ID, &author.Name, &author.OpenLibraryKey, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if author.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if author.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &author, nil
}
