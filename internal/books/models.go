package books

import "time"

// Book is a stored book row. Optional text columns use the empty string for
// NULL; absent dates are nil.
type Book struct {
	ID             int64
	Title          string
	OpenLibraryKey string
	PublishDate    *time.Time
	ISBN10         string
	ISBN13         string
	CoverURL       string
	Description    string
	FirstSentence  string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Author is a stored author row.
type Author struct {
	ID             int64
	Name           string
	OpenLibraryKey string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Listing is a row from the denormalized books_with_authors view. ISBN
// prefers the 13-digit form and falls back to the 10-digit one.
type Listing struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	ISBN    string `json:"isbn"`
	Authors string `json:"authors"`
}

// AddResult reports what an add touched.
type AddResult struct {
	Book    Book
	Authors []Author
}
