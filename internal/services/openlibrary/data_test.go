package openlibrary_test

import (
	"errors"
	"testing"
	"time"

	"librarian/internal/services/openlibrary"
)

func TestParseKey(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"/authors/OL34184A", "OL34184A"},
		{"/books/OL7353617M", "OL7353617M"},
		{"/works/OL45804W", "OL45804W"},
		{"/type/datetime", "datetime"},
	}
	for _, tc := range cases {
		got, err := openlibrary.ParseKey(tc.value)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tc.value, err)
		}
		if got != tc.want {
			t.Fatalf("ParseKey(%q) = %q, want %q", tc.value, got, tc.want)
		}
	}
}

func TestParseKeyMalformed(t *testing.T) {
	for _, value := range []string{"", "OL34184A", "/authors/", "/authors/OL34184A/extra", "authors/OL34184A"} {
		if _, err := openlibrary.ParseKey(value); !errors.Is(err, openlibrary.ErrMalformedKey) {
			t.Fatalf("ParseKey(%q): expected ErrMalformedKey, got %v", value, err)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		value string
		want  time.Time
	}{
		{"October 1, 1988", time.Date(1988, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{"13 September 1916", time.Date(1916, time.September, 13, 0, 0, 0, 0, time.UTC)},
		{"October 1988", time.Date(1988, time.October, 1, 0, 0, 0, 0, time.UTC)},
		{"1988", time.Date(1988, time.January, 1, 0, 0, 0, 0, time.UTC)},
		{"2001-04-03", time.Date(2001, time.April, 3, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got, err := openlibrary.ParseDate(tc.value)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tc.value, err)
		}
		if got == nil || !got.Equal(tc.want) {
			t.Fatalf("ParseDate(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestParseDateBlank(t *testing.T) {
	for _, value := range []string{"", "   "} {
		got, err := openlibrary.ParseDate(value)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", value, err)
		}
		if got != nil {
			t.Fatalf("ParseDate(%q) = %v, want nil", value, got)
		}
	}
}

func TestParseDateUnparseable(t *testing.T) {
	if _, err := openlibrary.ParseDate("not a date at all"); err == nil {
		t.Fatal("expected error for unparseable date")
	}
}

func TestParseTimestamp(t *testing.T) {
	got, err := openlibrary.ParseTimestamp("2008-04-29T13:35:46.876380")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	want := time.Date(2008, time.April, 29, 13, 35, 46, 876380000, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Fatalf("ParseTimestamp = %v, want %v", got, want)
	}
}

func TestParseTimestampBlank(t *testing.T) {
	got, err := openlibrary.ParseTimestamp("")
	if err != nil {
		t.Fatalf("ParseTimestamp: %v", err)
	}
	if got != nil {
		t.Fatalf("ParseTimestamp(\"\") = %v, want nil", got)
	}
}

func TestParseBook(t *testing.T) {
	raw := []byte(`{
		"identifiers": {"goodreads": ["1507552"]},
		"title": "Fantastic Mr. Fox",
		"authors": [{"key": "/authors/OL34184A"}],
		"publish_date": "October 1, 1988",
		"publishers": ["Puffin"],
		"isbn_10": ["0140328726"],
		"isbn_13": ["9780140328721"],
		"covers": [8739161],
		"languages": [{"key": "/languages/eng"}],
		"type": {"key": "/type/edition"},
		"first_sentence": {"type": "/type/text", "value": "And these two very old people are the father and mother of Mrs. Bucket."},
		"key": "/books/OL7353617M",
		"number_of_pages": 96,
		"works": [{"key": "/works/OL45804W"}],
		"revision": 22,
		"created": {"type": "/type/datetime", "value": "2008-04-29T13:35:46.876380"},
		"last_modified": {"type": "/type/datetime", "value": "2023-02-11T04:06:46.427081"}
	}`)

	book, err := openlibrary.ParseBook(raw)
	if err != nil {
		t.Fatalf("ParseBook: %v", err)
	}
	if book.Key != "OL7353617M" {
		t.Fatalf("unexpected key %q", book.Key)
	}
	if book.Title != "Fantastic Mr. Fox" {
		t.Fatalf("unexpected title %q", book.Title)
	}
	if book.TypeKey != "edition" {
		t.Fatalf("unexpected type key %q", book.TypeKey)
	}
	if len(book.AuthorKeys) != 1 || book.AuthorKeys[0] != "OL34184A" {
		t.Fatalf("unexpected author keys %v", book.AuthorKeys)
	}
	if len(book.WorkKeys) != 1 || book.WorkKeys[0] != "OL45804W" {
		t.Fatalf("unexpected work keys %v", book.WorkKeys)
	}
	if len(book.LanguageKeys) != 1 || book.LanguageKeys[0] != "eng" {
		t.Fatalf("unexpected language keys %v", book.LanguageKeys)
	}
	if book.PublishDate == nil || !book.PublishDate.Equal(time.Date(1988, time.October, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected publish date %v", book.PublishDate)
	}
	if book.NumberOfPages != 96 {
		t.Fatalf("unexpected page count %d", book.NumberOfPages)
	}
	if book.FirstSentence == "" {
		t.Fatal("expected first sentence extracted from wrapped value")
	}
	if book.Created == nil || book.Created.Year() != 2008 {
		t.Fatalf("unexpected created %v", book.Created)
	}
	if len(book.Raw) == 0 {
		t.Fatal("expected raw payload retained")
	}
}

func TestParseBookMalformedKeyFails(t *testing.T) {
	raw := []byte(`{"title": "Broken", "key": "not-a-key", "type": {"key": "/type/edition"}}`)
	if _, err := openlibrary.ParseBook(raw); !errors.Is(err, openlibrary.ErrMalformedKey) {
		t.Fatalf("expected ErrMalformedKey, got %v", err)
	}
}

func TestCoverURL(t *testing.T) {
	book := &openlibrary.Book{Covers: []int64{8739161, 1234}}
	if got := book.CoverURL(); got != "https://covers.openlibrary.org/b/id/8739161-L.jpg" {
		t.Fatalf("unexpected cover URL %q", got)
	}
	empty := &openlibrary.Book{}
	if got := empty.CoverURL(); got != "" {
		t.Fatalf("expected empty cover URL, got %q", got)
	}
}

func TestParseAuthor(t *testing.T) {
	raw := []byte(`{
		"personal_name": "Dahl, Roald.",
		"death_date": "23 November 1990",
		"type": {"key": "/type/author"},
		"key": "/authors/OL34184A",
		"bio": "Roald Dahl was a British novelist.",
		"name": "Roald Dahl",
		"birth_date": "13 September 1916",
		"created": {"type": "/type/datetime", "value": "2008-04-01T03:28:50.625462"},
		"last_modified": {"type": "/type/datetime", "value": "2023-01-23T22:09:31.043530"}
	}`)

	author, err := openlibrary.ParseAuthor(raw)
	if err != nil {
		t.Fatalf("ParseAuthor: %v", err)
	}
	if author.Key != "OL34184A" {
		t.Fatalf("unexpected key %q", author.Key)
	}
	if author.Name != "Roald Dahl" || author.PersonalName != "Dahl, Roald." {
		t.Fatalf("unexpected names %q %q", author.Name, author.PersonalName)
	}
	if author.Bio != "Roald Dahl was a British novelist." {
		t.Fatalf("unexpected bio %q", author.Bio)
	}
	if author.BirthDate == nil || !author.BirthDate.Equal(time.Date(1916, time.September, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected birth date %v", author.BirthDate)
	}
	if author.DeathDate == nil || author.DeathDate.Year() != 1990 {
		t.Fatalf("unexpected death date %v", author.DeathDate)
	}
}

func TestParseAuthorWrappedBio(t *testing.T) {
	raw := []byte(`{
		"key": "/authors/OL26320A",
		"name": "J. R. R. Tolkien",
		"type": {"key": "/type/author"},
		"bio": {"type": "/type/text", "value": "English writer and philologist."}
	}`)

	author, err := openlibrary.ParseAuthor(raw)
	if err != nil {
		t.Fatalf("ParseAuthor: %v", err)
	}
	if author.Bio != "English writer and philologist." {
		t.Fatalf("unexpected bio %q", author.Bio)
	}
	if author.BirthDate != nil {
		t.Fatalf("expected absent birth date, got %v", author.BirthDate)
	}
}

func TestParseWork(t *testing.T) {
	raw := []byte(`{
		"title": "Fantastic Mr Fox",
		"key": "/works/OL45804W",
		"type": {"key": "/type/work"},
		"authors": [{"author": {"key": "/authors/OL34184A"}, "type": {"key": "/type/author_role"}}],
		"description": "The main character of Fantastic Mr Fox is an extremely clever fox.",
		"covers": [6498519]
	}`)

	work, err := openlibrary.ParseWork(raw)
	if err != nil {
		t.Fatalf("ParseWork: %v", err)
	}
	if work.Key != "OL45804W" {
		t.Fatalf("unexpected key %q", work.Key)
	}
	if len(work.AuthorKeys) != 1 || work.AuthorKeys[0] != "OL34184A" {
		t.Fatalf("unexpected author keys %v", work.AuthorKeys)
	}
	if work.Description == "" {
		t.Fatal("expected description")
	}
}
