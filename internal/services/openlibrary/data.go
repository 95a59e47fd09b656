package openlibrary

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ErrMalformedKey indicates an external key string that does not match the
// "/type/id" shape OpenLibrary uses.
var ErrMalformedKey = errors.New("openlibrary: malformed key")

var keyPattern = regexp.MustCompile(`^/(\w+)/(\w+)$`)

// ParseKey extracts the identifier segment from a "/type/id" key path.
func ParseKey(value string) (string, error) {
	match := keyPattern.FindStringSubmatch(value)
	if match == nil {
		return "", fmt.Errorf("%w: %q", ErrMalformedKey, value)
	}
	return match[2], nil
}

// keyRef is the {"key": "/type/id"} object OpenLibrary uses for references.
type keyRef struct {
	Key string `json:"key"`
}

func parseKeyList(refs []keyRef) ([]string, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		key, err := ParseKey(ref.Key)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// textValue decodes fields that appear either as a plain string or as a
// {"type": ..., "value": ...} object.
type textValue struct {
	Value string
}

func (t *textValue) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		t.Value = plain
		return nil
	}
	var wrapped struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("decode text value: %w", err)
	}
	t.Value = wrapped.Value
	return nil
}

// ParseDate converts a human-readable OpenLibrary date ("October 1, 1988")
// to a UTC date. Partial dates ("1988", "October 1988") resolve with the
// missing components filled as January 1; anything looser falls back to a
// fuzzy parse. Blank values mean "no date" and return nil.
func ParseDate(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}

	if parsed, err := time.Parse("January 2, 2006", value); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}

	// Layouts where Go's zero components already match the default seed.
	for _, layout := range []string{"2006-01-02", "January 2006", "Jan 2006", "2006"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}

	parsed, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", value, err)
	}
	parsed = time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC)
	return &parsed, nil
}

// ParseTimestamp converts an ISO-8601 OpenLibrary timestamp to a UTC-aware
// instant. Blank values return nil.
func ParseTimestamp(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			parsed = parsed.UTC()
			return &parsed, nil
		}
	}
	return nil, fmt.Errorf("parse timestamp %q: unrecognized format", value)
}

// CoverURL formats a cover image id into the OpenLibrary cover host URL.
const coverURLTemplate = "https://covers.openlibrary.org/b/id/%d-L.jpg"

// Book is a normalized OpenLibrary edition record.
type Book struct {
	Title       string
	Key         string
	TypeKey     string
	PublishDate *time.Time

	ISBN10 []string
	ISBN13 []string

	AuthorKeys   []string
	LanguageKeys []string
	WorkKeys     []string

	Publishers    []string
	NumberOfPages int
	Covers        []int64
	FirstSentence string

	Created      *time.Time
	LastModified *time.Time

	Raw json.RawMessage
}

// CoverURL derives the cover image URL from the first cover id, or returns
// an empty string when the book has no covers.
func (b *Book) CoverURL() string {
	if len(b.Covers) == 0 {
		return ""
	}
	return fmt.Sprintf(coverURLTemplate, b.Covers[0])
}

type bookPayload struct {
	Title         string    `json:"title"`
	Key           string    `json:"key"`
	Type          keyRef    `json:"type"`
	PublishDate   string    `json:"publish_date"`
	ISBN10        []string  `json:"isbn_10"`
	ISBN13        []string  `json:"isbn_13"`
	Authors       []keyRef  `json:"authors"`
	Languages     []keyRef  `json:"languages"`
	Works         []keyRef  `json:"works"`
	Publishers    []string  `json:"publishers"`
	NumberOfPages int       `json:"number_of_pages"`
	Covers        []int64   `json:"covers"`
	FirstSentence textValue `json:"first_sentence"`
	Created       textValue `json:"created"`
	LastModified  textValue `json:"last_modified"`
}

// ParseBook normalizes a raw OpenLibrary edition response.
func ParseBook(raw []byte) (*Book, error) {
	var payload bookPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode book response: %w", err)
	}

	key, err := ParseKey(payload.Key)
	if err != nil {
		return nil, err
	}
	typeKey, err := ParseKey(payload.Type.Key)
	if err != nil {
		return nil, err
	}
	authorKeys, err := parseKeyList(payload.Authors)
	if err != nil {
		return nil, err
	}
	languageKeys, err := parseKeyList(payload.Languages)
	if err != nil {
		return nil, err
	}
	workKeys, err := parseKeyList(payload.Works)
	if err != nil {
		return nil, err
	}
	publishDate, err := ParseDate(payload.PublishDate)
	if err != nil {
		return nil, err
	}
	created, err := ParseTimestamp(payload.Created.Value)
	if err != nil {
		return nil, err
	}
	lastModified, err := ParseTimestamp(payload.LastModified.Value)
	if err != nil {
		return nil, err
	}

	return &Book{
		Title:         payload.Title,
		Key:           key,
		TypeKey:       typeKey,
		PublishDate:   publishDate,
		ISBN10:        payload.ISBN10,
		ISBN13:        payload.ISBN13,
		AuthorKeys:    authorKeys,
		LanguageKeys:  languageKeys,
		WorkKeys:      workKeys,
		Publishers:    payload.Publishers,
		NumberOfPages: payload.NumberOfPages,
		Covers:        payload.Covers,
		FirstSentence: payload.FirstSentence.Value,
		Created:       created,
		LastModified:  lastModified,
		Raw:           json.RawMessage(raw),
	}, nil
}

// Author is a normalized OpenLibrary author record.
type Author struct {
	Key          string
	Name         string
	TypeKey      string
	PersonalName string
	Bio          string
	BirthDate    *time.Time
	DeathDate    *time.Time
	Created      *time.Time
	LastModified *time.Time

	Raw json.RawMessage
}

type authorPayload struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Type         keyRef    `json:"type"`
	PersonalName string    `json:"personal_name"`
	Bio          textValue `json:"bio"`
	BirthDate    string    `json:"birth_date"`
	DeathDate    string    `json:"death_date"`
	Created      textValue `json:"created"`
	LastModified textValue `json:"last_modified"`
}

// ParseAuthor normalizes a raw OpenLibrary author response.
func ParseAuthor(raw []byte) (*Author, error) {
	var payload authorPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode author response: %w", err)
	}

	key, err := ParseKey(payload.Key)
	if err != nil {
		return nil, err
	}
	typeKey, err := ParseKey(payload.Type.Key)
	if err != nil {
		return nil, err
	}
	birthDate, err := ParseDate(payload.BirthDate)
	if err != nil {
		return nil, err
	}
	deathDate, err := ParseDate(payload.DeathDate)
	if err != nil {
		return nil, err
	}
	created, err := ParseTimestamp(payload.Created.Value)
	if err != nil {
		return nil, err
	}
	lastModified, err := ParseTimestamp(payload.LastModified.Value)
	if err != nil {
		return nil, err
	}

	return &Author{
		Key:          key,
		Name:         payload.Name,
		TypeKey:      typeKey,
		PersonalName: payload.PersonalName,
		Bio:          payload.Bio.Value,
		BirthDate:    birthDate,
		DeathDate:    deathDate,
		Created:      created,
		LastModified: lastModified,
		Raw:          json.RawMessage(raw),
	}, nil
}

// Work is a normalized OpenLibrary work record. Works are not stored as
// first-class rows; they enrich book descriptions and carry the
// authoritative author list when present.
type Work struct {
	Title       string
	Key         string
	TypeKey     string
	AuthorKeys  []string
	Description string
	Covers      []int64

	Raw json.RawMessage
}

type workAuthorRef struct {
	Author keyRef `json:"author"`
}

type workPayload struct {
	Title       string          `json:"title"`
	Key         string          `json:"key"`
	Type        keyRef          `json:"type"`
	Authors     []workAuthorRef `json:"authors"`
	Description textValue       `json:"description"`
	Covers      []int64         `json:"covers"`
}

// ParseWork normalizes a raw OpenLibrary work response.
func ParseWork(raw []byte) (*Work, error) {
	var payload workPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode work response: %w", err)
	}

	key, err := ParseKey(payload.Key)
	if err != nil {
		return nil, err
	}
	typeKey, err := ParseKey(payload.Type.Key)
	if err != nil {
		return nil, err
	}

	authorKeys := make([]string, 0, len(payload.Authors))
	for _, ref := range payload.Authors {
		authorKey, err := ParseKey(ref.Author.Key)
		if err != nil {
			return nil, err
		}
		authorKeys = append(authorKeys, authorKey)
	}
	if len(authorKeys) == 0 {
		authorKeys = nil
	}

	return &Work{
		Title:       payload.Title,
		Key:         key,
		TypeKey:     typeKey,
		AuthorKeys:  authorKeys,
		Description: payload.Description.Value,
		Covers:      payload.Covers,
		Raw:         json.RawMessage(raw),
	}, nil
}
