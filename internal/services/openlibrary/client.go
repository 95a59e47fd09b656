package openlibrary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"librarian/internal/services"
)

const userAgent = "librarian (+https://github.com/librarian/librarian)"

// Client provides access to the OpenLibrary API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates an OpenLibrary client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("openlibrary base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetBookByISBN fetches and normalizes the edition record for an ISBN.
func (c *Client) GetBookByISBN(ctx context.Context, isbn string) (*Book, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, errors.New("isbn must not be empty")
	}
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/isbn/%s.json", c.baseURL, isbn), "get book", "ISBN "+isbn)
	if err != nil {
		return nil, err
	}
	return ParseBook(raw)
}

// GetAuthor fetches and normalizes an author record by key.
func (c *Client) GetAuthor(ctx context.Context, key string) (*Author, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("author key must not be empty")
	}
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/authors/%s.json", c.baseURL, key), "get author", "key "+key)
	if err != nil {
		return nil, err
	}
	return ParseAuthor(raw)
}

// GetWork fetches and normalizes a work record by key.
func (c *Client) GetWork(ctx context.Context, key string) (*Work, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("work key must not be empty")
	}
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/works/%s.json", c.baseURL, key), "get work", "key "+key)
	if err != nil {
		return nil, err
	}
	return ParseWork(raw)
}

func (c *Client) fetch(ctx context.Context, url, operation, subject string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "openlibrary", operation, subject, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "openlibrary", operation, subject+" has no record", nil)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrTransport, "openlibrary", operation,
			fmt.Sprintf("%s returned %d", subject, resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "openlibrary", operation, "read response body", err)
	}
	return raw, nil
}
