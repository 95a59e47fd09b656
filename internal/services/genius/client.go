package genius

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"librarian/internal/services"
)

const userAgent = "librarian (+https://github.com/librarian/librarian)"

// Client provides access to the Genius API.
type Client struct {
	baseURL    string
	token      string
	textFormat string
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

// WithToken sets the client access token. Genius rejects unauthenticated
// requests, so a missing token surfaces as a transport error on first use.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// WithTextFormat selects the description format requested from the API.
func WithTextFormat(format string) Option {
	return func(c *Client) {
		if format != "" {
			c.textFormat = format
		}
	}
}

// New creates a Genius client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("genius base url required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		textFormat: TextFormatPlain,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// GetSong fetches and normalizes a song by its Genius id.
func (c *Client) GetSong(ctx context.Context, songID int64) (*Song, error) {
	params := url.Values{}
	params.Set("text_format", c.textFormat)
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/songs/%d?%s", c.baseURL, songID, params.Encode()),
		"get song", fmt.Sprintf("song %d", songID))
	if err != nil {
		return nil, err
	}
	return ParseSong(raw)
}

// Search finds songs matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchHit, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query must not be empty")
	}
	params := url.Values{}
	params.Set("q", query)
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode()),
		"search", fmt.Sprintf("query %q", query))
	if err != nil {
		return nil, err
	}
	return ParseSearchHits(raw)
}

// GetSongReferents fetches the annotations attached to a song.
func (c *Client) GetSongReferents(ctx context.Context, songID int64) ([]Referent, error) {
	params := url.Values{}
	params.Set("song_id", strconv.FormatInt(songID, 10))
	params.Set("text_format", c.textFormat)
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/referents?%s", c.baseURL, params.Encode()),
		"get referents", fmt.Sprintf("song %d", songID))
	if err != nil {
		return nil, err
	}
	return ParseReferents(raw)
}

func (c *Client) fetch(ctx context.Context, requestURL, operation, subject string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "genius", operation, subject, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "genius", operation, subject+" has no record", nil)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrTransport, "genius", operation,
			fmt.Sprintf("%s returned %d", subject, resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "genius", operation, "read response body", err)
	}
	return raw, nil
}
