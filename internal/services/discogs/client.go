package discogs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"librarian/internal/services"
)

const userAgent = "librarian (+https://github.com/librarian/librarian)"

// Client provides access to the Discogs API.
type Client struct {
	baseURL    string
	token      string
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

// WithToken sets the personal access token sent on every request. Without a
// token Discogs still serves release lookups but refuses database search.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = strings.TrimSpace(token)
	}
}

// New creates a Discogs client.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("discogs base url required")
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

// GetRelease fetches and normalizes a release by its Discogs id.
func (c *Client) GetRelease(ctx context.Context, releaseID int64) (*Release, error) {
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/releases/%d", c.baseURL, releaseID),
		"get release", fmt.Sprintf("release %d", releaseID))
	if err != nil {
		return nil, err
	}
	return ParseRelease(raw)
}

// GetArtist fetches and normalizes an artist by its Discogs id.
func (c *Client) GetArtist(ctx context.Context, artistID int64) (*Artist, error) {
	raw, err := c.fetch(ctx, fmt.Sprintf("%s/artists/%d", c.baseURL, artistID),
		"get artist", fmt.Sprintf("artist %d", artistID))
	if err != nil {
		return nil, err
	}
	return ParseArtist(raw)
}

// SearchRequest narrows a database search. Zero-value fields are omitted
// from the query.
type SearchRequest struct {
	Query   string
	Type    string
	Barcode string
}

type searchPage struct {
	Pagination struct {
		URLs struct {
			Next string `json:"next"`
		} `json:"urls"`
	} `json:"pagination"`
	Results []json.RawMessage `json:"results"`
}

// Search walks database search results across pages, calling visit for each
// result in order. Returning stop=true from visit ends the walk early.
// Pagination follows the "next" URL the API hands back, which already
// carries the query parameters for the following page.
func (c *Client) Search(ctx context.Context, req SearchRequest, visit func(SearchResult) (stop bool, err error)) error {
	params := url.Values{}
	if req.Query != "" {
		params.Set("query", req.Query)
	}
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.Barcode != "" {
		params.Set("barcode", req.Barcode)
	}

	nextURL := c.baseURL + "/database/search"
	if encoded := params.Encode(); encoded != "" {
		nextURL += "?" + encoded
	}

	for nextURL != "" {
		raw, err := c.fetch(ctx, nextURL, "search", "database search")
		if err != nil {
			return err
		}

		var page searchPage
		if err := json.Unmarshal(raw, &page); err != nil {
			return services.Wrap(services.ErrMalformed, "discogs", "search", "decode search page", err)
		}

		for _, entry := range page.Results {
			result, err := parseSearchResult(entry)
			if err != nil {
				return services.Wrap(services.ErrMalformed, "discogs", "search", "decode search result", err)
			}
			stop, err := visit(result)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
		}

		nextURL = page.Pagination.URLs.Next
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, requestURL, operation, subject string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Discogs token="+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "discogs", operation, subject, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "discogs", operation, subject+" has no record", nil)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, services.Wrap(services.ErrTransport, "discogs", operation,
			fmt.Sprintf("%s returned %d", subject, resp.StatusCode), nil)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, "discogs", operation, "read response body", err)
	}
	return raw, nil
}
