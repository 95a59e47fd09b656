package genius

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Text formats a song description can be requested in.
const (
	TextFormatPlain = "plain"
	TextFormatHTML  = "html"
	TextFormatDOM   = "dom"
)

// Song is a normalized Genius song record.
type Song struct {
	ID          int64
	Title       string
	FullTitle   string
	ArtistNames string
	ReleaseDate *time.Time
	Description string
	URL         string

	Raw json.RawMessage
}

type songDescription struct {
	Plain string          `json:"plain"`
	HTML  string          `json:"html"`
	DOM   json.RawMessage `json:"dom"`
}

func (d songDescription) text() string {
	switch {
	case d.Plain != "":
		return d.Plain
	case d.HTML != "":
		return d.HTML
	case len(d.DOM) != 0:
		return string(d.DOM)
	}
	return ""
}

type songPayload struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	FullTitle   string          `json:"full_title"`
	ArtistNames string          `json:"artist_names"`
	ReleaseDate string          `json:"release_date"`
	Description songDescription `json:"description"`
	URL         string          `json:"url"`
}

type songEnvelope struct {
	Response struct {
		Song *songPayload `json:"song"`
	} `json:"response"`
}

// ParseSong normalizes a raw Genius song response.
func ParseSong(raw []byte) (*Song, error) {
	var envelope songEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode song response: %w", err)
	}
	payload := envelope.Response.Song
	if payload == nil {
		return nil, fmt.Errorf("decode song response: missing song envelope")
	}

	var releaseDate *time.Time
	if strings.TrimSpace(payload.ReleaseDate) != "" {
		parsed, err := time.Parse("2006-01-02", payload.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("parse release date %q: %w", payload.ReleaseDate, err)
		}
		parsed = parsed.UTC()
		releaseDate = &parsed
	}

	return &Song{
		ID:          payload.ID,
		Title:       payload.Title,
		FullTitle:   payload.FullTitle,
		ArtistNames: payload.ArtistNames,
		ReleaseDate: releaseDate,
		Description: payload.Description.text(),
		URL:         payload.URL,
		Raw:         json.RawMessage(raw),
	}, nil
}

// SearchHit is a single entry from the Genius search endpoint.
type SearchHit struct {
	ID        int64
	Type      string
	FullTitle string

	Raw json.RawMessage
}

type searchHitPayload struct {
	Type   string `json:"type"`
	Result struct {
		ID        int64  `json:"id"`
		FullTitle string `json:"full_title"`
	} `json:"result"`
}

type searchEnvelope struct {
	Response struct {
		Hits []json.RawMessage `json:"hits"`
	} `json:"response"`
}

// ParseSearchHits normalizes a raw Genius search response.
func ParseSearchHits(raw []byte) ([]SearchHit, error) {
	var envelope searchEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	hits := make([]SearchHit, 0, len(envelope.Response.Hits))
	for _, entry := range envelope.Response.Hits {
		var payload searchHitPayload
		if err := json.Unmarshal(entry, &payload); err != nil {
			return nil, fmt.Errorf("decode search hit: %w", err)
		}
		hits = append(hits, SearchHit{
			ID:        payload.Result.ID,
			Type:      payload.Type,
			FullTitle: payload.Result.FullTitle,
			Raw:       entry,
		})
	}
	if len(hits) == 0 {
		hits = nil
	}
	return hits, nil
}

// Referent is an annotated fragment attached to a song.
type Referent struct {
	ID       int64
	Fragment string
	URL      string

	Raw json.RawMessage
}

type referentPayload struct {
	ID       int64  `json:"id"`
	Fragment string `json:"fragment"`
	URL      string `json:"url"`
}

type referentsEnvelope struct {
	Response struct {
		Referents []json.RawMessage `json:"referents"`
	} `json:"response"`
}

// ParseReferents normalizes a raw Genius referents response.
func ParseReferents(raw []byte) ([]Referent, error) {
	var envelope referentsEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("decode referents response: %w", err)
	}

	referents := make([]Referent, 0, len(envelope.Response.Referents))
	for _, entry := range envelope.Response.Referents {
		var payload referentPayload
		if err := json.Unmarshal(entry, &payload); err != nil {
			return nil, fmt.Errorf("decode referent: %w", err)
		}
		referents = append(referents, Referent{
			ID:       payload.ID,
			Fragment: payload.Fragment,
			URL:      payload.URL,
			Raw:      entry,
		})
	}
	if len(referents) == 0 {
		referents = nil
	}
	return referents, nil
}
