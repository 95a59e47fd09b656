package discogs

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration converts a Discogs "m:ss" duration to seconds. An empty
// value means the release has no per-track timing and returns nil.
func ParseDuration(value string) (*int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	minutesPart, secondsPart, ok := strings.Cut(value, ":")
	if !ok {
		return nil, fmt.Errorf("parse duration %q: missing separator", value)
	}
	minutes, err := strconv.ParseInt(strings.TrimSpace(minutesPart), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse duration %q: %w", value, err)
	}
	seconds, err := strconv.ParseInt(strings.TrimSpace(secondsPart), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse duration %q: %w", value, err)
	}
	total := minutes*60 + seconds
	return &total, nil
}

// ReleaseArtist is a credited artist on a release. Only the id and display
// name are carried; the full artist record comes from GetArtist.
type ReleaseArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TrackArtist is an extra artist credited on a single track.
type TrackArtist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// Track is a normalized tracklist entry.
type Track struct {
	Title           string
	Position        string
	DurationSeconds *int64
	Artists         []TrackArtist
}

// Member is a band member as listed on an artist record.
type Member struct {
	ID       int64
	Name     string
	IsActive *bool
}

// Release is a normalized Discogs release record.
type Release struct {
	ID      int64
	Title   string
	Year    int
	Artists []ReleaseArtist
	Tracks  []Track
	Styles  []string

	// Barcode is empty when the release identifiers carry no barcode entry.
	Barcode string

	Raw json.RawMessage
}

type identifier struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type trackPayload struct {
	Title        string        `json:"title"`
	Position     string        `json:"position"`
	Duration     string        `json:"duration"`
	ExtraArtists []TrackArtist `json:"extraartists"`
}

type releasePayload struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Year        int             `json:"year"`
	Artists     []ReleaseArtist `json:"artists"`
	Styles      []string        `json:"styles"`
	Identifiers []identifier    `json:"identifiers"`
	Tracklist   []trackPayload  `json:"tracklist"`
}

// ParseRelease normalizes a raw Discogs release response.
func ParseRelease(raw []byte) (*Release, error) {
	var payload releasePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode release response: %w", err)
	}

	tracks := make([]Track, 0, len(payload.Tracklist))
	for _, entry := range payload.Tracklist {
		duration, err := ParseDuration(entry.Duration)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, Track{
			Title:           entry.Title,
			Position:        entry.Position,
			DurationSeconds: duration,
			Artists:         entry.ExtraArtists,
		})
	}
	if len(tracks) == 0 {
		tracks = nil
	}

	barcode := ""
	for _, id := range payload.Identifiers {
		if id.Type == "Barcode" {
			barcode = id.Value
			break
		}
	}

	return &Release{
		ID:      payload.ID,
		Title:   payload.Title,
		Year:    payload.Year,
		Artists: payload.Artists,
		Tracks:  tracks,
		Styles:  payload.Styles,
		Barcode: barcode,
		Raw:     json.RawMessage(raw),
	}, nil
}

// Artist is a normalized Discogs artist record. Full artist responses carry
// no display name; the name is known from the release credit that pointed
// here.
type Artist struct {
	ID             int64
	Profile        string
	NameVariations []string
	Members        []Member

	Raw json.RawMessage
}

type memberPayload struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Active *bool  `json:"active"`
}

type artistPayload struct {
	ID             int64           `json:"id"`
	Profile        string          `json:"profile"`
	NameVariations []string        `json:"namevariations"`
	Members        []memberPayload `json:"members"`
}

// ParseArtist normalizes a raw Discogs artist response.
func ParseArtist(raw []byte) (*Artist, error) {
	var payload artistPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("decode artist response: %w", err)
	}

	members := make([]Member, 0, len(payload.Members))
	for _, member := range payload.Members {
		members = append(members, Member{
			ID:       member.ID,
			Name:     member.Name,
			IsActive: member.Active,
		})
	}
	if len(members) == 0 {
		members = nil
	}

	return &Artist{
		ID:             payload.ID,
		Profile:        payload.Profile,
		NameVariations: payload.NameVariations,
		Members:        members,
		Raw:            json.RawMessage(raw),
	}, nil
}

// SearchResult is a single entry from the Discogs database search.
type SearchResult struct {
	ID    int64
	Type  string
	Title string
	URL   string

	Raw json.RawMessage
}

type searchResultPayload struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Title string `json:"title"`
	URI   string `json:"uri"`
}

func parseSearchResult(raw json.RawMessage) (SearchResult, error) {
	var payload searchResultPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return SearchResult{}, fmt.Errorf("decode search result: %w", err)
	}
	result := SearchResult{
		ID:    payload.ID,
		Type:  payload.Type,
		Title: payload.Title,
		Raw:   raw,
	}
	if payload.URI != "" {
		result.URL = "https://discogs.com" + payload.URI
	}
	return result, nil
}
