package vinyl

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"librarian/internal/services"
	"librarian/internal/services/discogs"
)

// ReleaseMatchesISBN reports whether a release barcode corresponds to an
// ISBN. Both values are reduced to their digits before comparison since
// printed barcodes carry spacing and check digits the ISBN lacks; a release
// without a barcode never matches.
func ReleaseMatchesISBN(barcode, isbn string) bool {
	digits := stripNonDigits(barcode)
	target := stripNonDigits(isbn)
	if digits == "" || target == "" {
		return false
	}
	return strings.Contains(digits, target)
}

func stripNonDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Service orchestrates Discogs lookups with collection persistence.
type Service struct {
	store  *Store
	client *discogs.Client
	logger *slog.Logger
}

// NewService wires a vinyl service.
func NewService(store *Store, client *discogs.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, client: client, logger: logger.With("component", "vinyl")}
}

// AddByReleaseID fetches a release by its Discogs id and upserts it into
// the collection.
func (s *Service) AddByReleaseID(ctx context.Context, releaseID int64) (*AddResult, error) {
	release, err := s.client.GetRelease(ctx, releaseID)
	if err != nil {
		return nil, err
	}
	return s.add(ctx, release)
}

// AddByISBN searches Discogs by barcode and adds the first candidate
// release whose barcode digits contain the ISBN digits. The search result
// list only carries summaries, so each candidate is fetched in full before
// its barcode can be checked.
func (s *Service) AddByISBN(ctx context.Context, isbn string) (*AddResult, error) {
	isbn = strings.TrimSpace(isbn)
	if isbn == "" {
		return nil, errors.New("isbn must not be empty")
	}

	var match *discogs.Release
	err := s.client.Search(ctx, discogs.SearchRequest{Barcode: isbn, Type: "release"},
		func(result discogs.SearchResult) (bool, error) {
			release, err := s.client.GetRelease(ctx, result.ID)
			if err != nil {
				return false, err
			}
			if ReleaseMatchesISBN(release.Barcode, isbn) {
				match = release
				return true, nil
			}
			return false, nil
		})
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, services.Wrap(services.ErrNotFound, "vinyl", "add", "no release matches ISBN "+isbn, nil)
	}
	return s.add(ctx, match)
}

func (s *Service) add(ctx context.Context, release *discogs.Release) (*AddResult, error) {
	result, err := s.store.AddRelease(ctx, release)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "vinyl record added",
		"title", result.Record.Title,
		"discogs_release_id", result.Record.DiscogsReleaseID,
		"artists", len(result.Artists),
		"tracks", len(result.Tracks),
	)
	return result, nil
}

// UpdateArtists refreshes every stored artist from its full Discogs record,
// filling profiles and band membership. Returns the number of artists
// updated.
func (s *Service) UpdateArtists(ctx context.Context) (int, error) {
	artists, err := s.store.ListArtists(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, row := range artists {
		artist, err := s.client.GetArtist(ctx, row.DiscogsArtistID)
		if err != nil {
			return updated, err
		}
		bandRow, members, err := s.store.UpdateArtist(ctx, artist)
		if err != nil {
			return updated, err
		}
		updated++
		s.logger.InfoContext(ctx, "artist updated",
			"discogs_artist_id", bandRow.DiscogsArtistID,
			"members", members,
		)
	}
	return updated, nil
}

// List returns the collection contents from the read view.
func (s *Service) List(ctx context.Context) ([]Listing, error) {
	return s.store.List(ctx)
}

// Search runs a full-text query over record titles and artist names.
func (s *Service) Search(ctx context.Context, query string) ([]Listing, error) {
	return s.store.Search(ctx, query)
}
