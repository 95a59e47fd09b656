package vinyl_test

import (
	"encoding/json"
	"testing"

	"librarian/internal/services/discogs"
	"librarian/internal/testsupport"
	"librarian/internal/vinyl"
)

func openStore(t *testing.T) *vinyl.Store {
	t.Helper()
	return testsupport.MustOpenVinyl(t, testsupport.NewConfig(t))
}

func seconds(v int64) *int64 { return &v }

func sampleRelease() *discogs.Release {
	return &discogs.Release{
		ID:      249504,
		Title:   "Never Gonna Give You Up",
		Year:    1987,
		Artists: []discogs.ReleaseArtist{{ID: 72872, Name: "Rick Astley"}},
		Tracks: []discogs.Track{
			{Title: "Never Gonna Give You Up", Position: "A", DurationSeconds: seconds(212)},
			{Title: "Never Gonna Give You Up (Instrumental)", Position: "B"},
		},
		Styles:  []string{"Synth-pop"},
		Barcode: "5012394144777",
		Raw:     json.RawMessage(`{"id": 249504}`),
	}
}

func TestAddReleaseIdempotent(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	first, err := store.AddRelease(ctx, sampleRelease())
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if first.Record.ID == 0 {
		t.Fatal("expected assigned record id")
	}
	if len(first.Artists) != 1 || first.Artists[0].Name != "Rick Astley" {
		t.Fatalf("unexpected artists %+v", first.Artists)
	}
	if len(first.Tracks) != 2 {
		t.Fatalf("unexpected tracks %+v", first.Tracks)
	}

	second, err := store.AddRelease(ctx, sampleRelease())
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	if second.Record.ID != first.Record.ID {
		t.Fatalf("surrogate id changed: %d != %d", second.Record.ID, first.Record.ID)
	}
	if !second.Record.CreatedAt.Equal(first.Record.CreatedAt) {
		t.Fatalf("created_at changed: %v != %v", second.Record.CreatedAt, first.Record.CreatedAt)
	}
	if second.Artists[0].ID != first.Artists[0].ID {
		t.Fatalf("artist id changed: %d != %d", second.Artists[0].ID, first.Artists[0].ID)
	}
	if second.Tracks[0].ID != first.Tracks[0].ID {
		t.Fatalf("track id changed: %d != %d", second.Tracks[0].ID, first.Tracks[0].ID)
	}

	listings, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listings) != 1 || listings[0].Artists != "Rick Astley" {
		t.Fatalf("unexpected listings %+v", listings)
	}
}

func TestAddReleaseLeavesStaleTracks(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	first, err := store.AddRelease(ctx, sampleRelease())
	if err != nil {
		t.Fatalf("first add: %v", err)
	}

	trimmed := sampleRelease()
	trimmed.Tracks = trimmed.Tracks[:1]
	if _, err := store.AddRelease(ctx, trimmed); err != nil {
		t.Fatalf("second add: %v", err)
	}

	tracks, err := store.ListTracks(ctx, first.Record.ID)
	if err != nil {
		t.Fatalf("list tracks: %v", err)
	}
	// The vanished B side stays; only matched positions are rewritten.
	if len(tracks) != 2 {
		t.Fatalf("expected stale track preserved, got %+v", tracks)
	}
}

func TestAddReleaseLinksAllCredits(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	release := sampleRelease()
	release.Artists = append(release.Artists, discogs.ReleaseArtist{ID: 99999, Name: "Stock Aitken Waterman"})

	first, err := store.AddRelease(ctx, release)
	if err != nil {
		t.Fatalf("first add: %v", err)
	}
	if len(first.Artists) != 2 {
		t.Fatalf("expected two linked artists, got %+v", first.Artists)
	}

	repeat, err := store.AddRelease(ctx, release)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}
	for i := range first.Artists {
		if repeat.Artists[i].ID != first.Artists[i].ID {
			t.Fatalf("artist id changed: %+v vs %+v", repeat.Artists, first.Artists)
		}
	}

	artists, err := store.ListArtists(ctx)
	if err != nil {
		t.Fatalf("list artists: %v", err)
	}
	if len(artists) != 2 {
		t.Fatalf("expected two artist rows, got %+v", artists)
	}
}

func TestUpdateArtistFillsProfileAndMembers(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	if _, err := store.AddRelease(ctx, sampleRelease()); err != nil {
		t.Fatalf("add: %v", err)
	}

	active := true
	inactive := false
	full := &discogs.Artist{
		ID:      72872,
		Profile: "British singer.",
		Members: []discogs.Member{
			{ID: 100, Name: "Member One", IsActive: &active},
			{ID: 101, Name: "Member Two", IsActive: &inactive},
		},
		Raw: json.RawMessage(`{"id": 72872}`),
	}

	bandRow, members, err := store.UpdateArtist(ctx, full)
	if err != nil {
		t.Fatalf("update artist: %v", err)
	}
	if members != 2 {
		t.Fatalf("expected 2 members, got %d", members)
	}
	// The full artist record has no display name; the one from the release
	// credit must survive the update.
	if bandRow.Name != "Rick Astley" {
		t.Fatalf("name lost on update: %q", bandRow.Name)
	}
	if bandRow.Profile != "British singer." {
		t.Fatalf("profile not written: %q", bandRow.Profile)
	}

	artists, err := store.ListArtists(ctx)
	if err != nil {
		t.Fatalf("list artists: %v", err)
	}
	if len(artists) != 3 {
		t.Fatalf("expected band plus two members, got %+v", artists)
	}

	// Flipping activity must update the link, not duplicate it.
	full.Members[0].IsActive = &inactive
	if _, _, err := store.UpdateArtist(ctx, full); err != nil {
		t.Fatalf("repeat update: %v", err)
	}
	artists, err = store.ListArtists(ctx)
	if err != nil {
		t.Fatalf("list artists: %v", err)
	}
	if len(artists) != 3 {
		t.Fatalf("membership upsert duplicated artists: %+v", artists)
	}
}

func TestSearchMatchesTitleAndArtist(t *testing.T) {
	store := openStore(t)
	ctx := t.Context()

	if _, err := store.AddRelease(ctx, sampleRelease()); err != nil {
		t.Fatalf("add: %v", err)
	}

	byTitle, err := store.Search(ctx, "gonna")
	if err != nil {
		t.Fatalf("search by title: %v", err)
	}
	if len(byTitle) != 1 {
		t.Fatalf("expected title match, got %+v", byTitle)
	}

	byArtist, err := store.Search(ctx, "astley")
	if err != nil {
		t.Fatalf("search by artist: %v", err)
	}
	if len(byArtist) != 1 {
		t.Fatalf("expected artist match, got %+v", byArtist)
	}
}
