package discogs_test

import (
	"testing"

	"librarian/internal/services/discogs"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		value string
		want  int64
	}{
		{"3:32", 212},
		{"0:45", 45},
		{"12:00", 720},
	}
	for _, tc := range cases {
		got, err := discogs.ParseDuration(tc.value)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", tc.value, err)
		}
		if got == nil || *got != tc.want {
			t.Fatalf("ParseDuration(%q) = %v, want %d", tc.value, got, tc.want)
		}
	}
}

func TestParseDurationEmpty(t *testing.T) {
	got, err := discogs.ParseDuration("")
	if err != nil {
		t.Fatalf("ParseDuration: %v", err)
	}
	if got != nil {
		t.Fatalf("ParseDuration(\"\") = %v, want nil", got)
	}
}

func TestParseDurationMalformed(t *testing.T) {
	for _, value := range []string{"332", "a:b"} {
		if _, err := discogs.ParseDuration(value); err == nil {
			t.Fatalf("ParseDuration(%q): expected error", value)
		}
	}
}

func TestParseRelease(t *testing.T) {
	raw := []byte(`{
		"id": 249504,
		"title": "Never Gonna Give You Up",
		"year": 1987,
		"artists": [{"id": 72872, "name": "Rick Astley", "anv": "", "role": ""}],
		"genres": ["Electronic", "Pop"],
		"styles": ["Synth-pop"],
		"identifiers": [{"type": "Barcode", "value": "5012394144777"}],
		"tracklist": [
			{"position": "A", "title": "Never Gonna Give You Up", "duration": "3:32"},
			{"position": "B", "title": "Never Gonna Give You Up (Instrumental)", "duration": "",
			 "extraartists": [{"id": 20942, "name": "Stock, Aitken & Waterman", "role": "Producer"}]}
		],
		"notes": "UK release has a black label."
	}`)

	release, err := discogs.ParseRelease(raw)
	if err != nil {
		t.Fatalf("ParseRelease: %v", err)
	}
	if release.ID != 249504 || release.Title != "Never Gonna Give You Up" || release.Year != 1987 {
		t.Fatalf("unexpected release %+v", release)
	}
	if len(release.Artists) != 1 || release.Artists[0].Name != "Rick Astley" || release.Artists[0].ID != 72872 {
		t.Fatalf("unexpected artists %v", release.Artists)
	}
	if release.Barcode != "5012394144777" {
		t.Fatalf("unexpected barcode %q", release.Barcode)
	}
	if len(release.Styles) != 1 || release.Styles[0] != "Synth-pop" {
		t.Fatalf("unexpected styles %v", release.Styles)
	}
	if len(release.Tracks) != 2 {
		t.Fatalf("unexpected tracks %v", release.Tracks)
	}
	if release.Tracks[0].DurationSeconds == nil || *release.Tracks[0].DurationSeconds != 212 {
		t.Fatalf("unexpected duration %v", release.Tracks[0].DurationSeconds)
	}
	if release.Tracks[1].DurationSeconds != nil {
		t.Fatalf("expected absent duration, got %v", release.Tracks[1].DurationSeconds)
	}
	if len(release.Tracks[1].Artists) != 1 || release.Tracks[1].Artists[0].Role != "Producer" {
		t.Fatalf("unexpected track artists %v", release.Tracks[1].Artists)
	}
	if len(release.Raw) == 0 {
		t.Fatal("expected raw payload retained")
	}
}

func TestParseReleaseWithoutBarcode(t *testing.T) {
	raw := []byte(`{
		"id": 1,
		"title": "White Label",
		"year": 1999,
		"identifiers": [{"type": "Matrix / Runout", "value": "ABC-123"}]
	}`)
	release, err := discogs.ParseRelease(raw)
	if err != nil {
		t.Fatalf("ParseRelease: %v", err)
	}
	if release.Barcode != "" {
		t.Fatalf("expected empty barcode, got %q", release.Barcode)
	}
}

func TestParseArtist(t *testing.T) {
	raw := []byte(`{
		"id": 72872,
		"profile": "British singer.",
		"namevariations": ["Astley, Rick"],
		"members": [
			{"id": 1, "name": "Member One", "active": true},
			{"id": 2, "name": "Member Two", "active": false},
			{"id": 3, "name": "Member Three"}
		]
	}`)
	artist, err := discogs.ParseArtist(raw)
	if err != nil {
		t.Fatalf("ParseArtist: %v", err)
	}
	if artist.ID != 72872 || artist.Profile != "British singer." {
		t.Fatalf("unexpected artist %+v", artist)
	}
	if len(artist.NameVariations) != 1 || artist.NameVariations[0] != "Astley, Rick" {
		t.Fatalf("unexpected name variations %v", artist.NameVariations)
	}
	if len(artist.Members) != 3 {
		t.Fatalf("unexpected members %v", artist.Members)
	}
	if artist.Members[0].IsActive == nil || !*artist.Members[0].IsActive {
		t.Fatalf("expected first member active, got %v", artist.Members[0].IsActive)
	}
	if artist.Members[1].IsActive == nil || *artist.Members[1].IsActive {
		t.Fatalf("expected second member inactive, got %v", artist.Members[1].IsActive)
	}
	if artist.Members[2].IsActive != nil {
		t.Fatalf("expected unknown activity, got %v", artist.Members[2].IsActive)
	}
}
