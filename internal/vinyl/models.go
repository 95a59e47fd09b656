package vinyl

import "time"

// Record is a stored vinyl record row.
type Record struct {
	ID               int64
	Title            string
	Year             int
	Barcode          string
	DiscogsReleaseID int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Track is a stored tracklist entry. Tracks are identified within a record
// by their position string.
type Track struct {
	ID              int64
	VinylRecordID   int64
	Position        string
	Title           string
	DurationSeconds *int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Artist is a stored artist row. Name is empty until a release credit or
// band membership supplies one; profile is empty until the full Discogs
// artist record has been fetched.
type Artist struct {
	ID              int64
	Name            string
	Profile         string
	DiscogsArtistID int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Listing is a row from the denormalized vinyl_records_with_artists view.
type Listing struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Artists string `json:"artists"`
}

// AddResult reports what an add touched.
type AddResult struct {
	Record  Record
	Artists []Artist
	Tracks  []Track
}
