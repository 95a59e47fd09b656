package vinyl

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"librarian/internal/services"
	"librarian/internal/services/discogs"
	"librarian/internal/storage"
)

//go:embed schema.sql
var schemaSQL string

const vinylView = `
CREATE VIEW vinyl_records_with_artists AS
SELECT
    v.id AS id,
    v.title AS title,
    v.year AS year,
    (
        SELECT group_concat(a.name, ', ')
        FROM vinyl_records_artists va
        JOIN artists a ON a.id = va.artist_id
        WHERE va.vinyl_record_id = v.id
        ORDER BY a.name
    ) AS artists
FROM vinyl_records v`

// Store manages vinyl collection persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the vinyl database, applies the schema,
// and rebuilds the read view.
func Open(path string) (*Store, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DROP VIEW IF EXISTS vinyl_records_with_artists"); err != nil {
		return fmt.Errorf("drop view: %w", err)
	}
	if _, err := tx.ExecContext(ctx, vinylView); err != nil {
		return fmt.Errorf("create view: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// AddRelease upserts a normalized release, its credited artists, the links
// between them, its tracklist, its styles, and the raw payload archive, all
// inside one transaction. Tracks are keyed by position within the record;
// positions that vanished from the source are left alone.
func (s *Store) AddRelease(ctx context.Context, release *discogs.Release) (*AddResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := archiveRow(ctx, tx, "discogs_releases", release.ID, release.Raw); err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "archive release payload", err)
	}

	record, err := s.upsertRecord(ctx, tx, release)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "upsert record", err)
	}

	result := &AddResult{Record: *record}
	for _, credit := range release.Artists {
		artist, err := s.upsertArtist(ctx, tx, credit)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "upsert artist", err)
		}
		result.Artists = append(result.Artists, *artist)
	}
	if err := linkArtists(ctx, tx, record.ID, result.Artists); err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "link artists", err)
	}

	for _, entry := range release.Tracks {
		track, err := s.upsertTrack(ctx, tx, record.ID, entry)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "upsert track", err)
		}
		result.Tracks = append(result.Tracks, *track)
	}

	for _, style := range release.Styles {
		if err := s.upsertStyle(ctx, tx, style); err != nil {
			return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "upsert style", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "add", "commit", err)
	}
	return result, nil
}

// UpdateArtist refreshes a stored artist from its full Discogs record,
// archives the raw payload, and reconciles band membership rows. The member
// count is returned for reporting.
func (s *Store) UpdateArtist(ctx context.Context, artist *discogs.Artist) (*Artist, int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrStorage, "vinyl", "update artists", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := archiveRow(ctx, tx, "discogs_artists", artist.ID, artist.Raw); err != nil {
		return nil, 0, services.Wrap(services.ErrStorage, "vinyl", "update artists", "archive artist payload", err)
	}

	bandRow, err := s.upsertArtist(ctx, tx, artist)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrStorage, "vinyl", "update artists", "upsert artist", err)
	}

	for _, member := range artist.Members {
		memberRow, err := s.upsertArtist(ctx, tx, member)
		if err != nil {
			return nil, 0, services.Wrap(services.ErrStorage, "vinyl", "update artists", "upsert member", err)
		}
		var isActive any
		if member.IsActive != nil {
			isActive = *member.IsActive
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO bands_members (artist_band_id, artist_member_id, is_active)
             VALUES (?, ?, ?)
             ON CONFLICT(artist_band_id, artist_member_id) DO UPDATE SET
                 is_active = excluded.is_active`,
			bandRow.ID, memberRow.ID, isActive,
		); err != nil {
			return nil, 0, services.Wrap(services.ErrStorage, "vinyl", "update artists", "upsert band member", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, services.Wrap(services.ErrStorage, "vinyl", "update artists", "commit", err)
	}
	return bandRow, len(artist.Members), nil
}

// linkArtists writes every (record, artist) pair in one idempotent statement.
func linkArtists(ctx context.Context, tx *sql.Tx, recordID int64, artists []Artist) error {
	if len(artists) == 0 {
		return nil
	}
	groups := make([]string, 0, len(artists))
	args := make([]any, 0, len(artists)*2)
	for _, artist := range artists {
		groups = append(groups, "("+storage.Placeholders(2)+")")
		args = append(args, recordID, artist.ID)
	}
	_, err := tx.ExecContext(ctx,
		"INSERT OR IGNORE INTO vinyl_records_artists (vinyl_record_id, artist_id) VALUES "+strings.Join(groups, ", "),
		args...)
	return err
}

func archiveRow(ctx context.Context, tx *sql.Tx, table string, id int64, data []byte) error {
	_, err := tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, data, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`, table),
		id, string(data), storage.FormatTime(time.Now()),
	)
	return err
}

func (s *Store) upsertRecord(ctx context.Context, tx *sql.Tx, release *discogs.Release) (*Record, error) {
	now := storage.FormatTime(time.Now())

	var existingID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM vinyl_records WHERE discogs_release_id = ? ORDER BY id LIMIT 1",
		release.ID,
	).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx,
			`INSERT INTO vinyl_records (title, year, barcode, discogs_release_id, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			release.Title, release.Year, storage.NullableString(release.Barcode), release.ID, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert record: %w", err)
		}
		existingID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup record: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE vinyl_records SET title = ?, year = ?, barcode = ?, updated_at = ? WHERE id = ?",
			release.Title, release.Year, storage.NullableString(release.Barcode), now, existingID,
		); err != nil {
			return nil, fmt.Errorf("update record: %w", err)
		}
	}

	return s.getRecord(ctx, tx, existingID)
}

// upsertArtist accepts any of the three artist shapes Discogs returns and
// writes only the fields that shape carries: a release credit or band
// member has a name, a full artist record has a profile but no name.
func (s *Store) upsertArtist(ctx context.Context, tx *sql.Tx, variant any) (*Artist, error) {
	var discogsID int64
	var name, profile string
	switch v := variant.(type) {
	case *discogs.Artist:
		discogsID = v.ID
		profile = v.Profile
	case discogs.ReleaseArtist:
		discogsID = v.ID
		name = v.Name
	case discogs.Member:
		discogsID = v.ID
		name = v.Name
	default:
		return nil, fmt.Errorf("unsupported artist variant %T", variant)
	}

	now := storage.FormatTime(time.Now())

	var existingID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM artists WHERE discogs_artist_id = ? ORDER BY id LIMIT 1",
		discogsID,
	).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx,
			"INSERT INTO artists (name, profile, discogs_artist_id, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
			storage.NullableString(name), storage.NullableString(profile), discogsID, now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert artist: %w", err)
		}
		existingID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup artist: %w", err)
	default:
		switch variant.(type) {
		case *discogs.Artist:
			_, err = tx.ExecContext(ctx,
				"UPDATE artists SET profile = ?, updated_at = ? WHERE id = ?",
				storage.NullableString(profile), now, existingID)
		default:
			_, err = tx.ExecContext(ctx,
				"UPDATE artists SET name = ?, updated_at = ? WHERE id = ?",
				storage.NullableString(name), now, existingID)
		}
		if err != nil {
			return nil, fmt.Errorf("update artist: %w", err)
		}
	}

	return s.getArtist(ctx, tx, existingID)
}

func (s *Store) upsertTrack(ctx context.Context, tx *sql.Tx, recordID int64, entry discogs.Track) (*Track, error) {
	now := storage.FormatTime(time.Now())

	var existingID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM tracks WHERE vinyl_record_id = ? AND position = ? ORDER BY id LIMIT 1",
		recordID, entry.Position,
	).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		res, err := tx.ExecContext(ctx,
			`INSERT INTO tracks (vinyl_record_id, position, title, duration_seconds, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?)`,
			recordID, entry.Position, entry.Title, storage.NullableInt64(entry.DurationSeconds), now, now,
		)
		if err != nil {
			return nil, fmt.Errorf("insert track: %w", err)
		}
		existingID, err = res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("last insert id: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("lookup track: %w", err)
	default:
		if _, err := tx.ExecContext(ctx,
			"UPDATE tracks SET title = ?, duration_seconds = ?, updated_at = ? WHERE id = ?",
			entry.Title, storage.NullableInt64(entry.DurationSeconds), now, existingID,
		); err != nil {
			return nil, fmt.Errorf("update track: %w", err)
		}
	}

	row := tx.QueryRowContext(ctx,
		`SELECT id, vinyl_record_id, position, title, duration_seconds, created_at, updated_at
         FROM tracks WHERE id = ?`, existingID)
	return scanTrack(row)
}

func (s *Store) upsertStyle(ctx context.Context, tx *sql.Tx, name string) error {
	var existingID int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM styles WHERE name = ? ORDER BY id LIMIT 1", name,
	).Scan(&existingID)
	switch {
	case err == sql.ErrNoRows:
		if _, err := tx.ExecContext(ctx, "INSERT INTO styles (name) VALUES (?)", name); err != nil {
			return fmt.Errorf("insert style: %w", err)
		}
		return nil
	case err != nil:
		return fmt.Errorf("lookup style: %w", err)
	}
	return nil
}

func (s *Store) getRecord(ctx context.Context, tx *sql.Tx, id int64) (*Record, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT id, title, year, barcode, discogs_release_id, created_at, updated_at
         FROM vinyl_records WHERE id = ?`, id)
	return scanRecord(row)
}

func (s *Store) getArtist(ctx context.Context, tx *sql.Tx, id int64) (*Artist, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT id, name, profile, discogs_artist_id, created_at, updated_at
         FROM artists WHERE id = ?`, id)
	return scanArtist(row)
}

// ListArtists returns every stored artist ordered by id.
func (s *Store) ListArtists(ctx context.Context) ([]Artist, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, profile, discogs_artist_id, created_at, updated_at FROM artists ORDER BY id")
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "list artists", "query artists", err)
	}
	defer rows.Close()

	var artists []Artist
	for rows.Next() {
		artist, err := scanArtist(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "vinyl", "list artists", "scan artist", err)
		}
		artists = append(artists, *artist)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "list artists", "iterate rows", err)
	}
	return artists, nil
}

// ListTracks returns the stored tracklist for a record, ordered by position.
func (s *Store) ListTracks(ctx context.Context, recordID int64) ([]Track, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, vinyl_record_id, position, title, duration_seconds, created_at, updated_at
         FROM tracks WHERE vinyl_record_id = ? ORDER BY position`, recordID)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "list tracks", "query tracks", err)
	}
	defer rows.Close()

	var tracks []Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrStorage, "vinyl", "list tracks", "scan track", err)
		}
		tracks = append(tracks, *track)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "list tracks", "iterate rows", err)
	}
	return tracks, nil
}

// List returns every record from the denormalized read view, ordered by
// title.
func (s *Store) List(ctx context.Context) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, title, year, artists FROM vinyl_records_with_artists ORDER BY title")
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "list", "query view", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

// Search matches the query against record titles and artist names using the
// full-text indexes.
func (s *Store) Search(ctx context.Context, query string) ([]Listing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT v.id, v.title, v.year, v.artists
         FROM vinyl_records_with_artists v
         WHERE v.id IN (
             SELECT rowid FROM vinyl_records_fts WHERE vinyl_records_fts MATCH ?
             UNION
             SELECT va.vinyl_record_id
             FROM vinyl_records_artists va
             JOIN (SELECT rowid FROM artists_fts WHERE artists_fts MATCH ?) matched
               ON matched.rowid = va.artist_id
         )
         ORDER BY v.title`,
		query, query,
	)
	if err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "search", "query view", err)
	}
	defer rows.Close()
	return collectListings(rows)
}

func collectListings(rows *sql.Rows) ([]Listing, error) {
	var listings []Listing
	for rows.Next() {
		var listing Listing
		var year sql.NullInt64
		var artists sql.NullString
		if err := rows.Scan(&listing.ID, &listing.Title, &year, &artists); err != nil {
			return nil, services.Wrap(services.ErrStorage, "vinyl", "list", "scan row", err)
		}
		listing.Year = int(year.Int64)
		listing.Artists = artists.String
		listings = append(listings, listing)
	}
	if err := rows.Err(); err != nil {
		return nil, services.Wrap(services.ErrStorage, "vinyl", "list", "iterate rows", err)
	}
	return listings, nil
}

func scanRecord(scanner storage.Scanner) (*Record, error) {
	var record Record
	var year sql.NullInt64
	var barcode sql.NullString
	var createdAt, updatedAt string
	if err := scanner.Scan(&record.ID, &record.Title, &year, &barcode,
		&record.DiscogsReleaseID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	record.Year = int(year.Int64)
	record.Barcode = barcode.String

	var err error
	if record.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if record.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &record, nil
}

func scanArtist(scanner storage.Scanner) (*Artist, error) {
	var artist Artist
	var name, profile sql.NullString
	var createdAt, updatedAt string
	if err := scanner.Scan(&artist.ID, &name, &profile, &artist.DiscogsArtistID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	artist.Name = name.String
	artist.Profile = profile.String

	var err error
	if artist.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if artist.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &artist, nil
}

func scanTrack(scanner storage.Scanner) (*Track, error) {
	var track Track
	var duration sql.NullInt64
	var createdAt, updatedAt string
	if err := scanner.Scan(&track.ID, &track.VinylRecordID, &track.Position,
		&track.Title, &duration, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if duration.Valid {
		value := duration.Int64
		track.DurationSeconds = &value
	}

	var err error
	if track.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if track.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &track, nil
}
