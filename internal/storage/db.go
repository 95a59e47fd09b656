package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Open connects to the SQLite database at path, creating the parent
// directory and the file as needed, and applies connection pragmas.
func Open(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	return db, nil
}

// FormatTime renders a timestamp the way rows store it.
func FormatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

// ParseTime reads a stored timestamp string.
func ParseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

// NullableString converts empty strings to NULL for bind parameters.
func NullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// NullableInt64 converts nil to NULL for bind parameters.
func NullableInt64(value *int64) any {
	if value == nil {
		return nil
	}
	return *value
}

// Placeholders returns a comma-separated list of count bind markers.
func Placeholders(count int) string {
	if count <= 0 {
		return ""
	}
	markers := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			markers = append(markers, ',')
		}
		markers = append(markers, '?')
	}
	return string(markers)
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}
