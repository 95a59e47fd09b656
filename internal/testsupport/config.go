// Package testsupport provides shared helpers for package tests: temp-dir
// configurations and collection store lifecycles.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"librarian/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config rooted in unique temp directories per test,
// with catalog base URLs pointing nowhere routable so a test that forgets
// to stub its server fails fast.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.OpenLibrary.BaseURL = "http://127.0.0.1:0"
	cfg.Discogs.BaseURL = "http://127.0.0.1:0"
	cfg.Genius.BaseURL = "http://127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WriteConfig marshals cfg to a TOML file in a temp directory and returns
// its path, for tests that exercise loading configuration from disk.
func WriteConfig(t testing.TB, cfg *config.Config) string {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// WithOpenLibraryURL points the config at a stub OpenLibrary server.
func WithOpenLibraryURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.OpenLibrary.BaseURL = url
	}
}

// WithDiscogsURL points the config at a stub Discogs server.
func WithDiscogsURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Discogs.BaseURL = url
	}
}

// WithGeniusURL points the config at a stub Genius server.
func WithGeniusURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Genius.BaseURL = url
	}
}
