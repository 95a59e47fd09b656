package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for values the CLI cannot run with.
func (c *Config) Validate() error {
	if c.Paths.DataDir == "" {
		return errors.New("config: paths.data_dir must not be empty")
	}
	if c.Paths.LogDir == "" {
		return errors.New("config: paths.log_dir must not be empty")
	}
	if c.OpenLibrary.BaseURL == "" {
		return errors.New("config: openlibrary.base_url must not be empty")
	}
	if c.Discogs.BaseURL == "" {
		return errors.New("config: discogs.base_url must not be empty")
	}
	if c.Genius.BaseURL == "" {
		return errors.New("config: genius.base_url must not be empty")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: logging.format: unsupported value %q", c.Logging.Format)
	}

	return nil
}
