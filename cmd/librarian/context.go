package main

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"librarian/internal/books"
	"librarian/internal/config"
	"librarian/internal/logging"
	"librarian/internal/services/discogs"
	"librarian/internal/services/genius"
	"librarian/internal/services/openlibrary"
	"librarian/internal/vinyl"
)

type commandContext struct {
	configFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

// ensureLogger builds the process logger once, tagging every record with a
// per-invocation run id so interleaved multi-add output stays traceable.
func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger.With("run_id", uuid.NewString())
		c.logger.Debug("configuration resolved", "path", c.configPath, "file_present", c.configExists)
	})
	return c.logger, c.loggerErr
}

// withBooks opens the books store and service for the duration of fn.
func (c *commandContext) withBooks(fn func(*books.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	client, err := openlibrary.New(cfg.OpenLibrary.BaseURL)
	if err != nil {
		return err
	}
	store, err := books.Open(cfg.BooksDBPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(books.NewService(store, client, logger))
}

// withVinyl opens the vinyl store and service for the duration of fn.
func (c *commandContext) withVinyl(fn func(*vinyl.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}
	client, err := discogs.New(cfg.Discogs.BaseURL, discogs.WithToken(cfg.Discogs.Token))
	if err != nil {
		return err
	}
	store, err := vinyl.Open(cfg.VinylDBPath())
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(vinyl.NewService(store, client, logger))
}

// geniusClient builds a Genius client from configuration.
func (c *commandContext) geniusClient() (*genius.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return genius.New(cfg.Genius.BaseURL, genius.WithToken(cfg.Genius.Token))
}
