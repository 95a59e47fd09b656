package config

const (
	defaultDataDir            = "~/.local/share/librarian"
	defaultLogDir             = "~/.local/share/librarian/logs"
	defaultOpenLibraryBaseURL = "https://openlibrary.org"
	defaultDiscogsBaseURL     = "https://api.discogs.com"
	defaultGeniusBaseURL      = "https://api.genius.com"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		OpenLibrary: OpenLibrary{
			BaseURL: defaultOpenLibraryBaseURL,
		},
		Discogs: Discogs{
			BaseURL: defaultDiscogsBaseURL,
		},
		Genius: Genius{
			BaseURL: defaultGeniusBaseURL,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
