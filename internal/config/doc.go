// Package config loads and validates librarian configuration.
//
// Configuration lives in a TOML file (default ~/.config/librarian/config.toml)
// and covers database paths, catalog API endpoints and tokens, and logging.
// API tokens can also arrive through the environment; a .env file next to the
// working directory is honored, mirroring how interactive setups usually keep
// credentials out of the config file.
package config
