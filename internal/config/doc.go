// Package config loads the dex configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/dex/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, blank or non-positive, use defaults
//
// # TOML Format
//
//	api_base_url       = "https://pokeapi.co/api/v2"
//	page_size          = 151
//	search_limit       = 1000
//	debounce_ms        = 300
//	request_timeout_ms = 10000
//	store_backend      = "bolt"   # or "file"
//	store_path         = "~/.local/share/dex/favorites.db"
//	log_file           = "~/.local/share/dex/dex.log"
//	log_level          = "info"
//
// Every field is optional. Paths get tilde expansion and are made absolute.
// Changing store_backend without store_path moves the store to that
// backend's default file name.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, TOML parse errors, and unknown store backends. A missing
// file is not an error.
package config
