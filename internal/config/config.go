package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds every dex setting. Zero values never reach callers: Load
// fills defaults for anything missing or blank.
type Config struct {
	APIBaseURL     string
	PageSize       int
	SearchLimit    int
	Debounce       time.Duration
	RequestTimeout time.Duration
	StoreBackend   string
	StorePath      string
	LogFile        string
	LogLevel       string
}

const (
	defaultConfigPath     = "~/.config/dex/config.toml"
	defaultAPIBaseURL     = "https://pokeapi.co/api/v2"
	defaultPageSize       = 151
	defaultSearchLimit    = 1000
	defaultDebounce       = 300 * time.Millisecond
	defaultRequestTimeout = 10 * time.Second
	defaultStoreBackend   = "bolt"
	defaultDataDir        = "~/.local/share/dex"
	defaultLogLevel       = "info"
)

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg := Config{
		APIBaseURL:     defaultAPIBaseURL,
		PageSize:       defaultPageSize,
		SearchLimit:    defaultSearchLimit,
		Debounce:       defaultDebounce,
		RequestTimeout: defaultRequestTimeout,
		StoreBackend:   defaultStoreBackend,
		LogLevel:       defaultLogLevel,
	}
	cfg.StorePath = defaultStorePath(cfg.StoreBackend)
	cfg.LogFile = mustExpand(defaultDataDir + "/dex.log")
	return cfg
}

// Load locates and parses the dex config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBaseURL       string `toml:"api_base_url"`
		PageSize         int    `toml:"page_size"`
		SearchLimit      int    `toml:"search_limit"`
		DebounceMS       int    `toml:"debounce_ms"`
		RequestTimeoutMS int    `toml:"request_timeout_ms"`
		StoreBackend     string `toml:"store_backend"`
		StorePath        string `toml:"store_path"`
		LogFile          string `toml:"log_file"`
		LogLevel         string `toml:"log_level"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIBaseURL); v != "" {
		cfg.APIBaseURL = v
	}
	if raw.PageSize > 0 {
		cfg.PageSize = raw.PageSize
	}
	if raw.SearchLimit > 0 {
		cfg.SearchLimit = raw.SearchLimit
	}
	if raw.DebounceMS > 0 {
		cfg.Debounce = time.Duration(raw.DebounceMS) * time.Millisecond
	}
	if raw.RequestTimeoutMS > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutMS) * time.Millisecond
	}

	switch backend := strings.ToLower(strings.TrimSpace(raw.StoreBackend)); backend {
	case "":
	case "bolt", "file":
		cfg.StoreBackend = backend
		cfg.StorePath = defaultStorePath(backend)
	default:
		return Config{}, fmt.Errorf("parse config: store_backend %q: want bolt or file", raw.StoreBackend)
	}
	if v := strings.TrimSpace(raw.StorePath); v != "" {
		cfg.StorePath = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}

	return cfg, nil
}

func defaultStorePath(backend string) string {
	if backend == "file" {
		return mustExpand(defaultDataDir + "/favorites.json")
	}
	return mustExpand(defaultDataDir + "/favorites.db")
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
