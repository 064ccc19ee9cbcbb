package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/marcus/userdash/internal/models"
)

const (
	// DefaultAPIURL is the users collection the dashboard was built against
	DefaultAPIURL = "https://user-json-aa7y.onrender.com/users"

	DefaultNoticeTTL  = 3 * time.Second
	DefaultCloseDelay = 1 * time.Second

	appDir     = "userdash"
	configFile = "config.json"
)

// DefaultPath returns ~/.config/userdash/config.json (or the XDG equivalent)
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", configFile)
	}
	return filepath.Join(dir, appDir, configFile)
}

// stateDir returns $XDG_STATE_HOME/userdash, falling back to ~/.local/state/userdash
func stateDir() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, appDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state", appDir)
}

// DefaultLogFile is where the dashboard writes its log while the TUI owns the terminal
func DefaultLogFile() string {
	return filepath.Join(stateDir(), "userdash.log")
}

// DefaultJournalPath is the activity journal database location
func DefaultJournalPath() string {
	return filepath.Join(stateDir(), "activity.db")
}

// Load reads the config from disk, overlays USERDASH_* environment
// variables, and fills defaults. A missing file is not an error.
func Load(path string) (*models.Config, error) {
	cfg := &models.Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// ApplyDefaults fills zero values and clamps the page size
func ApplyDefaults(cfg *models.Config) {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.PageSize = models.NormalizePageSize(cfg.PageSize)
	if cfg.RequestTimeout < 0 {
		cfg.RequestTimeout = 0
	}
	if cfg.LogFile == "" {
		cfg.LogFile = DefaultLogFile()
	}
	if cfg.JournalPath == "" {
		cfg.JournalPath = DefaultJournalPath()
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = DefaultNoticeTTL
	}
	if cfg.CloseDelay <= 0 {
		cfg.CloseDelay = DefaultCloseDelay
	}
}

// Save writes the config to disk
func Save(path string, cfg *models.Config) error {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Set updates a single key in the config file at path.
// Only file-backed values are written; environment overrides are not persisted.
func Set(path, key, value string) error {
	cfg := &models.Config{}
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
	}

	switch key {
	case "api_url":
		cfg.APIURL = value
	case "page_size":
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err != nil || n <= 0 {
			return fmt.Errorf("page_size must be a positive integer")
		}
		cfg.PageSize = n
	case "request_timeout", "notice_ttl", "close_delay":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		switch key {
		case "request_timeout":
			cfg.RequestTimeout = d
		case "notice_ttl":
			cfg.NoticeTTL = d
		default:
			cfg.CloseDelay = d
		}
	case "log_file":
		cfg.LogFile = value
	case "journal_path":
		cfg.JournalPath = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	return Save(path, cfg)
}
