package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/marcus/userdash/internal/models"
)

// clearEnv blanks every override so the host environment cannot leak in
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"USERDASH_API_URL", "USERDASH_PAGE_SIZE", "USERDASH_TIMEOUT",
		"USERDASH_LOG_FILE", "USERDASH_JOURNAL", "USERDASH_NOTICE_TTL",
		"USERDASH_CLOSE_DELAY",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.json")

		expected := &models.Config{
			APIURL:         "http://localhost:3000/users",
			PageSize:       25,
			RequestTimeout: 5 * time.Second,
			LogFile:        "/tmp/ud.log",
			JournalPath:    "/tmp/ud.db",
			NoticeTTL:      2 * time.Second,
			CloseDelay:     500 * time.Millisecond,
		}
		data, err := json.MarshalIndent(expected, "", "  ")
		if err != nil {
			t.Fatalf("setup: marshal failed: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if *cfg != *expected {
			t.Errorf("Load: got %+v, want %+v", *cfg, *expected)
		}
	})

	t.Run("non-existent file returns defaults", func(t *testing.T) {
		clearEnv(t)
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.APIURL != DefaultAPIURL {
			t.Errorf("APIURL: got %q, want %q", cfg.APIURL, DefaultAPIURL)
		}
		if cfg.PageSize != models.DefaultPageSize {
			t.Errorf("PageSize: got %d, want %d", cfg.PageSize, models.DefaultPageSize)
		}
		if cfg.RequestTimeout != 0 {
			t.Errorf("RequestTimeout: got %v, want 0", cfg.RequestTimeout)
		}
		if cfg.NoticeTTL != DefaultNoticeTTL {
			t.Errorf("NoticeTTL: got %v, want %v", cfg.NoticeTTL, DefaultNoticeTTL)
		}
		if cfg.CloseDelay != DefaultCloseDelay {
			t.Errorf("CloseDelay: got %v, want %v", cfg.CloseDelay, DefaultCloseDelay)
		}
		if cfg.LogFile == "" || cfg.JournalPath == "" {
			t.Errorf("expected default log and journal paths, got %q and %q", cfg.LogFile, cfg.JournalPath)
		}
	})

	t.Run("invalid JSON returns error", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte("not valid json{"), 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("Load should fail for invalid JSON")
		}
	})

	t.Run("page size is clamped", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.json")
		if err := os.WriteFile(path, []byte(`{"page_size": 5000}`), 0644); err != nil {
			t.Fatalf("setup: write failed: %v", err)
		}
		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.PageSize != models.MaxPageSize {
			t.Errorf("PageSize: got %d, want %d", cfg.PageSize, models.MaxPageSize)
		}
	})
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"api_url":"http://file/users","page_size":20}`), 0644); err != nil {
		t.Fatalf("setup: write failed: %v", err)
	}

	t.Setenv("USERDASH_API_URL", "http://env/users")
	t.Setenv("USERDASH_TIMEOUT", "7s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "http://env/users" {
		t.Errorf("APIURL: got %q, want env value", cfg.APIURL)
	}
	if cfg.PageSize != 20 {
		t.Errorf("PageSize: got %d, want file value 20", cfg.PageSize)
	}
	if cfg.RequestTimeout != 7*time.Second {
		t.Errorf("RequestTimeout: got %v, want 7s", cfg.RequestTimeout)
	}
}

func TestLoadEnvInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("USERDASH_PAGE_SIZE", "not-a-number")

	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for invalid USERDASH_PAGE_SIZE")
	}
}

func TestSave(t *testing.T) {
	t.Run("creates directories and writes valid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")

		cfg := &models.Config{APIURL: "http://x/users", PageSize: 15}
		if err := Save(path, cfg); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read config failed: %v", err)
		}
		var loaded models.Config
		if err := json.Unmarshal(data, &loaded); err != nil {
			t.Fatalf("config is not valid JSON: %v", err)
		}
		if loaded.APIURL != cfg.APIURL || loaded.PageSize != cfg.PageSize {
			t.Errorf("roundtrip: got %+v, want %+v", loaded, *cfg)
		}
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		clearEnv(t)
		path := filepath.Join(t.TempDir(), "config.json")

		if err := Save(path, &models.Config{APIURL: "http://first/users"}); err != nil {
			t.Fatalf("first Save failed: %v", err)
		}
		if err := Save(path, &models.Config{APIURL: "http://second/users"}); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}

		loaded, err := Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.APIURL != "http://second/users" {
			t.Errorf("APIURL: got %q, want %q", loaded.APIURL, "http://second/users")
		}
	})
}

func TestSet(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"api_url", "http://set/users", false},
		{"page_size", "30", false},
		{"page_size", "zero", true},
		{"page_size", "-1", true},
		{"request_timeout", "4s", false},
		{"notice_ttl", "bogus", true},
		{"close_delay", "250ms", false},
		{"unknown", "x", true},
	}
	for _, tt := range tests {
		err := Set(path, tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("Set(%q, %q): err = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.APIURL != "http://set/users" {
		t.Errorf("APIURL: got %q", cfg.APIURL)
	}
	if cfg.PageSize != 30 {
		t.Errorf("PageSize: got %d, want 30", cfg.PageSize)
	}
	if cfg.RequestTimeout != 4*time.Second {
		t.Errorf("RequestTimeout: got %v, want 4s", cfg.RequestTimeout)
	}
	if cfg.CloseDelay != 250*time.Millisecond {
		t.Errorf("CloseDelay: got %v, want 250ms", cfg.CloseDelay)
	}
}

func TestApplyDefaultsJournalPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", DefaultJournalPath()},
		{"off", "off"},
		{"none", "none"},
		{"/tmp/ud.db", "/tmp/ud.db"},
	}
	for _, tt := range tests {
		cfg := &models.Config{JournalPath: tt.in}
		ApplyDefaults(cfg)
		if cfg.JournalPath != tt.want {
			t.Errorf("JournalPath %q: got %q, want %q", tt.in, cfg.JournalPath, tt.want)
		}
	}
}
