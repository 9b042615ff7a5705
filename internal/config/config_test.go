package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"STOCKSENT_DB", "STOCKSENT_ARCHIVE_DIR", "PRICE_API_TOKEN", "NEWS_API_KEY", "LOG_LEVEL"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  sqlite_path: "/data/stocksent.db"
  archive_dir: "/data/archive"
providers:
  price:
    base_url: "https://price.example.com"
    token: "yaml-token"
  news:
    base_url: "https://news.example.com"
    api_key: "yaml-key"
    page_rate_per_min: 30
logging:
  level: "debug"
  format: "text"
sync:
  days: 30
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.SQLitePath != "/data/stocksent.db" {
		t.Errorf("Storage.SQLitePath = %q", cfg.Storage.SQLitePath)
	}
	if cfg.Storage.ArchiveDir != "/data/archive" {
		t.Errorf("Storage.ArchiveDir = %q", cfg.Storage.ArchiveDir)
	}
	if cfg.Providers.Price.BaseURL != "https://price.example.com" || cfg.Providers.Price.Token != "yaml-token" {
		t.Errorf("Providers.Price = %+v", cfg.Providers.Price)
	}
	if cfg.Providers.News.APIKey != "yaml-key" || cfg.Providers.News.PageRatePerMin != 30 {
		t.Errorf("Providers.News = %+v", cfg.Providers.News)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Sync.Days != 30 {
		t.Errorf("Sync.Days = %d, want 30", cfg.Sync.Days)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Storage.SQLitePath != "stocksent.db" {
		t.Errorf("Storage.SQLitePath = %q, want default", cfg.Storage.SQLitePath)
	}
	if cfg.Providers.News.PageRatePerMin != 60 {
		t.Errorf("PageRatePerMin = %d, want 60", cfg.Providers.News.PageRatePerMin)
	}
	if cfg.Sync.Days != 14 {
		t.Errorf("Sync.Days = %d, want 14", cfg.Sync.Days)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
storage:
  sqlite_path: "/yaml/stocksent.db"
providers:
  price:
    token: "yaml-token"
  news:
    api_key: "yaml-key"
`)

	t.Setenv("STOCKSENT_DB", "/env/stocksent.db")
	t.Setenv("PRICE_API_TOKEN", "env-token")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Storage.SQLitePath != "/env/stocksent.db" {
		t.Errorf("Storage.SQLitePath = %q, want env override", cfg.Storage.SQLitePath)
	}
	if cfg.Providers.Price.Token != "env-token" {
		t.Errorf("Providers.Price.Token = %q, want env override", cfg.Providers.Price.Token)
	}
	// api_key should remain from YAML since no env override was set.
	if cfg.Providers.News.APIKey != "yaml-key" {
		t.Errorf("Providers.News.APIKey = %q, want yaml value", cfg.Providers.News.APIKey)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
