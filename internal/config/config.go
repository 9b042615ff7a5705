package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stocksent pipeline.
type Config struct {
	Storage   Storage   `yaml:"storage"`
	Providers Providers `yaml:"providers"`
	Logging   Logging   `yaml:"logging"`
	Sync      Sync      `yaml:"sync"`
}

// Storage holds paths for data persistence.
type Storage struct {
	SQLitePath string `yaml:"sqlite_path"`
	ArchiveDir string `yaml:"archive_dir"`
}

// Providers holds credentials and endpoints for the two data providers.
type Providers struct {
	Price PriceProvider `yaml:"price"`
	News  NewsProvider  `yaml:"news"`
}

// PriceProvider configures the daily price and metadata API.
type PriceProvider struct {
	BaseURL string `yaml:"base_url"`
	Token   string `yaml:"token"`
}

// NewsProvider configures the news API.
type NewsProvider struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	PageRatePerMin int    `yaml:"page_rate_per_min"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Sync holds defaults for a sync run.
type Sync struct {
	// Days is the trailing window size in calendar days.
	Days int `yaml:"days"`
}

// Default returns the built-in configuration, used when no config file is
// given.
func Default() *Config {
	return &Config{
		Storage: Storage{
			SQLitePath: "stocksent.db",
			ArchiveDir: "archive",
		},
		Providers: Providers{
			Price: PriceProvider{BaseURL: "https://api.tiingo.com/tiingo/daily"},
			News:  NewsProvider{BaseURL: "https://api.polygon.io/v2/reference", PageRatePerMin: 60},
		},
		Logging: Logging{Level: "info", Format: "json"},
		Sync:    Sync{Days: 14},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides. An empty
// path yields the defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("STOCKSENT_DB"); v != "" {
		cfg.Storage.SQLitePath = v
	}

	if v := os.Getenv("STOCKSENT_ARCHIVE_DIR"); v != "" {
		cfg.Storage.ArchiveDir = v
	}

	if v := os.Getenv("PRICE_API_TOKEN"); v != "" {
		cfg.Providers.Price.Token = v
	}

	if v := os.Getenv("NEWS_API_KEY"); v != "" {
		cfg.Providers.News.APIKey = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
