// Package common provides shared utilities for Whaletrack
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Whaletrack
type Config struct {
	Environment string            `toml:"environment"`
	Institution InstitutionConfig `toml:"institution"`
	Schedule    ScheduleConfig    `toml:"schedule"`
	Server      ServerConfig      `toml:"server"`
	Storage     StorageConfig     `toml:"storage"`
	Filings     FilingsConfig     `toml:"filings"`
	Prices      PricesConfig      `toml:"prices"`
	Reports     ReportsConfig     `toml:"reports"`
	Gemini      GeminiConfig      `toml:"gemini"`
	Logging     LoggingConfig     `toml:"logging"`
}

// InstitutionConfig identifies the tracked filer.
type InstitutionConfig struct {
	CIK  string `toml:"cik"`
	Name string `toml:"name"`
	Slug string `toml:"slug"`
}

// PaddedCIK returns the CIK zero-padded to the 10 digits EDGAR expects.
func (c *InstitutionConfig) PaddedCIK() string {
	digits := strings.TrimLeft(strings.TrimSpace(c.CIK), "0")
	if digits == "" {
		digits = "0"
	}
	return fmt.Sprintf("%010s", digits)
}

// ScheduleConfig drives the analysis cycle cadence.
type ScheduleConfig struct {
	Spec       string `toml:"spec"` // cron expression, minute granularity
	RunOnStart bool   `toml:"run_on_start"`
}

// ServerConfig holds HTTP status server configuration
type ServerConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// StorageConfig holds path configuration for the 2 storage areas.
type StorageConfig struct {
	Data     AreaConfig `toml:"data"`     // Snapshot, price cache, sale ledger (file-based JSON)
	Internal AreaConfig `toml:"internal"` // Cycle bookkeeping + report archive (BadgerHold)
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// FilingsConfig holds SEC EDGAR client configuration.
type FilingsConfig struct {
	SubmissionsURL  string            `toml:"submissions_url"`
	ArchivesURL     string            `toml:"archives_url"`
	UserAgent       string            `toml:"user_agent"`
	RateLimit       int               `toml:"rate_limit"`
	Timeout         string            `toml:"timeout"`
	AllowEmpty      bool              `toml:"allow_empty"` // persist cycles whose filing has zero positions
	TickerOverrides map[string]string `toml:"ticker_overrides"`
}

// GetTimeout parses and returns the timeout duration
func (c *FilingsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// PricesConfig holds market data client configuration.
type PricesConfig struct {
	BaseURL   string `toml:"base_url"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
	TTL       string `toml:"ttl"`
}

// GetTimeout parses and returns the timeout duration
func (c *PricesConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetTTL parses and returns the price cache TTL
func (c *PricesConfig) GetTTL() time.Duration {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return FreshnessPrice
	}
	return d
}

// ReportsConfig holds report output configuration.
type ReportsConfig struct {
	Dir   string `toml:"dir"`
	Chart bool   `toml:"chart"`
}

// GeminiConfig holds Gemini API configuration
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Institution: InstitutionConfig{
			CIK:  "0001067983",
			Name: "Berkshire Hathaway Inc",
			Slug: "berkshire",
		},
		Schedule: ScheduleConfig{
			Spec:       "0 * * * *",
			RunOnStart: true,
		},
		Server: ServerConfig{
			Enabled: true,
			Host:    "0.0.0.0",
			Port:    8080,
		},
		Storage: StorageConfig{
			Data:     AreaConfig{Path: "data/store"},
			Internal: AreaConfig{Path: "data/internal"},
		},
		Filings: FilingsConfig{
			SubmissionsURL: "https://data.sec.gov",
			ArchivesURL:    "https://www.sec.gov",
			UserAgent:      "whaletrack/1.0 (research; holdings@whaletrack.dev)",
			RateLimit:      5,
			Timeout:        "30s",
		},
		Prices: PricesConfig{
			BaseURL:   "https://query1.finance.yahoo.com",
			RateLimit: 5,
			Timeout:   "30s",
			TTL:       "1h",
		},
		Reports: ReportsConfig{
			Dir:   "reports",
			Chart: true,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Apply environment overrides
	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("WHALETRACK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("WHALETRACK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("WHALETRACK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("WHALETRACK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("WHALETRACK_DATA_PATH"); path != "" {
		config.Storage.Data.Path = filepath.Join(path, "store")
		config.Storage.Internal.Path = filepath.Join(path, "internal")
	}

	if cik := os.Getenv("WHALETRACK_CIK"); cik != "" {
		config.Institution.CIK = cik
	}

	if spec := os.Getenv("WHALETRACK_SCHEDULE"); spec != "" {
		config.Schedule.Spec = spec
	}

	if ua := os.Getenv("WHALETRACK_SEC_USER_AGENT"); ua != "" {
		config.Filings.UserAgent = ua
	}

	for _, name := range []string{"WHALETRACK_GEMINI_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if key := os.Getenv(name); key != "" {
			config.Gemini.APIKey = key
			break
		}
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
