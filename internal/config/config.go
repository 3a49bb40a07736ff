package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"tickerscope/pkg/model"
)

// Config represents the application configuration
type Config struct {
	Provider ProviderConfig `yaml:"provider"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
	Watch    WatchConfig    `yaml:"watch"`
	Tickers  []string       `yaml:"tickers"`
}

// ProviderConfig holds market-data provider settings
type ProviderConfig struct {
	YahooBaseURL string        `yaml:"yahoo_base_url"`
	RSSBaseURL   string        `yaml:"rss_base_url"`
	RateLimit    int           `yaml:"rate_limit"` // requests per minute
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	Proxy        string        `yaml:"proxy"`
	RSSFallback  bool          `yaml:"rss_fallback"`
	CacheTTL     time.Duration `yaml:"cache_ttl"`
}

// ScannerConfig holds refresh settings
type ScannerConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"`
}

// SnapshotConfig holds snapshot assembly settings
type SnapshotConfig struct {
	NewsLimit     int    `yaml:"news_limit"`     // headlines fetched per ticker
	DisplayNews   int    `yaml:"display_news"`   // headlines shown per ticker
	CompareWindow string `yaml:"compare_window"` // e.g. 1mo
	ChartWindow   string `yaml:"chart_window"`   // e.g. 6mo
}

// LogConfig holds logger settings
type LogConfig struct {
	Level    string `yaml:"level"`
	Encoding string `yaml:"encoding"` // console, json
}

// WatchConfig holds the periodic refresh schedule
type WatchConfig struct {
	Schedule        string `yaml:"schedule"` // cron spec, e.g. "@every 1m"
	MarketHoursOnly bool   `yaml:"market_hours_only"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			YahooBaseURL: "https://query1.finance.yahoo.com",
			RSSBaseURL:   "https://feeds.finance.yahoo.com/rss/2.0/headline",
			RateLimit:    30,
			Timeout:      30 * time.Second,
			UserAgent:    "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			RSSFallback:  true,
			CacheTTL:     time.Minute,
		},
		Scanner: ScannerConfig{
			Workers: 4,
			Timeout: 60 * time.Second,
		},
		Snapshot: SnapshotConfig{
			NewsLimit:     10,
			DisplayNews:   5,
			CompareWindow: "1mo",
			ChartWindow:   "6mo",
		},
		Log: LogConfig{
			Level:    "warn",
			Encoding: "console",
		},
		Watch: WatchConfig{
			Schedule: "@every 1m",
		},
		Tickers: []string{"TSLA"},
	}
}

// Load loads configuration from a YAML file. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Environment overrides
	if v := os.Getenv("TICKERSCOPE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("TICKERSCOPE_PROXY"); v != "" {
		cfg.Provider.Proxy = v
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Scanner.Timeout <= 0 {
		return fmt.Errorf("scanner timeout must be positive")
	}
	if c.Provider.CacheTTL <= 0 {
		return fmt.Errorf("provider cache_ttl must be positive")
	}
	if c.Provider.RateLimit < 1 {
		return fmt.Errorf("provider rate_limit must be at least 1")
	}
	if c.Snapshot.DisplayNews < 1 {
		return fmt.Errorf("display_news must be at least 1")
	}
	if c.Snapshot.NewsLimit < c.Snapshot.DisplayNews {
		return fmt.Errorf("news_limit (%d) must not be below display_news (%d)", c.Snapshot.NewsLimit, c.Snapshot.DisplayNews)
	}
	if _, err := model.ParseWindow(c.Snapshot.CompareWindow); err != nil {
		return fmt.Errorf("compare_window: %w", err)
	}
	if _, err := model.ParseWindow(c.Snapshot.ChartWindow); err != nil {
		return fmt.Errorf("chart_window: %w", err)
	}
	if strings.TrimSpace(c.Watch.Schedule) == "" {
		return fmt.Errorf("watch schedule must not be empty")
	}
	return nil
}

// CompareWindow returns the parsed comparison window
func (c *Config) CompareWindow() model.Window {
	w, err := model.ParseWindow(c.Snapshot.CompareWindow)
	if err != nil {
		return model.Window1M
	}
	return w
}

// ChartWindow returns the parsed per-ticker chart window
func (c *Config) ChartWindow() model.Window {
	w, err := model.ParseWindow(c.Snapshot.ChartWindow)
	if err != nil {
		return model.Window6M
	}
	return w
}
