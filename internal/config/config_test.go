package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tickerscope/pkg/model"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Scanner, cfg.Scanner)
	assert.Equal(t, []string{"TSLA"}, cfg.Tickers)
	require.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
tickers: [AAPL, MSFT]
scanner:
  workers: 8
  timeout: 15s
snapshot:
  compare_window: 3mo
provider:
  cache_ttl: 2m
watch:
  market_hours_only: true
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Tickers)
	assert.Equal(t, 8, cfg.Scanner.Workers)
	assert.Equal(t, 15*time.Second, cfg.Scanner.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Provider.CacheTTL)
	assert.Equal(t, model.Window3M, cfg.CompareWindow())
	assert.Equal(t, model.Window6M, cfg.ChartWindow())
	assert.Equal(t, 5, cfg.Snapshot.DisplayNews, "unset keys keep defaults")
	assert.True(t, cfg.Watch.MarketHoursOnly)
	assert.Equal(t, "@every 1m", cfg.Watch.Schedule)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scanner: [not, a, map"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TICKERSCOPE_LOG_LEVEL", "debug")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no workers", func(c *Config) { c.Scanner.Workers = 0 }},
		{"zero timeout", func(c *Config) { c.Scanner.Timeout = 0 }},
		{"zero rate limit", func(c *Config) { c.Provider.RateLimit = 0 }},
		{"zero cache ttl", func(c *Config) { c.Provider.CacheTTL = 0 }},
		{"negative cache ttl", func(c *Config) { c.Provider.CacheTTL = -time.Second }},
		{"display above fetch", func(c *Config) { c.Snapshot.NewsLimit = 2 }},
		{"bad window", func(c *Config) { c.Snapshot.CompareWindow = "fortnight" }},
		{"empty schedule", func(c *Config) { c.Watch.Schedule = " " }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
