package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	require.NoError(t, cfg.Validate())
	require.Equal(t, 10.0, cfg.Forecast.VisibilityKm)
	require.Equal(t, "en", cfg.Geocoding.Language)
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  address: ":9090"
  allowedOrigins: ["https://weather.example.com"]
forecast:
  visibilityKm: 8
lookups:
  trendingLimit: 4
probe:
  enabled: false
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LOOKUPS_RECENT_LIMIT", "7")
	t.Setenv("FORECAST_TIMEOUT", "3s")
	t.Setenv("HTTP_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTP.Address)
	require.Equal(t, 8.0, cfg.Forecast.VisibilityKm)
	require.Equal(t, 4, cfg.Lookups.TrendingLimit)
	require.Equal(t, 7, cfg.Lookups.RecentLimit)
	require.Equal(t, 3*time.Second, cfg.Forecast.Timeout)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.HTTP.AllowedOrigins)
	require.False(t, cfg.Probe.Enabled)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]func(*Config){
		"empty address":   func(c *Config) { c.HTTP.Address = "" },
		"visibility":      func(c *Config) { c.Forecast.VisibilityKm = -1 },
		"redis addr":      func(c *Config) { c.Lookups.Redis.Enabled = true; c.Lookups.Redis.Addr = " " },
		"probe interval":  func(c *Config) { c.Probe.Interval = 0 },
		"negative retry":  func(c *Config) { c.Forecast.Resilience.MaxRetries = -1 },
		"rate limit rpm":  func(c *Config) { c.HTTP.RateLimit.RequestsPerMinute = 0 },
		"probe latitude":  func(c *Config) { c.Probe.Latitude = 95 },
		"reverse geocode": func(c *Config) { c.Geocoding.ReverseURL = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := defaultConfig()
			mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}
