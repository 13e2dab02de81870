package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Forecast  ForecastConfig  `yaml:"forecast"`
	Geocoding GeocodingConfig `yaml:"geocoding"`
	Lookups   LookupsConfig   `yaml:"lookups"`
	Probe     ProbeConfig     `yaml:"probe"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the per-client request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// ResilienceConfig guards calls to a third-party API.
type ResilienceConfig struct {
	MaxRetries        int           `yaml:"maxRetries"`
	InitialBackoff    time.Duration `yaml:"initialBackoff"`
	MaxBackoff        time.Duration `yaml:"maxBackoff"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
	FailureThreshold  uint32        `yaml:"failureThreshold"`
	OpenTimeout       time.Duration `yaml:"openTimeout"`
}

// ForecastConfig controls the Open-Meteo forecast client and normalization.
type ForecastConfig struct {
	BaseURL      string           `yaml:"baseUrl"`
	Timeout      time.Duration    `yaml:"timeout"`
	VisibilityKm float64          `yaml:"visibilityKm"`
	Resilience   ResilienceConfig `yaml:"resilience"`
}

// GeocodingConfig controls place resolution.
type GeocodingConfig struct {
	SearchURL  string           `yaml:"searchUrl"`
	ReverseURL string           `yaml:"reverseUrl"`
	Language   string           `yaml:"language"`
	Timeout    time.Duration    `yaml:"timeout"`
	Resilience ResilienceConfig `yaml:"resilience"`
	// GoogleAPIKey switches both directions to the Google geocoding API.
	GoogleAPIKey string `yaml:"googleApiKey"`
}

// LookupsConfig controls the lookup log and trending places.
type LookupsConfig struct {
	TrendingLimit int            `yaml:"trendingLimit"`
	RecentLimit   int            `yaml:"recentLimit"`
	MemoryLimit   int            `yaml:"memoryLimit"`
	Redis         RedisConfig    `yaml:"redis"`
	Postgres      PostgresConfig `yaml:"postgres"`
}

// RedisConfig contains connection information for the trending store.
type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
	Prefix  string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ProbeConfig controls the periodic upstream readiness probe.
type ProbeConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Interval  time.Duration `yaml:"interval"`
	Latitude  float64       `yaml:"latitude"`
	Longitude float64       `yaml:"longitude"`
}

// Load reads configuration from .env, a YAML file and environment variables.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString("HTTP_ADDRESS", &cfg.HTTP.Address)
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	setBool("HTTP_RATE_LIMIT_ENABLED", &cfg.HTTP.RateLimit.Enabled)
	setInt("HTTP_RATE_LIMIT_RPM", &cfg.HTTP.RateLimit.RequestsPerMinute)
	setInt("HTTP_RATE_LIMIT_BURST", &cfg.HTTP.RateLimit.Burst)

	setString("FORECAST_BASE_URL", &cfg.Forecast.BaseURL)
	setDuration("FORECAST_TIMEOUT", &cfg.Forecast.Timeout)
	setInt("FORECAST_MAX_RETRIES", &cfg.Forecast.Resilience.MaxRetries)

	setString("GEOCODING_SEARCH_URL", &cfg.Geocoding.SearchURL)
	setString("GEOCODING_REVERSE_URL", &cfg.Geocoding.ReverseURL)
	setString("GEOCODING_LANGUAGE", &cfg.Geocoding.Language)
	setString("GOOGLE_GEOCODING_API_KEY", &cfg.Geocoding.GoogleAPIKey)

	setInt("LOOKUPS_TRENDING_LIMIT", &cfg.Lookups.TrendingLimit)
	setInt("LOOKUPS_RECENT_LIMIT", &cfg.Lookups.RecentLimit)
	setBool("LOOKUPS_REDIS_ENABLED", &cfg.Lookups.Redis.Enabled)
	setString("LOOKUPS_REDIS_ADDR", &cfg.Lookups.Redis.Addr)
	setString("LOOKUPS_POSTGRES_DSN", &cfg.Lookups.Postgres.DSN)
	if v := os.Getenv("LOOKUPS_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Lookups.Postgres.MaxConns = int32(parsed)
		}
	}

	setBool("PROBE_ENABLED", &cfg.Probe.Enabled)
	setDuration("PROBE_INTERVAL", &cfg.Probe.Interval)
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(key string, dst *bool) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(key string, dst *time.Duration) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func defaultConfig() *Config {
	upstream := ResilienceConfig{
		MaxRetries:        2,
		InitialBackoff:    200 * time.Millisecond,
		MaxBackoff:        2 * time.Second,
		RequestsPerSecond: 10,
		Burst:             5,
		FailureThreshold:  5,
		OpenTimeout:       time.Minute,
	}
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   15 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
		},
		Forecast: ForecastConfig{
			BaseURL:      "https://api.open-meteo.com/v1/forecast",
			Timeout:      10 * time.Second,
			VisibilityKm: 10,
			Resilience:   upstream,
		},
		Geocoding: GeocodingConfig{
			SearchURL:  "https://geocoding-api.open-meteo.com/v1/search",
			ReverseURL: "https://api.bigdatacloud.net/data/reverse-geocode-client",
			Language:   "en",
			Timeout:    5 * time.Second,
			Resilience: upstream,
		},
		Lookups: LookupsConfig{
			TrendingLimit: 10,
			RecentLimit:   20,
			MemoryLimit:   500,
			Redis: RedisConfig{
				Enabled: false,
				Prefix:  "taapman",
			},
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Probe: ProbeConfig{
			Enabled:   true,
			Interval:  5 * time.Minute,
			Latitude:  51.5085,
			Longitude: -0.1257,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Forecast.BaseURL) == "" {
		return errors.New("forecast.baseUrl cannot be empty")
	}
	if c.Forecast.VisibilityKm < 0 {
		return errors.New("forecast.visibilityKm cannot be negative")
	}
	if err := c.Forecast.Resilience.validate("forecast.resilience"); err != nil {
		return err
	}
	if strings.TrimSpace(c.Geocoding.SearchURL) == "" {
		return errors.New("geocoding.searchUrl cannot be empty")
	}
	if strings.TrimSpace(c.Geocoding.ReverseURL) == "" {
		return errors.New("geocoding.reverseUrl cannot be empty")
	}
	if err := c.Geocoding.Resilience.validate("geocoding.resilience"); err != nil {
		return err
	}
	if c.Lookups.TrendingLimit < 0 || c.Lookups.RecentLimit < 0 {
		return errors.New("lookups limits cannot be negative")
	}
	if c.Lookups.Redis.Enabled && strings.TrimSpace(c.Lookups.Redis.Addr) == "" {
		return errors.New("lookups.redis.addr cannot be empty when redis is enabled")
	}
	if c.Probe.Enabled {
		if c.Probe.Interval < time.Second {
			return errors.New("probe.interval must be at least 1s")
		}
		if c.Probe.Latitude < -90 || c.Probe.Latitude > 90 || c.Probe.Longitude < -180 || c.Probe.Longitude > 180 {
			return errors.New("probe coordinates out of range")
		}
	}
	return nil
}

func (r ResilienceConfig) validate(prefix string) error {
	if r.MaxRetries < 0 {
		return fmt.Errorf("%s.maxRetries cannot be negative", prefix)
	}
	if r.RequestsPerSecond < 0 {
		return fmt.Errorf("%s.requestsPerSecond cannot be negative", prefix)
	}
	return nil
}
