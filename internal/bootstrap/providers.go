package bootstrap

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/wire"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/internal/domain/forecast"
	"github.com/yanqian/taapman/internal/infra/bigdatacloud"
	"github.com/yanqian/taapman/internal/infra/config"
	"github.com/yanqian/taapman/internal/infra/googlegeo"
	"github.com/yanqian/taapman/internal/infra/healthcheck"
	"github.com/yanqian/taapman/internal/infra/lookuprepo"
	"github.com/yanqian/taapman/internal/infra/openmeteo"
	"github.com/yanqian/taapman/internal/infra/trendstore"
	"github.com/yanqian/taapman/internal/infra/upstream"
)

// DashboardSet builds dashboard.Service and its collaborators from *config.Config.
var DashboardSet = wire.NewSet(
	ProvideDashboardConfig,
	ProvideForecastClient,
	wire.Bind(new(dashboard.ForecastClient), new(*openmeteo.ForecastClient)),
	ProvideGeocoder,
	ProvideReverseGeocoder,
	ProvideLookupLog,
	ProvideTrendingStore,
	dashboard.NewService,
)

func ProvideDashboardConfig(cfg *config.Config) dashboard.Config {
	return dashboard.Config{
		ForecastDays:  forecast.DefaultDays,
		VisibilityKm:  cfg.Forecast.VisibilityKm,
		TrendingLimit: cfg.Lookups.TrendingLimit,
		RecentLimit:   cfg.Lookups.RecentLimit,
	}
}

func ProvideForecastClient(cfg *config.Config) *openmeteo.ForecastClient {
	caller := upstream.NewCaller(upstreamSettings("open-meteo-forecast", cfg.Forecast.Timeout, cfg.Forecast.Resilience), nil)
	return openmeteo.NewForecastClient(cfg.Forecast.BaseURL, caller)
}

// ProvideProbe builds the readiness probe on its own caller, so probe failures
// never open the breaker that serves dashboard traffic.
func ProvideProbe(cfg *config.Config, logger *slog.Logger) *healthcheck.Probe {
	settings := upstreamSettings("open-meteo-probe", cfg.Forecast.Timeout, cfg.Forecast.Resilience)
	settings.Backoff.MaxRetries = 0
	client := openmeteo.NewForecastClient(cfg.Forecast.BaseURL, upstream.NewCaller(settings, nil))
	return healthcheck.NewProbe(healthcheck.Config{
		Enabled:   cfg.Probe.Enabled,
		Interval:  cfg.Probe.Interval,
		Latitude:  cfg.Probe.Latitude,
		Longitude: cfg.Probe.Longitude,
	}, client, logger)
}

// ProvideGeocoder prefers Google when an API key is configured.
func ProvideGeocoder(cfg *config.Config, logger *slog.Logger) dashboard.Geocoder {
	if key := strings.TrimSpace(cfg.Geocoding.GoogleAPIKey); key != "" {
		logger.Info("google geocoding enabled")
		return googlegeo.NewClient(key)
	}
	caller := upstream.NewCaller(upstreamSettings("open-meteo-geocoding", cfg.Geocoding.Timeout, cfg.Geocoding.Resilience), nil)
	return openmeteo.NewGeocoder(cfg.Geocoding.SearchURL, cfg.Geocoding.Language, caller)
}

func ProvideReverseGeocoder(cfg *config.Config) dashboard.ReverseGeocoder {
	if key := strings.TrimSpace(cfg.Geocoding.GoogleAPIKey); key != "" {
		return googlegeo.NewClient(key)
	}
	caller := upstream.NewCaller(upstreamSettings("bigdatacloud", cfg.Geocoding.Timeout, cfg.Geocoding.Resilience), nil)
	return bigdatacloud.NewClient(cfg.Geocoding.ReverseURL, cfg.Geocoding.Language, caller)
}

func ProvideLookupLog(cfg *config.Config, logger *slog.Logger) dashboard.LookupLog {
	fallback := lookuprepo.NewMemoryRepository(cfg.Lookups.MemoryLimit)
	dsn := strings.TrimSpace(cfg.Lookups.Postgres.DSN)
	if dsn == "" {
		logger.Info("lookups postgres dsn not set, using memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using memory repository", "error", err)
		return fallback
	}
	if cfg.Lookups.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Lookups.Postgres.MaxConns
	}
	if cfg.Lookups.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Lookups.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("lookups postgres repository enabled")
	return lookuprepo.NewPostgresRepository(pool)
}

func ProvideTrendingStore(cfg *config.Config, logger *slog.Logger) dashboard.TrendingStore {
	if !cfg.Lookups.Redis.Enabled {
		return trendstore.NewMemoryStore()
	}
	opt, err := buildValkeyOptions(cfg.Lookups.Redis.Addr)
	if err != nil {
		logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
		return trendstore.NewMemoryStore()
	}
	client, err := valkey.NewClient(opt)
	if err != nil {
		logger.Error("failed to create valkey client, falling back to memory store", "error", err)
		return trendstore.NewMemoryStore()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.Error("valkey ping failed, falling back to memory store", "error", err)
		client.Close()
		return trendstore.NewMemoryStore()
	}
	logger.Info("trending valkey store enabled", "addr", cfg.Lookups.Redis.Addr)
	return trendstore.NewValkeyStore(client, cfg.Lookups.Redis.Prefix)
}

func buildValkeyOptions(addr string) (valkey.ClientOption, error) {
	if strings.Contains(addr, "://") {
		return valkey.ParseURL(addr)
	}
	return valkey.ClientOption{InitAddress: []string{addr}}, nil
}

func upstreamSettings(name string, timeout time.Duration, r config.ResilienceConfig) upstream.Settings {
	return upstream.Settings{
		Name:    name,
		Timeout: timeout,
		Backoff: upstream.BackoffConfig{
			MaxRetries:      r.MaxRetries,
			InitialInterval: r.InitialBackoff,
			MaxInterval:     r.MaxBackoff,
		},
		RequestsPerSecond: r.RequestsPerSecond,
		Burst:             r.Burst,
		FailureThreshold:  r.FailureThreshold,
		OpenTimeout:       r.OpenTimeout,
	}
}
