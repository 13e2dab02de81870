package healthcheck

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/pkg/metrics"
)

const probeTimeout = 15 * time.Second

// Config controls the periodic upstream probe.
type Config struct {
	Enabled   bool
	Interval  time.Duration
	Latitude  float64
	Longitude float64
}

// Probe periodically fetches a forecast for a fixed coordinate and keeps the
// outcome for readiness checks.
type Probe struct {
	cfg       Config
	client    dashboard.ForecastClient
	logger    *slog.Logger
	scheduler *gocron.Scheduler
	now       func() time.Time

	mu     sync.RWMutex
	status metrics.ProbeStatus
}

// NewProbe creates a Probe.
func NewProbe(cfg Config, client dashboard.ForecastClient, logger *slog.Logger) *Probe {
	return &Probe{
		cfg:       cfg,
		client:    client,
		logger:    logger.With("component", "healthcheck.probe"),
		scheduler: gocron.NewScheduler(time.UTC),
		now:       time.Now,
	}
}

// Start schedules the probe; the first run happens immediately.
func (p *Probe) Start() error {
	if !p.cfg.Enabled {
		p.logger.Info("upstream probe disabled")
		return nil
	}
	interval := p.cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	_, err := p.scheduler.Every(interval).Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		p.RunOnce(ctx)
	})
	if err != nil {
		return err
	}
	p.scheduler.StartAsync()
	return nil
}

// Stop cancels future runs.
func (p *Probe) Stop() {
	if p.scheduler != nil {
		p.scheduler.Stop()
	}
}

// RunOnce performs a single probe and records the result.
func (p *Probe) RunOnce(ctx context.Context) metrics.ProbeStatus {
	started := p.now()
	_, err := p.client.Fetch(ctx, p.cfg.Latitude, p.cfg.Longitude)
	status := metrics.ProbeStatus{
		Upstream:  "open-meteo",
		Healthy:   err == nil,
		LatencyMs: p.now().Sub(started).Milliseconds(),
		CheckedAt: p.now().UTC(),
	}
	if err != nil {
		status.Error = err.Error()
		p.logger.Warn("upstream probe failed", "error", err, "latency_ms", status.LatencyMs)
	} else {
		p.logger.Debug("upstream probe ok", "latency_ms", status.LatencyMs)
	}

	p.mu.Lock()
	p.status = status
	p.mu.Unlock()
	return status
}

// Status returns the latest probe outcome; zero when no probe has run.
func (p *Probe) Status() metrics.ProbeStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}
