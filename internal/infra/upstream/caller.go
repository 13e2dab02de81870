package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// BackoffConfig controls exponential backoff between attempts.
type BackoffConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Settings configures one upstream dependency.
type Settings struct {
	Name              string
	Timeout           time.Duration
	Backoff           BackoffConfig
	RequestsPerSecond float64
	Burst             int
	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

var (
	ErrRateLimited  = errors.New("rate limited")
	ErrServerError  = errors.New("server error")
	ErrUnexpected   = errors.New("unexpected status code")
	ErrCircuitOpen  = errors.New("circuit breaker open")
	errInvalidRetry = errors.New("invalid backoff configuration")
)

// Caller performs JSON GET requests guarded by a rate limiter, retries with
// exponential backoff and a circuit breaker.
type Caller struct {
	name    string
	client  *http.Client
	backoff BackoffConfig
	breaker *gobreaker.CircuitBreaker
	limiter *rate.Limiter
}

// NewCaller builds a Caller. A nil client gets a default one with the configured timeout.
func NewCaller(settings Settings, client *http.Client) *Caller {
	if client == nil {
		timeout := settings.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	threshold := settings.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	openTimeout := settings.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = time.Minute
	}

	var limiter *rate.Limiter
	if settings.RequestsPerSecond > 0 {
		burst := settings.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(settings.RequestsPerSecond), burst)
	}

	return &Caller{
		name:    settings.Name,
		client:  client,
		backoff: settings.Backoff,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        settings.Name,
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     openTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
			// A rejected request says nothing about upstream health.
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrUnexpected)
			},
		}),
		limiter: limiter,
	}
}

// Name identifies the upstream in logs and probes.
func (c *Caller) Name() string {
	return c.name
}

// GetJSON issues a GET to endpoint and decodes a 2xx body into dst.
func (c *Caller) GetJSON(ctx context.Context, endpoint string, dst any) error {
	resp, err := c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s response: %w", c.name, err)
	}
	return nil
}

func (c *Caller) do(ctx context.Context, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if c.backoff.MaxRetries < 0 {
		return nil, errInvalidRetry
	}

	var attempt int
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		// Every attempt, retries included, spends a token.
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit wait canceled: %w", err)
			}
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			resp, execErr := c.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if statusErr := classifyStatus(resp.StatusCode); statusErr != nil {
				drain(resp.Body)
				return nil, statusErr
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		// 4xx other than 429 will not improve on retry.
		if errors.Is(err, ErrUnexpected) || attempt >= c.backoff.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(c.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

func (c *Caller) delay(attempt int) time.Duration {
	initial := c.backoff.InitialInterval
	if initial <= 0 {
		initial = 200 * time.Millisecond
	}
	delay := initial * time.Duration(math.Pow(2, float64(attempt)))
	if c.backoff.MaxInterval > 0 && delay > c.backoff.MaxInterval {
		delay = c.backoff.MaxInterval
	}
	return delay
}

func classifyStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code >= 500:
		return ErrServerError
	case code < 200 || code >= 300:
		return fmt.Errorf("%w: %d", ErrUnexpected, code)
	default:
		return nil
	}
}

func drain(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4<<10))
	_ = body.Close()
}
