package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/taapman/internal/domain/activity"
	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/internal/domain/forecast"
	"github.com/yanqian/taapman/internal/domain/outfit"
	"github.com/yanqian/taapman/internal/infra/config"
	apperrors "github.com/yanqian/taapman/pkg/errors"
	"github.com/yanqian/taapman/pkg/metrics"
)

func TestRouter_DashboardByCitySuccess(t *testing.T) {
	svc := &stubDashboard{
		byCityFn: func(ctx context.Context, req dashboard.CityRequest) (dashboard.Response, error) {
			require.Equal(t, "London", req.City)
			return dashboard.Response{
				Location: dashboard.Location{Place: dashboard.Place{Name: "London", Country: "GB"}, Label: "London, GB"},
				Current:  forecast.Snapshot{Temperature: 18, Condition: forecast.Rainy},
			}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/dashboard?city=London", "", newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotEmpty(t, recorder.Header().Get(requestIDHeader))

	var got dashboard.Response
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "London, GB", got.Location.Label)
	require.Equal(t, forecast.Rainy, got.Current.Condition)
}

func TestRouter_DashboardErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid", apperrors.Wrap(apperrors.CodeInvalidInput, "Please enter a city name", nil), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"not found", apperrors.Wrap(apperrors.CodeNotFound, "City not found. Please check the spelling and try again.", nil), http.StatusNotFound, apperrors.CodeNotFound},
		{"upstream", apperrors.Wrap(apperrors.CodeUpstreamError, "Failed to load weather data. Please try again.", nil), http.StatusBadGateway, apperrors.CodeUpstreamError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubDashboard{
				byCityFn: func(context.Context, dashboard.CityRequest) (dashboard.Response, error) {
					return dashboard.Response{}, tc.err
				},
			}
			recorder := performRequest(http.MethodGet, "/api/v1/dashboard?city=x", "", newRouterUnderTest(t, svc, nil))
			require.Equal(t, tc.status, recorder.Code)

			errBody := decodeErrorBody(t, recorder.Body.Bytes())
			require.Equal(t, tc.code, errBody["error"]["code"])
			require.Equal(t, apperrors.MessageOf(tc.err), errBody["error"]["message"])
		})
	}
}

func TestRouter_DashboardByCoordinates(t *testing.T) {
	svc := &stubDashboard{
		byCoordinatesFn: func(ctx context.Context, req dashboard.CoordinatesRequest) (dashboard.Response, error) {
			require.Equal(t, 51.5, req.Latitude)
			require.Equal(t, -0.12, req.Longitude)
			return dashboard.Response{Location: dashboard.Location{Label: "Your Location"}}, nil
		},
	}

	recorder := performRequest(http.MethodGet, "/api/v1/dashboard/coordinates?lat=51.5&lon=-0.12", "", newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_DashboardByCoordinatesRejectsBadQuery(t *testing.T) {
	router := newRouterUnderTest(t, &stubDashboard{}, nil)
	for _, path := range []string{
		"/api/v1/dashboard/coordinates?lat=abc&lon=1",
		"/api/v1/dashboard/coordinates?lat=1",
		"/api/v1/dashboard/coordinates?lat=95&lon=1",
		"/api/v1/dashboard/coordinates?lat=10&lon=-200",
	} {
		recorder := performRequest(http.MethodGet, path, "", router)
		require.Equal(t, http.StatusBadRequest, recorder.Code, path)
		require.Equal(t, "invalid_request", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
	}
}

func TestRouter_AdviseSuccess(t *testing.T) {
	svc := &stubDashboard{
		adviseFn: func(req dashboard.AdviceRequest) dashboard.Advice {
			require.Equal(t, forecast.Snowy, req.Condition)
			require.Equal(t, -3.0, req.Temperature)
			return dashboard.Advice{
				Outfit:     []outfit.Suggestion{{Slot: outfit.SlotTop, Label: "Heavy Coat / Thermal"}},
				Activities: []activity.Suitability{{Activity: activity.Cycling, Score: 0, Reason: "Snow/Ice risk"}},
			}
		},
	}

	body := `{"temperature":-3,"condition":"snowy","windSpeedKmh":12,"humidity":90,"isDay":true}`
	recorder := performRequest(http.MethodPost, "/api/v1/advice", body, newRouterUnderTest(t, svc, nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var got dashboard.Advice
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Heavy Coat / Thermal", got.Outfit[0].Label)
	require.Equal(t, "Snow/Ice risk", got.Activities[0].Reason)
}

func TestRouter_AdviseValidation(t *testing.T) {
	router := newRouterUnderTest(t, &stubDashboard{}, nil)
	for _, body := range []string{
		`{"condition":"Clear"}`,
		`{"temperature":20,"condition":"Foggy"}`,
		`{"temperature":20,"condition":"Clear","windSpeedKmh":-1}`,
		`{"temperature":20,"condition":"Clear","humidity":120}`,
		`{"temperature":"warm","condition":"Clear"}`,
	} {
		recorder := performRequest(http.MethodPost, "/api/v1/advice", body, router)
		require.Equal(t, http.StatusBadRequest, recorder.Code, body)
	}
}

func TestRouter_Condition(t *testing.T) {
	router := newRouterUnderTest(t, &stubDashboard{}, nil)

	recorder := performRequest(http.MethodGet, "/api/v1/conditions/73", "", router)
	require.Equal(t, http.StatusOK, recorder.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Snowy", got["condition"])
	require.Equal(t, "cloud-snow", got["icon"])

	recorder = performRequest(http.MethodGet, "/api/v1/conditions/fog", "", router)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_TrendingAndRecent(t *testing.T) {
	svc := &stubDashboard{
		trendingFn: func(ctx context.Context, limit int) ([]dashboard.TrendingPlace, error) {
			require.Equal(t, 3, limit)
			return []dashboard.TrendingPlace{{Place: "London, GB", Count: 4}}, nil
		},
		recentFn: func(ctx context.Context, limit int) ([]dashboard.Lookup, error) {
			require.Equal(t, 0, limit)
			return nil, apperrors.Wrap(apperrors.CodeStoreError, "failed to load recent lookups", nil)
		},
	}
	router := newRouterUnderTest(t, svc, nil)

	recorder := performRequest(http.MethodGet, "/api/v1/searches/trending?limit=3", "", router)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"London, GB"`)

	recorder = performRequest(http.MethodGet, "/api/v1/searches/recent", "", router)
	require.Equal(t, http.StatusInternalServerError, recorder.Code)

	recorder = performRequest(http.MethodGet, "/api/v1/searches/trending?limit=500", "", router)
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_Readiness(t *testing.T) {
	probe := &stubProbe{}
	router := newRouterUnderTest(t, &stubDashboard{}, probe)

	recorder := performRequest(http.MethodGet, "/readyz", "", router)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "pending")

	probe.status = metrics.ProbeStatus{Upstream: "open-meteo", Healthy: false, CheckedAt: time.Now(), Error: "timeout"}
	recorder = performRequest(http.MethodGet, "/readyz", "", router)
	require.Equal(t, http.StatusServiceUnavailable, recorder.Code)

	probe.status.Healthy = true
	recorder = performRequest(http.MethodGet, "/readyz", "", router)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = performRequest(http.MethodGet, "/healthz", "", router)
	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	handler := NewHandler(&stubDashboard{}, nil, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:   ":0",
			RateLimit: config.RateLimitConfig{Enabled: true, RequestsPerMinute: 1, Burst: 2},
		},
	}
	router := NewRouter(cfg, handler)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, performRequest(http.MethodGet, "/api/v1/conditions/0", "", router).Code)
	}
	recorder := performRequest(http.MethodGet, "/api/v1/conditions/0", "", router)
	require.Equal(t, http.StatusTooManyRequests, recorder.Code)
	require.Equal(t, "rate_limit_exceeded", decodeErrorBody(t, recorder.Body.Bytes())["error"]["code"])
}

func TestRouter_CORSPreflight(t *testing.T) {
	handler := NewHandler(&stubDashboard{}, nil, newTestLogger())
	cfg := &config.Config{HTTP: config.HTTPConfig{Address: ":0", AllowedOrigins: []string{"https://weather.example.com"}}}
	router := NewRouter(cfg, handler)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/dashboard", nil)
	req.Header.Set("Origin", "https://weather.example.com")
	rec := httptest.NewRecorder()
	router.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "https://weather.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func performRequest(method, path, body string, server *http.Server) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, svc dashboard.Service, probe ProbeReporter) *http.Server {
	t.Helper()
	handler := NewHandler(svc, probe, newTestLogger())
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
	}
	return NewRouter(cfg, handler)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

type stubDashboard struct {
	byCityFn        func(ctx context.Context, req dashboard.CityRequest) (dashboard.Response, error)
	byCoordinatesFn func(ctx context.Context, req dashboard.CoordinatesRequest) (dashboard.Response, error)
	adviseFn        func(req dashboard.AdviceRequest) dashboard.Advice
	trendingFn      func(ctx context.Context, limit int) ([]dashboard.TrendingPlace, error)
	recentFn        func(ctx context.Context, limit int) ([]dashboard.Lookup, error)
}

func (s *stubDashboard) ByCity(ctx context.Context, req dashboard.CityRequest) (dashboard.Response, error) {
	if s.byCityFn != nil {
		return s.byCityFn(ctx, req)
	}
	return dashboard.Response{}, nil
}

func (s *stubDashboard) ByCoordinates(ctx context.Context, req dashboard.CoordinatesRequest) (dashboard.Response, error) {
	if s.byCoordinatesFn != nil {
		return s.byCoordinatesFn(ctx, req)
	}
	return dashboard.Response{}, nil
}

func (s *stubDashboard) Advise(req dashboard.AdviceRequest) dashboard.Advice {
	if s.adviseFn != nil {
		return s.adviseFn(req)
	}
	return dashboard.Advice{}
}

func (s *stubDashboard) Trending(ctx context.Context, limit int) ([]dashboard.TrendingPlace, error) {
	if s.trendingFn != nil {
		return s.trendingFn(ctx, limit)
	}
	return nil, nil
}

func (s *stubDashboard) Recent(ctx context.Context, limit int) ([]dashboard.Lookup, error) {
	if s.recentFn != nil {
		return s.recentFn(ctx, limit)
	}
	return nil, nil
}

type stubProbe struct {
	status metrics.ProbeStatus
}

func (s *stubProbe) Status() metrics.ProbeStatus {
	return s.status
}

func decodeErrorBody(t *testing.T, raw []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
