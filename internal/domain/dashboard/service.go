package dashboard

import (
	"context"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yanqian/taapman/internal/domain/activity"
	"github.com/yanqian/taapman/internal/domain/forecast"
	"github.com/yanqian/taapman/internal/domain/outfit"
	apperrors "github.com/yanqian/taapman/pkg/errors"
)

const (
	msgEmptyCity     = "Please enter a city name"
	msgCityNotFound  = "City not found. Please check the spelling and try again."
	msgSearchFailed  = "Something went wrong. Please try again."
	msgFetchFailed   = "Failed to load weather data. Please try again."
	fallbackPlace    = "Your Location"
	defaultListLimit = 10
)

// Service exposes the dashboard capabilities.
type Service interface {
	ByCity(ctx context.Context, req CityRequest) (Response, error)
	ByCoordinates(ctx context.Context, req CoordinatesRequest) (Response, error)
	Advise(req AdviceRequest) Advice
	Trending(ctx context.Context, limit int) ([]TrendingPlace, error)
	Recent(ctx context.Context, limit int) ([]Lookup, error)
}

type service struct {
	cfg      Config
	geocoder Geocoder
	reverse  ReverseGeocoder
	forecast ForecastClient
	lookups  LookupLog
	trending TrendingStore
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// NewService wires up the dashboard domain.
func NewService(cfg Config, geocoder Geocoder, reverse ReverseGeocoder, client ForecastClient, lookups LookupLog, trending TrendingStore, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		geocoder: geocoder,
		reverse:  reverse,
		forecast: client,
		lookups:  lookups,
		trending: trending,
		logger:   logger.With("component", "dashboard.service"),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *service) ByCity(ctx context.Context, req CityRequest) (Response, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, msgEmptyCity, nil)
	}

	place, found, err := s.geocoder.Search(ctx, city)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, msgSearchFailed, err)
	}
	if !found {
		s.logger.Info("city not found", "query", city)
		return Response{}, apperrors.Wrap(apperrors.CodeNotFound, msgCityNotFound, nil)
	}
	return s.build(ctx, city, SourceSearch, place)
}

func (s *service) ByCoordinates(ctx context.Context, req CoordinatesRequest) (Response, error) {
	lat, lon := req.Latitude, req.Longitude
	if math.IsNaN(lat) || math.IsNaN(lon) || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "latitude must be within ±90 and longitude within ±180", nil)
	}

	place, err := s.reverse.Reverse(ctx, lat, lon)
	if err != nil {
		s.logger.Warn("reverse geocoding failed, using fallback label", "error", err)
		place = Place{Name: fallbackPlace}
	}
	place.Latitude = lat
	place.Longitude = lon
	return s.build(ctx, formatCoordinates(lat, lon), SourceCoordinates, place)
}

func (s *service) Advise(req AdviceRequest) Advice {
	snap := req.Snapshot()
	return Advice{
		Outfit:     outfit.Suggest(snap),
		Activities: activity.ScoreAll(snap),
	}
}

func (s *service) Trending(ctx context.Context, limit int) ([]TrendingPlace, error) {
	items, err := s.trending.Top(ctx, s.limitOr(limit, s.cfg.TrendingLimit))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStoreError, "failed to load trending places", err)
	}
	if items == nil {
		items = []TrendingPlace{}
	}
	return items, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]Lookup, error) {
	items, err := s.lookups.Recent(ctx, s.limitOr(limit, s.cfg.RecentLimit))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeStoreError, "failed to load recent lookups", err)
	}
	if items == nil {
		items = []Lookup{}
	}
	return items, nil
}

func (s *service) build(ctx context.Context, query string, source LookupSource, place Place) (Response, error) {
	raw, err := s.forecast.Fetch(ctx, place.Latitude, place.Longitude)
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, msgFetchFailed, err)
	}
	snap, err := forecast.NewSnapshot(raw, forecast.NormalizeOptions{
		Days:         s.cfg.ForecastDays,
		VisibilityKm: s.cfg.VisibilityKm,
	})
	if err != nil {
		return Response{}, apperrors.Wrap(apperrors.CodeUpstreamError, msgFetchFailed, err)
	}
	s.logger.Info("dashboard built", "place", place.Label(), "source", source, "condition", snap.Condition)

	now := s.now().UTC()
	s.record(ctx, Lookup{
		ID:        s.newID(),
		Query:     query,
		Source:    source,
		Place:     place,
		Condition: string(snap.Condition),
		CreatedAt: now,
	})

	return Response{
		Location:   Location{Place: place, Label: place.Label()},
		Current:    snap,
		Outfit:     outfit.Suggest(snap),
		Activities: activity.ScoreAll(snap),
		FetchedAt:  now,
	}, nil
}

// record never fails the request; the dashboard is still useful without history.
func (s *service) record(ctx context.Context, entry Lookup) {
	if err := s.lookups.Record(ctx, entry); err != nil {
		s.logger.Warn("lookup log write failed", "error", err)
	}
	label := entry.Place.Label()
	if err := s.trending.Increment(ctx, strings.ToLower(label), label); err != nil {
		s.logger.Warn("trending increment failed", "error", err)
	}
}

func (s *service) limitOr(limit, fallback int) int {
	if limit > 0 {
		return limit
	}
	if fallback > 0 {
		return fallback
	}
	return defaultListLimit
}

func formatCoordinates(lat, lon float64) string {
	return strings.Join([]string{
		formatCoordinate(lat),
		formatCoordinate(lon),
	}, ",")
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
}
