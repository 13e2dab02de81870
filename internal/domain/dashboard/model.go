package dashboard

import (
	"time"

	"github.com/yanqian/taapman/internal/domain/activity"
	"github.com/yanqian/taapman/internal/domain/forecast"
	"github.com/yanqian/taapman/internal/domain/outfit"
)

// CityRequest asks for the dashboard of a named place.
type CityRequest struct {
	City string `json:"city"`
}

// CoordinatesRequest asks for the dashboard of a device position.
type CoordinatesRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AdviceRequest carries a snapshot produced elsewhere; only the fields the
// advisors read are accepted.
type AdviceRequest struct {
	Temperature  float64           `json:"temperature"`
	Condition    forecast.Category `json:"condition"`
	WindSpeedKmh float64           `json:"windSpeedKmh"`
	Humidity     float64           `json:"humidity"`
	IsDay        bool              `json:"isDay"`
}

// Snapshot converts the request into the shape the advisors consume.
func (r AdviceRequest) Snapshot() forecast.Snapshot {
	return forecast.Snapshot{
		Temperature:  r.Temperature,
		Condition:    r.Condition,
		Icon:         r.Condition.Icon(),
		WindSpeedKmh: r.WindSpeedKmh,
		Humidity:     r.Humidity,
		IsDay:        r.IsDay,
	}
}

// Advice bundles the outputs of both advisors.
type Advice struct {
	Outfit     []outfit.Suggestion    `json:"outfit"`
	Activities []activity.Suitability `json:"activities"`
}

// Place is a resolved location.
type Place struct {
	Name      string  `json:"name"`
	Country   string  `json:"country,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Label renders "City, CC" or just the city when no country is known.
func (p Place) Label() string {
	if p.Country == "" {
		return p.Name
	}
	return p.Name + ", " + p.Country
}

// Location is the place block of a dashboard response.
type Location struct {
	Place
	Label string `json:"label"`
}

// Response is serialized back to the dashboard.
type Response struct {
	Location   Location               `json:"location"`
	Current    forecast.Snapshot      `json:"current"`
	Outfit     []outfit.Suggestion    `json:"outfit"`
	Activities []activity.Suitability `json:"activities"`
	FetchedAt  time.Time              `json:"fetchedAt"`
}

// LookupSource tells how a place was resolved.
type LookupSource string

const (
	SourceSearch      LookupSource = "search"
	SourceCoordinates LookupSource = "coordinates"
)

// Lookup is one entry of the lookup log.
type Lookup struct {
	ID        string       `json:"id"`
	Query     string       `json:"query"`
	Source    LookupSource `json:"source"`
	Place     Place        `json:"place"`
	Condition string       `json:"condition"`
	CreatedAt time.Time    `json:"createdAt"`
}

// TrendingPlace is a frequently requested place.
type TrendingPlace struct {
	Place string `json:"place"`
	Count int64  `json:"count"`
}

// Config wires runtime knobs for the dashboard domain.
type Config struct {
	ForecastDays  int
	VisibilityKm  float64
	TrendingLimit int
	RecentLimit   int
}
