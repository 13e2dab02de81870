package dashboard

import (
	"context"

	"github.com/yanqian/taapman/internal/domain/forecast"
)

// Geocoder resolves a free-text place name. found is false when nothing matched.
type Geocoder interface {
	Search(ctx context.Context, name string) (place Place, found bool, err error)
}

// ReverseGeocoder names the place at a coordinate.
type ReverseGeocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// ForecastClient fetches current conditions and the daily outlook.
type ForecastClient interface {
	Fetch(ctx context.Context, lat, lon float64) (forecast.Raw, error)
}

// LookupLog keeps an append-only record of resolved lookups.
type LookupLog interface {
	Record(ctx context.Context, entry Lookup) error
	Recent(ctx context.Context, limit int) ([]Lookup, error)
}

// TrendingStore counts lookups per place.
type TrendingStore interface {
	Increment(ctx context.Context, canonical, display string) error
	Top(ctx context.Context, limit int) ([]TrendingPlace, error)
}
