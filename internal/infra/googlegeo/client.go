// Package googlegeo adapts the Google Maps geocoding API for deployments that
// hold an API key.
package googlegeo

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"

	"github.com/yanqian/taapman/internal/domain/dashboard"
)

var keyOnce sync.Once

// Client implements both forward and reverse geocoding.
type Client struct {
	geocode func(geocoder.Address) (geocoder.Location, error)
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewClient configures the package-level API key of the underlying library.
func NewClient(apiKey string) *Client {
	keyOnce.Do(func() {
		geocoder.ApiKey = strings.TrimSpace(apiKey)
	})
	return &Client{
		geocode: geocoder.Geocoding,
		reverse: geocoder.GeocodingReverse,
	}
}

// Search resolves a city name.
func (c *Client) Search(ctx context.Context, name string) (dashboard.Place, bool, error) {
	loc, err := call(ctx, func() (geocoder.Location, error) {
		return c.geocode(geocoder.Address{City: name})
	})
	if err != nil {
		if isNoResults(err) {
			return dashboard.Place{}, false, nil
		}
		return dashboard.Place{}, false, err
	}

	place := dashboard.Place{Name: name, Latitude: loc.Latitude, Longitude: loc.Longitude}
	// Best effort: canonical spelling and country from a reverse lookup.
	if addresses, err := call(ctx, func() ([]geocoder.Address, error) { return c.reverse(loc) }); err == nil {
		if named, ok := pick(addresses); ok {
			place.Name = named.Name
			place.Country = named.Country
		}
	}
	return place, true, nil
}

// Reverse names a coordinate.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (dashboard.Place, error) {
	addresses, err := call(ctx, func() ([]geocoder.Address, error) {
		return c.reverse(geocoder.Location{Latitude: lat, Longitude: lon})
	})
	if err != nil && !isNoResults(err) {
		return dashboard.Place{}, err
	}
	place, ok := pick(addresses)
	if !ok {
		place.Name = "Unknown Location"
	}
	place.Latitude = lat
	place.Longitude = lon
	return place, nil
}

func pick(addresses []geocoder.Address) (dashboard.Place, bool) {
	for _, addr := range addresses {
		name := strings.TrimSpace(addr.City)
		if name == "" {
			name = strings.TrimSpace(addr.District)
		}
		if name == "" {
			continue
		}
		return dashboard.Place{Name: name, Country: strings.TrimSpace(addr.Country)}, true
	}
	return dashboard.Place{}, false
}

func isNoResults(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "zero_results") || strings.Contains(msg, "no results")
}

// call runs a blocking library call while honouring ctx.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, errors.Join(errors.New("google geocoding canceled"), ctx.Err())
	case res := <-done:
		return res.value, res.err
	}
}
