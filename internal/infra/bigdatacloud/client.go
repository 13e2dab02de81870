package bigdatacloud

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/internal/infra/upstream"
)

const (
	DefaultReverseURL = "https://api.bigdatacloud.net/data/reverse-geocode-client"
	unknownLocation   = "Unknown Location"
)

// Client names coordinates with the free BigDataCloud client endpoint.
type Client struct {
	baseURL  string
	language string
	caller   *upstream.Caller
}

// NewClient builds a reverse geocoder.
func NewClient(baseURL, language string, caller *upstream.Caller) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultReverseURL
	}
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "en"
	}
	return &Client{baseURL: base, language: lang, caller: caller}
}

// Reverse returns the city (or locality) at lat/lon.
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (dashboard.Place, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("localityLanguage", c.language)

	var payload reverseResponse
	if err := c.caller.GetJSON(ctx, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), &payload); err != nil {
		return dashboard.Place{}, err
	}

	name := strings.TrimSpace(payload.City)
	if name == "" {
		name = strings.TrimSpace(payload.Locality)
	}
	if name == "" {
		name = unknownLocation
	}
	return dashboard.Place{
		Name:      name,
		Country:   strings.ToUpper(payload.CountryCode),
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

type reverseResponse struct {
	City        string `json:"city"`
	Locality    string `json:"locality"`
	CountryCode string `json:"countryCode"`
	CountryName string `json:"countryName"`
}
