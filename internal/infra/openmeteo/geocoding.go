package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yanqian/taapman/internal/domain/dashboard"
	"github.com/yanqian/taapman/internal/infra/upstream"
)

const DefaultSearchURL = "https://geocoding-api.open-meteo.com/v1/search"

// Geocoder resolves city names with the Open-Meteo geocoding API.
type Geocoder struct {
	baseURL  string
	language string
	caller   *upstream.Caller
}

// NewGeocoder builds a forward geocoder; language defaults to English.
func NewGeocoder(baseURL, language string, caller *upstream.Caller) *Geocoder {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultSearchURL
	}
	lang := strings.TrimSpace(language)
	if lang == "" {
		lang = "en"
	}
	return &Geocoder{
		baseURL:  strings.TrimRight(base, "/"),
		language: lang,
		caller:   caller,
	}
}

// Search returns the best match for name.
func (g *Geocoder) Search(ctx context.Context, name string) (dashboard.Place, bool, error) {
	values := url.Values{}
	values.Set("name", name)
	values.Set("count", "1")
	values.Set("language", g.language)
	values.Set("format", "json")

	var payload searchResponse
	if err := g.caller.GetJSON(ctx, fmt.Sprintf("%s?%s", g.baseURL, values.Encode()), &payload); err != nil {
		return dashboard.Place{}, false, err
	}
	if len(payload.Results) == 0 {
		return dashboard.Place{}, false, nil
	}

	top := payload.Results[0]
	return dashboard.Place{
		Name:      top.Name,
		Country:   strings.ToUpper(top.CountryCode),
		Latitude:  top.Latitude,
		Longitude: top.Longitude,
	}, true, nil
}

type searchResponse struct {
	Results []struct {
		Name        string  `json:"name"`
		Latitude    float64 `json:"latitude"`
		Longitude   float64 `json:"longitude"`
		CountryCode string  `json:"country_code"`
		Country     string  `json:"country"`
	} `json:"results"`
}
