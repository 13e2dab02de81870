package openmeteo

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/yanqian/taapman/internal/domain/forecast"
	"github.com/yanqian/taapman/internal/infra/upstream"
)

const (
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"

	currentFields = "temperature_2m,relative_humidity_2m,apparent_temperature,is_day,precipitation,weather_code,surface_pressure,wind_speed_10m"
	dailyFields   = "weather_code,temperature_2m_max,temperature_2m_min,sunrise,sunset"
)

// ForecastClient reads current conditions and the daily outlook from Open-Meteo.
type ForecastClient struct {
	baseURL string
	caller  *upstream.Caller
}

// NewForecastClient builds a forecast client. An empty baseURL uses the public API.
func NewForecastClient(baseURL string, caller *upstream.Caller) *ForecastClient {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = DefaultForecastURL
	}
	return &ForecastClient{
		baseURL: strings.TrimRight(base, "/"),
		caller:  caller,
	}
}

// Fetch retrieves the forecast for a coordinate in the location's own timezone.
func (c *ForecastClient) Fetch(ctx context.Context, lat, lon float64) (forecast.Raw, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	values.Set("current", currentFields)
	values.Set("daily", dailyFields)
	values.Set("timezone", "auto")

	var payload forecastResponse
	if err := c.caller.GetJSON(ctx, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), &payload); err != nil {
		return forecast.Raw{}, err
	}
	if payload.Error {
		return forecast.Raw{}, fmt.Errorf("open-meteo error: %s", payload.Reason)
	}
	return payload.toRaw(), nil
}

type forecastResponse struct {
	Error    bool   `json:"error"`
	Reason   string `json:"reason"`
	Timezone string `json:"timezone"`
	Current  struct {
		Time                string  `json:"time"`
		Temperature         float64 `json:"temperature_2m"`
		RelativeHumidity    float64 `json:"relative_humidity_2m"`
		ApparentTemperature float64 `json:"apparent_temperature"`
		IsDay               int     `json:"is_day"`
		Precipitation       float64 `json:"precipitation"`
		WeatherCode         int     `json:"weather_code"`
		SurfacePressure     float64 `json:"surface_pressure"`
		WindSpeed           float64 `json:"wind_speed_10m"`
	} `json:"current"`
	Daily struct {
		Time           []string  `json:"time"`
		WeatherCode    []int     `json:"weather_code"`
		TemperatureMax []float64 `json:"temperature_2m_max"`
		TemperatureMin []float64 `json:"temperature_2m_min"`
		Sunrise        []string  `json:"sunrise"`
		Sunset         []string  `json:"sunset"`
	} `json:"daily"`
}

func (r forecastResponse) toRaw() forecast.Raw {
	return forecast.Raw{
		Timezone: r.Timezone,
		Current: forecast.RawCurrent{
			Time:                r.Current.Time,
			Temperature:         r.Current.Temperature,
			ApparentTemperature: r.Current.ApparentTemperature,
			RelativeHumidity:    r.Current.RelativeHumidity,
			IsDay:               r.Current.IsDay,
			Precipitation:       r.Current.Precipitation,
			WeatherCode:         r.Current.WeatherCode,
			SurfacePressure:     r.Current.SurfacePressure,
			WindSpeed:           r.Current.WindSpeed,
		},
		Daily: forecast.RawDaily{
			Time:           r.Daily.Time,
			WeatherCode:    r.Daily.WeatherCode,
			TemperatureMax: r.Daily.TemperatureMax,
			TemperatureMin: r.Daily.TemperatureMin,
			Sunrise:        r.Daily.Sunrise,
			Sunset:         r.Daily.Sunset,
		},
	}
}
