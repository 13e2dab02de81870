package forecast

import (
	"errors"
	"fmt"
	"math"
	"time"
)

const (
	// DefaultDays is the length of the outlook shown on the dashboard.
	DefaultDays = 5
	// DefaultVisibilityKm is reported because the forecast API has no current visibility.
	DefaultVisibilityKm = 10
)

var dayLabels = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

var localTimeLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05", time.RFC3339}

// ErrMalformedForecast is returned when the upstream arrays cannot be combined.
var ErrMalformedForecast = errors.New("malformed forecast payload")

// NormalizeOptions tunes NewSnapshot. Zero values fall back to the defaults above.
type NormalizeOptions struct {
	Days         int
	VisibilityKm float64
}

// NewSnapshot classifies and rounds a raw payload into a Snapshot.
func NewSnapshot(raw Raw, opts NormalizeOptions) (Snapshot, error) {
	days := opts.Days
	if days <= 0 {
		days = DefaultDays
	}
	visibility := opts.VisibilityKm
	if visibility <= 0 {
		visibility = DefaultVisibilityKm
	}

	daily := raw.Daily
	n := len(daily.Time)
	if len(daily.WeatherCode) < n || len(daily.TemperatureMax) < n || len(daily.TemperatureMin) < n {
		return Snapshot{}, fmt.Errorf("%w: daily arrays have mismatched lengths", ErrMalformedForecast)
	}
	if n == 0 || len(daily.Sunrise) == 0 || len(daily.Sunset) == 0 {
		return Snapshot{}, fmt.Errorf("%w: daily block is empty", ErrMalformedForecast)
	}
	if n > days {
		n = days
	}

	outlook := make([]DayForecast, 0, n)
	for i := 0; i < n; i++ {
		label, err := DayLabel(daily.Time[i])
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: %v", ErrMalformedForecast, err)
		}
		condition := Classify(daily.WeatherCode[i])
		outlook = append(outlook, DayForecast{
			Date:      daily.Time[i],
			DayLabel:  label,
			Condition: condition,
			Icon:      condition.Icon(),
			MinTemp:   Round(daily.TemperatureMin[i]),
			MaxTemp:   Round(daily.TemperatureMax[i]),
		})
	}

	sunrise, err := ClockTime(daily.Sunrise[0])
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: sunrise: %v", ErrMalformedForecast, err)
	}
	sunset, err := ClockTime(daily.Sunset[0])
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: sunset: %v", ErrMalformedForecast, err)
	}

	current := raw.Current
	condition := Classify(current.WeatherCode)
	return Snapshot{
		Temperature:  Round(current.Temperature),
		FeelsLike:    Round(current.ApparentTemperature),
		Condition:    condition,
		Icon:         condition.Icon(),
		Humidity:     current.RelativeHumidity,
		WindSpeedKmh: math.Max(0, Round(current.WindSpeed)),
		PressureHpa:  Round(current.SurfacePressure),
		VisibilityKm: visibility,
		IsDay:        current.IsDay == 1,
		Sunrise:      sunrise,
		Sunset:       sunset,
		ObservedAt:   current.Time,
		Timezone:     raw.Timezone,
		Forecast:     outlook,
	}, nil
}

// Round rounds half-way values towards positive infinity, matching how the
// dashboard has always displayed values (-2.5 becomes -2, 2.5 becomes 3).
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// DayLabel returns the three letter weekday of a YYYY-MM-DD calendar date.
func DayLabel(date string) (string, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", err
	}
	return dayLabels[parsed.Weekday()], nil
}

// ClockTime renders an upstream local timestamp as HH:MM.
func ClockTime(value string) (string, error) {
	var lastErr error
	for _, layout := range localTimeLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts.Format("15:04"), nil
		}
		lastErr = err
	}
	return "", lastErr
}
