package forecast

import "strings"

// Category is the coarse condition derived from a WMO weather code.
type Category string

const (
	Clear  Category = "Clear"
	Cloudy Category = "Cloudy"
	Rainy  Category = "Rainy"
	Snowy  Category = "Snowy"
)

// Categories lists every category in display order.
var Categories = []Category{Clear, Cloudy, Rainy, Snowy}

// WeatherCode is a WMO weather interpretation code as reported by Open-Meteo.
type WeatherCode int

// Category maps the code onto a Category. Unmapped codes are Clear.
func (code WeatherCode) Category() Category {
	switch {
	case code == 0:
		return Clear
	case code >= 1 && code <= 3:
		return Cloudy
	case code >= 45 && code <= 48:
		return Cloudy
	case code >= 51 && code <= 67:
		return Rainy
	case code >= 71 && code <= 77:
		return Snowy
	case code >= 80 && code <= 82:
		return Rainy
	case code >= 85 && code <= 86:
		return Snowy
	case code >= 95 && code <= 99:
		return Rainy
	default:
		return Clear
	}
}

// Classify is shorthand for WeatherCode(code).Category().
func Classify(code int) Category {
	return WeatherCode(code).Category()
}

// ParseCategory resolves a category name case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	trimmed := strings.TrimSpace(raw)
	for _, c := range Categories {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return "", false
}

func (c Category) IsRaining() bool { return c.contains("rain") }

func (c Category) IsSnowing() bool { return c.contains("snow") }

func (c Category) IsClear() bool { return c.contains("clear") }

func (c Category) contains(fragment string) bool {
	return strings.Contains(strings.ToLower(string(c)), fragment)
}

// Icon names the glyph the dashboard renders for the category.
func (c Category) Icon() string {
	switch strings.ToLower(string(c)) {
	case "cloudy":
		return "cloud"
	case "rainy":
		return "cloud-rain"
	case "snowy":
		return "cloud-snow"
	default:
		return "sun"
	}
}
