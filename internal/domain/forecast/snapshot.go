package forecast

// Snapshot is the normalized view of one weather query. It is built once per
// lookup and never mutated afterwards.
type Snapshot struct {
	Temperature  float64       `json:"temperature"`
	FeelsLike    float64       `json:"feelsLike"`
	Condition    Category      `json:"condition"`
	Icon         string        `json:"icon"`
	Humidity     float64       `json:"humidity"`
	WindSpeedKmh float64       `json:"windSpeedKmh"`
	PressureHpa  float64       `json:"pressureHpa"`
	VisibilityKm float64       `json:"visibilityKm"`
	IsDay        bool          `json:"isDay"`
	Sunrise      string        `json:"sunrise"`
	Sunset       string        `json:"sunset"`
	ObservedAt   string        `json:"observedAt,omitempty"`
	Timezone     string        `json:"timezone,omitempty"`
	Forecast     []DayForecast `json:"forecast"`
}

// DayForecast is one entry of the multi-day outlook.
type DayForecast struct {
	Date      string   `json:"date"`
	DayLabel  string   `json:"dayLabel"`
	Condition Category `json:"condition"`
	Icon      string   `json:"icon"`
	MinTemp   float64  `json:"minTemp"`
	MaxTemp   float64  `json:"maxTemp"`
}

// Raw mirrors the upstream forecast payload before classification and rounding.
type Raw struct {
	Timezone string
	Current  RawCurrent
	Daily    RawDaily
}

// RawCurrent holds the current-conditions block.
type RawCurrent struct {
	Time                string
	Temperature         float64
	ApparentTemperature float64
	RelativeHumidity    float64
	IsDay               int
	Precipitation       float64
	WeatherCode         int
	SurfacePressure     float64
	WindSpeed           float64
}

// RawDaily holds the parallel daily arrays.
type RawDaily struct {
	Time           []string
	WeatherCode    []int
	TemperatureMax []float64
	TemperatureMin []float64
	Sunrise        []string
	Sunset         []string
}
