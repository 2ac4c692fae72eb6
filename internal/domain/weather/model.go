package weather

// CurrentConditions is the normalized current-conditions payload returned to callers.
// Every field is always populated; see currentFields for the defaults.
type CurrentConditions struct {
	PlaceName     string  `json:"placeName"`
	CountryName   string  `json:"countryName"`
	RegionName    string  `json:"regionName"`
	TemperatureC  int     `json:"temperatureC"`
	FeelsLikeC    int     `json:"feelsLikeC"`
	Description   string  `json:"description"`
	IconRef       string  `json:"iconRef"`
	HumidityPct   int     `json:"humidityPct"`
	WindKph       float64 `json:"windKph"`
	VisibilityKm  float64 `json:"visibilityKm"`
	PressureMb    float64 `json:"pressureMb"`
	UVIndex       float64 `json:"uvIndex"`
	CloudCoverPct int     `json:"cloudCoverPct"`
}

// ForecastDay is one normalized day of a forecast.
type ForecastDay struct {
	Date            string  `json:"date"`
	MaxTempC        int     `json:"maxTempC"`
	MinTempC        int     `json:"minTempC"`
	Description     string  `json:"description"`
	IconRef         string  `json:"iconRef"`
	ChanceOfRainPct int     `json:"chanceOfRainPct"`
	AvgHumidityPct  int     `json:"avgHumidityPct"`
	MaxWindKph      float64 `json:"maxWindKph"`
}

// ForecastResult is the normalized forecast payload. Days keep upstream order.
type ForecastResult struct {
	PlaceName   string        `json:"placeName"`
	CountryName string        `json:"countryName"`
	Days        []ForecastDay `json:"forecast"`
}

// Config wires runtime settings for the gateway domain.
type Config struct {
	MaxForecastDays     int
	DefaultForecastDays int
}

// ResolveDays applies the default for an omitted (non-positive) day count and
// clamps the result to [1, max].
func ResolveDays(requested, def, max int) int {
	if max < 1 {
		max = 1
	}
	days := requested
	if days <= 0 {
		days = def
	}
	if days < 1 {
		days = 1
	}
	if days > max {
		days = max
	}
	return days
}
