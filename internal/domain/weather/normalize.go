package weather

import (
	"math"

	"github.com/tidwall/gjson"
)

const unknown = "Unknown"

// field binds a provider JSON path to one output field and its default.
type field[T any] struct {
	path  string
	apply func(*T, gjson.Result)
}

var currentFields = []field[CurrentConditions]{
	text("location.name", unknown, func(c *CurrentConditions, v string) { c.PlaceName = v }),
	text("location.country", unknown, func(c *CurrentConditions, v string) { c.CountryName = v }),
	text("location.region", "", func(c *CurrentConditions, v string) { c.RegionName = v }),
	temperature("current.temp_c", func(c *CurrentConditions, v int) { c.TemperatureC = v }),
	temperature("current.feelslike_c", func(c *CurrentConditions, v int) { c.FeelsLikeC = v }),
	text("current.condition.text", unknown, func(c *CurrentConditions, v string) { c.Description = v }),
	text("current.condition.icon", "", func(c *CurrentConditions, v string) { c.IconRef = v }),
	percent("current.humidity", func(c *CurrentConditions, v int) { c.HumidityPct = v }),
	measure("current.wind_kph", func(c *CurrentConditions, v float64) { c.WindKph = v }),
	measure("current.vis_km", func(c *CurrentConditions, v float64) { c.VisibilityKm = v }),
	measure("current.pressure_mb", func(c *CurrentConditions, v float64) { c.PressureMb = v }),
	measure("current.uv", func(c *CurrentConditions, v float64) { c.UVIndex = v }),
	percent("current.cloud", func(c *CurrentConditions, v int) { c.CloudCoverPct = v }),
}

var forecastFields = []field[ForecastResult]{
	text("location.name", unknown, func(f *ForecastResult, v string) { f.PlaceName = v }),
	text("location.country", unknown, func(f *ForecastResult, v string) { f.CountryName = v }),
}

// forecastDayFields are resolved relative to one forecast.forecastday element.
var forecastDayFields = []field[ForecastDay]{
	text("date", "", func(d *ForecastDay, v string) { d.Date = v }),
	temperature("day.maxtemp_c", func(d *ForecastDay, v int) { d.MaxTempC = v }),
	temperature("day.mintemp_c", func(d *ForecastDay, v int) { d.MinTempC = v }),
	text("day.condition.text", unknown, func(d *ForecastDay, v string) { d.Description = v }),
	text("day.condition.icon", "", func(d *ForecastDay, v string) { d.IconRef = v }),
	percent("day.daily_chance_of_rain", func(d *ForecastDay, v int) { d.ChanceOfRainPct = v }),
	percent("day.avghumidity", func(d *ForecastDay, v int) { d.AvgHumidityPct = v }),
	measure("day.maxwind_kph", func(d *ForecastDay, v float64) { d.MaxWindKph = v }),
}

// NormalizeCurrent maps a provider current.json document to CurrentConditions.
// It never fails: absent or mistyped values fall back to their defaults.
func NormalizeCurrent(raw []byte) CurrentConditions {
	return decode(parse(raw), currentFields)
}

// NormalizeForecast maps a provider forecast.json document to ForecastResult.
// A missing forecast.forecastday array yields no days.
func NormalizeForecast(raw []byte) ForecastResult {
	root := parse(raw)
	result := decode(root, forecastFields)

	days := root.Get("forecast.forecastday")
	if !days.IsArray() {
		result.Days = []ForecastDay{}
		return result
	}
	elements := days.Array()
	result.Days = make([]ForecastDay, 0, len(elements))
	for _, day := range elements {
		result.Days = append(result.Days, decode(day, forecastDayFields))
	}
	return result
}

func parse(raw []byte) gjson.Result {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	return gjson.ParseBytes(raw)
}

func decode[T any](root gjson.Result, fields []field[T]) T {
	var out T
	for _, f := range fields {
		f.apply(&out, root.Get(f.path))
	}
	return out
}

// text accepts non-empty JSON strings only.
func text[T any](path, fallback string, set func(*T, string)) field[T] {
	return field[T]{path: path, apply: func(dst *T, r gjson.Result) {
		v := fallback
		if r.Type == gjson.String && r.String() != "" {
			v = r.String()
		}
		set(dst, v)
	}}
}

// temperature rounds half up, so -2.5 becomes -2.
func temperature[T any](path string, set func(*T, int)) field[T] {
	return field[T]{path: path, apply: func(dst *T, r gjson.Result) {
		v, _ := number(r)
		set(dst, roundHalfUp(v))
	}}
}

func percent[T any](path string, set func(*T, int)) field[T] {
	return field[T]{path: path, apply: func(dst *T, r gjson.Result) {
		v, _ := number(r)
		set(dst, roundHalfUp(math.Min(math.Max(v, 0), 100)))
	}}
}

// measure covers non-negative quantities that are emitted unrounded.
func measure[T any](path string, set func(*T, float64)) field[T] {
	return field[T]{path: path, apply: func(dst *T, r gjson.Result) {
		v, _ := number(r)
		set(dst, math.Max(v, 0))
	}}
}

func number(r gjson.Result) (float64, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	v := r.Float()
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func roundHalfUp(v float64) int {
	const limit = 1 << 31
	v = math.Floor(v + 0.5)
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return int(v)
}
