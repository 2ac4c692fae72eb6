package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/yanqian/weather-gateway/internal/domain/aggregator"
)

func render(result aggregator.Result) string {
	var b strings.Builder
	cur := result.Current

	fmt.Fprintf(&b, "%s, %s", cur.PlaceName, cur.CountryName)
	if cur.RegionName != "" {
		fmt.Fprintf(&b, " (%s)", cur.RegionName)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%d°C, feels like %d°C, %s\n", cur.TemperatureC, cur.FeelsLikeC, cur.Description)
	fmt.Fprintf(&b, "Humidity %d%%  Wind %g km/h  Visibility %g km  Pressure %g mb  UV %g  Cloud %d%%\n",
		cur.HumidityPct, cur.WindKph, cur.VisibilityKm, cur.PressureMb, cur.UVIndex, cur.CloudCoverPct)

	b.WriteString("\n")
	if !result.HasForecast() || len(result.Forecast.Days) == 0 {
		b.WriteString("No forecast available\n")
		return b.String()
	}
	b.WriteString("Forecast:\n")
	for _, day := range result.Forecast.Days {
		fmt.Fprintf(&b, "  %-14s %3d°/%3d°  rain %3d%%  %s\n",
			dayLabel(day.Date), day.MaxTempC, day.MinTempC, day.ChanceOfRainPct, day.Description)
	}
	return b.String()
}

func dayLabel(date string) string {
	ts, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return ts.Format("Mon 2006-01-02")
}
