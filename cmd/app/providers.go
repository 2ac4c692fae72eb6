package main

import (
	"log/slog"

	"github.com/yanqian/weather-gateway/internal/domain/weather"
	"github.com/yanqian/weather-gateway/internal/infra/config"
	"github.com/yanqian/weather-gateway/internal/infra/weatherapi"
)

func provideWeatherConfig(cfg *config.Config) weather.Config {
	return weather.Config{
		MaxForecastDays:     cfg.Provider.MaxForecastDays,
		DefaultForecastDays: cfg.Provider.DefaultForecastDays,
	}
}

func provideWeatherAPIClient(cfg *config.Config, logger *slog.Logger) *weatherapi.Client {
	return weatherapi.NewClient(weatherapi.Options{
		BaseURL:             cfg.Provider.BaseURL,
		APIKey:              cfg.Provider.APIKey,
		Timeout:             cfg.Provider.Timeout,
		MaxForecastDays:     cfg.Provider.MaxForecastDays,
		DefaultForecastDays: cfg.Provider.DefaultForecastDays,
	}, logger)
}
