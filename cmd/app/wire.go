//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/weather-gateway/internal/bootstrap"
	"github.com/yanqian/weather-gateway/internal/domain/weather"
	"github.com/yanqian/weather-gateway/internal/infra/config"
	"github.com/yanqian/weather-gateway/internal/infra/weatherapi"
	httpiface "github.com/yanqian/weather-gateway/internal/interface/http"
	"github.com/yanqian/weather-gateway/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideWeatherConfig,
		provideWeatherAPIClient,
		weather.NewService,
		wire.Bind(new(weather.UpstreamClient), new(*weatherapi.Client)),
		wire.Bind(new(httpiface.CredentialProbe), new(*weatherapi.Client)),
		httpiface.NewWeatherHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
