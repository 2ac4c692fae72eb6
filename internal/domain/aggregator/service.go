package aggregator

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yanqian/weather-gateway/internal/domain/weather"
	apperrors "github.com/yanqian/weather-gateway/pkg/errors"
	"github.com/yanqian/weather-gateway/pkg/metrics"
)

// GatewayClient calls the gateway's current and forecast endpoints.
type GatewayClient interface {
	Current(ctx context.Context, location string) (weather.CurrentConditions, error)
	Forecast(ctx context.Context, location string, days int) (weather.ForecastResult, error)
}

// Service combines current conditions with an optional forecast.
type Service interface {
	GetWeather(ctx context.Context, location string) (Result, error)
}

// Result is one aggregated lookup. Forecast is nil when it could not be fetched.
type Result struct {
	Current  weather.CurrentConditions `json:"current"`
	Forecast *weather.ForecastResult   `json:"forecast,omitempty"`
}

// HasForecast reports whether the forecast half succeeded.
func (r Result) HasForecast() bool {
	return r.Forecast != nil
}

// Config controls the forecast request. Zero days lets the gateway pick its default.
type Config struct {
	ForecastDays int
}

// required holds an outcome whose failure fails the whole lookup.
type required[T any] struct {
	value T
	err   error
}

func (r *required[T]) settle(value T, err error) error {
	r.value, r.err = value, err
	return err
}

// optional holds an outcome whose failure degrades to absent.
type optional[T any] struct {
	value *T
	cause error
}

func (o *optional[T]) settle(value T, err error) {
	if err != nil {
		o.cause = err
		return
	}
	o.value = &value
}

type service struct {
	cfg    Config
	client GatewayClient
	logger *slog.Logger
}

// NewService wires up the aggregator.
func NewService(cfg Config, client GatewayClient, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		client: client,
		logger: logger.With("component", "aggregator.service"),
	}
}

// GetWeather issues both requests concurrently and waits for both to finish.
// Only a current-conditions failure is returned.
func (s *service) GetWeather(ctx context.Context, location string) (Result, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return Result{}, apperrors.Wrap(string(weather.KindBadRequest), weather.MsgLocationRequired, nil)
	}

	var (
		current  required[weather.CurrentConditions]
		forecast optional[weather.ForecastResult]
		group    errgroup.Group
	)
	group.Go(func() error {
		return current.settle(s.client.Current(ctx, location))
	})
	group.Go(func() error {
		forecast.settle(s.client.Forecast(ctx, location, s.cfg.ForecastDays))
		return nil
	})
	if err := group.Wait(); err != nil {
		s.logger.Warn("current conditions unavailable", "location", location, "error", err)
		return Result{}, err
	}

	if forecast.cause != nil {
		metrics.ForecastDegradedTotal.Inc()
		s.logger.Warn("forecast unavailable, continuing without it", "location", location, "error", forecast.cause)
	}
	return Result{Current: current.value, Forecast: forecast.value}, nil
}
