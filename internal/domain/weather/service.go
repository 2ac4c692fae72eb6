package weather

import (
	"context"
	"log/slog"

	apperrors "github.com/yanqian/weather-gateway/pkg/errors"
)

const (
	defaultMaxForecastDays     = 14
	defaultDefaultForecastDays = 7
)

// Service exposes the gateway operations.
type Service interface {
	Current(ctx context.Context, q LocationQuery) (CurrentConditions, error)
	Forecast(ctx context.Context, q LocationQuery, days int) (ForecastResult, error)
}

// UpstreamClient fetches raw provider documents. Failures should be *UpstreamFailure.
type UpstreamClient interface {
	FetchCurrent(ctx context.Context, q LocationQuery) ([]byte, error)
	FetchForecast(ctx context.Context, q LocationQuery, days int) ([]byte, error)
}

type service struct {
	cfg      Config
	upstream UpstreamClient
	logger   *slog.Logger
}

// NewService wires up the gateway domain.
func NewService(cfg Config, upstream UpstreamClient, logger *slog.Logger) Service {
	if cfg.MaxForecastDays <= 0 {
		cfg.MaxForecastDays = defaultMaxForecastDays
	}
	if cfg.DefaultForecastDays <= 0 {
		cfg.DefaultForecastDays = defaultDefaultForecastDays
	}
	return &service{
		cfg:      cfg,
		upstream: upstream,
		logger:   logger.With("component", "weather.service"),
	}
}

func (s *service) Current(ctx context.Context, q LocationQuery) (CurrentConditions, error) {
	if q.IsZero() {
		return CurrentConditions{}, apperrors.Wrap(string(KindBadRequest), MsgLocationRequired, nil)
	}

	raw, err := s.upstream.FetchCurrent(ctx, q)
	if err != nil {
		return CurrentConditions{}, s.classify("current", q, err, ClassifyError)
	}

	current := NormalizeCurrent(raw)
	s.logger.Debug("current conditions normalized", "location", q.Term(), "place", current.PlaceName)
	return current, nil
}

func (s *service) Forecast(ctx context.Context, q LocationQuery, days int) (ForecastResult, error) {
	if q.IsZero() {
		return ForecastResult{}, apperrors.Wrap(string(KindBadRequest), MsgLocationRequired, nil)
	}

	days = ResolveDays(days, s.cfg.DefaultForecastDays, s.cfg.MaxForecastDays)
	raw, err := s.upstream.FetchForecast(ctx, q, days)
	if err != nil {
		return ForecastResult{}, s.classify("forecast", q, err, ClassifyForecastError)
	}

	result := NormalizeForecast(raw)
	if len(result.Days) > days {
		result.Days = result.Days[:days]
	}
	s.logger.Debug("forecast normalized", "location", q.Term(), "days", len(result.Days))
	return result, nil
}

func (s *service) classify(op string, q LocationQuery, err error, toGateway func(error) error) error {
	failure := AsUpstreamFailure(err)
	gwErr := toGateway(err)
	s.logger.Warn("upstream request failed",
		"operation", op,
		"location", q.Term(),
		"outcome", failure.Outcome.String(),
		"status", failure.Status,
		"kind", string(KindOf(gwErr)),
		"error", err,
	)
	return gwErr
}
