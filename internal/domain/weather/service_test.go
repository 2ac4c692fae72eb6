package weather

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/weather-gateway/pkg/errors"
)

func TestServiceCurrentSuccess(t *testing.T) {
	upstream := &stubUpstream{raw: []byte(fullCurrentPayload)}
	svc := NewService(Config{}, upstream, newTestLogger())

	got, err := svc.Current(context.Background(), PlaceQuery("Paris"))
	require.NoError(t, err)
	require.Equal(t, "Paris", got.PlaceName)
	require.Equal(t, 18, got.TemperatureC)
	require.Equal(t, 1, upstream.currentCalls)
	require.Equal(t, "Paris", upstream.lastQuery.Term())
}

func TestServiceCurrentRejectsEmptyQuery(t *testing.T) {
	upstream := &stubUpstream{}
	svc := NewService(Config{}, upstream, newTestLogger())

	_, err := svc.Current(context.Background(), PlaceQuery("   "))
	require.True(t, apperrors.IsCode(err, string(KindBadRequest)))
	require.Zero(t, upstream.currentCalls)
}

func TestServiceCurrentClassifiesFailure(t *testing.T) {
	upstream := &stubUpstream{err: Responded(403)}
	svc := NewService(Config{}, upstream, newTestLogger())

	_, err := svc.Current(context.Background(), PlaceQuery("Paris"))
	require.Equal(t, KindQuotaExceeded, KindOf(err))
	require.Equal(t, MsgQuotaExceeded+": upstream responded with status 403", err.Error())
}

func TestServiceForecastDefaultsAndTruncates(t *testing.T) {
	upstream := &stubUpstream{raw: []byte(`{"location":{"name":"Paris","country":"France"},"forecast":{"forecastday":[
		{"date":"2026-10-14"},{"date":"2026-10-15"},{"date":"2026-10-16"},{"date":"2026-10-17"}]}}`)}
	svc := NewService(Config{MaxForecastDays: 14, DefaultForecastDays: 7}, upstream, newTestLogger())

	got, err := svc.Forecast(context.Background(), PlaceQuery("Paris"), 3)
	require.NoError(t, err)
	require.Equal(t, 3, upstream.lastDays)
	require.Len(t, got.Days, 3)
	require.Equal(t, []string{"2026-10-14", "2026-10-15", "2026-10-16"}, dates(got.Days))

	_, err = svc.Forecast(context.Background(), PlaceQuery("Paris"), 0)
	require.NoError(t, err)
	require.Equal(t, 7, upstream.lastDays)

	_, err = svc.Forecast(context.Background(), PlaceQuery("Paris"), 40)
	require.NoError(t, err)
	require.Equal(t, 14, upstream.lastDays)
}

func TestServiceForecastClassifiesFailure(t *testing.T) {
	upstream := &stubUpstream{err: Responded(400)}
	svc := NewService(Config{}, upstream, newTestLogger())

	_, err := svc.Forecast(context.Background(), CoordinateQuery(1, 2), 0)
	require.Equal(t, KindNotFound, KindOf(err))
	require.Equal(t, 1, upstream.forecastCalls)
}

func TestServiceFallbackMessageNamesOperation(t *testing.T) {
	upstream := &stubUpstream{err: Responded(502)}
	svc := NewService(Config{}, upstream, newTestLogger())

	var appErr *apperrors.AppError
	_, err := svc.Current(context.Background(), PlaceQuery("Paris"))
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, MsgFetchFailed, appErr.Message)

	_, err = svc.Forecast(context.Background(), PlaceQuery("Paris"), 3)
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, MsgForecastFetchFailed, appErr.Message)
	require.Equal(t, KindUpstreamUnavailable, KindOf(err))
}

func dates(days []ForecastDay) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, d.Date)
	}
	return out
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubUpstream struct {
	raw           []byte
	err           error
	currentCalls  int
	forecastCalls int
	lastQuery     LocationQuery
	lastDays      int
}

func (s *stubUpstream) FetchCurrent(ctx context.Context, q LocationQuery) ([]byte, error) {
	s.currentCalls++
	s.lastQuery = q
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}

func (s *stubUpstream) FetchForecast(ctx context.Context, q LocationQuery, days int) ([]byte, error) {
	s.forecastCalls++
	s.lastQuery = q
	s.lastDays = days
	if s.err != nil {
		return nil, s.err
	}
	return s.raw, nil
}
