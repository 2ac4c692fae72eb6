package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/weather-gateway/internal/domain/weather"
	"github.com/yanqian/weather-gateway/internal/infra/config"
	"github.com/yanqian/weather-gateway/internal/infra/weatherapi"
)

const parisCurrent = `{"location":{"name":"Paris","region":"Ile-de-France","country":"France"},
"current":{"temp_c":18.2,"feelslike_c":17.6,"condition":{"text":"Clear","icon":"//cdn/113.png"},"humidity":55,"wind_kph":9.4,"vis_km":10,"pressure_mb":1018,"uv":3,"cloud":0}}`

func TestRouter_CurrentSuccess(t *testing.T) {
	var lastQ atomic.Value
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		lastQ.Store(r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, parisCurrent)
	})

	recorder := performGet(newRouterUnderTest(t, provider.URL, "secret"), "/api/current?location=Paris")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "Paris", lastQ.Load())
	require.NotEmpty(t, recorder.Header().Get(requestIDHeader))

	var got weather.CurrentConditions
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Paris", got.PlaceName)
	require.Equal(t, 18, got.TemperatureC)
	require.Equal(t, 18, got.FeelsLikeC)
	require.Equal(t, "Clear", got.Description)
	require.Equal(t, 55, got.HumidityPct)
}

func TestRouter_MissingLocationNeverCallsUpstream(t *testing.T) {
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, parisCurrent)
	})
	server := newRouterUnderTest(t, provider.URL, "secret")

	paths := []string{
		"/current",
		"/current?location=%20",
		"/forecast?location=",
		"/api/current",
		"/api/current?location=",
		"/api/current?location=%20%20%09",
		"/api/forecast?location=%20",
		"/api/weather?city=",
	}
	for _, path := range paths {
		recorder := performGet(server, path)
		require.Equal(t, http.StatusBadRequest, recorder.Code, path)
		require.Equal(t, "City parameter is required", decodeErrorBody(t, recorder.Body.Bytes()), path)
	}
	require.Zero(t, provider.calls.Load())
}

func TestRouter_UpstreamFailuresAreClassified(t *testing.T) {
	tests := []struct {
		name            string
		upstream        int
		status          int
		message         string
		forecastMessage string
	}{
		{"unknown city remaps to 404", http.StatusBadRequest, http.StatusNotFound, "City not found", "City not found"},
		{"rejected key", http.StatusUnauthorized, http.StatusUnauthorized, "Invalid API key", "Invalid API key"},
		{"quota exceeded", http.StatusForbidden, http.StatusForbidden, "API quota exceeded", "API quota exceeded"},
		{"provider outage", http.StatusBadGateway, http.StatusInternalServerError, "Failed to fetch weather data", "Failed to fetch forecast data"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.upstream)
				_, _ = io.WriteString(w, `{"error":{"code":1006,"message":"No matching location found."}}`)
			})
			server := newRouterUnderTest(t, provider.URL, "secret")

			for _, path := range []string{"/current?location=Paris", "/api/current?location=Paris", "/api/weather?city=Paris"} {
				recorder := performGet(server, path)
				require.Equal(t, tc.status, recorder.Code, path)
				require.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.message), recorder.Body.String(), path)
			}
			for _, path := range []string{"/forecast?location=Paris&days=3", "/api/forecast?location=Paris"} {
				recorder := performGet(server, path)
				require.Equal(t, tc.status, recorder.Code, path)
				require.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tc.forecastMessage), recorder.Body.String(), path)
			}
		})
	}
}

func TestRouter_RootPathsServeWeather(t *testing.T) {
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/forecast.json") {
			_, _ = io.WriteString(w, forecastPayload(5))
			return
		}
		_, _ = io.WriteString(w, parisCurrent)
	})
	server := newRouterUnderTest(t, provider.URL, "secret")

	recorder := performGet(server, "/current?location=Paris")
	require.Equal(t, http.StatusOK, recorder.Code)
	var current weather.CurrentConditions
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &current))
	require.Equal(t, "Paris", current.PlaceName)

	recorder = performGet(server, "/forecast?location=Paris&days=3")
	require.Equal(t, http.StatusOK, recorder.Code)
	var forecast weather.ForecastResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &forecast))
	require.Len(t, forecast.Days, 3)
}

func TestRouter_UnknownRouteRendersJSONError(t *testing.T) {
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, parisCurrent)
	})
	server := newRouterUnderTest(t, provider.URL, "secret")

	for _, path := range []string{"/nope", "/api/unknown?location=Paris"} {
		recorder := performGet(server, path)
		require.Equal(t, http.StatusNotFound, recorder.Code, path)
		require.JSONEq(t, `{"error":"Not found"}`, recorder.Body.String(), path)
	}
	require.Zero(t, provider.calls.Load())
}

func TestRouter_ProviderUnreachable(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := provider.URL
	provider.Close()

	recorder := performGet(newRouterUnderTest(t, base, "secret"), "/api/current?location=Paris")
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t, "Failed to fetch weather data", decodeErrorBody(t, recorder.Body.Bytes()))
}

func TestRouter_MissingCredentialFailsPreflight(t *testing.T) {
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, parisCurrent)
	})

	recorder := performGet(newRouterUnderTest(t, provider.URL, ""), "/api/current?location=Paris")
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Equal(t, "Weather API key not configured", decodeErrorBody(t, recorder.Body.Bytes()))
	require.Zero(t, provider.calls.Load())
}

func TestRouter_ForecastReturnsRequestedDays(t *testing.T) {
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		days, _ := strconv.Atoi(r.URL.Query().Get("days"))
		_, _ = io.WriteString(w, forecastPayload(days))
	})
	server := newRouterUnderTest(t, provider.URL, "secret")

	recorder := performGet(server, "/api/forecast?location=Paris&days=3")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got weather.ForecastResult
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Equal(t, "Paris", got.PlaceName)
	require.Equal(t, "France", got.CountryName)
	require.Len(t, got.Days, 3)
	require.Equal(t, "2026-10-14", got.Days[0].Date)
	require.Equal(t, "2026-10-15", got.Days[1].Date)
	require.Equal(t, "2026-10-16", got.Days[2].Date)

	recorder = performGet(server, "/api/forecast?location=Paris&days=soon")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	require.Len(t, got.Days, 7)
}

func TestRouter_ForecastBodyUsesForecastKey(t *testing.T) {
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"location":{"name":"Paris","country":"France"}}`)
	})

	recorder := performGet(newRouterUnderTest(t, provider.URL, "secret"), "/api/forecast?location=Paris")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.JSONEq(t, `{"placeName":"Paris","countryName":"France","forecast":[]}`, recorder.Body.String())
}

func TestRouter_CityAliasAndCoordinates(t *testing.T) {
	var lastQ atomic.Value
	provider := newFakeProvider(t, func(w http.ResponseWriter, r *http.Request) {
		lastQ.Store(r.URL.Query().Get("q"))
		_, _ = io.WriteString(w, parisCurrent)
	})
	server := newRouterUnderTest(t, provider.URL, "secret")

	recorder := performGet(server, "/api/weather?city=S%C3%A3o%20Paulo")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "São Paulo", lastQ.Load())

	recorder = performGet(server, "/api/current?lat=48.85&lon=2.35")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "48.85,2.35", lastQ.Load())

	recorder = performGet(server, "/api/current?lat=48.85")
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	require.Equal(t, "Invalid coordinates", decodeErrorBody(t, recorder.Body.Bytes()))
}

func TestRouter_HealthAndDebug(t *testing.T) {
	server := newRouterUnderTest(t, "http://127.0.0.1:1", "super-secret-key")

	recorder := performGet(server, "/")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), `"status":"healthy"`)

	recorder = performGet(server, "/api/debug")
	require.Equal(t, http.StatusOK, recorder.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.Equal(t, true, body["hasApiKey"])
	require.Equal(t, float64(len("super-secret-key")), body["keyLength"])
	require.NotContains(t, recorder.Body.String(), "super")
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newRouterUnderTest(t, "http://127.0.0.1:1", "secret")

	req := httptest.NewRequest(http.MethodOptions, "/api/current", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	server := newRouterUnderTest(t, "http://127.0.0.1:1", "secret")
	_ = performGet(server, "/api/current")

	recorder := performGet(server, "/metrics")
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Contains(t, recorder.Body.String(), "weather_gateway_http_requests_total")
}

type fakeProvider struct {
	*httptest.Server
	calls *atomic.Int32
}

func newFakeProvider(t *testing.T, handler http.HandlerFunc) fakeProvider {
	t.Helper()
	calls := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return fakeProvider{Server: srv, calls: calls}
}

func forecastPayload(days int) string {
	entries := make([]string, 0, days)
	start := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		entries = append(entries, fmt.Sprintf(`{"date":%q,"day":{"maxtemp_c":%d,"mintemp_c":%d,"condition":{"text":"Sunny","icon":"//cdn/113.png"},"daily_chance_of_rain":10,"avghumidity":60,"maxwind_kph":12.5}}`, date, 20+i, 10+i))
	}
	return `{"location":{"name":"Paris","country":"France"},"forecast":{"forecastday":[` + strings.Join(entries, ",") + `]}}`
}

func performGet(server *http.Server, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	server.Handler.ServeHTTP(rec, req)
	return rec
}

func newRouterUnderTest(t *testing.T, providerURL, apiKey string) *http.Server {
	t.Helper()
	logger := newTestLogger()
	client := weatherapi.NewClient(weatherapi.Options{
		BaseURL: providerURL,
		APIKey:  apiKey,
		Timeout: 2 * time.Second,
	}, logger)
	svc := weather.NewService(weather.Config{MaxForecastDays: 14, DefaultForecastDays: 7}, client, logger)
	cfg := &config.Config{
		HTTP: config.HTTPConfig{
			Address:      ":0",
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	return NewRouter(cfg, NewWeatherHandler(svc, client, logger))
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}

func decodeErrorBody(t *testing.T, raw []byte) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body["error"]
}
