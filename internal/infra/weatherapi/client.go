package weatherapi

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/weather-gateway/internal/domain/weather"
	"github.com/yanqian/weather-gateway/pkg/metrics"
)

const (
	defaultBaseURL = "https://api.weatherapi.com/v1"
	maxBodyBytes   = 4 << 20
)

// Options configures the provider client.
type Options struct {
	BaseURL             string
	APIKey              string
	Timeout             time.Duration
	MaxForecastDays     int
	DefaultForecastDays int
}

// Client calls api.weatherapi.com. It never retries.
type Client struct {
	baseURL     string
	apiKey      string
	maxDays     int
	defaultDays int
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient builds an API client.
func NewClient(opts Options, logger *slog.Logger) *Client {
	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxDays := opts.MaxForecastDays
	if maxDays <= 0 {
		maxDays = 14
	}
	defaultDays := opts.DefaultForecastDays
	if defaultDays <= 0 {
		defaultDays = 7
	}
	return &Client{
		baseURL:     strings.TrimRight(base, "/"),
		apiKey:      strings.TrimSpace(opts.APIKey),
		maxDays:     maxDays,
		defaultDays: defaultDays,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger.With("component", "weatherapi.client"),
	}
}

// HasAPIKey reports whether a credential is configured.
func (c *Client) HasAPIKey() bool {
	return c.apiKey != ""
}

// KeyLength returns the configured credential length.
func (c *Client) KeyLength() int {
	return len(c.apiKey)
}

// FetchCurrent retrieves a current.json document.
func (c *Client) FetchCurrent(ctx context.Context, q weather.LocationQuery) ([]byte, error) {
	params := url.Values{}
	params.Set("q", q.Term())
	params.Set("aqi", "no")
	return c.get(ctx, "current", params)
}

// FetchForecast retrieves a forecast.json document for the clamped day count.
func (c *Client) FetchForecast(ctx context.Context, q weather.LocationQuery, days int) ([]byte, error) {
	days = weather.ResolveDays(days, c.defaultDays, c.maxDays)
	params := url.Values{}
	params.Set("q", q.Term())
	params.Set("days", strconv.Itoa(days))
	params.Set("aqi", "no")
	params.Set("alerts", "no")
	return c.get(ctx, "forecast", params)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if c.apiKey == "" {
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, weather.OutcomeMissingCredential.String()).Inc()
		return nil, weather.MissingCredential()
	}
	params.Set("key", c.apiKey)
	endpointURL := fmt.Sprintf("%s/%s.json?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpointURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", endpoint, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.UpstreamLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, weather.OutcomeNoResponse.String()).Inc()
		return nil, weather.NoResponse(fmt.Errorf("%s request failed: %w", endpoint, redact(err, c.apiKey)))
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream response", "endpoint", endpoint, "url", c.redactedURL(endpointURL), "status", resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()
		failure := weather.Responded(resp.StatusCode)
		failure.Err = fmt.Errorf("%s request error: status=%d body=%s", endpoint, resp.StatusCode, strings.TrimSpace(string(payload)))
		return nil, failure
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.UpstreamCallsTotal.WithLabelValues(endpoint, weather.OutcomeNoResponse.String()).Inc()
		return nil, weather.NoResponse(fmt.Errorf("read %s response: %w", endpoint, err))
	}
	metrics.UpstreamCallsTotal.WithLabelValues(endpoint, "ok").Inc()
	return body, nil
}

func (c *Client) redactedURL(raw string) string {
	return strings.ReplaceAll(raw, url.QueryEscape(c.apiKey), "HIDDEN_KEY")
}

// redact strips the credential from transport errors, which embed the request URL.
func redact(err error, key string) error {
	msg := err.Error()
	escaped := url.QueryEscape(key)
	if !strings.Contains(msg, escaped) {
		return err
	}
	return redactedError{msg: strings.ReplaceAll(msg, escaped, "HIDDEN_KEY"), err: err}
}

type redactedError struct {
	msg string
	err error
}

func (e redactedError) Error() string { return e.msg }
func (e redactedError) Unwrap() error { return e.err }
