package gatewayclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yanqian/weather-gateway/internal/domain/weather"
	apperrors "github.com/yanqian/weather-gateway/pkg/errors"
)

const defaultBaseURL = "http://localhost:10000"

// Client calls the weather gateway's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds a gateway client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(base, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Current fetches /api/current for a location.
func (c *Client) Current(ctx context.Context, location string) (weather.CurrentConditions, error) {
	var out weather.CurrentConditions
	params := url.Values{}
	params.Set("location", location)
	if err := c.get(ctx, "/api/current", params, &out); err != nil {
		return weather.CurrentConditions{}, err
	}
	return out, nil
}

// Forecast fetches /api/forecast for a location. Non-positive days are omitted.
func (c *Client) Forecast(ctx context.Context, location string, days int) (weather.ForecastResult, error) {
	var out weather.ForecastResult
	params := url.Values{}
	params.Set("location", location)
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}
	if err := c.get(ctx, "/api/forecast", params, &out); err != nil {
		return weather.ForecastResult{}, err
	}
	if out.Days == nil {
		out.Days = []weather.ForecastDay{}
	}
	return out, nil
}

var kindByStatus = map[int]weather.ErrorKind{
	http.StatusBadRequest:   weather.KindBadRequest,
	http.StatusNotFound:     weather.KindNotFound,
	http.StatusUnauthorized: weather.KindUnauthorized,
	http.StatusForbidden:    weather.KindQuotaExceeded,
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.Wrap(string(weather.KindUpstreamUnavailable), "weather gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return apperrors.Wrap(string(weather.KindUpstreamUnavailable), "read gateway response", err)
	}

	if resp.StatusCode != http.StatusOK {
		kind, ok := kindByStatus[resp.StatusCode]
		if !ok {
			kind = weather.KindUpstreamUnavailable
		}
		return apperrors.Wrap(string(kind), errorMessage(body, resp.StatusCode), nil)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.Wrap(string(weather.KindUpstreamUnavailable), "decode gateway response", err)
	}
	return nil
}

// errorMessage extracts the {"error": "..."} message, falling back to the status text.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		return payload.Error
	}
	return fmt.Sprintf("gateway returned %d %s", status, http.StatusText(status))
}
