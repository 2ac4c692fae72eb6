package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/weather-gateway/internal/domain/weather"
	apperrors "github.com/yanqian/weather-gateway/pkg/errors"
	"github.com/yanqian/weather-gateway/pkg/util"
)

// CredentialProbe reports on the upstream credential without exposing it.
type CredentialProbe interface {
	HasAPIKey() bool
	KeyLength() int
}

// WeatherHandler wires the HTTP transport to the gateway domain.
type WeatherHandler struct {
	svc    weather.Service
	probe  CredentialProbe
	logger *slog.Logger
	now    func() time.Time
}

// NewWeatherHandler constructs the gateway HTTP handler.
func NewWeatherHandler(svc weather.Service, probe CredentialProbe, logger *slog.Logger) *WeatherHandler {
	return &WeatherHandler{
		svc:    svc,
		probe:  probe,
		logger: logger.With("component", "http.handler"),
		now:    util.NowUTC,
	}
}

var statusByKind = map[weather.ErrorKind]int{
	weather.KindBadRequest:          http.StatusBadRequest,
	weather.KindNotFound:            http.StatusNotFound,
	weather.KindUnauthorized:        http.StatusUnauthorized,
	weather.KindQuotaExceeded:       http.StatusForbidden,
	weather.KindUpstreamUnavailable: http.StatusInternalServerError,
}

// Current returns normalized current conditions.
func (h *WeatherHandler) Current(c *gin.Context) {
	q, err := locationFromQuery(c)
	if err != nil {
		abortWithError(c, gatewayHTTPError(err))
		return
	}

	resp, err := h.svc.Current(c.Request.Context(), q)
	if err != nil {
		abortWithError(c, gatewayHTTPError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Forecast returns the normalized multi-day forecast.
func (h *WeatherHandler) Forecast(c *gin.Context) {
	q, err := locationFromQuery(c)
	if err != nil {
		abortWithError(c, gatewayHTTPError(err))
		return
	}

	// Anything unparseable falls back to the default day count.
	days, _ := strconv.Atoi(c.Query("days"))

	resp, err := h.svc.Forecast(c.Request.Context(), q, days)
	if err != nil {
		abortWithError(c, gatewayHTTPError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health reports liveness.
func (h *WeatherHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "Weather gateway is running",
		"status":    "healthy",
		"timestamp": h.now().Format(time.RFC3339),
	})
}

// Debug reports whether the upstream credential is configured.
func (h *WeatherHandler) Debug(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hasApiKey": h.probe.HasAPIKey(),
		"keyLength": h.probe.KeyLength(),
		"timestamp": h.now().Format(time.RFC3339),
	})
}

func locationFromQuery(c *gin.Context) (weather.LocationQuery, error) {
	place := c.Query("location")
	if place == "" {
		place = c.Query("city")
	}
	return weather.ParseLocation(place, c.Query("lat"), c.Query("lon"))
}

func gatewayHTTPError(err error) *HTTPError {
	kind := weather.KindOf(err)
	status, ok := statusByKind[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	message := weather.MsgFetchFailed
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}
	return NewHTTPError(status, string(kind), message, err)
}
