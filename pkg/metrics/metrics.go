package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_gateway_upstream_calls_total",
			Help: "Total weather provider calls by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weather_gateway_upstream_latency_seconds",
			Help:    "Weather provider call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weather_gateway_http_requests_total",
			Help: "Total gateway HTTP requests by route and status",
		},
		[]string{"route", "status"},
	)

	ForecastDegradedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weather_aggregator_forecast_degraded_total",
			Help: "Aggregated lookups that completed without a forecast",
		},
	)
)
