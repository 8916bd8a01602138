// Package metrics provides Prometheus metrics for recommendation runs and the web surface.
//
// Label values are bounded: no titles, session ids or genres are ever used as labels.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/desertthunder/catalogai/internal/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "catalogai"

// Result labels
const (
	ResultOK           = "ok"
	ResultRateLimited  = "rate_limited"
	ResultError        = "error"
	ResultInvalidInput = "invalid_input"
	ResultCanceled     = "canceled"
)

var (
	// RecommendationsTotal counts completed recommendation runs by surface (web, tui, cli) and result.
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "recommendations_total",
		Help:      "Total number of recommendation runs, by surface and result.",
	}, []string{"surface", "result"})

	// RemoteCallDuration tracks latency of each call to the language model.
	RemoteCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "remote_call_duration_seconds",
		Help:      "Latency of language model calls, by provider, step and result.",
		Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
	}, []string{"provider", "step", "result"})

	// MalformedBlocksTotal counts recommendation blocks dropped by the parser.
	MalformedBlocksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "malformed_blocks_total",
		Help:      "Total number of recommendation blocks that failed to parse.",
	})

	// HTTPRequestsTotal counts web requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status code.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks web request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency, by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// ActiveSessions tracks sessions held by the web session store.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "active_sessions",
		Help:      "Current number of web sessions in memory.",
	})
)

// ResultLabel maps an error onto one of the bounded result labels.
func ResultLabel(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, shared.ErrRateLimited):
		return ResultRateLimited
	case errors.Is(err, shared.ErrInvalidInput):
		return ResultInvalidInput
	case errors.Is(err, context.Canceled):
		return ResultCanceled
	default:
		return ResultError
	}
}

// RecordRecommendation increments the run counter.
func RecordRecommendation(surface string, err error) {
	RecommendationsTotal.WithLabelValues(surface, ResultLabel(err)).Inc()
}

// ObserveRemoteCall records the latency of one model call.
func ObserveRemoteCall(provider, step string, d time.Duration, err error) {
	RemoteCallDuration.WithLabelValues(provider, step, ResultLabel(err)).Observe(d.Seconds())
}

// RecordMalformedBlocks adds n dropped blocks.
func RecordMalformedBlocks(n int) {
	if n > 0 {
		MalformedBlocksTotal.Add(float64(n))
	}
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// SetActiveSessions sets the session gauge.
func SetActiveSessions(n int) {
	ActiveSessions.Set(float64(n))
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
