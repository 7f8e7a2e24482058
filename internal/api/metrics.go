package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	metricsNamespace = "qoqo_aqt"
	metricsSubsystem = "api"

	// unmatchedRoute labels requests that hit no route, so probing clients
	// cannot grow the label set.
	unmatchedRoute = "unmatched"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "requests_total",
			Help:      "API requests by route pattern, method and status code.",
		},
		[]string{"route", "method", "code"},
	)

	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "request_duration_seconds",
			Help:      "Latency of API requests, excluding event streams.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	runsAccepted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "runs_accepted_total",
			Help:      "Runs accepted for execution, by backend.",
		},
		[]string{"backend"},
	)

	eventStreams = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "event_streams",
			Help:      "Open server-sent event streams of run events.",
		},
	)
)

// streamRoute is the one route whose requests stay open for the lifetime of
// a run; its duration says nothing about API latency.
const streamRoute = "/v1/runs/{id}/events"

// metricsMiddleware counts every request under its chi route pattern.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		route := routePattern(r)
		apiRequestsTotal.WithLabelValues(route, r.Method, strconv.Itoa(code)).Inc()
		if route != streamRoute {
			apiRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		}
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}

func metricsHandler() http.Handler {
	return promhttp.Handler()
}
