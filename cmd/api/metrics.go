package main

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "watchlist"

type metricCollectors struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inFlight prometheus.Gauge
}

// newMetricCollectors registers the HTTP collectors, plus Go runtime and
// process collectors, on reg. When db is non-nil its pool statistics are
// exported too.
func newMetricCollectors(reg *prometheus.Registry, db *sql.DB) *metricCollectors {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if db != nil {
		reg.MustRegister(collectors.NewDBStatsCollector(db, metricsNamespace))
	}

	factory := promauto.With(reg)
	return &metricCollectors{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "path", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being served.",
		}),
	}
}

// unmatchedRoute labels every request that no route serves.
const unmatchedRoute = "unmatched"

// staticRoutes lists the registered paths without parameters.
var staticRoutes = map[string]bool{
	"/":                  true,
	"/api/healthcheck":   true,
	"/metrics":           true,
	"/api/auth/register": true,
	"/api/auth/login":    true,
	"/api/movies":        true,
	"/api/movies/stats":  true,
	"/api/movies/search": true,
}

// methodLabel keeps the method label to the standard set.
func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodPatch, http.MethodDelete, http.MethodOptions:
		return method
	}
	return "other"
}

// routeLabel maps a request path to the route pattern it hits, so the set of
// label values stays fixed no matter what clients send.
func routeLabel(path string) string {
	if staticRoutes[path] {
		return path
	}
	if id, ok := strings.CutPrefix(path, "/api/movies/"); ok && id != "" && !strings.Contains(id, "/") {
		return "/api/movies/:id"
	}
	return unmatchedRoute
}
