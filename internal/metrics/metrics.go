// Package metrics provides Prometheus instrumentation for the wager ledger.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// WagersCreated counts wagers created, including fan-out rows.
	WagersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sidebook_wagers_created_total",
		Help: "Total number of wagers created",
	})

	// WagersResolved counts resolutions, partitioned by result.
	WagersResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sidebook_wagers_resolved_total",
		Help: "Total number of wagers resolved",
	}, []string{"result"})

	// OpenWagers tracks the number of currently open wagers.
	OpenWagers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sidebook_open_wagers",
		Help: "Number of currently open wagers",
	})

	// SessionsIssued counts allow-list session tokens handed out.
	SessionsIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sidebook_sessions_issued_total",
		Help: "Total session tokens issued to allow-listed emails",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sidebook_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sidebook_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// Use the raw path for the label; the route surface is small and
		// parameterized only by roster names and wager IDs.
		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
