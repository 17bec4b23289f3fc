package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels shared by the reconcile and notification counters.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

var (
	reconcileActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portalsync_reconcile_actions_total",
		Help: "Total number of scheduled-event reconcile actions applied.",
	}, []string{"action", "outcome"})

	notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portalsync_notifications_total",
		Help: "Total number of event reminder announcements attempted.",
	}, []string{"outcome"})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "portalsync_http_requests_total",
		Help: "Total number of HTTP requests processed.",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "portalsync_http_request_duration_seconds",
		Help:    "Histogram of latencies for HTTP requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// ReconcileAction records one create/update/delete action against the
// scheduled-events calendar.
func ReconcileAction(action, outcome string) {
	reconcileActions.WithLabelValues(action, outcome).Inc()
}

// Notification records one reminder announcement attempt.
func Notification(outcome string) {
	notifications.WithLabelValues(outcome).Inc()
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latencies, labelled by the chi route
// pattern rather than the raw path.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			httpRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.status)).Inc()
			httpRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
