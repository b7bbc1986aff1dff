package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	promutil "github.com/YaganovValera/httplifecycle/pkg/prometheus"
)

// Metrics counts requests and observes latency per chi route pattern.
// Collectors are registered in reg (nil → default registry).
func Metrics(reg prometheus.Registerer) Middleware {
	reqs := promutil.RegisterOrGet(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests",
		},
		[]string{"path", "method", "code"},
	))
	duration := promutil.RegisterOrGet(reg, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "http",
			Name:      "request_duration_seconds",
			Help:      "Request duration",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := wrapWriter(w)
			next.ServeHTTP(sw, r)

			path := routePattern(r)
			reqs.WithLabelValues(path, r.Method, strconv.Itoa(sw.status)).Inc()
			duration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

const unmatched = "unmatched"

// routePattern keeps label cardinality bounded: raw URL paths are never used.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatched
}
