package backoff

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var serviceLabel atomic.Value

// SetServiceLabel must be called once from serviceid.InitServiceName(..)
// before the first Execute(..).
func SetServiceLabel(name string) { serviceLabel.Store(name) }

func service() string {
	if v, ok := serviceLabel.Load().(string); ok && v != "" {
		return v
	}
	return "unknown"
}

var labels = []string{"service", "operation"}

func counter(name, help string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httplifecycle", Subsystem: "backoff", Name: name, Help: help,
	}, labels)
}

var (
	retries   = counter("retries_total", "Number of back-off retry attempts")
	failures  = counter("failures_total", "Number of operations that gave up after retries")
	successes = counter("successes_total", "Number of operations that eventually succeeded")
	delays    = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "httplifecycle", Subsystem: "backoff", Name: "retry_delay_seconds",
		Help:    "Histogram of retry delays (seconds)",
		Buckets: prometheus.DefBuckets,
	}, labels)
)
