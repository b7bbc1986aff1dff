package httpserver

import (
	"github.com/prometheus/client_golang/prometheus"

	promutil "github.com/YaganovValera/httplifecycle/pkg/prometheus"
)

type serverMetrics struct {
	state       *prometheus.GaugeVec
	starts      prometheus.Counter
	bindErrors  prometheus.Counter
	serveErrors prometheus.Counter
	closes      prometheus.Counter
	name        string
}

func newServerMetrics(reg prometheus.Registerer, name string) *serverMetrics {
	state := promutil.RegisterOrGet(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "httpserver",
		Name:      "state",
		Help:      "Lifecycle state of the server (1 for the current state)",
	}, []string{"server", "state"}))
	starts := promutil.RegisterOrGet(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpserver",
		Name:      "starts_total",
		Help:      "Successful Start calls",
	}, []string{"server"}))
	bindErrors := promutil.RegisterOrGet(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpserver",
		Name:      "bind_errors_total",
		Help:      "Start calls that failed to bind the listener",
	}, []string{"server"}))
	serveErrors := promutil.RegisterOrGet(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpserver",
		Name:      "serve_errors_total",
		Help:      "Serve loop exits other than a regular shutdown",
	}, []string{"server"}))
	closes := promutil.RegisterOrGet(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "httpserver",
		Name:      "closes_total",
		Help:      "Completed Close calls",
	}, []string{"server"}))

	return &serverMetrics{
		state:       state,
		starts:      starts.WithLabelValues(name),
		bindErrors:  bindErrors.WithLabelValues(name),
		serveErrors: serveErrors.WithLabelValues(name),
		closes:      closes.WithLabelValues(name),
		name:        name,
	}
}

func (m *serverMetrics) setState(s State) {
	for _, st := range allStates {
		v := 0.0
		if st == s {
			v = 1
		}
		m.state.WithLabelValues(m.name, st.String()).Set(v)
	}
}
