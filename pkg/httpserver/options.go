package httpserver

import (
	"net"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YaganovValera/httplifecycle/pkg/middleware"
)

// ReadyChecker returns nil if the service is ready to serve.
type ReadyChecker func() error

// Option configures a Server at construction time.
type Option func(*options)

type options struct {
	ready      ReadyChecker
	mws        []middleware.Middleware
	registerer prometheus.Registerer
	gatherer   prometheus.Gatherer
	builtins   bool

	wrapListener func(net.Listener) net.Listener
}

func defaultOptions() options {
	return options{
		registerer: prometheus.DefaultRegisterer,
		gatherer:   prometheus.DefaultGatherer,
		builtins:   true,
	}
}

// WithReadyChecker sets the check behind the readyz endpoint. It is only
// consulted while the server is running.
func WithReadyChecker(check ReadyChecker) Option {
	return func(o *options) { o.ready = check }
}

// WithMiddleware adds mws between the built-in request ID and metrics
// middleware (outside) and panic recovery (inside), in the given order.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(o *options) { o.mws = append(o.mws, mws...) }
}

// WithRegistry routes lifecycle and request metrics to reg and serves
// the metrics endpoint from it.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(o *options) {
		o.registerer = reg
		o.gatherer = reg
	}
}

// WithoutBuiltinRoutes leaves the router empty: no healthz, readyz or metrics.
func WithoutBuiltinRoutes() Option {
	return func(o *options) { o.builtins = false }
}

// WithListener wraps the bound listener before serving starts, e.g. with
// netutil.LimitListener. Close still closes the wrapped listener.
func WithListener(wrap func(net.Listener) net.Listener) Option {
	return func(o *options) { o.wrapListener = wrap }
}
