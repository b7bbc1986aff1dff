// pkg/httpserver/server.go

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/YaganovValera/httplifecycle/pkg/logger"
	"github.com/YaganovValera/httplifecycle/pkg/middleware"
	promutil "github.com/YaganovValera/httplifecycle/pkg/prometheus"
	"github.com/YaganovValera/httplifecycle/pkg/safe"
)

// Server owns a listening socket and the goroutine serving it.
//
// Start and Close are serialized by a mutex; they do not make illegal call
// sequences legal. A Server is single-use: once closed, or once Start has
// failed, it must be discarded.
type Server struct {
	cfg     Config
	log     *logger.Logger
	router  chi.Router
	ready   ReadyChecker
	metrics *serverMetrics

	wrapListener func(net.Listener) net.Listener

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener

	state atomic.Int32
	port  atomic.Int64
	task  atomic.Pointer[safe.Task]
}

// New builds the router (built-in endpoints and middleware) without
// binding anything. Routes must be registered on Router() before Start.
func New(cfg Config, log *logger.Logger, opts ...Option) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		cfg:     cfg,
		log:     log.Named("http-server").With(zap.String("server", cfg.Name)),
		ready:   o.ready,
		metrics: newServerMetrics(o.registerer, cfg.Name),

		wrapListener: o.wrapListener,
	}
	s.port.Store(int64(cfg.Port))
	s.setState(StateIdle)

	// Recover is innermost so that a panic still reaches metrics, access
	// log and tracing as a 500.
	chain := []middleware.Middleware{
		middleware.RequestID(),
		middleware.Metrics(o.registerer),
	}
	chain = append(chain, o.mws...)
	chain = append(chain, middleware.Recover(s.log))

	r := chi.NewRouter()
	r.Use(middleware.Compose(chain...))
	if o.builtins {
		s.mountBuiltins(r, o.gatherer)
	}
	s.router = r

	return s, nil
}

func (s *Server) mountBuiltins(r chi.Router, g prometheus.Gatherer) {
	r.Method(http.MethodGet, s.cfg.MetricsPath, promutil.Handler(g))
	r.Get(s.cfg.HealthzPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Get(s.cfg.ReadyzPath, func(w http.ResponseWriter, _ *http.Request) {
		if st := s.State(); st != StateRunning {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("NOT READY: server is %s", st)))
			return
		}
		if s.ready != nil {
			if err := s.ready(); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(fmt.Sprintf("NOT READY: %v", err)))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	})
}

// Router is where the caller registers application routes. Built-in
// routes are already mounted, so chi rejects Router().Use: middleware goes
// through WithMiddleware.
func (s *Server) Router() chi.Router { return s.router }

// Port returns the configured port before Start and the bound port after it.
func (s *Server) Port() int { return int(s.port.Load()) }

// Addr returns host:port built from Port.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.cfg.Host, strconv.Itoa(s.Port()))
}

func (s *Server) State() State { return State(s.state.Load()) }

// Done is closed when the serve goroutine exits. It is nil before Start.
func (s *Server) Done() <-chan struct{} {
	if t := s.task.Load(); t != nil {
		return t.Done()
	}
	return nil
}

func (s *Server) setState(st State) {
	s.state.Store(int32(st))
	s.metrics.setState(st)
}

// Start binds host:port and spawns the serve goroutine. Values carried by
// ctx are visible to handlers; cancelling ctx does not stop the server.
//
// A bind failure is returned as *BindError and leaves the Server Failed.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.State(); st {
	case StateIdle:
	case StateStarting, StateRunning:
		return ErrAlreadyStarted
	default:
		return fmt.Errorf("%w: server is %s", ErrClosed, st)
	}
	s.setState(StateStarting)

	addr := s.cfg.Addr()
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		s.metrics.bindErrors.Inc()
		s.setState(StateFailed)
		s.log.Error("http: bind failed", zap.String("addr", addr), zap.Error(err))
		return &BindError{Addr: addr, Err: err}
	}
	if tcpAddr, ok := ln.Addr().(*net.TCPAddr); ok {
		s.port.Store(int64(tcpAddr.Port))
	}

	baseCtx := context.WithoutCancel(ctx)
	srv := &http.Server{
		Handler:           s.router,
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       s.cfg.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
		ErrorLog:          zap.NewStdLog(s.log.Raw()),
	}
	if wrap := s.wrapListener; wrap != nil {
		ln = wrap(ln)
	}
	s.listener = ln
	s.httpServer = srv

	s.metrics.starts.Inc()
	s.setState(StateRunning)
	s.task.Store(safe.Spawn(s.log, "http-serve", func() error {
		return s.serve(srv, ln)
	}))

	s.log.Info("http: server started", zap.String("addr", ln.Addr().String()))
	return nil
}

// serve blocks until the listener is closed. A regular shutdown is not an error.
func (s *Server) serve(srv *http.Server, ln net.Listener) error {
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	s.metrics.serveErrors.Inc()
	return fmt.Errorf("httpserver: serve: %w", err)
}

// Close stops accepting, drains open connections and joins the serve
// goroutine. There is no internal timeout: ctx bounds the drain, and when it
// expires the remaining connections are closed forcibly. Close returns only
// after the serve goroutine has exited.
//
// Errors are *ShutdownError. Close on a Server that never started, or one
// that is already closed, fails without side effects.
func (s *Server) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.State(); st {
	case StateRunning:
	case StateIdle, StateFailed:
		return &ShutdownError{Err: ErrNotStarted}
	default:
		return &ShutdownError{Err: ErrClosed}
	}
	s.setState(StateClosing)
	s.log.Info("http: shutting down", zap.Int("port", s.Port()))

	var errs []error
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.log.Warn("http: graceful shutdown interrupted, closing connections", zap.Error(err))
		errs = append(errs, err)
		if cerr := s.httpServer.Close(); cerr != nil {
			errs = append(errs, cerr)
		}
	}
	if err := s.task.Load().Wait(); err != nil {
		errs = append(errs, err)
	}
	// Serve closes the listener itself; this covers a Close that raced
	// ahead of the serve goroutine.
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		errs = append(errs, err)
	}

	s.metrics.closes.Inc()
	s.setState(StateClosed)

	if len(errs) > 0 {
		err := &ShutdownError{Err: errors.Join(errs...)}
		s.log.Error("http: shutdown finished with errors", zap.Error(err))
		return err
	}
	s.log.Info("http: server stopped gracefully")
	return nil
}
