// internal/app/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/YaganovValera/httplifecycle/internal/config"
	"github.com/YaganovValera/httplifecycle/pkg/backoff"
	"github.com/YaganovValera/httplifecycle/pkg/httpserver"
	"github.com/YaganovValera/httplifecycle/pkg/logger"
	"github.com/YaganovValera/httplifecycle/pkg/middleware"
	"github.com/YaganovValera/httplifecycle/pkg/serviceid"
	"github.com/YaganovValera/httplifecycle/pkg/shutdown"
	"github.com/YaganovValera/httplifecycle/pkg/telemetry"
)

// ErrServeExited is returned by Run when the serve goroutine stops before
// shutdown was requested.
var ErrServeExited = errors.New("app: http serve loop exited unexpectedly")

// App ties the lifecycle-managed server to the service configuration.
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	srv    *httpserver.Server
	ready  atomic.Bool
	client *http.Client
}

// New builds the server and registers routes. Nothing is bound until Run.
func New(cfg *config.Config, log *logger.Logger, opts ...httpserver.Option) (*App, error) {
	a := &App{
		cfg:    cfg,
		log:    log.Named("app"),
		client: &http.Client{Transport: &http.Transport{DisableKeepAlives: true}},
	}

	opts = append([]httpserver.Option{
		httpserver.WithReadyChecker(a.readiness),
		httpserver.WithMiddleware(
			middleware.Tracing(cfg.ServiceName),
			middleware.RequestLogger(log.Named("access")),
			middleware.CORS(),
		),
	}, opts...)

	srv, err := httpserver.New(cfg.HTTP, log, opts...)
	if err != nil {
		return nil, fmt.Errorf("httpserver init: %w", err)
	}
	a.srv = srv

	RegisterRoutes(srv.Router(), cfg.ServiceName, cfg.ServiceVersion)
	return a, nil
}

func (a *App) Server() *httpserver.Server { return a.srv }

// Ready reports whether the self-probe has passed.
func (a *App) Ready() bool { return a.ready.Load() }

func (a *App) readiness() error {
	if !a.ready.Load() {
		return errors.New("self-probe pending")
	}
	return nil
}

// Run starts the server, probes its own healthz endpoint, then blocks until
// ctx is done or the serve goroutine exits, and finally closes the server
// within http.shutdown_timeout.
func (a *App) Run(ctx context.Context) error {
	if err := a.srv.Start(ctx); err != nil {
		return fmt.Errorf("http start: %w", err)
	}
	a.log.WithContext(ctx).Info("app: listening", zap.String("addr", a.srv.Addr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.probe(gctx); err != nil {
			if gctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("self-probe: %w", err)
		}
		a.ready.Store(true)
		a.log.Info("app: ready", zap.Int("port", a.srv.Port()))
		return nil
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case <-a.srv.Done():
			return ErrServeExited
		}
	})

	runErr := g.Wait()
	a.ready.Store(false)

	closeErr := shutdown.GracefulShutdown("http-server", a.cfg.HTTP.ShutdownTimeout, a.srv.Close, a.log)
	return errors.Join(runErr, closeErr)
}

func (a *App) probe(ctx context.Context) error {
	url := fmt.Sprintf("http://%s%s", probeAddr(a.cfg.HTTP.Host, a.srv.Port()), a.cfg.HTTP.HealthzPath)
	return backoff.Execute(ctx, "self_probe", a.cfg.Probe, a.log, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := a.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("healthz returned %d", resp.StatusCode)
		}
		return nil
	})
}

// probeAddr maps wildcard hosts to loopback.
func probeAddr(host string, port int) string {
	switch host {
	case "", "0.0.0.0":
		host = "127.0.0.1"
	case "::":
		host = "::1"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// Run is the service entry point used by cmd/httplifecycle.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	serviceid.InitServiceName(cfg.ServiceName)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		_ = shutdown.GracefulShutdown("telemetry", cfg.Telemetry.Timeout, shutdownTracer, log)
	}()

	a, err := New(cfg, log)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
