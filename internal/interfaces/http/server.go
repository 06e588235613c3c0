// Package http exposes the inference engine over a small JSON API: one
// endpoint per engine operation plus health and metrics.  The server never
// owns a container directly — it reads the current one through a
// ContainerProvider so that a hot reload swaps models without restarting
// listeners or dropping in-flight requests.
package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/turtacn/textselect/internal/config"
	"github.com/turtacn/textselect/internal/engine"
	"github.com/turtacn/textselect/internal/monitoring/logging"
)

// ContainerProvider yields the container serving the next request.  The
// returned container must stay valid for the duration of that request;
// providers that reload models close retired containers only after a grace
// period.
type ContainerProvider interface {
	Current() *engine.Container
}

// StaticProvider is a ContainerProvider for the common no-reload case.
type StaticProvider struct {
	Container *engine.Container
}

// Current returns the wrapped container.
func (p StaticProvider) Current() *engine.Container { return p.Container }

// Server is the HTTP front end.
type Server struct {
	srv *http.Server
	log logging.Logger
}

// NewServer builds a Server from cfg and the supplied router dependencies.
func NewServer(cfg config.ServerConfig, deps RouterDeps) *Server {
	log := deps.Logger
	if log == nil {
		log = logging.NewNop()
	}
	deps.Logger = log

	return &Server{
		log: log.Named("http"),
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      NewRouter(cfg, deps),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.log.Info("http server listening", logging.String("addr", s.srv.Addr))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop gracefully drains in-flight requests within ctx's deadline.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info("http server shutting down")
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Handler exposes the route tree for tests.
func (s *Server) Handler() http.Handler { return s.srv.Handler }
