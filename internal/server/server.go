// Package server exposes the toast store over HTTP: JSON endpoints for the
// store operations, a websocket snapshot stream, health and metrics.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/colonyops/toaster/internal/core/config"
	"github.com/colonyops/toaster/internal/core/logging"
	"github.com/colonyops/toaster/internal/core/toast"
	"github.com/colonyops/toaster/internal/metrics"
	"github.com/colonyops/toaster/pkg/kv"
)

const shutdownTimeout = 5 * time.Second

// Deps holds the collaborators of the HTTP server.
type Deps struct {
	Store   *toast.Store
	Metrics *metrics.Metrics // optional
	Config  config.ServerConfig
}

// Server is the HTTP control surface for a toast store.
type Server struct {
	store   *toast.Store
	metrics *metrics.Metrics
	cfg     config.ServerConfig
	log     zerolog.Logger

	streams *kv.Store[string, *streamClient]
	limiter *rate.Limiter // nil when notify is unlimited
	handler http.Handler
}

// New builds the server and its router.
func New(deps Deps) *Server {
	s := &Server{
		store:   deps.Store,
		metrics: deps.Metrics,
		cfg:     deps.Config,
		log:     logging.Component("server"),
		streams: kv.New[string, *streamClient](),
	}
	if deps.Config.NotifyRate > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(deps.Config.NotifyRate), max(deps.Config.NotifyBurst, 1))
	}
	s.handler = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Get("/healthz", s.handleHealth)

	r.Route("/toasts", func(r chi.Router) {
		// Long-lived; kept outside the request timeout.
		r.Get("/stream", s.handleStream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.RequestTimeout))

			r.Get("/", s.handleList)
			r.With(s.notifyLimit).Post("/", s.handleNotify)
			r.Delete("/", s.handleRemoveAll)
			r.Post("/dismiss", s.handleDismissAll)

			r.Patch("/{id}", s.handleUpdate)
			r.Post("/{id}/dismiss", s.handleDismiss)
			r.Delete("/{id}", s.handleRemove)
		})
	})

	return r
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then shuts down gracefully and
// closes every open stream.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.log.Info().Str("addr", ln.Addr().String()).Msg("server listening")

	select {
	case err := <-errCh:
		s.closeStreams()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by http.Server.
	s.closeStreams()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.log.Info().Msg("server stopped")
	return nil
}

// StreamCount returns the number of connected stream clients.
func (s *Server) StreamCount() int {
	return s.streams.Len()
}

func (s *Server) closeStreams() {
	for _, c := range s.streams.Drain() {
		c.close()
	}
}
