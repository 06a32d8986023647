// Package server serves the compiler over HTTP: a JSON API for each stage,
// a browser playground and, when configured, the recorded check history.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/haiku/internal/engine"
	"github.com/leapstack-labs/haiku/internal/server/notifier"
	"github.com/leapstack-labs/haiku/internal/state"
	"golang.org/x/sync/errgroup"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = "127.0.0.1:7878"

// maxSourceBytes bounds request bodies.
const maxSourceBytes = 1 << 20

// Config holds server configuration.
type Config struct {
	Addr       string
	Engine     *engine.Engine
	Store      *state.SQLiteStore // optional; enables /api/runs
	WatchRoots []string           // optional; enables change events
	Logger     *slog.Logger
}

// Server is the HTTP front-end.
type Server struct {
	addr       string
	engine     *engine.Engine
	store      *state.SQLiteStore
	watchRoots []string
	logger     *slog.Logger
	notifier   *notifier.Notifier
}

// NewServer creates a new server instance.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		addr:       addr,
		engine:     cfg.Engine,
		store:      cfg.Store,
		watchRoots: cfg.WatchRoots,
		logger:     logger,
		notifier:   notifier.New(),
	}
}

// Notifier returns the server's notifier for change events.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Handler returns the server's routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		s.requestLogger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/tokens", s.handleTokens)
		r.Post("/parse", s.handleParse)
		r.Post("/ir", s.handleIR)
		if s.store != nil {
			r.Get("/runs", s.handleRuns)
			r.Get("/runs/{id}", s.handleRun)
		}
	})

	r.Get("/", s.handleIndex)
	r.Route("/playground", func(r chi.Router) {
		r.Post("/compile", s.handleCompileSSE)
		r.Get("/events", s.handleEventsSSE)
	})

	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if len(s.watchRoots) > 0 {
		eg.Go(func() error {
			return s.engine.Watch(egctx, s.watchRoots, engine.DefaultDebounce, func(path string) {
				s.notifier.Broadcast(notifier.Event{Path: path, At: time.Now()})
			})
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
