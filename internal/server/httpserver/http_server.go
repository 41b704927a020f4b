// Package httpserver wires the docnav API handlers into an HTTP server.
package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/server/handlers"
	smw "git.home.luguber.info/inful/docnav/internal/server/middleware"
)

// DefaultMetricsPath serves Prometheus metrics when Options.MetricsPath is empty.
const DefaultMetricsPath = "/metrics"

// Options carries the optional collaborators of a Server.
type Options struct {
	// History backs /api/runs; the endpoint answers 404 without it.
	History handlers.History
	// Recorder receives resolve metrics.
	Recorder metrics.Recorder
	// MetricsHandler is mounted at MetricsPath when set.
	MetricsHandler http.Handler
	MetricsPath    string
	Logger         *slog.Logger
}

// Server serves the navigation API for the current site snapshot.
type Server struct {
	addr    string
	logger  *slog.Logger
	handler http.Handler
	srv     *http.Server
	ln      net.Listener
}

// New builds a server listening on addr once started.
func New(addr string, source handlers.Source, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	api := handlers.NewAPIHandlers(source, opts.History, opts.Recorder)
	monitoring := handlers.NewMonitoringHandlers(source)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/site", api.HandleSite)
	mux.HandleFunc("/api/sidebar", api.HandleSidebar)
	mux.HandleFunc("/api/neighbors", api.HandleNeighbors)
	mux.HandleFunc("/api/edit-link", api.HandleEditLink)
	mux.HandleFunc("/api/page", api.HandlePage)
	mux.HandleFunc("/api/issues", api.HandleIssues)
	mux.HandleFunc("/api/runs", api.HandleRuns)
	mux.HandleFunc("/healthz", monitoring.HandleHealthCheck)
	if opts.MetricsHandler != nil {
		path := opts.MetricsPath
		if path == "" {
			path = DefaultMetricsPath
		}
		mux.Handle(path, opts.MetricsHandler)
	}

	chain := smw.Chain(logger, derrors.NewHTTPErrorAdapter(logger))
	return &Server{addr: addr, logger: logger, handler: chain(mux)}
}

// Handler returns the routed handler including middleware.
func (s *Server) Handler() http.Handler { return s.handler }

// Addr returns the bound address after Start, otherwise the configured one.
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start binds the listener and serves in the background. Bind failures are
// returned immediately.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.addr)
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryRuntime, "http startup failed").
			WithContext("addr", s.addr).
			Build()
	}
	s.ln = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", logfields.Error(err))
		}
	}()
	s.logger.Info("HTTP server started", slog.String("addr", s.Addr()))
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
