// Package server exposes extraction and matching as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/shazow/wifisnap/internal/telemetry"
	"github.com/shazow/wifisnap/resolve"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

const shutdownTimeout = 5 * time.Second

// Server handles the HTTP API.
type Server struct {
	Addr     string
	Resolver *resolve.Resolver
	Logger   *slog.Logger

	srv *http.Server
}

// New creates a server. The resolver's extractor and catalog options are
// used for every request; its scanner, if any, backs /v1/resolve.
func New(addr string, resolver *resolve.Resolver, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Addr: addr, Resolver: resolver, Logger: logger}
}

// Handler returns the API routes with request ID, metrics and tracing
// middleware applied.
func (s *Server) Handler() http.Handler {
	telemetry.InitMetrics()

	r := mux.NewRouter()
	r.Use(s.logRequests, countRequests)

	r.Handle("/v1/extract", limitBody(http.HandlerFunc(s.handleExtract))).Methods(http.MethodPost)
	r.Handle("/v1/catalog", limitBody(http.HandlerFunc(s.handleCatalog))).Methods(http.MethodPost)
	r.Handle("/v1/match", limitBody(http.HandlerFunc(s.handleMatch))).Methods(http.MethodPost)
	r.Handle("/v1/resolve", limitBody(http.HandlerFunc(s.handleResolve))).Methods(http.MethodPost)

	r.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	return otelhttp.NewHandler(requestID(r), "wifisnap")
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.Logger.Info("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Error("server shutdown error", "err", err)
		}
	}()

	s.Logger.Info("server listening", "addr", s.Addr)
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
