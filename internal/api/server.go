// Package api provides the HTTP server of the meter exporter. It accepts
// meter and tank readings and serves them back as Prometheus metrics.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apihandlers "github.com/anstrom/meterexporter/internal/api/handlers"
	"github.com/anstrom/meterexporter/internal/api/middleware"
	"github.com/anstrom/meterexporter/internal/config"
	"github.com/anstrom/meterexporter/internal/ingest"
	"github.com/anstrom/meterexporter/internal/logging"
	"github.com/anstrom/meterexporter/internal/metrics"
	"github.com/anstrom/meterexporter/internal/tank"
)

// Route paths.
const (
	PathMeterDelta      = "/ht_meter"
	PathBuildingReading = "/building_readings"
	PathTankLevel       = "/tank_level"
	PathTankVolume      = "/tank_volume"
	PathHealth          = "/healthz"
)

const defaultShutdownTimeout = 10 * time.Second

// Server represents the exporter's HTTP server.
type Server struct {
	httpServer *http.Server
	router     *mux.Router
	config     *config.Config
	catalog    *metrics.Catalog
	tanks      *tank.Tracker
	service    *ingest.Service
	logger     *slog.Logger
}

// New creates a new server with a fresh metric catalog.
func New(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if logger == nil {
		logger = logging.Default()
	}

	catalog := metrics.NewCatalog(metrics.Options{
		GoCollector:      cfg.Metrics.GoCollector,
		ProcessCollector: cfg.Metrics.ProcessCollector,
	})

	tanks := tank.NewTracker()

	server := &Server{
		router:  mux.NewRouter(),
		config:  cfg,
		catalog: catalog,
		tanks:   tanks,
		service: ingest.NewService(catalog, tanks, logger),
		logger:  logger.WithComponent("api").Logger,
	}

	server.setupRoutes()
	server.setupMiddleware()

	server.httpServer = &http.Server{
		Addr:           cfg.Address(),
		Handler:        server.handler(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	return server, nil
}

// Start serves until ctx is cancelled or the listener fails. Cancelling ctx
// triggers a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.logger.Info("Meter exporter listening",
		"address", listener.Addr().String(),
		"metrics_path", s.config.Metrics.Path)

	errChan := make(chan error, 1)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		return s.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the server.
func (s *Server) Stop() error {
	s.logger.Info("Stopping HTTP server")

	timeout := s.config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	ingestHandler := apihandlers.NewIngestHandler(s.service, s.logger)
	healthHandler := apihandlers.NewHealthHandler(map[string]apihandlers.Counter{
		apihandlers.CheckGaugeFamilies: s.catalog,
		apihandlers.CheckTanks:         s.tanks,
	}, s.logger)

	routes := []struct {
		path    string
		name    string
		handler http.HandlerFunc
	}{
		{PathMeterDelta, "ht_meter", ingestHandler.MeterDelta},
		{PathBuildingReading, "building_readings", ingestHandler.BuildingReading},
		{PathTankLevel, "tank_level", ingestHandler.TankLevel},
		{PathTankVolume, "tank_volume", ingestHandler.TankVolume},
	}

	requests := s.requestCounter()
	for _, route := range routes {
		var h http.Handler = route.handler
		if requests != nil {
			h = promhttp.InstrumentHandlerCounter(requests.MustCurryWith(prometheus.Labels{"handler": route.name}), h)
		}
		s.router.Handle(route.path, h).Methods(http.MethodPost).Name(route.name)
	}

	s.router.Handle(s.config.Metrics.Path, promhttp.HandlerFor(s.catalog.Gatherer(), promhttp.HandlerOpts{
		ErrorLog:      slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		ErrorHandling: promhttp.ContinueOnError,
	})).Methods(http.MethodGet).Name("metrics")

	s.router.HandleFunc(PathHealth, healthHandler.Health).Methods(http.MethodGet).Name("health")
}

// requestCounter registers the optional per-route request counter.
func (s *Server) requestCounter() *prometheus.CounterVec {
	if !s.config.Metrics.InstrumentHTTP {
		return nil
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meterexporter_http_requests_total",
		Help: "HTTP requests handled by the ingestion routes.",
	}, []string{"code", "method", "handler"})
	s.catalog.Registerer().MustRegister(requests)
	return requests
}

// setupMiddleware configures middleware for the router.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.Logging(s.logger))
	s.router.Use(middleware.RequestTimeout(s.config.Server.RequestTimeout))
}

// handler wraps the router with the handlers that must see every request,
// including ones the router rejects.
func (s *Server) handler() http.Handler {
	var h http.Handler = s.router

	cors := s.config.Server.CORS
	if cors.Enabled {
		h = handlers.CORS(
			handlers.AllowedOrigins(cors.AllowedOrigins),
			handlers.AllowedMethods(cors.AllowedMethods),
			handlers.AllowedHeaders(cors.AllowedHeaders),
			handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
		)(h)
	}

	if s.config.Server.TrustProxyHeaders {
		h = handlers.ProxyHeaders(h)
	}

	return h
}

// Router returns the configured router.
func (s *Server) Router() *mux.Router {
	return s.router
}

// Handler returns the complete HTTP handler, middleware included.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Catalog returns the metric catalog backing the exposition.
func (s *Server) Catalog() *metrics.Catalog {
	return s.catalog
}

// Address returns the configured listen address.
func (s *Server) Address() string {
	return s.httpServer.Addr
}
