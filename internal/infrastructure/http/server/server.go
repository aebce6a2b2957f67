// Package server provides the HTTP server hosting the recipe pipeline API
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/ongoza/cyberhub/internal/infrastructure/config"
	"github.com/ongoza/cyberhub/internal/infrastructure/http/handlers"
	"github.com/ongoza/cyberhub/internal/infrastructure/http/middleware"
	"github.com/ongoza/cyberhub/pkg/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Server hosts the recipe pipeline HTTP API
type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	checks     *healthcheck.Registry
	logger     *zap.Logger
}

// NewServer builds the router and the underlying http.Server
func NewServer(
	cfg *config.Config,
	recipes *handlers.RecipeHandler,
	checks *healthcheck.Registry,
	logger *zap.Logger,
) *Server {
	s := &Server{
		cfg:    cfg,
		checks: checks,
		logger: logger.Named("http-server"),
	}

	router := s.buildRouter(recipes)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      otelhttp.NewHandler(router, "cyberhub-api"),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

func (s *Server) buildRouter(recipes *handlers.RecipeHandler) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.Metrics())
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(s.cfg.Server.RequestTimeout))

	if s.cfg.RateLimit.Enable {
		r.Use(middleware.RateLimit(s.cfg.RateLimit.RequestsPerMin, s.cfg.RateLimit.BurstSize, s.logger))
	}

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/recipes", func(r chi.Router) {
		r.Post("/generate", recipes.Generate)
		r.Post("/recommend", recipes.Recommend)
	})

	return r
}

// handleHealth is the liveness probe. The process is up; say so.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

// handleReady is the readiness probe: runs all registered dependency checks
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	results, healthy := s.checks.Run(r.Context())

	status := http.StatusOK
	overall := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "not ready"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": overall,
		"checks": results,
	})
}

// Start begins serving and blocks until the listener closes
func (s *Server) Start() error {
	s.logger.Info("starting http server",
		zap.String("addr", s.httpServer.Addr),
		zap.String("environment", s.cfg.App.Environment),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests up to the configured timeout
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server",
		zap.Duration("timeout", s.cfg.Server.ShutdownTimeout))

	return s.httpServer.Shutdown(shutdownCtx)
}

// Addr returns the configured listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}
