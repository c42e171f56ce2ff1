// Package api provides the HTTP API for the openjaw scan service.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/openjaw/openjaw/internal/api/handler"
	"github.com/openjaw/openjaw/internal/api/middleware"
	"github.com/openjaw/openjaw/internal/api/response"
	"github.com/openjaw/openjaw/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	ScanMetrics *middleware.ScanMetrics

	// Scanner drives the three-stage scan.
	Scanner handler.ScanRunner

	// Registry and Cache feed the ops status endpoint; both optional.
	Registry *resilience.Registry
	Cache    handler.CacheStatsProvider
}

// NewRouter creates a chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "openjaw-api"
	}

	// Global middleware, order matters.
	r.Use(middleware.RequestID)
	r.Use(middleware.Tracing(serviceName))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.RequireJSON)
	r.Use(middleware.ContentTypeJSON)

	scanHandler := handler.NewScanHandler(cfg.Scanner, cfg.ScanMetrics)
	rankHandler := handler.NewRankHandler()
	metadataHandler := handler.NewMetadataHandler()
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry, cfg.Cache)

	scanRateLimit := middleware.RateLimitByIP(middleware.ScanRateLimit)         // 10 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min

	// Unknown routes and methods answer problem+json like everything
	// else.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, req, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.MethodNotAllowed(w, req, "method not allowed for this endpoint")
	})

	r.Route("/v1", func(r chi.Router) {
		// The scan fans out into provider calls; keep it on a strict
		// budget.
		r.With(scanRateLimit).Post("/itineraries:scan", scanHandler.Scan)

		// Ranking is pure computation.
		r.With(standardRateLimit).Post("/offers:rank", rankHandler.Rank)

		r.Route("/metadata", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/airports", metadataHandler.ListAirports)
			r.Get("/profiles", metadataHandler.ListProfiles)
		})

		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/status", opsHandler.SystemStatus)
		})
	})

	return r
}
