// Package main provides the entrypoint for the openjaw API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/openjaw/openjaw/internal/api"
	"github.com/openjaw/openjaw/internal/api/middleware"
	"github.com/openjaw/openjaw/internal/flightsearch"
	"github.com/openjaw/openjaw/internal/flightsearch/amadeus"
	"github.com/openjaw/openjaw/internal/itinerary"
	"github.com/openjaw/openjaw/internal/provider/resilience"
	"github.com/openjaw/openjaw/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "openjaw-api"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting openjaw API")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	scanMetrics, err := middleware.NewScanMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize scan metrics")
		os.Exit(1)
	}

	// Provider health registry, surfaced on /v1/ops/status.
	registry := resilience.NewRegistry()

	clientID := os.Getenv("AMADEUS_CLIENT_ID")
	clientSecret := os.Getenv("AMADEUS_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		log.Warn().Msg("AMADEUS_CLIENT_ID/AMADEUS_CLIENT_SECRET not set - provider calls will fail")
	}

	callTimeout := durationFromEnv(log, "SEARCH_CALL_TIMEOUT", 12*time.Second)

	provider := amadeus.NewClient(amadeus.ClientConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		BaseURL:      os.Getenv("AMADEUS_BASE_URL"),
		Timeout:      callTimeout,
		Registry:     registry,
		Logger:       log,
	})
	log.Info().Str("provider", provider.Name()).Msg("flight search provider initialized")

	searchService := flightsearch.NewService(flightsearch.ServiceConfig{
		Provider: provider,
		Logger:   log,
		CacheTTL: durationFromEnv(log, "SEARCH_CACHE_TTL", 6*time.Hour),
	})
	log.Info().Msg("flight search service initialized")

	scanner := itinerary.NewScanner(itinerary.ScannerConfig{
		Searcher:    searchService,
		Logger:      log,
		CallTimeout: callTimeout,
	})
	log.Info().Msg("scanner initialized")

	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		ScanMetrics: scanMetrics,
		Scanner:     scanner,
		Registry:    registry,
		Cache:       searchService,
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		// Worst case a scan burns its full call budget on slow provider
		// calls; the write timeout has to outlast it.
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// durationFromEnv reads a duration like "6h" or "12s"; malformed values
// fall back to the default.
func durationFromEnv(log zerolog.Logger, key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("malformed duration, using default")
		return fallback
	}
	return d
}
