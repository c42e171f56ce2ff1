package handler

import (
	"net/http"
	"time"

	"github.com/openjaw/openjaw/internal/api/models"
	"github.com/openjaw/openjaw/internal/api/response"
	"github.com/openjaw/openjaw/internal/flightsearch"
	"github.com/openjaw/openjaw/internal/provider/resilience"
)

// CacheStatsProvider exposes search cache statistics.
type CacheStatsProvider interface {
	CacheStats() flightsearch.CacheStats
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version   string
	buildTime string
	registry  *resilience.Registry
	cache     CacheStatsProvider
}

// NewOpsHandler creates a new OpsHandler. Registry and cache may be
// nil in tests.
func NewOpsHandler(version, buildTime string, registry *resilience.Registry, cache CacheStatsProvider) *OpsHandler {
	return &OpsHandler{
		version:   version,
		buildTime: buildTime,
		registry:  registry,
		cache:     cache,
	}
}

// HealthCheck handles GET /v1/ops/health, the liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready. The service holds no
// connections that need to warm up; readiness follows liveness.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	}
	response.JSON(w, r, http.StatusOK, health)
}

// SystemStatus handles GET /v1/ops/status: provider circuit health and
// search cache occupancy.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:    models.HealthStatusOK,
		Time:      models.Timestamp(time.Now()),
		Providers: []models.ProviderStatus{},
	}

	if h.registry != nil {
		for _, health := range h.registry.AllHealth() {
			provider := models.ProviderStatus{
				Provider:     health.Name,
				Status:       providerStatus(health),
				CircuitState: health.CircuitState.String(),
				LastError:    health.LastError,
			}
			if health.LastSuccessAt != nil {
				ts := models.Timestamp(*health.LastSuccessAt)
				provider.LastSuccessAt = &ts
			}
			if health.LastFailureAt != nil {
				ts := models.Timestamp(*health.LastFailureAt)
				provider.LastFailureAt = &ts
			}
			status.Providers = append(status.Providers, provider)

			// The overall status reflects the worst provider.
			switch {
			case provider.Status == models.HealthStatusFail:
				status.Status = models.HealthStatusFail
			case provider.Status == models.HealthStatusDegraded && status.Status == models.HealthStatusOK:
				status.Status = models.HealthStatusDegraded
			}
		}
	}

	if h.cache != nil {
		stats := h.cache.CacheStats()
		status.Cache = &models.CacheStatus{
			Provider:     stats.Provider,
			TotalEntries: stats.TotalEntries,
			FreshEntries: stats.FreshEntries,
			StaleEntries: stats.StaleEntries,
		}
	}

	response.JSON(w, r, http.StatusOK, status)
}

func providerStatus(health *resilience.ProviderHealth) models.HealthStatus {
	switch {
	case health.IsUnhealthy():
		return models.HealthStatusFail
	case health.IsDegraded():
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}
