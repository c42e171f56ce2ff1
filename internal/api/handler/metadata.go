package handler

import (
	"net/http"

	"github.com/openjaw/openjaw/internal/api/models"
	"github.com/openjaw/openjaw/internal/api/response"
	"github.com/openjaw/openjaw/internal/itinerary"
	"github.com/openjaw/openjaw/internal/reference"
)

// MetadataHandler serves static reference data.
type MetadataHandler struct{}

// NewMetadataHandler creates a new MetadataHandler.
func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

// ListAirports handles GET /v1/metadata/airports.
func (h *MetadataHandler) ListAirports(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.JSON(w, r, http.StatusOK, models.AirportsResponse{
		Airports: reference.Airports(),
	})
}

// ListProfiles handles GET /v1/metadata/profiles.
func (h *MetadataHandler) ListProfiles(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	response.JSON(w, r, http.StatusOK, models.ProfilesResponse{
		Profiles: []models.CostProfile{
			models.NewCostProfile(models.ProfileOutbound, itinerary.Outbound),
			models.NewCostProfile(models.ProfileHomebound, itinerary.Homebound),
		},
	})
}
