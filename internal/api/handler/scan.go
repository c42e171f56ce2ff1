// Package handler provides HTTP handlers for the openjaw API.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/openjaw/openjaw/internal/api/middleware"
	"github.com/openjaw/openjaw/internal/api/models"
	"github.com/openjaw/openjaw/internal/api/response"
	"github.com/openjaw/openjaw/internal/itinerary"
)

// ScanRunner executes a full three-stage scan.
type ScanRunner interface {
	Run(ctx context.Context, params itinerary.ScanParams) (*itinerary.ScanResult, error)
}

// ScanHandler handles the itinerary scan endpoint.
type ScanHandler struct {
	scanner ScanRunner
	metrics *middleware.ScanMetrics
}

// NewScanHandler creates a new ScanHandler. Metrics may be nil.
func NewScanHandler(scanner ScanRunner, metrics *middleware.ScanMetrics) *ScanHandler {
	return &ScanHandler{scanner: scanner, metrics: metrics}
}

// Scan handles POST /v1/itineraries:scan.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var input models.ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	input.ApplyDefaults()
	if fieldErrs := input.Validate(); len(fieldErrs) > 0 {
		response.BadRequest(w, r, "scan request failed validation", fieldErrs)
		return
	}

	params, err := input.ToScanParams()
	if err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	start := time.Now()
	result, err := h.scanner.Run(r.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, itinerary.ErrInvalidParams):
			response.BadRequest(w, r, err.Error(), nil)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			response.ServiceUnavailable(w, r, "scan interrupted before completion")
		default:
			response.InternalError(w, r, "scan failed")
		}
		return
	}

	if h.metrics != nil {
		calls, offers := 0, 0
		for _, stage := range result.Stages {
			calls += stage.SearchCalls
			offers += stage.OffersFound
		}
		h.metrics.RecordScan(string(result.Status), time.Since(start), calls, offers)
	}

	response.JSON(w, r, http.StatusOK, models.NewScanResponse(result, params.Currency))
}
