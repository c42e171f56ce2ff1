package handler

import (
	"encoding/json"
	"net/http"

	"github.com/openjaw/openjaw/internal/api/models"
	"github.com/openjaw/openjaw/internal/api/response"
	"github.com/openjaw/openjaw/internal/itinerary"
)

// RankHandler ranks caller-supplied offers with the scoring engine.
// It never calls the search provider.
type RankHandler struct{}

// NewRankHandler creates a new RankHandler.
func NewRankHandler() *RankHandler {
	return &RankHandler{}
}

// Rank handles POST /v1/offers:rank.
func (h *RankHandler) Rank(w http.ResponseWriter, r *http.Request) {
	var input models.RankRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	input.ApplyDefaults()
	offers, fieldErrs := input.ToOffers()
	if len(fieldErrs) > 0 {
		response.BadRequest(w, r, "rank request failed validation", fieldErrs)
		return
	}

	profile, _ := models.CostProfileFor(input.Profile)
	ranked := itinerary.Select(offers, profile, input.Limit)

	response.JSON(w, r, http.StatusOK, models.NewRankResponse(input.Profile, ranked, input.Currency))
}
