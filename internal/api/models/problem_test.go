package models_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openjaw/openjaw/internal/api/models"
)

func TestProblem_Write(t *testing.T) {
	problem := models.NewBadRequest("req_abc", "scan request failed validation", []models.FieldError{
		{Field: "startDate", Message: "must be formatted as YYYY-MM-DD"},
	})
	problem.Instance = "/v1/itineraries:scan"

	w := httptest.NewRecorder()
	problem.Write(w)

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Equal(t, "req_abc", w.Header().Get("X-Request-Id"))

	var decoded models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	assert.Equal(t, models.ProblemTypeValidation, decoded.Type)
	assert.Equal(t, 400, decoded.Status)
	assert.Equal(t, "/v1/itineraries:scan", decoded.Instance)
	require.Len(t, decoded.Errors, 1)
	assert.Equal(t, "startDate", decoded.Errors[0].Field)
}

func TestProblem_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		problem *models.Problem
		status  int
		ptype   string
	}{
		{"not found", models.NewNotFound("t", "d"), 404, models.ProblemTypeNotFound},
		{"method not allowed", models.NewMethodNotAllowed("t", "d"), 405, models.ProblemTypeMethodNotAllowed},
		{"too many requests", models.NewTooManyRequests("t", "d"), 429, models.ProblemTypeTooManyRequests},
		{"internal", models.NewInternalError("t", "d"), 500, models.ProblemTypeInternal},
		{"unavailable", models.NewServiceUnavailable("t", "d"), 503, models.ProblemTypeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.problem.Status)
			assert.Equal(t, tt.ptype, tt.problem.Type)
			assert.Equal(t, "t", tt.problem.TraceID)
			assert.Equal(t, "d", tt.problem.Detail)
		})
	}
}
