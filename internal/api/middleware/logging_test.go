package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openjaw/openjaw/internal/api/middleware"
)

func TestLogger_LogsCompletedRequest(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	handler := middleware.RequestID(middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/v1/itineraries:scan", http.NoBody)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))

	assert.Equal(t, "request completed", event["message"])
	assert.Equal(t, "POST", event["method"])
	assert.Equal(t, "/v1/itineraries:scan", event["path"])
	assert.Equal(t, float64(http.StatusTeapot), event["status"])
	assert.Equal(t, float64(5), event["bytes"])
	assert.NotEmpty(t, event["request_id"])
	assert.Contains(t, event, "duration")
}

func TestLogger_DefaultsTo200(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	handler := middleware.Logger(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &event))
	assert.Equal(t, float64(http.StatusOK), event["status"])
}
