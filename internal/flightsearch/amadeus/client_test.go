package amadeus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openjaw/openjaw/internal/flightsearch"
	"github.com/openjaw/openjaw/internal/itinerary"
)

const tokenJSON = `{"access_token":"test-token","token_type":"Bearer","expires_in":1799}`

const offersJSON = `{
  "data": [
    {
      "itineraries": [{"segments": [
        {"departure": {"iataCode": "OSL", "at": "2026-07-01T10:05:00"},
         "arrival": {"iataCode": "DOH", "at": "2026-07-01T17:45:00"},
         "carrierCode": "QR", "number": "176"},
        {"departure": {"iataCode": "DOH", "at": "2026-07-01T20:40:00"},
         "arrival": {"iataCode": "SIN", "at": "2026-07-02T09:35:00"},
         "carrierCode": "QR", "number": "944"}
      ]}],
      "price": {"total": "10250.00", "currency": "NOK"}
    },
    {
      "itineraries": [{"segments": [
        {"departure": {"iataCode": "OSL", "at": "2026-07-01T12:20:00"},
         "arrival": {"iataCode": "SIN", "at": "2026-07-02T07:10:00"},
         "carrierCode": "SQ", "number": "309"}
      ]}],
      "price": {"total": "12990.00", "currency": "NOK"}
    }
  ]
}`

// newTestServer serves the token endpoint and delegates flight-offer
// requests to the given handler.
func newTestServer(t *testing.T, offers http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("token request used method %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parsing token form: %v", err)
		}
		if r.PostForm.Get("grant_type") != "client_credentials" {
			t.Errorf("unexpected grant type %q", r.PostForm.Get("grant_type"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(tokenJSON))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", offers)
	return httptest.NewServer(mux)
}

func testClient(server *httptest.Server) *Client {
	return NewClient(ClientConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      server.URL,
		HTTPClient:   server.Client(),
		Logger:       zerolog.Nop(),
	})
}

func searchRequest() itinerary.SearchRequest {
	return itinerary.SearchRequest{
		Origin:      "OSL",
		Destination: "SIN",
		Date:        itinerary.NewDate(2026, time.July, 1),
		Adults:      2,
		Children:    1,
		MaxResults:  25,
		Currency:    "NOK",
	}
}

func TestClient_Search(t *testing.T) {
	server := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected authorization header %q", got)
		}
		q := r.URL.Query()
		if q.Get("originLocationCode") != "OSL" || q.Get("destinationLocationCode") != "SIN" {
			t.Errorf("unexpected route %s-%s", q.Get("originLocationCode"), q.Get("destinationLocationCode"))
		}
		if q.Get("departureDate") != "2026-07-01" {
			t.Errorf("unexpected date %q", q.Get("departureDate"))
		}
		if q.Get("adults") != "2" || q.Get("children") != "1" {
			t.Errorf("unexpected passengers adults=%s children=%s", q.Get("adults"), q.Get("children"))
		}
		if q.Get("currencyCode") != "NOK" {
			t.Errorf("unexpected currency %q", q.Get("currencyCode"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(offersJSON))
	})
	defer server.Close()

	offers, err := testClient(server).Search(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(offers))
	}

	first := offers[0]
	if first.Price != 10250 {
		t.Errorf("expected price 10250, got %d", first.Price)
	}
	if len(first.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(first.Segments))
	}
	if first.Segments[0].Flight != "QR176" {
		t.Errorf("expected flight QR176, got %s", first.Segments[0].Flight)
	}
	if first.Segments[1].Origin != "DOH" || first.Segments[1].Destination != "SIN" {
		t.Errorf("unexpected second segment %s-%s", first.Segments[1].Origin, first.Segments[1].Destination)
	}
	if first.SearchDate.String() != "2026-07-01" {
		t.Errorf("unexpected search date %s", first.SearchDate)
	}

	if offers[1].Layovers() != 0 {
		t.Errorf("expected direct flight, got %d layovers", offers[1].Layovers())
	}
}

func TestClient_Search_TokenReused(t *testing.T) {
	var tokenCalls, searchCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		tokenCalls.Add(1)
		_, _ = w.Write([]byte(tokenJSON))
	})
	mux.HandleFunc("/v2/shopping/flight-offers", func(w http.ResponseWriter, _ *http.Request) {
		searchCalls.Add(1)
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := testClient(server)
	for i := 0; i < 3; i++ {
		if _, err := client.Search(context.Background(), searchRequest()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if tokenCalls.Load() != 1 {
		t.Errorf("expected token to be fetched once, got %d", tokenCalls.Load())
	}
	if searchCalls.Load() != 3 {
		t.Errorf("expected 3 search calls, got %d", searchCalls.Load())
	}
}

func TestClient_Search_SkipsMalformedOffers(t *testing.T) {
	// Second record has an unparseable price, third an invalid segment.
	malformed := `{
	  "data": [
	    {"itineraries": [{"segments": [
	      {"departure": {"iataCode": "OSL", "at": "2026-07-01T10:00:00"},
	       "arrival": {"iataCode": "SIN", "at": "2026-07-02T05:00:00"},
	       "carrierCode": "SQ", "number": "309"}]}],
	     "price": {"total": "9990.00"}},
	    {"itineraries": [{"segments": [
	      {"departure": {"iataCode": "OSL", "at": "2026-07-01T10:00:00"},
	       "arrival": {"iataCode": "SIN", "at": "2026-07-02T05:00:00"},
	       "carrierCode": "SQ", "number": "309"}]}],
	     "price": {"total": "not-a-number"}},
	    {"itineraries": [{"segments": [
	      {"departure": {"iataCode": "OSL", "at": "2026-07-01T10:00:00"},
	       "arrival": {"iataCode": "OSL", "at": "2026-07-02T05:00:00"},
	       "carrierCode": "SQ", "number": "309"}]}],
	     "price": {"total": "8000.00"}}
	  ]
	}`

	server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(malformed))
	})
	defer server.Close()

	offers, err := testClient(server).Search(context.Background(), searchRequest())
	if err != nil {
		t.Fatalf("malformed records must not abort the batch: %v", err)
	}
	if len(offers) != 1 {
		t.Errorf("expected 1 valid offer, got %d", len(offers))
	}
}

func TestClient_Search_ErrorMapping(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, flightsearch.ErrUnauthorized},
		{http.StatusForbidden, flightsearch.ErrUnauthorized},
		{http.StatusTooManyRequests, flightsearch.ErrRateLimitExceeded},
		{http.StatusBadRequest, flightsearch.ErrInvalidRequest},
		{http.StatusBadGateway, flightsearch.ErrProviderUnavailable},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			server := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"errors":[{"status":` + fmt.Sprint(tt.status) + `,"title":"nope"}]}`))
			})
			defer server.Close()

			_, err := testClient(server).Search(context.Background(), searchRequest())
			if err == nil {
				t.Fatal("expected error")
			}

			var provErr *flightsearch.Error
			if !errors.As(err, &provErr) {
				t.Fatalf("expected *flightsearch.Error, got %T", err)
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, provErr.Err)
			}
		})
	}
}

func TestClient_Search_TokenRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/security/oauth2/token", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid_client"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, err := testClient(server).Search(context.Background(), searchRequest())
	if !errors.Is(err, flightsearch.ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}
