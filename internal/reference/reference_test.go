package reference

import (
	"testing"
	"time"

	"github.com/openjaw/openjaw/internal/itinerary"
)

func TestLookupAirport(t *testing.T) {
	a, ok := LookupAirport("SIN")
	if !ok {
		t.Fatal("SIN must be a known airport")
	}
	if a.City != "Singapore" || a.Region != RegionAsia {
		t.Errorf("unexpected airport %+v", a)
	}

	if _, ok := LookupAirport("sin"); !ok {
		t.Error("lookup must be case insensitive")
	}
	if _, ok := LookupAirport("JFK"); ok {
		t.Error("JFK is outside the supported network")
	}
}

func TestAirportsInRegion(t *testing.T) {
	asia := AirportsInRegion(RegionAsia)
	if len(asia) != 3 {
		t.Fatalf("expected 3 asia airports, got %d", len(asia))
	}
	if asia[0].Code != "SIN" || asia[1].Code != "KUL" || asia[2].Code != "BKK" {
		t.Errorf("unexpected order: %v", asia)
	}

	home := AirportsInRegion(RegionHome)
	if len(home) != 1 || home[0].Code != "OSL" {
		t.Errorf("expected OSL as the only home airport, got %v", home)
	}
}

func TestBookingURL(t *testing.T) {
	u, ok := BookingURL("QF")
	if !ok || u != "https://www.qantas.com" {
		t.Errorf("unexpected booking url %q ok=%v", u, ok)
	}
	if _, ok := BookingURL("ZZ"); ok {
		t.Error("unknown carrier must not resolve")
	}
}

func TestGoogleFlightsURL(t *testing.T) {
	got := GoogleFlightsURL("OSL", "SIN", itinerary.NewDate(2026, time.July, 1))
	want := "https://www.google.com/travel/flights?q=OSL-SIN-2026-07-01"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRouteCodes(t *testing.T) {
	base := time.Date(2026, time.July, 1, 10, 0, 0, 0, time.UTC)
	seg := func(origin, dest string) itinerary.Segment {
		s, err := itinerary.NewSegment(origin, dest, base, base.Add(2*time.Hour), "SQ", "SQ1")
		if err != nil {
			t.Fatalf("building segment: %v", err)
		}
		return s
	}

	tests := []struct {
		name     string
		segments []itinerary.Segment
		want     string
	}{
		{"empty", nil, ""},
		{"direct", []itinerary.Segment{seg("OSL", "SIN")}, "OSL → SIN"},
		{"one stop", []itinerary.Segment{seg("OSL", "DOH"), seg("DOH", "SIN")}, "OSL → DOH → SIN"},
		{"ground transfer keeps both codes", []itinerary.Segment{seg("OSL", "SIN"), seg("KUL", "MEL")}, "OSL → SIN → KUL → MEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RouteCodes(tt.segments); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
