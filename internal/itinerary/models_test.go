package itinerary

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestNewSegment_Validation(t *testing.T) {
	depart := mustTime(t, "2026-07-01 10:00")
	arrive := mustTime(t, "2026-07-01 12:00")

	tests := []struct {
		name    string
		origin  string
		dest    string
		depart  time.Time
		arrive  time.Time
		wantErr bool
	}{
		{"valid", "OSL", "SIN", depart, arrive, false},
		{"same airport", "OSL", "OSL", depart, arrive, true},
		{"arrival before departure", "OSL", "SIN", arrive, depart, true},
		{"zero duration", "OSL", "SIN", depart, depart, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSegment(tt.origin, tt.dest, tt.depart, tt.arrive, "SK", "SK901")
			if tt.wantErr && !errors.Is(err, ErrInvalidSegment) {
				t.Errorf("expected ErrInvalidSegment, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewOffer_Validation(t *testing.T) {
	valid := seg(t, "OSL", "SIN", "2026-07-01 10:00", "2026-07-01 22:00")
	date := NewDate(2026, time.July, 1)

	if _, err := NewOffer("OSL", "SIN", date, 10000, nil); !errors.Is(err, ErrNoSegments) {
		t.Errorf("expected ErrNoSegments for empty segments, got %v", err)
	}
	if _, err := NewOffer("OSL", "SIN", date, 0, []Segment{valid}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice for zero price, got %v", err)
	}
	if _, err := NewOffer("OSL", "SIN", date, -100, []Segment{valid}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("expected ErrInvalidPrice for negative price, got %v", err)
	}
	if _, err := NewOffer("OSL", "SIN", date, 10000, []Segment{valid}); err != nil {
		t.Errorf("unexpected error for valid offer: %v", err)
	}
}

func TestDate_RoundTripJSON(t *testing.T) {
	d := NewDate(2026, time.July, 1)

	encoded, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(encoded) != `"2026-07-01"` {
		t.Errorf("expected \"2026-07-01\", got %s", encoded)
	}

	var decoded Date
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded != d {
		t.Errorf("round trip changed date: %s vs %s", decoded, d)
	}
}

func TestDate_Arithmetic(t *testing.T) {
	d := NewDate(2026, time.December, 30)

	next := d.AddDays(3)
	if next.String() != "2027-01-02" {
		t.Errorf("expected year rollover to 2027-01-02, got %s", next)
	}
	if d.DaysUntil(next) != 3 {
		t.Errorf("expected 3 days until, got %d", d.DaysUntil(next))
	}
	if !d.Before(next) || next.Before(d) {
		t.Error("ordering is inconsistent")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != NewDate(2026, time.July, 1) {
		t.Errorf("unexpected date %s", d)
	}

	if _, err := ParseDate("01.07.2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}
