// Package itinerary provides scoring, ranking and leg chaining for
// multi-leg open-jaw flight itineraries.
package itinerary

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for itinerary construction and scanning.
var (
	// ErrNoSegments indicates an offer with an empty segment list.
	ErrNoSegments = errors.New("offer has no segments")
	// ErrInvalidPrice indicates a zero or negative offer price.
	ErrInvalidPrice = errors.New("offer price must be positive")
	// ErrInvalidSegment indicates a segment with inconsistent airports or times.
	ErrInvalidSegment = errors.New("invalid segment")
	// ErrInvalidParams indicates scan parameters that fail validation.
	ErrInvalidParams = errors.New("invalid scan parameters")
)

// Segment is one flown leg of a journey.
//
// Adjacent segments within an offer are not required to share airports:
// provider data occasionally includes ground transfers between nearby
// airports (e.g. arrive SIN, depart KUL), and those itineraries are
// still bookable.
type Segment struct {
	Origin      string
	Destination string
	Departure   time.Time
	Arrival     time.Time
	Carrier     string
	Flight      string
}

// NewSegment validates and constructs a Segment.
func NewSegment(origin, destination string, departure, arrival time.Time, carrier, flight string) (Segment, error) {
	if origin == destination {
		return Segment{}, fmt.Errorf("%w: origin equals destination (%s)", ErrInvalidSegment, origin)
	}
	if !departure.Before(arrival) {
		return Segment{}, fmt.Errorf("%w: departure %s not before arrival %s", ErrInvalidSegment,
			departure.Format(time.RFC3339), arrival.Format(time.RFC3339))
	}
	return Segment{
		Origin:      origin,
		Destination: destination,
		Departure:   departure,
		Arrival:     arrival,
		Carrier:     carrier,
		Flight:      flight,
	}, nil
}

// Duration returns the flight time of the segment.
func (s Segment) Duration() time.Duration {
	return s.Arrival.Sub(s.Departure)
}

// Offer is one priced itinerary returned by a search provider.
// Offers are built once from provider output and never mutated.
type Offer struct {
	Origin      string
	Destination string
	SearchDate  Date
	Price       int
	Segments    []Segment
}

// NewOffer validates and constructs an Offer.
func NewOffer(origin, destination string, searchDate Date, price int, segments []Segment) (Offer, error) {
	if len(segments) == 0 {
		return Offer{}, ErrNoSegments
	}
	if price <= 0 {
		return Offer{}, fmt.Errorf("%w: got %d", ErrInvalidPrice, price)
	}
	return Offer{
		Origin:      origin,
		Destination: destination,
		SearchDate:  searchDate,
		Price:       price,
		Segments:    segments,
	}, nil
}

// Layovers returns the number of connections within the offer.
func (o Offer) Layovers() int {
	return len(o.Segments) - 1
}

// CostProfile holds the tunable weights used to score an offer.
// Profiles are read-only configuration; see Outbound and Homebound.
type CostProfile struct {
	// MinTransferMinutes is the shortest acceptable connection.
	MinTransferMinutes int
	// BonusIdeal is added for connections in the ideal band (negative).
	BonusIdeal int
	// PenaltyAcceptable is added for workable but long connections.
	PenaltyAcceptable int
	// PenaltyLong is added for long connections.
	PenaltyLong int
	// PenaltyOvernight is added for overnight or extreme connections.
	PenaltyOvernight int
	// PenaltyTooShort is added for connections below MinTransferMinutes.
	PenaltyTooShort int
	// CostPerFlightHour weights total time in the air.
	CostPerFlightHour int
	// CostPerLayover weights each connection.
	CostPerLayover int
}

// Severity classifies an analyzed offer by its worst flag.
type Severity int

const (
	// SeverityClean means no caution and no critical flags.
	SeverityClean Severity = 0
	// SeverityCaution means caution flags but no critical flags.
	SeverityCaution Severity = 1
	// SeverityCritical means at least one critical flag.
	SeverityCritical Severity = 2
)

// Analysis is the derived scoring result for one offer.
type Analysis struct {
	// Score is the offer price plus all weighted penalties and bonuses,
	// rounded half away from zero.
	Score int
	// FlightHours is the summed in-air time across all segments.
	FlightHours float64
	// Layovers is the number of connections.
	Layovers int
	// Critical holds red flags (too-short or overnight transfers).
	Critical []string
	// Caution holds yellow flags (long transfers).
	Caution []string
	// Favorable holds green flags (ideal transfers).
	Favorable []string
}

// Bucket returns the severity bucket used for ranking.
func (a Analysis) Bucket() Severity {
	switch {
	case len(a.Critical) > 0:
		return SeverityCritical
	case len(a.Caution) > 0:
		return SeverityCaution
	default:
		return SeverityClean
	}
}

// RankedOffer pairs an offer with its analysis after selection.
type RankedOffer struct {
	Offer    Offer
	Analysis Analysis
}
