package models

import (
	"fmt"
	"time"

	"github.com/openjaw/openjaw/internal/itinerary"
	"github.com/openjaw/openjaw/internal/reference"
)

// Request defaults applied before validation.
const (
	DefaultHomeAirport      = "OSL"
	DefaultCurrency         = "NOK"
	DefaultShortlistLimit   = 5
	DefaultMaxCallsPerStage = 30
)

// ProfileName identifies a canonical cost profile.
type ProfileName string

const (
	ProfileOutbound  ProfileName = "OUTBOUND"
	ProfileHomebound ProfileName = "HOMEBOUND"
)

// CostProfileFor resolves a profile name to the canonical profile.
func CostProfileFor(name ProfileName) (itinerary.CostProfile, bool) {
	switch name {
	case ProfileOutbound:
		return itinerary.Outbound, true
	case ProfileHomebound:
		return itinerary.Homebound, true
	default:
		return itinerary.CostProfile{}, false
	}
}

// StayRange bounds the number of days spent in a region.
type StayRange struct {
	MinDays int `json:"minDays"`
	MaxDays int `json:"maxDays"`
}

// Passengers carries the traveling party. Children aged 12 and over
// are priced as adults by the provider, so ages are folded into
// adult/child counts before searching.
type Passengers struct {
	Adults    int   `json:"adults"`
	ChildAges []int `json:"childAges,omitempty"`
}

// Fold returns the provider-facing adult and child counts.
func (p Passengers) Fold() (adults, children int) {
	adults = p.Adults
	for _, age := range p.ChildAges {
		if age >= 12 {
			adults++
		} else {
			children++
		}
	}
	return adults, children
}

// ScanRequest is the request body for POST /v1/itineraries:scan.
type ScanRequest struct {
	HomeAirport         string     `json:"homeAirport,omitempty"`
	AsiaArrivals        []string   `json:"asiaArrivals"`
	AsiaDepartures      []string   `json:"asiaDepartures"`
	AustraliaArrivals   []string   `json:"australiaArrivals"`
	AustraliaDepartures []string   `json:"australiaDepartures"`
	StartDate           string     `json:"startDate"`
	FlexDays            int        `json:"flexDays"`
	AsiaStay            StayRange  `json:"asiaStay"`
	AustraliaStay       StayRange  `json:"australiaStay"`
	Passengers          Passengers `json:"passengers"`
	Currency            string     `json:"currency,omitempty"`
	ShortlistLimit      int        `json:"shortlistLimit,omitempty"`
	MaxCallsPerStage    int        `json:"maxCallsPerStage,omitempty"`
}

// ApplyDefaults fills optional fields.
func (r *ScanRequest) ApplyDefaults() {
	if r.HomeAirport == "" {
		r.HomeAirport = DefaultHomeAirport
	}
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
	if r.ShortlistLimit == 0 {
		r.ShortlistLimit = DefaultShortlistLimit
	}
	if r.MaxCallsPerStage == 0 {
		r.MaxCallsPerStage = DefaultMaxCallsPerStage
	}
}

// Validate checks the request after defaults were applied and returns
// one FieldError per violation. No provider call is made while any
// violation remains.
func (r ScanRequest) Validate() []FieldError {
	var errs []FieldError

	checkAirports := func(field string, codes []string, required bool) {
		if required && len(codes) == 0 {
			errs = append(errs, FieldError{Field: field, Message: "at least one airport code is required"})
			return
		}
		for i, code := range codes {
			if !reference.IsKnownAirport(code) {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s[%d]", field, i),
					Message: fmt.Sprintf("unknown airport code %q", code),
				})
			}
		}
	}

	if !reference.IsKnownAirport(r.HomeAirport) {
		errs = append(errs, FieldError{Field: "homeAirport", Message: fmt.Sprintf("unknown airport code %q", r.HomeAirport)})
	}
	checkAirports("asiaArrivals", r.AsiaArrivals, true)
	checkAirports("asiaDepartures", r.AsiaDepartures, true)
	checkAirports("australiaArrivals", r.AustraliaArrivals, true)
	checkAirports("australiaDepartures", r.AustraliaDepartures, true)

	if r.StartDate == "" {
		errs = append(errs, FieldError{Field: "startDate", Message: "start date is required"})
	} else if _, err := itinerary.ParseDate(r.StartDate); err != nil {
		errs = append(errs, FieldError{Field: "startDate", Message: "must be formatted as YYYY-MM-DD"})
	}

	if r.FlexDays < 0 {
		errs = append(errs, FieldError{Field: "flexDays", Message: "must not be negative"})
	}

	checkStay := func(field string, stay StayRange) {
		if stay.MinDays < 0 {
			errs = append(errs, FieldError{Field: field + ".minDays", Message: "must not be negative"})
		}
		if stay.MaxDays < stay.MinDays {
			errs = append(errs, FieldError{Field: field + ".maxDays", Message: "must not be below minDays"})
		}
	}
	checkStay("asiaStay", r.AsiaStay)
	checkStay("australiaStay", r.AustraliaStay)

	if r.Passengers.Adults < 1 {
		errs = append(errs, FieldError{Field: "passengers.adults", Message: "at least one adult is required"})
	}
	for i, age := range r.Passengers.ChildAges {
		if age < 0 || age > 17 {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("passengers.childAges[%d]", i),
				Message: "must be between 0 and 17",
			})
		}
	}

	if r.ShortlistLimit < 1 {
		errs = append(errs, FieldError{Field: "shortlistLimit", Message: "must be at least 1"})
	}
	if r.MaxCallsPerStage < 1 {
		errs = append(errs, FieldError{Field: "maxCallsPerStage", Message: "must be at least 1"})
	}

	return errs
}

// ToScanParams converts a validated request to scan parameters.
func (r ScanRequest) ToScanParams() (itinerary.ScanParams, error) {
	startDate, err := itinerary.ParseDate(r.StartDate)
	if err != nil {
		return itinerary.ScanParams{}, err
	}

	adults, children := r.Passengers.Fold()

	return itinerary.ScanParams{
		HomeAirport:         r.HomeAirport,
		AsiaArrivals:        r.AsiaArrivals,
		AsiaDepartures:      r.AsiaDepartures,
		AustraliaArrivals:   r.AustraliaArrivals,
		AustraliaDepartures: r.AustraliaDepartures,
		StartDate:           startDate,
		FlexDays:            r.FlexDays,
		AsiaStay:            itinerary.StayRange{MinDays: r.AsiaStay.MinDays, MaxDays: r.AsiaStay.MaxDays},
		AustraliaStay:       itinerary.StayRange{MinDays: r.AustraliaStay.MinDays, MaxDays: r.AustraliaStay.MaxDays},
		Adults:              adults,
		Children:            children,
		Currency:            r.Currency,
		ShortlistLimit:      r.ShortlistLimit,
		MaxCallsPerStage:    r.MaxCallsPerStage,
	}, nil
}

// ScanResponse is the response for POST /v1/itineraries:scan.
type ScanResponse struct {
	GeneratedAt Timestamp     `json:"generatedAt"`
	Status      string        `json:"status"`
	FailedStage string        `json:"failedStage,omitempty"`
	Stages      []StageResult `json:"stages"`
}

// StageResult is one stage's outcome.
type StageResult struct {
	Stage       string        `json:"stage"`
	ChosenDate  string        `json:"chosenDate,omitempty"`
	SearchCalls int           `json:"searchCalls"`
	OffersFound int           `json:"offersFound"`
	Shortlist   []RankedOffer `json:"shortlist"`
}

// RankedOffer is one shortlisted offer with its analysis.
type RankedOffer struct {
	Route         string       `json:"route"`
	Origin        string       `json:"origin"`
	Destination   string       `json:"destination"`
	DepartureDate string       `json:"departureDate"`
	Price         int          `json:"price"`
	Currency      string       `json:"currency"`
	Score         int          `json:"score"`
	Severity      string       `json:"severity"`
	FlightHours   float64      `json:"flightHours"`
	Layovers      int          `json:"layovers"`
	Critical      []string     `json:"critical,omitempty"`
	Caution       []string     `json:"caution,omitempty"`
	Favorable     []string     `json:"favorable,omitempty"`
	Segments      []Segment    `json:"segments"`
	Links         BookingLinks `json:"links"`
}

// Segment is one flight on the wire. Departure and arrival are local
// times without zone, as the provider reports them.
type Segment struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
	Carrier     string `json:"carrier"`
	Flight      string `json:"flight"`
}

// BookingLinks are deep links for booking a shortlisted offer.
type BookingLinks struct {
	GoogleFlights string `json:"googleFlights"`
	Airline       string `json:"airline,omitempty"`
}

// NewScanResponse converts a scan result for the wire.
func NewScanResponse(result *itinerary.ScanResult, currency string) ScanResponse {
	resp := ScanResponse{
		GeneratedAt: Timestamp(time.Now()),
		Status:      string(result.Status),
		FailedStage: result.FailedStage,
		Stages:      make([]StageResult, 0, len(result.Stages)),
	}
	for _, stage := range result.Stages {
		resp.Stages = append(resp.Stages, newStageResult(stage, currency))
	}
	return resp
}

func newStageResult(stage itinerary.StageResult, currency string) StageResult {
	out := StageResult{
		Stage:       stage.Stage,
		SearchCalls: stage.SearchCalls,
		OffersFound: stage.OffersFound,
		Shortlist:   make([]RankedOffer, 0, len(stage.Shortlist)),
	}
	if !stage.ChosenDate.IsZero() {
		out.ChosenDate = stage.ChosenDate.String()
	}
	for _, ranked := range stage.Shortlist {
		out.Shortlist = append(out.Shortlist, NewRankedOffer(ranked, currency))
	}
	return out
}

// NewRankedOffer converts one ranked offer for the wire, attaching
// booking links.
func NewRankedOffer(ranked itinerary.RankedOffer, currency string) RankedOffer {
	offer := ranked.Offer
	analysis := ranked.Analysis

	segments := make([]Segment, 0, len(offer.Segments))
	for _, s := range offer.Segments {
		segments = append(segments, Segment{
			Origin:      s.Origin,
			Destination: s.Destination,
			Departure:   s.Departure.Format(SegmentTimeLayout),
			Arrival:     s.Arrival.Format(SegmentTimeLayout),
			Carrier:     s.Carrier,
			Flight:      s.Flight,
		})
	}

	links := BookingLinks{
		GoogleFlights: reference.GoogleFlightsURL(offer.Origin, offer.Destination, offer.SearchDate),
	}
	if url, ok := reference.BookingURL(offer.Segments[0].Carrier); ok {
		links.Airline = url
	}

	return RankedOffer{
		Route:         reference.RouteCodes(offer.Segments),
		Origin:        offer.Origin,
		Destination:   offer.Destination,
		DepartureDate: offer.SearchDate.String(),
		Price:         offer.Price,
		Currency:      currency,
		Score:         analysis.Score,
		Severity:      severityLabel(analysis.Bucket()),
		FlightHours:   analysis.FlightHours,
		Layovers:      analysis.Layovers,
		Critical:      analysis.Critical,
		Caution:       analysis.Caution,
		Favorable:     analysis.Favorable,
		Segments:      segments,
		Links:         links,
	}
}

func severityLabel(s itinerary.Severity) string {
	switch s {
	case itinerary.SeverityCritical:
		return "CRITICAL"
	case itinerary.SeverityCaution:
		return "CAUTION"
	default:
		return "CLEAN"
	}
}
