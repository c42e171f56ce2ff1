package models

import (
	"fmt"
	"time"

	"github.com/openjaw/openjaw/internal/itinerary"
)

// RankRequest is the request body for POST /v1/offers:rank. It runs
// the scoring engine on caller-supplied offers without touching the
// search provider.
type RankRequest struct {
	Profile  ProfileName  `json:"profile"`
	Limit    int          `json:"limit,omitempty"`
	Currency string       `json:"currency,omitempty"`
	Offers   []OfferInput `json:"offers"`
}

// OfferInput is one caller-supplied offer.
type OfferInput struct {
	Origin        string         `json:"origin"`
	Destination   string         `json:"destination"`
	DepartureDate string         `json:"departureDate"`
	Price         int            `json:"price"`
	Segments      []SegmentInput `json:"segments"`
}

// SegmentInput is one caller-supplied flight. Times are local without
// zone, formatted as 2006-01-02T15:04.
type SegmentInput struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Departure   string `json:"departure"`
	Arrival     string `json:"arrival"`
	Carrier     string `json:"carrier,omitempty"`
	Flight      string `json:"flight,omitempty"`
}

// ApplyDefaults fills optional fields.
func (r *RankRequest) ApplyDefaults() {
	if r.Limit == 0 {
		r.Limit = DefaultShortlistLimit
	}
	if r.Currency == "" {
		r.Currency = DefaultCurrency
	}
}

// ToOffers validates the request and builds domain offers. Unlike
// provider responses, caller-supplied offers are not dropped on error;
// every violation is reported with its field path.
func (r RankRequest) ToOffers() ([]itinerary.Offer, []FieldError) {
	var errs []FieldError

	if _, ok := CostProfileFor(r.Profile); !ok {
		errs = append(errs, FieldError{Field: "profile", Message: "must be OUTBOUND or HOMEBOUND"})
	}
	if r.Limit < 1 {
		errs = append(errs, FieldError{Field: "limit", Message: "must be at least 1"})
	}
	if len(r.Offers) == 0 {
		errs = append(errs, FieldError{Field: "offers", Message: "at least one offer is required"})
		return nil, errs
	}

	offers := make([]itinerary.Offer, 0, len(r.Offers))
	for i, in := range r.Offers {
		offer, offerErrs := in.toOffer(fmt.Sprintf("offers[%d]", i))
		if len(offerErrs) > 0 {
			errs = append(errs, offerErrs...)
			continue
		}
		offers = append(offers, offer)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return offers, nil
}

func (in OfferInput) toOffer(path string) (itinerary.Offer, []FieldError) {
	var errs []FieldError

	date, err := itinerary.ParseDate(in.DepartureDate)
	if err != nil {
		errs = append(errs, FieldError{Field: path + ".departureDate", Message: "must be formatted as YYYY-MM-DD"})
	}

	segments := make([]itinerary.Segment, 0, len(in.Segments))
	for j, s := range in.Segments {
		segPath := fmt.Sprintf("%s.segments[%d]", path, j)

		depart, err := time.Parse(SegmentTimeLayout, s.Departure)
		if err != nil {
			errs = append(errs, FieldError{Field: segPath + ".departure", Message: "must be formatted as 2006-01-02T15:04"})
			continue
		}
		arrive, err := time.Parse(SegmentTimeLayout, s.Arrival)
		if err != nil {
			errs = append(errs, FieldError{Field: segPath + ".arrival", Message: "must be formatted as 2006-01-02T15:04"})
			continue
		}

		segment, err := itinerary.NewSegment(s.Origin, s.Destination, depart, arrive, s.Carrier, s.Flight)
		if err != nil {
			errs = append(errs, FieldError{Field: segPath, Message: err.Error()})
			continue
		}
		segments = append(segments, segment)
	}

	if len(errs) > 0 {
		return itinerary.Offer{}, errs
	}

	offer, err := itinerary.NewOffer(in.Origin, in.Destination, date, in.Price, segments)
	if err != nil {
		return itinerary.Offer{}, []FieldError{{Field: path, Message: err.Error()}}
	}
	return offer, nil
}

// RankResponse is the response for POST /v1/offers:rank.
type RankResponse struct {
	GeneratedAt Timestamp     `json:"generatedAt"`
	Profile     ProfileName   `json:"profile"`
	Offers      []RankedOffer `json:"offers"`
}

// NewRankResponse converts ranked offers for the wire.
func NewRankResponse(profile ProfileName, ranked []itinerary.RankedOffer, currency string) RankResponse {
	resp := RankResponse{
		GeneratedAt: Timestamp(time.Now()),
		Profile:     profile,
		Offers:      make([]RankedOffer, 0, len(ranked)),
	}
	for _, r := range ranked {
		resp.Offers = append(resp.Offers, NewRankedOffer(r, currency))
	}
	return resp
}
