package models

import (
	"github.com/openjaw/openjaw/internal/itinerary"
	"github.com/openjaw/openjaw/internal/reference"
)

// AirportsResponse is the response for GET /v1/metadata/airports.
type AirportsResponse struct {
	Airports []reference.Airport `json:"airports"`
}

// CostProfile mirrors the canonical scoring weights on the wire.
type CostProfile struct {
	Name               ProfileName `json:"name"`
	MinTransferMinutes int         `json:"minTransferMinutes"`
	BonusIdeal         int         `json:"bonusIdeal"`
	PenaltyAcceptable  int         `json:"penaltyAcceptable"`
	PenaltyLong        int         `json:"penaltyLong"`
	PenaltyOvernight   int         `json:"penaltyOvernight"`
	PenaltyTooShort    int         `json:"penaltyTooShort"`
	CostPerFlightHour  int         `json:"costPerFlightHour"`
	CostPerLayover     int         `json:"costPerLayover"`
}

// ProfilesResponse is the response for GET /v1/metadata/profiles.
type ProfilesResponse struct {
	Profiles []CostProfile `json:"profiles"`
}

// NewCostProfile converts a domain profile for the wire.
func NewCostProfile(name ProfileName, p itinerary.CostProfile) CostProfile {
	return CostProfile{
		Name:               name,
		MinTransferMinutes: p.MinTransferMinutes,
		BonusIdeal:         p.BonusIdeal,
		PenaltyAcceptable:  p.PenaltyAcceptable,
		PenaltyLong:        p.PenaltyLong,
		PenaltyOvernight:   p.PenaltyOvernight,
		PenaltyTooShort:    p.PenaltyTooShort,
		CostPerFlightHour:  p.CostPerFlightHour,
		CostPerLayover:     p.CostPerLayover,
	}
}
