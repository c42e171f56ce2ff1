package itinerary

import (
	"fmt"
	"math"
)

// Analyze scores one offer against a cost profile.
//
// The score starts at the offer price, adds CostPerFlightHour for every
// hour in the air, classifies each connection into exactly one of five
// tiers (too short, ideal, slightly long, long, overnight) with the
// profile's bonus or penalty, and finally adds CostPerLayover per
// connection. The result is rounded half away from zero to an integer.
//
// Analyze is deterministic and never fails for a validly constructed
// offer.
func Analyze(o Offer, p CostProfile) Analysis {
	score := float64(o.Price)
	hours := 0.0

	a := Analysis{Layovers: o.Layovers()}

	for i, seg := range o.Segments {
		segHours := seg.Duration().Hours()
		hours += segHours
		score += segHours * float64(p.CostPerFlightHour)

		if i == 0 {
			continue
		}

		transfer := transferMinutes(o.Segments[i-1], seg)
		switch {
		case transfer < p.MinTransferMinutes:
			a.Critical = append(a.Critical, fmt.Sprintf("too short transfer (%d min)", transfer))
			score += float64(p.PenaltyTooShort)
		case transfer <= idealTransferMax:
			a.Favorable = append(a.Favorable, fmt.Sprintf("ideal transfer (%d min)", transfer))
			score += float64(p.BonusIdeal)
		case transfer <= acceptableTransferMax:
			a.Caution = append(a.Caution, fmt.Sprintf("slightly long transfer (%d min)", transfer))
			score += float64(p.PenaltyAcceptable)
		case transfer <= longTransferMax:
			a.Caution = append(a.Caution, fmt.Sprintf("long transfer (%d min)", transfer))
			score += float64(p.PenaltyLong)
		default:
			a.Critical = append(a.Critical, fmt.Sprintf("overnight transfer (%d min)", transfer))
			score += float64(p.PenaltyOvernight)
		}
	}

	score += float64(o.Layovers()) * float64(p.CostPerLayover)

	a.Score = int(math.Round(score))
	a.FlightHours = hours
	return a
}

// transferMinutes is the ground time between two consecutive segments.
func transferMinutes(prev, next Segment) int {
	return int(next.Departure.Sub(prev.Arrival).Minutes())
}
