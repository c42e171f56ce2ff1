package itinerary

// Transfer classification thresholds in minutes, shared by every
// profile. A connection is evaluated against these top to bottom, so
// exactly one tier applies to any transfer duration.
const (
	// idealTransferMax is the upper bound of the ideal band.
	idealTransferMax = 200
	// acceptableTransferMax is the upper bound of the workable band.
	acceptableTransferMax = 360
	// longTransferMax is the upper bound before a connection counts as
	// overnight/extreme.
	longTransferMax = 480
)

// Outbound is the loose-tolerance profile used for the legs heading
// away from home, where a long stopover is an inconvenience rather
// than a dealbreaker.
var Outbound = CostProfile{
	MinTransferMinutes: 120,
	BonusIdeal:         -800,
	PenaltyAcceptable:  800,
	PenaltyLong:        2500,
	PenaltyOvernight:   6000,
	PenaltyTooShort:    12000,
	CostPerFlightHour:  400,
	CostPerLayover:     1500,
}

// Homebound is the tighter-weighted profile used for the return leg,
// where travelers tolerate compromises to get home but price matters
// relatively more.
var Homebound = CostProfile{
	MinTransferMinutes: 120,
	BonusIdeal:         -200,
	PenaltyAcceptable:  300,
	PenaltyLong:        900,
	PenaltyOvernight:   2000,
	PenaltyTooShort:    12000,
	CostPerFlightHour:  350,
	CostPerLayover:     1200,
}
