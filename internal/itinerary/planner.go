package itinerary

// StayRange bounds how long the traveler stays in a region, in days.
type StayRange struct {
	MinDays int
	MaxDays int
}

// DateWindow is an inclusive range of candidate departure dates.
type DateWindow struct {
	Start Date
	End   Date
}

// NextWindow derives the search window for the following leg from the
// chosen date of the prior leg plus the configured stay range.
func NextWindow(priorLegDate Date, stay StayRange) DateWindow {
	return DateWindow{
		Start: priorLegDate.AddDays(stay.MinDays),
		End:   priorLegDate.AddDays(stay.MaxDays),
	}
}

// ProbeDates narrows a window to a bounded set of representative dates.
//
// This is a heuristic, not an exhaustive search: scanning every day of
// a wide window multiplies provider calls, so probing starts at the
// window midpoint and alternates outward (mid, mid-1, mid+1, ...) up to
// flex days on each side. Dates outside the window are clipped away and
// duplicates removed, preserving the midpoint-outward order.
//
// A degenerate window (end before start) yields only the start date.
// flex 0 yields only the midpoint, floored on odd spans.
func ProbeDates(window DateWindow, flex int) []Date {
	if window.End.Before(window.Start) {
		return []Date{window.Start}
	}

	span := window.Start.DaysUntil(window.End)
	mid := window.Start.AddDays(span / 2)

	candidates := []Date{mid}
	for i := 1; i <= flex; i++ {
		candidates = append(candidates, mid.AddDays(-i), mid.AddDays(i))
	}

	seen := make(map[Date]bool, len(candidates))
	dates := make([]Date, 0, len(candidates))
	for _, d := range candidates {
		if d.Before(window.Start) || window.End.Before(d) {
			continue
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		dates = append(dates, d)
	}
	return dates
}
