package itinerary

import "sort"

// Select analyzes every offer and returns the best candidates, ranked.
//
// Ranking is ascending by (severity bucket, score, price): a cheap
// itinerary carrying a critical flag never outranks a more expensive
// one with none. The sort is stable, so identical tuples keep their
// input order and the result is reproducible for identical inputs.
//
// The result is truncated to limit entries; limit 1 gives "best only",
// larger limits give a shortlist. An empty input yields an empty,
// non-nil slice.
func Select(offers []Offer, p CostProfile, limit int) []RankedOffer {
	ranked := make([]RankedOffer, 0, len(offers))
	for _, o := range offers {
		ranked = append(ranked, RankedOffer{Offer: o, Analysis: Analyze(o, p)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		bi, bj := ranked[i].Analysis.Bucket(), ranked[j].Analysis.Bucket()
		if bi != bj {
			return bi < bj
		}
		if ranked[i].Analysis.Score != ranked[j].Analysis.Score {
			return ranked[i].Analysis.Score < ranked[j].Analysis.Score
		}
		return ranked[i].Offer.Price < ranked[j].Offer.Price
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}
