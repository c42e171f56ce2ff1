package itinerary

import (
	"math/rand"
	"testing"
)

// cleanOffer builds a direct flight with no connection flags.
func cleanOffer(t *testing.T, price int) Offer {
	t.Helper()
	return offer(t, price, seg(t, "OSL", "SIN", "2026-07-01 10:00", "2026-07-01 22:00"))
}

// criticalOffer builds an itinerary with a too-short connection.
func criticalOffer(t *testing.T, price int) Offer {
	t.Helper()
	return offer(t, price,
		seg(t, "OSL", "DOH", "2026-07-01 06:00", "2026-07-01 12:00"),
		seg(t, "DOH", "SIN", "2026-07-01 13:00", "2026-07-01 20:00"), // 60 min
	)
}

// cautionOffer builds an itinerary with a long connection.
func cautionOffer(t *testing.T, price int) Offer {
	t.Helper()
	return offer(t, price,
		seg(t, "OSL", "DOH", "2026-07-01 06:00", "2026-07-01 12:00"),
		seg(t, "DOH", "SIN", "2026-07-01 19:00", "2026-07-02 02:00"), // 420 min
	)
}

func TestSelect_SeverityDominatesScore(t *testing.T) {
	cheap := criticalOffer(t, 1000)
	pricey := cleanOffer(t, 20000)

	ranked := Select([]Offer{cheap, pricey}, Outbound, 5)

	if len(ranked) != 2 {
		t.Fatalf("expected 2 results, got %d", len(ranked))
	}
	if ranked[0].Offer.Price != 20000 {
		t.Errorf("clean offer should outrank cheaper critical offer, got price %d first", ranked[0].Offer.Price)
	}
	if ranked[1].Analysis.Bucket() != SeverityCritical {
		t.Errorf("expected critical offer last, got bucket %d", ranked[1].Analysis.Bucket())
	}
}

func TestSelect_BucketThenScoreOrder(t *testing.T) {
	offers := []Offer{
		criticalOffer(t, 3000),
		cautionOffer(t, 9000),
		cleanOffer(t, 15000),
		cautionOffer(t, 4000),
		cleanOffer(t, 11000),
	}

	ranked := Select(offers, Outbound, 10)

	var buckets []Severity
	for _, r := range ranked {
		buckets = append(buckets, r.Analysis.Bucket())
	}
	want := []Severity{SeverityClean, SeverityClean, SeverityCaution, SeverityCaution, SeverityCritical}
	for i := range want {
		if buckets[i] != want[i] {
			t.Fatalf("position %d: expected bucket %d, got %d (order %v)", i, want[i], buckets[i], buckets)
		}
	}

	// Within the clean bucket the cheaper offer scores lower.
	if ranked[0].Offer.Price != 11000 {
		t.Errorf("expected cheaper clean offer first, got price %d", ranked[0].Offer.Price)
	}
}

func TestSelect_OrderInsensitive(t *testing.T) {
	offers := []Offer{
		cleanOffer(t, 12000),
		cautionOffer(t, 5000),
		criticalOffer(t, 2000),
		cleanOffer(t, 9000),
		cautionOffer(t, 7000),
		cleanOffer(t, 16000),
	}

	baseline := Select(offers, Outbound, 3)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]Offer, len(offers))
		copy(shuffled, offers)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		ranked := Select(shuffled, Outbound, 3)
		if len(ranked) != len(baseline) {
			t.Fatalf("trial %d: expected %d results, got %d", trial, len(baseline), len(ranked))
		}
		for i := range baseline {
			if ranked[i].Analysis.Bucket() != baseline[i].Analysis.Bucket() ||
				ranked[i].Analysis.Score != baseline[i].Analysis.Score {
				t.Errorf("trial %d position %d: (bucket, score) = (%d, %d), want (%d, %d)",
					trial, i,
					ranked[i].Analysis.Bucket(), ranked[i].Analysis.Score,
					baseline[i].Analysis.Bucket(), baseline[i].Analysis.Score)
			}
		}
	}
}

func TestSelect_Truncation(t *testing.T) {
	offers := []Offer{
		cleanOffer(t, 10000),
		cleanOffer(t, 11000),
		cleanOffer(t, 12000),
		cleanOffer(t, 13000),
	}

	full := Select(offers, Outbound, 100)

	for _, limit := range []int{1, 2, 3, 4, 10} {
		ranked := Select(offers, Outbound, limit)
		wantLen := limit
		if wantLen > len(offers) {
			wantLen = len(offers)
		}
		if len(ranked) != wantLen {
			t.Errorf("limit %d: expected %d results, got %d", limit, wantLen, len(ranked))
		}
		// Truncation is always a prefix of the full order.
		for i := range ranked {
			if ranked[i].Offer.Price != full[i].Offer.Price {
				t.Errorf("limit %d position %d: expected price %d, got %d",
					limit, i, full[i].Offer.Price, ranked[i].Offer.Price)
			}
		}
	}
}

func TestSelect_EmptyInput(t *testing.T) {
	ranked := Select(nil, Outbound, 5)
	if ranked == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(ranked) != 0 {
		t.Errorf("expected no results, got %d", len(ranked))
	}
}

func TestSelect_StableForDuplicates(t *testing.T) {
	a := cleanOffer(t, 10000)
	b := cleanOffer(t, 10000)
	b.Segments[0].Flight = "SQ999" // distinguishable, identical sort tuple

	ranked := Select([]Offer{a, b}, Outbound, 2)

	if ranked[0].Offer.Segments[0].Flight != "SQ123" {
		t.Errorf("stable sort should keep input order for exact ties, got %s first",
			ranked[0].Offer.Segments[0].Flight)
	}
}
