package mcda

import (
	"math"

	"github.com/hazyhaar/seatwatch/seat"
)

const neutral = 0.5

// Subscores are the four criterion scores scaled to 0–100.
type Subscores struct {
	Price     int `json:"price"`
	View      int `json:"view_quality"`
	Proximity int `json:"proximity"`
	Aisle     int `json:"aisle_access"`
}

// Result is the composite score for one listing.
type Result struct {
	Score     int       `json:"score"` // 0–100
	Tier      int       `json:"tier"`  // 1 (best) – 5 (worst)
	Subscores Subscores `json:"subscores"`
}

// Score computes a Result per available listing, keyed by content key.
// It is a pure function: callers re-invoke it whenever the seat set or
// the weight vector changes. Seat counts are small (tens to low
// hundreds), so a full recompute is cheaper than correct incremental
// bookkeeping would be.
func Score(listings []seat.Listing, w Weights) map[string]Result {
	avail := make([]seat.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Availability == seat.Available {
			avail = append(avail, l)
		}
	}
	out := make(map[string]Result, len(avail))
	if len(avail) == 0 {
		return out
	}

	// Price band over all available seats.
	prices := make([]float64, len(avail))
	for i, l := range avail {
		prices[i] = l.Price
	}
	priceLo, priceHi := robustBand(prices)

	// Row-rank band over the rows that parse.
	var ranks []float64
	rankOf := make([]float64, len(avail))
	rankOK := make([]bool, len(avail))
	for i, l := range avail {
		if r, ok := rowRank(l.Row); ok {
			rankOf[i] = r
			rankOK[i] = true
			ranks = append(ranks, r)
		}
	}
	rankLo, rankHi := robustBand(ranks)

	// Seat-number extent per section, for aisle proximity.
	type extent struct{ lo, hi float64 }
	extents := make(map[string]extent)
	for _, l := range avail {
		num, ok := seatNumber(l.SeatNumber)
		if !ok {
			continue
		}
		e, seen := extents[l.Section]
		if !seen {
			extents[l.Section] = extent{num, num}
			continue
		}
		if num < e.lo {
			e.lo = num
		}
		if num > e.hi {
			e.hi = num
		}
		extents[l.Section] = e
	}

	frac := w.fractions()
	for i, l := range avail {
		priceScore := invertInBand(l.Price, priceLo, priceHi)

		view := viewScore(l.Section)

		proximity := neutral
		if rankOK[i] {
			proximity = invertInBand(rankOf[i], rankLo, rankHi)
		}

		aisle := neutral
		if num, ok := seatNumber(l.SeatNumber); ok {
			if e, seen := extents[l.Section]; seen {
				aisle = aisleScore(num, e.lo, e.hi)
			}
		}

		composite := frac[0]*priceScore + frac[1]*view + frac[2]*proximity + frac[3]*aisle
		score := clampScore(int(math.Round(composite * 100)))

		out[l.Key()] = Result{
			Score: score,
			Tier:  tierFor(score),
			Subscores: Subscores{
				Price:     clampScore(int(math.Round(priceScore * 100))),
				View:      clampScore(int(math.Round(view * 100))),
				Proximity: clampScore(int(math.Round(proximity * 100))),
				Aisle:     clampScore(int(math.Round(aisle * 100))),
			},
		}
	}
	return out
}

// tierFor buckets a composite score into the fixed quintile-like tiers.
func tierFor(score int) int {
	switch {
	case score >= 81:
		return 1
	case score >= 61:
		return 2
	case score >= 41:
		return 3
	case score >= 21:
		return 4
	default:
		return 5
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
