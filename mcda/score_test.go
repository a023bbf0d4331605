package mcda

import (
	"fmt"
	"testing"

	"github.com/hazyhaar/seatwatch/seat"
)

func pricedSeats(prices ...float64) []seat.Listing {
	out := make([]seat.Listing, len(prices))
	for i, p := range prices {
		out[i] = seat.Listing{
			Section:      fmt.Sprintf("Section %d", 100+i),
			Row:          fmt.Sprintf("%d", i+1),
			Price:        p,
			Availability: seat.Available,
			Seller:       seat.SellerPrimary,
		}
	}
	return out
}

func TestScore_ScaleInvariance(t *testing.T) {
	seats := pricedSeats(50, 60, 70, 80, 90)
	w := Weights{Price: 40, View: 30, Proximity: 20, Aisle: 10}
	scaled := Weights{Price: 400, View: 300, Proximity: 200, Aisle: 100}

	a := Score(seats, w)
	b := Score(seats, scaled)

	if len(a) != len(b) {
		t.Fatalf("result sizes differ: %d vs %d", len(a), len(b))
	}
	for key, ra := range a {
		rb := b[key]
		if ra.Score != rb.Score || ra.Tier != rb.Tier {
			t.Errorf("%s: scaled weights changed result: %+v vs %+v", key, ra, rb)
		}
	}
}

func TestScore_Bounds(t *testing.T) {
	seats := pricedSeats(5, 50, 500, 5000)
	vectors := []Weights{
		{},
		{Price: 100},
		{View: 1},
		{Price: 1, View: 1, Proximity: 1, Aisle: 1},
		{Price: -3, View: 2},
	}
	for _, w := range vectors {
		for key, r := range Score(seats, w) {
			if r.Score < 0 || r.Score > 100 {
				t.Errorf("weights %+v, %s: score %d out of range", w, key, r.Score)
			}
			if r.Tier < 1 || r.Tier > 5 {
				t.Errorf("weights %+v, %s: tier %d out of range", w, key, r.Tier)
			}
		}
	}
}

func TestTier_MonotoneInScore(t *testing.T) {
	prev := tierFor(0)
	for score := 1; score <= 100; score++ {
		cur := tierFor(score)
		if cur > prev {
			t.Fatalf("tier increased from %d to %d at score %d", prev, cur, score)
		}
		prev = cur
	}
	for score, want := range map[int]int{100: 1, 81: 1, 80: 2, 61: 2, 60: 3, 41: 3, 40: 4, 21: 4, 20: 5, 0: 5} {
		if got := tierFor(score); got != want {
			t.Errorf("tierFor(%d): got %d, want %d", score, got, want)
		}
	}
}

func TestScore_SinglePriceDegeneracy(t *testing.T) {
	seats := pricedSeats(75, 75, 75)
	for key, r := range Score(seats, Weights{Price: 100}) {
		if r.Subscores.Price != 100 {
			t.Errorf("%s: price subscore %d, want 100 when all prices equal", key, r.Subscores.Price)
		}
	}
}

func TestScore_OutlierClamp(t *testing.T) {
	// One absurd price must not compress the other four seats into
	// near-identical scores: the band clamps at the 95th-percentile
	// rank, so the outlier gets the same minimum as a seat at the band
	// edge while the rest keep their spread.
	seats := pricedSeats(50, 60, 70, 80, 5000)
	res := Score(seats, Weights{Price: 100})

	sub := func(i int) int { return res[seats[i].Key()].Subscores.Price }

	if sub(4) != 0 {
		t.Errorf("outlier price subscore: got %d, want 0", sub(4))
	}
	if sub(3) != sub(4) {
		t.Errorf("seat at band edge should share the minimum: got %d vs %d", sub(3), sub(4))
	}
	if sub(0) != 100 {
		t.Errorf("cheapest seat: got %d, want 100", sub(0))
	}
	if spread := sub(0) - sub(2); spread < 30 {
		t.Errorf("mid-band spread collapsed: %d-%d", sub(0), sub(2))
	}
}

func TestScore_ZeroWeightsUniform(t *testing.T) {
	seats := pricedSeats(50, 100)
	zero := Score(seats, Weights{})
	uniform := Score(seats, DefaultWeights())
	for key := range zero {
		if zero[key].Score != uniform[key].Score {
			t.Errorf("%s: zero-sum weights should behave as uniform: %d vs %d",
				key, zero[key].Score, uniform[key].Score)
		}
	}
}

func TestScore_SkipsUnavailable(t *testing.T) {
	seats := pricedSeats(50, 60)
	seats[1].Availability = seat.Unavailable
	res := Score(seats, DefaultWeights())
	if len(res) != 1 {
		t.Fatalf("scored %d listings, want 1", len(res))
	}
	if _, ok := res[seats[1].Key()]; ok {
		t.Error("unavailable listing should not be scored")
	}
}

func TestViewScore_Table(t *testing.T) {
	cases := []struct {
		section string
		want    float64
	}{
		{"Floor", 1.0},
		{"General Admission", 1.0},
		{"VIP Suite 3", 0.9},
		{"Lower Tier 112", 0.8},
		{"Middle Tier", 0.6},
		{"Upper Tier 208", 0.4},
		{"Gallery", 0.25},
		{"Section 104", 0.8},
		{"Section 250", 0.6},
		{"Section 399", 0.4},
		{"Section 512", 0.25},
		{"Mystery Box Q", 0.5},
	}
	for _, tc := range cases {
		if got := viewScore(tc.section); got != tc.want {
			t.Errorf("viewScore(%q): got %v, want %v", tc.section, got, tc.want)
		}
	}
}

func TestRowRank(t *testing.T) {
	cases := []struct {
		row  string
		want float64
		ok   bool
	}{
		{"1", 1, true},
		{"20", 20, true},
		{"A", 1, true},
		{"Z", 26, true},
		{"a", 1, true},
		{"AA", 27, true},
		{"AB", 28, true},
		{"BA", 53, true},
		{"", 0, false},
		{"GA1", 0, false},
		{"0", 0, false},
	}
	for _, tc := range cases {
		got, ok := rowRank(tc.row)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("rowRank(%q): got (%v,%v), want (%v,%v)", tc.row, got, ok, tc.want, tc.ok)
		}
	}
}

func TestAisleScore_Extremes(t *testing.T) {
	// Seats 1..11 in one section: the edges are next to an aisle, the
	// middle seat is as far from one as possible.
	if got := aisleScore(1, 1, 11); got != 1 {
		t.Errorf("edge seat: got %v, want 1", got)
	}
	if got := aisleScore(11, 1, 11); got != 1 {
		t.Errorf("far edge seat: got %v, want 1", got)
	}
	if got := aisleScore(6, 1, 11); got != 0 {
		t.Errorf("centre seat: got %v, want 0", got)
	}
	if got := aisleScore(4, 4, 4); got != 0.5 {
		t.Errorf("degenerate span: got %v, want 0.5", got)
	}
}
