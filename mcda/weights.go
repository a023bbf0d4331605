// Package mcda scores seat listings against weighted, outlier-resistant
// criteria: price, view quality, row proximity and aisle access. The
// engine is a pure function of (seat set, weights) — scores are always
// recomputed wholesale, so staleness is impossible by construction.
package mcda

import "math"

// Weights is the user-supplied weight vector over the four criteria.
// Values need not sum to anything in particular: the engine always
// renormalises by their sum, which makes scoring invariant under
// positive scaling of the vector.
type Weights struct {
	Price     float64 `json:"price" yaml:"price"`
	View      float64 `json:"view_quality" yaml:"view_quality"`
	Proximity float64 `json:"proximity" yaml:"proximity"`
	Aisle     float64 `json:"aisle_access" yaml:"aisle_access"`
}

// DefaultWeights weighs all four criteria equally.
func DefaultWeights() Weights {
	return Weights{Price: 25, View: 25, Proximity: 25, Aisle: 25}
}

// fractions returns the weights normalised to fractions summing to 1.
// Malformed input (negative, NaN, all-zero) degrades to uniform 25/25/
// 25/25 rather than being rejected.
func (w Weights) fractions() [4]float64 {
	vals := [4]float64{w.Price, w.View, w.Proximity, w.Aisle}
	sum := 0.0
	for i, v := range vals {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			vals[i] = 0
			continue
		}
		sum += v
	}
	if sum <= 0 {
		return [4]float64{0.25, 0.25, 0.25, 0.25}
	}
	for i := range vals {
		vals[i] /= sum
	}
	return vals
}
