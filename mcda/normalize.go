package mcda

import "sort"

const bandEpsilon = 1e-9

// robustBand returns the [5th, 95th] percentile band of values. The
// clamping band keeps a single absurd outlier (a £5000 listing among
// £50–£80 seats) from compressing everyone else's normalised score
// towards zero.
func robustBand(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	return percentile(sorted, 0.05), percentile(sorted, 0.95)
}

// percentile returns the nearest-rank p-th percentile of a sorted
// slice, p in [0,1]. Rank-based rather than interpolated on purpose:
// with small seat counts an interpolated 95th percentile is dragged
// most of the way to the outlier itself, which defeats the clamp.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	i := int(p * float64(n-1))
	if i < 0 {
		i = 0
	}
	if i > n-1 {
		i = n - 1
	}
	return sorted[i]
}

// invertInBand maps v into [0,1] within the band, lower-is-better:
// at or below lo scores 1, at or above hi scores 0. A zero-width band
// (all values equal) scores 1 for everyone rather than dividing by
// zero.
func invertInBand(v, lo, hi float64) float64 {
	if hi-lo < bandEpsilon {
		return 1
	}
	if v <= lo {
		return 1
	}
	if v >= hi {
		return 0
	}
	return (hi - v) / (hi - lo)
}
