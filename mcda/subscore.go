package mcda

import (
	"regexp"
	"strconv"
	"strings"
)

// viewChecks is the ordered pattern table mapping a section label to a
// view-quality estimate. First matching pattern wins; the numeric
// fallback buckets by section-number magnitude; anything else lands on
// the neutral 0.5.
var viewChecks = []struct {
	re    *regexp.Regexp
	score float64
}{
	{regexp.MustCompile(`(?i)\b(?:floor|pit|standing|stage|general\s+admission)\b`), 1.0},
	{regexp.MustCompile(`(?i)\b(?:vip|premium|suite|hospitality|club)\b`), 0.9},
	{regexp.MustCompile(`(?i)\b(?:lower|stalls|arena)\b`), 0.8},
	{regexp.MustCompile(`(?i)\b(?:middle|mezzanine|circle)\b`), 0.6},
	{regexp.MustCompile(`(?i)\b(?:upper|balcony)\b`), 0.4},
	{regexp.MustCompile(`(?i)\b(?:nosebleed|gallery|restricted)\b`), 0.25},
}

var sectionNumRe = regexp.MustCompile(`\b([0-9]{1,4})\b`)

// viewScore estimates view quality from the section label alone.
func viewScore(section string) float64 {
	for _, vc := range viewChecks {
		if vc.re.MatchString(section) {
			return vc.score
		}
	}
	if m := sectionNumRe.FindStringSubmatch(section); m != nil {
		n, _ := strconv.Atoi(m[1])
		switch {
		case n < 200:
			return 0.8
		case n < 300:
			return 0.6
		case n < 400:
			return 0.4
		default:
			return 0.25
		}
	}
	return 0.5
}

// rowRank converts a row identifier to a comparable rank: digits parse
// directly, single letters map A–Z to 1–26, and two-letter rows ("AA",
// "AB") continue past Z as a base-26 composite. Anything else does not
// rank and receives the neutral proximity score.
func rowRank(row string) (float64, bool) {
	r := strings.ToUpper(strings.TrimSpace(row))
	if r == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(r); err == nil {
		if n <= 0 {
			return 0, false
		}
		return float64(n), true
	}
	if len(r) == 1 && r[0] >= 'A' && r[0] <= 'Z' {
		return float64(r[0]-'A') + 1, true
	}
	if len(r) == 2 && r[0] >= 'A' && r[0] <= 'Z' && r[1] >= 'A' && r[1] <= 'Z' {
		return 26*float64(r[0]-'A'+1) + float64(r[1]-'A') + 1, true
	}
	return 0, false
}

// seatNumber parses the leading number of a seat identifier ("12",
// "12-14" ranges use the first seat).
func seatNumber(s string) (float64, bool) {
	m := sectionNumRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// aisleScore rates how close a seat sits to either end of its section's
// observed seat-number range: the distance to the nearer extreme,
// normalised by half the span. Seats at an edge (nearest an aisle)
// score 1; dead centre scores 0; unparseable seats are neutral.
func aisleScore(num float64, lo, hi float64) float64 {
	span := hi - lo
	if span < bandEpsilon {
		return 0.5
	}
	distEdge := num - lo
	if hi-num < distEdge {
		distEdge = hi - num
	}
	return 1 - distEdge/(span/2)
}
