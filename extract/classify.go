package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/hazyhaar/seatwatch/seat"
)

// typeChecks is the fixed priority order for the listing type. A card's
// text often matches several type keywords at once ("VIP standing
// package"); the first match in this order decides.
var typeChecks = []struct {
	t  seat.Type
	re *regexp.Regexp
}{
	{seat.TypeVIP, regexp.MustCompile(`(?i)\b(?:vip|hospitality|meet\s*(?:&|and)\s*greet)\b`)},
	{seat.TypeAccessible, regexp.MustCompile(`(?i)\b(?:accessible|wheelchair|ambulant)\b`)},
	{seat.TypePremium, regexp.MustCompile(`(?i)\b(?:premium|suite|club\s+level|lounge)\b`)},
	{seat.TypeStanding, regexp.MustCompile(`(?i)\b(?:standing|general\s+admission)\b`)},
	{seat.TypeSeated, regexp.MustCompile(`(?i)\b(?:seated|reserved\s+seating)\b`)},
}

var (
	resaleRe = regexp.MustCompile(`(?i)\b(?:resale|re-sale|fan-to-fan|verified\s+resale|second\s+release)\b`)

	unavailableRe = regexp.MustCompile(`(?i)\b(?:sold\s+out|unavailable|not\s+available|no\s+longer\s+available|off\s+sale)\b`)

	qualityRe = regexp.MustCompile(`(?i)\b([0-9](?:\.[0-9])?)\s*/\s*10\b`)

	// descriptionVocab is the fixed vocabulary of display-worthy traits.
	// Unlike the type, the description keeps every match.
	descriptionVocab = []string{
		"restricted view", "limited view", "obstructed view", "side view",
		"clear view", "aisle", "standing", "seated", "vip", "accessible",
		"premium", "resale", "e-ticket", "mobile ticket", "instant download",
	}
)

// classify derives the secondary attributes from keyword presence. This
// is not a cascade: every matching description keyword is kept, while
// type and seller resolve by priority.
func classify(text string, l *seat.Listing) {
	for _, tc := range typeChecks {
		if tc.re.MatchString(text) {
			l.Type = tc.t
			break
		}
	}

	if resaleRe.MatchString(text) {
		l.Seller = seat.SellerResale
	}

	if unavailableRe.MatchString(text) {
		l.Availability = seat.Unavailable
	}

	var traits []string
	for _, kw := range descriptionVocab {
		if containsWord(text, kw) {
			traits = append(traits, kw)
		}
	}
	if len(traits) > 0 {
		l.Description = strings.Join(traits, ", ")
	}

	if m := qualityRe.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			l.QualityScore = &v
		}
	}
}
