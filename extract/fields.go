package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"

	"github.com/hazyhaar/seatwatch/seat"
)

var (
	// compositeRe matches "Section <name> Row <value> [Seat <value>]" in
	// one pass over the flattened text.
	compositeRe = regexp.MustCompile(`(?i)\b(?P<sec>section\s+[A-Za-z0-9]+)[\s,|•·-]+row\s+(?P<row>[A-Za-z0-9]+)(?:[\s,|•·-]+seats?\s+(?P<seat>[0-9]+(?:\s*-\s*[0-9]+)?))?`)

	// sectionOnlyRe matches a bare "Section <name>".
	sectionOnlyRe = regexp.MustCompile(`(?i)\b(section\s+[A-Za-z0-9]+)\b`)

	// rowRe and seatRe are the free-text fallbacks when the structured
	// pass and the composites found nothing.
	rowRe  = regexp.MustCompile(`(?i)\brow\s*:?\s+([A-Za-z0-9]{1,4})\b`)
	seatRe = regexp.MustCompile(`(?i)\bseats?\s*:?\s+([0-9]+(?:\s*-\s*[0-9]+)?)\b`)

	// noiseRunRe rejects free-text runs that cannot be a section name.
	noiseRunRe = regexp.MustCompile(`(?i)^(?:each|from|per|ea|ticket|tickets|buy|now|only|price|sold|fees?|incl\.?|\+|-|\||[0-9]+\s*-\s*[0-9]+\s*tickets?)$`)
)

// Extractor populates seat records from candidate elements using the
// profile's strategy cascade. It is a pure function of the DOM content
// handed to it: no side effects, and a miss is (zero, false), never an
// error.
type Extractor struct {
	profile  *Profile
	prefixRe *regexp.Regexp
	sanitize *bluemonday.Policy
}

// NewExtractor builds an extractor for the given profile. A nil profile
// falls back to the generic one.
func NewExtractor(p *Profile) *Extractor {
	if p == nil {
		p = DefaultProfile()
	}
	p.ApplyDefaults()

	quoted := make([]string, len(p.AreaPrefixes))
	for i, prefix := range p.AreaPrefixes {
		quoted[i] = regexp.QuoteMeta(prefix)
	}
	prefixRe := regexp.MustCompile(`(?i)\b((?:` + strings.Join(quoted, "|") + `)\s+[A-Za-z0-9]+)\b`)

	return &Extractor{
		profile:  p,
		prefixRe: prefixRe,
		sanitize: bluemonday.UGCPolicy(),
	}
}

// Profile returns the profile the extractor was built with.
func (e *Extractor) Profile() *Profile { return e.profile }

// Extract parses one candidate element into a listing. The bool result
// is false when the candidate fails the price bounds or the section
// validation; callers simply skip such candidates.
func (e *Extractor) Extract(n *html.Node) (seat.Listing, bool) {
	p := e.profile
	text := Flatten(n)
	if text == "" {
		return seat.Listing{}, false
	}

	prices, cur := parsePrices(text)
	if len(prices) == 0 {
		return seat.Listing{}, false
	}
	price := prices[0]
	if price < p.MinPrice || price >= p.MaxPrice {
		return seat.Listing{}, false
	}

	l := seat.Listing{
		Price:        price,
		PriceMax:     maxOf(prices),
		Currency:     cur,
		Availability: seat.Available,
		Type:         seat.TypeStandard,
		Seller:       p.DefaultSeller,
		Vendor:       p.Vendor,
	}

	// Strategy 1: structured label→value walk over the element tree.
	structuredFields(n, &l)

	// Strategies 2–7: regex cascade over the flattened text. Each stage
	// runs only when the previous ones left the section empty.
	e.cascadeSection(text, textRuns(n), &l)

	if l.Row == "" {
		if m := rowRe.FindStringSubmatch(text); m != nil {
			l.Row = m[1]
		}
	}
	if l.SeatNumber == "" {
		if m := seatRe.FindStringSubmatch(text); m != nil {
			l.SeatNumber = collapseSpace(m[1])
		}
	}

	classify(text, &l)

	if !validSection(l.Section, l.Row) {
		return seat.Listing{}, false
	}

	l.Excerpt = e.sanitize.Sanitize(renderNode(n))
	return l, true
}

func (e *Extractor) cascadeSection(text string, runs []string, l *seat.Listing) {
	p := e.profile

	// Vendor composite patterns take precedence: they encode shapes the
	// generic patterns cannot express ("Upper Tier 208 Row Q").
	if l.Section == "" {
		for _, re := range p.Composites {
			if m := matchNamed(re, text); m != nil {
				l.Section = normalizeSection(m["sec"])
				if l.Row == "" {
					l.Row = m["row"]
				}
				if l.SeatNumber == "" && m["seat"] != "" {
					l.SeatNumber = collapseSpace(m["seat"])
				}
				break
			}
		}
	}

	if l.Section == "" {
		if m := matchNamed(compositeRe, text); m != nil {
			l.Section = normalizeSection(m["sec"])
			if l.Row == "" {
				l.Row = m["row"]
			}
			if l.SeatNumber == "" && m["seat"] != "" {
				l.SeatNumber = collapseSpace(m["seat"])
			}
		}
	}

	if l.Section == "" {
		if m := sectionOnlyRe.FindStringSubmatch(text); m != nil {
			l.Section = normalizeSection(m[1])
		}
	}

	if l.Section == "" {
		if m := e.prefixRe.FindStringSubmatch(text); m != nil {
			l.Section = normalizeSection(m[1])
		}
	}

	if l.Section == "" {
		for _, area := range p.NamedAreas {
			if containsWord(text, area) {
				l.Section = normalizeSection(area)
				break
			}
		}
	}

	// Last resort: the first free-text run that is not a known noise
	// phrase becomes the section name.
	if l.Section == "" {
		for _, run := range runs {
			if plausibleSectionRun(run) {
				l.Section = truncate(run, 40)
				break
			}
		}
	}

	if l.Section == "" {
		l.Section = seat.SectionGeneral
	}
}

func plausibleSectionRun(run string) bool {
	if len(run) < 3 {
		return false
	}
	if currencyRe.MatchString(run) {
		return false
	}
	if noiseRunRe.MatchString(run) {
		return false
	}
	if _, isLabel := fieldLabels[strings.ToUpper(strings.TrimSuffix(run, ":"))]; isLabel {
		return false
	}
	return true
}

func matchNamed(re *regexp.Regexp, text string) map[string]string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	out := make(map[string]string)
	for i, name := range re.SubexpNames() {
		if name != "" && i < len(m) {
			out[name] = m[i]
		}
	}
	return out
}

// normalizeSection canonicalises casing so the content key is stable
// across pages that shout ("SECTION 104") and pages that don't.
func normalizeSection(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(strings.ToLower(w))
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func containsWord(text, word string) bool {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(word) + `\b`)
	return re.MatchString(text)
}

// truncate cuts s to at most max bytes without splitting a rune, so a
// free-text section name stays valid UTF-8 inside the content key.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut])
}
