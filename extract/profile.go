package extract

import (
	"regexp"

	"github.com/hazyhaar/seatwatch/seat"
)

// Profile parameterises candidate selection and field extraction for one
// vendor. The cascade machinery is shared; vendors differ only in their
// patterns and empirically tuned bounds. Every threshold here started as
// a magic number observed on real pages, so all of them are fields with
// defaults rather than constants.
type Profile struct {
	// Vendor is the adapter name stamped onto extracted listings.
	Vendor string

	// Signals are the strong structural patterns at least one of which
	// must match a candidate's flattened text.
	Signals []*regexp.Regexp

	// Junk rejects known false positives: delivery-fee lines, empty-state
	// messages, package headers, consent banners.
	Junk []*regexp.Regexp

	// Composites are vendor section/row[/seat] patterns tried before the
	// generic cascade. Each must define named groups "sec" and "row", and
	// may define "seat". The section is taken verbatim from the match.
	Composites []*regexp.Regexp

	// AreaPrefixes are keywords that start a section identifier when no
	// explicit "Section" label is present ("Block 112", "Tier 3").
	AreaPrefixes []string

	// NamedAreas are bare keywords that alone denote a section
	// ("Floor", "Standing", "General Admission").
	NamedAreas []string

	// MinTextLen and MaxTextLen bound a candidate's flattened text. Too
	// short means no real content; too long means a container holding
	// several listings.
	MinTextLen int
	MaxTextLen int

	// MinPrice and MaxPrice are the sanity bounds on the nominal price.
	MinPrice float64
	MaxPrice float64

	// DefaultSeller applies when no seller keyword matches. Resale-only
	// marketplaces set this to seat.SellerResale.
	DefaultSeller seat.Seller
}

var (
	defaultSignals = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bsec(?:tion)?\.?\s+[A-Za-z0-9]+`),
		regexp.MustCompile(`(?i)\bsection\b[\s\S]{0,40}\brow\b`),
		regexp.MustCompile(`(?i)\b(?:floor|standing|general\s+admission|pit)\b`),
	}

	defaultJunk = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bdelivery\b`),
		regexp.MustCompile(`(?i)\bno\s+(?:results|tickets|matches)\b`),
		regexp.MustCompile(`(?i)\b(?:vip|hospitality)\s+packages?\b`),
		regexp.MustCompile(`(?i)\bofficial\s+platinum\b`),
		regexp.MustCompile(`(?i)\b(?:cookie|consent|accept\s+all)\b`),
		regexp.MustCompile(`(?i)\bper\s+order\s+fee\b`),
	}

	defaultAreaPrefixes = []string{"Block", "Level", "Tier", "Floor", "Box", "Suite", "Balcony", "Circle", "Stalls", "Gallery"}

	defaultNamedAreas = []string{"General Admission", "Standing", "Floor", "Pit"}
)

// ApplyDefaults fills every unset field. Vendor profiles set only what
// differs from the generic behaviour and call this for the rest.
func (p *Profile) ApplyDefaults() {
	if len(p.Signals) == 0 {
		p.Signals = defaultSignals
	}
	if len(p.Junk) == 0 {
		p.Junk = defaultJunk
	}
	if len(p.AreaPrefixes) == 0 {
		p.AreaPrefixes = defaultAreaPrefixes
	}
	if len(p.NamedAreas) == 0 {
		p.NamedAreas = defaultNamedAreas
	}
	if p.MinTextLen <= 0 {
		p.MinTextLen = 15
	}
	if p.MaxTextLen <= 0 {
		p.MaxTextLen = 400
	}
	if p.MinPrice <= 0 {
		p.MinPrice = 5
	}
	if p.MaxPrice <= 0 {
		p.MaxPrice = 10000
	}
	if p.DefaultSeller == "" {
		p.DefaultSeller = seat.SellerPrimary
	}
}

// DefaultProfile returns a generic profile suitable for pages whose
// vendor is unknown. Named adapters refine it.
func DefaultProfile() *Profile {
	p := &Profile{Vendor: "generic"}
	p.ApplyDefaults()
	return p
}
