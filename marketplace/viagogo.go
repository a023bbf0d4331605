package marketplace

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/seatwatch/extract"
	"github.com/hazyhaar/seatwatch/scan"
	"github.com/hazyhaar/seatwatch/seat"
)

// Viagogo is a resale-only marketplace. Its cards name sections without
// a "Section" keyword ("Upper Tier 208 Row Q"), so the vendor composite
// has to recognise the tier/floor vocabulary directly, and every
// listing defaults to the resale seller type.
type Viagogo struct {
	profile *extract.Profile
}

func NewViagogo() *Viagogo {
	p := &extract.Profile{
		Vendor: "viagogo",
		Composites: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?P<sec>(?:upper|lower|middle)\s+tier\s+[0-9]+|floor|standing|general\s+admission)[\s,|•·-]+row\s+(?P<row>[A-Za-z0-9]+)`),
		},
		DefaultSeller: seat.SellerResale,
	}
	p.ApplyDefaults()
	return &Viagogo{profile: p}
}

func (v *Viagogo) Name() string { return "viagogo" }

func (v *Viagogo) Detect(url string) bool {
	return strings.Contains(url, "viagogo.") || strings.Contains(url, "stubhub.")
}

func (v *Viagogo) Profile() *extract.Profile { return v.profile }

func (v *Viagogo) Strategy() scan.Strategy { return scan.NewAutoScroll() }

func (v *Viagogo) ClickListing(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return clickCard(ctx, page, l)
}

func (v *Viagogo) HighlightOnMap(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return highlightSection(ctx, page, l)
}
