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

// AXS paginates its offer list behind a "Show more" control and exposes
// a "Showing X of Y" counter, so the load-more strategy applies. Cards
// often label fields in a small table rather than a composite line.
type AXS struct {
	profile *extract.Profile
}

func NewAXS() *AXS {
	p := &extract.Profile{
		Vendor: "axs",
		Composites: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?P<sec>(?:section|sec)\s+[A-Za-z0-9]+)\s*[|•·,-]\s*row\s+(?P<row>[A-Za-z0-9]+)`),
		},
	}
	p.ApplyDefaults()
	return &AXS{profile: p}
}

func (a *AXS) Name() string { return "axs" }

func (a *AXS) Detect(url string) bool {
	return strings.Contains(url, "axs.com") || strings.Contains(url, "axs.co.uk")
}

func (a *AXS) Profile() *extract.Profile { return a.profile }

func (a *AXS) Strategy() scan.Strategy { return scan.NewLoadMore("show more", "load more") }

func (a *AXS) ClickListing(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return clickCard(ctx, page, l)
}

func (a *AXS) HighlightOnMap(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return highlightSection(ctx, page, l)
}
