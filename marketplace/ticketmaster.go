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

// Ticketmaster's event pages render a virtualized listing rail next to
// an SVG venue map. Cards carry "Sec 104, Row 20" style composites and
// the rail only holds the visible window, so autoscroll is required.
type Ticketmaster struct {
	profile *extract.Profile
}

func NewTicketmaster() *Ticketmaster {
	p := &extract.Profile{
		Vendor: "ticketmaster",
		Composites: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?P<sec>sec(?:tion)?\s+[A-Za-z0-9]+)[\s,|•·-]+row\s+(?P<row>[A-Za-z0-9]+)(?:[\s,|•·-]+seats?\s+(?P<seat>[0-9]+(?:\s*-\s*[0-9]+)?))?`),
		},
	}
	p.ApplyDefaults()
	return &Ticketmaster{profile: p}
}

func (t *Ticketmaster) Name() string { return "ticketmaster" }

func (t *Ticketmaster) Detect(url string) bool {
	return strings.Contains(url, "ticketmaster.")
}

func (t *Ticketmaster) Profile() *extract.Profile { return t.profile }

func (t *Ticketmaster) Strategy() scan.Strategy { return scan.NewAutoScroll() }

func (t *Ticketmaster) ClickListing(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return clickCard(ctx, page, l)
}

func (t *Ticketmaster) HighlightOnMap(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return highlightSection(ctx, page, l)
}
