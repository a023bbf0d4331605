// Package marketplace carries the per-vendor knowledge: how to
// recognise a vendor's pages, which extraction profile fits its card
// markup, which scan strategy exposes its full inventory, and how to
// interact with its listings and venue map on a live page.
package marketplace

import (
	"context"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/seatwatch/extract"
	"github.com/hazyhaar/seatwatch/scan"
	"github.com/hazyhaar/seatwatch/seat"
)

// Adapter is one vendor's integration. Adapters hold no per-page state;
// a single instance serves every page of its vendor.
type Adapter interface {
	// Name is the stable vendor identifier used in config and listings.
	Name() string

	// Detect reports whether the URL belongs to this vendor.
	Detect(url string) bool

	// Profile returns the extraction profile tuned to the vendor's
	// listing markup.
	Profile() *extract.Profile

	// Strategy returns a fresh scan strategy for one scan of a vendor
	// page. Strategies are stateful, so each scan needs its own.
	Strategy() scan.Strategy

	// ClickListing locates the card matching the listing on the live
	// page and clicks it, typically opening the vendor's purchase flow.
	ClickListing(ctx context.Context, page *rod.Page, l seat.Listing) error

	// HighlightOnMap visually marks the listing's section on the
	// vendor's interactive venue map, when the page has one.
	HighlightOnMap(ctx context.Context, page *rod.Page, l seat.Listing) error
}
