// Package seat defines the canonical ticket-listing record and the
// session-scoped store that accumulates listings across scrape passes.
//
// A Listing is produced by the extraction pipeline, identified by its
// content key, and never mutated once stored. The Store only grows for
// the lifetime of one page session.
package seat

import (
	"strconv"
	"strings"
)

// Currency is the currency inferred from the symbol in the source text.
type Currency string

const (
	CurrencyGBP Currency = "GBP"
	CurrencyUSD Currency = "USD"
	CurrencyEUR Currency = "EUR"
)

// Availability marks whether a listing is still purchasable. Consumers
// only display available listings; unavailable ones are kept for the
// record but excluded from scoring.
type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

// Type classifies the listing. An element may match several type
// keywords at once; extraction resolves the conflict with a fixed
// priority order (vip > accessible > premium > standing > seated).
type Type string

const (
	TypeStandard   Type = "standard"
	TypeVIP        Type = "vip"
	TypeAccessible Type = "accessible"
	TypePremium    Type = "premium"
	TypeStanding   Type = "standing"
	TypeSeated     Type = "seated"
)

// Seller distinguishes primary inventory from resale.
type Seller string

const (
	SellerPrimary Seller = "primary"
	SellerResale  Seller = "resale"
)

// SectionGeneral is the sentinel section used when no strategy in the
// extraction cascade produced a section name.
const SectionGeneral = "General"

// Listing is one extracted ticket listing.
type Listing struct {
	Section      string       `json:"section"`
	Row          string       `json:"row,omitempty"`
	SeatNumber   string       `json:"seat_number,omitempty"`
	Price        float64      `json:"price"`
	PriceMax     float64      `json:"price_max,omitempty"`
	Currency     Currency     `json:"currency"`
	Availability Availability `json:"availability"`
	Description  string       `json:"description,omitempty"`
	Type         Type         `json:"type"`
	Seller       Seller       `json:"seller_type"`
	QualityScore *float64     `json:"quality_score,omitempty"`
	Vendor       string       `json:"vendor,omitempty"`
	Excerpt      string       `json:"excerpt,omitempty"`
}

// Key returns the content key identifying "the same listing" across
// repeated scrapes of the same underlying UI state. Incidental DOM
// differences (attributes, re-renders) do not change the key.
func (l Listing) Key() string {
	return strings.Join([]string{
		l.Section,
		l.Row,
		l.SeatNumber,
		strconv.FormatFloat(l.Price, 'f', 2, 64),
		string(l.Seller),
	}, "|")
}
