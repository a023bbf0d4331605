package marketplace

import (
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/hazyhaar/seatwatch/extract"
	"github.com/hazyhaar/seatwatch/seat"
)

func extractOne(t *testing.T, p *extract.Profile, src string) seat.Listing {
	t.Helper()
	doc, err := html.Parse(strings.NewReader("<html><body><div>" + src + "</div></body></html>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cands := extract.Candidates(doc, p)
	if len(cands) != 1 {
		t.Fatalf("candidates: got %d, want 1", len(cands))
	}
	l, ok := extract.NewExtractor(p).Extract(cands[0])
	if !ok {
		t.Fatal("extraction failed")
	}
	return l
}

func TestRegistry_Detect(t *testing.T) {
	r := NewRegistry()
	cases := []struct {
		url  string
		want string
	}{
		{"https://www.ticketmaster.co.uk/event/12345", "ticketmaster"},
		{"https://www.axs.com/events/98765", "axs"},
		{"https://www.viagogo.co.uk/Concert-Tickets", "viagogo"},
		{"https://www.stubhub.com/event/1", "viagogo"},
		{"https://example.com/tickets", ""},
	}
	for _, tc := range cases {
		a := r.Detect(tc.url)
		switch {
		case tc.want == "" && a != nil:
			t.Errorf("Detect(%q): got %q, want no adapter", tc.url, a.Name())
		case tc.want != "" && (a == nil || a.Name() != tc.want):
			t.Errorf("Detect(%q): got %v, want %q", tc.url, a, tc.want)
		}
	}
}

func TestRegistry_ExtraTakesPrecedence(t *testing.T) {
	r := NewRegistry(NewViagogo())
	if got := r.Names()[0]; got != "viagogo" {
		t.Errorf("first adapter: got %q, want viagogo", got)
	}
	if a := r.ByName("ticketmaster"); a == nil {
		t.Error("built-ins missing after extras")
	}
}

func TestViagogo_TierComposite(t *testing.T) {
	l := extractOne(t, NewViagogo().Profile(), "Upper Tier 208 Row Q | 1 - 5 tickets £106 each")

	if l.Section != "Upper Tier 208" {
		t.Errorf("section: got %q, want %q", l.Section, "Upper Tier 208")
	}
	if l.Row != "Q" {
		t.Errorf("row: got %q, want %q", l.Row, "Q")
	}
	if l.Price != 106 {
		t.Errorf("price: got %v, want 106", l.Price)
	}
	if l.Seller != seat.SellerResale {
		t.Errorf("seller: got %q, want resale", l.Seller)
	}
	if l.Currency != seat.CurrencyGBP {
		t.Errorf("currency: got %q, want GBP", l.Currency)
	}
}

func TestTicketmaster_SecAbbreviation(t *testing.T) {
	l := extractOne(t, NewTicketmaster().Profile(), "Sec 104, Row 20, Seats 11 - 12 Standing £71.50 each")

	if l.Section != "Sec 104" {
		t.Errorf("section: got %q, want %q", l.Section, "Sec 104")
	}
	if l.Row != "20" {
		t.Errorf("row: got %q, want %q", l.Row, "20")
	}
	if l.SeatNumber != "11 - 12" && l.SeatNumber != "11-12" {
		t.Errorf("seat number: got %q", l.SeatNumber)
	}
	if l.Seller != seat.SellerPrimary {
		t.Errorf("seller: got %q, want primary", l.Seller)
	}
}

func TestAXS_PipedComposite(t *testing.T) {
	l := extractOne(t, NewAXS().Profile(), "Section 112 | Row F standard seated admission $88.00")

	if l.Section != "Section 112" {
		t.Errorf("section: got %q, want %q", l.Section, "Section 112")
	}
	if l.Row != "F" {
		t.Errorf("row: got %q, want F", l.Row)
	}
	if l.Currency != seat.CurrencyUSD {
		t.Errorf("currency: got %q, want USD", l.Currency)
	}
}

func TestListingFragments(t *testing.T) {
	l := seat.Listing{Section: "Section 104", Row: "20", Price: 71.5}
	got := listingFragments(l)
	want := []string{"section 104", "row 20", "71.50"}
	if len(got) != len(want) {
		t.Fatalf("fragments: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("fragment %d: got %q, want %q", i, got[i], want[i])
		}
	}

	if frags := listingFragments(seat.Listing{Section: seat.SectionGeneral}); len(frags) != 0 {
		t.Errorf("sentinel section should not be matchable: %v", frags)
	}
}
