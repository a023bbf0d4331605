package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"golang.org/x/net/html"

	"github.com/hazyhaar/seatwatch/seat"
)

func parse(t *testing.T, src string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func firstDiv(t *testing.T, doc *html.Node) *html.Node {
	t.Helper()
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.Data == "div" {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == nil {
		t.Fatal("no div in test document")
	}
	return found
}

func TestFlatten_WordBoundaries(t *testing.T) {
	// Naive concatenation would produce "SECTION104ROW20"; the
	// normalizer must keep each text node's content apart.
	doc := parse(t, `<div><span>SECTION</span><span>104</span><span>ROW</span><span>20</span></div>`)
	got := Flatten(firstDiv(t, doc))
	if got != "SECTION 104 ROW 20" {
		t.Errorf("flatten: got %q", got)
	}
}

func TestFlatten_Empty(t *testing.T) {
	doc := parse(t, `<div><script>var x=1;</script><span>  </span></div>`)
	if got := Flatten(firstDiv(t, doc)); got != "" {
		t.Errorf("flatten of empty subtree: got %q", got)
	}
}

func TestExtract_SectionRowStanding(t *testing.T) {
	doc := parse(t, `<div><a>Section 104 Row 20 Standing Ticket £71.50 each</a></div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Section != "Section 104" {
		t.Errorf("section: got %q, want %q", l.Section, "Section 104")
	}
	if l.Row != "20" {
		t.Errorf("row: got %q, want %q", l.Row, "20")
	}
	if l.Price != 71.50 {
		t.Errorf("price: got %v, want 71.50", l.Price)
	}
	if l.Currency != seat.CurrencyGBP {
		t.Errorf("currency: got %q, want GBP", l.Currency)
	}
	if l.Type != seat.TypeStanding {
		t.Errorf("type: got %q, want standing", l.Type)
	}
}

func TestExtract_PriceRange(t *testing.T) {
	doc := parse(t, `<div>Section 104 Row 2 from £45.00 to £120.00</div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Price != 45 {
		t.Errorf("price: got %v, want 45", l.Price)
	}
	if l.PriceMax != 120 {
		t.Errorf("price_max: got %v, want 120", l.PriceMax)
	}
}

func TestExtract_BelowMinimumPrice(t *testing.T) {
	doc := parse(t, `<div>Section 104 Row 2 £2.50 each</div>`)
	ex := NewExtractor(DefaultProfile())
	if _, ok := ex.Extract(firstDiv(t, doc)); ok {
		t.Error("price below minimum should be rejected")
	}
}

func TestExtract_StructuredLabels(t *testing.T) {
	doc := parse(t, `<div><table><tr><td>SECTION</td><td>112</td></tr><tr><td>ROW</td><td>F</td></tr></table><span>£88.00</span></div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Section != "112" {
		t.Errorf("section: got %q, want %q", l.Section, "112")
	}
	if l.Row != "F" {
		t.Errorf("row: got %q, want %q", l.Row, "F")
	}
}

func TestExtract_AreaPrefix(t *testing.T) {
	doc := parse(t, `<div>Block 112 great seats available £64.00 each</div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Section != "Block 112" {
		t.Errorf("section: got %q, want %q", l.Section, "Block 112")
	}
}

func TestExtract_NamedArea(t *testing.T) {
	doc := parse(t, `<div>General Admission ticket £55.00 incl. fees</div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Section != "General Admission" {
		t.Errorf("section: got %q, want %q", l.Section, "General Admission")
	}
	if l.Type != seat.TypeStanding {
		t.Errorf("type: got %q, want standing", l.Type)
	}
}

func TestExtract_SentinelSection(t *testing.T) {
	// No strategy matches and every free-text run is noise: the
	// section falls back to the sentinel rather than failing.
	doc := parse(t, `<div><span>each</span><span>£48.00</span></div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Section != seat.SectionGeneral {
		t.Errorf("section: got %q, want sentinel %q", l.Section, seat.SectionGeneral)
	}
}

func TestExtract_TypePriority(t *testing.T) {
	// The element matches vip, premium and standing keywords at once;
	// the fixed priority order must pick vip.
	doc := parse(t, `<div>Section 104 Row 1 VIP premium standing package £250.00</div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Type != seat.TypeVIP {
		t.Errorf("type: got %q, want vip", l.Type)
	}
}

func TestExtract_Unavailable(t *testing.T) {
	doc := parse(t, `<div>Section 104 Row 3 £60.00 sold out</div>`)
	ex := NewExtractor(DefaultProfile())

	l, ok := ex.Extract(firstDiv(t, doc))
	if !ok {
		t.Fatal("extraction failed")
	}
	if l.Availability != seat.Unavailable {
		t.Errorf("availability: got %q, want unavailable", l.Availability)
	}
}

func TestValidSection(t *testing.T) {
	cases := []struct {
		section, row string
		want         bool
	}{
		{"Section 104", "", true},
		{"104", "", false},    // purely numeric junk without a row
		{"104", "20", true},   // row rescues an odd section
		{"AB", "", false},     // too short
		{"Tickets", "", false},
		{"General", "", true},
	}
	for _, tc := range cases {
		if got := validSection(tc.section, tc.row); got != tc.want {
			t.Errorf("validSection(%q,%q): got %v, want %v", tc.section, tc.row, got, tc.want)
		}
	}
}

func TestTruncate_RuneBoundary(t *testing.T) {
	// Byte 40 lands in the middle of the two-byte "é"; the cut must back
	// off to the previous rune boundary instead of emitting invalid
	// UTF-8 into the section name and content key.
	long := strings.Repeat("a", 39) + "éclair patisserie row overflow text"
	got := truncate(long, 40)
	if !utf8.ValidString(got) {
		t.Fatalf("invalid UTF-8 after truncation: %q", got)
	}
	if len(got) > 40 {
		t.Errorf("length: got %d, want at most 40", len(got))
	}
	if got != strings.Repeat("a", 39) {
		t.Errorf("cut point: got %q", got)
	}

	if short := truncate("Section 104", 40); short != "Section 104" {
		t.Errorf("short string should pass through, got %q", short)
	}
}
