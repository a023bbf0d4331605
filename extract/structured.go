package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/hazyhaar/seatwatch/seat"
)

// fieldLabels maps exact label texts to the record field they announce.
// Vendors that render "SECTION / ROW / SEAT" as separate label elements
// put the value in a nearby element rather than in the label itself.
var fieldLabels = map[string]string{
	"SECTION": "section",
	"SEC":     "section",
	"ROW":     "row",
	"SEAT":    "seat",
	"SEATS":   "seat",
}

// structuredFields walks descendant elements looking for exact label
// texts and resolves each one's value from the surrounding structure:
// the label's next sibling, then the parent's next sibling, then the
// remaining cells of a table-like row. First plausible value wins.
func structuredFields(n *html.Node, l *seat.Listing) {
	doc := goquery.NewDocumentFromNode(n)
	doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
		if len(sel.Nodes) == 0 {
			return
		}
		label := strings.ToUpper(strings.TrimSuffix(ownText(sel.Nodes[0]), ":"))
		field, ok := fieldLabels[label]
		if !ok {
			return
		}
		val := labelValue(sel)
		if val == "" {
			return
		}
		switch field {
		case "section":
			if l.Section == "" {
				l.Section = val
			}
		case "row":
			if l.Row == "" {
				l.Row = val
			}
		case "seat":
			if l.SeatNumber == "" {
				l.SeatNumber = val
			}
		}
	})
}

func labelValue(label *goquery.Selection) string {
	if v := plausibleValue(label.Next()); v != "" {
		return v
	}
	if v := plausibleValue(label.Parent().Next()); v != "" {
		return v
	}
	// Table-like structure: scan the other cells of the same row.
	row := label.Closest("tr")
	if row.Length() == 0 {
		return ""
	}
	found := ""
	row.Children().Each(func(_ int, cell *goquery.Selection) {
		if found != "" {
			return
		}
		if cell.Nodes[0] == label.Nodes[0] {
			return
		}
		if v := plausibleValue(cell); v != "" {
			found = v
		}
	})
	return found
}

// plausibleValue accepts short texts that are neither another label nor
// a price. Anything longer than a plausible seat or row identifier is
// treated as unrelated content.
func plausibleValue(sel *goquery.Selection) string {
	if sel == nil || sel.Length() == 0 {
		return ""
	}
	v := collapseSpace(strings.TrimSpace(sel.Text()))
	if v == "" || len(v) > 12 {
		return ""
	}
	if _, isLabel := fieldLabels[strings.ToUpper(strings.TrimSuffix(v, ":"))]; isLabel {
		return ""
	}
	if currencyRe.MatchString(v) {
		return ""
	}
	return v
}
