package extract

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// candidateTags are the generic structural element types a listing card
// can plausibly be. Media, scripts and form internals never are.
var candidateTags = map[atom.Atom]bool{
	atom.Div:     true,
	atom.Li:      true,
	atom.A:       true,
	atom.Button:  true,
	atom.Article: true,
	atom.Section: true,
	atom.Tr:      true,
	atom.Td:      true,
	atom.Span:    true,
}

// Candidates scans the document for elements that look like exactly one
// ticket listing. An element qualifies when all of the following hold:
//
//   - its tag is a generic structural type;
//   - its flattened text contains a currency amount;
//   - at least one vendor signal pattern matches;
//   - the text length falls inside the profile's band;
//   - no junk pattern matches;
//   - no child element independently passes the signal+length test.
//
// The last rule selects the innermost (smallest) qualifying element and
// is what keeps a listing-list container from being mistaken for a
// single listing. When a vendor nests two independently qualifying
// listings inside a wrapper that itself fails the test, the result is
// first-match-in-traversal-order; there is no stronger disambiguation.
func Candidates(doc *html.Node, p *Profile) []*html.Node {
	if doc == nil {
		return nil
	}
	p.ApplyDefaults()

	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && candidateTags[n.DataAtom] {
			text := Flatten(n)
			if qualifies(text, p) && !hasQualifyingChild(n, p) {
				out = append(out, n)
				return // children of a qualifying card cannot also be cards
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

// qualifies is the full composite rule for one element's text.
func qualifies(text string, p *Profile) bool {
	if !signalAndLength(text, p) {
		return false
	}
	if !currencyRe.MatchString(text) {
		return false
	}
	for _, junk := range p.Junk {
		if junk.MatchString(text) {
			return false
		}
	}
	return true
}

// signalAndLength is the reduced test applied to child elements when
// deciding innermost-ness: a strong structural signal plus a plausible
// length. Currency and junk checks are deliberately excluded here so a
// wrapper is still rejected when its child carries the signal but the
// price sits in a sibling.
func signalAndLength(text string, p *Profile) bool {
	if len(text) < p.MinTextLen || len(text) > p.MaxTextLen {
		return false
	}
	for _, sig := range p.Signals {
		if sig.MatchString(text) {
			return true
		}
	}
	for _, comp := range p.Composites {
		if comp.MatchString(text) {
			return true
		}
	}
	return false
}

func hasQualifyingChild(n *html.Node, p *Profile) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			if signalAndLength(Flatten(c), p) {
				return true
			}
			if hasQualifyingChild(c, p) {
				return true
			}
		}
	}
	return false
}
