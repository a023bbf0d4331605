// Package extract locates ticket-listing elements inside an untrusted
// marketplace DOM and parses them into seat records.
//
// The pipeline has three layers: Flatten recovers word boundaries from a
// DOM subtree, Candidates picks the innermost elements that look like a
// single listing, and Extractor runs a cascade of structured and regex
// strategies to populate the record. Every layer degrades to absence on
// mismatch — an uncooperative page yields fewer results, never an error.
package extract

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Flatten renders a DOM subtree as a single string with every distinct
// text node separated by one space. Naive concatenation merges adjacent
// labels ("SECTION" + "104" becomes "SECTION104"), which defeats the
// regex strategies downstream; inserting a separator at text-node
// boundaries is the minimum fix that keeps word boundaries intact
// without adding spaces inside a single text run.
func Flatten(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteByte(' ')
				}
				sb.WriteString(collapseSpace(text))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

// collapseSpace folds internal runs of whitespace into single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ownText returns only the text nodes that are direct children of n,
// ignoring nested elements. Used to test whether an element is exactly
// a label like "SECTION".
func ownText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(sb.String())
}

// textRuns returns every non-empty text-node content in document order.
func textRuns(n *html.Node) []string {
	var runs []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				runs = append(runs, collapseSpace(text))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return runs
}

// renderNode serialises a node back to HTML. Best effort: a render
// failure yields an empty string, never an error.
func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}
