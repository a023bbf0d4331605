package marketplace

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/seatwatch/seat"
)

// clickCard finds the smallest element whose text contains all the
// listing's distinguishing fragments and clicks it. Matching by content
// rather than by a remembered node survives virtualized re-renders,
// where the original DOM node is long gone by the time the user acts.
func clickCard(ctx context.Context, page *rod.Page, l seat.Listing) error {
	frags := listingFragments(l)
	if len(frags) == 0 {
		return fmt.Errorf("marketplace: listing has no matchable fields")
	}
	res, err := page.Context(ctx).Eval(`(frags) => {
		let best = null;
		for (const el of document.querySelectorAll('div, li, a, button, article, tr')) {
			const text = (el.innerText || '').toLowerCase();
			if (!text || text.length > 600) continue;
			if (!frags.every(f => text.includes(f))) continue;
			if (!best || el.innerText.length < best.innerText.length) best = el;
		}
		if (!best) return false;
		best.scrollIntoView({block: 'center'});
		best.click();
		return true;
	}`, frags)
	if err != nil {
		return fmt.Errorf("marketplace: click listing: %w", err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("marketplace: listing no longer on page: %s", l.Key())
	}
	return nil
}

// highlightSection outlines the venue-map region whose accessible text
// mentions the listing's section. SVG seat maps label their regions
// with aria-label or data attributes, which is all the hook available.
func highlightSection(ctx context.Context, page *rod.Page, l seat.Listing) error {
	section := strings.ToLower(strings.TrimSpace(l.Section))
	if section == "" || section == strings.ToLower(seat.SectionGeneral) {
		return nil
	}
	res, err := page.Context(ctx).Eval(`(section) => {
		const sel = 'svg [aria-label], svg [data-section], svg [data-section-name], [data-testid*="map"] *';
		for (const el of document.querySelectorAll(sel)) {
			const label = (el.getAttribute('aria-label') ||
				el.getAttribute('data-section') ||
				el.getAttribute('data-section-name') || '').toLowerCase();
			if (!label || !label.includes(section)) continue;
			el.style.stroke = '#ff5722';
			el.style.strokeWidth = '3';
			el.style.fillOpacity = '0.85';
			el.scrollIntoView({block: 'center'});
			return true;
		}
		return false;
	}`, section)
	if err != nil {
		return fmt.Errorf("marketplace: highlight section: %w", err)
	}
	if !res.Value.Bool() {
		return fmt.Errorf("marketplace: no map region for section %q", l.Section)
	}
	return nil
}

// listingFragments picks the lowercased text fragments that uniquely
// identify a card: section, row and the formatted price.
func listingFragments(l seat.Listing) []string {
	var frags []string
	if s := strings.TrimSpace(l.Section); s != "" && s != seat.SectionGeneral {
		frags = append(frags, strings.ToLower(s))
	}
	if r := strings.TrimSpace(l.Row); r != "" {
		frags = append(frags, "row "+strings.ToLower(r))
	}
	if l.Price > 0 {
		frags = append(frags, fmt.Sprintf("%.2f", l.Price))
	}
	return frags
}
