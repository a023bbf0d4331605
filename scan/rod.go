package scan

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
	"golang.org/x/net/html"
)

// RodDriver implements Driver against a live rod page. All interaction
// happens through injected JS: the scroll container reference survives
// between calls in a window property, which is fine because the page
// session and the driver share a lifetime.
type RodDriver struct {
	page     *rod.Page
	fraction float64
	logger   *slog.Logger
}

// NewRodDriver wraps a page. fraction is the share of the container
// viewport scrolled per step; out-of-range values fall back to 0.6.
func NewRodDriver(page *rod.Page, fraction float64, logger *slog.Logger) *RodDriver {
	if fraction <= 0 || fraction > 1 {
		fraction = 0.6
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RodDriver{page: page, fraction: fraction, logger: logger}
}

// Snapshot serialises and parses the full DOM.
func (d *RodDriver) Snapshot(ctx context.Context) (*html.Node, error) {
	res, err := d.page.Context(ctx).Eval(`() => document.documentElement.outerHTML`)
	if err != nil {
		return nil, fmt.Errorf("scan: snapshot: %w", err)
	}
	doc, err := html.Parse(strings.NewReader(res.Value.Str()))
	if err != nil {
		return nil, fmt.Errorf("scan: parse snapshot: %w", err)
	}
	return doc, nil
}

// FindScrollContainer scores every plausible container by listing-text
// keyword density, scrollable overflow, bounded width and vertical
// headroom, and remembers the winner on the page.
func (d *RodDriver) FindScrollContainer(ctx context.Context) (bool, error) {
	res, err := d.page.Context(ctx).Eval(`() => {
		const listingRe = /section|row|seat|ticket|£|\$|€/gi;
		let best = null, bestScore = 0;
		for (const el of document.querySelectorAll('div, main, section, ul, ol')) {
			const style = getComputedStyle(el);
			const scrollable = style.overflowY === 'auto' || style.overflowY === 'scroll';
			const headroom = el.scrollHeight - el.clientHeight;
			if (!scrollable || headroom < 200) continue;

			const text = el.innerText || '';
			const matches = (text.match(listingRe) || []).length;
			const density = matches / Math.max(text.length / 1000, 1);

			let score = density + Math.min(headroom / 1000, 5);
			if (el.clientWidth < window.innerWidth * 0.9) score += 1;

			if (score > bestScore) { bestScore = score; best = el; }
		}
		if (!best) {
			const de = document.scrollingElement;
			if (de && de.scrollHeight - de.clientHeight > 200) best = de;
		}
		if (!best) return false;
		window.__swScroll = best;
		return true;
	}`)
	if err != nil {
		return false, fmt.Errorf("scan: find scroll container: %w", err)
	}
	return res.Value.Bool(), nil
}

// ScrollStep moves the remembered container and reports extremities.
func (d *RodDriver) ScrollStep(ctx context.Context, direction int) (bool, error) {
	res, err := d.page.Context(ctx).Eval(`(dir, frac) => {
		const el = window.__swScroll || document.scrollingElement;
		if (!el) return true;
		el.scrollTop = el.scrollTop + el.clientHeight * frac * dir;
		const max = el.scrollHeight - el.clientHeight;
		return el.scrollTop <= 0 || el.scrollTop >= max - 1;
	}`, direction, d.fraction)
	if err != nil {
		return false, fmt.Errorf("scan: scroll step: %w", err)
	}
	return res.Value.Bool(), nil
}

// ScrollTop restores the container's scroll position.
func (d *RodDriver) ScrollTop(ctx context.Context) error {
	_, err := d.page.Context(ctx).Eval(`() => {
		const el = window.__swScroll || document.scrollingElement;
		if (el) el.scrollTop = 0;
	}`)
	if err != nil {
		return fmt.Errorf("scan: scroll top: %w", err)
	}
	return nil
}

// ClickLoadMore text-matches generic interactive elements against the
// labels and clicks the first hit.
func (d *RodDriver) ClickLoadMore(ctx context.Context, labels []string) (bool, error) {
	lowered := make([]string, len(labels))
	for i, l := range labels {
		lowered[i] = strings.ToLower(l)
	}
	res, err := d.page.Context(ctx).Eval(`(labels) => {
		const sel = 'button, a, [role="button"], [tabindex]';
		for (const el of document.querySelectorAll(sel)) {
			const text = (el.innerText || '').trim().toLowerCase();
			if (!text || text.length > 40) continue;
			if (labels.some(l => text.includes(l))) {
				el.scrollIntoView({block: 'center'});
				el.click();
				return true;
			}
		}
		return false;
	}`, lowered)
	if err != nil {
		return false, fmt.Errorf("scan: click load more: %w", err)
	}
	return res.Value.Bool(), nil
}

// Progress scrapes a "Showing X of Y" indicator when the page has one.
func (d *RodDriver) Progress(ctx context.Context) (shown, total int, ok bool) {
	res, err := d.page.Context(ctx).Eval(`() => {
		const m = (document.body.innerText || '').match(/showing\s+([0-9,]+)\s+of\s+([0-9,]+)/i);
		if (!m) return {ok: false, shown: 0, total: 0};
		return {
			ok: true,
			shown: parseInt(m[1].replace(/,/g, ''), 10),
			total: parseInt(m[2].replace(/,/g, ''), 10),
		};
	}`)
	if err != nil {
		d.logger.Debug("scan: progress probe failed", "error", err)
		return 0, 0, false
	}
	if !res.Value.Get("ok").Bool() {
		return 0, 0, false
	}
	return res.Value.Get("shown").Int(), res.Value.Get("total").Int(), true
}
