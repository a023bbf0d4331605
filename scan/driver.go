// Package scan drives exposure of additional listings on virtualized or
// paginated marketplace pages. The DOM at rest typically holds only a
// small visible window of a much larger logical list, so a scan
// alternates short driving steps (scroll or click) with settle delays
// and re-extraction, under a wall-clock safety timeout.
package scan

import (
	"context"

	"golang.org/x/net/html"
)

// Driver abstracts the page interactions a scan needs. The production
// implementation talks to a live browser tab through rod; tests use a
// fake. Every method degrades to "no effect" rather than failing hard:
// the target page is uncontrolled and partial success is the expected
// common case.
type Driver interface {
	// Snapshot parses the page's current DOM.
	Snapshot(ctx context.Context) (*html.Node, error)

	// FindScrollContainer locates and remembers the most plausible
	// scrollable listing container. False means the page has none.
	FindScrollContainer(ctx context.Context) (bool, error)

	// ScrollStep scrolls the remembered container by a fraction of its
	// viewport height in the given direction (+1 down, -1 up) and
	// reports whether an extremity was reached.
	ScrollStep(ctx context.Context, direction int) (atEdge bool, err error)

	// ScrollTop returns the container to the top.
	ScrollTop(ctx context.Context) error

	// ClickLoadMore clicks the first interactive element whose text
	// matches one of the labels. False means no control was found.
	ClickLoadMore(ctx context.Context, labels []string) (bool, error)

	// Progress reports a "Showing X of Y" indicator when the page has
	// one.
	Progress(ctx context.Context) (shown, total int, ok bool)
}

// Strategy is one way of exposing more listings. Step performs a single
// unit of driving: progressed=false means the strategy could not
// advance (no control, no container), done=true means it knows the scan
// is complete. The orchestrator owns timing, stall detection and the
// safety timeout.
type Strategy interface {
	Name() string
	Step(ctx context.Context, d Driver) (progressed, done bool, err error)
	// Finish restores any page state the strategy disturbed.
	Finish(ctx context.Context, d Driver)
}
