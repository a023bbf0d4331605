package scan

import "context"

// AutoScroll walks a scrollable container up and down in viewport-sized
// steps, flipping direction at each extremity, so a virtualized list
// renders every window of its content at least once during the scan.
type AutoScroll struct {
	dir     int
	located bool
}

// NewAutoScroll starts scrolling downward.
func NewAutoScroll() *AutoScroll {
	return &AutoScroll{dir: 1}
}

func (s *AutoScroll) Name() string { return "autoscroll" }

func (s *AutoScroll) Step(ctx context.Context, d Driver) (progressed, done bool, err error) {
	if !s.located {
		found, err := d.FindScrollContainer(ctx)
		if err != nil {
			return false, false, err
		}
		if !found {
			// No scrollable target: the scan finishes immediately with
			// whatever the initial harvest produced.
			return false, true, nil
		}
		s.located = true
	}

	atEdge, err := d.ScrollStep(ctx, s.dir)
	if err != nil {
		return false, false, err
	}
	if atEdge {
		s.dir = -s.dir
	}
	return true, false, nil
}

func (s *AutoScroll) Finish(ctx context.Context, d Driver) {
	if s.located {
		_ = d.ScrollTop(ctx)
	}
}

// LoadMore repeatedly invokes a "show more"/"load more" control until a
// progress indicator reports completion or the control disappears.
type LoadMore struct {
	Labels []string
}

// NewLoadMore uses the given button labels, falling back to the common
// ones when none are provided.
func NewLoadMore(labels ...string) *LoadMore {
	if len(labels) == 0 {
		labels = []string{"show more", "load more", "see more"}
	}
	return &LoadMore{Labels: labels}
}

func (s *LoadMore) Name() string { return "loadmore" }

func (s *LoadMore) Step(ctx context.Context, d Driver) (progressed, done bool, err error) {
	if shown, total, ok := d.Progress(ctx); ok && total > 0 && shown >= total {
		return false, true, nil
	}
	clicked, err := d.ClickLoadMore(ctx, s.Labels)
	if err != nil {
		return false, false, err
	}
	return clicked, false, nil
}

func (s *LoadMore) Finish(context.Context, Driver) {}
