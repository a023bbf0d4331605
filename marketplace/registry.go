package marketplace

import (
	"context"

	"github.com/go-rod/rod"

	"github.com/hazyhaar/seatwatch/extract"
	"github.com/hazyhaar/seatwatch/scan"
	"github.com/hazyhaar/seatwatch/seat"
)

// Registry resolves adapters by URL or by name. The zero value is
// unusable; NewRegistry seeds the built-in vendors.
type Registry struct {
	adapters []Adapter
}

// NewRegistry returns a registry holding the built-in adapters plus any
// extras, which take precedence over the built-ins during detection.
func NewRegistry(extra ...Adapter) *Registry {
	r := &Registry{}
	r.adapters = append(r.adapters, extra...)
	r.adapters = append(r.adapters, NewTicketmaster(), NewAXS(), NewViagogo())
	return r
}

// Detect returns the first adapter claiming the URL, or nil.
func (r *Registry) Detect(url string) Adapter {
	for _, a := range r.adapters {
		if a.Detect(url) {
			return a
		}
	}
	return nil
}

// ByName returns the adapter with the given name, or nil.
func (r *Registry) ByName(name string) Adapter {
	for _, a := range r.adapters {
		if a.Name() == name {
			return a
		}
	}
	return nil
}

// Names lists the registered vendor names in precedence order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.adapters))
	for i, a := range r.adapters {
		names[i] = a.Name()
	}
	return names
}

// Generic is the fallback used when no adapter claims a URL: the
// default extraction profile with an autoscroll scan and the shared
// content-matching page interactions.
type Generic struct{}

func (Generic) Name() string              { return "generic" }
func (Generic) Detect(string) bool        { return false }
func (Generic) Profile() *extract.Profile { return extract.DefaultProfile() }
func (Generic) Strategy() scan.Strategy   { return scan.NewAutoScroll() }

func (Generic) ClickListing(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return clickCard(ctx, page, l)
}

func (Generic) HighlightOnMap(ctx context.Context, page *rod.Page, l seat.Listing) error {
	return highlightSection(ctx, page, l)
}
