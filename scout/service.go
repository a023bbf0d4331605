// Package scout is the application service: it owns the browser, the
// per-vendor adapters, the seat store and the scoring state, and
// exposes the operations the HTTP API and the MCP tools both call.
package scout

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"golang.org/x/net/html"

	"github.com/hazyhaar/seatwatch/extract"
	"github.com/hazyhaar/seatwatch/idgen"
	"github.com/hazyhaar/seatwatch/marketplace"
	"github.com/hazyhaar/seatwatch/mcda"
	"github.com/hazyhaar/seatwatch/prefs"
	"github.com/hazyhaar/seatwatch/scan"
	"github.com/hazyhaar/seatwatch/seat"
)

// ScoredListing pairs a listing with its current score.
type ScoredListing struct {
	seat.Listing
	Score     int            `json:"score"`
	Tier      int            `json:"tier"`
	Subscores mcda.Subscores `json:"subscores"`
}

// Status is the service's observable state.
type Status struct {
	State    scan.State `json:"state"`
	Session  string     `json:"session,omitempty"`
	URL      string     `json:"url,omitempty"`
	Vendor   string     `json:"vendor,omitempty"`
	Listings int        `json:"listings"`
	ScoredAt time.Time  `json:"scored_at,omitempty"`
}

// Service wires the pipeline together. All methods are safe for
// concurrent use; the scan itself additionally serialises through the
// orchestrator's own guard.
type Service struct {
	cfg      Config
	logger   *slog.Logger
	registry *marketplace.Registry
	browser  *scan.Browser
	prefsDB  *prefs.Store
	ids      idgen.Generator

	mu       sync.Mutex
	session  string
	page     pageHandle
	adapter  marketplace.Adapter
	ex       *extract.Extractor
	driver   scan.Driver
	orch     *scan.Orchestrator
	store    *seat.Store
	url      string
	weights  mcda.Weights
	filters  prefs.Filters
	scores   map[string]mcda.Result
	scoredAt time.Time
}

// Option customises service construction.
type Option func(*Service)

// WithRegistry replaces the default adapter registry.
func WithRegistry(r *marketplace.Registry) Option {
	return func(s *Service) { s.registry = r }
}

// WithPrefs attaches a preference store. Weights and filters load from
// it at startup and every SetWeights persists back.
func WithPrefs(db *prefs.Store) Option {
	return func(s *Service) { s.prefsDB = db }
}

// WithBrowser replaces the default browser manager.
func WithBrowser(b *scan.Browser) Option {
	return func(s *Service) { s.browser = b }
}

// WithIDGen replaces the generator used for session and request IDs.
func WithIDGen(gen idgen.Generator) Option {
	return func(s *Service) { s.ids = gen }
}

// New creates the service. The browser is not started until Open.
func New(cfg Config, logger *slog.Logger, opts ...Option) (*Service, error) {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	s := &Service{
		cfg:      cfg,
		logger:   logger,
		registry: marketplace.NewRegistry(),
		store:    seat.NewStore(),
		weights:  mcda.DefaultWeights(),
		scores:   map[string]mcda.Result{},
		ids:      idgen.Default,
	}
	if cfg.Weights != nil {
		s.weights = *cfg.Weights
	}
	for _, o := range opts {
		o(s)
	}
	if s.browser == nil {
		s.browser = scan.NewBrowser(cfg.Browser, logger)
	}
	s.session = s.ids()

	if s.prefsDB != nil {
		p, err := s.prefsDB.Load(context.Background(), cfg.Profile)
		if err != nil {
			return nil, fmt.Errorf("scout: load preferences: %w", err)
		}
		s.weights = p.Weights
		s.filters = p.Filters
	}

	s.store.OnChange(func(added int) {
		s.mu.Lock()
		s.rescoreLocked()
		s.mu.Unlock()
		s.logger.Debug("scout: rescored", "added", added)
	})
	return s, nil
}

// pageHandle is the subset of a live page the service retains, kept as
// an interface so tests run without a browser.
type pageHandle interface {
	Close() error
}

// Open navigates to a marketplace URL, resolving the adapter by URL or
// by the explicit vendor override, and resets the seat store for the
// new page. An empty vendor with an unrecognised URL falls back to the
// generic adapter.
func (s *Service) Open(ctx context.Context, url, vendor string) error {
	adapter := s.resolveAdapter(url, vendor)

	if err := s.browser.Start(ctx); err != nil {
		return err
	}
	page, err := s.browser.OpenPage(ctx, url)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.page != nil {
		_ = s.page.Close()
	}
	s.page = page
	s.adapter = adapter
	s.url = url
	s.session = s.ids() // new page, new session
	s.ex = extract.NewExtractor(adapter.Profile())
	s.driver = scan.NewRodDriver(page, s.cfg.Scan.ScrollFraction, s.logger)
	s.orch = scan.New(s.cfg.Scan, s.driver, s.ex, s.store, s.logger)
	s.store.Reset()
	s.scores = map[string]mcda.Result{}

	s.logger.Info("scout: page open", "url", url, "vendor", adapter.Name(), "session_id", s.session)
	return nil
}

func (s *Service) resolveAdapter(url, vendor string) marketplace.Adapter {
	if vendor != "" {
		if a := s.registry.ByName(vendor); a != nil {
			return a
		}
		s.logger.Warn("scout: unknown vendor override", "vendor", vendor)
	}
	if a := s.registry.Detect(url); a != nil {
		return a
	}
	return marketplace.Generic{}
}

// Scan runs one full scan of the open page. A scan already in flight
// makes this a no-op; callers poll Status to observe completion.
func (s *Service) Scan(ctx context.Context) error {
	s.mu.Lock()
	orch := s.orch
	var strat scan.Strategy
	if s.adapter != nil {
		strat = s.adapter.Strategy()
	}
	s.mu.Unlock()

	if orch == nil {
		return fmt.Errorf("scout: no page open")
	}
	orch.Scan(ctx, strat)
	return nil
}

// Ingest extracts and scores listings from raw HTML, bypassing the
// browser. It serves offline scoring and is the seam the tests use.
func (s *Service) Ingest(src string) (int, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return 0, fmt.Errorf("scout: parse html: %w", err)
	}

	s.mu.Lock()
	ex := s.ex
	s.mu.Unlock()
	if ex == nil {
		ex = extract.NewExtractor(extract.DefaultProfile())
	}

	cands := extract.Candidates(doc, ex.Profile())
	batch := make([]seat.Listing, 0, len(cands))
	for _, c := range cands {
		if l, ok := ex.Extract(c); ok {
			batch = append(batch, l)
		}
	}
	return s.store.Merge(batch), nil
}

// Seats returns the current listings, scored, filtered by the active
// preference filters and sorted best-first.
func (s *Service) Seats() []ScoredListing {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := s.store.All()
	out := make([]ScoredListing, 0, len(all))
	for _, l := range all {
		res := s.scores[l.Key()]
		if !s.passesFiltersLocked(l, res) {
			continue
		}
		out = append(out, ScoredListing{Listing: l, Score: res.Score, Tier: res.Tier, Subscores: res.Subscores})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func (s *Service) passesFiltersLocked(l seat.Listing, res mcda.Result) bool {
	f := s.filters
	if f.MaxPrice > 0 && l.Price > f.MaxPrice {
		return false
	}
	if f.MinTier > 0 && res.Tier > f.MinTier {
		return false
	}
	if len(f.Sections) > 0 {
		found := false
		for _, sec := range f.Sections {
			if strings.EqualFold(sec, l.Section) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Weights returns the active scoring weights.
func (s *Service) Weights() mcda.Weights {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.weights
}

// SetWeights replaces the scoring weights, persists them when a
// preference store is attached, and rescores immediately.
func (s *Service) SetWeights(ctx context.Context, w mcda.Weights) error {
	s.mu.Lock()
	s.weights = w
	s.rescoreLocked()
	filters := s.filters
	s.mu.Unlock()

	if s.prefsDB != nil {
		p := prefs.Preferences{Weights: w, Filters: filters}
		if err := s.prefsDB.Save(ctx, s.cfg.Profile, p); err != nil {
			return fmt.Errorf("scout: persist weights: %w", err)
		}
	}
	return nil
}

// SetFilters replaces the listing filters and persists them alongside
// the weights.
func (s *Service) SetFilters(ctx context.Context, f prefs.Filters) error {
	s.mu.Lock()
	s.filters = f
	weights := s.weights
	s.mu.Unlock()

	if s.prefsDB != nil {
		p := prefs.Preferences{Weights: weights, Filters: f}
		if err := s.prefsDB.Save(ctx, s.cfg.Profile, p); err != nil {
			return fmt.Errorf("scout: persist filters: %w", err)
		}
	}
	return nil
}

// Status reports the observable service state.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		State:    scan.StateReady,
		Session:  s.session,
		URL:      s.url,
		Listings: s.store.Len(),
		ScoredAt: s.scoredAt,
	}
	if s.adapter != nil {
		st.Vendor = s.adapter.Name()
	}
	if s.orch != nil {
		st.State = s.orch.State()
	}
	return st
}

// ClickListing locates the stored listing on the live page and clicks
// it through the vendor adapter.
func (s *Service) ClickListing(ctx context.Context, key string) error {
	page, adapter, l, err := s.interactTarget(key)
	if err != nil {
		return err
	}
	return adapter.ClickListing(ctx, page, l)
}

// Highlight marks the listing's section on the vendor's venue map.
func (s *Service) Highlight(ctx context.Context, key string) error {
	page, adapter, l, err := s.interactTarget(key)
	if err != nil {
		return err
	}
	return adapter.HighlightOnMap(ctx, page, l)
}

func (s *Service) interactTarget(key string) (*rod.Page, marketplace.Adapter, seat.Listing, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.store.Get(key)
	if !ok {
		return nil, nil, seat.Listing{}, fmt.Errorf("scout: unknown listing %q", key)
	}
	page, ok := s.page.(*rod.Page)
	if !ok || page == nil {
		return nil, nil, seat.Listing{}, fmt.Errorf("scout: no live page")
	}
	return page, s.adapter, l, nil
}

// rescoreLocked recomputes the scores for the full store. Caller holds
// the mutex.
func (s *Service) rescoreLocked() {
	s.scores = mcda.Score(s.store.All(), s.weights)
	s.scoredAt = time.Now()
}

// Close tears down the page and browser.
func (s *Service) Close() error {
	s.mu.Lock()
	page := s.page
	s.page = nil
	s.mu.Unlock()

	if page != nil {
		_ = page.Close()
	}
	return s.browser.Close()
}
