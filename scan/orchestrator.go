package scan

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hazyhaar/seatwatch/extract"
	"github.com/hazyhaar/seatwatch/seat"
)

// State is the orchestrator's scan state. There are only two: a scan is
// either in flight or it is not, and the state always returns to ready
// within the configured duration plus one settle delay.
type State string

const (
	StateReady    State = "ready"
	StateScanning State = "scanning"
)

// Config bounds a scan. All values are empirically tuned and therefore
// configurable rather than constants.
type Config struct {
	// MaxDuration is the wall-clock safety timeout for one scan.
	MaxDuration time.Duration `yaml:"max_duration"`
	// SettleDelay is the fixed wait between a driving step and
	// re-extraction. The target page's rendering completion is not
	// observable, so a short fixed wait is the only option.
	SettleDelay time.Duration `yaml:"settle_delay"`
	// StallLimit ends the scan after this many consecutive rounds with
	// no new data and no way to progress.
	StallLimit int `yaml:"stall_limit"`
	// ScrollFraction of the container viewport per scroll step.
	ScrollFraction float64 `yaml:"scroll_fraction"`
}

func (c *Config) applyDefaults() {
	if c.MaxDuration <= 0 {
		c.MaxDuration = 30 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = 600 * time.Millisecond
	}
	if c.StallLimit <= 0 {
		c.StallLimit = 3
	}
	if c.ScrollFraction <= 0 || c.ScrollFraction > 1 {
		c.ScrollFraction = 0.6
	}
}

// Orchestrator runs scans against one page, feeding every snapshot
// through the extraction pipeline into the seat store. Only one scan
// may be in flight at a time: the guard protects the shared scroll and
// DOM state, not throughput.
type Orchestrator struct {
	cfg    Config
	drv    Driver
	ex     *extract.Extractor
	store  *seat.Store
	logger *slog.Logger

	mu    sync.Mutex
	state State
}

// New creates an orchestrator. A nil logger falls back to the default.
func New(cfg Config, drv Driver, ex *extract.Extractor, store *seat.Store, logger *slog.Logger) *Orchestrator {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		cfg:    cfg,
		drv:    drv,
		ex:     ex,
		store:  store,
		logger: logger,
		state:  StateReady,
	}
}

// State reports whether a scan is in flight.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Scan drives the strategy until it completes, stalls, or the safety
// timeout elapses. Calling Scan while a scan is already in flight is a
// no-op, not an error and not a queued request. Scan itself never
// fails: every anomaly degrades to ending the scan with the data
// gathered so far.
func (o *Orchestrator) Scan(ctx context.Context, strat Strategy) {
	o.mu.Lock()
	if o.state == StateScanning {
		o.mu.Unlock()
		return
	}
	o.state = StateScanning
	o.mu.Unlock()

	defer func() {
		o.mu.Lock()
		o.state = StateReady
		o.mu.Unlock()
	}()

	start := time.Now()
	deadline := start.Add(o.cfg.MaxDuration)

	// Harvest whatever is already rendered before driving anything.
	total := o.harvest(ctx)
	stall := 0
	steps := 0

	for time.Now().Before(deadline) && ctx.Err() == nil {
		progressed, done, err := strat.Step(ctx, o.drv)
		if err != nil {
			o.logger.Debug("scan: step failed, ending scan", "strategy", strat.Name(), "error", err)
			break
		}
		steps++

		if !o.settle(ctx) {
			break
		}

		added := o.harvest(ctx)
		total += added

		if done {
			break
		}
		if added == 0 && !progressed {
			stall++
			if stall >= o.cfg.StallLimit {
				o.logger.Debug("scan: stalled", "strategy", strat.Name(), "rounds", stall)
				break
			}
		} else if added > 0 {
			stall = 0
		}
	}

	strat.Finish(ctx, o.drv)
	o.logger.Info("scan: complete",
		"strategy", strat.Name(),
		"steps", steps,
		"new_listings", total,
		"store_size", o.store.Len(),
		"elapsed", time.Since(start).Round(time.Millisecond))
}

// harvest snapshots the page and merges every extractable candidate.
// Failures yield zero new listings, never an error.
func (o *Orchestrator) harvest(ctx context.Context) int {
	doc, err := o.drv.Snapshot(ctx)
	if err != nil {
		o.logger.Debug("scan: snapshot failed", "error", err)
		return 0
	}

	cands := extract.Candidates(doc, o.ex.Profile())
	batch := make([]seat.Listing, 0, len(cands))
	for _, c := range cands {
		if l, ok := o.ex.Extract(c); ok {
			batch = append(batch, l)
		}
	}
	return o.store.Merge(batch)
}

func (o *Orchestrator) settle(ctx context.Context) bool {
	t := time.NewTimer(o.cfg.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
