package scan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// BrowserConfig selects how the browser is obtained. With Remote set,
// an existing DevTools endpoint is used; otherwise a local headless
// Chrome is launched.
type BrowserConfig struct {
	// Remote is a ws:// DevTools URL of an already-running browser.
	Remote string `yaml:"remote"`
	// Stealth disables the anti-bot page hardening when set to "off".
	Stealth string `yaml:"stealth"`
	// NavigateTimeout bounds page navigation and initial load.
	NavigateTimeout time.Duration `yaml:"navigate_timeout"`
}

func (c *BrowserConfig) applyDefaults() {
	if c.NavigateTimeout <= 0 {
		c.NavigateTimeout = 30 * time.Second
	}
}

// Browser owns one rod browser connection and hands out hardened pages.
type Browser struct {
	cfg      BrowserConfig
	logger   *slog.Logger
	browser  *rod.Browser
	launched *launcher.Launcher
}

// NewBrowser validates config without connecting. Start does the work.
func NewBrowser(cfg BrowserConfig, logger *slog.Logger) *Browser {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Browser{cfg: cfg, logger: logger}
}

// Start connects to the remote endpoint or launches a local browser.
func (b *Browser) Start(ctx context.Context) error {
	ws := b.cfg.Remote
	if ws == "" {
		l := launcher.New().
			Headless(true).
			Set("disable-blink-features", "AutomationControlled")
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("scan: launch browser: %w", err)
		}
		b.launched = l
		ws = u
	}

	br := rod.New().Context(ctx).ControlURL(ws)
	if err := br.Connect(); err != nil {
		return fmt.Errorf("scan: connect browser: %w", err)
	}
	if err := br.IgnoreCertErrors(true); err != nil {
		b.logger.Warn("scan: ignore cert errors failed", "error", err)
	}
	b.browser = br
	b.logger.Info("scan: browser ready", "remote", b.cfg.Remote != "")
	return nil
}

// OpenPage navigates a fresh page to url and waits for the load event.
// A missed load event is logged and tolerated: heavy marketplace pages
// routinely keep loading trackers long after the listings render.
func (b *Browser) OpenPage(ctx context.Context, url string) (*rod.Page, error) {
	if b.browser == nil {
		return nil, fmt.Errorf("scan: browser not started")
	}

	var page *rod.Page
	var err error
	if b.cfg.Stealth == "off" {
		page, err = b.browser.Page(proto.TargetCreateTarget{URL: ""})
	} else {
		page, err = stealth.Page(b.browser)
	}
	if err != nil {
		return nil, fmt.Errorf("scan: open page: %w", err)
	}

	navCtx, cancel := context.WithTimeout(ctx, b.cfg.NavigateTimeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("scan: navigate %s: %w", url, err)
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		b.logger.Warn("scan: load event not observed", "url", url, "error", err)
	}
	return page, nil
}

// Close tears down the connection and any locally launched process.
func (b *Browser) Close() error {
	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.launched != nil {
		b.launched.Cleanup()
		b.launched = nil
	}
	return err
}
