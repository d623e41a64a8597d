package fetch

import (
	"context"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
)

// BrowserConfig controls browser-rendered fetching.
type BrowserConfig struct {
	Headless bool
	// Timeout bounds navigation for a single fetch.
	Timeout time.Duration
	// Settle is the fixed wait after navigation so client-side
	// rendering can finish before the markup is read.
	Settle time.Duration
}

// DefaultBrowserConfig matches the fetch budget used throughout the
// pipeline: 10s navigation, 2s settle.
func DefaultBrowserConfig() BrowserConfig {
	return BrowserConfig{
		Headless: true,
		Timeout:  10 * time.Second,
		Settle:   2 * time.Second,
	}
}

// Browser fetches pages through a headless Chromium instance. The
// browser process is shared, but every Fetch call creates and tears
// down its own browser context and page, so one bad page cannot leak
// state or resources into the next fetch. Sharing the process trades
// away crash-level isolation: if Chromium itself wedges, every
// subsequent fetch fails until the Browser is recreated.
type Browser struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     BrowserConfig
}

// NewBrowser starts playwright and launches Chromium.
func NewBrowser(cfg BrowserConfig) (*Browser, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	if cfg.Settle <= 0 {
		cfg.Settle = 2 * time.Second
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, eris.Wrap(err, "fetch: start playwright")
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()

		return nil, eris.Wrap(err, "fetch: launch chromium")
	}

	return &Browser{pw: pw, browser: browser, cfg: cfg}, nil
}

// Fetch navigates an isolated page to url, waits the settle period and
// returns the rendered markup. The page and its context are closed on
// every exit path.
func (b *Browser) Fetch(ctx context.Context, url string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	bctx, err := b.browser.NewContext()
	if err != nil {
		return "", eris.Wrap(err, "fetch: new browser context")
	}
	defer func() { _ = bctx.Close() }()

	page, err := bctx.NewPage()
	if err != nil {
		return "", eris.Wrap(err, "fetch: new page")
	}
	defer func() { _ = page.Close() }()

	_, err = page.Goto(url, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(b.cfg.Timeout.Milliseconds())),
	})
	if err != nil {
		return "", eris.Wrapf(err, "fetch: goto %s", url)
	}

	page.WaitForTimeout(float64(b.cfg.Settle.Milliseconds()))

	content, err := page.Content()
	if err != nil {
		return "", eris.Wrapf(err, "fetch: content of %s", url)
	}

	return content, nil
}

// Close releases the shared browser process.
func (b *Browser) Close() error {
	if err := b.browser.Close(); err != nil {
		_ = b.pw.Stop()

		return eris.Wrap(err, "fetch: close browser")
	}

	return b.pw.Stop()
}
