package scraper

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow/leads"
)

// Config controls the maps crawl.
type Config struct {
	Headless   bool
	MaxScrolls int
	// NavTimeout bounds every page navigation.
	NavTimeout time.Duration
	// Settle is the wait after loading a place page before reading it.
	Settle time.Duration
}

// DefaultConfig mirrors the crawl budget of the scroll loop: fifteen
// feed scrolls, 10s navigation, 3s place settle.
func DefaultConfig() Config {
	return Config{
		Headless:   true,
		MaxScrolls: 15,
		NavTimeout: 10 * time.Second,
		Settle:     3 * time.Second,
	}
}

const (
	feedSelector      = `div[role="feed"]`
	placeLinkSelector = `div[role="feed"] a[href*="/maps/place/"]`
	websiteSelector   = `a[data-item-id="authority"]`
	addressSelector   = `button[data-item-id="address"]`

	titleSuffix = " - Google Maps"
)

// GoogleMaps crawls the maps search feed with a headless browser.
type GoogleMaps struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	cfg     Config
}

// NewGoogleMaps starts playwright and launches the crawl browser.
func NewGoogleMaps(cfg Config) (*GoogleMaps, error) {
	if cfg.MaxScrolls <= 0 {
		cfg.MaxScrolls = 15
	}

	if cfg.NavTimeout <= 0 {
		cfg.NavTimeout = 10 * time.Second
	}

	if cfg.Settle <= 0 {
		cfg.Settle = 3 * time.Second
	}

	pw, err := playwright.Run()
	if err != nil {
		return nil, eris.Wrap(err, "scraper: start playwright")
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(cfg.Headless),
	})
	if err != nil {
		_ = pw.Stop()

		return nil, eris.Wrap(err, "scraper: launch chromium")
	}

	return &GoogleMaps{pw: pw, browser: browser, cfg: cfg}, nil
}

// Scrape loads the search feed, scrolls it to surface more results,
// harvests up to maxLinks place links and visits each place for its
// details. Records without a usable website are excluded; a failure on
// one place skips that place only.
func (g *GoogleMaps) Scrape(ctx context.Context, query string, maxLinks int) ([]leads.Business, error) {
	bctx, err := g.browser.NewContext()
	if err != nil {
		return nil, eris.Wrap(err, "scraper: new browser context")
	}
	defer func() { _ = bctx.Close() }()

	links, err := g.collectPlaceLinks(ctx, bctx, query, maxLinks)
	if err != nil {
		return nil, err
	}

	zap.L().Info("places found", zap.Int("count", len(links)), zap.String("query", query))

	var businesses []leads.Business

	for _, link := range links {
		select {
		case <-ctx.Done():
			return businesses, ctx.Err()
		default:
		}

		b, err := g.scrapePlace(bctx, link)
		if err != nil {
			zap.L().Warn("place scrape failed", zap.String("url", link), zap.Error(err))

			continue
		}

		if !b.HasUsableWebsite() {
			zap.L().Debug("skipping place without usable website",
				zap.String("name", b.Name),
				zap.String("website", b.Website),
			)

			continue
		}

		businesses = append(businesses, b)
	}

	return businesses, nil
}

func (g *GoogleMaps) collectPlaceLinks(ctx context.Context, bctx playwright.BrowserContext, query string, maxLinks int) ([]string, error) {
	page, err := bctx.NewPage()
	if err != nil {
		return nil, eris.Wrap(err, "scraper: new page")
	}
	defer func() { _ = page.Close() }()

	searchURL := "https://www.google.com/maps/search/" + url.PathEscape(query)

	if _, err := page.Goto(searchURL, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(g.cfg.NavTimeout.Milliseconds())),
	}); err != nil {
		return nil, eris.Wrapf(err, "scraper: goto %s", searchURL)
	}

	clickRejectCookiesIfRequired(page)

	if _, err := page.WaitForSelector(feedSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(float64(g.cfg.NavTimeout.Milliseconds())),
	}); err != nil {
		return nil, eris.Wrap(err, "scraper: search feed did not appear")
	}

	for i := 0; i < g.cfg.MaxScrolls; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if _, err := page.Evaluate(`() => {
			const el = document.querySelector('div[role="feed"]');
			if (el) el.scrollBy(0, 1000);
		}`); err != nil {
			return nil, eris.Wrap(err, "scraper: feed scroll")
		}

		page.WaitForTimeout(2000)
	}

	anchors := page.Locator(placeLinkSelector)

	count, err := anchors.Count()
	if err != nil {
		return nil, eris.Wrap(err, "scraper: count place links")
	}

	seen := make(map[string]bool)

	var links []string

	for i := 0; i < count && len(links) < maxLinks; i++ {
		href, err := anchors.Nth(i).GetAttribute("href")
		if err != nil || href == "" {
			continue
		}

		if !strings.Contains(href, "/maps/place/") || seen[href] {
			continue
		}

		seen[href] = true
		links = append(links, href)
	}

	return links, nil
}

// scrapePlace opens one place page and reads the listing details.
// Every place gets its own page, closed before returning.
func (g *GoogleMaps) scrapePlace(bctx playwright.BrowserContext, link string) (leads.Business, error) {
	page, err := bctx.NewPage()
	if err != nil {
		return leads.Business{}, eris.Wrap(err, "scraper: new place page")
	}
	defer func() { _ = page.Close() }()

	if _, err := page.Goto(link, playwright.PageGotoOptions{
		Timeout: playwright.Float(float64(g.cfg.NavTimeout.Milliseconds())),
	}); err != nil {
		return leads.Business{}, eris.Wrapf(err, "scraper: goto place %s", link)
	}

	page.WaitForTimeout(float64(g.cfg.Settle.Milliseconds()))

	name := ""
	if title, err := page.Title(); err == nil {
		name = strings.TrimSpace(strings.TrimSuffix(title, titleSuffix))
	}

	website := attrOfFirst(page, websiteSelector, "href")
	address := textOfFirst(page, addressSelector)

	return leads.New(name, address, website, link), nil
}

func attrOfFirst(page playwright.Page, selector, attr string) string {
	loc := page.Locator(selector)

	count, err := loc.Count()
	if err != nil || count == 0 {
		return ""
	}

	val, err := loc.First().GetAttribute(attr)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(val)
}

func textOfFirst(page playwright.Page, selector string) string {
	loc := page.Locator(selector)

	count, err := loc.Count()
	if err != nil || count == 0 {
		return ""
	}

	text, err := loc.First().TextContent()
	if err != nil {
		return ""
	}

	return strings.TrimSpace(text)
}

// clickRejectCookiesIfRequired dismisses the consent interstitial that
// Google shows in some regions. Done in one script evaluation, which
// is faster than probing multiple locators.
func clickRejectCookiesIfRequired(page playwright.Page) {
	_, _ = page.Evaluate(`() => {
		const consentForm = document.querySelector('form[action*="consent.google"]');
		if (consentForm) {
			const btn = consentForm.querySelector('button, input[type="submit"]');
			if (btn) {
				btn.click();
				return true;
			}
		}
		const buttons = document.querySelectorAll('button, input[type="submit"]');
		for (const btn of buttons) {
			const text = (btn.textContent || btn.value || '').toLowerCase();
			if (text.includes('reject') || text.includes('decline') || text.includes('ablehnen')) {
				btn.click();
				return true;
			}
		}
		return false;
	}`)
}

// Close releases the crawl browser.
func (g *GoogleMaps) Close() error {
	if err := g.browser.Close(); err != nil {
		_ = g.pw.Stop()

		return eris.Wrap(err, "scraper: close browser")
	}

	return g.pw.Stop()
}
