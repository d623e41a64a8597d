// Package emails implements email discovery for a business website:
// candidate extraction from markup, denylist validation, deterministic
// relevance scoring, and a Finder that drives the whole two-tier
// process (heuristic extraction first, AI-assisted fallback last).
package emails

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mcnijman/go-emailaddress"
)

// Page holds everything extracted from one fetched page that scoring
// needs: the candidate addresses in discovery order, plus the
// lowercased visible and footer text used as positional signals.
type Page struct {
	Candidates  []string
	VisibleText string
	FooterText  string
}

// ParsePage extracts candidates and scoring context from raw markup.
// Mailto anchors come first (they are deliberate, user-facing contact
// channels), followed by free-text matches over the raw markup. Order
// is stable so that score ties resolve to the first candidate seen.
// Malformed markup yields an empty Page, never an error.
func ParsePage(markup string) Page {
	var page Page

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return page
	}

	seen := make(map[string]bool)

	doc.Find("a[href^='mailto:'], a[href^='Mailto:'], a[href^='MAILTO:']").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}

		value := strings.TrimSpace(href)
		if strings.HasPrefix(strings.ToLower(value), "mailto:") {
			value = value[len("mailto:"):]
		}

		// Strip query parameters (e.g. ?subject=...).
		if idx := strings.Index(value, "?"); idx >= 0 {
			value = value[:idx]
		}

		lower := strings.ToLower(strings.TrimSpace(value))
		if lower == "" || seen[lower] {
			return
		}

		seen[lower] = true
		page.Candidates = append(page.Candidates, lower)
	})

	// Free-text matches over the raw markup. Scanning markup rather
	// than visible text also catches addresses hidden in attributes;
	// the denylist filters out the asset-URL artifacts this drags in.
	for _, addr := range emailaddress.Find([]byte(markup), false) {
		lower := strings.ToLower(addr.String())
		if seen[lower] {
			continue
		}

		seen[lower] = true
		page.Candidates = append(page.Candidates, lower)
	}

	page.VisibleText = visibleText(doc)
	page.FooterText = collapseSpace(doc.Find("footer").Text())

	return page
}

// visibleText returns the page's rendered text, lowercased and
// whitespace-collapsed, with non-visible elements removed.
func visibleText(doc *goquery.Document) string {
	clone := doc.Clone()
	clone.Find("script, style, noscript").Remove()

	return collapseSpace(clone.Text())
}

func collapseSpace(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
