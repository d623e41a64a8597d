package emails

import (
	"context"
	"math"
	"net/url"

	"go.uber.org/zap"

	"github.com/leadflow/leadflow/fetch"
)

// discoveryPaths are the canonical locations tried for every business,
// in order, relative to the website root.
var discoveryPaths = []string{"", "/contact", "/about"}

// Discovery sources reported in Result.Source.
const (
	SourceExtractor = "smart_extractor"
	SourceLLM       = "llm"
)

// FallbackAgent is the AI-assisted extraction path of last resort. It
// is handed the website URL and may fetch pages on its own; it returns
// the extracted address, or "" when it explicitly found none.
type FallbackAgent interface {
	FindEmail(ctx context.Context, url string) (string, error)
}

// Result is the terminal state of one discovery pass.
type Result struct {
	Email  string
	Source string
	Found  bool
}

// Finder drives email discovery for a single business at a time:
// deterministic extraction and scoring over the canonical paths first,
// escalation to the fallback agent only when that yields nothing.
type Finder struct {
	fetcher  fetch.Fetcher
	fallback FallbackAgent
}

// NewFinder creates a Finder. fallback may be nil, in which case
// discovery ends at the heuristic tier.
func NewFinder(fetcher fetch.Fetcher, fallback FallbackAgent) *Finder {
	return &Finder{fetcher: fetcher, fallback: fallback}
}

// Find runs the discovery state machine for one website. A fetch
// failure on a path skips that path only; the best-scoring valid
// candidate across all paths wins, with exact ties keeping the first
// candidate encountered.
func (f *Finder) Find(ctx context.Context, website string) Result {
	var (
		best      string
		bestScore = math.MinInt
	)

	for _, path := range discoveryPaths {
		pageURL := joinPath(website, path)

		markup, err := f.fetcher.Fetch(ctx, pageURL)
		if err != nil {
			zap.L().Warn("discovery fetch failed",
				zap.String("url", pageURL),
				zap.Error(err),
			)

			continue
		}

		page := ParsePage(markup)

		for _, cand := range page.Candidates {
			if !IsValid(cand, "") {
				continue
			}

			if s := Score(cand, page.VisibleText, page.FooterText); s > bestScore {
				best, bestScore = cand, s
			}
		}
	}

	if best != "" {
		return Result{Email: best, Source: SourceExtractor, Found: true}
	}

	if f.fallback == nil {
		return Result{}
	}

	email, err := f.fallback.FindEmail(ctx, website)
	if err != nil {
		zap.L().Warn("fallback extraction failed",
			zap.String("website", website),
			zap.Error(err),
		)

		return Result{}
	}

	if email == "" || !AcceptFromFallback(email) {
		return Result{}
	}

	return Result{Email: email, Source: SourceLLM, Found: true}
}

// joinPath resolves path against the website root; an empty path is
// the root itself.
func joinPath(website, path string) string {
	if path == "" {
		return website
	}

	base, err := url.Parse(website)
	if err != nil {
		return website + path
	}

	ref, err := url.Parse(path)
	if err != nil {
		return website + path
	}

	return base.ResolveReference(ref).String()
}
