// Package fetch loads web pages for the enrichment pipeline. Two
// implementations are provided: a playwright-driven browser fetcher
// that returns client-side rendered markup, and a plain HTTP fetcher
// for environments without a browser. Both return an error instead of
// propagating failures; the caller decides how to proceed.
package fetch

import "context"

// Fetcher loads a page and returns its markup.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Func adapts a function to the Fetcher interface.
type Func func(ctx context.Context, url string) (string, error)

func (f Func) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}
