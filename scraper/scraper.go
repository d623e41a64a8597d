// Package scraper discovers local businesses on Google Maps for a
// search query. It is the upstream collaborator of the enrichment
// pipeline: the batch it produces is already filtered to records with
// a usable website.
package scraper

import (
	"context"

	"github.com/leadflow/leadflow/leads"
)

// Scraper produces the initial batch of business records for a query.
type Scraper interface {
	Scrape(ctx context.Context, query string, maxLinks int) ([]leads.Business, error)
}

// Func adapts a function to the Scraper interface.
type Func func(ctx context.Context, query string, maxLinks int) ([]leads.Business, error)

func (f Func) Scrape(ctx context.Context, query string, maxLinks int) ([]leads.Business, error) {
	return f(ctx, query, maxLinks)
}
