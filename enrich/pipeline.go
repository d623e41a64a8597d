package enrich

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/leadflow/leadflow/content"
	"github.com/leadflow/leadflow/emails"
	"github.com/leadflow/leadflow/fetch"
	"github.com/leadflow/leadflow/leads"
	"github.com/leadflow/leadflow/llm"
)

// maxPromptChars caps the reduced text handed to the summarizer.
const maxPromptChars = 6000

// summaryFailureSentinel is the reply the summarization template
// prescribes when the page carries no usable description.
const summaryFailureSentinel = "unable to extract meaningful business summary"

// Pipeline sequences the enrichment stages over a record batch:
// email discovery (with post-discovery filtering), content reduction
// plus summarization, and outreach drafting. Stages mutate the shared
// state in place; a failure on one record never aborts the rest.
type Pipeline struct {
	fetcher   fetch.Fetcher
	finder    *emails.Finder
	completer llm.Completer
}

// NewPipeline wires the stages over their collaborators.
func NewPipeline(fetcher fetch.Fetcher, finder *emails.Finder, completer llm.Completer) *Pipeline {
	return &Pipeline{fetcher: fetcher, finder: finder, completer: completer}
}

// Run executes the full stage sequence over st.
func (p *Pipeline) Run(ctx context.Context, st *leads.State) {
	p.discoverEmails(ctx, st)
	p.summarize(ctx, st)
	p.draftOutreach(ctx, st)
}

// discoverEmails resolves a contact address for every record and then
// filters the batch down to records that have one; later stages only
// ever see records with a usable contact address.
func (p *Pipeline) discoverEmails(ctx context.Context, st *leads.State) {
	kept := make([]leads.Business, 0, len(st.Businesses))

	for i := range st.Businesses {
		b := &st.Businesses[i]

		if b.Email == "" {
			res := p.finder.Find(ctx, b.Website)
			if res.Found {
				b.Email = res.Email
				b.EmailSource = res.Source
			}
		}

		if b.Email == "" {
			zap.L().Info("dropping business, no valid email found",
				zap.String("name", b.Name),
				zap.String("website", b.Website),
			)

			continue
		}

		kept = append(kept, *b)
	}

	st.Businesses = kept
}

// summarize fetches each record's website, reduces it to
// business-relevant text and asks the model for the structured
// summary. Any per-record failure is logged and leaves the record
// unmodified.
func (p *Pipeline) summarize(ctx context.Context, st *leads.State) {
	for i := range st.Businesses {
		b := &st.Businesses[i]

		zap.L().Info("summarizing business", zap.String("name", b.Name))

		markup, err := p.fetcher.Fetch(ctx, b.Website)
		if err != nil {
			zap.L().Warn("summary fetch failed",
				zap.String("website", b.Website),
				zap.Error(err),
			)

			continue
		}

		reduced := content.Reduce(markup)
		if len(reduced) > maxPromptChars {
			reduced = reduced[:maxPromptChars]
		}

		reply, err := p.completer.Complete(ctx, SummaryPrompt(reduced))
		if err != nil {
			zap.L().Warn("summary generation failed",
				zap.String("name", b.Name),
				zap.Error(err),
			)

			continue
		}

		if strings.Contains(strings.ToLower(reply), summaryFailureSentinel) {
			continue
		}

		summary, points := ParseSummary(reply)
		b.Summary = summary
		b.PainPoints = leads.JoinPainPoints(points)
	}
}

// draftOutreach generates the outreach message for every record that
// has both a summary and pain points; anything else keeps the
// sentinel.
func (p *Pipeline) draftOutreach(ctx context.Context, st *leads.State) {
	for i := range st.Businesses {
		b := &st.Businesses[i]

		if b.Summary == "" || b.PainPoints == "" {
			continue
		}

		text, err := Draft(ctx, p.completer, b.Summary, b.PainPoints, b.Name)
		if err != nil {
			zap.L().Warn("outreach drafting failed",
				zap.String("name", b.Name),
				zap.Error(err),
			)

			continue
		}

		b.OutreachEmail = text
	}
}
