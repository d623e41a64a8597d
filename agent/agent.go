// Package agent implements the AI-assisted email extraction path of
// last resort. The agent is handed a website URL and a capability to
// fetch and read pages on demand; it drives a short tool loop against
// the generative-text service and must end with either an extracted
// address or an explicit none signal.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/leadflow/leadflow/content"
	"github.com/leadflow/leadflow/fetch"
	"github.com/leadflow/leadflow/llm"
)

const (
	// maxSteps bounds the tool loop; the agent is the expensive tier
	// and gets a handful of page reads, not a crawl budget.
	maxSteps = 4

	// maxPageChars caps how much of a fetched page is fed back into
	// the conversation.
	maxPageChars = 6000
)

const instructions = `You are a web research agent. Your ONLY task is to extract a contact email address for the business at %s.

You may request any page of that site (such as /contact or /about) by replying with exactly one line:
FETCH <full url>

When you have found a contact email, reply with exactly one line:
EMAIL <address>

If you are confident no contact email exists on the site, reply with exactly one line:
NONE

Reply with exactly one of FETCH, EMAIL, or NONE and nothing else.`

// Agent is the LLM-backed fallback extractor.
type Agent struct {
	completer llm.Completer
	fetcher   fetch.Fetcher
}

// New creates an Agent over the given completer and page fetcher.
func New(completer llm.Completer, fetcher fetch.Fetcher) *Agent {
	return &Agent{completer: completer, fetcher: fetcher}
}

// FindEmail runs the tool loop for one website. It returns the
// extracted address, "" when the agent explicitly reports none, or an
// error when the loop cannot reach either terminal reply.
func (a *Agent) FindEmail(ctx context.Context, url string) (string, error) {
	transcript := fmt.Sprintf(instructions, url)

	for step := 0; step < maxSteps; step++ {
		reply, err := a.completer.Complete(ctx, transcript)
		if err != nil {
			return "", eris.Wrap(err, "agent: completion")
		}

		verb, arg := parseDirective(reply)

		switch verb {
		case "EMAIL":
			return strings.ToLower(arg), nil

		case "NONE":
			return "", nil

		case "FETCH":
			pageText := a.readPage(ctx, arg)
			transcript += fmt.Sprintf("\n\nFETCH %s returned:\n%s\n\nReply with FETCH, EMAIL, or NONE.", arg, pageText)

		default:
			return "", eris.Errorf("agent: unparseable reply %q", firstLine(reply))
		}
	}

	return "", eris.New("agent: step budget exhausted")
}

// readPage fetches and reduces a page for the transcript. Fetch
// failures are reported back to the model rather than ending the loop;
// it may try another page or give up.
func (a *Agent) readPage(ctx context.Context, url string) string {
	markup, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		zap.L().Warn("agent fetch failed", zap.String("url", url), zap.Error(err))

		return "ERROR: " + err.Error()
	}

	text := content.Reduce(markup)
	if len(text) > maxPageChars {
		text = text[:maxPageChars]
	}

	if text == "" {
		return "(page had no extractable text)"
	}

	return text
}

// parseDirective finds the first FETCH/EMAIL/NONE line in a reply,
// tolerating surrounding prose and markdown emphasis.
func parseDirective(reply string) (verb, arg string) {
	for _, line := range strings.Split(reply, "\n") {
		line = strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "*`"))
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)

		switch {
		case upper == "NONE":
			return "NONE", ""
		case strings.HasPrefix(upper, "EMAIL "):
			return "EMAIL", strings.TrimSpace(line[len("EMAIL "):])
		case strings.HasPrefix(upper, "FETCH "):
			return "FETCH", strings.TrimSpace(line[len("FETCH "):])
		}
	}

	return "", ""
}

func firstLine(s string) string {
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}

	return s
}
