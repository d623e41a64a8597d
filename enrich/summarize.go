// Package enrich implements the business enrichment stages (email
// discovery, summarization, outreach drafting) and the orchestrator
// that sequences them over a batch of records.
package enrich

import (
	"fmt"
	"regexp"
	"strings"
)

const summaryPromptTemplate = `You are a senior business analyst with deep expertise in digital strategy and market positioning.

Your task is to analyze the text content of a business's website and produce two clear, structured outputs: a **concise summary** of what the business does and a list of **likely challenges or growth opportunities**, based only on observable information (do not speculate).

First, take a step back and follow this reasoning chain:
1. Identify the core product/service offerings.
2. Examine target industries, client types, and any service features.
3. Look for indicators of company positioning, scale, and language tone (e.g., "cutting-edge", "trusted by", "fast-growing").
4. From this context, infer only *observable* challenges or areas for improvement (e.g., complexity of service, competitive pressure, scaling pains, unclear differentiation).

Use this structure in your response:

---
**What the Business Does**
Summarize in 3-6 sentences using clear language. Start with "This company..." and refer to key services, audience, and value proposition.

**Potential Pain Points / Challenges**
- [Write up to 3 bullet points. Focus on marketing, operational, or product-related signals from the content.]
- [Avoid repeating the summary. Prioritize real-world business frictions hinted at in the content.]
- [Only use cues visible in the content.]
---

If no reliable business description can be made from the content, respond with:
> Unable to extract meaningful business summary from the content provided.

Now analyze the following website content:

%s`

// SummaryPrompt renders the summarization prompt for reduced website
// text.
func SummaryPrompt(reducedText string) string {
	return fmt.Sprintf(summaryPromptTemplate, reducedText)
}

// Header-anchored patterns; the model occasionally decorates headers,
// so matching is forgiving about everything except the headers
// themselves.
var (
	summaryPattern = regexp.MustCompile(`(?is)\*\*What the Business Does\*\*\s*(.*?)\*\*Potential Pain Points`)
	painPattern    = regexp.MustCompile(`(?is)\*\*Potential Pain Points[^*]*\*\*\s*((?:[•\-*].*\n?)+)`)
)

// ParseSummary extracts the prose summary and the pain-point bullets
// from a structured model reply. An absent section yields an empty
// result for that section, not an error.
func ParseSummary(reply string) (summary string, painPoints []string) {
	if m := summaryPattern.FindStringSubmatch(reply); m != nil {
		summary = strings.TrimSpace(m[1])
	}

	if m := painPattern.FindStringSubmatch(reply); m != nil {
		for _, line := range strings.Split(m[1], "\n") {
			line = strings.TrimSpace(line)
			line = strings.TrimLeft(line, "•-* ")
			line = strings.TrimSpace(line)

			if line != "" {
				painPoints = append(painPoints, line)
			}
		}
	}

	return summary, painPoints
}
