package leads

import (
	"net/url"
	"strings"
)

// OutreachNone is the sentinel value held by OutreachEmail until an
// outreach message has actually been drafted for the business.
const OutreachNone = "none"

// Business is one discovered local business flowing through the
// enrichment pipeline. Every field after SourceURL is populated
// additively by a pipeline stage; no stage removes data.
type Business struct {
	Name          string `json:"name"`
	Location      string `json:"location"`
	Website       string `json:"website"`
	SourceURL     string `json:"source_url"`
	Email         string `json:"email,omitempty"`
	EmailSource   string `json:"email_source,omitempty"`
	Summary       string `json:"summary,omitempty"`
	PainPoints    string `json:"pain_points,omitempty"`
	OutreachEmail string `json:"outreach_email"`
}

// New creates a Business with the outreach sentinel in place.
func New(name, location, website, sourceURL string) Business {
	return Business{
		Name:          name,
		Location:      location,
		Website:       website,
		SourceURL:     sourceURL,
		OutreachEmail: OutreachNone,
	}
}

// JoinPainPoints normalizes a list of pain points into the canonical
// single-string form. Normalization happens here, at construction time,
// and nowhere else; PainPoints is a string at every stage boundary.
func JoinPainPoints(points []string) string {
	trimmed := make([]string, 0, len(points))

	for _, p := range points {
		p = strings.TrimSpace(p)
		if p != "" {
			trimmed = append(trimmed, p)
		}
	}

	return strings.Join(trimmed, "; ")
}

// socialDomains are aggregator and social sites that show up as the
// "website" of a maps listing but never carry the business's own
// contact details.
var socialDomains = []string{
	"facebook.com",
	"instagram.com",
	"twitter.com",
	"linkedin.com",
	"youtube.com",
	"tiktok.com",
	"pinterest.com",
	"yelp.com",
	"tripadvisor.com",
}

// HasUsableWebsite reports whether the business website is worth
// visiting for email discovery: an absolute http(s) URL that is not a
// social network or review aggregator.
func (b *Business) HasUsableWebsite() bool {
	if b.Website == "" {
		return false
	}

	u, err := url.Parse(b.Website)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	host := strings.ToLower(u.Host)

	for _, d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return false
		}
	}

	return true
}

// State is the mutable collection threaded through one pipeline run,
// together with the query parameters that produced it. It is owned
// exclusively by the pipeline for the run's duration.
type State struct {
	SearchQuery string     `json:"search_query"`
	MaxLinks    int        `json:"max_links"`
	Businesses  []Business `json:"businesses"`
}
