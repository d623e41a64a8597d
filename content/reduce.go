// Package content turns raw page markup into dense, duplicate-free
// text suitable as generative-model input. It is a precision filter,
// not a lossless transform.
package content

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// minBlockLen drops boilerplate fragments like cookie notices and
	// one-line labels.
	minBlockLen = 40

	// dedupPrefixLen identifies duplicate blocks by a fixed-length
	// prefix; page builders repeat whole sections with trailing noise.
	dedupPrefixLen = 100
)

// strippedSelectors removes everything that carries no business
// meaning: code, chrome, navigation, forms and decoration.
const strippedSelectors = "script, style, noscript, iframe, svg, footer, nav, form, aside"

// sectionKeywords matches id/class attributes of containers that
// typically describe the business itself.
var sectionKeywords = regexp.MustCompile(`(?i)(about|service|what[\s\-]?we[\s\-]?do|company|solution)`)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// Reduce extracts the business-relevant text blocks from markup:
// headings, keyword-matched about/services sections, the main content
// container, or the longest text block as a last resort. Blocks are
// deduplicated, length-filtered and joined with blank lines. Malformed
// markup yields an empty string.
func Reduce(markup string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return ""
	}

	doc.Find(strippedSelectors).Remove()

	var blocks []string

	doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := blockText(s); text != "" {
			blocks = append(blocks, text)
		}
	})

	doc.Find("section, div").Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		class, _ := s.Attr("class")

		if !sectionKeywords.MatchString(id) && !sectionKeywords.MatchString(class) {
			return
		}

		if text := blockText(s); len(text) > minBlockLen {
			blocks = append(blocks, text)
		}
	})

	if main := doc.Find("main").First(); main.Length() > 0 {
		if text := blockText(main); len(text) > minBlockLen {
			blocks = append(blocks, text)
		}
	} else if longest := longestDiv(doc); len(longest) > minBlockLen {
		blocks = append(blocks, longest)
	}

	seen := make(map[string]bool)

	var final []string

	for _, b := range blocks {
		if len(b) <= minBlockLen {
			continue
		}

		key := b
		if len(key) > dedupPrefixLen {
			key = key[:dedupPrefixLen]
		}

		if seen[key] {
			continue
		}

		seen[key] = true
		final = append(final, b)
	}

	text := strings.Join(final, "\n\n")
	text = excessNewlines.ReplaceAllString(text, "\n\n")

	return strings.TrimSpace(text)
}

// blockText returns the selection's text with whitespace collapsed to
// single spaces.
func blockText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

// longestDiv returns the text of the longest text-bearing div, used
// when the document has no main element.
func longestDiv(doc *goquery.Document) string {
	var longest string

	doc.Find("div").Each(func(_ int, s *goquery.Selection) {
		if text := blockText(s); len(text) > len(longest) {
			longest = text
		}
	})

	return longest
}
