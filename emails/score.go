package emails

import "strings"

// contextWords mark a contact context around an address in visible
// text; "inquir" deliberately matches inquiry/inquiries/inquire.
var contextWords = []string{"contact", "inquir", "media", "reach us", "email us"}

const contextWindow = 40

// Score assigns a relevance score to a candidate address. It is a pure
// function of presence and position: role addresses and footer or
// contact-context placement indicate an intentionally published contact
// channel, while developer and agency addresses point at whoever built
// the site rather than the business itself.
func Score(address, visibleText, footerText string) int {
	addr := strings.ToLower(address)
	visible := strings.ToLower(visibleText)
	footer := strings.ToLower(footerText)

	s := 0

	if strings.Contains(addr, "info@") || strings.Contains(addr, "contact@") || strings.Contains(addr, "support@") {
		s += 10
	}

	if strings.Contains(visible, addr) {
		s += 5
	}

	if footer != "" && strings.Contains(footer, addr) {
		s += 5
	}

	// The window looks at the text surrounding the address, not the
	// address itself, so a contact@ local part cannot self-match.
	if idx := strings.Index(visible, addr); idx >= 0 {
		start := idx - contextWindow
		if start < 0 {
			start = 0
		}

		end := idx + len(addr) + contextWindow
		if end > len(visible) {
			end = len(visible)
		}

		window := visible[start:idx] + " " + visible[idx+len(addr):end]

		for _, w := range contextWords {
			if strings.Contains(window, w) {
				s += 5

				break
			}
		}
	}

	if strings.Contains(addr, "dev@") || strings.Contains(addr, "webmaster@") || strings.Contains(addr, "agency") {
		s -= 5
	}

	return s
}
