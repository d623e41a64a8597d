package emails

import (
	"regexp"
	"strings"
)

// denylist rejects addresses that are build-tool or CDN artifacts,
// automated mailboxes, or obvious placeholders. Matched as substrings,
// case-insensitively, against the whole address.
var denylist = []string{
	"bootstrap",
	"fontawesome",
	"googleapis",
	"cloudflare",
	"cdn",
	"localhost",
	"example.com",
	"fancybox",
	"admin@",
	"test@",
	"noreply@",
}

// fallbackBlockedDomains are never accepted from the AI-assisted
// fallback, which is more prone to inventing plausible placeholders.
var fallbackBlockedDomains = []string{"example.com", "email.com"}

var emailShape = regexp.MustCompile(`^[\w.+-]+@[\w.-]+\.\w+$`)

// IsValid reports whether address passes the denylist and a minimal
// local@domain.tld shape check. If domainHint is non-empty the address
// must contain it; the default discovery path passes "".
func IsValid(address, domainHint string) bool {
	if address == "" || !strings.Contains(address, "@") {
		return false
	}

	lower := strings.ToLower(address)

	for _, bad := range denylist {
		if strings.Contains(lower, bad) {
			return false
		}
	}

	if domainHint != "" && !strings.Contains(lower, strings.ToLower(domainHint)) {
		return false
	}

	return emailShape.MatchString(lower)
}

// AcceptFromFallback validates an address produced by the fallback
// agent. On top of IsValid it rejects the placeholder domains outright,
// by exact domain match.
func AcceptFromFallback(address string) bool {
	if !IsValid(address, "") {
		return false
	}

	lower := strings.ToLower(address)

	atIdx := strings.LastIndex(lower, "@")
	domain := lower[atIdx+1:]

	for _, blocked := range fallbackBlockedDomains {
		if domain == blocked {
			return false
		}
	}

	return true
}
