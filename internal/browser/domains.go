package browser

import (
	"net/url"
	"strings"
)

// DomainAllowed reports whether rawURL's host is one of the allowed domains
// or a subdomain of one. An empty allow list permits everything.
func DomainAllowed(rawURL string, allowed []string) bool {
	if len(allowed) == 0 {
		return true
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}

	for _, domain := range allowed {
		domain = strings.ToLower(strings.TrimSpace(domain))
		if domain == "" {
			continue
		}
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}
