// Package rank evaluates normalized result sets against a target domain and
// reduces per-point results into scan-level visibility statistics.
package rank

import (
	"net/url"
	"regexp"
	"strings"
)

// hostRe recovers a hostname from hrefs that url.Parse rejects; malformed
// scraped links are expected on the raw path.
var hostRe = regexp.MustCompile(`(?i)^(?:[a-z][a-z0-9+.-]*:\/\/)?(?:[^@\/\s]+@)?([a-z0-9.-]+)`)

// NormalizeDomain lower-cases and strips protocol, leading www., trailing
// slash, and port. Idempotent.
func NormalizeDomain(d string) string {
	d = strings.TrimSpace(strings.ToLower(d))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	if i := strings.LastIndex(d, ":"); i >= 0 {
		// Only strip a numeric port, not e.g. an IPv6 segment.
		if port := d[i+1:]; portLike(port) {
			d = d[:i]
		}
	}
	d = strings.TrimPrefix(d, "www.")
	return strings.TrimSuffix(d, "/")
}

func portLike(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ExtractDomainFromURL parses the URL's host, falling back to a regex
// extraction when the href does not parse.
func ExtractDomainFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return NormalizeDomain(u.Host)
	}
	if m := hostRe.FindStringSubmatch(raw); len(m) > 1 {
		return NormalizeDomain(m[1])
	}
	return ""
}

// DomainMatches reports whether the URL belongs to the target domain: an
// exact normalized match, or a host that is a strict subdomain of the target
// (blog.x.com matches x.com). The reverse must not match — x.com.evil.com
// merely contains the target as a substring.
func DomainMatches(rawURL, target string) bool {
	host := ExtractDomainFromURL(rawURL)
	targetNorm := NormalizeDomain(target)
	if host == "" || targetNorm == "" {
		return false
	}
	if host == targetNorm {
		return true
	}
	return strings.HasSuffix(host, "."+targetNorm)
}
