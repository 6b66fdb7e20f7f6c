package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Example.com", "example.com"},
		{"https://example.com", "example.com"},
		{"http://www.example.com/", "example.com"},
		{"example.com:8080", "example.com"},
		{"https://www.example.com:443/path?q=1", "example.com"},
		{"  EXAMPLE.COM  ", "example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeDomain(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeDomain_Idempotent(t *testing.T) {
	inputs := []string{
		"https://www.Example.com:8080/path/",
		"blog.example.co.uk",
		"example.com",
	}
	for _, in := range inputs {
		once := NormalizeDomain(in)
		assert.Equal(t, once, NormalizeDomain(once), "input %q", in)
	}
}

func TestExtractDomainFromURL(t *testing.T) {
	assert.Equal(t, "example.com", ExtractDomainFromURL("https://www.example.com/page"))
	assert.Equal(t, "blog.example.com", ExtractDomainFromURL("https://blog.example.com/x?y=1"))
	assert.Equal(t, "", ExtractDomainFromURL(""))

	// Malformed scraped hrefs fall back to regex extraction.
	assert.Equal(t, "example.com", ExtractDomainFromURL("example.com/some page with spaces"))
}

func TestDomainMatches(t *testing.T) {
	// Exact and subdomain matches.
	assert.True(t, DomainMatches("https://example.com/x", "example.com"))
	assert.True(t, DomainMatches("https://www.example.com/x", "example.com"))
	assert.True(t, DomainMatches("https://blog.example.com/x", "example.com"))
	assert.True(t, DomainMatches("https://example.com", "https://www.example.com/"))

	// A broader domain must not match a string that merely contains the
	// target as a substring.
	assert.False(t, DomainMatches("https://example.com.evil.com", "example.com"))
	assert.False(t, DomainMatches("https://notexample.com/x", "example.com"))
	assert.False(t, DomainMatches("https://example.org/x", "example.com"))

	// The reverse direction must not match either.
	assert.False(t, DomainMatches("https://example.com/x", "blog.example.com"))

	assert.False(t, DomainMatches("", "example.com"))
	assert.False(t, DomainMatches("https://example.com", ""))
}
