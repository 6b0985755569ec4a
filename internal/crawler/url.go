package crawler

import (
	"fmt"
	"net/url"
	"strings"
)

// Canonicalize reduces rawURL to scheme, host, and path. Query strings and
// fragments are dropped so tracking parameters and anchors do not create
// duplicate crawl entries.
func Canonicalize(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("url %q has no host", rawURL)
	}
	canonical := url.URL{
		Scheme: strings.ToLower(parsed.Scheme),
		Host:   strings.ToLower(parsed.Host),
		Path:   parsed.Path,
	}
	return canonical.String(), nil
}

// DomainOf returns the lowercased host of rawURL, or "" when it cannot be
// parsed.
func DomainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}

// ResolveLink resolves href against base and canonicalizes the result.
func ResolveLink(base, href string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parse link: %w", err)
	}
	return Canonicalize(baseURL.ResolveReference(ref).String())
}
