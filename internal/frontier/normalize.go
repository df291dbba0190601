package frontier

import (
	"errors"
	"net/url"
	"strings"
)

// errNoHost is returned by parseCandidate for URLs without a host.
var errNoHost = errors.New("url has no host")

// errUnsupportedScheme is returned by parseCandidate for non-http(s) URLs.
var errUnsupportedScheme = errors.New("unsupported scheme")

// Normalize trims surrounding whitespace and strips trailing slashes.
// "https://example.com/" and "https://example.com" are the same page.
func Normalize(rawURL string) string {
	return strings.TrimRight(strings.TrimSpace(rawURL), "/")
}

// BaseDomain returns the host (with port, if any) of a seed URL.
func BaseDomain(rawURL string) (string, error) {
	u, err := url.Parse(Normalize(rawURL))
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", errNoHost
	}
	return u.Host, nil
}

// resolve resolves candidate against source and returns the normalized
// absolute URL together with its parsed form.
func resolve(candidate, source string) (string, *url.URL, error) {
	base, err := url.Parse(strings.TrimSpace(source))
	if err != nil {
		return "", nil, err
	}
	ref, err := url.Parse(strings.TrimSpace(candidate))
	if err != nil {
		return "", nil, err
	}

	normalized := Normalize(base.ResolveReference(ref).String())
	u, err := parseCandidate(normalized)
	if err != nil {
		return "", nil, err
	}
	return normalized, u, nil
}

// parseCandidate parses a normalized URL and rejects anything that cannot be
// fetched over HTTP.
func parseCandidate(normalized string) (*url.URL, error) {
	u, err := url.Parse(normalized)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errUnsupportedScheme
	}
	if u.Host == "" {
		return nil, errNoHost
	}
	return u, nil
}
