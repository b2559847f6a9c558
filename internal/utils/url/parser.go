package urlutil

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/law-makers/scrape/internal/engine"
)

// Normalize canonicalizes a raw seed string into an absolute URL.
// Strings without an http:// or https:// prefix get https:// prepended.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "https://" + s
	}

	if err := ValidateURL(s); err != nil {
		return "", err
	}
	return s, nil
}

// ValidateURL checks that urlStr is an absolute http(s) URL with a host
func ValidateURL(urlStr string) error {
	invalid := func(cause error) error {
		return engine.NewEngineError(engine.ErrCodeInvalidURL, fmt.Sprintf("invalid URL %s", urlStr), cause)
	}

	parsed, err := url.Parse(urlStr)
	if err != nil {
		return invalid(err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return invalid(fmt.Errorf("scheme must be http or https, got %q", parsed.Scheme))
	}
	if parsed.Host == "" || parsed.Hostname() == "" {
		return invalid(fmt.Errorf("missing host"))
	}
	return nil
}

// Resolve resolves a possibly-relative href against base. It fails when
// either side does not parse or the result is not an http(s) URL.
func Resolve(base *url.URL, href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", abs.Scheme)
	}
	if abs.Host == "" {
		return "", fmt.Errorf("missing host")
	}
	return abs.String(), nil
}
