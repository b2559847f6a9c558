// internal/engine/static/fetcher.go
package static

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/law-makers/scrape/internal/cache"
	"github.com/law-makers/scrape/internal/engine"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// MaxBodySize bounds how much of a response body is read
const MaxBodySize = 10 * 1024 * 1024

// DefaultUserAgent is sent when no user agent is configured
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Fetcher retrieves raw page markup over plain HTTP
type Fetcher struct {
	client    *http.Client
	headers   map[string]string
	userAgent string
	cache     cache.Cache
	cacheTTL  time.Duration
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithHeaders sets extra request headers, applied after the defaults
func WithHeaders(h map[string]string) Option {
	return func(f *Fetcher) {
		f.headers = h
	}
}

// WithUserAgent overrides the default User-Agent header
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithCache makes successful fetches go through c
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.cacheTTL = ttl
	}
}

// New creates a plain HTTP fetcher around client
func New(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:    client,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewClient builds an HTTP client with the request timeout and optional
// proxy (http, https or socks5 URI).
func NewClient(timeout time.Duration, proxy string) (*http.Client, error) {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if proxy != "" {
		proxyURL, err := url.Parse(proxy)
		if err != nil || proxyURL.Host == "" {
			return nil, engine.NewEngineError(engine.ErrCodeInvalidConfig, fmt.Sprintf("invalid proxy %s", proxy), err)
		}
		switch proxyURL.Scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			return nil, engine.NewEngineError(engine.ErrCodeInvalidConfig,
				fmt.Sprintf("invalid proxy %s: unsupported scheme %q", proxy, proxyURL.Scheme), nil)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}, nil
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "StaticFetcher"
}

// Fetch retrieves the raw markup of a page with a single GET request
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (string, error) {
	if f.cache != nil {
		if markup, ok := f.cache.Get(pageURL); ok {
			return markup, nil
		}
	}

	start := time.Now()

	log.Debug().
		Str("url", pageURL).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeInvalidURL, fmt.Sprintf("failed to create request for %s", pageURL), err)
	}

	// Set default headers
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	// Add custom headers
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeNetworkError, fmt.Sprintf("failed to fetch %s", pageURL), err).WithRetry()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		herr := engine.NewEngineError(engine.ErrCodeHTTPError, fmt.Sprintf("HTTP %d from %s", resp.StatusCode, pageURL), nil).
			WithDetail("status_code", resp.StatusCode)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			herr.WithRetry()
		}
		return "", herr
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, MaxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeHTTPError, fmt.Sprintf("failed to read response from %s", pageURL), err)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", engine.NewEngineError(engine.ErrCodeHTTPError, fmt.Sprintf("failed to read response from %s", pageURL), err).WithRetry()
	}

	markup := string(body)
	if f.cache != nil {
		f.cache.Set(pageURL, markup, f.cacheTTL)
	}

	log.Debug().
		Str("url", pageURL).
		Int("status", resp.StatusCode).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Int("bytes", len(body)).
		Msg("Fetch completed")

	return markup, nil
}
