package config

import "time"

// Default constants for application configuration
const (
	DefaultLogLevel          = "info"
	DefaultJSONLog           = false
	DefaultUserAgent         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	DefaultCacheTTL          = 5 * time.Minute
	DefaultHTTPTimeout       = 10 * time.Second
	DefaultBrowserHeadless   = true
	DefaultCacheMaxSizeBytes = 32 * 1024 * 1024 // 32MB
)

// Crawl defaults, matching a freshly created crawl config document
const (
	DefaultSelector      = "p, h1, h2, h3"
	DefaultContentType   = "text"
	DefaultCrawlDepth    = 1
	DefaultMaxConcurrent = 4
	DefaultRetryAttempts = 2
	DefaultScrapeDelay   = 1 * time.Second
	DefaultUseHeadless   = true

	MaxCrawlDepth     = 5
	MaxRetryAttempts  = 5
	MaxMaxConcurrent  = 10
	MaxScrapeDelay    = 5 * time.Second
	MinRequestTimeout = 1 * time.Second
	MaxRequestTimeout = 30 * time.Second
)

// Selectors used when only a content type is given
var modeSelectors = map[string]string{
	"text":   DefaultSelector,
	"links":  "a",
	"images": "img",
}
