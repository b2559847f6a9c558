package models

import (
	"fmt"
	"strings"
	"time"
)

// VisitCap is the maximum number of distinct URLs a single crawl run will
// ever queue or visit.
const VisitCap = 100

// Record is one successful extraction from a visited page
type Record struct {
	URL        string `json:"url" yaml:"url"`
	Content    string `json:"content" yaml:"content"`
	Attributes string `json:"attributes" yaml:"attributes"`
}

// ContentMode selects what the extractor pulls out of matched elements
type ContentMode string

const (
	ModeText   ContentMode = "text"
	ModeLinks  ContentMode = "links"
	ModeImages ContentMode = "images"
)

// ParseContentMode is case-insensitive. Unknown values are returned as-is so
// the extractor can report them per page.
func ParseContentMode(s string) ContentMode {
	return ContentMode(strings.ToLower(strings.TrimSpace(s)))
}

// FetchStrategy defines how page markup is retrieved
type FetchStrategy string

const (
	StrategyHTTP     FetchStrategy = "http"
	StrategyHeadless FetchStrategy = "headless"
)

// ParseFetchStrategy maps user input onto a FetchStrategy
func ParseFetchStrategy(s string) (FetchStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "http", "static":
		return StrategyHTTP, nil
	case "headless", "spa", "browser":
		return StrategyHeadless, nil
	default:
		return "", fmt.Errorf("unknown fetch strategy %q (must be http or headless)", s)
	}
}

// CrawlConfig is the immutable configuration of one crawl run
type CrawlConfig struct {
	Seeds            []string
	Selector         string
	Attribute        string
	Pattern          string
	Mode             ContentMode
	MaxDepth         int
	NextPageSelector string
	Headers          map[string]string
	Proxy            string
	UserAgent        string
	Timeout          time.Duration
	Delay            time.Duration
	Strategy         FetchStrategy

	// RetryAttempts is the number of extra attempts for a failed fetch.
	RetryAttempts int

	// MaxConcurrent is advisory only; traversal is sequential.
	MaxConcurrent int
}
