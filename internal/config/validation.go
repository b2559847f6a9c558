package config

import (
	"fmt"
	"net/url"

	"github.com/law-makers/scrape/internal/engine"
	"github.com/law-makers/scrape/pkg/models"
)

func validate(c *Config) error {
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be > 0")
	}
	if c.CacheMaxSizeBytes <= 0 {
		return fmt.Errorf("cache max size must be > 0")
	}
	if c.Proxy != "" {
		if err := validateProxy(c.Proxy); err != nil {
			return err
		}
	}
	return nil
}

func validateProxy(proxy string) error {
	u, err := url.Parse(proxy)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid proxy URI %q", proxy)
	}
	switch u.Scheme {
	case "http", "https", "socks5", "socks5h":
		return nil
	}
	return fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
}

// ValidateCrawl checks a crawl configuration against the accepted ranges
func ValidateCrawl(c models.CrawlConfig) error {
	invalid := func(format string, args ...interface{}) error {
		return engine.NewEngineError(engine.ErrCodeInvalidConfig, fmt.Sprintf(format, args...), nil)
	}

	if c.Selector == "" {
		return invalid("selector must not be empty")
	}
	if c.MaxDepth < 0 || c.MaxDepth > MaxCrawlDepth {
		return invalid("crawl depth must be between 0 and %d", MaxCrawlDepth)
	}
	if c.RetryAttempts < 0 || c.RetryAttempts > MaxRetryAttempts {
		return invalid("retry attempts must be between 0 and %d", MaxRetryAttempts)
	}
	if c.MaxConcurrent < 1 || c.MaxConcurrent > MaxMaxConcurrent {
		return invalid("max concurrent must be between 1 and %d", MaxMaxConcurrent)
	}
	if c.Delay < 0 || c.Delay > MaxScrapeDelay {
		return invalid("scrape delay must be between 0 and %s", MaxScrapeDelay)
	}
	if c.Timeout < MinRequestTimeout || c.Timeout > MaxRequestTimeout {
		return invalid("request timeout must be between %s and %s", MinRequestTimeout, MaxRequestTimeout)
	}
	if c.Proxy != "" {
		if err := validateProxy(c.Proxy); err != nil {
			return engine.NewEngineError(engine.ErrCodeInvalidConfig, "invalid proxy", err)
		}
	}
	return nil
}
