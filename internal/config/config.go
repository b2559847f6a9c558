package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// Environment variables read by Load
const (
	EnvUserAgent  = "SCRAPE_USER_AGENT"
	EnvProxy      = "SCRAPE_PROXY"
	EnvChromePath = "CHROME_PATH"
)

// Config holds application configuration values
type Config struct {
	// Logging
	LogLevel string
	JSONLog  bool

	// HTTP
	HTTPTimeout time.Duration
	UserAgent   string
	Proxy       string

	// Browser
	BrowserHeadless bool
	ChromePath      string

	// Page cache
	CacheTTL          time.Duration
	CacheMaxSizeBytes int64
}

// Default returns a Config populated with defaults only
func Default() *Config {
	return &Config{
		LogLevel:          DefaultLogLevel,
		JSONLog:           DefaultJSONLog,
		HTTPTimeout:       DefaultHTTPTimeout,
		UserAgent:         DefaultUserAgent,
		BrowserHeadless:   DefaultBrowserHeadless,
		CacheTTL:          DefaultCacheTTL,
		CacheMaxSizeBytes: DefaultCacheMaxSizeBytes,
	}
}

// Load builds a Config by combining defaults, environment variables, and CLI flags.
// Caller should pass the executing *cobra.Command so flags can be read.
func Load(cmd *cobra.Command) (*Config, error) {
	cfg := Default()

	if v := os.Getenv(EnvUserAgent); v != "" {
		cfg.UserAgent = v
	}
	if v := os.Getenv(EnvProxy); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv(EnvChromePath); v != "" {
		cfg.ChromePath = v
	}

	if cmd != nil {
		if f := cmd.Flags().Lookup("user-agent"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.UserAgent = s
			}
		}
		if f := cmd.Flags().Lookup("proxy"); f != nil {
			if s := f.Value.String(); s != "" {
				cfg.Proxy = s
			}
		}
		if f := cmd.Flags().Lookup("timeout"); f != nil && f.Changed {
			d, err := time.ParseDuration(f.Value.String())
			if err != nil {
				return nil, fmt.Errorf("invalid --timeout: %w", err)
			}
			cfg.HTTPTimeout = d
		}
		if f := cmd.Flags().Lookup("json"); f != nil {
			if f.Value.String() == "true" {
				cfg.JSONLog = true
			}
		}
		if f := cmd.Flags().Lookup("quiet"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "error"
			}
		}
		if f := cmd.Flags().Lookup("verbose"); f != nil {
			if f.Value.String() == "true" {
				cfg.LogLevel = "debug"
			}
		}
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
