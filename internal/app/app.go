// Package app provides the core application initialization and lifecycle management.
package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/law-makers/scrape/internal/cache"
	"github.com/law-makers/scrape/internal/config"
	"github.com/law-makers/scrape/internal/crawler"
	"github.com/law-makers/scrape/internal/engine"
	"github.com/law-makers/scrape/internal/engine/dynamic"
	"github.com/law-makers/scrape/internal/engine/static"
	"github.com/law-makers/scrape/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Application holds all application dependencies and manages their lifecycle.
//
// It is created once at startup and shared across all CLI commands.
// Use Close() to ensure proper resource cleanup on shutdown.
type Application struct {
	Config *config.Config
	Logger *zerolog.Logger
	Cache  *cache.MemoryCache

	mu          sync.Mutex
	browser     *dynamic.Browser
	httpClients []*http.Client
	startTime   time.Time
}

// New creates and initializes a new Application.
//
// It configures the global logger from cfg and creates the page cache shared
// by plain-HTTP fetchers. The headless browser is not started here; it is
// created by the first crawl that asks for the headless strategy and Chrome
// itself only launches on that crawl's first fetch.
func New(ctx context.Context, cfg *config.Config) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	logger := ConfigureLogging(cfg, os.Stderr)

	logger.Debug().
		Str("level", cfg.LogLevel).
		Bool("json", cfg.JSONLog).
		Msg("Logger initialized")

	memCache := cache.NewMemoryCache(cfg.CacheMaxSizeBytes)
	logger.Debug().
		Int64("max_size_bytes", cfg.CacheMaxSizeBytes).
		Dur("ttl", cfg.CacheTTL).
		Msg("Page cache initialized")

	app := &Application{
		Config:    cfg,
		Logger:    &logger,
		Cache:     memCache,
		startTime: time.Now(),
	}

	logger.Info().Msg("Application initialized successfully")
	return app, nil
}

// ConfigureLogging sets the global zerolog level and output from cfg and
// returns the resulting logger.
func ConfigureLogging(cfg *config.Config, w io.Writer) zerolog.Logger {
	var logLevel zerolog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = zerolog.DebugLevel
	case "warn":
		logLevel = zerolog.WarnLevel
	case "error":
		logLevel = zerolog.ErrorLevel
	// "info" stays quiet on the console; crawl progress has its own display
	default:
		logLevel = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	var logWriter io.Writer = w
	if !cfg.JSONLog {
		logWriter = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	log.Logger = zerolog.New(logWriter).With().Timestamp().Logger()
	return log.Logger
}

// NewCrawler wires fetchers for cc and returns a crawler ready to run.
//
// Pages are extracted with the fetcher matching cc.Strategy. Link discovery
// always goes through the plain-HTTP fetcher, which shares the page cache so
// an http-strategy crawl fetches each page once.
func (a *Application) NewCrawler(cc models.CrawlConfig, opts ...crawler.Option) (*crawler.Crawler, error) {
	timeout := cc.Timeout
	if timeout <= 0 {
		timeout = a.Config.HTTPTimeout
	}
	proxy := cc.Proxy
	if proxy == "" {
		proxy = a.Config.Proxy
	}
	userAgent := cc.UserAgent
	if userAgent == "" {
		userAgent = a.Config.UserAgent
	}

	client, err := static.NewClient(timeout, proxy)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.httpClients = append(a.httpClients, client)
	a.mu.Unlock()

	plain := static.New(client,
		static.WithHeaders(cc.Headers),
		static.WithUserAgent(userAgent),
		static.WithCache(a.Cache, a.Config.CacheTTL),
	)

	var pages engine.Fetcher = plain
	if cc.Strategy == models.StrategyHeadless {
		browser := a.ensureBrowser(userAgent, proxy)
		pages = dynamic.New(browser, cc.Headers, timeout)
	}

	a.Logger.Debug().
		Str("fetcher", pages.Name()).
		Str("link_fetcher", plain.Name()).
		Dur("timeout", timeout).
		Bool("proxy", proxy != "").
		Msg("Crawler wired")

	return crawler.New(cc, pages, plain, opts...)
}

// ensureBrowser lazily creates the shared browser handle
func (a *Application) ensureBrowser(userAgent, proxy string) *dynamic.Browser {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browser == nil {
		chromePath := a.Config.ChromePath
		if chromePath == "" {
			chromePath = dynamic.FindChrome()
		}
		a.browser = dynamic.NewBrowser(dynamic.BrowserOptions{
			Headless:   a.Config.BrowserHeadless,
			UserAgent:  userAgent,
			Proxy:      proxy,
			ChromePath: chromePath,
		})
		a.Logger.Debug().
			Str("chrome", chromePath).
			Str("version", dynamic.ChromeVersion(chromePath)).
			Msg("Headless browser configured")
	}
	return a.browser
}

// Close gracefully shuts down the application and all its resources.
//
// It closes the headless browser if one was started, drops cached pages and
// releases idle HTTP connections. Errors are logged but do not prevent the
// remaining steps.
func (a *Application) Close(ctx context.Context) error {
	a.Logger.Debug().Msg("Shutting down application")

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.browser != nil {
		if err := a.browser.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Error closing browser")
		}
		a.browser = nil
	}

	if a.Cache != nil {
		stats := a.Cache.Stats()
		a.Logger.Debug().
			Interface("hits", stats["hits"]).
			Interface("misses", stats["misses"]).
			Interface("hit_rate", stats["hit_rate"]).
			Interface("entries", stats["entries"]).
			Msg("Page cache statistics")
		a.Cache.Clear()
	}

	for _, c := range a.httpClients {
		c.CloseIdleConnections()
	}
	a.httpClients = nil

	a.Logger.Debug().Dur("uptime", a.Uptime()).Msg("Application shutdown complete")
	return nil
}

// Uptime returns how long the application has been running.
func (a *Application) Uptime() time.Duration {
	return time.Since(a.startTime)
}
