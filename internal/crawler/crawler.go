// internal/crawler/crawler.go
package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/law-makers/scrape/internal/engine"
	"github.com/law-makers/scrape/internal/engine/extract"
	"github.com/law-makers/scrape/internal/retry"
	"github.com/law-makers/scrape/internal/runctx"
	urlutil "github.com/law-makers/scrape/internal/utils/url"
	"github.com/law-makers/scrape/pkg/models"
	"github.com/rs/zerolog"
)

type queueEntry struct {
	url   string
	depth int
}

// Option configures a Crawler
type Option func(*Crawler)

// WithRetryConfig overrides the backoff policy derived from RetryAttempts
func WithRetryConfig(cfg retry.Config) Option {
	return func(c *Crawler) {
		c.retry = cfg
	}
}

// WithClock replaces the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Crawler) {
		c.now = now
	}
}

// Crawler runs one bounded breadth-first crawl. A Crawler is single use.
type Crawler struct {
	cfg         models.CrawlConfig
	fetcher     engine.Fetcher
	linkFetcher engine.Fetcher
	extractor   *extract.Extractor
	retry       retry.Config
	now         func() time.Time

	state      *State
	events     chan Event
	subscribed atomic.Bool
	started    atomic.Bool
}

// New validates cfg and builds a crawler. fetcher retrieves pages for
// extraction with the configured strategy; linkFetcher retrieves pages for
// link discovery and is normally the plain HTTP fetcher. A nil linkFetcher
// falls back to fetcher.
func New(cfg models.CrawlConfig, fetcher, linkFetcher engine.Fetcher, opts ...Option) (*Crawler, error) {
	if fetcher == nil {
		return nil, engine.NewEngineError(engine.ErrCodeInvalidConfig, "no page fetcher configured", nil)
	}
	if linkFetcher == nil {
		linkFetcher = fetcher
	}
	if cfg.MaxDepth < 0 {
		return nil, engine.NewEngineError(engine.ErrCodeInvalidConfig,
			fmt.Sprintf("crawl depth must be >= 0, got %d", cfg.MaxDepth), nil)
	}
	if cfg.RetryAttempts < 0 {
		return nil, engine.NewEngineError(engine.ErrCodeInvalidConfig,
			fmt.Sprintf("retry attempts must be >= 0, got %d", cfg.RetryAttempts), nil)
	}
	if cfg.Delay < 0 {
		return nil, engine.NewEngineError(engine.ErrCodeInvalidConfig, "delay must not be negative", nil)
	}

	extractor, err := extract.New(extract.Rule{
		Selector:  cfg.Selector,
		Attribute: cfg.Attribute,
		Pattern:   cfg.Pattern,
		Mode:      cfg.Mode,
	})
	if err != nil {
		return nil, err
	}

	c := &Crawler{
		cfg:         cfg,
		fetcher:     fetcher,
		linkFetcher: linkFetcher,
		extractor:   extractor,
		retry:       retry.FromAttempts(cfg.RetryAttempts),
		now:         time.Now,
		state:       newState(),
		events:      make(chan Event, eventBuffer),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Events returns the status channel. Events are only delivered once this has
// been called, so subscribe before Run. The channel is closed when Run returns.
func (c *Crawler) Events() <-chan Event {
	c.subscribed.Store(true)
	return c.events
}

// Snapshot returns a copy of the published run state
func (c *Crawler) Snapshot() Snapshot {
	return c.state.Snapshot()
}

// Run crawls from the configured seeds until the queue is empty and returns
// the deduplicated records. Per-page failures are reported as events and
// never returned. Run returns EMPTY_SEED_LIST when no seed is usable and the
// context error when ctx is cancelled, along with any records gathered so far.
func (c *Crawler) Run(ctx context.Context) ([]models.Record, error) {
	if !c.started.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("crawler already started")
	}
	defer close(c.events)

	ctx = runctx.WithRun(ctx)
	run := runctx.FromContext(ctx)
	logger := runctx.Logger(ctx)

	visited := make(map[string]struct{})
	var queue []queueEntry

	for _, raw := range c.cfg.Seeds {
		u, err := urlutil.Normalize(raw)
		if err != nil {
			c.emit(ctx, Event{Kind: EventError, URL: raw, Message: fmt.Sprintf("Error scraping %s: %v", raw, err)})
			continue
		}
		if _, dup := visited[u]; dup || len(visited) >= models.VisitCap {
			continue
		}
		visited[u] = struct{}{}
		queue = append(queue, queueEntry{url: u, depth: 0})
	}

	if len(queue) == 0 {
		logger.Warn().Int("seeds", len(c.cfg.Seeds)).Msg("No valid seed URLs")
		return nil, engine.NewEngineError(engine.ErrCodeEmptySeedList, "no valid seed URLs", nil)
	}

	c.state.start(run.ID, c.now())
	c.state.setTotal(min(len(visited), models.VisitCap))

	logger.Info().
		Int("seeds", len(queue)).
		Int("max_depth", c.cfg.MaxDepth).
		Str("strategy", c.fetcher.Name()).
		Int("retry_attempts", c.cfg.RetryAttempts).
		Int("max_concurrent", c.cfg.MaxConcurrent).
		Msg("Crawl started")
	c.emit(ctx, Event{Kind: EventStarted, Message: "Scraping..."})

	var pending []models.Record

	for len(queue) > 0 {
		if ctx.Err() != nil {
			return c.abort(ctx, logger, pending)
		}

		entry := queue[0]
		queue = queue[1:]

		if entry.depth > c.cfg.MaxDepth || len(visited) >= models.VisitCap {
			logger.Debug().Str("url", entry.url).Int("depth", entry.depth).Msg("Skipping queue entry")
			continue
		}

		record, err := c.scrape(ctx, entry.url)
		if ctx.Err() != nil {
			return c.abort(ctx, logger, pending)
		}
		c.state.markProcessed()
		if err != nil {
			logger.Debug().Str("url", entry.url).Str("code", string(engine.CodeOf(err))).Err(err).Msg("Page failed")
			c.emit(ctx, Event{Kind: EventError, URL: entry.url, Message: fmt.Sprintf("Error scraping %s: %v", entry.url, err)})
		} else {
			pending = append(pending, record)
			c.emit(ctx, Event{Kind: EventScraped, URL: entry.url, Message: fmt.Sprintf("Scraped %s", entry.url)})
		}

		if err := c.pause(ctx); err != nil {
			return c.abort(ctx, logger, pending)
		}

		if c.cfg.NextPageSelector != "" || entry.depth < c.cfg.MaxDepth {
			links, err := c.discover(ctx, entry.url)
			if err != nil {
				if ctx.Err() != nil {
					return c.abort(ctx, logger, pending)
				}
				c.emit(ctx, Event{Kind: EventLinkError, URL: entry.url, Message: fmt.Sprintf("Error crawling links from %s: %v", entry.url, err)})
				continue
			}

			added := 0
			for _, link := range links {
				if entry.depth >= c.cfg.MaxDepth || len(visited) >= models.VisitCap {
					break
				}
				if _, seen := visited[link]; seen {
					continue
				}
				visited[link] = struct{}{}
				queue = append(queue, queueEntry{url: link, depth: entry.depth + 1})
				added++
			}
			if added > 0 {
				c.state.setTotal(min(len(visited), models.VisitCap))
			}
			logger.Debug().Str("url", entry.url).Int("discovered", len(links)).Int("enqueued", added).Msg("Links expanded")
		}
	}

	results := Dedupe(pending)
	c.state.finish(StatusCompleted, results, c.now())

	snap := c.state.Snapshot()
	logger.Info().
		Int("processed", snap.Processed).
		Int("records", len(results)).
		Int("duplicates", len(pending)-len(results)).
		Dur("duration", snap.FinishedAt.Sub(snap.StartedAt)).
		Msg("Crawl completed")

	if len(results) > 0 {
		c.emit(ctx, Event{Kind: EventCompleted, Message: "Scraping completed"})
	} else {
		c.emit(ctx, Event{Kind: EventNoResults, Message: "No successful results"})
	}

	return results, nil
}

// scrape fetches a page with the configured strategy and extracts from it.
// Only the fetch is retried.
func (c *Crawler) scrape(ctx context.Context, url string) (models.Record, error) {
	markup, err := c.fetch(ctx, c.fetcher, url)
	if err != nil {
		return models.Record{}, err
	}
	return c.extractor.Extract(url, markup)
}

func (c *Crawler) discover(ctx context.Context, url string) ([]string, error) {
	markup, err := c.fetch(ctx, c.linkFetcher, url)
	if err != nil {
		return nil, err
	}
	return extract.DiscoverLinks(markup, url, c.cfg.NextPageSelector)
}

func (c *Crawler) fetch(ctx context.Context, f engine.Fetcher, url string) (string, error) {
	var markup string
	err := retry.WithRetry(ctx, c.retry, func() error {
		var err error
		markup, err = f.Fetch(ctx, url)
		return err
	})
	return markup, err
}

// pause applies the politeness delay
func (c *Crawler) pause(ctx context.Context) error {
	if c.cfg.Delay <= 0 {
		return nil
	}
	timer := time.NewTimer(c.cfg.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Crawler) abort(ctx context.Context, logger zerolog.Logger, pending []models.Record) ([]models.Record, error) {
	results := Dedupe(pending)
	c.state.finish(StatusAborted, results, c.now())

	logger.Warn().Int("records", len(results)).Err(ctx.Err()).Msg("Crawl aborted")
	c.emit(ctx, Event{Kind: EventAborted, Message: "Scraping aborted"})

	err := ctx.Err()
	if err == nil {
		err = errors.New("crawl aborted")
	}
	return results, runctx.Wrap(ctx, err)
}

// emit records msg in the run log and, if someone subscribed, delivers it on
// the status channel. The send blocks while the channel is full.
func (c *Crawler) emit(ctx context.Context, ev Event) {
	ev.Time = c.now()
	c.state.appendLog(ev.Time, ev.Message)

	ev.Processed, ev.Total = c.state.counts()

	if !c.subscribed.Load() {
		return
	}

	if ctx.Err() != nil {
		// The consumer may have stopped reading; deliver only if there is room.
		select {
		case c.events <- ev:
		default:
		}
		return
	}

	select {
	case c.events <- ev:
	case <-ctx.Done():
	}
}
