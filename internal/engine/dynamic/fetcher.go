// internal/engine/dynamic/fetcher.go
package dynamic

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/law-makers/scrape/internal/engine"
	"github.com/rs/zerolog/log"
)

// Fetcher retrieves fully rendered markup through headless Chrome
type Fetcher struct {
	browser *Browser
	headers map[string]string
	timeout time.Duration
}

// New creates a rendered-page fetcher on top of browser
func New(browser *Browser, headers map[string]string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		browser: browser,
		headers: headers,
		timeout: timeout,
	}
}

// Name returns the name of this fetcher
func (f *Fetcher) Name() string {
	return "DynamicFetcher"
}

// Fetch opens a tab, navigates to url, waits for the load event and returns
// the serialized DOM. The tab is closed before returning.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	start := time.Now()

	log.Debug().
		Str("url", url).
		Str("fetcher", f.Name()).
		Msg("Starting fetch")

	tabCtx, closeTab, err := f.browser.NewTab()
	if err != nil {
		return "", renderError(url, "failed to launch browser", err)
	}
	defer closeTab()

	tabCtx, cancel := context.WithTimeout(tabCtx, f.timeout)
	defer cancel()

	// The tab must also stop when the caller gives up
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	tasks := chromedp.Tasks{network.Enable()}
	if len(f.headers) > 0 {
		extra := make(network.Headers, len(f.headers))
		for k, v := range f.headers {
			extra[k] = v
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(extra))
	}

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return "", renderError(url, "failed to create tab", err)
	}

	// Navigate blocks until the page's load event fires
	if err := chromedp.Run(tabCtx, chromedp.Navigate(url)); err != nil {
		return "", renderError(url, fmt.Sprintf("failed to navigate to %s", url), err)
	}

	var markup string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &markup, chromedp.ByQuery)); err != nil {
		return "", renderError(url, fmt.Sprintf("failed to get content for %s", url), err)
	}

	log.Debug().
		Str("url", url).
		Int64("response_time_ms", time.Since(start).Milliseconds()).
		Int("bytes", len(markup)).
		Msg("Fetch completed")

	return markup, nil
}

func renderError(url, msg string, err error) error {
	return engine.NewEngineError(engine.ErrCodeRenderError, msg, err).
		WithDetail("url", url).
		WithRetry()
}
