// internal/engine/dynamic/browser.go
package dynamic

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog/log"
)

// BrowserOptions configures the headless browser
type BrowserOptions struct {
	Headless   bool
	UserAgent  string
	Proxy      string
	ChromePath string
}

// Browser owns one Chrome process for the duration of a crawl run. Each fetch
// gets its own tab, so a page that hangs or crashes its renderer only costs
// that tab. If the whole process dies the next NewTab relaunches it.
type Browser struct {
	opts BrowserOptions

	mu            sync.Mutex
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	launches      int
	closed        bool
}

// NewBrowser creates a browser handle. Chrome is not started until the first tab is requested.
func NewBrowser(opts BrowserOptions) *Browser {
	return &Browser{opts: opts}
}

func (b *Browser) allocatorOptions() []chromedp.ExecAllocatorOption {
	allocOpts := []chromedp.ExecAllocatorOption{
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-breakpad", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-hang-monitor", true),
		chromedp.Flag("disable-prompt-on-repost", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("metrics-recording-only", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("safebrowsing-disable-auto-update", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("window-size", "1920,1080"),
	}

	chromePath := b.opts.ChromePath
	if chromePath == "" {
		chromePath = FindChrome()
	}
	if chromePath != "" {
		allocOpts = append([]chromedp.ExecAllocatorOption{chromedp.ExecPath(chromePath)}, allocOpts...)
	}

	if b.opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", "new"))
	} else {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	if b.opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(b.opts.UserAgent))
	}

	if b.opts.Proxy != "" {
		allocOpts = append(allocOpts, chromedp.ProxyServer(b.opts.Proxy))
	}

	return allocOpts
}

// launch starts Chrome (must be called with lock held)
func (b *Browser) launch() error {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), b.allocatorOptions()...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Running with no actions starts the browser process
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return fmt.Errorf("failed to start headless browser: %w", err)
	}

	b.allocCtx, b.allocCancel = allocCtx, allocCancel
	b.browserCtx, b.browserCancel = browserCtx, browserCancel
	b.launches++

	log.Debug().Int("launches", b.launches).Msg("Headless browser started")
	return nil
}

// shutdown must be called with lock held
func (b *Browser) shutdown() {
	if b.browserCancel != nil {
		b.browserCancel()
	}
	if b.allocCancel != nil {
		b.allocCancel()
	}
	b.allocCtx, b.allocCancel = nil, nil
	b.browserCtx, b.browserCancel = nil, nil
}

// NewTab opens a fresh tab, starting or restarting Chrome when needed.
// The returned cancel func closes the tab.
func (b *Browser) NewTab() (context.Context, context.CancelFunc, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, nil, fmt.Errorf("browser is closed")
	}

	if b.browserCtx != nil && b.browserCtx.Err() != nil {
		log.Warn().Msg("Headless browser exited, relaunching")
		b.shutdown()
	}
	if b.browserCtx == nil {
		if err := b.launch(); err != nil {
			return nil, nil, err
		}
	}

	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	return tabCtx, tabCancel, nil
}

// Launches reports how many times Chrome has been started
func (b *Browser) Launches() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.launches
}

// Close shuts down Chrome. It is safe to call more than once.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	b.shutdown()

	log.Debug().Msg("Headless browser closed")
	return nil
}
