package dynamic

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/law-makers/scrape/internal/engine"
)

func requireChrome(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping headless browser test in short mode")
	}
	if FindChrome() == "" {
		t.Skip("Chrome not available")
	}
}

func TestFetcher_Fetch_RendersJavaScript(t *testing.T) {
	requireChrome(t)

	var gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Test")
		w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>JS Test</title></head>
<body>
	<div id="content">Loading...</div>
	<script>document.getElementById('content').innerText = 'Loaded by JavaScript';</script>
</body>
</html>`))
	}))
	defer server.Close()

	browser := NewBrowser(BrowserOptions{Headless: true})
	defer browser.Close()

	f := New(browser, map[string]string{"X-Test": "yes"}, 20*time.Second)
	markup, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !strings.Contains(markup, "Loaded by JavaScript") {
		t.Errorf("expected rendered content, got %q", markup)
	}
	if gotHeader != "yes" {
		t.Errorf("expected injected header, got %q", gotHeader)
	}

	// A second fetch reuses the running browser
	if _, err := f.Fetch(context.Background(), server.URL); err != nil {
		t.Fatalf("second Fetch failed: %v", err)
	}
	if n := browser.Launches(); n != 1 {
		t.Errorf("expected a single browser launch, got %d", n)
	}
}

func TestFetcher_Fetch_NavigationError(t *testing.T) {
	requireChrome(t)

	browser := NewBrowser(BrowserOptions{Headless: true})
	defer browser.Close()

	f := New(browser, nil, 10*time.Second)
	_, err := f.Fetch(context.Background(), "http://invalid-host-that-does-not-exist.invalid/")
	if !errors.Is(err, engine.ErrRender) {
		t.Fatalf("expected RENDER_ERROR, got %v", err)
	}
}

func TestBrowser_ClosedRejectsTabs(t *testing.T) {
	browser := NewBrowser(BrowserOptions{Headless: true})
	if err := browser.Close(); err != nil {
		t.Fatal(err)
	}
	if err := browser.Close(); err != nil {
		t.Fatalf("second Close should be a no-op: %v", err)
	}

	f := New(browser, nil, time.Second)
	_, err := f.Fetch(context.Background(), "https://a.test")
	if !errors.Is(err, engine.ErrRender) {
		t.Fatalf("expected RENDER_ERROR from closed browser, got %v", err)
	}
}

func TestFetcher_Name(t *testing.T) {
	f := New(NewBrowser(BrowserOptions{}), nil, 0)
	if f.Name() != "DynamicFetcher" {
		t.Errorf("Expected name 'DynamicFetcher', got '%s'", f.Name())
	}
}
