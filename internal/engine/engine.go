package engine

import "context"

// Fetcher is the interface that all page retrieval strategies must implement
type Fetcher interface {
	// Fetch retrieves the raw markup of the page at url
	Fetch(ctx context.Context, url string) (string, error)

	// Name returns the name of the fetcher implementation
	Name() string
}

// FetcherFunc adapts a plain function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string) (string, error)

// Fetch calls f(ctx, url)
func (f FetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

// Name returns the name of this fetcher
func (f FetcherFunc) Name() string {
	return "FuncFetcher"
}
