package pagebound

import "context"

// Navigator drives a single browser page through a discovery session.
// Implementations are not safe for concurrent use: discovery is
// deliberately sequential on one page so the site sees one visitor with
// a coherent history.
type Navigator interface {
	// Goto navigates to the URL and waits for the page to render.
	Goto(ctx context.Context, url string) error

	// CurrentURL returns the page's URL after any redirects.
	CurrentURL() string

	// HTML returns the rendered HTML of the current page.
	HTML(ctx context.Context) (string, error)

	// Height returns the current document height in pixels.
	Height(ctx context.Context) (float64, error)

	// ScrollBottom scrolls to the bottom of the page and returns the
	// document height after any lazy content settles.
	ScrollBottom(ctx context.Context) (float64, error)

	// Click clicks the first element matching the CSS selector and
	// waits for any resulting navigation to settle.
	Click(ctx context.Context, selector string) error

	// Close releases the page and its browser resources.
	Close() error
}

// Fetcher retrieves rendered HTML from URLs. Unlike Navigator it serves
// one-shot fetches and is safe for concurrent use by the scrape phase.
type Fetcher interface {
	// Fetch navigates to the URL, waits for JavaScript to render,
	// and returns the rendered HTML.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases browser resources.
	// Must be called when the Fetcher is no longer needed.
	Close() error
}

// RateLimiter paces requests to a site. Every navigation and fetch waits
// on the limiter first.
type RateLimiter interface {
	// Wait blocks until the next request is allowed.
	// Returns an error if the context is canceled first.
	Wait(ctx context.Context) error
}
