// Package rod provides browser automation implementations of the
// pagebound interfaces using Chrome via go-rod: a sequential Navigator
// for pagination discovery, a concurrent Fetcher for the scrape phase,
// and an infinite-scroll traversal helper.
package rod

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/imagineworking4288/pagebound"
)

// DefaultNavTimeout bounds a single navigation when the caller's
// context carries no deadline of its own.
const DefaultNavTimeout = 30 * time.Second

// settleDelay is how long ScrollBottom waits for lazy content to load
// before re-measuring the document.
const settleDelay = 1500 * time.Millisecond

// Ensure Navigator implements pagebound.Navigator at compile time.
var _ pagebound.Navigator = (*Navigator)(nil)

// Navigator drives a single browser page through a discovery session.
// All probes share the one page, so the site sees one visitor with a
// coherent history. Not safe for concurrent use.
type Navigator struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	timeout  time.Duration
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithNavTimeout sets the per-navigation timeout applied when the
// caller's context has no deadline. Defaults to DefaultNavTimeout.
func WithNavTimeout(d time.Duration) NavigatorOption {
	return func(n *Navigator) {
		n.timeout = d
	}
}

// NewNavigator launches a headless Chrome browser and opens the single
// page the Navigator will reuse. Close must be called when the
// Navigator is no longer needed.
func NewNavigator(opts ...NavigatorOption) (*Navigator, error) {
	return newNavigator(true, opts...)
}

// NewHeadfulNavigator is NewNavigator with a visible browser window,
// for operator debugging of sites that block headless Chrome.
func NewHeadfulNavigator(opts ...NavigatorOption) (*Navigator, error) {
	return newNavigator(false, opts...)
}

func newNavigator(headless bool, opts ...NavigatorOption) (*Navigator, error) {
	browser, lnchr, err := launchBrowser(headless)
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		lnchr.Kill()
		return nil, err
	}
	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: randomUserAgent(),
	}); err != nil {
		browser.Close()
		lnchr.Kill()
		return nil, err
	}

	n := &Navigator{
		browser:  browser,
		launcher: lnchr,
		page:     page,
		timeout:  DefaultNavTimeout,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// Goto navigates the page to the URL and waits for it to load.
func (n *Navigator) Goto(ctx context.Context, url string) error {
	ctx, cancel := n.bound(ctx)
	defer cancel()

	page := n.page.Context(ctx)
	if err := page.Navigate(url); err != nil {
		return err
	}
	return page.WaitLoad()
}

// CurrentURL returns the page's URL after any redirects. Returns ""
// if the page is gone.
func (n *Navigator) CurrentURL() string {
	info, err := n.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

// HTML returns the rendered HTML of the current page.
func (n *Navigator) HTML(ctx context.Context) (string, error) {
	ctx, cancel := n.bound(ctx)
	defer cancel()
	return n.page.Context(ctx).HTML()
}

// Height returns the current document height in pixels.
func (n *Navigator) Height(ctx context.Context) (float64, error) {
	ctx, cancel := n.bound(ctx)
	defer cancel()

	obj, err := n.page.Context(ctx).Eval(`() => document.documentElement.scrollHeight`)
	if err != nil {
		return 0, err
	}
	return obj.Value.Num(), nil
}

// ScrollBottom scrolls to the bottom of the page, waits for lazy
// content to settle, and returns the document height afterwards.
func (n *Navigator) ScrollBottom(ctx context.Context) (float64, error) {
	ctx, cancel := n.bound(ctx)
	defer cancel()

	page := n.page.Context(ctx)
	if _, err := page.Eval(`() => window.scrollTo(0, document.documentElement.scrollHeight)`); err != nil {
		return 0, err
	}

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-time.After(settleDelay):
	}

	return n.Height(ctx)
}

// Click clicks the first element matching the CSS selector and waits
// for any resulting navigation to settle.
func (n *Navigator) Click(ctx context.Context, selector string) error {
	ctx, cancel := n.bound(ctx)
	defer cancel()

	page := n.page.Context(ctx)
	el, err := page.Element(selector)
	if err != nil {
		return err
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	return page.WaitLoad()
}

// Close releases the page and its browser.
func (n *Navigator) Close() error {
	err := n.browser.Close()
	n.launcher.Kill()
	return err
}

// bound applies the Navigator's default timeout when the caller's
// context has no deadline.
func (n *Navigator) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, n.timeout)
}
