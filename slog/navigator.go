// Package slog provides logging decorators for the domain interfaces.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/imagineworking4288/pagebound"
)

// Ensure LoggingNavigator implements pagebound.Navigator.
var _ pagebound.Navigator = (*LoggingNavigator)(nil)

// LoggingNavigator wraps a Navigator with debug logging. Every probe the
// boundary search makes shows up in the log with its duration, which is
// the main tool for diagnosing a misdetected site.
type LoggingNavigator struct {
	next   pagebound.Navigator
	logger *slog.Logger
}

// NewLoggingNavigator creates a new LoggingNavigator.
func NewLoggingNavigator(next pagebound.Navigator, logger *slog.Logger) *LoggingNavigator {
	return &LoggingNavigator{next: next, logger: logger}
}

// Goto delegates to the wrapped navigator and logs the operation.
func (n *LoggingNavigator) Goto(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		n.logger.Debug("goto",
			"url", url,
			"landed", n.next.CurrentURL(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Goto(ctx, url)
}

// CurrentURL delegates to the wrapped navigator.
func (n *LoggingNavigator) CurrentURL() string {
	return n.next.CurrentURL()
}

// HTML delegates to the wrapped navigator and logs the operation.
func (n *LoggingNavigator) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		n.logger.Debug("html",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.HTML(ctx)
}

// Height delegates to the wrapped navigator and logs the operation.
func (n *LoggingNavigator) Height(ctx context.Context) (height float64, err error) {
	defer func(begin time.Time) {
		n.logger.Debug("height",
			"height", height,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Height(ctx)
}

// ScrollBottom delegates to the wrapped navigator and logs the operation.
func (n *LoggingNavigator) ScrollBottom(ctx context.Context) (height float64, err error) {
	defer func(begin time.Time) {
		n.logger.Debug("scroll bottom",
			"height", height,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.ScrollBottom(ctx)
}

// Click delegates to the wrapped navigator and logs the operation.
func (n *LoggingNavigator) Click(ctx context.Context, selector string) (err error) {
	defer func(begin time.Time) {
		n.logger.Debug("click",
			"selector", selector,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Click(ctx, selector)
}

// Close delegates to the wrapped navigator.
func (n *LoggingNavigator) Close() error {
	return n.next.Close()
}
