package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/imagineworking4288/pagebound"
)

// Ensure LoggingScanner implements pagebound.SitemapScanner.
var _ pagebound.SitemapScanner = (*LoggingScanner)(nil)

// LoggingScanner wraps a SitemapScanner with debug logging.
type LoggingScanner struct {
	next   pagebound.SitemapScanner
	logger *slog.Logger
}

// NewLoggingScanner creates a new LoggingScanner.
func NewLoggingScanner(next pagebound.SitemapScanner, logger *slog.Logger) *LoggingScanner {
	return &LoggingScanner{next: next, logger: logger}
}

// PageURLs delegates to the wrapped scanner and logs the operation.
func (s *LoggingScanner) PageURLs(ctx context.Context, baseURL string) (urls []string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("sitemap scan",
			"url", baseURL,
			"count", len(urls),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.PageURLs(ctx, baseURL)
}
