package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/imagineworking4288/pagebound"
)

// Ensure LoggingCache implements pagebound.PatternCache.
var _ pagebound.PatternCache = (*LoggingCache)(nil)

// LoggingCache wraps a PatternCache with debug logging.
type LoggingCache struct {
	next   pagebound.PatternCache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next pagebound.PatternCache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// GetPattern delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) GetPattern(ctx context.Context, domain string) (pattern *pagebound.Pattern, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache get",
			"domain", domain,
			"hit", err == nil,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return c.next.GetPattern(ctx, domain)
}

// PutPattern delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) PutPattern(ctx context.Context, domain string, pattern *pagebound.Pattern) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache put",
			"domain", domain,
			"kind", pattern.Kind,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.PutPattern(ctx, domain, pattern)
}

// ListPatterns delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) ListPatterns(ctx context.Context) (patterns []*pagebound.CachedPattern, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache list",
			"count", len(patterns),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.ListPatterns(ctx)
}

// DeletePattern delegates to the wrapped cache and logs the operation.
func (c *LoggingCache) DeletePattern(ctx context.Context, domain string) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache delete",
			"domain", domain,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.DeletePattern(ctx, domain)
}
