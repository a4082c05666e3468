package mock

import (
	"context"

	"github.com/imagineworking4288/pagebound"
)

var _ pagebound.PatternCache = (*PatternCache)(nil)

// PatternCache is a mock implementation of pagebound.PatternCache.
type PatternCache struct {
	GetPatternFn    func(ctx context.Context, domain string) (*pagebound.Pattern, error)
	PutPatternFn    func(ctx context.Context, domain string, pattern *pagebound.Pattern) error
	ListPatternsFn  func(ctx context.Context) ([]*pagebound.CachedPattern, error)
	DeletePatternFn func(ctx context.Context, domain string) error
}

func (c *PatternCache) GetPattern(ctx context.Context, domain string) (*pagebound.Pattern, error) {
	return c.GetPatternFn(ctx, domain)
}

func (c *PatternCache) PutPattern(ctx context.Context, domain string, pattern *pagebound.Pattern) error {
	return c.PutPatternFn(ctx, domain, pattern)
}

func (c *PatternCache) ListPatterns(ctx context.Context) ([]*pagebound.CachedPattern, error) {
	return c.ListPatternsFn(ctx)
}

func (c *PatternCache) DeletePattern(ctx context.Context, domain string) error {
	return c.DeletePatternFn(ctx, domain)
}
