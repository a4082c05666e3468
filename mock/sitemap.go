package mock

import (
	"context"

	"github.com/imagineworking4288/pagebound"
)

var _ pagebound.SitemapScanner = (*SitemapScanner)(nil)

// SitemapScanner is a mock implementation of pagebound.SitemapScanner.
type SitemapScanner struct {
	PageURLsFn func(ctx context.Context, baseURL string) ([]string, error)
}

func (s *SitemapScanner) PageURLs(ctx context.Context, baseURL string) ([]string, error) {
	return s.PageURLsFn(ctx, baseURL)
}
