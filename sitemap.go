package pagebound

import "context"

// SitemapScanner discovers same-site URLs from sitemap files.
// Implementations consult robots.txt for sitemap directives and fall
// back to the conventional /sitemap.xml location.
type SitemapScanner interface {
	// PageURLs returns sitemap-listed URLs that share baseURL's host.
	PageURLs(ctx context.Context, baseURL string) ([]string, error)
}
