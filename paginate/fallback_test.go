package paginate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/mock"
	"github.com/imagineworking4288/pagebound/paginate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFallbackStrategy(t *testing.T) {
	t.Parallel()

	t.Run("broad page parameter in the entry URL", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents?pn=2",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindParameter, p.Kind)
		assert.Equal(t, "pn", p.ParamName)
		assert.Equal(t, pagebound.MethodURLAnalysis, p.Method)
	})

	t.Run("broad offset parameter in the entry URL", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL:   "https://example.com/agents?limitstart=20",
			Items: agentItems(0, 20),
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindOffset, p.Kind)
		assert.Equal(t, "limitstart", p.ParamName)
		assert.Equal(t, 20, p.ItemsPerPage)
	})

	t.Run("entry URL that is itself a numbered page", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents/page/3?sort=name",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindPath, p.Kind)
		assert.Equal(t, "/agents/page/{page}", p.URLPattern)
		assert.Equal(t, pagebound.MethodURLAnalysis, p.Method)
	})

	t.Run("entry URL with a prefixed page segment", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/list/p-2",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindPath, p.Kind)
		assert.Equal(t, "/list/p-{page}", p.URLPattern)
	})

	t.Run("page-two link with a query parameter", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents",
			HTML: `<nav class="pagination">
				<a href="/agents?page=2&amp;sort=name">Next</a>
			</nav>`,
			Items: agentItems(0, 25),
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindParameter, p.Kind)
		assert.Equal(t, "page", p.ParamName)
		assert.Equal(t, pagebound.MethodURLAnalysis, p.Method)
	})

	t.Run("page-two link with a path segment", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL:  "https://example.com/agents",
			HTML: `<a href="https://example.com/agents/page/2">2</a>`,
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindPath, p.Kind)
		assert.Equal(t, "/agents/page/{page}", p.URLPattern)
	})

	t.Run("bare trailing slash-two link is a last resort", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL:  "https://example.com/gallery",
			HTML: `<a href="/gallery/2">older</a>`,
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindPath, p.Kind)
		assert.Equal(t, "/gallery/{page}", p.URLPattern)
	})

	t.Run("certain links outrank probable ones", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents",
			HTML: `<a href="/agents/2">2</a>
				<a href="/agents?page=2">Next</a>`,
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindParameter, p.Kind, "the certain candidate should win")
	})

	t.Run("off-domain links are ignored", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL:  "https://example.com/agents",
			HTML: `<a href="https://partner-network.net/agents/page/2">partners</a>`,
		})
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("sitemap bounds the page count", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{Sitemaps: &mock.SitemapScanner{
			PageURLsFn: func(_ context.Context, baseURL string) ([]string, error) {
				assert.Equal(t, "https://example.com/agents?pn=2", baseURL)
				return []string{
					"https://example.com/agents?pn=4",
					"https://example.com/agents?pn=9",
					"https://example.com/contact",
				}, nil
			},
		}}

		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents?pn=2",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindParameter, p.Kind)
		assert.Equal(t, 9, p.MaxPageHint)
	})

	t.Run("sitemap derives a pattern when nothing else matched", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{Sitemaps: &mock.SitemapScanner{
			PageURLsFn: func(context.Context, string) ([]string, error) {
				return []string{
					"https://example.com/agents/page/2",
					"https://example.com/agents/page/7",
					"https://example.com/about",
				}, nil
			},
		}}

		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindPath, p.Kind)
		assert.Equal(t, "/agents/page/{page}", p.URLPattern)
		assert.Equal(t, 7, p.MaxPageHint)
		assert.Equal(t, "https://example.com/agents", p.BaseURL)
	})

	t.Run("sitemap pages elsewhere on the site derive nothing", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{Sitemaps: &mock.SitemapScanner{
			PageURLsFn: func(context.Context, string) ([]string, error) {
				return []string{"https://example.com/blog/page/4"}, nil
			},
		}}

		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents",
		})
		require.NoError(t, err)
		assert.Nil(t, p)
	})

	t.Run("sitemap failure leaves the verdict alone", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{Sitemaps: &mock.SitemapScanner{
			PageURLsFn: func(context.Context, string) ([]string, error) {
				return nil, errors.New("robots.txt unreachable")
			},
		}}

		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL: "https://example.com/agents?pn=3",
		})
		require.NoError(t, err)
		require.NotNil(t, p)
		assert.Equal(t, pagebound.KindParameter, p.Kind)
		assert.Zero(t, p.MaxPageHint)
	})

	t.Run("context cancellation propagates from the sitemap scan", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		s := &paginate.FallbackStrategy{Sitemaps: &mock.SitemapScanner{
			PageURLsFn: func(ctx context.Context, _ string) ([]string, error) {
				cancel()
				return nil, ctx.Err()
			},
		}}

		_, err := s.Detect(ctx, &paginate.PageContext{URL: "https://example.com/agents"})
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("nothing matches", func(t *testing.T) {
		t.Parallel()

		s := &paginate.FallbackStrategy{}
		p, err := s.Detect(context.Background(), &paginate.PageContext{
			URL:  "https://example.com/agents",
			HTML: `<a href="/contact">Contact</a><a href="/agents/jane-smith">Jane</a>`,
		})
		require.NoError(t, err)
		assert.Nil(t, p)
	})
}
