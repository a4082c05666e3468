package paginate_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/mock"
	"github.com/imagineworking4288/pagebound/paginate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSite simulates a paginated listing site: a map from page URL to
// the items served there. URLs not in the map serve the fallback items,
// which is how a site reflecting page 1 for out-of-range pages (or
// serving an empty shell) is modeled.
type fakeSite struct {
	pages    map[string][]pagebound.Item
	fallback []pagebound.Item
	current  string
	waits    int
}

func paramSite(n int) *fakeSite {
	pages := make(map[string][]pagebound.Item, n)
	for page := 1; page <= n; page++ {
		pages[fmt.Sprintf("https://example.com/agents?page=%d", page)] = agentItems((page-1)*25, 25)
	}
	return &fakeSite{pages: pages}
}

func (f *fakeSite) navigator() *mock.Navigator {
	return &mock.Navigator{
		GotoFn: func(_ context.Context, url string) error {
			f.current = url
			return nil
		},
		CurrentURLFn: func() string { return f.current },
		HTMLFn: func(context.Context) (string, error) {
			return `<html><body><ul class="agent-list"></ul></body></html>`, nil
		},
		HeightFn:       func(context.Context) (float64, error) { return 1800, nil },
		ScrollBottomFn: func(context.Context) (float64, error) { return 1800, nil },
	}
}

func (f *fakeSite) extractor() *mock.ItemExtractor {
	return &mock.ItemExtractor{ExtractFn: func(_, baseURL string) ([]pagebound.Item, error) {
		if items, ok := f.pages[baseURL]; ok {
			return items, nil
		}
		return f.fallback, nil
	}}
}

func (f *fakeSite) limiter() *mock.RateLimiter {
	return &mock.RateLimiter{WaitFn: func(context.Context) error {
		f.waits++
		return nil
	}}
}

func TestPaginator_Discover(t *testing.T) {
	t.Parallel()

	t.Run("parameter site that reflects page one when out of range", func(t *testing.T) {
		t.Parallel()

		site := paramSite(12)
		site.fallback = agentItems(0, 25)

		var storedDomain string
		var stored *pagebound.Pattern
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Cache: &mock.PatternCache{
				GetPatternFn: func(_ context.Context, domain string) (*pagebound.Pattern, error) {
					return nil, pagebound.Errorf(pagebound.ENOTFOUND, "no pattern for %s", domain)
				},
				PutPatternFn: func(_ context.Context, domain string, pattern *pagebound.Pattern) error {
					storedDomain = domain
					stored = pattern
					return nil
				},
			},
		}

		disc, err := p.Discover(context.Background(), "https://example.com/agents?page=1")
		require.NoError(t, err)

		assert.Equal(t, 12, disc.TotalPages)
		assert.True(t, disc.BoundaryConfirmed)
		assert.False(t, disc.Capped)
		require.Len(t, disc.URLs, 12)
		assert.Equal(t, "https://example.com/agents?page=1", disc.URLs[0])
		assert.Equal(t, "https://example.com/agents?page=12", disc.URLs[11])

		require.NotNil(t, disc.Pattern)
		assert.Equal(t, pagebound.KindParameter, disc.Pattern.Kind)
		assert.Equal(t, "page", disc.Pattern.ParamName)
		assert.Equal(t, pagebound.MethodURLParameter, disc.Pattern.Method)
		assert.Equal(t, 50, disc.Pattern.Confidence)
		assert.Equal(t, 60, disc.Confidence)

		require.NotNil(t, disc.Trace)
		assert.Equal(t, 12, disc.Trace.LastValidPage)

		// One rate-limited navigation for the entry page plus one per
		// probe; page 1 is answered from the entry page for free.
		assert.Equal(t, len(disc.Trace.Tested), site.waits)

		assert.Equal(t, "example.com", storedDomain)
		require.NotNil(t, stored)
		assert.Equal(t, 12, stored.MaxPageHint)
		assert.Equal(t, 60, stored.Confidence)
	})

	t.Run("navigation controls site", func(t *testing.T) {
		t.Parallel()

		entry := "https://realty.example.com/agents"
		pages := map[string][]pagebound.Item{entry: agentItems(0, 25)}
		for page := 1; page <= 8; page++ {
			pages[fmt.Sprintf("%s?page=%d", entry, page)] = agentItems((page-1)*25, 25)
		}
		site := &fakeSite{pages: pages}

		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Controls: &mock.ControlInspector{InspectFn: func(_, _ string) (*pagebound.VisualControls, error) {
				return &pagebound.VisualControls{
					HasContainer: true,
					HasNext:      true,
					NextURL:      entry + "?page=2",
					PageNumbers:  []int{1, 2, 3, 8},
					MaxPage:      8,
				}, nil
			}},
		}

		disc, err := p.Discover(context.Background(), entry)
		require.NoError(t, err)

		assert.Equal(t, 8, disc.TotalPages)
		assert.True(t, disc.BoundaryConfirmed)
		require.NotNil(t, disc.Pattern)
		assert.Equal(t, pagebound.MethodNavigation, disc.Pattern.Method)
		assert.Equal(t, 80, disc.Pattern.Confidence)
		assert.Equal(t, 90, disc.Confidence)

		// The max-page control seeds the search, so page 8 is the first
		// probe after the seeded page 1.
		require.GreaterOrEqual(t, len(disc.Trace.Tested), 2)
		assert.Equal(t, 8, disc.Trace.Tested[1].Page)
	})

	t.Run("operator config outranks detection", func(t *testing.T) {
		t.Parallel()

		site := paramSite(3)
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Config: &pagebound.SiteConfig{Domains: map[string]pagebound.DomainConfig{
				"example.com": {Kind: pagebound.KindParameter, Param: "page"},
			}},
			Cache: &mock.PatternCache{
				GetPatternFn: func(context.Context, string) (*pagebound.Pattern, error) {
					t.Error("manual pattern must preempt the cache")
					return nil, pagebound.Errorf(pagebound.ENOTFOUND, "unreachable")
				},
				PutPatternFn: func(context.Context, string, *pagebound.Pattern) error {
					t.Error("manual patterns are not written back")
					return nil
				},
			},
		}

		disc, err := p.Discover(context.Background(), "https://example.com/agents?page=1")
		require.NoError(t, err)
		assert.Equal(t, pagebound.MethodManual, disc.Pattern.Method)
		assert.Equal(t, 3, disc.TotalPages)
		assert.Equal(t, 70, disc.Confidence)
	})

	t.Run("cached pattern is reused and not written back", func(t *testing.T) {
		t.Parallel()

		site := paramSite(5)
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Cache: &mock.PatternCache{
				GetPatternFn: func(_ context.Context, domain string) (*pagebound.Pattern, error) {
					assert.Equal(t, "example.com", domain)
					return &pagebound.Pattern{
						Kind:        pagebound.KindParameter,
						ParamName:   "page",
						BaseURL:     "https://example.com/agents?page=1",
						MaxPageHint: 5,
						Method:      pagebound.MethodURLParameter,
						Confidence:  60,
					}, nil
				},
				PutPatternFn: func(context.Context, string, *pagebound.Pattern) error {
					t.Error("cached patterns are not written back")
					return nil
				},
			},
		}

		disc, err := p.Discover(context.Background(), "https://example.com/agents?page=1")
		require.NoError(t, err)
		assert.Equal(t, pagebound.MethodCache, disc.Pattern.Method)
		assert.Equal(t, 5, disc.TotalPages)
		assert.True(t, disc.BoundaryConfirmed)
	})

	t.Run("no detectable pagination yields a single page", func(t *testing.T) {
		t.Parallel()

		entry := "https://example.com/our-team"
		site := &fakeSite{pages: map[string][]pagebound.Item{entry: agentItems(0, 10)}}
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
		}

		disc, err := p.Discover(context.Background(), entry)
		require.NoError(t, err)
		assert.Equal(t, 1, disc.TotalPages)
		assert.Equal(t, []string{entry}, disc.URLs)
		assert.Nil(t, disc.Pattern)
		assert.True(t, disc.BoundaryConfirmed)
		assert.Zero(t, disc.Confidence)
	})

	t.Run("infinite scroll yields the entry page only", func(t *testing.T) {
		t.Parallel()

		entry := "https://example.com/feed"
		site := &fakeSite{pages: map[string][]pagebound.Item{entry: agentItems(0, 25)}}
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Scroll: &mock.ScrollInspector{SignalsFn: func(string) (*pagebound.ScrollSignals, error) {
				return &pagebound.ScrollSignals{
					KnownLibrary:         true,
					ScrollListener:       true,
					LoadMore:             true,
					IntersectionObserver: true,
				}, nil
			}},
		}

		disc, err := p.Discover(context.Background(), entry)
		require.NoError(t, err)
		assert.Equal(t, 1, disc.TotalPages)
		assert.Equal(t, []string{entry}, disc.URLs)
		require.NotNil(t, disc.Pattern)
		assert.Equal(t, pagebound.KindInfiniteScroll, disc.Pattern.Kind)
		assert.Equal(t, 30, disc.Confidence)
		assert.False(t, disc.BoundaryConfirmed)
	})

	t.Run("cursor pagination is unsupported", func(t *testing.T) {
		t.Parallel()

		entry := "https://example.com/feed?after=djE6MTcy"
		site := &fakeSite{pages: map[string][]pagebound.Item{entry: agentItems(0, 25)}}
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
		}

		_, err := p.Discover(context.Background(), entry)
		require.Error(t, err)
		assert.Equal(t, pagebound.EUNSUPPORTED, pagebound.ErrorCode(err))
	})

	t.Run("cursor entry with a numeric next control yields page URLs", func(t *testing.T) {
		t.Parallel()

		entry := "https://example.com/feed?after=djE6MTcy"
		pages := map[string][]pagebound.Item{entry: agentItems(0, 25)}
		for page := 1; page <= 4; page++ {
			pages[fmt.Sprintf("https://example.com/feed?after=djE6MTcy&page=%d", page)] = agentItems((page-1)*25, 25)
		}
		site := &fakeSite{pages: pages, fallback: agentItems(0, 25)}

		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Controls: &mock.ControlInspector{InspectFn: func(_, _ string) (*pagebound.VisualControls, error) {
				return &pagebound.VisualControls{
					HasContainer: true,
					HasNext:      true,
					NextURL:      "https://example.com/feed?after=djE6MTcy&page=2",
				}, nil
			}},
		}

		disc, err := p.Discover(context.Background(), entry)
		require.NoError(t, err)

		require.NotNil(t, disc.Pattern)
		assert.Equal(t, pagebound.KindParameter, disc.Pattern.Kind)
		assert.Equal(t, "page", disc.Pattern.ParamName)
		assert.Equal(t, pagebound.MethodNavigation, disc.Pattern.Method)
		assert.Equal(t, 4, disc.TotalPages)
		assert.True(t, disc.BoundaryConfirmed)
		require.Len(t, disc.URLs, 4)
		assert.Equal(t, "https://example.com/feed?after=djE6MTcy&page=1", disc.URLs[0])
	})

	t.Run("cursor entry with an opaque next control stays unsupported", func(t *testing.T) {
		t.Parallel()

		entry := "https://example.com/feed?after=djE6MTcy"
		site := &fakeSite{pages: map[string][]pagebound.Item{entry: agentItems(0, 25)}}
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Controls: &mock.ControlInspector{InspectFn: func(_, _ string) (*pagebound.VisualControls, error) {
				return &pagebound.VisualControls{
					HasContainer: true,
					HasNext:      true,
					NextURL:      "https://example.com/feed?after=djE6Mjgw",
				}, nil
			}},
		}

		_, err := p.Discover(context.Background(), entry)
		require.Error(t, err)
		assert.Equal(t, pagebound.EUNSUPPORTED, pagebound.ErrorCode(err))
	})

	t.Run("entry page without content", func(t *testing.T) {
		t.Parallel()

		site := &fakeSite{}
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
		}

		_, err := p.Discover(context.Background(), "https://example.com/agents")
		require.Error(t, err)
		assert.Equal(t, pagebound.ENOCONTENT, pagebound.ErrorCode(err))
	})

	t.Run("entry page that will not load", func(t *testing.T) {
		t.Parallel()

		p := &paginate.Paginator{
			Navigator: &mock.Navigator{GotoFn: func(context.Context, string) error {
				return errors.New("net::ERR_NAME_NOT_RESOLVED")
			}},
			Limiter:   mock.NopLimiter(),
			Extractor: &mock.ItemExtractor{},
		}

		_, err := p.Discover(context.Background(), "https://example.com/agents")
		require.Error(t, err)
		assert.Equal(t, pagebound.ENAVIGATION, pagebound.ErrorCode(err))
	})

	t.Run("entry redirecting off-domain", func(t *testing.T) {
		t.Parallel()

		p := &paginate.Paginator{
			Navigator: &mock.Navigator{
				GotoFn:       func(context.Context, string) error { return nil },
				CurrentURLFn: func() string { return "https://sso.identity-provider.net/login" },
			},
			Limiter:   mock.NopLimiter(),
			Extractor: &mock.ItemExtractor{},
		}

		_, err := p.Discover(context.Background(), "https://example.com/agents")
		require.Error(t, err)
		assert.Equal(t, pagebound.EDOMAIN, pagebound.ErrorCode(err))
	})

	t.Run("per-domain hard cap from config", func(t *testing.T) {
		t.Parallel()

		site := paramSite(200)
		p := &paginate.Paginator{
			Navigator: site.navigator(),
			Limiter:   site.limiter(),
			Extractor: site.extractor(),
			Config: &pagebound.SiteConfig{Domains: map[string]pagebound.DomainConfig{
				"example.com": {HardCap: 50},
			}},
		}

		disc, err := p.Discover(context.Background(), "https://example.com/agents?page=1")
		require.NoError(t, err)
		assert.Equal(t, pagebound.MethodURLParameter, disc.Pattern.Method,
			"a limits-only domain entry is not a manual pattern")
		assert.Equal(t, 50, disc.TotalPages)
		assert.True(t, disc.Capped)
		assert.False(t, disc.BoundaryConfirmed)
		for _, rec := range disc.Trace.Tested {
			assert.LessOrEqual(t, rec.Page, 50)
		}
	})
}
