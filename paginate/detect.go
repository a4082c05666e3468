package paginate

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"github.com/imagineworking4288/pagebound"
)

// PageContext is everything the detector knows about the loaded entry
// page. Controls and Signals are nil when their inspection failed.
type PageContext struct {
	// URL is the entry page's URL after redirects.
	URL string

	// HTML is the rendered entry page.
	HTML string

	// Items are the content-bearing records extracted from the page.
	Items []pagebound.Item

	Controls *pagebound.VisualControls
	Signals  *pagebound.ScrollSignals
}

// Strategy is one way of detecting a pagination pattern. Detect returns
// (nil, nil) when the strategy simply does not apply to the page.
type Strategy interface {
	Name() string
	Detect(ctx context.Context, pc *PageContext) (*pagebound.Pattern, error)
}

// Detector runs strategies in priority order and stops at the first
// pattern found. A strategy error is logged and the cascade falls
// through to the next strategy; only context cancellation aborts.
type Detector struct {
	Strategies []Strategy
	Logger     *slog.Logger
}

// Detect runs the cascade. Returns (nil, nil) when no strategy matched.
func (d *Detector) Detect(ctx context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	logger := d.logger()
	for _, s := range d.Strategies {
		p, err := s.Detect(ctx, pc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			logger.Warn("detection strategy failed", "strategy", s.Name(), "error", err)
			continue
		}
		if p != nil {
			logger.Debug("detection strategy matched", "strategy", s.Name(), "kind", p.Kind)
			return p, nil
		}
	}
	return nil, nil
}

func (d *Detector) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// ManualStrategy applies an operator-supplied pattern for the domain.
type ManualStrategy struct {
	Config *pagebound.SiteConfig
}

func (s *ManualStrategy) Name() string { return "manual" }

func (s *ManualStrategy) Detect(_ context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	dc, ok := s.Config.Domain(pc.URL)
	if !ok || dc.Kind == "" || dc.Kind == pagebound.KindNone {
		// Domain entries may carry only limits, with no manual pattern.
		return nil, nil
	}
	return dc.Pattern(pc.URL)
}

// CacheStrategy reuses a pattern discovered on an earlier run against
// the same domain.
type CacheStrategy struct {
	Cache  pagebound.PatternCache
	Logger *slog.Logger
}

func (s *CacheStrategy) Name() string { return "cache" }

func (s *CacheStrategy) Detect(ctx context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	if s.Cache == nil {
		return nil, nil
	}
	key, err := pagebound.DomainKey(pc.URL)
	if err != nil {
		return nil, nil
	}
	p, err := s.Cache.GetPattern(ctx, key)
	if err != nil {
		if pagebound.ErrorCode(err) == pagebound.ENOTFOUND {
			return nil, nil
		}
		return nil, err
	}

	// Re-root the pattern at today's entry URL so current filters and
	// sort parameters survive, and never trust a stored pattern that no
	// longer validates.
	p.BaseURL = pc.URL
	p.Method = pagebound.MethodCache
	if err := p.Validate(); err != nil {
		if s.Logger != nil {
			s.Logger.Warn("cached pattern invalid, ignoring", "domain", key, "error", err)
		}
		return nil, nil
	}
	return p, nil
}

// Parameter names checked by URLParamStrategy, in priority order. Only
// names this strongly page-flavored are trusted on sight; broader names
// are left to FallbackStrategy where more corroboration is required.
var (
	strictPageParams   = []string{"page", "p", "pg", "paged", "pagenum", "page_num", "pagenumber", "page_number"}
	strictOffsetParams = []string{"offset", "start", "skip", "from"}
	cursorParams       = []string{"cursor", "after", "continuation", "next_token", "page_token"}
)

// URLParamStrategy recognizes pagination already present in the entry
// URL's query string. A page-flavored parameter with a numeric value is
// the strongest automatic signal there is: the site itself told us how
// it paginates.
type URLParamStrategy struct{}

func (s *URLParamStrategy) Name() string { return "url_parameter" }

func (s *URLParamStrategy) Detect(_ context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	byLower := queryParamsByLower(pc.URL)
	if len(byLower) == 0 {
		return nil, nil
	}

	for _, name := range strictPageParams {
		qp, ok := byLower[name]
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(qp.Value); err == nil && n >= 1 {
			return &pagebound.Pattern{
				Kind:      pagebound.KindParameter,
				ParamName: qp.Name,
				BaseURL:   pc.URL,
				Method:    pagebound.MethodURLParameter,
			}, nil
		}
	}

	for _, name := range strictOffsetParams {
		qp, ok := byLower[name]
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(qp.Value); err == nil && n >= 0 && len(pc.Items) >= 1 {
			return &pagebound.Pattern{
				Kind:         pagebound.KindOffset,
				ParamName:    qp.Name,
				ItemsPerPage: len(pc.Items),
				BaseURL:      pc.URL,
				Method:       pagebound.MethodURLParameter,
			}, nil
		}
	}

	if p := cursorPattern(pc); p != nil && !hasVisualPager(pc.Controls) {
		return p, nil
	}

	return nil, nil
}

// CursorStrategy runs last in the cascade. An opaque cursor in the
// entry URL is only the site's final answer once the visual pager, if
// any, has failed to yield numeric page URLs; until then the
// navigation and fallback strategies get their turn.
type CursorStrategy struct{}

func (s *CursorStrategy) Name() string { return "cursor" }

func (s *CursorStrategy) Detect(_ context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	return cursorPattern(pc), nil
}

// cursorPattern reports the cursor-flavored query parameter carried by
// the entry URL, or nil.
func cursorPattern(pc *PageContext) *pagebound.Pattern {
	byLower := queryParamsByLower(pc.URL)
	for _, name := range cursorParams {
		qp, ok := byLower[name]
		if !ok || qp.Value == "" {
			continue
		}
		return &pagebound.Pattern{
			Kind:      pagebound.KindCursor,
			ParamName: qp.Name,
			BaseURL:   pc.URL,
			Method:    pagebound.MethodURLParameter,
		}
	}
	return nil
}

// hasVisualPager reports whether the page shows controls a later
// strategy could turn into page URLs.
func hasVisualPager(vc *pagebound.VisualControls) bool {
	if vc == nil {
		return false
	}
	return (vc.HasNext && vc.NextURL != "") || len(vc.PageNumbers) > 0 || vc.MaxPage > 0
}

// queryParam is one query parameter with the site's own spelling kept
// for URL generation.
type queryParam struct{ Name, Value string }

// queryParamsByLower indexes a URL's query parameters by lowercased
// name so matching is case-insensitive. First value wins.
func queryParamsByLower(rawURL string) map[string]queryParam {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	query := u.Query()
	if len(query) == 0 {
		return nil
	}
	byLower := make(map[string]queryParam, len(query))
	for name, vals := range query {
		if len(vals) == 0 {
			continue
		}
		lower := strings.ToLower(name)
		if _, ok := byLower[lower]; !ok {
			byLower[lower] = queryParam{Name: name, Value: vals[0]}
		}
	}
	return byLower
}
