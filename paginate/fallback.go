package paginate

import (
	"context"
	"html"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/imagineworking4288/pagebound"
)

// Broader parameter names accepted only here, where the URL itself is
// the last evidence left. Several are offsets in common CMS stacks.
var (
	broadPageParams   = []string{"pn", "pageno", "page_no", "pageindex", "page_index", "index"}
	broadOffsetParams = []string{"limitstart", "first", "begin", "startindex", "start_index"}
)

var (
	hrefAttrRe = regexp.MustCompile(`(?i)href\s*=\s*["']([^"']+)["']`)

	// Certain page-2 paths: /page/2, /page-2, /index-2, /p/2 with
	// nothing path-like after the number.
	page2PathRe = regexp.MustCompile(`(?i)/(?:index-?2|page[/_-]?2|p/2)[^/\d]*$`)

	// A bare trailing /2 might be page 2 or might be an entity ID, so
	// it is tried only after every certain candidate failed.
	probablePage2Re = regexp.MustCompile(`/2/?$`)

	// A page segment ending the path, e.g. /agents/page/3 or /list/p-2.
	trailingPageRe = regexp.MustCompile(`(?i)(?:^|/)(?:page|paged|index|p)[/_-]?(\d+)/?$`)

	// A page segment anywhere in a path.
	pageSegRe = regexp.MustCompile(`(?i)(?:^|/)(?:page|p)[/_-]?(\d+)(?:/|$)`)
)

// FallbackStrategy is the last detection resort: broader query
// parameter names, page segments in the entry URL's own path, links to
// page 2 anywhere in the HTML, and finally the site's sitemap, which
// can both reveal a path pattern and bound how many pages exist.
type FallbackStrategy struct {
	Sitemaps pagebound.SitemapScanner
	Logger   *slog.Logger
}

func (s *FallbackStrategy) Name() string { return "url_fallback" }

func (s *FallbackStrategy) Detect(ctx context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	pattern := s.fromBroadParams(pc)
	if pattern == nil {
		pattern = s.fromOwnPath(pc)
	}
	if pattern == nil {
		pattern = s.fromPage2Links(pc)
	}
	return s.applySitemap(ctx, pc, pattern)
}

func (s *FallbackStrategy) fromBroadParams(pc *PageContext) *pagebound.Pattern {
	byLower := queryParamsByLower(pc.URL)
	if len(byLower) == 0 {
		return nil
	}
	for _, name := range broadPageParams {
		qp, ok := byLower[name]
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(qp.Value); err == nil && n >= 1 {
			return &pagebound.Pattern{
				Kind:      pagebound.KindParameter,
				ParamName: qp.Name,
				BaseURL:   pc.URL,
				Method:    pagebound.MethodURLAnalysis,
			}
		}
	}
	for _, name := range broadOffsetParams {
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
				Method:       pagebound.MethodURLAnalysis,
			}
		}
	}
	return nil
}

// fromOwnPath recognizes an entry URL that is itself a numbered page,
// e.g. /agents/page/3.
func (s *FallbackStrategy) fromOwnPath(pc *PageContext) *pagebound.Pattern {
	u, err := url.Parse(pc.URL)
	if err != nil {
		return nil
	}
	idx := trailingPageRe.FindStringSubmatchIndex(u.Path)
	if idx == nil {
		return nil
	}
	return &pagebound.Pattern{
		Kind:       pagebound.KindPath,
		URLPattern: u.Path[:idx[2]] + pagebound.PageToken + u.Path[idx[3]:],
		BaseURL:    pc.URL,
		Method:     pagebound.MethodURLAnalysis,
	}
}

// fromPage2Links scans the page's outbound links for one that leads to
// page 2 and derives the pattern from how that link differs from the
// entry URL.
func (s *FallbackStrategy) fromPage2Links(pc *PageContext) *pagebound.Pattern {
	certain, probable := s.page2Candidates(pc)
	for _, link := range append(certain, probable...) {
		if p := InferFromPair(pc.URL, link, len(pc.Items)); p != nil {
			p.Method = pagebound.MethodURLAnalysis
			return p
		}
	}
	return nil
}

func (s *FallbackStrategy) page2Candidates(pc *PageContext) (certain, probable []string) {
	base, err := url.Parse(pc.URL)
	if err != nil {
		return nil, nil
	}
	seen := make(map[string]bool)
	for _, m := range hrefAttrRe.FindAllStringSubmatch(pc.HTML, -1) {
		ref, err := url.Parse(strings.TrimSpace(html.UnescapeString(m[1])))
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		link := abs.String()
		if seen[link] {
			continue
		}
		seen[link] = true
		if !pagebound.SameDomain(pc.URL, link) {
			continue
		}
		switch {
		case page2PathRe.MatchString(abs.Path) || hasPage2Param(abs):
			certain = append(certain, link)
		case probablePage2Re.MatchString(abs.Path):
			probable = append(probable, link)
		}
	}
	return certain, probable
}

func hasPage2Param(u *url.URL) bool {
	for name, vals := range u.Query() {
		lower := strings.ToLower(name)
		for _, p := range strictPageParams {
			if lower == p && len(vals) == 1 && vals[0] == "2" {
				return true
			}
		}
	}
	return false
}

// applySitemap consults the site's sitemaps: numbered page URLs there
// bound how many pages exist, and when no pattern was found at all a
// path pattern rooted at the entry path can be derived directly.
func (s *FallbackStrategy) applySitemap(ctx context.Context, pc *PageContext, found *pagebound.Pattern) (*pagebound.Pattern, error) {
	if s.Sitemaps == nil {
		return found, nil
	}
	urls, err := s.Sitemaps.PageURLs(ctx, pc.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if s.Logger != nil {
			s.Logger.Debug("sitemap scan failed", "url", pc.URL, "error", err)
		}
		return found, nil
	}
	if len(urls) == 0 {
		return found, nil
	}

	entry, err := url.Parse(pc.URL)
	if err != nil {
		return found, nil
	}
	entryPath := strings.TrimSuffix(entry.Path, "/")

	maxPage := 0
	var derived *pagebound.Pattern
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil {
			continue
		}
		if n := sitemapPageNumber(u, found); n > maxPage {
			maxPage = n
		}
		if found == nil && derived == nil {
			derived = derivePathPattern(u, entryPath, pc.URL)
		}
	}

	if found != nil {
		if found.MaxPageHint == 0 && maxPage >= 2 {
			found.MaxPageHint = maxPage
		}
		return found, nil
	}
	if derived != nil {
		if maxPage >= 2 {
			derived.MaxPageHint = maxPage
		}
		return derived, nil
	}
	return nil, nil
}

func sitemapPageNumber(u *url.URL, found *pagebound.Pattern) int {
	if found != nil && found.Kind == pagebound.KindParameter && found.ParamName != "" {
		if n, err := strconv.Atoi(u.Query().Get(found.ParamName)); err == nil {
			return n
		}
		return 0
	}
	if m := pageSegRe.FindStringSubmatch(u.Path); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	if n, err := strconv.Atoi(u.Query().Get("page")); err == nil {
		return n
	}
	return 0
}

func derivePathPattern(u *url.URL, entryPath, baseURL string) *pagebound.Pattern {
	idx := pageSegRe.FindStringSubmatchIndex(u.Path)
	if idx == nil {
		return nil
	}
	if strings.TrimSuffix(u.Path[:idx[0]], "/") != entryPath {
		return nil
	}
	return &pagebound.Pattern{
		Kind:       pagebound.KindPath,
		URLPattern: u.Path[:idx[2]] + pagebound.PageToken + u.Path[idx[3]:],
		BaseURL:    baseURL,
		Method:     pagebound.MethodURLAnalysis,
	}
}
