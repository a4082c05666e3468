package paginate

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/imagineworking4288/pagebound"
)

// NavStrategy derives a pattern from the page's visual pagination
// controls by comparing the entry URL against where the next-page
// control leads. When the control carries no href it is clicked once,
// through the rate limiter, and the resulting address is used instead.
type NavStrategy struct {
	Navigator pagebound.Navigator
	Limiter   pagebound.RateLimiter
	Logger    *slog.Logger
}

func (s *NavStrategy) Name() string { return "navigation" }

func (s *NavStrategy) Detect(ctx context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	vc := pc.Controls
	if vc == nil {
		return nil, nil
	}
	if !vc.HasNext && vc.MaxPage == 0 && len(vc.PageNumbers) == 0 {
		return nil, nil
	}

	nextURL := vc.NextURL
	clicked := false
	if nextURL == "" && vc.NextSelector != "" && s.Navigator != nil && s.Limiter != nil {
		if err := s.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
		if err := s.Navigator.Click(ctx, vc.NextSelector); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			if s.Logger != nil {
				s.Logger.Debug("next control click failed", "selector", vc.NextSelector, "error", err)
			}
		} else {
			clicked = true
			nextURL = s.Navigator.CurrentURL()
		}
	}

	var pattern *pagebound.Pattern
	if nextURL != "" && nextURL != pc.URL {
		pattern = InferFromPair(pc.URL, nextURL, len(pc.Items))
	}

	if pattern == nil {
		// A click moved the browser off the entry page; put it back so
		// later strategies see the page they were given context for.
		if clicked {
			if err := s.restore(ctx, pc.URL); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	pattern.Method = pagebound.MethodNavigation
	pattern.MaxPageHint = vc.MaxPage
	return pattern, nil
}

func (s *NavStrategy) restore(ctx context.Context, entryURL string) error {
	if err := s.Limiter.Wait(ctx); err != nil {
		return err
	}
	if err := s.Navigator.Goto(ctx, entryURL); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return pagebound.Errorf(pagebound.ENAVIGATION, "return to %s: %s", entryURL, err)
	}
	return nil
}

// InferFromPair derives a pattern from the URLs of two consecutive
// pages. It recognizes an incremented query parameter, a query
// parameter that first appears with value 2, an offset jump matching
// the page's item count, an incremented numeric path segment, and a
// page segment appended to the first page's path. Returns nil when the
// two URLs differ in none of these ways.
//
// The returned pattern carries no Method; the caller stamps it with how
// the pair was obtained.
func InferFromPair(currentURL, nextURL string, itemCount int) *pagebound.Pattern {
	if !pagebound.SameDomain(currentURL, nextURL) {
		return nil
	}
	cur, err := url.Parse(currentURL)
	if err != nil {
		return nil
	}
	next, err := url.Parse(nextURL)
	if err != nil {
		return nil
	}

	if p := inferFromQuery(cur, next, currentURL, itemCount); p != nil {
		return p
	}
	return inferFromPath(cur, next, currentURL)
}

func inferFromQuery(cur, next *url.URL, currentURL string, itemCount int) *pagebound.Pattern {
	cq, nq := cur.Query(), next.Query()
	names := make([]string, 0, len(nq))
	for name := range nq {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		nv, err := strconv.Atoi(nq.Get(name))
		if err != nil {
			continue
		}
		raw := cq.Get(name)
		if raw == "" {
			// The parameter appears on the second page only.
			switch {
			case nv == 2:
				return &pagebound.Pattern{Kind: pagebound.KindParameter, ParamName: name, BaseURL: currentURL}
			case itemCount >= 1 && nv == itemCount:
				return &pagebound.Pattern{Kind: pagebound.KindOffset, ParamName: name, ItemsPerPage: itemCount, BaseURL: currentURL}
			}
			continue
		}
		cv, err := strconv.Atoi(raw)
		if err != nil {
			continue
		}
		switch {
		case nv == cv+1:
			return &pagebound.Pattern{Kind: pagebound.KindParameter, ParamName: name, BaseURL: currentURL}
		case itemCount >= 1 && nv-cv == itemCount:
			return &pagebound.Pattern{Kind: pagebound.KindOffset, ParamName: name, ItemsPerPage: itemCount, BaseURL: currentURL}
		}
	}
	return nil
}

func inferFromPath(cur, next *url.URL, currentURL string) *pagebound.Pattern {
	curSegs := splitPath(cur.Path)
	nextSegs := splitPath(next.Path)

	if len(curSegs) == len(nextSegs) {
		diff := -1
		for i := range curSegs {
			if curSegs[i] != nextSegs[i] {
				if diff >= 0 {
					return nil // more than one segment changed
				}
				diff = i
			}
		}
		if diff < 0 {
			return nil
		}
		cv, errC := strconv.Atoi(numericPart(curSegs[diff]))
		nv, errN := strconv.Atoi(numericPart(nextSegs[diff]))
		if errC != nil || errN != nil || nv != cv+1 {
			return nil
		}
		return &pagebound.Pattern{
			Kind:       pagebound.KindPath,
			URLPattern: tokenizeSegment(nextSegs, diff),
			BaseURL:    currentURL,
		}
	}

	// The second page appends segments, e.g. /agents -> /agents/page/2.
	if len(nextSegs) > len(curSegs) && hasPrefix(nextSegs, curSegs) {
		last := len(nextSegs) - 1
		if n, err := strconv.Atoi(numericPart(nextSegs[last])); err == nil && n == 2 {
			return &pagebound.Pattern{
				Kind:       pagebound.KindPath,
				URLPattern: tokenizeSegment(nextSegs, last),
				BaseURL:    currentURL,
			}
		}
	}
	return nil
}

// numericPart strips a page-flavored prefix from a path segment, so
// "page-3" and "index-3" compare as 3 while plain "3" passes through.
func numericPart(seg string) string {
	for _, prefix := range []string{"page-", "page_", "page", "index-", "index_", "p-"} {
		if rest, ok := strings.CutPrefix(seg, prefix); ok && rest != "" {
			return rest
		}
	}
	return seg
}

// tokenizeSegment rebuilds a path with segment i's numeric part
// replaced by the page token.
func tokenizeSegment(segs []string, i int) string {
	out := make([]string, len(segs))
	copy(out, segs)
	seg := segs[i]
	num := numericPart(seg)
	if num != seg {
		out[i] = strings.TrimSuffix(seg, num) + pagebound.PageToken
	} else {
		out[i] = pagebound.PageToken
	}
	return "/" + strings.Join(out, "/")
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func hasPrefix(segs, prefix []string) bool {
	if len(prefix) > len(segs) {
		return false
	}
	for i := range prefix {
		if segs[i] != prefix[i] {
			return false
		}
	}
	return true
}
