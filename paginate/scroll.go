package paginate

import (
	"context"
	"log/slog"

	"github.com/imagineworking4288/pagebound"
)

// Infinite-scroll scoring. Static signals score one point each, the
// live growth test three; detection requires scrollThreshold of the
// ten possible points.
const (
	scrollThreshold  = 4
	growthScore      = 3
	lazyLoadMinCount = 5
	tallPageHeight   = 5000
)

// ScrollStrategy detects infinite scrolling by scoring weighted
// signals: markers in the static HTML, the rendered document height,
// and, when the static evidence alone is inconclusive, a live scroll
// test that checks whether content grows.
//
// Numeric page controls outrank scroll signals entirely: listing sites
// often lazy-load images inside classic pagination, and treating them
// as infinite scroll would forfeit their page URLs.
type ScrollStrategy struct {
	Navigator pagebound.Navigator
	Limiter   pagebound.RateLimiter
	Extractor pagebound.ItemExtractor
	Logger    *slog.Logger
}

func (s *ScrollStrategy) Name() string { return "infinite_scroll" }

func (s *ScrollStrategy) Detect(ctx context.Context, pc *PageContext) (*pagebound.Pattern, error) {
	if vc := pc.Controls; vc != nil && (vc.MaxPage > 0 || len(vc.PageNumbers) > 0) {
		return nil, nil
	}

	score := s.staticScore(ctx, pc)

	// The live test costs a real scroll, so run it only when it can
	// change the verdict.
	if score >= scrollThreshold-growthScore && score < scrollThreshold &&
		s.Navigator != nil && s.Limiter != nil && s.Extractor != nil {
		grew, err := s.contentGrows(ctx, pc)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			if s.Logger != nil {
				s.Logger.Debug("scroll growth test failed", "url", pc.URL, "error", err)
			}
		} else if grew {
			score += growthScore
		}
	}

	if s.Logger != nil {
		s.Logger.Debug("infinite scroll score", "url", pc.URL, "score", score)
	}
	if score < scrollThreshold {
		return nil, nil
	}
	return &pagebound.Pattern{
		Kind:    pagebound.KindInfiniteScroll,
		BaseURL: pc.URL,
		Method:  pagebound.MethodScrollHeuristic,
	}, nil
}

func (s *ScrollStrategy) staticScore(ctx context.Context, pc *PageContext) int {
	score := 0
	if sig := pc.Signals; sig != nil {
		if sig.KnownLibrary {
			score++
		}
		if sig.LazyLoadCount >= lazyLoadMinCount {
			score++
		}
		if sig.ScrollListener {
			score++
		}
		if sig.LoadMore {
			score++
		}
		if sig.VirtualList {
			score++
		}
		if sig.IntersectionObserver {
			score++
		}
	}
	if s.Navigator != nil {
		if h, err := s.Navigator.Height(ctx); err == nil && h > tallPageHeight {
			score++
		}
	}
	return score
}

// contentGrows scrolls to the bottom once and reports whether more
// items appeared or the document grew.
func (s *ScrollStrategy) contentGrows(ctx context.Context, pc *PageContext) (bool, error) {
	if err := s.Limiter.Wait(ctx); err != nil {
		return false, err
	}
	before, err := s.Navigator.Height(ctx)
	if err != nil {
		return false, err
	}
	after, err := s.Navigator.ScrollBottom(ctx)
	if err != nil {
		return false, err
	}
	html, err := s.Navigator.HTML(ctx)
	if err != nil {
		return false, err
	}
	items, err := s.Extractor.Extract(html, pc.URL)
	if err != nil {
		return false, err
	}
	return len(items) > len(pc.Items) || after > before, nil
}
