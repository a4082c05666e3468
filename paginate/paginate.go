// Package paginate implements pagination discovery. Given one loaded
// listing page it detects the site's pagination pattern through a
// cascade of strategies, maps page numbers onto URLs deterministically,
// and binary-searches for the last page that serves distinct content,
// guarding against sites that quietly serve page 1 again for
// out-of-range page numbers.
package paginate

import (
	"context"
	"log/slog"

	"github.com/imagineworking4288/pagebound"
)

// Paginator runs full pagination discovery against a single site.
//
// Navigator, Limiter and Extractor are required. Controls and Scroll
// enrich detection when present; Cache, Sitemaps and Config enable the
// cache, sitemap-hint and manual-pattern strategies.
//
// Discovery is sequential on the one Navigator so the site sees a
// single visitor.
type Paginator struct {
	Navigator pagebound.Navigator
	Limiter   pagebound.RateLimiter
	Extractor pagebound.ItemExtractor
	Controls  pagebound.ControlInspector
	Scroll    pagebound.ScrollInspector
	Cache     pagebound.PatternCache
	Sitemaps  pagebound.SitemapScanner
	Config    *pagebound.SiteConfig

	// MinContent is the smallest item count a page must carry to count
	// as content-bearing. Zero means pagebound.DefaultMinContent.
	MinContent int

	// HardCap is the highest page number any probe may touch. Zero
	// means pagebound.DefaultHardCap.
	HardCap int

	// MaxIterations bounds each binary-search round. Zero means
	// DefaultMaxIterations.
	MaxIterations int

	Logger *slog.Logger
}

// Discover loads rawURL, detects how the site paginates, and finds the
// true last page. A site with no detectable pagination yields a
// single-page Discovery rather than an error.
//
// Errors surface only for conditions that make the site unworkable:
// ENAVIGATION when the entry page will not load, ENOCONTENT when it
// carries no content items, EDOMAIN when navigation leaves the site,
// and EUNSUPPORTED for cursor pagination with no usable visual
// fallback.
func (p *Paginator) Discover(ctx context.Context, rawURL string) (*pagebound.Discovery, error) {
	logger := p.logger()

	minContent := p.MinContent
	if minContent < 1 {
		minContent = pagebound.DefaultMinContent
	}
	hardCap := p.HardCap
	if hardCap < 1 {
		hardCap = pagebound.DefaultHardCap
	}
	if dc, ok := p.Config.Domain(rawURL); ok {
		if dc.MinContent > 0 {
			minContent = dc.MinContent
		}
		if dc.HardCap > 0 {
			hardCap = dc.HardCap
		}
	}

	if err := p.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if err := p.Navigator.Goto(ctx, rawURL); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pagebound.Errorf(pagebound.ENAVIGATION, "load %s: %s", rawURL, err)
	}
	entryURL := p.Navigator.CurrentURL()
	if entryURL == "" {
		entryURL = rawURL
	}
	if !pagebound.SameDomain(rawURL, entryURL) {
		return nil, pagebound.Errorf(pagebound.EDOMAIN, "%s redirected off-domain to %s", rawURL, entryURL)
	}

	html, err := p.Navigator.HTML(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, pagebound.Errorf(pagebound.ENAVIGATION, "read %s: %s", entryURL, err)
	}

	items, err := p.Extractor.Extract(html, entryURL)
	if err != nil {
		return nil, err
	}
	logger.Info("entry page loaded", "url", entryURL, "items", len(items))
	if len(items) < minContent {
		return nil, pagebound.Errorf(pagebound.ENOCONTENT, "%s has %d content items, need at least %d", entryURL, len(items), minContent)
	}

	fp := CaptureFingerprint(items)

	pc := &PageContext{URL: entryURL, HTML: html, Items: items}
	if p.Controls != nil {
		vc, err := p.Controls.Inspect(html, entryURL)
		if err != nil {
			logger.Warn("control inspection failed", "url", entryURL, "error", err)
		} else {
			pc.Controls = vc
		}
	}
	if p.Scroll != nil {
		sig, err := p.Scroll.Signals(html)
		if err != nil {
			logger.Warn("scroll inspection failed", "url", entryURL, "error", err)
		} else {
			pc.Signals = sig
		}
	}

	pattern, err := p.detector().Detect(ctx, pc)
	if err != nil {
		return nil, err
	}
	if pattern == nil {
		logger.Info("no pagination detected", "url", entryURL)
		return &pagebound.Discovery{
			BaseURL:           entryURL,
			URLs:              []string{entryURL},
			TotalPages:        1,
			BoundaryConfirmed: true,
		}, nil
	}

	pattern.Confidence = Score(pattern, pc.Controls)
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	logger.Info("pattern detected",
		"kind", pattern.Kind,
		"method", pattern.Method,
		"confidence", pattern.Confidence)

	switch pattern.Kind {
	case pagebound.KindCursor:
		return nil, pagebound.Errorf(pagebound.EUNSUPPORTED,
			"%s paginates with an opaque %q cursor; page URLs cannot be generated", entryURL, pattern.ParamName)
	case pagebound.KindInfiniteScroll:
		return &pagebound.Discovery{
			BaseURL:    entryURL,
			URLs:       []string{entryURL},
			Pattern:    pattern,
			TotalPages: 1,
			Confidence: pattern.Confidence,
		}, nil
	}

	prober := &Prober{
		Navigator: p.Navigator,
		Limiter:   p.Limiter,
		Extractor: p.Extractor,
		Logger:    logger,
	}
	pageOne := ProbeResult{Valid: true, ContentEstimate: len(items), Reason: ReasonPageOne}
	search := &Search{
		Probe:         Oracle(prober, pattern, fp, minContent, pageOne),
		HardCap:       hardCap,
		MaxIterations: p.MaxIterations,
		Hint:          boundaryHint(pattern, pc.Controls),
		Logger:        logger,
	}

	bounds, err := search.FindTrueMax(ctx)
	if err != nil {
		if pagebound.ErrorCode(err) == pagebound.EDOMAIN || ctx.Err() != nil {
			return nil, err
		}
		// The pattern itself is still usable. Fall back to the best
		// page count on hand rather than discarding the discovery.
		logger.Warn("boundary search failed", "url", entryURL, "error", err)
		bounds = &pagebound.BoundaryResult{TrueMax: 1}
		if h := boundaryHint(pattern, pc.Controls); h > 0 {
			bounds.TrueMax = min(h, hardCap)
		}
	}

	urls := make([]string, 0, bounds.TrueMax)
	for page := 1; page <= bounds.TrueMax; page++ {
		u, err := PageURL(pattern, page)
		if err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}

	disc := &pagebound.Discovery{
		BaseURL:           entryURL,
		URLs:              urls,
		Pattern:           pattern,
		TotalPages:        bounds.TrueMax,
		Confidence:        Overall(pattern.Confidence, bounds.Confirmed, bounds.Capped),
		Capped:            bounds.Capped,
		BoundaryConfirmed: bounds.Confirmed,
		Trace:             bounds.Trace,
	}
	logger.Info("discovery complete",
		"url", entryURL,
		"pages", disc.TotalPages,
		"confidence", disc.Confidence,
		"confirmed", disc.BoundaryConfirmed,
		"capped", disc.Capped)

	p.persist(ctx, entryURL, pattern, disc)
	return disc, nil
}

// persist stores a newly discovered pattern for the domain. Patterns
// that came from the cache or operator config are not written back.
func (p *Paginator) persist(ctx context.Context, entryURL string, pattern *pagebound.Pattern, disc *pagebound.Discovery) {
	if p.Cache == nil {
		return
	}
	if pattern.Method == pagebound.MethodCache || pattern.Method == pagebound.MethodManual {
		return
	}
	key, err := pagebound.DomainKey(entryURL)
	if err != nil {
		return
	}
	stored := *pattern
	stored.MaxPageHint = disc.TotalPages
	stored.Confidence = disc.Confidence
	if err := p.Cache.PutPattern(ctx, key, &stored); err != nil {
		p.logger().Warn("pattern cache write failed", "domain", key, "error", err)
	}
}

func (p *Paginator) detector() *Detector {
	return &Detector{
		Strategies: []Strategy{
			&ManualStrategy{Config: p.Config},
			&CacheStrategy{Cache: p.Cache, Logger: p.logger()},
			&URLParamStrategy{},
			&NavStrategy{Navigator: p.Navigator, Limiter: p.Limiter, Logger: p.logger()},
			&ScrollStrategy{Navigator: p.Navigator, Limiter: p.Limiter, Extractor: p.Extractor, Logger: p.logger()},
			&FallbackStrategy{Sitemaps: p.Sitemaps, Logger: p.logger()},
			&CursorStrategy{},
		},
		Logger: p.logger(),
	}
}

// boundaryHint picks a starting guess for the boundary search: explicit
// controls win, then any hint carried by the pattern, then a page count
// derived from a visible total result count.
func boundaryHint(p *pagebound.Pattern, vc *pagebound.VisualControls) int {
	if vc != nil && vc.MaxPage > 0 {
		return vc.MaxPage
	}
	if p.MaxPageHint > 0 {
		return p.MaxPageHint
	}
	if vc != nil && vc.TotalItems > 0 && p.ItemsPerPage > 0 {
		return (vc.TotalItems + p.ItemsPerPage - 1) / p.ItemsPerPage
	}
	return 0
}

func (p *Paginator) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}
