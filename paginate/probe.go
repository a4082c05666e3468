package paginate

import (
	"context"
	"log/slog"

	"github.com/imagineworking4288/pagebound"
)

// ProbeResult is the search-facing verdict on one probed page.
type ProbeResult struct {
	Valid           bool
	ContentEstimate int
	Reason          string
}

// ProbeFunc answers whether a page number serves valid, distinct
// content. A returned error means the probe could not be judged at all
// and aborts the search; ordinary navigation failures are reported as
// invalid results instead.
type ProbeFunc func(ctx context.Context, page int) (ProbeResult, error)

// ProbedPage is one loaded candidate page.
type ProbedPage struct {
	URL      string
	Items    []pagebound.Item
	Validity pagebound.PageValidity
}

// Prober loads candidate pages through a shared Navigator and reports
// what came back.
type Prober struct {
	Navigator pagebound.Navigator
	Limiter   pagebound.RateLimiter
	Extractor pagebound.ItemExtractor
	Logger    *slog.Logger
}

// ProbePage generates the URL for page, navigates to it, and extracts
// its items. Navigation and extraction failures are absorbed into the
// validity (FetchErr set) rather than returned; the error return is
// reserved for conditions that invalidate the whole search, i.e.
// leaving the site's domain or context cancellation.
func (p *Prober) ProbePage(ctx context.Context, pattern *pagebound.Pattern, page int) (*ProbedPage, error) {
	pageURL, err := PageURL(pattern, page)
	if err != nil {
		return nil, err
	}
	probed := &ProbedPage{URL: pageURL}

	if err := p.Limiter.Wait(ctx); err != nil {
		return nil, err
	}
	if err := p.Navigator.Goto(ctx, pageURL); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		p.logger().Debug("probe navigation failed", "page", page, "url", pageURL, "error", err)
		probed.Validity.FetchErr = err
		return probed, nil
	}

	if current := p.Navigator.CurrentURL(); current != "" && !pagebound.SameDomain(pattern.BaseURL, current) {
		return nil, pagebound.Errorf(pagebound.EDOMAIN, "page %d redirected off-domain to %s", page, current)
	}

	html, err := p.Navigator.HTML(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		probed.Validity.FetchErr = err
		return probed, nil
	}

	items, err := p.Extractor.Extract(html, pageURL)
	if err != nil {
		probed.Validity.FetchErr = err
		return probed, nil
	}

	probed.Items = items
	probed.Validity = pagebound.PageValidity{
		HasContacts:     len(items) > 0,
		ContentEstimate: len(items),
		ContentHash:     ContentHash(items, html),
	}
	return probed, nil
}

// Oracle builds the ProbeFunc a boundary search runs on: a page is
// valid when it loads, passes the duplicate fingerprint checks, and
// carries at least minContent items. Page 1 is answered from the
// already-loaded entry page rather than fetched again.
func Oracle(prober *Prober, pattern *pagebound.Pattern, fp *Fingerprint, minContent int, pageOne ProbeResult) ProbeFunc {
	return func(ctx context.Context, page int) (ProbeResult, error) {
		if page == 1 {
			return pageOne, nil
		}

		probed, err := prober.ProbePage(ctx, pattern, page)
		if err != nil {
			return ProbeResult{}, err
		}
		if probed.Validity.FetchErr != nil {
			return ProbeResult{Reason: ReasonFetchError}, nil
		}

		ok, reason := fp.Validate(page, probed.Items)
		res := ProbeResult{ContentEstimate: len(probed.Items), Reason: reason}
		if !ok {
			return res, nil
		}
		if len(probed.Items) < minContent {
			res.Reason = ReasonThinContent
			return res, nil
		}
		res.Valid = true
		return res, nil
	}
}

func (p *Prober) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}
