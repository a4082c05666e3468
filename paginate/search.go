package paginate

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/imagineworking4288/pagebound"
)

// DefaultMaxIterations bounds the binary-search phase of a boundary
// search. Twenty midpoint probes cover a window of a million pages.
const DefaultMaxIterations = 20

// Search finds the last page number that serves distinct content.
//
// The search never probes the same page twice and never probes past
// HardCap. Every probe and decision is recorded in the result's trace.
type Search struct {
	// Probe answers page validity. Required.
	Probe ProbeFunc

	// HardCap is the highest page number the search may probe. Zero
	// means pagebound.DefaultHardCap.
	HardCap int

	// MaxIterations bounds the midpoint probes of each binary-search
	// round. Zero means DefaultMaxIterations.
	MaxIterations int

	// Hint is an optional starting guess for the boundary, from visual
	// controls or a cached pattern. Zero means no hint.
	Hint int

	Logger *slog.Logger
}

// FindTrueMax runs the boundary search.
//
// The search keeps the invariant that its lower bound is a page that
// was probed valid, so the answer is always a page that actually served
// content; the reported boundary is then confirmed by checking that the
// two pages past it are invalid. When a page just past the boundary
// turns out valid after all, the window is re-extended above it and the
// search runs again, so an undershooting first round (or a single
// missing page number) cannot truncate the result.
func (s *Search) FindTrueMax(ctx context.Context) (*pagebound.BoundaryResult, error) {
	hardCap := s.HardCap
	if hardCap < 1 {
		hardCap = pagebound.DefaultHardCap
	}
	maxIter := s.MaxIterations
	if maxIter < 1 {
		maxIter = DefaultMaxIterations
	}
	logger := s.logger()

	trace := &pagebound.SearchTrace{}
	visited := make(map[int]ProbeResult)

	probe := func(ctx context.Context, page int) (ProbeResult, error) {
		if res, ok := visited[page]; ok {
			return res, nil
		}
		res, err := s.Probe(ctx, page)
		if err != nil {
			return ProbeResult{}, err
		}
		visited[page] = res
		trace.Tested = append(trace.Tested, pagebound.ProbeRecord{
			Page:            page,
			Valid:           res.Valid,
			ContentEstimate: res.ContentEstimate,
			Reason:          res.Reason,
		})
		logger.Debug("probed page", "page", page, "valid", res.Valid, "reason", res.Reason)
		return res, nil
	}
	step := func(format string, args ...any) {
		trace.Path = append(trace.Path, fmt.Sprintf(format, args...))
	}
	finish := func(lower, upper, last int) {
		trace.LowerBound = lower
		trace.UpperBound = upper
		trace.LastValidPage = last
	}

	first, err := probe(ctx, 1)
	if err != nil {
		return nil, err
	}
	if !first.Valid {
		step("page 1 invalid, nothing to search")
		finish(0, 0, 0)
		return &pagebound.BoundaryResult{TrueMax: 0, Confirmed: true, Trace: trace}, nil
	}

	lower, upper := 1, hardCap

	if s.Hint > 0 {
		hint := min(s.Hint, hardCap)
		res, err := probe(ctx, hint)
		if err != nil {
			return nil, err
		}
		if res.Valid {
			step("hint page %d valid, searching above it", hint)
			lower = hint
		} else {
			step("hint page %d invalid (%s), searching below it", hint, res.Reason)
			upper = hint - 1
		}
	}

	// Each round binary-searches the current window, then verifies the
	// boundary. Rounds repeat only when verification finds pagination
	// continuing past the window, and every round moves the lower bound
	// strictly up, so the loop terminates at hardCap at the latest.
	for {
		iterations := 0
		for lower < upper && iterations < maxIter {
			// Upward-biased midpoint: lower only ever advances onto a
			// page that was probed valid.
			mid := (lower + upper + 1) / 2
			res, err := probe(ctx, mid)
			if err != nil {
				return nil, err
			}
			iterations++
			if res.Valid {
				step("page %d valid, boundary at or above", mid)
				lower = mid
			} else {
				step("page %d invalid (%s), boundary below", mid, res.Reason)
				upper = mid - 1
			}
		}
		if lower < upper {
			step("iteration budget spent with window %d-%d, accepting %d", lower, upper, lower)
		}

		last := lower
		if last >= hardCap {
			step("last valid page %d is at the hard cap", last)
			finish(lower, upper, last)
			return &pagebound.BoundaryResult{TrueMax: hardCap, Capped: true, Trace: trace}, nil
		}

		next, err := probe(ctx, last+1)
		if err != nil {
			return nil, err
		}
		if next.Valid {
			step("page %d past the window is valid, extending search", last+1)
			lower, upper = last+1, hardCap
			continue
		}

		if last+2 <= hardCap {
			second, err := probe(ctx, last+2)
			if err != nil {
				return nil, err
			}
			if second.Valid {
				// A hole at last+1: the site skipped a page number but
				// pagination continues past it.
				step("page %d valid past a gap at %d, extending search", last+2, last+1)
				lower, upper = last+2, hardCap
				continue
			}
			step("pages %d and %d invalid, boundary confirmed at %d", last+1, last+2, last)
		} else {
			step("page %d invalid and %d is past the hard cap, boundary confirmed at %d", last+1, last+2, last)
		}

		finish(lower, upper, last)
		return &pagebound.BoundaryResult{TrueMax: last, Confirmed: true, Trace: trace}, nil
	}
}

func (s *Search) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.New(slog.DiscardHandler)
}
