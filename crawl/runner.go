// Package crawl provides the scrape phase: once pagination discovery
// has produced the full list of page URLs, a Runner fetches every page
// with a worker pool, extracts contact records, and deduplicates them
// across pages.
package crawl

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/bloom"
	"golang.org/x/sync/errgroup"
)

// Dedup filter sizing: listing sites rarely exceed a few thousand
// distinct contacts, 10k at 1% keeps memory trivial either way.
const (
	dedupCapacity = 10000
	dedupFPRate   = 0.01
)

// Runner scrapes a discovered set of page URLs.
type Runner struct {
	Fetcher     pagebound.Fetcher
	Contacts    pagebound.ContactExtractor
	Limiter     pagebound.RateLimiter
	Concurrency int
	RetryDelays []time.Duration
	Logger      *slog.Logger
}

// Result holds the outcome of a scrape run.
type Result struct {
	// Pages is how many pages were fetched successfully.
	Pages int

	// Failed is how many pages failed all retry attempts.
	Failed int

	// Contacts are the deduplicated records in page order.
	Contacts []pagebound.Contact
}

// ProgressEvent reports progress during a scrape run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Contacts  int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single page URL.
type pageResult struct {
	position int
	url      string
	contacts []pagebound.Contact
	err      error
}

// Run fetches every URL, extracts contacts, and merges them in page
// order with cross-page deduplication. Individual page failures are
// counted, not fatal; Run errs only on context cancellation.
//
// The rate limiter is awaited before every physical fetch regardless of
// concurrency, so the worker pool never exceeds the site's pace.
func (r *Runner) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	delays := r.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}

	total := len(urls)
	if progress != nil {
		progress(ProgressEvent{Type: ProgressStarted, Total: total})
	}

	resultCh := make(chan pageResult, total)
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	go func() {
		for i, url := range urls {
			g.Go(func() error {
				resultCh <- r.scrapePage(gctx, i, url, delays)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	// Collect results into page order.
	results := make([]pageResult, total)
	for res := range resultCh {
		completed.Add(1)
		results[res.position] = res

		if progress == nil {
			continue
		}
		ev := ProgressEvent{
			Completed: int(completed.Load()),
			Total:     total,
			URL:       res.url,
		}
		if res.err != nil {
			ev.Type = ProgressFailed
			ev.Error = res.err
		} else {
			ev.Type = ProgressCompleted
			ev.Contacts = len(res.contacts)
		}
		progress(ev)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Merge in page order, dropping records already seen on earlier
	// pages. Featured contacts reappearing on every page are the common
	// case; a Bloom filter keeps the seen set cheap.
	out := &Result{}
	seen := bloom.NewFilter(dedupCapacity, dedupFPRate)
	for _, res := range results {
		if res.err != nil {
			out.Failed++
			continue
		}
		out.Pages++
		for _, c := range res.contacts {
			if seen.TestAndAdd(contactKey(&c)) {
				continue
			}
			out.Contacts = append(out.Contacts, c)
		}
	}

	if progress != nil {
		progress(ProgressEvent{
			Type:      ProgressFinished,
			Completed: total,
			Total:     total,
			Contacts:  len(out.Contacts),
		})
	}
	return out, nil
}

// scrapePage fetches one page with retries and extracts its contacts.
func (r *Runner) scrapePage(ctx context.Context, position int, url string, delays []time.Duration) pageResult {
	res := pageResult{position: position, url: url}

	// The limiter is awaited inside the fetch func so every physical
	// request is paced, retries included.
	fetch := func(ctx context.Context, url string) (string, error) {
		if err := r.Limiter.Wait(ctx); err != nil {
			return "", err
		}
		return r.Fetcher.Fetch(ctx, url)
	}

	html, err := FetchWithRetryDelays(ctx, url, fetch, r.Logger, delays)
	if err != nil {
		res.err = err
		return res
	}

	contacts, err := r.Contacts.Contacts(html, url)
	if err != nil {
		res.err = err
		return res
	}

	for i := range contacts {
		contacts[i].Normalize()
	}
	res.contacts = contacts
	return res
}

// contactKey identifies a contact for cross-page deduplication: the
// lowercase email when present, otherwise the profile URL.
func contactKey(c *pagebound.Contact) string {
	if c.Email != "" {
		return strings.ToLower(c.Email)
	}
	return c.ProfileURL
}
