package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/crawl"
	pbquery "github.com/imagineworking4288/pagebound/goquery"
	"github.com/imagineworking4288/pagebound/paginate"
	"github.com/imagineworking4288/pagebound/rod"
)

// sampleContactLimit is how many contacts the summary prints.
const sampleContactLimit = 5

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	paginator := &paginate.Paginator{
		Navigator: deps.Navigator,
		Limiter:   deps.Limiter,
		Extractor: pbquery.NewItemExtractor(),
		Controls:  pbquery.NewControlInspector(),
		Scroll:    pbquery.NewScrollInspector(),
		Cache:     deps.Cache,
		Sitemaps:  deps.Sitemaps,
		Config:    deps.Config,
		HardCap:   c.HardCap,
		Logger:    deps.Logger,
	}

	disc, err := paginator.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}
	printDiscovery(deps, disc)

	report := &pagebound.Report{
		RunID:      uuid.NewString(),
		URL:        disc.BaseURL,
		ScrapedAt:  time.Now().UTC(),
		Pattern:    disc.Pattern,
		TotalPages: disc.TotalPages,
	}

	if disc.Pattern != nil && disc.Pattern.Kind == pagebound.KindInfiniteScroll {
		if err := c.scrapeScroll(deps, report); err != nil {
			return err
		}
	} else {
		if err := c.scrapePages(deps, disc, report); err != nil {
			return err
		}
	}

	path, err := deps.Reports.Write(deps.Ctx, report)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Report written to %s\n", path)

	printSummary(deps, report)
	return nil
}

// scrapePages fetches every discovered page URL with the worker pool.
func (c *ScrapeCmd) scrapePages(deps *Dependencies, disc *pagebound.Discovery, report *pagebound.Report) error {
	urls := disc.URLs
	if c.Limit > 0 && c.Limit < len(urls) {
		urls = urls[:c.Limit]
		fmt.Fprintf(deps.Stdout, "Scraping the first %d of %d pages\n", len(urls), len(disc.URLs))
	}

	runner := &crawl.Runner{
		Fetcher:     deps.Fetcher,
		Contacts:    pbquery.NewContactExtractor(),
		Limiter:     deps.Limiter,
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}

	progress := func(event crawl.ProgressEvent) {
		switch event.Type {
		case crawl.ProgressStarted:
			fmt.Fprintf(deps.Stdout, "  Fetching %d pages\n", event.Total)
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", crawl.TruncateURL(event.URL, 80), event.Error)
		}
	}

	result, err := runner.Run(deps.Ctx, urls, progress)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scraping: %v\n", err)
		return err
	}

	report.TotalPages = result.Pages
	report.PagesFailed = result.Failed
	report.Contacts = result.Contacts
	return nil
}

// scrapeScroll handles infinite-scroll sites: the whole listing lives
// on one page, it just has to be scrolled out of the server first.
func (c *ScrapeCmd) scrapeScroll(deps *Dependencies, report *pagebound.Report) error {
	fmt.Fprintln(deps.Stdout, "  Infinite scroll: loading the full listing")

	result, err := rod.ScrollToBottom(deps.Ctx, deps.Navigator, deps.Scroll)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error scrolling: %v\n", err)
		return err
	}
	if !result.ReachedBottom {
		fmt.Fprintf(deps.Stderr, "  content still growing after %d scrolls; results may be partial\n", result.Scrolls)
	}

	html, err := deps.Navigator.HTML(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}

	contacts, err := pbquery.NewContactExtractor().Contacts(html, report.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}

	report.TotalPages = 1
	report.Contacts = contacts
	return nil
}

// printSummary prints contact totals and a short sample.
func printSummary(deps *Dependencies, report *pagebound.Report) {
	s := report.Summary()
	fmt.Fprintf(deps.Stdout, "Contacts: %s", crawl.FormatCount(s.Total, "contact"))
	if report.PagesFailed > 0 {
		fmt.Fprintf(deps.Stdout, " (%s failed)", crawl.FormatCount(report.PagesFailed, "page"))
	}
	fmt.Fprintln(deps.Stdout)
	if s.Total == 0 {
		return
	}

	fmt.Fprintf(deps.Stdout, "  With name:        %d\n", s.WithName)
	fmt.Fprintf(deps.Stdout, "  With phone:       %d\n", s.WithPhone)
	fmt.Fprintf(deps.Stdout, "  Complete records: %d\n", s.Complete)
	fmt.Fprintf(deps.Stdout, "  Business emails:  %d\n", s.BusinessEmails)

	fmt.Fprintln(deps.Stdout, "Sample:")
	for i := range report.Contacts {
		if i == sampleContactLimit {
			break
		}
		c := &report.Contacts[i]
		if c.Name != "" {
			fmt.Fprintf(deps.Stdout, "  %s <%s>\n", c.Name, c.Email)
		} else {
			fmt.Fprintf(deps.Stdout, "  <%s>\n", c.Email)
		}
	}
}
