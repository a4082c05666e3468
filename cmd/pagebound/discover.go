package main

import (
	"fmt"

	"github.com/imagineworking4288/pagebound"
	pbquery "github.com/imagineworking4288/pagebound/goquery"
	"github.com/imagineworking4288/pagebound/paginate"
)

// urlPreviewLimit is how many page URLs discover prints without --all.
const urlPreviewLimit = 10

// Run executes the discover command.
func (c *DiscoverCmd) Run(deps *Dependencies) error {
	paginator := &paginate.Paginator{
		Navigator:  deps.Navigator,
		Limiter:    deps.Limiter,
		Extractor:  pbquery.NewItemExtractor(),
		Controls:   pbquery.NewControlInspector(),
		Scroll:     pbquery.NewScrollInspector(),
		Cache:      deps.Cache,
		Sitemaps:   deps.Sitemaps,
		Config:     deps.Config,
		MinContent: c.MinContent,
		HardCap:    c.HardCap,
		Logger:     deps.Logger,
	}

	disc, err := paginator.Discover(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}

	printDiscovery(deps, disc)

	if len(disc.URLs) > 0 {
		fmt.Fprintln(deps.Stdout, "URLs:")
		if c.All {
			for _, u := range disc.URLs {
				fmt.Fprintln(deps.Stdout, "  "+u)
			}
		} else {
			for i, u := range disc.URLs {
				if i == urlPreviewLimit {
					fmt.Fprintf(deps.Stdout, "  ... and %d more (use --all to print every URL)\n", len(disc.URLs)-urlPreviewLimit)
					break
				}
				fmt.Fprintln(deps.Stdout, "  "+u)
			}
		}
	}

	if c.All && disc.Trace != nil {
		fmt.Fprintln(deps.Stdout, "Search trace:")
		for _, rec := range disc.Trace.Tested {
			status := "invalid"
			if rec.Valid {
				status = "valid"
			}
			fmt.Fprintf(deps.Stdout, "  page %d: %s (%d items", rec.Page, status, rec.ContentEstimate)
			if rec.Reason != "" {
				fmt.Fprintf(deps.Stdout, ", %s", rec.Reason)
			}
			fmt.Fprintln(deps.Stdout, ")")
		}
		for _, line := range disc.Trace.Path {
			fmt.Fprintln(deps.Stdout, "  "+line)
		}
	}

	return nil
}

// printDiscovery prints the pattern summary shared by discover and scrape.
func printDiscovery(deps *Dependencies, disc *pagebound.Discovery) {
	if disc.Pattern == nil || disc.Pattern.Kind == pagebound.KindNone {
		fmt.Fprintf(deps.Stdout, "No pagination detected; single page at %s\n", disc.BaseURL)
		return
	}

	p := disc.Pattern
	fmt.Fprintf(deps.Stdout, "Pattern: %s", p.Kind)
	if p.ParamName != "" {
		fmt.Fprintf(deps.Stdout, " (param %q)", p.ParamName)
	}
	if p.Method != "" {
		fmt.Fprintf(deps.Stdout, " via %s", p.Method)
	}
	fmt.Fprintf(deps.Stdout, ", confidence %d%%\n", disc.Confidence)

	switch {
	case disc.Capped:
		fmt.Fprintf(deps.Stdout, "Pages: %d (hit the hard cap; the real boundary may be higher)\n", disc.TotalPages)
	case disc.BoundaryConfirmed:
		fmt.Fprintf(deps.Stdout, "Pages: %d (boundary confirmed)\n", disc.TotalPages)
	default:
		fmt.Fprintf(deps.Stdout, "Pages: %d\n", disc.TotalPages)
	}
}
