package main

import (
	"fmt"

	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/crawl"
	pbquery "github.com/imagineworking4288/pagebound/goquery"
)

// sampleItemLimit is how many records probe prints.
const sampleItemLimit = 10

// Run executes the probe command. It loads one URL and prints what the
// analyzers see, for debugging sites where discovery goes wrong.
func (c *ProbeCmd) Run(deps *Dependencies) error {
	if err := deps.Limiter.Wait(deps.Ctx); err != nil {
		return err
	}
	if err := deps.Navigator.Goto(deps.Ctx, c.URL); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return pagebound.Errorf(pagebound.ENAVIGATION, "load %s: %s", c.URL, err)
	}
	landed := deps.Navigator.CurrentURL()
	if landed != "" && landed != c.URL {
		fmt.Fprintf(deps.Stdout, "Landed on %s\n", landed)
	}
	if landed == "" {
		landed = c.URL
	}

	html, err := deps.Navigator.HTML(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}
	fmt.Fprintf(deps.Stdout, "Page: %s of HTML\n", crawl.FormatBytes(len(html)))

	items, err := pbquery.NewItemExtractor().Extract(html, landed)
	if err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Items: %d\n", len(items))
	for i, item := range items {
		if i == sampleItemLimit {
			fmt.Fprintf(deps.Stdout, "  ... and %d more\n", len(items)-sampleItemLimit)
			break
		}
		if item.Name != "" {
			fmt.Fprintf(deps.Stdout, "  %s  %s\n", item.Key, item.Name)
		} else {
			fmt.Fprintf(deps.Stdout, "  %s\n", item.Key)
		}
	}

	vc, err := pbquery.NewControlInspector().Inspect(html, landed)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "Controls:")
	fmt.Fprintf(deps.Stdout, "  container=%t next=%t prev=%t\n", vc.HasContainer, vc.HasNext, vc.HasPrev)
	if vc.NextURL != "" {
		fmt.Fprintf(deps.Stdout, "  next URL: %s\n", vc.NextURL)
	}
	if len(vc.PageNumbers) > 0 {
		fmt.Fprintf(deps.Stdout, "  page numbers: %v\n", vc.PageNumbers)
	}
	if vc.MaxPage > 0 {
		fmt.Fprintf(deps.Stdout, "  max page: %d\n", vc.MaxPage)
	}
	if vc.TotalItems > 0 {
		fmt.Fprintf(deps.Stdout, "  total items: %d\n", vc.TotalItems)
	}

	sig, err := pbquery.NewScrollInspector().Signals(html)
	if err != nil {
		return err
	}
	fmt.Fprintln(deps.Stdout, "Scroll signals:")
	fmt.Fprintf(deps.Stdout, "  library=%t listener=%t observer=%t virtual=%t loadMore=%t lazyImages=%d\n",
		sig.KnownLibrary, sig.ScrollListener, sig.IntersectionObserver, sig.VirtualList, sig.LoadMore, sig.LazyLoadCount)

	return nil
}
