package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/rod"
	"github.com/imagineworking4288/pagebound/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	DB        *sqlite.DB
	Cache     pagebound.PatternCache
	Sitemaps  pagebound.SitemapScanner
	Navigator pagebound.Navigator
	Fetcher   pagebound.Fetcher
	Limiter   pagebound.RateLimiter
	Reports   pagebound.ReportWriter
	Config    *pagebound.SiteConfig

	// Scroll tunes the infinite-scroll traversal. The zero value uses
	// the rod package defaults.
	Scroll rod.ScrollOptions
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug bool `help:"Enable debug logging to stderr"`

	Discover DiscoverCmd `cmd:"" help:"Detect a site's pagination pattern and find its true last page"`
	Scrape   ScrapeCmd   `cmd:"" help:"Discover pagination and extract contacts from every page"`
	Probe    ProbeCmd    `cmd:"" help:"Load one URL and report what the analyzers see on it"`
	Cache    CacheCmd    `cmd:"" help:"Inspect and clear the stored pattern cache"`
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	URL        string `arg:"" help:"Listing page URL"`
	All        bool   `short:"a" help:"Print every page URL and the full search trace"`
	Config     string `short:"c" help:"Site config YAML path"`
	HardCap    int    `help:"Highest page number any probe may touch (default 500)"`
	MinContent int    `help:"Smallest item count a valid page must carry (default 1)"`
	NoCache    bool   `help:"Skip the pattern cache for this run"`
	Headful    bool   `help:"Show the browser window"`
	DelayMin   int    `default:"2000" help:"Minimum delay between requests in milliseconds"`
	DelayMax   int    `default:"5000" help:"Maximum delay between requests in milliseconds"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	URL         string `arg:"" help:"Listing page URL"`
	Output      string `short:"o" default:"json" enum:"json,csv" help:"Report format (json or csv)"`
	Dir         string `short:"d" default:"reports" help:"Report output directory"`
	Limit       int    `short:"l" help:"Scrape at most this many pages"`
	Concurrency int    `default:"4" help:"Concurrent page fetch limit"`
	NoBrowser   bool   `help:"Fetch pages with plain HTTP instead of the browser"`
	Config      string `short:"c" help:"Site config YAML path"`
	HardCap     int    `help:"Highest page number any probe may touch (default 500)"`
	NoCache     bool   `help:"Skip the pattern cache for this run"`
	Headful     bool   `help:"Show the browser window"`
	DelayMin    int    `default:"2000" help:"Minimum delay between requests in milliseconds"`
	DelayMax    int    `default:"5000" help:"Maximum delay between requests in milliseconds"`
}

// ProbeCmd is the "probe" subcommand.
type ProbeCmd struct {
	URL     string `arg:"" help:"Page URL to inspect"`
	Headful bool   `help:"Show the browser window"`
}

// CacheCmd groups the pattern-cache subcommands.
type CacheCmd struct {
	List  CacheListCmd  `cmd:"" help:"List stored patterns"`
	Clear CacheClearCmd `cmd:"" help:"Clear stored patterns"`
}

// CacheListCmd is the "cache list" subcommand.
type CacheListCmd struct{}

// CacheClearCmd is the "cache clear" subcommand.
type CacheClearCmd struct {
	Domain string `arg:"" optional:"" help:"Clear only this domain's pattern"`
	Force  bool   `help:"Confirm clearing every stored pattern"`
}
