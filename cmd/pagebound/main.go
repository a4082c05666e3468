package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kong"
	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/crawl"
	"github.com/imagineworking4288/pagebound/fs"
	pbhttp "github.com/imagineworking4288/pagebound/http"
	"github.com/imagineworking4288/pagebound/rod"
	pbslog "github.com/imagineworking4288/pagebound/slog"
	"github.com/imagineworking4288/pagebound/sqlite"
	"github.com/imagineworking4288/pagebound/yaml"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database backing the pattern cache.
	DB *sqlite.DB

	// Browser sessions to shut down after the run.
	navigator pagebound.Navigator
	fetcher   pagebound.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.navigator != nil {
		m.navigator.Close()
	}
	if m.fetcher != nil {
		m.fetcher.Close()
	}
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagebound"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagebound --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps.Logger = buildLogger(stderr, cli.Debug)

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set PAGEBOUND_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	deps.DB = m.DB
	deps.Cache = pbslog.NewLoggingCache(sqlite.NewCache(m.DB), deps.Logger)
	deps.Sitemaps = pbslog.NewLoggingScanner(pbhttp.NewSitemapScanner(nil), deps.Logger)

	// Wire command-specific dependencies based on command
	switch cmd {
	case "discover":
		if deps.Config, err = loadConfig(cli.Discover.Config); err != nil {
			return err
		}
		deps.Limiter = buildLimiter(deps.Config, cli.Discover.DelayMin, cli.Discover.DelayMax)
		if deps.Navigator, err = m.openNavigator(cli.Discover.Headful, deps.Logger, stderr); err != nil {
			return err
		}
		if cli.Discover.NoCache {
			deps.Cache = nil
		}

	case "scrape":
		if deps.Config, err = loadConfig(cli.Scrape.Config); err != nil {
			return err
		}
		deps.Limiter = buildLimiter(deps.Config, cli.Scrape.DelayMin, cli.Scrape.DelayMax)
		if deps.Navigator, err = m.openNavigator(cli.Scrape.Headful, deps.Logger, stderr); err != nil {
			return err
		}
		if cli.Scrape.NoCache {
			deps.Cache = nil
		}
		if cli.Scrape.NoBrowser {
			m.fetcher = pbhttp.NewFetcher()
		} else {
			fetcher, err := rod.NewFetcher()
			if err != nil {
				fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
				return fmt.Errorf("failed to start browser: %w", err)
			}
			m.fetcher = fetcher
		}
		deps.Fetcher = rod.NewLoggingFetcher(m.fetcher, deps.Logger)
		deps.Reports = fs.NewWriter(cli.Scrape.Dir, fs.Format(cli.Scrape.Output))

	case "probe":
		deps.Limiter = buildLimiter(nil, 0, 0)
		if deps.Navigator, err = m.openNavigator(cli.Probe.Headful, deps.Logger, stderr); err != nil {
			return err
		}
	}

	return kongCtx.Run(deps)
}

// openNavigator launches the discovery browser and remembers it for
// shutdown.
func (m *Main) openNavigator(headful bool, logger *slog.Logger, stderr io.Writer) (pagebound.Navigator, error) {
	var nav pagebound.Navigator
	var err error
	if headful {
		nav, err = rod.NewHeadfulNavigator()
	} else {
		nav, err = rod.NewNavigator()
	}
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}
	m.navigator = nav
	return pbslog.NewLoggingNavigator(nav, logger), nil
}

// buildLogger returns a debug text logger on stderr, or a discard
// logger when debugging is off.
func buildLogger(stderr io.Writer, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// loadConfig loads the site config when a path was given.
func loadConfig(path string) (*pagebound.SiteConfig, error) {
	if path == "" {
		return nil, nil
	}
	cfg, err := yaml.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %s", path, pagebound.ErrorMessage(err))
	}
	return cfg, nil
}

// buildLimiter paces requests using the config's delay window, with
// CLI flags as the fallback and the package defaults behind those.
func buildLimiter(cfg *pagebound.SiteConfig, delayMinMS, delayMaxMS int) pagebound.RateLimiter {
	if cfg != nil {
		delayMinMS, delayMaxMS = cfg.DelayMinMS, cfg.DelayMaxMS
	}
	if delayMinMS <= 0 {
		delayMinMS = pagebound.DefaultDelayMinMS
	}
	if delayMaxMS <= 0 {
		delayMaxMS = pagebound.DefaultDelayMaxMS
	}
	return crawl.NewLimiter(
		time.Duration(delayMinMS)*time.Millisecond,
		time.Duration(delayMaxMS)*time.Millisecond,
	)
}

func defaultDBPath() string {
	if path := os.Getenv("PAGEBOUND_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagebound.db"
	}
	dir := filepath.Join(home, ".pagebound")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "pagebound.db")
}
