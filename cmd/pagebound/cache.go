package main

import (
	"fmt"

	"github.com/imagineworking4288/pagebound"
)

// Run executes the cache list command.
func (c *CacheListCmd) Run(deps *Dependencies) error {
	patterns, err := deps.Cache.ListPatterns(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}

	if len(patterns) == 0 {
		fmt.Fprintln(deps.Stdout, "No patterns cached. Run 'pagebound discover' against a site first.")
		return nil
	}

	for _, cp := range patterns {
		p := cp.Pattern
		fmt.Fprintf(deps.Stdout, "%s  %s", cp.Domain, p.Kind)
		if p.ParamName != "" {
			fmt.Fprintf(deps.Stdout, "(%s)", p.ParamName)
		}
		if p.MaxPageHint > 0 {
			fmt.Fprintf(deps.Stdout, "  pages~%d", p.MaxPageHint)
		}
		fmt.Fprintf(deps.Stdout, "  updated %s\n", cp.UpdatedAt.Format("2006-01-02"))
	}
	return nil
}

// Run executes the cache clear command.
func (c *CacheClearCmd) Run(deps *Dependencies) error {
	if c.Domain != "" {
		if err := deps.Cache.DeletePattern(deps.Ctx, c.Domain); err != nil {
			if pagebound.ErrorCode(err) == pagebound.ENOTFOUND {
				fmt.Fprintf(deps.Stderr, "error: no pattern cached for %q. Use 'pagebound cache list' to see stored domains.\n", c.Domain)
			} else {
				fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
			}
			return err
		}
		fmt.Fprintf(deps.Stdout, "Cleared pattern for %q\n", c.Domain)
		return nil
	}

	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm clearing every stored pattern\n")
		return pagebound.Errorf(pagebound.EINVALID, "use --force to confirm clearing every stored pattern")
	}

	patterns, err := deps.Cache.ListPatterns(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
		return err
	}
	for _, cp := range patterns {
		if err := deps.Cache.DeletePattern(deps.Ctx, cp.Domain); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", pagebound.ErrorMessage(err))
			return err
		}
	}
	fmt.Fprintf(deps.Stdout, "Cleared %d cached patterns\n", len(patterns))
	return nil
}
