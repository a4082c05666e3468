package rod

import (
	"context"
	"time"

	"github.com/imagineworking4288/pagebound"
)

// Infinite-scroll traversal defaults.
const (
	DefaultMaxScrolls   = 50
	DefaultScrollPause  = 2 * time.Second
	DefaultStableRounds = 5
)

// ScrollOptions configures ScrollToBottom. Zero values use the defaults.
type ScrollOptions struct {
	// MaxScrolls caps the number of scroll rounds.
	MaxScrolls int

	// Pause is how long to wait after each scroll for content to load.
	Pause time.Duration

	// StableRounds is how many consecutive rounds the document height
	// must stay flat before the bottom is declared reached. A single
	// flat round is not enough: slow-loading sites often append more
	// content one or two rounds later.
	StableRounds int
}

// ScrollResult reports what an infinite-scroll traversal accomplished.
type ScrollResult struct {
	// Scrolls is how many scroll rounds ran.
	Scrolls int

	// FinalHeight is the document height after the last round.
	FinalHeight float64

	// ReachedBottom reports that the height stayed flat for
	// StableRounds consecutive rounds. False means the traversal hit
	// MaxScrolls with content still growing.
	ReachedBottom bool
}

// ScrollToBottom exhausts an infinite-scroll page by repeatedly
// scrolling to the bottom and waiting for content to settle. It is the
// traversal used when discovery classifies a site as infinite scroll
// instead of page-numbered.
func ScrollToBottom(ctx context.Context, nav pagebound.Navigator, opts ScrollOptions) (*ScrollResult, error) {
	maxScrolls := opts.MaxScrolls
	if maxScrolls <= 0 {
		maxScrolls = DefaultMaxScrolls
	}
	pause := opts.Pause
	if pause <= 0 {
		pause = DefaultScrollPause
	}
	stableRounds := opts.StableRounds
	if stableRounds <= 0 {
		stableRounds = DefaultStableRounds
	}

	height, err := nav.Height(ctx)
	if err != nil {
		return nil, err
	}

	res := &ScrollResult{FinalHeight: height}
	stable := 0

	for res.Scrolls < maxScrolls {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		newHeight, err := nav.ScrollBottom(ctx)
		if err != nil {
			return nil, err
		}
		res.Scrolls++

		if newHeight <= height {
			stable++
			if stable >= stableRounds {
				res.ReachedBottom = true
				res.FinalHeight = newHeight
				return res, nil
			}
		} else {
			stable = 0
			height = newHeight
		}
		res.FinalHeight = newHeight

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(pause):
		}
	}

	return res, nil
}
