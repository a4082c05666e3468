package crawl

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/imagineworking4288/pagebound"
	"golang.org/x/time/rate"
)

var _ pagebound.RateLimiter = (*Limiter)(nil)

// Limiter paces requests to a single site. A token bucket enforces a
// hard floor of one request per minDelay; on top of that each Wait adds
// a random extra delay so the interval between requests varies between
// roughly minDelay and maxDelay instead of ticking mechanically.
type Limiter struct {
	floor    *rate.Limiter
	minDelay time.Duration
	maxDelay time.Duration
}

// NewLimiter creates a Limiter with the given delay window. maxDelay
// values at or below minDelay disable the random extra delay, leaving
// only the floor.
func NewLimiter(minDelay, maxDelay time.Duration) *Limiter {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Limiter{
		floor:    rate.NewLimiter(limit, 1),
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// Wait blocks until the next request is allowed.
// Returns an error if the context is canceled first.
func (l *Limiter) Wait(ctx context.Context) error {
	if err := l.floor.Wait(ctx); err != nil {
		return err
	}

	extra := l.extraDelay()
	if extra <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(extra):
		return nil
	}
}

// extraDelay picks a random delay in [0, maxDelay-minDelay], then
// applies a ±20% jitter so even the distribution's bounds drift.
func (l *Limiter) extraDelay() time.Duration {
	span := l.maxDelay - l.minDelay
	if span <= 0 {
		return 0
	}
	d := time.Duration(rand.Int64N(int64(span)))
	jitter := 0.8 + 0.4*rand.Float64()
	return time.Duration(float64(d) * jitter)
}
