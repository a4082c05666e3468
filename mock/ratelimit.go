package mock

import (
	"context"

	"github.com/imagineworking4288/pagebound"
)

var _ pagebound.RateLimiter = (*RateLimiter)(nil)

// RateLimiter is a mock implementation of pagebound.RateLimiter.
type RateLimiter struct {
	WaitFn func(ctx context.Context) error
}

func (l *RateLimiter) Wait(ctx context.Context) error {
	return l.WaitFn(ctx)
}

// NopLimiter returns a RateLimiter that never blocks.
func NopLimiter() *RateLimiter {
	return &RateLimiter{WaitFn: func(context.Context) error { return nil }}
}
