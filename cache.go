package pagebound

import (
	"context"
	"time"
)

// CachedPattern is a stored pattern together with its cache bookkeeping.
type CachedPattern struct {
	Domain    string    `json:"domain"`
	Pattern   *Pattern  `json:"pattern"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PatternCache stores discovered patterns keyed by domain so later runs
// against the same site can skip detection.
type PatternCache interface {
	// GetPattern retrieves the pattern stored for a domain.
	// Returns ENOTFOUND if no pattern is stored.
	GetPattern(ctx context.Context, domain string) (*Pattern, error)

	// PutPattern stores a pattern for a domain, replacing any previous one.
	PutPattern(ctx context.Context, domain string, pattern *Pattern) error

	// ListPatterns retrieves all stored patterns ordered by domain.
	ListPatterns(ctx context.Context) ([]*CachedPattern, error)

	// DeletePattern removes the pattern stored for a domain.
	// Returns ENOTFOUND if no pattern is stored.
	DeletePattern(ctx context.Context, domain string) error
}
