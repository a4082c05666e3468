package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/imagineworking4288/pagebound"
)

// Compile-time interface verification.
var _ pagebound.PatternCache = (*Cache)(nil)

// Cache implements pagebound.PatternCache using SQLite. Patterns are
// keyed by domain (see pagebound.DomainKey); storing a pattern for a
// domain replaces any previous one.
type Cache struct {
	db *DB
}

// NewCache creates a new Cache.
func NewCache(db *DB) *Cache {
	return &Cache{db: db}
}

// GetPattern retrieves the pattern stored for a domain.
// Returns ENOTFOUND if no pattern is stored.
func (c *Cache) GetPattern(ctx context.Context, domain string) (*pagebound.Pattern, error) {
	var p pagebound.Pattern

	err := c.db.QueryRowContext(ctx, `
		SELECT kind, param_name, url_pattern, items_per_page, base_url, max_page_hint, method, confidence
		FROM patterns
		WHERE domain = ?
	`, domain).Scan(&p.Kind, &p.ParamName, &p.URLPattern, &p.ItemsPerPage, &p.BaseURL,
		&p.MaxPageHint, &p.Method, &p.Confidence)

	if err == sql.ErrNoRows {
		return nil, pagebound.Errorf(pagebound.ENOTFOUND, "no pattern stored for %q", domain)
	}
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// PutPattern stores a pattern for a domain, replacing any previous one.
func (c *Cache) PutPattern(ctx context.Context, domain string, pattern *pagebound.Pattern) error {
	if domain == "" {
		return pagebound.Errorf(pagebound.EINVALID, "domain required")
	}
	if err := pattern.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO patterns (domain, kind, param_name, url_pattern, items_per_page, base_url, max_page_hint, method, confidence, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			kind = excluded.kind,
			param_name = excluded.param_name,
			url_pattern = excluded.url_pattern,
			items_per_page = excluded.items_per_page,
			base_url = excluded.base_url,
			max_page_hint = excluded.max_page_hint,
			method = excluded.method,
			confidence = excluded.confidence,
			updated_at = excluded.updated_at
	`, domain, pattern.Kind, pattern.ParamName, pattern.URLPattern, pattern.ItemsPerPage,
		pattern.BaseURL, pattern.MaxPageHint, pattern.Method, pattern.Confidence, now, now)

	return err
}

// ListPatterns retrieves all stored patterns ordered by domain.
func (c *Cache) ListPatterns(ctx context.Context) ([]*pagebound.CachedPattern, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT domain, kind, param_name, url_pattern, items_per_page, base_url, max_page_hint, method, confidence, created_at, updated_at
		FROM patterns
		ORDER BY domain
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cached []*pagebound.CachedPattern
	for rows.Next() {
		var cp pagebound.CachedPattern
		var p pagebound.Pattern
		var createdAt, updatedAt string

		if err := rows.Scan(&cp.Domain, &p.Kind, &p.ParamName, &p.URLPattern, &p.ItemsPerPage,
			&p.BaseURL, &p.MaxPageHint, &p.Method, &p.Confidence, &createdAt, &updatedAt); err != nil {
			return nil, err
		}

		if cp.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		if cp.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}

		cp.Pattern = &p
		cached = append(cached, &cp)
	}

	return cached, rows.Err()
}

// DeletePattern removes the pattern stored for a domain.
// Returns ENOTFOUND if no pattern is stored.
func (c *Cache) DeletePattern(ctx context.Context, domain string) error {
	res, err := c.db.ExecContext(ctx, `DELETE FROM patterns WHERE domain = ?`, domain)
	if err != nil {
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return pagebound.Errorf(pagebound.ENOTFOUND, "no pattern stored for %q", domain)
	}
	return nil
}
