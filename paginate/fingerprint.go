package paginate

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/imagineworking4288/pagebound"
)

// fingerprintDepth is how many leading items feed the digests. Ten is
// enough to tell listings apart without hashing entire pages.
const fingerprintDepth = 10

// Probe validity reasons recorded in search traces.
const (
	ReasonPageOne              = "page_one"
	ReasonOK                   = "ok"
	ReasonEmpty                = "empty"
	ReasonNoFingerprint        = "no_fingerprint"
	ReasonDuplicateIdentifiers = "duplicate_identifiers"
	ReasonDuplicateNames       = "duplicate_names"
	ReasonDuplicateBoundaries  = "duplicate_boundaries"
	ReasonFetchError           = "fetch_error"
	ReasonThinContent          = "thin_content"
)

// Fingerprint captures the identity of page 1 so later probes can tell
// a genuinely different page from page 1 served again. Sites that
// reflect out-of-range page numbers back to page 1 would otherwise make
// every probe look valid and the boundary search run away to its cap.
//
// A fingerprint is captured once per discovery run and is immutable
// afterwards.
type Fingerprint struct {
	keyDigest  uint64
	nameDigest uint64
	firstKey   string
	lastKey    string
	count      int
	hasNames   bool
	empty      bool
}

// CaptureFingerprint digests the entry page's items.
func CaptureFingerprint(items []pagebound.Item) *Fingerprint {
	if len(items) == 0 {
		return &Fingerprint{empty: true}
	}
	fp := &Fingerprint{
		keyDigest:  digestKeys(items),
		nameDigest: digestNames(items),
		firstKey:   items[0].Key,
		lastKey:    items[len(items)-1].Key,
		count:      len(items),
	}
	for _, it := range items {
		if it.Name != "" {
			fp.hasNames = true
			break
		}
	}
	return fp
}

// Validate checks probed page content against the fingerprint. Page 1
// always validates; empty pages never do. Pages matching the
// fingerprint on any of three independent checks are duplicates of
// page 1: same leading item keys, same leading item names, or same
// first key, last key and count.
//
// When the fingerprint was captured from an empty page every check
// degrades to valid, reported as ReasonNoFingerprint.
func (fp *Fingerprint) Validate(page int, items []pagebound.Item) (bool, string) {
	if page == 1 {
		return true, ReasonPageOne
	}
	if len(items) == 0 {
		return false, ReasonEmpty
	}
	if fp == nil || fp.empty {
		return true, ReasonNoFingerprint
	}
	if digestKeys(items) == fp.keyDigest {
		return false, ReasonDuplicateIdentifiers
	}
	if fp.hasNames && digestNames(items) == fp.nameDigest {
		return false, ReasonDuplicateNames
	}
	if items[0].Key == fp.firstKey && items[len(items)-1].Key == fp.lastKey && len(items) == fp.count {
		return false, ReasonDuplicateBoundaries
	}
	return true, ReasonOK
}

func digestKeys(items []pagebound.Item) uint64 {
	n := min(len(items), fingerprintDepth)
	var b strings.Builder
	for _, it := range items[:n] {
		b.WriteString(it.Key)
		b.WriteByte('\n')
	}
	return xxhash.Sum64String(b.String())
}

func digestNames(items []pagebound.Item) uint64 {
	n := min(len(items), fingerprintDepth)
	var b strings.Builder
	for _, it := range items[:n] {
		b.WriteString(it.Name)
		b.WriteByte('\n')
	}
	return xxhash.Sum64String(b.String())
}

// ContentHash digests a page's ordered item keys, so two loads of the
// same listing compare equal regardless of markup churn. Pages with no
// items fall back to hashing the raw HTML.
func ContentHash(items []pagebound.Item, html string) string {
	if len(items) == 0 {
		return fmt.Sprintf("%x", xxhash.Sum64String(html))
	}
	var b strings.Builder
	for _, it := range items {
		b.WriteString(it.Key)
		b.WriteByte('\n')
	}
	return fmt.Sprintf("%x", xxhash.Sum64String(b.String()))
}
