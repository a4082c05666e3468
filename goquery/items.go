// Package goquery implements HTML analysis services using the goquery
// DOM library: listing-item extraction, visual pagination control
// inspection, infinite-scroll signal detection, and contact extraction.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/imagineworking4288/pagebound"
)

// minListingItems is the smallest repeated-card group treated as the
// page's listing. Below it a group is as likely to be navigation.
const minListingItems = 3

// cardSelectors are tried in order when looking for repeated listing
// structures; the one matching the most distinct detail links wins.
var cardSelectors = []string{
	"[class*='card']",
	"[class*='agent']",
	"[class*='profile']",
	"[class*='member']",
	"[class*='person']",
	"[class*='listing']",
	"[class*='result']",
	"[class*='item']",
	"article",
	"li",
	"tr",
}

// paginationScope marks containers whose links are page controls, not
// content, and must never be mistaken for listing cards.
const paginationScope = ".pagination, .pager, .page-numbers, .paging, .pages, nav"

// ItemExtractor pulls the content-bearing records off a listing page:
// contact anchors (mailto:, tel:) wherever they appear, plus the detail
// links of the page's dominant repeated card structure. Each record's
// Key is its absolute href, which is what makes pages comparable.
type ItemExtractor struct{}

// NewItemExtractor creates a new ItemExtractor.
func NewItemExtractor() *ItemExtractor {
	return &ItemExtractor{}
}

var _ pagebound.ItemExtractor = (*ItemExtractor)(nil)

// Extract parses HTML and returns the page's records in document
// order. Records are deduplicated by key, keeping the first occurrence.
func (e *ItemExtractor) Extract(html string, baseURL string) ([]pagebound.Item, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var items []pagebound.Item
	add := func(item pagebound.Item) {
		if item.Key == "" || seen[item.Key] {
			return
		}
		seen[item.Key] = true
		items = append(items, item)
	}

	// Contact anchors are records wherever they sit.
	doc.Find("a[href^='mailto:'], a[href^='tel:']").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		key := contactKey(href)
		if key == "" {
			return
		}
		name := strings.TrimSpace(sel.Text())
		if strings.EqualFold(name, strings.TrimPrefix(key, "mailto:")) {
			// The visible text is just the address again.
			name = ""
		}
		add(pagebound.Item{Key: key, Name: name})
	})

	for _, item := range listingCards(doc, base) {
		add(item)
	}
	return items, nil
}

// listingCards finds the dominant repeated card structure and returns
// one record per card, keyed by the card's detail link.
func listingCards(doc *goquery.Document, base *url.URL) []pagebound.Item {
	var best []pagebound.Item
	for _, selector := range cardSelectors {
		var group []pagebound.Item
		distinct := make(map[string]bool)
		doc.Find(selector).Each(func(_ int, card *goquery.Selection) {
			if card.Closest(paginationScope).Length() > 0 {
				return
			}
			key, name := cardRecord(card, base)
			if key == "" || distinct[key] {
				return
			}
			distinct[key] = true
			group = append(group, pagebound.Item{Key: key, Name: name})
		})
		if len(group) > len(best) {
			best = group
		}
	}
	if len(best) < minListingItems {
		return nil
	}
	return best
}

// cardRecord picks a card's detail link and display name. The first
// same-host content link wins; contact links identify the card only
// when nothing better exists.
func cardRecord(card *goquery.Selection, base *url.URL) (key, name string) {
	card.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if href == "" || skipHref(href) {
			return true
		}
		if isContactHref(href) {
			if key == "" {
				key = contactKey(href)
			}
			return true
		}
		resolved := resolveHref(base, href)
		if resolved == "" || !sameHost(base, resolved) {
			return true
		}
		key = resolved
		if name == "" {
			name = strings.TrimSpace(sel.Text())
		}
		return false
	})
	if key == "" {
		return "", ""
	}
	if heading := strings.TrimSpace(card.Find("h1, h2, h3, h4, h5, h6").First().Text()); heading != "" {
		name = heading
	}
	return key, collapseSpace(name)
}

// contactKey canonicalizes a mailto: or tel: href into a record key.
func contactKey(href string) string {
	href = strings.TrimSpace(href)
	lower := strings.ToLower(href)
	switch {
	case strings.HasPrefix(lower, "mailto:"):
		addr := href[len("mailto:"):]
		if i := strings.IndexAny(addr, "?&"); i >= 0 {
			addr = addr[:i]
		}
		// PathUnescape, not QueryUnescape: a "+" in a mailto or tel
		// href is literal, not an encoded space.
		if unescaped, err := url.PathUnescape(addr); err == nil {
			addr = unescaped
		}
		addr = strings.ToLower(strings.TrimSpace(addr))
		if !strings.Contains(addr, "@") {
			return ""
		}
		return "mailto:" + addr
	case strings.HasPrefix(lower, "tel:"):
		num := strings.TrimSpace(href[len("tel:"):])
		if unescaped, err := url.PathUnescape(num); err == nil {
			num = unescaped
		}
		if num == "" {
			return ""
		}
		return "tel:" + num
	}
	return ""
}

func isContactHref(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(lower, "mailto:") || strings.HasPrefix(lower, "tel:")
}

// resolveHref resolves a relative href against the base URL. Returns
// empty for unparseable hrefs and for self-references, which is what a
// bare "#" or "?page=1" link on page 1 amounts to.
func resolveHref(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""

	result := resolved.String()
	baseNoFragment := *base
	baseNoFragment.Fragment = ""
	if result == baseNoFragment.String() {
		return ""
	}
	return result
}

// sameHost checks if the resolved URL has the same host as the base
// URL. Exact match; subdomains are different hosts.
func sameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Host == base.Host
}

// skipHref reports hrefs that cannot lead anywhere: scripts, data URIs
// and bare fragments.
func skipHref(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return href == "" ||
		strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "data:")
}

// collapseSpace trims and collapses runs of whitespace to one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
