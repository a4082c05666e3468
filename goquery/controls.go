package goquery

import (
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/imagineworking4288/pagebound"
)

// Containers recognized as visual pagination. Checked in order; the
// first match scopes the page-number scan.
var containerSelectors = []string{
	".pagination",
	".pager",
	".page-numbers",
	".paging",
	".pages",
	"ul[class*='pagination']",
	"div[class*='pagination']",
	"nav[class*='pagination']",
	"nav[class*='pager']",
	"nav[aria-label*='pag']",
	"nav[aria-label*='Pag']",
}

// Elements whose text may carry "Page X of Y" or "N-M of T" summaries.
const summarySelector = "[class*='result'], [class*='count'], [class*='total'], [class*='showing'], [class*='summary']"

var (
	pageOfRe  = regexp.MustCompile(`(?i)page\s+([\d,]+)\s+of\s+([\d,]+)`)
	rangeOfRe = regexp.MustCompile(`(?i)([\d,]+)\s*[-–—]\s*([\d,]+)\s+of\s+([\d,]+)`)
	ofTotalRe = regexp.MustCompile(`(?i)of\s+([\d,]+)\s+(?:results?|agents?|listings?|items?|propert(?:y|ies)|profiles?|professionals?|members?|records?)`)
)

// ControlInspector reads a page's visible pagination controls: the
// container, next/previous links, numbered page links, and textual
// page and result-count summaries.
type ControlInspector struct{}

// NewControlInspector creates a new ControlInspector.
func NewControlInspector() *ControlInspector {
	return &ControlInspector{}
}

var _ pagebound.ControlInspector = (*ControlInspector)(nil)

// Inspect parses HTML and reports what pagination is visible on it.
// The zero result (no container, no controls) is not an error.
func (i *ControlInspector) Inspect(html string, baseURL string) (*pagebound.VisualControls, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "failed to parse HTML: %v", err)
	}

	vc := &pagebound.VisualControls{}

	container := findContainer(doc)
	vc.HasContainer = container != nil

	i.inspectNextPrev(doc, container, base, vc)
	i.inspectPageNumbers(container, vc)
	i.inspectSummaries(doc, container, vc)

	return vc, nil
}

// findContainer returns the first matching pagination container, or
// nil when the page has none.
func findContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range containerSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}

func (i *ControlInspector) inspectNextPrev(doc *goquery.Document, container *goquery.Selection, base *url.URL, vc *pagebound.VisualControls) {
	// rel=next is the most reliable marker and may sit in the head.
	if sel := doc.Find("a[rel='next'], link[rel='next']").First(); sel.Length() > 0 {
		vc.HasNext = true
		vc.NextURL = controlURL(sel, base)
		vc.NextSelector = controlSelector(sel, "a[rel='next']")
	}
	if doc.Find("a[rel='prev'], link[rel='prev']").Length() > 0 {
		vc.HasPrev = true
	}

	// Fall back to link text and aria labels inside the container.
	scope := container
	if scope == nil {
		scope = doc.Selection
	}
	scope.Find("a, button").Each(func(_ int, sel *goquery.Selection) {
		dir := controlDirection(sel.Text())
		if dir == "" {
			label, _ := sel.Attr("aria-label")
			dir = labelDirection(label)
		}
		switch dir {
		case "next":
			if !vc.HasNext {
				vc.HasNext = true
				vc.NextURL = controlURL(sel, base)
				vc.NextSelector = controlSelector(sel, "")
			}
		case "prev":
			vc.HasPrev = true
		}
	})
}

// controlDirection classifies a control's visible text as a next or
// previous control. Handles both worded labels ("Next »", "‹ Previous")
// and pure arrow glyphs.
func controlDirection(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	word := strings.ToLower(strings.Trim(trimmed, "‹«←<>→»› \t\n"))
	switch {
	case strings.HasPrefix(word, "next"), strings.HasPrefix(word, "older"):
		return "next"
	case strings.HasPrefix(word, "prev"), strings.HasPrefix(word, "newer"):
		return "prev"
	}
	if word == "" {
		// Arrows alone.
		if strings.ContainsAny(trimmed, "›»→>") {
			return "next"
		}
		if strings.ContainsAny(trimmed, "‹«←<") {
			return "prev"
		}
	}
	return ""
}

func labelDirection(ariaLabel string) string {
	label := strings.ToLower(ariaLabel)
	switch {
	case strings.Contains(label, "next"):
		return "next"
	case strings.Contains(label, "prev"):
		return "prev"
	}
	return ""
}

func (i *ControlInspector) inspectPageNumbers(container *goquery.Selection, vc *pagebound.VisualControls) {
	if container == nil {
		return
	}
	seen := make(map[int]bool)
	container.Find("a, span, button, li").Each(func(_ int, sel *goquery.Selection) {
		if sel.Children().Length() > 0 {
			return // only leaves carry a bare number
		}
		n, err := strconv.Atoi(strings.TrimSpace(sel.Text()))
		if err != nil || n < 1 || seen[n] {
			return
		}
		seen[n] = true
		vc.PageNumbers = append(vc.PageNumbers, n)
		if n > vc.MaxPage {
			vc.MaxPage = n
		}
	})
	sort.Ints(vc.PageNumbers)
}

func (i *ControlInspector) inspectSummaries(doc *goquery.Document, container *goquery.Selection, vc *pagebound.VisualControls) {
	var texts []string
	if container != nil {
		texts = append(texts, container.Text())
	}
	doc.Find(summarySelector).Each(func(_ int, sel *goquery.Selection) {
		texts = append(texts, sel.Text())
	})

	for _, text := range texts {
		if m := pageOfRe.FindStringSubmatch(text); m != nil {
			if n := parseNumber(m[2]); n > vc.MaxPage {
				vc.MaxPage = n
			}
		}
		if m := rangeOfRe.FindStringSubmatch(text); m != nil {
			if n := parseNumber(m[3]); n > vc.TotalItems {
				vc.TotalItems = n
			}
			continue
		}
		if m := ofTotalRe.FindStringSubmatch(text); m != nil {
			if n := parseNumber(m[1]); n > vc.TotalItems {
				vc.TotalItems = n
			}
		}
	}
}

// controlURL resolves a control's href, or returns empty for controls
// that navigate through script alone.
func controlURL(sel *goquery.Selection, base *url.URL) string {
	href, ok := sel.Attr("href")
	if !ok || skipHref(href) || isContactHref(href) {
		return ""
	}
	resolved := resolveHref(base, href)
	if resolved == "" || !sameHost(base, resolved) {
		return ""
	}
	return resolved
}

// controlSelector derives a CSS selector that can re-find the control
// for clicking. Prefers the selector it was found by, then the
// element's id or first class.
func controlSelector(sel *goquery.Selection, foundBy string) string {
	if foundBy != "" {
		return foundBy
	}
	if id, ok := sel.Attr("id"); ok && id != "" {
		return "#" + id
	}
	if class, ok := sel.Attr("class"); ok {
		if fields := strings.Fields(class); len(fields) > 0 {
			return goquery.NodeName(sel) + "." + fields[0]
		}
	}
	return ""
}

// parseNumber parses an integer that may carry thousands separators.
func parseNumber(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0
	}
	return n
}
