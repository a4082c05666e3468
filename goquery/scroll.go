package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/imagineworking4288/pagebound"
)

// Client-side libraries that exist to implement infinite scrolling.
// Matched against script sources and inline script text.
var scrollLibraryMarkers = []string{
	"infinite-scroll",
	"infinitescroll",
	"jscroll",
	"scrollmagic",
	"waypoints",
	"masonry",
}

// Markers of virtualized list renderers, which only ever appear on
// scroll-driven feeds.
const virtualListSelector = "cdk-virtual-scroll-viewport, [data-virtualized], " +
	"[class*='virtual-list'], [class*='virtual-scroll'], [class*='react-window'], " +
	"[class*='react-virtualized'], [class*='vue-recycle-scroller']"

// Lazy-loaded media, one form per selector.
const lazyLoadSelector = "img[loading='lazy'], img[data-src], img[data-lazy], " +
	"[data-lazyload], img.lazyload, img.lazy"

const loadMoreSelector = "[class*='load-more'], [class*='loadmore'], [class*='show-more'], " +
	"[id*='load-more'], [id*='loadmore']"

var loadMoreTextRe = regexp.MustCompile(`(?i)\b(?:load|show|view)\s+more\b`)

// ScrollInspector scans static HTML for the markers infinite-scroll
// implementations leave behind. It only gathers evidence; scoring and
// the live scroll test belong to the detection strategy.
type ScrollInspector struct{}

// NewScrollInspector creates a new ScrollInspector.
func NewScrollInspector() *ScrollInspector {
	return &ScrollInspector{}
}

var _ pagebound.ScrollInspector = (*ScrollInspector)(nil)

// Signals parses HTML and reports every scroll marker found.
func (i *ScrollInspector) Signals(html string) (*pagebound.ScrollSignals, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "failed to parse HTML: %v", err)
	}

	sig := &pagebound.ScrollSignals{}

	var scripts strings.Builder
	doc.Find("script").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			scripts.WriteString(strings.ToLower(src))
			scripts.WriteByte('\n')
		}
		scripts.WriteString(strings.ToLower(sel.Text()))
		scripts.WriteByte('\n')
	})
	scriptText := scripts.String()

	for _, marker := range scrollLibraryMarkers {
		if strings.Contains(scriptText, marker) {
			sig.KnownLibrary = true
			break
		}
	}

	sig.LazyLoadCount = doc.Find(lazyLoadSelector).Length()

	sig.ScrollListener = strings.Contains(scriptText, `addeventlistener("scroll"`) ||
		strings.Contains(scriptText, `addeventlistener('scroll'`) ||
		strings.Contains(scriptText, `.on("scroll"`) ||
		strings.Contains(scriptText, `.on('scroll'`) ||
		doc.Find("[onscroll]").Length() > 0

	sig.IntersectionObserver = strings.Contains(scriptText, "intersectionobserver")

	sig.VirtualList = doc.Find(virtualListSelector).Length() > 0

	sig.LoadMore = doc.Find(loadMoreSelector).Length() > 0
	if !sig.LoadMore {
		doc.Find("button, a, [role='button']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if loadMoreTextRe.MatchString(sel.Text()) {
				sig.LoadMore = true
				return false
			}
			return true
		})
	}

	return sig, nil
}
