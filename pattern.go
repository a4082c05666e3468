package pagebound

import (
	"net/url"
	"strings"
)

// PageToken is the placeholder substituted with a page number in
// path-style URL patterns, e.g. "/agents/page/{page}".
const PageToken = "{page}"

// Kind identifies the pagination mechanism a site uses.
type Kind string

// Pagination mechanisms.
const (
	KindNone           Kind = "none"
	KindParameter      Kind = "parameter"       // ?page=N
	KindPath           Kind = "path"            // /page/N
	KindOffset         Kind = "offset"          // ?offset=(N-1)*perPage
	KindCursor         Kind = "cursor"          // opaque token, cannot generate URLs
	KindInfiniteScroll Kind = "infinite_scroll" // content loads on scroll
)

// Method identifies how a pattern was discovered.
type Method string

// Detection methods, ordered by the trust placed in them.
const (
	MethodManual          Method = "manual"
	MethodCache           Method = "cache"
	MethodURLParameter    Method = "url_parameter"
	MethodNavigation      Method = "navigation"
	MethodScrollHeuristic Method = "scroll_heuristic"
	MethodURLAnalysis     Method = "url_analysis"
)

// Pattern describes how to reach page N of a site's listing.
//
// Which fields are meaningful depends on Kind: parameter and offset
// patterns use ParamName against BaseURL, path patterns substitute
// PageToken inside URLPattern, and offset patterns additionally need
// ItemsPerPage to convert page numbers to offsets.
type Pattern struct {
	Kind         Kind   `json:"kind"`
	ParamName    string `json:"paramName,omitempty"`
	URLPattern   string `json:"urlPattern,omitempty"`
	ItemsPerPage int    `json:"itemsPerPage,omitempty"`
	BaseURL      string `json:"baseUrl"`
	MaxPageHint  int    `json:"maxPageHint,omitempty"`
	Method       Method `json:"method"`
	Confidence   int    `json:"confidence"`
}

// Validate returns an error if the pattern could not generate page URLs.
func (p *Pattern) Validate() error {
	switch p.Kind {
	case KindNone, KindInfiniteScroll:
	case KindParameter:
		if p.ParamName == "" {
			return Errorf(EINVALID, "parameter pattern requires a param name")
		}
		if p.BaseURL == "" {
			return Errorf(EINVALID, "parameter pattern requires a base URL")
		}
	case KindOffset:
		if p.ParamName == "" {
			return Errorf(EINVALID, "offset pattern requires a param name")
		}
		if p.BaseURL == "" {
			return Errorf(EINVALID, "offset pattern requires a base URL")
		}
		if p.ItemsPerPage < 1 {
			return Errorf(EINVALID, "offset pattern requires items per page >= 1, got %d", p.ItemsPerPage)
		}
	case KindPath:
		if strings.Count(p.URLPattern, PageToken) != 1 {
			return Errorf(EINVALID, "path pattern requires exactly one %s placeholder", PageToken)
		}
		if p.BaseURL == "" {
			return Errorf(EINVALID, "path pattern requires a base URL")
		}
	case KindCursor:
		if p.ParamName == "" {
			return Errorf(EINVALID, "cursor pattern requires a param name")
		}
	default:
		return Errorf(EINVALID, "unknown pagination kind %q", p.Kind)
	}

	switch p.Method {
	case "", MethodManual, MethodCache, MethodURLParameter, MethodNavigation, MethodScrollHeuristic, MethodURLAnalysis:
	default:
		return Errorf(EINVALID, "unknown detection method %q", p.Method)
	}

	if p.Confidence < 0 || p.Confidence > 100 {
		return Errorf(EINVALID, "confidence must be between 0 and 100, got %d", p.Confidence)
	}
	return nil
}

// DomainKey canonicalizes a URL's host for use as a cache key. The
// scheme, port, path and any leading "www." are discarded, so
// "https://www.Example.com/agents?page=2" and "http://example.com"
// share a key.
func DomainKey(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q", rawURL)
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}
	return strings.TrimPrefix(host, "www."), nil
}

// SameDomain reports whether two URLs share a domain key. URLs that do
// not parse never match.
func SameDomain(a, b string) bool {
	ka, err := DomainKey(a)
	if err != nil {
		return false
	}
	kb, err := DomainKey(b)
	if err != nil {
		return false
	}
	return ka == kb
}
