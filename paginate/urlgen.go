package paginate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/imagineworking4288/pagebound"
)

// PageURL maps a page number onto a concrete URL using the pattern.
// The mapping is deterministic and injective: the same page always
// yields the same URL and no two pages share one. Page numbers start
// at 1.
//
// Cursor patterns return EUNSUPPORTED; none and infinite-scroll
// patterns have no page URLs and return EINVALID.
func PageURL(p *pagebound.Pattern, page int) (string, error) {
	if p == nil {
		return "", pagebound.Errorf(pagebound.EINVALID, "pattern required")
	}
	if page < 1 {
		return "", pagebound.Errorf(pagebound.EINVALID, "page numbers start at 1, got %d", page)
	}

	switch p.Kind {
	case pagebound.KindParameter:
		return setQueryParam(p.BaseURL, p.ParamName, strconv.Itoa(page))
	case pagebound.KindOffset:
		if p.ItemsPerPage < 1 {
			return "", pagebound.Errorf(pagebound.EINVALID, "offset pattern requires items per page >= 1")
		}
		offset := (page - 1) * p.ItemsPerPage
		return setQueryParam(p.BaseURL, p.ParamName, strconv.Itoa(offset))
	case pagebound.KindPath:
		return substitutePagePath(p, page)
	case pagebound.KindCursor:
		return "", pagebound.Errorf(pagebound.EUNSUPPORTED, "cursor pagination cannot generate page URLs")
	default:
		return "", pagebound.Errorf(pagebound.EINVALID, "cannot generate page URLs for %q pagination", p.Kind)
	}
}

// setQueryParam sets one query parameter on baseURL, preserving every
// other parameter the listing carries (filters, sort order, and so on).
func setQueryParam(baseURL, name, value string) (string, error) {
	if name == "" {
		return "", pagebound.Errorf(pagebound.EINVALID, "param name required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", pagebound.Errorf(pagebound.EINVALID, "invalid base URL %q", baseURL)
	}
	q := u.Query()
	q.Set(name, value)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// substitutePagePath fills the page token in a path-style pattern and
// resolves it against the base URL. The pattern may be an absolute URL,
// an absolute path, or a relative path.
func substitutePagePath(p *pagebound.Pattern, page int) (string, error) {
	if strings.Count(p.URLPattern, pagebound.PageToken) != 1 {
		return "", pagebound.Errorf(pagebound.EINVALID, "path pattern requires exactly one %s placeholder", pagebound.PageToken)
	}
	filled := strings.Replace(p.URLPattern, pagebound.PageToken, strconv.Itoa(page), 1)

	base, err := url.Parse(p.BaseURL)
	if err != nil {
		return "", pagebound.Errorf(pagebound.EINVALID, "invalid base URL %q", p.BaseURL)
	}
	ref, err := url.Parse(filled)
	if err != nil {
		return "", pagebound.Errorf(pagebound.EINVALID, "invalid URL pattern %q", p.URLPattern)
	}
	return base.ResolveReference(ref).String(), nil
}
