package pagebound

// Item is one content-bearing record extracted from a listing page.
// Key identifies the record (a profile URL or email address) and is the
// basis for page fingerprinting and cross-page deduplication; Name is
// the record's display text.
type Item struct {
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
}

// PageValidity is the outcome of probing a single page number.
type PageValidity struct {
	// HasContacts reports whether the page carried content distinct from
	// page 1. A page that loads fine but repeats page 1 is not valid.
	HasContacts bool

	// ContentEstimate is the number of items extracted from the page.
	ContentEstimate int

	// ContentHash digests the page's item keys in order, so two loads of
	// the same listing compare equal regardless of markup churn.
	ContentHash string

	// FetchErr is the navigation or extraction failure, if any. A failed
	// fetch makes the page invalid but does not abort the search.
	FetchErr error
}

// VisualControls describes the pagination controls visible on a page.
type VisualControls struct {
	// HasContainer reports that a recognizable pagination container
	// (e.g. nav.pagination) is present.
	HasContainer bool `json:"hasContainer"`

	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`

	// NextURL is the absolute target of the next-page control, when the
	// control is a link. NextSelector locates the control for clicking
	// when it is not.
	NextURL      string `json:"nextUrl,omitempty"`
	NextSelector string `json:"nextSelector,omitempty"`

	// PageNumbers are the numeric page links found, ascending.
	PageNumbers []int `json:"pageNumbers,omitempty"`

	// MaxPage is the largest page number the controls reveal, from
	// numbered links or "Page X of Y" text. Zero when unknown.
	MaxPage int `json:"maxPage,omitempty"`

	// TotalItems is the total result count revealed by "N-M of T" text.
	// Zero when unknown.
	TotalItems int `json:"totalItems,omitempty"`
}

// ScrollSignals are the static infinite-scroll indicators found in a
// page's HTML. Live signals (document height, content growth under
// scrolling) are measured separately by the discovery engine.
type ScrollSignals struct {
	KnownLibrary         bool `json:"knownLibrary"`
	LazyLoadCount        int  `json:"lazyLoadCount"`
	ScrollListener       bool `json:"scrollListener"`
	LoadMore             bool `json:"loadMore"`
	VirtualList          bool `json:"virtualList"`
	IntersectionObserver bool `json:"intersectionObserver"`
}

// ItemExtractor pulls content-bearing items out of rendered HTML.
// Relative item URLs are resolved against baseURL.
type ItemExtractor interface {
	Extract(html, baseURL string) ([]Item, error)
}

// ControlInspector finds visual pagination controls in rendered HTML.
type ControlInspector interface {
	Inspect(html, baseURL string) (*VisualControls, error)
}

// ScrollInspector reports static infinite-scroll signals in rendered HTML.
type ScrollInspector interface {
	Signals(html string) (*ScrollSignals, error)
}
