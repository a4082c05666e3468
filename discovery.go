package pagebound

// ProbeRecord is one probed page in a boundary search.
type ProbeRecord struct {
	Page            int    `json:"page"`
	Valid           bool   `json:"valid"`
	ContentEstimate int    `json:"contentEstimate"`
	Reason          string `json:"reason,omitempty"`
}

// SearchTrace records every probe and decision of a boundary search, in
// order. Path holds human-readable decision lines for operator review.
type SearchTrace struct {
	Tested        []ProbeRecord `json:"tested"`
	Path          []string      `json:"path"`
	LowerBound    int           `json:"lowerBound"`
	UpperBound    int           `json:"upperBound"`
	LastValidPage int           `json:"lastValidPage"`
}

// BoundaryResult is the outcome of a boundary search.
type BoundaryResult struct {
	// TrueMax is the highest page number that served distinct, non-empty
	// content. Never exceeds the search's hard cap.
	TrueMax int `json:"trueMax"`

	// Capped reports that the search ran into its hard cap, so TrueMax
	// is a floor rather than the real boundary.
	Capped bool `json:"capped"`

	// Confirmed reports that two consecutive pages past TrueMax were
	// verified invalid.
	Confirmed bool `json:"confirmed"`

	Trace *SearchTrace `json:"trace,omitempty"`
}

// Discovery is the result of a full pagination discovery run. Reaching a
// Discovery at all means the run succeeded; a site with no pagination
// yields a single-page Discovery, not an error.
type Discovery struct {
	BaseURL           string       `json:"baseUrl"`
	URLs              []string     `json:"urls"`
	Pattern           *Pattern     `json:"pattern,omitempty"`
	TotalPages        int          `json:"totalPages"`
	Confidence        int          `json:"confidence"`
	Capped            bool         `json:"capped"`
	BoundaryConfirmed bool         `json:"boundaryConfirmed"`
	Trace             *SearchTrace `json:"trace,omitempty"`
}
