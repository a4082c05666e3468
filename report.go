package pagebound

import (
	"context"
	"time"
)

// Report is everything a scrape run produced for one site.
type Report struct {
	RunID       string    `json:"runId"`
	URL         string    `json:"url"`
	ScrapedAt   time.Time `json:"scrapedAt"`
	Pattern     *Pattern  `json:"pattern,omitempty"`
	TotalPages  int       `json:"totalPages"`
	PagesFailed int       `json:"pagesFailed"`
	Contacts    []Contact `json:"contacts"`
}

// ReportSummary aggregates a report for display.
type ReportSummary struct {
	Total          int
	WithName       int
	WithPhone      int
	Complete       int
	BusinessEmails int
}

// Summary aggregates the report's contacts.
func (r *Report) Summary() ReportSummary {
	var s ReportSummary
	s.Total = len(r.Contacts)
	for i := range r.Contacts {
		c := &r.Contacts[i]
		if c.Name != "" {
			s.WithName++
		}
		if c.Phone != "" {
			s.WithPhone++
		}
		if c.Confidence == ConfidenceHigh {
			s.Complete++
		}
		if c.DomainType == DomainBusiness {
			s.BusinessEmails++
		}
	}
	return s
}

// ReportWriter persists scrape reports.
type ReportWriter interface {
	// Write persists the report and returns the path it was written to.
	Write(ctx context.Context, report *Report) (path string, err error)
}
