// Package fs persists scrape reports as timestamped JSON or CSV files.
package fs

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/imagineworking4288/pagebound"
)

// Format selects the report file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

const stampLayout = "20060102-150405"

// Ensure Writer implements pagebound.ReportWriter at compile time.
var _ pagebound.ReportWriter = (*Writer)(nil)

// Writer writes scrape reports to a directory. Files are written to a
// temp file first and renamed into place, so a crash mid-write never
// leaves a truncated report behind.
type Writer struct {
	dir    string
	format Format

	// now is overridable in tests for deterministic filenames.
	now func() time.Time
}

// NewWriter creates a Writer targeting the given directory.
func NewWriter(dir string, format Format) *Writer {
	return &Writer{dir: dir, format: format, now: time.Now}
}

// Write persists the report and returns the path it was written to.
// The filename carries a timestamp so successive runs never clobber
// each other: contacts-20060102-150405.json.
func (w *Writer) Write(ctx context.Context, report *pagebound.Report) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if report == nil {
		return "", pagebound.Errorf(pagebound.EINVALID, "report required")
	}

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	stamp := w.now().UTC().Format(stampLayout)
	var name string
	var encode func(*os.File) error
	switch w.format {
	case FormatCSV:
		name = "contacts-" + stamp + ".csv"
		encode = func(f *os.File) error { return writeCSV(f, report) }
	case FormatJSON, "":
		name = "contacts-" + stamp + ".json"
		encode = func(f *os.File) error { return writeJSON(f, report) }
	default:
		return "", pagebound.Errorf(pagebound.EINVALID, "unsupported report format %q", w.format)
	}

	path := filepath.Join(w.dir, name)
	if err := atomicWrite(path, encode); err != nil {
		return "", err
	}
	return path, nil
}

// atomicWrite writes via a temp file in the same directory and renames
// it into place.
func atomicWrite(path string, encode func(*os.File) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := encode(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// document is the on-disk JSON shape.
type document struct {
	Metadata metadata            `json:"metadata"`
	Contacts []pagebound.Contact `json:"contacts"`
}

type metadata struct {
	RunID         string       `json:"runId,omitempty"`
	URL           string       `json:"url"`
	ScrapedAt     time.Time    `json:"scrapedAt"`
	TotalContacts int          `json:"totalContacts"`
	Pagination    *pagination  `json:"pagination,omitempty"`
	DomainStats   *DomainStats `json:"domainStats,omitempty"`
}

type pagination struct {
	Kind        pagebound.Kind `json:"kind"`
	ParamName   string         `json:"paramName,omitempty"`
	TotalPages  int            `json:"totalPages"`
	PagesFailed int            `json:"pagesFailed,omitempty"`
	Confidence  int            `json:"confidence"`
}

func writeJSON(f *os.File, report *pagebound.Report) error {
	contacts := report.Contacts
	if contacts == nil {
		contacts = []pagebound.Contact{}
	}
	doc := document{
		Metadata: metadata{
			RunID:         report.RunID,
			URL:           report.URL,
			ScrapedAt:     report.ScrapedAt,
			TotalContacts: len(report.Contacts),
			DomainStats:   ComputeDomainStats(report.Contacts),
		},
		Contacts: contacts,
	}
	if p := report.Pattern; p != nil {
		doc.Metadata.Pagination = &pagination{
			Kind:        p.Kind,
			ParamName:   p.ParamName,
			TotalPages:  report.TotalPages,
			PagesFailed: report.PagesFailed,
			Confidence:  p.Confidence,
		}
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

var csvHeader = []string{"name", "email", "phone", "domain", "domainType", "source", "confidence"}

func writeCSV(f *os.File, report *pagebound.Report) error {
	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range report.Contacts {
		c := &report.Contacts[i]
		row := []string{
			c.Name,
			c.Email,
			c.Phone,
			c.Domain,
			string(c.DomainType),
			c.Source,
			string(c.Confidence),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// DomainStats summarizes the email domains in a report.
type DomainStats struct {
	UniqueDomains  int          `json:"uniqueDomains"`
	BusinessEmails int          `json:"businessEmails"`
	PersonalEmails int          `json:"personalEmails"`
	TopDomains     []DomainStat `json:"topDomains"`
}

// DomainStat is one domain's share of a report's contacts.
type DomainStat struct {
	Domain     string `json:"domain"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

const topDomainLimit = 10

// ComputeDomainStats aggregates domain counts for report metadata.
// Contacts without an email domain are skipped.
func ComputeDomainStats(contacts []pagebound.Contact) *DomainStats {
	stats := &DomainStats{TopDomains: []DomainStat{}}
	counts := make(map[string]int)
	for i := range contacts {
		c := &contacts[i]
		if c.Domain == "" {
			continue
		}
		counts[c.Domain]++
		switch c.DomainType {
		case pagebound.DomainBusiness:
			stats.BusinessEmails++
		case pagebound.DomainPersonal:
			stats.PersonalEmails++
		}
	}
	stats.UniqueDomains = len(counts)

	domains := make([]string, 0, len(counts))
	total := 0
	for d, n := range counts {
		domains = append(domains, d)
		total += n
	}
	sort.Slice(domains, func(i, j int) bool {
		if counts[domains[i]] != counts[domains[j]] {
			return counts[domains[i]] > counts[domains[j]]
		}
		return domains[i] < domains[j]
	})
	if len(domains) > topDomainLimit {
		domains = domains[:topDomainLimit]
	}
	for _, d := range domains {
		pct := float64(counts[d]) / float64(total) * 100
		stats.TopDomains = append(stats.TopDomains, DomainStat{
			Domain:     d,
			Count:      counts[d],
			Percentage: strconv.FormatFloat(pct, 'f', 1, 64) + "%",
		})
	}
	return stats
}
