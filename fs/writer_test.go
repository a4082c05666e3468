package fs_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/imagineworking4288/pagebound"
	"github.com/imagineworking4288/pagebound/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testReport() *pagebound.Report {
	return &pagebound.Report{
		RunID:     "3f1c2a44-9c1e-4f5a-8a6c-5b9d2e7f0a11",
		URL:       "https://example.com/agents",
		ScrapedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Pattern: &pagebound.Pattern{
			Kind:       pagebound.KindParameter,
			ParamName:  "page",
			URLPattern: "https://example.com/agents?page={page}",
			BaseURL:    "https://example.com/agents",
			Method:     pagebound.MethodURLParameter,
			Confidence: 90,
		},
		TotalPages:  12,
		PagesFailed: 1,
		Contacts: []pagebound.Contact{
			{
				Name:       "Jane Doe",
				Email:      "jane@realty.example.com",
				Phone:      "555-0101",
				Domain:     "realty.example.com",
				DomainType: pagebound.DomainBusiness,
				Source:     "https://example.com/agents?page=1",
				Confidence: pagebound.ConfidenceHigh,
			},
			{
				Name:       "John Roe",
				Email:      "john.roe@gmail.com",
				Domain:     "gmail.com",
				DomainType: pagebound.DomainPersonal,
				Source:     "https://example.com/agents?page=2",
				Confidence: pagebound.ConfidenceMedium,
			},
			{
				Name:       "Pat Quinn",
				Email:      "pat@realty.example.com",
				Domain:     "realty.example.com",
				DomainType: pagebound.DomainBusiness,
				Source:     "https://example.com/agents?page=3",
				Confidence: pagebound.ConfidenceMedium,
			},
		},
	}
}

func TestWriter_Write(t *testing.T) {
	t.Parallel()

	t.Run("writes a timestamped JSON report", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir, fs.FormatJSON)

		path, err := w.Write(context.Background(), testReport())
		require.NoError(t, err)

		base := filepath.Base(path)
		assert.True(t, strings.HasPrefix(base, "contacts-"), "filename %q should carry the contacts prefix", base)
		assert.True(t, strings.HasSuffix(base, ".json"))
		assert.Equal(t, dir, filepath.Dir(path))

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var doc struct {
			Metadata struct {
				RunID         string `json:"runId"`
				URL           string `json:"url"`
				TotalContacts int    `json:"totalContacts"`
				Pagination    struct {
					Kind        string `json:"kind"`
					ParamName   string `json:"paramName"`
					TotalPages  int    `json:"totalPages"`
					PagesFailed int    `json:"pagesFailed"`
					Confidence  int    `json:"confidence"`
				} `json:"pagination"`
				DomainStats struct {
					UniqueDomains  int `json:"uniqueDomains"`
					BusinessEmails int `json:"businessEmails"`
					PersonalEmails int `json:"personalEmails"`
					TopDomains     []struct {
						Domain     string `json:"domain"`
						Count      int    `json:"count"`
						Percentage string `json:"percentage"`
					} `json:"topDomains"`
				} `json:"domainStats"`
			} `json:"metadata"`
			Contacts []pagebound.Contact `json:"contacts"`
		}
		require.NoError(t, json.Unmarshal(data, &doc))

		assert.Equal(t, "https://example.com/agents", doc.Metadata.URL)
		assert.Equal(t, 3, doc.Metadata.TotalContacts)
		assert.Equal(t, "parameter", doc.Metadata.Pagination.Kind)
		assert.Equal(t, "page", doc.Metadata.Pagination.ParamName)
		assert.Equal(t, 12, doc.Metadata.Pagination.TotalPages)
		assert.Equal(t, 1, doc.Metadata.Pagination.PagesFailed)
		assert.Equal(t, 2, doc.Metadata.DomainStats.UniqueDomains)
		assert.Equal(t, 2, doc.Metadata.DomainStats.BusinessEmails)
		assert.Equal(t, 1, doc.Metadata.DomainStats.PersonalEmails)
		require.Len(t, doc.Metadata.DomainStats.TopDomains, 2)
		assert.Equal(t, "realty.example.com", doc.Metadata.DomainStats.TopDomains[0].Domain)
		assert.Equal(t, 2, doc.Metadata.DomainStats.TopDomains[0].Count)
		assert.Equal(t, "66.7%", doc.Metadata.DomainStats.TopDomains[0].Percentage)
		require.Len(t, doc.Contacts, 3)
		assert.Equal(t, "jane@realty.example.com", doc.Contacts[0].Email)
	})

	t.Run("writes a CSV report with header", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir, fs.FormatCSV)

		path, err := w.Write(context.Background(), testReport())
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, ".csv"))

		f, err := os.Open(path)
		require.NoError(t, err)
		defer f.Close()

		rows, err := csv.NewReader(f).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 4)

		assert.Equal(t, []string{"name", "email", "phone", "domain", "domainType", "source", "confidence"}, rows[0])
		assert.Equal(t, []string{
			"Jane Doe",
			"jane@realty.example.com",
			"555-0101",
			"realty.example.com",
			"business",
			"https://example.com/agents?page=1",
			"high",
		}, rows[1])
	})

	t.Run("empty contacts encode as an empty array", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir, fs.FormatJSON)

		report := testReport()
		report.Contacts = nil

		path, err := w.Write(context.Background(), report)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"contacts": []`)
	})

	t.Run("creates the target directory", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "reports", "nested")
		w := fs.NewWriter(dir, fs.FormatJSON)

		path, err := w.Write(context.Background(), testReport())
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		w := fs.NewWriter(dir, fs.FormatCSV)

		_, err := w.Write(context.Background(), testReport())
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.NotContains(t, entries[0].Name(), ".tmp-")
	})

	t.Run("rejects nil report", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir(), fs.FormatJSON)
		_, err := w.Write(context.Background(), nil)
		require.Error(t, err)
		assert.Equal(t, pagebound.EINVALID, pagebound.ErrorCode(err))
	})

	t.Run("rejects unsupported format", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir(), fs.Format("xml"))
		_, err := w.Write(context.Background(), testReport())
		require.Error(t, err)
		assert.Equal(t, pagebound.EINVALID, pagebound.ErrorCode(err))
	})

	t.Run("respects canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		w := fs.NewWriter(t.TempDir(), fs.FormatJSON)
		_, err := w.Write(ctx, testReport())
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestComputeDomainStats(t *testing.T) {
	t.Parallel()

	t.Run("caps top domains at ten", func(t *testing.T) {
		t.Parallel()

		var contacts []pagebound.Contact
		for _, d := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
			contacts = append(contacts, pagebound.Contact{
				Email:      "x@" + d + ".example.com",
				Domain:     d + ".example.com",
				DomainType: pagebound.DomainBusiness,
			})
		}

		stats := fs.ComputeDomainStats(contacts)
		assert.Equal(t, 12, stats.UniqueDomains)
		assert.Len(t, stats.TopDomains, 10)
	})

	t.Run("skips contacts without a domain", func(t *testing.T) {
		t.Parallel()

		stats := fs.ComputeDomainStats([]pagebound.Contact{
			{Name: "No Email", ProfileURL: "https://example.com/agent/1"},
		})
		assert.Equal(t, 0, stats.UniqueDomains)
		assert.Empty(t, stats.TopDomains)
	})
}
