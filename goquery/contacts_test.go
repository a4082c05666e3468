package goquery_test

import (
	"testing"

	"github.com/imagineworking4288/pagebound"
	pbquery "github.com/imagineworking4288/pagebound/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactExtractor_Contacts(t *testing.T) {
	t.Parallel()

	e := pbquery.NewContactExtractor()

	t.Run("extracts full records from agent cards", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div class="agent-card">
				<h3>Jane Doe</h3>
				<a href="/agents/jane-doe">Profile</a>
				<a href="mailto:jane@realty.example.com">Email Jane</a>
				<a href="tel:555-010-1234">555-010-1234</a>
			</div>
		</body></html>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)

		c := contacts[0]
		assert.Equal(t, "Jane Doe", c.Name)
		assert.Equal(t, "jane@realty.example.com", c.Email)
		assert.Equal(t, "555-010-1234", c.Phone)
		assert.Equal(t, "https://example.com/agents/jane-doe", c.ProfileURL)
		assert.Equal(t, baseURL, c.Source)
		assert.Equal(t, "realty.example.com", c.Domain)
		assert.Equal(t, pagebound.DomainBusiness, c.DomainType)
		assert.Equal(t, pagebound.ConfidenceHigh, c.Confidence)
	})

	t.Run("falls back to class-named name elements", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<li>
				<span class="agent-name">John Roe</span>
				<a href="mailto:john@realty.example.com">john@realty.example.com</a>
			</li>
		</body></html>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "John Roe", contacts[0].Name)
	})

	t.Run("derives name from email when the card has none", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="mailto:pat.quinn@realty.example.com">pat.quinn@realty.example.com</a>
		</body></html>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "Pat Quinn", contacts[0].Name)
	})

	t.Run("keeps the plus sign in international tel anchors", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div class="agent-card">
				<h3>Lena Kowalski</h3>
				<a href="mailto:lena@realty.example.com">Email</a>
				<a href="tel:+1-555-0101">Call</a>
			</div>
		</body></html>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "+1-555-0101", contacts[0].Phone)
	})

	t.Run("finds phone-shaped text without a tel anchor", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div class="profile">
				<h4>Sam Hill</h4>
				Office: (555) 010-9876
				<a href="mailto:sam@realty.example.com">Email</a>
			</div>
		</body></html>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "(555) 010-9876", contacts[0].Phone)
	})

	t.Run("merges duplicate emails keeping earlier fields", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<div class="agent-card">
				<h3>Jane Doe</h3>
				<a href="mailto:jane@realty.example.com">Email</a>
			</div>
			<footer>
				<a href="mailto:jane@realty.example.com">jane@realty.example.com</a>
			</footer>
		</body></html>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "Jane Doe", contacts[0].Name)
	})

	t.Run("skips malformed addresses", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<a href="mailto:">empty</a>
			<a href="mailto:not an email">broken</a>
			<a href="mailto:ok@example.com">fine</a>
		</body></html>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "ok@example.com", contacts[0].Email)
	})

	t.Run("strips mailto query parameters", func(t *testing.T) {
		t.Parallel()

		html := `<a href="mailto:Jane@Realty.example.com?subject=Hello&body=Hi">Jane</a>`

		contacts, err := e.Contacts(html, baseURL)
		require.NoError(t, err)
		require.Len(t, contacts, 1)
		assert.Equal(t, "jane@realty.example.com", contacts[0].Email)
	})

	t.Run("page without mailto links yields no contacts", func(t *testing.T) {
		t.Parallel()

		contacts, err := e.Contacts("<html><body><h1>Team</h1></body></html>", baseURL)
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})
}
