package pagebound

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DomainType classifies an email domain.
type DomainType string

// Email domain classes.
const (
	DomainBusiness DomainType = "business"
	DomainPersonal DomainType = "personal"
)

// Confidence grades how complete a contact record is.
type Confidence string

// Contact confidence levels.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// genericPrefixes are local parts that identify a mailbox rather than a
// person, so no name can be derived from them.
var genericPrefixes = map[string]bool{
	"info": true, "contact": true, "admin": true, "support": true,
	"help": true, "sales": true, "hello": true, "team": true,
	"office": true, "mail": true, "noreply": true, "no-reply": true,
}

// personalDomains are well-known consumer email providers.
var personalDomains = map[string]bool{
	"gmail.com": true, "yahoo.com": true, "hotmail.com": true,
	"outlook.com": true, "aol.com": true, "icloud.com": true,
	"me.com": true, "mac.com": true, "protonmail.com": true,
	"mail.com": true, "yandex.com": true, "gmx.com": true,
	"zoho.com": true, "live.com": true, "msn.com": true,
}

// ContactExtractor pulls contact records out of rendered HTML.
// Relative profile URLs are resolved against baseURL.
type ContactExtractor interface {
	Contacts(html, baseURL string) ([]Contact, error)
}

// Contact is one extracted contact record.
type Contact struct {
	Name       string     `json:"name,omitempty"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone,omitempty"`
	ProfileURL string     `json:"profileUrl,omitempty"`
	Source     string     `json:"source"`
	Confidence Confidence `json:"confidence"`
	Domain     string     `json:"domain,omitempty"`
	DomainType DomainType `json:"domainType,omitempty"`
}

// Validate returns an error if the contact contains invalid fields.
func (c *Contact) Validate() error {
	if c.Email == "" {
		return Errorf(EINVALID, "contact email required")
	}
	return nil
}

// Normalize fills the derived fields: a name derived from the email when
// none was extracted, the email's domain and its classification, and the
// confidence level.
func (c *Contact) Normalize() {
	if c.Name == "" {
		c.Name = DeriveNameFromEmail(c.Email)
	}
	c.Domain = EmailDomain(c.Email)
	c.DomainType = ClassifyDomain(c.Domain)
	c.Confidence = c.ConfidenceLevel()
}

// ConfidenceLevel grades the contact by field completeness: high needs
// name, email and phone; medium needs email plus one of the other two.
func (c *Contact) ConfidenceLevel() Confidence {
	hasName := c.Name != ""
	hasEmail := c.Email != ""
	hasPhone := c.Phone != ""

	switch {
	case hasName && hasEmail && hasPhone:
		return ConfidenceHigh
	case (hasName && hasEmail) || (hasEmail && hasPhone):
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// EmailDomain extracts the lowercase domain from an email address.
// Returns "" if the address has no domain part.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// ClassifyDomain classifies an email domain as business or personal.
// Unknown domains default to business; a missing domain is personal.
func ClassifyDomain(domain string) DomainType {
	if domain == "" || personalDomains[domain] {
		return DomainPersonal
	}
	return DomainBusiness
}

// DeriveNameFromEmail guesses a display name from an email's local part:
// "jane.q-smith@example.com" becomes "Jane Q. Smith". Returns "" for
// generic mailboxes (info@, sales@, ...) and local parts with no usable
// name material.
func DeriveNameFromEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return ""
	}
	prefix := strings.ToLower(email[:at])
	if genericPrefixes[prefix] {
		return ""
	}

	parts := strings.FieldsFunc(prefix, func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})

	var name []string
	for _, part := range parts {
		switch {
		case isDigits(part):
			// skip pure numbers
		case utf8.RuneCountInString(part) == 1 && isLetters(part):
			name = append(name, strings.ToUpper(part)+".")
		default:
			name = append(name, capitalize(part))
		}
	}
	return strings.Join(name, " ")
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func isLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return len(s) > 0
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
