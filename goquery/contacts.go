package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/imagineworking4288/pagebound"
)

// Ancestors that group one person's details together. The closest
// match around a mailto anchor is treated as that contact's card.
const contactCardSelector = "li, article, tr, [class*='card'], [class*='agent'], " +
	"[class*='profile'], [class*='member'], [class*='person'], [class*='team'], " +
	"[class*='contact'], [class*='item'], [class*='result'], [class*='listing']"

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe = regexp.MustCompile(`(\+?1[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
)

// ContactExtractor pulls contact records out of rendered HTML. A
// record is anchored on a mailto link; the name, phone number and
// profile link are read from the closest card-like ancestor.
type ContactExtractor struct{}

// NewContactExtractor creates a new ContactExtractor.
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{}
}

var _ pagebound.ContactExtractor = (*ContactExtractor)(nil)

// Contacts parses HTML and returns normalized contact records in
// document order, deduplicated by email. When the same address appears
// in several places its records are merged, earlier fields winning.
func (e *ContactExtractor) Contacts(html string, baseURL string) ([]pagebound.Contact, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]int)
	var contacts []pagebound.Contact

	doc.Find("a[href^='mailto:']").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		email := mailtoAddress(href)
		if email == "" || !emailRe.MatchString(email) {
			return
		}

		contact := pagebound.Contact{Email: email, Source: baseURL}
		if card := sel.Closest(contactCardSelector); card.Length() > 0 {
			contact.Name = cardName(card, sel, email)
			contact.Phone = cardPhone(card)
			contact.ProfileURL = cardProfileURL(card, base)
		} else if text := strings.TrimSpace(sel.Text()); !strings.EqualFold(text, email) {
			contact.Name = collapseSpace(text)
		}

		if idx, ok := seen[email]; ok {
			merge(&contacts[idx], &contact)
			return
		}
		seen[email] = len(contacts)
		contacts = append(contacts, contact)
	})

	for i := range contacts {
		contacts[i].Normalize()
	}
	return contacts, nil
}

// mailtoAddress extracts the lowercase address from a mailto href.
func mailtoAddress(href string) string {
	key := contactKey(href)
	if !strings.HasPrefix(key, "mailto:") {
		return ""
	}
	return strings.TrimPrefix(key, "mailto:")
}

// cardName reads a contact's display name off their card: a heading
// first, then an element class-named "name", then the mailto anchor's
// own text when it is not just the address again.
func cardName(card, anchor *goquery.Selection, email string) string {
	if heading := strings.TrimSpace(card.Find("h1, h2, h3, h4, h5, h6").First().Text()); heading != "" {
		return collapseSpace(heading)
	}
	if named := strings.TrimSpace(card.Find("[class*='name']").First().Text()); named != "" {
		return collapseSpace(named)
	}
	if text := strings.TrimSpace(anchor.Text()); text != "" && !strings.EqualFold(text, email) {
		return collapseSpace(text)
	}
	return ""
}

// cardPhone reads a phone number off a card: a tel: anchor first, then
// the first phone-shaped run of text.
func cardPhone(card *goquery.Selection) string {
	phone := ""
	card.Find("a[href^='tel:']").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if key := contactKey(href); strings.HasPrefix(key, "tel:") {
			phone = strings.TrimPrefix(key, "tel:")
			return false
		}
		return true
	})
	if phone != "" {
		return phone
	}
	return strings.TrimSpace(phoneRe.FindString(card.Text()))
}

// cardProfileURL finds the card's detail link: the first same-host
// link that is not a contact link.
func cardProfileURL(card *goquery.Selection, base *url.URL) string {
	profile := ""
	card.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if href == "" || skipHref(href) || isContactHref(href) {
			return true
		}
		resolved := resolveHref(base, href)
		if resolved == "" || !sameHost(base, resolved) {
			return true
		}
		profile = resolved
		return false
	})
	return profile
}

// merge fills dst's empty fields from src.
func merge(dst, src *pagebound.Contact) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Phone == "" {
		dst.Phone = src.Phone
	}
	if dst.ProfileURL == "" {
		dst.ProfileURL = src.ProfileURL
	}
}
