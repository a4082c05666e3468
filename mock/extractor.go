package mock

import "github.com/imagineworking4288/pagebound"

var _ pagebound.ItemExtractor = (*ItemExtractor)(nil)

// ItemExtractor is a mock implementation of pagebound.ItemExtractor.
type ItemExtractor struct {
	ExtractFn func(html, baseURL string) ([]pagebound.Item, error)
}

func (e *ItemExtractor) Extract(html, baseURL string) ([]pagebound.Item, error) {
	return e.ExtractFn(html, baseURL)
}

var _ pagebound.ContactExtractor = (*ContactExtractor)(nil)

// ContactExtractor is a mock implementation of pagebound.ContactExtractor.
type ContactExtractor struct {
	ContactsFn func(html, baseURL string) ([]pagebound.Contact, error)
}

func (e *ContactExtractor) Contacts(html, baseURL string) ([]pagebound.Contact, error) {
	return e.ContactsFn(html, baseURL)
}
