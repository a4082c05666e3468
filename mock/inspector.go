package mock

import "github.com/imagineworking4288/pagebound"

var _ pagebound.ControlInspector = (*ControlInspector)(nil)

// ControlInspector is a mock implementation of pagebound.ControlInspector.
type ControlInspector struct {
	InspectFn func(html, baseURL string) (*pagebound.VisualControls, error)
}

func (i *ControlInspector) Inspect(html, baseURL string) (*pagebound.VisualControls, error) {
	return i.InspectFn(html, baseURL)
}

var _ pagebound.ScrollInspector = (*ScrollInspector)(nil)

// ScrollInspector is a mock implementation of pagebound.ScrollInspector.
type ScrollInspector struct {
	SignalsFn func(html string) (*pagebound.ScrollSignals, error)
}

func (i *ScrollInspector) Signals(html string) (*pagebound.ScrollSignals, error) {
	return i.SignalsFn(html)
}
