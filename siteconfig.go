package pagebound

// Discovery and scraping defaults, overridable per run and per domain.
const (
	DefaultMinContent = 1
	DefaultHardCap    = 500
	DefaultDelayMinMS = 2000
	DefaultDelayMaxMS = 5000
)

// SiteConfig carries operator-supplied settings: global limits plus
// manual pagination patterns for domains where detection is known to
// fail or known to be unnecessary.
type SiteConfig struct {
	MinContent int `yaml:"minContent"`
	HardCap    int `yaml:"hardCap"`
	DelayMinMS int `yaml:"delayMinMs"`
	DelayMaxMS int `yaml:"delayMaxMs"`

	// Domains maps domain keys (see DomainKey) to manual patterns.
	Domains map[string]DomainConfig `yaml:"domains"`
}

// DomainConfig is a manual pagination pattern for one domain.
type DomainConfig struct {
	Kind         Kind   `yaml:"kind"`
	Param        string `yaml:"param,omitempty"`
	URLPattern   string `yaml:"urlPattern,omitempty"`
	ItemsPerPage int    `yaml:"itemsPerPage,omitempty"`
	MaxPageHint  int    `yaml:"maxPageHint,omitempty"`
	MinContent   int    `yaml:"minContent,omitempty"`
	HardCap      int    `yaml:"hardCap,omitempty"`
}

// Pattern builds a validated manual pattern rooted at baseURL.
func (dc *DomainConfig) Pattern(baseURL string) (*Pattern, error) {
	p := &Pattern{
		Kind:         dc.Kind,
		ParamName:    dc.Param,
		URLPattern:   dc.URLPattern,
		ItemsPerPage: dc.ItemsPerPage,
		BaseURL:      baseURL,
		MaxPageHint:  dc.MaxPageHint,
		Method:       MethodManual,
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Domain returns the manual config for a URL's domain, if present.
// A nil config never matches.
func (sc *SiteConfig) Domain(rawURL string) (DomainConfig, bool) {
	if sc == nil || len(sc.Domains) == 0 {
		return DomainConfig{}, false
	}
	key, err := DomainKey(rawURL)
	if err != nil {
		return DomainConfig{}, false
	}
	dc, ok := sc.Domains[key]
	return dc, ok
}
