// Package yaml loads operator site configuration from YAML files.
package yaml

import (
	"fmt"
	"os"
	"strings"

	"github.com/imagineworking4288/pagebound"
	"gopkg.in/yaml.v3"
)

// Load reads a site config file, applies defaults, and validates the
// manual domain patterns. A missing path returns ENOTFOUND so callers
// can distinguish a typo from a malformed file.
func Load(path string) (*pagebound.SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, pagebound.Errorf(pagebound.ENOTFOUND, "config file not found: %s", path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates site config YAML.
func Parse(data []byte) (*pagebound.SiteConfig, error) {
	var cfg pagebound.SiteConfig

	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, pagebound.Errorf(pagebound.EINVALID, "parse config: %v", err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *pagebound.SiteConfig) {
	if cfg.MinContent <= 0 {
		cfg.MinContent = pagebound.DefaultMinContent
	}
	if cfg.HardCap <= 0 {
		cfg.HardCap = pagebound.DefaultHardCap
	}
	if cfg.DelayMinMS <= 0 {
		cfg.DelayMinMS = pagebound.DefaultDelayMinMS
	}
	if cfg.DelayMaxMS <= 0 {
		cfg.DelayMaxMS = pagebound.DefaultDelayMaxMS
	}
}

func validate(cfg *pagebound.SiteConfig) error {
	if cfg.DelayMaxMS < cfg.DelayMinMS {
		return pagebound.Errorf(pagebound.EINVALID, "delayMaxMs %d is below delayMinMs %d", cfg.DelayMaxMS, cfg.DelayMinMS)
	}

	// Domain keys are canonical hosts, never full URLs.
	for key, dc := range cfg.Domains {
		if strings.Contains(key, "://") || strings.ContainsAny(key, "/?") {
			return pagebound.Errorf(pagebound.EINVALID, "domain key %q must be a bare host like example.com", key)
		}
		// Build against a placeholder base URL: manual patterns get
		// their real base at discovery time.
		if _, err := dc.Pattern("https://" + key); err != nil {
			return pagebound.Errorf(pagebound.EINVALID, "domain %q: %v", key, pagebound.ErrorMessage(err))
		}
	}
	return nil
}
