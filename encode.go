package rebalance

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCurrency is used when the configuration does not declare one.
const DefaultCurrency = "USD"

// Config is the static configuration of a run.
type Config struct {
	Currency  string
	Rounding  Rounding
	Targets   *Targets
	Selectors Selectors
}

// configFile is the on disk representation of Config. JSON files are
// accepted as well since JSON is valid YAML.
type configFile struct {
	Currency  string       `yaml:"currency,omitempty"`
	Rounding  string       `yaml:"rounding,omitempty"`
	Targets   []AssetClass `yaml:"targets"`
	Selectors Selectors    `yaml:"selectors,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Currency:  DefaultCurrency,
		Rounding:  Fractional,
		Targets:   DefaultTargets(),
		Selectors: DefaultSelectors(),
	}
}

// LoadConfig reads the configuration file at path, or returns the default
// configuration if path is empty.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes a configuration. Missing parts fall back to the
// defaults. The allocation sum is not checked here, see Validate.
func DecodeConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f configFile
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg := DefaultConfig()
	if f.Currency != "" {
		cfg.Currency = strings.ToUpper(f.Currency)
	}
	rounding, err := ParseRounding(f.Rounding)
	if err != nil {
		return nil, err
	}
	cfg.Rounding = rounding
	cfg.Selectors = f.Selectors.withDefaults()

	if len(f.Targets) > 0 {
		if err := checkClasses(f.Targets); err != nil {
			return nil, err
		}
		cfg.Targets = NewTargets(f.Targets...)
	}
	return cfg, nil
}

// checkClasses rejects rows that cannot be used to trade.
func checkClasses(classes []AssetClass) error {
	seen := make(map[string]bool)
	for i, c := range classes {
		switch {
		case c.Category == "":
			return &ConfigError{Reason: fmt.Sprintf("target #%d has no category", i+1)}
		case c.Primary == "":
			return &ConfigError{Reason: fmt.Sprintf("target %q has no primary symbol", c.Category)}
		case math.IsNaN(c.Allocation) || c.Allocation <= 0 || c.Allocation > 1:
			return &ConfigError{Reason: fmt.Sprintf("target %q allocation %v is not in (0, 1]", c.Category, c.Allocation)}
		case seen[c.Category]:
			return &ConfigError{Reason: fmt.Sprintf("duplicate target %q", c.Category)}
		}
		seen[c.Category] = true
	}
	return nil
}

// EncodeTargets writes t in the configuration file format.
func EncodeTargets(w io.Writer, t *Targets) error {
	f := configFile{Targets: t.classes}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return err
	}
	return enc.Close()
}
