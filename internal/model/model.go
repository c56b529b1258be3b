package model

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"TiltBoard/internal/domain/models"
)

// Signal declares one macro signal: its provider symbol and an optional unit
// scale applied to raw quotes (e.g., ^TNX quotes the 10Y yield x10).
type Signal struct {
	Name   string  `yaml:"name" validate:"required"`
	Symbol string  `yaml:"symbol" validate:"required"`
	Scale  float64 `yaml:"scale"`
}

// UnitScale returns the quote multiplier, defaulting to 1.
func (s Signal) UnitScale() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

// Horizon is one forward-looking window over which a cumulative return range
// is quoted.
type Horizon struct {
	Key   string `yaml:"key" validate:"required"`
	Label string `yaml:"label" validate:"required"`
}

// Etf carries the hand-authored priors for one ETF: conservative base ranges
// per horizon and per-signal tilt sensitivities.
type Etf struct {
	Ticker        string                  `yaml:"ticker" validate:"required"`
	Symbol        string                  `yaml:"symbol" validate:"required"`
	Name          string                  `yaml:"name" validate:"required"`
	Category      string                  `yaml:"category"`
	Base          map[string]models.Range `yaml:"base" validate:"required"`
	Sensitivities map[string]float64      `yaml:"sensitivities" validate:"required"`
}

// Tables is the full authored model: signal universe, horizons, and ETFs.
// These values are configuration to be supplied, never inferred.
type Tables struct {
	Signals  []Signal  `yaml:"signals" validate:"required,min=1,dive"`
	Horizons []Horizon `yaml:"horizons" validate:"required,min=1,dive"`
	Etfs     []Etf     `yaml:"etfs" validate:"required,min=1,dive"`
}

var validate = validator.New()

// Load reads and validates the model tables from a YAML file.
func Load(path string) (*Tables, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return Parse(b)
}

// Parse parses and validates model tables from YAML bytes.
func Parse(b []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse model: %w", err)
	}
	if err := validate.Struct(&t); err != nil {
		return nil, fmt.Errorf("validate model: %w", err)
	}
	if err := t.check(); err != nil {
		return nil, fmt.Errorf("validate model: %w", err)
	}
	return &t, nil
}

// check enforces the cross-field invariants the struct tags cannot express.
func (t *Tables) check() error {
	signals := make(map[string]bool, len(t.Signals))
	for _, s := range t.Signals {
		if signals[s.Name] {
			return fmt.Errorf("duplicate signal %q", s.Name)
		}
		signals[s.Name] = true
	}

	horizons := make(map[string]bool, len(t.Horizons))
	for _, h := range t.Horizons {
		if horizons[h.Key] {
			return fmt.Errorf("duplicate horizon %q", h.Key)
		}
		horizons[h.Key] = true
	}

	for _, e := range t.Etfs {
		for _, h := range t.Horizons {
			rng, ok := e.Base[h.Key]
			if !ok {
				return fmt.Errorf("etf %s: missing base range for horizon %q", e.Ticker, h.Key)
			}
			if rng.Low > rng.High {
				return fmt.Errorf("etf %s: horizon %q: low %v > high %v", e.Ticker, h.Key, rng.Low, rng.High)
			}
		}
		for hz := range e.Base {
			if !horizons[hz] {
				return fmt.Errorf("etf %s: base range for undeclared horizon %q", e.Ticker, hz)
			}
		}
		for sig := range e.Sensitivities {
			if !signals[sig] {
				return fmt.Errorf("etf %s: sensitivity for undeclared signal %q", e.Ticker, sig)
			}
		}
	}
	return nil
}

// SignalByName returns the declared signal, if any.
func (t *Tables) SignalByName(name string) (Signal, bool) {
	for _, s := range t.Signals {
		if s.Name == name {
			return s, true
		}
	}
	return Signal{}, false
}

// EtfSymbol resolves the provider symbol for an ETF, honoring overrides.
func (t *Tables) EtfSymbol(e Etf, overrides map[string]string) string {
	if sym, ok := overrides[e.Ticker]; ok && sym != "" {
		return sym
	}
	return e.Symbol
}

// AllSymbols returns every provider symbol the model needs, ETFs first, with
// per-ETF overrides applied. Order is stable and duplicates removed.
func (t *Tables) AllSymbols(overrides map[string]string) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(t.Etfs)+len(t.Signals))
	for _, e := range t.Etfs {
		sym := t.EtfSymbol(e, overrides)
		if !seen[sym] {
			seen[sym] = true
			out = append(out, sym)
		}
	}
	for _, s := range t.Signals {
		if !seen[s.Symbol] {
			seen[s.Symbol] = true
			out = append(out, s.Symbol)
		}
	}
	return out
}
