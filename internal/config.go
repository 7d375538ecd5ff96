package internal

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the engine's policy parameters. The intervention cadence and
// the minimum input length are empirically tuned rather than structurally
// required, so they are configurable instead of hard-coded.
type Config struct {
	// MinInputLength is the minimum trimmed length, in runes, for a
	// submitted input to be recorded. Shorter inputs are noise.
	MinInputLength int `yaml:"min_input_length"`

	// InterventionInterval is the accepted-input count between consolidation
	// offers: an offer fires on every InterventionInterval-th input.
	InterventionInterval int `yaml:"intervention_interval"`

	// OfferDelay defers the consolidation offer so the user sees their own
	// message land first.
	OfferDelay time.Duration `yaml:"offer_delay"`

	// OfferTimeout auto-dismisses an unattended offer.
	OfferTimeout time.Duration `yaml:"offer_timeout"`

	// InputDebounce delays reaction to input changes.
	InputDebounce time.Duration `yaml:"input_debounce"`

	// CaretDebounce delays pill repositioning after caret movement.
	CaretDebounce time.Duration `yaml:"caret_debounce"`

	// PillCooldown is the minimum interval between accepted pill
	// activations.
	PillCooldown time.Duration `yaml:"pill_cooldown"`
}

// DefaultConfig returns the engine's default policy parameters.
func DefaultConfig() Config {
	return Config{
		MinInputLength:       5,
		InterventionInterval: 2,
		OfferDelay:           time.Second,
		OfferTimeout:         10 * time.Second,
		InputDebounce:        300 * time.Millisecond,
		CaretDebounce:        100 * time.Millisecond,
		PillCooldown:         2 * time.Second,
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error; the defaults apply.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects parameter values the engine cannot operate with.
func (c Config) Validate() error {
	if c.MinInputLength < 1 {
		return fmt.Errorf("min_input_length must be at least 1, got %d", c.MinInputLength)
	}
	if c.InterventionInterval < 1 {
		return fmt.Errorf("intervention_interval must be at least 1, got %d", c.InterventionInterval)
	}
	if c.OfferTimeout <= 0 {
		return fmt.Errorf("offer_timeout must be positive, got %s", c.OfferTimeout)
	}
	return nil
}
