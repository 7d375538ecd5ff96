package internal

import (
	"testing"
	"time"

	"github.com/solthron/autopilot/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MinInputLength != 5 {
		t.Errorf("MinInputLength = %d, want 5", cfg.MinInputLength)
	}
	if cfg.InterventionInterval != 2 {
		t.Errorf("InterventionInterval = %d, want 2", cfg.InterventionInterval)
	}
	if cfg.OfferDelay != time.Second {
		t.Errorf("OfferDelay = %v, want 1s", cfg.OfferDelay)
	}
	if cfg.OfferTimeout != 10*time.Second {
		t.Errorf("OfferTimeout = %v, want 10s", cfg.OfferTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Error("missing file did not yield defaults")
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", `
min_input_length: 10
intervention_interval: 3
offer_timeout: 30s
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.MinInputLength != 10 {
		t.Errorf("MinInputLength = %d, want 10", cfg.MinInputLength)
	}
	if cfg.InterventionInterval != 3 {
		t.Errorf("InterventionInterval = %d, want 3", cfg.InterventionInterval)
	}
	if cfg.OfferTimeout != 30*time.Second {
		t.Errorf("OfferTimeout = %v, want 30s", cfg.OfferTimeout)
	}
	// Untouched fields keep their defaults.
	if cfg.OfferDelay != time.Second {
		t.Errorf("OfferDelay = %v, want default 1s", cfg.OfferDelay)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", "intervention_interval: 0\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() accepted a zero intervention interval")
	}
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := testutil.WriteFile(t, dir, "config.yaml", "{not yaml")

	if _, err := LoadConfig(path); err == nil {
		t.Error("LoadConfig() accepted malformed YAML")
	}
}
