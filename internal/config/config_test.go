package config_test

import (
	"testing"
	"time"

	"github.com/gdcf-go/gdcf/internal/config"
)

func TestDecodeAppliesDefaultsForOmittedKeys(t *testing.T) {
	cfg, err := config.Decode(map[string]any{})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg != config.Defaults() {
		t.Fatalf("Decode({}) = %+v, want Defaults()", cfg)
	}
}

func TestDecodeOverridesProvidedKeys(t *testing.T) {
	cfg, err := config.Decode(map[string]any{
		"ttl":                  "10m",
		"entry_fetch_rate":     2.5,
		"entry_fetch_max_burst": 20,
		"warn_on_integrity_gap": true,
	})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if cfg.TTL != "10m" || cfg.EntryFetchRate != 2.5 || cfg.EntryFetchMaxBurst != 20 || !cfg.WarnOnIntegrityGap {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := config.Decode(map[string]any{"ttl": "1h", "bogus_key": "x"})
	if err == nil {
		t.Fatalf("expected an error for an unrecognized key")
	}
}

func TestDurationsParsesEveryField(t *testing.T) {
	cfg := config.Defaults()
	cfg.TTL = "1h"
	cfg.LevelFreshFor = "30s"
	cfg.LevelsFreshFor = "45s"
	cfg.UserFreshFor = "2m"

	ttl, level, levels, user, err := cfg.Durations()
	if err != nil {
		t.Fatalf("Durations: %v", err)
	}
	if ttl != time.Hour || level != 30*time.Second || levels != 45*time.Second || user != 2*time.Minute {
		t.Fatalf("unexpected durations: ttl=%v level=%v levels=%v user=%v", ttl, level, levels, user)
	}
}

func TestDurationsRejectsUnparsableField(t *testing.T) {
	cfg := config.Defaults()
	cfg.TTL = "not-a-duration"

	if _, _, _, _, err := cfg.Durations(); err == nil {
		t.Fatalf("expected an error for an unparsable duration")
	}
}
