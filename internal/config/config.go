// Package config decodes a loosely-typed map (as would come from HCL/JSON
// config file parsing) into the framework's strongly-typed Options, the
// same decode-with-hooks pattern the rest of the hashicorp stack uses for
// turning config files into Go structs.
package config

import (
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config is the user-facing, file-friendly configuration shape. Field names
// use mapstructure tags so they can be written in snake_case in HCL/JSON.
type Config struct {
	TTL                string  `mapstructure:"ttl"`
	EntryFetchRate     float64 `mapstructure:"entry_fetch_rate"`
	EntryFetchMaxBurst int     `mapstructure:"entry_fetch_max_burst"`
	WarnOnIntegrityGap bool    `mapstructure:"warn_on_integrity_gap"`

	LevelFreshFor  string `mapstructure:"level_fresh_for"`
	LevelsFreshFor string `mapstructure:"levels_fresh_for"`
	UserFreshFor   string `mapstructure:"user_fresh_for"`
}

// Defaults returns the Config Decode produces from an empty map,
// useful as a base to override individual fields in tests and examples.
func Defaults() Config {
	return Config{
		TTL:                "1h",
		EntryFetchRate:     1,
		EntryFetchMaxBurst: 5,
		LevelFreshFor:      "30s",
		LevelsFreshFor:     "30s",
		UserFreshFor:       "2m",
	}
}

// Decode populates a Config from a raw map, such as one produced by
// unmarshaling HCL or JSON into map[string]interface{}. Unused keys are
// treated as errors: a typo'd option name should fail loudly rather than be
// silently ignored.
func Decode(raw map[string]any) (Config, error) {
	cfg := Defaults()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &cfg,
		ErrorUnused: true,
		Metadata:    nil,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Durations parses the Config's string duration fields, returning them in
// the order (ttl, levelFreshFor, levelsFreshFor, userFreshFor).
func (c Config) Durations() (ttl, level, levels, user time.Duration, err error) {
	if ttl, err = time.ParseDuration(c.TTL); err != nil {
		return
	}
	if level, err = time.ParseDuration(c.LevelFreshFor); err != nil {
		return
	}
	if levels, err = time.ParseDuration(c.LevelsFreshFor); err != nil {
		return
	}
	if user, err = time.ParseDuration(c.UserFreshFor); err != nil {
		return
	}
	return
}
