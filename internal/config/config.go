// SPDX-License-Identifier: MIT

// Package config provides configuration management for playcore. The engine
// section is a nested object keyed by engine name; recognized keys are
// parsed and everything else passes through untouched to the underlying
// engine.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root YAML configuration.
type Config struct {
	LogLevel string `yaml:"logLevel,omitempty"`

	// Listen is the daemon's HTTP bind address.
	Listen string `yaml:"listen,omitempty"`

	Engines EnginesConfig `yaml:"engines,omitempty"`

	// Props is a property batch the daemon applies at startup and on
	// config reload.
	Props PropsConfig `yaml:"props,omitempty"`
}

// EnginesConfig holds one section per engine variant.
type EnginesConfig struct {
	Basic EngineConfig `yaml:"basic,omitempty"`
	HLS   EngineConfig `yaml:"hls,omitempty"`
	DASH  EngineConfig `yaml:"dash,omitempty"`
	MSS   EngineConfig `yaml:"mss,omitempty"`
}

// EngineConfig carries the recognized per-engine keys plus an opaque
// passthrough for engine-native options.
type EngineConfig struct {
	// LiveEdgeMargin is the live-edge proximity margin in seconds.
	LiveEdgeMargin *float64 `yaml:"liveEdgeMargin,omitempty"`

	// PauseUpdateInterval is the paused-DVR recheck period, e.g. "5s".
	PauseUpdateInterval string `yaml:"pauseUpdateInterval,omitempty"`

	// DriftCorrectionOffset is the forward jump in seconds applied when
	// the paused playhead falls out of the DVR window.
	DriftCorrectionOffset *float64 `yaml:"driftCorrectionOffset,omitempty"`

	// ManualBitrateStrategy selects how a fixed bitrate switches, e.g.
	// "smooth" or "instant". Interpreted by the engine.
	ManualBitrateStrategy string `yaml:"manualBitrateSwitchStrategy,omitempty"`

	// Native collects every unrecognized key untouched.
	Native map[string]any `yaml:",inline"`
}

// PropsConfig is the YAML shape of a startup property batch.
type PropsConfig struct {
	IsPaused   *bool    `yaml:"isPaused,omitempty"`
	Volume     *float64 `yaml:"volume,omitempty"`
	IsMuted    *bool    `yaml:"isMuted,omitempty"`
	MaxBitrate *float64 `yaml:"maxBitrate,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Listen:   ":8686",
	}
}

// Load reads and validates a YAML config file. A missing path yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges of the recognized keys.
func (c *Config) Validate() error {
	for name, ec := range map[string]EngineConfig{
		"basic": c.Engines.Basic,
		"hls":   c.Engines.HLS,
		"dash":  c.Engines.DASH,
		"mss":   c.Engines.MSS,
	} {
		if ec.LiveEdgeMargin != nil && *ec.LiveEdgeMargin < 0 {
			return fmt.Errorf("engines.%s.liveEdgeMargin must be non-negative", name)
		}
		if ec.DriftCorrectionOffset != nil && *ec.DriftCorrectionOffset < 0 {
			return fmt.Errorf("engines.%s.driftCorrectionOffset must be non-negative", name)
		}
		if ec.PauseUpdateInterval != "" {
			if _, err := time.ParseDuration(ec.PauseUpdateInterval); err != nil {
				return fmt.Errorf("engines.%s.pauseUpdateInterval: %w", name, err)
			}
		}
	}
	if c.Props.Volume != nil && (*c.Props.Volume < 0 || *c.Props.Volume > 1) {
		return fmt.Errorf("props.volume must be within [0,1]")
	}
	return nil
}

// PauseInterval parses the configured recheck period, returning zero when
// unset so the timeline defaults apply.
func (e EngineConfig) PauseInterval() time.Duration {
	if e.PauseUpdateInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(e.PauseUpdateInterval)
	if err != nil {
		return 0
	}
	return d
}

// ForTechnology returns the section for an engine name. Unknown names yield
// the zero section, meaning library defaults.
func (c *Config) ForTechnology(tech string) EngineConfig {
	switch tech {
	case "basic":
		return c.Engines.Basic
	case "hls":
		return c.Engines.HLS
	case "dash":
		return c.Engines.DASH
	case "mss":
		return c.Engines.MSS
	default:
		return EngineConfig{}
	}
}
