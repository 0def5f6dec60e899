package config

import (
	"errors"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the rcl configuration. Every field has a sane zero-value
// default, so a missing config.yaml is equivalent to Default().
type Config struct {
	// UI holds display/layout preferences for the search TUI.
	UI UIConfig `yaml:"ui"`

	// Weights selects one of the build-time-fixed scoring presets by name.
	// The scoring function's actual weight vector can never be set here to
	// an arbitrary value: rank.Resolve maps the name to a compiled-in preset
	// and falls back to "default" for an unknown name.
	Weights string `yaml:"weights"`

	// Excludes lists additional literal commands never recorded by add-mode,
	// appended to the built-in exclusion set.
	Excludes []string `yaml:"excludes"`
}

// UIConfig holds picker display defaults, overridable per-invocation by CLI flags.
type UIConfig struct {
	Bottom bool `yaml:"bottom"` // draw prompt/results from the bottom of the screen
	Light  bool `yaml:"light"`  // use a light-background-friendly palette
}

// Default returns the zero-configuration defaults.
func Default() *Config {
	return &Config{
		Weights: "default",
	}
}

// Load reads config.yaml from the given path. A missing file is not an
// error: Default() is returned instead.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Weights) == "" {
		cfg.Weights = "default"
	}
	return cfg, nil
}
