// Package config holds the engine options and their YAML loading.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gridwise/pipetrace/pkg/pipetrace/internalerr"
)

// Config controls the topology discovery passes.
type Config struct {
	// TouchTolerance is the distance below which two segment endpoints are
	// considered coincident.
	TouchTolerance float64 `yaml:"touch_tolerance"`

	// AngleDistinct is the slope-angle difference in degrees above which two
	// segments at a shared point run in distinct directions. At or below it
	// they are treated as collinear (duplicates at junction candidates,
	// merge candidates during simplification).
	AngleDistinct float64 `yaml:"angle_distinct"`

	// SimplifyChains merges collinear runs into a single straight span
	// while a chain is built.
	SimplifyChains bool `yaml:"simplify_chains"`

	// JoinDifferentAttrs disables adapter insertion: chains continue through
	// attribute changes and keep the attribute of their first segment.
	JoinDifferentAttrs bool `yaml:"join_different_attrs"`

	// AttachmentTolerance is the snap distance for producer/consumer
	// attachments. Zero falls back to TouchTolerance.
	AttachmentTolerance float64 `yaml:"attachment_tolerance"`

	// AttributeKey names the input feature property carrying the size class.
	AttributeKey string `yaml:"attribute_key"`
}

// Default returns the configuration the engine was tuned with.
func Default() Config {
	return Config{
		TouchTolerance:      0.02,
		AngleDistinct:       5,
		SimplifyChains:      true,
		JoinDifferentAttrs:  false,
		AttachmentTolerance: 0.02,
		AttributeKey:        "diameter",
	}
}

// Load reads a YAML configuration file. Absent fields keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects option values the passes cannot work with.
func (c Config) Validate() error {
	if c.TouchTolerance <= 0 {
		return fmt.Errorf("%w: touch_tolerance must be positive", internalerr.ErrInvalidConfig)
	}
	if c.AngleDistinct < 0 {
		return fmt.Errorf("%w: angle_distinct must not be negative", internalerr.ErrInvalidConfig)
	}
	if c.AttachmentTolerance < 0 {
		return fmt.Errorf("%w: attachment_tolerance must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// SnapTolerance returns the effective attachment snap distance.
func (c Config) SnapTolerance() float64 {
	if c.AttachmentTolerance > 0 {
		return c.AttachmentTolerance
	}
	return c.TouchTolerance
}
