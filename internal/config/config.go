// Package config loads the operator-editable settings: output directory,
// producer templates, estimator endpoint and the watcher inbox.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvSurplusEnv       = "SURPLUS_ENV"
	EnvSurplusOutputDir = "SURPLUS_OUTPUT_DIR"
	EnvSurplusInbox     = "SURPLUS_INBOX"
	EnvSurplusTemplate  = "SURPLUS_STAMP_TEMPLATE"
	EnvSurplusPdftotext = "SURPLUS_PDFTOTEXT"
)

// Config is the root configuration for the stamping pipeline.
type Config struct {
	OutputDir     string          `toml:"output_dir"`
	Inbox         string          `toml:"inbox"`
	StampTemplate string          `toml:"stamp_template"`
	PDFToText     string          `toml:"pdftotext"`
	Estimator     EstimatorConfig `toml:"estimator"`
	Producers     []Producer      `toml:"producer"`
}

// Env returns the SURPLUS_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvSurplusEnv); env != "" {
		return env
	}
	return "local"
}

// Load reads the config at path (BaseConfigFile when empty, if present),
// applies any environment overlay, and finalizes all values. With no config
// file, defaults and environment variables provide all configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		path = BaseConfigFile
	}

	cfg := &Config{}
	if _, err := os.Stat(path); err == nil {
		loaded, err := load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if overlay := overlayPath(); overlay != "" {
		loaded, err := load(overlay)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", overlay, err)
		}
		cfg.Merge(loaded)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
// Overlay producers replace the base list wholesale.
func (c *Config) Merge(overlay *Config) {
	if overlay.OutputDir != "" {
		c.OutputDir = overlay.OutputDir
	}
	if overlay.Inbox != "" {
		c.Inbox = overlay.Inbox
	}
	if overlay.StampTemplate != "" {
		c.StampTemplate = overlay.StampTemplate
	}
	if overlay.PDFToText != "" {
		c.PDFToText = overlay.PDFToText
	}
	if len(overlay.Producers) > 0 {
		c.Producers = overlay.Producers
	}
	c.Estimator.Merge(&overlay.Estimator)
}

// Save writes the configuration back to path, preserving operator edits made
// through the CLI (output directory, producer templates).
func (c *Config) Save(path string) error {
	if path == "" {
		path = BaseConfigFile
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Estimator.Finalize(); err != nil {
		return fmt.Errorf("estimator: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.PDFToText == "" {
		c.PDFToText = "pdftotext"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvSurplusOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvSurplusInbox); v != "" {
		c.Inbox = v
	}
	if v := os.Getenv(EnvSurplusTemplate); v != "" {
		c.StampTemplate = v
	}
	if v := os.Getenv(EnvSurplusPdftotext); v != "" {
		c.PDFToText = v
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Producers))
	for _, producer := range c.Producers {
		if producer.Name == "" {
			return fmt.Errorf("%w: unnamed producer template", ErrInvalidProducer)
		}
		if seen[producer.Name] {
			return fmt.Errorf("%w: %q", ErrDuplicateProducer, producer.Name)
		}
		seen[producer.Name] = true
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvSurplusEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
