package config

import (
	"fmt"
	"time"
)

// DefaultEstimatorURL is the public surplus lines tax estimator endpoint.
const DefaultEstimatorURL = "https://www.fslso.com/tax-estimator"

const (
	defaultRequestsPerMinute = 6
	defaultTimeout           = "30s"
)

// EstimatorConfig holds the tax estimator endpoint and submission pacing.
type EstimatorConfig struct {
	URL               string `toml:"url"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	Timeout           string `toml:"timeout"`
}

// Merge overwrites non-zero fields from overlay.
func (c *EstimatorConfig) Merge(overlay *EstimatorConfig) {
	if overlay.URL != "" {
		c.URL = overlay.URL
	}
	if overlay.RequestsPerMinute != 0 {
		c.RequestsPerMinute = overlay.RequestsPerMinute
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
}

// Finalize applies defaults and validates the pacing values.
func (c *EstimatorConfig) Finalize() error {
	if c.URL == "" {
		c.URL = DefaultEstimatorURL
	}
	if c.RequestsPerMinute == 0 {
		c.RequestsPerMinute = defaultRequestsPerMinute
	}
	if c.Timeout == "" {
		c.Timeout = defaultTimeout
	}
	if c.RequestsPerMinute < 1 {
		return fmt.Errorf("invalid requests_per_minute: %d", c.RequestsPerMinute)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	return nil
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *EstimatorConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}
