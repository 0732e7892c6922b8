package config

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownProducer indicates no producer template matches the
	// requested name.
	ErrUnknownProducer = errors.New("producer template not found")

	// ErrDuplicateProducer indicates two producer templates share a name.
	ErrDuplicateProducer = errors.New("duplicate producer template name")

	// ErrInvalidProducer indicates a malformed producer template.
	ErrInvalidProducer = errors.New("invalid producer template")
)

// Producer is one producing-agent template printed onto stamp pages.
type Producer struct {
	Name         string `toml:"name"`
	AgentName    string `toml:"agent_name"`
	Address      string `toml:"address"`
	CityStateZip string `toml:"city_state_zip"`
}

// Producer selects a template by name. An empty name resolves only when
// exactly one template is configured.
func (c *Config) Producer(name string) (Producer, error) {
	if name == "" {
		if len(c.Producers) == 1 {
			return c.Producers[0], nil
		}
		return Producer{}, fmt.Errorf("%w: %d templates configured, name required", ErrUnknownProducer, len(c.Producers))
	}
	for _, producer := range c.Producers {
		if producer.Name == name {
			return producer, nil
		}
	}
	return Producer{}, fmt.Errorf("%w: %q", ErrUnknownProducer, name)
}
