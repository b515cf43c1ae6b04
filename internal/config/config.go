package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultSystems     = 64
	DefaultShards      = 4
	DefaultDt          = 1.0 / 60
	DefaultDuration    = 10.0
	DefaultSampleEvery = 1
)

type Config struct {
	Systems     int     `yaml:"systems"`
	Shards      int     `yaml:"shards"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
}

func DefaultConfig() *Config {
	return &Config{
		Systems:     DefaultSystems,
		Shards:      DefaultShards,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Systems <= 0 {
		return fmt.Errorf("systems must be positive, got %d", c.Systems)
	}
	if c.Shards <= 0 {
		return fmt.Errorf("shards must be positive, got %d", c.Shards)
	}
	if c.Shards > c.Systems {
		return fmt.Errorf("shards (%d) must not exceed systems (%d)", c.Shards, c.Systems)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", c.Duration)
	}
	if c.SampleEvery <= 0 {
		return fmt.Errorf("sample_every must be positive, got %d", c.SampleEvery)
	}
	return nil
}

// Ticks returns the number of whole steps covering the configured
// duration.
func (c *Config) Ticks() int {
	return int(c.Duration / c.Dt)
}
