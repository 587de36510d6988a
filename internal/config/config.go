// Package config loads run configuration from yaml files and ships
// compiled-in presets per simulation. Parameter values pass through the
// models' clamped setters, so an out-of-range or nonsensical value in a
// config file is corrected at this boundary rather than detected later.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/scilab/internal/sim"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 30.0
	DefaultFrameRate = 30
)

type Config struct {
	Simulation string             `yaml:"simulation"`
	Dt         float64            `yaml:"dt"`
	Duration   float64            `yaml:"duration"`
	Params     map[string]float64 `yaml:"params"`
	AutoRotate bool               `yaml:"auto_rotate"`
	Audio      bool               `yaml:"audio"`
	FrameRate  int                `yaml:"frame_rate"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: "pendulum",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		FrameRate:  DefaultFrameRate,
		Params:     map[string]float64{},
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

// ApplyTo pushes the configured parameters into a model through its
// clamped setters. Unknown parameter names are reported, clamped values
// are not.
func (c *Config) ApplyTo(m sim.Model) error {
	for name, v := range c.Params {
		if err := m.SetParam(name, v); err != nil {
			return err
		}
	}
	return nil
}
