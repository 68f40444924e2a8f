package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/trojansim/internal/orbit"
	"github.com/san-kum/trojansim/internal/sim"
)

const (
	DefaultIntegrator   = "euler"
	DefaultDt           = sim.Day
	DefaultMargin       = 10.0
	DefaultHorizonYears = 1e6
	DefaultEpsilon      = orbit.DefaultEpsilon
)

// Config is the run configuration read from YAML and overridden by CLI
// flags. Dt and Epsilon are in SI units; the horizon is in years because
// that is how run lengths are quoted everywhere else.
type Config struct {
	Integrator   string  `yaml:"integrator"`
	Dt           float64 `yaml:"dt"`
	Margin       float64 `yaml:"margin"`
	HorizonYears float64 `yaml:"horizon_years"`
	Epsilon      float64 `yaml:"epsilon"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator:   DefaultIntegrator,
		Dt:           DefaultDt,
		Margin:       DefaultMargin,
		HorizonYears: DefaultHorizonYears,
		Epsilon:      DefaultEpsilon,
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

// RunConfig translates the user-facing values into the driver's terms.
func (c *Config) RunConfig() sim.Config {
	return sim.Config{
		Dt:               c.Dt,
		Horizon:          c.HorizonYears * sim.Year,
		Margin:           c.Margin,
		SampleInterval:   sim.Year,
		ProgressInterval: 1000 * sim.Year,
	}
}
