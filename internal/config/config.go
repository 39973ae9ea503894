package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/swingsim/internal/integrators"
	"github.com/san-kum/swingsim/internal/sim"
)

// Config is the on-disk description of a run. Angles are in degrees here and
// converted to radians when building sim.Parameters.
type Config struct {
	Length          float64 `yaml:"length"`
	Mass            float64 `yaml:"mass"`
	DragCoeff       float64 `yaml:"drag_coeff"`
	AngleDegrees    float64 `yaml:"angle_degrees"`
	InitialVelocity float64 `yaml:"initial_velocity"`
	WindForce       float64 `yaml:"wind_force"`
	Dt              float64 `yaml:"dt"`
	Duration        float64 `yaml:"duration"`
	RestMode        string  `yaml:"rest_mode"`
	Integrator      string  `yaml:"integrator"`
}

func DefaultConfig() *Config {
	return &Config{
		Length:          sim.DefaultLength,
		Mass:            sim.DefaultMass,
		DragCoeff:       sim.DefaultDragCoeff,
		AngleDegrees:    sim.DefaultAngleDegrees,
		InitialVelocity: 0,
		WindForce:       sim.DefaultWindForce,
		Dt:              sim.DefaultDt,
		Duration:        sim.DefaultDuration,
		RestMode:        sim.RestAccumulating.String(),
		Integrator:      integrators.NewSemiImplicitEuler().Name(),
	}
}

// Load reads a YAML config. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
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

func (c *Config) Form() FormValues {
	return FormValues{
		Length:          c.Length,
		Mass:            c.Mass,
		DragCoeff:       c.DragCoeff,
		AngleDegrees:    c.AngleDegrees,
		InitialVelocity: c.InitialVelocity,
		WindForce:       c.WindForce,
		Dt:              c.Dt,
		Duration:        c.Duration,
	}
}

func (c *Config) Parameters() sim.Parameters {
	return c.Form().Parameters()
}

// Options translates the rest mode and integrator names into engine options.
func (c *Config) Options() ([]sim.Option, error) {
	mode, ok := sim.ParseRestMode(c.RestMode)
	if !ok {
		return nil, fmt.Errorf("unknown rest mode %q", c.RestMode)
	}
	opts := []sim.Option{sim.WithRestMode(mode)}

	if c.Integrator != "" {
		integ, err := integrators.ByName(c.Integrator)
		if err != nil {
			return nil, err
		}
		opts = append(opts, sim.WithIntegrator(integ))
	}
	return opts, nil
}
