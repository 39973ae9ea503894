package automation

import (
	"context"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/swingsim/internal/config"
	"github.com/san-kum/swingsim/internal/metrics"
	"github.com/san-kum/swingsim/internal/sim"
	"github.com/san-kum/swingsim/internal/storage"
)

// Scenario is a named batch of runs read from YAML.
type Scenario struct {
	Name        string        `yaml:"name"`
	Description string        `yaml:"description"`
	Runs        []ScenarioRun `yaml:"runs"`
}

// ScenarioRun starts from a preset (default when empty) and overrides
// individual fields. Param keys match the config YAML keys.
type ScenarioRun struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	RestMode   string             `yaml:"rest_mode"`
	Integrator string             `yaml:"integrator"`
	Params     map[string]float64 `yaml:"params"`
}

type RunResult struct {
	Name   string
	RunID  string
	Series *sim.TimeSeries
	Err    error
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Runs) == 0 {
		return nil, fmt.Errorf("scenario %s has no runs", path)
	}
	return &scenario, nil
}

// Config resolves the preset and applies the overrides.
func (r ScenarioRun) Config() (*config.Config, error) {
	preset := r.Preset
	if preset == "" {
		preset = "default"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if r.RestMode != "" {
		cfg.RestMode = r.RestMode
	}
	if r.Integrator != "" {
		cfg.Integrator = r.Integrator
	}

	for k, v := range r.Params {
		switch k {
		case "length":
			cfg.Length = v
		case "mass":
			cfg.Mass = v
		case "drag_coeff":
			cfg.DragCoeff = v
		case "angle_degrees":
			cfg.AngleDegrees = v
		case "initial_velocity":
			cfg.InitialVelocity = v
		case "wind_force":
			cfg.WindForce = v
		case "dt":
			cfg.Dt = v
		case "duration":
			cfg.Duration = v
		default:
			return nil, fmt.Errorf("unknown param: %s", k)
		}
	}
	return cfg, nil
}

// RunScenario executes every run in order and saves each success to store
// when store is non-nil. A failing run is logged and recorded in its result;
// the batch carries on. Cancellation stops before the next run.
func RunScenario(ctx context.Context, scenario *Scenario, store *storage.Store) ([]RunResult, error) {
	results := make([]RunResult, 0, len(scenario.Runs))

	for i, run := range scenario.Runs {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		name := run.Name
		if name == "" {
			name = fmt.Sprintf("%s#%d", scenario.Name, i+1)
		}
		res := RunResult{Name: name}

		ts, cfg, err := execute(run)
		if err != nil {
			log.Printf("scenario %s: run %s failed: %v", scenario.Name, name, err)
			res.Err = err
			results = append(results, res)
			continue
		}
		res.Series = ts

		if store != nil {
			id, err := store.Save(ts, storage.RunInfo{Label: name, RestMode: cfg.RestMode, Integrator: cfg.Integrator})
			if err != nil {
				return results, fmt.Errorf("save %s: %w", name, err)
			}
			res.RunID = id
		}
		results = append(results, res)
	}

	return results, nil
}

func execute(run ScenarioRun) (*sim.TimeSeries, *config.Config, error) {
	cfg, err := run.Config()
	if err != nil {
		return nil, nil, err
	}
	opts, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}

	p := cfg.Parameters()
	opts = append(opts, sim.WithMetrics(metrics.Standard(p.Swing())...))

	ts, err := sim.Simulate(p, opts...)
	if err != nil {
		return nil, nil, err
	}
	return ts, cfg, nil
}
