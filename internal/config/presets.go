package config

import "sort"

var Presets = map[string]*Config{
	"default": DefaultConfig(),
	"gentle": {
		Length: 2.0, Mass: 30, DragCoeff: 0.1, AngleDegrees: 15, WindForce: 1.0,
		Dt: 0.01, Duration: 120, RestMode: "accumulating", Integrator: "semi-implicit",
	},
	"high_push": {
		Length: 3.0, Mass: 40, DragCoeff: 0.1, AngleDegrees: 85, WindForce: 1.0,
		Dt: 0.01, Duration: 300, RestMode: "accumulating", Integrator: "semi-implicit",
	},
	"stormy": {
		Length: 2.0, Mass: 30, DragCoeff: 2.0, AngleDegrees: 60, WindForce: 100,
		Dt: 0.01, Duration: 600, RestMode: "accumulating", Integrator: "semi-implicit",
	},
	"heavy_drag": {
		Length: 2.0, Mass: 30, DragCoeff: 1e4, AngleDegrees: 45, WindForce: 100,
		Dt: 0.01, Duration: 600, RestMode: "accumulating", Integrator: "semi-implicit",
	},
	"vacuum": {
		Length: 2.0, Mass: 30, DragCoeff: 0, AngleDegrees: 45, WindForce: 0,
		Dt: 0.01, Duration: 60, RestMode: "accumulating", Integrator: "semi-implicit",
	},
}

// GetPreset returns a copy so callers can override fields freely.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
