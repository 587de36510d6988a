package config

import "sort"

// Presets are compiled-in parameter sets for classroom scenarios.
var presets = map[string]map[string]*Config{
	"pendulum": {
		"classroom": {
			Simulation: "pendulum",
			Dt:         DefaultDt,
			Duration:   30,
			Params:     map[string]float64{"length": 1.0, "theta0": 0.349, "gravity": 9.81, "damping": 0.2},
		},
		"slow-decay": {
			Simulation: "pendulum",
			Dt:         DefaultDt,
			Duration:   60,
			Params:     map[string]float64{"length": 1.5, "theta0": 0.5, "gravity": 9.81, "damping": 0.05},
		},
		"overdamped": {
			// Demonstrates the non-oscillatory regime: the viewport holds
			// the release angle and the clock stops.
			Simulation: "pendulum",
			Dt:         DefaultDt,
			Duration:   10,
			Params:     map[string]float64{"length": 0.2, "theta0": 0.4, "gravity": 1.0, "damping": 4.0},
		},
	},
	"projectile": {
		"classroom": {
			Simulation: "projectile",
			Dt:         DefaultDt,
			Duration:   10,
			Params:     map[string]float64{"speed": 20, "angle": 45, "gravity": 9.81},
		},
		"high-arc": {
			Simulation: "projectile",
			Dt:         DefaultDt,
			Duration:   15,
			Params:     map[string]float64{"speed": 30, "angle": 75, "gravity": 9.81},
		},
		"lunar": {
			Simulation: "projectile",
			Dt:         DefaultDt,
			Duration:   40,
			Params:     map[string]float64{"speed": 15, "angle": 45, "gravity": 1.62},
		},
	},
	"titration": {
		"classroom": {
			Simulation: "titration",
			Dt:         DefaultDt,
			Duration:   120,
			Params:     map[string]float64{"acid_conc": 0.1, "acid_vol": 25, "titrant_conc": 0.1, "flow_rate": 0.5},
		},
		"dilute": {
			Simulation: "titration",
			Dt:         DefaultDt,
			Duration:   120,
			Params:     map[string]float64{"acid_conc": 0.01, "acid_vol": 25, "titrant_conc": 0.01, "flow_rate": 0.5},
		},
		"fast-flow": {
			Simulation: "titration",
			Dt:         DefaultDt,
			Duration:   40,
			Params:     map[string]float64{"acid_conc": 0.1, "acid_vol": 25, "titrant_conc": 0.1, "flow_rate": 2.0},
		},
	},
}

// GetPreset returns a named preset for a simulation, or nil.
func GetPreset(simulation, name string) *Config {
	group, ok := presets[simulation]
	if !ok {
		return nil
	}
	cfg, ok := group[name]
	if !ok {
		return nil
	}
	// Copy so callers can mutate freely.
	out := *cfg
	out.Params = make(map[string]float64, len(cfg.Params))
	for k, v := range cfg.Params {
		out.Params[k] = v
	}
	if out.FrameRate == 0 {
		out.FrameRate = DefaultFrameRate
	}
	return &out
}

// ListPresets returns the preset names for a simulation, sorted.
func ListPresets(simulation string) []string {
	group, ok := presets[simulation]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
