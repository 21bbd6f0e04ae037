package config

import (
	"sort"

	"github.com/san-kum/verletsim/internal/dynamo"
)

var Presets = map[string]*Config{
	"reference": {
		Particles: 2000, Radius: 1, Gravity: -2.5, Scale: 100, Epsilon: dynamo.DefaultEpsilon, FPS: 60, Ticks: 600,
		Layout: "uniform", Viewport: ViewportConf{Width: 800, Height: 600}, CheckNaN: true,
	},
	"sparse": {
		Particles: 200, Radius: 1, Gravity: -2.5, Scale: 100, Epsilon: dynamo.DefaultEpsilon, FPS: 60, Ticks: 600,
		Layout: "uniform", Viewport: ViewportConf{Width: 800, Height: 600}, CheckNaN: true,
	},
	"column": {
		Particles: 500, Radius: 1, Gravity: -2.5, Scale: 100, Epsilon: dynamo.DefaultEpsilon, FPS: 60, Ticks: 900,
		Layout: "column", Viewport: ViewportConf{Width: 800, Height: 600}, CheckNaN: true,
	},
	"lattice": {
		Particles: 1000, Radius: 1, Gravity: -2.5, Scale: 100, Epsilon: dynamo.DefaultEpsilon, FPS: 60, Ticks: 600,
		Layout: "grid", Viewport: ViewportConf{Width: 800, Height: 600}, CheckNaN: true,
	},
	"heavy": {
		Particles: 1000, Radius: 1, Gravity: -25, Scale: 100, Epsilon: dynamo.DefaultEpsilon, FPS: 60, Ticks: 600,
		Layout: "uniform", Viewport: ViewportConf{Width: 800, Height: 600}, CheckNaN: true,
	},
	"faithful": {
		Particles: 2000, Radius: 1, Gravity: -2.5, Scale: 100, Epsilon: 0, FPS: 60, Ticks: 600,
		Layout: "uniform", Viewport: ViewportConf{Width: 800, Height: 600}, CheckNaN: true,
	},
}

// GetPreset returns a copy of the named preset, or nil.
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
