package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/verletsim/internal/dynamo"
)

type param struct {
	get func(c *Config) float64
	set func(c *Config, v float64)
}

var params = map[string]param{
	"particles": {func(c *Config) float64 { return float64(c.Particles) }, func(c *Config, v float64) { c.Particles = int(v) }},
	"radius":    {func(c *Config) float64 { return c.Radius }, func(c *Config, v float64) { c.Radius = v }},
	"gravity":   {func(c *Config) float64 { return c.Gravity }, func(c *Config, v float64) { c.Gravity = v }},
	"scale":     {func(c *Config) float64 { return c.Scale }, func(c *Config, v float64) { c.Scale = v }},
	"epsilon":   {func(c *Config) float64 { return c.Epsilon }, func(c *Config, v float64) { c.Epsilon = v }},
	"fps":       {func(c *Config) float64 { return float64(c.FPS) }, func(c *Config, v float64) { c.FPS = int(v) }},
	"ticks":     {func(c *Config) float64 { return float64(c.Ticks) }, func(c *Config, v float64) { c.Ticks = int(v) }},
	"seed":      {func(c *Config) float64 { return float64(c.Seed) }, func(c *Config, v float64) { c.Seed = int64(v) }},
	"width":     {func(c *Config) float64 { return float64(c.Viewport.Width) }, func(c *Config, v float64) { c.Viewport.Width = int(v) }},
	"height":    {func(c *Config) float64 { return float64(c.Viewport.Height) }, func(c *Config, v float64) { c.Viewport.Height = int(v) }},
}

// Param reads a numeric field by its yaml name. Integer fields are
// converted.
func (c *Config) Param(name string) (float64, error) {
	p, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrParameterBounds)
	}
	return p.get(c), nil
}

// SetParam writes a numeric field by its yaml name, truncating for integer
// fields. It does not validate; call Validate afterwards.
func (c *Config) SetParam(name string, v float64) error {
	p, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrParameterBounds)
	}
	p.set(c, v)
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
