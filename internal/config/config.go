package config

import (
	"fmt"
	"os"

	"github.com/san-kum/verletsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTicks  = 600
	DefaultLayout = "uniform"
)

type Config struct {
	Particles int          `yaml:"particles"`
	Radius    float64      `yaml:"radius"`
	Gravity   float64      `yaml:"gravity"`
	Scale     float64      `yaml:"scale"`
	Epsilon   float64      `yaml:"epsilon"`
	FPS       int          `yaml:"fps"`
	Ticks     int          `yaml:"ticks"`
	Seed      int64        `yaml:"seed"`
	Layout    string       `yaml:"layout"`
	Viewport  ViewportConf `yaml:"viewport"`
	CheckNaN  bool         `yaml:"check_nan"`
}

type ViewportConf struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Particles: dynamo.DefaultParticles,
		Radius:    dynamo.DefaultRadius,
		Gravity:   dynamo.DefaultGravity,
		Scale:     dynamo.DefaultScale,
		Epsilon:   dynamo.DefaultEpsilon,
		FPS:       dynamo.DefaultFPS,
		Ticks:     DefaultTicks,
		Layout:    DefaultLayout,
		Viewport: ViewportConf{
			Width:  dynamo.DefaultWidth,
			Height: dynamo.DefaultHeight,
		},
		CheckNaN: true,
	}
}

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

// Dt is the fixed tick duration.
func (c *Config) Dt() float64 {
	if c.FPS <= 0 {
		return 0
	}
	return 1.0 / float64(c.FPS)
}

func (c *Config) Validate() error {
	switch {
	case c.Particles < 0:
		return fmt.Errorf("particles must be non-negative, got %d: %w", c.Particles, dynamo.ErrParameterBounds)
	case c.Radius <= 0:
		return fmt.Errorf("radius must be positive, got %g: %w", c.Radius, dynamo.ErrParameterBounds)
	case c.Scale <= 0:
		return fmt.Errorf("scale must be positive, got %g: %w", c.Scale, dynamo.ErrParameterBounds)
	case c.Epsilon < 0:
		return fmt.Errorf("epsilon must be non-negative, got %g: %w", c.Epsilon, dynamo.ErrParameterBounds)
	case c.FPS <= 0:
		return fmt.Errorf("fps must be positive, got %d: %w", c.FPS, dynamo.ErrParameterBounds)
	case c.Ticks < 0:
		return fmt.Errorf("ticks must be non-negative, got %d: %w", c.Ticks, dynamo.ErrParameterBounds)
	case c.Viewport.Width <= 0 || c.Viewport.Height <= 0:
		return fmt.Errorf("viewport must be positive, got %dx%d: %w", c.Viewport.Width, c.Viewport.Height, dynamo.ErrParameterBounds)
	}
	return nil
}

// RunConfig converts to the per-run settings of the simulator.
func (c *Config) RunConfig() dynamo.Config {
	return dynamo.Config{
		Dt:            c.Dt(),
		Ticks:         c.Ticks,
		Seed:          c.Seed,
		ValidateState: c.CheckNaN,
	}
}
