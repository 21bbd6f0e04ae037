package dynamo

import "gonum.org/v1/gonum/spatial/r2"

// Vec2 is a 2D vector in world units.
type Vec2 = r2.Vec

const (
	DefaultParticles = 2000
	DefaultRadius    = 1.0
	DefaultGravity   = -2.5
	DefaultScale     = 100.0
	DefaultFPS       = 60
	DefaultWidth     = 800
	DefaultHeight    = 600
)

// DefaultEpsilon is the coincident-centre guard of the default
// configuration. 0 disables it and lets corner stacks turn into NaN.
const DefaultEpsilon = 1e-9

// DefaultDt is the fixed tick duration at DefaultFPS.
const DefaultDt = 1.0 / DefaultFPS

type Metric interface {
	Name() string
	Observe(set *ParticleSet, b Bounds, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(set *ParticleSet, b Bounds, t float64)
}

type Config struct {
	Dt            float64
	Ticks         int
	Seed          int64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            DefaultDt,
		Ticks:         600,
		ValidateState: true,
	}
}

type Result struct {
	Ticks     int
	Time      float64
	Metrics   map[string]float64
	Positions []Vec2
	Errors    []error
}
