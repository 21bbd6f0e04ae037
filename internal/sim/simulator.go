package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/integrators"
	"github.com/san-kum/verletsim/internal/physics"
)

// Spawner places the particles of a freshly created or resized set inside b.
// It must leave Prev and Acc zeroed.
type Spawner func(set *dynamo.ParticleSet, b dynamo.Bounds, rng *rand.Rand)

// Uniform is the default Spawner.
func Uniform(set *dynamo.ParticleSet, b dynamo.Bounds, rng *rand.Rand) {
	set.Scatter(b, rng)
}

type Options struct {
	Particles int
	Radius    float64
	Gravity   float64
	Scale     float64
	Epsilon   float64
	Width     int
	Height    int
	Seed      int64
	Spawn     Spawner
	Logger    *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		Particles: dynamo.DefaultParticles,
		Radius:    dynamo.DefaultRadius,
		Gravity:   dynamo.DefaultGravity,
		Scale:     dynamo.DefaultScale,
		Epsilon:   dynamo.DefaultEpsilon,
		Width:     dynamo.DefaultWidth,
		Height:    dynamo.DefaultHeight,
		Spawn:     Uniform,
	}
}

// Simulator owns a particle set and its bounds and advances them one fixed
// tick at a time. It is not safe for concurrent use.
type Simulator struct {
	set        *dynamo.ParticleSet
	bounds     dynamo.Bounds
	integrator *integrators.Verlet
	collider   *physics.Collider
	scale      float64
	width      int
	height     int
	rng        *rand.Rand
	spawn      Spawner
	log        *slog.Logger

	tick      int
	t         float64
	lastHits  int
	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

func New(opts Options) (*Simulator, error) {
	if opts.Particles < 0 {
		return nil, fmt.Errorf("particles must be non-negative, got %d: %w", opts.Particles, dynamo.ErrParameterBounds)
	}
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %f: %w", opts.Radius, dynamo.ErrParameterBounds)
	}
	if opts.Scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %f: %w", opts.Scale, dynamo.ErrParameterBounds)
	}
	if opts.Epsilon < 0 {
		return nil, fmt.Errorf("epsilon must be non-negative, got %f: %w", opts.Epsilon, dynamo.ErrParameterBounds)
	}
	if err := checkViewport(opts.Width, opts.Height); err != nil {
		return nil, err
	}
	if opts.Spawn == nil {
		opts.Spawn = Uniform
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Simulator{
		set:        dynamo.NewParticleSet(opts.Particles, opts.Radius),
		integrator: integrators.NewVerlet(opts.Gravity),
		collider:   physics.NewCollider(opts.Epsilon),
		scale:      opts.Scale,
		width:      opts.Width,
		height:     opts.Height,
		rng:        rand.New(rand.NewSource(opts.Seed)),
		spawn:      opts.Spawn,
		log:        opts.Logger,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}
	s.bounds.Recompute(opts.Width, opts.Height, s.scale)
	s.spawn(s.set, s.bounds, s.rng)
	s.log.Debug("simulator created", "particles", opts.Particles, "seed", opts.Seed, "bounds", s.bounds)
	return s, nil
}

func checkViewport(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d: %w", w, h, dynamo.ErrParameterBounds)
	}
	return nil
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Advance runs one tick. The order is fixed: gravity, integrate, pair
// resolution, boundary clamp, Verlet correction. The correction reads the
// already-corrected position, so collision and clamp displacements are
// doubled into the next tick's velocity.
func (s *Simulator) Advance(dt float64) {
	s.integrator.ApplyGravity(s.set)
	s.integrator.Integrate(s.set, dt)
	s.lastHits = s.collider.ResolvePairs(s.set)
	s.collider.ClampToBounds(s.set, s.bounds)
	s.integrator.Correct(s.set)

	s.tick++
	s.t += dt

	for _, m := range s.metrics {
		m.Observe(s.set, s.bounds, s.t)
	}
	for _, o := range s.observers {
		o.OnStep(s.set, s.bounds, s.t)
	}
}

// Resize recomputes the bounds for a new viewport and respawns every
// particle inside them. Prev and Acc are zeroed, discarding the implied
// velocity of the old layout.
func (s *Simulator) Resize(width, height int) error {
	if err := checkViewport(width, height); err != nil {
		return err
	}
	s.width, s.height = width, height
	s.bounds.Recompute(width, height, s.scale)
	s.spawn(s.set, s.bounds, s.rng)
	s.log.Debug("viewport resized", "width", width, "height", height, "bounds", s.bounds)
	return nil
}

// Positions returns the live position buffer, one vector per particle.
// Callers must not modify it; it is rewritten by the next Advance.
func (s *Simulator) Positions() []dynamo.Vec2 { return s.set.Pos }

// AppendFloat32 appends the flattened positions for GPU upload.
func (s *Simulator) AppendFloat32(dst []float32) []float32 { return s.set.AppendFloat32(dst) }

// Viewport returns the size the bounds were last computed from.
func (s *Simulator) Viewport() (width, height int) { return s.width, s.height }

func (s *Simulator) Set() *dynamo.ParticleSet { return s.set }
func (s *Simulator) Bounds() dynamo.Bounds    { return s.bounds }
func (s *Simulator) Tick() int                { return s.tick }
func (s *Simulator) Time() float64            { return s.t }

// Contacts returns the number of overlapping pairs found by the last tick.
func (s *Simulator) Contacts() int { return s.lastHits }

func (s *Simulator) Gravity() float64 { return s.integrator.Gravity }

func (s *Simulator) SetGravity(g float64) { s.integrator.Gravity = g }

// Run advances cfg.Ticks ticks, checking ctx between ticks. Metrics are
// reset first and their final values land in the result.
func (s *Simulator) Run(ctx context.Context, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &dynamo.Result{
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for i := 0; i < cfg.Ticks; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		s.Advance(cfg.Dt)
		result.Ticks++

		if cfg.ValidateState {
			if err := s.set.Validate(); err != nil {
				simErr := &dynamo.SimulationError{Tick: s.tick, Time: s.t, Particle: -1, Wrapped: err}
				var inner *dynamo.SimulationError
				if errors.As(err, &inner) {
					simErr.Particle = inner.Particle
					simErr.Wrapped = inner.Wrapped
				}
				s.log.Warn("invalid state", "tick", s.tick, "particle", simErr.Particle)
				result.Errors = append(result.Errors, simErr)
				break
			}
		}
	}

	s.finish(result)
	return result, nil
}

func (s *Simulator) finish(result *dynamo.Result) {
	result.Time = s.t
	result.Positions = make([]dynamo.Vec2, s.set.Len())
	copy(result.Positions, s.set.Pos)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validateConfig(cfg dynamo.Config) error {
	if cfg.Dt < 0 {
		return fmt.Errorf("dt must be non-negative, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if cfg.Ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d: %w", cfg.Ticks, dynamo.ErrParameterBounds)
	}
	return nil
}
