package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/verletsim/internal/dynamo"
)

func smallOptions(n int) Options {
	opts := DefaultOptions()
	opts.Particles = n
	opts.Seed = 1
	return opts
}

func TestSimulatorRun(t *testing.T) {
	s, err := New(smallOptions(50))
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}

	cfg := dynamo.Config{Dt: dynamo.DefaultDt, Ticks: 60}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.Ticks != 60 {
		t.Errorf("expected 60 ticks, got %d", result.Ticks)
	}
	if math.Abs(result.Time-1.0) > 1e-9 {
		t.Errorf("expected t=1.0, got %f", result.Time)
	}
	if len(result.Positions) != 50 {
		t.Errorf("expected 50 positions, got %d", len(result.Positions))
	}
	if s.Tick() != 60 {
		t.Errorf("Tick() = %d", s.Tick())
	}
}

func TestSimulatorInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"negative particles", func(o *Options) { o.Particles = -1 }},
		{"zero radius", func(o *Options) { o.Radius = 0 }},
		{"zero scale", func(o *Options) { o.Scale = 0 }},
		{"negative epsilon", func(o *Options) { o.Epsilon = -1 }},
		{"zero width", func(o *Options) { o.Width = 0 }},
		{"negative height", func(o *Options) { o.Height = -600 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions(4)
			tt.mutate(&opts)
			_, err := New(opts)
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	s, _ := New(smallOptions(4))

	tests := []struct {
		name string
		cfg  dynamo.Config
	}{
		{"negative dt", dynamo.Config{Dt: -0.1, Ticks: 10}},
		{"negative ticks", dynamo.Config{Dt: 0.1, Ticks: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestResizeRejectsEmptyViewport(t *testing.T) {
	s, _ := New(smallOptions(4))
	before := s.Bounds()
	if err := s.Resize(0, 100); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds, got %v", err)
	}
	if s.Bounds() != before {
		t.Error("failed resize changed bounds")
	}
}

func TestViewportTracksResize(t *testing.T) {
	s, _ := New(smallOptions(4))
	if w, h := s.Viewport(); w != dynamo.DefaultWidth || h != dynamo.DefaultHeight {
		t.Errorf("initial viewport = %dx%d", w, h)
	}
	if err := s.Resize(1024, 256); err != nil {
		t.Fatal(err)
	}
	if w, h := s.Viewport(); w != 1024 || h != 256 {
		t.Errorf("viewport after resize = %dx%d", w, h)
	}
	_ = s.Resize(-1, 10)
	if w, h := s.Viewport(); w != 1024 || h != 256 {
		t.Errorf("failed resize changed viewport to %dx%d", w, h)
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(set *dynamo.ParticleSet, b dynamo.Bounds, time float64) {
	t.count++
	t.sum += time
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

type countingObserver struct{ steps int }

func (c *countingObserver) OnStep(set *dynamo.ParticleSet, b dynamo.Bounds, t float64) { c.steps++ }

func TestSimulatorMetricsAndObservers(t *testing.T) {
	s, _ := New(smallOptions(10))

	metric := &testMetric{}
	obs := &countingObserver{}
	s.AddMetric(metric)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), dynamo.Config{Dt: 0.1, Ticks: 10})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
	if obs.steps != 10 {
		t.Errorf("expected 10 observer calls, got %d", obs.steps)
	}
}

func TestSimulatorCanceled(t *testing.T) {
	s, _ := New(smallOptions(10))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, dynamo.Config{Dt: dynamo.DefaultDt, Ticks: 100})
	if !errors.Is(err, dynamo.ErrContextCanceled) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if result.Ticks != 0 {
		t.Errorf("expected 0 ticks, got %d", result.Ticks)
	}
}

func TestSimulatorValidateStateStopsOnNaN(t *testing.T) {
	opts := smallOptions(2)
	opts.Epsilon = 0
	s, _ := New(opts)
	set := s.Set()
	set.Pos[0] = dynamo.Vec2{X: 5, Y: 5}
	set.Pos[1] = dynamo.Vec2{X: 5, Y: 5}
	set.Prev[0], set.Prev[1] = set.Pos[0], set.Pos[1]

	// dt=0 keeps the pair coincident until the pair pass divides by zero.
	result, err := s.Run(context.Background(), dynamo.Config{Dt: 0, Ticks: 5, ValidateState: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ticks != 1 {
		t.Errorf("expected to stop after 1 tick, got %d", result.Ticks)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], dynamo.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", result.Errors)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(result.Errors[0], &simErr) || simErr.Particle != 0 || simErr.Tick != 1 {
		t.Errorf("unexpected error context: %+v", simErr)
	}
}

func TestEpsilonGuardKeepsStateFinite(t *testing.T) {
	opts := smallOptions(2)
	opts.Epsilon = 1e-9
	s, _ := New(opts)
	set := s.Set()
	set.Pos[0] = dynamo.Vec2{X: 5, Y: 5}
	set.Pos[1] = dynamo.Vec2{X: 5, Y: 5}
	set.Prev[0], set.Prev[1] = set.Pos[0], set.Pos[1]

	result, _ := s.Run(context.Background(), dynamo.Config{Dt: 0, Ticks: 5, ValidateState: true})
	if len(result.Errors) != 0 {
		t.Errorf("guarded run reported %v", result.Errors)
	}
}

func TestAdvanceDoesNotAllocate(t *testing.T) {
	s, _ := New(smallOptions(200))
	allocs := testing.AllocsPerRun(20, func() {
		s.Advance(dynamo.DefaultDt)
	})
	if allocs != 0 {
		t.Errorf("Advance allocated %v times per tick", allocs)
	}
}

func TestSnapshotPool(t *testing.T) {
	pool := NewSnapshotPool(4)

	s1 := pool.Get()
	if len(s1) != 4 {
		t.Errorf("pool returned wrong size: %d", len(s1))
	}

	s1[0] = dynamo.Vec2{X: 1, Y: 2}
	pool.Put(s1)

	s2 := pool.Get()
	if s2[0] != (dynamo.Vec2{}) {
		t.Error("pool did not reset buffer")
	}
}

func TestSnapshotPoolCapture(t *testing.T) {
	pool := NewSnapshotPool(2)
	src := []dynamo.Vec2{{X: 1, Y: 2}, {X: 3, Y: 4}}

	snap := pool.Capture(src)
	if snap[1] != src[1] {
		t.Errorf("Capture failed: got %v", snap)
	}
	snap[0].X = 99
	if src[0].X == 99 {
		t.Error("Capture did not create independent copy")
	}
}

func TestEnsemble(t *testing.T) {
	opts := smallOptions(30)
	e := NewEnsemble(opts, 4, 100, func() []dynamo.Metric { return []dynamo.Metric{&testMetric{}} })

	results, err := e.Run(context.Background(), dynamo.Config{Dt: dynamo.DefaultDt, Ticks: 20})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Ticks != 20 {
			t.Errorf("member %d ran %d ticks", i, r.Ticks)
		}
		if _, ok := r.Metrics["test"]; !ok {
			t.Errorf("member %d missing metric", i)
		}
	}
	if results[0].Positions[0] == results[1].Positions[0] {
		t.Error("different seeds produced identical layouts")
	}
	if e.Seed(2) != 102 {
		t.Errorf("Seed(2) = %d", e.Seed(2))
	}
}

func TestEnsembleInvalidOptions(t *testing.T) {
	opts := smallOptions(4)
	opts.Radius = -1
	e := NewEnsemble(opts, 2, 0, nil)
	if _, err := e.Run(context.Background(), dynamo.DefaultConfig()); err == nil {
		t.Error("expected error, got nil")
	}
}
