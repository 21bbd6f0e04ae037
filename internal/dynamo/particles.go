package dynamo

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"
)

// ParticleSet holds the state of a fixed population of equal discs.
// Pos, Prev and Acc always have the same length; indices are stable for
// the lifetime of the set.
type ParticleSet struct {
	Pos    []Vec2
	Prev   []Vec2
	Acc    []Vec2
	Radius float64
}

// NewParticleSet allocates n particles at the origin with zeroed history.
func NewParticleSet(n int, radius float64) *ParticleSet {
	return &ParticleSet{
		Pos:    make([]Vec2, n),
		Prev:   make([]Vec2, n),
		Acc:    make([]Vec2, n),
		Radius: radius,
	}
}

func (s *ParticleSet) Len() int { return len(s.Pos) }

// Reset zeroes Prev and Acc. Note that a zero Prev is not a zero velocity:
// the next Verlet correction reads the implied velocity as Pos - 0.
func (s *ParticleSet) Reset() {
	clear(s.Prev)
	clear(s.Acc)
}

// Scatter places every particle uniformly at random strictly inside b
// shrunk by the radius, then resets the history.
func (s *ParticleSet) Scatter(b Bounds, rng *rand.Rand) {
	in := b.Inset(s.Radius)
	for i := range s.Pos {
		s.Pos[i] = Vec2{
			X: openUniform(rng, in.Left, in.Right),
			Y: openUniform(rng, in.Bottom, in.Top),
		}
	}
	s.Reset()
}

// openUniform draws from the open interval (lo, hi). A degenerate interval
// collapses to its midpoint.
func openUniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5 * (lo + hi)
	}
	for {
		v := lo + rng.Float64()*(hi-lo)
		if v > lo && v < hi {
			return v
		}
	}
}

func (s *ParticleSet) Clone() *ParticleSet {
	c := NewParticleSet(s.Len(), s.Radius)
	copy(c.Pos, s.Pos)
	copy(c.Prev, s.Prev)
	copy(c.Acc, s.Acc)
	return c
}

// Validate checks the length invariant and that every coordinate is finite.
// On a non-finite coordinate the returned error carries the particle index.
func (s *ParticleSet) Validate() error {
	n := len(s.Pos)
	if len(s.Prev) != n || len(s.Acc) != n {
		return fmt.Errorf("pos=%d prev=%d acc=%d: %w", n, len(s.Prev), len(s.Acc), ErrDimensionMismatch)
	}
	for i := 0; i < n; i++ {
		if !finite(s.Pos[i]) || !finite(s.Prev[i]) || !finite(s.Acc[i]) {
			return &SimulationError{Particle: i, Wrapped: ErrInvalidState}
		}
	}
	return nil
}

func finite(v Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Velocity returns the velocity implied by the position history.
func (s *ParticleSet) Velocity(i int, dt float64) Vec2 {
	if dt == 0 {
		return Vec2{}
	}
	return r2.Scale(1/dt, r2.Sub(s.Pos[i], s.Prev[i]))
}

// AppendFloat32 appends x0, y0, x1, y1, ... to dst, the layout expected by
// a per-instance vec2 vertex attribute.
func (s *ParticleSet) AppendFloat32(dst []float32) []float32 {
	for _, p := range s.Pos {
		dst = append(dst, float32(p.X), float32(p.Y))
	}
	return dst
}

// Centroid returns the mean position.
func (s *ParticleSet) Centroid() Vec2 {
	var c Vec2
	if len(s.Pos) == 0 {
		return c
	}
	for _, p := range s.Pos {
		c = r2.Add(c, p)
	}
	return r2.Scale(1/float64(len(s.Pos)), c)
}
