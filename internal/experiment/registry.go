package experiment

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/sim"
)

type Registry struct {
	layouts map[string]sim.Spawner
}

func NewRegistry() *Registry {
	r := &Registry{
		layouts: make(map[string]sim.Spawner),
	}

	r.layouts["uniform"] = sim.Uniform
	r.layouts["grid"] = Grid
	r.layouts["column"] = Column

	return r
}

func (r *Registry) Register(name string, s sim.Spawner) { r.layouts[name] = s }

func (r *Registry) GetLayout(name string) (sim.Spawner, error) {
	s, ok := r.layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout: %s", name)
	}
	return s, nil
}

func (r *Registry) ListLayouts() []string {
	names := make([]string, 0, len(r.layouts))
	for name := range r.layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// gridGap is the spacing between lattice neighbours in diameters.
const gridGap = 1.05

// Grid packs particles in rows from the bottom-left corner with a small
// random jitter so the lattice does not stack perfectly. Rows that do not
// fit wrap back to the bottom and overlap.
func Grid(set *dynamo.ParticleSet, b dynamo.Bounds, rng *rand.Rand) {
	in := b.Inset(set.Radius)
	step := 2 * set.Radius * gridGap
	cols := max(1, int(in.Width()/step))
	rows := max(1, int(in.Height()/step))
	jitter := 0.01 * set.Radius

	for i := range set.Pos {
		c, r := i%cols, (i/cols)%rows
		x := in.Left + 0.5*step + float64(c)*step + (rng.Float64()-0.5)*jitter
		y := in.Bottom + 0.5*step + float64(r)*step + (rng.Float64()-0.5)*jitter
		set.Pos[i] = dynamo.Vec2{X: inside(x, in.Left, in.Right), Y: inside(y, in.Bottom, in.Top)}
	}
	set.Reset()
}

// Column scatters the particles uniformly in a central strip one fifth of
// the bounds wide.
func Column(set *dynamo.ParticleSet, b dynamo.Bounds, rng *rand.Rand) {
	half := 0.1 * b.Width()
	strip := dynamo.Bounds{
		Left:   math.Max(b.Left, -half),
		Right:  math.Min(b.Right, half),
		Top:    b.Top,
		Bottom: b.Bottom,
	}
	set.Scatter(strip, rng)
}

// inside pulls v into the open interval (lo, hi).
func inside(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5 * (lo + hi)
	}
	if v <= lo || v >= hi {
		return 0.5 * (lo + hi)
	}
	return v
}
