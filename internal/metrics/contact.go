package metrics

import (
	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/physics"
	"gonum.org/v1/gonum/stat"
)

// Overlap tracks the deepest pairwise penetration seen over the run.
// Each observation is a full O(n²) scan.
type Overlap struct {
	name    string
	deepest float64
}

func NewOverlap() *Overlap {
	return &Overlap{name: "max_overlap"}
}

func (o *Overlap) Name() string { return o.name }

func (o *Overlap) Observe(set *dynamo.ParticleSet, b dynamo.Bounds, t float64) {
	if d := physics.MaxPenetration(set); d > o.deepest {
		o.deepest = d
	}
}

func (o *Overlap) Value() float64 { return o.deepest }
func (o *Overlap) Reset()         { o.deepest = 0 }

// Containment is the mean fraction of particles fully inside the bounds.
// It is observed after the Verlet correction, so particles pressed against
// a wall can read as slightly outside.
type Containment struct {
	name    string
	samples []float64
}

func NewContainment() *Containment {
	return &Containment{name: "containment"}
}

func (c *Containment) Name() string { return c.name }

func (c *Containment) Observe(set *dynamo.ParticleSet, b dynamo.Bounds, t float64) {
	if set.Len() == 0 {
		return
	}
	inside := 0
	for _, p := range set.Pos {
		if b.Contains(p, set.Radius) {
			inside++
		}
	}
	c.samples = append(c.samples, float64(inside)/float64(set.Len()))
}

func (c *Containment) Value() float64 {
	if len(c.samples) == 0 {
		return 1.0
	}
	return stat.Mean(c.samples, nil)
}

func (c *Containment) Reset() { c.samples = c.samples[:0] }

// Defaults returns the metric set used by the CLI runner.
func Defaults(dt, gravity float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergy(dt, gravity),
		NewEnergyDrift(dt, gravity),
		NewContainment(),
	}
}
