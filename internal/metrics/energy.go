package metrics

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
	"gonum.org/v1/gonum/stat"
)

// Energy is the mean total mechanical energy per particle over the run,
// with unit mass and the velocity implied by Pos - Prev.
type Energy struct {
	name    string
	dt      float64
	gravity float64
	samples []float64
}

func NewEnergy(dt, gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		dt:      dt,
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(set *dynamo.ParticleSet, b dynamo.Bounds, t float64) {
	if set.Len() == 0 {
		return
	}
	e.samples = append(e.samples, TotalEnergy(set, b, e.dt, e.gravity)/float64(set.Len()))
}

func (e *Energy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

// History returns the per-tick samples.
func (e *Energy) History() []float64 { return e.samples }

func (e *Energy) Reset() {
	e.samples = e.samples[:0]
}

// KineticEnergy sums ½|v|² over the set.
func KineticEnergy(set *dynamo.ParticleSet, dt float64) float64 {
	ke := 0.0
	for i := range set.Pos {
		v := set.Velocity(i, dt)
		ke += 0.5 * (v.X*v.X + v.Y*v.Y)
	}
	return ke
}

// PotentialEnergy sums the height above the floor times -gravity.
func PotentialEnergy(set *dynamo.ParticleSet, b dynamo.Bounds, gravity float64) float64 {
	floor := b.Bottom + set.Radius
	pe := 0.0
	for _, p := range set.Pos {
		pe += -gravity * (p.Y - floor)
	}
	return pe
}

func TotalEnergy(set *dynamo.ParticleSet, b dynamo.Bounds, dt, gravity float64) float64 {
	return KineticEnergy(set, dt) + PotentialEnergy(set, b, gravity)
}

// EnergyDrift is the largest relative change of total energy from the
// first observation.
type EnergyDrift struct {
	name          string
	dt, gravity   float64
	initialEnergy float64
	maxDrift      float64
	samples       int
}

func NewEnergyDrift(dt, gravity float64) *EnergyDrift {
	return &EnergyDrift{
		name:    "energy_drift",
		dt:      dt,
		gravity: gravity,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(set *dynamo.ParticleSet, b dynamo.Bounds, t float64) {
	energy := TotalEnergy(set, b, e.dt, e.gravity)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}
