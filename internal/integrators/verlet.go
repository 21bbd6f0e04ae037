package integrators

import "github.com/san-kum/verletsim/internal/dynamo"

// Verlet is a position-based integrator. Velocity lives only in the gap
// between Pos and Prev.
type Verlet struct {
	Gravity float64
}

func NewVerlet(gravity float64) *Verlet {
	return &Verlet{Gravity: gravity}
}

// ApplyGravity accumulates gravity into every particle's acceleration.
func (v *Verlet) ApplyGravity(set *dynamo.ParticleSet) {
	g := v.Gravity
	acc := set.Acc
	for i := range acc {
		acc[i].Y += g
	}
}

// Integrate folds the accumulated acceleration into position as a dt²
// displacement and clears it.
func (v *Verlet) Integrate(set *dynamo.ParticleSet, dt float64) {
	dt2 := dt * dt
	pos, acc := set.Pos, set.Acc
	for i := range pos {
		pos[i].X += acc[i].X * dt2
		pos[i].Y += acc[i].Y * dt2
		acc[i] = dynamo.Vec2{}
	}
}

// Correct carries the implied velocity forward:
// next = 2*pos - prev, prev = pos, pos = next.
func (v *Verlet) Correct(set *dynamo.ParticleSet) {
	pos, prev := set.Pos, set.Prev
	for i := range pos {
		p := pos[i]
		pos[i] = dynamo.Vec2{X: 2*p.X - prev[i].X, Y: 2*p.Y - prev[i].Y}
		prev[i] = p
	}
}
