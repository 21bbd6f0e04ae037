package physics

import (
	"math"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// Collider separates overlapping particles and keeps them inside the bounds.
//
// Epsilon controls coincident centres. With Epsilon == 0 a pair at exactly
// zero distance divides by zero and both particles become NaN; the hazard is
// left visible. With Epsilon > 0 pairs closer than Epsilon are skipped and
// stay overlapped until something else moves them apart.
type Collider struct {
	Epsilon float64
}

func NewCollider(epsilon float64) *Collider {
	return &Collider{Epsilon: epsilon}
}

// ResolvePairs makes one relaxation pass over every pair (i, j), i < j, in
// ascending order, pushing overlapping pairs apart to exactly touching along
// their centre line. Positions are updated in place, so an earlier pair's
// correction is visible to later pairs within the same pass. Three or more
// mutually overlapping particles are not guaranteed to separate in one pass.
// It returns the number of overlapping pairs seen.
func (c *Collider) ResolvePairs(set *dynamo.ParticleSet) int {
	pos := set.Pos
	n := len(pos)
	target := 2 * set.Radius
	target2 := target * target
	eps2 := c.Epsilon * c.Epsilon
	hits := 0

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := pos[i].X - pos[j].X
			dy := pos[i].Y - pos[j].Y
			sq := dx*dx + dy*dy
			if sq >= target2 || sq < eps2 {
				continue
			}
			l := math.Sqrt(sq)
			move := 0.5 * (l - target) / l
			mx, my := dx*move, dy*move
			pos[i].X -= mx
			pos[i].Y -= my
			pos[j].X += mx
			pos[j].Y += my
			hits++
		}
	}
	return hits
}

// ClampToBounds snaps every particle back inside b, per axis. Prev is left
// alone, so the next Verlet correction turns the clamp into a rebound.
// It returns the number of particles moved.
func (c *Collider) ClampToBounds(set *dynamo.ParticleSet, b dynamo.Bounds) int {
	r := set.Radius
	pos := set.Pos
	clamped := 0

	for i := range pos {
		p := pos[i]
		if p.X-r < b.Left {
			p.X = b.Left + r
		}
		if p.X+r > b.Right {
			p.X = b.Right - r
		}
		if p.Y-r < b.Bottom {
			p.Y = b.Bottom + r
		}
		if p.Y+r > b.Top {
			p.Y = b.Top - r
		}
		if p != pos[i] {
			pos[i] = p
			clamped++
		}
	}
	return clamped
}

// MaxPenetration returns the deepest pairwise overlap in the set.
func MaxPenetration(set *dynamo.ParticleSet) float64 {
	pos := set.Pos
	target := 2 * set.Radius
	target2 := target * target
	deepest := 0.0

	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			dx := pos[i].X - pos[j].X
			dy := pos[i].Y - pos[j].Y
			sq := dx*dx + dy*dy
			if sq >= target2 {
				continue
			}
			if d := target - math.Sqrt(sq); d > deepest {
				deepest = d
			}
		}
	}
	return deepest
}
