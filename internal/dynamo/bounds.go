package dynamo

import "math"

// Bounds is the axis-aligned rectangle particles are confined to.
// Right > Left and Top > Bottom; y grows upwards.
type Bounds struct {
	Left, Right float64
	Top, Bottom float64
}

// NewBounds returns the bounds for a viewport of width x height pixels.
func NewBounds(width, height int, scale float64) Bounds {
	var b Bounds
	b.Recompute(width, height, scale)
	return b
}

// Recompute derives the bounds from the viewport size. Both extents are
// divided by the viewport diagonal, so a particle keeps the same apparent
// size when only the aspect ratio changes. width and height must be positive.
func (b *Bounds) Recompute(width, height int, scale float64) {
	w, h := float64(width), float64(height)
	d := math.Sqrt(w*w + h*h)
	b.Right = scale * w / d
	b.Top = scale * h / d
	b.Left = -b.Right
	b.Bottom = -b.Top
}

func (b Bounds) Width() float64  { return b.Right - b.Left }
func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Inset shrinks the bounds by r on every side.
func (b Bounds) Inset(r float64) Bounds {
	return Bounds{Left: b.Left + r, Right: b.Right - r, Top: b.Top - r, Bottom: b.Bottom + r}
}

// containSlack absorbs the rounding of a clamp to bound±r followed by ∓r.
const containSlack = 1e-9

// Contains reports whether a disc of radius r centred at p lies inside b.
func (b Bounds) Contains(p Vec2, r float64) bool {
	return p.X-r >= b.Left-containSlack && p.X+r <= b.Right+containSlack &&
		p.Y-r >= b.Bottom-containSlack && p.Y+r <= b.Top+containSlack
}
