package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/verletsim/internal/dynamo"
	"github.com/san-kum/verletsim/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`

// frame maps world bounds onto a width-pixel image with the bounds' aspect
// ratio, y up.
type frame struct {
	b       dynamo.Bounds
	w, h    int
	perUnit float64
}

func newFrame(b dynamo.Bounds, width int) frame {
	perUnit := float64(width) / b.Width()
	return frame{b: b, w: width, h: int(math.Round(b.Height() * perUnit)), perUnit: perUnit}
}

func (f frame) point(p dynamo.Vec2) (float64, float64) {
	return (p.X - f.b.Left) * f.perUnit, (f.b.Top - p.Y) * f.perUnit
}

// ParticlesToSVG draws every particle as a circle of its world radius inside
// the bounds rectangle. Non-finite positions are left out.
func ParticlesToSVG(positions []dynamo.Vec2, radius float64, b dynamo.Bounds, width int) string {
	if width <= 0 || b.Width() <= 0 || b.Height() <= 0 {
		return ""
	}
	f := newFrame(b, width)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, f.w, f.h, f.w, f.h)
	sb.WriteString(`<g fill="#00ff66" fill-opacity="0.8">` + "\n")
	r := radius * f.perUnit
	for _, p := range positions {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			continue
		}
		x, y := f.point(p)
		fmt.Fprintf(&sb, `<circle cx="%.2f" cy="%.2f" r="%.2f"/>`+"\n", x, y, r)
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// PathToSVG draws points, e.g. the centroid per tick, as one polyline
// inside the bounds.
func PathToSVG(points []dynamo.Vec2, b dynamo.Bounds, width int, strokeColor string) string {
	if len(points) < 2 || width <= 0 || b.Width() <= 0 || b.Height() <= 0 {
		return ""
	}
	f := newFrame(b, width)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, f.w, f.h, f.w, f.h)
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, p := range points {
		x, y := f.point(p)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	dotsW, dotsH := canvas.Dots()
	width := int(float64(dotsW) * scale)
	height := int(float64(dotsH) * scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height)
	sb.WriteString(`<g fill="#00ff00">` + "\n")
	dotRadius := scale * 0.4
	for y := 0; y < dotsH; y++ {
		for x := 0; x < dotsW; x++ {
			if canvas.Lit(x, y) {
				fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f"/>`+"\n",
					float64(x)*scale+scale/2, float64(y)*scale+scale/2, dotRadius)
			}
		}
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}
