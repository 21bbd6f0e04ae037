package analysis

import (
	"strings"

	"github.com/san-kum/verletsim/internal/dynamo"
)

// TrajectoryToASCII plots a sequence of points, typically the centroid of
// the set over a run, on a width x height character grid.
func TrajectoryToASCII(points []dynamo.Vec2, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch i {
		case 0:
			canvas[row][col] = 'o'
		case len(points) - 1:
			canvas[row][col] = 'x'
		default:
			if canvas[row][col] == ' ' {
				canvas[row][col] = '•'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Crossings returns the interpolated times at which series rises through
// threshold. Sample i is taken at time (i+1)*dt.
func Crossings(series []float64, threshold, dt float64) []float64 {
	var times []float64
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		if prev < threshold && curr >= threshold {
			frac := (threshold - prev) / (curr - prev)
			times = append(times, (float64(i)+frac)*dt)
		}
	}
	return times
}

// MeanPeriod is the mean spacing of crossing times, 0 with fewer than two.
func MeanPeriod(times []float64) float64 {
	if len(times) < 2 {
		return 0
	}
	return (times[len(times)-1] - times[0]) / float64(len(times)-1)
}
