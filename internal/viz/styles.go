package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle   lipgloss.Style
	statsStyle    lipgloss.Style
	headerStyle   lipgloss.Style
	labelStyle    lipgloss.Style
	valueStyle    lipgloss.Style
	graphStyle    lipgloss.Style
	helpStyle     lipgloss.Style
	subtleStyle   lipgloss.Style
	selectedStyle lipgloss.Style
	keyStyle      lipgloss.Style

	statusRunning   lipgloss.Style
	statusPaused    lipgloss.Style
	statusRecording lipgloss.Style
	statusError     lipgloss.Style

	sparkHigh lipgloss.Style
	sparkMid  lipgloss.Style
	sparkLow  lipgloss.Style
)

const statsWidth = 44

func init() { applyTheme(CurrentTheme) }

func applyTheme(t Theme) {
	canvasStyle = lipgloss.NewStyle().Padding(0, 1).Foreground(t.Particles)
	statsStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(statsWidth)
	headerStyle = lipgloss.NewStyle().Foreground(t.Title).Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(t.Muted).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(t.Text)
	graphStyle = lipgloss.NewStyle().Foreground(t.Success)
	helpStyle = lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1)
	subtleStyle = lipgloss.NewStyle().Foreground(t.Muted)
	selectedStyle = lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	keyStyle = lipgloss.NewStyle().Foreground(t.Title).Bold(true)

	statusRunning = lipgloss.NewStyle().Bold(true).Foreground(t.Success)
	statusPaused = lipgloss.NewStyle().Bold(true).Foreground(t.Warning)
	statusRecording = lipgloss.NewStyle().Bold(true).Foreground(t.Error).Blink(true)
	statusError = lipgloss.NewStyle().Bold(true).Foreground(t.Error)

	sparkHigh = lipgloss.NewStyle().Foreground(t.Success)
	sparkMid = lipgloss.NewStyle().Foreground(t.Warning)
	sparkLow = lipgloss.NewStyle().Foreground(t.Error)
}

// SparklineChart renders the last width values as block characters, scaled
// between their min and max.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var result strings.Builder
	for _, v := range values {
		norm := (v - lo) / rng
		idx := min(max(int(norm*float64(len(chars)-1)), 0), len(chars)-1)
		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(sparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(sparkMid.Render(c))
		default:
			result.WriteString(sparkLow.Render(c))
		}
	}
	return result.String()
}

// ProgressBar renders a filled bar for percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := min(max(int(percent*float64(width)), 0), width)
	return sparkHigh.Render(strings.Repeat("█", filled)) + subtleStyle.Render(strings.Repeat("░", width-filled))
}

func Separator(width int) string {
	if width < 8 {
		return subtleStyle.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return subtleStyle.Render(strings.Repeat("─", mid-3) + " ◆ " + strings.Repeat("─", width-mid-3))
}

// KeyHints renders "key action" pairs on one line.
func KeyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(keyStyle.Render(pairs[i]) + subtleStyle.Render(" "+pairs[i+1]))
	}
	return b.String()
}

// GradientText colours each rune of text on a line between two hex colours.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}

	sr, sg, sb := parseHex(string(startColor))
	er, eg, eb := parseHex(string(endColor))
	n := len(runes)

	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		r := int(float64(sr) + t*float64(er-sr))
		g := int(float64(sg) + t*float64(eg-sg))
		b := int(float64(sb) + t*float64(eb-sb))
		result.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(hexColor(r, g, b))).Render(string(c)))
	}
	return result.String()
}

func parseHex(hex string) (r, g, b int) {
	if len(hex) != 7 || hex[0] != '#' {
		return 255, 255, 255
	}
	return parseHexByte(hex[1:3]), parseHexByte(hex[3:5]), parseHexByte(hex[5:7])
}

func parseHexByte(s string) int {
	var val int
	for _, c := range s {
		val *= 16
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	return val
}

func hexColor(r, g, b int) string {
	return "#" + hexByte(r) + hexByte(g) + hexByte(b)
}

func hexByte(v int) string {
	v = min(max(v, 0), 255)
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
