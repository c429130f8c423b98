package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hpungsan/radr/internal/geometry"
)

// Cell layers, lowest to highest. A later layer overwrites an earlier one so
// points always win over grid lines and the sweep.
const (
	layerEmpty = iota
	layerGrid
	layerSweep
	layerPoint
	layerSelected
)

var (
	gridStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sweepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pointStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// canvas is a character grid over the unit disc. Terminal cells are roughly
// twice as tall as wide, so the vertical scale is carried separately.
type canvas struct {
	w, h  int
	runes [][]rune
	layer [][]int
}

func newCanvas(w, h int) *canvas {
	if w < 9 {
		w = 9
	}
	if h < 5 {
		h = 5
	}
	runes := make([][]rune, h)
	layer := make([][]int, h)
	for i := range runes {
		runes[i] = []rune(strings.Repeat(" ", w))
		layer[i] = make([]int, w)
	}
	return &canvas{w: w, h: h, runes: runes, layer: layer}
}

// set plots a rune at unit-disc coordinates. y grows upward on the disc but
// rows grow downward on screen.
func (c *canvas) set(x, y float64, r rune, l int) {
	col := int(math.Round((x + 1) / 2 * float64(c.w-1)))
	row := int(math.Round((1 - y) / 2 * float64(c.h-1)))
	if col < 0 || col >= c.w || row < 0 || row >= c.h {
		return
	}
	if l < c.layer[row][col] {
		return
	}
	c.runes[row][col] = r
	c.layer[row][col] = l
}

func (c *canvas) drawGrid() {
	// One circle per ring boundary, innermost for adopt.
	for _, radius := range []float64{0.25, 0.5, 0.75, 1.0} {
		steps := int(2 * math.Pi * radius * float64(c.w))
		if steps < 24 {
			steps = 24
		}
		for i := 0; i < steps; i++ {
			a := float64(i) / float64(steps) * 2 * math.Pi
			c.set(math.Cos(a)*radius, math.Sin(a)*radius, '·', layerGrid)
		}
	}
	// Quadrant axes.
	for r := 0.0; r <= 1.0; r += 0.02 {
		c.set(r, 0, '─', layerGrid)
		c.set(-r, 0, '─', layerGrid)
		c.set(0, r, '│', layerGrid)
		c.set(0, -r, '│', layerGrid)
	}
	c.set(0, 0, '┼', layerGrid)
}

// drawSweep draws the rotating ray. Overlay only; placement is untouched.
func (c *canvas) drawSweep(angle float64) {
	for r := 0.04; r <= 1.0; r += 0.02 {
		c.set(math.Cos(angle)*r, math.Sin(angle)*r, '*', layerSweep)
	}
}

// drawPoints plots placed blips, marking the selected one.
func (c *canvas) drawPoints(points []geometry.Point, selected string) {
	for _, p := range points {
		if p.Name == selected {
			continue
		}
		c.set(p.X, p.Y, '●', layerPoint)
	}
	// Selected last so it survives overlap.
	for _, p := range points {
		if p.Name == selected {
			c.set(p.X, p.Y, '◉', layerSelected)
		}
	}
}

func (c *canvas) render() string {
	var b strings.Builder
	for row := 0; row < c.h; row++ {
		if row > 0 {
			b.WriteByte('\n')
		}
		for col := 0; col < c.w; col++ {
			ch := string(c.runes[row][col])
			switch c.layer[row][col] {
			case layerGrid:
				b.WriteString(gridStyle.Render(ch))
			case layerSweep:
				b.WriteString(sweepStyle.Render(ch))
			case layerPoint:
				b.WriteString(pointStyle.Render(ch))
			case layerSelected:
				b.WriteString(selectedStyle.Render(ch))
			default:
				b.WriteString(ch)
			}
		}
	}
	return b.String()
}
