package diagram

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/guptarohit/asciigraph"
)

// Point represents a 2D coordinate in the panel plane
type Point struct {
	X float64
	Y float64
}

// PlyDiagramData holds one ply of a laminate stack drawing
type PlyDiagramData struct {
	Angle float64 // degrees
	ZTop  float64 // m
	ZBot  float64 // m

	Sig12 [3]float64 // Pa
	Value float64    // selected criterion value, may be ±Inf
}

// LaminateDiagramData holds data for drawing a laminate stack
type LaminateDiagramData struct {
	Name      string
	Thickness float64 // m
	ValueName string  // column caption, e.g. "FI tsai-wu"

	// Plies from top to bottom
	Plies []PlyDiagramData
}

// MeshDiagramData holds data for drawing a solved panel mesh
type MeshDiagramData struct {
	Title string

	Nodes         []Point
	Displacements []Point // ux, uy per node (m)
	Triangles     [][3]int

	Fixed  []bool // node has a fixed translation
	Loaded []bool // node carries a force

	// ElementValues colour the elements, usually the Tsai-Wu failure index
	ElementValues []float64

	MaxNode int
	Scale   float64 // displacement magnification, 0 picks one
}

// DisplacementScale returns the magnification used for the deformed shape.
// Without an explicit Scale the largest displacement is drawn at a tenth of
// the panel size.
func (d MeshDiagramData) DisplacementScale() float64 {
	if d.Scale > 0 {
		return d.Scale
	}
	minX, minY, maxX, maxY := d.bounds()
	size := math.Max(maxX-minX, maxY-minY)
	umax := 0.0
	for _, u := range d.Displacements {
		umax = math.Max(umax, math.Hypot(u.X, u.Y))
	}
	if umax == 0 || size == 0 {
		return 1
	}
	return 0.1 * size / umax
}

func (d MeshDiagramData) bounds() (minX, minY, maxX, maxY float64) {
	if len(d.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = d.Nodes[0].X, d.Nodes[0].Y
	maxX, maxY = minX, minY
	for _, n := range d.Nodes[1:] {
		minX = math.Min(minX, n.X)
		maxX = math.Max(maxX, n.X)
		minY = math.Min(minY, n.Y)
		maxY = math.Max(maxY, n.Y)
	}
	return
}

// fiberFill picks a fill rune that follows the fiber direction
func fiberFill(angle float64) string {
	a := math.Mod(angle, 180)
	if a <= -90 {
		a += 180
	}
	if a > 90 {
		a -= 180
	}
	switch {
	case math.Abs(a) < 1e-6:
		return "─"
	case math.Abs(a-90) < 1e-6:
		return "│"
	case a > 0:
		return "╱"
	default:
		return "╲"
	}
}

func formatValue(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "∞"
	case math.IsInf(v, -1):
		return "-∞"
	case math.IsNaN(v):
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v)
}

// DrawLaminateStack creates an ASCII cross-section of the laminate with one
// band per ply. Band height follows the ply thickness.
func DrawLaminateStack(data LaminateDiagramData) string {
	var sb strings.Builder

	widthChars := 24
	heightChars := 24

	maxAbs := 0.0
	for _, p := range data.Plies {
		if !math.IsInf(p.Value, 0) && !math.IsNaN(p.Value) {
			maxAbs = math.Max(maxAbs, math.Abs(p.Value))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  LAMINATE %s   t = %.3f mm\n", data.Name, data.Thickness*1e3))
	sb.WriteString("  ─────────────────────────────\n")
	sb.WriteString(fmt.Sprintf("  %-*s   %-4s %8s  %-20s  %s\n", widthChars+2, "", "PLY", "ANGLE", "Z (mm)", data.ValueName))

	sb.WriteString(fmt.Sprintf("  ┌%s┐\n", strings.Repeat("─", widthChars)))
	for i, p := range data.Plies {
		rows := 1
		if data.Thickness > 0 {
			rows = int(math.Round((p.ZTop - p.ZBot) / data.Thickness * float64(heightChars)))
		}
		rows = min(max(rows, 1), 4)

		fill := strings.Repeat(fiberFill(p.Angle), widthChars)
		for r := 0; r < rows; r++ {
			sb.WriteString(fmt.Sprintf("  │%s│", fill))
			if r == 0 {
				bar := ""
				if maxAbs > 0 && !math.IsInf(p.Value, 0) && !math.IsNaN(p.Value) {
					bar = strings.Repeat("█", int(math.Round(math.Abs(p.Value)/maxAbs*20)))
				}
				zr := fmt.Sprintf("[%+.3f, %+.3f]", p.ZBot*1e3, p.ZTop*1e3)
				sb.WriteString(fmt.Sprintf("   %-4d %+7.1f°  %-20s  %-9s %s", i+1, p.Angle, zr, formatValue(p.Value), bar))
			}
			sb.WriteString("\n")
		}
		if i < len(data.Plies)-1 {
			sb.WriteString(fmt.Sprintf("  ├%s┤\n", strings.Repeat("─", widthChars)))
		}
	}
	sb.WriteString(fmt.Sprintf("  └%s┘\n", strings.Repeat("─", widthChars)))

	sb.WriteString("\n")
	sb.WriteString("  Legend:\n")
	sb.WriteString("  ─── = 0°   │││ = 90°   ╱╱╱ = +θ   ╲╲╲ = -θ\n")

	return sb.String()
}

// DrawBars creates a horizontal bar chart, one labelled bar per value
func DrawBars(title string, labels []string, values []float64) string {
	var sb strings.Builder

	width := 40
	labelLen := 0
	for _, l := range labels {
		labelLen = max(labelLen, utf8.RuneCountInString(l))
	}
	maxAbs := 0.0
	for _, v := range values {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			maxAbs = math.Max(maxAbs, math.Abs(v))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", strings.ToUpper(title)))
	sb.WriteString(fmt.Sprintf("  %s\n\n", strings.Repeat("─", utf8.RuneCountInString(title))))

	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		barLen := 0
		if maxAbs > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) {
			barLen = int(math.Round(math.Abs(v) / maxAbs * float64(width)))
		}
		pad := labelLen - utf8.RuneCountInString(label)
		sb.WriteString(fmt.Sprintf("  %s%s │%s %s\n", label, strings.Repeat(" ", pad), strings.Repeat("█", barLen), formatValue(v)))
	}

	return sb.String()
}

// shades runs from the lowest to the highest value
const shades = " .:-=+*#%@"

// DrawFailureMap rasterizes the element values over the undeformed panel.
// Each character cell takes the value of the element under its centre.
func DrawFailureMap(data MeshDiagramData, cols int) string {
	var sb strings.Builder

	if cols <= 0 {
		cols = 48
	}
	minX, minY, maxX, maxY := data.bounds()
	w, h := maxX-minX, maxY-minY
	if w <= 0 || h <= 0 || len(data.ElementValues) == 0 {
		return ""
	}
	// terminal cells are about twice as tall as they are wide
	rows := min(max(int(math.Round(float64(cols)*h/w/2)), 4), 30)

	top := 0.0
	for _, v := range data.ElementValues {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			top = math.Max(top, v)
		}
	}

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", data.Title))
	sb.WriteString(fmt.Sprintf("  ┌%s┐\n", strings.Repeat("─", cols)))
	for r := 0; r < rows; r++ {
		y := maxY - (float64(r)+0.5)*h/float64(rows)
		line := make([]byte, cols)
		for c := 0; c < cols; c++ {
			x := minX + (float64(c)+0.5)*w/float64(cols)
			line[c] = ' '
			e := data.locate(x, y)
			if e < 0 || e >= len(data.ElementValues) {
				continue
			}
			line[c] = shade(data.ElementValues[e], top)
		}
		sb.WriteString(fmt.Sprintf("  │%s│\n", line))
	}
	sb.WriteString(fmt.Sprintf("  └%s┘\n", strings.Repeat("─", cols)))
	sb.WriteString(fmt.Sprintf("  scale: '%c' = 0 ... '%c' = %s\n", shades[1], shades[len(shades)-1], formatValue(top)))

	return sb.String()
}

func shade(v, top float64) byte {
	if math.IsNaN(v) {
		return ' '
	}
	if top <= 0 || math.IsInf(v, 1) {
		return shades[len(shades)-1]
	}
	i := 1 + int(v/top*float64(len(shades)-2)+0.5)
	return shades[min(max(i, 1), len(shades)-1)]
}

// locate returns the triangle that contains (x, y), or -1
func (d MeshDiagramData) locate(x, y float64) int {
	for e, t := range d.Triangles {
		a, b, c := d.Nodes[t[0]], d.Nodes[t[1]], d.Nodes[t[2]]
		det := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
		if det == 0 {
			continue
		}
		l1 := ((b.X-x)*(c.Y-y) - (c.X-x)*(b.Y-y)) / det
		l2 := ((c.X-x)*(a.Y-y) - (a.X-x)*(c.Y-y)) / det
		l3 := 1 - l1 - l2
		const tol = -1e-12
		if l1 >= tol && l2 >= tol && l3 >= tol {
			return e
		}
	}
	return -1
}

// DrawProfileChart plots a series as a terminal line chart
func DrawProfileChart(title string, values []float64, caption string) string {
	if len(values) == 0 {
		return ""
	}
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  %s\n", strings.ToUpper(title)))
	sb.WriteString(fmt.Sprintf("  %s\n\n", strings.Repeat("─", utf8.RuneCountInString(title))))

	graph := asciigraph.Plot(values,
		asciigraph.Height(10),
		asciigraph.Width(60),
		asciigraph.Precision(3),
		asciigraph.Offset(4),
		asciigraph.Caption(caption),
	)
	sb.WriteString(graph)
	sb.WriteString("\n")

	return sb.String()
}

// DrawSummaryBox creates a summary box for results
func DrawSummaryBox(title string, lines []string) string {
	var sb strings.Builder

	maxLen := utf8.RuneCountInString(title)
	for _, line := range lines {
		maxLen = max(maxLen, utf8.RuneCountInString(line))
	}

	row := func(s string) {
		pad := maxLen - utf8.RuneCountInString(s)
		sb.WriteString(fmt.Sprintf("  ║  %s%s  ║\n", s, strings.Repeat(" ", pad)))
	}

	border := strings.Repeat("═", maxLen+4)
	sb.WriteString(fmt.Sprintf("  ╔%s╗\n", border))
	row(title)
	sb.WriteString(fmt.Sprintf("  ╠%s╣\n", border))
	for _, line := range lines {
		row(line)
	}
	sb.WriteString(fmt.Sprintf("  ╚%s╝\n", border))

	return sb.String()
}
