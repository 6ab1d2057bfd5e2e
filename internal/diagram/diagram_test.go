package diagram

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSquare is a 1×1 panel split into two triangles
func unitSquare() MeshDiagramData {
	return MeshDiagramData{
		Title:         "square",
		Nodes:         []Point{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Displacements: []Point{{0, 0}, {1e-3, 0}, {1e-3, 1e-4}, {0, 0}},
		Triangles:     [][3]int{{0, 1, 2}, {0, 2, 3}},
		Fixed:         []bool{true, false, false, true},
		Loaded:        []bool{false, true, true, false},
		ElementValues: []float64{0.2, 0.8},
		MaxNode:       2,
	}
}

func TestDrawSummaryBoxAligned(t *testing.T) {
	box := DrawSummaryBox("RESULT", []string{"σ = 12 MPa", "a much longer line of text"})
	lines := strings.Split(strings.TrimRight(box, "\n"), "\n")
	require.Len(t, lines, 6)
	width := utf8.RuneCountInString(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, utf8.RuneCountInString(l), l)
	}
	assert.Contains(t, box, "RESULT")
}

func TestFiberFill(t *testing.T) {
	tests := []struct {
		angle float64
		want  string
	}{
		{0, "─"},
		{180, "─"},
		{90, "│"},
		{-90, "│"},
		{45, "╱"},
		{-45, "╲"},
		{135, "╲"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fiberFill(tt.angle), "angle %v", tt.angle)
	}
}

func TestDrawLaminateStack(t *testing.T) {
	data := LaminateDiagramData{
		Name:      "cross-ply",
		Thickness: 4e-4,
		ValueName: "FI tsai-wu",
		Plies: []PlyDiagramData{
			{Angle: 0, ZTop: 2e-4, ZBot: 0, Value: 0.5},
			{Angle: 90, ZTop: 0, ZBot: -2e-4, Value: math.Inf(1)},
		},
	}
	out := DrawLaminateStack(data)
	assert.Contains(t, out, "cross-ply")
	assert.Contains(t, out, "FI tsai-wu")
	assert.Contains(t, out, strings.Repeat("─", 24))
	assert.Contains(t, out, strings.Repeat("│", 24))
	assert.Contains(t, out, "∞")
	assert.Contains(t, out, strings.Repeat("█", 20))
}

func TestDrawBars(t *testing.T) {
	out := DrawBars("critical", []string{"a", "bbb"}, []float64{1, 2})
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "a   │"+strings.Repeat("█", 20)+" 1\n")
	assert.Contains(t, out, "bbb │"+strings.Repeat("█", 40)+" 2\n")
}

func TestLocate(t *testing.T) {
	d := unitSquare()
	assert.Equal(t, 0, d.locate(0.9, 0.1))
	assert.Equal(t, 1, d.locate(0.1, 0.9))
	assert.Equal(t, -1, d.locate(1.5, 0.5))
}

func TestDrawFailureMap(t *testing.T) {
	d := unitSquare()
	out := DrawFailureMap(d, 10)
	assert.Contains(t, out, "square")
	// the upper left triangle carries the largest value
	assert.Contains(t, out, "@")
	assert.Contains(t, out, "'@' = 0.8")

	d.ElementValues = nil
	assert.Empty(t, DrawFailureMap(d, 10))
}

func TestDisplacementScale(t *testing.T) {
	d := unitSquare()
	umax := math.Hypot(1e-3, 1e-4)
	assert.InDelta(t, 0.1/umax, d.DisplacementScale(), 1e-9)

	d.Scale = 50
	assert.Equal(t, 50.0, d.DisplacementScale())

	d.Scale = 0
	d.Displacements = make([]Point, 4)
	assert.Equal(t, 1.0, d.DisplacementScale())
}

func TestDrawProfileChart(t *testing.T) {
	assert.Empty(t, DrawProfileChart("uy", nil, ""))
	out := DrawProfileChart("uy along right edge", []float64{0, 1, 2, 3}, "µm")
	assert.Contains(t, out, "UY ALONG RIGHT EDGE")
	assert.Contains(t, out, "µm")
}

func TestExportMeshDiagram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "mesh.png")
	require.NoError(t, ExportMeshDiagram(unitSquare(), path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	assert.Error(t, ExportMeshDiagram(MeshDiagramData{}, path))
}

func TestExportPlyStressDiagram(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plies.svg")
	data := LaminateDiagramData{
		Name:      "cross-ply",
		Thickness: 4e-4,
		ValueName: "FI",
		Plies: []PlyDiagramData{
			{Angle: 0, ZTop: 2e-4, ZBot: 0, Sig12: [3]float64{1e8, 2e6, -1e6}, Value: 0.3},
			{Angle: 90, ZTop: 0, ZBot: -2e-4, Sig12: [3]float64{4e6, 3e7, 1e6}, Value: 0.9},
		},
	}
	require.NoError(t, ExportPlyStressDiagram(data, path))
	_, err := os.Stat(path)
	assert.NoError(t, err)

	assert.Error(t, ExportPlyStressDiagram(LaminateDiagramData{}, path))
}
