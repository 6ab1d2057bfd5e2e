package diagram

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	undeformedColor = color.Gray{Y: 190}
	deformedColor   = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	fixedColor      = color.Black
	loadColor       = color.RGBA{R: 0, G: 128, B: 0, A: 255}
	maxColor        = color.RGBA{R: 255, G: 0, B: 0, A: 255}
)

// ExportMeshDiagram exports the undeformed and the magnified deformed mesh
// to an image file. Element values, when present, colour the deformed
// elements from blue (low) to red (high).
func ExportMeshDiagram(data MeshDiagramData, filename string) error {
	if len(data.Nodes) == 0 {
		return fmt.Errorf("mesh diagram has no nodes")
	}

	scale := data.DisplacementScale()

	p := plot.New()
	p.Title.Text = data.Title
	if p.Title.Text == "" {
		p.Title.Text = "Panel Deformation"
	}
	p.X.Label.Text = fmt.Sprintf("x (m), displacements ×%.3g", scale)
	p.Y.Label.Text = "y (m)"

	deformed := func(i int) plotter.XY {
		n := data.Nodes[i]
		if i < len(data.Displacements) {
			u := data.Displacements[i]
			return plotter.XY{X: n.X + scale*u.X, Y: n.Y + scale*u.Y}
		}
		return plotter.XY{X: n.X, Y: n.Y}
	}

	top := 0.0
	for _, v := range data.ElementValues {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			top = math.Max(top, v)
		}
	}

	for e, t := range data.Triangles {
		outline := make(plotter.XYs, 4)
		for k := 0; k < 4; k++ {
			n := data.Nodes[t[k%3]]
			outline[k] = plotter.XY{X: n.X, Y: n.Y}
		}
		base, err := plotter.NewLine(outline)
		if err != nil {
			return err
		}
		base.LineStyle.Width = vg.Points(0.5)
		base.LineStyle.Color = undeformedColor
		p.Add(base)

		shape := plotter.XYs{deformed(t[0]), deformed(t[1]), deformed(t[2])}
		if e < len(data.ElementValues) {
			poly, err := plotter.NewPolygon(shape)
			if err != nil {
				return err
			}
			poly.Color = ramp(data.ElementValues[e], top)
			poly.LineStyle.Width = vg.Points(0.5)
			poly.LineStyle.Color = deformedColor
			p.Add(poly)
			continue
		}
		line, err := plotter.NewLine(append(shape, shape[0]))
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = deformedColor
		p.Add(line)
	}

	// Boundary markers on the deformed shape
	var fixed, loaded plotter.XYs
	for i := range data.Nodes {
		if i < len(data.Fixed) && data.Fixed[i] {
			fixed = append(fixed, deformed(i))
		}
		if i < len(data.Loaded) && data.Loaded[i] {
			loaded = append(loaded, deformed(i))
		}
	}
	if len(fixed) > 0 {
		s, err := plotter.NewScatter(fixed)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = fixedColor
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.TriangleGlyph{}
		p.Add(s)
		p.Legend.Add("fixed", s)
	}
	if len(loaded) > 0 {
		s, err := plotter.NewScatter(loaded)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = loadColor
		s.GlyphStyle.Radius = vg.Points(3)
		s.GlyphStyle.Shape = draw.BoxGlyph{}
		p.Add(s)
		p.Legend.Add("loaded", s)
	}

	if data.MaxNode >= 0 && data.MaxNode < len(data.Nodes) {
		pt := deformed(data.MaxNode)
		s, err := plotter.NewScatter(plotter.XYs{pt})
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = maxColor
		s.GlyphStyle.Radius = vg.Points(5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)

		umax := 0.0
		if data.MaxNode < len(data.Displacements) {
			u := data.Displacements[data.MaxNode]
			umax = math.Hypot(u.X, u.Y)
		}
		l, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{pt},
			Labels: []string{fmt.Sprintf("  |u|max=%.3e m", umax)},
		})
		if err != nil {
			return err
		}
		p.Add(l)
	}

	minX, minY, maxX, maxY := data.bounds()
	margin := 0.15 * math.Max(maxX-minX, maxY-minY)
	p.X.Min, p.X.Max = minX-margin, maxX+margin
	p.Y.Min, p.Y.Max = minY-margin, maxY+margin

	return save(p, 8*vg.Inch, 6*vg.Inch, filename)
}

// ExportPlyStressDiagram exports the principal ply stresses through the
// laminate thickness. Each ply is a constant step between its z bounds.
func ExportPlyStressDiagram(data LaminateDiagramData, filename string) error {
	if len(data.Plies) == 0 {
		return fmt.Errorf("laminate diagram has no plies")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Ply Stresses %s", data.Name)
	p.X.Label.Text = "Stress (MPa)"
	p.Y.Label.Text = "z (mm)"

	components := []struct {
		name  string
		color color.Color
		dash  []vg.Length
	}{
		{"σ1", color.RGBA{R: 0, G: 0, B: 139, A: 255}, nil},
		{"σ2", color.RGBA{R: 0, G: 100, B: 0, A: 255}, []vg.Length{vg.Points(5), vg.Points(3)}},
		{"τ12", color.RGBA{R: 255, G: 165, B: 0, A: 255}, []vg.Length{vg.Points(2), vg.Points(2)}},
	}

	maxStress := 0.0
	for c, comp := range components {
		steps := make(plotter.XYs, 0, 2*len(data.Plies))
		for _, ply := range data.Plies {
			s := ply.Sig12[c] / 1e6
			maxStress = math.Max(maxStress, math.Abs(s))
			steps = append(steps,
				plotter.XY{X: s, Y: ply.ZTop * 1e3},
				plotter.XY{X: s, Y: ply.ZBot * 1e3},
			)
		}
		line, err := plotter.NewLine(steps)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(2)
		line.LineStyle.Color = comp.color
		line.LineStyle.Dashes = comp.dash
		p.Add(line)
		p.Legend.Add(comp.name, line)
	}

	// Zero stress reference line
	h := data.Thickness * 1e3 / 2
	zeroLine, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -h}, {X: 0, Y: h}})
	if err != nil {
		return err
	}
	zeroLine.LineStyle.Width = vg.Points(1)
	zeroLine.LineStyle.Color = color.Gray{Y: 128}
	zeroLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	p.Add(zeroLine)

	// Ply interfaces
	for _, ply := range data.Plies[1:] {
		iface, err := plotter.NewLine(plotter.XYs{
			{X: -maxStress, Y: ply.ZTop * 1e3},
			{X: maxStress, Y: ply.ZTop * 1e3},
		})
		if err != nil {
			return err
		}
		iface.LineStyle.Width = vg.Points(0.5)
		iface.LineStyle.Color = color.Gray{Y: 200}
		p.Add(iface)
	}

	if data.ValueName != "" {
		xys := make([]plotter.XY, len(data.Plies))
		labels := make([]string, len(data.Plies))
		for i, ply := range data.Plies {
			xys[i] = plotter.XY{X: maxStress * 1.05, Y: (ply.ZTop + ply.ZBot) / 2 * 1e3}
			labels[i] = fmt.Sprintf("%.0f° %s", ply.Angle, formatValue(ply.Value))
		}
		l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return err
		}
		p.Add(l)
		p.X.Max = math.Max(p.X.Max, maxStress*1.6)
	}
	p.Legend.Top = true

	return save(p, 6*vg.Inch, 8*vg.Inch, filename)
}

// ramp maps v in [0, top] onto a blue to red colour
func ramp(v, top float64) color.Color {
	t := 1.0
	if top > 0 && !math.IsInf(v, 1) {
		t = math.Min(math.Max(v/top, 0), 1)
	}
	if math.IsNaN(v) {
		t = 0
	}
	return color.RGBA{R: uint8(255 * t), G: 64, B: uint8(255 * (1 - t)), A: 160}
}

// save writes the plot in the format given by the file extension
func save(p *plot.Plot, width, height vg.Length, filename string) error {
	dir := filepath.Dir(filename)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	switch filepath.Ext(filename) {
	case ".png", ".svg", ".pdf", ".jpg", ".jpeg":
		return p.Save(width, height, filename)
	default:
		return p.Save(width, height, filename+".png")
	}
}
