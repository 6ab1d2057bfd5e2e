package report

import (
	"github.com/alexiusacademia/gopanel/internal/diagram"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/alexiusacademia/gopanel/internal/panel"
)

// MeshDiagram prepares the drawing data of a solved panel, coloured by the
// Tsai-Wu failure index. A zero scale picks one automatically.
func MeshDiagram(a *panel.Analysis, scale float64) diagram.MeshDiagramData {
	res := a.Result
	data := diagram.MeshDiagramData{
		Title:         res.Name,
		Nodes:         make([]diagram.Point, len(a.Mesh.Nodes)),
		Displacements: make([]diagram.Point, len(a.Mesh.Nodes)),
		Triangles:     make([][3]int, len(a.Mesh.Elements)),
		Fixed:         make([]bool, len(a.Mesh.Nodes)),
		Loaded:        make([]bool, len(a.Mesh.Nodes)),
		ElementValues: res.ElementFI,
		MaxNode:       res.MaxNode,
		Scale:         scale,
	}
	for i, n := range a.Boundary.Nodes {
		data.Nodes[i] = diagram.Point{X: n.X, Y: n.Y}
		data.Fixed[i] = !n.Constraints.IsFree()
		data.Loaded[i] = !n.Forces.IsZero()
	}
	for _, d := range res.Displacements {
		data.Displacements[d.Node] = diagram.Point{X: d.UX, Y: d.UY}
	}
	for e, el := range a.Mesh.Elements {
		data.Triangles[e] = el.Indices()
	}
	return data
}

// LaminateDiagram prepares the stack drawing of a laminate. The ply values
// are one representation of one criterion; without a stress state they are
// left at zero.
func LaminateDiagram(lam *laminate.Laminate, stress *laminate.Stress, ct material.CriterionType, vt material.CriterionValueType) diagram.LaminateDiagramData {
	data := diagram.LaminateDiagramData{
		Name:      lam.Name,
		Thickness: lam.Thickness,
		Plies:     make([]diagram.PlyDiagramData, lam.NPlies()),
	}
	if stress != nil {
		data.ValueName = vt.String() + " " + ct.String()
	}
	for i, p := range lam.Plies() {
		pd := diagram.PlyDiagramData{
			Angle: p.AngleDegrees(),
			ZTop:  p.ZTop,
			ZBot:  p.ZBot,
		}
		if stress != nil && i < len(stress.Plies) {
			ps := stress.Plies[i]
			pd.Sig12 = ps.Sig12
			pd.Value, _ = ps.Criteria[ct].Value(vt)
		}
		data.Plies[i] = pd
	}
	return data
}
