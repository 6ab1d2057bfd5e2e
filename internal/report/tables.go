package report

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/alexiusacademia/gopanel/internal/panel"
)

// Table is one titled block of rows. Cells hold string, int or float64.
type Table struct {
	Title  string
	Header []string
	Rows   [][]any
}

// LaminateTables lists the laminate properties and plies, and the ply
// stresses when a load case was solved.
func LaminateTables(lam *laminate.Laminate, stress *laminate.Stress) []Table {
	props := Table{
		Title:  "Laminate",
		Header: []string{"Quantity", "Value", "Unit"},
		Rows: [][]any{
			{"name", lam.Name, ""},
			{"plies", lam.NPlies(), ""},
			{"thickness", lam.Thickness, "m"},
			{"area density", lam.AreaDensity, "kg/m2"},
			{"Ex", lam.Ex, "Pa"},
			{"Ey", lam.Ey, "Pa"},
			{"Gxy", lam.Gxy, "Pa"},
			{"nu_xy", lam.NuXY, ""},
			{"nu_yx", lam.NuYX, ""},
		},
	}

	plies := Table{
		Title:  "Plies",
		Header: []string{"Ply", "Material", "Angle (deg)", "Layers", "Thickness (m)", "z bottom (m)", "z top (m)"},
	}
	for i, p := range lam.Plies() {
		plies.Rows = append(plies.Rows, []any{
			i + 1, p.Material.Name, p.AngleDegrees(), p.Layers, p.Thickness, p.ZBot, p.ZTop,
		})
	}

	abd := Table{
		Title:  "ABD",
		Header: []string{"", "1", "2", "3", "4", "5", "6"},
	}
	if lam.Stiffness != nil {
		for i := 0; i < 6; i++ {
			row := []any{i + 1}
			for j := 0; j < 6; j++ {
				row = append(row, lam.Stiffness.At(i, j))
			}
			abd.Rows = append(abd.Rows, row)
		}
	}

	tables := []Table{props, plies, abd}
	if stress != nil {
		tables = append(tables, StressTable("Ply Stress", stress))
	}
	return tables
}

// StressTable lists the principal strain, stress and failure indices of
// every ply.
func StressTable(title string, s *laminate.Stress) Table {
	t := Table{
		Title: title,
		Header: []string{
			"Ply", "eps1", "eps2", "gam12", "sig1 (Pa)", "sig2 (Pa)", "tau12 (Pa)",
		},
	}
	for _, ct := range material.CriterionTypes {
		t.Header = append(t.Header, "FI "+ct.String())
	}
	for i, p := range s.Plies {
		row := []any{i + 1, p.Eps12[0], p.Eps12[1], p.Eps12[2], p.Sig12[0], p.Sig12[1], p.Sig12[2]}
		for _, ct := range material.CriterionTypes {
			row = append(row, p.Criteria[ct].FailureIndex)
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// PanelTables lists the run summary, the laminate, the displacements and
// the critical elements of a solved panel.
func PanelTables(a *panel.Analysis) []Table {
	res := a.Result
	def := a.Model.Definition
	nLen, nWid := def.MeshDivisions()

	summary := Table{
		Title:  "Panel",
		Header: []string{"Quantity", "Value", "Unit"},
		Rows: [][]any{
			{"name", res.Name, ""},
			{"length", def.Length, "m"},
			{"width", def.Width, "m"},
			{"divisions", fmt.Sprintf("%d x %d", nLen, nWid), ""},
			{"nodes", res.NNodes, ""},
			{"elements", res.NElements, ""},
			{"fixed dofs", a.System.NFixed(), ""},
			{"ux min", res.Extrema[0].Min, "m"},
			{"ux max", res.Extrema[0].Max, "m"},
			{"uy min", res.Extrema[1].Min, "m"},
			{"uy max", res.Extrema[1].Max, "m"},
			{"max displacement", res.MaxDisplacement, "m"},
			{"max displacement node", res.MaxNode, ""},
			{"critical FI tsai-wu", res.CriticalFI(), ""},
		},
	}

	disp := Table{
		Title:  "Displacements",
		Header: []string{"Node", "x (m)", "y (m)", "ux (m)", "uy (m)"},
	}
	for _, d := range res.Displacements {
		disp.Rows = append(disp.Rows, []any{d.Node, d.X, d.Y, d.UX, d.UY})
	}

	critical := Table{
		Title:  "Critical",
		Header: []string{"Criterion", "Element", "Ply", "FI", "FoS", "MoS"},
	}
	for _, c := range res.Critical {
		critical.Rows = append(critical.Rows, []any{
			c.Criterion.Type.String(), c.Element, c.Ply + 1,
			c.Criterion.FailureIndex, c.Criterion.FactorOfSafety, c.Criterion.MarginOfSafety,
		})
	}

	elements := Table{
		Title:  "Elements",
		Header: []string{"Element", "i", "j", "k", "Area (m2)", "FI tsai-wu"},
	}
	for e, el := range a.Mesh.Elements {
		elements.Rows = append(elements.Rows, []any{e, el.I, el.J, el.K, a.Mesh.ElementArea(e), res.ElementFI[e]})
	}

	tables := []Table{summary, critical}
	tables = append(tables, LaminateTables(a.Model.Laminate, nil)...)
	if res.CriticalStress != nil {
		tables = append(tables, StressTable("Critical Ply Stress", res.CriticalStress))
	}
	return append(tables, disp, elements)
}

// formatCell renders a cell for text output
func formatCell(v any) string {
	switch x := v.(type) {
	case float64:
		switch {
		case math.IsInf(x, 1):
			return "inf"
		case math.IsInf(x, -1):
			return "-inf"
		case math.IsNaN(x):
			return "n/a"
		}
		return fmt.Sprintf("%.5g", x)
	case string:
		return x
	}
	return fmt.Sprint(v)
}
