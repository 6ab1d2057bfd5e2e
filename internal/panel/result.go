package panel

import (
	"fmt"

	"github.com/alexiusacademia/gopanel/internal/fem"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/alexiusacademia/gopanel/internal/mesh"
	"github.com/alexiusacademia/gopanel/internal/shell"
)

// NodeResult is the displacement of one node
type NodeResult struct {
	Node int     `json:"node"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	UX   float64 `json:"ux"`
	UY   float64 `json:"uy"`
}

// CriticalElement is the element and ply with the largest failure index
// for one criterion
type CriticalElement struct {
	Element   int                `json:"element"`
	Ply       int                `json:"ply"`
	Criterion material.Criterion `json:"criterion"`
}

// Result summarises a solved panel
type Result struct {
	Name      string `json:"name"`
	NNodes    int    `json:"nodes"`
	NElements int    `json:"elements"`

	Displacements   []NodeResult `json:"displacements"`
	Extrema         [2]fem.Range `json:"extrema"` // ux, uy
	MaxNode         int          `json:"max_node"`
	MaxDisplacement float64      `json:"max_displacement"`

	// Critical per criterion, in material.CriterionTypes order
	Critical []CriticalElement `json:"critical"`

	// ElementFI is the largest Tsai-Wu failure index over the plies of
	// each element
	ElementFI []float64 `json:"element_fi"`

	// Ply stress of the Tsai-Wu critical element
	CriticalStress *laminate.Stress `json:"critical_stress"`
}

// CriticalFI returns the Tsai-Wu failure index of the critical element.
func (r *Result) CriticalFI() float64 {
	for _, c := range r.Critical {
		if c.Criterion.Type == material.TsaiWu {
			return c.Criterion.FailureIndex
		}
	}
	return 0
}

// Results recovers displacements and element ply stresses.
func (m *Model) Results(msh *mesh.Mesh, elems []*shell.Element, sol *fem.Solution) (*Result, error) {
	res := &Result{
		Name:          m.Definition.Name,
		NNodes:        msh.NNodes(),
		NElements:     msh.NElements(),
		Displacements: make([]NodeResult, msh.NNodes()),
		Extrema:       sol.Extrema(),
		ElementFI:     make([]float64, len(elems)),
	}
	for i, n := range msh.Nodes {
		ux, uy := sol.Displacement(i)
		res.Displacements[i] = NodeResult{Node: i, X: n.X, Y: n.Y, UX: ux, UY: uy}
	}
	res.MaxNode, res.MaxDisplacement = sol.MaxMagnitude()

	res.Critical = make([]CriticalElement, len(material.CriterionTypes))
	for i := range res.Critical {
		res.Critical[i].Element = -1
	}

	for e, el := range elems {
		eps := el.LaminateStrain(sol.ElementDisplacements(el.Indices()))
		s, err := m.Laminate.StressFromStrain(eps)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", e, err)
		}
		for i, ct := range material.CriterionTypes {
			ply, c := s.Critical(ct)
			cur := &res.Critical[i]
			if cur.Element < 0 || c.FailureIndex > cur.Criterion.FailureIndex {
				*cur = CriticalElement{Element: e, Ply: ply, Criterion: c}
				if ct == material.TsaiWu {
					res.CriticalStress = s
				}
			}
			if ct == material.TsaiWu {
				res.ElementFI[e] = c.FailureIndex
			}
		}
	}
	return res, nil
}
