package panel

import (
	"github.com/alexiusacademia/gopanel/internal/boundary"
	"github.com/alexiusacademia/gopanel/internal/fem"
	"github.com/alexiusacademia/gopanel/internal/laminate"
)

// DemoDefinition is a 1 × 1 quasi-isotropic KMU-4 panel meshed at 0.1,
// clamped on the left edge and pulled by a unit force at every right edge
// node.
func DemoDefinition() *Definition {
	return &Definition{
		Name:     "demo-1x1",
		Length:   1,
		Width:    1,
		ElemSize: 0.1,
		Laminate: laminate.Definition{
			Name: "KMU4 [0/45/-45/90]s",
			Materials: map[string]laminate.MaterialDef{
				"tape": {Preset: "KMU4"},
			},
			Plies: []laminate.PlyDef{
				{Material: "tape", Layers: 1, Angle: 0},
				{Material: "tape", Layers: 1, Angle: 45},
				{Material: "tape", Layers: 1, Angle: -45},
				{Material: "tape", Layers: 1, Angle: 90},
			},
			Symmetric: true,
		},
		Constraints: []Constraint{{Group: boundary.Left, Fixed: true}},
		Loads:       []Load{{Group: boundary.Right, Force: boundary.ForceVector{FX: 1}}},
	}
}

// Demo runs the demo panel.
func Demo(opts fem.Options) (*Analysis, error) {
	return Run(DemoDefinition(), opts)
}
