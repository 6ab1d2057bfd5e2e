package panel

import (
	"fmt"

	"github.com/alexiusacademia/gopanel/internal/boundary"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/mesh"
)

// Definition is the JSON description of a rectangular panel analysis
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Panel extent along x and y (m)
	Length float64 `json:"length"`
	Width  float64 `json:"width"`

	// Mesh density: either a target element size or explicit divisions
	// [along length, along width]
	ElemSize     float64 `json:"elem_size,omitempty"`
	Divisions    *[2]int `json:"divisions,omitempty"`
	StartVariant int     `json:"start_variant,omitempty"` // 1 or -1, default 1

	Laminate laminate.Definition `json:"laminate"`

	Constraints []Constraint `json:"constraints"`
	Loads       []Load       `json:"loads"`
}

// Constraint fixes degrees of freedom on a node group
type Constraint struct {
	Group boundary.NodeGroup `json:"group"`
	Dofs  []boundary.DofType `json:"dofs,omitempty"`
	Fixed bool               `json:"fixed,omitempty"` // all six dofs
}

// Assignment converts the constraint for boundary resolution.
func (c Constraint) Assignment() boundary.Assignment {
	cv := boundary.NewConstraint(c.Dofs...)
	if c.Fixed {
		cv = boundary.NewFixed()
	}
	return boundary.Assignment{Group: c.Group, Constraint: cv}
}

// Load applies a nodal force to every node of a group
type Load struct {
	Group boundary.NodeGroup   `json:"group"`
	Force boundary.ForceVector `json:"force"`
}

// Assignment converts the load for boundary resolution.
func (l Load) Assignment() boundary.Assignment {
	return boundary.Assignment{Group: l.Group, Force: l.Force}
}

// Validate checks the definition and reports all issues at once.
func (d *Definition) Validate() error {
	v := &laminate.ValidationError{}
	if d.Length <= 0 {
		v.Add("length must be positive")
	}
	if d.Width <= 0 {
		v.Add("width must be positive")
	}

	switch {
	case d.Divisions != nil:
		if d.Divisions[0] < 1 || d.Divisions[1] < 1 {
			v.Add("divisions must be at least 1")
		}
	case d.ElemSize < 0:
		v.Add("elem_size must be positive")
	case d.ElemSize == 0:
		v.Add("panel needs elem_size or divisions")
	}
	if v.ErrOrNil() == nil {
		nLen, nWid := d.MeshDivisions()
		if nLen > mesh.MaxDivisions || nWid > mesh.MaxDivisions {
			v.Add(fmt.Sprintf("mesh needs more than %d divisions along a side", mesh.MaxDivisions))
		}
	}
	if d.StartVariant != 0 && d.StartVariant != 1 && d.StartVariant != -1 {
		v.Add(fmt.Sprintf("start_variant must be 1 or -1, got %d", d.StartVariant))
	}

	for i, c := range d.Constraints {
		if !c.Fixed && len(c.Dofs) == 0 {
			v.Add(fmt.Sprintf("constraint %d on %s fixes no dofs", i+1, c.Group))
		}
	}
	for i, l := range d.Loads {
		if l.Force.IsZero() {
			v.Add(fmt.Sprintf("load %d on %s has zero force", i+1, l.Group))
		}
	}

	v.Merge("laminate: ", d.Laminate.Validate())
	return v.ErrOrNil()
}

// MeshDivisions returns the number of cells along the length and width.
func (d *Definition) MeshDivisions() (nLen, nWid int) {
	if d.Divisions != nil {
		return d.Divisions[0], d.Divisions[1]
	}
	return mesh.Divisions(d.Length, d.ElemSize), mesh.Divisions(d.Width, d.ElemSize)
}

// Variant returns the mesh start variant.
func (d *Definition) Variant() int {
	if d.StartVariant == 0 {
		return 1
	}
	return d.StartVariant
}

// Assignments lists constraints then loads.
func (d *Definition) Assignments() []boundary.Assignment {
	out := make([]boundary.Assignment, 0, len(d.Constraints)+len(d.Loads))
	for _, c := range d.Constraints {
		out = append(out, c.Assignment())
	}
	for _, l := range d.Loads {
		out = append(out, l.Assignment())
	}
	return out
}
