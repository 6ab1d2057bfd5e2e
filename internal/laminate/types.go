package laminate

import (
	"fmt"
	"sort"

	"github.com/alexiusacademia/gopanel/internal/material"
)

// Definition is the JSON description of a laminate and an optional load
// case.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	// Named materials used by the plies. A material either references a
	// catalog preset or lists its own properties.
	Materials map[string]MaterialDef `json:"materials"`

	// Plies in stacking order (top to bottom)
	Plies []PlyDef `json:"plies"`

	// Stack operations, applied in this order after the plies are added
	Symmetric bool `json:"symmetric,omitempty"`
	Repeat    int  `json:"repeat,omitempty"`

	// Distributed load [Nx, Ny, Nxy, Mx, My, Mxy] (N/m, N·m/m)
	Load *[6]float64 `json:"load,omitempty"`
}

// MaterialDef is either a preset reference or explicit properties
type MaterialDef struct {
	Preset string `json:"preset,omitempty"`
	material.Orthotropic
}

// PlyDef describes one ply. Exactly one of Thickness and Layers is given.
type PlyDef struct {
	Material  string  `json:"material"`
	Thickness float64 `json:"thickness,omitempty"` // m
	Layers    int     `json:"layers,omitempty"`    // prepreg layers
	Angle     float64 `json:"angle"`               // degrees
}

// Validate checks the definition and reports all issues at once.
func (d *Definition) Validate() error {
	v := &ValidationError{}
	if len(d.Plies) == 0 {
		v.Add("laminate must have at least one ply")
	}
	if d.Repeat < 0 {
		v.Add("repeat must not be negative")
	}

	names := make([]string, 0, len(d.Materials))
	for name := range d.Materials {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := d.Materials[name]
		if m.Preset == "" && (m.E1 <= 0 || m.E2 <= 0) {
			v.Add(fmt.Sprintf("material %q needs a preset or positive e1 and e2", name))
		}
	}

	for i, p := range d.Plies {
		md, ok := d.Materials[p.Material]
		if !ok {
			if _, err := material.Preset(p.Material); err != nil {
				v.Add(fmt.Sprintf("ply %d: unknown material %q", i+1, p.Material))
			}
		}
		switch {
		case p.Thickness > 0 && p.Layers > 0:
			v.Add(fmt.Sprintf("ply %d: give either thickness or layers, not both", i+1))
		case p.Thickness < 0 || p.Layers < 0:
			v.Add(fmt.Sprintf("ply %d: thickness and layers must be positive", i+1))
		case p.Thickness == 0 && p.Layers == 0:
			v.Add(fmt.Sprintf("ply %d must have a thickness or a layer count", i+1))
		case p.Layers > 0 && ok && md.Preset == "" && md.PrepH <= 0:
			v.Add(fmt.Sprintf("ply %d: material %q has no prepreg thickness for layers", i+1, p.Material))
		}
	}
	return v.ErrOrNil()
}

// Build creates and computes the laminate. Plies naming the same material
// share one material instance.
func (d *Definition) Build() (*Laminate, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	resolved := make(map[string]*material.Orthotropic)
	lookup := func(name string) (*material.Orthotropic, error) {
		if m, ok := resolved[name]; ok {
			return m, nil
		}
		var m *material.Orthotropic
		md, ok := d.Materials[name]
		switch {
		case !ok:
			p, err := material.Preset(name)
			if err != nil {
				return nil, err
			}
			m = p
		case md.Preset != "":
			p, err := material.Preset(md.Preset)
			if err != nil {
				return nil, err
			}
			m = p
		default:
			own := md.Orthotropic
			if own.Name == "" {
				own.Name = name
			}
			m = &own
		}
		resolved[name] = m
		return m, nil
	}

	lam := New(d.Name)
	for i, p := range d.Plies {
		m, err := lookup(p.Material)
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", i+1, err)
		}
		if p.Layers > 0 {
			if err := lam.AddPlyLayers(m, p.Layers, p.Angle); err != nil {
				return nil, fmt.Errorf("ply %d: %w", i+1, err)
			}
			continue
		}
		lam.AddPly(m, p.Thickness, p.Angle)
	}
	if d.Symmetric {
		lam.MakeSymmetric()
	}
	if d.Repeat > 1 {
		lam.RepeatPlies(d.Repeat)
	}

	if err := lam.Compute(); err != nil {
		return nil, err
	}
	return lam, nil
}
