package laminate

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gopanel/internal/material"
	"gonum.org/v1/gonum/mat"
)

// Laminate is a stack of orthotropic plies homogenized into one equivalent
// shell material. Ply order is the stacking order; the last ply sits at the
// bottom (z = -h/2).
type Laminate struct {
	Name  string
	plies []*Ply

	Thickness   float64 // m
	AreaDensity float64 // kg/m²

	Stiffness  *mat.Dense // 6×6 [[A, B], [B, D]]
	Compliance *mat.Dense // inverse of Stiffness

	// 3×3 sub-blocks of Stiffness
	A *mat.Dense // membrane
	C *mat.Dense // membrane-bending coupling
	D *mat.Dense // bending

	// Engineering constants
	Ex   float64
	Ey   float64
	Gxy  float64
	NuXY float64
	NuYX float64
}

// New creates an empty laminate.
func New(name string) *Laminate {
	return &Laminate{Name: name}
}

// AddPly appends a ply with an explicit thickness.
func (l *Laminate) AddPly(m *material.Orthotropic, thickness, angleDeg float64) {
	l.plies = append(l.plies, NewPly(m, thickness, deg2rad(angleDeg)))
}

// AddPlyLayers appends a ply made of n prepreg layers.
func (l *Laminate) AddPlyLayers(m *material.Orthotropic, n int, angleDeg float64) error {
	p, err := NewPlyLayers(m, n, deg2rad(angleDeg))
	if err != nil {
		return err
	}
	l.plies = append(l.plies, p)
	return nil
}

// RemovePly deletes the ply at index i.
func (l *Laminate) RemovePly(i int) error {
	if i < 0 || i >= len(l.plies) {
		return &IndexError{Index: i, Len: len(l.plies)}
	}
	l.plies = append(l.plies[:i], l.plies[i+1:]...)
	return nil
}

// NPlies returns the number of plies.
func (l *Laminate) NPlies() int { return len(l.plies) }

// NLayers returns the total number of prepreg layers.
func (l *Laminate) NLayers() int {
	n := 0
	for _, p := range l.plies {
		n += p.Layers
	}
	return n
}

// Ply returns the ply at index i.
func (l *Laminate) Ply(i int) *Ply { return l.plies[i] }

// Plies returns the ply stack in stacking order.
func (l *Laminate) Plies() []*Ply { return l.plies }

// MakeSymmetric appends the current stack in reverse order.
func (l *Laminate) MakeSymmetric() {
	for i := len(l.plies) - 1; i >= 0; i-- {
		l.plies = append(l.plies, l.plies[i].clone())
	}
}

// RepeatPlies makes the stack n consecutive copies of itself.
func (l *Laminate) RepeatPlies(n int) {
	np := len(l.plies)
	for r := 0; r < n-1; r++ {
		for j := 0; j < np; j++ {
			l.plies = append(l.plies, l.plies[j].clone())
		}
	}
}

// Validate collects every problem that prevents Compute.
func (l *Laminate) Validate() error {
	v := &ValidationError{}
	if len(l.plies) == 0 {
		v.Add("laminate has no plies")
	}
	for i, p := range l.plies {
		if p.Material == nil {
			v.Add(fmt.Sprintf("ply %d has no material", i+1))
		}
	}
	for i, p := range l.plies {
		if p.Thickness == 0 {
			v.Add(fmt.Sprintf("ply %d has zero thickness", i+1))
		}
	}
	return v.ErrOrNil()
}

// Compute homogenizes the stack. It must not run concurrently with readers
// of the same laminate.
func (l *Laminate) Compute() error {
	if err := l.Validate(); err != nil {
		return err
	}

	seen := make(map[*material.Orthotropic]struct{})
	for _, p := range l.plies {
		if _, ok := seen[p.Material]; ok {
			continue
		}
		seen[p.Material] = struct{}{}
		if err := p.Material.Compute(); err != nil {
			return err
		}
	}

	l.Thickness = 0
	l.AreaDensity = 0
	for _, p := range l.plies {
		l.Thickness += p.Thickness
		l.AreaDensity += p.Material.Density * p.Thickness
	}

	zbot := -l.Thickness / 2
	for i := len(l.plies) - 1; i >= 0; i-- {
		p := l.plies[i]
		p.ZBot = zbot
		p.ZTop = zbot + p.Thickness
		zbot = p.ZTop
	}

	stiff := mat.NewDense(6, 6, nil)
	for _, p := range l.plies {
		p.compute()
		stiff.Add(stiff, p.Stiffness)
	}

	var inv mat.Dense
	if err := inv.Inverse(stiff); err != nil {
		return fmt.Errorf("laminate %s (%v): %w", l.Name, err, ErrSingularStiffness)
	}

	l.Stiffness = stiff
	l.Compliance = &inv
	l.A = mat.DenseCopyOf(stiff.Slice(0, 3, 0, 3))
	l.C = mat.DenseCopyOf(stiff.Slice(0, 3, 3, 6))
	l.D = mat.DenseCopyOf(stiff.Slice(3, 6, 3, 6))

	g11 := stiff.At(0, 0)
	g12 := stiff.At(0, 1)
	g22 := stiff.At(1, 1)
	g66 := stiff.At(2, 2)
	h := l.Thickness
	l.Ex = (g11 - g12*g12/g22) / h
	l.Ey = (g22 - g12*g12/g11) / h
	l.Gxy = g66 / h
	l.NuXY = g12 / g22
	l.NuYX = g12 / g11
	return nil
}

// IsComputed reports whether Compute has succeeded.
func (l *Laminate) IsComputed() bool {
	return l.Compliance != nil
}

// Stress recovers ply stresses from a distributed load
// [Nx, Ny, Nxy, Mx, My, Mxy].
func (l *Laminate) Stress(load [6]float64) (*Stress, error) {
	if !l.IsComputed() {
		return nil, ErrNotComputed
	}
	var eps [6]float64
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			eps[i] += l.Compliance.At(i, j) * load[j]
		}
	}
	return l.StressFromStrain(eps)
}

// StressFromStrain recovers ply stresses from a mid-plane generalized
// strain [εx, εy, γxy, κx, κy, κxy].
func (l *Laminate) StressFromStrain(eps [6]float64) (*Stress, error) {
	if !l.IsComputed() {
		return nil, ErrNotComputed
	}
	s := &Stress{Strain: eps, Plies: make([]PlyStress, len(l.plies))}
	for i, p := range l.plies {
		ps, err := p.stress(eps)
		if err != nil {
			return nil, fmt.Errorf("ply %d: %w", i+1, err)
		}
		s.Plies[i] = ps
	}
	return s, nil
}

func deg2rad(deg float64) float64 {
	return deg * math.Pi / 180
}
