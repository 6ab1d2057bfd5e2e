package laminate

import (
	"math"

	"github.com/alexiusacademia/gopanel/internal/material"
	"gonum.org/v1/gonum/mat"
)

// Ply is one layer of the laminate. Several plies may share one material.
type Ply struct {
	Material  *material.Orthotropic
	Thickness float64
	Angle     float64 // fiber angle from the laminate x axis (rad)
	Layers    int     // number of prepreg layers, 0 when thickness was given directly

	// Through-thickness bounds, assigned by Laminate.Compute
	ZTop float64
	ZBot float64

	// XY -> 12 transformation matrices
	T1 *mat.Dense
	T2 *mat.Dense

	// Stiffness is the ply's 6×6 [[A, B], [B, D]] contribution
	Stiffness *mat.Dense
}

// NewPly creates a ply with an explicit thickness.
func NewPly(m *material.Orthotropic, thickness, angleRad float64) *Ply {
	return &Ply{Material: m, Thickness: thickness, Angle: angleRad}
}

// NewPlyLayers creates a ply from a number of prepreg layers.
func NewPlyLayers(m *material.Orthotropic, layers int, angleRad float64) (*Ply, error) {
	if m == nil || m.PrepH == 0 {
		name := ""
		if m != nil {
			name = m.Name
		}
		return nil, &material.ConfigError{Material: name, Field: "prep_h"}
	}
	p := NewPly(m, float64(layers)*m.PrepH, angleRad)
	p.Layers = layers
	return p, nil
}

// clone copies the ply definition without its computed state.
func (p *Ply) clone() *Ply {
	return &Ply{Material: p.Material, Thickness: p.Thickness, Angle: p.Angle, Layers: p.Layers}
}

// AngleDegrees returns the fiber angle in degrees.
func (p *Ply) AngleDegrees() float64 {
	return p.Angle * 180 / math.Pi
}

// MidZ is the z coordinate of the ply mid-surface.
func (p *Ply) MidZ() float64 {
	return (p.ZBot + p.ZTop) / 2
}

// TransformMatrices returns T1 (stress) and T2 (strain) for an in-plane
// rotation by angle.
func TransformMatrices(angle float64) (t1, t2 *mat.Dense) {
	c := math.Cos(angle)
	s := math.Sin(angle)
	c2, s2, sc := c*c, s*s, s*c

	t1 = mat.NewDense(3, 3, []float64{
		c2, s2, -2 * sc,
		s2, c2, 2 * sc,
		sc, -sc, c2 - s2,
	})
	t2 = mat.NewDense(3, 3, []float64{
		c2, s2, -sc,
		s2, c2, sc,
		2 * sc, -2 * sc, c2 - s2,
	})
	return t1, t2
}

// compute builds the transformation matrices and the ply stiffness block.
// Bounds must already be assigned.
func (p *Ply) compute() {
	p.T1, p.T2 = TransformMatrices(p.Angle)

	var qxy mat.Dense
	qxy.Product(p.T1, p.Material.Q, p.T1.T())

	zt, zb := p.ZTop, p.ZBot
	var a, b, d mat.Dense
	a.Scale(zt-zb, &qxy)
	b.Scale((zt*zt-zb*zb)/2, &qxy)
	d.Scale((zt*zt*zt-zb*zb*zb)/3, &qxy)

	p.Stiffness = mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			p.Stiffness.Set(i, j, a.At(i, j))
			p.Stiffness.Set(i, j+3, b.At(i, j))
			p.Stiffness.Set(i+3, j, b.At(i, j))
			p.Stiffness.Set(i+3, j+3, d.At(i, j))
		}
	}
}

// PlyStress holds the mid-surface strain and stress of a ply in its
// principal axes, and the evaluated criteria.
type PlyStress struct {
	Eps12    [3]float64            `json:"eps12"`
	Sig12    [3]float64            `json:"sig12"`
	Criteria [4]material.Criterion `json:"criteria"`
}

// stress recovers the ply state from the laminate generalized strain
// [εx, εy, γxy, κx, κy, κxy].
func (p *Ply) stress(eps [6]float64) (PlyStress, error) {
	z := p.MidZ()
	var epsXY [3]float64
	for i := 0; i < 3; i++ {
		epsXY[i] = eps[i] + eps[i+3]*z
	}

	var ps PlyStress
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			ps.Eps12[i] += p.T1.At(j, i) * epsXY[j]
		}
	}
	ps.Sig12 = p.Material.Stress(ps.Eps12)

	crit, err := p.Material.Criteria(ps.Sig12)
	if err != nil {
		return ps, err
	}
	ps.Criteria = crit
	return ps, nil
}
