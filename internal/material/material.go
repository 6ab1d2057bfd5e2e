package material

import "gonum.org/v1/gonum/mat"

// Orthotropic is a unidirectional prepreg ply material described in its
// principal axes:
// - 1 is the fiber direction
// - 2 is transverse to the fibers
// Tension (t) and compression (c) strengths are positive magnitudes.
type Orthotropic struct {
	Name string `json:"name"`

	// Elastic constants (Pa)
	E1   float64 `json:"e1"`
	E2   float64 `json:"e2"`
	G12  float64 `json:"g12"`  // derived from E1 and Nu12 when zero
	Nu12 float64 `json:"nu12"` // major Poisson ratio
	Nu21 float64 `json:"nu21"` // derived by Compute

	// Strength limits (Pa)
	Sig1T  float64 `json:"sig1t"`
	Sig1C  float64 `json:"sig1c"`
	Sig2T  float64 `json:"sig2t"`
	Sig2C  float64 `json:"sig2c"`
	TauMax float64 `json:"tau_max"`

	Density float64 `json:"density"` // kg/m³
	PrepH   float64 `json:"prep_h"`  // single prepreg layer thickness (m)

	// Q is the reduced stiffness matrix in the 1-2 axes, set by Compute
	Q *mat.Dense `json:"-"`
}

// Compute prepares the material for stiffness and strength calculations.
// E1 and E2 are required; G12 falls back to the isotropic relation.
// Calling it again recomputes the same values.
func (m *Orthotropic) Compute() error {
	if m.E1 == 0 {
		return &ConfigError{Material: m.Name, Field: "e1"}
	}
	if m.E2 == 0 {
		return &ConfigError{Material: m.Name, Field: "e2"}
	}
	if m.G12 == 0 {
		m.G12 = m.E1 / (2 * (1 + m.Nu12))
	}
	m.Nu21 = m.E2 * m.Nu12 / m.E1

	k := 1 - m.Nu12*m.Nu21
	m.Q = mat.NewDense(3, 3, []float64{
		m.E1 / k, m.E1 * m.Nu21 / k, 0,
		m.E2 * m.Nu12 / k, m.E2 / k, 0,
		0, 0, m.G12,
	})
	return nil
}

// IsComputed reports whether Compute has already run.
func (m *Orthotropic) IsComputed() bool {
	return m.Q != nil
}

// Stress converts principal-axis strains [ε1, ε2, γ12] into stresses
// [σ1, σ2, τ12].
func (m *Orthotropic) Stress(eps12 [3]float64) [3]float64 {
	var sig [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			sig[i] += m.Q.At(i, j) * eps12[j]
		}
	}
	return sig
}

// IsIsotropic reports whether both moduli agree within 0.1%.
func (m *Orthotropic) IsIsotropic() bool {
	return NearlyEqual(m.E1, m.E2, 1e-3)
}

// NearlyEqual compares two values by their relative difference. Values of
// opposite sign are only equal when both are below eps/2 in magnitude.
func NearlyEqual(a, b, eps float64) bool {
	if a == b {
		return true
	}
	absA, absB := abs(a), abs(b)
	if (a > 0 && b > 0) || (a < 0 && b < 0) {
		lo, hi := absA, absB
		if lo > hi {
			lo, hi = hi, lo
		}
		if (hi-lo)/lo < eps {
			return true
		}
	}
	half := eps / 2
	return absA < half && absB < half
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
