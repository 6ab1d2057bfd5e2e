package fem

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// PivotTolerance is the smallest accepted ratio U_jj²/K_jj of a Cholesky
// pivot to its diagonal entry.
const PivotTolerance = 1e-10

// Solve factorizes the system with a dense Cholesky decomposition and
// returns the nodal displacements.
//
// The CSR matrix is expanded into a mat.SymDense first, so memory grows as
// O(n²) and time as O(n³) in the number of equations. Callers that accept
// meshes from outside bound their size before assembly.
func Solve(sys *System) (*Solution, error) {
	n := sys.Size()
	if n == 0 {
		return nil, fmt.Errorf("empty system: %w", ErrSingularSystem)
	}

	k := mat.NewSymDense(n, nil)
	sys.K.DoNonZero(func(i, j int, v float64) {
		if j >= i {
			k.SetSym(i, j, v)
		}
	})

	var chol mat.Cholesky
	if ok := chol.Factorize(k); !ok {
		return nil, fmt.Errorf("cholesky factorization failed: %w", ErrSingularSystem)
	}

	u := chol.RawU()
	for j := 0; j < n; j++ {
		if sys.Fixed[j] {
			continue
		}
		kjj := k.At(j, j)
		ujj := u.At(j, j)
		if kjj <= 0 || ujj*ujj/kjj < PivotTolerance {
			return nil, fmt.Errorf("equation %d (node %d) has relative pivot %.3g: %w",
				j, j/DofsPerNode, ujj*ujj/kjj, ErrSingularSystem)
		}
	}

	var x mat.VecDense
	if err := chol.SolveVecTo(&x, mat.NewVecDense(n, sys.F)); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, fmt.Errorf("condition number %.3g: %w", float64(cond), ErrSingularSystem)
		}
		return nil, err
	}

	out := make([]float64, n)
	for i := range out {
		out[i] = x.AtVec(i)
	}
	return &Solution{NNodes: sys.NNodes, U: out}, nil
}

// Range is the extent of one displacement component
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	MinNode int     `json:"min_node"`
	MaxNode int     `json:"max_node"`
}

// Solution holds nodal displacements [ux0, uy0, ux1, uy1, ...]
type Solution struct {
	NNodes int
	U      []float64
}

// Displacement returns the displacement of one node.
func (s *Solution) Displacement(node int) (ux, uy float64) {
	return s.U[Dof(node, 0)], s.U[Dof(node, 1)]
}

// ElementDisplacements gathers the six nodal displacements of a triangle.
func (s *Solution) ElementDisplacements(idx [3]int) [6]float64 {
	var u [6]float64
	for a, node := range idx {
		u[2*a], u[2*a+1] = s.Displacement(node)
	}
	return u
}

// Extrema returns the min/max of ux and uy over all nodes.
func (s *Solution) Extrema() [2]Range {
	var r [2]Range
	for d := 0; d < DofsPerNode; d++ {
		r[d] = Range{Min: math.Inf(1), Max: math.Inf(-1)}
		for node := 0; node < s.NNodes; node++ {
			v := s.U[Dof(node, d)]
			if v < r[d].Min {
				r[d].Min, r[d].MinNode = v, node
			}
			if v > r[d].Max {
				r[d].Max, r[d].MaxNode = v, node
			}
		}
	}
	return r
}

// MaxMagnitude returns the node with the largest displacement magnitude.
func (s *Solution) MaxMagnitude() (node int, value float64) {
	for i := 0; i < s.NNodes; i++ {
		ux, uy := s.Displacement(i)
		if m := math.Hypot(ux, uy); m > value {
			node, value = i, m
		}
	}
	return node, value
}
