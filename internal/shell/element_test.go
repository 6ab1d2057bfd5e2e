package shell

import (
	"errors"
	"math"
	"testing"

	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/material"
	"github.com/alexiusacademia/gopanel/internal/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func steelLaminate(t *testing.T) *laminate.Laminate {
	t.Helper()
	steel, err := material.Preset("STEEL")
	require.NoError(t, err)
	lam := laminate.New("steel")
	lam.AddPly(steel, 1e-3, 0)
	require.NoError(t, lam.Compute())
	return lam
}

// offAxisLaminate is a single KMU-4 ply at 30°, which is not invariant under
// in-plane rotation.
func offAxisLaminate(t *testing.T) *laminate.Laminate {
	t.Helper()
	kmu, err := material.Preset("KMU4")
	require.NoError(t, err)
	lam := laminate.New("kmu4-30")
	lam.AddPly(kmu, 1e-3, 30)
	require.NoError(t, lam.Compute())
	return lam
}

func node(idx int, x, y float64) mesh.Node {
	return mesh.Node{Index: idx, X: x, Y: y}
}

func computed(t *testing.T, lam *laminate.Laminate, a, b, c mesh.Node) *Element {
	t.Helper()
	e := New(0, a, b, c, lam)
	require.NoError(t, e.Compute())
	return e
}

func mulVec(m mat.Matrix, u [6]float64) []float64 {
	var out mat.VecDense
	out.MulVec(m, mat.NewVecDense(6, u[:]))
	return out.RawVector().Data
}

// rigidModes returns two translations and the in-plane rotation about the
// origin for the element nodes.
func rigidModes(e *Element) [3][6]float64 {
	var modes [3][6]float64
	for n, nd := range e.Nodes {
		modes[0][2*n] = 1
		modes[1][2*n+1] = 1
		modes[2][2*n] = -nd.Y
		modes[2][2*n+1] = nd.X
	}
	return modes
}

func TestComputeRightTriangle(t *testing.T) {
	lam := steelLaminate(t)
	e := computed(t, lam, node(0, 0, 0), node(1, 1, 0), node(2, 0, 1))

	assert.InDelta(t, 0.5, e.Area, 1e-12)
	assert.InDelta(t, 0.0, e.Phi, 1e-12)
	assert.True(t, mat.EqualApprox(e.R3, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12))
	assert.True(t, mat.EqualApprox(e.MembraneLocal, lam.A, 1e-6))
	assert.True(t, mat.EqualApprox(e.KGlobal, e.K, 1e-6))
	assert.Equal(t, [3]int{0, 1, 2}, e.Indices())

	r, c := e.B.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 6, c)
	assert.InDelta(t, -1.0, e.B.At(0, 0), 1e-12)
	assert.InDelta(t, 1.0, e.B.At(0, 2), 1e-12)
}

func TestExpandedRotations(t *testing.T) {
	lam := steelLaminate(t)
	e := computed(t, lam, node(0, 0, 0), node(1, 1, 1), node(2, 0, 1))

	for _, tc := range []struct {
		m *mat.Dense
		n int
	}{{e.R9, 9}, {e.R18, 18}, {e.R24, 24}} {
		r, c := tc.m.Dims()
		require.Equal(t, tc.n, r)
		require.Equal(t, tc.n, c)
		for b := 0; b < tc.n/3; b++ {
			block := tc.m.Slice(3*b, 3*b+3, 3*b, 3*b+3)
			assert.True(t, mat.EqualApprox(block, e.R3, 1e-15))
		}
		assert.Zero(t, tc.m.At(0, 3))
	}
}

func TestStiffnessSymmetricAndRigid(t *testing.T) {
	lam := steelLaminate(t)
	tests := []struct {
		name    string
		a, b, c mesh.Node
	}{
		{"variant 1 lower", node(0, 0, 0), node(1, 1, 0), node(4, 1, 1)},
		{"variant 1 upper", node(4, 1, 1), node(3, 0, 1), node(0, 0, 0)},
		{"variant -1 upper", node(4, 1, 1), node(3, 0, 1), node(1, 1, 0)},
		{"skewed", node(0, 0.2, 0.1), node(1, 1.3, 0.7), node(2, 0.4, 1.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := computed(t, lam, tt.a, tt.b, tt.c)

			scale := mat.Norm(e.KGlobal, math.Inf(1))
			require.Greater(t, scale, 0.0)
			for i := 0; i < 6; i++ {
				for j := 0; j < 6; j++ {
					assert.InDelta(t, e.KGlobal.At(i, j), e.KGlobal.At(j, i), 1e-9*scale)
				}
			}
			for _, mode := range rigidModes(e) {
				for _, f := range mulVec(e.KGlobal, mode) {
					assert.InDelta(t, 0.0, f, 1e-9*scale)
				}
				for _, s := range e.MembraneStrain(mode) {
					assert.InDelta(t, 0.0, s, 1e-12)
				}
			}
		})
	}
}

func TestReversedEdgeFrame(t *testing.T) {
	lam := steelLaminate(t)
	e := computed(t, lam, node(3, 1, 1), node(2, 0, 1), node(1, 1, 0))

	assert.InDelta(t, math.Pi, e.Phi, 1e-12)
	assert.InDelta(t, -1.0, e.R3.At(0, 0), 1e-12)
	assert.InDelta(t, -1.0, e.R3.At(1, 1), 1e-12)
	assert.InDelta(t, 1.0, e.R3.At(2, 2), 1e-12)
	assert.True(t, mat.EqualApprox(e.KGlobal, e.K, 1e-6))
}

func TestUniformStrain(t *testing.T) {
	lam := steelLaminate(t)
	const eps = 1e-4

	for _, nodes := range [][3]mesh.Node{
		{node(0, 0, 0), node(1, 1, 0), node(2, 0, 1)},
		{node(0, 1, 1), node(1, 0, 1), node(2, 1, 0)},
	} {
		e := computed(t, lam, nodes[0], nodes[1], nodes[2])
		var u [6]float64
		for n, nd := range e.Nodes {
			u[2*n] = eps * nd.X
		}
		got := e.LaminateStrain(u)
		assert.InDelta(t, eps, got[0], 1e-12)
		assert.InDelta(t, 0.0, got[1], 1e-12)
		assert.InDelta(t, 0.0, got[2], 1e-12)
		assert.Zero(t, got[3])

		s, err := lam.StressFromStrain(got)
		require.NoError(t, err)
		assert.Greater(t, s.Plies[0].Sig12[0], 0.0)
	}
}

func TestComputeIsRepeatable(t *testing.T) {
	lam := steelLaminate(t)
	e := computed(t, lam, node(0, 0, 0), node(1, 2, 0), node(2, 0.5, 1))
	first := mat.DenseCopyOf(e.KGlobal)
	require.NoError(t, e.Compute())
	assert.True(t, mat.Equal(first, e.KGlobal))
}

func TestComputeErrors(t *testing.T) {
	lam := steelLaminate(t)

	e := New(7, node(0, 0, 0), node(1, 1, 0), node(2, 2, 0), lam)
	err := e.Compute()
	var de *DegenerateError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 7, de.Element)
	assert.Equal(t, [3]int{0, 1, 2}, de.Nodes)

	raw := laminate.New("raw")
	e = New(0, node(0, 0, 0), node(1, 1, 0), node(2, 0, 1), raw)
	assert.ErrorIs(t, e.Compute(), laminate.ErrNotComputed)
}

func TestStiffnessIndependentOfNodeOrder(t *testing.T) {
	lam := offAxisLaminate(t)
	tests := []struct {
		name  string
		nodes [3]mesh.Node
	}{
		{"right triangle", [3]mesh.Node{node(0, 0, 0), node(1, 1, 0), node(2, 0, 1)}},
		{"skewed", [3]mesh.Node{node(0, 0.2, 0.1), node(1, 1.3, 0.7), node(2, 0.4, 1.5)}},
	}
	orders := []struct {
		name string
		perm [3]int
	}{
		{"cyclic", [3]int{1, 2, 0}},
		{"cyclic twice", [3]int{2, 0, 1}},
		{"clockwise", [3]int{0, 2, 1}},
	}
	for _, tt := range tests {
		ref := computed(t, lam, tt.nodes[0], tt.nodes[1], tt.nodes[2])
		scale := mat.Norm(ref.KGlobal, math.Inf(1))
		for _, o := range orders {
			t.Run(tt.name+"/"+o.name, func(t *testing.T) {
				p := o.perm
				e := computed(t, lam, tt.nodes[p[0]], tt.nodes[p[1]], tt.nodes[p[2]])
				for a := 0; a < 3; a++ {
					for b := 0; b < 3; b++ {
						for r := 0; r < 2; r++ {
							for c := 0; c < 2; c++ {
								assert.InDelta(t, ref.KGlobal.At(2*p[a]+r, 2*p[b]+c), e.KGlobal.At(2*a+r, 2*b+c), 1e-9*scale)
							}
						}
					}
				}
			})
		}
	}
}

func TestRightTriangleKeepsLaminateAxes(t *testing.T) {
	lam := offAxisLaminate(t)
	ref := computed(t, lam, node(0, 0, 0), node(1, 1, 0), node(2, 0, 1))
	require.True(t, mat.EqualApprox(ref.MembraneLocal, lam.A, 1e-6))

	// same triangle entered from node k: φ = 3π/4
	e := computed(t, lam, node(1, 1, 0), node(2, 0, 1), node(0, 0, 0))
	assert.InDelta(t, 3*math.Pi/4, e.Phi, 1e-12)
	assert.False(t, mat.EqualApprox(e.MembraneLocal, lam.A, 1e-3*mat.Norm(lam.A, math.Inf(1))))
}

func TestLaminateStrainRecoversUniformField(t *testing.T) {
	lam := offAxisLaminate(t)
	want := [3]float64{1e-4, -3e-5, 2e-5}

	tests := []struct {
		name  string
		nodes [3]mesh.Node
	}{
		{"phi 45", [3]mesh.Node{node(0, 0, 0), node(1, 1, 1), node(2, -1, 1)}},
		{"phi 90 clockwise", [3]mesh.Node{node(0, 0, 0), node(1, 0, 1), node(2, 1, 0)}},
		{"skewed", [3]mesh.Node{node(0, 0.2, 0.1), node(1, 1.3, 0.7), node(2, 0.4, 1.5)}},
		{"skewed clockwise", [3]mesh.Node{node(0, 0.2, 0.1), node(1, 0.4, 1.5), node(2, 1.3, 0.7)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := computed(t, lam, tt.nodes[0], tt.nodes[1], tt.nodes[2])
			var u [6]float64
			for n, nd := range e.Nodes {
				u[2*n] = want[0]*nd.X + want[2]/2*nd.Y
				u[2*n+1] = want[2]/2*nd.X + want[1]*nd.Y
			}
			got := e.LaminateStrain(u)
			for i := 0; i < 3; i++ {
				assert.InDelta(t, want[i], got[i], 1e-12)
			}
			assert.Equal(t, [3]float64{}, [3]float64{got[3], got[4], got[5]})
		})
	}
}

func TestFrameTransformsInverse(t *testing.T) {
	for _, phi := range []float64{0.3, math.Pi / 4, 2.1} {
		c, s := math.Cos(phi), math.Sin(phi)
		for _, r := range [][4]float64{{c, s, -s, c}, {c, s, s, -c}} {
			t1, t2 := frameTransforms(r[0], r[1], r[2], r[3])
			var prod mat.Dense
			prod.Mul(t1.T(), t2)
			assert.True(t, mat.EqualApprox(&prod, mat.NewDiagDense(3, []float64{1, 1, 1}), 1e-12))
		}
		t1, t2 := frameTransforms(c, s, -s, c)
		p1, p2 := laminate.TransformMatrices(-phi)
		assert.True(t, mat.EqualApprox(t1, p1, 1e-12))
		assert.True(t, mat.EqualApprox(t2, p2, 1e-12))
	}
}
