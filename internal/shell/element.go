package shell

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/mesh"
	"gonum.org/v1/gonum/mat"
)

// Element is a 3-node flat triangular shell. Only the membrane stiffness is
// assembled; the bending block is kept for stress output.
type Element struct {
	Index    int
	Nodes    [3]mesh.Node
	Laminate *laminate.Laminate

	Area float64

	// Direction cosines: rows are the local x, y, z axes
	R3  *mat.Dense
	R9  *mat.Dense
	R18 *mat.Dense
	R24 *mat.Dense

	// Node coordinates in the local frame
	Local [3][3]float64

	// Phi is the angle of edge i→j from the global x axis
	Phi float64

	// T1 and T2 map laminate-axis stress and strain into element axes
	T1  *mat.Dense
	T1t *mat.Dense
	T2  *mat.Dense
	T2t *mat.Dense

	MembraneLocal *mat.Dense // T1·A·T1ᵗ
	BendingLocal  *mat.Dense // T1·D·T1ᵗ

	B       *mat.Dense // 3×6 membrane strain-displacement
	K       *mat.Dense // 6×6 membrane stiffness in local axes
	KGlobal *mat.Dense // K rotated into global in-plane axes
	rot     *mat.Dense // 6×6 global -> local displacement rotation
}

// New creates an element over three nodes. The laminate must be computed
// before Compute is called and is only read.
func New(index int, i, j, k mesh.Node, lam *laminate.Laminate) *Element {
	return &Element{Index: index, Nodes: [3]mesh.Node{i, j, k}, Laminate: lam}
}

// Indices returns the global node indices in element order.
func (e *Element) Indices() [3]int {
	return [3]int{e.Nodes[0].Index, e.Nodes[1].Index, e.Nodes[2].Index}
}

// Compute derives every element matrix. Calling it again rewrites all
// derived fields.
func (e *Element) Compute() error {
	if e.Laminate == nil || !e.Laminate.IsComputed() {
		return fmt.Errorf("element %d: %w", e.Index, laminate.ErrNotComputed)
	}

	e.computeArea()
	if e.Area == 0 {
		return &DegenerateError{Element: e.Index, Nodes: e.Indices()}
	}

	e.computeRotation()
	e.computeLocalCoordinates()
	e.computePhi()
	e.computeTransforms()
	e.computeLocalStiffness()
	e.computeB()
	e.computeK()
	return nil
}

func (e *Element) computeArea() {
	e.Area = mesh.TriangleArea(e.Nodes[0].Point(), e.Nodes[1].Point(), e.Nodes[2].Point())
}

func (e *Element) computeRotation() {
	i, j, k := e.Nodes[0].Point(), e.Nodes[1].Point(), e.Nodes[2].Point()
	vij := vec(j.Sub(i))
	vik := vec(k.Sub(i))

	vx := unit(vij)
	vz := unit(crossVec(vij, vik))
	vy := crossVec(vz, vx)

	e.R3 = mat.NewDense(3, 3, nil)
	e.R3.SetRow(0, vx[:])
	e.R3.SetRow(1, vy[:])
	e.R3.SetRow(2, vz[:])

	e.R9 = expand(e.R3, 3)
	e.R18 = expand(e.R3, 6)
	e.R24 = expand(e.R3, 8)
}

func (e *Element) computeLocalCoordinates() {
	for n, node := range e.Nodes {
		g := vec(node.Point())
		for r := 0; r < 3; r++ {
			e.Local[n][r] = e.R3.At(r, 0)*g[0] + e.R3.At(r, 1)*g[1] + e.R3.At(r, 2)*g[2]
		}
	}
}

func (e *Element) computePhi() {
	d := e.Nodes[1].Point().Sub(e.Nodes[0].Point())
	e.Phi = math.Atan2(d.Y, d.X)
}

// computeTransforms builds T1 (stress) and T2 (engineering strain), which
// map laminate axes into element axes. The laminate x axis lies at −φ from
// the local x axis, so for counter-clockwise nodes T1 and T2 equal the ply
// transforms at −φ. Clockwise nodes flip the local y axis and the shear
// terms follow.
func (e *Element) computeTransforms() {
	e.T1, e.T2 = frameTransforms(e.R3.At(0, 0), e.R3.At(0, 1), e.R3.At(1, 0), e.R3.At(1, 1))
	e.T1t = mat.DenseCopyOf(e.T1.T())
	e.T2t = mat.DenseCopyOf(e.T2.T())
}

// frameTransforms returns the Voigt stress and strain transforms for the
// in-plane direction cosines r (rows are the target axes).
func frameTransforms(r11, r12, r21, r22 float64) (t1, t2 *mat.Dense) {
	t1 = mat.NewDense(3, 3, []float64{
		r11 * r11, r12 * r12, 2 * r11 * r12,
		r21 * r21, r22 * r22, 2 * r21 * r22,
		r11 * r21, r12 * r22, r11*r22 + r12*r21,
	})
	t2 = mat.NewDense(3, 3, []float64{
		r11 * r11, r12 * r12, r11 * r12,
		r21 * r21, r22 * r22, r21 * r22,
		2 * r11 * r21, 2 * r12 * r22, r11*r22 + r12*r21,
	})
	return t1, t2
}

func (e *Element) computeLocalStiffness() {
	e.MembraneLocal = mat.NewDense(3, 3, nil)
	e.MembraneLocal.Product(e.T1, e.Laminate.A, e.T1t)
	e.BendingLocal = mat.NewDense(3, 3, nil)
	e.BendingLocal.Product(e.T1, e.Laminate.D, e.T1t)
}

func (e *Element) computeB() {
	ix, iy := e.Local[0][0], e.Local[0][1]
	jx, jy := e.Local[1][0], e.Local[1][1]
	kx, ky := e.Local[2][0], e.Local[2][1]

	bi, bj, bk := jy-ky, ky-iy, iy-jy
	ci, cj, ck := kx-jx, ix-kx, jx-ix

	e.B = mat.NewDense(3, 6, []float64{
		bi, 0, bj, 0, bk, 0,
		0, ci, 0, cj, 0, ck,
		ci, bi, cj, bj, ck, bk,
	})
	e.B.Scale(1/(2*e.Area), e.B)
}

func (e *Element) computeK() {
	e.K = mat.NewDense(6, 6, nil)
	e.K.Product(e.B.T(), e.MembraneLocal, e.B)
	e.K.Scale(e.Area, e.K)

	// in-plane block of R3 for each node
	e.rot = mat.NewDense(6, 6, nil)
	for n := 0; n < 3; n++ {
		for r := 0; r < 2; r++ {
			for c := 0; c < 2; c++ {
				e.rot.Set(2*n+r, 2*n+c, e.R3.At(r, c))
			}
		}
	}
	e.KGlobal = mat.NewDense(6, 6, nil)
	e.KGlobal.Product(e.rot.T(), e.K, e.rot)
}

// MembraneStrain returns [εx, εy, γxy] in local axes for global nodal
// displacements [ux_i, uy_i, ux_j, uy_j, ux_k, uy_k].
func (e *Element) MembraneStrain(u [6]float64) [3]float64 {
	var local mat.VecDense
	local.MulVec(e.rot, mat.NewVecDense(6, u[:]))

	var eps mat.VecDense
	eps.MulVec(e.B, &local)
	return [3]float64{eps.AtVec(0), eps.AtVec(1), eps.AtVec(2)}
}

// LaminateStrain returns the generalized strain in laminate axes with zero
// curvature, ready for laminate.StressFromStrain. Local strain is mapped
// back with T1ᵗ, the inverse of T2.
func (e *Element) LaminateStrain(u [6]float64) [6]float64 {
	loc := e.MembraneStrain(u)
	var out [6]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i] += e.T1t.At(i, j) * loc[j]
		}
	}
	return out
}

type vec3 [3]float64

func vec(p mesh.Point) vec3 { return vec3{p.X, p.Y, p.Z} }

func crossVec(a, b vec3) vec3 {
	return vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func unit(a vec3) vec3 {
	l := math.Sqrt(a[0]*a[0] + a[1]*a[1] + a[2]*a[2])
	return vec3{a[0] / l, a[1] / l, a[2] / l}
}

// expand returns kron(I_n, r).
func expand(r *mat.Dense, n int) *mat.Dense {
	eye := mat.NewDiagDense(n, nil)
	for i := 0; i < n; i++ {
		eye.SetDiag(i, 1)
	}
	var out mat.Dense
	out.Kronecker(eye, r)
	return &out
}
