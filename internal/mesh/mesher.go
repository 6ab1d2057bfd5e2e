package mesh

import (
	"fmt"
	"math"
)

// MaxDivisions bounds the cell count along one side of a mesh.
const MaxDivisions = 100000

// MeshTria meshes the quad into nLen × nWid cells of two triangles each.
//
// Nodes are numbered row by row: node (i, j) has index (nLen+1)·j + i, with
// i along a→d and j along a→b. Every cell
//
//	n01 --- n11
//	 |       |
//	n00 --- n10
//
// is split along n00–n11 (variant 1) or n10–n01 (variant -1). The variant
// alternates along each row, and each row starts with the opposite variant
// of the previous one.
func (q Quad) MeshTria(nLen, nWid, startVariant int) (*Mesh, error) {
	if nLen < 1 || nWid < 1 {
		return nil, fmt.Errorf("mesh divisions must be positive, got %d × %d", nLen, nWid)
	}
	if nLen > MaxDivisions || nWid > MaxDivisions {
		return nil, fmt.Errorf("mesh divisions %d × %d exceed %d", nLen, nWid, MaxDivisions)
	}
	if startVariant != 1 && startVariant != -1 {
		return nil, fmt.Errorf("start variant must be 1 or -1, got %d", startVariant)
	}

	m := &Mesh{
		Nodes:    make([]Node, 0, (nLen+1)*(nWid+1)),
		Elements: make([]Element, 0, 2*nLen*nWid),
	}
	q.createNodes(m, nLen, nWid)
	q.createTriangles(m, nLen, nWid, startVariant)
	return m, nil
}

func (q Quad) createNodes(m *Mesh, nLen, nWid int) {
	dl := q.D.Sub(q.A)
	dw := q.B.Sub(q.A)
	fl, fw := float64(nLen), float64(nWid)

	for j := 0; j <= nWid; j++ {
		for i := 0; i <= nLen; i++ {
			si, sj := float64(i)/fl, float64(j)/fw
			m.AddNode(
				q.A.X+si*dl.X+sj*dw.X,
				q.A.Y+si*dl.Y+sj*dw.Y,
				q.A.Z+si*dl.Z+sj*dw.Z,
			)
		}
	}
}

func (q Quad) createTriangles(m *Mesh, nLen, nWid, startVariant int) {
	for j := 0; j < nWid; j++ {
		variant := startVariant
		for i := 0; i < nLen; i++ {
			n00 := j*(nLen+1) + i
			n10 := n00 + 1
			n01 := (j+1)*(nLen+1) + i
			n11 := n01 + 1

			if variant == 1 {
				m.Elements = append(m.Elements,
					Element{I: n00, J: n10, K: n11},
					Element{I: n11, J: n01, K: n00})
			} else {
				m.Elements = append(m.Elements,
					Element{I: n00, J: n10, K: n01},
					Element{I: n11, J: n01, K: n10})
			}
			variant = -variant
		}
		startVariant = -startVariant
	}
}

// Divisions returns the number of cells needed so that no cell side is
// longer than elemSize. Counts above MaxDivisions are returned as
// MaxDivisions+1.
func Divisions(extent, elemSize float64) int {
	if elemSize <= 0 || extent <= 0 {
		return 1
	}
	r := math.Ceil(extent/elemSize - 1e-9)
	if math.IsNaN(r) || r > MaxDivisions {
		return MaxDivisions + 1
	}
	return max(int(r), 1)
}
