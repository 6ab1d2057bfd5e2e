package fem

import (
	"sort"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// DofsPerNode is the number of assembled degrees of freedom per node (ux, uy).
const DofsPerNode = 2

// Dof maps a node and a local degree of freedom to a global equation.
func Dof(node, d int) int {
	return DofsPerNode*node + d
}

// TripletBuilder accumulates (row, col, value) entries of a square sparse
// matrix. Duplicate positions are summed on conversion.
type TripletBuilder struct {
	n    int
	rows []int
	cols []int
	vals []float64
}

// NewTripletBuilder creates a builder for an n×n matrix with room for
// capacity entries.
func NewTripletBuilder(n, capacity int) *TripletBuilder {
	return &TripletBuilder{
		n:    n,
		rows: make([]int, 0, capacity),
		cols: make([]int, 0, capacity),
		vals: make([]float64, 0, capacity),
	}
}

// Size returns the matrix dimension.
func (b *TripletBuilder) Size() int { return b.n }

// Len returns the number of stored entries, duplicates included.
func (b *TripletBuilder) Len() int { return len(b.vals) }

// Put appends one entry.
func (b *TripletBuilder) Put(i, j int, v float64) {
	b.rows = append(b.rows, i)
	b.cols = append(b.cols, j)
	b.vals = append(b.vals, v)
}

// AddElement scatters a 6×6 element matrix over the dofs of three nodes.
func (b *TripletBuilder) AddElement(idx [3]int, k mat.Matrix) {
	for a := 0; a < 3; a++ {
		for da := 0; da < DofsPerNode; da++ {
			r := Dof(idx[a], da)
			for c := 0; c < 3; c++ {
				for dc := 0; dc < DofsPerNode; dc++ {
					b.Put(r, Dof(idx[c], dc), k.At(DofsPerNode*a+da, DofsPerNode*c+dc))
				}
			}
		}
	}
}

// Append copies the entries of other after the receiver's.
func (b *TripletBuilder) Append(other *TripletBuilder) {
	b.rows = append(b.rows, other.rows...)
	b.cols = append(b.cols, other.cols...)
	b.vals = append(b.vals, other.vals...)
}

// Eliminate enforces a zero value for equation i: row i and column i are
// cleared and a unit diagonal is added. Repeating it changes nothing.
func (b *TripletBuilder) Eliminate(i int) {
	for t := range b.vals {
		if b.rows[t] == i {
			b.vals[t] = 0
		}
	}
	for t := range b.vals {
		if b.cols[t] == i {
			b.vals[t] = 0
		}
	}
	b.Put(i, i, 1)
}

// ToCSR sorts the entries by position, sums duplicates and drops zeros.
// Entries at one position are summed in insertion order.
func (b *TripletBuilder) ToCSR() *sparse.CSR {
	sort.Stable(byPosition{b})

	ia := make([]int, b.n+1)
	ja := make([]int, 0, len(b.vals))
	data := make([]float64, 0, len(b.vals))

	for t := 0; t < len(b.vals); {
		r, c := b.rows[t], b.cols[t]
		var sum float64
		for ; t < len(b.vals) && b.rows[t] == r && b.cols[t] == c; t++ {
			sum += b.vals[t]
		}
		if sum == 0 {
			continue
		}
		ja = append(ja, c)
		data = append(data, sum)
		ia[r+1]++
	}
	for r := 0; r < b.n; r++ {
		ia[r+1] += ia[r]
	}
	return sparse.NewCSR(b.n, b.n, ia, ja, data)
}

type byPosition struct{ b *TripletBuilder }

func (p byPosition) Len() int { return len(p.b.vals) }

func (p byPosition) Less(x, y int) bool {
	if p.b.rows[x] != p.b.rows[y] {
		return p.b.rows[x] < p.b.rows[y]
	}
	return p.b.cols[x] < p.b.cols[y]
}

func (p byPosition) Swap(x, y int) {
	p.b.rows[x], p.b.rows[y] = p.b.rows[y], p.b.rows[x]
	p.b.cols[x], p.b.cols[y] = p.b.cols[y], p.b.cols[x]
	p.b.vals[x], p.b.vals[y] = p.b.vals[y], p.b.vals[x]
}
