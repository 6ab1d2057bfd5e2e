package fem

import (
	"fmt"
	"sync"

	"github.com/alexiusacademia/gopanel/internal/boundary"
	"github.com/alexiusacademia/gopanel/internal/mesh"
	"github.com/alexiusacademia/gopanel/internal/shell"
	"github.com/james-bowman/sparse"
)

// Options controls assembly
type Options struct {
	Workers  int // element workers, 1 when unset
	Strategy PartitionStrategy
}

// System is the constrained global equation K·u = F
type System struct {
	NNodes int
	K      *sparse.CSR
	F      []float64
	Fixed  []bool // per equation
}

// Size returns the number of equations.
func (s *System) Size() int { return len(s.F) }

// NFixed returns the number of eliminated equations.
func (s *System) NFixed() int {
	n := 0
	for _, f := range s.Fixed {
		if f {
			n++
		}
	}
	return n
}

// Assemble computes every element and builds the global system. Element
// work is split into partitions, one worker each; partition buffers are
// merged in partition order. Constrained tx/ty dofs are eliminated from
// both K and F.
func Assemble(nodes []mesh.Node, elements []*shell.Element, opts Options) (*System, error) {
	if len(nodes) == 0 || len(elements) == 0 {
		return nil, fmt.Errorf("cannot assemble %d nodes and %d elements", len(nodes), len(elements))
	}
	for i, n := range nodes {
		if n.Index != i {
			return nil, fmt.Errorf("node %d has index %d, expected dense indices", i, n.Index)
		}
	}

	size := DofsPerNode * len(nodes)
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	pb := &PartitionBuilder{NumElements: len(elements), NumPartitions: workers, Strategy: opts.Strategy}
	parts := pb.Build()

	buffers := make([]*TripletBuilder, len(parts))
	errs := make([]error, len(parts))
	var wg sync.WaitGroup
	for p, elems := range parts {
		wg.Add(1)
		go func(p int, elems []int) {
			defer wg.Done()
			tb := NewTripletBuilder(size, 36*len(elems))
			for _, e := range elems {
				el := elements[e]
				if err := el.Compute(); err != nil {
					errs[p] = err
					return
				}
				idx := el.Indices()
				for _, i := range idx {
					if i < 0 || i >= len(nodes) {
						errs[p] = fmt.Errorf("element %d references node %d of %d", el.Index, i, len(nodes))
						return
					}
				}
				tb.AddElement(idx, el.KGlobal)
			}
			buffers[p] = tb
		}(p, elems)
	}
	wg.Wait()

	// first error by partition, which is element order for block partitions
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	tb := NewTripletBuilder(size, 36*len(elements)+size)
	for _, b := range buffers {
		tb.Append(b)
	}

	sys := &System{NNodes: len(nodes), F: LoadVector(nodes), Fixed: make([]bool, size)}
	for _, n := range nodes {
		for d, dof := range []boundary.DofType{boundary.TX, boundary.TY} {
			if n.Constraints.Get(dof) != boundary.Fixed {
				continue
			}
			eq := Dof(n.Index, d)
			tb.Eliminate(eq)
			sys.F[eq] = 0
			sys.Fixed[eq] = true
		}
	}
	sys.K = tb.ToCSR()
	return sys, nil
}

// LoadVector gathers the in-plane nodal forces.
func LoadVector(nodes []mesh.Node) []float64 {
	f := make([]float64, DofsPerNode*len(nodes))
	for _, n := range nodes {
		f[Dof(n.Index, 0)] += n.Forces.FX
		f[Dof(n.Index, 1)] += n.Forces.FY
	}
	return f
}
