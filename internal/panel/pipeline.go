package panel

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gopanel/internal/boundary"
	"github.com/alexiusacademia/gopanel/internal/fem"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/mesh"
	"github.com/alexiusacademia/gopanel/internal/shell"
)

// Model is a validated definition with its computed laminate. Every later
// stage reads it and never changes it.
type Model struct {
	Definition *Definition
	Laminate   *laminate.Laminate
	Quad       mesh.Quad
}

// NewModel validates the definition and computes the laminate.
func NewModel(def *Definition) (*Model, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	lam, err := def.Laminate.Build()
	if err != nil {
		return nil, fmt.Errorf("laminate: %w", err)
	}
	if lam.Name == "" {
		lam.Name = def.Name
	}
	return &Model{
		Definition: def,
		Laminate:   lam,
		Quad:       mesh.NewRectangle(def.Length, def.Width),
	}, nil
}

// Mesh builds the structured triangle mesh of the panel.
func (m *Model) Mesh() (*mesh.Mesh, error) {
	nLen, nWid := m.Definition.MeshDivisions()
	return m.Quad.MeshTria(nLen, nWid, m.Definition.Variant())
}

// GroupNodes returns the indices of the mesh nodes in a group.
func (m *Model) GroupNodes(msh *mesh.Mesh, g boundary.NodeGroup) []int {
	q := m.Quad
	eps := 1e-6 * math.Max(q.Length(), q.Width())
	switch g {
	case boundary.Left:
		return msh.SelectNodesOnEdge(q.A, q.B, eps)
	case boundary.Right:
		return msh.SelectNodesOnEdge(q.D, q.C, eps)
	case boundary.Top:
		return msh.SelectNodesOnEdge(q.B, q.C, eps)
	case boundary.Bottom:
		return msh.SelectNodesOnEdge(q.A, q.D, eps)
	case boundary.N00:
		return msh.SelectNodesNearPoint(q.A, eps)
	case boundary.N01:
		return msh.SelectNodesNearPoint(q.B, eps)
	case boundary.N10:
		return msh.SelectNodesNearPoint(q.D, eps)
	case boundary.N11:
		return msh.SelectNodesNearPoint(q.C, eps)
	}
	return nil
}

// Boundary is the mesh node set with constraints and forces applied
type Boundary struct {
	Nodes  []mesh.Node
	Groups map[boundary.NodeGroup][]int
}

// ApplyBoundary resolves the definition's assignments onto copies of the
// mesh nodes. The mesh itself is left untouched.
func (m *Model) ApplyBoundary(msh *mesh.Mesh) *Boundary {
	b := &Boundary{
		Nodes:  append([]mesh.Node(nil), msh.Nodes...),
		Groups: make(map[boundary.NodeGroup][]int),
	}
	resolved := boundary.Resolve(m.Definition.Assignments())
	for _, g := range boundary.NodeGroups {
		a, ok := resolved[g]
		if !ok {
			continue
		}
		idx := m.GroupNodes(msh, g)
		b.Groups[g] = idx
		for _, i := range idx {
			b.Nodes[i].Constraints = b.Nodes[i].Constraints.Combine(a.Constraint)
			b.Nodes[i].Forces = b.Nodes[i].Forces.Add(a.Force)
		}
	}
	return b
}

// BuildElements creates one shell element per mesh triangle. The elements
// are computed during assembly.
func (m *Model) BuildElements(msh *mesh.Mesh, b *Boundary) []*shell.Element {
	elems := make([]*shell.Element, len(msh.Elements))
	for e, el := range msh.Elements {
		elems[e] = shell.New(e, b.Nodes[el.I], b.Nodes[el.J], b.Nodes[el.K], m.Laminate)
	}
	return elems
}

// Analysis keeps every stage of one panel run
type Analysis struct {
	Model    *Model
	Mesh     *mesh.Mesh
	Boundary *Boundary
	Elements []*shell.Element
	System   *fem.System
	Solution *fem.Solution
	Result   *Result
}

// Run chains the stages: model, mesh, boundary, elements, global system,
// solution and results.
func Run(def *Definition, opts fem.Options) (*Analysis, error) {
	model, err := NewModel(def)
	if err != nil {
		return nil, err
	}

	msh, err := model.Mesh()
	if err != nil {
		return nil, fmt.Errorf("mesh: %w", err)
	}

	b := model.ApplyBoundary(msh)
	elems := model.BuildElements(msh, b)

	sys, err := fem.Assemble(b.Nodes, elems, opts)
	if err != nil {
		return nil, fmt.Errorf("assemble: %w", err)
	}

	sol, err := fem.Solve(sys)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}

	res, err := model.Results(msh, elems, sol)
	if err != nil {
		return nil, fmt.Errorf("results: %w", err)
	}

	return &Analysis{
		Model:    model,
		Mesh:     msh,
		Boundary: b,
		Elements: elems,
		System:   sys,
		Solution: sol,
		Result:   res,
	}, nil
}
