package mesh

import (
	"fmt"
	"math"

	"github.com/alexiusacademia/gopanel/internal/boundary"
)

// Node is a mesh vertex with its boundary state
type Node struct {
	Index       int
	X, Y, Z     float64
	Constraints boundary.ConstraintVector
	Forces      boundary.ForceVector
}

// Point returns the node position.
func (n Node) Point() Point {
	return Point{X: n.X, Y: n.Y, Z: n.Z}
}

func isClose(a, b, relTol float64) bool {
	return math.Abs(a-b) <= relTol*math.Max(math.Abs(a), math.Abs(b))
}

// IsEqual compares positions coordinate by coordinate with a relative
// tolerance.
func (n Node) IsEqual(other Node, eps float64) bool {
	return isClose(n.X, other.X, eps) &&
		isClose(n.Y, other.Y, eps) &&
		isClose(n.Z, other.Z, eps)
}

// IsNearPoint reports whether the node is closer than eps to p.
func (n Node) IsNearPoint(p Point, eps float64) bool {
	return norm(n.Point().Sub(p)) < eps
}

// IsOnEdge reports whether the node lies within eps of the infinite line
// through a and b.
func (n Node) IsOnEdge(a, b Point, eps float64) bool {
	ab := b.Sub(a)
	l := norm(ab)
	if l == 0 {
		return n.IsNearPoint(a, eps)
	}
	e := Point{X: ab.X / l, Y: ab.Y / l, Z: ab.Z / l}

	an := n.Point().Sub(a)
	s := an.X*e.X + an.Y*e.Y + an.Z*e.Z
	perp := Point{X: an.X - s*e.X, Y: an.Y - s*e.Y, Z: an.Z - s*e.Z}
	return norm(perp) < eps
}

// Element is triangle connectivity by node index
type Element struct {
	I, J, K int
	Tag     int
}

// Indices returns the node indices in order.
func (e Element) Indices() [3]int {
	return [3]int{e.I, e.J, e.K}
}

// Mesh holds nodes with dense zero-based indices and triangle elements
type Mesh struct {
	Nodes    []Node
	Elements []Element
}

// AddNode appends a node and returns its index.
func (m *Mesh) AddNode(x, y, z float64) int {
	idx := len(m.Nodes)
	m.Nodes = append(m.Nodes, Node{Index: idx, X: x, Y: y, Z: z})
	return idx
}

// AddElement appends a triangle over existing nodes.
func (m *Mesh) AddElement(i, j, k int) error {
	for _, idx := range [3]int{i, j, k} {
		if idx < 0 || idx >= len(m.Nodes) {
			return fmt.Errorf("element node %d out of range [0, %d)", idx, len(m.Nodes))
		}
	}
	m.Elements = append(m.Elements, Element{I: i, J: j, K: k})
	return nil
}

// NNodes returns the number of nodes.
func (m *Mesh) NNodes() int { return len(m.Nodes) }

// NElements returns the number of elements.
func (m *Mesh) NElements() int { return len(m.Elements) }

// ElementNodes returns the three nodes of element e.
func (m *Mesh) ElementNodes(e int) [3]Node {
	el := m.Elements[e]
	return [3]Node{m.Nodes[el.I], m.Nodes[el.J], m.Nodes[el.K]}
}

// ElementArea returns the area of element e.
func (m *Mesh) ElementArea(e int) float64 {
	n := m.ElementNodes(e)
	return TriangleArea(n[0].Point(), n[1].Point(), n[2].Point())
}

// Area sums the element areas.
func (m *Mesh) Area() float64 {
	var a float64
	for e := range m.Elements {
		a += m.ElementArea(e)
	}
	return a
}

// SetTag tags one element.
func (m *Mesh) SetTag(e, tag int) {
	m.Elements[e].Tag = tag
}

// SetTagAll tags every element.
func (m *Mesh) SetTagAll(tag int) {
	for i := range m.Elements {
		m.Elements[i].Tag = tag
	}
}

// SelectNodesNearPoint returns the indices of nodes within eps of p.
func (m *Mesh) SelectNodesNearPoint(p Point, eps float64) []int {
	var out []int
	for _, n := range m.Nodes {
		if n.IsNearPoint(p, eps) {
			out = append(out, n.Index)
		}
	}
	return out
}

// SelectNodesOnEdge returns the indices of nodes on the line through a and b.
func (m *Mesh) SelectNodesOnEdge(a, b Point, eps float64) []int {
	var out []int
	for _, n := range m.Nodes {
		if n.IsOnEdge(a, b, eps) {
			out = append(out, n.Index)
		}
	}
	return out
}

// Bounds returns the bounding box of all nodes.
func (m *Mesh) Bounds() Bounds {
	if len(m.Nodes) == 0 {
		return Bounds{}
	}
	n0 := m.Nodes[0]
	b := Bounds{MinX: n0.X, MaxX: n0.X, MinY: n0.Y, MaxY: n0.Y, MinZ: n0.Z, MaxZ: n0.Z}
	for _, n := range m.Nodes {
		b.MinX = math.Min(b.MinX, n.X)
		b.MaxX = math.Max(b.MaxX, n.X)
		b.MinY = math.Min(b.MinY, n.Y)
		b.MaxY = math.Max(b.MaxY, n.Y)
		b.MinZ = math.Min(b.MinZ, n.Z)
		b.MaxZ = math.Max(b.MaxZ, n.Z)
	}
	return b
}
