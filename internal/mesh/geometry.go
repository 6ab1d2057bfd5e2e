package mesh

import "math"

// Point is a position in the global coordinate system
type Point struct {
	X, Y, Z float64
}

// Translate returns the point moved by (dx, dy, dz).
func (p Point) Translate(dx, dy, dz float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy, Z: p.Z + dz}
}

// Sub returns the vector p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

func cross(a, b Point) Point {
	return Point{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func norm(a Point) float64 {
	return math.Sqrt(a.X*a.X + a.Y*a.Y + a.Z*a.Z)
}

// TriangleArea returns the area of the triangle abc in 3D.
func TriangleArea(a, b, c Point) float64 {
	return norm(cross(b.Sub(a), c.Sub(a))) / 2
}

// Bounds is the axis-aligned bounding box of a set of points
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
	MinZ, MaxZ float64
}

// Width is the extent along x.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height is the extent along y.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Quad is a four-sided region meshed into triangles. Corners go around as
//
//	b ----- c
//	|       |
//	a ----- d
//
// so a→d is the length direction and a→b the width direction.
type Quad struct {
	A, B, C, D Point
}

// NewRectangle returns the quad [0, length] × [0, width] in the XY plane.
func NewRectangle(length, width float64) Quad {
	return Quad{
		A: Point{},
		B: Point{Y: width},
		C: Point{X: length, Y: width},
		D: Point{X: length},
	}
}

// NewQuadByTranslatingSide sweeps the side ab by (dx, dy, dz).
func NewQuadByTranslatingSide(a, b Point, dx, dy, dz float64) Quad {
	return Quad{
		A: a,
		B: b,
		C: b.Translate(dx, dy, dz),
		D: a.Translate(dx, dy, dz),
	}
}

// Translate returns the quad moved by (dx, dy, dz).
func (q Quad) Translate(dx, dy, dz float64) Quad {
	return Quad{
		A: q.A.Translate(dx, dy, dz),
		B: q.B.Translate(dx, dy, dz),
		C: q.C.Translate(dx, dy, dz),
		D: q.D.Translate(dx, dy, dz),
	}
}

// Area is the sum of the triangles abc and adc.
func (q Quad) Area() float64 {
	return TriangleArea(q.A, q.B, q.C) + TriangleArea(q.A, q.D, q.C)
}

// Length is the distance a→d.
func (q Quad) Length() float64 { return norm(q.D.Sub(q.A)) }

// Width is the distance a→b.
func (q Quad) Width() float64 { return norm(q.B.Sub(q.A)) }
