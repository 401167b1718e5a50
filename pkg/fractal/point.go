package fractal

import "math"

// Point is an immutable 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Midpoint returns the exact midpoint of a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Dist2 returns the squared euclidean distance between a and b.
func Dist2(a, b Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// BaseTriangle returns the vertices of an equilateral triangle whose base
// starts at origin and extends size units to the right. The apex points
// up (towards smaller y), matching screen coordinates.
func BaseTriangle(origin Point, size float64) (p1, p2, p3 Point) {
	h := size * math.Sqrt(3) / 2
	p1 = origin
	p2 = Point{X: origin.X + size, Y: origin.Y}
	p3 = Point{X: origin.X + size/2, Y: origin.Y - h}
	return p1, p2, p3
}

// TriangleArea returns the unsigned area of the triangle p1 p2 p3.
// Degenerate (collinear) triangles have zero area.
func TriangleArea(p1, p2, p3 Point) float64 {
	return math.Abs((p2.X-p1.X)*(p3.Y-p1.Y)-(p3.X-p1.X)*(p2.Y-p1.Y)) / 2
}
