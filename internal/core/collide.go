package core

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ErrDegeneratePolygon is returned when a polygon has fewer than 3 vertices.
var ErrDegeneratePolygon = errors.New("core: polygon needs at least 3 vertices")

// Circle is a circular collision primitive in surface coordinates.
type Circle struct {
	Center Vec
	Radius float64
}

// Polygon is a convex collision primitive in surface coordinates.
// Vertices are ordered; either winding works.
type Polygon struct {
	Vertices []Vec
}

// CollidingCircleCircle reports whether two circles overlap or touch.
// Squared distances are compared so no square root is taken.
func CollidingCircleCircle(c1, c2 Circle) bool {
	reach := c1.Radius + c2.Radius
	return r2.Norm2(r2.Sub(c2.Center, c1.Center)) <= reach*reach
}

// CollidingPolygonPolygon reports whether two convex polygons overlap using the
// separating axis theorem. Axes are the edge normals of both polygons, taken
// from the current vertex positions so rotated polygons need no extra work.
func CollidingPolygonPolygon(p1, p2 Polygon) bool {
	for _, poly := range [2]Polygon{p1, p2} {
		n := len(poly.Vertices)
		for i := range n {
			axis, ok := edgeNormal(poly.Vertices[i], poly.Vertices[(i+1)%n])
			if !ok {
				continue
			}
			min1, max1 := p1.project(axis)
			min2, max2 := p2.project(axis)
			if separated(min1, max1, min2, max2) {
				return false
			}
		}
	}
	return true
}

// CollidingCirclePolygon reports whether a circle overlaps a convex polygon.
// Besides the polygon's edge normals, the axis from the circle center to the
// nearest polygon vertex is tested; it catches the corner regions where no
// edge normal separates the shapes.
func CollidingCirclePolygon(c Circle, p Polygon) bool {
	n := len(p.Vertices)
	for i := range n {
		axis, ok := edgeNormal(p.Vertices[i], p.Vertices[(i+1)%n])
		if !ok {
			continue
		}
		if separatedOnAxis(c, p, axis) {
			return false
		}
	}

	nearest := p.Vertices[0]
	best := r2.Norm2(r2.Sub(nearest, c.Center))
	for _, v := range p.Vertices[1:] {
		if d := r2.Norm2(r2.Sub(v, c.Center)); d < best {
			nearest, best = v, d
		}
	}
	if best == 0 {
		return true
	}
	return !separatedOnAxis(c, p, r2.Unit(r2.Sub(nearest, c.Center)))
}

func separatedOnAxis(c Circle, p Polygon, axis Vec) bool {
	minP, maxP := p.project(axis)
	center := r2.Dot(c.Center, axis)
	return separated(center-c.Radius, center+c.Radius, minP, maxP)
}

// edgeNormal returns the unit normal of the edge a→b. Zero-length edges
// (repeated vertices) yield no axis.
func edgeNormal(a, b Vec) (Vec, bool) {
	edge := r2.Sub(b, a)
	if edge.X == 0 && edge.Y == 0 {
		return Vec{}, false
	}
	return r2.Unit(Vec{X: -edge.Y, Y: edge.X}), true
}

// project returns the interval covered by the polygon on the given axis.
func (p Polygon) project(axis Vec) (lo, hi float64) {
	lo = r2.Dot(p.Vertices[0], axis)
	hi = lo
	for _, v := range p.Vertices[1:] {
		d := r2.Dot(v, axis)
		lo = math.Min(lo, d)
		hi = math.Max(hi, d)
	}
	return lo, hi
}

// separated is strict so that touching intervals count as overlapping.
func separated(min1, max1, min2, max2 float64) bool {
	return max1 < min2 || max2 < min1
}

// Bounds returns the axis-aligned box enclosing the polygon.
func (p Polygon) Bounds() Box {
	b := Box{Left: p.Vertices[0].X, Top: p.Vertices[0].Y, Right: p.Vertices[0].X, Bottom: p.Vertices[0].Y}
	for _, v := range p.Vertices[1:] {
		b.Left = math.Min(b.Left, v.X)
		b.Right = math.Max(b.Right, v.X)
		b.Top = math.Min(b.Top, v.Y)
		b.Bottom = math.Max(b.Bottom, v.Y)
	}
	return b
}

// Contains reports whether (x, y) lies inside or on a convex polygon,
// using the cross-product sign test.
func (p Polygon) Contains(x, y float64) bool {
	var positive, negative bool
	n := len(p.Vertices)
	for i := range n {
		a := p.Vertices[i]
		b := p.Vertices[(i+1)%n]
		cross := (b.X-a.X)*(y-a.Y) - (b.Y-a.Y)*(x-a.X)
		if cross > 0 {
			positive = true
		} else if cross < 0 {
			negative = true
		}
		if positive && negative {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned box enclosing the circle.
func (c Circle) Bounds() Box {
	return Box{
		Left:   c.Center.X - c.Radius,
		Top:    c.Center.Y - c.Radius,
		Right:  c.Center.X + c.Radius,
		Bottom: c.Center.Y + c.Radius,
	}
}

// Contains reports whether (x, y) lies inside or on the circle.
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.Center.X
	dy := y - c.Center.Y
	return dx*dx+dy*dy <= c.Radius*c.Radius
}
