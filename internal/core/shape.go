package core

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// ShapeKind tags the variant held by a Shape.
type ShapeKind uint8

const (
	KindCircle ShapeKind = iota
	KindPolygon
)

// String returns a human-readable name for the kind.
func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	default:
		return "unknown"
	}
}

// Shape is the collision outline of a sprite in local coordinates.
// It is a closed variant: either a circle around the sprite center or a
// convex polygon whose vertices are offsets from the sprite origin.
type Shape struct {
	kind     ShapeKind
	radius   float64
	vertices []Vec
}

// NewCircle creates a circular shape.
func NewCircle(radius float64) Shape {
	return Shape{kind: KindCircle, radius: radius}
}

// NewPolygon creates a convex polygon shape from origin-relative vertices.
func NewPolygon(vertices ...Vec) (Shape, error) {
	if len(vertices) < 3 {
		return Shape{}, fmt.Errorf("%w: got %d", ErrDegeneratePolygon, len(vertices))
	}
	return Shape{kind: KindPolygon, vertices: append([]Vec(nil), vertices...)}, nil
}

// Rect creates the rectangular polygon of a w×h sprite whose origin sits at
// the unit offset (u, v) inside it.
func Rect(w, h, u, v float64) Shape {
	left, top := -w*u, -h*v
	return Shape{kind: KindPolygon, vertices: []Vec{
		{X: left, Y: top},
		{X: left + w, Y: top},
		{X: left + w, Y: top + h},
		{X: left, Y: top + h},
	}}
}

// Kind returns the variant tag.
func (s Shape) Kind() ShapeKind {
	return s.kind
}

// Radius returns the circle radius (zero for polygons).
func (s Shape) Radius() float64 {
	return s.radius
}

// Vertices returns a copy of the local polygon vertices (nil for circles).
func (s Shape) Vertices() []Vec {
	return append([]Vec(nil), s.vertices...)
}

// Place positions the shape on the surface. Circles are centered on center;
// polygon vertices are offsets from origin, rotated by angle radians when
// rotate is set.
func (s Shape) Place(origin, center Vec, angle float64, rotate bool) Collider {
	if s.kind == KindCircle {
		return Collider{kind: KindCircle, circle: Circle{Center: center, Radius: s.radius}}
	}
	verts := make([]Vec, len(s.vertices))
	for i, v := range s.vertices {
		if rotate && angle != 0 {
			v = r2.Rotate(v, angle, Vec{})
		}
		verts[i] = r2.Add(origin, v)
	}
	return Collider{kind: KindPolygon, polygon: Polygon{Vertices: verts}}
}

// Collider is a Shape placed in surface coordinates.
type Collider struct {
	kind    ShapeKind
	circle  Circle
	polygon Polygon
}

// CircleCollider wraps a world-space circle.
func CircleCollider(c Circle) Collider {
	return Collider{kind: KindCircle, circle: c}
}

// PolygonCollider wraps a world-space polygon.
func PolygonCollider(p Polygon) (Collider, error) {
	if len(p.Vertices) < 3 {
		return Collider{}, fmt.Errorf("%w: got %d", ErrDegeneratePolygon, len(p.Vertices))
	}
	return Collider{kind: KindPolygon, polygon: p}, nil
}

// Kind returns the variant tag.
func (c Collider) Kind() ShapeKind {
	return c.kind
}

// Circle returns the circle (valid for KindCircle).
func (c Collider) Circle() Circle {
	return c.circle
}

// Polygon returns the polygon (valid for KindPolygon).
func (c Collider) Polygon() Polygon {
	return c.polygon
}

// Bounds returns the world-space box enclosing the collider.
func (c Collider) Bounds() Box {
	if c.kind == KindCircle {
		return c.circle.Bounds()
	}
	return c.polygon.Bounds()
}

// ContainsPoint reports whether (x, y) lies inside or on the collider.
func (c Collider) ContainsPoint(x, y float64) bool {
	if c.kind == KindCircle {
		return c.circle.Contains(x, y)
	}
	return c.polygon.Contains(x, y)
}

// IntersectsBox reports whether the collider overlaps the given box exactly.
func (c Collider) IntersectsBox(b Box) bool {
	if !c.Bounds().Intersects(b) {
		return false
	}
	box := b.Polygon()
	if c.kind == KindCircle {
		return CollidingCirclePolygon(c.circle, box)
	}
	return CollidingPolygonPolygon(c.polygon, box)
}

// Colliding dispatches on the kinds of both colliders.
func Colliding(a, b Collider) bool {
	switch {
	case a.kind == KindCircle && b.kind == KindCircle:
		return CollidingCircleCircle(a.circle, b.circle)
	case a.kind == KindPolygon && b.kind == KindPolygon:
		return CollidingPolygonPolygon(a.polygon, b.polygon)
	case a.kind == KindCircle:
		return CollidingCirclePolygon(a.circle, b.polygon)
	default:
		return CollidingCirclePolygon(b.circle, a.polygon)
	}
}
