// Package core provides the geometry kernel and the screen buffer for the
// canvas. It has no terminal dependencies so that collision and hit-testing
// logic stays pure and testable.
package core

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Vec is a point or direction on the surface. The y axis grows downward.
type Vec = r2.Vec

// Box is an axis-aligned bounding box in surface pixels.
// Edges are inclusive: two boxes that share an edge intersect.
type Box struct {
	Left, Top, Right, Bottom float64
}

// NewBox creates a box from a top-left corner and a size.
func NewBox(x, y, w, h float64) Box {
	return Box{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 {
	return b.Right - b.Left
}

// Height returns the vertical extent of the box.
func (b Box) Height() float64 {
	return b.Bottom - b.Top
}

// Center returns the center point of the box.
func (b Box) Center() Vec {
	return Vec{X: (b.Left + b.Right) / 2, Y: (b.Top + b.Bottom) / 2}
}

// Expand returns the box grown by border pixels on every side.
func (b Box) Expand(border float64) Box {
	return Box{
		Left:   b.Left - border,
		Top:    b.Top - border,
		Right:  b.Right + border,
		Bottom: b.Bottom + border,
	}
}

// Intersects returns true if this box overlaps or touches another.
func (b Box) Intersects(other Box) bool {
	if b.Left > other.Right || other.Left > b.Right {
		return false
	}
	if b.Top > other.Bottom || other.Top > b.Bottom {
		return false
	}
	return true
}

// Intersect narrows b to its intersection with other.
// Returns false and leaves b untouched when the boxes do not intersect.
func (b *Box) Intersect(other Box) bool {
	if !b.Intersects(other) {
		return false
	}
	b.Left = max(b.Left, other.Left)
	b.Top = max(b.Top, other.Top)
	b.Right = min(b.Right, other.Right)
	b.Bottom = min(b.Bottom, other.Bottom)
	return true
}

// Contains returns true if the point (x, y) lies inside or on the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.Left && x <= b.Right && y >= b.Top && y <= b.Bottom
}

// Polygon returns the box as a clockwise (on screen) polygon.
func (b Box) Polygon() Polygon {
	return Polygon{Vertices: []Vec{
		{X: b.Left, Y: b.Top},
		{X: b.Right, Y: b.Top},
		{X: b.Right, Y: b.Bottom},
		{X: b.Left, Y: b.Bottom},
	}}
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
