package sprite

import (
	"math"

	"github.com/vovakirdan/tui-canvas/internal/core"
)

// Direction identifies a surface edge or corner. The numeric codes are part
// of the public contract: opposite directions are negatives of each other.
type Direction int

const (
	None      Direction = 0
	North     Direction = 1
	NorthEast Direction = 2
	East      Direction = 3
	SouthEast Direction = 4
	South     Direction = -1
	SouthWest Direction = -2
	West      Direction = -3
	NorthWest Direction = -4
)

// String returns the compass abbreviation of the direction.
func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case North:
		return "N"
	case NorthEast:
		return "NE"
	case East:
		return "E"
	case SouthEast:
		return "SE"
	case South:
		return "S"
	case SouthWest:
		return "SW"
	case West:
		return "W"
	case NorthWest:
		return "NW"
	default:
		return "unknown"
	}
}

// EdgeOf reports which surface edges the box exceeds. When two perpendicular
// edges are exceeded at once the corner direction is returned.
func EdgeOf(box core.Box, surfaceWidth, surfaceHeight float64) Direction {
	west := box.Left < 0
	east := box.Right > surfaceWidth
	north := box.Top < 0
	south := box.Bottom > surfaceHeight

	// A box larger than the surface is pinned to the near edge, so only the
	// far edge can be exceeded on that axis.
	if west && east {
		west = false
	}
	if north && south {
		north = false
	}

	switch {
	case north && east:
		return NorthEast
	case north && west:
		return NorthWest
	case south && east:
		return SouthEast
	case south && west:
		return SouthWest
	case north:
		return North
	case south:
		return South
	case east:
		return East
	case west:
		return West
	default:
		return None
	}
}

// ClampInto returns the top-left corner that brings a width×height box at
// (left, top) inside the surface. A box wider (taller) than the surface is
// placed against the west (north) edge only. moved reports whether anything
// changed; clamping an in-bounds box is a no-op.
func ClampInto(left, top, width, height, surfaceWidth, surfaceHeight float64) (newLeft, newTop float64, moved bool) {
	newLeft, newTop = left, top

	switch {
	case width > surfaceWidth:
		newLeft = 0
	case left < 0:
		newLeft = 0
	case left+width > surfaceWidth:
		newLeft = surfaceWidth - width
	}

	switch {
	case height > surfaceHeight:
		newTop = 0
	case top < 0:
		newTop = 0
	case top+height > surfaceHeight:
		newTop = surfaceHeight - height
	}

	return newLeft, newTop, newLeft != left || newTop != top
}

// NormalizeHeading maps a heading in degrees into [0, 360).
func NormalizeHeading(degrees float64) float64 {
	h := math.Mod(degrees, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Reflect returns the heading after bouncing off edge. The heading only
// changes when it points toward that edge, which keeps repeated bounces in
// the same tick from flipping it back. Cardinal edges mirror the heading
// (180-a or 360-a); corners turn it around (180+a).
func Reflect(heading float64, edge Direction) (float64, bool) {
	a := NormalizeHeading(heading)

	switch {
	case edge == East && (a < 90 || a > 270),
		edge == West && (a > 90 && a < 270):
		return 180 - a, true
	case edge == North && (a > 0 && a < 180),
		edge == South && a > 180:
		return 360 - a, true
	case edge == NorthEast && (a > 0 && a < 90),
		edge == NorthWest && (a > 90 && a < 180),
		edge == SouthWest && (a > 180 && a < 270),
		edge == SouthEast && a > 270:
		return 180 + a, true
	}
	return heading, false
}
