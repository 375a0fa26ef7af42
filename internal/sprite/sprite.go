// Package sprite implements the movable, orientable shapes that live on a
// canvas surface. A sprite owns its geometry and motion state and forwards
// every interaction to a Handler; the surface coordinator observes changes
// through the Observer interface.
package sprite

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-canvas/internal/core"
)

var (
	// ErrInvalidSize is returned for sprites without a positive width and height.
	ErrInvalidSize = errors.New("sprite: width and height must be positive")
	// ErrInvalidOrigin is returned when an origin offset is outside [0, 1].
	ErrInvalidOrigin = errors.New("sprite: origin offset must be within [0, 1]")
	// ErrInvalidShape is returned for circles without a positive radius.
	ErrInvalidShape = errors.New("sprite: collision shape is empty")
)

// Observer is notified about sprite mutations. The surface coordinator
// implements it to run edge and collision checks and to keep its z order.
type Observer interface {
	SpriteChanged(s *Sprite)
	SpriteLayerChanged(s *Sprite)
}

// Params describes a sprite at creation time.
type Params struct {
	// X, Y place the origin point on the surface.
	X, Y float64
	// Width and Height are the sprite extent in pixels.
	Width, Height float64
	// OriginX and OriginY locate the origin inside the sprite as a fraction of
	// its size: (0, 0) is the top-left corner, (0.5, 0.5) the center.
	OriginX, OriginY float64

	Heading float64 // degrees, 0 = east, counter-clockwise as seen on screen
	Speed   float64 // pixels per tick
	Z       float64

	// Shape is the collision outline; nil means the sprite rectangle.
	Shape *core.Shape
	// Rotates turns a polygon outline with the heading.
	Rotates bool
	// AutoBounce makes the surface bounce the sprite off edges it reaches.
	AutoBounce bool

	Hidden   bool
	Disabled bool

	Handler Handler
}

// Sprite is a shape on the canvas surface.
type Sprite struct {
	id uuid.UUID

	x, y          float64 // origin
	width, height float64
	u, v          float64

	userHeading float64
	headingRad  float64 // internal heading; y grows downward so it is -userHeading
	headingCos  float64
	headingSin  float64

	speed float64
	z     float64

	enabled    bool
	visible    bool
	rotates    bool
	autoBounce bool

	shape     core.Shape
	rectShape bool // shape follows the sprite rectangle

	handler  Handler
	observer Observer
}

// New creates a sprite from p.
func New(p Params) (*Sprite, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("%w: got %vx%v", ErrInvalidSize, p.Width, p.Height)
	}
	if p.OriginX < 0 || p.OriginX > 1 || p.OriginY < 0 || p.OriginY > 1 {
		return nil, fmt.Errorf("%w: got (%v, %v)", ErrInvalidOrigin, p.OriginX, p.OriginY)
	}

	s := &Sprite{
		id:         uuid.New(),
		x:          p.X,
		y:          p.Y,
		width:      p.Width,
		height:     p.Height,
		u:          p.OriginX,
		v:          p.OriginY,
		speed:      p.Speed,
		z:          p.Z,
		enabled:    !p.Disabled,
		visible:    !p.Hidden,
		rotates:    p.Rotates,
		autoBounce: p.AutoBounce,
		handler:    p.Handler,
	}
	if s.handler == nil {
		s.handler = Nop
	}

	if p.Shape == nil {
		s.shape = core.Rect(p.Width, p.Height, p.OriginX, p.OriginY)
		s.rectShape = true
	} else {
		if err := validateShape(*p.Shape); err != nil {
			return nil, err
		}
		s.shape = *p.Shape
	}

	s.setHeading(p.Heading)
	return s, nil
}

// NewBall creates a circular sprite of the given radius. The size fields of p
// are ignored.
func NewBall(radius float64, p Params) (*Sprite, error) {
	if radius <= 0 {
		return nil, fmt.Errorf("%w: radius %v", ErrInvalidShape, radius)
	}
	shape := core.NewCircle(radius)
	p.Width, p.Height = 2*radius, 2*radius
	p.Shape = &shape
	return New(p)
}

func validateShape(shape core.Shape) error {
	switch shape.Kind() {
	case core.KindCircle:
		if shape.Radius() <= 0 {
			return fmt.Errorf("%w: radius %v", ErrInvalidShape, shape.Radius())
		}
	case core.KindPolygon:
		if n := len(shape.Vertices()); n < 3 {
			return fmt.Errorf("%w: got %d", core.ErrDegeneratePolygon, n)
		}
	}
	return nil
}

// ID returns the sprite's identity.
func (s *Sprite) ID() uuid.UUID { return s.id }

// X returns the origin x coordinate.
func (s *Sprite) X() float64 { return s.x }

// Y returns the origin y coordinate.
func (s *Sprite) Y() float64 { return s.y }

// Left returns the x coordinate of the sprite's left edge.
func (s *Sprite) Left() float64 { return s.x - s.width*s.u }

// Top returns the y coordinate of the sprite's top edge.
func (s *Sprite) Top() float64 { return s.y - s.height*s.v }

// Width returns the sprite width in pixels.
func (s *Sprite) Width() float64 { return s.width }

// Height returns the sprite height in pixels.
func (s *Sprite) Height() float64 { return s.height }

// Heading returns the user-facing heading in degrees.
func (s *Sprite) Heading() float64 { return s.userHeading }

// Speed returns the distance travelled per tick.
func (s *Sprite) Speed() float64 { return s.speed }

// Z returns the layer; higher layers are drawn later.
func (s *Sprite) Z() float64 { return s.z }

// Enabled reports whether the sprite moves and reacts to input.
func (s *Sprite) Enabled() bool { return s.enabled }

// Visible reports whether the sprite is drawn and can be touched.
func (s *Sprite) Visible() bool { return s.visible }

// Active reports whether the sprite takes part in interaction and physics.
func (s *Sprite) Active() bool { return s.enabled && s.visible }

// AutoBounce reports whether the surface bounces the sprite off edges.
func (s *Sprite) AutoBounce() bool { return s.autoBounce }

// Shape returns the local collision outline.
func (s *Sprite) Shape() core.Shape { return s.shape }

// Attach installs the observer notified about changes. Passing nil detaches.
func (s *Sprite) Attach(o Observer) {
	s.observer = o
}

// SetHandler replaces the notification handler.
func (s *Sprite) SetHandler(h Handler) {
	if h == nil {
		h = Nop
	}
	s.handler = h
}

func (s *Sprite) changed() {
	if s.observer != nil {
		s.observer.SpriteChanged(s)
	}
}

// MoveTo places the origin at (x, y). Observers see a single change even
// though both coordinates may move.
func (s *Sprite) MoveTo(x, y float64) {
	s.x = x
	s.y = y
	s.changed()
}

// Advance moves the sprite one tick along its heading. It does nothing for
// disabled or stationary sprites and reports whether it moved.
func (s *Sprite) Advance() bool {
	if !s.enabled || s.speed == 0 {
		return false
	}
	s.x += s.speed * s.headingCos
	s.y += s.speed * s.headingSin
	s.changed()
	return true
}

// SetHeading sets the heading in degrees, counter-clockwise from east.
func (s *Sprite) SetHeading(degrees float64) {
	s.setHeading(degrees)
	s.changed()
}

func (s *Sprite) setHeading(degrees float64) {
	s.userHeading = degrees
	s.headingRad = -degrees * math.Pi / 180
	s.headingCos = math.Cos(s.headingRad)
	s.headingSin = math.Sin(s.headingRad)
}

// SetSpeed sets the distance travelled per tick.
func (s *Sprite) SetSpeed(speed float64) {
	s.speed = speed
	s.changed()
}

// SetZ moves the sprite to another layer.
func (s *Sprite) SetZ(z float64) {
	if z == s.z {
		return
	}
	s.z = z
	if s.observer != nil {
		s.observer.SpriteLayerChanged(s)
	}
}

// SetSize changes the sprite extent, keeping the origin in place.
func (s *Sprite) SetSize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidSize, width, height)
	}
	s.width = width
	s.height = height
	if s.rectShape {
		s.shape = core.Rect(width, height, s.u, s.v)
	}
	s.changed()
	return nil
}

// SetEnabled turns movement and interaction on or off.
func (s *Sprite) SetEnabled(enabled bool) {
	if enabled == s.enabled {
		return
	}
	s.enabled = enabled
	s.changed()
}

// SetVisible shows or hides the sprite.
func (s *Sprite) SetVisible(visible bool) {
	if visible == s.visible {
		return
	}
	s.visible = visible
	s.changed()
}

// BoundingBox returns the sprite rectangle grown by border pixels.
func (s *Sprite) BoundingBox(border float64) core.Box {
	return core.NewBox(s.Left(), s.Top(), s.width, s.height).Expand(border)
}

// Collider places the collision outline on the surface.
func (s *Sprite) Collider() core.Collider {
	origin := core.Vec{X: s.x, Y: s.y}
	center := core.Vec{X: s.Left() + s.width/2, Y: s.Top() + s.height/2}
	return s.shape.Place(origin, center, s.headingRad, s.rotates)
}

// ContainsPoint reports whether (x, y) lies on the sprite's outline.
func (s *Sprite) ContainsPoint(x, y float64) bool {
	return s.Collider().ContainsPoint(x, y)
}

// IntersectsBox reports whether the sprite's outline overlaps b.
func (s *Sprite) IntersectsBox(b core.Box) bool {
	return s.Collider().IntersectsBox(b)
}

// HitEdge reports which surface edge the sprite rectangle currently exceeds.
func (s *Sprite) HitEdge(surfaceWidth, surfaceHeight float64) Direction {
	return EdgeOf(s.BoundingBox(0), surfaceWidth, surfaceHeight)
}

// MoveIntoBounds pulls the sprite back onto the surface. It is idempotent:
// an in-bounds sprite is left alone and no change is signalled.
func (s *Sprite) MoveIntoBounds(surfaceWidth, surfaceHeight float64) bool {
	left, top, moved := ClampInto(s.Left(), s.Top(), s.width, s.height, surfaceWidth, surfaceHeight)
	if !moved {
		return false
	}
	s.x = left + s.width*s.u
	s.y = top + s.height*s.v
	s.changed()
	return true
}

// Bounce moves the sprite into bounds and reflects its heading off edge if
// it was heading toward that edge.
func (s *Sprite) Bounce(edge Direction, surfaceWidth, surfaceHeight float64) {
	s.MoveIntoBounds(surfaceWidth, surfaceHeight)
	if heading, ok := Reflect(s.userHeading, edge); ok {
		s.SetHeading(heading)
	}
}

// TouchDown forwards a touch-down notification to the handler.
func (s *Sprite) TouchDown(x, y float64) { s.handler.TouchDown(s, x, y) }

// Touched forwards a tap notification to the handler.
func (s *Sprite) Touched(x, y float64) { s.handler.Touched(s, x, y) }

// TouchUp forwards a touch-up notification to the handler.
func (s *Sprite) TouchUp(x, y float64) { s.handler.TouchUp(s, x, y) }

// Dragged forwards a drag step to the handler.
func (s *Sprite) Dragged(startX, startY, prevX, prevY, currX, currY float64) {
	s.handler.Dragged(s, startX, startY, prevX, prevY, currX, currY)
}

// Flung forwards a fling to the handler.
func (s *Sprite) Flung(x, y, speed, heading, xvel, yvel float64) {
	s.handler.Flung(s, x, y, speed, heading, xvel, yvel)
}

// CollidedWith forwards the start of a collision with other.
func (s *Sprite) CollidedWith(other *Sprite) { s.handler.CollidedWith(s, other) }

// NoLongerCollidingWith forwards the end of a collision with other.
func (s *Sprite) NoLongerCollidingWith(other *Sprite) { s.handler.NoLongerCollidingWith(s, other) }

// EdgeReached forwards an edge notification.
func (s *Sprite) EdgeReached(edge Direction) { s.handler.EdgeReached(s, edge) }

// String describes the sprite for logs.
func (s *Sprite) String() string {
	return fmt.Sprintf("sprite %s at (%.1f, %.1f) z=%g", s.id.String()[:8], s.x, s.y, s.z)
}
