package sprite

// Handler is the set of notifications a sprite reacts to. Coordinates are in
// surface pixels, speeds in pixels per millisecond and headings in degrees.
type Handler interface {
	TouchDown(s *Sprite, x, y float64)
	Touched(s *Sprite, x, y float64)
	TouchUp(s *Sprite, x, y float64)
	Dragged(s *Sprite, startX, startY, prevX, prevY, currX, currY float64)
	Flung(s *Sprite, x, y, speed, heading, xvel, yvel float64)
	CollidedWith(s, other *Sprite)
	NoLongerCollidingWith(s, other *Sprite)
	EdgeReached(s *Sprite, edge Direction)
}

// Funcs adapts optional functions to a Handler. Nil fields are ignored.
type Funcs struct {
	OnTouchDown             func(s *Sprite, x, y float64)
	OnTouched               func(s *Sprite, x, y float64)
	OnTouchUp               func(s *Sprite, x, y float64)
	OnDragged               func(s *Sprite, startX, startY, prevX, prevY, currX, currY float64)
	OnFlung                 func(s *Sprite, x, y, speed, heading, xvel, yvel float64)
	OnCollidedWith          func(s, other *Sprite)
	OnNoLongerCollidingWith func(s, other *Sprite)
	OnEdgeReached           func(s *Sprite, edge Direction)
}

var _ Handler = Funcs{}

func (f Funcs) TouchDown(s *Sprite, x, y float64) {
	if f.OnTouchDown != nil {
		f.OnTouchDown(s, x, y)
	}
}

func (f Funcs) Touched(s *Sprite, x, y float64) {
	if f.OnTouched != nil {
		f.OnTouched(s, x, y)
	}
}

func (f Funcs) TouchUp(s *Sprite, x, y float64) {
	if f.OnTouchUp != nil {
		f.OnTouchUp(s, x, y)
	}
}

func (f Funcs) Dragged(s *Sprite, startX, startY, prevX, prevY, currX, currY float64) {
	if f.OnDragged != nil {
		f.OnDragged(s, startX, startY, prevX, prevY, currX, currY)
	}
}

func (f Funcs) Flung(s *Sprite, x, y, speed, heading, xvel, yvel float64) {
	if f.OnFlung != nil {
		f.OnFlung(s, x, y, speed, heading, xvel, yvel)
	}
}

func (f Funcs) CollidedWith(s, other *Sprite) {
	if f.OnCollidedWith != nil {
		f.OnCollidedWith(s, other)
	}
}

func (f Funcs) NoLongerCollidingWith(s, other *Sprite) {
	if f.OnNoLongerCollidingWith != nil {
		f.OnNoLongerCollidingWith(s, other)
	}
}

func (f Funcs) EdgeReached(s *Sprite, edge Direction) {
	if f.OnEdgeReached != nil {
		f.OnEdgeReached(s, edge)
	}
}

// Nop is a Handler that ignores every notification.
var Nop Handler = Funcs{}
