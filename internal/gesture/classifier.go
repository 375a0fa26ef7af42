// Package gesture turns the pointer events of one touch sequence into
// touch-down, tap, drag, touch-up and fling notifications for sprites and for
// the surface that hosts them.
package gesture

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

// State is the phase of the current touch sequence.
type State int

const (
	Idle State = iota
	Down
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Down:
		return "down"
	case Dragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Target is the surface the classifier hit-tests against.
type Target interface {
	// Bounds is the surface rectangle.
	Bounds() core.Box
	// HitTest returns the enabled and visible sprites intersecting box in
	// ascending z order.
	HitTest(box core.Box) []*sprite.Sprite
}

// Sink receives the surface-level aggregate of every phase. handled reports
// whether any sprite received the matching notification.
type Sink interface {
	TouchDown(x, y float64)
	Touched(x, y float64, handled bool)
	TouchUp(x, y float64)
	Dragged(startX, startY, prevX, prevY, currX, currY float64, handled bool)
	Flung(x, y, speed, heading, xvel, yvel float64, handled bool)
}

// NopSink ignores every notification.
type NopSink struct{}

func (NopSink) TouchDown(x, y float64)                                                 {}
func (NopSink) Touched(x, y float64, handled bool)                                     {}
func (NopSink) TouchUp(x, y float64)                                                   {}
func (NopSink) Dragged(startX, startY, prevX, prevY, currX, currY float64, handled bool) {}
func (NopSink) Flung(x, y, speed, heading, xvel, yvel float64, handled bool)           {}

// Result summarises a finished touch sequence.
type Result struct {
	Tapped  bool
	Dragged bool
	Flung   bool
}

// Classifier is the state machine for a single pointer. It is not safe for
// concurrent use; the surface serialises events.
type Classifier struct {
	cfg    Config
	target Target
	sink   Sink

	state        State
	startX       float64
	startY       float64
	prevX        float64
	prevY        float64
	currX        float64
	currY        float64
	recipients   []*sprite.Sprite
	recipientIDs map[uuid.UUID]struct{}
	forgotten    map[uuid.UUID]struct{}
	tracker      velocityTracker
}

// New creates a classifier. A nil sink is replaced with NopSink.
func New(cfg Config, target Target, sink Sink) *Classifier {
	if sink == nil {
		sink = NopSink{}
	}
	return &Classifier{
		cfg:          cfg,
		target:       target,
		sink:         sink,
		recipientIDs: make(map[uuid.UUID]struct{}),
		forgotten:    make(map[uuid.UUID]struct{}),
		tracker:      velocityTracker{window: cfg.VelocityWindow},
	}
}

// State returns the current phase.
func (c *Classifier) State() State {
	return c.state
}

// Config returns the tuning in use.
func (c *Classifier) Config() Config {
	return c.cfg
}

// Recipients returns the sprites the current sequence delivers to.
func (c *Classifier) Recipients() []*sprite.Sprite {
	return slices.Clone(c.recipients)
}

// Down starts a touch sequence. A sequence still in progress is discarded as
// if it had been cancelled.
func (c *Classifier) Down(x, y float64, at time.Time) {
	c.Cancel()

	c.state = Down
	c.startX, c.startY = x, y
	c.prevX, c.prevY = x, y
	c.currX, c.currY = x, y
	c.tracker.add(x, y, at)

	c.collect(x, y)
	for _, s := range c.deliveries() {
		if c.receives(s) {
			s.TouchDown(x, y)
		}
	}
	c.sink.TouchDown(x, y)
}

// Move feeds pointer motion. Motion within the tap threshold of the start
// point is ignored until a drag has begun.
func (c *Classifier) Move(x, y float64, at time.Time) {
	if c.state == Idle {
		return
	}
	x, y = c.clamp(x, y)
	c.tracker.add(x, y, at)

	if c.state == Down &&
		math.Abs(x-c.startX) < c.cfg.TapThreshold &&
		math.Abs(y-c.startY) < c.cfg.TapThreshold {
		return
	}

	c.state = Dragging
	c.currX, c.currY = x, y
	c.collect(x, y)

	handled := false
	for _, s := range c.deliveries() {
		if !c.receives(s) || !s.Active() {
			continue
		}
		s.Dragged(c.startX, c.startY, c.prevX, c.prevY, x, y)
		handled = true
	}
	c.sink.Dragged(c.startX, c.startY, c.prevX, c.prevY, x, y, handled)

	c.prevX, c.prevY = x, y
}

// Up ends the touch sequence and reports how it was classified.
func (c *Classifier) Up(x, y float64, at time.Time) Result {
	if c.state == Idle {
		return Result{}
	}
	x, y = c.clamp(x, y)
	c.tracker.add(x, y, at)

	res := Result{Dragged: c.state == Dragging}
	if !res.Dragged {
		res.Tapped = true
		handled := false
		for _, s := range c.deliveries() {
			if !c.receives(s) || !s.Active() {
				continue
			}
			s.Touched(x, y)
			handled = true
		}
		c.sink.Touched(x, y, handled)
	}

	for _, s := range c.deliveries() {
		if c.receives(s) && s.Active() {
			s.TouchUp(x, y)
		}
	}
	c.sink.TouchUp(x, y)

	if res.Dragged {
		res.Flung = c.fling()
	}

	c.clear()
	return res
}

// Cancel abandons the sequence without touch-up notifications.
func (c *Classifier) Cancel() {
	c.clear()
}

// Forget drops s from the current sequence, for sprites leaving the surface.
// It is safe to call from a notification the classifier is delivering.
func (c *Classifier) Forget(s *sprite.Sprite) {
	if c.state == Idle {
		return
	}
	c.forgotten[s.ID()] = struct{}{}
	if _, ok := c.recipientIDs[s.ID()]; !ok {
		return
	}
	delete(c.recipientIDs, s.ID())
	c.recipients = slices.DeleteFunc(slices.Clone(c.recipients), func(r *sprite.Sprite) bool { return r == s })
}

func (c *Classifier) clear() {
	c.state = Idle
	c.recipients = nil
	clear(c.recipientIDs)
	clear(c.forgotten)
	c.tracker.reset()
}

// deliveries returns the recipients in ascending z for one delivery phase.
// Handlers may change layers between phases, so the order is refreshed each
// time. The returned slice is not touched by Forget.
func (c *Classifier) deliveries() []*sprite.Sprite {
	slices.SortStableFunc(c.recipients, byZ)
	return slices.Clone(c.recipients)
}

// receives reports whether s is still part of the sequence.
func (c *Classifier) receives(s *sprite.Sprite) bool {
	_, ok := c.recipientIDs[s.ID()]
	return ok
}

func byZ(a, b *sprite.Sprite) int {
	return cmp.Compare(a.Z(), b.Z())
}

func (c *Classifier) fling() bool {
	vx, vy := c.tracker.velocity()
	speed := math.Hypot(vx, vy)
	if speed == 0 || speed < c.cfg.MinFlingSpeed {
		return false
	}
	if speed > c.cfg.MaxFlingSpeed {
		scale := c.cfg.MaxFlingSpeed / speed
		vx, vy = vx*scale, vy*scale
		speed = c.cfg.MaxFlingSpeed
	}
	heading := -math.Atan2(vy, vx) * 180 / math.Pi

	handled := false
	for _, s := range c.hits(c.startX, c.startY) {
		if _, gone := c.forgotten[s.ID()]; gone {
			continue
		}
		s.Flung(c.startX, c.startY, speed, heading, vx, vy)
		handled = true
	}
	c.sink.Flung(c.startX, c.startY, speed, heading, vx, vy, handled)
	return true
}

// collect adds every sprite under the finger box at (x, y) to the recipients.
// Sprites are never dropped once added, unless they leave the surface.
func (c *Classifier) collect(x, y float64) {
	for _, s := range c.hits(x, y) {
		if _, ok := c.recipientIDs[s.ID()]; ok {
			continue
		}
		c.recipientIDs[s.ID()] = struct{}{}
		c.recipients = append(c.recipients, s)
	}
}

func (c *Classifier) hits(x, y float64) []*sprite.Sprite {
	box := core.Box{
		Left:   x - c.cfg.FingerHalfWidth,
		Top:    y - c.cfg.FingerHalfHeight,
		Right:  x + c.cfg.FingerHalfWidth,
		Bottom: y + c.cfg.FingerHalfHeight,
	}
	if !box.Intersect(c.target.Bounds()) {
		return nil
	}
	return c.target.HitTest(box)
}

func (c *Classifier) clamp(x, y float64) (float64, float64) {
	if c.cfg.ExtendMovesOutside {
		return x, y
	}
	b := c.target.Bounds()
	return core.ClampF(x, b.Left, b.Right), core.ClampF(y, b.Top, b.Bottom)
}
