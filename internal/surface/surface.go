// Package surface coordinates the sprites of one canvas: it keeps them in z
// order, advances them on every tick, routes pointer events through the
// gesture classifier and runs edge and collision checks whenever a sprite
// changes.
//
// A Surface is single-threaded. Ticks and pointer events must be delivered
// one at a time; an event arriving while another is still being processed is
// rejected with ErrReentrant.
package surface

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-canvas/internal/collision"
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/gesture"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

var (
	// ErrInvalidSize is returned for surfaces without a positive width and height.
	ErrInvalidSize = errors.New("surface: width and height must be positive")
	// ErrReentrant is returned when an event is delivered while another one
	// is still being processed. It indicates a host integration bug.
	ErrReentrant = errors.New("surface: event delivered during another event")
	// ErrAlreadyAdded is returned when adding a sprite twice.
	ErrAlreadyAdded = errors.New("surface: sprite already on the surface")
	// ErrNotFound is returned when removing a sprite that is not on the surface.
	ErrNotFound = errors.New("surface: sprite not on the surface")
)

// Sink receives surface-level gesture notifications.
type Sink = gesture.Sink

// NopSink ignores every notification.
type NopSink = gesture.NopSink

// Option configures a Surface.
type Option func(*options)

type options struct {
	gestures gesture.Config
	sink     Sink
	logger   *log.Logger
	redraw   func()
}

// WithGestureConfig sets the gesture tuning.
func WithGestureConfig(cfg gesture.Config) Option {
	return func(o *options) { o.gestures = cfg }
}

// WithSink sets the receiver of surface-level gesture notifications.
func WithSink(sink Sink) Option {
	return func(o *options) { o.sink = sink }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithRedraw sets the function called when the surface needs repainting.
func WithRedraw(fn func()) Option {
	return func(o *options) { o.redraw = fn }
}

// Surface owns the sprites of a canvas.
type Surface struct {
	width, height float64

	seq      sequence
	tracker  *collision.Tracker
	gestures *gesture.Classifier
	logger   *log.Logger
	redraw   func()

	// outside holds sprites still beyond an edge after being pulled back,
	// which only happens to sprites larger than the surface.
	outside  map[uuid.UUID]sprite.Direction
	settling map[*sprite.Sprite]struct{}

	busy    bool
	ticking bool
	stats   Stats

	// collisions started before the last ResetStats
	collisionBase int
}

// New creates a surface of the given size in pixels.
func New(width, height float64, opts ...Option) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %vx%v", ErrInvalidSize, width, height)
	}

	o := options{
		gestures: gesture.DefaultConfig(),
		sink:     NopSink{},
		logger:   log.New(io.Discard),
		redraw:   func() {},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.gestures.Validate(); err != nil {
		return nil, fmt.Errorf("surface: %w", err)
	}

	s := &Surface{
		width:    width,
		height:   height,
		logger:   o.logger,
		redraw:   o.redraw,
		outside:  make(map[uuid.UUID]sprite.Direction),
		settling: make(map[*sprite.Sprite]struct{}),
	}
	s.tracker = collision.NewTracker(s.seq.contains)
	s.gestures = gesture.New(o.gestures, s, o.sink)
	return s, nil
}

// Width returns the surface width in pixels.
func (s *Surface) Width() float64 { return s.width }

// Height returns the surface height in pixels.
func (s *Surface) Height() float64 { return s.height }

// Bounds returns the surface rectangle.
func (s *Surface) Bounds() core.Box {
	return core.NewBox(0, 0, s.width, s.height)
}

// Len returns the number of sprites.
func (s *Surface) Len() int { return s.seq.len() }

// Sprites returns the sprites in ascending z order.
func (s *Surface) Sprites() []*sprite.Sprite {
	return s.seq.snapshot()
}

// Stats returns the event counters.
func (s *Surface) Stats() Stats {
	st := s.stats
	st.Collisions = s.tracker.Started() - s.collisionBase
	return st
}

// ResetStats zeroes the event counters.
func (s *Surface) ResetStats() {
	s.stats = Stats{}
	s.collisionBase = s.tracker.Started()
}

// Colliding reports whether a and b currently overlap.
func (s *Surface) Colliding(a, b *sprite.Sprite) bool {
	return s.tracker.Colliding(a, b)
}

// GestureState returns the phase of the current touch sequence.
func (s *Surface) GestureState() gesture.State {
	return s.gestures.State()
}

// Add puts sp on the surface and runs its first edge and collision check.
func (s *Surface) Add(sp *sprite.Sprite) error {
	if s.seq.contains(sp) {
		return fmt.Errorf("%w: %s", ErrAlreadyAdded, sp)
	}
	s.seq.insert(sp)
	sp.Attach(s)
	s.logger.Debug("sprite added", "id", sp.ID(), "z", sp.Z(), "count", s.seq.len())
	s.settle(sp)
	return nil
}

// Remove takes sp off the surface. Sprites it was colliding with are told the
// collision ended; sp itself receives nothing.
func (s *Surface) Remove(sp *sprite.Sprite) error {
	if !s.seq.remove(sp) {
		return fmt.Errorf("%w: %s", ErrNotFound, sp)
	}
	sp.Attach(nil)
	delete(s.outside, sp.ID())
	s.gestures.Forget(sp)
	s.tracker.Remove(sp)
	s.logger.Debug("sprite removed", "id", sp.ID(), "count", s.seq.len())
	s.requestRedraw()
	return nil
}

// Clear removes every sprite without collision notifications.
func (s *Surface) Clear() {
	for _, sp := range s.seq.snapshot() {
		sp.Attach(nil)
		s.gestures.Forget(sp)
	}
	s.seq = sequence{}
	s.tracker.Reset()
	clear(s.outside)
	s.requestRedraw()
}

// HitTest returns the enabled and visible sprites overlapping box in
// ascending z order.
func (s *Surface) HitTest(box core.Box) []*sprite.Sprite {
	var hits []*sprite.Sprite
	for _, sp := range s.seq.items {
		if sp.Active() && sp.IntersectsBox(box) {
			hits = append(hits, sp)
		}
	}
	return hits
}

// SpriteChanged implements sprite.Observer.
func (s *Surface) SpriteChanged(sp *sprite.Sprite) {
	s.settle(sp)
}

// SpriteLayerChanged implements sprite.Observer.
func (s *Surface) SpriteLayerChanged(sp *sprite.Sprite) {
	s.seq.reposition(sp)
	s.requestRedraw()
}

// OnTick advances every enabled sprite once and requests a single redraw.
func (s *Surface) OnTick() error {
	if err := s.enter("tick"); err != nil {
		return err
	}
	defer s.leave()

	s.ticking = true
	for _, sp := range s.seq.snapshot() {
		// A handler earlier in this tick may have removed it.
		if !s.seq.contains(sp) {
			continue
		}
		sp.Advance()
	}
	s.ticking = false
	s.stats.Ticks++
	s.redraw()
	return nil
}

// OnResize changes the surface size and pulls sprites back inside.
func (s *Surface) OnResize(width, height float64) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: got %vx%v", ErrInvalidSize, width, height)
	}
	if err := s.enter("resize"); err != nil {
		return err
	}
	defer s.leave()

	s.width, s.height = width, height
	s.ticking = true
	for _, sp := range s.seq.snapshot() {
		if s.seq.contains(sp) {
			s.settle(sp)
		}
	}
	s.ticking = false
	s.redraw()
	return nil
}

// OnPointerDown starts a touch sequence.
func (s *Surface) OnPointerDown(x, y float64, at time.Time) error {
	if err := s.enter("pointer down"); err != nil {
		return err
	}
	defer s.leave()

	s.gestures.Down(x, y, at)
	return nil
}

// OnPointerMove continues a touch sequence.
func (s *Surface) OnPointerMove(x, y float64, at time.Time) error {
	if err := s.enter("pointer move"); err != nil {
		return err
	}
	defer s.leave()

	s.gestures.Move(x, y, at)
	return nil
}

// OnPointerUp ends a touch sequence.
func (s *Surface) OnPointerUp(x, y float64, at time.Time) error {
	if err := s.enter("pointer up"); err != nil {
		return err
	}
	defer s.leave()

	res := s.gestures.Up(x, y, at)
	if res.Tapped {
		s.stats.Taps++
	}
	if res.Dragged {
		s.stats.Drags++
	}
	if res.Flung {
		s.stats.Flings++
	}
	return nil
}

// OnPointerCancel abandons a touch sequence without touch-up notifications.
func (s *Surface) OnPointerCancel() error {
	if err := s.enter("pointer cancel"); err != nil {
		return err
	}
	defer s.leave()

	s.gestures.Cancel()
	return nil
}

func (s *Surface) enter(event string) error {
	if s.busy {
		s.logger.Error("reentrant event", "event", event)
		return fmt.Errorf("%w: %s", ErrReentrant, event)
	}
	s.busy = true
	return nil
}

func (s *Surface) leave() {
	s.busy = false
}

// settle runs the edge and collision checks for a changed sprite. Changes
// made while a sprite is already settling only request a redraw.
func (s *Surface) settle(sp *sprite.Sprite) {
	if !s.seq.contains(sp) {
		return
	}
	if _, ok := s.settling[sp]; ok {
		return
	}
	s.settling[sp] = struct{}{}
	defer delete(s.settling, sp)

	if sp.Active() {
		s.checkEdges(sp)
	}
	// Edge handlers may have removed the sprite.
	if s.seq.contains(sp) {
		s.tracker.Update(sp, s.seq.snapshot())
	}
	s.requestRedraw()
}

func (s *Surface) checkEdges(sp *sprite.Sprite) {
	edge := sp.HitEdge(s.width, s.height)
	if edge == sprite.None {
		delete(s.outside, sp.ID())
		return
	}

	sp.MoveIntoBounds(s.width, s.height)
	if prev, ok := s.outside[sp.ID()]; !ok || prev != edge {
		s.stats.Edges++
		sp.EdgeReached(edge)
		if sp.AutoBounce() {
			sp.Bounce(edge, s.width, s.height)
			s.stats.Bounces++
		}
	}

	if sp.HitEdge(s.width, s.height) != sprite.None {
		s.outside[sp.ID()] = edge
	} else {
		delete(s.outside, sp.ID())
	}
}

func (s *Surface) requestRedraw() {
	if s.ticking {
		return
	}
	s.redraw()
}
