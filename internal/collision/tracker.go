// Package collision tracks which sprites overlap and signals the start and
// end of every overlap exactly once.
package collision

import (
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

// Tracker holds the pairs of sprites currently known to collide. A pair is
// present iff CollidedWith has been sent for it and NoLongerCollidingWith has
// not.
type Tracker struct {
	pairs   map[pair]record
	present func(*sprite.Sprite) bool
	started int
	ended   int
}

// NewTracker creates an empty tracker. present reports whether a sprite is
// still owned by the caller; handlers may remove sprites while Update is
// delivering. A nil present treats every sprite as present.
func NewTracker(present func(*sprite.Sprite) bool) *Tracker {
	if present == nil {
		present = func(*sprite.Sprite) bool { return true }
	}
	return &Tracker{pairs: make(map[pair]record), present: present}
}

// Update re-evaluates moved against every other sprite in all. Inactive
// sprites never collide, so pairs involving them end without a geometric
// check. The moved sprite is notified before its partner.
//
// Update stops as soon as moved is no longer present and skips partners that
// were removed by an earlier notification.
func (t *Tracker) Update(moved *sprite.Sprite, all []*sprite.Sprite) {
	var mc core.Collider
	var mbounds core.Box
	if moved.Active() {
		mc = moved.Collider()
		mbounds = mc.Bounds()
	}

	for _, other := range all {
		if !t.present(moved) {
			return
		}
		if other == moved || !t.present(other) {
			continue
		}
		key := pairOf(moved, other)
		_, known := t.pairs[key]

		now := false
		if moved.Active() && other.Active() {
			oc := other.Collider()
			now = mbounds.Intersects(oc.Bounds()) && core.Colliding(mc, oc)
		}

		switch {
		case now && !known:
			t.pairs[key] = record{a: moved, b: other, pending: true}
			t.started++
			moved.CollidedWith(other)
			// Either sprite may have been removed, which purged the pair.
			rec, ok := t.pairs[key]
			if !ok {
				continue
			}
			rec.pending = false
			t.pairs[key] = rec
			other.CollidedWith(moved)
		case !now && known:
			delete(t.pairs, key)
			t.ended++
			moved.NoLongerCollidingWith(other)
			if t.present(other) {
				other.NoLongerCollidingWith(moved)
			}
		}
	}
}

// Remove forgets every pair involving s. Surviving partners are told the
// collision ended; s itself receives nothing. A partner that was never told
// the collision started is not told it ended either.
func (t *Tracker) Remove(s *sprite.Sprite) {
	for key, rec := range t.pairs {
		if !key.has(s.ID()) {
			continue
		}
		delete(t.pairs, key)
		t.ended++
		p := rec.partner(s)
		if rec.pending && p == rec.b {
			continue
		}
		p.NoLongerCollidingWith(s)
	}
}

// Colliding reports whether a and b are recorded as colliding.
func (t *Tracker) Colliding(a, b *sprite.Sprite) bool {
	_, ok := t.pairs[pairOf(a, b)]
	return ok
}

// Partners returns the sprites recorded as colliding with s.
func (t *Tracker) Partners(s *sprite.Sprite) []*sprite.Sprite {
	var out []*sprite.Sprite
	for key, rec := range t.pairs {
		if key.has(s.ID()) {
			out = append(out, rec.partner(s))
		}
	}
	return out
}

// Len returns the number of ongoing collisions.
func (t *Tracker) Len() int {
	return len(t.pairs)
}

// Started returns how many collisions have begun since the tracker was created.
func (t *Tracker) Started() int {
	return t.started
}

// Ended returns how many collisions have finished since the tracker was created.
func (t *Tracker) Ended() int {
	return t.ended
}

// Reset forgets every pair without sending notifications.
func (t *Tracker) Reset() {
	clear(t.pairs)
}
