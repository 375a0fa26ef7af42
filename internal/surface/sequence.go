package surface

import (
	"slices"

	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

// sequence keeps sprites sorted by ascending z. Equal layers keep insertion
// order.
type sequence struct {
	items []*sprite.Sprite
}

// insert places s before the first sprite with a strictly greater z.
func (q *sequence) insert(s *sprite.Sprite) {
	i := slices.IndexFunc(q.items, func(o *sprite.Sprite) bool { return o.Z() > s.Z() })
	if i < 0 {
		q.items = append(q.items, s)
		return
	}
	q.items = slices.Insert(q.items, i, s)
}

func (q *sequence) remove(s *sprite.Sprite) bool {
	i := slices.Index(q.items, s)
	if i < 0 {
		return false
	}
	q.items = slices.Delete(q.items, i, i+1)
	return true
}

// reposition re-sorts s after its layer changed.
func (q *sequence) reposition(s *sprite.Sprite) {
	if q.remove(s) {
		q.insert(s)
	}
}

func (q *sequence) contains(s *sprite.Sprite) bool {
	return slices.Contains(q.items, s)
}

func (q *sequence) snapshot() []*sprite.Sprite {
	return slices.Clone(q.items)
}

func (q *sequence) len() int {
	return len(q.items)
}
