package collision

import (
	"bytes"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

// pair is the unordered key of two sprites. The lower id always comes first.
type pair struct {
	lo, hi uuid.UUID
}

func pairOf(a, b *sprite.Sprite) pair {
	ida, idb := a.ID(), b.ID()
	if bytes.Compare(ida[:], idb[:]) > 0 {
		ida, idb = idb, ida
	}
	return pair{lo: ida, hi: idb}
}

func (p pair) has(id uuid.UUID) bool {
	return p.lo == id || p.hi == id
}

// record remembers the sprites of a signalled collision. While pending, only
// a has been told the collision started.
type record struct {
	a, b    *sprite.Sprite
	pending bool
}

func (r record) partner(s *sprite.Sprite) *sprite.Sprite {
	if r.a == s {
		return r.b
	}
	return r.a
}
