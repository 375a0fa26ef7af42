// Package scenes contains the built-in canvas scenes.
package scenes

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

// Register adds every built-in scene to r.
func Register(r *registry.Registry) error {
	for id, f := range map[string]registry.Factory{
		BounceID: NewBounce,
		ShapesID: NewShapes,
		DragID:   NewDrag,
	} {
		if err := r.Register(id, f); err != nil {
			return err
		}
	}
	return nil
}

// Default returns a registry holding the built-in scenes.
func Default() *registry.Registry {
	r := registry.New()
	if err := Register(r); err != nil {
		// Only possible if the ids above collide.
		panic(err)
	}
	return r
}

// looks remembers how each sprite of a scene is drawn.
type looks struct {
	byID     map[uuid.UUID]registry.Look
	fallback registry.Look
}

func newLooks(fallback registry.Look) looks {
	return looks{byID: make(map[uuid.UUID]registry.Look), fallback: fallback}
}

// reset forgets the looks of sprites from a previous setup.
func (l looks) reset() {
	clear(l.byID)
}

func (l looks) set(sp *sprite.Sprite, look registry.Look) {
	l.byID[sp.ID()] = look
}

// Look implements registry.Scene.
func (l looks) Look(sp *sprite.Sprite) registry.Look {
	if look, ok := l.byID[sp.ID()]; ok {
		return look
	}
	return l.fallback
}

// recolor advances the sprite to the next palette color.
func (l looks) recolor(sp *sprite.Sprite) {
	look := l.Look(sp)
	look.Color = look.Color.Next()
	l.set(sp, look)
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}

func randomColor(rng *rand.Rand) core.Color {
	return core.Palette[rng.Intn(len(core.Palette))]
}
