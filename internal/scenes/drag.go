package scenes

import (
	"math/rand"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
	"github.com/vovakirdan/tui-canvas/internal/surface"
)

// DragID identifies the drag and fling scene.
const DragID = "drag"

// flingScale turns a fling speed in pixels per millisecond into a sprite
// speed in pixels per tick.
const flingScale = 8.0

// Drag lays out tiles that can be dragged around and flung. A touched tile
// is raised above the others; tapping a moving tile stops it.
type Drag struct {
	looks
	top float64
}

// NewDrag creates the scene.
func NewDrag() registry.Scene {
	return &Drag{looks: newLooks(registry.Look{Glyph: '█', Color: core.ColorWhite})}
}

func (d *Drag) ID() string    { return DragID }
func (d *Drag) Title() string { return "Drag & Fling" }

// Setup implements registry.Scene.
func (d *Drag) Setup(surf *surface.Surface, cfg config.SceneConfig, rng *rand.Rand) error {
	d.reset()
	d.top = 0
	handler := sprite.Funcs{
		OnTouchDown: func(sp *sprite.Sprite, _, _ float64) {
			d.top++
			sp.SetZ(d.top)
		},
		OnTouched: func(sp *sprite.Sprite, _, _ float64) {
			sp.SetSpeed(0)
		},
		OnDragged: func(sp *sprite.Sprite, _, _, prevX, prevY, currX, currY float64) {
			sp.SetSpeed(0)
			sp.MoveTo(sp.X()+currX-prevX, sp.Y()+currY-prevY)
		},
		OnFlung: func(sp *sprite.Sprite, _, _, speed, heading, _, _ float64) {
			sp.SetHeading(heading)
			sp.SetSpeed(speed * flingScale)
		},
		OnCollidedWith: func(sp, _ *sprite.Sprite) { d.recolor(sp) },
	}

	for i := range cfg.Sprites {
		w := between(rng, cfg.MinSize, cfg.MaxSize)
		h := between(rng, cfg.MinSize, cfg.MaxSize)
		sp, err := sprite.New(sprite.Params{
			X:          between(rng, 0, surf.Width()-w),
			Y:          between(rng, 0, surf.Height()-h),
			Width:      w,
			Height:     h,
			Z:          float64(i),
			AutoBounce: true,
			Handler:    handler,
		})
		if err != nil {
			return err
		}
		d.top = float64(i)
		d.set(sp, registry.Look{Glyph: '█', Color: randomColor(rng)})
		if err := surf.Add(sp); err != nil {
			return err
		}
	}
	return nil
}
