package scenes

import (
	"math/rand"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
	"github.com/vovakirdan/tui-canvas/internal/surface"
)

// BounceID identifies the bouncing balls scene.
const BounceID = "bounce"

// Bounce fills the surface with balls that bounce off the edges and change
// color when they collide. Tapping an empty spot adds a ball there.
type Bounce struct {
	looks
	surface.NopSink

	surf *surface.Surface
	cfg  config.SceneConfig
	rng  *rand.Rand
}

// NewBounce creates the scene.
func NewBounce() registry.Scene {
	return &Bounce{looks: newLooks(registry.Look{Glyph: '●', Color: core.ColorWhite})}
}

func (b *Bounce) ID() string    { return BounceID }
func (b *Bounce) Title() string { return "Bouncing Balls" }

// Setup implements registry.Scene.
func (b *Bounce) Setup(surf *surface.Surface, cfg config.SceneConfig, rng *rand.Rand) error {
	b.reset()
	b.surf, b.cfg, b.rng = surf, cfg, rng
	for range cfg.Sprites {
		r := between(rng, cfg.MinSize, cfg.MaxSize) / 2
		x := between(rng, r, surf.Width()-r)
		y := between(rng, r, surf.Height()-r)
		if err := b.spawn(x, y, r); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bounce) spawn(x, y, radius float64) error {
	ball, err := sprite.NewBall(radius, sprite.Params{
		X:          x,
		Y:          y,
		OriginX:    0.5,
		OriginY:    0.5,
		Heading:    b.rng.Float64() * 360,
		Speed:      between(b.rng, b.cfg.MinSpeed, b.cfg.MaxSpeed),
		AutoBounce: true,
		Handler: sprite.Funcs{
			OnCollidedWith: func(s, _ *sprite.Sprite) { b.recolor(s) },
		},
	})
	if err != nil {
		return err
	}
	b.set(ball, registry.Look{Glyph: '●', Color: randomColor(b.rng)})
	return b.surf.Add(ball)
}

// Touched implements surface.Sink.
func (b *Bounce) Touched(x, y float64, handled bool) {
	if handled || b.surf == nil {
		return
	}
	//nolint:errcheck // A ball that cannot be created is simply not added.
	b.spawn(x, y, b.cfg.MinSize/2)
}
