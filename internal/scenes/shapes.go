package scenes

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
	"github.com/vovakirdan/tui-canvas/internal/surface"
)

// ShapesID identifies the mixed shapes scene.
const ShapesID = "shapes"

// Shapes mixes rotating polygons and balls. Sprites bounce from their own
// edge handlers, turn around when tapped and flash on collision.
type Shapes struct {
	looks
}

// NewShapes creates the scene.
func NewShapes() registry.Scene {
	return &Shapes{looks: newLooks(registry.Look{Glyph: '▲', Color: core.ColorWhite})}
}

func (s *Shapes) ID() string    { return ShapesID }
func (s *Shapes) Title() string { return "Rotating Shapes" }

// Setup implements registry.Scene.
func (s *Shapes) Setup(surf *surface.Surface, cfg config.SceneConfig, rng *rand.Rand) error {
	s.reset()
	handler := sprite.Funcs{
		OnEdgeReached: func(sp *sprite.Sprite, edge sprite.Direction) {
			sp.Bounce(edge, surf.Width(), surf.Height())
		},
		OnTouched: func(sp *sprite.Sprite, _, _ float64) {
			sp.SetHeading(sp.Heading() + 180)
		},
		OnCollidedWith: func(sp, _ *sprite.Sprite) { s.recolor(sp) },
	}

	for i := range cfg.Sprites {
		size := between(rng, cfg.MinSize, cfg.MaxSize)
		p := sprite.Params{
			X:       between(rng, size, surf.Width()-size),
			Y:       between(rng, size, surf.Height()-size),
			Width:   size,
			Height:  size,
			OriginX: 0.5,
			OriginY: 0.5,
			Heading: rng.Float64() * 360,
			Speed:   between(rng, cfg.MinSpeed, cfg.MaxSpeed),
			Z:       float64(i),
			Rotates: true,
			Handler: handler,
		}

		var (
			sp    *sprite.Sprite
			err   error
			glyph rune
		)
		switch i % 3 {
		case 0:
			sp, err = sprite.NewBall(size/2, p)
			glyph = '●'
		case 1:
			shape := regular(3, size/2)
			p.Shape = &shape
			sp, err = sprite.New(p)
			glyph = '▲'
		default:
			shape := regular(6, size/2)
			p.Shape = &shape
			sp, err = sprite.New(p)
			glyph = '⬢'
		}
		if err != nil {
			return err
		}
		s.set(sp, registry.Look{Glyph: glyph, Color: randomColor(rng)})
		if err := surf.Add(sp); err != nil {
			return err
		}
	}
	return nil
}

// regular returns an origin-centered regular polygon with one vertex on the
// heading axis.
func regular(n int, radius float64) core.Shape {
	verts := make([]core.Vec, n)
	for i := range verts {
		a := 2 * math.Pi * float64(i) / float64(n)
		verts[i] = core.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	shape, err := core.NewPolygon(verts...)
	if err != nil {
		// n is a constant of at least 3.
		panic(err)
	}
	return shape
}
