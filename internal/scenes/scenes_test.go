package scenes

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/surface"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

func setup(t *testing.T, id string, sprites int) (registry.Scene, *surface.Surface) {
	t.Helper()
	scene, err := Default().Create(id)
	require.NoError(t, err)

	surf, err := surface.New(640, 480, surface.WithSink(registry.SinkFor(scene)))
	require.NoError(t, err)

	cfg := config.DefaultCanvasConfig().Scene
	cfg.Sprites = sprites
	require.NoError(t, scene.Setup(surf, cfg, rand.New(rand.NewSource(1))))
	return scene, surf
}

func TestDefaultRegistry(t *testing.T) {
	list := Default().List()
	ids := make([]string, 0, len(list))
	for _, info := range list {
		ids = append(ids, info.ID)
		assert.NotEmpty(t, info.Title)
	}
	assert.Equal(t, []string{BounceID, DragID, ShapesID}, ids)

	assert.ErrorIs(t, Register(Default()), registry.ErrDuplicate)
}

func TestScenesPopulateInsideBounds(t *testing.T) {
	for _, id := range []string{BounceID, ShapesID, DragID} {
		t.Run(id, func(t *testing.T) {
			scene, surf := setup(t, id, 8)
			require.Equal(t, 8, surf.Len())

			for range 200 {
				require.NoError(t, surf.OnTick())
			}
			for _, sp := range surf.Sprites() {
				box := sp.BoundingBox(0)
				assert.GreaterOrEqual(t, box.Left, 0.0)
				assert.GreaterOrEqual(t, box.Top, 0.0)
				assert.LessOrEqual(t, box.Right, 640.0)
				assert.LessOrEqual(t, box.Bottom, 480.0)
				assert.NotZero(t, scene.Look(sp).Glyph)
			}
		})
	}
}

func TestBounceTapSpawnsBall(t *testing.T) {
	_, surf := setup(t, BounceID, 0)

	require.NoError(t, surf.OnPointerDown(100, 100, at(0)))
	require.NoError(t, surf.OnPointerUp(100, 100, at(30)))
	require.Equal(t, 1, surf.Len())

	ball := surf.Sprites()[0]
	assert.Equal(t, 100.0, ball.X())
	assert.Equal(t, 100.0, ball.Y())

	require.NoError(t, surf.OnPointerDown(100, 100, at(100)))
	require.NoError(t, surf.OnPointerUp(100, 100, at(130)))
	assert.Equal(t, 1, surf.Len(), "tapping a ball does not spawn another")
}

func TestBounceCollisionRecolors(t *testing.T) {
	scene, surf := setup(t, BounceID, 0)
	require.NoError(t, surf.OnPointerDown(100, 100, at(0)))
	require.NoError(t, surf.OnPointerUp(100, 100, at(10)))
	first := surf.Sprites()[0]
	before := scene.Look(first).Color

	// Overlapping spawn straight from the sink.
	scene.(*Bounce).Touched(105, 100, false)
	require.Equal(t, 2, surf.Len())
	assert.NotEqual(t, before, scene.Look(first).Color)
}

func TestDragMovesRaisesAndFlings(t *testing.T) {
	_, surf := setup(t, DragID, 2)
	sprites := surf.Sprites()
	tile := sprites[0]
	for _, sp := range sprites[1:] {
		sp.SetVisible(false)
	}

	cx := tile.Left() + tile.Width()/2
	cy := tile.Top() + tile.Height()/2
	x0 := tile.X()

	require.NoError(t, surf.OnPointerDown(cx, cy, at(0)))
	assert.Equal(t, tile, surf.Sprites()[len(surf.Sprites())-1], "touched tile moves to the top layer")

	dx := 20.0
	if tile.BoundingBox(0).Right+dx > 640 {
		dx = -20
	}
	require.NoError(t, surf.OnPointerMove(cx+dx, cy, at(1000)))
	require.NoError(t, surf.OnPointerUp(cx+dx, cy, at(2000)))
	assert.InDelta(t, x0+dx, tile.X(), 1e-9)
	assert.Zero(t, tile.Speed())

	cx = tile.Left() + tile.Width()/2
	require.NoError(t, surf.OnPointerDown(cx, cy, at(3000)))
	dy := 16.0
	if cy+2*dy > 480 {
		dy = -16
	}
	require.NoError(t, surf.OnPointerMove(cx, cy+dy, at(3010)))
	require.NoError(t, surf.OnPointerUp(cx, cy+dy*1.25, at(3020)))
	assert.Positive(t, tile.Speed())
	assert.Equal(t, 1, surf.Stats().Flings)
}

func TestShapesTapTurnsAround(t *testing.T) {
	_, surf := setup(t, ShapesID, 1)
	sp := surf.Sprites()[0]
	sp.SetSpeed(0)
	heading := sp.Heading()

	require.NoError(t, surf.OnPointerDown(sp.X(), sp.Y(), at(0)))
	require.NoError(t, surf.OnPointerUp(sp.X(), sp.Y(), at(10)))
	assert.Equal(t, heading+180, sp.Heading())
}
