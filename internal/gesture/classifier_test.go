package gesture

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
)

type trace struct {
	lines []string
}

func (l *trace) add(format string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

type board struct {
	width, height float64
	sprites       []*sprite.Sprite
}

func (b *board) Bounds() core.Box {
	return core.NewBox(0, 0, b.width, b.height)
}

func (b *board) HitTest(box core.Box) []*sprite.Sprite {
	var out []*sprite.Sprite
	for _, s := range b.sprites {
		if s.Active() && s.IntersectsBox(box) {
			out = append(out, s)
		}
	}
	slices.SortStableFunc(out, func(a, b *sprite.Sprite) int { return cmp.Compare(a.Z(), b.Z()) })
	return out
}

type sink struct {
	l *trace
}

func (s sink) TouchDown(x, y float64) { s.l.add("surface down %g,%g", x, y) }
func (s sink) Touched(x, y float64, handled bool) {
	s.l.add("surface touched %g,%g %v", x, y, handled)
}
func (s sink) TouchUp(x, y float64) { s.l.add("surface up %g,%g", x, y) }
func (s sink) Dragged(startX, startY, prevX, prevY, currX, currY float64, handled bool) {
	s.l.add("surface dragged %g,%g %g,%g %g,%g %v", startX, startY, prevX, prevY, currX, currY, handled)
}
func (s sink) Flung(x, y, speed, heading, xvel, yvel float64, handled bool) {
	s.l.add("surface flung %g,%g %v", x, y, handled)
}

func named(name string, l *trace) sprite.Handler {
	return sprite.Funcs{
		OnTouchDown: func(_ *sprite.Sprite, x, y float64) { l.add("%s down", name) },
		OnTouched:   func(_ *sprite.Sprite, x, y float64) { l.add("%s touched", name) },
		OnTouchUp:   func(_ *sprite.Sprite, x, y float64) { l.add("%s up", name) },
		OnDragged: func(_ *sprite.Sprite, sx, sy, px, py, cx, cy float64) {
			l.add("%s dragged %g,%g %g,%g %g,%g", name, sx, sy, px, py, cx, cy)
		},
		OnFlung: func(_ *sprite.Sprite, x, y, speed, heading, vx, vy float64) {
			l.add("%s flung", name)
		},
	}
}

func tile(t *testing.T, l *trace, name string, x, y, z float64) *sprite.Sprite {
	t.Helper()
	s, err := sprite.New(sprite.Params{X: x, Y: y, Width: 20, Height: 20, Z: z, Handler: named(name, l)})
	require.NoError(t, err)
	return s
}

func setup(t *testing.T, cfg Config, l *trace, sprites ...*sprite.Sprite) (*Classifier, *board) {
	t.Helper()
	b := &board{width: 320, height: 480, sprites: sprites}
	return New(cfg, b, sink{l: l}), b
}

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ms(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Millisecond)
}

func TestTapDeliversTouchedThenTouchUp(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	c, _ := setup(t, DefaultConfig(), l, a)

	c.Down(50, 50, ms(0))
	res := c.Up(50, 50, ms(40))

	assert.Equal(t, Result{Tapped: true}, res)
	assert.Equal(t, []string{
		"a down",
		"surface down 50,50",
		"a touched",
		"surface touched 50,50 true",
		"a up",
		"surface up 50,50",
	}, l.lines)
	assert.Equal(t, Idle, c.State())
}

func TestTapOnEmptySurface(t *testing.T) {
	l := &trace{}
	c, _ := setup(t, DefaultConfig(), l)

	c.Down(5, 5, ms(0))
	c.Up(5, 5, ms(10))
	assert.Equal(t, []string{
		"surface down 5,5",
		"surface touched 5,5 false",
		"surface up 5,5",
	}, l.lines)
}

func TestSmallMoveStaysTap(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	c, _ := setup(t, DefaultConfig(), l, a)

	c.Down(50, 50, ms(0))
	c.Move(52, 51, ms(10))
	assert.Equal(t, Down, c.State())
	c.Move(64, 36, ms(20))
	assert.Equal(t, Down, c.State(), "14px on each axis is still under the threshold")

	res := c.Up(52, 51, ms(30))
	assert.True(t, res.Tapped)
	assert.NotContains(t, l.lines, "a dragged 50,50 50,50 52,51")
}

func TestDragThenRelease(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	c, _ := setup(t, DefaultConfig(), l, a)

	c.Down(50, 50, ms(0))
	c.Move(52, 51, ms(10))
	c.Move(80, 80, ms(20))
	require.Equal(t, Dragging, c.State())
	res := c.Up(80, 80, ms(500))

	assert.Equal(t, Result{Dragged: true}, res, "slow release is not a fling")
	assert.Equal(t, []string{
		"a down",
		"surface down 50,50",
		"a dragged 50,50 50,50 80,80",
		"surface dragged 50,50 50,50 80,80 true",
		"a up",
		"surface up 80,80",
	}, l.lines)
}

func TestDragUpdatesPreviousPoint(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	c, _ := setup(t, DefaultConfig(), l, a)

	c.Down(50, 50, ms(0))
	c.Move(80, 80, ms(10))
	c.Move(90, 85, ms(20))
	c.Move(91, 85, ms(30))

	assert.Contains(t, l.lines, "a dragged 50,50 80,80 90,85")
	assert.Contains(t, l.lines, "a dragged 50,50 90,85 91,85", "small moves count once a drag has begun")
}

func TestDragCollectsSpritesAndKeepsThem(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	b := tile(t, l, "b", 200, 200, 0)
	c, _ := setup(t, DefaultConfig(), l, a, b)

	c.Down(50, 50, ms(0))
	c.Move(210, 210, ms(10))
	c.Move(300, 20, ms(20))

	assert.Equal(t, []*sprite.Sprite{a, b}, c.Recipients())
	assert.Contains(t, l.lines, "a dragged 50,50 210,210 300,20")
	assert.Contains(t, l.lines, "b dragged 50,50 210,210 300,20", "b stays a recipient after the pointer leaves")
}

func TestDragClampsToSurface(t *testing.T) {
	for _, tc := range []struct {
		name   string
		extend bool
		want   string
	}{
		{"clamped", false, "surface dragged 50,50 50,50 0,480 false"},
		{"extended", true, "surface dragged 50,50 50,50 -40,600 false"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			l := &trace{}
			cfg := DefaultConfig()
			cfg.ExtendMovesOutside = tc.extend
			c, _ := setup(t, cfg, l)

			c.Down(50, 50, ms(0))
			c.Move(-40, 600, ms(10))
			assert.Equal(t, tc.want, l.lines[len(l.lines)-1])
		})
	}
}

func TestShapeNotificationsFollowZOrder(t *testing.T) {
	l := &trace{}
	top := tile(t, l, "top", 40, 40, 5)
	bottom := tile(t, l, "bottom", 45, 45, 1)
	c, _ := setup(t, DefaultConfig(), l, top, bottom)

	c.Down(50, 50, ms(0))
	assert.Equal(t, []string{"bottom down", "top down", "surface down 50,50"}, l.lines)
}

func TestInactiveSpritesAreSkipped(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	hidden := tile(t, l, "hidden", 40, 40, 1)
	hidden.SetVisible(false)
	c, _ := setup(t, DefaultConfig(), l, a, hidden)

	c.Down(50, 50, ms(0))
	a.SetEnabled(false)
	c.Up(50, 50, ms(10))

	assert.Equal(t, []string{
		"a down",
		"surface down 50,50",
		"surface touched 50,50 false",
		"surface up 50,50",
	}, l.lines)
}

func TestCancelSkipsTouchUp(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	c, _ := setup(t, DefaultConfig(), l, a)

	c.Down(50, 50, ms(0))
	c.Move(90, 90, ms(10))
	c.Cancel()
	assert.Equal(t, Idle, c.State())
	assert.Empty(t, c.Recipients())

	n := len(l.lines)
	assert.Equal(t, Result{}, c.Up(90, 90, ms(20)))
	c.Move(100, 100, ms(30))
	assert.Len(t, l.lines, n)
}

func TestFling(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	var speed, heading, vx, vy float64
	a.SetHandler(sprite.Funcs{
		OnFlung: func(_ *sprite.Sprite, x, y, sp, h, xv, yv float64) {
			speed, heading, vx, vy = sp, h, xv, yv
			l.add("a flung %g,%g", x, y)
		},
	})
	c, _ := setup(t, DefaultConfig(), l, a)

	c.Down(50, 50, ms(0))
	c.Move(70, 50, ms(10))
	c.Move(90, 50, ms(20))
	res := c.Up(90, 50, ms(20))

	assert.Equal(t, Result{Dragged: true, Flung: true}, res)
	assert.InDelta(t, 2.0, speed, 1e-9)
	assert.InDelta(t, 2.0, vx, 1e-9)
	assert.InDelta(t, 0.0, vy, 1e-9)
	assert.InDelta(t, 0.0, heading, 1e-9)
	assert.Equal(t, []string{"surface up 90,50", "a flung 50,50", "surface flung 50,50 true"}, l.lines[len(l.lines)-3:])
}

func TestFlingHeadingAndClamp(t *testing.T) {
	l := &trace{}
	var speed, heading, vx, vy float64
	c, b := setup(t, DefaultConfig(), l)
	a, err := sprite.New(sprite.Params{X: 40, Y: 440, Width: 20, Height: 20, Handler: sprite.Funcs{
		OnFlung: func(_ *sprite.Sprite, x, y, sp, h, xv, yv float64) {
			speed, heading, vx, vy = sp, h, xv, yv
		},
	}})
	require.NoError(t, err)
	b.sprites = append(b.sprites, a)

	// Up and to the right, far too fast.
	c.Down(50, 450, ms(0))
	c.Move(150, 350, ms(5))
	res := c.Up(250, 250, ms(10))

	require.True(t, res.Flung)
	assert.InDelta(t, 8.0, speed, 1e-9)
	assert.InDelta(t, 45.0, heading, 1e-9)
	assert.InDelta(t, 8/math.Sqrt2, vx, 1e-9)
	assert.InDelta(t, -8/math.Sqrt2, vy, 1e-9)
}

func TestTapNeverFlings(t *testing.T) {
	l := &trace{}
	c, _ := setup(t, DefaultConfig(), l)

	c.Down(50, 50, ms(0))
	c.Move(60, 50, ms(1))
	res := c.Up(60, 50, ms(2))
	assert.Equal(t, Result{Tapped: true}, res)
	for _, line := range l.lines {
		assert.NotContains(t, line, "flung")
	}
}

func TestForgetDropsRecipient(t *testing.T) {
	l := &trace{}
	a := tile(t, l, "a", 40, 40, 0)
	c, _ := setup(t, DefaultConfig(), l, a)

	c.Down(50, 50, ms(0))
	c.Forget(a)
	c.Up(50, 50, ms(10))
	assert.NotContains(t, l.lines, "a touched")
}

// leave removes s from the board and the classifier, as the surface does.
func leave(c *Classifier, b *board, s *sprite.Sprite) {
	b.sprites = slices.DeleteFunc(b.sprites, func(o *sprite.Sprite) bool { return o == s })
	c.Forget(s)
}

func TestRecipientRemovedWhileTouched(t *testing.T) {
	l := &trace{}
	var c *Classifier
	var b *board
	a, err := sprite.New(sprite.Params{X: 40, Y: 40, Width: 20, Height: 20, Handler: sprite.Funcs{
		OnTouched: func(s *sprite.Sprite, x, y float64) {
			l.add("a touched")
			leave(c, b, s)
		},
		OnTouchUp: func(*sprite.Sprite, float64, float64) { l.add("a up") },
	}})
	require.NoError(t, err)
	other := tile(t, l, "b", 45, 45, 1)
	c, b = setup(t, DefaultConfig(), l, a, other)

	c.Down(50, 50, ms(0))
	var res Result
	require.NotPanics(t, func() { res = c.Up(50, 50, ms(40)) })

	assert.Equal(t, Result{Tapped: true}, res)
	assert.Equal(t, []string{
		"b down",
		"surface down 50,50",
		"a touched",
		"b touched",
		"surface touched 50,50 true",
		"b up",
		"surface up 50,50",
	}, l.lines)
}

func TestRecipientRemovedWhileDragged(t *testing.T) {
	l := &trace{}
	var c *Classifier
	var b *board
	first := tile(t, l, "first", 40, 40, 0)
	second := tile(t, l, "second", 45, 45, 1)
	third := tile(t, l, "third", 42, 42, 2)
	first.SetHandler(sprite.Funcs{
		OnDragged: func(s *sprite.Sprite, _, _, _, _, _, _ float64) {
			l.add("first dragged")
			leave(c, b, second)
		},
	})
	c, b = setup(t, DefaultConfig(), l, first, second, third)

	c.Down(50, 50, ms(0))
	l.lines = nil
	require.NotPanics(t, func() { c.Move(90, 50, ms(10)) })

	assert.Equal(t, []string{
		"first dragged",
		"third dragged 50,50 50,50 90,50",
		"surface dragged 50,50 50,50 90,50 true",
	}, l.lines)
	assert.Equal(t, []*sprite.Sprite{first, third}, c.Recipients())
}

func TestLayerChangeReordersLaterPhases(t *testing.T) {
	l := &trace{}
	low := tile(t, l, "low", 40, 40, 0)
	high := tile(t, l, "high", 45, 45, 5)
	low.SetHandler(sprite.Funcs{
		OnTouchDown: func(s *sprite.Sprite, x, y float64) {
			l.add("low down")
			s.SetZ(10)
		},
		OnTouched: func(*sprite.Sprite, float64, float64) { l.add("low touched") },
		OnTouchUp: func(*sprite.Sprite, float64, float64) { l.add("low up") },
	})
	c, _ := setup(t, DefaultConfig(), l, low, high)

	c.Down(50, 50, ms(0))
	c.Up(50, 50, ms(40))

	assert.Equal(t, []string{
		"low down",
		"high down",
		"surface down 50,50",
		"high touched",
		"low touched",
		"surface touched 50,50 true",
		"high up",
		"low up",
		"surface up 50,50",
	}, l.lines)
}

func TestFlingSkipsRemovedSprite(t *testing.T) {
	l := &trace{}
	var c *Classifier
	var b *board
	victim := tile(t, l, "victim", 45, 45, 1)
	thrower, err := sprite.New(sprite.Params{X: 40, Y: 40, Width: 20, Height: 20, Handler: sprite.Funcs{
		OnFlung: func(*sprite.Sprite, float64, float64, float64, float64, float64, float64) {
			l.add("thrower flung")
			leave(c, b, victim)
		},
	}})
	require.NoError(t, err)
	c, b = setup(t, DefaultConfig(), l, thrower, victim)

	c.Down(50, 50, ms(0))
	c.Move(70, 50, ms(10))
	res := c.Up(90, 50, ms(20))

	require.True(t, res.Flung)
	assert.Contains(t, l.lines, "thrower flung")
	assert.NotContains(t, l.lines, "victim flung")
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	bad := []func(*Config){
		func(c *Config) { c.TapThreshold = 0 },
		func(c *Config) { c.FingerHalfWidth = -1 },
		func(c *Config) { c.MinFlingSpeed = -0.1 },
		func(c *Config) { c.MaxFlingSpeed = 0.01 },
		func(c *Config) { c.VelocityWindow = 0 },
	}
	for i, mutate := range bad {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig, "case %d", i)
	}
}

func TestVelocityTrackerWindow(t *testing.T) {
	v := velocityTracker{window: 100 * time.Millisecond}
	v.add(0, 0, ms(0))
	v.add(100, 0, ms(50))
	vx, _ := v.velocity()
	assert.InDelta(t, 2.0, vx, 1e-9)

	v.add(100, 0, ms(400))
	vx, vy := v.velocity()
	assert.Zero(t, vx, "samples older than the window are dropped")
	assert.Zero(t, vy)
}
