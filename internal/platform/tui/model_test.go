package tui

import (
	"math/rand"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/gesture"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/sprite"
	"github.com/vovakirdan/tui-canvas/internal/storage"
	"github.com/vovakirdan/tui-canvas/internal/surface"
)

// boxScene places a single 32x32 box with its top-left corner at (80, 32).
type boxScene struct {
	box *sprite.Sprite
}

func (s *boxScene) ID() string    { return "box" }
func (s *boxScene) Title() string { return "Box" }

func (s *boxScene) Setup(surf *surface.Surface, _ config.SceneConfig, _ *rand.Rand) error {
	box, err := sprite.New(sprite.Params{X: 80, Y: 32, Width: 32, Height: 32})
	if err != nil {
		return err
	}
	s.box = box
	return surf.Add(box)
}

func (s *boxScene) Look(*sprite.Sprite) registry.Look {
	return registry.Look{Glyph: '#', Color: core.ColorRed}
}

// clock advances by step on every reading.
type clock struct {
	t    time.Time
	step time.Duration
}

func (c *clock) now() time.Time {
	c.t = c.t.Add(c.step)
	return c.t
}

func newTestModel(t *testing.T, store *storage.Store) (CanvasModel, *boxScene) {
	t.Helper()
	cfg := config.DefaultCanvasConfig()
	c := &clock{t: time.Unix(1000, 0), step: time.Second}

	scene := &boxScene{}
	m, err := NewCanvasModel(scene, CanvasOptions{
		Config: cfg,
		Store:  store,
		Seed:   1,
		User:   "tester",
		Width:  40,
		Height: 13,
		Now:    c.now,
	})
	if err != nil {
		t.Fatalf("NewCanvasModel() failed: %v", err)
	}
	return m, scene
}

func update(t *testing.T, m CanvasModel, msg tea.Msg) CanvasModel {
	t.Helper()
	next, _ := m.Update(msg)
	cm, ok := next.(CanvasModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return cm
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, col, row int) tea.MouseMsg {
	return tea.MouseMsg{X: col, Y: row, Action: action, Button: tea.MouseButtonLeft}
}

func TestCanvasSurfaceFitsTerminal(t *testing.T) {
	m, _ := newTestModel(t, nil)

	// 40x13 terminal minus the status bar, 8x16 pixels per cell
	if got := m.Surface().Width(); got != 320 {
		t.Errorf("surface width = %v, want 320", got)
	}
	if got := m.Surface().Height(); got != 192 {
		t.Errorf("surface height = %v, want 192", got)
	}
	if m.Screen().Height() != 12 {
		t.Errorf("screen height = %d, want 12", m.Screen().Height())
	}

	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 6})
	if m.Surface().Width() != 160 || m.Surface().Height() != 80 {
		t.Errorf("resized surface = %vx%v, want 160x80", m.Surface().Width(), m.Surface().Height())
	}
}

func TestCanvasStatusToggleResizes(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, runes("s"))
	if m.Screen().Height() != 13 {
		t.Errorf("screen height without status = %d, want 13", m.Screen().Height())
	}
	if m.Surface().Height() != 208 {
		t.Errorf("surface height without status = %v, want 208", m.Surface().Height())
	}
}

func TestCanvasTicks(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, TickMsg(time.Now()))
	if got := m.Surface().Stats().Ticks; got != 2 {
		t.Errorf("ticks = %d, want 2", got)
	}

	m = update(t, m, runes("p"))
	if !m.Paused() {
		t.Fatal("expected paused")
	}
	m = update(t, m, TickMsg(time.Now()))
	if got := m.Surface().Stats().Ticks; got != 2 {
		t.Errorf("paused tick advanced the surface, ticks = %d", got)
	}

	m = update(t, m, runes("n"))
	if got := m.Surface().Stats().Ticks; got != 3 {
		t.Errorf("step while paused: ticks = %d, want 3", got)
	}
}

func TestCanvasMouseTap(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, mouse(tea.MouseActionPress, 12, 3))
	if m.Surface().GestureState() != gesture.Down {
		t.Fatalf("gesture state = %v, want down", m.Surface().GestureState())
	}
	m = update(t, m, mouse(tea.MouseActionRelease, 12, 3))

	st := m.Surface().Stats()
	if st.Taps != 1 || st.Drags != 0 {
		t.Errorf("stats = %+v, want one tap", st)
	}
}

func TestCanvasMouseDragMovesNothingWithoutHandler(t *testing.T) {
	m, scene := newTestModel(t, nil)
	x, y := scene.box.X(), scene.box.Y()

	m = update(t, m, mouse(tea.MouseActionPress, 12, 3))
	m = update(t, m, mouse(tea.MouseActionMotion, 20, 3))
	if m.Surface().GestureState() != gesture.Dragging {
		t.Fatalf("gesture state = %v, want dragging", m.Surface().GestureState())
	}
	m = update(t, m, mouse(tea.MouseActionRelease, 20, 3))

	st := m.Surface().Stats()
	if st.Drags != 1 || st.Taps != 0 || st.Flings != 0 {
		t.Errorf("stats = %+v, want one drag and no fling", st)
	}
	if scene.box.X() != x || scene.box.Y() != y {
		t.Error("box without a handler should not move")
	}
}

func TestCanvasIgnoresOtherButtonsAndStatusBar(t *testing.T) {
	m, _ := newTestModel(t, nil)

	right := tea.MouseMsg{X: 5, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight}
	m = update(t, m, right)
	m = update(t, m, mouse(tea.MouseActionPress, 5, 12)) // status bar row
	m = update(t, m, mouse(tea.MouseActionRelease, 5, 5))

	if st := m.Surface().Stats(); st.Taps != 0 {
		t.Errorf("stats = %+v, want no taps", st)
	}
}

func TestCanvasBlurCancelsTouch(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = update(t, m, mouse(tea.MouseActionPress, 12, 3))
	m = update(t, m, tea.BlurMsg{})
	if m.Surface().GestureState() != gesture.Idle {
		t.Errorf("gesture state = %v, want idle", m.Surface().GestureState())
	}

	m = update(t, m, mouse(tea.MouseActionRelease, 12, 3))
	if st := m.Surface().Stats(); st.Taps != 0 {
		t.Errorf("release after blur produced a tap: %+v", st)
	}
}

func TestCanvasRasterizesSprites(t *testing.T) {
	m, _ := newTestModel(t, nil)
	_ = m.View()

	// Box covers pixels 80..112 x 32..64, cells 10..13 x 2..3
	for row := 2; row <= 3; row++ {
		for col := 10; col <= 13; col++ {
			cell := m.Screen().GetCell(col, row)
			if cell.Rune != '#' || cell.Color != core.ColorRed {
				t.Errorf("cell (%d,%d) = %q, want red #", col, row, cell.Rune)
			}
		}
	}
	if got := m.Screen().Get(9, 2); got != ' ' {
		t.Errorf("cell left of box = %q, want blank", got)
	}
	if got := m.Screen().Get(10, 4); got != ' ' {
		t.Errorf("cell below box = %q, want blank", got)
	}
}

func TestRasterizeHigherZOnTop(t *testing.T) {
	screen := core.NewScreen(10, 5)
	low, _ := sprite.New(sprite.Params{X: 0, Y: 0, Width: 40, Height: 32, Z: 1})
	high, _ := sprite.New(sprite.Params{X: 16, Y: 0, Width: 40, Height: 32, Z: 2})
	hidden, _ := sprite.New(sprite.Params{X: 0, Y: 0, Width: 80, Height: 80, Z: 3, Hidden: true})

	scene := lookScene{low: low}
	Rasterize(screen, []*sprite.Sprite{low, high, hidden}, scene, CellMapper{CellWidth: 8, CellHeight: 16})

	if got := screen.Get(0, 0); got != 'L' {
		t.Errorf("cell (0,0) = %q, want L", got)
	}
	if got := screen.Get(3, 0); got != 'H' {
		t.Errorf("overlapping cell = %q, want H", got)
	}
	if got := screen.Get(9, 4); got != ' ' {
		t.Errorf("hidden sprite drawn at (9,4): %q", got)
	}
}

func TestRasterizeTinySprite(t *testing.T) {
	screen := core.NewScreen(10, 5)
	dot, _ := sprite.New(sprite.Params{X: 18, Y: 20, Width: 2, Height: 2})

	Rasterize(screen, []*sprite.Sprite{dot}, lookScene{}, CellMapper{CellWidth: 8, CellHeight: 16})
	if got := screen.Get(2, 1); got != 'H' {
		t.Errorf("tiny sprite cell = %q, want H", got)
	}
}

type lookScene struct {
	*boxScene
	low *sprite.Sprite
}

func (s lookScene) Look(sp *sprite.Sprite) registry.Look {
	if sp == s.low {
		return registry.Look{Glyph: 'L'}
	}
	return registry.Look{Glyph: 'H'}
}

func TestCanvasSavesSessionOnQuit(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, _ := newTestModel(t, store)
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, mouse(tea.MouseActionPress, 1, 1))
	m = update(t, m, mouse(tea.MouseActionRelease, 1, 1))

	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if !next.(CanvasModel).IsQuitting() {
		t.Error("model should be quitting")
	}

	sess, err := store.SessionByID(m.SessionID().String())
	if err != nil {
		t.Fatalf("SessionByID() failed: %v", err)
	}
	if sess == nil {
		t.Fatal("session was not saved")
	}
	if sess.SceneID != "box" || sess.User != "tester" || sess.Ticks != 1 || sess.Taps != 1 {
		t.Errorf("unexpected session: %+v", sess)
	}
	if sess.Duration <= 0 {
		t.Errorf("duration = %d, want positive", sess.Duration)
	}
}

func TestCanvasResetStartsNewSession(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m, _ := newTestModel(t, store)
	first := m.SessionID()
	m = update(t, m, TickMsg(time.Now()))
	m = update(t, m, runes("r"))

	if m.SessionID() == first {
		t.Error("reset should start a new session")
	}
	if m.Surface().Len() != 1 {
		t.Errorf("sprites after reset = %d, want 1", m.Surface().Len())
	}
	if m.Surface().Stats().Ticks != 0 {
		t.Error("reset should start with fresh stats")
	}
	if sess, _ := store.SessionByID(first.String()); sess == nil {
		t.Error("previous session was not saved on reset")
	}
}

func TestCanvasBackKey(t *testing.T) {
	m, _ := newTestModel(t, nil)

	next, cmd := m.Update(runes("b"))
	if !next.(CanvasModel).BackToMenu() || cmd != nil {
		t.Error("embedded canvas should hand control back without quitting")
	}

	m.standalone = true
	next, cmd = m.Update(runes("b"))
	if !next.(CanvasModel).IsQuitting() || cmd == nil {
		t.Error("standalone canvas should quit on back")
	}
}

func TestKeyMapper(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		msg  tea.KeyMsg
		want CanvasAction
	}{
		{runes("q"), CanvasActionQuit},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, CanvasActionQuit},
		{tea.KeyMsg{Type: tea.KeyEsc}, CanvasActionBack},
		{runes("p"), CanvasActionPause},
		{runes("n"), CanvasActionStep},
		{runes("r"), CanvasActionReset},
		{runes("s"), CanvasActionStatus},
		{tea.KeyMsg{Type: tea.KeyCtrlS}, CanvasActionScreenshot},
		{runes("x"), CanvasActionNone},
	}

	for _, tt := range tests {
		if got := km.MapKey(tt.msg); got != tt.want {
			t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}

	if got := km.MapKeyToMenuAction(tea.KeyMsg{Type: tea.KeyTab}); got != MenuActionStats {
		t.Errorf("tab = %v, want stats", got)
	}
	if got := km.MapKeyToMenuAction(runes("j")); got != MenuActionDown {
		t.Errorf("j = %v, want down", got)
	}
}
