package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/registry"
)

func newTestSession(t *testing.T) SessionModel {
	t.Helper()
	reg := registry.New()
	if err := reg.Register("box", func() registry.Scene { return &boxScene{} }); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return NewSessionModel(reg, CanvasOptions{
		Config: config.DefaultCanvasConfig(),
		Width:  40,
		Height: 13,
	})
}

func step(t *testing.T, m SessionModel, msg tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	sm, ok := next.(SessionModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return sm, cmd
}

func TestSessionMenuToCanvasAndBack(t *testing.T) {
	m := newTestSession(t)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.canvas == nil {
		t.Fatal("selecting a scene should start the canvas")
	}
	if m.canvas.Surface().Len() != 1 {
		t.Errorf("canvas sprites = %d, want 1", m.canvas.Surface().Len())
	}

	m, _ = step(t, m, runes("b"))
	if m.canvas != nil {
		t.Fatal("back should return to the menu")
	}
	if m.menu.Selected() != nil {
		t.Error("menu should be fresh after returning")
	}
}

func TestSessionBoardAndBack(t *testing.T) {
	m := newTestSession(t)

	m, _ = step(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.board == nil {
		t.Fatal("tab should open the stats board")
	}
	if m.board.Selected() != "box" {
		t.Errorf("board scene = %q, want box", m.board.Selected())
	}

	m, cmd := step(t, m, runes("b"))
	if m.board != nil {
		t.Fatal("back should return to the menu")
	}
	if cmd != nil {
		t.Error("returning to the menu must not quit the program")
	}
}

func TestSessionQuit(t *testing.T) {
	m := newTestSession(t)

	m, cmd := step(t, m, runes("q"))
	if !m.quitting || cmd == nil {
		t.Error("q in the menu should quit")
	}
	if m.View() != "" {
		t.Error("quitting session should render nothing")
	}
}
