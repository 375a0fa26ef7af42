package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/storage"
)

func newTestBoard(t *testing.T) BoardModel {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for _, s := range []storage.Session{
		{SessionID: "a1", SceneID: "bounce", User: "ann", Ticks: 10, Taps: 3, Collisions: 4, Duration: 30},
		{SessionID: "a2", SceneID: "bounce", User: "bob", Ticks: 20, Taps: 1, Collisions: 7, Duration: 90},
	} {
		if _, err := store.SaveSession(s); err != nil {
			t.Fatalf("SaveSession() failed: %v", err)
		}
	}

	scenes := []registry.SceneInfo{
		{ID: "bounce", Title: "Bounce"},
		{ID: "drag", Title: "Drag"},
		{ID: "shapes", Title: "Shapes"},
	}
	return NewBoardModel(scenes, store, 120, 30)
}

func boardStep(t *testing.T, m BoardModel, msg tea.Msg) (BoardModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	bm, ok := next.(BoardModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return bm, cmd
}

func TestBoardShowsSceneTotals(t *testing.T) {
	m := newTestBoard(t)
	view := m.View()

	for _, want := range []string{"SESSIONS", "Bounce", "ann", "bob", "11 (best 7)", "1:00"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBoardCyclesScenes(t *testing.T) {
	m := newTestBoard(t)

	tests := []struct {
		msg  tea.KeyMsg
		want string
	}{
		{tea.KeyMsg{Type: tea.KeyTab}, "drag"},
		{tea.KeyMsg{Type: tea.KeyRight}, "shapes"},
		{tea.KeyMsg{Type: tea.KeyTab}, "bounce"},
		{tea.KeyMsg{Type: tea.KeyShiftTab}, "shapes"},
		{tea.KeyMsg{Type: tea.KeyLeft}, "drag"},
	}
	for _, tt := range tests {
		m, _ = boardStep(t, m, tt.msg)
		if got := m.Selected(); got != tt.want {
			t.Fatalf("after %s Selected() = %q, want %q", tt.msg, got, tt.want)
		}
	}

	if !strings.Contains(m.View(), "No sessions recorded yet.") {
		t.Error("a scene without sessions should say so")
	}
}

func TestBoardBackAndQuit(t *testing.T) {
	m := newTestBoard(t)

	back, cmd := boardStep(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !back.IsGoingBack() || back.IsQuitting() || cmd == nil {
		t.Error("esc should leave the board without quitting")
	}
	if back.View() != "" {
		t.Error("view should be empty after leaving")
	}

	quit, _ := boardStep(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !quit.IsQuitting() {
		t.Error("q should quit")
	}
}
