package tui

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/core"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/storage"
	"github.com/vovakirdan/tui-canvas/internal/surface"
)

// CanvasOptions configures a canvas view.
type CanvasOptions struct {
	Config config.CanvasConfig
	Store  *storage.Store // optional; sessions are not recorded when nil
	Logger *log.Logger    // optional; defaults to discarding
	Seed   int64          // 0 picks a time-based seed
	User   string
	Width  int // terminal columns
	Height int // terminal rows

	// Standalone makes the back key quit the program instead of handing
	// control back to a menu.
	Standalone bool

	// Now overrides the clock used to timestamp pointer events.
	Now func() time.Time
}

// frame is the rasterized surface. It is shared by all copies of a model so
// the surface's redraw hook can mark it stale.
type frame struct {
	screen *core.Screen
	dirty  bool
}

// CanvasModel is the Bubble Tea model hosting one scene on a surface.
type CanvasModel struct {
	scene  registry.Scene
	surf   *surface.Surface
	frame  *frame
	store  *storage.Store
	logger *log.Logger
	cfg    config.CanvasConfig
	cells  CellMapper
	keys   *KeyMapper
	now    func() time.Time

	seed       int64
	user       string
	sessionID  uuid.UUID
	started    time.Time
	termW      int
	termH      int
	standalone bool

	pressed    bool
	paused     bool
	showStatus bool
	quitting   bool
	backToMenu bool
}

// NewCanvasModel creates the surface for scene and populates it.
func NewCanvasModel(scene registry.Scene, opts CanvasOptions) (CanvasModel, error) {
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 80, 24
	}

	m := CanvasModel{
		scene:      scene,
		frame:      &frame{dirty: true},
		store:      opts.Store,
		logger:     opts.Logger,
		cfg:        opts.Config,
		cells:      CellMapper{CellWidth: float64(opts.Config.Display.CellWidth), CellHeight: float64(opts.Config.Display.CellHeight)},
		keys:       NewKeyMapper(),
		now:        opts.Now,
		seed:       opts.Seed,
		user:       opts.User,
		termW:      opts.Width,
		termH:      opts.Height,
		standalone: opts.Standalone,
		showStatus: opts.Config.Display.ShowStatus,
	}

	cols, rows := m.canvasCells()
	m.frame.screen = core.NewScreen(cols, rows)
	w, h := m.cells.SurfaceSize(cols, rows)

	surf, err := surface.New(w, h,
		surface.WithGestureConfig(opts.Config.Gesture.Classifier()),
		surface.WithSink(registry.SinkFor(scene)),
		surface.WithLogger(opts.Logger),
		surface.WithRedraw(m.frame.invalidate),
	)
	if err != nil {
		return CanvasModel{}, fmt.Errorf("tui: %w", err)
	}
	m.surf = surf

	if err := m.populate(); err != nil {
		return CanvasModel{}, err
	}
	return m, nil
}

func (f *frame) invalidate() { f.dirty = true }

// canvasCells returns the cell area left for the surface.
func (m CanvasModel) canvasCells() (cols, rows int) {
	rows = m.termH
	if m.showStatus {
		rows--
	}
	return max(m.termW, 1), max(rows, 1)
}

// populate starts a new session on an empty surface.
func (m *CanvasModel) populate() error {
	rng := rand.New(rand.NewSource(m.seed))
	if err := m.scene.Setup(m.surf, m.cfg.Scene, rng); err != nil {
		return fmt.Errorf("tui: setting up %s: %w", m.scene.ID(), err)
	}
	m.sessionID = uuid.New()
	m.started = m.now()
	m.frame.invalidate()
	m.logger.Info("session started", "scene", m.scene.ID(), "session", m.sessionID, "sprites", m.surf.Len())
	return nil
}

// Init starts the tick loop.
func (m CanvasModel) Init() tea.Cmd {
	return tickCmd(m.cfg.Display.TickRate)
}

// Update handles messages and updates the model state.
func (m CanvasModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.BlurMsg:
		// The release will never arrive once the terminal loses focus.
		if m.pressed {
			m.pressed = false
			m.report("pointer cancel", m.surf.OnPointerCancel())
		}
		return m, nil

	case tea.WindowSizeMsg:
		return m.handleResize(msg.Width, msg.Height)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m CanvasModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.MapKey(msg) {
	case CanvasActionQuit:
		m.saveSession()
		m.quitting = true
		return m, tea.Quit

	case CanvasActionBack:
		m.saveSession()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, nil

	case CanvasActionPause:
		m.paused = !m.paused

	case CanvasActionStep:
		if m.paused {
			m.report("tick", m.surf.OnTick())
		}

	case CanvasActionReset:
		m.saveSession()
		m.seed++
		m.surf.Clear()
		m.surf.ResetStats()
		if err := m.populate(); err != nil {
			m.logger.Error("reset failed", "error", err)
		}

	case CanvasActionStatus:
		m.showStatus = !m.showStatus
		return m.handleResize(m.termW, m.termH)

	case CanvasActionScreenshot:
		m.saveScreenshot()
	}

	return m, nil
}

// handleMouse maps mouse cells to surface pixels. Only the left button
// drives touch sequences.
func (m CanvasModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	x, y := m.cells.ToPixels(msg.X, msg.Y)
	at := m.now()

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.Y >= m.frame.screen.Height() {
			return m, nil
		}
		m.pressed = true
		m.report("pointer down", m.surf.OnPointerDown(x, y, at))

	case tea.MouseActionMotion:
		if m.pressed {
			m.report("pointer move", m.surf.OnPointerMove(x, y, at))
		}

	case tea.MouseActionRelease:
		if m.pressed {
			m.pressed = false
			m.report("pointer up", m.surf.OnPointerUp(x, y, at))
		}
	}

	return m, nil
}

// handleResize fits the surface to the terminal.
func (m CanvasModel) handleResize(width, height int) (tea.Model, tea.Cmd) {
	m.termW, m.termH = width, height
	cols, rows := m.canvasCells()
	m.frame.screen.Resize(cols, rows)
	w, h := m.cells.SurfaceSize(cols, rows)
	m.report("resize", m.surf.OnResize(w, h))
	m.frame.invalidate()
	return m, nil
}

// handleTick advances the surface unless paused.
func (m CanvasModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.paused {
		m.report("tick", m.surf.OnTick())
	}
	return m, tickCmd(m.cfg.Display.TickRate)
}

func (m CanvasModel) report(event string, err error) {
	if err != nil {
		m.logger.Warn("surface rejected event", "event", event, "error", err)
	}
}

// saveSession records the current session once it has run.
func (m CanvasModel) saveSession() {
	st := m.surf.Stats()
	if m.store == nil || st.Ticks == 0 {
		return
	}
	_, err := m.store.SaveSession(storage.Session{
		SessionID:  m.sessionID.String(),
		SceneID:    m.scene.ID(),
		User:       m.user,
		Ticks:      st.Ticks,
		Taps:       st.Taps,
		Drags:      st.Drags,
		Flings:     st.Flings,
		Collisions: st.Collisions,
		Bounces:    st.Bounces,
		Duration:   int(m.now().Sub(m.started).Seconds()),
	})
	if err != nil {
		m.logger.Warn("could not save session", "session", m.sessionID, "error", err)
	}
}

// saveScreenshot saves the current screen to a file.
func (m *CanvasModel) saveScreenshot() {
	m.render()

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".canvas", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := m.now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.scene.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, the canvas continues regardless
	os.WriteFile(path, []byte(m.frame.screen.String()), 0o600)
}

// render rasterizes the surface if it changed since the last frame.
func (m CanvasModel) render() {
	if !m.frame.dirty {
		return
	}
	m.frame.screen.Clear()
	Rasterize(m.frame.screen, m.surf.Sprites(), m.scene, m.cells)
	m.frame.dirty = false
}

// View renders the current state to a string for display.
func (m CanvasModel) View() string {
	if m.quitting {
		return ""
	}

	m.render()
	out := RenderScreen(m.frame.screen)
	if m.showStatus {
		out += "\n" + RenderStatus(StatusLine{
			Title:   m.scene.Title(),
			Sprites: m.surf.Len(),
			Stats:   m.surf.Stats(),
			Gesture: m.surf.GestureState().String(),
			Paused:  m.paused,
		}, m.termW)
	}
	return out
}

// Surface returns the hosted surface.
func (m CanvasModel) Surface() *surface.Surface { return m.surf }

// Screen returns the character buffer of the last rendered frame.
func (m CanvasModel) Screen() *core.Screen { return m.frame.screen }

// SessionID identifies the current session in storage.
func (m CanvasModel) SessionID() uuid.UUID { return m.sessionID }

// Paused reports whether ticks are suspended.
func (m CanvasModel) Paused() bool { return m.paused }

// IsQuitting returns true if user requested to quit entirely.
func (m CanvasModel) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if user requested to go back to menu.
func (m CanvasModel) BackToMenu() bool { return m.backToMenu }

// Run starts a standalone Bubble Tea program hosting scene.
func Run(scene registry.Scene, opts CanvasOptions) error {
	opts.Standalone = true
	model, err := NewCanvasModel(scene, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Press, drag and release events
		tea.WithReportFocus(),     // Blur cancels a touch in progress
	)

	_, err = p.Run()
	return err
}
