package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-canvas/internal/config"
	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23234").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.canvas/host_key.
	HostKeyPath string

	// DBPath is the path to the session database.
	DBPath string

	// Canvas is the configuration every session starts with.
	Canvas config.CanvasConfig

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23234",
		DBPath:      "~/.canvas/sessions.db",
		Canvas:      config.DefaultCanvasConfig(),
		IdleTimeout: 30 * time.Minute,
	}
}

// SSHServer wraps a Wish SSH server hosting canvas sessions.
type SSHServer struct {
	config   SSHServerConfig
	server   *ssh.Server
	registry *registry.Registry
	store    *storage.Store
	logger   *log.Logger
}

// NewSSHServer creates a new SSH server offering the scenes of reg.
func NewSSHServer(cfg SSHServerConfig, reg *registry.Registry) (*SSHServer, error) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "canvas-ssh",
	})

	if err := cfg.Canvas.Validate(); err != nil {
		return nil, fmt.Errorf("invalid canvas config: %w", err)
	}

	// Open storage
	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open session database", "error", err)
		// Continue without storage
		store = nil
	}

	srv := &SSHServer{
		config:   cfg,
		registry: reg,
		store:    store,
		logger:   logger,
	}

	// Resolve host key path
	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return nil, fmt.Errorf("cannot get home directory: %w", homeErr)
		}
		hostKeyPath = filepath.Join(home, ".canvas", "host_key")
	}

	// Ensure host key directory exists
	hostKeyDir := filepath.Dir(hostKeyPath)
	if mkdirErr := os.MkdirAll(hostKeyDir, 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	// Create Wish server options
	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.loggingMiddleware,
		),
	}

	// Create the server
	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	model := NewSessionModel(s.registry, CanvasOptions{
		Config: s.config.Canvas,
		Store:  s.store,
		Logger: s.logger.With("user", sshSession.User()),
		User:   sshSession.User(),
		Width:  pty.Window.Width,
		Height: pty.Window.Height,
	})

	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address)

	// Setup signal handling for graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.store != nil {
		s.store.Close()
	}

	return s.server.Shutdown(ctx)
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full canvas session flow: menu -> scene or
// stats board -> menu. This is the top-level model used for SSH sessions and
// the local menu command.
type SessionModel struct {
	registry *registry.Registry
	opts     CanvasOptions
	menu     MenuModel
	canvas   *CanvasModel
	board    *BoardModel
	quitting bool
}

// NewSessionModel creates a new session model.
func NewSessionModel(reg *registry.Registry, opts CanvasOptions) SessionModel {
	opts.Standalone = false
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return SessionModel{
		registry: reg,
		opts:     opts,
		menu:     NewMenuModel(reg.List(), opts.Width, opts.Height),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.opts.Width = wsm.Width
		m.opts.Height = wsm.Height
	}

	switch {
	case m.canvas != nil:
		return m.updateCanvas(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsBoard() {
		board := NewBoardModel(m.registry.List(), m.opts.Store, m.opts.Width, m.opts.Height)
		m.board = &board
		return m, board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		scene, err := m.registry.Create(selected.ID)
		if err != nil {
			// Shouldn't happen since menu only shows registered scenes
			m.opts.Logger.Error("cannot create scene", "scene", selected.ID, "error", err)
			m.menu = NewMenuModel(m.registry.List(), m.opts.Width, m.opts.Height)
			return m, nil
		}

		canvas, err := NewCanvasModel(scene, m.opts)
		if err != nil {
			m.opts.Logger.Error("cannot start scene", "scene", selected.ID, "error", err)
			m.menu = NewMenuModel(m.registry.List(), m.opts.Width, m.opts.Height)
			return m, nil
		}
		m.canvas = &canvas
		return m, canvas.Init()
	}

	return m, cmd
}

// updateCanvas handles updates while a scene is running.
func (m SessionModel) updateCanvas(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.canvas.Update(msg)
	if canvas, ok := newModel.(CanvasModel); ok {
		m.canvas = &canvas
	}

	if m.canvas.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.canvas.BackToMenu() {
		m.canvas = nil
		m.menu = NewMenuModel(m.registry.List(), m.opts.Width, m.opts.Height)
		return m, m.menu.Init()
	}

	return m, cmd
}

// updateBoard handles updates while the stats board is shown.
func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.board.Update(msg)
	if board, ok := newModel.(BoardModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	// The board quits its own program on back; inside a session that
	// command is dropped and the menu comes back instead.
	if m.board.IsGoingBack() {
		m.board = nil
		m.menu = NewMenuModel(m.registry.List(), m.opts.Width, m.opts.Height)
		return m, m.menu.Init()
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	switch {
	case m.quitting:
		return ""
	case m.canvas != nil:
		return m.canvas.View()
	case m.board != nil:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu-driven session flow in the local terminal.
func RunSession(reg *registry.Registry, opts CanvasOptions) error {
	p := tea.NewProgram(
		NewSessionModel(reg, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	_, err := p.Run()
	return err
}
