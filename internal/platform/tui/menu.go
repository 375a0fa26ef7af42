package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-canvas/internal/registry"
)

// MenuModel is the Bubble Tea model for the scene picker menu.
type MenuModel struct {
	items      []registry.SceneInfo
	cursor     int
	width      int
	height     int
	keyMapper  *KeyMapper
	quitting   bool
	selected   *registry.SceneInfo // Set when user selects a scene
	openBoard  bool                // True if user pressed Tab for the stats board
	standalone bool                // Exit the program on selection
}

// NewMenuModel creates a new menu model.
func NewMenuModel(scenes []registry.SceneInfo, width, height int) MenuModel {
	return MenuModel{
		items:     scenes,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			if m.standalone {
				return m, tea.Quit
			}
		}

	case MenuActionStats:
		m.openBoard = true
		if m.standalone {
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("  C A N V A S  ", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a scene", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, item.ID, item.Title)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	// Footer with controls
	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Enter: Select  |  Tab: Sessions  |  Q: Quit"
	b.WriteString(centerText(controls, m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected scene, or nil if none selected.
func (m MenuModel) Selected() *registry.SceneInfo {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsBoard returns true if user requested the stats board.
func (m MenuModel) WantsBoard() bool {
	return m.openBoard
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	SceneID    string
	WantsBoard bool
	Quit       bool
}

// RunMenu runs the menu as its own program and returns the selection.
func RunMenu(scenes []registry.SceneInfo, width, height int) (MenuResult, error) {
	model := NewMenuModel(scenes, width, height)
	model.standalone = true

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Quit: true}, nil
	}

	switch {
	case m.WantsBoard():
		return MenuResult{WantsBoard: true}, nil
	case m.IsQuitting() || m.Selected() == nil:
		return MenuResult{Quit: true}, nil
	default:
		return MenuResult{SceneID: m.Selected().ID}, nil
	}
}
