package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-canvas/internal/registry"
	"github.com/vovakirdan/tui-canvas/internal/storage"
)

const maxSessions = 100

// BoardKeyMap defines the key bindings for the stats board.
type BoardKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	NextScene key.Binding
	PrevScene key.Binding
	Back      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k BoardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextScene, k.PrevScene, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k BoardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultBoardKeyMap returns default key bindings.
func DefaultBoardKeyMap() BoardKeyMap {
	return BoardKeyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		NextScene: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next scene")),
		PrevScene: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/←", "prev scene")),
		Back:      key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc/b", "back")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// BoardModel is the Bubble Tea model for the session statistics screen.
type BoardModel struct {
	scenes      []registry.SceneInfo
	sceneCursor int
	store       *storage.Store
	sessions    []storage.Session
	summary     *storage.SceneStats
	table       table.Model
	help        help.Model
	keys        BoardKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
}

// NewBoardModel creates a new stats board over the given scenes.
func NewBoardModel(scenes []registry.SceneInfo, store *storage.Store, width, height int) BoardModel {
	h := help.New()
	h.ShowAll = false

	m := BoardModel{
		scenes:      scenes,
		store:       store,
		keys:        DefaultBoardKeyMap(),
		help:        h,
		width:       width,
		height:      height,
	}

	m.table = m.createTable()
	if len(m.scenes) > 0 {
		m.loadSessions(m.scenes[0].ID)
	}

	return m
}

// createTable creates a new table with appropriate columns.
func (m *BoardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 13},
		{Title: "User", Width: 10},
		{Title: "Time", Width: 6},
		{Title: "Taps", Width: 5},
		{Title: "Drags", Width: 5},
		{Title: "Flings", Width: 6},
		{Title: "Hits", Width: 6},
	}

	// Spare width goes to the user column.
	tableWidth := m.width - 4
	used := 0
	for _, c := range columns {
		used += c.Width + 2
	}
	if extra := tableWidth - used; extra > 0 {
		columns[1].Width += min(extra, 14)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-13, 3)),
	)

	// Table styles
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSessions loads the recent sessions and totals of a scene.
func (m *BoardModel) loadSessions(sceneID string) {
	m.sessions, m.summary = nil, nil
	if m.store != nil {
		if sessions, err := m.store.RecentSessions(sceneID, maxSessions); err == nil {
			m.sessions = sessions
		}
		if summary, err := m.store.GetSceneStats(sceneID); err == nil {
			m.summary = summary
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current sessions.
func (m *BoardModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		user := s.User
		if user == "" {
			user = "-"
		}
		rows[i] = table.Row{
			s.CreatedAt.Format("Jan 02 15:04"),
			user,
			formatDuration(s.Duration),
			fmt.Sprintf("%d", s.Taps),
			fmt.Sprintf("%d", s.Drags),
			fmt.Sprintf("%d", s.Flings),
			fmt.Sprintf("%d", s.Collisions),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Init initializes the stats board.
func (m BoardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the stats board.
func (m BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextScene):
			m.cycle(1)
			return m, nil

		case key.Matches(msg, m.keys.PrevScene):
			m.cycle(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *BoardModel) cycle(step int) {
	if len(m.scenes) == 0 {
		return
	}
	m.sceneCursor = (m.sceneCursor + step + len(m.scenes)) % len(m.scenes)
	m.loadSessions(m.scenes[m.sceneCursor].ID)
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardTabStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveTab  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).Padding(0, 1)
	boardPanelStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	boardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	boardEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
)

// View renders the stats board: scene strip, totals, then the session table.
func (m BoardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, boardTitleStyle.Render("SESSIONS")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.sceneStrip()))
	b.WriteString("\n\n")
	b.WriteString(m.totals())
	b.WriteString("\n")

	if len(m.sessions) == 0 {
		b.WriteString(boardPanelStyle.Render(boardEmptyStyle.Render("No sessions recorded yet.")))
	} else {
		b.WriteString(boardPanelStyle.Render(m.table.View()))
	}

	b.WriteString("\n")
	b.WriteString(boardLabelStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// sceneStrip lists the scenes, collapsing to the current one when they do
// not fit.
func (m BoardModel) sceneStrip() string {
	if len(m.scenes) == 0 {
		return ""
	}
	tabs := make([]string, len(m.scenes))
	for i, sc := range m.scenes {
		if i == m.sceneCursor {
			tabs[i] = boardActiveTab.Render(sc.Title)
		} else {
			tabs[i] = boardTabStyle.Render(sc.Title)
		}
	}
	strip := strings.Join(tabs, " ")
	if lipgloss.Width(strip) > m.width-4 {
		strip = "< " + boardActiveTab.Render(m.scenes[m.sceneCursor].Title) + " >"
	}
	return strip
}

// totals renders the aggregate counters of the selected scene as one row of
// label/value cells.
func (m BoardModel) totals() string {
	if m.summary == nil || m.summary.Sessions == 0 {
		return ""
	}
	s := m.summary
	cells := []struct {
		label string
		value string
	}{
		{"sessions", fmt.Sprintf("%d", s.Sessions)},
		{"ticks", fmt.Sprintf("%d", s.TotalTicks)},
		{"taps", fmt.Sprintf("%d", s.TotalTaps)},
		{"drags", fmt.Sprintf("%d", s.TotalDrags)},
		{"flings", fmt.Sprintf("%d", s.TotalFlings)},
		{"hits", fmt.Sprintf("%d (best %d)", s.TotalCollisions, s.MostCollisions)},
		{"avg", formatDuration(int(s.AvgDuration))},
	}
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = boardLabelStyle.Render(c.label+" ") + c.value
	}
	return strings.Join(parts, "  ")
}

// Selected returns the id of the scene on display.
func (m BoardModel) Selected() string {
	if len(m.scenes) == 0 {
		return ""
	}
	return m.scenes[m.sceneCursor].ID
}

// IsGoingBack returns true if user wants to go back to menu.
func (m BoardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m BoardModel) IsQuitting() bool {
	return m.quitting
}

// RunBoard runs the stats board.
// Returns true if user wants to go back to menu, false if quitting.
func RunBoard(scenes []registry.SceneInfo, store *storage.Store, width, height int) (goBack bool, err error) {
	model := NewBoardModel(scenes, store, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(BoardModel)
	if !ok {
		return false, nil
	}

	return m.IsGoingBack(), nil
}
