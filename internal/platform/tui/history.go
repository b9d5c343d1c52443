package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/anomaly-exit/internal/registry"
	"github.com/vovakirdan/anomaly-exit/internal/storage"
)

// History layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show the room sidebar
	sidebarWidth       = 22  // Width of room list sidebar
	maxRuns            = 100 // Max runs to load per room
)

// HistoryKeyMap defines the key bindings for the run history.
type HistoryKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Back     key.Binding
	Quit     key.Binding
	NextRoom key.Binding
	PrevRoom key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextRoom, k.PrevRoom, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextRoom, k.PrevRoom},
		{k.Back, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev room"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next room"),
		),
		NextRoom: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next room"),
		),
		PrevRoom: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev room"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel shows the best finished runs of each room.
type HistoryModel struct {
	rooms       []registry.GameInfo
	roomCursor  int
	store       *storage.Store
	runs        []storage.Run
	stats       *storage.RoomStats
	table       table.Model
	help        help.Model
	keys        HistoryKeyMap
	width       int
	height      int
	quitting    bool
	goingBack   bool
	showSidebar bool
}

// NewHistoryModel creates a history view. A non-empty roomID preselects
// that room.
func NewHistoryModel(store *storage.Store, roomID string, width, height int) HistoryModel {
	h := help.New()
	h.ShowAll = false

	m := HistoryModel{
		rooms:       registry.List(),
		store:       store,
		keys:        DefaultHistoryKeyMap(),
		help:        h,
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	for i, r := range m.rooms {
		if r.ID == roomID {
			m.roomCursor = i
		}
	}

	m.table = m.createTable()
	if len(m.rooms) > 0 {
		m.loadRuns(m.rooms[m.roomCursor].ID)
	}
	return m
}

// createTable creates a new table with appropriate columns.
func (m *HistoryModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Rounds", Width: 7},
		{Title: "Result", Width: 7},
		{Title: "Reason", Width: 20},
		{Title: "Fixes", Width: 6},
		{Title: "Date", Width: 13},
	}

	tableWidth := m.width - 4
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3
	}
	// Reason absorbs spare or missing width.
	fixed := 0
	for i, c := range columns {
		if i != 3 {
			fixed += c.Width + 2
		}
	}
	columns[3].Width = max(10, min(24, tableWidth-fixed-2))

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)

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

// loadRuns loads the best runs and aggregate stats for a room.
func (m *HistoryModel) loadRuns(roomID string) {
	m.runs, m.stats = nil, nil
	if m.store != nil {
		if runs, err := m.store.BestRuns(roomID, maxRuns); err == nil {
			m.runs = runs
		}
		if stats, err := m.store.GetRoomStats(roomID); err == nil {
			m.stats = stats
		}
	}
	m.updateTableRows()
}

// updateTableRows updates the table with the loaded runs.
func (m *HistoryModel) updateTableRows() {
	m.table.SetRows(historyRows(m.runs))
	m.table.GotoTop()
}

// historyRows formats runs as table rows, ranked in the order given.
func historyRows(runs []storage.Run) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Rounds),
			r.Result,
			r.Reason,
			fmt.Sprintf("%d", r.Fixes),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the history view.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
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

		case key.Matches(msg, m.keys.NextRoom), key.Matches(msg, m.keys.Right):
			if len(m.rooms) > 0 {
				m.roomCursor = (m.roomCursor + 1) % len(m.rooms)
				m.loadRuns(m.rooms[m.roomCursor].ID)
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevRoom), key.Matches(msg, m.keys.Left):
			if len(m.rooms) > 0 {
				m.roomCursor = (m.roomCursor - 1 + len(m.rooms)) % len(m.rooms)
				m.loadRuns(m.rooms[m.roomCursor].ID)
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history view.
func (m HistoryModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	title := "RUN HISTORY"
	if room, ok := m.CurrentRoom(); ok {
		title = fmt.Sprintf("RUN HISTORY - %s", room.Title)
	}
	b.WriteString(centerText(titleStyle.Render(title), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(dimStyle.Render(m.statsLine()), m.width))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// statsLine summarizes the current room.
func (m HistoryModel) statsLine() string {
	if m.stats == nil || m.stats.Runs == 0 {
		return "no runs yet"
	}
	return fmt.Sprintf("%d runs  |  %d won  |  best round %d  |  %d fixes",
		m.stats.Runs, m.stats.Wins, m.stats.BestRound, m.stats.TotalFixes)
}

// renderWideLayout renders the history with a room sidebar.
func (m HistoryModel) renderWideLayout() string {
	var sidebar strings.Builder
	sidebar.WriteString("Rooms\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, r := range m.rooms {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.roomCursor {
			cursor = "> "
			style = titleStyle
		}
		sidebar.WriteString(style.Render(cursor + truncate(r.Title, sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	side := panelStyle.Width(sidebarWidth).Render(sidebar.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, side, "  ", panelStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the history with room tabs above the table.
func (m HistoryModel) renderNarrowLayout() string {
	var b strings.Builder

	activeTab := titleStyle.Background(lipgloss.Color("57")).Padding(0, 1)
	tabs := make([]string, len(m.rooms))
	for i, r := range m.rooms {
		name := truncate(r.Title, 12)
		if i == m.roomCursor {
			tabs[i] = activeTab.Render(name)
		} else {
			tabs[i] = dimStyle.Render(" " + name + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		if room, ok := m.CurrentRoom(); ok {
			tabLine = fmt.Sprintf("< %s >", room.Title)
		}
	}
	b.WriteString(centerText(tabLine, m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(panelStyle.Render(m.renderTableContent()), m.width))

	return b.String()
}

// renderTableContent renders the table or empty message.
func (m HistoryModel) renderTableContent() string {
	if len(m.runs) == 0 {
		empty := dimStyle.Italic(true).Padding(2, 4)
		return empty.Render("No runs recorded yet.\nFind the anomalies to make history!")
	}
	return m.table.View()
}

// truncate shortens s to n runes, marking the cut with a dot.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n || n < 2 {
		return s
	}
	return string(r[:n-1]) + "."
}

// CurrentRoom returns the room whose runs are shown.
func (m HistoryModel) CurrentRoom() (registry.GameInfo, bool) {
	if len(m.rooms) == 0 {
		return registry.GameInfo{}, false
	}
	return m.rooms[m.roomCursor], true
}

// Runs returns the loaded runs of the current room.
func (m HistoryModel) Runs() []storage.Run {
	return m.runs
}

// IsGoingBack returns true if user wants to go back to menu.
func (m HistoryModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m HistoryModel) IsQuitting() bool {
	return m.quitting
}

// RunHistory runs the history screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunHistory(store *storage.Store, roomID string, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewHistoryModel(store, roomID, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(HistoryModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
