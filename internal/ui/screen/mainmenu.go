package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/component"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/router"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// menuEntry is one selectable row of the main menu. Entries with a
// locked func grey out while the condition holds.
type menuEntry struct {
	label  string
	detail string
	route  ui.Route
	locked func() bool
}

func (e menuEntry) available() bool {
	return e.locked == nil || !e.locked()
}

// menuTheme groups the styles of the menu screen.
type menuTheme struct {
	title  lipgloss.Style
	row    lipgloss.Style
	active lipgloss.Style
	detail lipgloss.Style
	status lipgloss.Style
	frame  lipgloss.Style
	muted  lipgloss.TerminalColor
}

func newMenuTheme(p style.Palette) menuTheme {
	bold := lipgloss.NewStyle().Bold(true)
	row := lipgloss.NewStyle().Margin(0, 0, 1, 0).Padding(0, 2)
	return menuTheme{
		title:  bold.Foreground(p.Primary).Align(lipgloss.Center).Margin(1, 0),
		row:    row.Foreground(p.Text),
		active: row.Bold(true).Foreground(p.Background).Background(p.Primary),
		detail: lipgloss.NewStyle().Foreground(p.TextMuted).Italic(true).Margin(0, 0, 1, 0).Padding(0, 4),
		status: bold.Foreground(p.Secondary).Padding(0, 2),
		frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Primary).Margin(1, 0).Padding(2, 4),
		muted:  p.TextMuted,
	}
}

// MenuScreen is the entry screen with the five destinations.
type MenuScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	deps   Deps

	help  *component.HelpBar
	theme menuTheme

	cursor  int
	entries []menuEntry

	clock time.Time
}

// NewMenuScreen assembles the destination entries and the shared
// key hints.
func NewMenuScreen(deps Deps) *MenuScreen {
	keys := ui.DefaultKeyMap()

	entries := []menuEntry{
		{
			label:  "✏ New Position",
			detail: "Fund a liquidity position and pick its price band",
			route:  ui.RouteSetup,
		},
		{
			label:  "📊 Analysis",
			detail: "Walk the price and watch position value and divergence loss",
			route:  ui.RouteAnalysis,
			locked: func() bool { return !deps.Cache.Active() },
		},
		{
			label:  "▶ Scenarios",
			detail: "Load, save and manage saved position setups",
			route:  ui.RouteScenarios,
		},
		{
			label:  "ℹ Quick Reference",
			detail: "Range math formulas, tick conversion and a worked example",
			route:  ui.RouteReference,
		},
		{
			label:  "📜 Logs",
			detail: "View application logs and activity",
			route:  ui.RouteLogs,
		},
	}

	m := &MenuScreen{
		keyMap:  keys,
		deps:    deps,
		entries: entries,
		theme:   newMenuTheme(style.DefaultPalette()),
		clock:   time.Now(),
	}
	m.help = component.NewHelpBar().
		SetKeyBindings(keys.HelpFor(ui.RouteMenu)).
		SetCompact(false)
	return m
}

// Init starts the clock used by the status line.
func (m *MenuScreen) Init() tea.Cmd {
	return m.tickClock()
}

func (m *MenuScreen) tickClock() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return t })
}

// Update moves the cursor, follows shortcuts and keeps the clock
// ticking.
func (m *MenuScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case time.Time:
		m.clock = msg
		return m, m.tickClock()
	}

	return m, nil
}

func (m *MenuScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Up):
		m.cycle(-1)

	case key.Matches(msg, m.keyMap.Down):
		m.cycle(1)

	case key.Matches(msg, m.keyMap.Enter):
		m.openSelected()

	// Direct navigation shortcuts
	case key.Matches(msg, m.keyMap.NewPosition):
		ui.Navigate(ui.RouteSetup)

	case key.Matches(msg, m.keyMap.Scenarios):
		ui.Navigate(ui.RouteScenarios)

	case key.Matches(msg, m.keyMap.Reference):
		ui.Navigate(ui.RouteReference)

	case key.Matches(msg, m.keyMap.Logs):
		ui.Navigate(ui.RouteLogs)
	}

	return m, nil
}

func (m *MenuScreen) cycle(delta int) {
	n := len(m.entries)
	if n == 0 {
		return
	}
	m.cursor = (m.cursor + delta + n) % n
}

func (m *MenuScreen) openSelected() {
	if m.cursor >= len(m.entries) {
		return
	}
	if e := m.entries[m.cursor]; e.available() {
		ui.Navigate(e.route)
	}
}

// View stacks header, menu and help bar, centered on wide terminals.
func (m *MenuScreen) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		"",
		m.renderMenu(),
		m.help.SetWidth(m.width).View(),
	)

	if m.width > 80 {
		body = lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}

	return body
}

// Resize records the terminal dimensions.
func (m *MenuScreen) Resize(width, height int) {
	m.width = width
	m.height = height
	m.help.SetWidth(width)
}

// renderHeader renders the title plus a clock and position summary.
func (m *MenuScreen) renderHeader() string {
	title := m.theme.title.Width(m.width).Render("📈 Impermanent Loss Calculator")

	session := "No position loaded"
	if s, ok := m.deps.Cache.Session(); ok {
		label := s.Label
		if label == "" {
			label = "untitled"
		}
		session = fmt.Sprintf("%s • L %.4g in [%.4g, %.4g]",
			label, s.Position.Liquidity, s.Position.Range.Lower, s.Position.Range.Upper)
	}

	status := strings.Join([]string{
		"Time: " + m.clock.Format("15:04:05"),
		session,
	}, " • ")

	return lipgloss.JoinVertical(lipgloss.Center,
		title,
		m.theme.status.Width(m.width).Align(lipgloss.Center).Render(status),
	)
}

// renderMenu renders the entry rows. The selected entry is inverted
// and shows its detail line underneath; locked entries render muted.
func (m *MenuScreen) renderMenu() string {
	var rows []string

	for i, e := range m.entries {
		st := m.theme.row
		if i == m.cursor {
			st = m.theme.active
		}
		if !e.available() {
			st = st.Foreground(m.theme.muted)
		}

		rows = append(rows, st.Render(e.label))
		if i == m.cursor {
			rows = append(rows, m.theme.detail.Render(e.detail))
		}
	}

	return m.theme.frame.Render(strings.Join(rows, "\n"))
}
