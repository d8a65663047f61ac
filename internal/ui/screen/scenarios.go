package screen

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/scenario"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/component"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/router"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/state"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// refreshScenariosMsg is sent periodically to reload the book from disk
type refreshScenariosMsg struct {
	At time.Time
}

// scenariosLoadedMsg delivers the scenario book, either from a load or
// after a mutation
type scenariosLoadedMsg struct {
	book []*scenario.Scenario
	err  error
}

// bookTheme collects the styles the scenario list draws with.
type bookTheme struct {
	title  lipgloss.Style
	status lipgloss.Style
	fail   lipgloss.Style
	info   lipgloss.Style
}

func newBookTheme(p style.Palette) bookTheme {
	return bookTheme{
		title:  lipgloss.NewStyle().Bold(true).Foreground(p.Primary).Align(lipgloss.Center).Margin(1, 0),
		status: lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(p.Secondary),
		fail:   lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(p.Error),
		info:   lipgloss.NewStyle().Padding(0, 2).Foreground(p.Text),
	}
}

// ScenariosScreen lists the saved scenario book and loads entries into
// an analysis session.
type ScenariosScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	deps   Deps
	theme  bookTheme

	help  *component.HelpBar
	table *component.Table

	scenarios     []*scenario.Scenario
	confirmDelete string // name armed for deletion, cleared by any other key
	errors        []string
	refreshedAt   time.Time
}

// NewScenariosScreen wires the book table, help bar and styles.
func NewScenariosScreen(deps Deps) *ScenariosScreen {
	keys := ui.DefaultKeyMap()

	b := &ScenariosScreen{
		keyMap:      keys,
		deps:        deps,
		theme:       newBookTheme(style.DefaultPalette()),
		refreshedAt: time.Now(),
	}

	b.table = component.NewTable().
		AddColumn("Name", 16, lipgloss.Left).
		AddColumn("Asset", 6, lipgloss.Center).
		AddColumn("Amount", 13, lipgloss.Right).
		AddColumn("Price", 10, lipgloss.Right).
		AddColumn("Band", 18, lipgloss.Left).
		AddColumn("Eval", 10, lipgloss.Right).
		AddColumn("Created", 12, lipgloss.Left).
		SetShowBorder(true).SetSelectable(true).SetZebra(true)

	b.help = component.NewHelpBar().
		SetKeyBindings(keys.HelpFor(ui.RouteScenarios)).
		SetCompact(false)

	return b
}

// Init loads the book and starts the periodic reload.
func (b *ScenariosScreen) Init() tea.Cmd {
	return tea.Batch(b.loadScenariosCmd(), b.scheduleReload())
}

func (b *ScenariosScreen) scheduleReload() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return refreshScenariosMsg{At: t}
	})
}

// loadScenariosCmd reads the scenario book from disk.
func (b *ScenariosScreen) loadScenariosCmd() tea.Cmd {
	manager := b.deps.Scenarios
	path := b.deps.Cfg.ScenariosFile
	return func() tea.Msg {
		book, err := manager.Load(path)
		return scenariosLoadedMsg{book: book, err: err}
	}
}

// deleteScenarioCmd removes one entry and delivers the updated book.
func (b *ScenariosScreen) deleteScenarioCmd(name string) tea.Cmd {
	manager := b.deps.Scenarios
	path := b.deps.Cfg.ScenariosFile
	return func() tea.Msg {
		book, err := manager.Remove(path, name)
		return scenariosLoadedMsg{book: book, err: err}
	}
}

// Update reacts to key presses, reload ticks and book deliveries.
func (b *ScenariosScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)

	case refreshScenariosMsg:
		b.refreshedAt = msg.At
		return b, tea.Batch(b.loadScenariosCmd(), b.scheduleReload())

	case scenariosLoadedMsg:
		if msg.err != nil {
			b.errors = []string{fmt.Sprintf("Error loading scenarios: %v", msg.err)}
			return b, nil
		}
		b.scenarios = msg.book
		b.errors = nil
		b.syncTable()

	case ui.ErrorMsg:
		b.errors = append(b.errors, msg.String())
	}

	return b, nil
}

func (b *ScenariosScreen) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	// A pending delete survives exactly one keystroke.
	armed := b.confirmDelete
	b.confirmDelete = ""

	switch {
	case key.Matches(msg, b.keyMap.Quit):
		return b, tea.Quit

	case key.Matches(msg, b.keyMap.Back):
		ui.Back()

	case key.Matches(msg, b.keyMap.Up):
		b.table.MoveUp()

	case key.Matches(msg, b.keyMap.Down):
		b.table.MoveDown()

	case key.Matches(msg, b.keyMap.Enter):
		b.openSelected()

	case key.Matches(msg, b.keyMap.Delete):
		sc := b.selected()
		if sc == nil {
			break
		}
		if armed == sc.Name {
			return b, b.deleteScenarioCmd(sc.Name)
		}
		b.confirmDelete = sc.Name

	case key.Matches(msg, b.keyMap.NewPosition):
		ui.Navigate(ui.RouteSetup)

	case key.Matches(msg, b.keyMap.Refresh):
		return b, b.loadScenariosCmd()
	}

	return b, nil
}

// selected returns the scenario under the cursor, nil when the book is
// empty.
func (b *ScenariosScreen) selected() *scenario.Scenario {
	row := b.table.SelectedRow()
	if row < 0 || row >= len(b.scenarios) {
		return nil
	}
	return b.scenarios[row]
}

// openSelected funds the selected scenario and moves to analysis.
func (b *ScenariosScreen) openSelected() {
	sc := b.selected()
	if sc == nil {
		return
	}

	pos, err := sc.Open()
	if err != nil {
		b.errors = append(b.errors, fmt.Sprintf("Cannot open %q: %v", sc.Name, err))
		return
	}
	f, err := sc.Funding()
	if err != nil {
		b.errors = append(b.errors, err.Error())
		return
	}

	b.deps.Cache.SetSession(state.Session{
		Label:        sc.Name,
		Funding:      f,
		InitialPrice: sc.Price,
		Target:       sc.Target(),
		Position:     pos,
	})

	ui.Publish(ui.PositionOpenedMsg{Label: sc.Name, Liquidity: pos.Liquidity})
	ui.Navigate(ui.RouteAnalysis)
}

// View draws the book with status line, hints and help bar.
func (b *ScenariosScreen) View() string {
	if b.width == 0 || b.height == 0 {
		return ""
	}

	sections := []string{
		b.theme.title.Width(b.width).Render("▶ Scenario Book"),
		"",
		b.renderStatus(),
		"",
	}

	for _, e := range b.errors {
		sections = append(sections, b.theme.fail.Render("❌ "+e))
	}
	if len(b.errors) > 0 {
		sections = append(sections, "")
	}

	if len(b.scenarios) == 0 {
		sections = append(sections, b.theme.info.Render(
			"No scenarios saved yet. Open a position and press Ctrl+S on the analysis screen."))
	} else {
		sections = append(sections, b.table.View())
	}

	sections = append(sections,
		"",
		b.renderHints(),
		b.help.SetWidth(b.width).View(),
	)

	return strings.Join(sections, "\n")
}

// Resize records the terminal dimensions and resizes the table.
func (b *ScenariosScreen) Resize(width, height int) {
	b.width = width
	b.height = height
	b.help.SetWidth(width)
	b.table.SetSize(width-4, height-15)
}

// renderStatus shows the book size, any armed delete and the last
// reload time.
func (b *ScenariosScreen) renderStatus() string {
	parts := []string{fmt.Sprintf("Scenarios: %d", len(b.scenarios))}

	if b.confirmDelete != "" {
		parts = append(parts, style.WarningStyle.Render(fmt.Sprintf("⚠ Press d again to delete %q", b.confirmDelete)))
	}

	parts = append(parts, "Updated: "+b.refreshedAt.Format("15:04:05"))

	return b.theme.status.Render(strings.Join(parts, " • "))
}

func (b *ScenariosScreen) renderHints() string {
	hints := strings.Join([]string{
		"Enter: Load scenario",
		"D: Delete",
		"N: New position",
		"F5: Refresh",
	}, " • ")
	return b.theme.info.Render(hints)
}

// syncTable rebuilds the table rows from the book.
func (b *ScenariosScreen) syncTable() {
	rows := make([][]string, 0, len(b.scenarios))
	for _, sc := range b.scenarios {
		rows = append(rows, bookRow(sc))
	}
	b.table.SetRows(rows)
}

// bookRow flattens one scenario into table cells.
func bookRow(sc *scenario.Scenario) []string {
	eval := "-"
	if sc.EvalPrice > 0 {
		eval = fmt.Sprintf("%.6g", sc.EvalPrice)
	}

	created := "-"
	if !sc.CreatedAt.IsZero() {
		created = sc.CreatedAt.Format("2006-01-02")
	}

	return []string{
		sc.Name,
		strings.ToUpper(sc.Asset),
		fmt.Sprintf("%.6g", sc.Amount),
		fmt.Sprintf("%.6g", sc.Price),
		fmt.Sprintf("[%.4g, %.4g]", sc.LowerBound, sc.UpperBound),
		eval,
		created,
	}
}
