package screen

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/logger"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/component"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/router"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// levelFilter selects which ring entries the table shows.
type levelFilter string

const (
	levelAll   levelFilter = "ALL"
	levelDebug levelFilter = "DEBUG"
	levelInfo  levelFilter = "INFO"
	levelWarn  levelFilter = "WARN"
	levelError levelFilter = "ERROR"
)

// logsLoadedMsg delivers a snapshot of the log ring
type logsLoadedMsg struct {
	Logs []logger.LogEntry
}

// refreshLogsMsg fires the periodic ring re-read.
type refreshLogsMsg struct {
	At time.Time
}

// logTheme groups the styles of the logs screen.
type logTheme struct {
	title  lipgloss.Style
	meta   lipgloss.Style
	plain  lipgloss.Style
	fail   lipgloss.Style
	frame  lipgloss.Style
	levels map[levelFilter]lipgloss.Style
}

func newLogTheme(p style.Palette) logTheme {
	bold := lipgloss.NewStyle().Bold(true)
	return logTheme{
		title: bold.Foreground(p.Primary).Align(lipgloss.Center).Margin(1, 0),
		meta:  bold.Foreground(p.Secondary).Padding(0, 2),
		plain: lipgloss.NewStyle().Foreground(p.Text).Padding(0, 2),
		fail:  bold.Foreground(p.Error),
		frame: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Primary).Margin(1, 0).Padding(1, 2),

		levels: map[levelFilter]lipgloss.Style{
			levelDebug: lipgloss.NewStyle().Foreground(p.TextMuted),
			levelInfo:  lipgloss.NewStyle().Foreground(p.Text),
			levelWarn:  bold.Foreground(p.Warning),
			levelError: bold.Foreground(p.Error),
		},
	}
}

func (t logTheme) levelStyle(level string) lipgloss.Style {
	if st, ok := t.levels[levelFilter(strings.ToUpper(level))]; ok {
		return st
	}
	return t.levels[levelInfo]
}

// LogViewer renders the tail of the in-memory log ring.
type LogViewer struct {
	width  int
	height int
	keyMap ui.KeyMap
	deps   Deps
	theme  logTheme

	help    *component.HelpBar
	tail    *component.Table
	filters *component.Form

	entries []logger.LogEntry
	visible []logger.LogEntry
	level   levelFilter
	search  string
	errors  []string

	filtersOpen bool
	tailMode    bool
	autoRefresh bool
	interval    time.Duration
	snapshotCap int
	lastUpdate  time.Time
}

// NewLogViewer builds the log viewer over the shared ring.
func NewLogViewer(deps Deps) *LogViewer {
	keys := ui.DefaultKeyMap()

	l := &LogViewer{
		keyMap:      keys,
		deps:        deps,
		theme:       newLogTheme(style.DefaultPalette()),
		level:       levelAll,
		tailMode:    true,
		autoRefresh: true,
		interval:    2 * time.Second,
		snapshotCap: 500,
		lastUpdate:  time.Now(),
	}

	l.tail = component.NewTable().
		AddColumn("Time", 10, lipgloss.Left).
		AddColumn("Level", 7, lipgloss.Center).
		AddColumn("Message", 0, lipgloss.Left). // Flex column
		SetShowBorder(true).SetSelectable(true).
		SetZebra(false) // rows are colored by level instead

	l.filters = component.NewForm().
		SetTitle("Filter Logs").
		AddField("level", component.FieldSelect, "Log Level", false, "Show only entries of one level").
		AddField("search", component.FieldText, "Search", false, "Substring to match in messages").
		SetOptions("level", []string{"ALL", "DEBUG", "INFO", "WARN", "ERROR"})

	l.help = component.NewHelpBar().
		SetKeyBindings(keys.HelpFor(ui.RouteLogs)).
		SetCompact(false)

	return l
}

// Init takes the first ring snapshot and starts the refresh timer.
func (l *LogViewer) Init() tea.Cmd {
	return tea.Batch(l.snapshot(), l.scheduleRefresh())
}

// Update reacts to keys, refresh ticks and ring snapshots.
func (l *LogViewer) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if l.filtersOpen {
			return l.updateFilters(msg)
		}
		return l.updateBrowse(msg)

	case refreshLogsMsg:
		l.lastUpdate = msg.At
		cmds := []tea.Cmd{l.snapshot()}
		if l.autoRefresh {
			cmds = append(cmds, l.scheduleRefresh())
		}
		return l, tea.Batch(cmds...)

	case logsLoadedMsg:
		l.entries = msg.Logs
		l.applyFilters()
		if l.tailMode {
			l.followTail()
		}

	case ui.ErrorMsg:
		l.errors = append(l.errors, msg.String())
	}

	return l, nil
}

func (l *LogViewer) updateFilters(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return l, tea.Quit

	case key.Matches(msg, l.keyMap.Back), key.Matches(msg, l.keyMap.Enter):
		l.filtersOpen = false
		l.applyFilters()

	default:
		form, cmd := l.filters.Update(msg)
		l.filters = form
		return l, cmd
	}

	return l, nil
}

func (l *LogViewer) updateBrowse(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, l.keyMap.Quit):
		return l, tea.Quit

	case key.Matches(msg, l.keyMap.Back):
		ui.Back()

	case key.Matches(msg, l.keyMap.Up):
		// Manual scrolling leaves tail mode.
		l.tail.MoveUp()
		l.tailMode = false

	case key.Matches(msg, l.keyMap.Down):
		l.tail.MoveDown()

	case key.Matches(msg, l.keyMap.Refresh):
		return l, l.snapshot()

	case msg.String() == "f":
		l.filtersOpen = true
		return l, l.filters.Init()

	case key.Matches(msg, l.keyMap.Tail):
		l.tailMode = !l.tailMode
		if l.tailMode {
			l.followTail()
		}

	case msg.String() == "a":
		l.autoRefresh = !l.autoRefresh
		if l.autoRefresh {
			return l, l.scheduleRefresh()
		}

	case key.Matches(msg, l.keyMap.LevelError):
		l.quickFilter(levelError)

	case key.Matches(msg, l.keyMap.LevelWarn):
		l.quickFilter(levelWarn)

	case key.Matches(msg, l.keyMap.LevelInfo):
		l.quickFilter(levelInfo)

	case key.Matches(msg, l.keyMap.LevelAll):
		l.quickFilter(levelAll)
	}

	return l, nil
}

// quickFilter applies a level filter and syncs the form.
func (l *LogViewer) quickFilter(level levelFilter) {
	l.level = level
	l.filters.SetValue("level", string(level))
	l.applyFilters()
}

// View stacks title, status row, errors and either the filter form or
// the log table.
func (l *LogViewer) View() string {
	if l.width == 0 || l.height == 0 {
		return ""
	}

	sections := []string{
		l.renderTitle(),
		"",
		l.renderStatus(),
		"",
	}

	for i, e := range l.errors {
		if i == 2 {
			break
		}
		sections = append(sections, l.theme.fail.Render("❌ "+e))
	}
	if len(l.errors) > 0 {
		sections = append(sections, "")
	}

	switch {
	case l.filtersOpen:
		sections = append(sections, l.theme.frame.Render(l.filters.View()))
	case len(l.visible) == 0:
		sections = append(sections, l.theme.plain.Render(
			"No log entries match the current filters.\nPress 'f' to adjust filters or '4' to show all."))
	default:
		sections = append(sections, l.tail.View())
	}

	sections = append(sections,
		"",
		l.renderHints(),
		l.help.SetWidth(l.width).View(),
	)

	return strings.Join(sections, "\n")
}

// Resize spreads the new dimensions over the embedded components.
func (l *LogViewer) Resize(width, height int) {
	l.width = width
	l.height = height
	l.help.SetWidth(width)
	l.filters.SetWidth(width - 8)
	l.tail.SetSize(width-4, height-15)
}

func (l *LogViewer) renderTitle() string {
	title := "📜 Log Viewer"
	if l.autoRefresh {
		title += " [auto]"
	}
	if l.tailMode {
		title += " [tail]"
	}
	return l.theme.title.Width(l.width).Render(title)
}

// renderStatus summarizes ring totals, active filters and refresh
// state.
func (l *LogViewer) renderStatus() string {
	parts := []string{
		fmt.Sprintf("Total: %d", l.deps.Ring.Total()),
		fmt.Sprintf("Shown: %d", len(l.visible)),
	}

	if l.level != levelAll {
		parts = append(parts, "Filter: "+string(l.level))
	}
	if l.search != "" {
		parts = append(parts, fmt.Sprintf("Search: '%s'", l.search))
	}

	refresh := "Manual"
	if l.autoRefresh {
		refresh = fmt.Sprintf("Auto (%ds)", int(l.interval.Seconds()))
	}
	parts = append(parts,
		"Refresh: "+refresh,
		"Updated: "+l.lastUpdate.Format("15:04:05"),
	)

	return l.theme.meta.Render(strings.Join(parts, " • "))
}

func (l *LogViewer) renderHints() string {
	if l.filtersOpen {
		return l.theme.plain.Render("Enter/Esc: Apply filters")
	}

	return l.theme.plain.Render(strings.Join([]string{
		"F: Filters",
		"1-4: Quick filter (Error/Warn/Info/All)",
		"T: Tail mode",
		"A: Auto-refresh",
		"F5: Refresh",
	}, " • "))
}

// syncTable mirrors the visible entries into the table, one row per
// entry, colored by level.
func (l *LogViewer) syncTable() {
	rows := make([][]string, len(l.visible))
	for i, entry := range l.visible {
		rows[i] = []string{
			entry.At.Format("15:04:05"),
			strings.ToUpper(entry.Level),
			flattenEntry(entry),
		}
	}
	l.tail.SetRows(rows)

	for i, entry := range l.visible {
		l.tail.SetRowStyle(i, l.theme.levelStyle(entry.Level))
	}
}

// flattenEntry folds an entry's structured fields into the message
// column, sorted by key for stable output.
func flattenEntry(entry logger.LogEntry) string {
	if len(entry.Fields) == 0 {
		return entry.Message
	}

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(entry.Message)
	b.WriteString(" ")
	for i, k := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		fmt.Fprintf(&b, "%s=%v", k, entry.Fields[k])
	}
	return b.String()
}

// applyFilters rebuilds the visible slice from the filter form state.
func (l *LogViewer) applyFilters() {
	l.level = levelFilter(strings.ToUpper(l.filters.Value("level")))
	if l.level == "" {
		l.level = levelAll
	}
	l.search = strings.TrimSpace(l.filters.Value("search"))

	visible := make([]logger.LogEntry, 0, len(l.entries))
	for _, entry := range l.entries {
		if l.matches(entry) {
			visible = append(visible, entry)
		}
	}

	l.visible = visible
	l.syncTable()
}

// matches reports whether an entry passes the level and search
// filters.
func (l *LogViewer) matches(entry logger.LogEntry) bool {
	if l.level != levelAll && !strings.EqualFold(entry.Level, string(l.level)) {
		return false
	}
	if l.search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(flattenEntry(entry)), strings.ToLower(l.search))
}

// followTail pins the selection to the newest entry.
func (l *LogViewer) followTail() {
	if n := len(l.visible); n > 0 {
		l.tail.SetSelectedRow(n - 1)
	}
}

func (l *LogViewer) scheduleRefresh() tea.Cmd {
	return tea.Tick(l.interval, func(t time.Time) tea.Msg {
		return refreshLogsMsg{At: t}
	})
}

// snapshot reads the newest entries out of the ring.
func (l *LogViewer) snapshot() tea.Cmd {
	ring := l.deps.Ring
	limit := l.snapshotCap
	return func() tea.Msg {
		return logsLoadedMsg{Logs: ring.Recent(limit)}
	}
}
