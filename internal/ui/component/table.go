package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// column is one table column; width 0 marks a flex column sized from
// the leftover table width at render time.
type column struct {
	header string
	width  int
	align  lipgloss.Position
}

type tableStyles struct {
	header   lipgloss.Style
	row      lipgloss.Style
	selected lipgloss.Style
	border   lipgloss.Style
	zebraBg  lipgloss.TerminalColor
}

func newTableStyles(p style.Palette) tableStyles {
	cell := lipgloss.NewStyle().Padding(0, 1)

	return tableStyles{
		header:   cell.Bold(true).Foreground(p.Secondary),
		row:      cell.Foreground(p.Text),
		selected: cell.Background(p.Primary).Foreground(p.Background),
		border:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.TextMuted),
		zebraBg:  p.BackgroundAlt,
	}
}

// Table renders tabular data with single-row selection. When a height
// is set, rendering windows the rows so the selected one stays visible.
type Table struct {
	columns  []column
	rows     [][]string
	override map[int]lipgloss.Style

	width  int
	height int
	cursor int

	st tableStyles

	showBorder  bool
	showHeaders bool
	selectable  bool
	zebra       bool
}

// NewTable starts an empty table with borders, headers and selection on.
func NewTable() *Table {
	t := &Table{
		override: map[int]lipgloss.Style{},
		st:       newTableStyles(style.DefaultPalette()),
	}
	t.showBorder = true
	t.showHeaders = true
	t.selectable = true
	return t
}

// AddColumn appends a column definition.
func (t *Table) AddColumn(title string, width int, align lipgloss.Position) *Table {
	t.columns = append(t.columns, column{header: title, width: width, align: align})
	return t
}

// SetRows replaces all rows and drops per-row style overrides.
func (t *Table) SetRows(rows [][]string) *Table {
	t.rows = rows
	t.override = map[int]lipgloss.Style{}
	if t.cursor >= len(rows) {
		t.cursor = max(0, len(rows)-1)
	}
	return t
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells []string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// SetRowStyle overrides the style of one row.
func (t *Table) SetRowStyle(row int, st lipgloss.Style) *Table {
	if row >= 0 && row < len(t.rows) {
		t.override[row] = st
	}
	return t
}

// SetSize sets the table dimensions. Height counts data rows, not the
// header or border lines.
func (t *Table) SetSize(width, height int) *Table {
	t.width = width
	t.height = height
	return t
}

// SetSelectedRow moves the cursor when index is in range.
func (t *Table) SetSelectedRow(row int) *Table {
	if row >= 0 && row < len(t.rows) {
		t.cursor = row
	}
	return t
}

// SelectedRow is the cursor index.
func (t *Table) SelectedRow() int {
	return t.cursor
}

// SelectedRowData is the cell slice under the cursor, nil when empty.
func (t *Table) SelectedRowData() []string {
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return nil
	}
	return t.rows[t.cursor]
}

// RowCount is how many rows the table holds.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// MoveUp shifts the cursor toward the first row.
func (t *Table) MoveUp() *Table { return t.moveSelection(-1) }

// MoveDown shifts the cursor toward the last row.
func (t *Table) MoveDown() *Table { return t.moveSelection(1) }

func (t *Table) moveSelection(delta int) *Table {
	if t.selectable {
		if next := t.cursor + delta; next >= 0 && next < len(t.rows) {
			t.cursor = next
		}
	}
	return t
}

// SetSelectable turns cursor handling on or off.
func (t *Table) SetSelectable(on bool) *Table {
	t.selectable = on
	return t
}

// SetShowBorder toggles the outer frame.
func (t *Table) SetShowBorder(on bool) *Table {
	t.showBorder = on
	return t
}

// SetShowHeaders toggles the header and separator lines.
func (t *Table) SetShowHeaders(on bool) *Table {
	t.showHeaders = on
	return t
}

// SetZebra toggles alternating row backgrounds.
func (t *Table) SetZebra(on bool) *Table {
	t.zebra = on
	return t
}

// Clear drops every row and its style overrides.
func (t *Table) Clear() *Table {
	t.rows = nil
	t.override = map[int]lipgloss.Style{}
	t.cursor = 0
	return t
}

// View lays out header, separator and the visible row window.
func (t *Table) View() string {
	if len(t.columns) == 0 {
		return "(table has no columns)"
	}

	widths := t.columnWidths()
	var lines []string

	if t.showHeaders {
		heads := make([]string, len(t.columns))
		for i, c := range t.columns {
			heads[i] = c.header
		}
		lines = append(lines,
			t.renderLine(heads, widths, t.st.header),
			separatorLine(widths),
		)
	}

	first, last := t.visibleWindow()
	for i := first; i < last; i++ {
		lines = append(lines, t.renderLine(t.rows[i], widths, t.rowStyleAt(i)))
	}

	out := strings.Join(lines, "\n")
	if t.showBorder {
		out = t.st.border.Render(out)
	}
	return out
}

// renderLine renders one row of cells joined by column separators.
func (t *Table) renderLine(cells []string, widths []int, st lipgloss.Style) string {
	var b strings.Builder
	for i, c := range t.columns {
		if i > 0 {
			b.WriteString("│")
		}
		v := ""
		if i < len(cells) {
			v = cells[i]
		}
		b.WriteString(st.Width(widths[i]).Align(c.align).Render(truncate(v, widths[i])))
	}
	return b.String()
}

func separatorLine(widths []int) string {
	segs := make([]string, len(widths))
	for i, w := range widths {
		segs[i] = strings.Repeat("─", w)
	}
	return strings.Join(segs, "┼")
}

// rowStyleAt picks the style for one data row: selection wins, then
// per-row overrides, then zebra striping.
func (t *Table) rowStyleAt(i int) lipgloss.Style {
	if t.selectable && i == t.cursor {
		return t.st.selected
	}

	st, ok := t.override[i]
	if !ok {
		st = t.st.row
	}
	if t.zebra && i%2 == 1 {
		st = st.Background(t.st.zebraBg)
	}
	return st
}

// visibleWindow returns the half-open row interval to render, sliding
// it so the selection never leaves view.
func (t *Table) visibleWindow() (int, int) {
	if t.height <= 0 || len(t.rows) <= t.height {
		return 0, len(t.rows)
	}

	first := t.cursor - t.height/2
	if first < 0 {
		first = 0
	}
	if first+t.height > len(t.rows) {
		first = len(t.rows) - t.height
	}
	return first, first + t.height
}

// truncate shortens content to width terminal cells, appending an
// ellipsis when something was cut. Operates on runes so multi-byte
// characters survive.
func truncate(content string, width int) string {
	if lipgloss.Width(content) <= width {
		return content
	}

	runes := []rune(content)
	if width > 1 {
		for len(runes) > 0 && lipgloss.Width(string(runes))+1 > width {
			runes = runes[:len(runes)-1]
		}
		return string(runes) + "…"
	}
	for len(runes) > 0 && lipgloss.Width(string(runes)) > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes)
}

// columnWidths resolves the effective width of every column for this
// render, distributing leftover table width across columns declared
// without one. Recomputed per render so flex columns track resizes.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.columns))

	totalExplicit := 0
	autoColumns := 0
	for i, c := range t.columns {
		widths[i] = c.width
		if c.width > 0 {
			totalExplicit += c.width
		} else {
			autoColumns++
		}
	}

	if t.width <= 0 || autoColumns == 0 {
		return widths
	}

	separators := len(t.columns) - 1
	available := t.width - totalExplicit - separators

	if available > 0 {
		autoWidth := available / autoColumns
		for i := range widths {
			if widths[i] <= 0 {
				widths[i] = autoWidth
			}
		}
	}

	return widths
}
