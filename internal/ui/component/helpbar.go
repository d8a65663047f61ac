package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// HelpBar renders the key hints of the active screen in one padded
// line, wrapping onto further lines when the terminal is narrow.
type HelpBar struct {
	bindings []key.Binding
	width    int
	compact  bool

	keyStyle  lipgloss.Style
	descStyle lipgloss.Style
	frame     lipgloss.Style
	separator string
}

// NewHelpBar starts a bar at the default 80 column width.
func NewHelpBar() *HelpBar {
	p := style.DefaultPalette()
	muted := lipgloss.NewStyle().Foreground(p.TextMuted)

	return &HelpBar{
		width:     80,
		keyStyle:  lipgloss.NewStyle().Bold(true).Foreground(p.Primary),
		descStyle: muted,
		frame:     lipgloss.NewStyle().Padding(0, 1).Margin(1, 0, 0, 0),
		separator: muted.Render(" • "),
	}
}

// SetKeyBindings replaces the hints shown.
func (h *HelpBar) SetKeyBindings(bs []key.Binding) *HelpBar {
	h.bindings = bs
	return h
}

// SetWidth tells the bar how many columns it may fill.
func (h *HelpBar) SetWidth(w int) *HelpBar {
	h.width = w
	return h
}

// SetCompact drops the descriptions, leaving only key labels.
func (h *HelpBar) SetCompact(on bool) *HelpBar {
	h.compact = on
	return h
}

// View renders the hints, greedily packing each line up to the bar
// width before starting the next.
func (h *HelpBar) View() string {
	entries := h.entries()
	if len(entries) == 0 {
		return ""
	}

	limit := h.width - 4
	sepWidth := lipgloss.Width(h.separator)

	var lines []string
	line := ""
	for _, e := range entries {
		switch {
		case line == "":
			line = e
		case lipgloss.Width(line)+sepWidth+lipgloss.Width(e) <= limit:
			line += h.separator + e
		default:
			lines = append(lines, line)
			line = e
		}
	}
	lines = append(lines, line)

	return h.frame.Width(h.width).Render(strings.Join(lines, "\n"))
}

// entries builds one styled hint per enabled binding. Bindings without
// a description are skipped unless the bar is compact.
func (h *HelpBar) entries() []string {
	out := make([]string, 0, len(h.bindings))
	for _, b := range h.bindings {
		if !b.Enabled() || len(b.Keys()) == 0 {
			continue
		}

		hint := b.Help()
		label := hint.Key
		if label == "" {
			label = b.Keys()[0]
		}

		entry := h.keyStyle.Render(label)
		if !h.compact {
			if hint.Desc == "" {
				continue
			}
			entry += " " + h.descStyle.Render(hint.Desc)
		}
		out = append(out, entry)
	}
	return out
}
