package style

import (
	"github.com/charmbracelet/lipgloss"
)

// Badge styles shared across screens.
var (
	palette = DefaultPalette()
	badge   = lipgloss.NewStyle().Bold(true)

	WarningStyle    = badge.Foreground(palette.Warning)
	InRangeStyle    = badge.Foreground(palette.Success)
	OutOfRangeStyle = badge.Foreground(palette.Warning)
)

// AdaptiveJoinHorizontal stacks panels vertically when the terminal is
// too narrow to put them side by side.
func AdaptiveJoinHorizontal(width int, panels ...string) string {
	if width < 80 {
		return lipgloss.JoinVertical(lipgloss.Left, panels...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
}

// AdaptiveWidth resolves a percentage of the terminal width, falling
// back to nearly full width on narrow screens.
func AdaptiveWidth(width, pct int) int {
	if width < 80 {
		return width - 4
	}
	return (width * pct) / 100
}
