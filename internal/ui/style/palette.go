package style

import "github.com/charmbracelet/lipgloss"

// Palette names the colors every screen draws with. Each entry carries
// a light and a dark variant so the TUI stays readable on either
// terminal background.
type Palette struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Success   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor
	Warning   lipgloss.AdaptiveColor
	Info      lipgloss.AdaptiveColor

	Background    lipgloss.AdaptiveColor
	BackgroundAlt lipgloss.AdaptiveColor
	Text          lipgloss.AdaptiveColor
	TextMuted     lipgloss.AdaptiveColor
	TextSecondary lipgloss.AdaptiveColor

	Gain lipgloss.AdaptiveColor
	Loss lipgloss.AdaptiveColor
	Band lipgloss.AdaptiveColor
}

// DefaultPalette is the scheme the TUI ships with, tuned for dark
// terminals first. Gain tracks Success so positive valuations and
// confirmations read the same.
func DefaultPalette() Palette {
	return Palette{
		Primary:   lipgloss.AdaptiveColor{Light: "#0F766E", Dark: "#2DD4BF"}, // teal highlight
		Secondary: lipgloss.AdaptiveColor{Light: "#A21CAF", Dark: "#E879F9"}, // orchid accent
		Success:   lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
		Error:     lipgloss.AdaptiveColor{Light: "#BE123C", Dark: "#F43F5E"},
		Warning:   lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"},
		Info:      lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"},

		Background:    lipgloss.AdaptiveColor{Light: "#FAFAFA", Dark: "#14161C"},
		BackgroundAlt: lipgloss.AdaptiveColor{Light: "#ECEEF2", Dark: "#1F232C"},
		Text:          lipgloss.AdaptiveColor{Light: "#1A1D23", Dark: "#E8ECF4"},
		TextMuted:     lipgloss.AdaptiveColor{Light: "#9AA2B1", Dark: "#697180"},
		TextSecondary: lipgloss.AdaptiveColor{Light: "#555E6E", Dark: "#AFB8C6"},

		Gain: lipgloss.AdaptiveColor{Light: "#15803D", Dark: "#4ADE80"},
		Loss: lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"},
		Band: lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"},
	}
}
