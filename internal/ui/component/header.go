package component

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// SessionHeader is the one-line banner above the analysis view: which
// position is loaded, its band, and where the evaluated price sits
// relative to it.
type SessionHeader struct {
	label     string
	liquidity float64
	lower     float64
	upper     float64
	evalPrice float64
	loss      float64
	width     int
	theme     headerTheme
}

type headerTheme struct {
	frame  lipgloss.Style
	title  lipgloss.Style
	label  lipgloss.Style
	in     lipgloss.Style
	out    lipgloss.Style
	worse  lipgloss.Style
	better lipgloss.Style
	flat   lipgloss.Style
}

func newHeaderTheme(p style.Palette) headerTheme {
	bold := lipgloss.NewStyle().Bold(true)
	return headerTheme{
		frame: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Primary).
			Background(p.Background).Foreground(p.Text).Padding(0, 2).MarginBottom(1),
		title:  bold.Foreground(p.Primary),
		label:  lipgloss.NewStyle().Foreground(p.TextSecondary),
		in:     bold.Foreground(p.Success),
		out:    bold.Foreground(p.Warning),
		worse:  bold.Foreground(p.Error),
		better: bold.Foreground(p.Success),
		flat:   lipgloss.NewStyle().Foreground(p.TextMuted),
	}
}

// NewSessionHeader starts an unlabeled header.
func NewSessionHeader() *SessionHeader {
	return &SessionHeader{
		label: "untitled",
		theme: newHeaderTheme(style.DefaultPalette()),
	}
}

// SetSession updates the loaded position shown in the header.
func (sh *SessionHeader) SetSession(label string, liquidity, lower, upper float64) {
	if label == "" {
		label = "untitled"
	}
	if len(label) > 24 {
		label = label[:24] + "…"
	}
	sh.label = label
	sh.liquidity = liquidity
	sh.lower = lower
	sh.upper = upper
}

// SetEval updates the evaluated price and its loss.
func (sh *SessionHeader) SetEval(price, loss float64) {
	sh.evalPrice = price
	sh.loss = loss
}

// SetWidth resizes the frame to the terminal.
func (sh *SessionHeader) SetWidth(width int) {
	sh.width = width
	sh.theme.frame = sh.theme.frame.Width(width - 4)
}

// View draws the banner segments separated by pipes.
func (sh *SessionHeader) View() string {
	parts := []string{
		sh.theme.title.Render("IL Calculator"),
		sh.theme.label.Render(sh.label),
		sh.theme.label.Render(fmt.Sprintf("L %.4g in [%.4g, %.4g]", sh.liquidity, sh.lower, sh.upper)),
		sh.bandStatus(),
		sh.lossStatus(),
	}
	return sh.theme.frame.Render(strings.Join(parts, " | "))
}

// bandStatus reports where the evaluated price sits.
func (sh *SessionHeader) bandStatus() string {
	switch {
	case sh.evalPrice < sh.lower:
		return sh.theme.out.Render(fmt.Sprintf("🟡 %.4g below band", sh.evalPrice))
	case sh.evalPrice > sh.upper:
		return sh.theme.out.Render(fmt.Sprintf("🟡 %.4g above band", sh.evalPrice))
	default:
		return sh.theme.in.Render(fmt.Sprintf("🟢 %.4g in band", sh.evalPrice))
	}
}

// lossStatus renders the loss with a direction marker.
func (sh *SessionHeader) lossStatus() string {
	switch {
	case sh.loss > 1e-4:
		return sh.theme.worse.Render(fmt.Sprintf("IL %.2f%% ▼", sh.loss*100))
	case sh.loss < -1e-4:
		return sh.theme.better.Render(fmt.Sprintf("IL %.2f%% ▲", sh.loss*100))
	default:
		return sh.theme.flat.Render("IL 0.00%")
	}
}

// GetHeight is the rendered height the layout reserves.
func (sh *SessionHeader) GetHeight() int {
	return 3
}
