package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// LossGauge visualizes a divergence-loss fraction as a filled bar. The
// loss is relative to holding the entry split, so zero means the
// position keeps pace with the hold and the bar saturates at maxScale.
type LossGauge struct {
	loss     float64 // Fraction, not percent
	width    int
	maxScale float64

	// Thresholds for color coding, as fractions
	mildThreshold  float64
	heavyThreshold float64
}

// NewLossGauge creates a gauge of the given width.
func NewLossGauge(width int) *LossGauge {
	return &LossGauge{
		width:          width,
		maxScale:       0.25,
		mildThreshold:  0.02,
		heavyThreshold: 0.10,
	}
}

// SetLoss sets the loss fraction to display.
func (g *LossGauge) SetLoss(loss float64) *LossGauge {
	g.loss = loss
	return g
}

// SetWidth resizes the bar.
func (g *LossGauge) SetWidth(width int) *LossGauge {
	g.width = width
	return g
}

// SetMaxScale sets the loss fraction at which the bar reads full.
func (g *LossGauge) SetMaxScale(maxScale float64) *LossGauge {
	if maxScale > 0 {
		g.maxScale = maxScale
	}
	return g
}

// View renders the gauge bar followed by the loss percentage.
func (g *LossGauge) View() string {
	c := g.color()
	bar := lipgloss.NewStyle().Foreground(c).Render(g.bar())
	label := lipgloss.NewStyle().Foreground(c).Bold(true).Render(fmt.Sprintf("%.2f%% %s", g.loss*100, g.marker()))
	return bar + " " + label
}

// ViewCompact renders just the percentage with its marker.
func (g *LossGauge) ViewCompact() string {
	text := fmt.Sprintf("%.2f%% %s", g.loss*100, g.marker())
	return lipgloss.NewStyle().Foreground(g.color()).Bold(true).Render(text)
}

// Status describes the current loss in words.
func (g *LossGauge) Status() string {
	switch {
	case g.loss < -1e-4:
		return "Ahead of hold"
	case g.loss < 1e-4:
		return "Break even"
	case g.loss < g.mildThreshold:
		return "Mild divergence"
	case g.loss < g.heavyThreshold:
		return "Divergence loss"
	default:
		return "Heavy divergence"
	}
}

// bar builds the filled portion of the gauge. Cell intensity tracks
// how deep into the scale the loss sits.
func (g *LossGauge) bar() string {
	if g.width <= 0 {
		return ""
	}

	cells := []rune("▁▂▃▄▅▆▇█")
	frac := math.Min(math.Abs(g.loss)/g.maxScale, 1.0)
	level := cells[min(int(frac*float64(len(cells)-1)), len(cells)-1)]

	filled := int(frac * float64(g.width))
	if filled < 1 && math.Abs(g.loss) > 1e-9 {
		filled = 1
	}

	var b strings.Builder
	for i := range g.width {
		if i < filled {
			b.WriteRune(level)
		} else {
			b.WriteRune(cells[0])
		}
	}

	return b.String()
}

func (g *LossGauge) marker() string {
	switch {
	case g.loss > 1e-4:
		return "▼"
	case g.loss < -1e-4:
		return "▲"
	default:
		return "•"
	}
}

func (g *LossGauge) color() lipgloss.TerminalColor {
	p := style.DefaultPalette()
	switch {
	case g.loss < -1e-4:
		return p.Success
	case g.loss < 1e-4:
		return p.TextMuted
	case g.loss < g.heavyThreshold:
		return p.Warning
	default:
		return p.Error
	}
}
