package component

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// CurveChart plots a value series over a price axis with spark blocks.
// Columns whose price falls inside the liquidity band render in the
// band color, and a cursor marks the price currently under evaluation.
type CurveChart struct {
	prices []float64
	values []float64
	width  int

	bandLower float64
	bandUpper float64
	cursor    float64
	hasBand   bool
	hasCursor bool
}

// NewCurveChart creates a chart of the given width.
func NewCurveChart(width int) *CurveChart {
	return &CurveChart{width: width}
}

// SetSeries sets the sampled curve. Both slices must have equal length
// and prices must be ascending; extra points are resampled to fit.
func (c *CurveChart) SetSeries(prices, values []float64) *CurveChart {
	n := min(len(prices), len(values))
	c.prices = make([]float64, n)
	c.values = make([]float64, n)
	copy(c.prices, prices[:n])
	copy(c.values, values[:n])
	return c
}

// SetBand highlights the price interval the position is active in.
func (c *CurveChart) SetBand(lower, upper float64) *CurveChart {
	c.bandLower = lower
	c.bandUpper = upper
	c.hasBand = lower < upper
	return c
}

// SetCursor marks a price on the axis.
func (c *CurveChart) SetCursor(price float64) *CurveChart {
	c.cursor = price
	c.hasCursor = price > 0
	return c
}

// SetWidth sets the chart width
func (c *CurveChart) SetWidth(width int) *CurveChart {
	c.width = width
	return c
}

// Clear removes the series.
func (c *CurveChart) Clear() *CurveChart {
	c.prices = nil
	c.values = nil
	return c
}

// View renders the spark row, the price axis and its labels.
func (c *CurveChart) View() string {
	if c.width <= 0 {
		return ""
	}
	if len(c.values) == 0 {
		return lipgloss.NewStyle().
			Foreground(style.DefaultPalette().TextMuted).
			Render(strings.Repeat("▁", c.width))
	}

	cols := c.resample()
	lo, hi := minMax(cols.values)

	var spark strings.Builder
	palette := style.DefaultPalette()
	sparkChars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	for i, v := range cols.values {
		var ch rune
		if hi == lo {
			ch = '▄'
		} else {
			normalized := (v - lo) / (hi - lo)
			index := int(normalized * float64(len(sparkChars)-1))
			if index < 0 {
				index = 0
			} else if index >= len(sparkChars) {
				index = len(sparkChars) - 1
			}
			ch = sparkChars[index]
		}

		color := palette.TextSecondary
		if c.hasBand && cols.prices[i] >= c.bandLower && cols.prices[i] <= c.bandUpper {
			color = palette.Band
		}
		if i == cols.cursorCol {
			color = palette.Primary
		}
		spark.WriteString(lipgloss.NewStyle().Foreground(color).Render(string(ch)))
	}

	axis := c.renderAxis(cols)
	labels := c.renderLabels()

	return spark.String() + "\n" + axis + "\n" + labels
}

// resampled carries one chart column per terminal cell.
type resampled struct {
	prices    []float64
	values    []float64
	cursorCol int
}

// resample maps the series onto chart columns by nearest index.
func (c *CurveChart) resample() resampled {
	n := len(c.values)
	out := resampled{
		prices:    make([]float64, c.width),
		values:    make([]float64, c.width),
		cursorCol: -1,
	}

	for col := 0; col < c.width; col++ {
		idx := 0
		if c.width > 1 {
			idx = int(math.Round(float64(col) * float64(n-1) / float64(c.width-1)))
		}
		out.prices[col] = c.prices[idx]
		out.values[col] = c.values[idx]
	}

	if c.hasCursor {
		best := math.Inf(1)
		for col, p := range out.prices {
			if d := math.Abs(p - c.cursor); d < best {
				best = d
				out.cursorCol = col
			}
		}
	}

	return out
}

// renderAxis draws the price axis with band edges and cursor tick.
func (c *CurveChart) renderAxis(cols resampled) string {
	palette := style.DefaultPalette()
	axis := make([]rune, c.width)
	for i := range axis {
		axis[i] = '─'
	}

	if c.hasBand {
		if col := nearestColumn(cols.prices, c.bandLower); col >= 0 {
			axis[col] = '┴'
		}
		if col := nearestColumn(cols.prices, c.bandUpper); col >= 0 {
			axis[col] = '┴'
		}
	}
	if cols.cursorCol >= 0 {
		axis[cols.cursorCol] = '┃'
	}

	var b strings.Builder
	for i, ch := range axis {
		switch {
		case i == cols.cursorCol:
			b.WriteString(lipgloss.NewStyle().Foreground(palette.Primary).Bold(true).Render(string(ch)))
		case ch == '┴':
			b.WriteString(lipgloss.NewStyle().Foreground(palette.Band).Render(string(ch)))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(palette.TextMuted).Render(string(ch)))
		}
	}
	return b.String()
}

// renderLabels puts the axis extremes under the chart.
func (c *CurveChart) renderLabels() string {
	left := fmt.Sprintf("%.4g", c.prices[0])
	right := fmt.Sprintf("%.4g", c.prices[len(c.prices)-1])

	gap := c.width - len(left) - len(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Foreground(style.DefaultPalette().TextMuted).
		Render(left + strings.Repeat(" ", gap) + right)
}

// nearestColumn finds the column whose price is closest to target.
func nearestColumn(prices []float64, target float64) int {
	best := -1
	bestDist := math.Inf(1)
	for col, p := range prices {
		if d := math.Abs(p - target); d < bestDist {
			bestDist = d
			best = col
		}
	}
	return best
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
