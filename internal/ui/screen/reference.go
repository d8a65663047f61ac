package screen

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
	"github.com/lars-fritz/InteractiveILcalculator/internal/sqrtprice"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/component"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/router"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// conversion is one resolved price with its pool encodings.
type conversion struct {
	price float64
	tick  int
	x96   string
}

// refTheme groups the styles of the reference screen.
type refTheme struct {
	title   lipgloss.Style
	heading lipgloss.Style
	body    lipgloss.Style
	fail    lipgloss.Style
	panel   lipgloss.Style
}

func newRefTheme(p style.Palette) refTheme {
	bold := lipgloss.NewStyle().Bold(true)
	return refTheme{
		title:   bold.Foreground(p.Primary).Align(lipgloss.Center).Margin(1, 0),
		heading: bold.Foreground(p.Secondary),
		body:    lipgloss.NewStyle().Foreground(p.Text),
		fail:    bold.Foreground(p.Error),
		panel:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.BackgroundAlt).Padding(1, 2).Margin(0, 0, 1, 0),
	}
}

// ReferenceScreen shows the range math formulas, a worked example and
// a price encoding converter.
type ReferenceScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	deps   Deps
	theme  refTheme

	help     *component.HelpBar
	convForm *component.Form

	conv    *conversion
	convErr error
	example string
}

// NewReferenceScreen builds the formula sheet and its converter form.
func NewReferenceScreen(deps Deps) *ReferenceScreen {
	keys := ui.DefaultKeyMap()

	r := &ReferenceScreen{
		keyMap: keys,
		deps:   deps,
		theme:  newRefTheme(style.DefaultPalette()),
	}

	r.convForm = component.NewForm().
		SetTitle("Price Converter").
		AddField("input", component.FieldText, "Price", true, "1.25, tick:2231 or x96:0x...")

	r.help = component.NewHelpBar().
		SetKeyBindings(keys.HelpFor(ui.RouteReference)).
		SetCompact(true)

	r.example = r.buildExample()

	return r
}

// Init focuses the converter input.
func (r *ReferenceScreen) Init() tea.Cmd {
	return r.convForm.Init()
}

// Update feeds the converter form and resolves Enter into a
// conversion.
func (r *ReferenceScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		// The converter input owns plain letters, so only ctrl+c quits.
		case msg.Type == tea.KeyCtrlC:
			return r, tea.Quit

		case key.Matches(msg, r.keyMap.Back):
			ui.Back()
			return r, nil

		case key.Matches(msg, r.keyMap.Enter):
			r.convert()
			return r, nil
		}

		updated, cmd := r.convForm.Update(msg)
		r.convForm = updated
		return r, cmd
	}

	return r, nil
}

// convert resolves the form input into all three encodings.
func (r *ReferenceScreen) convert() {
	r.conv = nil

	raw := strings.TrimSpace(r.convForm.Value("input"))
	if raw == "" {
		r.convErr = nil
		return
	}

	price, err := sqrtprice.ParsePrice(raw)
	if err != nil {
		r.convErr = err
		return
	}
	tick, err := sqrtprice.TickForPrice(price)
	if err != nil {
		r.convErr = err
		return
	}
	x96, err := sqrtprice.SqrtX96FromPrice(price)
	if err != nil {
		r.convErr = err
		return
	}

	r.conv = &conversion{price: price, tick: tick, x96: x96.Dec()}
	r.convErr = nil
}

// buildExample computes the worked example shown under the formulas.
func (r *ReferenceScreen) buildExample() string {
	f := position.Funding{Asset: position.AssetY, Amount: 1000}
	band := position.Range{Lower: 0.8, Upper: 1.2}
	const entry, crash = 1.0, 0.7

	pos, err := position.Open(f, entry, band)
	if err != nil {
		return err.Error()
	}
	comp, err := pos.CompositionAt(entry)
	if err != nil {
		return err.Error()
	}
	v, err := pos.Evaluate(entry, crash)
	if err != nil {
		return err.Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Deposit %.0f y at price %.1f into [%.1f, %.1f]:\n", f.Amount, entry, band.Lower, band.Upper)
	fmt.Fprintf(&b, "  L = %.4f, holding x = %.4f and y = %.4f\n", pos.Liquidity, comp.X, comp.Y)
	fmt.Fprintf(&b, "Price drops to %.1f (below the band, all x now):\n", crash)
	fmt.Fprintf(&b, "  LP value %.3f vs hold %.3f, a %.2f%% divergence loss", v.LP, v.Hold, v.Loss*100)
	return b.String()
}

// View puts the formula panel and the converter side by side.
func (r *ReferenceScreen) View() string {
	if r.width == 0 || r.height == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(r.theme.title.Width(r.width).Render("ℹ Quick Reference"))
	b.WriteString("\n\n")

	b.WriteString(style.AdaptiveJoinHorizontal(r.width,
		r.theme.panel.Render(r.renderFormulas()),
		r.theme.panel.Render(r.renderConverter())))
	b.WriteString("\n")

	b.WriteString(r.help.SetWidth(r.width).View())

	return b.String()
}

// renderFormulas shows the band math and the worked example.
func (r *ReferenceScreen) renderFormulas() string {
	var b strings.Builder

	b.WriteString(r.theme.heading.Render("Range math"))
	b.WriteString("\n")
	b.WriteString(r.theme.body.Render(strings.Join([]string{
		"Inside the band [pl, pu] liquidity L holds",
		"  x(p) = L * (1/√p - 1/√pu)",
		"  y(p) = L * (√p - √pl)",
		"Below pl the position is all x, above pu all y.",
		"Everything is valued in x units: V(p) = x + y/p.",
		"Divergence loss compares the position against holding",
		"the entry split: IL = (V_hold - V_lp) / V_hold.",
	}, "\n")))
	b.WriteString("\n\n")

	b.WriteString(r.theme.heading.Render("Worked example"))
	b.WriteString("\n")
	b.WriteString(r.theme.body.Render(r.example))

	return b.String()
}

// renderConverter shows the converter form and its last result.
func (r *ReferenceScreen) renderConverter() string {
	var b strings.Builder

	b.WriteString(r.convForm.View())
	b.WriteString("\n")

	switch {
	case r.convErr != nil:
		b.WriteString(r.theme.fail.Render("❌ " + r.convErr.Error()))
	case r.conv != nil:
		b.WriteString(r.theme.body.Render(strings.Join([]string{
			fmt.Sprintf("Price:    %.10g", r.conv.price),
			fmt.Sprintf("Tick:     %d", r.conv.tick),
			fmt.Sprintf("SqrtX96:  %s", r.conv.x96),
		}, "\n")))
	default:
		b.WriteString(r.theme.body.Render("Press Enter to convert."))
	}

	return b.String()
}

// Resize records the dimensions and resizes the converter input.
func (r *ReferenceScreen) Resize(width, height int) {
	r.width = width
	r.height = height
	r.help.SetWidth(width)

	// The converter sits next to the formulas on wide terminals.
	inner := style.AdaptiveWidth(width, 40) - 8
	if inner < 20 {
		inner = 20
	}
	r.convForm.SetWidth(inner)
}
