package screen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
	"github.com/lars-fritz/InteractiveILcalculator/internal/sqrtprice"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/component"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/router"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/state"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// SetupStep identifies one page of the wizard.
type SetupStep int

const (
	StepDeposit SetupStep = iota
	StepBand
	StepPreview
)

// wizardTheme collects the setup wizard styles, including the three
// states a step marker can be in.
type wizardTheme struct {
	title lipgloss.Style
	step  lipgloss.Style
	fail  lipgloss.Style
	frame lipgloss.Style
	body  lipgloss.Style
	now   lipgloss.Style
	done  lipgloss.Style
	todo  lipgloss.Style
}

func newWizardTheme(p style.Palette) wizardTheme {
	return wizardTheme{
		title: lipgloss.NewStyle().Bold(true).Foreground(p.Primary).Align(lipgloss.Center).Margin(1, 0),
		step:  lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(p.Secondary),
		fail:  lipgloss.NewStyle().Padding(0, 2).Bold(true).Foreground(p.Error),
		frame: lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Primary).Margin(1, 0).Padding(2, 4),
		body:  lipgloss.NewStyle().Padding(1, 2).Foreground(p.Text),
		now:   lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(p.Background).Background(p.Primary),
		done:  lipgloss.NewStyle().Bold(true).Foreground(p.Success),
		todo:  lipgloss.NewStyle().Foreground(p.TextMuted),
	}
}

// SetupWizard walks the user from an empty deposit to an open position.
type SetupWizard struct {
	width  int
	height int
	keyMap ui.KeyMap
	deps   Deps
	theme  wizardTheme

	help        *component.HelpBar
	depositForm *component.Form
	bandForm    *component.Form
	preview     *component.Table

	step   SetupStep
	errors []string
}

// NewSetupWizard builds the wizard with both forms seeded from config
// defaults.
func NewSetupWizard(deps Deps) *SetupWizard {
	keys := ui.DefaultKeyMap()

	wiz := &SetupWizard{
		keyMap:      keys,
		deps:        deps,
		theme:       newWizardTheme(style.DefaultPalette()),
		depositForm: newDepositForm(deps.Cfg),
		bandForm:    newBandForm(deps.Cfg),
		step:        StepDeposit,
	}

	wiz.preview = component.NewTable().
		AddColumn("Field", 16, lipgloss.Left).
		AddColumn("Value", 44, lipgloss.Left).
		SetShowBorder(true).SetSelectable(false)

	wiz.help = component.NewHelpBar().
		SetKeyBindings(keys.HelpFor(ui.RouteSetup)).
		SetCompact(false)

	return wiz
}

func newDepositForm(cfg *config.Config) *component.Form {
	return component.NewForm().
		SetTitle("Deposit").
		AddField("label", component.FieldText, "Position Label", false, "Optional name for this position").
		AddField("asset", component.FieldSelect, "Deposit Asset", true, "Token that funds the position").
		AddField("amount", component.FieldNumber, "Deposit Amount", true, "Token amount to deposit").
		SetOptions("asset", []string{string(position.AssetY), string(position.AssetX)}).
		SetValue("amount", formatNumber(cfg.DefaultAmount)).
		SetValidation("amount", positiveNumber)
}

func newBandForm(cfg *config.Config) *component.Form {
	return component.NewForm().
		SetTitle("Price Band").
		AddField("price", component.FieldNumber, "Current Price", true, "Price of X in Y, or tick:<index>, or x96:<sqrt price>").
		AddField("lower", component.FieldNumber, "Lower Bound", true, "Price where the position becomes all X").
		AddField("upper", component.FieldNumber, "Upper Bound", true, "Price where the position becomes all Y").
		SetValue("price", formatNumber(cfg.DefaultPrice)).
		SetValue("lower", formatNumber(cfg.DefaultLower)).
		SetValue("upper", formatNumber(cfg.DefaultUpper)).
		SetValidation("price", priceInput).
		SetValidation("lower", positiveNumber).
		SetValidation("upper", positiveNumber)
}

// Init focuses the first form.
func (wiz *SetupWizard) Init() tea.Cmd {
	return wiz.currentForm().Init()
}

// Update drives the wizard state machine.
func (wiz *SetupWizard) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return wiz.handleKey(msg)

	case ui.ErrorMsg:
		wiz.errors = append(wiz.errors, msg.String())
	}

	return wiz, nil
}

func (wiz *SetupWizard) handleKey(msg tea.KeyMsg) (router.Screen, tea.Cmd) {
	switch {
	// Plain q has to reach the text inputs, so only ctrl+c quits here.
	case msg.Type == tea.KeyCtrlC:
		return wiz, tea.Quit

	case key.Matches(msg, wiz.keyMap.Back):
		if wiz.step == StepDeposit {
			ui.Back()
		} else {
			wiz.retreat()
		}

	case key.Matches(msg, wiz.keyMap.Enter):
		if wiz.step == StepPreview {
			wiz.openPosition()
		} else if wiz.stepValid() {
			wiz.advance()
		}

	default:
		if wiz.step < StepPreview {
			_, cmd := wiz.currentForm().Update(msg)
			return wiz, cmd
		}
	}

	return wiz, nil
}

// View stacks title, step trail, errors and the framed step body.
func (wiz *SetupWizard) View() string {
	if wiz.width == 0 || wiz.height == 0 {
		return ""
	}

	title := fmt.Sprintf("✏ New Position - Step %d/3", int(wiz.step)+1)

	sections := []string{
		wiz.theme.title.Width(wiz.width).Render(title),
		"",
		wiz.stepTrail(),
		"",
	}

	for _, e := range wiz.errors {
		sections = append(sections, wiz.theme.fail.Render("❌ "+e))
	}
	if len(wiz.errors) > 0 {
		sections = append(sections, "")
	}

	sections = append(sections,
		wiz.theme.frame.Render(wiz.renderStep()),
		wiz.help.SetWidth(wiz.width).View(),
	)

	return strings.Join(sections, "\n")
}

// Resize records the terminal dimensions and resizes forms and table.
func (wiz *SetupWizard) Resize(width, height int) {
	wiz.width = width
	wiz.height = height
	wiz.help.SetWidth(width)

	inner := width - 8 // inside the frame padding
	wiz.depositForm.SetWidth(inner)
	wiz.bandForm.SetWidth(inner)
	wiz.preview.SetSize(inner, height-10)
}

// currentForm returns the form for the current step
func (wiz *SetupWizard) currentForm() *component.Form {
	if wiz.step == StepBand {
		return wiz.bandForm
	}
	return wiz.depositForm
}

// stepTrail renders the wizard progress line.
func (wiz *SetupWizard) stepTrail() string {
	names := []string{"Deposit", "Band", "Preview"}
	marks := make([]string, len(names))

	for i, name := range names {
		switch {
		case i == int(wiz.step):
			marks[i] = wiz.theme.now.Render(fmt.Sprintf("%d. %s", i+1, name))
		case i < int(wiz.step):
			marks[i] = wiz.theme.done.Render("✓ " + name)
		default:
			marks[i] = wiz.theme.todo.Render(fmt.Sprintf("%d. %s", i+1, name))
		}
	}

	return strings.Join(marks, " → ")
}

func (wiz *SetupWizard) renderStep() string {
	if wiz.step == StepPreview {
		return wiz.renderPreview()
	}
	return wiz.currentForm().View()
}

// renderPreview opens the position on paper and shows what it would
// hold.
func (wiz *SetupWizard) renderPreview() string {
	label, f, price, r, err := wiz.parseForms()
	if err != nil {
		return wiz.theme.fail.Render("❌ " + err.Error())
	}

	pos, err := position.Open(f, price, r)
	if err != nil {
		return wiz.theme.fail.Render("❌ " + err.Error())
	}

	comp, err := pos.CompositionAt(price)
	if err != nil {
		return wiz.theme.fail.Render("❌ " + err.Error())
	}

	if label == "" {
		label = "untitled"
	}

	wiz.preview.SetRows([][]string{
		{"Label", label},
		{"Deposit", fmt.Sprintf("%.6g %s", f.Amount, f.Asset)},
		{"Current Price", fmt.Sprintf("%.6g", price)},
		{"Band", fmt.Sprintf("[%.6g, %.6g]", r.Lower, r.Upper)},
		{"Liquidity", formatSI(pos.Liquidity)},
		{"Holds X", fmt.Sprintf("%.6g", comp.X)},
		{"Holds Y", fmt.Sprintf("%.6g", comp.Y)},
		{"Value (in X)", fmt.Sprintf("%.6g", comp.Value(price))},
	})

	return strings.Join([]string{
		wiz.theme.step.Render("📋 Position Preview"),
		"",
		"Please review the position below:",
		"",
		wiz.preview.View(),
		"",
		wiz.theme.body.Render("Press Enter to open this position, or Esc to go back."),
	}, "\n")
}

// stepValid runs the form validators plus, on the band step, the
// cross-field checks that need both forms.
func (wiz *SetupWizard) stepValid() bool {
	wiz.errors = nil

	if !wiz.currentForm().Validate() {
		wiz.errors = append(wiz.errors, "Fill in the highlighted fields first.")
		return false
	}

	if wiz.step == StepBand {
		_, f, price, r, err := wiz.parseForms()
		if err != nil {
			wiz.errors = append(wiz.errors, err.Error())
			return false
		}
		if _, err := position.Liquidity(f, price, r); err != nil {
			wiz.errors = append(wiz.errors, err.Error())
			return false
		}
	}

	return true
}

// parseForms assembles position parameters from both forms.
func (wiz *SetupWizard) parseForms() (label string, f position.Funding, price float64, r position.Range, err error) {
	label = strings.TrimSpace(wiz.depositForm.Value("label"))

	asset, err := position.ParseAsset(wiz.depositForm.Value("asset"))
	if err != nil {
		return "", position.Funding{}, 0, position.Range{}, err
	}

	amount, err := strconv.ParseFloat(wiz.depositForm.Value("amount"), 64)
	if err != nil {
		return "", position.Funding{}, 0, position.Range{}, fmt.Errorf("deposit amount is not a number")
	}

	price, err = sqrtprice.ParsePrice(wiz.bandForm.Value("price"))
	if err != nil {
		return "", position.Funding{}, 0, position.Range{}, err
	}
	if price <= 0 {
		return "", position.Funding{}, 0, position.Range{}, fmt.Errorf("price must be greater than zero, got %g", price)
	}

	lower, err := strconv.ParseFloat(wiz.bandForm.Value("lower"), 64)
	if err != nil {
		return "", position.Funding{}, 0, position.Range{}, fmt.Errorf("lower bound is not a number")
	}

	upper, err := strconv.ParseFloat(wiz.bandForm.Value("upper"), 64)
	if err != nil {
		return "", position.Funding{}, 0, position.Range{}, fmt.Errorf("upper bound is not a number")
	}

	r, err = position.NewRange(lower, upper)
	if err != nil {
		return "", position.Funding{}, 0, position.Range{}, err
	}

	return label, position.Funding{Asset: asset, Amount: amount}, price, r, nil
}

// openPosition funds the position and hands the session to analysis.
func (wiz *SetupWizard) openPosition() {
	wiz.errors = nil

	label, f, price, r, err := wiz.parseForms()
	if err != nil {
		wiz.errors = append(wiz.errors, err.Error())
		return
	}

	pos, err := position.Open(f, price, r)
	if err != nil {
		wiz.errors = append(wiz.errors, fmt.Sprintf("Error opening position: %v", err))
		return
	}

	wiz.deps.Cache.SetSession(state.Session{
		Label:        label,
		Funding:      f,
		InitialPrice: price,
		Target:       price,
		Position:     pos,
	})

	ui.Publish(ui.PositionOpenedMsg{Label: label, Liquidity: pos.Liquidity})
	ui.Navigate(ui.RouteAnalysis)
}

func (wiz *SetupWizard) advance() {
	if wiz.step < StepPreview {
		wiz.step++
	}
}

func (wiz *SetupWizard) retreat() {
	if wiz.step > StepDeposit {
		wiz.step--
		wiz.errors = nil
	}
}

// positiveNumber rejects values that do not parse to a number above zero.
func positiveNumber(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if f <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

// priceInput additionally accepts the pool encodings ParsePrice knows.
func priceInput(v string) error {
	p, err := sqrtprice.ParsePrice(v)
	if err != nil {
		return fmt.Errorf("must be a price, tick:<index> or x96:<sqrt price>")
	}
	if p <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

// formatNumber renders a config default for a form field.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// formatSI renders a large number with an SI suffix, 5189.4 -> "5.1894 k".
func formatSI(v float64) string {
	number, suffix := humanize.ComputeSI(v)
	return strings.TrimSpace(humanize.Ftoa(number) + " " + suffix)
}
