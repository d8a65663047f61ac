package screen

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/lars-fritz/InteractiveILcalculator/internal/export"
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
	"github.com/lars-fritz/InteractiveILcalculator/internal/publish"
	"github.com/lars-fritz/InteractiveILcalculator/internal/scenario"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/component"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/router"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/state"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/style"
)

// Price walk step sizes. Coarse steps move the evaluation price by a
// percent, fine steps by a tenth of one.
const (
	coarseStep = 1.01
	fineStep   = 1.001
)

// curveLoadedMsg delivers the precomputed loss curve.
type curveLoadedMsg struct {
	points []position.CurvePoint
	err    error
}

// chartTheme collects the styles of the analysis screen.
type chartTheme struct {
	title  lipgloss.Style
	status lipgloss.Style
	fail   lipgloss.Style
	panel  lipgloss.Style
	hint   lipgloss.Style
}

func newChartTheme(p style.Palette) chartTheme {
	bold := lipgloss.NewStyle().Bold(true)
	return chartTheme{
		title:  bold.Foreground(p.Primary).Margin(1, 0).Align(lipgloss.Center),
		status: lipgloss.NewStyle().Foreground(p.Success).Padding(0, 2),
		fail:   bold.Foreground(p.Error).Padding(0, 2),
		panel:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.BackgroundAlt).Padding(1, 2).Margin(0, 0, 1, 0),
		hint:   lipgloss.NewStyle().Foreground(p.TextMuted).Padding(1, 2),
	}
}

// AnalysisScreen walks the evaluation price across the loss curve of
// the active session.
type AnalysisScreen struct {
	width  int
	height int
	keyMap ui.KeyMap
	deps   Deps
	theme  chartTheme

	header     *component.SessionHeader
	chart      *component.CurveChart
	gauge      *component.LossGauge
	valueTable *component.Table
	saveForm   *component.Form
	help       *component.HelpBar

	session    state.Session
	hasSession bool
	evalPrice  float64
	valuation  position.Valuation
	curve      []position.CurvePoint
	curveReady bool
	saving     bool
	status     string
	errors     []string
}

// NewAnalysisScreen builds the price-walk view over the cached session.
func NewAnalysisScreen(deps Deps) *AnalysisScreen {
	keys := ui.DefaultKeyMap()

	a := &AnalysisScreen{
		keyMap: keys,
		deps:   deps,
		theme:  newChartTheme(style.DefaultPalette()),

		header: component.NewSessionHeader(),
		chart:  component.NewCurveChart(60),
		gauge:  component.NewLossGauge(40),
	}

	a.valueTable = component.NewTable().
		AddColumn("Field", 16, lipgloss.Left).
		AddColumn("Value", 24, lipgloss.Right).
		SetShowBorder(false).SetShowHeaders(false).SetSelectable(false)

	a.saveForm = component.NewForm().
		SetTitle("Save Scenario").
		AddField("name", component.FieldText, "Scenario Name", true, "Name used in the scenario book")

	a.help = component.NewHelpBar().
		SetKeyBindings(keys.HelpFor(ui.RouteAnalysis)).
		SetCompact(true)

	if sess, ok := deps.Cache.Session(); ok {
		a.session = sess
		a.hasSession = true
		a.evalPrice = sess.InitialPrice
		if sess.Target > 0 {
			a.evalPrice = sess.Target
		}
		a.refreshValuation()
	}

	return a
}

// Init kicks off the background curve sweep.
func (a *AnalysisScreen) Init() tea.Cmd {
	if !a.hasSession {
		return nil
	}
	return a.loadCurveCmd()
}

// loadCurveCmd sweeps the loss curve across the configured span.
func (a *AnalysisScreen) loadCurveCmd() tea.Cmd {
	sess := a.session
	cfg := a.deps.Cfg
	return func() tea.Msg {
		prices := position.SpanGrid(sess.InitialPrice, cfg.CurveSpan, cfg.CurveSamples)
		points, err := position.CurveParallel(context.Background(), cfg.SweepWorkers,
			sess.Position.Liquidity, sess.Position.Range, sess.InitialPrice, prices)
		return curveLoadedMsg{points: points, err: err}
	}
}

// Update reacts to keys, curve results and bus notifications.
func (a *AnalysisScreen) Update(msg tea.Msg) (router.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if a.saving {
			return a, a.updateSaveForm(msg)
		}
		return a, a.handleKey(msg)

	case curveLoadedMsg:
		if msg.err != nil {
			a.errors = append(a.errors, fmt.Sprintf("Curve computation failed: %v", msg.err))
			return a, nil
		}
		a.curve = msg.points
		a.curveReady = true
		a.refreshChart()

	case ui.StatusMsg:
		a.status = msg.Message

	case ui.ErrorMsg:
		a.errors = append(a.errors, msg.String())
	}

	return a, nil
}

// handleKey processes key input outside the save overlay.
func (a *AnalysisScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keyMap.Quit):
		return tea.Quit

	case key.Matches(msg, a.keyMap.Back):
		ui.Back()

	case key.Matches(msg, a.keyMap.NewPosition):
		ui.Navigate(ui.RouteSetup)
	}

	if !a.hasSession {
		return nil
	}

	switch {
	case key.Matches(msg, a.keyMap.PriceDown):
		a.walkPrice(1 / coarseStep)

	case key.Matches(msg, a.keyMap.PriceUp):
		a.walkPrice(coarseStep)

	case key.Matches(msg, a.keyMap.FineDown):
		a.walkPrice(1 / fineStep)

	case key.Matches(msg, a.keyMap.FineUp):
		a.walkPrice(fineStep)

	case key.Matches(msg, a.keyMap.ResetPrice):
		target := a.session.InitialPrice
		if a.session.Target > 0 {
			target = a.session.Target
		}
		a.evalPrice = target
		a.refreshValuation()
		a.refreshChart()

	case key.Matches(msg, a.keyMap.Export):
		return a.exportCmd()

	case key.Matches(msg, a.keyMap.PublishCurve):
		a.publishCurve()

	case key.Matches(msg, a.keyMap.SaveScenario):
		a.openSaveForm()
		return a.saveForm.Init()

	case key.Matches(msg, a.keyMap.Discard):
		a.discardPosition()
	}

	return nil
}

// discardPosition invalidates the session and returns to the menu.
func (a *AnalysisScreen) discardPosition() {
	label := a.session.Label
	a.deps.Cache.Clear()
	a.hasSession = false
	ui.Publish(ui.PositionClosedMsg{Label: label})
	ui.Navigate(ui.RouteMenu)
}

// walkPrice scales the evaluation price and refreshes the readouts.
func (a *AnalysisScreen) walkPrice(factor float64) {
	a.evalPrice *= factor
	a.refreshValuation()
	a.refreshChart()
}

// refreshValuation recomputes LP and hold values at the current price.
func (a *AnalysisScreen) refreshValuation() {
	v, err := a.session.Position.Evaluate(a.session.InitialPrice, a.evalPrice)
	if err != nil {
		a.errors = append(a.errors, err.Error())
		return
	}
	a.valuation = v
}

// refreshChart pushes curve data and cursor into the chart component.
func (a *AnalysisScreen) refreshChart() {
	if !a.curveReady {
		return
	}
	prices := make([]float64, len(a.curve))
	losses := make([]float64, len(a.curve))
	for i, cp := range a.curve {
		prices[i] = cp.Price
		losses[i] = cp.Loss
	}
	a.chart.SetSeries(prices, losses).
		SetBand(a.session.Position.Range.Lower, a.session.Position.Range.Upper).
		SetCursor(a.evalPrice)
}

// exportCmd writes the curve to the export directory in the
// background. The result travels over the bus so it reaches whichever
// screen is active by then.
func (a *AnalysisScreen) exportCmd() tea.Cmd {
	if !a.curveReady {
		a.status = "Curve is still computing, try again in a moment"
		return nil
	}
	points := a.curve
	sess := a.session
	opts := export.Options{
		Format:    export.FormatCSV,
		Scenario:  sess.Label,
		OutputDir: a.deps.Cfg.ExportDir,
	}
	exporter := a.deps.Exporter
	return func() tea.Msg {
		path, err := exporter.ExportCurve(points, sess.Position, sess.InitialPrice, opts)
		if err != nil {
			ui.PublishError(err, "Export")
			return nil
		}
		ui.PublishStatus(fmt.Sprintf("Curve written to %s", path))
		return nil
	}
}

// publishCurve ships the curve to the configured metrics sink.
func (a *AnalysisScreen) publishCurve() {
	if a.deps.Publisher == nil {
		a.status = "Publishing is not configured"
		return
	}
	if !a.curveReady {
		a.status = "Curve is still computing, try again in a moment"
		return
	}

	meta := publish.Meta{
		RunID:    uuid.NewString(),
		Scenario: a.session.Label,
		Asset:    string(a.session.Funding.Asset),
		Amount:   a.session.Funding.Amount,
	}
	a.deps.Publisher.PublishCurve(meta, a.curve)
	a.status = fmt.Sprintf("Published %d curve points", len(a.curve))
}

// openSaveForm shows the scenario name overlay.
func (a *AnalysisScreen) openSaveForm() {
	a.saveForm.Reset()
	if a.session.Label != "" {
		a.saveForm.SetValue("name", a.session.Label)
	}
	a.saving = true
	a.status = ""
}

// updateSaveForm routes keys into the save overlay.
func (a *AnalysisScreen) updateSaveForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit

	case key.Matches(msg, a.keyMap.Back):
		a.saving = false
		return nil

	case key.Matches(msg, a.keyMap.Enter):
		if !a.saveForm.Validate() {
			return nil
		}
		a.saveScenario(strings.TrimSpace(a.saveForm.Value("name")))
		a.saving = false
		return nil
	}

	updated, cmd := a.saveForm.Update(msg)
	a.saveForm = updated
	return cmd
}

// saveScenario writes the session into the scenario book.
func (a *AnalysisScreen) saveScenario(name string) {
	sc := scenario.NewScenario(name, string(a.session.Funding.Asset),
		a.session.Funding.Amount, a.session.InitialPrice,
		a.session.Position.Range.Lower, a.session.Position.Range.Upper)
	sc.EvalPrice = a.evalPrice

	if _, err := a.deps.Scenarios.Add(a.deps.Cfg.ScenariosFile, sc); err != nil {
		a.errors = append(a.errors, fmt.Sprintf("Could not save scenario: %v", err))
		return
	}

	a.deps.Cache.SetLabel(name)
	a.session.Label = name
	ui.Publish(ui.ScenarioSavedMsg{Name: name})
	a.status = fmt.Sprintf("Scenario %q saved", name)
}

// View stacks header, panels, transient feedback and the help bar.
func (a *AnalysisScreen) View() string {
	if a.width == 0 || a.height == 0 {
		return ""
	}

	if !a.hasSession {
		return a.renderEmpty()
	}

	var b strings.Builder

	a.header.SetSession(a.session.Label, a.session.Position.Liquidity,
		a.session.Position.Range.Lower, a.session.Position.Range.Upper)
	a.header.SetEval(a.evalPrice, a.valuation.Loss)
	b.WriteString(a.header.View())
	b.WriteString("\n")

	if a.saving {
		b.WriteString(a.theme.panel.Render(a.saveForm.View()))
		b.WriteString("\n")
	} else {
		b.WriteString(a.renderCurvePanel())
		b.WriteString("\n")
		b.WriteString(a.renderValuationPanel())
		b.WriteString("\n")
	}

	for _, err := range a.errors {
		b.WriteString(a.theme.fail.Render("❌ " + err))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(a.theme.status.Render(a.status))
		b.WriteString("\n")
	}

	b.WriteString(a.help.SetWidth(a.width).View())

	return b.String()
}

// renderEmpty is shown when no position has been opened yet.
func (a *AnalysisScreen) renderEmpty() string {
	var b strings.Builder
	b.WriteString(a.theme.title.Width(a.width).Render("📊 Analysis"))
	b.WriteString("\n\n")
	b.WriteString(a.theme.hint.Render("No open position. Press n to set one up, or Esc to go back."))
	b.WriteString("\n\n")
	b.WriteString(a.help.SetWidth(a.width).View())
	return b.String()
}

// renderCurvePanel shows the loss curve with band markers and cursor.
func (a *AnalysisScreen) renderCurvePanel() string {
	var body string
	if a.curveReady {
		body = a.chart.View()
	} else {
		body = a.theme.hint.Render("Computing loss curve...")
	}
	return a.theme.panel.Render(body)
}

// renderValuationPanel shows the numbers at the evaluation price.
func (a *AnalysisScreen) renderValuationPanel() string {
	comp, err := a.session.Position.CompositionAt(a.evalPrice)
	if err != nil {
		return a.theme.panel.Render(a.theme.fail.Render("❌ " + err.Error()))
	}

	bandStatus := style.OutOfRangeStyle.Render("below band")
	r := a.session.Position.Range
	switch {
	case r.Contains(a.evalPrice):
		bandStatus = style.InRangeStyle.Render("in band")
	case a.evalPrice >= r.Upper:
		bandStatus = style.OutOfRangeStyle.Render("above band")
	}

	a.valueTable.SetRows([][]string{
		{"Eval Price", fmt.Sprintf("%.6g", a.evalPrice)},
		{"Band", bandStatus},
		{"Holds X", fmt.Sprintf("%.6g", comp.X)},
		{"Holds Y", fmt.Sprintf("%.6g", comp.Y)},
		{"LP Value (X)", fmt.Sprintf("%.6g", a.valuation.LP)},
		{"Hold Value (X)", fmt.Sprintf("%.6g", a.valuation.Hold)},
	})

	body := lipgloss.JoinVertical(lipgloss.Left,
		a.valueTable.View(),
		"",
		a.gauge.SetLoss(a.valuation.Loss).View(),
	)
	return a.theme.panel.Render(body)
}

// Resize records the dimensions and resizes every subcomponent.
func (a *AnalysisScreen) Resize(width, height int) {
	a.width = width
	a.height = height
	a.header.SetWidth(width)
	a.help.SetWidth(width)

	inner := width - 8
	if inner < 20 {
		inner = 20
	}
	a.chart.SetWidth(inner)
	a.gauge.SetWidth(min(inner, 48))
	a.saveForm.SetWidth(inner)
	a.refreshChart()
}
