package ui

import tea "github.com/charmbracelet/bubbletea"

// Messages that travel over the bus. Screens publish these instead of
// returning them from Update, so the application model re-arms exactly
// one bus listener per delivery.

// NavMsg asks the router to switch to a screen.
type NavMsg struct {
	To Route
}

// BackMsg asks the router to pop the current screen.
type BackMsg struct{}

// PositionOpenedMsg announces that a position was opened or loaded and
// is now the active session.
type PositionOpenedMsg struct {
	Label     string
	Liquidity float64
}

// PositionClosedMsg announces that the active session was discarded.
type PositionClosedMsg struct {
	Label string
}

// ScenarioSavedMsg announces that the active session was written to
// the scenario book.
type ScenarioSavedMsg struct {
	Name string
}

// ErrorMsg surfaces a background failure to whichever screen is
// active.
type ErrorMsg struct {
	Err    error
	Source string
}

// String renders the failure with its origin when one was given.
func (e ErrorMsg) String() string {
	if e.Source == "" {
		return e.Err.Error()
	}
	return e.Source + ": " + e.Err.Error()
}

// StatusMsg carries a transient status line for the active screen.
type StatusMsg struct {
	Message string
}

// Bus carries messages from background goroutines into the program
// loop.
var Bus = make(chan tea.Msg, 1024)

// Publish puts a message on the UI bus without blocking. Background
// work must never stall on a slow or absent UI, so a full bus drops
// the message and the drop is counted instead.
func Publish(msg tea.Msg) {
	select {
	case Bus <- msg:
		busSent.Add(1)
	default:
		busDropped.Add(1)
	}
}

// PublishError wraps err in an ErrorMsg and publishes it. Source
// names the operation that failed.
func PublishError(err error, source string) {
	Publish(ErrorMsg{Err: err, Source: source})
}

// PublishStatus broadcasts a transient status line.
func PublishStatus(message string) {
	Publish(StatusMsg{Message: message})
}

// Navigate requests a screen change from anywhere in the app.
func Navigate(to Route) {
	Publish(NavMsg{To: to})
}

// Back requests a pop of the current screen.
func Back() {
	Publish(BackMsg{})
}

// WaitForBus returns a tea.Cmd that takes one message off the bus.
func WaitForBus() tea.Cmd {
	return func() tea.Msg {
		return <-Bus
	}
}

// FromBus reports whether msg is one of the bus message types, which
// tells the application model to re-arm its listener.
func FromBus(msg tea.Msg) bool {
	switch msg.(type) {
	case NavMsg, BackMsg, PositionOpenedMsg, PositionClosedMsg, ScenarioSavedMsg, ErrorMsg, StatusMsg:
		return true
	default:
		return false
	}
}

// Route identifies a screen.
type Route int

const (
	RouteMenu Route = iota
	RouteSetup
	RouteAnalysis
	RouteScenarios
	RouteReference
	RouteLogs
)

// String names the route for logs and structured fields.
func (r Route) String() string {
	switch r {
	case RouteMenu:
		return "menu"
	case RouteSetup:
		return "setup"
	case RouteAnalysis:
		return "analysis"
	case RouteScenarios:
		return "scenarios"
	case RouteReference:
		return "reference"
	case RouteLogs:
		return "logs"
	default:
		return "unknown"
	}
}
