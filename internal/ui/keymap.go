package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap groups every binding the screens share, so help bars and key
// matching stay consistent across the app.
type KeyMap struct {
	// Always active
	Quit key.Binding
	Back key.Binding
	Help key.Binding

	// Movement and focus
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Tab     key.Binding
	BackTab key.Binding

	// Screen shortcuts
	NewPosition key.Binding
	Scenarios   key.Binding
	Reference   key.Binding
	Logs        key.Binding

	// Price walking on the analysis screen
	PriceDown  key.Binding
	PriceUp    key.Binding
	FineDown   key.Binding
	FineUp     key.Binding
	ResetPrice key.Binding

	// Session actions
	Export       key.Binding
	PublishCurve key.Binding
	SaveScenario key.Binding
	Discard      key.Binding
	Delete       key.Binding
	Refresh      key.Binding

	// Log viewer
	LevelError key.Binding
	LevelWarn  key.Binding
	LevelInfo  key.Binding
	LevelAll   key.Binding
	Tail       key.Binding
}

func bind(label, action string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, action))
}

// DefaultKeyMap builds the stock bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: bind("q/ctrl+c", "quit", "q", "ctrl+c"),
		Back: bind("esc", "back", "esc"),
		Help: bind("?", "help", "?"),

		Up:      bind("↑/k", "up", "up", "k"),
		Down:    bind("↓/j", "down", "down", "j"),
		Left:    bind("←", "left", "left"),
		Right:   bind("→", "right", "right"),
		Enter:   bind("enter", "select", "enter"),
		Tab:     bind("tab", "next", "tab"),
		BackTab: bind("shift+tab", "prev", "shift+tab"),

		NewPosition: bind("n", "new position", "n"),
		Scenarios:   bind("s", "scenarios", "s"),
		Reference:   bind("i", "reference", "i"),
		Logs:        bind("F12", "logs", "f12"),

		PriceDown:  bind("←", "price −1%", "left"),
		PriceUp:    bind("→", "price +1%", "right"),
		FineDown:   bind("[", "price −0.1%", "["),
		FineUp:     bind("]", "price +0.1%", "]"),
		ResetPrice: bind("r", "reset price", "r"),

		Export:       bind("e", "export", "e"),
		PublishCurve: bind("p", "publish", "p"),
		SaveScenario: bind("ctrl+s", "save", "ctrl+s"),
		Discard:      bind("x", "discard", "x"),
		Delete:       bind("d", "delete", "d"),
		Refresh:      bind("F5", "refresh", "f5"),

		LevelError: bind("1", "errors", "1"),
		LevelWarn:  bind("2", "warnings", "2"),
		LevelInfo:  bind("3", "info", "3"),
		LevelAll:   bind("4", "all", "4"),
		Tail:       bind("t", "tail", "t"),
	}
}

// ShortHelp is the fallback hint pair shown when no route matches.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// FullHelp lays out the expanded help grid.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter},
		{k.Tab, k.BackTab, k.NewPosition, k.Scenarios},
		{k.Reference, k.Logs, k.Help, k.Quit},
	}
}

// HelpFor picks the hint row for a route.
func (k KeyMap) HelpFor(route Route) []key.Binding {
	switch route {
	case RouteMenu:
		return []key.Binding{k.Up, k.Down, k.Enter, k.NewPosition, k.Quit}
	case RouteSetup:
		return []key.Binding{k.Tab, k.BackTab, k.Enter, k.Back}
	case RouteAnalysis:
		return []key.Binding{k.PriceDown, k.PriceUp, k.FineDown, k.FineUp, k.ResetPrice, k.Export, k.PublishCurve, k.SaveScenario, k.Discard, k.Back}
	case RouteScenarios:
		return []key.Binding{k.Up, k.Down, k.Enter, k.NewPosition, k.Delete, k.Refresh, k.Back, k.Quit}
	case RouteReference:
		return []key.Binding{k.Tab, k.Enter, k.Back}
	case RouteLogs:
		return []key.Binding{k.LevelError, k.LevelWarn, k.LevelInfo, k.LevelAll, k.Tail, k.Refresh, k.Back, k.Quit}
	default:
		return k.ShortHelp()
	}
}
