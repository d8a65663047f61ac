package router

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
)

// stubScreen records the lifecycle calls the router makes.
type stubScreen struct {
	name    string
	width   int
	height  int
	inits   int
	updates int
}

func (s *stubScreen) Init() tea.Cmd { s.inits++; return nil }

func (s *stubScreen) Update(msg tea.Msg) (Screen, tea.Cmd) {
	s.updates++
	return s, nil
}

func (s *stubScreen) View() string { return s.name }

func (s *stubScreen) Resize(width, height int) {
	s.width = width
	s.height = height
}

// testRouter registers a stub factory per route and starts on the
// main menu.
func testRouter(t *testing.T) (*Router, map[ui.Route]*stubScreen) {
	t.Helper()

	screens := make(map[ui.Route]*stubScreen)
	r := New()
	for route, name := range map[ui.Route]string{
		ui.RouteMenu: "menu",
		ui.RouteSetup:    "setup",
		ui.RouteAnalysis: "analysis",
	} {
		route, name := route, name
		r.Register(route, func() Screen {
			s := &stubScreen{name: name}
			screens[route] = s
			return s
		})
	}
	r.Resize(80, 24)
	r.Start(ui.RouteMenu)
	return r, screens
}

func TestRouterNavigateStacksScreens(t *testing.T) {
	r, _ := testRouter(t)

	r.Update(ui.NavMsg{To: ui.RouteSetup})
	if got := r.Current().View(); got != "setup" {
		t.Errorf("current screen = %q, want setup", got)
	}
	if r.Depth() != 2 {
		t.Errorf("depth = %d, want 2", r.Depth())
	}
	if !r.CanGoBack() {
		t.Error("expected CanGoBack after a push")
	}

	r.Update(ui.NavMsg{To: ui.RouteAnalysis})
	if r.Depth() != 3 {
		t.Errorf("depth = %d, want 3", r.Depth())
	}
}

func TestRouterBackPopsAndReinits(t *testing.T) {
	r, screens := testRouter(t)

	r.Update(ui.NavMsg{To: ui.RouteSetup})
	menu := screens[ui.RouteMenu]
	initsBefore := menu.inits

	r.Update(ui.BackMsg{})
	if got := r.Current().View(); got != "menu" {
		t.Errorf("current screen = %q, want menu", got)
	}
	if menu.inits != initsBefore+1 {
		t.Errorf("menu inits = %d, want %d (re-init on pop)", menu.inits, initsBefore+1)
	}
}

func TestRouterBackAtRootIsNoop(t *testing.T) {
	r, _ := testRouter(t)

	r.Update(ui.BackMsg{})
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1", r.Depth())
	}
	if r.CanGoBack() {
		t.Error("root screen must not report CanGoBack")
	}
}

func TestRouterMainMenuResetsStack(t *testing.T) {
	r, _ := testRouter(t)

	r.Update(ui.NavMsg{To: ui.RouteSetup})
	r.Update(ui.NavMsg{To: ui.RouteAnalysis})
	r.Update(ui.NavMsg{To: ui.RouteMenu})

	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1 after navigating home", r.Depth())
	}
	if got := r.Current().View(); got != "menu" {
		t.Errorf("current screen = %q, want menu", got)
	}
}

func TestRouterUnknownRouteIgnored(t *testing.T) {
	r, _ := testRouter(t)

	r.Update(ui.NavMsg{To: ui.RouteLogs}) // not registered
	if r.Depth() != 1 {
		t.Errorf("depth = %d, want 1 after unknown route", r.Depth())
	}
}

func TestRouterSizePropagation(t *testing.T) {
	r, screens := testRouter(t)

	r.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	menu := screens[ui.RouteMenu]
	if menu.width != 120 || menu.height != 40 {
		t.Errorf("menu size = %dx%d, want 120x40", menu.width, menu.height)
	}

	// A screen pushed later inherits the last known size
	r.Update(ui.NavMsg{To: ui.RouteSetup})
	setup := screens[ui.RouteSetup]
	if setup.width != 120 || setup.height != 40 {
		t.Errorf("setup size = %dx%d, want 120x40", setup.width, setup.height)
	}
}

func TestRouterForwardsToTopScreenOnly(t *testing.T) {
	r, screens := testRouter(t)

	r.Update(ui.NavMsg{To: ui.RouteSetup})
	menu := screens[ui.RouteMenu]
	setup := screens[ui.RouteSetup]
	menuUpdates := menu.updates

	r.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})

	if setup.updates != 1 {
		t.Errorf("setup updates = %d, want 1", setup.updates)
	}
	if menu.updates != menuUpdates {
		t.Error("buried screen received an update")
	}
}

func TestRouterViewWithoutScreens(t *testing.T) {
	r := New()
	if got := r.View(); got != "No screen mounted" {
		t.Errorf("empty router view = %q", got)
	}
}
