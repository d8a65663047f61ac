package router

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
)

// Screen is one full-terminal view managed by the router.
type Screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Screen, tea.Cmd)
	View() string
	Resize(width, height int)
}

// Factory builds a fresh screen instance for its route.
type Factory func() Screen

// Router manages navigation between screens using a stack. Routes are
// resolved through registered factories, so screens request navigation
// with a ui.NavMsg and never construct each other.
type Router struct {
	screens   []Screen
	factories map[ui.Route]Factory
	width     int
	height    int
}

// New creates an empty router
func New() *Router {
	return &Router{factories: map[ui.Route]Factory{}}
}

// top returns the screen currently shown, if any.
func (r *Router) top() (Screen, bool) {
	if len(r.screens) == 0 {
		return nil, false
	}
	return r.screens[len(r.screens)-1], true
}

// Register binds a route to its screen factory
func (r *Router) Register(route ui.Route, factory Factory) *Router {
	r.factories[route] = factory
	return r
}

// build resolves a route into a fresh screen.
func (r *Router) build(route ui.Route) (Screen, bool) {
	factory, ok := r.factories[route]
	if !ok {
		return nil, false
	}
	return factory(), true
}

// Start pushes the initial screen for the given route
func (r *Router) Start(route ui.Route) tea.Cmd {
	s, ok := r.build(route)
	if !ok {
		return nil
	}
	return r.Push(s)
}

// Init boots whichever screen is on top.
func (r *Router) Init() tea.Cmd {
	if s, ok := r.top(); ok {
		return s.Init()
	}
	return nil
}

// Update intercepts navigation messages; everything else goes to the
// top screen.
func (r *Router) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.NavMsg:
		return r, r.Navigate(msg.To)

	case ui.BackMsg:
		return r, r.Pop()

	case tea.WindowSizeMsg:
		r.Resize(msg.Width, msg.Height)
		return r, nil
	}

	return r, r.forward(msg)
}

// forward hands a message to the top screen only; buried screens stay
// frozen until they resurface.
func (r *Router) forward(msg tea.Msg) tea.Cmd {
	s, ok := r.top()
	if !ok {
		return nil
	}

	next, cmd := s.Update(msg)
	r.screens[len(r.screens)-1] = next
	return cmd
}

// View draws the top screen.
func (r *Router) View() string {
	s, ok := r.top()
	if !ok {
		return "No screen mounted"
	}
	return s.View()
}

// Resize records the terminal size and resizes the top screen.
func (r *Router) Resize(width, height int) {
	r.width = width
	r.height = height
	if s, ok := r.top(); ok {
		s.Resize(width, height)
	}
}

// Navigate resolves the route and switches to its screen. The main
// menu resets the stack; every other route stacks on top so esc walks
// back the way the user came.
func (r *Router) Navigate(route ui.Route) tea.Cmd {
	s, ok := r.build(route)
	if !ok {
		return nil
	}

	if route == ui.RouteMenu {
		r.screens = r.screens[:0]
	}
	return r.Push(s)
}

// Push sizes, stacks and boots a screen.
func (r *Router) Push(s Screen) tea.Cmd {
	s.Resize(r.width, r.height)
	r.screens = append(r.screens, s)
	return s.Init()
}

// Pop returns to the previous screen, re-initializing it so stale
// state refreshes. The root screen never pops.
func (r *Router) Pop() tea.Cmd {
	if len(r.screens) < 2 {
		return nil
	}

	r.screens = r.screens[:len(r.screens)-1]

	s, _ := r.top()
	s.Resize(r.width, r.height)
	return s.Init()
}

// Replace swaps the top screen for a new one without growing the
// stack.
func (r *Router) Replace(s Screen) tea.Cmd {
	if len(r.screens) == 0 {
		return r.Push(s)
	}

	s.Resize(r.width, r.height)
	r.screens[len(r.screens)-1] = s
	return s.Init()
}

// Current exposes the top screen, nil when the stack is empty.
func (r *Router) Current() Screen {
	s, _ := r.top()
	return s
}

// Depth is the number of stacked screens.
func (r *Router) Depth() int {
	return len(r.screens)
}

// CanGoBack reports whether a Pop would change screens.
func (r *Router) CanGoBack() bool {
	return len(r.screens) > 1
}
