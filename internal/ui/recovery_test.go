package ui

import (
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// stubModel is a UI model whose methods can be told to panic.
type stubModel struct {
	panicOnInit bool
	panicOnView bool
	updates     atomic.Int32
	views       atomic.Int32
}

func (s *stubModel) Init() tea.Cmd {
	if s.panicOnInit {
		panic("boom in Init")
	}
	return nil
}

func (s *stubModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if s.updates.Add(1) > 5 {
		panic("boom in Update")
	}
	return s, nil
}

func (s *stubModel) View() string {
	if s.panicOnView && s.views.Add(1) > 3 {
		panic("boom in View")
	}
	return "Test UI"
}

func TestRestarterGivesUp(t *testing.T) {
	log := zap.NewNop()

	// Every UI construction fails, so the loop should retry up to the
	// budget and then return an error.
	var attempts atomic.Int32
	buildUI := func() (tea.Model, []tea.ProgramOption) {
		attempts.Add(1)
		panic("cannot build UI")
	}

	rec := NewRestarter(log, buildUI)
	rec.delay = time.Millisecond
	rec.budget = 3

	err := rec.Run()
	if err == nil {
		t.Fatal("expected an error after exhausting restarts")
	}
	if got := rec.RestartCount(); got != rec.budget+1 {
		t.Errorf("restart count = %d, want %d", got, rec.budget+1)
	}
	if got := attempts.Load(); got != int32(rec.budget+1) {
		t.Errorf("buildUI called %d times, want %d", got, rec.budget+1)
	}
}

func TestSafeModelSwallowsPanics(t *testing.T) {
	log := zap.NewNop()
	stub := &stubModel{panicOnView: true}
	sm := NewSafeModel(stub, log)

	if cmd := sm.Init(); cmd != nil {
		t.Error("expected nil command from Init")
	}

	// First views render normally
	if got := sm.View(); got != "Test UI" {
		t.Errorf("view = %q, want %q", got, "Test UI")
	}

	// Trigger the view panic; the wrapper must swallow it
	stub.views.Store(10)
	got := sm.View()
	if got != "UI Error: View crashed. Press Ctrl+C to exit." {
		t.Errorf("expected the crash banner, got: %q", got)
	}

	// Updates past the panic threshold must not kill the caller and
	// must keep returning a usable model.
	stub.updates.Store(10)
	next, cmd := sm.Update(nil)
	if next == nil {
		t.Fatal("Update returned a nil model after a panic")
	}
	if cmd != nil {
		t.Error("expected nil command after a recovered panic")
	}

	// The wrapper still renders after the update panic
	stub.views.Store(0)
	if got := next.View(); got != "Test UI" {
		t.Errorf("view after recovery = %q, want %q", got, "Test UI")
	}
}

func TestPanicOnInitRecovered(t *testing.T) {
	sm := NewSafeModel(&stubModel{panicOnInit: true}, zap.NewNop())

	if cmd := sm.Init(); cmd != nil {
		t.Error("expected nil command when Init panics")
	}
}

// A crashing UI must not stall background work.
func TestBackgroundWorkSurvivesUICrashes(t *testing.T) {
	log := zap.NewNop()

	var ticks atomic.Int32
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-stop:
				return
			default:
				ticks.Add(1)
				time.Sleep(5 * time.Millisecond)
			}
		}
	}()

	buildUI := func() (tea.Model, []tea.ProgramOption) {
		panic("cannot build UI")
	}

	rec := NewRestarter(log, buildUI)
	rec.delay = 20 * time.Millisecond
	rec.budget = 2

	done := make(chan error, 1)
	go func() { done <- rec.Run() }()

	select {
	case err := <-done:
		if err == nil {
			t.Error("expected the restart loop to give up with an error")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("restart loop did not finish")
	}

	close(stop)

	if got := ticks.Load(); got < 5 {
		t.Errorf("background work only ticked %d times during UI crashes", got)
	}
}
