package ui

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Restarter reruns the terminal program after a panic. A rendering bug
// must not take the whole process down; the position math and any
// in-flight export keep running while the UI comes back.
type Restarter struct {
	log    *zap.Logger
	delay  time.Duration
	budget int

	mu       sync.Mutex
	restarts int
	program  *tea.Program

	buildUI func() (tea.Model, []tea.ProgramOption)
}

// NewRestarter wires a crash-restart loop around build.
func NewRestarter(log *zap.Logger, build func() (tea.Model, []tea.ProgramOption)) *Restarter {
	return &Restarter{
		log:     log,
		delay:   5 * time.Second,
		budget:  5,
		buildUI: build,
	}
}

// Run keeps the UI alive until it exits cleanly or crashes past the
// restart budget.
func (r *Restarter) Run() error {
	for {
		err := r.runOnce()
		if err == nil {
			return nil
		}
		if r.noteCrash(err) {
			return fmt.Errorf("UI crashed too many times (%d), giving up", r.budget)
		}
		time.Sleep(r.delay)
	}
}

// noteCrash counts one crash and reports whether the restart budget is
// spent.
func (r *Restarter) noteCrash(err error) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.restarts++
	if r.restarts > r.budget {
		return true
	}

	r.log.Error("UI crashed, will restart",
		zap.Error(err),
		zap.Int("restart_count", r.restarts),
		zap.Duration("delay", r.delay))
	return false
}

// runOnce drives one UI lifetime, converting panics into errors.
func (r *Restarter) runOnce() (err error) {
	defer func() {
		rec := recover()
		if rec == nil {
			return
		}
		r.log.Error("UI panic recovered",
			zap.Any("panic", rec),
			zap.Stack("stack"))
		err = fmt.Errorf("UI panic: %v", rec)
	}()

	model, opts := r.buildUI()

	r.mu.Lock()
	r.program = tea.NewProgram(model, opts...)
	program := r.program
	r.mu.Unlock()

	if _, runErr := program.Run(); runErr != nil {
		return fmt.Errorf("UI error: %w", runErr)
	}
	return nil
}

// Stop quits the running program, if any.
func (r *Restarter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.program != nil {
		r.program.Quit()
		r.program = nil
	}
}

// RestartCount reports how many crashes the loop has absorbed.
func (r *Restarter) RestartCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.restarts
}

// SafeModel keeps a panicking model on screen instead of killing the
// program. Panics in Init, Update and View are logged and swallowed;
// the wrapped model keeps its last good state.
type SafeModel struct {
	model tea.Model
	log   *zap.Logger
}

// NewSafeModel guards a model's Init, Update and View.
func NewSafeModel(model tea.Model, log *zap.Logger) *SafeModel {
	return &SafeModel{model: model, log: log}
}

// Init runs the wrapped Init, swallowing panics.
func (s *SafeModel) Init() (cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logPanic("Init", rec)
			cmd = nil
		}
	}()
	return s.model.Init()
}

// Update delegates to the wrapped model and keeps whatever state it
// returns. After a panic the previous state stays current.
func (s *SafeModel) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logPanic("Update", rec)
			model, cmd = s, nil
		}
	}()

	next, c := s.model.Update(msg)
	s.model = next
	return s, c
}

// View renders the wrapped model, falling back to a crash banner.
func (s *SafeModel) View() (out string) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logPanic("View", rec)
			out = "UI Error: View crashed. Press Ctrl+C to exit."
		}
	}()
	return s.model.View()
}

func (s *SafeModel) logPanic(method string, rec any) {
	s.log.Error(method+" panic recovered",
		zap.Any("panic", rec),
		zap.Stack("stack"))
}
