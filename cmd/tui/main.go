package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/export"
	"github.com/lars-fritz/InteractiveILcalculator/internal/logger"
	"github.com/lars-fritz/InteractiveILcalculator/internal/publish"
	"github.com/lars-fritz/InteractiveILcalculator/internal/scenario"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/router"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/screen"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/state"
)

// ringSize is how many recent log entries the in-memory ring keeps for
// the logs screen.
const ringSize = 2000

// App is the top-level bubbletea model. It owns the router and keeps
// exactly one bus listener armed at all times.
type App struct {
	nav    *router.Router
	log    *zap.Logger
	width  int
	height int
}

// NewApp wires the router into the application shell.
func NewApp(r *router.Router, log *zap.Logger) *App {
	return &App{nav: r, log: log}
}

// Init starts the main menu and arms the bus listener.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.nav.Start(ui.RouteMenu),
		ui.WaitForBus(),
	)
}

// Update handles application-level messages and forwards the rest to
// the router.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// A message delivered from the bus consumed the listener, so re-arm
	// it before anything else can return early. The ring picks up the
	// debug line, which makes bus traffic visible on the logs screen.
	var rearm tea.Cmd
	if ui.FromBus(msg) {
		a.log.Debug("UI bus message", zap.String("type", fmt.Sprintf("%T", msg)))
		rearm = ui.WaitForBus()
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	}

	_, cmd := a.nav.Update(msg)
	return a, tea.Batch(rearm, cmd)
}

// View renders the current screen.
func (a *App) View() string {
	if a.width == 0 || a.height == 0 {
		return "Preparing terminal..."
	}
	return a.nav.View()
}

// buildRouter registers a factory per route. Factories close over deps
// so every navigation gets a fresh screen with shared state.
func buildRouter(deps screen.Deps) *router.Router {
	return router.New().
		Register(ui.RouteMenu, func() router.Screen { return screen.NewMenuScreen(deps) }).
		Register(ui.RouteSetup, func() router.Screen { return screen.NewSetupWizard(deps) }).
		Register(ui.RouteAnalysis, func() router.Screen { return screen.NewAnalysisScreen(deps) }).
		Register(ui.RouteScenarios, func() router.Screen { return screen.NewScenariosScreen(deps) }).
		Register(ui.RouteReference, func() router.Screen { return screen.NewReferenceScreen(deps) }).
		Register(ui.RouteLogs, func() router.Screen { return screen.NewLogViewer(deps) })
}

func main() {
	cfgPath := flag.String("config", "configs/config.json", "path to the config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *cfgPath, err)
	}

	// The TUI logger writes only into the ring. Console output would
	// tear the alternate screen, so the logs screen is the viewer.
	ring := logger.NewRing(ringSize)
	zlog, err := logger.CreateTUILogger(cfg.DebugLogging, ring)
	if err != nil {
		log.Fatalf("Failed to build ring logger: %v", err)
	}
	defer func() {
		_ = zlog.Sync()
	}()

	deps := screen.Deps{
		Cfg:       cfg,
		Logger:    zlog,
		Ring:      ring,
		Cache:     state.NewCache(zlog),
		Scenarios: scenario.NewManager(zlog),
		Exporter:  export.NewCurveExporter(zlog),
	}

	if cfg.Influx.Enabled() {
		publisher, err := publish.NewPublisher(cfg.Influx, zlog)
		if err != nil {
			zlog.Warn("Curve publisher unavailable", zap.Error(err))
		} else {
			deps.Publisher = publisher
			defer publisher.Close()
		}
	}

	zlog.Info("📈 Starting impermanent loss calculator TUI",
		zap.String("config", *cfgPath),
		zap.String("scenarios", cfg.ScenariosFile))

	go ui.MonitorBus(ctx, zlog, 30*time.Second)

	// Each restart after a panic gets a fresh router and model so no
	// crashed screen state leaks into the next run.
	buildUI := func() (tea.Model, []tea.ProgramOption) {
		model := ui.NewSafeModel(NewApp(buildRouter(deps), zlog), zlog)
		opts := []tea.ProgramOption{
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
		}
		return model, opts
	}

	rec := ui.NewRestarter(zlog, buildUI)

	go func() {
		<-ctx.Done()
		rec.Stop()
	}()

	if err := rec.Run(); err != nil {
		zlog.Error("💥 TUI application failed", zap.Error(err))
	}

	zlog.Info("🛑 TUI application stopped")
}
