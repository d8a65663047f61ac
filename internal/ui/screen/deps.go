package screen

import (
	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/export"
	"github.com/lars-fritz/InteractiveILcalculator/internal/logger"
	"github.com/lars-fritz/InteractiveILcalculator/internal/publish"
	"github.com/lars-fritz/InteractiveILcalculator/internal/scenario"
	"github.com/lars-fritz/InteractiveILcalculator/internal/ui/state"
)

// Deps carries the shared services screens need. One value is built at
// startup and every screen factory closes over it.
type Deps struct {
	Cfg       *config.Config
	Logger    *zap.Logger
	Ring      *logger.Ring
	Cache     *state.Cache
	Scenarios *scenario.Manager
	Exporter  *export.CurveExporter

	// Publisher is nil when no metrics target is configured.
	Publisher *publish.Publisher
}
