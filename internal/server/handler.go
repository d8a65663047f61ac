package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
)

// PositionHandler serves the position math endpoints
type PositionHandler struct {
	cfg    config.Config
	logger *zap.Logger
}

// NewPositionHandler creates the handler with sweep defaults from cfg
func NewPositionHandler(cfg config.Config, logger *zap.Logger) *PositionHandler {
	return &PositionHandler{
		cfg:    cfg,
		logger: logger,
	}
}

// InitRoute registers the endpoints on the app
func (h *PositionHandler) InitRoute(app *fiber.App) {
	app.Get("/healthz", h.Health)
	app.Post("/position", h.OpenPosition)
	app.Post("/valuation", h.Valuation)
	app.Post("/curve", h.Curve)
}

// Health reports liveness
func (h *PositionHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
}

// OpenPosition solves the liquidity for a deposit and returns the
// opening token split
func (h *PositionHandler) OpenPosition(c *fiber.Ctx) error {
	var param PositionReq
	if err := c.BodyParser(&param); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body: "+err.Error())
	}

	asset, err := position.ParseAsset(param.Asset)
	if err != nil {
		return err
	}

	r := position.Range{Lower: param.LowerBound, Upper: param.UpperBound}
	pos, err := position.Open(position.Funding{Asset: asset, Amount: param.Amount}, param.Price, r)
	if err != nil {
		return err
	}

	comp, err := pos.CompositionAt(param.Price)
	if err != nil {
		return err
	}

	h.logger.Info("Position opened",
		zap.String("asset", string(asset)),
		zap.Float64("amount", param.Amount),
		zap.Float64("liquidity", pos.Liquidity))

	return c.Status(fiber.StatusOK).JSON(PositionResp{
		Liquidity:  pos.Liquidity,
		X:          comp.X,
		Y:          comp.Y,
		Value:      comp.Value(param.Price),
		LowerBound: r.Lower,
		UpperBound: r.Upper,
	})
}

// Valuation values a position at a new price against the hold baseline
func (h *PositionHandler) Valuation(c *fiber.Ctx) error {
	var param ValuationReq
	if err := c.BodyParser(&param); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body: "+err.Error())
	}

	r := position.Range{Lower: param.LowerBound, Upper: param.UpperBound}
	val, err := position.Evaluate(param.Liquidity, r, param.InitialPrice, param.NewPrice)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(val)
}

// Curve sweeps the valuation across a price grid
func (h *PositionHandler) Curve(c *fiber.Ctx) error {
	var param CurveReq
	if err := c.BodyParser(&param); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "malformed request body: "+err.Error())
	}

	r := position.Range{Lower: param.LowerBound, Upper: param.UpperBound}

	liq := param.Liquidity
	if liq == 0 {
		asset, err := position.ParseAsset(param.Asset)
		if err != nil {
			return fmt.Errorf("either liquidity or a funding deposit is required: %w", err)
		}
		funded, err := position.Liquidity(position.Funding{Asset: asset, Amount: param.Amount}, param.InitialPrice, r)
		if err != nil {
			return err
		}
		liq = funded
	}

	grid := param.Prices
	if len(grid) == 0 {
		samples := param.Samples
		if samples <= 0 {
			samples = h.cfg.CurveSamples
		}
		span := param.Span
		if span <= 0 {
			span = h.cfg.CurveSpan
		}
		grid = position.SpanGrid(param.InitialPrice, span, samples)
	}

	points, err := position.CurveParallel(c.Context(), h.cfg.SweepWorkers, liq, r, param.InitialPrice, grid)
	if err != nil {
		return err
	}

	h.logger.Debug("Curve computed",
		zap.Float64("liquidity", liq),
		zap.Int("points", len(points)))

	return c.Status(fiber.StatusOK).JSON(CurveResp{
		Liquidity: liq,
		Points:    points,
	})
}
