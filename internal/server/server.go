// Package server exposes the position math over HTTP for dashboards
// and scripts that prefer JSON over the terminal.
package server

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
)

// Server wraps the fiber app with its listen address
type Server struct {
	app    *fiber.App
	addr   string
	logger *zap.Logger
}

// New builds the app with middleware and routes registered
func New(cfg config.Config, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "il-calculator",
		DisableStartupMessage: true,
	})

	SetupMiddleware(app, logger)
	NewPositionHandler(cfg, logger).InitRoute(app)

	return &Server{
		app:    app,
		addr:   cfg.ListenAddr,
		logger: logger,
	}
}

// Listen serves until Shutdown is called
func (s *Server) Listen() error {
	s.logger.Info("HTTP API listening", zap.String("addr", s.addr))
	return s.app.Listen(s.addr)
}

// Shutdown drains in-flight requests before returning
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// SetupMiddleware registers the shared middleware chain
func SetupMiddleware(router fiber.Router, logger *zap.Logger) {
	router.Use(recover.New())
	router.Use(cors.New())
	router.Use(errorHandle(logger))
	router.Use(logRequest(logger))
}

// errorHandle turns handler errors into a JSON error response.
// Validation failures map to 400, anything unexpected to 500.
func errorHandle(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		if err != nil {
			logger.Warn("Request failed",
				zap.String("endpoint", c.Path()),
				zap.Error(err))
			return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
		}
		return nil
	}
}

func statusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	if errors.Is(err, position.ErrInvalidRange) ||
		errors.Is(err, position.ErrInvalidFunding) ||
		errors.Is(err, position.ErrZeroHoldValue) {
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func logRequest(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		logger.Debug("Request",
			zap.String("method", c.Method()),
			zap.String("endpoint", c.Path()))
		return c.Next()
	}
}
