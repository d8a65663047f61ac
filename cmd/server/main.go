package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/config"
	"github.com/lars-fritz/InteractiveILcalculator/internal/logger"
	"github.com/lars-fritz/InteractiveILcalculator/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfgPath := flag.String("config", "configs/config.json", "path to the config file")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config %s: %v", *cfgPath, err)
	}

	zlog, err := logger.CreateFileLogger(cfg.DebugLogging, logger.FileConfig{
		Path:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	if err != nil {
		log.Fatalf("Failed to build file logger: %v", err)
	}
	defer func() {
		_ = zlog.Sync()
	}()

	srv := server.New(*cfg, zlog)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zlog.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		zlog.Info("🛑 Shutting down HTTP API")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			zlog.Error("Shutdown incomplete", zap.Error(err))
		}
	}
}
