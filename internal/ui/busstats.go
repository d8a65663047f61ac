package ui

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Delivery counters behind BusStats and the monitor loop.
var (
	busSent    atomic.Uint64
	busDropped atomic.Uint64
)

// BusStats returns how many messages the bus accepted and dropped.
func BusStats() (sent, dropped uint64) {
	return busSent.Load(), busDropped.Load()
}

// MonitorBus periodically logs bus statistics until the context ends.
// Dropped messages mean the UI fell behind the publishers; seeing that
// in the log beats guessing.
func MonitorBus(ctx context.Context, logger *zap.Logger, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastSent, lastDropped uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sent, dropped := BusStats()
			if sent == lastSent && dropped == lastDropped {
				continue
			}
			logger.Debug("UI bus statistics",
				zap.Uint64("sent", sent),
				zap.Uint64("dropped", dropped),
				zap.Int("queued", len(Bus)))
			lastSent, lastDropped = sent, dropped
		}
	}
}
