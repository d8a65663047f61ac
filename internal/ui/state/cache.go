package state

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
)

// Session is the position the TUI currently works on, together with the
// deposit that funded it and the price it was opened at.
type Session struct {
	Label        string
	Funding      position.Funding
	InitialPrice float64

	// Target seeds the evaluation price on the analysis screen. Zero
	// means start at the funding price.
	Target float64

	Position position.Position
	OpenedAt time.Time
}

// Cache provides thread-safe access to the active session. Screens are
// created and torn down as the user navigates; the cache is what makes
// the loaded position survive those transitions.
type Cache struct {
	mu      sync.RWMutex
	session *Session
	logger  *zap.Logger

	// Access counters for the stats line on the logs screen.
	reads  atomic.Uint64
	writes atomic.Uint64
}

// NewCache creates an empty session cache
func NewCache(logger *zap.Logger) *Cache {
	return &Cache{logger: logger}
}

// SetSession replaces the active session
func (c *Cache) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s.OpenedAt.IsZero() {
		s.OpenedAt = time.Now()
	}
	c.session = &s
	c.writes.Add(1)

	c.logger.Info("Session opened",
		zap.String("label", s.Label),
		zap.Float64("liquidity", s.Position.Liquidity),
		zap.Float64("lower", s.Position.Range.Lower),
		zap.Float64("upper", s.Position.Range.Upper))
}

// SetLabel renames the active session, if one exists.
func (c *Cache) SetLabel(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.Label = label
		c.writes.Add(1)
	}
}

// Session returns a copy of the active session
func (c *Cache) Session() (Session, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.reads.Add(1)
	if c.session == nil {
		return Session{}, false
	}
	return *c.session, true
}

// Active reports whether a session is loaded
func (c *Cache) Active() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	c.reads.Add(1)
	return c.session != nil
}

// Clear discards the active session
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.logger.Debug("Session discarded", zap.String("label", c.session.Label))
	}
	c.session = nil
	c.writes.Add(1)
}

// Stats returns cache access statistics
func (c *Cache) Stats() (reads, writes uint64) {
	return c.reads.Load(), c.writes.Load()
}
