package logger

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// LogEntry represents a single log entry held in the ring
type LogEntry struct {
	At      time.Time              `json:"timestamp"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

// ringTimeLayout matches zapcore.ISO8601TimeEncoder output.
const ringTimeLayout = "2006-01-02T15:04:05.000Z0700"

// Ring is a thread-safe ring buffer holding the most recent log
// entries so the TUI can render a log tail without touching the log
// file. It implements io.Writer and decodes the JSON lines a zap core
// writes into it.
type Ring struct {
	mu      sync.Mutex
	entries []LogEntry
	next    int
	wrapped bool
	total   uint64
}

// NewRing creates a ring holding up to size entries
func NewRing(size int) *Ring {
	if size < 1 {
		size = 1
	}
	return &Ring{entries: make([]LogEntry, size)}
}

// Write decodes one JSON log line and stores it. Lines that are not
// JSON are kept verbatim instead of being dropped.
func (r *Ring) Write(p []byte) (int, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(p, &raw); err != nil {
		r.Add("info", strings.TrimSpace(string(p)), nil)
		return len(p), nil
	}

	entry := LogEntry{At: time.Now(), Level: "info"}
	if v, ok := raw["level"].(string); ok {
		entry.Level = v
		delete(raw, "level")
	}
	if v, ok := raw["msg"].(string); ok {
		entry.Message = v
		delete(raw, "msg")
	}
	if v, ok := raw["time"].(string); ok {
		if ts, err := time.Parse(ringTimeLayout, v); err == nil {
			entry.At = ts
		}
		delete(raw, "time")
	}
	if len(raw) > 0 {
		entry.Fields = raw
	}

	r.add(entry)
	return len(p), nil
}

// Add stores a new log entry in the ring
func (r *Ring) Add(level, msg string, fields map[string]interface{}) {
	r.add(LogEntry{
		At:      time.Now(),
		Level:   level,
		Message: msg,
		Fields:  fields,
	})
}

func (r *Ring) add(entry LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[r.next] = entry
	r.next = (r.next + 1) % len(r.entries)
	r.total++
	if r.total >= uint64(len(r.entries)) {
		r.wrapped = true
	}
}

// Recent returns up to limit of the newest entries in chronological
// order. limit <= 0 returns everything the ring holds.
func (r *Ring) Recent(limit int) []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	size := len(r.entries)
	count := r.next
	start := 0
	if r.wrapped {
		count = size
		start = r.next
	}
	if limit > 0 && count > limit {
		start = (start + count - limit) % size
		count = limit
	}

	logs := make([]LogEntry, 0, count)
	for i := range count {
		logs = append(logs, r.entries[(start+i)%size])
	}
	return logs
}

// Len returns how many entries the ring currently holds
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.wrapped {
		return len(r.entries)
	}
	return r.next
}

// Total returns how many entries the ring has seen overall
func (r *Ring) Total() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}
