package logger

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestRingConcurrentAccess(t *testing.T) {
	ring := NewRing(100)

	// Hammer the ring from several writers while a reader drains it.
	var wg sync.WaitGroup
	writers := 8
	perWriter := 200

	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < perWriter; j++ {
				ring.Add("info", fmt.Sprintf("writer %d line %d", id, j), map[string]interface{}{
					"writer": id,
					"line":   j,
				})
			}
		}(i)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 50 {
			_ = ring.Recent(10)
			_ = ring.Len()
		}
	}()

	wg.Wait()
	<-done

	if total, want := ring.Total(), uint64(writers*perWriter); total != want {
		t.Errorf("total = %d, want %d", total, want)
	}
	if ring.Len() != 100 {
		t.Errorf("len = %d, want the full capacity of 100", ring.Len())
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	ring := NewRing(5)

	for i := 0; i < 10; i++ {
		ring.Add("info", fmt.Sprintf("line %d", i), nil)
	}

	logs := ring.Recent(0)
	if len(logs) != 5 {
		t.Fatalf("len = %d, want 5", len(logs))
	}

	// Only the newest entries survive, oldest first.
	if logs[0].Message != "line 5" {
		t.Errorf("first message = %q, want %q", logs[0].Message, "line 5")
	}
	if last := logs[len(logs)-1]; last.Message != "line 9" {
		t.Errorf("last message = %q, want %q", last.Message, "line 9")
	}
}

func TestRingRecentLimit(t *testing.T) {
	ring := NewRing(10)
	for i := 0; i < 7; i++ {
		ring.Add("info", fmt.Sprintf("line %d", i), nil)
	}

	logs := ring.Recent(3)
	if len(logs) != 3 {
		t.Fatalf("len = %d, want 3", len(logs))
	}
	for i, want := range []string{"line 4", "line 5", "line 6"} {
		if logs[i].Message != want {
			t.Errorf("message %d = %q, want %q", i, logs[i].Message, want)
		}
	}
}

func TestRingDecodesZapLines(t *testing.T) {
	ring := NewRing(16)

	log, err := CreateTUILogger(true, ring)
	if err != nil {
		t.Fatalf("CreateTUILogger: %v", err)
	}

	log.Info("position opened", zap.Float64("price", 1.0), zap.String("asset", "x"))
	log.Warn("price outside range")
	if err := log.Sync(); err != nil {
		t.Logf("Sync: %v", err)
	}

	logs := ring.Recent(0)
	if len(logs) != 2 {
		t.Fatalf("len = %d, want 2", len(logs))
	}

	first := logs[0]
	if first.Level != "info" {
		t.Errorf("level = %q, want info", first.Level)
	}
	if first.Message != "position opened" {
		t.Errorf("message = %q, want %q", first.Message, "position opened")
	}
	if first.At.IsZero() {
		t.Error("timestamp did not parse")
	}
	if v, ok := first.Fields["asset"]; !ok || v != "x" {
		t.Errorf("fields = %v, want asset=x", first.Fields)
	}

	if logs[1].Level != "warn" {
		t.Errorf("level = %q, want warn", logs[1].Level)
	}
}

func TestRingKeepsNonJSONLines(t *testing.T) {
	ring := NewRing(4)
	if _, err := ring.Write([]byte("plain text line\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	logs := ring.Recent(0)
	if len(logs) != 1 {
		t.Fatalf("len = %d, want 1", len(logs))
	}
	if logs[0].Message != "plain text line" {
		t.Errorf("message = %q, want the raw line", logs[0].Message)
	}
}
