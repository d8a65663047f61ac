package ui

import (
	"sync"
	"testing"
	"time"
)

// drainBus empties the bus so tests do not leak messages into each
// other.
func drainBus() {
	for {
		select {
		case <-Bus:
		default:
			return
		}
	}
}

func TestPublishNonBlocking(t *testing.T) {
	drainBus()
	defer drainBus()

	// Fill the bus to capacity
	for range cap(Bus) {
		Publish(StatusMsg{Message: "fill"})
	}

	_, droppedBefore := BusStats()

	// These must be dropped without blocking
	t0 := time.Now()
	for range 100 {
		Publish(StatusMsg{Message: "overflow"})
	}
	if took := time.Since(t0); took > 100*time.Millisecond {
		t.Errorf("Publish blocked for %v on a full bus", took)
	}

	_, droppedAfter := BusStats()
	if droppedAfter-droppedBefore != 100 {
		t.Errorf("expected 100 drops, counted %d", droppedAfter-droppedBefore)
	}
}

func TestPublishConcurrent(t *testing.T) {
	drainBus()
	defer drainBus()

	sentBefore, droppedBefore := BusStats()

	// Consumer drains while publishers hammer the bus
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-Bus:
			case <-stop:
				return
			}
		}
	}()

	var wg sync.WaitGroup
	const goroutines, perGoroutine = 10, 100

	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()
			for range perGoroutine {
				Publish(StatusMsg{Message: "concurrent"})
			}
		}()
	}
	wg.Wait()
	close(stop)

	sentAfter, droppedAfter := BusStats()
	total := (sentAfter - sentBefore) + (droppedAfter - droppedBefore)
	if total != goroutines*perGoroutine {
		t.Errorf("accounted for %d messages, want %d", total, goroutines*perGoroutine)
	}
}

func TestWaitForBusDelivers(t *testing.T) {
	drainBus()
	defer drainBus()

	Publish(StatusMsg{Message: "hello"})

	msg := WaitForBus()()
	status, ok := msg.(StatusMsg)
	if !ok {
		t.Fatalf("got %T, want StatusMsg", msg)
	}
	if status.Message != "hello" {
		t.Errorf("got %q, want %q", status.Message, "hello")
	}
}

func TestFromBus(t *testing.T) {
	busMsgs := []any{
		NavMsg{To: RouteSetup},
		BackMsg{},
		PositionOpenedMsg{Label: "a"},
		PositionClosedMsg{},
		ScenarioSavedMsg{Name: "b"},
		ErrorMsg{},
		StatusMsg{Message: "c"},
	}
	for _, m := range busMsgs {
		if !FromBus(m) {
			t.Errorf("FromBus(%T) = false, want true", m)
		}
	}

	if FromBus(struct{}{}) {
		t.Error("FromBus classified a foreign message as bus traffic")
	}
}
