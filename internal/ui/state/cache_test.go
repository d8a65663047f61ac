package state

import (
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/lars-fritz/InteractiveILcalculator/internal/position"
)

func testSession(label string) Session {
	return Session{
		Label:        label,
		Funding:      position.Funding{Asset: position.AssetY, Amount: 1000},
		InitialPrice: 1.0,
		Position: position.Position{
			Liquidity: 9472.135954999579,
			Range:     position.Range{Lower: 0.8, Upper: 1.2},
		},
	}
}

func TestCacheSetAndGet(t *testing.T) {
	cache := NewCache(zap.NewNop())

	if cache.Active() {
		t.Error("Fresh cache should have no session")
	}
	if _, ok := cache.Session(); ok {
		t.Error("Session() should report absence on a fresh cache")
	}

	cache.SetSession(testSession("base case"))

	got, ok := cache.Session()
	if !ok {
		t.Fatal("Session should exist after SetSession")
	}
	if got.Label != "base case" {
		t.Errorf("label = %q, want %q", got.Label, "base case")
	}
	if got.OpenedAt.IsZero() {
		t.Error("SetSession should stamp OpenedAt")
	}

	// Returned session is a copy
	got.Label = "modified"
	again, _ := cache.Session()
	if again.Label != "base case" {
		t.Error("Mutating the returned session affected the cache")
	}
}

func TestCacheSetLabel(t *testing.T) {
	cache := NewCache(zap.NewNop())

	// No session yet: must be a no-op, not a panic
	cache.SetLabel("orphan")
	if cache.Active() {
		t.Error("SetLabel must not create a session")
	}

	cache.SetSession(testSession("old name"))
	cache.SetLabel("new name")

	got, _ := cache.Session()
	if got.Label != "new name" {
		t.Errorf("label after SetLabel = %q, want %q", got.Label, "new name")
	}
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(zap.NewNop())
	cache.SetSession(testSession("doomed"))

	cache.Clear()

	if cache.Active() {
		t.Error("Session should be gone after Clear")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	cache := NewCache(zap.NewNop())

	const writers = 10
	const opsEach = 50

	var wg sync.WaitGroup
	wg.Add(writers)
	for id := range writers {
		go func() {
			defer wg.Done()
			for j := range opsEach {
				cache.SetSession(testSession(fmt.Sprintf("session_%d_%d", id, j)))
			}
		}()
	}

	wg.Add(writers)
	for range writers {
		go func() {
			defer wg.Done()
			for range opsEach {
				_, _ = cache.Session()
				_ = cache.Active()
			}
		}()
	}

	wg.Wait()

	reads, writes := cache.Stats()
	t.Logf("stats: %d reads, %d writes", reads, writes)

	if reads == 0 {
		t.Error("read counter stayed at zero")
	}
	if writes != uint64(writers*opsEach) {
		t.Errorf("write counter = %d, want %d", writes, writers*opsEach)
	}
	if !cache.Active() {
		t.Error("A session should remain after concurrent writes")
	}
}
