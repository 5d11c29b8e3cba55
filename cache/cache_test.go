// ABOUTME: Tests for the TTL cache
// ABOUTME: Drives expiry with a fake clock instead of sleeping

package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.now = clock.Now
	t.Cleanup(c.Close)
	return c, clock
}

func TestCache_SetAndGet(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	c.Set("vsphere:servers", []string{"web-01"})

	val, found := c.Get("vsphere:servers")
	if !found {
		t.Fatal("Expected to find vsphere:servers")
	}
	if got := val.([]string); len(got) != 1 || got[0] != "web-01" {
		t.Errorf("Expected [web-01], got %v", got)
	}
}

func TestCache_Expiration(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	c.Set("key1", "value1")
	clock.Advance(59 * time.Second)
	if _, found := c.Get("key1"); !found {
		t.Error("Expected key1 before its TTL")
	}

	clock.Advance(time.Second)
	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be expired at its TTL")
	}
}

func TestCache_SetWithTTL(t *testing.T) {
	c, clock := newTestCache(t, time.Hour)

	c.SetWithTTL("short", 1, 10*time.Second)
	c.Set("long", 2)
	clock.Advance(30 * time.Second)

	if _, found := c.Get("short"); found {
		t.Error("Expected custom TTL to override the default")
	}
	if _, found := c.Get("long"); !found {
		t.Error("Expected default TTL entry to survive")
	}
}

func TestCache_SetWithTTL_NonPositiveRemoves(t *testing.T) {
	c, _ := newTestCache(t, time.Hour)

	c.Set("key1", "value1")
	c.SetWithTTL("key1", "value2", 0)

	if _, found := c.Get("key1"); found {
		t.Error("Expected zero TTL to remove the entry")
	}
}

func TestCache_Clear(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)

	c.Set("key1", "value1")
	c.Clear("key1")

	if _, found := c.Get("key1"); found {
		t.Error("Expected key1 to be cleared")
	}
}

func TestCache_SweepAndLen(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	c.Set("a", 1)
	c.SetWithTTL("b", 2, time.Hour)
	if c.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", c.Len())
	}

	clock.Advance(2 * time.Minute)
	c.sweep()

	if c.Len() != 1 {
		t.Errorf("Expected 1 entry after sweep, got %d", c.Len())
	}
	if _, ok := c.store.Load("a"); ok {
		t.Error("Expected sweep to delete the expired entry")
	}
}

func TestCache_CloseIsIdempotent(t *testing.T) {
	c := New(time.Minute)
	c.Close()
	c.Close()
}

func TestCache_ExpiredSliceValues(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	c.Set("vsphere:servers", []string{"web-01"})
	c.Set("vsphere:vms", []map[string]int{{"cpu": 4}})
	clock.Advance(2 * time.Minute)

	if _, found := c.Get("vsphere:servers"); found {
		t.Error("Expected expired slice value to miss")
	}
	if _, ok := c.store.Load("vsphere:servers"); ok {
		t.Error("Expected Get to delete the expired slice entry")
	}

	c.sweep()
	if _, ok := c.store.Load("vsphere:vms"); ok {
		t.Error("Expected sweep to delete the expired slice entry")
	}
}

func TestCache_ExpiredEntryReplacedBeforeDelete(t *testing.T) {
	c, clock := newTestCache(t, time.Minute)

	c.Set("key1", []string{"old"})
	clock.Advance(2 * time.Minute)
	stale, _ := c.store.Load("key1")

	c.Set("key1", []string{"new"})
	c.store.CompareAndDelete("key1", stale)

	val, found := c.Get("key1")
	if !found {
		t.Fatal("Expected the refreshed entry to survive removal of the stale one")
	}
	if got := val.([]string); got[0] != "new" {
		t.Errorf("Expected [new], got %v", got)
	}
}
