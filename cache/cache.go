// ABOUTME: In-memory TTL cache for slow upstream lookups such as vSphere discovery
// ABOUTME: Thread-safe, swept in the background, and instrumented with hit/miss counters

package cache

import (
	"log/slog"
	"sync"
	"time"

	"github.com/markalston/migration-advisor/metrics"
)

const sweepInterval = time.Minute

// entry is stored by pointer so expired entries can be removed with
// CompareAndDelete without comparing cached values, which may be slices.
type entry struct {
	data      any
	expiresAt time.Time
}

// Cache holds values until their TTL passes. The zero value is not usable;
// call New.
type Cache struct {
	store sync.Map
	ttl   time.Duration
	now   func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a cache whose Set uses ttl and starts the background sweep.
// Call Close to stop the sweep.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		ttl:  ttl,
		now:  time.Now,
		stop: make(chan struct{}),
	}
	go c.sweepLoop(sweepInterval)
	return c
}

// Get returns the value for key if it has not expired.
func (c *Cache) Get(key string) (any, bool) {
	val, ok := c.store.Load(key)
	if !ok {
		slog.Debug("Cache miss", "key", key)
		metrics.RecordCacheLookup(key, false)
		return nil, false
	}

	e := val.(*entry)
	if !c.now().Before(e.expiresAt) {
		c.store.CompareAndDelete(key, val)
		slog.Debug("Cache expired", "key", key)
		metrics.RecordCacheLookup(key, false)
		return nil, false
	}

	slog.Debug("Cache hit", "key", key)
	metrics.RecordCacheLookup(key, true)
	return e.data, true
}

// Set stores value under key with the default TTL.
func (c *Cache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL stores value under key for ttl. A non-positive ttl removes key.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		c.store.Delete(key)
		return
	}
	c.store.Store(key, &entry{data: value, expiresAt: c.now().Add(ttl)})
	slog.Debug("Cache set", "key", key, "ttl", ttl)
}

// Clear removes key.
func (c *Cache) Clear(key string) {
	c.store.Delete(key)
}

// Len counts entries that have not expired.
func (c *Cache) Len() int {
	now := c.now()
	n := 0
	c.store.Range(func(_, val any) bool {
		if now.Before(val.(*entry).expiresAt) {
			n++
		}
		return true
	})
	return n
}

// Close stops the background sweep. It is safe to call more than once.
func (c *Cache) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}

func (c *Cache) sweep() {
	now := c.now()
	c.store.Range(func(key, val any) bool {
		if !now.Before(val.(*entry).expiresAt) {
			c.store.CompareAndDelete(key, val)
		}
		return true
	})
}

func (c *Cache) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.sweep()
		case <-c.stop:
			return
		}
	}
}
