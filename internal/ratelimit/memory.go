package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	count   int
	started time.Time
}

// MemoryCounter keeps at most capacity keys. Expired keys are dropped when
// room is needed; if none expired the oldest window is evicted.
type MemoryCounter struct {
	mu       sync.Mutex
	window   time.Duration
	capacity int
	entries  map[string]*entry
	now      func() time.Time
}

func NewMemoryCounter(window time.Duration, capacity int) *MemoryCounter {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryCounter{
		window:   window,
		capacity: capacity,
		entries:  make(map[string]*entry, capacity),
		now:      time.Now,
	}
}

func (c *MemoryCounter) Hit(_ context.Context, key string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[key]; ok {
		if now.Sub(e.started) < c.window {
			e.count++
			return e.count, nil
		}
		e.count = 1
		e.started = now
		return 1, nil
	}

	if len(c.entries) >= c.capacity {
		c.makeRoom(now)
	}
	c.entries[key] = &entry{count: 1, started: now}
	return 1, nil
}

func (c *MemoryCounter) Reset(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCounter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCounter) makeRoom(now time.Time) {
	var oldestKey string
	var oldest time.Time
	for k, e := range c.entries {
		if now.Sub(e.started) >= c.window {
			delete(c.entries, k)
			continue
		}
		if oldestKey == "" || e.started.Before(oldest) {
			oldestKey, oldest = k, e.started
		}
	}
	if len(c.entries) >= c.capacity && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

var _ Counter = (*MemoryCounter)(nil)
