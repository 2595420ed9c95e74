package testutil

import (
	"sync"
	"time"
)

// FrozenClock returns a fixed wall-clock time until advanced.
//
// Pass its Now method wherever the tracker takes a now func. Freezing
// time keeps run timestamps stable across test runs, which golden files
// require.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FrozenClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFrozenClock creates a clock frozen at t.
func NewFrozenClock(t time.Time) *FrozenClock {
	return &FrozenClock{now: t}
}

// Now returns the frozen time.
func (c *FrozenClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FrozenClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
