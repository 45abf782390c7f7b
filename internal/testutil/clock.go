package testutil

import (
	"sync"
	"time"
)

// FixedClock is a manually driven clock for tests.
//
// It returns the same instant until Advance or Set moves it, so timestamps
// and date-keys in a test are fully determined by the test itself.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// DefaultTestTime is the instant NewFixedClock uses when given the zero time.
var DefaultTestTime = time.Date(2024, time.March, 1, 9, 30, 0, 0, time.UTC)

// NewFixedClock creates a clock frozen at t (or DefaultTestTime if t is zero).
func NewFixedClock(t time.Time) *FixedClock {
	if t.IsZero() {
		t = DefaultTestTime
	}
	return &FixedClock{now: t}
}

// Now returns the current frozen instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
