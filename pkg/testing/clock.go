package testing

import (
	"sync"
	"time"
)

// fakeEpoch is the start time of every NewFakeClock.
var fakeEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// FakeClock provides controllable time for deterministic animation tests.
// It satisfies animation.Clock. All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return NewFakeClockAt(fakeEpoch)
}

// NewFakeClockAt returns a FakeClock starting at t.
func NewFakeClockAt(t time.Time) *FakeClock {
	return &FakeClock{now: t}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set sets the clock to an exact time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
