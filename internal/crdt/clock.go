package crdt

import (
	"sync"
	"time"
)

// Точность меток времени: JSON и SQLite хранят их без потерь
const resolution = time.Millisecond

// Clock stamps local modifications. Stamps never go backwards and never
// repeat, even when the wall clock does, and they stay ahead of every
// remote stamp the device has observed. This keeps a local edit made after
// applying a remote copy newer than that copy under last-writer-wins.
type Clock struct {
	last time.Time
	now  func() time.Time
	mu   sync.Mutex
}

// NewClock creates a clock backed by the wall clock.
func NewClock() *Clock {
	return &Clock{now: time.Now}
}

// NewClockWithSource creates a clock with a custom time source. Used in tests.
func NewClockWithSource(now func() time.Time) *Clock {
	return &Clock{now: now}
}

// Tick returns the stamp for a new local modification.
func (c *Clock) Tick() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC().Truncate(resolution)
	if !t.After(c.last) {
		t = c.last.Add(resolution)
	}
	c.last = t

	return t
}

// Observe records a stamp seen on a remote copy.
// The next Tick will be strictly after it.
func (c *Clock) Observe(remote time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	remote = remote.UTC().Truncate(resolution)
	if remote.After(c.last) {
		c.last = remote
	}
}

// Last returns the most recent stamp issued or observed.
func (c *Clock) Last() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.last
}
