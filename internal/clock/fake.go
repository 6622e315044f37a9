package clock

import "time"

// FakeClock is a Clock pinned to a fixed instant for tests. It only
// moves when told to.
type FakeClock struct {
	current time.Time
}

// NewFakeClock pins the clock to t, normalized to UTC.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{current: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the pinned instant forward (or back, with a negative d).
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set repins the clock to an exact instant.
func (c *FakeClock) Set(t time.Time) {
	c.current = t.UTC()
}
