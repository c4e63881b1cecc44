package clock

import "time"

// Clock abstracts the current time so that lifecycle jobs and proration
// can be tested against fixed dates.
type Clock interface {
	Now() time.Time
	// Today returns the current date truncated to midnight UTC.
	Today() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func NewRealClock() *RealClock {
	return &RealClock{}
}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

func (RealClock) Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// FixedClock always reports the same instant. Advance moves it forward,
// which lets tests walk a subscription through its billing cycle.
type FixedClock struct {
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now.UTC()}
}

func (c *FixedClock) Now() time.Time {
	return c.now
}

func (c *FixedClock) Today() time.Time {
	return time.Date(c.now.Year(), c.now.Month(), c.now.Day(), 0, 0, 0, 0, time.UTC)
}

func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func (c *FixedClock) AdvanceDays(days int) {
	c.now = c.now.AddDate(0, 0, days)
}

func (c *FixedClock) Set(t time.Time) {
	c.now = t.UTC()
}
