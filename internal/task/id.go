package task

import "time"

// IDGenerator hands out task ids.
type IDGenerator interface {
	Next() int64
	// Seed records an id already in use so later ids are greater.
	Seed(id int64)
}

// ClockIDs derives ids from the millisecond wall clock. When the clock has
// not moved past the last issued id, the next id is last+1, so two tasks
// created within the same millisecond still get distinct ids.
type ClockIDs struct {
	clock Clock
	last  int64
}

func NewClockIDs(clock Clock) *ClockIDs {
	if clock == nil {
		clock = RealClock{}
	}
	return &ClockIDs{clock: clock}
}

func (g *ClockIDs) Next() int64 {
	id := g.clock.Now().UnixMilli()
	if id <= g.last {
		id = g.last + 1
	}
	g.last = id
	return id
}

func (g *ClockIDs) Seed(id int64) {
	if id > g.last {
		g.last = id
	}
}

type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	t time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.t = t
}

func (c *FakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}
