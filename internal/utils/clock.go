package utils

import "time"

// Clock abstracts the wall clock so services stamping records can be tested with a fixed time.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always reports the same instant until moved with Advance or Set.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time {
	return c.At
}

func (c *FixedClock) Set(at time.Time) {
	c.At = at
}

func (c *FixedClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}
