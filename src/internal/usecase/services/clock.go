package services

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
}

// SystemClock returns UTC wall time truncated to microseconds and never repeats or
// goes backwards, so ledger timestamps are strictly increasing.
type SystemClock struct {
	mu   sync.Mutex
	last time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

func (c *SystemClock) Now() time.Time {
	now := time.Now().UTC().Truncate(time.Microsecond)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.After(c.last) {
		now = c.last.Add(time.Microsecond)
	}
	c.last = now
	return now
}
