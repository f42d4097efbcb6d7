package clock

import (
	"sync"
	"time"
)

type Clock interface {
	Now() time.Time
	Today() Date
}

type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) Today() Date { return DateOf(time.Now()) }

// Fixed is deterministic and test-friendly.
type Fixed struct {
	mu sync.Mutex
	t  time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{t: t}
}

// At returns a Fixed clock set to noon local time on the given day.
func At(year int, month time.Month, day int) *Fixed {
	return NewFixed(time.Date(year, month, day, 12, 0, 0, 0, time.Local))
}

func (c *Fixed) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *Fixed) Today() Date {
	return DateOf(c.Now())
}

func (c *Fixed) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *Fixed) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}
