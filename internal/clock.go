package internal

import (
	"sort"
	"sync"
	"time"
)

// Clock abstracts time so debounce, auto-dismiss and watch-window timers are
// controllable in tests and in the replay harness.
type Clock interface {
	Now() time.Time

	// AfterFunc schedules fn after d and returns a cancel function. Cancel
	// after firing is a no-op.
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// SystemClock is the wall-clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) AfterFunc(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// postedClock wraps a Clock so timer callbacks are delivered through a post
// function instead of running on the underlying clock's goroutine. The
// engine wraps its clock this way: all shared state is touched only on the
// page event loop, and a SystemClock fires callbacks elsewhere.
type postedClock struct {
	clock Clock
	post  func(fn func())
}

func (c postedClock) Now() time.Time {
	return c.clock.Now()
}

func (c postedClock) AfterFunc(d time.Duration, fn func()) func() {
	return c.clock.AfterFunc(d, func() { c.post(fn) })
}

// ManualClock is a deterministic clock advanced explicitly. Timers fire in
// deadline order during Advance, on the caller's goroutine.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers map[int]*manualTimer
}

type manualTimer struct {
	id       int
	deadline time.Time
	fn       func()
}

// NewManualClock creates a ManualClock starting at the given time.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start, timers: make(map[int]*manualTimer)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) AfterFunc(d time.Duration, fn func()) func() {
	c.mu.Lock()
	c.seq++
	t := &manualTimer{id: c.seq, deadline: c.now.Add(d), fn: fn}
	c.timers[t.id] = t
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.timers, t.id)
		c.mu.Unlock()
	}
}

// Advance moves the clock forward, firing due timers in deadline order. A
// timer's callback may schedule further timers; those fire too if due.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		t := c.popDue(target)
		if t == nil {
			break
		}
		t.fn()
	}

	c.mu.Lock()
	c.now = target
	c.mu.Unlock()
}

func (c *ManualClock) popDue(target time.Time) *manualTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due []*manualTimer
	for _, t := range c.timers {
		if !t.deadline.After(target) {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})

	t := due[0]
	delete(c.timers, t.id)
	if t.deadline.After(c.now) {
		c.now = t.deadline
	}
	return t
}

// PendingTimers returns the number of scheduled, unfired timers.
func (c *ManualClock) PendingTimers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}
