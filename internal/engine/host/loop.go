package host

import (
	"sort"
	"sync"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when Advance is called.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d and returns the new time.
func (c *ManualClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

type timer struct {
	id       TimerID
	deadline time.Time
	fn       func()
}

type frameRequest struct {
	id FrameID
	fn func(now time.Time)
}

// Loop is a cooperative scheduler. Callbacks only run inside RunFrame, so a
// host that calls RunFrame from one goroutine gets single-threaded execution.
type Loop struct {
	clock Clock

	mu     sync.Mutex
	nextID uint64
	posted []func()
	timers map[TimerID]*timer
	frames []frameRequest
}

// NewLoop creates a loop reading time from clock.
func NewLoop(clock Clock) *Loop {
	return &Loop{
		clock:  clock,
		timers: make(map[TimerID]*timer),
	}
}

// Now returns the loop clock's time.
func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// RequestFrame schedules fn for the next RunFrame.
func (l *Loop) RequestFrame(fn func(now time.Time)) FrameID {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := FrameID(l.nextID)
	l.frames = append(l.frames, frameRequest{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending frame callback. Unknown ids are ignored.
func (l *Loop) CancelFrame(id FrameID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
}

// AfterFunc schedules fn to run on the first RunFrame at or after now+d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) TimerID {
	deadline := l.clock.Now().Add(d)
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nextID++
	id := TimerID(l.nextID)
	l.timers[id] = &timer{id: id, deadline: deadline, fn: fn}
	return id
}

// CancelTimer drops a pending timer. Unknown ids are ignored.
func (l *Loop) CancelTimer(id TimerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.timers, id)
}

// Post queues fn for the start of the next RunFrame.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.posted = append(l.posted, fn)
}

// RunFrame runs posted callbacks, then due timers in deadline order, then
// the frame callbacks requested before this call. Frames requested while
// running are deferred to the next RunFrame.
func (l *Loop) RunFrame(now time.Time) {
	l.mu.Lock()
	posted := l.posted
	l.posted = nil
	l.mu.Unlock()
	for _, fn := range posted {
		fn()
	}

	for _, t := range l.dueTimers(now) {
		// A callback that ran earlier this frame may have cancelled t.
		l.mu.Lock()
		_, live := l.timers[t.id]
		delete(l.timers, t.id)
		l.mu.Unlock()
		if live {
			t.fn()
		}
	}

	l.mu.Lock()
	frames := l.frames
	l.frames = nil
	l.mu.Unlock()
	for _, f := range frames {
		f.fn(now)
	}
}

func (l *Loop) dueTimers(now time.Time) []*timer {
	l.mu.Lock()
	defer l.mu.Unlock()
	var due []*timer
	for _, t := range l.timers {
		if !t.deadline.After(now) {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].deadline.Equal(due[j].deadline) {
			return due[i].id < due[j].id
		}
		return due[i].deadline.Before(due[j].deadline)
	})
	return due
}

// Pending returns the number of queued posts, timers and frame callbacks.
func (l *Loop) Pending() (posted, timers, frames int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.posted), len(l.timers), len(l.frames)
}
