// Package host defines the region a viewer is mounted into and the
// cooperative loop that schedules its frames, timers and posted callbacks.
package host

import "time"

// FrameID identifies a pending frame callback.
type FrameID uint64

// TimerID identifies a pending timer.
type TimerID uint64

// Rect is a region's bounding box in pointer coordinates.
type Rect struct {
	Left, Top     float32
	Width, Height float32
}

// PointerListener receives pointer events that occur inside a region.
type PointerListener interface {
	PointerMove(x, y float32)
	PointerLeave()
}

// Output is something drawn into the region, presented after every frame
// while attached.
type Output interface {
	Present()
}

// Scheduler runs callbacks on the host's single loop goroutine.
type Scheduler interface {
	Now() time.Time
	// RequestFrame runs fn once on the next frame.
	RequestFrame(fn func(now time.Time)) FrameID
	CancelFrame(id FrameID)
	// AfterFunc runs fn on the first frame at or after now+d.
	AfterFunc(d time.Duration, fn func()) TimerID
	CancelTimer(id TimerID)
	// Post runs fn at the start of the next frame. Safe from any goroutine.
	Post(fn func())
}

// Host is a region of the host application a viewer can be mounted into.
type Host interface {
	Scheduler

	Bounds() Rect
	DevicePixelRatio() float32

	// AddPointerListener subscribes l and returns a function that removes it.
	AddPointerListener(l PointerListener) (remove func())
	// ObserveResize calls fn after the region's size changes and returns a
	// function that disconnects the observer.
	ObserveResize(fn func()) (disconnect func())

	Attach(o Output)
	Detach(o Output)
}
