package host

import (
	"sync"
	"time"
)

// Region is an in-process Host. It dispatches pointer and resize events fed
// to it by its owner (a window event pump, or a test) and presents attached
// outputs after every frame.
type Region struct {
	*Loop

	mu        sync.Mutex
	bounds    Rect
	dpr       float32
	nextSub   int
	listeners map[int]PointerListener
	observers map[int]func()
	outputs   []Output
	inside    bool
}

// NewRegion creates a width x height region at the origin.
func NewRegion(clock Clock, width, height int) *Region {
	return &Region{
		Loop:      NewLoop(clock),
		bounds:    Rect{Width: float32(width), Height: float32(height)},
		dpr:       1,
		listeners: make(map[int]PointerListener),
		observers: make(map[int]func()),
	}
}

// Bounds returns the region's bounding box.
func (r *Region) Bounds() Rect {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds
}

// DevicePixelRatio returns the ratio of drawable pixels to region units.
func (r *Region) DevicePixelRatio() float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dpr
}

// SetDevicePixelRatio changes the reported pixel ratio.
func (r *Region) SetDevicePixelRatio(dpr float32) {
	r.mu.Lock()
	r.dpr = dpr
	r.mu.Unlock()
}

// AddPointerListener subscribes l to pointer events.
func (r *Region) AddPointerListener(l PointerListener) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSub++
	id := r.nextSub
	r.listeners[id] = l
	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// ObserveResize subscribes fn to size changes.
func (r *Region) ObserveResize(fn func()) func() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextSub++
	id := r.nextSub
	r.observers[id] = fn
	return func() {
		r.mu.Lock()
		delete(r.observers, id)
		r.mu.Unlock()
	}
}

// Attach adds o to the outputs presented after each frame.
func (r *Region) Attach(o Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.outputs {
		if existing == o {
			return
		}
	}
	r.outputs = append(r.outputs, o)
}

// Detach removes o. Detaching an output that is not attached does nothing.
func (r *Region) Detach(o Output) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.outputs {
		if existing == o {
			r.outputs = append(r.outputs[:i], r.outputs[i+1:]...)
			return
		}
	}
}

// Subscribers returns the number of pointer listeners, resize observers and
// attached outputs.
func (r *Region) Subscribers() (listeners, observers, outputs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners), len(r.observers), len(r.outputs)
}

// PointerMove dispatches a move at (x, y). Moves outside the bounds are
// delivered as a leave if the pointer was inside.
func (r *Region) PointerMove(x, y float32) {
	r.mu.Lock()
	b := r.bounds
	inBounds := x >= b.Left && x <= b.Left+b.Width && y >= b.Top && y <= b.Top+b.Height
	wasInside := r.inside
	r.inside = inBounds
	listeners := r.snapshotListeners()
	r.mu.Unlock()

	if !inBounds {
		if wasInside {
			for _, l := range listeners {
				l.PointerLeave()
			}
		}
		return
	}
	for _, l := range listeners {
		l.PointerMove(x, y)
	}
}

// PointerLeave dispatches a leave event.
func (r *Region) PointerLeave() {
	r.mu.Lock()
	r.inside = false
	listeners := r.snapshotListeners()
	r.mu.Unlock()
	for _, l := range listeners {
		l.PointerLeave()
	}
}

// Resize changes the region size and notifies observers when it differs.
func (r *Region) Resize(width, height int) {
	r.mu.Lock()
	w, h := float32(width), float32(height)
	if r.bounds.Width == w && r.bounds.Height == h {
		r.mu.Unlock()
		return
	}
	r.bounds.Width = w
	r.bounds.Height = h
	observers := make([]func(), 0, len(r.observers))
	for _, fn := range r.observers {
		observers = append(observers, fn)
	}
	r.mu.Unlock()

	for _, fn := range observers {
		fn()
	}
}

// Frame runs one loop iteration and presents attached outputs.
func (r *Region) Frame(now time.Time) {
	r.RunFrame(now)

	r.mu.Lock()
	outputs := append([]Output(nil), r.outputs...)
	r.mu.Unlock()
	for _, o := range outputs {
		o.Present()
	}
}

func (r *Region) snapshotListeners() []PointerListener {
	out := make([]PointerListener, 0, len(r.listeners))
	for _, l := range r.listeners {
		out = append(out, l)
	}
	return out
}
