// Package input handles SDL2 input events and forwards them to a host region.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType classifies a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseLeave
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
}

// Sink receives pointer and size events. host.Region implements it.
type Sink interface {
	PointerMove(x, y float32)
	PointerLeave()
	Resize(width, height int)
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update polls SDL events and converts them.
// Returns true if the viewer should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			i.events = append(i.events, e)
		}
	}
	return i.QuitRequested()
}

// translate converts one SDL event. Events the viewer ignores return false.
func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{Type: EventWindowResize, Width: int(e.Data1), Height: int(e.Data2)}, true
		case sdl.WINDOWEVENT_LEAVE:
			return Event{Type: EventMouseLeave}, true
		}

	case *sdl.KeyboardEvent:
		switch e.Type {
		case sdl.KEYDOWN:
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		case sdl.KEYUP:
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}

	case *sdl.MouseMotionEvent:
		return Event{Type: EventMouseMove, MouseX: int(e.X), MouseY: int(e.Y)}, true
	}
	return Event{}, false
}

// Dispatch forwards pointer and resize events from the last Update to sink.
func (i *Input) Dispatch(sink Sink) {
	dispatch(i.events, sink)
}

func dispatch(events []Event, sink Sink) {
	for _, e := range events {
		switch e.Type {
		case EventMouseMove:
			sink.PointerMove(float32(e.MouseX), float32(e.MouseY))
		case EventMouseLeave:
			sink.PointerLeave()
		case EventWindowResize:
			sink.Resize(e.Width, e.Height)
		}
	}
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// QuitRequested reports a window close or Escape in the last Update.
func (i *Input) QuitRequested() bool {
	for _, e := range i.events {
		if e.Type == EventQuit {
			return true
		}
	}
	return i.IsKeyPressed(sdl.SCANCODE_ESCAPE)
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}
