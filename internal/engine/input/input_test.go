package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

type recordingSink struct {
	moves   [][2]float32
	leaves  int
	resizes [][2]int
}

func (s *recordingSink) PointerMove(x, y float32) { s.moves = append(s.moves, [2]float32{x, y}) }
func (s *recordingSink) PointerLeave()            { s.leaves++ }
func (s *recordingSink) Resize(w, h int)          { s.resizes = append(s.resizes, [2]int{w, h}) }

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  EventType
		ok    bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, EventQuit, true},
		{"motion", &sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20}, EventMouseMove, true},
		{"leave", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_LEAVE}, EventMouseLeave, true},
		{"resize", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 640, Data2: 480}, EventWindowResize, true},
		{"moved", &sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_MOVED}, EventNone, false},
		{"keydown", &sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_ESCAPE}}, EventKeyDown, true},
		{"button", &sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN}, EventNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := translate(tt.event)
			if ok != tt.ok || got.Type != tt.want {
				t.Errorf("translate = %v, %v; want %v, %v", got.Type, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestDispatch(t *testing.T) {
	sink := &recordingSink{}
	dispatch([]Event{
		{Type: EventMouseMove, MouseX: 5, MouseY: 6},
		{Type: EventKeyDown, Key: sdl.SCANCODE_A},
		{Type: EventMouseLeave},
		{Type: EventWindowResize, Width: 300, Height: 200},
	}, sink)

	if len(sink.moves) != 1 || sink.moves[0] != [2]float32{5, 6} {
		t.Errorf("moves = %v", sink.moves)
	}
	if sink.leaves != 1 {
		t.Errorf("leaves = %d", sink.leaves)
	}
	if len(sink.resizes) != 1 || sink.resizes[0] != [2]int{300, 200} {
		t.Errorf("resizes = %v", sink.resizes)
	}
}

func TestQuitRequested(t *testing.T) {
	in := New()
	in.events = append(in.events, Event{Type: EventKeyDown, Key: sdl.SCANCODE_ESCAPE})
	if !in.QuitRequested() {
		t.Error("Escape should request quit")
	}

	in.events = in.events[:0]
	in.events = append(in.events, Event{Type: EventKeyDown, Key: sdl.SCANCODE_SPACE})
	if in.QuitRequested() {
		t.Error("Space should not request quit")
	}
}
