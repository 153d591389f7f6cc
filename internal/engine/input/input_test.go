package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func source(events ...sdl.Event) func() sdl.Event {
	return func() sdl.Event {
		if len(events) == 0 {
			return nil
		}
		e := events[0]
		events = events[1:]
		return e
	}
}

func key(typ uint32, code sdl.Scancode) *sdl.KeyboardEvent {
	return &sdl.KeyboardEvent{Type: typ, Keysym: sdl.Keysym{Scancode: code}}
}

func TestUpdateKeys(t *testing.T) {
	in := NewWithSource(source(
		key(sdl.KEYDOWN, sdl.SCANCODE_F1),
		key(sdl.KEYDOWN, sdl.SCANCODE_W),
	))
	if in.Update() {
		t.Fatal("Update reported quit")
	}
	if !in.IsKeyPressed(sdl.SCANCODE_F1) {
		t.Error("F1 should be pressed this frame")
	}
	if !in.IsKeyDown(sdl.SCANCODE_W) {
		t.Error("W should be held")
	}
	if got := len(in.Events()); got != 2 {
		t.Errorf("got %d events, want 2", got)
	}
}

func TestHeldKeysSurviveFrames(t *testing.T) {
	events := []sdl.Event{key(sdl.KEYDOWN, sdl.SCANCODE_A)}
	in := NewWithSource(func() sdl.Event {
		if len(events) == 0 {
			return nil
		}
		e := events[0]
		events = events[1:]
		return e
	})

	in.Update()
	in.Update()
	if in.IsKeyPressed(sdl.SCANCODE_A) {
		t.Error("A should not be pressed on the second frame")
	}
	if !in.IsKeyDown(sdl.SCANCODE_A) {
		t.Error("A should still be held")
	}

	events = append(events, key(sdl.KEYUP, sdl.SCANCODE_A))
	in.Update()
	if in.IsKeyDown(sdl.SCANCODE_A) {
		t.Error("A should be released")
	}
}

func TestKeyRepeatIgnored(t *testing.T) {
	rep := key(sdl.KEYDOWN, sdl.SCANCODE_F1)
	rep.Repeat = 1
	in := NewWithSource(source(rep))
	in.Update()
	if in.IsKeyPressed(sdl.SCANCODE_F1) {
		t.Error("repeated key should be ignored")
	}
}

func TestUpdateQuit(t *testing.T) {
	in := NewWithSource(source(&sdl.QuitEvent{Type: sdl.QUIT}, key(sdl.KEYDOWN, sdl.SCANCODE_A)))
	if !in.Update() {
		t.Fatal("Update should report quit")
	}
	if in.Events()[0].Type != EventQuit {
		t.Errorf("first event = %v, want EventQuit", in.Events()[0].Type)
	}
}

func TestMouseEvents(t *testing.T) {
	in := NewWithSource(source(
		&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT, X: 10, Y: 20},
		&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 15, Y: 18, XRel: 5, YRel: -2},
		&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: -1},
		&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_RESIZED, Data1: 800, Data2: 600},
	))
	in.Update()

	if !in.IsButtonDown(sdl.BUTTON_LEFT) {
		t.Error("left button should be held")
	}

	evs := in.Events()
	if len(evs) != 4 {
		t.Fatalf("got %d events, want 4", len(evs))
	}
	if evs[1].DeltaX != 5 || evs[1].DeltaY != -2 {
		t.Errorf("motion delta = (%d, %d), want (5, -2)", evs[1].DeltaX, evs[1].DeltaY)
	}
	if evs[2].Wheel != -1 {
		t.Errorf("wheel = %v, want -1", evs[2].Wheel)
	}
	if evs[3].Width != 800 || evs[3].Height != 600 {
		t.Errorf("resize = %dx%d, want 800x600", evs[3].Width, evs[3].Height)
	}
}
