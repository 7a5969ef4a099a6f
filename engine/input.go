package engine

import (
	"slices"

	"github.com/jakecoffman/cp"
)

// Key names follow the browser convention the bundled games use: "left",
// "space", "a".
type Key string

const (
	KeyLeft   Key = "left"
	KeyRight  Key = "right"
	KeyUp     Key = "up"
	KeyDown   Key = "down"
	KeySpace  Key = "space"
	KeyEnter  Key = "enter"
	KeyEscape Key = "escape"
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// FrameInput is the raw input snapshot the backend collects each frame.
type FrameInput struct {
	Pressed  []Key
	Down     []Key
	Released []Key

	Mouse         cp.Vector
	MousePressed  []MouseButton
	MouseDown     []MouseButton
	MouseReleased []MouseButton
}

func (f FrameInput) gesture() bool {
	return len(f.Pressed) > 0 || len(f.MousePressed) > 0
}

type inputEntry struct {
	h        *handle
	dispatch func(in *Input)
}

// Input holds the current frame's input and the listeners subscribed to it.
type Input struct {
	cur       FrameInput
	prevMouse cp.Vector
	entries   []inputEntry
	gestured  bool
	onGesture []func()
}

func NewInput() *Input {
	return &Input{}
}

func (in *Input) add(fn func(in *Input)) *EventHandle {
	ev := &EventHandle{}
	in.entries = append(in.entries, inputEntry{h: &ev.handle, dispatch: fn})
	return ev
}

func (in *Input) OnKeyPress(k Key, fn func()) *EventHandle {
	return in.add(func(in *Input) {
		if in.IsKeyPressed(k) {
			fn()
		}
	})
}

// OnKeyPressAny fires once per key pressed this frame.
func (in *Input) OnKeyPressAny(fn func(Key)) *EventHandle {
	return in.add(func(in *Input) {
		for _, k := range in.cur.Pressed {
			fn(k)
		}
	})
}

func (in *Input) OnKeyDown(k Key, fn func()) *EventHandle {
	return in.add(func(in *Input) {
		if in.IsKeyDown(k) {
			fn()
		}
	})
}

func (in *Input) OnKeyRelease(k Key, fn func()) *EventHandle {
	return in.add(func(in *Input) {
		if in.IsKeyReleased(k) {
			fn()
		}
	})
}

func (in *Input) OnMousePress(fn func(MouseButton)) *EventHandle {
	return in.add(func(in *Input) {
		for _, b := range in.cur.MousePressed {
			fn(b)
		}
	})
}

func (in *Input) OnMouseRelease(fn func(MouseButton)) *EventHandle {
	return in.add(func(in *Input) {
		for _, b := range in.cur.MouseReleased {
			fn(b)
		}
	})
}

func (in *Input) OnMouseMove(fn func(pos, delta cp.Vector)) *EventHandle {
	return in.add(func(in *Input) {
		if d := in.MouseDelta(); d.X != 0 || d.Y != 0 {
			fn(in.cur.Mouse, d)
		}
	})
}

// OnGesture fires once, on the first key or mouse press ever seen.
func (in *Input) OnGesture(fn func()) {
	if fn != nil {
		in.onGesture = append(in.onGesture, fn)
	}
}

func (in *Input) Gestured() bool {
	return in.gestured
}

// Dispatch replaces the current snapshot and runs the listeners.
func (in *Input) Dispatch(f FrameInput) {
	in.prevMouse = in.cur.Mouse
	in.cur = f

	if !in.gestured && f.gesture() {
		in.gestured = true
		for _, fn := range in.onGesture {
			fn()
		}
	}

	n := len(in.entries)
	for i := 0; i < n; i++ {
		if e := in.entries[i]; e.h.active() {
			e.dispatch(in)
		}
	}

	live := in.entries[:0]
	for _, e := range in.entries {
		if !e.h.canceled {
			live = append(live, e)
		}
	}
	clear(in.entries[len(live):])
	in.entries = live
}

// Len reports the number of live listeners.
func (in *Input) Len() int {
	n := 0
	for _, e := range in.entries {
		if !e.h.canceled {
			n++
		}
	}
	return n
}

func (in *Input) IsKeyPressed(k Key) bool {
	return slices.Contains(in.cur.Pressed, k)
}

func (in *Input) IsKeyDown(k Key) bool {
	return slices.Contains(in.cur.Down, k)
}

func (in *Input) IsKeyReleased(k Key) bool {
	return slices.Contains(in.cur.Released, k)
}

func (in *Input) MousePos() cp.Vector {
	return in.cur.Mouse
}

func (in *Input) MouseDelta() cp.Vector {
	return in.cur.Mouse.Sub(in.prevMouse)
}

func (in *Input) IsMousePressed(b MouseButton) bool {
	return slices.Contains(in.cur.MousePressed, b)
}

func (in *Input) IsMouseDown(b MouseButton) bool {
	return slices.Contains(in.cur.MouseDown, b)
}

func (in *Input) IsMouseReleased(b MouseButton) bool {
	return slices.Contains(in.cur.MouseReleased, b)
}
