// Package input turns SDL2 events into demo input: key presses, mouse
// look deltas and held movement keys.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// Event types for demo use
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
	EventMouseMove
	EventMouseDown
	EventMouseUp
	EventMouseWheel
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
	MouseX int
	MouseY int
	DeltaX int
	DeltaY int
	Button uint8
}

// Input handles all input processing.
type Input struct {
	events []Event

	// Buttons currently held, indexed by SDL button number.
	buttons [8]bool

	// Look accumulates relative mouse motion while the right button is held.
	lookX, lookY float32

	// Drag accumulates relative mouse motion while the left button is held.
	dragX, dragY float32
	wheel        float32

	keyState func() []uint8
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events:   make([]Event, 0, 16),
		keyState: sdl.GetKeyboardState,
	}
}

// Update polls SDL events and converts them to demo events.
// Returns true if the demo should quit.
func (i *Input) Update() bool {
	i.events = i.events[:0] // Clear previous events
	i.lookX, i.lookY, i.wheel = 0, 0, 0
	i.dragX, i.dragY = 0, 0

	quit := false
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if i.handle(event) {
			quit = true
		}
	}
	return quit
}

// handle records one SDL event and reports whether it asks to quit.
func (i *Input) handle(event sdl.Event) bool {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		i.events = append(i.events, Event{Type: EventQuit})
		return true

	case *sdl.WindowEvent:
		if e.Event == sdl.WINDOWEVENT_RESIZED || e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
			i.events = append(i.events, Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			})
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return false
		}
		if e.Type == sdl.KEYDOWN {
			i.events = append(i.events, Event{
				Type: EventKeyDown,
				Key:  e.Keysym.Scancode,
			})
		} else if e.Type == sdl.KEYUP {
			i.events = append(i.events, Event{
				Type: EventKeyUp,
				Key:  e.Keysym.Scancode,
			})
		}

	case *sdl.MouseMotionEvent:
		i.events = append(i.events, Event{
			Type:   EventMouseMove,
			MouseX: int(e.X),
			MouseY: int(e.Y),
			DeltaX: int(e.XRel),
			DeltaY: int(e.YRel),
		})
		if i.ButtonDown(sdl.BUTTON_RIGHT) {
			i.lookX += float32(e.XRel)
			i.lookY += float32(e.YRel)
		}
		if i.ButtonDown(sdl.BUTTON_LEFT) {
			i.dragX += float32(e.XRel)
			i.dragY += float32(e.YRel)
		}

	case *sdl.MouseButtonEvent:
		if int(e.Button) < len(i.buttons) {
			i.buttons[e.Button] = e.Type == sdl.MOUSEBUTTONDOWN
		}
		if e.Type == sdl.MOUSEBUTTONDOWN {
			i.events = append(i.events, Event{
				Type:   EventMouseDown,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})
		} else if e.Type == sdl.MOUSEBUTTONUP {
			i.events = append(i.events, Event{
				Type:   EventMouseUp,
				MouseX: int(e.X),
				MouseY: int(e.Y),
				Button: e.Button,
			})
		}

	case *sdl.MouseWheelEvent:
		i.wheel += float32(e.Y)
		i.events = append(i.events, Event{Type: EventMouseWheel, DeltaY: int(e.Y)})
	}
	return false
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
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

// ButtonDown reports whether a mouse button is held.
func (i *Input) ButtonDown(button uint8) bool {
	return int(button) < len(i.buttons) && i.buttons[button]
}

// Look returns the mouse movement made with the right button held since
// the last Update.
func (i *Input) Look() (dx, dy float32) {
	return i.lookX, i.lookY
}

// Drag returns the mouse movement made with the left button held since
// the last Update.
func (i *Input) Drag() (dx, dy float32) {
	return i.dragX, i.dragY
}

// Wheel returns the scroll amount since the last Update.
func (i *Input) Wheel() float32 {
	return i.wheel
}

// Axis returns -1, 0 or 1 depending on which of two held keys is down.
func (i *Input) Axis(negative, positive sdl.Scancode) float32 {
	state := i.keyState()
	var v float32
	if int(positive) < len(state) && state[positive] != 0 {
		v++
	}
	if int(negative) < len(state) && state[negative] != 0 {
		v--
	}
	return v
}
