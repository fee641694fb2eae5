package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func newTestInput(keys []uint8) *Input {
	in := New()
	in.keyState = func() []uint8 { return keys }
	return in
}

func TestHandleKeyEvents(t *testing.T) {
	in := newTestInput(nil)

	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_F12}})
	in.handle(&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Repeat: 1, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_Q}})

	assert.True(t, in.IsKeyPressed(sdl.SCANCODE_F12))
	assert.False(t, in.IsKeyPressed(sdl.SCANCODE_Q), "key repeat must not count as a press")
}

func TestHandleQuit(t *testing.T) {
	in := newTestInput(nil)
	assert.True(t, in.handle(&sdl.QuitEvent{Type: sdl.QUIT}))
	assert.Equal(t, EventQuit, in.Events()[0].Type)
}

func TestLookOnlyWithRightButton(t *testing.T) {
	in := newTestInput(nil)

	in.handle(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, XRel: 5, YRel: 3})
	dx, dy := in.Look()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT})
	in.handle(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, XRel: 5, YRel: 3})
	in.handle(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, XRel: -2, YRel: 1})
	dx, dy = in.Look()
	assert.Equal(t, float32(3), dx)
	assert.Equal(t, float32(4), dy)

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONUP, Button: sdl.BUTTON_RIGHT})
	assert.False(t, in.ButtonDown(sdl.BUTTON_RIGHT))
}

func TestDragOnlyWithLeftButton(t *testing.T) {
	in := newTestInput(nil)

	in.handle(&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_LEFT})
	in.handle(&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, XRel: 4, YRel: -2})

	dx, dy := in.Drag()
	assert.Equal(t, float32(4), dx)
	assert.Equal(t, float32(-2), dy)

	lx, ly := in.Look()
	assert.Zero(t, lx, "left drag must not steer the player")
	assert.Zero(t, ly)
}

func TestAxis(t *testing.T) {
	keys := make([]uint8, 512)
	in := newTestInput(keys)

	assert.Zero(t, in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W))

	keys[sdl.SCANCODE_W] = 1
	assert.Equal(t, float32(1), in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W))

	keys[sdl.SCANCODE_S] = 1
	assert.Zero(t, in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W))

	keys[sdl.SCANCODE_W] = 0
	assert.Equal(t, float32(-1), in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W))
}
