package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"gravfield/internal/sim"
	"gravfield/internal/uniforms"
)

// keyBinding maps a held key to a parameter action; shifted selects the
// alternative when Shift is down.
type keyBinding struct {
	key     ebiten.Key
	action  uniforms.Action
	shifted uniforms.Action
}

var keyBindings = []keyBinding{
	{ebiten.KeyPageUp, uniforms.VmaxUp, uniforms.VminUp},
	{ebiten.KeyPageDown, uniforms.VmaxDown, uniforms.VminDown},
	{ebiten.KeyArrowUp, uniforms.BetaUp, uniforms.BetaUp},
	{ebiten.KeyArrowDown, uniforms.BetaDown, uniforms.BetaDown},
	{ebiten.KeyArrowLeft, uniforms.AlphaUp, uniforms.AlphaUp},
	{ebiten.KeyArrowRight, uniforms.AlphaDown, uniforms.AlphaDown},
	{ebiten.KeyQ, uniforms.TvminUp, uniforms.TvminUp},
	{ebiten.KeyA, uniforms.TvminDown, uniforms.TvminDown},
	{ebiten.KeyW, uniforms.TvmaxUp, uniforms.TvmaxUp},
	{ebiten.KeyS, uniforms.TvmaxDown, uniforms.TvmaxDown},
}

// inputState remembers what is needed to turn polled input into edges.
type inputState struct {
	focused     bool
	cursorX     int
	cursorY     int
	cursorKnown bool
	leftHeld    bool
}

// repeating reports whether k fired this tick: once on press, then
// periodically while held.
func repeating(k ebiten.Key) bool {
	d := inpututil.KeyPressDuration(k)
	if d == 1 {
		return true
	}
	return d >= keyRepeatDelay && (d-keyRepeatDelay)%keyRepeatInterval == 0
}

func shiftDown() bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift)
}

// poll pushes one command per input event of the current tick.
func (s *inputState) poll(q *sim.Queue) {
	if focused := ebiten.IsFocused(); focused != s.focused {
		s.focused = focused
		q.Push(sim.VisibilityChanged())
	}

	shift := shiftDown()
	for _, b := range keyBindings {
		if !repeating(b.key) {
			continue
		}
		a := b.action
		if shift {
			a = b.shifted
		}
		q.Push(sim.Adjust(a))
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit0) || inpututil.IsKeyJustPressed(ebiten.KeyNumpad0) {
		q.Push(sim.ToggleField())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit9) || inpututil.IsKeyJustPressed(ebiten.KeyNumpad9) {
		q.Push(sim.TogglePoints())
	}

	x, y := ebiten.CursorPosition()
	px, py := float32(x), float32(y)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		s.leftHeld = true
		q.Push(sim.PointerDown(px, py, false))
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		q.Push(sim.PointerDown(px, py, true))
	}
	if !s.cursorKnown || x != s.cursorX || y != s.cursorY {
		if s.cursorKnown {
			q.Push(sim.PointerMove(px, py, shift))
		}
		s.cursorX, s.cursorY, s.cursorKnown = x, y, true
	}
	if s.leftHeld && inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		s.leftHeld = false
		q.Push(sim.PointerUp())
	}
}
