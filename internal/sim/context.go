// Package sim drives one frame of the particle simulation: it owns the
// simulation context, applies queued input and runs the device stages in
// order.
package sim

import (
	"github.com/go-gl/mathgl/mgl32"

	"gravfield/internal/planets"
	"gravfield/internal/uniforms"
)

// Flags selects the optional draw passes.
type Flags struct {
	DrawField  bool
	DrawPoints bool
}

// Timing remembers the previous frame timestamp in seconds.
type Timing struct {
	previous float64
	running  bool
}

// Advance returns the time since the previous frame, or 0 when idle, and
// records now.
func (t *Timing) Advance(now float64) float64 {
	dt := 0.0
	if t.running {
		dt = now - t.previous
	}
	t.previous = now
	t.running = true
	return dt
}

// Reset returns to idle so the next frame reports a zero delta.
func (t *Timing) Reset() { t.running = false }

// Running reports whether a previous timestamp is recorded.
func (t *Timing) Running() bool { return t.running }

// Context is all mutable simulation state besides particle memory. Only
// the frame loop and commands it drains touch it.
type Context struct {
	Uniforms uniforms.Set
	Planets  *planets.Registry
	Flags    Flags
	Timing   Timing

	width  int
	height int
}

// NewContext returns a context with default uniforms for a viewport of
// width x height pixels.
func NewContext(width, height, maxPlanets int) *Context {
	c := &Context{
		Uniforms: uniforms.Defaults(),
		Planets:  planets.NewRegistry(maxPlanets),
		Flags:    Flags{DrawField: true, DrawPoints: true},
	}
	c.Resize(width, height)
	return c
}

// Resize records the viewport size and updates uScale.
func (c *Context) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.width, c.height = width, height
	c.Uniforms.Resize(width, height)
}

// Viewport returns the last viewport size.
func (c *Context) Viewport() (int, int) { return c.width, c.height }

// CursorToWorld maps a pixel position, origin top left, to world
// coordinates.
func (c *Context) CursorToWorld(px, py float32) mgl32.Vec2 {
	if c.width <= 0 || c.height <= 0 {
		return mgl32.Vec2{}
	}
	x := px/float32(c.width)*2 - 1
	y := (1-py/float32(c.height))*2 - 1
	return mgl32.Vec2{c.Uniforms.Scale[0] * x, c.Uniforms.Scale[1] * y}
}

// Snapshot is the read only view every stage of one frame shares.
type Snapshot struct {
	Uniforms uniforms.Set
	Planets  planets.Slots
	Flags    Flags
}

// Snapshot copies the current state.
func (c *Context) Snapshot() Snapshot {
	return Snapshot{
		Uniforms: c.Uniforms,
		Planets:  c.Planets.Slots(),
		Flags:    c.Flags,
	}
}
