package sim

import (
	"log/slog"
	"sync"

	"gravfield/internal/uniforms"
)

// Command is one input intent applied to the context between frames.
type Command func(*Context)

// Queue collects commands from any goroutine until the frame loop drains
// them.
type Queue struct {
	mu      sync.Mutex
	pending []Command
	spare   []Command
}

// Push appends c. It is safe for concurrent use.
func (q *Queue) Push(c Command) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}

// Drain applies every queued command to ctx in push order and returns how
// many ran.
func (q *Queue) Drain(ctx *Context) int {
	q.mu.Lock()
	cmds := q.pending
	q.pending = q.spare[:0]
	q.mu.Unlock()

	for _, c := range cmds {
		c(ctx)
	}
	clear(cmds)
	q.mu.Lock()
	q.spare = cmds[:0]
	q.mu.Unlock()
	return len(cmds)
}

// Len returns the number of pending commands.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Adjust applies a keyboard parameter change.
func Adjust(a uniforms.Action) Command {
	return func(c *Context) {
		c.Uniforms.Apply(a)
		slog.Debug("parameter adjusted", "action", a.String())
	}
}

// ToggleField flips the field pass.
func ToggleField() Command {
	return func(c *Context) { c.Flags.DrawField = !c.Flags.DrawField }
}

// TogglePoints flips the particle pass.
func TogglePoints() Command {
	return func(c *Context) { c.Flags.DrawPoints = !c.Flags.DrawPoints }
}

// Resize records a new viewport size.
func Resize(width, height int) Command {
	return func(c *Context) { c.Resize(width, height) }
}

// PointerDown starts sizing a planet at the pixel position, or with
// secondary set, deletes planets around it.
func PointerDown(px, py float32, secondary bool) Command {
	return func(c *Context) {
		p := c.CursorToWorld(px, py)
		if secondary {
			if n := c.Planets.RemoveAt(p); n > 0 {
				slog.Debug("planets removed", "count", n, "remaining", c.Planets.Len())
			}
			return
		}
		if !c.Planets.Begin(p) {
			slog.Debug("planet rejected, registry full", "capacity", c.Planets.Cap())
		}
	}
}

// PointerMove resizes the planet being placed and, with setOrigin, moves
// the field origin.
func PointerMove(px, py float32, setOrigin bool) Command {
	return func(c *Context) {
		p := c.CursorToWorld(px, py)
		c.Planets.Update(p)
		if setOrigin {
			c.Uniforms.Origin = p
		}
	}
}

// PointerUp finishes placing a planet.
func PointerUp() Command {
	return func(c *Context) { c.Planets.End() }
}

// VisibilityChanged drops the frame timestamp so the next frame does not
// integrate over the time spent in the background.
func VisibilityChanged() Command {
	return func(c *Context) { c.Timing.Reset() }
}

// Tune hands the parameter set to apply, e.g. after a config reload.
func Tune(apply func(*uniforms.Set)) Command {
	return func(c *Context) {
		apply(&c.Uniforms)
		slog.Info("parameters updated", "tvmin", c.Uniforms.Tvmin, "tvmax", c.Uniforms.Tvmax,
			"alpha", c.Uniforms.Alpha, "beta", c.Uniforms.Beta, "vmin", c.Uniforms.Vmin, "vmax", c.Uniforms.Vmax)
	}
}
