// Package planets keeps the user placed gravitational bodies.
package planets

import "github.com/go-gl/mathgl/mgl32"

// MaxPlanets is the size of the device side planet arrays. A registry
// never holds more planets than this.
const MaxPlanets = 10

// Planet is a gravitational body in world coordinates.
type Planet struct {
	Position mgl32.Vec2
	Radius   float32
}

// Registry is a bounded list of planets. The most recently created planet
// can be resized while the registry is armed.
type Registry struct {
	planets  []Planet
	capacity int
	armed    bool
}

// NewRegistry returns an empty registry holding at most capacity planets.
// capacity is limited to [0, MaxPlanets].
func NewRegistry(capacity int) *Registry {
	capacity = min(max(capacity, 0), MaxPlanets)
	return &Registry{
		planets:  make([]Planet, 0, capacity),
		capacity: capacity,
	}
}

// Begin appends a zero radius planet at p and arms the registry. A full
// registry is left untouched.
func (r *Registry) Begin(p mgl32.Vec2) bool {
	if len(r.planets) >= r.capacity {
		return false
	}
	r.planets = append(r.planets, Planet{Position: p})
	r.armed = true
	return true
}

// Update sets the radius of the planet being sized to its distance from p.
func (r *Registry) Update(p mgl32.Vec2) {
	if !r.armed {
		return
	}
	last := &r.planets[len(r.planets)-1]
	last.Radius = last.Position.Sub(p).Len()
}

// End disarms the registry; the last planet keeps its radius.
func (r *Registry) End() { r.armed = false }

// RemoveAt drops every planet whose distance to p is greater than its
// radius, so only planets whose circle contains p survive. It does nothing
// while a planet is being sized and reports how many planets were removed.
func (r *Registry) RemoveAt(p mgl32.Vec2) int {
	if r.armed {
		return 0
	}
	kept := r.planets[:0]
	for _, pl := range r.planets {
		if pl.Position.Sub(p).Len() > pl.Radius {
			continue
		}
		kept = append(kept, pl)
	}
	removed := len(r.planets) - len(kept)
	clear(r.planets[len(kept):])
	r.planets = kept
	return removed
}

// Len returns the number of planets.
func (r *Registry) Len() int { return len(r.planets) }

// Cap returns the registry capacity.
func (r *Registry) Cap() int { return r.capacity }

// Armed reports whether a planet is being sized.
func (r *Registry) Armed() bool { return r.armed }

// Planets returns a copy of the current planets.
func (r *Registry) Planets() []Planet {
	return append([]Planet(nil), r.planets...)
}
