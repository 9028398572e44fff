// Package uniforms holds the parameter set shared by every device stage.
package uniforms

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Bounds and step sizes for keyboard driven changes.
const (
	MinTvmin = 1
	MaxTvmin = 19
	MinTvmax = 2
	MaxTvmax = 20

	lifeStep  = 1
	angleStep = 0.1
	speedStep = 0.05

	// viewHalfWidth is the half extent of the visible world along x.
	viewHalfWidth = 1.5
)

// Set is the uniform parameter set. It is a plain value: copying it yields
// a consistent snapshot for one frame.
type Set struct {
	Scale     mgl32.Vec2
	DeltaTime float32
	Tvmin     float32
	Tvmax     float32
	Alpha     float32
	Beta      float32
	Vmin      float32
	Vmax      float32
	Origin    mgl32.Vec2
}

// Defaults returns the startup parameters for a square viewport.
func Defaults() Set {
	return Set{
		Scale: mgl32.Vec2{viewHalfWidth, viewHalfWidth},
		Tvmin: 2,
		Tvmax: 10,
		Alpha: 0,
		Beta:  math32.Pi,
		Vmin:  0.1,
		Vmax:  0.2,
	}
}

// Resize recomputes the aspect corrected half extent for a viewport of
// width x height pixels. Degenerate sizes are ignored.
func (s *Set) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.Scale = mgl32.Vec2{viewHalfWidth, viewHalfWidth * float32(height) / float32(width)}
}

// SetLifetime stores the lifetime bounds, clamped to their ranges.
func (s *Set) SetLifetime(tvmin, tvmax float32) {
	s.Tvmin = clamp(tvmin, MinTvmin, MaxTvmin)
	s.Tvmax = clamp(tvmax, MinTvmax, MaxTvmax)
}

// SetAngles stores the field orientation. Beta is wrapped into [-π, π].
func (s *Set) SetAngles(alpha, beta float32) {
	s.Alpha = alpha
	s.Beta = wrapAngle(beta)
}

// SetSpeed stores the velocity bounds keeping 0 <= vmin <= vmax.
func (s *Set) SetSpeed(vmin, vmax float32) {
	s.Vmin = math32.Max(vmin, 0)
	s.Vmax = math32.Max(vmax, s.Vmin)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

// wrapAngle maps a into [-π, π]. Angles already in range are returned
// unchanged.
func wrapAngle(a float32) float32 {
	if a >= -math32.Pi && a <= math32.Pi {
		return a
	}
	r := math32.Mod(a+math32.Pi, 2*math32.Pi)
	if r < 0 {
		r += 2 * math32.Pi
	}
	return r - math32.Pi
}
