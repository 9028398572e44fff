// Package kernel is the particle update program. The host rendition in
// this file and the OpenCL rendition in opencl.go compute the same step.
package kernel

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"gravfield/internal/particles"
	"gravfield/internal/planets"
	"gravfield/internal/uniforms"
)

// Physical constants. One world unit is one earth radius.
const (
	gravitationalConstant = 6.67e-11
	earthRadius           = 6.371e6
	planetDensity         = 5.51e3

	// SurfaceGravity folds G·ρ·4/3·π·RE so that a planet of radius r pulls
	// with SurfaceGravity·r³/d² world units per second squared.
	SurfaceGravity = gravitationalConstant * planetDensity * 4.0 / 3.0 * 3.14159265358979323846 * earthRadius
)

// Outputs names the captured output channels in record order.
var Outputs = []string{"vPositionOut", "vAgeOut", "vLifeOut", "vVelocityOut"}

// Params is everything one step reads besides the input records.
type Params struct {
	Uniforms uniforms.Set
	Planets  planets.Slots
	Seed     uint32
}

// Advance computes out[i] from in[i] for i in [lo, hi). in and out must
// not alias.
func Advance(out, in []particles.Particle, p *Params, lo, hi int) {
	u := &p.Uniforms
	dt := u.DeltaTime
	frameSeed := hash(p.Seed)
	for i := lo; i < hi; i++ {
		q := in[i]
		age := q.Age + dt
		acc, absorbed := Acceleration(q.Position, &p.Planets)
		v := q.Velocity.Add(acc.Mul(dt))
		if speed := v.Len(); speed > u.Vmax && speed > 0 {
			v = v.Mul(u.Vmax / speed)
		}
		pos := q.Position.Add(v.Mul(dt))
		if age >= q.Life || absorbed {
			out[i] = respawn(uint32(i)^frameSeed, u)
			continue
		}
		out[i] = particles.Particle{Position: pos, Age: age, Life: q.Life, Velocity: v}
	}
}

// Acceleration sums the pull of every live planet slot at pos. It reports
// whether pos lies inside a planet.
func Acceleration(pos mgl32.Vec2, s *planets.Slots) (mgl32.Vec2, bool) {
	var acc mgl32.Vec2
	absorbed := false
	for k := 0; k < planets.MaxPlanets; k++ {
		r := s.Radius[k]
		if r <= 0 {
			continue
		}
		d := mgl32.Vec2{s.Position[2*k], s.Position[2*k+1]}.Sub(pos)
		dist := d.Len()
		if dist < r {
			absorbed = true
			continue
		}
		acc = acc.Add(d.Mul(SurfaceGravity * r * r * r / (dist * dist * dist)))
	}
	return acc, absorbed
}

func respawn(state uint32, u *uniforms.Set) particles.Particle {
	angle := u.Alpha + u.Beta*(next01(&state)*2-1)
	speed := u.Vmin + next01(&state)*(u.Vmax-u.Vmin)
	life := lifeBetween(u.Tvmin, u.Tvmax, next01(&state))
	sin, cos := math32.Sin(angle), math32.Cos(angle)
	return particles.Particle{
		Position: u.Origin,
		Life:     life,
		Velocity: mgl32.Vec2{cos * speed, sin * speed},
	}
}

// lifeBetween maps f in [0, 1) into [lo, hi). float32 rounding can land
// on hi, which is moved one ulp down.
func lifeBetween(lo, hi, f float32) float32 {
	life := lo + f*(hi-lo)
	if life >= hi && hi > lo {
		life = math.Nextafter32(hi, lo)
	}
	return life
}

// hash is the PCG output permutation used as a stateless generator.
func hash(v uint32) uint32 {
	state := v*747796405 + 2891336453
	word := ((state >> ((state >> 28) + 4)) ^ state) * 277803737
	return (word >> 22) ^ word
}

// next01 advances s and returns a float in [0, 1).
func next01(s *uint32) float32 {
	*s = hash(*s)
	return float32(*s>>8) * (1.0 / 16777216.0)
}
