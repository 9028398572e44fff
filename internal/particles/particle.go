// Package particles defines the particle record, its spawn rule and the
// ping-pong buffer pair.
package particles

import (
	"math"
	"math/rand/v2"

	"github.com/go-gl/mathgl/mgl32"
)

// Record layout, in floats and bytes. Fields are tightly packed in the
// order position, age, life, velocity.
const (
	Floats = 6
	Stride = Floats * 4

	PositionOffset = 0
	AgeOffset      = 8
	LifeOffset     = 12
	VelocityOffset = 16
)

// Particle is one simulated point.
type Particle struct {
	Position mgl32.Vec2
	Age      float32
	Life     float32
	Velocity mgl32.Vec2
}

// Flatten appends the device layout of ps to dst.
func Flatten(dst []float32, ps []Particle) []float32 {
	for _, p := range ps {
		dst = append(dst, p.Position[0], p.Position[1], p.Age, p.Life, p.Velocity[0], p.Velocity[1])
	}
	return dst
}

// Unflatten decodes len(data)/Floats records from data into dst.
func Unflatten(dst []Particle, data []float32) []Particle {
	for i := 0; i+Floats <= len(data); i += Floats {
		r := data[i : i+Floats]
		dst = append(dst, Particle{
			Position: mgl32.Vec2{r[0], r[1]},
			Age:      r[2],
			Life:     r[3],
			Velocity: mgl32.Vec2{r[4], r[5]},
		})
	}
	return dst
}

// Spawner produces initial particles uniformly spread over the viewport.
type Spawner struct {
	rng   *rand.Rand
	scale mgl32.Vec2
	tvmin float32
	tvmax float32
}

// NewSpawner returns a spawner covering [-scale, scale) with lifetimes in
// [tvmin, tvmax).
func NewSpawner(seed uint64, scale mgl32.Vec2, tvmin, tvmax float32) *Spawner {
	return &Spawner{
		rng:   rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		scale: scale,
		tvmin: tvmin,
		tvmax: tvmax,
	}
}

// Spawn draws a fresh particle. The index is unused; every call makes
// independent draws.
func (s *Spawner) Spawn(int) Particle {
	life := s.rng.Float32()*(s.tvmax-s.tvmin) + s.tvmin
	if life >= s.tvmax && s.tvmax > s.tvmin {
		// float32 rounding can land on the open bound
		life = math.Nextafter32(s.tvmax, s.tvmin)
	}
	return Particle{
		Position: mgl32.Vec2{
			s.scale[0] * (s.rng.Float32()*2 - 1),
			s.scale[1] * (s.rng.Float32()*2 - 1),
		},
		Life: life,
	}
}

// Generate returns n particles from spawn.
func Generate(n int, spawn func(i int) Particle) []Particle {
	ps := make([]Particle, n)
	for i := range ps {
		ps[i] = spawn(i)
	}
	return ps
}
