package kernel

import (
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravfield/internal/particles"
	"gravfield/internal/planets"
	"gravfield/internal/uniforms"
)

func params(dt float32) *Params {
	return &Params{Uniforms: func() uniforms.Set {
		u := uniforms.Defaults()
		u.DeltaTime = dt
		return u
	}()}
}

func TestZeroDeltaKeepsState(t *testing.T) {
	in := []particles.Particle{{Position: mgl32.Vec2{0.5, 0.5}, Life: 5, Velocity: mgl32.Vec2{0.1, 0}}}
	out := make([]particles.Particle, 1)
	Advance(out, in, params(0), 0, 1)
	assert.Equal(t, in[0], out[0])
}

func TestIntegrationWithoutPlanets(t *testing.T) {
	in := []particles.Particle{{Position: mgl32.Vec2{0, 0}, Age: 1, Life: 5, Velocity: mgl32.Vec2{0.1, 0}}}
	out := make([]particles.Particle, 1)
	Advance(out, in, params(0.5), 0, 1)

	assert.InDelta(t, 0.05, out[0].Position[0], 1e-6)
	assert.InDelta(t, 1.5, out[0].Age, 1e-6)
	assert.Equal(t, float32(5), out[0].Life)
}

func TestSpeedClampedToVmax(t *testing.T) {
	in := []particles.Particle{{Life: 5, Velocity: mgl32.Vec2{3, 4}}}
	out := make([]particles.Particle, 1)
	p := params(0.1)
	Advance(out, in, p, 0, 1)
	assert.InDelta(t, p.Uniforms.Vmax, out[0].Velocity.Len(), 1e-5)
}

func TestExpiredParticleRespawns(t *testing.T) {
	p := params(0.5)
	p.Uniforms.Origin = mgl32.Vec2{0.25, -0.25}
	p.Seed = 42
	in := make([]particles.Particle, 1000)
	for i := range in {
		in[i] = particles.Particle{Position: mgl32.Vec2{1, 1}, Age: 4.8, Life: 5}
	}
	out := make([]particles.Particle, len(in))
	Advance(out, in, p, 0, len(in))

	u := p.Uniforms
	for i, q := range out {
		require.Equal(t, u.Origin, q.Position, "particle %d", i)
		require.Zero(t, q.Age)
		require.GreaterOrEqual(t, q.Life, u.Tvmin)
		require.Less(t, q.Life, u.Tvmax)
		speed := q.Velocity.Len()
		require.GreaterOrEqual(t, speed, u.Vmin-1e-6)
		require.LessOrEqual(t, speed, u.Vmax+1e-6)
	}
	// The input is never written.
	assert.Equal(t, float32(4.8), in[0].Age)
}

func TestRespawnDependsOnSeed(t *testing.T) {
	in := []particles.Particle{{Age: 9, Life: 1}}
	a := make([]particles.Particle, 1)
	b := make([]particles.Particle, 1)
	p := params(0.1)
	p.Seed = 1
	Advance(a, in, p, 0, 1)
	p.Seed = 2
	Advance(b, in, p, 0, 1)
	assert.NotEqual(t, a[0].Life, b[0].Life)
}

func TestPlanetPullsAndAbsorbs(t *testing.T) {
	r := planets.NewRegistry(planets.MaxPlanets)
	r.Begin(mgl32.Vec2{1, 0})
	r.Update(mgl32.Vec2{1.1, 0})
	r.End()
	slots := r.Slots()

	acc, absorbed := Acceleration(mgl32.Vec2{0, 0}, &slots)
	assert.False(t, absorbed)
	assert.Greater(t, acc[0], float32(0))
	assert.InDelta(t, 0, acc[1], 1e-9)
	assert.InDelta(t, SurfaceGravity*0.001, acc[0], 1e-4)

	_, absorbed = Acceleration(mgl32.Vec2{1.05, 0}, &slots)
	assert.True(t, absorbed)
}

func TestEmptySlotsExertNoForce(t *testing.T) {
	var slots planets.Slots
	acc, absorbed := Acceleration(mgl32.Vec2{0.3, 0.3}, &slots)
	assert.Equal(t, mgl32.Vec2{}, acc)
	assert.False(t, absorbed)
}

func TestNext01Range(t *testing.T) {
	s := uint32(0)
	for i := 0; i < 100000; i++ {
		v := next01(&s)
		require.GreaterOrEqual(t, v, float32(0))
		require.Less(t, v, float32(1))
	}
}

func TestRespawnLifeStaysBelowTvmax(t *testing.T) {
	const largest = float32(16777215) / 16777216
	for _, b := range [][2]float32{{2, 10}, {1, 20}, {19, 20}, {3, 7}} {
		life := lifeBetween(b[0], b[1], largest)
		assert.Less(t, life, b[1], "tvmin=%v tvmax=%v", b[0], b[1])
		assert.GreaterOrEqual(t, life, b[0])
	}
	assert.Equal(t, float32(2), lifeBetween(2, 10, 0))
	assert.Equal(t, float32(5), lifeBetween(5, 5, largest))
	assert.Contains(t, OpenCLSource(), "nextafter(u[U_TVMAX], u[U_TVMIN])")
}

func TestOpenCLSourceDeclaresOutputsInOrder(t *testing.T) {
	src := OpenCLSource()
	assert.Contains(t, src, "__kernel void "+EntryPoint+"(")
	assert.Contains(t, src, "#define PARTICLE_FLOATS 6\n")
	assert.Contains(t, src, "#define MAX_PLANETS 10\n")
	assert.Contains(t, src, "#define U_ORIGIN ")

	store := src[strings.Index(src, "dst[0]"):]
	last := -1
	for _, name := range Outputs {
		idx := strings.Index(store, name)
		require.GreaterOrEqual(t, idx, 0, name)
		require.Greater(t, idx, last, "%s out of order", name)
		last = idx
	}
}
