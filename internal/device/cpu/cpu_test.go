package cpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravfield/internal/device"
	"gravfield/internal/kernel"
	"gravfield/internal/particles"
	"gravfield/internal/uniforms"
)

var _ device.Device = (*Device)(nil)

func records(n int) []particles.Particle {
	s := particles.NewSpawner(3, mgl32.Vec2{1.5, 1}, 2, 10)
	return particles.Generate(n, s.Spawn)
}

func TestStepMatchesReference(t *testing.T) {
	d := New(3)
	src := records(20000)
	read, err := d.Alloc(src)
	require.NoError(t, err)
	write, err := d.Alloc(src)
	require.NoError(t, err)

	p := &kernel.Params{Uniforms: uniforms.Defaults(), Seed: 9}
	p.Uniforms.DeltaTime = 0.25
	require.NoError(t, d.Step(read, write, p))

	want := make([]particles.Particle, len(src))
	kernel.Advance(want, src, p, 0, len(src))
	got, err := d.Records(write, nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	unchanged, err := d.Records(read, nil)
	require.NoError(t, err)
	assert.Equal(t, src, unchanged)
}

func TestAllocCopiesInput(t *testing.T) {
	d := New(1)
	src := records(4)
	buf, err := d.Alloc(src)
	require.NoError(t, err)
	src[0].Age = 99
	got, err := d.Records(buf, nil)
	require.NoError(t, err)
	assert.Zero(t, got[0].Age)
	assert.Equal(t, 4, buf.Len())
}

func TestPositionsSkipOtherFields(t *testing.T) {
	d := New(1)
	buf, err := d.Alloc([]particles.Particle{
		{Position: mgl32.Vec2{1, 2}, Age: 3, Life: 4, Velocity: mgl32.Vec2{5, 6}},
		{Position: mgl32.Vec2{7, 8}},
	})
	require.NoError(t, err)
	pos, err := d.Positions(buf, nil)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 2, 7, 8}, pos)
}

func TestStepRejectsMismatchedBuffers(t *testing.T) {
	d := New(1)
	a, _ := d.Alloc(records(4))
	b, _ := d.Alloc(records(5))
	p := &kernel.Params{Uniforms: uniforms.Defaults()}
	assert.Error(t, d.Step(a, b, p))
	assert.Error(t, d.Step(a, a, p))
}

type fakeBuffer struct{}

func (fakeBuffer) Len() int { return 0 }

func TestForeignBuffer(t *testing.T) {
	d := New(1)
	_, err := d.Positions(fakeBuffer{}, nil)
	assert.Error(t, err)
}
