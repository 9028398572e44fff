package opencl

import (
	"errors"
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

func openOrSkip(t *testing.T) *Device {
	t.Helper()
	d, err := New()
	if errors.Is(err, device.ErrUnavailable) || (err != nil && !Available()) {
		t.Skipf("OpenCL unavailable: %v", err)
	}
	if err != nil {
		t.Skipf("OpenCL init failed: %v", err)
	}
	t.Cleanup(d.Close)
	return d
}

func TestStubReportsUnavailable(t *testing.T) {
	if Available() {
		t.Skip("built with OpenCL")
	}
	_, err := New()
	assert.ErrorIs(t, err, device.ErrUnavailable)
}

func TestStepAgreesWithHostProgram(t *testing.T) {
	d := openOrSkip(t)
	s := particles.NewSpawner(5, mgl32.Vec2{1.5, 1}, 2, 10)
	src := particles.Generate(1024, s.Spawn)

	read, err := d.Alloc(src)
	require.NoError(t, err)
	write, err := d.Alloc(src)
	require.NoError(t, err)

	p := &kernel.Params{Uniforms: uniforms.Defaults(), Seed: 11}
	p.Uniforms.DeltaTime = 0.1
	require.NoError(t, d.Step(read, write, p))

	want := make([]particles.Particle, len(src))
	kernel.Advance(want, src, p, 0, len(src))
	got, err := d.Records(write, nil)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].Position[0], got[i].Position[0], 1e-4, "particle %d", i)
		assert.InDelta(t, want[i].Age, got[i].Age, 1e-4, "particle %d", i)
	}

	pos, err := d.Positions(write, nil)
	require.NoError(t, err)
	assert.Len(t, pos, 2*len(src))
}
