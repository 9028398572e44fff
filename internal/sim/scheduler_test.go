package sim

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gravfield/internal/device"
	"gravfield/internal/device/cpu"
	"gravfield/internal/kernel"
	"gravfield/internal/particles"
)

type recordingFrame struct {
	calls  []string
	points int
	deltas []float32
}

func (f *recordingFrame) Clear() { f.calls = append(f.calls, "clear") }

func (f *recordingFrame) DrawField(snap *Snapshot) {
	f.calls = append(f.calls, "field")
	f.deltas = append(f.deltas, snap.Uniforms.DeltaTime)
}

func (f *recordingFrame) DrawPoints(_ *Snapshot, pos []float32) {
	f.calls = append(f.calls, "points")
	f.points = len(pos) / 2
}

func newTestScheduler(t *testing.T, dev device.Device, n int) *Scheduler {
	t.Helper()
	ctx := NewContext(640, 480, 10)
	s := particles.NewSpawner(1, ctx.Uniforms.Scale, ctx.Uniforms.Tvmin, ctx.Uniforms.Tvmax)
	pair, err := InitBuffers(dev, n, s.Spawn)
	require.NoError(t, err)
	return NewScheduler(ctx, &Queue{}, dev, pair)
}

func TestEndToEndSwapsEveryFrame(t *testing.T) {
	s := newTestScheduler(t, cpu.New(2), 5000)
	f := &recordingFrame{}
	first := s.Pair().Read()

	const frames = 10
	for i := 0; i < frames; i++ {
		require.NoError(t, s.Tick(float64(i)/60, f))
		assert.Equal(t, (i+1)%2, s.Pair().ReadIndex())
	}
	assert.Equal(t, first, s.Pair().Read())
	assert.Equal(t, uint64(frames), s.Stats().Frames)
	assert.Equal(t, 5000, f.points)
	assert.Equal(t, Running, s.State())
	assert.Equal(t, []string{"clear", "field", "points"}, f.calls[:3])
}

func TestFirstFrameHasZeroDelta(t *testing.T) {
	s := newTestScheduler(t, cpu.New(1), 16)
	f := &recordingFrame{}
	require.NoError(t, s.Tick(100, f))
	require.NoError(t, s.Tick(100.5, f))
	assert.Equal(t, []float32{0, 0.5}, f.deltas)
}

func TestVisibilityResetsDelta(t *testing.T) {
	s := newTestScheduler(t, cpu.New(1), 16)
	f := &recordingFrame{}
	require.NoError(t, s.Tick(1, f))
	require.NoError(t, s.Tick(2, f))

	s.queue.Push(VisibilityChanged())
	require.NoError(t, s.Tick(3600, f))
	assert.Equal(t, []float32{0, 1, 0}, f.deltas)
	assert.Equal(t, Running, s.State())
}

func TestDisabledPassesAreSkipped(t *testing.T) {
	s := newTestScheduler(t, cpu.New(1), 16)
	s.queue.Push(ToggleField())
	s.queue.Push(TogglePoints())
	f := &recordingFrame{}
	require.NoError(t, s.Tick(0, f))
	assert.Equal(t, []string{"clear"}, f.calls)
	assert.Equal(t, 1, s.Pair().ReadIndex(), "simulation and swap always run")
}

func TestPointsDrawnFromWriteBuffer(t *testing.T) {
	dev := cpu.New(1)
	s := newTestScheduler(t, dev, 64)
	s.queue.Push(ToggleField())
	written := s.Pair().Write()

	f := &recordingFrame{}
	require.NoError(t, s.Tick(0, f))

	want, err := dev.Positions(written, nil)
	require.NoError(t, err)
	got, err := dev.Positions(s.Pair().Read(), nil)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 64, f.points)
}

func TestPlanetSnapshotReachesDevice(t *testing.T) {
	dev := &spyDevice{Device: cpu.New(1)}
	s := newTestScheduler(t, dev, 16)
	s.ctx.Planets.Begin(mgl32.Vec2{0.5, 0.5})
	s.ctx.Planets.Update(mgl32.Vec2{0.5, 0.75})
	s.ctx.Planets.End()
	require.NoError(t, s.Tick(0, &recordingFrame{}))
	assert.InDelta(t, 0.25, dev.last.Planets.Radius[0], 1e-6)

	s.ctx.Planets.RemoveAt(mgl32.Vec2{-1, -1})
	require.NoError(t, s.Tick(0.1, &recordingFrame{}))
	assert.Zero(t, dev.last.Planets.Radius[0])
	assert.Zero(t, dev.last.Planets.Count)
}

type spyDevice struct {
	device.Device
	last kernel.Params
	fail error
}

func (d *spyDevice) Step(read, write device.Buffer, p *kernel.Params) error {
	d.last = *p
	if d.fail != nil {
		return d.fail
	}
	return d.Device.Step(read, write, p)
}

func TestDeviceFailureStopsScheduler(t *testing.T) {
	boom := errors.New("device lost")
	dev := &spyDevice{Device: cpu.New(1)}
	s := newTestScheduler(t, dev, 16)
	require.NoError(t, s.Tick(0, &recordingFrame{}))

	dev.fail = boom
	err := s.Tick(1, &recordingFrame{})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, Stopped, s.State())

	f := &recordingFrame{}
	assert.ErrorIs(t, s.Tick(2, f), boom)
	assert.Empty(t, f.calls)
	assert.Equal(t, uint64(1), s.Stats().Frames)
}

type failingAlloc struct{ device.Device }

func (failingAlloc) Alloc([]particles.Particle) (device.Buffer, error) {
	return nil, errors.New("out of memory")
}

func TestInitBuffersSurfacesAllocationFailure(t *testing.T) {
	_, err := InitBuffers(failingAlloc{cpu.New(1)}, 8, func(int) particles.Particle { return particles.Particle{} })
	assert.ErrorContains(t, err, "out of memory")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "stopped", Stopped.String())
}
