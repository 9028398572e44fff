package sim

import (
	"fmt"
	"log/slog"

	"gravfield/internal/device"
	"gravfield/internal/kernel"
	"gravfield/internal/particles"
)

// Frame is the drawing surface of one frame.
type Frame interface {
	// Clear fills the color buffer with the clear color.
	Clear()
	// DrawField draws the full screen field pass.
	DrawField(snap *Snapshot)
	// DrawPoints draws one point per x, y pair in positions.
	DrawPoints(snap *Snapshot, positions []float32)
}

// InitBuffers allocates the ping-pong pair. Each buffer gets its own n
// records from spawn.
func InitBuffers(dev device.Device, n int, spawn func(i int) particles.Particle) (*particles.Pair[device.Buffer], error) {
	a, err := dev.Alloc(particles.Generate(n, spawn))
	if err != nil {
		return nil, fmt.Errorf("allocating particle buffer A: %w", err)
	}
	b, err := dev.Alloc(particles.Generate(n, spawn))
	if err != nil {
		return nil, fmt.Errorf("allocating particle buffer B: %w", err)
	}
	slog.Info("particle buffers allocated", "particles", n, "bytes", 2*n*particles.Stride, "device", dev.Name())
	return particles.NewPair(a, b), nil
}

// SimulationStage advances the read buffer into the write buffer.
type SimulationStage struct {
	dev    device.Device
	params kernel.Params
}

// NewSimulationStage returns a stage running on dev.
func NewSimulationStage(dev device.Device) *SimulationStage {
	return &SimulationStage{dev: dev}
}

// Step runs the update program for one frame.
func (s *SimulationStage) Step(pair *particles.Pair[device.Buffer], snap *Snapshot, seed uint32) error {
	s.params.Uniforms = snap.Uniforms
	s.params.Planets = snap.Planets
	s.params.Seed = seed
	return s.dev.Step(pair.Read(), pair.Write(), &s.params)
}

// FieldStage draws the force field. It has no effect on particle state.
type FieldStage struct{}

// Draw runs the field pass.
func (FieldStage) Draw(f Frame, snap *Snapshot) { f.DrawField(snap) }

// ParticleStage draws particle positions from a buffer.
type ParticleStage struct {
	dev       device.Device
	positions []float32
}

// NewParticleStage returns a stage reading positions from dev.
func NewParticleStage(dev device.Device) *ParticleStage {
	return &ParticleStage{dev: dev}
}

// Draw fetches the positions of buf and draws them.
func (s *ParticleStage) Draw(f Frame, buf device.Buffer, snap *Snapshot) error {
	pos, err := s.dev.Positions(buf, s.positions[:0])
	if err != nil {
		return err
	}
	s.positions = pos
	f.DrawPoints(snap, pos)
	return nil
}
