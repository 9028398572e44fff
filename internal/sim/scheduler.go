package sim

import (
	"fmt"
	"log/slog"
	"time"

	"gravfield/internal/device"
	"gravfield/internal/particles"
)

// State is the scheduler state.
type State int

const (
	// Idle has no previous timestamp; the next frame uses a zero delta.
	Idle State = iota
	Running
	// Stopped follows a device failure. Every later tick returns it.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Stats summarises recent frames for the debug overlay.
type Stats struct {
	Frames   uint64
	StepTime time.Duration
}

// Scheduler runs one frame per Tick: drain input, time, clear, field,
// simulation, points, swap.
type Scheduler struct {
	ctx    *Context
	queue  *Queue
	pair   *particles.Pair[device.Buffer]
	sim    *SimulationStage
	field  FieldStage
	points *ParticleStage
	stats  Stats
	err    error
}

// NewScheduler wires the stages around an allocated buffer pair.
func NewScheduler(ctx *Context, queue *Queue, dev device.Device, pair *particles.Pair[device.Buffer]) *Scheduler {
	return &Scheduler{
		ctx:    ctx,
		queue:  queue,
		pair:   pair,
		sim:    NewSimulationStage(dev),
		points: NewParticleStage(dev),
	}
}

// Tick runs one frame at time now, in seconds, drawing into f.
func (s *Scheduler) Tick(now float64, f Frame) error {
	if s.err != nil {
		return s.err
	}
	s.queue.Drain(s.ctx)

	dt := max(s.ctx.Timing.Advance(now), 0)
	s.ctx.Uniforms.DeltaTime = float32(dt)
	snap := s.ctx.Snapshot()

	f.Clear()
	if snap.Flags.DrawField {
		s.field.Draw(f, &snap)
	}
	start := time.Now()
	if err := s.sim.Step(s.pair, &snap, uint32(s.stats.Frames)); err != nil {
		return s.fail(fmt.Errorf("simulation step: %w", err))
	}
	s.stats.StepTime = time.Since(start)
	if snap.Flags.DrawPoints {
		if err := s.points.Draw(f, s.pair.Write(), &snap); err != nil {
			return s.fail(fmt.Errorf("particle pass: %w", err))
		}
	}
	s.pair.Swap()
	s.stats.Frames++
	return nil
}

func (s *Scheduler) fail(err error) error {
	s.err = err
	slog.Error("frame loop stopped", "err", err, "frame", s.stats.Frames)
	return err
}

// State reports the current state.
func (s *Scheduler) State() State {
	switch {
	case s.err != nil:
		return Stopped
	case s.ctx.Timing.Running():
		return Running
	}
	return Idle
}

// Err returns the error that stopped the scheduler, if any.
func (s *Scheduler) Err() error { return s.err }

// Stats returns frame statistics.
func (s *Scheduler) Stats() Stats { return s.stats }

// Pair returns the particle buffer pair.
func (s *Scheduler) Pair() *particles.Pair[device.Buffer] { return s.pair }

// Context returns the simulation context. It must only be read from the
// goroutine calling Tick.
func (s *Scheduler) Context() *Context { return s.ctx }
