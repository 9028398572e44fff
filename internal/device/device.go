// Package device defines the contract between the frame loop and the
// backend that owns particle memory and runs the update program.
package device

import (
	"errors"

	"gravfield/internal/kernel"
	"gravfield/internal/particles"
)

// ErrUnavailable is returned when a backend cannot run on this machine
// or build.
var ErrUnavailable = errors.New("device backend unavailable")

// Buffer is a device resident array of particle records.
type Buffer interface {
	Len() int
}

// Device allocates particle buffers and runs the update program.
type Device interface {
	// Name describes the backend and the hardware it runs on.
	Name() string
	// Alloc creates a buffer initialised with records.
	Alloc(records []particles.Particle) (Buffer, error)
	// Step reads every record of read, advances it with params and stores
	// the result in write. read is left untouched.
	Step(read, write Buffer, params *kernel.Params) error
	// Positions appends the position of every record in buf to dst as
	// x, y pairs. The other fields are skipped.
	Positions(buf Buffer, dst []float32) ([]float32, error)
	// Records copies buf back to the host.
	Records(buf Buffer, dst []particles.Particle) ([]particles.Particle, error)
	Close()
}
