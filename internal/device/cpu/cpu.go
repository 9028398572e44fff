// Package cpu runs the update program on the host, splitting the
// particle range across goroutines.
package cpu

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"gravfield/internal/device"
	"gravfield/internal/kernel"
	"gravfield/internal/particles"
)

// minChunk keeps tiny buffers on a single goroutine.
const minChunk = 4096

type buffer struct {
	records []particles.Particle
}

func (b *buffer) Len() int { return len(b.records) }

// Device is the host backend.
type Device struct {
	workers int
}

// New returns a host device using up to workers goroutines per step.
// workers < 1 selects GOMAXPROCS.
func New(workers int) *Device {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Device{workers: workers}
}

func (d *Device) Name() string { return fmt.Sprintf("cpu (%d workers)", d.workers) }

func (d *Device) Alloc(records []particles.Particle) (device.Buffer, error) {
	return &buffer{records: append([]particles.Particle(nil), records...)}, nil
}

func (d *Device) Step(read, write device.Buffer, params *kernel.Params) error {
	in, err := d.unwrap(read)
	if err != nil {
		return err
	}
	out, err := d.unwrap(write)
	if err != nil {
		return err
	}
	if len(in.records) != len(out.records) {
		return fmt.Errorf("buffer size mismatch: read %d, write %d", len(in.records), len(out.records))
	}
	if in == out {
		return fmt.Errorf("read and write buffers alias")
	}
	n := len(in.records)
	chunk := max((n+d.workers-1)/d.workers, minChunk)
	var g errgroup.Group
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			kernel.Advance(out.records, in.records, params, lo, hi)
			return nil
		})
	}
	return g.Wait()
}

func (d *Device) Positions(buf device.Buffer, dst []float32) ([]float32, error) {
	b, err := d.unwrap(buf)
	if err != nil {
		return dst, err
	}
	for _, p := range b.records {
		dst = append(dst, p.Position[0], p.Position[1])
	}
	return dst, nil
}

func (d *Device) Records(buf device.Buffer, dst []particles.Particle) ([]particles.Particle, error) {
	b, err := d.unwrap(buf)
	if err != nil {
		return dst, err
	}
	return append(dst, b.records...), nil
}

func (d *Device) Close() {}

func (d *Device) unwrap(buf device.Buffer) (*buffer, error) {
	b, ok := buf.(*buffer)
	if !ok {
		return nil, fmt.Errorf("foreign buffer %T", buf)
	}
	return b, nil
}
