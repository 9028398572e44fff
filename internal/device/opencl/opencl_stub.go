//go:build !opencl

// Package opencl runs the update program as an OpenCL kernel.
package opencl

import (
	"fmt"

	"gravfield/internal/device"
	"gravfield/internal/kernel"
	"gravfield/internal/particles"
)

// Device is unavailable in builds without the opencl tag.
type Device struct{}

// Available reports whether this build carries the OpenCL backend.
func Available() bool { return false }

func New() (*Device, error) {
	return nil, fmt.Errorf("OpenCL support is not enabled; rebuild with -tags opencl: %w", device.ErrUnavailable)
}

func (d *Device) Name() string { return "" }

func (d *Device) Alloc([]particles.Particle) (device.Buffer, error) {
	return nil, device.ErrUnavailable
}

func (d *Device) Step(device.Buffer, device.Buffer, *kernel.Params) error {
	return device.ErrUnavailable
}

func (d *Device) Positions(_ device.Buffer, dst []float32) ([]float32, error) {
	return dst, device.ErrUnavailable
}

func (d *Device) Records(_ device.Buffer, dst []particles.Particle) ([]particles.Particle, error) {
	return dst, device.ErrUnavailable
}

func (d *Device) Close() {}
