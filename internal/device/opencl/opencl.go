//go:build opencl

// Package opencl runs the update program as an OpenCL kernel.
package opencl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jgillich/go-opencl/cl"

	"gravfield/internal/device"
	"gravfield/internal/kernel"
	"gravfield/internal/particles"
	"gravfield/internal/planets"
	"gravfield/internal/uniforms"
)

const floatSize = 4

type buffer struct {
	mem   *cl.MemObject
	count int
	owner *Device
}

func (b *buffer) Len() int { return b.count }

// Device owns an OpenCL context, the built update kernel and the small
// buffers carrying uniforms and planet slots.
type Device struct {
	context     *cl.Context
	queue       *cl.CommandQueue
	program     *cl.Program
	kernel      *cl.Kernel
	uniformBuf  *cl.MemObject
	positionBuf *cl.MemObject
	radiusBuf   *cl.MemObject
	buffers     []*cl.MemObject
	deviceName  string
	boundIn     *cl.MemObject
	boundOut    *cl.MemObject
	block       []float32
	scratch     []float32
}

// Available reports whether this build carries the OpenCL backend.
func Available() bool { return true }

// New picks the first GPU device, falling back to a CPU device, and
// builds the update program for it.
func New() (*Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, fmt.Errorf("no OpenCL platforms: %w", device.ErrUnavailable)
	}
	dev := pickDevice(platforms, cl.DeviceTypeGPU)
	if dev == nil {
		dev = pickDevice(platforms, cl.DeviceTypeCPU)
	}
	if dev == nil {
		return nil, fmt.Errorf("no suitable OpenCL devices: %w", device.ErrUnavailable)
	}

	d := &Device{deviceName: dev.Name(), block: make([]float32, uniforms.BlockSize)}
	if err := d.build(dev); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

func pickDevice(platforms []*cl.Platform, kind cl.DeviceType) *cl.Device {
	for _, p := range platforms {
		devices, err := p.GetDevices(kind)
		if err != nil && err != cl.ErrDeviceNotFound {
			continue
		}
		if len(devices) > 0 {
			return devices[0]
		}
	}
	return nil
}

func (d *Device) build(dev *cl.Device) error {
	var err error
	if d.context, err = cl.CreateContext([]*cl.Device{dev}); err != nil {
		return fmt.Errorf("creating OpenCL context: %w", err)
	}
	if d.queue, err = d.context.CreateCommandQueue(dev, 0); err != nil {
		return fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	if d.program, err = d.context.CreateProgramWithSource([]string{kernel.OpenCLSource()}); err != nil {
		return fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := d.program.BuildProgram([]*cl.Device{dev}, ""); err != nil {
		var buildErr cl.BuildError
		if errors.As(err, &buildErr) {
			return fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return fmt.Errorf("building OpenCL program: %w", err)
	}
	if d.kernel, err = d.program.CreateKernel(kernel.EntryPoint); err != nil {
		return fmt.Errorf("creating OpenCL kernel: %w", err)
	}
	if d.uniformBuf, err = d.context.CreateEmptyBuffer(cl.MemReadOnly, uniforms.BlockSize*floatSize); err != nil {
		return fmt.Errorf("allocating uniform buffer: %w", err)
	}
	if d.positionBuf, err = d.context.CreateEmptyBuffer(cl.MemReadOnly, 2*planets.MaxPlanets*floatSize); err != nil {
		return fmt.Errorf("allocating planet position buffer: %w", err)
	}
	if d.radiusBuf, err = d.context.CreateEmptyBuffer(cl.MemReadOnly, planets.MaxPlanets*floatSize); err != nil {
		return fmt.Errorf("allocating planet radius buffer: %w", err)
	}
	if err := d.kernel.SetArgBuffer(kernel.ArgUniforms, d.uniformBuf); err != nil {
		return fmt.Errorf("binding uniform buffer: %w", err)
	}
	if err := d.kernel.SetArgBuffer(kernel.ArgPlanetPosition, d.positionBuf); err != nil {
		return fmt.Errorf("binding planet positions: %w", err)
	}
	if err := d.kernel.SetArgBuffer(kernel.ArgPlanetRadius, d.radiusBuf); err != nil {
		return fmt.Errorf("binding planet radii: %w", err)
	}
	return nil
}

func (d *Device) Name() string { return "opencl (" + d.deviceName + ")" }

func (d *Device) Alloc(records []particles.Particle) (device.Buffer, error) {
	data := particles.Flatten(make([]float32, 0, len(records)*particles.Floats), records)
	mem, err := d.context.CreateEmptyBuffer(cl.MemReadWrite, len(records)*particles.Stride)
	if err != nil {
		return nil, fmt.Errorf("allocating particle buffer: %w", err)
	}
	if len(data) > 0 {
		if _, err := d.queue.EnqueueWriteBufferFloat32(mem, true, 0, data, nil); err != nil {
			mem.Release()
			return nil, fmt.Errorf("uploading particles: %w", err)
		}
	}
	d.buffers = append(d.buffers, mem)
	return &buffer{mem: mem, count: len(records), owner: d}, nil
}

func (d *Device) unwrap(buf device.Buffer) (*buffer, error) {
	b, ok := buf.(*buffer)
	if !ok || b.owner != d {
		return nil, fmt.Errorf("foreign buffer %T", buf)
	}
	return b, nil
}

// bindDynamicBuffers rebinds the record buffers only when the ping-pong
// roles changed since the last step.
func (d *Device) bindDynamicBuffers(in, out *cl.MemObject) error {
	if d.boundIn != in {
		if err := d.kernel.SetArgBuffer(kernel.ArgIn, in); err != nil {
			return err
		}
		d.boundIn = in
	}
	if d.boundOut != out {
		if err := d.kernel.SetArgBuffer(kernel.ArgOut, out); err != nil {
			return err
		}
		d.boundOut = out
	}
	return nil
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
	if in.count != out.count {
		return fmt.Errorf("buffer size mismatch: read %d, write %d", in.count, out.count)
	}
	if in == out {
		return errors.New("read and write buffers alias")
	}
	if in.count == 0 {
		return nil
	}

	block := params.Uniforms.Pack(d.block)
	if _, err := d.queue.EnqueueWriteBufferFloat32(d.uniformBuf, true, 0, block, nil); err != nil {
		return fmt.Errorf("writing uniforms: %w", err)
	}
	if _, err := d.queue.EnqueueWriteBufferFloat32(d.positionBuf, true, 0, params.Planets.Position[:], nil); err != nil {
		return fmt.Errorf("writing planet positions: %w", err)
	}
	if _, err := d.queue.EnqueueWriteBufferFloat32(d.radiusBuf, true, 0, params.Planets.Radius[:], nil); err != nil {
		return fmt.Errorf("writing planet radii: %w", err)
	}
	if err := d.kernel.SetArgInt32(kernel.ArgCount, int32(in.count)); err != nil {
		return fmt.Errorf("setting particle count: %w", err)
	}
	if err := d.kernel.SetArgUint32(kernel.ArgSeed, params.Seed); err != nil {
		return fmt.Errorf("setting seed: %w", err)
	}
	if err := d.bindDynamicBuffers(in.mem, out.mem); err != nil {
		return fmt.Errorf("binding buffers: %w", err)
	}
	if _, err := d.queue.EnqueueNDRangeKernel(d.kernel, nil, []int{in.count}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing kernel: %w", err)
	}
	if err := d.queue.Finish(); err != nil {
		return fmt.Errorf("finishing step: %w", err)
	}
	return nil
}

func (d *Device) readAll(b *buffer) ([]float32, error) {
	size := b.count * particles.Floats
	if cap(d.scratch) < size {
		d.scratch = make([]float32, size)
	}
	d.scratch = d.scratch[:size]
	if size == 0 {
		return d.scratch, nil
	}
	if _, err := d.queue.EnqueueReadBufferFloat32(b.mem, true, 0, d.scratch, nil); err != nil {
		return nil, fmt.Errorf("reading particle buffer: %w", err)
	}
	return d.scratch, nil
}

func (d *Device) Positions(buf device.Buffer, dst []float32) ([]float32, error) {
	b, err := d.unwrap(buf)
	if err != nil {
		return dst, err
	}
	data, err := d.readAll(b)
	if err != nil {
		return dst, err
	}
	for i := 0; i < len(data); i += particles.Floats {
		dst = append(dst, data[i], data[i+1])
	}
	return dst, nil
}

func (d *Device) Records(buf device.Buffer, dst []particles.Particle) ([]particles.Particle, error) {
	b, err := d.unwrap(buf)
	if err != nil {
		return dst, err
	}
	data, err := d.readAll(b)
	if err != nil {
		return dst, err
	}
	return particles.Unflatten(dst, data), nil
}

func (d *Device) Close() {
	for _, mem := range d.buffers {
		mem.Release()
	}
	d.buffers = nil
	if d.radiusBuf != nil {
		d.radiusBuf.Release()
		d.radiusBuf = nil
	}
	if d.positionBuf != nil {
		d.positionBuf.Release()
		d.positionBuf = nil
	}
	if d.uniformBuf != nil {
		d.uniformBuf.Release()
		d.uniformBuf = nil
	}
	if d.kernel != nil {
		d.kernel.Release()
		d.kernel = nil
	}
	if d.program != nil {
		d.program.Release()
		d.program = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.context != nil {
		d.context.Release()
		d.context = nil
	}
}
