package cl

import (
	"fmt"
	"time"

	"github.com/rs/xid"
)

// A KernelFunc is the body of a software kernel. Buffer arguments arrive as
// byte slices in binding order; scalar arguments arrive as the bytes of the
// registered host region they were bound from.
type KernelFunc func(args [][]byte, globalWorkSize []int)

type simBuffer struct {
	data []byte
}

type simEvent struct {
	start time.Time
	end   time.Time
}

type argBinding struct {
	index int
	value HostPtr
}

// SimDriver is an in-process software device. Device buffers are byte
// slices, kernels are registered Go functions, and events carry wall-clock
// timestamps. It exists so that the cache, the benchmark harness, and the
// tests can run without accelerator hardware.
//
// Host regions must be registered before they can be transferred: the rest
// of the module treats host pointers as opaque identities, and the device is
// the single place where an identity is mapped back to bytes.
type SimDriver struct {
	id string

	hostRegions map[HostPtr][]byte
	buffers     map[Mem]*simBuffer
	kernels     map[Kernel]KernelFunc
	kernelArgs  map[Kernel][]argBinding
	events      map[Event]simEvent
	memForHost  map[HostPtr]Mem

	nextHandle uint64
}

// NewSimDriver returns a software device with no buffers and no kernels.
func NewSimDriver() *SimDriver {
	return &SimDriver{
		id:          xid.New().String(),
		hostRegions: make(map[HostPtr][]byte),
		buffers:     make(map[Mem]*simBuffer),
		kernels:     make(map[Kernel]KernelFunc),
		kernelArgs:  make(map[Kernel][]argBinding),
		events:      make(map[Event]simEvent),
		memForHost:  make(map[HostPtr]Mem),
		nextHandle:  1,
	}
}

// ID returns the device instance identity.
func (d *SimDriver) ID() string {
	return d.id
}

// CreateContext returns a context handle. The software device needs no
// context state, but the handle keeps call sites shaped like real ones.
func (d *SimDriver) CreateContext() Context {
	return Context(d.allocHandle())
}

// CreateCommandQueue returns a queue handle.
func (d *SimDriver) CreateCommandQueue(Context) CommandQueue {
	return CommandQueue(d.allocHandle())
}

// RegisterHostRegion associates a host pointer identity with its backing
// bytes. Transfers referring to an unregistered pointer fail with
// ErrInvalidHostPtr.
func (d *SimDriver) RegisterHostRegion(ptr HostPtr, mem []byte) {
	d.hostRegions[ptr] = mem
}

// CreateKernel registers a software kernel and returns its handle.
func (d *SimDriver) CreateKernel(name string, fn KernelFunc) Kernel {
	_ = name
	k := Kernel(d.allocHandle())
	d.kernels[k] = fn

	return k
}

// CreateBuffer allocates a device buffer. With MemCopyHostPtr the registered
// host region is copied into it.
func (d *SimDriver) CreateBuffer(
	ctx Context,
	flags MemFlag,
	size int,
	hostPtr HostPtr,
) (Mem, Status) {
	_ = ctx

	if size <= 0 {
		return 0, ErrInvalidBufferSize
	}

	buf := &simBuffer{data: make([]byte, size)}

	if flags&MemCopyHostPtr != 0 {
		host, ok := d.hostRegions[hostPtr]
		if !ok {
			return 0, ErrInvalidHostPtr
		}

		copy(buf.data, host)
	}

	m := Mem(d.allocHandle())
	d.buffers[m] = buf

	if hostPtr != 0 {
		d.memForHost[hostPtr] = m
	}

	return m, Success
}

// EnqueueWriteBuffer copies bytes from the registered host region into the
// device buffer.
func (d *SimDriver) EnqueueWriteBuffer(
	queue CommandQueue,
	buf Mem,
	blocking bool,
	offset, size int,
	hostPtr HostPtr,
	waitList []Event,
) (Event, Status) {
	_, _, _ = queue, blocking, waitList

	b, ok := d.buffers[buf]
	if !ok {
		return 0, ErrInvalidMemObject
	}

	host, ok := d.hostRegions[hostPtr]
	if !ok {
		return 0, ErrInvalidHostPtr
	}

	if offset+size > len(b.data) || size > len(host) {
		return 0, ErrInvalidValue
	}

	start := time.Now()
	copy(b.data[offset:offset+size], host[:size])
	d.memForHost[hostPtr] = buf

	return d.recordEvent(start), Success
}

// EnqueueReadBuffer copies bytes from the device buffer into the registered
// host region.
func (d *SimDriver) EnqueueReadBuffer(
	queue CommandQueue,
	buf Mem,
	blocking bool,
	offset, size int,
	hostPtr HostPtr,
	waitList []Event,
) (Event, Status) {
	_, _, _ = queue, blocking, waitList

	b, ok := d.buffers[buf]
	if !ok {
		return 0, ErrInvalidMemObject
	}

	host, ok := d.hostRegions[hostPtr]
	if !ok {
		return 0, ErrInvalidHostPtr
	}

	if offset+size > len(b.data) || size > len(host) {
		return 0, ErrInvalidValue
	}

	start := time.Now()
	copy(host[:size], b.data[offset:offset+size])

	return d.recordEvent(start), Success
}

// SetKernelArg binds a host pointer identity to a kernel argument slot.
func (d *SimDriver) SetKernelArg(
	kernel Kernel,
	index int,
	size int,
	value HostPtr,
) Status {
	_ = size

	if _, ok := d.kernels[kernel]; !ok {
		return ErrInvalidKernel
	}

	if index < 0 {
		return ErrInvalidArgIndex
	}

	bindings := d.kernelArgs[kernel]
	for i, b := range bindings {
		if b.index == index {
			bindings[i].value = value
			d.kernelArgs[kernel] = bindings

			return Success
		}
	}

	d.kernelArgs[kernel] = append(bindings, argBinding{index: index, value: value})

	return Success
}

// EnqueueNDRangeKernel resolves the bound arguments and runs the kernel
// body synchronously.
func (d *SimDriver) EnqueueNDRangeKernel(
	queue CommandQueue,
	kernel Kernel,
	globalWorkSize, localWorkSize []int,
	waitList []Event,
) (Event, Status) {
	_, _, _ = queue, localWorkSize, waitList

	fn, ok := d.kernels[kernel]
	if !ok {
		return 0, ErrInvalidKernel
	}

	if len(globalWorkSize) == 0 {
		return 0, ErrInvalidWorkDimension
	}

	args, status := d.resolveArgs(kernel)
	if status != Success {
		return 0, status
	}

	start := time.Now()
	fn(args, globalWorkSize)

	return d.recordEvent(start), Success
}

// resolveArgs materialises the byte view of each bound argument, preferring
// the device copy when the pointer has one.
func (d *SimDriver) resolveArgs(kernel Kernel) ([][]byte, Status) {
	bindings := d.kernelArgs[kernel]

	maxIndex := -1
	for _, b := range bindings {
		if b.index > maxIndex {
			maxIndex = b.index
		}
	}

	args := make([][]byte, maxIndex+1)
	for _, b := range bindings {
		if m, ok := d.memForHost[b.value]; ok {
			if buf, live := d.buffers[m]; live {
				args[b.index] = buf.data
				continue
			}
		}

		if host, ok := d.hostRegions[b.value]; ok {
			args[b.index] = host
			continue
		}

		return nil, ErrInvalidKernelArgs
	}

	return args, Success
}

// ReleaseMemObject frees a device buffer.
func (d *SimDriver) ReleaseMemObject(buf Mem) Status {
	if _, ok := d.buffers[buf]; !ok {
		return ErrInvalidMemObject
	}

	delete(d.buffers, buf)

	for ptr, m := range d.memForHost {
		if m == buf {
			delete(d.memForHost, ptr)
		}
	}

	return Success
}

// EventElapsed returns the elapsed microseconds of a completed event. The
// software device completes commands synchronously, so there is nothing to
// wait for.
func (d *SimDriver) EventElapsed(event Event) int64 {
	e, ok := d.events[event]
	if !ok {
		return 0
	}

	return e.end.Sub(e.start).Microseconds()
}

// BufferBytes exposes the content of a device buffer. Test helper.
func (d *SimDriver) BufferBytes(buf Mem) ([]byte, error) {
	b, ok := d.buffers[buf]
	if !ok {
		return nil, fmt.Errorf("device %s: no buffer %d", d.id, buf)
	}

	return b.data, nil
}

// LiveBuffers returns the number of device buffers not yet released.
func (d *SimDriver) LiveBuffers() int {
	return len(d.buffers)
}

func (d *SimDriver) allocHandle() uint64 {
	h := d.nextHandle
	d.nextHandle++

	return h
}

func (d *SimDriver) recordEvent(start time.Time) Event {
	e := Event(d.allocHandle())
	d.events[e] = simEvent{start: start, end: time.Now()}

	return e
}
