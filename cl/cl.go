// Package cl defines the accelerator runtime surface that the softcache
// consumes. The surface mirrors a GPU-style command queue: create-buffer,
// write-buffer, read-buffer, set-kernel-arg, and enqueue-kernel. Handles are
// opaque; host pointers are identities and are never dereferenced by anything
// other than a concrete device implementation.
package cl

// Context identifies a device context.
type Context uint64

// CommandQueue identifies a command queue on a device.
type CommandQueue uint64

// Kernel identifies a compiled kernel.
type Kernel uint64

// Mem is a device buffer handle. The zero value means "no buffer".
type Mem uint64

// Event identifies an enqueued command. Events carry profiling timestamps.
type Event uint64

// HostPtr is the identity of a host memory region. It is treated as an
// unsigned integer for hashing and as an identity for equality.
type HostPtr uintptr

// Status is a runtime status code. Success is 0; errors are negative,
// following the usual accelerator-runtime convention.
type Status int32

// Runtime status codes consumed by the cache and the benchmark harness.
const (
	Success                    Status = 0
	ErrDeviceNotFound          Status = -1
	ErrDeviceNotAvailable      Status = -2
	ErrMemObjectAllocation     Status = -4
	ErrOutOfResources          Status = -5
	ErrOutOfHostMemory         Status = -6
	ErrProfilingInfoNotAvail   Status = -7
	ErrInvalidValue            Status = -30
	ErrInvalidCommandQueue     Status = -36
	ErrInvalidHostPtr          Status = -37
	ErrInvalidMemObject        Status = -38
	ErrInvalidKernel           Status = -48
	ErrInvalidArgIndex         Status = -49
	ErrInvalidKernelArgs       Status = -52
	ErrInvalidWorkDimension    Status = -53
	ErrInvalidWorkGroupSize    Status = -54
	ErrInvalidGlobalWorkSize   Status = -63
	ErrInvalidEventWaitList    Status = -57
	ErrInvalidEvent            Status = -58
	ErrInvalidOperation        Status = -59
	ErrInvalidBufferSize       Status = -61
)

// MemFlag carries buffer creation flags.
type MemFlag uint32

// Buffer creation flags.
const (
	MemReadWrite    MemFlag = 1 << 0
	MemWriteOnly    MemFlag = 1 << 1
	MemReadOnly     MemFlag = 1 << 2
	MemUseHostPtr   MemFlag = 1 << 3
	MemAllocHostPtr MemFlag = 1 << 4
	MemCopyHostPtr  MemFlag = 1 << 5
)

// Driver is the set of runtime capabilities the cache intercepts. A device
// implementation and the cache itself both satisfy Driver, so an application
// can be pointed at either without knowing which it talks to.
type Driver interface {
	// CreateBuffer allocates a device buffer. With MemCopyHostPtr, the
	// region identified by hostPtr is uploaded into the new buffer.
	CreateBuffer(
		ctx Context,
		flags MemFlag,
		size int,
		hostPtr HostPtr,
	) (Mem, Status)

	// EnqueueWriteBuffer copies size bytes from the host region to the
	// device buffer.
	EnqueueWriteBuffer(
		queue CommandQueue,
		buf Mem,
		blocking bool,
		offset, size int,
		hostPtr HostPtr,
		waitList []Event,
	) (Event, Status)

	// EnqueueReadBuffer copies size bytes from the device buffer to the
	// host region.
	EnqueueReadBuffer(
		queue CommandQueue,
		buf Mem,
		blocking bool,
		offset, size int,
		hostPtr HostPtr,
		waitList []Event,
	) (Event, Status)

	// SetKernelArg binds an argument value to a kernel. For buffer
	// arguments, value is the host pointer the buffer was created from.
	SetKernelArg(kernel Kernel, index int, size int, value HostPtr) Status

	// EnqueueNDRangeKernel launches a kernel over the given work sizes.
	EnqueueNDRangeKernel(
		queue CommandQueue,
		kernel Kernel,
		globalWorkSize, localWorkSize []int,
		waitList []Event,
	) (Event, Status)

	// ReleaseMemObject releases a device buffer.
	ReleaseMemObject(buf Mem) Status

	// EventElapsed blocks until the event completes and returns the
	// elapsed device time in microseconds.
	EventElapsed(event Event) int64
}
