package cache

import (
	"log"

	"golang.org/x/text/language"

	"github.com/sarchlab/softcache/cl"
)

// Comp is the cache engine. It satisfies cl.Driver, so an application built
// against the runtime surface can be pointed at the cache instead of the
// device; every instrumented call consults the line table, elides transfers
// it can prove redundant, and forwards the rest to the underlying driver.
//
// All calls must originate from a single control flow. The cache owns every
// device buffer that enters the line table; the application must not release
// such a buffer directly (ReleaseMemObject on the cache is a no-op for that
// reason).
type Comp struct {
	name   string
	driver cl.Driver

	geom      geometry
	policy    ReplacementPolicy
	finder    victimFinder
	tableWide *randomVictimFinder
	writeBack bool

	lines  []Line
	locked lockSet

	kernelArgs map[cl.Kernel]map[cl.HostPtr]struct{}

	// queue is the most recent command queue seen on a write or read. The
	// cache borrows it for its own flushes.
	queue cl.CommandQueue

	stats Stats

	profileLogPath string
	locale         language.Tag
}

var _ cl.Driver = (*Comp)(nil)

// Name returns the name of the cache.
func (c *Comp) Name() string {
	return c.name
}

// CreateBuffer forwards buffer creation to the driver. When the caller asks
// for host-copy semantics, the cache first looks for a live device copy of
// the region and reuses it instead of creating and uploading a new buffer.
func (c *Comp) CreateBuffer(
	ctx cl.Context,
	flags cl.MemFlag,
	size int,
	hostPtr cl.HostPtr,
) (cl.Mem, cl.Status) {
	if flags&cl.MemCopyHostPtr == 0 || hostPtr == 0 {
		return c.driver.CreateBuffer(ctx, flags, size, hostPtr)
	}

	c.stats.BytesTotal += int64(size)
	c.stats.BytesH2DTotal += int64(size)

	idx := c.lookup(hostPtr)

	if idx >= 0 && c.lines[idx].Flag != FlagHost {
		c.stats.Hits++
		c.stats.BytesSaved += int64(size)
		c.stats.BytesH2DSaved += int64(size)
		c.locked.Add(idx)

		return c.lines[idx].DeviceBuf, cl.Success
	}

	c.stats.Misses++

	buf, status := c.driver.CreateBuffer(ctx, flags, size, hostPtr)
	if status != cl.Success || buf == 0 {
		log.Printf("%s: failed to create buffer: %s",
			c.name, cl.StatusName(status))

		return buf, status
	}

	// A stale host-flagged line is overwritten in place; its old device
	// buffer is released by the insertion path.
	c.addToCache(hostPtr, size, buf, FlagBoth, idx)

	return buf, status
}

// WriteBuffer is the cached write-buffer operation. On a hit the underlying
// write is elided; if the caller brought a buffer of its own, that buffer is
// released and *buf is rewritten to the cache's authoritative handle.
func (c *Comp) WriteBuffer(
	queue cl.CommandQueue,
	buf *cl.Mem,
	blocking bool,
	offset, size int,
	hostPtr cl.HostPtr,
	waitList []cl.Event,
) (cl.Event, cl.Status) {
	c.stats.BytesTotal += int64(size)
	c.stats.BytesH2DTotal += int64(size)
	c.queue = queue

	idx := c.lookup(hostPtr)

	switch {
	case idx < 0:
		c.stats.Misses++
		c.addToCache(hostPtr, size, *buf, FlagBoth, -1)

	case c.lines[idx].Flag == FlagHost:
		c.stats.Misses++
		c.addToCache(hostPtr, size, *buf, FlagBoth, idx)

	default:
		c.stats.Hits++
		c.stats.BytesSaved += int64(size)
		c.stats.BytesH2DSaved += int64(size)

		if c.lines[idx].DeviceBuf != *buf && *buf != 0 {
			c.releaseHandle(*buf)
			*buf = c.lines[idx].DeviceBuf
		}

		c.locked.Add(idx)

		return 0, cl.Success
	}

	event, status := c.driver.EnqueueWriteBuffer(
		queue, *buf, blocking, offset, size, hostPtr, waitList)
	if status == cl.Success {
		c.stats.HostToDeviceUS += c.driver.EventElapsed(event)
	}

	return event, status
}

// EnqueueWriteBuffer adapts WriteBuffer to the runtime surface. The
// caller's handle may be superseded by the cached one; applications that
// keep handles across calls should use WriteBuffer directly.
func (c *Comp) EnqueueWriteBuffer(
	queue cl.CommandQueue,
	buf cl.Mem,
	blocking bool,
	offset, size int,
	hostPtr cl.HostPtr,
	waitList []cl.Event,
) (cl.Event, cl.Status) {
	return c.WriteBuffer(queue, &buf, blocking, offset, size, hostPtr, waitList)
}

// EnqueueReadBuffer refreshes the host region under write-through and
// elides the transfer under write-back, where the host copy stays stale
// until an explicit WriteBack.
func (c *Comp) EnqueueReadBuffer(
	queue cl.CommandQueue,
	buf cl.Mem,
	blocking bool,
	offset, size int,
	hostPtr cl.HostPtr,
	waitList []cl.Event,
) (cl.Event, cl.Status) {
	c.locked.Clear()

	c.stats.BytesTotal += int64(size)
	c.stats.BytesSaved += int64(size)
	c.stats.BytesD2HTotal += int64(size)
	c.stats.BytesD2HSaved += int64(size)

	c.queue = queue

	var event cl.Event
	status := cl.Success

	if !c.writeBack {
		event, status = c.driver.EnqueueReadBuffer(
			queue, buf, blocking, offset, size, hostPtr, waitList)
		if status == cl.Success {
			c.stats.DeviceToHostUS += c.driver.EventElapsed(event)
		}

		// The transfer happened, so the optimistic credit is undone.
		c.stats.BytesSaved -= int64(size)
		c.stats.BytesD2HSaved -= int64(size)
	}

	idx := c.lookup(hostPtr)

	if idx < 0 {
		flag := FlagBoth
		if c.writeBack {
			flag = FlagDevice
		}

		c.addToCache(hostPtr, size, buf, flag, -1)
	} else if c.lines[idx].DeviceBuf != buf && buf != 0 {
		// The cached buffer is authoritative; the caller's duplicate
		// would otherwise leak.
		c.releaseHandle(buf)
	}

	c.locked.Clear()

	return event, status
}

// SetKernelArg records the argument for dirty-marking at launch and
// forwards the binding to the driver.
func (c *Comp) SetKernelArg(
	kernel cl.Kernel,
	index int,
	size int,
	value cl.HostPtr,
) cl.Status {
	args, ok := c.kernelArgs[kernel]
	if !ok {
		args = make(map[cl.HostPtr]struct{})
		c.kernelArgs[kernel] = args
	}

	args[value] = struct{}{}

	return c.driver.SetKernelArg(kernel, index, size, value)
}

// EnqueueNDRangeKernel launches the kernel and marks every recorded
// argument line dirty on device.
func (c *Comp) EnqueueNDRangeKernel(
	queue cl.CommandQueue,
	kernel cl.Kernel,
	globalWorkSize, localWorkSize []int,
	waitList []cl.Event,
) (cl.Event, cl.Status) {
	c.locked.Clear()

	event, status := c.driver.EnqueueNDRangeKernel(
		queue, kernel, globalWorkSize, localWorkSize, waitList)
	if status == cl.Success {
		c.stats.KernelUS += c.driver.EventElapsed(event)
	}

	for arg := range c.kernelArgs[kernel] {
		c.SetDirtyFlag(arg, FlagDevice)
	}

	return event, status
}

// WriteBack flushes every device-dirty line to its host region. A no-op
// under write-through.
func (c *Comp) WriteBack() cl.Status {
	if !c.writeBack {
		return cl.Success
	}

	status := cl.Success

	for i := range c.lines {
		if c.lines[i].Flag != FlagDevice {
			continue
		}

		if s := c.flushLine(i); s != cl.Success && status == cl.Success {
			status = s
		}
	}

	return status
}

// WriteBackBuffer flushes the line caching hostPtr, if it is device-dirty.
// A no-op under write-through.
func (c *Comp) WriteBackBuffer(hostPtr cl.HostPtr) cl.Status {
	if !c.writeBack {
		return cl.Success
	}

	idx := c.lookup(hostPtr)
	if idx < 0 || c.lines[idx].Flag != FlagDevice {
		return cl.Success
	}

	return c.flushLine(idx)
}

// flushLine copies a line's device buffer into its host region (the tag
// address) and settles the coherence flag and the saved-byte credit.
func (c *Comp) flushLine(idx int) cl.Status {
	line := &c.lines[idx]

	event, status := c.driver.EnqueueReadBuffer(
		c.queue, line.DeviceBuf, true, 0, line.Size, line.Tag, nil)
	if status != cl.Success {
		log.Printf("%s: write-back of line %d failed: %s",
			c.name, idx, cl.StatusName(status))

		return status
	}

	c.stats.DeviceToHostUS += c.driver.EventElapsed(event)
	c.stats.BytesSaved -= int64(line.Size)
	c.stats.BytesD2HSaved -= int64(line.Size)
	line.Flag = FlagBoth

	return cl.Success
}

// SetDirtyFlag asserts the coherence flag of the line caching hostPtr, if
// any.
func (c *Comp) SetDirtyFlag(hostPtr cl.HostPtr, flag Flag) {
	idx := c.lookup(hostPtr)
	if idx >= 0 {
		c.lines[idx].Flag = flag
	}
}

// ReleaseMemObject is neutralised: buffers in the line table belong to the
// cache, which releases them on eviction and on teardown.
func (c *Comp) ReleaseMemObject(cl.Mem) cl.Status {
	return cl.Success
}

// EventElapsed forwards to the driver.
func (c *Comp) EventElapsed(event cl.Event) int64 {
	return c.driver.EventElapsed(event)
}

// ResetCache releases every cached device buffer and empties the line
// table. Counters are kept.
func (c *Comp) ResetCache() {
	c.releaseAll()

	for i := range c.lines {
		c.lines[i] = Line{}
	}

	c.locked.Clear()
	c.kernelArgs = make(map[cl.Kernel]map[cl.HostPtr]struct{})
}

// ResetTimers zeroes all counters.
func (c *Comp) ResetTimers() {
	c.stats.reset()
}

// Release tears the cache down, releasing every live device buffer. A
// failed release is reported; the first failing status is returned.
func (c *Comp) Release() cl.Status {
	return c.releaseAll()
}

func (c *Comp) releaseAll() cl.Status {
	status := cl.Success

	for i := range c.lines {
		if c.lines[i].DeviceBuf == 0 {
			continue
		}

		if s := c.driver.ReleaseMemObject(c.lines[i].DeviceBuf); s != cl.Success {
			log.Printf("%s: failed to release buffer of line %d: %s",
				c.name, i, cl.StatusName(s))

			if status == cl.Success {
				status = s
			}
		}

		c.lines[i].DeviceBuf = 0
	}

	return status
}

// lookup scans the set of a tag for a matching line and returns its index,
// or -1. Under LRU every probed line in the set ages; the matched line's
// age resets to 0.
func (c *Comp) lookup(tag cl.HostPtr) int {
	if tag == 0 {
		return -1
	}

	found := -1

	lo, hi := c.geom.setBounds(c.geom.setIndex(tag))
	for idx := lo; idx < hi; idx++ {
		match := c.lines[idx].Tag == tag
		if match {
			found = idx
		}

		if c.policy == LRU {
			if match {
				c.lines[idx].Age = 0
			} else {
				c.lines[idx].Age++
			}
		} else if match {
			break
		}
	}

	return found
}

// addToCache installs a line at idx, or at a policy-chosen victim when idx
// is -1. A device-dirty victim is flushed first under write-back, and a
// victim's old buffer is released before it is overwritten. The installed
// line is locked.
func (c *Comp) addToCache(
	tag cl.HostPtr,
	size int,
	buf cl.Mem,
	flag Flag,
	idx int,
) int {
	if idx < 0 {
		idx = c.pickVictim(tag)
	}

	if c.writeBack && c.lines[idx].Flag == FlagDevice {
		c.flushLine(idx)
	}

	if c.lines[idx].DeviceBuf != buf && c.lines[idx].DeviceBuf != 0 {
		c.releaseHandle(c.lines[idx].DeviceBuf)
	}

	c.locked.Add(idx)
	c.lines[idx] = Line{
		Flag:      flag,
		Age:       0,
		Size:      size,
		Tag:       tag,
		DeviceBuf: buf,
	}

	return idx
}

func (c *Comp) pickVictim(tag cl.HostPtr) int {
	setIndex := c.geom.setIndex(tag)

	if c.geom.organisation == DirectMapping {
		idx := setIndex
		if !c.locked.Contains(idx) {
			return idx
		}

		// The sole candidate is locked; fall back to a random unlocked
		// line across the whole table.
		idx, ok := c.tableWide.findVictimAnywhere(c.lines, &c.locked)
		if !ok {
			c.starve()
		}

		return idx
	}

	idx, ok := c.finder.FindVictim(c.lines, c.geom, setIndex, &c.locked)
	if !ok {
		c.starve()
	}

	return idx
}

// starve reports eviction starvation: the victim search exhausted its
// bounded retry budget with every candidate locked. This is fatal; a single
// submission cannot legitimately lock more lines than exist.
func (c *Comp) starve() {
	c.PrintCache()
	log.Panicf("%s: cannot evict, every candidate line is locked; "+
		"lockedLines=%v", c.name, c.locked.Indices())
}

func (c *Comp) releaseHandle(buf cl.Mem) {
	if s := c.driver.ReleaseMemObject(buf); s != cl.Success {
		log.Printf("%s: failed to release buffer: %s",
			c.name, cl.StatusName(s))
	}
}

// Stats returns a copy of the counters.
func (c *Comp) Stats() Stats {
	return c.stats
}

// Organisation returns the configured organisation.
func (c *Comp) Organisation() Organisation {
	return c.geom.organisation
}

// Policy returns the configured replacement policy.
func (c *Comp) Policy() ReplacementPolicy {
	return c.policy
}

// NumSets returns the number of sets in the line table.
func (c *Comp) NumSets() int {
	return c.geom.numSets
}

// NumLines returns the total number of lines in the line table.
func (c *Comp) NumLines() int {
	return c.geom.numLines
}

// LinesPerSet returns the set width.
func (c *Comp) LinesPerSet() int {
	return c.geom.linesPerSet
}

// IsWriteBack reports whether the cache runs the write-back policy.
func (c *Comp) IsWriteBack() bool {
	return c.writeBack
}

// Lines returns a snapshot of the line table.
func (c *Comp) Lines() []Line {
	snapshot := make([]Line, len(c.lines))
	copy(snapshot, c.lines)

	return snapshot
}
