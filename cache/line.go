// Package cache implements a host-to-device buffer cache. It sits between an
// application and an accelerator runtime and elides redundant transfers by
// remembering, per host region, the live device buffer and which side holds
// the authoritative copy.
package cache

import (
	"github.com/sarchlab/softcache/cl"
)

// Flag tells where the authoritative copy of a cached region lives.
type Flag int

// Coherence states of a cache line.
const (
	// FlagHost marks the host copy authoritative; a device copy, if any,
	// is stale and must not be reused.
	FlagHost Flag = iota

	// FlagDevice marks the device copy authoritative (dirty on device).
	FlagDevice

	// FlagBoth marks host and device copies in agreement.
	FlagBoth
)

func (f Flag) String() string {
	switch f {
	case FlagHost:
		return "HOST"
	case FlagDevice:
		return "DEVICE"
	case FlagBoth:
		return "BOTH"
	default:
		return "INVALID"
	}
}

// A Line is one slot of the line table. A line with a zero Tag is empty.
type Line struct {
	Flag      Flag
	Age       uint64
	Size      int
	Tag       cl.HostPtr
	DeviceBuf cl.Mem
}

// IsEmpty reports whether the line has never been populated since the last
// reset.
func (l Line) IsEmpty() bool {
	return l.Tag == 0
}
