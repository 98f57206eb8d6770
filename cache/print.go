package cache

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PrintCache dumps the line table and the cache shape to stdout.
func (c *Comp) PrintCache() {
	c.FprintCache(os.Stdout)
}

// FprintCache dumps the line table and the cache shape to w.
func (c *Comp) FprintCache(w io.Writer) {
	rule := strings.Repeat("=", 93)
	setRule := strings.Repeat("-", 93)

	fmt.Fprintln(w, rule)

	for i, line := range c.lines {
		if c.geom.organisation == SetAssociative && i%c.geom.linesPerSet == 0 {
			fmt.Fprintln(w, setRule)
		}

		fmt.Fprintf(w, "Line %-6d", i)
		fmt.Fprintf(w, "Flag: %-8s", line.Flag)
		fmt.Fprintf(w, "Age: %-6d", line.Age)
		fmt.Fprintf(w, "Tag: %-#18x", uintptr(line.Tag))
		fmt.Fprintf(w, "Size: %-10d", line.Size)
		fmt.Fprintf(w, "Device buf: %-#18x", uint64(line.DeviceBuf))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%-30s %s\n", "Cache organisation:", c.geom.organisation)
	fmt.Fprintf(w, "%-30s %s\n", "Cache replacement policy:", c.policy)
	fmt.Fprintf(w, "%-30s %d\n", "Cache number of sets:", c.geom.numSets)
	fmt.Fprintf(w, "%-30s %d\n", "Cache number of lines:", c.geom.numLines)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w)
}

// PrintTimeProfile dumps the counters and derived ratios to stdout.
func (c *Comp) PrintTimeProfile() {
	c.FprintTimeProfile(os.Stdout)
}

// FprintTimeProfile dumps the counters and derived ratios to w.
func (c *Comp) FprintTimeProfile(w io.Writer) {
	rule := strings.Repeat("=", 41)
	setRule := strings.Repeat("-", 41)
	s := c.stats

	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-20s Time (us)\n", "Action")
	fmt.Fprintln(w, setRule)
	fmt.Fprintf(w, "%-20s %d\n", "Host to device", s.HostToDeviceUS)
	fmt.Fprintf(w, "%-20s %d\n", "Device to host", s.DeviceToHostUS)
	fmt.Fprintf(w, "%-20s %d\n", "Total on transfers",
		s.HostToDeviceUS+s.DeviceToHostUS)
	fmt.Fprintf(w, "%-20s %d\n", "Kernel execution", s.KernelUS)
	fmt.Fprintf(w, "%-20s %d\n", "Total time", s.TotalUS())
	fmt.Fprintln(w, setRule)
	fmt.Fprintf(w, "%-20s %d\n", "Cache hits", s.Hits)
	fmt.Fprintf(w, "%-20s %d\n", "Cache misses", s.Misses)
	fmt.Fprintf(w, "%-20s %.2f%%\n", "Hit ratio", s.HitRatio())
	fmt.Fprintf(w, "%-20s %d\n", "Bytes saved", s.BytesSaved)
	fmt.Fprintf(w, "%-20s %d\n", "Bytes total", s.BytesTotal)
	fmt.Fprintf(w, "%-20s %.2f%%\n", "Byte ratio", s.ByteRatio())
	fmt.Fprintf(w, "%-20s %d\n", "Bytes h2d saved", s.BytesH2DSaved)
	fmt.Fprintf(w, "%-20s %d\n", "Bytes h2d total", s.BytesH2DTotal)
	fmt.Fprintf(w, "%-20s %.2f%%\n", "Byte h2d ratio", s.H2DRatio())
	fmt.Fprintf(w, "%-20s %d\n", "Bytes d2h saved", s.BytesD2HSaved)
	fmt.Fprintf(w, "%-20s %d\n", "Bytes d2h total", s.BytesD2HTotal)
	fmt.Fprintf(w, "%-20s %.2f%%\n", "Byte d2h ratio", s.D2HRatio())
	fmt.Fprintln(w, rule)
}
