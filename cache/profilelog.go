package cache

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"
)

// WriteTimeProfile appends one space-separated profile line to the
// configured log file: timestamp, cache shape, timings, hit and byte
// counters with their ratios, then the caller's extra fields. Ratios are
// rendered with the configured locale's decimal separator.
func (c *Comp) WriteTimeProfile(extra ...string) error {
	f, err := os.OpenFile(
		c.profileLogPath,
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf("open profile log: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, c.profileLine(time.Now(), extra)); err != nil {
		return fmt.Errorf("append profile log: %w", err)
	}

	return nil
}

func (c *Comp) profileLine(now time.Time, extra []string) string {
	p := message.NewPrinter(c.locale)
	s := c.stats

	fields := []string{
		now.Format("2006-01-02 15:04:05"),
		c.geom.organisation.String(),
		c.policy.String(),
		strconv.Itoa(c.geom.numSets),
		strconv.Itoa(c.geom.numLines),
		strconv.FormatInt(s.HostToDeviceUS, 10),
		strconv.FormatInt(s.DeviceToHostUS, 10),
		strconv.FormatInt(s.KernelUS, 10),
		strconv.FormatInt(s.TotalUS(), 10),
		strconv.FormatUint(s.Hits, 10),
		strconv.FormatUint(s.Misses, 10),
		p.Sprintf("%.2f", s.HitRatio()),
		strconv.FormatInt(s.BytesSaved, 10),
		strconv.FormatInt(s.BytesTotal, 10),
		p.Sprintf("%.2f", s.ByteRatio()),
		strconv.FormatInt(s.BytesH2DSaved, 10),
		strconv.FormatInt(s.BytesH2DTotal, 10),
		p.Sprintf("%.2f", s.H2DRatio()),
		strconv.FormatInt(s.BytesD2HSaved, 10),
		strconv.FormatInt(s.BytesD2HTotal, 10),
		p.Sprintf("%.2f", s.D2HRatio()),
	}

	fields = append(fields, extra...)

	return strings.Join(fields, " ")
}
