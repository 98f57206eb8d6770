package datarecording

import (
	"time"

	"github.com/sarchlab/softcache/cache"
)

// ProfileRow is one cache profile dump. It carries the same fields as a
// line of the text profile log.
type ProfileRow struct {
	Timestamp    string
	Organisation string
	Policy       string
	NumSets      int
	NumLines     int

	HostToDeviceUS int64
	DeviceToHostUS int64
	KernelUS       int64
	TotalUS        int64

	Hits     uint64
	Misses   uint64
	HitRatio float64

	BytesSaved int64
	BytesTotal int64
	ByteRatio  float64

	BytesH2DSaved int64
	BytesH2DTotal int64
	H2DRatio      float64

	BytesD2HSaved int64
	BytesD2HTotal int64
	D2HRatio      float64

	Workload string
}

// ProfileRecorder records cache profile dumps into a DataRecorder table.
type ProfileRecorder struct {
	tableName string
	recorder  DataRecorder
}

// NewProfileRecorder creates a ProfileRecorder with its own table on the
// given recorder.
func NewProfileRecorder(recorder DataRecorder) *ProfileRecorder {
	p := &ProfileRecorder{
		tableName: "softcache_profile_" +
			time.Now().Format("2006_01_02_15_04_05"),
		recorder: recorder,
	}

	p.recorder.CreateTable(p.tableName, ProfileRow{})

	return p
}

// TableName returns the table profile rows are written to.
func (p *ProfileRecorder) TableName() string {
	return p.tableName
}

// Record snapshots the counters of a cache into one profile row.
func (p *ProfileRecorder) Record(c *cache.Comp, workload string) {
	s := c.Stats()

	row := ProfileRow{
		Timestamp:    time.Now().Format("2006-01-02 15:04:05"),
		Organisation: c.Organisation().String(),
		Policy:       c.Policy().String(),
		NumSets:      c.NumSets(),
		NumLines:     c.NumLines(),

		HostToDeviceUS: s.HostToDeviceUS,
		DeviceToHostUS: s.DeviceToHostUS,
		KernelUS:       s.KernelUS,
		TotalUS:        s.TotalUS(),

		Hits:     s.Hits,
		Misses:   s.Misses,
		HitRatio: s.HitRatio(),

		BytesSaved: s.BytesSaved,
		BytesTotal: s.BytesTotal,
		ByteRatio:  s.ByteRatio(),

		BytesH2DSaved: s.BytesH2DSaved,
		BytesH2DTotal: s.BytesH2DTotal,
		H2DRatio:      s.H2DRatio(),

		BytesD2HSaved: s.BytesD2HSaved,
		BytesD2HTotal: s.BytesD2HTotal,
		D2HRatio:      s.D2HRatio(),

		Workload: workload,
	}

	p.recorder.InsertData(p.tableName, row)
}

// Flush writes buffered rows through to the database.
func (p *ProfileRecorder) Flush() {
	p.recorder.Flush()
}
