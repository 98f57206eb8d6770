// Package monitoring turns a running benchmark into a small web server so
// that cache state and counters can be inspected while a workload runs.
package monitoring

import (
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"strconv"

	// Enable profiling
	_ "net/http/pprof"

	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/sarchlab/softcache/cache"
)

// Monitor exposes registered caches over HTTP.
type Monitor struct {
	portNumber int
	url        string
	caches     []*cache.Comp
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// rejected and a random port is picked instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterCache registers a cache to be monitored.
func (m *Monitor) RegisterCache(c *cache.Comp) {
	m.caches = append(m.caches, c)
}

// StartServer starts the monitor as a web server.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/list_caches", m.listCaches)
	r.HandleFunc("/api/cache/{name}", m.cacheDetails)
	r.HandleFunc("/api/stats/{name}", m.cacheStats)
	r.HandleFunc("/api/lines/{name}", m.cacheLines)
	r.HandleFunc("/api/resource", m.listResources)
	http.Handle("/api/", r)

	actualPort := ":0"
	if m.portNumber >= 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	m.url = fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring caches with %s\n", m.url)

	go func() {
		err = http.Serve(listener, nil)
		dieOnErr(err)
	}()
}

// StartDashboard opens the monitor in a browser.
func (m *Monitor) StartDashboard() {
	if m.url == "" {
		log.Panic("monitor server not started")
	}

	err := browser.OpenURL(m.url + "/api/list_caches")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open browser: %s\n", err)
	}
}

func (m *Monitor) listCaches(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")

	for i, c := range m.caches {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", c.Name())
	}

	fmt.Fprint(w, "]")
}

func (m *Monitor) cacheDetails(w http.ResponseWriter, r *http.Request) {
	c := m.findCacheOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(c)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

type statsRsp struct {
	Organisation string      `json:"organisation"`
	Policy       string      `json:"policy"`
	NumSets      int         `json:"num_sets"`
	NumLines     int         `json:"num_lines"`
	WriteBack    bool        `json:"write_back"`
	Stats        cache.Stats `json:"stats"`
	HitRatio     float64     `json:"hit_ratio"`
	ByteRatio    float64     `json:"byte_ratio"`
}

func (m *Monitor) cacheStats(w http.ResponseWriter, r *http.Request) {
	c := m.findCacheOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	s := c.Stats()
	rsp := statsRsp{
		Organisation: c.Organisation().String(),
		Policy:       c.Policy().String(),
		NumSets:      c.NumSets(),
		NumLines:     c.NumLines(),
		WriteBack:    c.IsWriteBack(),
		Stats:        s,
		HitRatio:     s.HitRatio(),
		ByteRatio:    s.ByteRatio(),
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type lineRsp struct {
	Index     int    `json:"index"`
	Flag      string `json:"flag"`
	Age       uint64 `json:"age"`
	Tag       uint64 `json:"tag"`
	Size      int    `json:"size"`
	DeviceBuf uint64 `json:"device_buf"`
}

func (m *Monitor) cacheLines(w http.ResponseWriter, r *http.Request) {
	c := m.findCacheOr404(w, mux.Vars(r)["name"])
	if c == nil {
		return
	}

	lines := c.Lines()
	rsp := make([]lineRsp, 0, len(lines))

	for i, l := range lines {
		rsp = append(rsp, lineRsp{
			Index:     i,
			Flag:      l.Flag.String(),
			Age:       l.Age,
			Tag:       uint64(l.Tag),
			Size:      l.Size,
			DeviceBuf: uint64(l.DeviceBuf),
		})
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	bytes, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(bytes)
	dieOnErr(err)
}

func (m *Monitor) findCacheOr404(
	w http.ResponseWriter,
	name string,
) *cache.Comp {
	for _, c := range m.caches {
		if c.Name() == name {
			return c
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Cache not found"))
	dieOnErr(err)

	return nil
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
