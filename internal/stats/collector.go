package stats

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Sample is a single reading of process resources.
type Sample struct {
	Elapsed    time.Duration
	HeapAlloc  uint64
	RSS        uint64
	CPUPercent float64
	NumGC      uint32
}

// Summary holds peak values over a collection.
type Summary struct {
	Elapsed        time.Duration
	Samples        int
	PeakHeapAlloc  uint64
	PeakRSS        uint64
	PeakCPUPercent float64
	GCCycles       uint32
}

// Collector samples the current process on a fixed interval until stopped.
type Collector struct {
	mu       sync.Mutex
	summary  Summary
	start    time.Time
	interval time.Duration
	stopOnce sync.Once
	stopChan chan struct{}
	doneChan chan struct{}
	proc     *process.Process
}

func NewCollector(interval time.Duration) (*Collector, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to get process info: %w", err)
	}

	return &Collector{
		interval: interval,
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		proc:     proc,
	}, nil
}

func (c *Collector) Start() {
	c.start = time.Now()
	go c.collect()
}

func (c *Collector) collect() {
	defer close(c.doneChan)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.record(c.sample())
	for {
		select {
		case <-c.stopChan:
			c.record(c.sample())
			return
		case <-ticker.C:
			c.record(c.sample())
		}
	}
}

func (c *Collector) sample() Sample {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	s := Sample{
		Elapsed:   time.Since(c.start),
		HeapAlloc: memStats.HeapAlloc,
		NumGC:     memStats.NumGC,
	}
	if memInfo, err := c.proc.MemoryInfo(); err == nil && memInfo != nil {
		s.RSS = memInfo.RSS
	}
	if cpuPercent, err := c.proc.CPUPercent(); err == nil {
		s.CPUPercent = cpuPercent
	}
	return s
}

func (c *Collector) record(s Sample) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.summary.Samples++
	c.summary.Elapsed = s.Elapsed
	c.summary.PeakHeapAlloc = max(c.summary.PeakHeapAlloc, s.HeapAlloc)
	c.summary.PeakRSS = max(c.summary.PeakRSS, s.RSS)
	c.summary.PeakCPUPercent = max(c.summary.PeakCPUPercent, s.CPUPercent)
	c.summary.GCCycles = max(c.summary.GCCycles, s.NumGC)
}

// Stop takes a final sample and returns the summary. Later calls return the
// same summary.
func (c *Collector) Stop() Summary {
	c.stopOnce.Do(func() { close(c.stopChan) })
	<-c.doneChan

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}
