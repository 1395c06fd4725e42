package profiler

import (
	"runtime"
	"time"

	"github.com/Carmen-Shannon/oxy-shade/common"
)

const mb = 1 << 20

// Stats is one profiler report.
type Stats struct {
	FPS           float64
	MaxFrame      time.Duration
	HeapMB        float64
	SysMB         float64
	AllocRateMBs  float64
	GCCount       uint32
	GCLastPauseUs uint64
	GCMaxPauseUs  uint64
}

// Profiler counts render frames and logs frame rate and memory statistics once per
// interval through common.Logger. It is not safe for concurrent use; the render loop
// owns it.
type Profiler struct {
	interval time.Duration
	start    time.Time
	last     time.Time
	frames   int
	maxFrame time.Duration

	mem        runtime.MemStats
	prevGC     uint32
	prevAlloc  uint64
	lastReport Stats
}

// NewProfiler creates a Profiler reporting every second.
func NewProfiler() *Profiler {
	now := time.Now()
	return &Profiler{interval: time.Second, start: now, last: now}
}

// Last returns the most recent report.
func (p *Profiler) Last() Stats {
	return p.lastReport
}

// Tick records one frame. Once the interval has elapsed it logs a report and starts a
// new interval.
//
// Returns:
//   - bool: true if a report was logged by this call
func (p *Profiler) Tick() bool {
	now := time.Now()
	p.frames++
	p.maxFrame = max(p.maxFrame, now.Sub(p.last))
	p.last = now

	elapsed := now.Sub(p.start)
	if elapsed < p.interval {
		return false
	}

	runtime.ReadMemStats(&p.mem)
	s := Stats{
		FPS:          float64(p.frames) / elapsed.Seconds(),
		MaxFrame:     p.maxFrame,
		HeapMB:       float64(p.mem.Alloc) / mb,
		SysMB:        float64(p.mem.Sys) / mb,
		AllocRateMBs: float64(p.mem.TotalAlloc-p.prevAlloc) / mb / elapsed.Seconds(),
		GCCount:      p.mem.NumGC,
	}
	s.GCLastPauseUs, s.GCMaxPauseUs = gcPauses(&p.mem.PauseNs, p.prevGC, p.mem.NumGC)

	common.Logger().Info("profiler",
		"fps", s.FPS,
		"max_frame_ms", float64(s.MaxFrame.Microseconds())/1000,
		"heap_mb", s.HeapMB,
		"alloc_rate_mb_s", s.AllocRateMBs,
		"gc", s.GCCount,
		"gc_last_pause_us", s.GCLastPauseUs,
		"gc_max_pause_us", s.GCMaxPauseUs,
		"sys_mb", s.SysMB,
	)

	p.lastReport = s
	p.start = now
	p.frames = 0
	p.maxFrame = 0
	p.prevGC = p.mem.NumGC
	p.prevAlloc = p.mem.TotalAlloc
	return true
}

// gcPauses returns the latest GC pause and the longest pause among collections prev
// through cur-1, in microseconds. pauses is the runtime's ring of the last 256 pauses.
func gcPauses(pauses *[256]uint64, prev, cur uint32) (last, longest uint64) {
	if cur == 0 {
		return 0, 0
	}
	last = pauses[(cur-1)%256] / 1000
	if cur-prev > 256 {
		prev = cur - 256
	}
	for i := prev; i < cur; i++ {
		longest = max(longest, pauses[i%256]/1000)
	}
	return last, longest
}
