package panels

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/nicobailon/debugdeck/internal/panel"
)

// MemoryPanel shows runtime.MemStats. ReadMemStats stops the world, so the
// snapshot is refreshed at most once per interval.
type MemoryPanel struct {
	interval time.Duration
	now      func() time.Time
	read     func(*runtime.MemStats)

	stats    runtime.MemStats
	sampled  time.Time
	routines int
}

func NewMemoryPanel(interval time.Duration) *MemoryPanel {
	if interval <= 0 {
		interval = DefaultFPSRefreshInterval
	}
	return &MemoryPanel{interval: interval, now: time.Now, read: runtime.ReadMemStats}
}

func (p *MemoryPanel) OnEnter() error {
	p.sample()
	return nil
}

func (p *MemoryPanel) OnExit() error { return nil }

func (p *MemoryPanel) sample() {
	p.read(&p.stats)
	p.routines = runtime.NumGoroutine()
	p.sampled = p.now()
}

func (p *MemoryPanel) Draw(f *panel.Frame) error {
	if p.sampled.IsZero() || p.now().Sub(p.sampled) >= p.interval {
		p.sample()
	}
	s := &p.stats
	rows := [][2]string{
		{"Heap alloc", FormatBytes(s.HeapAlloc)},
		{"Heap in use", FormatBytes(s.HeapInuse)},
		{"Heap objects", fmt.Sprintf("%d", s.HeapObjects)},
		{"Total alloc", FormatBytes(s.TotalAlloc)},
		{"Sys", FormatBytes(s.Sys)},
		{"Stack in use", FormatBytes(s.StackInuse)},
		{"GC cycles", fmt.Sprintf("%d", s.NumGC)},
		{"GC pause", lastPause(s).String()},
		{"Goroutines", fmt.Sprintf("%d", p.routines)},
	}
	for _, r := range rows {
		f.Printf("%-13s %s\n", r[0], r[1])
	}
	return nil
}

// HandleKey forces a collection on "g".
func (p *MemoryPanel) HandleKey(key string) bool {
	if key != "g" {
		return false
	}
	runtime.GC()
	p.sample()
	return true
}

func lastPause(s *runtime.MemStats) time.Duration {
	if s.NumGC == 0 {
		return 0
	}
	return time.Duration(s.PauseNs[(s.NumGC+255)%256])
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// SystemPanel shows static process and host information.
type SystemPanel struct {
	started time.Time
	now     func() time.Time
	host    string
	exe     string
}

func NewSystemPanel() *SystemPanel {
	host, _ := os.Hostname()
	exe, _ := os.Executable()
	return &SystemPanel{started: time.Now(), now: time.Now, host: host, exe: exe}
}

func (p *SystemPanel) OnEnter() error { return nil }
func (p *SystemPanel) OnExit() error  { return nil }

func (p *SystemPanel) Draw(f *panel.Frame) error {
	f.Printf("%-11s %s\n", "Go", runtime.Version())
	f.Printf("%-11s %s/%s\n", "Platform", runtime.GOOS, runtime.GOARCH)
	f.Printf("%-11s %d\n", "CPUs", runtime.NumCPU())
	f.Printf("%-11s %d\n", "GOMAXPROCS", runtime.GOMAXPROCS(0))
	f.Printf("%-11s %d\n", "PID", os.Getpid())
	f.Printf("%-11s %s\n", "Hostname", p.host)
	f.Printf("%-11s %s\n", "Executable", p.exe)
	f.Printf("%-11s %s\n", "Uptime", p.now().Sub(p.started).Round(time.Second))
	return nil
}
