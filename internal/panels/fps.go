package panels

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/nicobailon/debugdeck/internal/panel"
)

const (
	DefaultFPSRefreshInterval = 500 * time.Millisecond
	fpsHistorySize            = 60
)

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// FPSSampler averages frame rate over fixed refresh windows. The host feeds
// it once per tick.
type FPSSampler struct {
	mu       sync.Mutex
	interval time.Duration
	frames   int
	elapsed  time.Duration
	current  float64
	min, max float64
	lastTick time.Duration
	history  []float64
}

func NewFPSSampler(interval time.Duration) *FPSSampler {
	if interval <= 0 {
		interval = DefaultFPSRefreshInterval
	}
	return &FPSSampler{interval: interval}
}

// Tick records one frame that took delta.
func (s *FPSSampler) Tick(delta time.Duration) {
	if delta < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames++
	s.elapsed += delta
	s.lastTick = delta
	if s.elapsed < s.interval {
		return
	}
	s.current = float64(s.frames) / s.elapsed.Seconds()
	if s.min == 0 || s.current < s.min {
		s.min = s.current
	}
	if s.current > s.max {
		s.max = s.current
	}
	s.history = append(s.history, s.current)
	if len(s.history) > fpsHistorySize {
		s.history = s.history[len(s.history)-fpsHistorySize:]
	}
	s.frames = 0
	s.elapsed = 0
}

func (s *FPSSampler) Current() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// FPSStats is a point-in-time copy of the sampler.
type FPSStats struct {
	Current   float64
	Min       float64
	Max       float64
	Average   float64
	FrameTime time.Duration
	History   []float64
}

func (s *FPSSampler) Stats() FPSStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := FPSStats{
		Current:   s.current,
		Min:       s.min,
		Max:       s.max,
		FrameTime: s.lastTick,
		History:   append([]float64(nil), s.history...),
	}
	if len(s.history) > 0 {
		sum := 0.0
		for _, v := range s.history {
			sum += v
		}
		st.Average = sum / float64(len(s.history))
	}
	return st
}

func (s *FPSSampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames, s.elapsed = 0, 0
	s.current, s.min, s.max = 0, 0, 0
	s.history = nil
}

// FPSPanel renders the sampler's statistics.
type FPSPanel struct {
	sampler *FPSSampler
}

func NewFPSPanel(s *FPSSampler) *FPSPanel {
	return &FPSPanel{sampler: s}
}

func (p *FPSPanel) OnEnter() error { return nil }
func (p *FPSPanel) OnExit() error  { return nil }

func (p *FPSPanel) Draw(f *panel.Frame) error {
	st := p.sampler.Stats()
	f.Printf("FPS        %7.2f\n", st.Current)
	f.Printf("Min / Max  %7.2f / %.2f\n", st.Min, st.Max)
	f.Printf("Average    %7.2f\n", st.Average)
	f.Printf("Frame time %s\n", st.FrameTime.Round(time.Microsecond))
	f.Printf("Frame      %d\n", f.Number)
	if len(st.History) > 0 {
		width := f.Width
		if width <= 0 || width > len(st.History) {
			width = len(st.History)
		}
		f.Println()
		f.Println(Sparkline(st.History[len(st.History)-width:]))
	}
	return nil
}

// HandleKey resets the statistics on "r".
func (p *FPSPanel) HandleKey(key string) bool {
	if key == "r" {
		p.sampler.Reset()
		return true
	}
	return false
}

// Sparkline renders values scaled between their own min and max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	var b strings.Builder
	for _, v := range values {
		idx := 0
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		b.WriteRune(sparkRunes[idx])
	}
	return b.String()
}

// FormatFPS is the label used by the collapsed icon.
func FormatFPS(fps float64) string {
	return fmt.Sprintf("FPS: %.2f", fps)
}
