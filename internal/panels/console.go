package panels

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/ansi"
	"github.com/nicobailon/debugdeck/internal/panel"
	"github.com/rs/zerolog"
)

const DefaultConsoleCapacity = 500

// LogEntry is one captured log event.
type LogEntry struct {
	Time    time.Time
	Level   zerolog.Level
	Message string
	Fields  map[string]string
}

type levelClass int

const (
	classInfo levelClass = iota
	classWarn
	classError
)

func classify(l zerolog.Level) levelClass {
	switch {
	case l >= zerolog.ErrorLevel && l <= zerolog.PanicLevel:
		return classError
	case l == zerolog.WarnLevel:
		return classWarn
	default:
		return classInfo
	}
}

// Console keeps the most recent log events in a ring buffer and renders them
// with per-level filters. It doubles as an io.Writer for zerolog, which may
// call Write from any goroutine.
type Console struct {
	mu       sync.Mutex
	entries  []LogEntry
	start    int
	capacity int
	counts   [3]int

	show   [3]bool
	follow bool
	dirty  bool
	vp     viewport.Model
}

func NewConsole(capacity int) *Console {
	if capacity <= 0 {
		capacity = DefaultConsoleCapacity
	}
	return &Console{
		capacity: capacity,
		show:     [3]bool{true, true, true},
		follow:   true,
		vp:       viewport.New(0, 0),
	}
}

// Write parses one zerolog JSON event. Lines that are not JSON are kept
// verbatim at info level.
func (c *Console) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		c.Append(parseEvent(line))
	}
	return len(p), nil
}

// WriteLevel lets Console act as a zerolog.LevelWriter.
func (c *Console) WriteLevel(_ zerolog.Level, p []byte) (int, error) {
	return c.Write(p)
}

func (c *Console) Append(e LogEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) < c.capacity {
		c.entries = append(c.entries, e)
	} else {
		evicted := c.entries[c.start]
		c.counts[classify(evicted.Level)]--
		c.entries[c.start] = e
		c.start = (c.start + 1) % c.capacity
	}
	c.counts[classify(e.Level)]++
	c.dirty = true
}

// Entries returns a copy of the buffer, oldest first.
func (c *Console) Entries() []LogEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Console) snapshot() []LogEntry {
	out := make([]LogEntry, 0, len(c.entries))
	out = append(out, c.entries[c.start:]...)
	out = append(out, c.entries[:c.start]...)
	return out
}

// Counts returns the number of buffered info, warning and error entries.
func (c *Console) Counts() (info, warn, errs int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[classInfo], c.counts[classWarn], c.counts[classError]
}

func (c *Console) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
}

func (c *Console) clearLocked() {
	c.entries = nil
	c.start = 0
	c.counts = [3]int{}
	c.dirty = true
}

func (c *Console) OnEnter() error {
	c.mu.Lock()
	c.dirty = true
	c.mu.Unlock()
	return nil
}

func (c *Console) OnExit() error {
	return nil
}

func (c *Console) Draw(f *panel.Frame) error {
	c.mu.Lock()
	entries := c.snapshot()
	counts := c.counts
	dirty := c.dirty
	c.dirty = false
	show := c.show
	follow := c.follow
	c.mu.Unlock()

	header := fmt.Sprintf("%s info %d  %s warn %d  %s error %d  follow:%s",
		toggle(show[classInfo]), counts[classInfo],
		toggle(show[classWarn]), counts[classWarn],
		toggle(show[classError]), counts[classError],
		onOff(follow))
	f.Println(ansi.Truncate(header, max(f.Width, 1), "…"))

	height := f.Height - 1
	if height < 1 {
		height = 1
	}
	resized := c.vp.Width != f.Width || c.vp.Height != height
	c.vp.Width = f.Width
	c.vp.Height = height
	if dirty || resized {
		c.vp.SetContent(c.render(entries, show, f.Width))
		if follow {
			c.vp.GotoBottom()
		}
	}
	f.WriteString(c.vp.View())
	return nil
}

func (c *Console) render(entries []LogEntry, show [3]bool, width int) string {
	var b strings.Builder
	for _, e := range entries {
		if !show[classify(e.Level)] {
			continue
		}
		line := fmt.Sprintf("%s %-5s %s", e.Time.Format("15:04:05"), levelTag(e.Level), e.Message)
		if len(e.Fields) > 0 {
			line += " " + formatFields(e.Fields)
		}
		if width > 0 {
			line = ansi.Truncate(line, width, "…")
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// HandleKey toggles filters and scrolls while the console is selected.
func (c *Console) HandleKey(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch key {
	case "i":
		c.show[classInfo] = !c.show[classInfo]
	case "w":
		c.show[classWarn] = !c.show[classWarn]
	case "e":
		c.show[classError] = !c.show[classError]
	case "f":
		c.follow = !c.follow
	case "x":
		c.clearLocked()
	case "pgup":
		c.follow = false
		c.vp.SetYOffset(c.vp.YOffset - max(c.vp.Height-1, 1))
		return true
	case "pgdown":
		c.vp.SetYOffset(c.vp.YOffset + max(c.vp.Height-1, 1))
		if c.vp.AtBottom() {
			c.follow = true
		}
		return true
	case "home":
		c.follow = false
		c.vp.GotoTop()
		return true
	case "end":
		c.follow = true
		c.vp.GotoBottom()
		return true
	default:
		return false
	}
	c.dirty = true
	return true
}

func parseEvent(line string) LogEntry {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return LogEntry{Time: time.Now(), Level: zerolog.InfoLevel, Message: line}
	}
	e := LogEntry{Time: time.Now(), Level: zerolog.InfoLevel}
	if v, ok := raw[zerolog.LevelFieldName].(string); ok {
		if lvl, err := zerolog.ParseLevel(v); err == nil {
			e.Level = lvl
		}
	}
	if v, ok := raw[zerolog.MessageFieldName].(string); ok {
		e.Message = v
	}
	if v, ok := raw[zerolog.TimestampFieldName].(string); ok {
		if ts, err := time.Parse(zerolog.TimeFieldFormat, v); err == nil {
			e.Time = ts
		}
	}
	for k, v := range raw {
		switch k {
		case zerolog.LevelFieldName, zerolog.MessageFieldName, zerolog.TimestampFieldName:
			continue
		}
		if e.Fields == nil {
			e.Fields = map[string]string{}
		}
		e.Fields[k] = fmt.Sprint(v)
	}
	return e
}

func formatFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + fields[k]
	}
	return strings.Join(parts, " ")
}

func levelTag(l zerolog.Level) string {
	switch classify(l) {
	case classError:
		return "ERR"
	case classWarn:
		return "WRN"
	}
	if l == zerolog.DebugLevel {
		return "DBG"
	}
	if l == zerolog.TraceLevel {
		return "TRC"
	}
	return "INF"
}

func toggle(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
