package panel

import (
	"fmt"
	"strings"
	"time"
)

// Frame is the canvas a panel draws into for a single host tick.
type Frame struct {
	Width  int
	Height int
	Number uint64
	Delta  time.Duration
	Path   []string

	buf strings.Builder
}

func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height}
}

func (f *Frame) Write(p []byte) (int, error) {
	return f.buf.Write(p)
}

func (f *Frame) WriteString(s string) (int, error) {
	return f.buf.WriteString(s)
}

func (f *Frame) Printf(format string, args ...any) {
	fmt.Fprintf(&f.buf, format, args...)
}

func (f *Frame) Println(args ...any) {
	fmt.Fprintln(&f.buf, args...)
}

// PathString joins Path with slashes.
func (f *Frame) PathString() string {
	return strings.Join(f.Path, "/")
}

func (f *Frame) String() string {
	return f.buf.String()
}

// Lines splits the drawn output, dropping the trailing empty line left by a
// final newline.
func (f *Frame) Lines() []string {
	out := f.buf.String()
	if out == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

// Reset clears the drawn output and path but keeps size and counters.
func (f *Frame) Reset() {
	f.buf.Reset()
	f.Path = nil
}
