package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestVisibleRangeKeepsSelection(t *testing.T) {
	cells := []string{"aaaa", "bbbb", "cccc", "dddd", "eeee"}
	start, end := visibleRange(cells, 4, 9)
	if start != 3 || end != 5 {
		t.Fatalf("range = [%d,%d), want [3,5)", start, end)
	}
	start, end = visibleRange(cells, 0, 100)
	if start != 0 || end != 5 {
		t.Fatalf("range = [%d,%d), want everything", start, end)
	}
	start, end = visibleRange(cells, 2, 4)
	if start != 2 || end != 3 {
		t.Fatalf("range = [%d,%d), want only the selection", start, end)
	}
}

func TestRenderTabsShowsLabels(t *testing.T) {
	out := RenderTabs(TabRow{Labels: []string{"Console", "Profiler", "Close"}, Selected: 1, Close: 2}, 80)
	for _, want := range []string{"Console", "Profiler", "Close"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in %q", want, out)
		}
	}
	if lipgloss.Width(out) > 80 {
		t.Fatalf("strip wider than requested: %d", lipgloss.Width(out))
	}
}

func TestRenderTabsNarrowScrolls(t *testing.T) {
	labels := []string{"First", "Second", "Third", "Fourth", "Fifth"}
	out := RenderTabs(TabRow{Labels: labels, Selected: 4, Close: -1, Focused: true}, 20)
	if !strings.Contains(out, "Fifth") {
		t.Fatalf("selected tab must stay visible: %q", out)
	}
	if strings.Contains(out, "First") {
		t.Fatalf("leading tabs should scroll off: %q", out)
	}
	if !strings.Contains(out, "▸") {
		t.Fatalf("focused strip should carry the marker: %q", out)
	}
}

func TestRenderTabsEmpty(t *testing.T) {
	if out := RenderTabs(TabRow{Close: -1}, 40); !strings.Contains(out, "(empty)") {
		t.Fatalf("empty strip = %q", out)
	}
}

func TestRenderWindowFitsSize(t *testing.T) {
	out := RenderWindow("DEBUGGER", []string{"tabs"}, "body line", "footer", 60, 20)
	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Fatalf("window height = %d, want 20", len(lines))
	}
	if lipgloss.Width(out) > 60 {
		t.Fatalf("window width = %d", lipgloss.Width(out))
	}
}
