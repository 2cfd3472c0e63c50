package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/nicobailon/debugdeck/internal/tui/theme"
)

const maxLabelWidth = 24

// TabRow is one rendered tab strip level.
type TabRow struct {
	Labels   []string
	Selected int
	Focused  bool
	// Close is the index of the synthetic close tab, or -1.
	Close int
}

// RenderTabs draws a strip on a single line no wider than width. When the
// tabs do not fit, the window slides so the selected tab stays visible.
func RenderTabs(row TabRow, width int) string {
	marker := "  "
	if row.Focused {
		marker = theme.StripMarkerStyle.Render("▸ ")
	}
	if len(row.Labels) == 0 {
		return marker + theme.DimStyle.Render("(empty)")
	}

	cells := make([]string, len(row.Labels))
	for i, label := range row.Labels {
		label = runewidth.Truncate(label, maxLabelWidth, "…")
		style := theme.TabStyle
		switch {
		case i == row.Selected && row.Focused:
			style = theme.FocusedTabStyle
		case i == row.Selected:
			style = theme.ActiveTabStyle
		case i == row.Close:
			style = theme.CloseTabStyle
		}
		cells[i] = style.Render(label)
	}

	avail := width - 2
	if avail <= 0 {
		return marker + strings.Join(cells, "")
	}
	start, end := visibleRange(cells, row.Selected, avail)
	line := strings.Join(cells[start:end], theme.SeparatorStyle.Render("│"))
	if start > 0 {
		line = theme.DimStyle.Render("‹") + line
	}
	if end < len(cells) {
		line += theme.DimStyle.Render("›")
	}
	return marker + ansi.Truncate(line, avail, "")
}

// visibleRange picks the widest window of cells around selected that fits.
func visibleRange(cells []string, selected, avail int) (int, int) {
	if selected < 0 || selected >= len(cells) {
		selected = 0
	}
	start, end := selected, selected+1
	used := lipgloss.Width(cells[selected])
	for {
		grew := false
		if end < len(cells) && used+lipgloss.Width(cells[end])+1 <= avail {
			used += lipgloss.Width(cells[end]) + 1
			end++
			grew = true
		}
		if start > 0 && used+lipgloss.Width(cells[start-1])+1 <= avail {
			start--
			used += lipgloss.Width(cells[start]) + 1
			grew = true
		}
		if !grew {
			return start, end
		}
	}
}

// RenderWindow frames the title, strips and body inside the bordered window.
func RenderWindow(title string, strips []string, body, footer string, width, height int) string {
	var b strings.Builder
	b.WriteString(title)
	b.WriteByte('\n')
	for _, s := range strips {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	b.WriteString(theme.SeparatorStyle.Render(strings.Repeat("─", max(width-4, 1))))
	b.WriteByte('\n')
	b.WriteString(body)

	inner := width - 2
	innerHeight := height - 2
	content := lipgloss.NewStyle().
		Width(max(inner-2, 1)).
		Height(max(innerHeight-1, 1)).
		MaxHeight(max(innerHeight-1, 1)).
		Render(b.String())
	return theme.WindowStyle.Render(content) + "\n" + footer
}
