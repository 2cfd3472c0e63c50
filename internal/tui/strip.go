package tui

// tabStrip is the host side of navigator.TabStrip. Key presses queue a choice
// for one depth; the next frame's Tabs call for that depth consumes it.
type tabStrip struct {
	rows    []tabRow
	pending map[int]int
}

type tabRow struct {
	labels   []string
	selected int
}

func newTabStrip() *tabStrip {
	return &tabStrip{pending: map[int]int{}}
}

func (s *tabStrip) begin() {
	s.rows = s.rows[:0]
}

func (s *tabStrip) Tabs(depth int, labels []string, selected int) int {
	chosen := selected
	if idx, ok := s.pending[depth]; ok {
		delete(s.pending, depth)
		if idx >= 0 && idx < len(labels) {
			chosen = idx
		}
	}
	s.rows = append(s.rows, tabRow{labels: labels, selected: chosen})
	return chosen
}

// choose queues idx for depth and drops choices queued for deeper levels,
// which would otherwise land in whatever group becomes selected.
func (s *tabStrip) choose(depth, idx int) {
	for d := range s.pending {
		if d > depth {
			delete(s.pending, d)
		}
	}
	s.pending[depth] = idx
}

func (s *tabStrip) snapshot() []tabRow {
	return append([]tabRow(nil), s.rows...)
}
