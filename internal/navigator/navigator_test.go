package navigator

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nicobailon/debugdeck/internal/panel"
	"github.com/nicobailon/debugdeck/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	events []string
}

func (r *recorder) add(format string, args ...any) {
	r.events = append(r.events, fmt.Sprintf(format, args...))
}

type recPanel struct {
	name    string
	rec     *recorder
	drawErr error
	exitErr error
}

func (p *recPanel) OnEnter() error {
	p.rec.add("enter %s", p.name)
	return nil
}

func (p *recPanel) OnExit() error {
	p.rec.add("exit %s", p.name)
	return p.exitErr
}

func (p *recPanel) Draw(f *panel.Frame) error {
	p.rec.add("draw %s", p.name)
	f.Println(p.name)
	return p.drawErr
}

// scriptStrip returns queued choices per depth and records what it was shown.
type scriptStrip struct {
	picks  map[int]int
	shown  map[int][]string
	states map[int]int
}

func newScriptStrip() *scriptStrip {
	return &scriptStrip{picks: map[int]int{}, shown: map[int][]string{}, states: map[int]int{}}
}

func (s *scriptStrip) Tabs(depth int, labels []string, selected int) int {
	s.shown[depth] = append([]string(nil), labels...)
	s.states[depth] = selected
	if idx, ok := s.picks[depth]; ok {
		delete(s.picks, depth)
		return idx
	}
	return selected
}

func build(t *testing.T, rec *recorder, paths ...string) (*registry.Registry, map[string]*recPanel) {
	t.Helper()
	r := registry.New()
	panels := map[string]*recPanel{}
	for _, p := range paths {
		rp := &recPanel{name: p, rec: rec}
		panels[p] = rp
		require.NoError(t, r.Register(p, rp))
	}
	return r, panels
}

func TestRootStripHasCloseEntry(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "Console", "Stats")
	strip := newScriptStrip()
	nav := New(strip)

	res, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.False(t, res.Collapse)
	assert.Equal(t, []string{"Console", "Stats", "Close"}, strip.shown[0])
	assert.Equal(t, []string{"draw Console"}, rec.events)
}

func TestCloseTabCollapsesWithoutDescending(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "A/B/C", "D")
	strip := newScriptStrip()
	nav := New(strip, WithCloseLabel("Hide"))

	strip.picks[0] = 2
	res, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.True(t, res.Collapse)
	assert.Equal(t, 1, res.Depth)
	assert.Nil(t, res.Leaf)
	assert.Equal(t, "Hide", strip.shown[0][2])
	assert.Empty(t, rec.events, "collapse must not fire hooks or draw")
	_, descended := strip.shown[1]
	assert.False(t, descended)
	assert.Equal(t, 0, r.Root().Selected(), "collapse must not move the selection")
}

func TestSelectionChangeFiresExitThenEnter(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "A", "B", "C")
	strip := newScriptStrip()
	nav := New(strip)

	strip.picks[0] = 2
	_, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.Equal(t, []string{"exit A", "enter C", "draw C"}, rec.events)
	assert.Equal(t, 2, r.Root().Selected())

	rec.events = nil
	_, err = nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.Equal(t, []string{"draw C"}, rec.events, "unchanged choice fires no transitions")
}

func TestTransitionsPairUp(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "P0", "P1", "P2", "P3")
	strip := newScriptStrip()
	nav := New(strip)

	sequence := []int{1, 1, 3, 0, 0, 2, 1, 1, 1, 3}
	prev := 0
	changes := 0
	for _, pick := range sequence {
		if pick != prev {
			changes++
		}
		prev = pick
		strip.picks[0] = pick
		_, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
		require.NoError(t, err)
	}

	var transitions []string
	for _, ev := range rec.events {
		if ev[:4] == "draw" {
			continue
		}
		transitions = append(transitions, ev)
	}
	require.Len(t, transitions, 2*changes)
	for i := 0; i < len(transitions); i += 2 {
		assert.Equal(t, "exit", transitions[i][:4], "event %d", i)
		assert.Equal(t, "enter", transitions[i+1][:5], "event %d", i+1)
	}
}

func TestRecursiveDescentReachesDeepLeaf(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "A/B/C")
	strip := newScriptStrip()
	nav := New(strip)

	f := panel.NewFrame(80, 24)
	res, err := nav.RenderFrame(r.Root(), f)
	require.NoError(t, err)
	assert.Equal(t, []string{"draw A/B/C"}, rec.events)
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
	assert.Equal(t, []string{"A", "B", "C"}, f.Path)
	assert.Equal(t, 3, res.Depth)
	assert.Equal(t, []string{"A", "Close"}, strip.shown[0])
	assert.Equal(t, []string{"B"}, strip.shown[1])
	assert.Equal(t, []string{"C"}, strip.shown[2])
	assert.Equal(t, "A/B/C\n", f.String())
}

func TestLeavingTopLevelStopsDeepDraw(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "A/B/C", "Other")
	strip := newScriptStrip()
	nav := New(strip)

	_, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	require.Equal(t, []string{"draw A/B/C"}, rec.events)

	rec.events = nil
	strip.picks[0] = 1
	res, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	// A is a group, so leaving it fires no hooks; only the new leaf enters.
	assert.Equal(t, []string{"enter Other", "draw Other"}, rec.events)
	assert.Equal(t, 1, res.Depth)
	assert.Equal(t, []string{"Other"}, res.Path)
}

func TestNestedSelectionChangeFiresAtThatLevel(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "Profiler/FPS", "Profiler/Memory")
	strip := newScriptStrip()
	nav := New(strip)

	strip.picks[1] = 1
	res, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.Equal(t, []string{"exit Profiler/FPS", "enter Profiler/Memory", "draw Profiler/Memory"}, rec.events)
	assert.Equal(t, []string{"Profiler", "Memory"}, res.Path)
}

func TestEmptyRootIsNoop(t *testing.T) {
	strip := newScriptStrip()
	nav := New(strip)
	root := panel.NewGroup()

	res, err := nav.RenderFrame(root, panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.False(t, res.Collapse)
	assert.Equal(t, []string{"Close"}, strip.shown[0])
	assert.Equal(t, -1, strip.states[0])

	strip.picks[0] = 0
	res, err = nav.RenderFrame(root, panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.True(t, res.Collapse, "explicitly choosing close on an empty root collapses")
}

func TestEmptyNestedGroupDoesNothing(t *testing.T) {
	rec := &recorder{}
	r := registry.New()
	empty := panel.NewGroup()
	require.NoError(t, r.Mount("Empty", empty))
	strip := newScriptStrip()
	nav := New(strip)

	res, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.Empty(t, rec.events)
	assert.Nil(t, res.Leaf)
	assert.Equal(t, 2, res.Depth)
	assert.Empty(t, strip.shown[1])
}

func TestOutOfRangeChoiceIsRejected(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "A", "B")
	strip := newScriptStrip()
	nav := New(strip)

	strip.picks[0] = 3
	_, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.ErrorIs(t, err, ErrTabOutOfRange)
	assert.Empty(t, rec.events)
	assert.Equal(t, 0, r.Root().Selected())
}

func TestNegativeChoiceKeepsSelection(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "A", "B")
	nav := New(TabStripFunc(func(int, []string, int) int { return -1 }))
	_, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.Equal(t, []string{"draw A"}, rec.events)
}

func TestPanelFaultsPropagate(t *testing.T) {
	rec := &recorder{}
	r, panels := build(t, rec, "Tools/Broken", "Tools/Fine")
	boom := errors.New("boom")
	panels["Tools/Broken"].drawErr = boom
	nav := New(newScriptStrip())

	_, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.ErrorIs(t, err, boom)
	var pe *PanelError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "draw", pe.Op)
	assert.Equal(t, "Tools/Broken", pe.Path)
}

func TestExitFaultStopsTransition(t *testing.T) {
	rec := &recorder{}
	r, panels := build(t, rec, "A", "B")
	boom := errors.New("stuck")
	panels["A"].exitErr = boom
	strip := newScriptStrip()
	nav := New(strip)

	strip.picks[0] = 1
	_, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.ErrorIs(t, err, boom)
	var pe *PanelError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "exit", pe.Op)
	assert.Equal(t, "A", pe.Path)
	assert.Equal(t, []string{"exit A"}, rec.events)
	assert.Equal(t, 0, r.Root().Selected())
}

func TestSelectPath(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "Console", "Profiler/FPS", "Profiler/Memory")
	strip := newScriptStrip()
	nav := New(strip)

	require.NoError(t, nav.SelectPath(r.Root(), "Profiler/Memory"))
	assert.Equal(t, []string{"exit Console", "exit Profiler/FPS", "enter Profiler/Memory"}, rec.events)

	rec.events = nil
	res, err := nav.RenderFrame(r.Root(), panel.NewFrame(80, 24))
	require.NoError(t, err)
	assert.Equal(t, []string{"draw Profiler/Memory"}, rec.events)
	assert.Equal(t, []string{"Profiler", "Memory"}, res.Path)

	require.ErrorIs(t, nav.SelectPath(r.Root(), "Profiler/Nope"), ErrUnknownPath)
	require.ErrorIs(t, nav.SelectPath(r.Root(), "Console/Deeper"), ErrUnknownPath)
	require.ErrorIs(t, nav.SelectPath(nil, "Console"), ErrNilRoot)
}

func TestSelectPathUnknownSegmentChangesNothing(t *testing.T) {
	rec := &recorder{}
	r, _ := build(t, rec, "Console", "Profiler/FPS")
	nav := New(newScriptStrip())

	require.ErrorIs(t, nav.SelectPath(r.Root(), "Profiler/Nope"), ErrUnknownPath)
	require.ErrorIs(t, nav.SelectPath(r.Root(), "Console/Deeper"), ErrUnknownPath)
	assert.Equal(t, 0, r.Root().Selected())
	assert.Empty(t, rec.events)
}

func TestSelectPathFaultNamesFullPath(t *testing.T) {
	rec := &recorder{}
	r, panels := build(t, rec, "Tools/A", "Tools/B")
	panels["Tools/A"].exitErr = errors.New("stuck")
	nav := New(newScriptStrip())

	err := nav.SelectPath(r.Root(), "Tools/B")
	var pe *PanelError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Tools/A", pe.Path)
}

func TestNilGroupEntryDrawsNothing(t *testing.T) {
	root := panel.NewGroup()
	root.Append(panel.GroupEntry("Hollow", nil))
	nav := New(newScriptStrip())

	res, err := nav.RenderFrame(root, panel.NewFrame(10, 2))
	require.NoError(t, err)
	assert.Nil(t, res.Leaf)
	assert.Equal(t, []string{"Hollow"}, res.Path)
}
