package navigator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nicobailon/debugdeck/internal/panel"
	"github.com/rs/zerolog"
)

const DefaultCloseLabel = "Close"

var (
	ErrTabOutOfRange = errors.New("tab strip returned an index out of range")
	ErrUnknownPath   = errors.New("unknown path")
	ErrNilRoot       = errors.New("nil root group")
)

// TabStrip is the host's tab widget. Given the labels of one group level and
// the current selection (-1 for an empty group), it returns the index chosen
// this frame, or selected when the user did not pick anything.
type TabStrip interface {
	Tabs(depth int, labels []string, selected int) int
}

// TabStripFunc adapts a function to TabStrip.
type TabStripFunc func(depth int, labels []string, selected int) int

func (f TabStripFunc) Tabs(depth int, labels []string, selected int) int {
	return f(depth, labels, selected)
}

// PanelError wraps a fault raised by a panel hook.
type PanelError struct {
	Op   string
	Path string
	Err  error
}

func (e *PanelError) Error() string {
	return fmt.Sprintf("panel %q: %s: %v", e.Path, e.Op, e.Err)
}

func (e *PanelError) Unwrap() error { return e.Err }

// Result describes what one frame reached.
type Result struct {
	// Collapse is set when the root's close tab was chosen.
	Collapse bool
	// Path is the chain of selected names that was descended.
	Path []string
	// Depth is the number of tab strips rendered.
	Depth int
	// Leaf is the panel drawn this frame, nil if none.
	Leaf panel.Panel
}

type Navigator struct {
	strip      TabStrip
	closeLabel string
	log        zerolog.Logger
}

type Option func(*Navigator)

func WithCloseLabel(label string) Option {
	return func(n *Navigator) {
		if label != "" {
			n.closeLabel = label
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(n *Navigator) {
		n.log = l
	}
}

func New(strip TabStrip, opts ...Option) *Navigator {
	n := &Navigator{
		strip:      strip,
		closeLabel: DefaultCloseLabel,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// RenderFrame descends from root, rendering one tab strip per group level,
// applying selection changes and drawing the deepest selected leaf. Panel
// faults are returned, never swallowed.
func (n *Navigator) RenderFrame(root *panel.Group, f *panel.Frame) (Result, error) {
	if root == nil {
		return Result{}, ErrNilRoot
	}
	if f == nil {
		f = panel.NewFrame(0, 0)
	}
	var res Result
	err := n.descend(root, 0, f, &res)
	return res, err
}

func (n *Navigator) descend(g *panel.Group, depth int, f *panel.Frame, res *Result) error {
	isRoot := depth == 0
	count := g.Len()
	labels := g.Names()
	if isRoot {
		labels = append(labels, n.closeLabel)
	}

	selected := g.Selected()
	chosen := n.strip.Tabs(depth, labels, selected)
	res.Depth = depth + 1
	if chosen < -1 || chosen >= len(labels) {
		return fmt.Errorf("%w: depth %d chose %d of %d", ErrTabOutOfRange, depth, chosen, len(labels))
	}

	if chosen < 0 {
		chosen = selected
	}
	if isRoot && chosen == count {
		n.log.Debug().Msg("collapse requested")
		res.Collapse = true
		return nil
	}
	if count == 0 {
		return nil
	}

	if chosen != selected {
		if err := n.transition(g, chosen, res.Path); err != nil {
			return err
		}
	}

	e, _ := g.SelectedEntry()
	res.Path = append(res.Path, e.Name)

	switch e.Kind {
	case panel.KindGroup:
		if e.Group == nil {
			return nil
		}
		return n.descend(e.Group, depth+1, f, res)
	case panel.KindLeaf:
		if e.Leaf == nil {
			return nil
		}
		res.Leaf = e.Leaf
		f.Path = append(f.Path[:0], res.Path...)
		if err := e.Leaf.Draw(f); err != nil {
			return &PanelError{Op: "draw", Path: joinPath(res.Path), Err: err}
		}
	}
	return nil
}

// transition fires exactly one exit on the old selection and one enter on the
// new one, in that order.
func (n *Navigator) transition(g *panel.Group, to int, prefix []string) error {
	old, hadOld := g.SelectedEntry()
	if hadOld {
		if err := old.Exit(); err != nil {
			return &PanelError{Op: "exit", Path: childPath(prefix, old.Name), Err: err}
		}
	}
	if err := g.Select(to); err != nil {
		return err
	}
	next := g.Entry(to)
	n.log.Debug().
		Str("from", old.Name).
		Str("to", next.Name).
		Str("group", joinPath(prefix)).
		Msg("selection changed")
	if err := next.Enter(); err != nil {
		return &PanelError{Op: "enter", Path: childPath(prefix, next.Name), Err: err}
	}
	return nil
}

// SelectPath moves the selection along path, firing the same exit/enter pairs
// a user navigation would. The whole path is resolved first, so an unknown
// segment leaves every selection and hook untouched.
func (n *Navigator) SelectPath(root *panel.Group, path string) error {
	if root == nil {
		return ErrNilRoot
	}
	segments := strings.Split(path, "/")
	type step struct {
		group *panel.Group
		index int
	}
	steps := make([]step, 0, len(segments))
	g := root
	for i, seg := range segments {
		if g == nil {
			return fmt.Errorf("%w: %s", ErrUnknownPath, joinPath(segments[:i+1]))
		}
		idx := g.Index(seg)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrUnknownPath, joinPath(segments[:i+1]))
		}
		steps = append(steps, step{group: g, index: idx})
		if i == len(segments)-1 {
			break
		}
		e := g.Entry(idx)
		if e.Kind != panel.KindGroup {
			return fmt.Errorf("%w: %s is a leaf", ErrUnknownPath, joinPath(segments[:i+1]))
		}
		g = e.Group
	}

	for i, st := range steps {
		if st.index == st.group.Selected() {
			continue
		}
		if err := n.transition(st.group, st.index, segments[:i]); err != nil {
			return err
		}
	}
	return nil
}

func childPath(prefix []string, name string) string {
	return joinPath(append(append([]string(nil), prefix...), name))
}

func joinPath(segments []string) string {
	return strings.Join(segments, "/")
}
