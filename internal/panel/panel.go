package panel

import (
	"errors"
	"fmt"
)

// Panel is the capability every diagnostic view provides. The host calls
// OnEnter and OnExit when the panel gains or loses the selection, and Draw
// once per frame while it is the deepest selected leaf.
type Panel interface {
	OnEnter() error
	OnExit() error
	Draw(f *Frame) error
}

// KeyHandler is implemented by panels that consume key presses while selected.
type KeyHandler interface {
	HandleKey(key string) bool
}

type Kind uint8

const (
	KindLeaf Kind = iota
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindGroup:
		return "group"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Entry is one named tab inside a Group. Exactly one of Leaf or Group is set,
// as indicated by Kind.
type Entry struct {
	Name  string
	Kind  Kind
	Leaf  Panel
	Group *Group
}

func LeafEntry(name string, p Panel) Entry {
	return Entry{Name: name, Kind: KindLeaf, Leaf: p}
}

func GroupEntry(name string, g *Group) Entry {
	return Entry{Name: name, Kind: KindGroup, Group: g}
}

func (e Entry) IsGroup() bool {
	return e.Kind == KindGroup
}

// Enter fires the entry's enter hook. Groups only forward traversal, so
// entering a group is a no-op.
func (e Entry) Enter() error {
	if e.Kind == KindLeaf && e.Leaf != nil {
		return e.Leaf.OnEnter()
	}
	return nil
}

func (e Entry) Exit() error {
	if e.Kind == KindLeaf && e.Leaf != nil {
		return e.Leaf.OnExit()
	}
	return nil
}

var ErrIndexOutOfRange = errors.New("selection index out of range")

// Group is one tab strip level: an ordered list of named children plus the
// index of the selected child.
type Group struct {
	entries  []Entry
	selected int
}

func NewGroup() *Group {
	return &Group{}
}

func (g *Group) Len() int {
	return len(g.entries)
}

// Names returns the child names in tab order.
func (g *Group) Names() []string {
	names := make([]string, len(g.entries))
	for i, e := range g.entries {
		names[i] = e.Name
	}
	return names
}

func (g *Group) Entry(i int) Entry {
	return g.entries[i]
}

// Index returns the position of the child called name, or -1.
func (g *Group) Index(name string) int {
	for i, e := range g.entries {
		if e.Name == name {
			return i
		}
	}
	return -1
}

func (g *Group) Child(name string) (Entry, bool) {
	if i := g.Index(name); i >= 0 {
		return g.entries[i], true
	}
	return Entry{}, false
}

// Append adds e as the last tab. Name uniqueness is the caller's concern.
func (g *Group) Append(e Entry) {
	g.entries = append(g.entries, e)
}

// Selected returns the selected index, clamped into range. It returns -1 for
// an empty group.
func (g *Group) Selected() int {
	switch {
	case len(g.entries) == 0:
		return -1
	case g.selected < 0:
		return 0
	case g.selected >= len(g.entries):
		return len(g.entries) - 1
	}
	return g.selected
}

func (g *Group) SelectedEntry() (Entry, bool) {
	i := g.Selected()
	if i < 0 {
		return Entry{}, false
	}
	return g.entries[i], true
}

// Select moves the selection without firing any hooks.
func (g *Group) Select(i int) error {
	if i < 0 || i >= len(g.entries) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(g.entries))
	}
	g.selected = i
	return nil
}
