package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/nicobailon/debugdeck/internal/panel"
)

const Separator = "/"

var (
	ErrEmptyPath    = errors.New("empty path")
	ErrEmptySegment = errors.New("empty path segment")
	ErrNilPanel     = errors.New("nil panel")
	ErrDuplicate    = errors.New("path already registered")
	ErrNotGroup     = errors.New("path segment is a leaf, not a group")
	ErrNotFound     = errors.New("path not registered")
	ErrShared       = errors.New("group is already mounted")
)

// PathError records a rejected registry operation.
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// NotFoundError is returned by Lookup. Suggestion holds the closest
// registered path, if any.
type NotFoundError struct {
	Path       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("%q not registered (did you mean %q?)", e.Path, e.Suggestion)
	}
	return fmt.Sprintf("%q not registered", e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// Registry owns the root group of the panel tree. It only grows; there is no
// removal. It is not safe for concurrent use: register everything before the
// host starts rendering, or from the rendering goroutine.
type Registry struct {
	root *panel.Group
}

func New() *Registry {
	return &Registry{root: panel.NewGroup()}
}

func (r *Registry) Root() *panel.Group {
	return r.root
}

// Register attaches p as a leaf at path, creating intermediate groups for
// every segment but the last.
func (r *Registry) Register(path string, p panel.Panel) error {
	if p == nil {
		return &PathError{Op: "register", Path: path, Err: ErrNilPanel}
	}
	return r.attach("register", path, func(name string) panel.Entry {
		return panel.LeafEntry(name, p)
	})
}

// MustRegister is Register for init-time wiring; it panics on error.
func (r *Registry) MustRegister(path string, p panel.Panel) {
	if err := r.Register(path, p); err != nil {
		panic(err)
	}
}

// Mount attaches a caller-built group at path.
func (r *Registry) Mount(path string, g *panel.Group) error {
	if g == nil {
		return &PathError{Op: "mount", Path: path, Err: ErrNilPanel}
	}
	if shares(g, r.groups(), map[*panel.Group]bool{}) {
		return &PathError{Op: "mount", Path: path, Err: ErrShared}
	}
	return r.attach("mount", path, func(name string) panel.Entry {
		return panel.GroupEntry(name, g)
	})
}

func (r *Registry) attach(op, path string, build func(name string) panel.Entry) error {
	segments, err := Split(path)
	if err != nil {
		return &PathError{Op: op, Path: path, Err: err}
	}
	// Validate the whole path first so a rejected call leaves the tree untouched.
	if err := r.check(segments); err != nil {
		return &PathError{Op: op, Path: path, Err: err}
	}

	cur := r.root
	for _, seg := range segments[:len(segments)-1] {
		if e, ok := cur.Child(seg); ok {
			cur = e.Group
			continue
		}
		next := panel.NewGroup()
		cur.Append(panel.GroupEntry(seg, next))
		cur = next
	}
	cur.Append(build(segments[len(segments)-1]))
	return nil
}

func (r *Registry) check(segments []string) error {
	cur := r.root
	last := len(segments) - 1
	for i, seg := range segments {
		e, ok := cur.Child(seg)
		if !ok {
			return nil
		}
		if i == last {
			return ErrDuplicate
		}
		if e.Kind != panel.KindGroup {
			return fmt.Errorf("%w: %s", ErrNotGroup, strings.Join(segments[:i+1], Separator))
		}
		cur = e.Group
	}
	return nil
}

// groups returns every group the registry holds, root included.
func (r *Registry) groups() map[*panel.Group]bool {
	held := map[*panel.Group]bool{r.root: true}
	_ = r.Walk(func(_ []string, e panel.Entry, _ int) error {
		if e.Kind == panel.KindGroup && e.Group != nil {
			held[e.Group] = true
		}
		return nil
	})
	return held
}

// shares reports whether g or any group below it is already held, or occurs
// twice in g's own subtree.
func shares(g *panel.Group, held, seen map[*panel.Group]bool) bool {
	if held[g] || seen[g] {
		return true
	}
	seen[g] = true
	for i := 0; i < g.Len(); i++ {
		e := g.Entry(i)
		if e.Kind == panel.KindGroup && e.Group != nil && shares(e.Group, held, seen) {
			return true
		}
	}
	return false
}

// Lookup resolves path to its entry.
func (r *Registry) Lookup(path string) (panel.Entry, error) {
	segments, err := Split(path)
	if err != nil {
		return panel.Entry{}, &PathError{Op: "lookup", Path: path, Err: err}
	}
	cur := r.root
	for i, seg := range segments {
		e, ok := cur.Child(seg)
		if !ok {
			return panel.Entry{}, r.notFound(path)
		}
		if i == len(segments)-1 {
			return e, nil
		}
		if e.Kind != panel.KindGroup {
			return panel.Entry{}, r.notFound(path)
		}
		cur = e.Group
	}
	return panel.Entry{}, r.notFound(path)
}

func (r *Registry) notFound(path string) error {
	return &NotFoundError{Path: path, Suggestion: r.Suggest(path)}
}

// Suggest returns the registered path closest to path by edit distance, or ""
// when nothing is reasonably close.
func (r *Registry) Suggest(path string) string {
	best := ""
	bestDist := -1
	for _, candidate := range r.Paths() {
		d := levenshtein.ComputeDistance(strings.ToLower(path), strings.ToLower(candidate))
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist < 0 || bestDist > maxSuggestDistance(path) {
		return ""
	}
	return best
}

func maxSuggestDistance(path string) int {
	n := len(path) / 3
	if n < 2 {
		return 2
	}
	return n
}

// Paths lists every registered path, groups included, depth-first in tab
// order.
func (r *Registry) Paths() []string {
	var paths []string
	_ = r.Walk(func(segments []string, _ panel.Entry, _ int) error {
		paths = append(paths, strings.Join(segments, Separator))
		return nil
	})
	return paths
}

// WalkFunc is called for every entry below the root. Returning SkipGroup from
// a group entry skips its children.
type WalkFunc func(segments []string, e panel.Entry, depth int) error

var SkipGroup = errors.New("skip this group")

func (r *Registry) Walk(fn WalkFunc) error {
	return walk(r.root, nil, 0, fn)
}

func walk(g *panel.Group, prefix []string, depth int, fn WalkFunc) error {
	for i := 0; i < g.Len(); i++ {
		e := g.Entry(i)
		segments := append(append([]string(nil), prefix...), e.Name)
		err := fn(segments, e, depth)
		if errors.Is(err, SkipGroup) {
			continue
		}
		if err != nil {
			return err
		}
		if e.Kind == panel.KindGroup && e.Group != nil {
			if err := walk(e.Group, segments, depth+1, fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// Split validates path and returns its segments.
func Split(path string) ([]string, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}
	segments := strings.Split(path, Separator)
	for i, seg := range segments {
		if seg == "" {
			return nil, fmt.Errorf("%w at position %d", ErrEmptySegment, i)
		}
	}
	return segments, nil
}
