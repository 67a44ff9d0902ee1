// Package navigation tracks where the user is inside the route tree.
//
// A State is an explicit value owned by a session; nothing here is global,
// so independent sessions (and tests) never share pointers.
package navigation

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/hades-route-manager/internal/routes/domain"
	"github.com/example/hades-route-manager/internal/routes/tree"
)

// Tree is the part of the directory tree navigation needs.
type Tree interface {
	Children(path string) ([]tree.Node, error)
	SameDir(a, b string) (bool, error)
}

// Phase is the coarse navigation state.
type Phase int

const (
	NoRoute Phase = iota
	AtRoot
	AtDescendant
)

func (p Phase) String() string {
	switch p {
	case NoRoute:
		return "no route"
	case AtRoot:
		return "at root"
	case AtDescendant:
		return "at descendant"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// State holds the current route and snapshot. The zero value has no route.
// An empty string means "none".
type State struct {
	route    string
	snapshot string
}

// Route returns the current route directory, or "".
func (s *State) Route() string {
	return s.route
}

// Snapshot returns the current snapshot directory, or "" when no route is set.
func (s *State) Snapshot() string {
	if s.route == "" {
		return ""
	}
	return s.snapshot
}

// SetRoute switches to route and moves to its root. An empty route clears
// both pointers.
func (s *State) SetRoute(route string) {
	s.route = route
	s.snapshot = route
}

// SelectChild moves to child, which must be a direct subdirectory of the
// current snapshot. An empty child is a no-op.
func (s *State) SelectChild(child string) error {
	if child == "" {
		return nil
	}
	if s.route == "" {
		return fmt.Errorf("%w: no route selected", domain.ErrPrecondition)
	}
	if tree.Parent(child) != filepath.Clean(s.snapshot) {
		return fmt.Errorf("%w: %s is not a child of %s", domain.ErrPrecondition, child, s.snapshot)
	}
	s.snapshot = child
	return nil
}

// Up moves to the parent of the current snapshot. It fails at the route root.
func (s *State) Up(t Tree) error {
	ok, err := HasParent(t, s.Snapshot(), s.route)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: already at the route root", domain.ErrPrecondition)
	}
	s.snapshot = ParentOf(s.snapshot)
	return nil
}

// Phase reports whether a route is set and whether the snapshot is its root.
func (s *State) Phase(t Tree) (Phase, error) {
	if s.route == "" {
		return NoRoute, nil
	}
	ok, err := HasParent(t, s.snapshot, s.route)
	if err != nil {
		return NoRoute, err
	}
	if ok {
		return AtDescendant, nil
	}
	return AtRoot, nil
}

// Depth is 1 at the route root and grows by one per level below it.
// It is 0 when no route is set.
func (s *State) Depth() int {
	if s.route == "" {
		return 0
	}
	rel, err := filepath.Rel(absPath(s.route), absPath(s.snapshot))
	if err != nil || rel == "." {
		return 1
	}
	return len(strings.Split(rel, string(filepath.Separator))) + 1
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// HasParent reports whether snapshot sits below route, i.e. is not the
// route directory itself. Identity is decided by the filesystem, so two
// spellings of the same directory compare equal.
func HasParent(t Tree, snapshot, route string) (bool, error) {
	if snapshot == "" {
		return false, nil
	}
	same, err := t.SameDir(snapshot, route)
	if err != nil {
		return false, err
	}
	return !same, nil
}

// HasChild reports whether snapshot has any child snapshots.
func HasChild(t Tree, snapshot string) (bool, error) {
	if snapshot == "" {
		return false, nil
	}
	children, err := t.Children(snapshot)
	if err != nil {
		return false, err
	}
	return len(children) > 0, nil
}

// ParentOf returns the directory one level above snapshot. Callers check
// HasParent first.
func ParentOf(snapshot string) string {
	return tree.Parent(snapshot)
}
