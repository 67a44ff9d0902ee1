package navigation

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/example/hades-route-manager/internal/routes/domain"
	"github.com/example/hades-route-manager/internal/routes/storage"
	"github.com/example/hades-route-manager/internal/routes/tree"
)

const route = "/Routes/RunA"

func newTestTree(t *testing.T) *tree.Lister {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, dir := range []string{route + "/Boss1/Deep", route + "/Boss2"} {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return tree.NewLister(storage.New(fs))
}

func TestSetRoute(t *testing.T) {
	var s State
	if s.Route() != "" || s.Snapshot() != "" {
		t.Fatal("zero state must have no route")
	}

	s.SetRoute(route)
	if s.Route() != route || s.Snapshot() != route {
		t.Fatalf("expected snapshot to equal route, got %q", s.Snapshot())
	}

	if err := s.SelectChild(filepath.Join(route, "Boss1")); err != nil {
		t.Fatalf("SelectChild: %v", err)
	}
	s.SetRoute("")
	if s.Route() != "" || s.Snapshot() != "" {
		t.Fatalf("expected cleared state, got %q/%q", s.Route(), s.Snapshot())
	}

	s.SetRoute("/Routes/RunB")
	if s.Snapshot() != "/Routes/RunB" {
		t.Fatalf("switching routes must discard depth, got %q", s.Snapshot())
	}
}

func TestSelectChild(t *testing.T) {
	var s State
	if err := s.SelectChild(""); err != nil {
		t.Fatalf("empty child must be a no-op, got %v", err)
	}
	if err := s.SelectChild(filepath.Join(route, "Boss1")); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition without route, got %v", err)
	}

	s.SetRoute(route)
	if err := s.SelectChild(""); err != nil || s.Snapshot() != route {
		t.Fatalf("empty child must keep the snapshot, got %q (%v)", s.Snapshot(), err)
	}
	if err := s.SelectChild(filepath.Join(route, "Boss1", "Deep")); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition for a grandchild, got %v", err)
	}
	if err := s.SelectChild(filepath.Join(route, "Boss1")); err != nil {
		t.Fatalf("SelectChild: %v", err)
	}
	if err := s.SelectChild(filepath.Join(route, "Boss1", "Deep")); err != nil {
		t.Fatalf("SelectChild deep: %v", err)
	}
	if s.Depth() != 3 {
		t.Fatalf("expected depth 3, got %d", s.Depth())
	}
}

func TestHasParent(t *testing.T) {
	lister := newTestTree(t)

	tests := []struct {
		name     string
		snapshot string
		route    string
		want     bool
	}{
		{"null snapshot", "", route, false},
		{"null snapshot and route", "", "", false},
		{"route root", route, route, false},
		{"route root with trailing slash", route + "/", route, false},
		{"route root via dot-dot", route + "/Boss1/..", route, false},
		{"child", route + "/Boss1", route, true},
		{"grandchild", route + "/Boss1/Deep", route, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HasParent(lister, tt.snapshot, tt.route)
			if err != nil {
				t.Fatalf("HasParent: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestHasParent_OsFsIdentity(t *testing.T) {
	dir := t.TempDir()
	routeDir := filepath.Join(dir, "Routes", "RunA")
	if err := os.MkdirAll(filepath.Join(routeDir, "Boss1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	lister := tree.NewLister(storage.New(afero.NewOsFs()))

	got, err := HasParent(lister, filepath.Join(routeDir, "Boss1", ".."), routeDir)
	if err != nil {
		t.Fatalf("HasParent: %v", err)
	}
	if got {
		t.Fatal("equivalent spelling of the route must not have a parent")
	}
}

func TestUpAndPhase(t *testing.T) {
	lister := newTestTree(t)
	var s State

	phase, err := s.Phase(lister)
	if err != nil || phase != NoRoute {
		t.Fatalf("expected NoRoute, got %v (%v)", phase, err)
	}
	if err := s.Up(lister); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition without route, got %v", err)
	}

	s.SetRoute(route)
	phase, _ = s.Phase(lister)
	if phase != AtRoot {
		t.Fatalf("expected AtRoot, got %v", phase)
	}
	if err := s.Up(lister); !errors.Is(err, domain.ErrPrecondition) {
		t.Fatalf("expected ErrPrecondition at root, got %v", err)
	}

	_ = s.SelectChild(filepath.Join(route, "Boss1"))
	_ = s.SelectChild(filepath.Join(route, "Boss1", "Deep"))
	phase, _ = s.Phase(lister)
	if phase != AtDescendant {
		t.Fatalf("expected AtDescendant, got %v", phase)
	}

	if err := s.Up(lister); err != nil {
		t.Fatalf("Up: %v", err)
	}
	if s.Snapshot() != filepath.Join(route, "Boss1") {
		t.Fatalf("unexpected snapshot %q", s.Snapshot())
	}
	phase, _ = s.Phase(lister)
	if phase != AtDescendant {
		t.Fatalf("expected AtDescendant, got %v", phase)
	}

	if err := s.Up(lister); err != nil {
		t.Fatalf("Up: %v", err)
	}
	phase, _ = s.Phase(lister)
	if phase != AtRoot || s.Snapshot() != route {
		t.Fatalf("expected to land on the root, got %v at %q", phase, s.Snapshot())
	}
	if s.Depth() != 1 {
		t.Fatalf("expected depth 1, got %d", s.Depth())
	}
}

func TestHasChild(t *testing.T) {
	lister := newTestTree(t)

	tests := []struct {
		snapshot string
		want     bool
	}{
		{"", false},
		{route, true},
		{route + "/Boss1", true},
		{route + "/Boss2", false},
	}
	for _, tt := range tests {
		got, err := HasChild(lister, tt.snapshot)
		if err != nil {
			t.Fatalf("HasChild(%q): %v", tt.snapshot, err)
		}
		if got != tt.want {
			t.Errorf("HasChild(%q): expected %v, got %v", tt.snapshot, tt.want, got)
		}
	}
}

func TestPhaseString(t *testing.T) {
	if AtRoot.String() != "at root" || Phase(9).String() != "Phase(9)" {
		t.Fatalf("unexpected strings %q %q", AtRoot.String(), Phase(9).String())
	}
}

func TestDepthMixedPathForms(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	tests := []struct {
		name     string
		route    string
		snapshot string
		want     int
	}{
		{"relative route, absolute snapshot", "Routes/RunA", filepath.Join(wd, "Routes", "RunA", "Boss1", "Boss2"), 3},
		{"absolute route, relative snapshot", filepath.Join(wd, "Routes", "RunA"), filepath.Join("Routes", "RunA", "Boss1"), 2},
		{"trailing separator", "Routes/RunA/", filepath.Join("Routes", "RunA"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := State{route: tt.route, snapshot: tt.snapshot}
			if got := s.Depth(); got != tt.want {
				t.Fatalf("expected depth %d, got %d", tt.want, got)
			}
		})
	}
}
