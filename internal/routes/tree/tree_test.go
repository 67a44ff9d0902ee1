package tree

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/example/hades-route-manager/internal/routes/storage"
)

func newTestLister(t *testing.T, dirs ...string) (*Lister, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	for _, dir := range dirs {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", dir, err)
		}
	}
	return NewLister(storage.New(fs)), fs
}

func TestChildrenEmptyPath(t *testing.T) {
	lister, _ := newTestLister(t)
	nodes, err := lister.Children("")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if nodes == nil || len(nodes) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", nodes)
	}
}

func TestChildrenSortedWithPaths(t *testing.T) {
	lister, fs := newTestLister(t, "/Routes/RunA/Boss2", "/Routes/RunA/Boss1", "/Routes/RunA/Boss1/Deep")
	if err := afero.WriteFile(fs, "/Routes/RunA/Profile1.sav", []byte("save"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	nodes, err := lister.Children("/Routes/RunA")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	want := []Node{
		{Name: "Boss1", Path: filepath.Join("/Routes/RunA", "Boss1")},
		{Name: "Boss2", Path: filepath.Join("/Routes/RunA", "Boss2")},
	}
	if len(nodes) != len(want) {
		t.Fatalf("expected %v, got %v", want, nodes)
	}
	for i := range want {
		if nodes[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, nodes)
		}
	}
}

func TestChildrenStableAndReflectsChanges(t *testing.T) {
	lister, fs := newTestLister(t, "/Routes/b", "/Routes/a")

	first, err := lister.Children("/Routes")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	second, err := lister.Children("/Routes")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("listing changed between calls: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("listing changed between calls: %v vs %v", first, second)
		}
	}

	if err := fs.MkdirAll("/Routes/c", 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	third, err := lister.Children("/Routes")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(third) != 3 || third[2].Name != "c" {
		t.Fatalf("expected new directory to appear, got %v", third)
	}
}

func TestParent(t *testing.T) {
	if got := Parent("/Routes/RunA/Boss1/"); got != filepath.Clean("/Routes/RunA") {
		t.Fatalf("unexpected parent %q", got)
	}
}

func TestNewNode(t *testing.T) {
	node := NewNode(filepath.Join("Routes", "RunA"))
	if node.Name != "RunA" {
		t.Fatalf("unexpected name %q", node.Name)
	}
}
