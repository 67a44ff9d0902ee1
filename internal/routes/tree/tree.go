// Package tree exposes the route/snapshot directory hierarchy. There is no
// index: every call reads the filesystem again, so changes made by other
// tools between calls are picked up.
package tree

import (
	"path/filepath"

	"github.com/example/hades-route-manager/internal/routes/storage"
)

// Node is one directory in the tree, a route or a snapshot.
type Node struct {
	Name string
	Path string
}

// NewNode builds a Node for path, naming it after its last element.
func NewNode(path string) Node {
	return Node{Name: filepath.Base(path), Path: path}
}

// Lister enumerates and compares tree directories.
type Lister struct {
	storage *storage.Storage
}

// NewLister creates a Lister over the given storage.
func NewLister(storage *storage.Storage) *Lister {
	return &Lister{storage: storage}
}

// Children returns the immediate subdirectories of path sorted by name. An
// empty path has no children.
func (l *Lister) Children(path string) ([]Node, error) {
	if path == "" {
		return []Node{}, nil
	}
	dirs, err := l.storage.ListDirs(path)
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, 0, len(dirs))
	for _, dir := range dirs {
		nodes = append(nodes, Node{Name: dir.Name(), Path: filepath.Join(path, dir.Name())})
	}
	return nodes, nil
}

// SameDir reports whether a and b are the same directory on disk.
func (l *Lister) SameDir(a, b string) (bool, error) {
	return l.storage.SameDir(a, b)
}

// Parent returns the directory one level above path.
func Parent(path string) string {
	return filepath.Dir(filepath.Clean(path))
}
