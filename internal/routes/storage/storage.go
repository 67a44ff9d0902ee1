package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// Storage provides the filesystem operations the route tree is built on.
type Storage struct {
	fs afero.Fs
}

// New creates a new Storage instance.
func New(fs afero.Fs) *Storage {
	return &Storage{fs: fs}
}

// FileSystem returns the underlying filesystem.
func (s *Storage) FileSystem() afero.Fs {
	return s.fs
}

// ValidatePathSafety checks that the path is not a symlink, preventing symlink attacks.
// It returns nil if the path doesn't exist or is a regular file/directory.
func (s *Storage) ValidatePathSafety(path string) error {
	if lstater, ok := s.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return fmt.Errorf("failed to check path: %w", err)
		}

		if info.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("refusing to operate on symlink: %s", path)
		}
	}
	// In-memory filesystems have no symlinks.
	return nil
}

// CopyFile copies src to dst byte for byte. The data is written to a
// temporary file next to dst and renamed over it, so dst is either the old
// or the new content, never a truncated mix.
func (s *Storage) CopyFile(src, dst string) (err error) {
	if err := s.ValidatePathSafety(src); err != nil {
		return fmt.Errorf("validate source: %w", err)
	}
	if err := s.ValidatePathSafety(dst); err != nil {
		return fmt.Errorf("validate destination: %w", err)
	}

	source, err := s.fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer func() {
		if cerr := source.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close source: %w", cerr)
		}
	}()

	dir := filepath.Dir(dst)
	if err := s.fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp := dst + ".tmp"
	dest, err := s.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	_, copyErr := io.Copy(dest, source)
	closeErr := dest.Close()

	if copyErr != nil || closeErr != nil {
		s.fs.Remove(tmp)
		if copyErr != nil {
			return fmt.Errorf("copy data: %w", copyErr)
		}
		return fmt.Errorf("close temp file: %w", closeErr)
	}

	if err := s.fs.Rename(tmp, dst); err != nil {
		s.fs.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}

	return nil
}

// ListDirs returns the immediate subdirectories of path sorted by name.
// A path that does not exist has no subdirectories.
func (s *Storage) ListDirs(path string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	dirs := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			dirs = append(dirs, entry)
		}
	}
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].Name() < dirs[j].Name() })
	return dirs, nil
}

// ListFiles returns the regular files directly inside path sorted by name.
func (s *Storage) ListFiles(path string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(s.fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}
	files := make([]os.FileInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.Mode().IsRegular() {
			files = append(files, entry)
		}
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name() < files[j].Name() })
	return files, nil
}

// SameDir reports whether a and b name the same directory. On the OS
// filesystem this compares file identity, so differently spelled paths to
// one directory are equal. Filesystems without identity information fall
// back to comparing cleaned absolute paths.
func (s *Storage) SameDir(a, b string) (bool, error) {
	infoA, err := s.fs.Stat(a)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", a, err)
	}
	infoB, err := s.fs.Stat(b)
	if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", b, err)
	}
	if os.SameFile(infoA, infoB) {
		return true, nil
	}
	return absClean(a) == absClean(b), nil
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// ReadFile reads the entire file.
func (s *Storage) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(s.fs, path)
}

// WriteFile replaces the content of an existing or new file.
func (s *Storage) WriteFile(path string, data []byte) error {
	perm := os.FileMode(0o644)
	if info, err := s.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	return afero.WriteFile(s.fs, path, data, perm)
}

// Exists checks if a path exists.
func (s *Storage) Exists(path string) (bool, error) {
	return afero.Exists(s.fs, path)
}

// IsFile reports whether path exists and is a regular file.
func (s *Storage) IsFile(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

// Stat returns file information.
func (s *Storage) Stat(path string) (os.FileInfo, error) {
	return s.fs.Stat(path)
}

// Mkdir creates a single directory and fails if it already exists.
func (s *Storage) Mkdir(path string) error {
	return s.fs.Mkdir(path, 0o755)
}

// MkdirAll creates the directory and any missing parents.
func (s *Storage) MkdirAll(path string) error {
	return s.fs.MkdirAll(path, 0o755)
}

// Remove deletes a file.
func (s *Storage) Remove(path string) error {
	return s.fs.Remove(path)
}

// Chtimes changes file access and modification times.
func (s *Storage) Chtimes(path string, atime, mtime time.Time) error {
	return s.fs.Chtimes(path, atime, mtime)
}
