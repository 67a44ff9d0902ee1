// Package store copies payload files between the live save directory and the
// route tree.
//
// Callers must make sure the game is not running while SaveSnapshot or
// LoadSnapshot execute: the game writes the live save directory itself and
// nothing here locks it.
package store

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/hades-route-manager/internal/routes/backup"
	"github.com/example/hades-route-manager/internal/routes/config"
	"github.com/example/hades-route-manager/internal/routes/domain"
	"github.com/example/hades-route-manager/internal/routes/navigation"
	"github.com/example/hades-route-manager/internal/routes/paths"
	"github.com/example/hades-route-manager/internal/routes/payload"
	"github.com/example/hades-route-manager/internal/routes/storage"
	"github.com/example/hades-route-manager/internal/routes/tree"
	"github.com/example/hades-route-manager/internal/routes/validator"
)

// Store implements route creation and snapshot save/load.
type Store struct {
	storage   *storage.Storage
	lister    *tree.Lister
	paths     *paths.PathBuilder
	validator *validator.Validator
	backups   *backup.Service
	collision config.RouteCollisionPolicy
	logger    *slog.Logger
}

// Options tune a Store.
type Options struct {
	RouteCollision config.RouteCollisionPolicy
	Logger         *slog.Logger
}

// New creates a Store. backups may be nil to skip backing up live files.
func New(stor *storage.Storage, p *paths.PathBuilder, backups *backup.Service, opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	collision := opts.RouteCollision
	if collision == "" {
		collision = config.CollisionOverwrite
	}
	return &Store{
		storage:   stor,
		lister:    tree.NewLister(stor),
		paths:     p,
		validator: validator.New(),
		backups:   backups,
		collision: collision,
		logger:    logger,
	}
}

// Lister returns the directory lister the store navigates with.
func (s *Store) Lister() *tree.Lister {
	return s.lister
}

// Collision returns the policy applied when a route name is taken.
func (s *Store) Collision() config.RouteCollisionPolicy {
	return s.collision
}

// ListSaveSlots returns the live profile save files sorted by name.
func (s *Store) ListSaveSlots() ([]tree.Node, error) {
	files, err := s.storage.ListFiles(s.paths.SaveDir())
	if err != nil {
		return nil, fmt.Errorf("failed to list save slots: %w", err)
	}
	slots := make([]tree.Node, 0, len(files))
	for _, file := range files {
		if payload.IsSaveName(file.Name()) {
			slots = append(slots, tree.Node{Name: file.Name(), Path: s.paths.LiveFile(file.Name())})
		}
	}
	return slots, nil
}

// RouteFiles returns the payload names of the profile a route was seeded from.
func (s *Store) RouteFiles(route string) (payload.Files, error) {
	files, err := s.storage.ListFiles(route)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return payload.Files{}, fmt.Errorf("%w: route %s", domain.ErrNotFound, route)
		}
		return payload.Files{}, err
	}
	for _, file := range files {
		if payload.IsSaveName(file.Name()) {
			return payload.FromSaveName(file.Name())
		}
	}
	return payload.Files{}, fmt.Errorf("%w: route %s has no profile save", domain.ErrNotFound, route)
}

// CreateRoute seeds a new route named name from a save slot returned by
// ListSaveSlots. The slot bytes are copied unchanged under their original
// filename.
//
// When the route directory already exists the configured collision policy
// applies: CollisionOverwrite replaces the route's save file, CollisionFail
// returns domain.ErrNameCollision. A route seeded from a different profile
// is never overwritten.
func (s *Store) CreateRoute(slot tree.Node, name string) (tree.Node, error) {
	if err := s.checkSlot(slot); err != nil {
		return tree.Node{}, err
	}
	name, err := s.validator.NormalizeName(name)
	if err != nil {
		return tree.Node{}, err
	}

	routePath := s.paths.RoutePath(name)
	exists, err := s.storage.Exists(routePath)
	if err != nil {
		return tree.Node{}, fmt.Errorf("failed to inspect route: %w", err)
	}
	if exists {
		if s.collision == config.CollisionFail {
			return tree.Node{}, fmt.Errorf("%w: route %q", domain.ErrNameCollision, name)
		}
		if existing, err := s.RouteFiles(routePath); err == nil && existing.Save != slot.Name {
			return tree.Node{}, fmt.Errorf("%w: route %q already tracks %s",
				domain.ErrNameCollision, name, existing.Save)
		}
		s.logger.Warn("route already exists, overwriting its save",
			"route", name,
			"file", slot.Name)
	}

	if err := s.storage.MkdirAll(routePath); err != nil {
		return tree.Node{}, fmt.Errorf("failed to create route directory: %w", err)
	}
	if err := s.storage.CopyFile(slot.Path, filepath.Join(routePath, slot.Name)); err != nil {
		return tree.Node{}, fmt.Errorf("failed to copy %s: %w", slot.Name, err)
	}

	s.logger.Info("route created", "route", name, "file", slot.Name)
	return tree.Node{Name: name, Path: routePath}, nil
}

func (s *Store) checkSlot(slot tree.Node) error {
	if !payload.IsSaveName(slot.Name) || filepath.Base(slot.Path) != slot.Name {
		return fmt.Errorf("%w: %q is not a save slot", domain.ErrInvalidInput, slot.Name)
	}
	if filepath.Dir(filepath.Clean(slot.Path)) != s.paths.SaveDir() {
		return fmt.Errorf("%w: %s is not in the save directory", domain.ErrInvalidInput, slot.Path)
	}
	ok, err := s.storage.IsFile(slot.Path)
	if err != nil {
		return fmt.Errorf("failed to inspect save slot: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: save slot %s", domain.ErrNotFound, slot.Path)
	}
	return nil
}

// SaveSnapshot creates <current>/<name> and copies the live temp and v files
// of the route's profile into it. The primary save is never copied.
//
// SaveSnapshot does not move any navigation pointer; callers advance to the
// returned node themselves once it succeeded.
func (s *Store) SaveSnapshot(route, current, name string) (tree.Node, error) {
	if route == "" || current == "" {
		return tree.Node{}, fmt.Errorf("%w: no route selected", domain.ErrPrecondition)
	}
	name, err := s.validator.NormalizeName(name)
	if err != nil {
		return tree.Node{}, err
	}
	files, err := s.RouteFiles(route)
	if err != nil {
		return tree.Node{}, err
	}

	for _, companion := range files.Companions() {
		if err := s.requireFile(s.paths.LiveFile(companion)); err != nil {
			return tree.Node{}, err
		}
	}

	target := filepath.Join(current, name)
	if err := s.storage.Mkdir(target); err != nil {
		if errors.Is(err, os.ErrExist) {
			return tree.Node{}, fmt.Errorf("%w: snapshot %q", domain.ErrNameCollision, name)
		}
		return tree.Node{}, fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	for _, companion := range files.Companions() {
		if err := s.storage.CopyFile(s.paths.LiveFile(companion), filepath.Join(target, companion)); err != nil {
			return tree.Node{}, fmt.Errorf("failed to copy %s: %w", companion, err)
		}
	}

	s.logger.Info("snapshot saved",
		"route", filepath.Base(route),
		"snapshot", target)
	return tree.Node{Name: name, Path: target}, nil
}

// LoadSnapshot restores snapshot into the live save directory. It is only
// legal below the route root.
//
// The copies run in a fixed order: the route's primary save, then the
// snapshot's temp file, then its v file. Existing live files are backed up
// first. Afterwards the checkpoint descriptor, if present, is patched so the
// game accepts the restored state.
func (s *Store) LoadSnapshot(route, snapshot string) error {
	if route == "" {
		return fmt.Errorf("%w: no route selected", domain.ErrPrecondition)
	}
	ok, err := navigation.HasParent(s.lister, snapshot, route)
	if err != nil {
		return fmt.Errorf("failed to inspect snapshot: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: the route root cannot be loaded", domain.ErrPrecondition)
	}

	files, err := s.RouteFiles(route)
	if err != nil {
		return err
	}

	copies := []struct{ src, dst string }{
		{filepath.Join(route, files.Save), s.paths.LiveFile(files.Save)},
		{filepath.Join(snapshot, files.Temp), s.paths.LiveFile(files.Temp)},
		{filepath.Join(snapshot, files.V), s.paths.LiveFile(files.V)},
	}
	for _, c := range copies {
		if err := s.requireFile(c.src); err != nil {
			return err
		}
	}

	if s.backups != nil {
		if err := s.backups.BackupFiles(
			s.paths.LiveFile(files.Save),
			s.paths.LiveFile(files.Temp),
			s.paths.LiveFile(files.V),
			s.paths.LiveFile(files.Descriptor),
		); err != nil {
			return err
		}
	}

	for _, c := range copies {
		if err := s.storage.CopyFile(c.src, c.dst); err != nil {
			return fmt.Errorf("failed to restore %s: %w", filepath.Base(c.dst), err)
		}
	}

	if err := s.markCheckpointValid(files); err != nil {
		return err
	}

	s.logger.Info("snapshot loaded",
		"route", filepath.Base(route),
		"snapshot", snapshot)
	return nil
}

// markCheckpointValid drops the invalid-checkpoint line from the live
// descriptor. A missing descriptor or line is not an error.
func (s *Store) markCheckpointValid(files payload.Files) error {
	path := s.paths.LiveFile(files.Descriptor)
	data, err := s.storage.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("no checkpoint descriptor to patch", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", files.Descriptor, err)
	}
	text := string(data)
	if !strings.Contains(text, payload.CheckpointLine) {
		s.logger.Debug("checkpoint descriptor already valid", "path", path)
		return nil
	}
	patched := strings.ReplaceAll(text, payload.CheckpointLine, "")
	if err := s.storage.WriteFile(path, []byte(patched)); err != nil {
		return fmt.Errorf("failed to write %s: %w", files.Descriptor, err)
	}
	s.logger.Debug("checkpoint descriptor patched", "path", path)
	return nil
}

func (s *Store) requireFile(path string) error {
	ok, err := s.storage.IsFile(path)
	if err != nil {
		return fmt.Errorf("failed to inspect %s: %w", path, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return nil
}
