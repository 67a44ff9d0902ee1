package routes

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/example/hades-route-manager/internal/routes/backup"
	"github.com/example/hades-route-manager/internal/routes/config"
	"github.com/example/hades-route-manager/internal/routes/domain"
	"github.com/example/hades-route-manager/internal/routes/menu"
	"github.com/example/hades-route-manager/internal/routes/navigation"
	"github.com/example/hades-route-manager/internal/routes/paths"
	"github.com/example/hades-route-manager/internal/routes/storage"
	"github.com/example/hades-route-manager/internal/routes/store"
	"github.com/example/hades-route-manager/internal/routes/tree"
	"github.com/example/hades-route-manager/internal/routes/validator"
)

// Menu labels offered while a route is selected.
const (
	LabelLoad        = "Load this snapshot."
	LabelParent      = "Return to parent."
	LabelSave        = "Save a new child."
	LabelSwitch      = "Switch routes."
	LabelSelectChild = "Select a child snapshot."
)

// Manager coordinates the route tree, the live save directory and backups.
type Manager struct {
	fs        afero.Fs
	paths     *paths.PathBuilder
	storage   *storage.Storage
	lister    *tree.Lister
	validator *validator.Validator
	backup    *backup.Service
	store     *store.Store
	logger    *slog.Logger
}

// NewManager constructs a Manager for cfg on fs. A nil logger discards output.
func NewManager(fs afero.Fs, cfg config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	p := paths.New(cfg.RoutesRoot, cfg.SaveDir, cfg.BackupDir)
	stor := storage.New(fs)
	backupSvc := backup.New(stor, p.BackupDir(), logger)
	st := store.New(stor, p, backupSvc, store.Options{
		RouteCollision: cfg.RouteCollision,
		Logger:         logger,
	})
	return &Manager{
		fs:        fs,
		paths:     p,
		storage:   stor,
		lister:    st.Lister(),
		validator: validator.New(),
		backup:    backupSvc,
		store:     st,
		logger:    logger,
	}
}

// FileSystem returns the filesystem the manager operates on.
func (m *Manager) FileSystem() afero.Fs {
	return m.fs
}

// RoutesRoot returns the directory holding all routes.
func (m *Manager) RoutesRoot() string {
	return m.paths.RoutesRoot()
}

// SaveDir returns the game's live save directory.
func (m *Manager) SaveDir() string {
	return m.paths.SaveDir()
}

// BackupDir returns the directory holding backups of overwritten live files.
func (m *Manager) BackupDir() string {
	return m.paths.BackupDir()
}

// RouteCollision returns the policy CreateRoute applies to an existing route.
func (m *Manager) RouteCollision() config.RouteCollisionPolicy {
	return m.store.Collision()
}

// SetNow allows overriding the backup clock for testing.
func (m *Manager) SetNow(now func() time.Time) {
	m.backup.SetNow(now)
}

// InitInfra ensures that the routes root and backup directories exist.
func (m *Manager) InitInfra() error {
	if err := m.storage.MkdirAll(m.paths.RoutesRoot()); err != nil {
		return fmt.Errorf("failed to create routes directory: %w", err)
	}
	if err := m.storage.MkdirAll(m.paths.BackupDir()); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}
	return nil
}

// ValidateName checks a route or snapshot name.
func (m *Manager) ValidateName(name string) (bool, error) {
	return m.validator.ValidateName(name)
}

// ListRoutes returns every route sorted by name.
func (m *Manager) ListRoutes() ([]tree.Node, error) {
	return m.lister.Children(m.paths.RoutesRoot())
}

// ListChildren returns the child snapshots of path sorted by name.
func (m *Manager) ListChildren(path string) ([]tree.Node, error) {
	return m.lister.Children(path)
}

// ListSaveSlots returns the live profile saves a route can be seeded from.
func (m *Manager) ListSaveSlots() ([]tree.Node, error) {
	return m.store.ListSaveSlots()
}

// RouteExists reports whether a route directory named name exists.
func (m *Manager) RouteExists(name string) (bool, error) {
	return m.storage.Exists(m.paths.RoutePath(strings.TrimSpace(name)))
}

// CreateRoute seeds a new route from a save slot.
func (m *Manager) CreateRoute(slot tree.Node, name string) (tree.Node, error) {
	return m.store.CreateRoute(slot, name)
}

// OpenRoute resolves a route by name and returns a state positioned on the
// snapshot at rel, a slash separated path below the route ("" for the root).
func (m *Manager) OpenRoute(name, rel string) (*navigation.State, error) {
	name = strings.TrimSpace(name)
	if ok, err := m.validator.ValidateName(name); !ok {
		return nil, err
	}
	routePath := m.paths.RoutePath(name)
	if err := m.requireDir(routePath); err != nil {
		return nil, err
	}

	state := &navigation.State{}
	state.SetRoute(routePath)
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" || part == "." {
			continue
		}
		if ok, err := m.validator.ValidateName(part); !ok {
			return nil, err
		}
		child := filepath.Join(state.Snapshot(), part)
		if err := m.requireDir(child); err != nil {
			return nil, err
		}
		if err := state.SelectChild(child); err != nil {
			return nil, err
		}
	}
	return state, nil
}

func (m *Manager) requireDir(path string) error {
	info, err := m.storage.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, path)
	}
	return nil
}

// SaveSnapshot saves the live state as a new child of the current snapshot
// and, only once that succeeded, moves the state onto it.
func (m *Manager) SaveSnapshot(state *navigation.State, name string) (tree.Node, error) {
	node, err := m.store.SaveSnapshot(state.Route(), state.Snapshot(), name)
	if err != nil {
		return tree.Node{}, err
	}
	if err := state.SelectChild(node.Path); err != nil {
		return tree.Node{}, err
	}
	return node, nil
}

// LoadSnapshot restores the current snapshot into the live save directory.
func (m *Manager) LoadSnapshot(state *navigation.State) error {
	return m.store.LoadSnapshot(state.Route(), state.Snapshot())
}

// ReturnToParent moves the state one level up.
func (m *Manager) ReturnToParent(state *navigation.State) error {
	return state.Up(m.lister)
}

// HasParent reports whether the current snapshot is below its route root.
// Filesystem errors count as false and are logged.
func (m *Manager) HasParent(state *navigation.State) bool {
	ok, err := navigation.HasParent(m.lister, state.Snapshot(), state.Route())
	if err != nil {
		m.logger.Warn("failed to inspect snapshot", "snapshot", state.Snapshot(), "error", err)
		return false
	}
	return ok
}

// HasChild reports whether the current snapshot has child snapshots.
// Filesystem errors count as false and are logged.
func (m *Manager) HasChild(state *navigation.State) bool {
	ok, err := navigation.HasChild(m.lister, state.Snapshot())
	if err != nil {
		m.logger.Warn("failed to list snapshots", "snapshot", state.Snapshot(), "error", err)
		return false
	}
	return ok
}

// Position describes where the state points, e.g. "Profile1.sav Depth 2 Boss1".
func (m *Manager) Position(state *navigation.State) (string, error) {
	if state.Route() == "" {
		return "", fmt.Errorf("%w: no route selected", domain.ErrPrecondition)
	}
	files, err := m.store.RouteFiles(state.Route())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s Depth %d %s", files.Save, state.Depth(), filepath.Base(state.Snapshot())), nil
}

// Inputs supplies the user choices some menu actions need.
type Inputs interface {
	// SnapshotName asks for the name of a new snapshot.
	SnapshotName() (string, error)
	// ChooseChild picks one of children. A zero Node means none.
	ChooseChild(children []tree.Node) (tree.Node, error)
}

// RouteMenu returns the actions available while a route is selected. Gates
// are evaluated against state each time they are queried, so a front end
// can re-render from scratch after every action.
func (m *Manager) RouteMenu(state *navigation.State, in Inputs) menu.Menu {
	hasParent := func() bool { return m.HasParent(state) }
	return menu.Menu{
		{
			Label:  LabelLoad,
			Gate:   menu.Gated(hasParent),
			Action: func() error { return m.LoadSnapshot(state) },
		},
		{
			Label:  LabelParent,
			Gate:   menu.Gated(hasParent),
			Action: func() error { return m.ReturnToParent(state) },
		},
		{
			Label: LabelSave,
			Gate:  menu.AlwaysEnabled,
			Action: func() error {
				name, err := in.SnapshotName()
				if err != nil {
					return err
				}
				_, err = m.SaveSnapshot(state, name)
				return err
			},
		},
		{
			Label: LabelSwitch,
			Gate:  menu.AlwaysEnabled,
			Action: func() error {
				state.SetRoute("")
				return nil
			},
		},
		{
			Label:  LabelSelectChild,
			Gate:   menu.Gated(func() bool { return m.HasChild(state) }),
			Action: func() error { return m.selectChild(state, in) },
		},
	}
}

func (m *Manager) selectChild(state *navigation.State, in Inputs) error {
	children, err := m.lister.Children(state.Snapshot())
	if err != nil {
		return err
	}
	if len(children) == 1 {
		return state.SelectChild(children[0].Path)
	}
	child, err := in.ChooseChild(children)
	if err != nil {
		return err
	}
	return state.SelectChild(child.Path)
}

// PruneBackups removes backups older than olderThan.
func (m *Manager) PruneBackups(olderThan time.Duration) (int, error) {
	if err := m.InitInfra(); err != nil {
		return 0, err
	}
	return m.backup.PruneBackups(olderThan)
}
