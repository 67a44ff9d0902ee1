// Package config loads the route manager settings from an optional TOML file
// and environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// Environment variable names
const (
	EnvConfig     = "HRM_CONFIG"
	EnvRoutesRoot = "HRM_ROUTES_ROOT"
	EnvSaveDir    = "HRM_SAVE_DIR"
	EnvBackupDir  = "HRM_BACKUP_DIR"
)

const (
	appDirName       = "hrm"
	configFileName   = "config.toml"
	backupDirName    = "backups"
	DefaultRoutesDir = "Routes"
	steamAppID       = "1145360"
)

// RouteCollisionPolicy decides what creating a route over an existing
// route directory does.
type RouteCollisionPolicy string

const (
	// CollisionOverwrite keeps the directory and replaces its save file.
	CollisionOverwrite RouteCollisionPolicy = "overwrite"
	// CollisionFail rejects the new route with domain.ErrNameCollision.
	CollisionFail RouteCollisionPolicy = "fail"
)

// Config holds every user-tunable setting.
type Config struct {
	RoutesRoot     string               `toml:"routes_root"`
	SaveDir        string               `toml:"save_dir"`
	BackupDir      string               `toml:"backup_dir"`
	RouteCollision RouteCollisionPolicy `toml:"route_collision"`
	LogLevel       string               `toml:"log_level"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		RoutesRoot:     DefaultRoutesDir,
		SaveDir:        DefaultSaveDir(runtime.GOOS),
		BackupDir:      filepath.Join(xdg.DataHome, appDirName, backupDirName),
		RouteCollision: CollisionOverwrite,
		LogLevel:       "warn",
	}
}

// DefaultSaveDir returns where the game keeps its live saves on goos.
func DefaultSaveDir(goos string) string {
	switch goos {
	case "darwin":
		return filepath.Join(xdg.Home, "Library", "Application Support", "Supergiant Games", "Hades")
	case "windows":
		return filepath.Join(xdg.UserDirs.Documents, "Saved Games", "Hades")
	default:
		return filepath.Join(xdg.DataHome, "Steam", "steamapps", "compatdata", steamAppID,
			"pfx", "drive_c", "users", "steamuser", "Documents", "Saved Games", "Hades")
	}
}

// DefaultPath returns the config file location, honouring HRM_CONFIG.
func DefaultPath() string {
	if custom := strings.TrimSpace(os.Getenv(EnvConfig)); custom != "" {
		return custom
	}
	return filepath.Join(xdg.ConfigHome, appDirName, configFileName)
}

// Load builds a Config from defaults, the TOML file at path (if it exists)
// and environment overrides, in that order.
func Load(fs afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fs, path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.RoutesRoot = expandHome(cfg.RoutesRoot)
	cfg.SaveDir = expandHome(cfg.SaveDir)
	cfg.BackupDir = expandHome(cfg.BackupDir)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(cfg)
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvRoutesRoot)); v != "" {
		cfg.RoutesRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvSaveDir)); v != "" {
		cfg.SaveDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackupDir)); v != "" {
		cfg.BackupDir = v
	}
}

func expandHome(path string) string {
	if path == "~" {
		return xdg.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(xdg.Home, path[2:])
	}
	return path
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.RoutesRoot) == "" {
		return errors.New("routes_root cannot be empty")
	}
	if strings.TrimSpace(c.SaveDir) == "" {
		return errors.New("save_dir cannot be empty")
	}
	if strings.TrimSpace(c.BackupDir) == "" {
		return errors.New("backup_dir cannot be empty")
	}
	switch c.RouteCollision {
	case CollisionOverwrite, CollisionFail:
	default:
		return fmt.Errorf("unsupported route_collision %q (want %q or %q)",
			c.RouteCollision, CollisionOverwrite, CollisionFail)
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

// SlogLevel converts LogLevel into a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("unsupported log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
