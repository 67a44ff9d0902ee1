package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/example/hades-route-manager/internal/routes/storage"
)

// Service keeps content-addressed copies of live save files that a load is
// about to overwrite.
type Service struct {
	storage   *storage.Storage
	backupDir string
	now       func() time.Time
	logger    *slog.Logger
}

// New creates a new backup Service.
func New(storage *storage.Storage, backupDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		storage:   storage,
		backupDir: backupDir,
		now:       time.Now,
		logger:    logger,
	}
}

// SetNow allows overriding the clock for testing.
func (s *Service) SetNow(now func() time.Time) {
	if now == nil {
		s.now = time.Now
		return
	}
	s.now = now
}

// CalculateHash returns the SHA-256 hash of the given file.
// Empty files return the marker "empty"; missing files return "".
func (s *Service) CalculateHash(path string) (string, error) {
	if err := s.storage.ValidatePathSafety(path); err != nil {
		return "", fmt.Errorf("path validation failed: %w", err)
	}

	info, err := s.storage.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to stat file for hashing: %w", err)
	}
	if info.Size() == 0 {
		return "empty", nil
	}

	f, err := s.storage.FileSystem().Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file for hashing: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// BackupPath returns where a file with the given hash and name is stored.
func (s *Service) BackupPath(hash, name string) string {
	return filepath.Join(s.backupDir, hash+"-"+name)
}

// BackupFile stores a copy of path in the backup directory as
//
//	<sha256-hash>-<original name>
//
// Identical content under the same name reuses the existing backup and only
// refreshes its mtime, which is what PruneBackups ages by. Missing files are
// skipped.
func (s *Service) BackupFile(path string) error {
	hash, err := s.CalculateHash(path)
	if err != nil {
		return err
	}
	if hash == "" {
		return nil
	}

	backupPath := s.BackupPath(hash, filepath.Base(path))
	now := s.now()
	if _, err := s.storage.Stat(backupPath); err == nil {
		if err := s.storage.Chtimes(backupPath, now, now); err != nil {
			return fmt.Errorf("failed to update backup timestamp: %w", err)
		}
		s.logger.Debug("backup already exists, updated timestamp",
			"path", path,
			"hash", hash,
			"backup_path", backupPath)
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to stat backup: %w", err)
	}

	if err := s.storage.CopyFile(path, backupPath); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	if err := s.storage.Chtimes(backupPath, now, now); err != nil {
		return fmt.Errorf("failed to update backup timestamp: %w", err)
	}

	s.logger.Info("backup created",
		"path", path,
		"hash", hash,
		"backup_path", backupPath)

	return nil
}

// BackupFiles backs up each path in order and stops at the first failure.
func (s *Service) BackupFiles(paths ...string) error {
	for _, path := range paths {
		if err := s.BackupFile(path); err != nil {
			return fmt.Errorf("backup %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// PruneBackups removes backup files whose mtime is older than olderThan and
// returns how many were deleted.
func (s *Service) PruneBackups(olderThan time.Duration) (int, error) {
	entries, err := s.storage.ListFiles(s.backupDir)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}
	cutoff := s.now().Add(-olderThan)
	deleted := 0
	for _, entry := range entries {
		if !entry.ModTime().Before(cutoff) {
			continue
		}
		path := filepath.Join(s.backupDir, entry.Name())
		if err := s.storage.Remove(path); err != nil {
			return deleted, fmt.Errorf("failed to delete backup: %w", err)
		}
		s.logger.Debug("backup pruned", "backup_path", path)
		deleted++
	}
	return deleted, nil
}

// BackupDir returns the backup directory path.
func (s *Service) BackupDir() string {
	return s.backupDir
}
