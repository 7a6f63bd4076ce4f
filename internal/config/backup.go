package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Aman-CERP/everyfind/internal/errors"
)

const (
	// MaxBackups is the maximum number of settings backups to keep
	MaxBackups = 3

	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
)

// backupClock is replaced in tests to produce distinct timestamps.
var backupClock = time.Now

// BackupSettings creates a timestamped backup of <dir>/settings.json.
// Returns the backup file path on success.
// If no settings file exists, returns empty string and nil error.
func BackupSettings(dir string) (string, error) {
	path := SettingsPath(dir)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.New(errors.ErrCodeFilePermission, "failed to read settings for backup", err).
			WithDetail("path", path)
	}

	timestamp := backupClock().Format("20060102-150405.000")
	backupPath := fmt.Sprintf("%s%s.%s", path, BackupSuffix, timestamp)

	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", errors.New(errors.ErrCodeFilePermission, "failed to write settings backup", err).
			WithDetail("path", backupPath)
	}

	// Best effort: the backup itself succeeded.
	_ = cleanupOldBackups(dir)

	return backupPath, nil
}

// ListBackups returns all settings backups in dir, newest first.
// The timestamp suffix sorts lexically, so names order the list.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list config directory: %w", err)
	}

	var backups []string
	prefix := SettingsFileName + BackupSuffix + "."
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			backups = append(backups, filepath.Join(dir, entry.Name()))
		}
	}

	sort.Sort(sort.Reverse(sort.StringSlice(backups)))
	return backups, nil
}

// cleanupOldBackups removes backups beyond MaxBackups, keeping the newest.
func cleanupOldBackups(dir string) error {
	backups, err := ListBackups(dir)
	if err != nil {
		return err
	}
	if len(backups) <= MaxBackups {
		return nil
	}
	for _, backup := range backups[MaxBackups:] {
		_ = os.Remove(backup)
	}
	return nil
}

// RestoreBackup restores <dir>/settings.json from a backup file.
// The current settings (if any) are backed up before restore.
func RestoreBackup(dir, backupPath string) error {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		return errors.New(errors.ErrCodeFileNotFound, "backup file not found", err).
			WithDetail("path", backupPath)
	}

	if _, err := Parse(data); err != nil {
		return err
	}

	if _, err := BackupSettings(dir); err != nil {
		return fmt.Errorf("failed to backup current settings before restore: %w", err)
	}

	if err := os.WriteFile(SettingsPath(dir), data, 0o644); err != nil {
		return errors.New(errors.ErrCodeFilePermission, "failed to write restored settings", err)
	}
	return nil
}
