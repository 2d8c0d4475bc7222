package save

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"gsd/internal/models"
	"gsd/internal/providers"
	"gsd/internal/structures"
)

// Timestamp-named backups are subject to retention; named safety backups
// (pre-import, pre-delete, ...) are kept until removed explicitly.
var rotatedBackupPattern = regexp.MustCompile(`^backup_\d{8}_\d{6}$`)

const backupTimestampLayout = "20060102_150405"

type BackupManagerInterface interface {
	Create(name string) (string, error)
	Restore(name string) error
	List() ([]string, error)
}

// BackupManager copies the primary save file into the backups directory
// and enforces the retention limit on rotated backups.
type BackupManager struct {
	paths   Paths
	conf    *structures.Config
	logger  providers.Logger
	metrics providers.MetricsProviderInterface
}

func NewBackupManager(paths Paths, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) BackupManagerInterface {
	return &BackupManager{paths: paths, conf: conf, logger: logger, metrics: metrics}
}

// Create copies the current primary into the backups directory under name,
// or under a timestamp-derived name when name is empty. Returns the name
// actually used.
func (b *BackupManager) Create(name string) (string, error) {
	primary := b.paths.Primary(models.KindGameData)
	if _, err := os.Stat(primary); err != nil {
		return "", fmt.Errorf("%w: no primary save file to back up: %s", ErrIOFailure, err)
	}

	if name == "" {
		name = "backup_" + time.Now().Format(backupTimestampLayout)
	}

	if err := os.MkdirAll(b.paths.BackupsDir(), 0700); err != nil {
		return "", fmt.Errorf("%w: create backups dir: %s", ErrIOFailure, err)
	}
	if err := copyFile(primary, b.paths.RotatedBackup(name)); err != nil {
		return "", fmt.Errorf("%w: copy backup: %s", ErrIOFailure, err)
	}

	b.metrics.IncBackupsTotal()
	b.logger.Infof(providers.TypeSave, "Created backup %s", name)

	if err := b.enforceRetention(); err != nil {
		b.logger.Errorf(providers.TypeSave, "Backup retention failed: %s", err)
	}
	return name, nil
}

// Restore copies the named backup over the primary save file.
func (b *BackupManager) Restore(name string) error {
	path := b.paths.RotatedBackup(name)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: backup %s not found: %s", ErrIOFailure, name, err)
	}
	if err := copyFile(path, b.paths.Primary(models.KindGameData)); err != nil {
		return fmt.Errorf("%w: restore backup %s: %s", ErrIOFailure, name, err)
	}
	b.logger.Infof(providers.TypeLoad, "Restored backup %s over primary save file", name)
	return nil
}

// List returns all backup names, newest first.
func (b *BackupManager) List() ([]string, error) {
	entries, err := b.listByAge()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names, nil
}

type backupEntry struct {
	name    string
	modTime time.Time
}

func (b *BackupManager) listByAge() ([]backupEntry, error) {
	files, err := filepath.Glob(filepath.Join(b.paths.BackupsDir(), "*"+rotatedBackupSuffix))
	if err != nil {
		return nil, fmt.Errorf("%w: list backups: %s", ErrIOFailure, err)
	}

	entries := make([]backupEntry, 0, len(files))
	for _, file := range files {
		info, err := os.Stat(file)
		if err != nil {
			continue
		}
		name := strings.TrimSuffix(filepath.Base(file), rotatedBackupSuffix)
		entries = append(entries, backupEntry{name: name, modTime: info.ModTime()})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].modTime.Equal(entries[j].modTime) {
			return entries[i].name > entries[j].name
		}
		return entries[i].modTime.After(entries[j].modTime)
	})
	return entries, nil
}

// enforceRetention deletes rotated backups beyond the configured maximum,
// oldest first. Named safety backups are not counted.
func (b *BackupManager) enforceRetention() error {
	entries, err := b.listByAge()
	if err != nil {
		return err
	}

	rotated := make([]backupEntry, 0, len(entries))
	for _, e := range entries {
		if rotatedBackupPattern.MatchString(e.name) {
			rotated = append(rotated, e)
		}
	}

	for _, e := range rotated[min(b.conf.Storage.MaxBackups, len(rotated)):] {
		if err := os.Remove(b.paths.RotatedBackup(e.name)); err != nil {
			return fmt.Errorf("%w: remove stale backup %s: %s", ErrIOFailure, e.name, err)
		}
		b.logger.Debugf(providers.TypeSave, "Removed stale backup %s", e.name)
	}
	return nil
}
