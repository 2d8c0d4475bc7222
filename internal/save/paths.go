package save

import (
	"path/filepath"

	"gsd/internal/models"
	"gsd/internal/structures"
)

// On-disk layout under the save directory. The primary/backup/temp triple
// for game data must keep these exact names: they are the layout existing
// installs already have.
const (
	primaryFileName     = "save_main.dat"
	backupFileName      = "save_backup.dat"
	tempFileName        = "save_temp.dat"
	settingsFileName    = "settings.json"
	statisticsFileName  = "statistics.dat"
	achievementsEmpty   = "achievements.dat" // reserved, currently unused
	backupsDirName      = "Backups"
	rotatedBackupSuffix = ".dat"
)

// Paths resolves record kinds to their files.
type Paths struct {
	dir string
}

func NewPaths(conf *structures.Config) Paths {
	return Paths{dir: conf.Storage.Dir}
}

func (p Paths) Dir() string {
	return p.dir
}

func (p Paths) Primary(kind models.RecordKind) string {
	switch kind {
	case models.KindSettings:
		return filepath.Join(p.dir, settingsFileName)
	case models.KindStatistics:
		return filepath.Join(p.dir, statisticsFileName)
	default:
		return filepath.Join(p.dir, primaryFileName)
	}
}

// Backup returns the automatic backup path. Only game data has one;
// settings and statistics are cheap to rebuild from defaults.
func (p Paths) Backup(kind models.RecordKind) string {
	if kind != models.KindGameData {
		return ""
	}
	return filepath.Join(p.dir, backupFileName)
}

func (p Paths) Temp(kind models.RecordKind) string {
	if kind == models.KindGameData {
		return filepath.Join(p.dir, tempFileName)
	}
	return p.Primary(kind) + ".tmp"
}

func (p Paths) BackupsDir() string {
	return filepath.Join(p.dir, backupsDirName)
}

func (p Paths) RotatedBackup(name string) string {
	return filepath.Join(p.BackupsDir(), name+rotatedBackupSuffix)
}

func (p Paths) Reserved() string {
	return filepath.Join(p.dir, achievementsEmpty)
}
