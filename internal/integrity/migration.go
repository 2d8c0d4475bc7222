package integrity

import (
	"fmt"

	"github.com/spf13/cast"

	"gsd/internal/models"
	"gsd/internal/providers"
	"gsd/internal/structures"
)

type MigratorInterface interface {
	Migrate(r *models.SaveRecord) error
}

type migrationFunc func(r *models.SaveRecord) error

// Migrator upgrades loaded records to the current schema version by
// dispatching on the stored version number. Each step upgrades exactly one
// version; the chain runs until the record is current.
type Migrator struct {
	conf   *structures.Config
	logger providers.Logger
	steps  map[int]migrationFunc
}

func NewMigrator(conf *structures.Config, logger providers.Logger) MigratorInterface {
	return &Migrator{
		conf:   conf,
		logger: logger,
		steps: map[int]migrationFunc{
			1: migrateV1toV2,
		},
	}
}

// Migrate upgrades r in place. Migrating an already-current record is a
// no-op. Versions below the supported floor or above the current version
// fail with ErrVersionUnsupported, which callers treat as a load failure.
func (m *Migrator) Migrate(r *models.SaveRecord) error {
	if r.SchemaVersion == models.CurrentSchemaVersion {
		return nil
	}
	if r.SchemaVersion < m.conf.Save.MinSupportedVersion {
		return fmt.Errorf("%w: version %d below minimum %d", ErrVersionUnsupported, r.SchemaVersion, m.conf.Save.MinSupportedVersion)
	}
	if r.SchemaVersion > models.CurrentSchemaVersion {
		return fmt.Errorf("%w: version %d is newer than this build supports", ErrVersionUnsupported, r.SchemaVersion)
	}

	for v := r.SchemaVersion; v < models.CurrentSchemaVersion; v++ {
		step, ok := m.steps[v]
		if !ok {
			return fmt.Errorf("%w: no migration step from version %d", ErrVersionUnsupported, v)
		}
		if err := step(r); err != nil {
			return fmt.Errorf("migration from version %d: %w", v, err)
		}
		m.logger.Infof(providers.TypeLoad, "Migrated save record from version %d to %d", v, v+1)
	}

	r.SchemaVersion = models.CurrentSchemaVersion
	StampChecksum(r)
	return nil
}

// migrateV1toV2 upgrades the first save format. Version 1 had no detailed
// stats or per-level history, tracked playtime as an integer statistic,
// and did not bound star ratings.
func migrateV1toV2(r *models.SaveRecord) error {
	r.EnsureMaps()

	if r.TotalPlayTime == 0 {
		r.TotalPlayTime = cast.ToFloat64(r.Statistics["play_time_seconds"])
		delete(r.Statistics, "play_time_seconds")
	}

	for _, lp := range r.LevelProgress {
		if lp == nil {
			continue
		}
		if lp.Stars < 0 {
			lp.Stars = 0
		}
		if lp.Stars > 3 {
			lp.Stars = 3
		}
		if lp.CompletionTimes == nil && lp.Completed && lp.BestTime > 0 {
			lp.CompletionTimes = []float64{lp.BestTime}
		}
		if lp.FirstCompletedAt == "" && lp.Completed {
			lp.FirstCompletedAt = r.Timestamp
		}
	}

	return nil
}
