package services

import (
	"encoding/base64"
	"fmt"
	"runtime"
	"time"

	json "github.com/goccy/go-json"

	"gsd/internal/integrity"
	"gsd/internal/models"
	"gsd/internal/providers"
	"gsd/internal/save"
	"gsd/internal/save/interfaces"
	"gsd/internal/structures"
)

const appVersion = "2.1.0"

const safetyBackupTimestampLayout = "20060102_150405"

type SaveServiceInterface interface {
	SaveGameData(r *models.SaveRecord, cb func(success bool))
	LoadGameData() *models.SaveRecord
	SaveSettings(r *models.SettingsRecord, cb func(success bool))
	LoadSettings() *models.SettingsRecord
	SaveStatistics(r *models.StatisticsRecord, cb func(success bool))
	LoadStatistics() *models.StatisticsRecord

	QuickSave() bool
	FlushCache() bool
	WarmCache()

	CachedGameData() *models.SaveRecord
	SetGameData(r *models.SaveRecord, markDirty bool)
	CachedSettings() *models.SettingsRecord
	SetSettings(r *models.SettingsRecord, markDirty bool)
	CachedStatistics() *models.StatisticsRecord
	SetStatistics(r *models.StatisticsRecord, markDirty bool)
	ClearCache()

	CreateBackup(name string) (string, error)
	RestoreBackup(name string) bool
	ListBackups() []string

	ExportSaveData() (string, error)
	ImportSaveData(text string) bool
	PrepareCloudSave() (*models.CloudRecord, error)
	ApplyCloudSave(remote *models.CloudRecord) bool

	DeleteAllSaveData() bool
	GetSaveFileSizeBytes() int64
	HasSaveData() bool

	Subscribe(fn func(save.Event))
}

// SaveService is the public surface of the persistence engine. It owns the
// runtime cache and routes every disk write through the operation queue so
// that the store's file protocol is never run concurrently.
type SaveService struct {
	conf       *structures.Config
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
	events     *save.Events
	cache      *save.RuntimeCache
	queue      *save.OperationQueue
	store      save.StoreInterface
	backups    save.BackupManagerInterface
	compressor interfaces.CompressorInterface
	validator  integrity.ValidatorInterface
	migrator   integrity.MigratorInterface
}

func NewSaveService(
	conf *structures.Config,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
	events *save.Events,
	cache *save.RuntimeCache,
	queue *save.OperationQueue,
	store save.StoreInterface,
	backups save.BackupManagerInterface,
	compressor interfaces.CompressorInterface,
	validator integrity.ValidatorInterface,
	migrator integrity.MigratorInterface,
) SaveServiceInterface {
	return &SaveService{
		conf:       conf,
		logger:     logger,
		metrics:    metrics,
		events:     events,
		cache:      cache,
		queue:      queue,
		store:      store,
		backups:    backups,
		compressor: compressor,
		validator:  validator,
		migrator:   migrator,
	}
}

// SaveGameData caches the record, marks it dirty and requests an
// asynchronous flush. The callback fires when this request's flush
// completes, in request order.
func (s *SaveService) SaveGameData(r *models.SaveRecord, cb func(success bool)) {
	s.cache.SetGameData(r, true)
	s.queue.Enqueue(models.KindGameData, func() {
		ok := s.persistGameData()
		if cb != nil {
			cb(ok)
		}
	})
}

// persistGameData writes the cached game record. Runs on the queue lane.
func (s *SaveService) persistGameData() bool {
	record := s.cache.GameData()
	if record == nil {
		return true
	}
	s.cache.MarkClean(models.KindGameData)

	// Cached records are shared with concurrent readers, so the stamp
	// goes on a private copy and the original stays untouched.
	snapshot := record.Clone()
	snapshot.Touch()
	integrity.StampChecksum(snapshot)

	if err := s.store.WriteGameData(snapshot); err != nil {
		s.cache.MarkDirty(models.KindGameData)
		s.logger.Errorf(providers.TypeSave, "Game data save failed: %s", err)
		s.metrics.IncSavesTotal(models.KindGameData.String(), false)
		s.events.Emit(save.Event{Type: save.EventSaveError, Kind: models.KindGameData, Message: err.Error()})
		s.events.Emit(save.Event{Type: save.EventSaveComplete, Kind: models.KindGameData, Success: false})
		return false
	}

	s.metrics.IncSavesTotal(models.KindGameData.String(), true)
	s.events.Emit(save.Event{Type: save.EventSaveComplete, Kind: models.KindGameData, Success: true})
	return true
}

// LoadGameData returns the cached record, loading from disk on first use.
// Loads always produce a usable record: corruption falls back to the
// backup file, absence to a fresh default.
func (s *SaveService) LoadGameData() *models.SaveRecord {
	if cached := s.cache.GameData(); cached != nil {
		return cached
	}
	record := s.store.LoadGameData()
	s.cache.SetGameData(record, false)
	s.metrics.IncLoadsTotal(models.KindGameData.String(), true)
	s.events.Emit(save.Event{Type: save.EventLoadComplete, Kind: models.KindGameData, Success: true})
	return record
}

func (s *SaveService) SaveSettings(r *models.SettingsRecord, cb func(success bool)) {
	s.cache.SetSettings(r, true)
	s.queue.Enqueue(models.KindSettings, func() {
		ok := s.persistSettings()
		if cb != nil {
			cb(ok)
		}
	})
}

func (s *SaveService) persistSettings() bool {
	record := s.cache.Settings()
	if record == nil {
		return true
	}
	s.cache.MarkClean(models.KindSettings)

	if err := s.store.WriteSettings(record); err != nil {
		s.cache.MarkDirty(models.KindSettings)
		s.logger.Errorf(providers.TypeSave, "Settings save failed: %s", err)
		s.metrics.IncSavesTotal(models.KindSettings.String(), false)
		s.events.Emit(save.Event{Type: save.EventSaveError, Kind: models.KindSettings, Message: err.Error()})
		return false
	}
	s.metrics.IncSavesTotal(models.KindSettings.String(), true)
	s.events.Emit(save.Event{Type: save.EventSaveComplete, Kind: models.KindSettings, Success: true})
	return true
}

func (s *SaveService) LoadSettings() *models.SettingsRecord {
	if cached := s.cache.Settings(); cached != nil {
		return cached
	}
	record := s.store.LoadSettings()
	s.cache.SetSettings(record, false)
	s.metrics.IncLoadsTotal(models.KindSettings.String(), true)
	s.events.Emit(save.Event{Type: save.EventLoadComplete, Kind: models.KindSettings, Success: true})
	return record
}

func (s *SaveService) SaveStatistics(r *models.StatisticsRecord, cb func(success bool)) {
	s.cache.SetStatistics(r, true)
	s.queue.Enqueue(models.KindStatistics, func() {
		ok := s.persistStatistics()
		if cb != nil {
			cb(ok)
		}
	})
}

func (s *SaveService) persistStatistics() bool {
	record := s.cache.Statistics()
	if record == nil {
		return true
	}
	s.cache.MarkClean(models.KindStatistics)

	record.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	if err := s.store.WriteStatistics(record); err != nil {
		s.cache.MarkDirty(models.KindStatistics)
		s.logger.Errorf(providers.TypeSave, "Statistics save failed: %s", err)
		s.metrics.IncSavesTotal(models.KindStatistics.String(), false)
		s.events.Emit(save.Event{Type: save.EventSaveError, Kind: models.KindStatistics, Message: err.Error()})
		return false
	}
	s.metrics.IncSavesTotal(models.KindStatistics.String(), true)
	s.events.Emit(save.Event{Type: save.EventSaveComplete, Kind: models.KindStatistics, Success: true})
	return true
}

func (s *SaveService) LoadStatistics() *models.StatisticsRecord {
	if cached := s.cache.Statistics(); cached != nil {
		return cached
	}
	record := s.store.LoadStatistics()
	s.cache.SetStatistics(record, false)
	s.metrics.IncLoadsTotal(models.KindStatistics.String(), true)
	s.events.Emit(save.Event{Type: save.EventLoadComplete, Kind: models.KindStatistics, Success: true})
	return record
}

// QuickSave synchronously writes the cached game record. For
// crash-imminent moments; waits behind any in-flight save.
func (s *SaveService) QuickSave() bool {
	if s.cache.GameData() == nil {
		return false
	}
	var ok bool
	s.queue.EnqueueWait(models.KindGameData, func() {
		ok = s.persistGameData()
	})
	return ok
}

// FlushCache saves every dirty record and reports whether all writes
// succeeded. Blocks until the writes are on disk.
func (s *SaveService) FlushCache() bool {
	all := true
	for _, kind := range s.cache.DirtyKinds() {
		var ok bool
		switch kind {
		case models.KindGameData:
			s.queue.EnqueueWait(kind, func() { ok = s.persistGameData() })
		case models.KindSettings:
			s.queue.EnqueueWait(kind, func() { ok = s.persistSettings() })
		case models.KindStatistics:
			s.queue.EnqueueWait(kind, func() { ok = s.persistStatistics() })
		}
		all = all && ok
	}
	return all
}

// WarmCache loads all records into the runtime cache. Called at startup.
func (s *SaveService) WarmCache() {
	s.LoadGameData()
	s.LoadSettings()
	s.LoadStatistics()
}

func (s *SaveService) CachedGameData() *models.SaveRecord { return s.cache.GameData() }

func (s *SaveService) SetGameData(r *models.SaveRecord, markDirty bool) {
	s.cache.SetGameData(r, markDirty)
}

func (s *SaveService) CachedSettings() *models.SettingsRecord { return s.cache.Settings() }

func (s *SaveService) SetSettings(r *models.SettingsRecord, markDirty bool) {
	s.cache.SetSettings(r, markDirty)
}

func (s *SaveService) CachedStatistics() *models.StatisticsRecord { return s.cache.Statistics() }

func (s *SaveService) SetStatistics(r *models.StatisticsRecord, markDirty bool) {
	s.cache.SetStatistics(r, markDirty)
}

func (s *SaveService) ClearCache() { s.cache.Clear() }

func (s *SaveService) CreateBackup(name string) (string, error) {
	return s.backups.Create(name)
}

// RestoreBackup replaces the primary save with the named backup. The
// pre-restore state is kept as a safety backup first.
func (s *SaveService) RestoreBackup(name string) bool {
	if s.store.HasSaveData() {
		if _, err := s.backups.Create(s.safetyBackupName("pre_restore")); err != nil {
			s.logger.Warnf(providers.TypeSave, "Pre-restore safety backup failed: %s", err)
		}
	}
	if err := s.backups.Restore(name); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Backup restore failed: %s", err)
		s.events.Emit(save.Event{Type: save.EventLoadError, Kind: models.KindGameData, Message: err.Error()})
		return false
	}
	s.cache.Clear()
	s.LoadGameData()
	return true
}

func (s *SaveService) ListBackups() []string {
	names, err := s.backups.List()
	if err != nil {
		s.logger.Errorf(providers.TypeLoad, "Listing backups failed: %s", err)
		return []string{}
	}
	return names
}

// ExportSaveData bundles all three records into an opaque portable string:
// JSON, zstd-compressed, base64-encoded.
func (s *SaveService) ExportSaveData() (string, error) {
	pkg := models.ExportPackage{
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		AppVersion: appVersion,
		Save:       s.LoadGameData(),
		Settings:   s.LoadSettings(),
		Statistics: s.LoadStatistics(),
	}

	jsonData, err := json.Marshal(pkg)
	if err != nil {
		return "", fmt.Errorf("serialize export package: %w", err)
	}
	compressed, err := s.compressor.Compress(jsonData)
	if err != nil {
		return "", fmt.Errorf("compress export package: %w", err)
	}
	return base64.StdEncoding.EncodeToString(compressed), nil
}

// ImportSaveData replaces current state with the decoded bundle. A safety
// backup is taken before anything is overwritten.
func (s *SaveService) ImportSaveData(text string) bool {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		s.logger.Errorf(providers.TypeLoad, "Import rejected, not valid base64: %s", err)
		return false
	}

	jsonData, err := s.compressor.Decompress(raw)
	if err != nil {
		// Bundles from builds that predate compression are raw JSON.
		jsonData = raw
	}

	var pkg models.ExportPackage
	if err := json.Unmarshal(jsonData, &pkg); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Import rejected, malformed package: %s", err)
		return false
	}
	if pkg.Save == nil {
		s.logger.Errorf(providers.TypeLoad, "Import rejected, package carries no save record")
		return false
	}

	pkg.Save.EnsureMaps()
	if err := s.migrator.Migrate(pkg.Save); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Import rejected, migration failed: %s", err)
		return false
	}
	if err := s.validator.ValidateSaveRecord(pkg.Save); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Import rejected, validation failed: %s", err)
		return false
	}

	// The backup snapshots the primary file. A fresh install has none
	// yet, so persist the current state first; the safety backup must
	// exist unconditionally before anything is overwritten.
	if !s.store.HasSaveData() {
		snapshot := s.LoadGameData().Clone()
		snapshot.Touch()
		integrity.StampChecksum(snapshot)
		if err := s.store.WriteGameData(snapshot); err != nil {
			s.logger.Warnf(providers.TypeSave, "Pre-import flush failed: %s", err)
		}
	}
	if _, err := s.backups.Create(s.safetyBackupName("pre_import")); err != nil {
		s.logger.Warnf(providers.TypeSave, "Pre-import safety backup failed: %s", err)
	}

	s.cache.SetGameData(pkg.Save, true)
	if pkg.Settings != nil {
		s.cache.SetSettings(pkg.Settings, true)
	}
	if pkg.Statistics != nil {
		pkg.Statistics.EnsureMaps()
		s.cache.SetStatistics(pkg.Statistics, true)
	}
	return s.FlushCache()
}

// PrepareCloudSave packages current state for upload.
func (s *SaveService) PrepareCloudSave() (*models.CloudRecord, error) {
	record := s.LoadGameData()
	return &models.CloudRecord{
		Save:       record,
		Settings:   s.LoadSettings(),
		Statistics: s.LoadStatistics(),
		DeviceID:   record.DeviceID,
		Platform:   runtime.GOOS,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// ApplyCloudSave keeps whichever of local and remote is newer, wholesale.
// Returns true when the remote bundle replaced local state.
func (s *SaveService) ApplyCloudSave(remote *models.CloudRecord) bool {
	if remote == nil || remote.Save == nil {
		return false
	}

	local := s.LoadGameData()
	if !remote.ParsedTimestamp().After(local.ParsedTimestamp()) {
		s.logger.Infof(providers.TypeLoad, "Cloud save not newer than local, keeping local state")
		return false
	}

	remote.Save.EnsureMaps()
	if err := s.migrator.Migrate(remote.Save); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Cloud save rejected, migration failed: %s", err)
		return false
	}
	if err := s.validator.ValidateSaveRecord(remote.Save); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Cloud save rejected, validation failed: %s", err)
		return false
	}

	s.cache.SetGameData(remote.Save, true)
	if remote.Settings != nil {
		s.cache.SetSettings(remote.Settings, true)
	}
	if remote.Statistics != nil {
		remote.Statistics.EnsureMaps()
		s.cache.SetStatistics(remote.Statistics, true)
	}
	s.logger.Infof(providers.TypeLoad, "Applied newer cloud save from device %s", remote.DeviceID)
	return s.FlushCache()
}

// DeleteAllSaveData removes every save file after taking a named safety
// backup of the primary.
func (s *SaveService) DeleteAllSaveData() bool {
	if s.store.HasSaveData() {
		if _, err := s.backups.Create(s.safetyBackupName("pre_delete")); err != nil {
			s.logger.Warnf(providers.TypeSave, "Pre-delete safety backup failed: %s", err)
		}
	}
	if err := s.store.DeleteAll(); err != nil {
		s.logger.Errorf(providers.TypeSave, "Delete all save data failed: %s", err)
		return false
	}
	s.cache.Clear()
	s.logger.Infof(providers.TypeApp, "All save data deleted")
	return true
}

func (s *SaveService) GetSaveFileSizeBytes() int64 {
	return s.store.SaveFileSize()
}

func (s *SaveService) HasSaveData() bool {
	return s.store.HasSaveData()
}

func (s *SaveService) Subscribe(fn func(save.Event)) {
	s.events.Subscribe(fn)
}

func (s *SaveService) safetyBackupName(reason string) string {
	return reason + "_" + time.Now().Format(safetyBackupTimestampLayout)
}

// NewSchedulerTarget narrows the service for the scheduler's wiring.
func NewSchedulerTarget(s SaveServiceInterface) save.SchedulerTarget {
	return s
}
