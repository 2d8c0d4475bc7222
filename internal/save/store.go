package save

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	json "github.com/goccy/go-json"

	"gsd/internal/crypto"
	"gsd/internal/integrity"
	"gsd/internal/models"
	"gsd/internal/providers"
)

var (
	ErrIOFailure          = errors.New("io failure")
	ErrCorruptionDetected = errors.New("data corruption detected")
)

type StoreInterface interface {
	WriteGameData(r *models.SaveRecord) error
	LoadGameData() *models.SaveRecord
	WriteSettings(r *models.SettingsRecord) error
	LoadSettings() *models.SettingsRecord
	WriteStatistics(r *models.StatisticsRecord) error
	LoadStatistics() *models.StatisticsRecord
	SaveFileSize() int64
	HasSaveData() bool
	DeleteAll() error
}

// Store owns the save directory and the write/load protocols.
//
// Writes are atomic with respect to crashes: the encrypted payload goes to
// a temp file first, the previous primary is preserved as the backup, and
// the rename onto the primary path is the only state-changing step. Loads
// fall back primary → backup → fresh default and never fail.
type Store struct {
	paths    Paths
	cipher   crypto.CipherInterface
	validate integrity.ValidatorInterface
	migrate  integrity.MigratorInterface
	events   *Events
	logger   providers.Logger
	metrics  providers.MetricsProviderInterface
}

func NewStore(
	paths Paths,
	cipher crypto.CipherInterface,
	validator integrity.ValidatorInterface,
	migrator integrity.MigratorInterface,
	events *Events,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) (StoreInterface, error) {
	if err := os.MkdirAll(paths.Dir(), 0700); err != nil {
		return nil, fmt.Errorf("%w: create save dir: %s", ErrIOFailure, err)
	}
	return &Store{
		paths:    paths,
		cipher:   cipher,
		validate: validator,
		migrate:  migrator,
		events:   events,
		logger:   logger,
		metrics:  metrics,
	}, nil
}

// WriteGameData runs the full atomic protocol for the primary record.
func (s *Store) WriteGameData(r *models.SaveRecord) error {
	start := time.Now()

	jsonData, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("serialize game data: %w", err)
	}
	payload := s.cipher.Encrypt(jsonData)
	s.progress(0.25)

	tmpPath := s.paths.Temp(models.KindGameData)
	if err := writeFileSync(tmpPath, payload, 0600); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write temp file: %s", ErrIOFailure, err)
	}
	s.progress(0.5)

	primary := s.paths.Primary(models.KindGameData)
	if _, err := os.Stat(primary); err == nil {
		if err := copyFile(primary, s.paths.Backup(models.KindGameData)); err != nil {
			s.logger.Warnf(providers.TypeSave, "Backup copy failed, continuing without rotating backup: %s", err)
		}
	}
	s.progress(0.75)

	if err := os.Rename(tmpPath, primary); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: promote temp file: %s", ErrIOFailure, err)
	}
	s.progress(1.0)

	s.metrics.ObservePersistenceDuration(time.Since(start))
	return nil
}

// LoadGameData loads the primary record with the three-tier fallback.
// It always returns a usable record; the corruption and fresh-start cases
// are reported through events and metrics, not errors.
func (s *Store) LoadGameData() *models.SaveRecord {
	primary := s.paths.Primary(models.KindGameData)
	record, err := s.loadSaveFile(primary)
	if err == nil {
		return record
	}
	if !errors.Is(err, os.ErrNotExist) {
		s.logger.Errorf(providers.TypeLoad, "Primary save file unreadable: %s", err)
	}

	backupPath := s.paths.Backup(models.KindGameData)
	if _, statErr := os.Stat(backupPath); statErr == nil {
		s.metrics.IncLoadFallbacks("backup")
		record, backupErr := s.loadSaveFile(backupPath)
		if backupErr == nil {
			if restoreErr := copyFile(backupPath, primary); restoreErr != nil {
				s.logger.Errorf(providers.TypeLoad, "Failed to restore backup over primary: %s", restoreErr)
			}
			s.metrics.IncCorruptionDetected()
			s.events.Emit(Event{
				Type:    EventCorruptionDetected,
				Kind:    models.KindGameData,
				Message: fmt.Sprintf("primary save unreadable, recovered from backup: %s", err),
			})
			s.logger.Warnf(providers.TypeLoad, "Recovered game data from backup file")
			return record
		}
		s.logger.Errorf(providers.TypeLoad, "Backup save file unreadable: %s", backupErr)
	}

	s.metrics.IncLoadFallbacks("fresh")
	s.logger.Infof(providers.TypeLoad, "No readable save data, starting fresh")
	fresh := models.NewSaveRecord()
	integrity.StampChecksum(fresh)
	return fresh
}

// loadSaveFile reads, decrypts, deserializes, migrates and validates one
// save file.
func (s *Store) loadSaveFile(path string) (*models.SaveRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIOFailure, path, err)
	}

	plain, err := s.cipher.Decrypt(data)
	if err != nil {
		return nil, fmt.Errorf("decrypt %s: %w", path, err)
	}

	var record models.SaveRecord
	if err := json.Unmarshal(plain, &record); err != nil {
		return nil, fmt.Errorf("%w: deserialize %s: %s", ErrCorruptionDetected, path, err)
	}
	record.EnsureMaps()

	if err := s.migrate.Migrate(&record); err != nil {
		return nil, err
	}
	if err := s.validate.ValidateSaveRecord(&record); err != nil {
		return nil, err
	}
	return &record, nil
}

// WriteSettings persists settings as plaintext JSON so the file stays
// inspectable outside the engine.
func (s *Store) WriteSettings(r *models.SettingsRecord) error {
	jsonData, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("serialize settings: %w", err)
	}
	return s.writeAtomic(models.KindSettings, jsonData, 0644)
}

func (s *Store) LoadSettings() *models.SettingsRecord {
	data, err := os.ReadFile(s.paths.Primary(models.KindSettings))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Errorf(providers.TypeLoad, "Settings file unreadable, using defaults: %s", err)
		}
		return models.NewSettingsRecord()
	}
	var record models.SettingsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Settings file corrupt, using defaults: %s", err)
		return models.NewSettingsRecord()
	}
	return &record
}

func (s *Store) WriteStatistics(r *models.StatisticsRecord) error {
	jsonData, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("serialize statistics: %w", err)
	}
	return s.writeAtomic(models.KindStatistics, s.cipher.Encrypt(jsonData), 0600)
}

func (s *Store) LoadStatistics() *models.StatisticsRecord {
	data, err := os.ReadFile(s.paths.Primary(models.KindStatistics))
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Errorf(providers.TypeLoad, "Statistics file unreadable, using defaults: %s", err)
		}
		return models.NewStatisticsRecord()
	}

	plain, err := s.cipher.Decrypt(data)
	if err != nil {
		s.logger.Errorf(providers.TypeLoad, "Statistics file undecryptable, using defaults: %s", err)
		return models.NewStatisticsRecord()
	}
	var record models.StatisticsRecord
	if err := json.Unmarshal(plain, &record); err != nil {
		s.logger.Errorf(providers.TypeLoad, "Statistics file corrupt, using defaults: %s", err)
		return models.NewStatisticsRecord()
	}
	record.EnsureMaps()
	return &record
}

// writeAtomic is the temp+rename protocol without backup rotation, used
// for the secondary records.
func (s *Store) writeAtomic(kind models.RecordKind, payload []byte, mode os.FileMode) error {
	tmpPath := s.paths.Temp(kind)
	if err := writeFileSync(tmpPath, payload, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: write temp file: %s", ErrIOFailure, err)
	}
	if err := os.Rename(tmpPath, s.paths.Primary(kind)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: promote temp file: %s", ErrIOFailure, err)
	}
	return nil
}

func (s *Store) SaveFileSize() int64 {
	info, err := os.Stat(s.paths.Primary(models.KindGameData))
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *Store) HasSaveData() bool {
	_, err := os.Stat(s.paths.Primary(models.KindGameData))
	return err == nil
}

// DeleteAll removes every save file. Callers are responsible for taking a
// safety backup first.
func (s *Store) DeleteAll() error {
	var firstErr error
	for _, path := range []string{
		s.paths.Primary(models.KindGameData),
		s.paths.Backup(models.KindGameData),
		s.paths.Temp(models.KindGameData),
		s.paths.Primary(models.KindSettings),
		s.paths.Primary(models.KindStatistics),
		s.paths.Reserved(),
	} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) && firstErr == nil {
			firstErr = fmt.Errorf("%w: %s", ErrIOFailure, err)
		}
	}
	return firstErr
}

func (s *Store) progress(fraction float64) {
	s.events.Emit(Event{Type: EventSaveProgress, Kind: models.KindGameData, Fraction: fraction})
}

// writeFileSync writes data and fsyncs before closing, so a rename that
// follows never promotes a partially flushed file.
func writeFileSync(path string, data []byte, mode os.FileMode) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	if _, err = file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err = out.Sync(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
