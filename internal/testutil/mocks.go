package testutil

import (
	"sync"
	"time"

	"gsd/internal/models"
	"gsd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// HasLevel reports whether any entry with the given level was recorded.
func (m *MockLogger) HasLevel(level string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level {
			return true
		}
	}
	return false
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

// MockCipher implements crypto.CipherInterface with injectable behavior.
// Default is identity in both directions.
type MockCipher struct {
	EncryptFn func([]byte) []byte
	DecryptFn func([]byte) ([]byte, error)
}

func (m *MockCipher) Encrypt(plain []byte) []byte {
	if m.EncryptFn != nil {
		return m.EncryptFn(plain)
	}
	out := make([]byte, len(plain))
	copy(out, plain)
	return out
}

func (m *MockCipher) Decrypt(data []byte) ([]byte, error) {
	if m.DecryptFn != nil {
		return m.DecryptFn(data)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// MockMetrics implements providers.MetricsProviderInterface and counts calls.
type MockMetrics struct {
	mu                 sync.Mutex
	Saves              map[string]int
	Loads              map[string]int
	Fallbacks          map[string]int
	CorruptionDetected int
	ChecksumMismatches int
	Backups            int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Saves:     make(map[string]int),
		Loads:     make(map[string]int),
		Fallbacks: make(map[string]int),
	}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       {}

func (m *MockMetrics) IncSavesTotal(kind string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves[kind+":"+result(success)]++
}

func (m *MockMetrics) IncLoadsTotal(kind string, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Loads[kind+":"+result(success)]++
}

func (m *MockMetrics) IncLoadFallbacks(tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Fallbacks[tier]++
}

func (m *MockMetrics) IncCorruptionDetected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CorruptionDetected++
}

func (m *MockMetrics) IncChecksumMismatches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChecksumMismatches++
}

func (m *MockMetrics) IncBackupsTotal() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Backups++
}

func result(success bool) string {
	if success {
		return "ok"
	}
	return "error"
}

// MockStore implements save.StoreInterface over in-memory records.
type MockStore struct {
	mu         sync.Mutex
	GameData   *models.SaveRecord
	Settings   *models.SettingsRecord
	Statistics *models.StatisticsRecord
	WriteErr   error
	Writes     []models.RecordKind
	Deleted    bool
}

func (m *MockStore) WriteGameData(r *models.SaveRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.GameData = r
	m.Writes = append(m.Writes, models.KindGameData)
	return nil
}

func (m *MockStore) LoadGameData() *models.SaveRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GameData == nil {
		return models.NewSaveRecord()
	}
	return m.GameData
}

func (m *MockStore) WriteSettings(r *models.SettingsRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Settings = r
	m.Writes = append(m.Writes, models.KindSettings)
	return nil
}

func (m *MockStore) LoadSettings() *models.SettingsRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Settings == nil {
		return models.NewSettingsRecord()
	}
	return m.Settings
}

func (m *MockStore) WriteStatistics(r *models.StatisticsRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Statistics = r
	m.Writes = append(m.Writes, models.KindStatistics)
	return nil
}

func (m *MockStore) LoadStatistics() *models.StatisticsRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Statistics == nil {
		return models.NewStatisticsRecord()
	}
	return m.Statistics
}

func (m *MockStore) SaveFileSize() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GameData == nil {
		return 0
	}
	return 1024
}

func (m *MockStore) HasSaveData() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GameData != nil
}

func (m *MockStore) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GameData = nil
	m.Settings = nil
	m.Statistics = nil
	m.Deleted = true
	return nil
}

// MockBackupManager implements save.BackupManagerInterface.
type MockBackupManager struct {
	mu         sync.Mutex
	Created    []string
	Restored   []string
	Names      []string
	CreateErr  error
	RestoreErr error
}

func (m *MockBackupManager) Create(name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateErr != nil {
		return "", m.CreateErr
	}
	if name == "" {
		name = "backup_19700101_000000"
	}
	m.Created = append(m.Created, name)
	return name, nil
}

func (m *MockBackupManager) Restore(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RestoreErr != nil {
		return m.RestoreErr
	}
	m.Restored = append(m.Restored, name)
	return nil
}

func (m *MockBackupManager) List() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Names, nil
}

// MockValidator implements integrity.ValidatorInterface.
type MockValidator struct {
	Err error
}

func (m *MockValidator) ValidateSaveRecord(_ *models.SaveRecord) error {
	return m.Err
}

// MockMigrator implements integrity.MigratorInterface.
type MockMigrator struct {
	Err error
}

func (m *MockMigrator) Migrate(r *models.SaveRecord) error {
	if m.Err != nil {
		return m.Err
	}
	r.SchemaVersion = models.CurrentSchemaVersion
	return nil
}
