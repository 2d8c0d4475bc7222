package save

import (
	"os"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gsd/internal/crypto"
	"gsd/internal/integrity"
	"gsd/internal/models"
	"gsd/internal/structures"
	"gsd/internal/testutil"
)

type eventSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *eventSink) record(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *eventSink) byType(t EventType) []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, ev := range s.events {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func storeConfig(dir string) *structures.Config {
	return &structures.Config{
		Storage: structures.StorageConfig{Dir: dir, MaxBackups: 3},
		Save:    structures.SaveConfig{MaxLevels: 200, MinSupportedVersion: 1},
	}
}

func newTestStore(t *testing.T, dir string) (StoreInterface, *eventSink, *testutil.MockMetrics) {
	t.Helper()

	conf := storeConfig(dir)
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()
	events := NewEvents()
	sink := &eventSink{}
	events.Subscribe(sink.record)

	cipher := crypto.NewCipherEngine(crypto.NewStaticKeyProvider(), logger)
	validator := integrity.NewValidator(conf, logger, metrics)
	migrator := integrity.NewMigrator(conf, logger)

	store, err := NewStore(NewPaths(conf), cipher, validator, migrator, events, logger, metrics)
	require.NoError(t, err)
	return store, sink, metrics
}

func testRecord() *models.SaveRecord {
	r := models.NewSaveRecord()
	r.CurrentLevel = 5
	r.HighestUnlockedLevel = 10
	r.TotalPlayTime = 120.5
	integrity.StampChecksum(r)
	return r
}

func TestStore_WriteGameData_CreatesEncryptedPrimary(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)

	require.NoError(t, store.WriteGameData(testRecord()))

	paths := testPaths(dir)
	raw, err := os.ReadFile(paths.Primary(models.KindGameData))
	require.NoError(t, err)

	var decoded models.SaveRecord
	assert.Error(t, json.Unmarshal(raw, &decoded), "primary save must not be plaintext")

	_, err = os.Stat(paths.Temp(models.KindGameData))
	assert.True(t, os.IsNotExist(err), "temp file must not survive the write")
}

func TestStore_GameData_RoundTrip(t *testing.T) {
	store, _, _ := newTestStore(t, t.TempDir())

	want := testRecord()
	require.NoError(t, store.WriteGameData(want))

	got := store.LoadGameData()
	assert.Equal(t, want.DeviceID, got.DeviceID)
	assert.Equal(t, 5, got.CurrentLevel)
	assert.Equal(t, 10, got.HighestUnlockedLevel)
	assert.Equal(t, 120.5, got.TotalPlayTime)
}

// A crash between writing the temp file and the rename leaves a stale
// temp beside the primary. The load path must ignore it.
func TestStore_StaleTempFileDoesNotAffectLoad(t *testing.T) {
	dir := t.TempDir()
	store, sink, _ := newTestStore(t, dir)

	want := testRecord()
	require.NoError(t, store.WriteGameData(want))

	paths := testPaths(dir)
	require.NoError(t, os.WriteFile(paths.Temp(models.KindGameData), []byte("interrupted write"), 0600))

	got := store.LoadGameData()
	assert.Equal(t, want.DeviceID, got.DeviceID)
	assert.Equal(t, 5, got.CurrentLevel)
	assert.Empty(t, sink.byType(EventCorruptionDetected))
}

func TestStore_SecondWriteRotatesBackup(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)

	first := testRecord()
	require.NoError(t, store.WriteGameData(first))

	second := testRecord()
	second.CurrentLevel = 6
	require.NoError(t, store.WriteGameData(second))

	paths := testPaths(dir)
	backupRaw, err := os.ReadFile(paths.Backup(models.KindGameData))
	require.NoError(t, err)
	primaryRaw, err := os.ReadFile(paths.Primary(models.KindGameData))
	require.NoError(t, err)
	assert.NotEqual(t, primaryRaw, backupRaw, "backup must hold the previous generation")
}

func TestStore_WriteGameData_EmitsOrderedProgress(t *testing.T) {
	store, sink, _ := newTestStore(t, t.TempDir())

	require.NoError(t, store.WriteGameData(testRecord()))

	progress := sink.byType(EventSaveProgress)
	require.Len(t, progress, 4)
	fractions := make([]float64, len(progress))
	for i, ev := range progress {
		fractions[i] = ev.Fraction
	}
	assert.Equal(t, []float64{0.25, 0.5, 0.75, 1.0}, fractions)
}

func TestStore_LoadGameData_CorruptPrimaryRecoversFromBackup(t *testing.T) {
	dir := t.TempDir()
	store, sink, metrics := newTestStore(t, dir)
	paths := testPaths(dir)

	first := testRecord()
	require.NoError(t, store.WriteGameData(first))
	second := testRecord()
	second.CurrentLevel = 9
	second.HighestUnlockedLevel = 9
	require.NoError(t, store.WriteGameData(second))

	require.NoError(t, os.WriteFile(paths.Primary(models.KindGameData), []byte("\x00\x01trash"), 0600))

	got := store.LoadGameData()
	assert.Equal(t, first.DeviceID, got.DeviceID)

	assert.Equal(t, 1, metrics.Fallbacks["backup"])
	assert.Equal(t, 1, metrics.CorruptionDetected)
	assert.Len(t, sink.byType(EventCorruptionDetected), 1)

	// The backup was promoted, so the next load reads the primary again.
	again := store.LoadGameData()
	assert.Equal(t, got.DeviceID, again.DeviceID)
	assert.Equal(t, 1, metrics.Fallbacks["backup"], "second load must not fall back")
}

func TestStore_LoadGameData_BothTiersCorruptStartsFresh(t *testing.T) {
	dir := t.TempDir()
	store, _, metrics := newTestStore(t, dir)
	paths := testPaths(dir)

	require.NoError(t, os.WriteFile(paths.Primary(models.KindGameData), []byte("\x00garbage"), 0600))
	require.NoError(t, os.WriteFile(paths.Backup(models.KindGameData), []byte("\x00garbage"), 0600))

	got := store.LoadGameData()
	require.NotNil(t, got)
	assert.Equal(t, 1, got.CurrentLevel)
	assert.Equal(t, models.CurrentSchemaVersion, got.SchemaVersion)
	assert.Equal(t, integrity.ComputeChecksum(got), got.Checksum)
	assert.Equal(t, 1, metrics.Fallbacks["fresh"])
}

func TestStore_LoadGameData_MissingFilesStartFreshQuietly(t *testing.T) {
	store, sink, metrics := newTestStore(t, t.TempDir())

	got := store.LoadGameData()
	require.NotNil(t, got)
	assert.Equal(t, 1, metrics.Fallbacks["fresh"])
	assert.Empty(t, sink.byType(EventCorruptionDetected), "absence is not corruption")
}

// Files written by builds where encryption was degraded are plain JSON;
// they must still load.
func TestStore_LoadGameData_AcceptsPlaintextFile(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)
	paths := testPaths(dir)

	want := testRecord()
	raw, err := json.Marshal(want)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(paths.Primary(models.KindGameData), raw, 0600))

	got := store.LoadGameData()
	assert.Equal(t, want.DeviceID, got.DeviceID)
	assert.Equal(t, want.CurrentLevel, got.CurrentLevel)
}

func TestStore_LoadGameData_MigratesOldVersion(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)
	paths := testPaths(dir)

	old := models.NewSaveRecord()
	old.SchemaVersion = 1
	old.Statistics["play_time_seconds"] = 250
	old.Checksum = ""
	raw, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(paths.Primary(models.KindGameData), raw, 0600))

	got := store.LoadGameData()
	assert.Equal(t, models.CurrentSchemaVersion, got.SchemaVersion)
	assert.Equal(t, 250.0, got.TotalPlayTime)
}

func TestStore_Settings_PlainJSONOnDisk(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)

	settings := models.NewSettingsRecord()
	settings.Language = "de"
	require.NoError(t, store.WriteSettings(settings))

	raw, err := os.ReadFile(testPaths(dir).Primary(models.KindSettings))
	require.NoError(t, err)

	var onDisk models.SettingsRecord
	require.NoError(t, json.Unmarshal(raw, &onDisk), "settings file must stay readable as JSON")
	assert.Equal(t, "de", onDisk.Language)

	assert.Equal(t, "de", store.LoadSettings().Language)
}

func TestStore_LoadSettings_DefaultsWhenMissingOrCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)

	got := store.LoadSettings()
	assert.Equal(t, 0.8, got.MusicVolume)

	require.NoError(t, os.WriteFile(testPaths(dir).Primary(models.KindSettings), []byte("{broken"), 0644))
	got = store.LoadSettings()
	assert.Equal(t, "en", got.Language)
}

func TestStore_Statistics_EncryptedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)

	stats := models.NewStatisticsRecord()
	stats.Aggregate["levels_completed"] = 12
	require.NoError(t, store.WriteStatistics(stats))

	raw, err := os.ReadFile(testPaths(dir).Primary(models.KindStatistics))
	require.NoError(t, err)
	var probe models.StatisticsRecord
	assert.Error(t, json.Unmarshal(raw, &probe), "statistics file must be encrypted")

	got := store.LoadStatistics()
	assert.Equal(t, 12, got.Aggregate["levels_completed"])
}

func TestStore_DeleteAll(t *testing.T) {
	dir := t.TempDir()
	store, _, _ := newTestStore(t, dir)

	require.NoError(t, store.WriteGameData(testRecord()))
	require.NoError(t, store.WriteSettings(models.NewSettingsRecord()))
	require.NoError(t, store.WriteStatistics(models.NewStatisticsRecord()))
	require.True(t, store.HasSaveData())

	require.NoError(t, store.DeleteAll())

	assert.False(t, store.HasSaveData())
	assert.Zero(t, store.SaveFileSize())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStore_SaveFileSize(t *testing.T) {
	store, _, _ := newTestStore(t, t.TempDir())

	assert.Zero(t, store.SaveFileSize())
	require.NoError(t, store.WriteGameData(testRecord()))
	assert.Positive(t, store.SaveFileSize())
}
