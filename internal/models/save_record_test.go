package models

import (
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSaveRecord_Defaults(t *testing.T) {
	r := NewSaveRecord()

	assert.Equal(t, CurrentSchemaVersion, r.SchemaVersion)
	assert.Equal(t, 1, r.CurrentLevel)
	assert.Equal(t, 1, r.HighestUnlockedLevel)
	assert.NotEmpty(t, r.DeviceID)
	assert.NotEmpty(t, r.Timestamp)
	assert.NotNil(t, r.LevelProgress)
	assert.NotNil(t, r.Statistics)
}

func TestNewSaveRecord_UniqueDeviceIDs(t *testing.T) {
	assert.NotEqual(t, NewSaveRecord().DeviceID, NewSaveRecord().DeviceID)
}

func TestSaveRecord_EnsureMapsAfterDeserialization(t *testing.T) {
	var r SaveRecord
	require.NoError(t, json.Unmarshal([]byte(`{"schema_version":2,"current_level":1}`), &r))

	r.EnsureMaps()
	assert.NotNil(t, r.LevelProgress)
	assert.NotNil(t, r.UnlockedAchievements)
	assert.NotNil(t, r.UnlockedThemes)
	assert.NotNil(t, r.UnlockedCosmetics)
	assert.NotNil(t, r.Statistics)
	assert.NotNil(t, r.DetailedStats)
}

func TestSaveRecord_Touch(t *testing.T) {
	r := NewSaveRecord()
	r.Timestamp = "2020-01-01T00:00:00Z"

	r.Touch()
	parsed := r.ParsedTimestamp()
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestSaveRecord_Clone_IsDeep(t *testing.T) {
	r := NewSaveRecord()
	r.CurrentLevel = 7
	r.LevelProgress["3"] = &LevelProgress{Stars: 2, CompletionTimes: []float64{10.5}}
	r.UnlockedThemes = append(r.UnlockedThemes, "dark")
	r.Statistics["hints_used"] = 4
	r.DetailedStats["avg_time"] = 33.3

	c := r.Clone()
	require.Equal(t, r, c)

	c.Touch()
	c.Checksum = "changed"
	c.LevelProgress["3"].Stars = 3
	c.LevelProgress["3"].CompletionTimes[0] = 99.9
	c.UnlockedThemes[0] = "light"
	c.Statistics["hints_used"] = 5
	c.DetailedStats["avg_time"] = 44.4

	assert.Empty(t, r.Checksum)
	assert.Equal(t, 2, r.LevelProgress["3"].Stars)
	assert.Equal(t, 10.5, r.LevelProgress["3"].CompletionTimes[0])
	assert.Equal(t, "dark", r.UnlockedThemes[0])
	assert.Equal(t, 4, r.Statistics["hints_used"])
	assert.Equal(t, 33.3, r.DetailedStats["avg_time"])
}

func TestSaveRecord_ParsedTimestamp_MalformedIsZero(t *testing.T) {
	r := &SaveRecord{Timestamp: "yesterday"}
	assert.True(t, r.ParsedTimestamp().IsZero())

	r.Timestamp = ""
	assert.True(t, r.ParsedTimestamp().IsZero())
}

func TestRecordKind_String(t *testing.T) {
	assert.Equal(t, "GameData", KindGameData.String())
	assert.Equal(t, "Settings", KindSettings.String())
	assert.Equal(t, "Statistics", KindStatistics.String())
	assert.Equal(t, "Unknown", RecordKind(99).String())
}

func TestKinds_StableOrder(t *testing.T) {
	assert.Equal(t, []RecordKind{KindGameData, KindSettings, KindStatistics}, Kinds())
}

func TestCloudRecord_ParsedTimestamp(t *testing.T) {
	c := &CloudRecord{Timestamp: "2026-08-28T10:00:00Z"}
	assert.Equal(t, 2026, c.ParsedTimestamp().Year())

	c.Timestamp = "not a time"
	assert.True(t, c.ParsedTimestamp().IsZero())
}
