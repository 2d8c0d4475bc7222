package models

import (
	"time"

	"github.com/google/uuid"
)

// CurrentSchemaVersion is stamped on every record written by this build.
// Loaded records below this version pass through the migration chain.
const CurrentSchemaVersion = 2

// LevelProgress holds per-level completion state.
type LevelProgress struct {
	Completed        bool      `json:"completed"`
	BestTime         float64   `json:"best_time"`
	Attempts         int       `json:"attempts"`
	Stars            int       `json:"stars"`
	Perfect          bool      `json:"perfect"`
	HintUsed         bool      `json:"hint_used"`
	FirstCompletedAt string    `json:"first_completed_at,omitempty"`
	CompletionTimes  []float64 `json:"completion_times,omitempty"`
}

// SaveRecord is the primary persisted unit of player progress.
type SaveRecord struct {
	SchemaVersion        int                       `json:"schema_version"`
	Timestamp            string                    `json:"timestamp"`
	DeviceID             string                    `json:"device_id"`
	Checksum             string                    `json:"checksum,omitempty"`
	CurrentLevel         int                       `json:"current_level"`
	HighestUnlockedLevel int                       `json:"highest_unlocked_level"`
	LevelProgress        map[string]*LevelProgress `json:"level_progress"`
	TotalPlayTime        float64                   `json:"total_play_time"`
	TotalAttempts        int                       `json:"total_attempts"`
	TotalCompletions     int                       `json:"total_completions"`
	UnlockedAchievements []string                  `json:"unlocked_achievements"`
	UnlockedThemes       []string                  `json:"unlocked_themes"`
	UnlockedCosmetics    []string                  `json:"unlocked_cosmetics"`
	IsPremium            bool                      `json:"is_premium"`
	AdsRemoved           bool                      `json:"ads_removed"`
	AdsWatched           int                       `json:"ads_watched"`
	PurchaseDate         string                    `json:"purchase_date,omitempty"`
	Statistics           map[string]int            `json:"statistics"`
	DetailedStats        map[string]float64        `json:"detailed_stats"`
}

// NewSaveRecord returns a fresh record for a first run or explicit reset.
func NewSaveRecord() *SaveRecord {
	r := &SaveRecord{
		SchemaVersion:        CurrentSchemaVersion,
		DeviceID:             uuid.NewString(),
		CurrentLevel:         1,
		HighestUnlockedLevel: 1,
		LevelProgress:        make(map[string]*LevelProgress),
		UnlockedAchievements: make([]string, 0),
		UnlockedThemes:       make([]string, 0),
		UnlockedCosmetics:    make([]string, 0),
		Statistics:           make(map[string]int),
		DetailedStats:        make(map[string]float64),
	}
	r.Touch()
	return r
}

// Touch stamps the record with the current wall-clock time.
func (r *SaveRecord) Touch() {
	r.Timestamp = time.Now().UTC().Format(time.RFC3339)
}

// Clone returns a deep copy. Cached records are shared across goroutines
// and treated as immutable, so anything that needs to stamp or rewrite a
// record works on a clone.
func (r *SaveRecord) Clone() *SaveRecord {
	c := *r
	c.LevelProgress = make(map[string]*LevelProgress, len(r.LevelProgress))
	for id, lp := range r.LevelProgress {
		if lp == nil {
			c.LevelProgress[id] = nil
			continue
		}
		lc := *lp
		lc.CompletionTimes = append([]float64(nil), lp.CompletionTimes...)
		c.LevelProgress[id] = &lc
	}
	c.UnlockedAchievements = append([]string(nil), r.UnlockedAchievements...)
	c.UnlockedThemes = append([]string(nil), r.UnlockedThemes...)
	c.UnlockedCosmetics = append([]string(nil), r.UnlockedCosmetics...)
	c.Statistics = make(map[string]int, len(r.Statistics))
	for k, v := range r.Statistics {
		c.Statistics[k] = v
	}
	c.DetailedStats = make(map[string]float64, len(r.DetailedStats))
	for k, v := range r.DetailedStats {
		c.DetailedStats[k] = v
	}
	return &c
}

// EnsureMaps initializes nil collections after deserialization so callers
// never have to nil-check before indexing.
func (r *SaveRecord) EnsureMaps() {
	if r.LevelProgress == nil {
		r.LevelProgress = make(map[string]*LevelProgress)
	}
	if r.UnlockedAchievements == nil {
		r.UnlockedAchievements = make([]string, 0)
	}
	if r.UnlockedThemes == nil {
		r.UnlockedThemes = make([]string, 0)
	}
	if r.UnlockedCosmetics == nil {
		r.UnlockedCosmetics = make([]string, 0)
	}
	if r.Statistics == nil {
		r.Statistics = make(map[string]int)
	}
	if r.DetailedStats == nil {
		r.DetailedStats = make(map[string]float64)
	}
}

// ParsedTimestamp parses the record timestamp. The zero time is returned
// for empty or malformed values so comparisons treat them as oldest.
func (r *SaveRecord) ParsedTimestamp() time.Time {
	t, err := time.Parse(time.RFC3339, r.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
