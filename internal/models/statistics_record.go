package models

import "time"

type SessionStats struct {
	SessionsStarted       int     `json:"sessions_started"`
	CurrentSessionStart   string  `json:"current_session_start,omitempty"`
	LongestSessionSeconds float64 `json:"longest_session_seconds"`
}

type DayStats struct {
	PlayTime        float64 `json:"play_time"`
	LevelsCompleted int     `json:"levels_completed"`
	AttemptsMade    int     `json:"attempts_made"`
}

type ThemeStats struct {
	LevelsCompleted int `json:"levels_completed"`
	PerfectRuns     int `json:"perfect_runs"`
	TotalStars      int `json:"total_stars"`
}

// StatisticsRecord aggregates gameplay statistics. Its lifecycle is
// independent from SaveRecord: resetting progress keeps statistics.
type StatisticsRecord struct {
	Aggregate map[string]int         `json:"aggregate"`
	Session   SessionStats           `json:"session"`
	Daily     map[string]*DayStats   `json:"daily"`
	Themes    map[string]*ThemeStats `json:"themes"`
	UpdatedAt string                 `json:"updated_at"`
}

func NewStatisticsRecord() *StatisticsRecord {
	return &StatisticsRecord{
		Aggregate: make(map[string]int),
		Daily:     make(map[string]*DayStats),
		Themes:    make(map[string]*ThemeStats),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (s *StatisticsRecord) EnsureMaps() {
	if s.Aggregate == nil {
		s.Aggregate = make(map[string]int)
	}
	if s.Daily == nil {
		s.Daily = make(map[string]*DayStats)
	}
	if s.Themes == nil {
		s.Themes = make(map[string]*ThemeStats)
	}
}
