package domain

import (
	"maps"
	"time"
)

// LevelDefinition is one rung of the level roadmap.
type LevelDefinition struct {
	ID          int    `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Icon        string `json:"icon,omitempty" yaml:"icon"`
	Color       string `json:"color,omitempty" yaml:"color"`
	XPThreshold int64  `json:"xp_threshold" yaml:"xp_threshold"`
}

// TaskDefinition is a daily task that grants a fixed XP reward once per day.
type TaskDefinition struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category" yaml:"category"`
	Icon     string `json:"icon,omitempty" yaml:"icon"`
	XPReward int64  `json:"xp_reward" yaml:"xp_reward"`
}

// UserProgress is the persisted progression state of one user.
//
// Level is always derived from TotalXP by the progression engine and is
// stored only so leaderboards can be served without the level table.
type UserProgress struct {
	UserID         string `json:"user_id"`
	TotalXP        int64  `json:"total_xp"`
	Level          int    `json:"level"`
	StreakDays     int    `json:"streak_days"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate Date   `json:"last_active_date"`

	// StreakBefore holds the streak fields from before the first completion
	// of LastActiveDate, so undoing that day's last completion can restore them.
	StreakBefore StreakSnapshot `json:"streak_before"`

	// CompletedToday maps each task completed on LastActiveDate to the XP it granted.
	CompletedToday map[string]int64 `json:"completed_today,omitempty"`
	TasksCompleted int              `json:"tasks_completed"`

	// Version is the optimistic concurrency token. Zero means never saved.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StreakSnapshot is the streak state as it stood before the first completion on Day.
type StreakSnapshot struct {
	Day            Date `json:"day"`
	StreakDays     int  `json:"streak_days"`
	LongestStreak  int  `json:"longest_streak"`
	LastActiveDate Date `json:"last_active_date"`
}

// NewUserProgress returns the default record for a user who has never been active.
func NewUserProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID: userID,
		Level:  1,
	}
}

// Clone returns a deep copy of p. An empty completed set is normalized to nil.
func (p UserProgress) Clone() UserProgress {
	out := p
	if len(p.CompletedToday) == 0 {
		out.CompletedToday = nil
	} else {
		out.CompletedToday = maps.Clone(p.CompletedToday)
	}
	return out
}

// HasCompleted reports whether taskID is in today's completed set.
func (p UserProgress) HasCompleted(taskID string) bool {
	_, ok := p.CompletedToday[taskID]
	return ok
}

// DailyXP is the XP earned from tasks completed on LastActiveDate.
func (p UserProgress) DailyXP() int64 {
	var total int64
	for _, xp := range p.CompletedToday {
		total += xp
	}
	return total
}

// SortKey selects the leaderboard ordering.
type SortKey string

const (
	// SortByXP orders by total XP, highest first.
	SortByXP SortKey = "xp"
	// SortByName orders alphabetically by display name.
	SortByName SortKey = "name"
)

// Valid checks if the sort key is known.
func (k SortKey) Valid() bool {
	switch k {
	case SortByXP, SortByName:
		return true
	default:
		return false
	}
}

// LeaderboardEntry is a read-only ranking projection of a user's progress.
type LeaderboardEntry struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
	TotalXP     int64  `json:"total_xp"`
	StreakDays  int    `json:"streak_days"`

	// LastActiveDate lets readers tell a live streak from a lapsed one.
	LastActiveDate Date `json:"last_active_date"`
}

// LeaderboardEntryOf projects p into a leaderboard entry.
func LeaderboardEntryOf(p UserProgress, displayName string) LeaderboardEntry {
	return LeaderboardEntry{
		UserID:         p.UserID,
		DisplayName:    displayName,
		Level:          p.Level,
		TotalXP:        p.TotalXP,
		StreakDays:     p.StreakDays,
		LastActiveDate: p.LastActiveDate,
	}
}
