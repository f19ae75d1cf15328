package domain

// LevelUpEvent is raised after a saved change moved a user to a higher level.
type LevelUpEvent struct {
	UserID        string          `json:"user_id"`
	PreviousLevel LevelDefinition `json:"previous_level"`
	NewLevel      LevelDefinition `json:"new_level"`
	TotalXP       int64           `json:"total_xp"`
}

// TaskCompletedEvent is raised after a saved task completion.
type TaskCompletedEvent struct {
	UserID    string         `json:"user_id"`
	Task      TaskDefinition `json:"task"`
	XPGranted int64          `json:"xp_granted"`
	TotalXP   int64          `json:"total_xp"`
	DailyXP   int64          `json:"daily_xp"`
}
