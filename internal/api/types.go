package api

import (
	"time"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/service"
)

// LevelResponse is one rung of the level roadmap.
type LevelResponse struct {
	ID          int    `json:"id" doc:"Level number, starting at 1"`
	Name        string `json:"name" doc:"Level title"`
	Icon        string `json:"icon,omitempty" doc:"Display icon"`
	Color       string `json:"color,omitempty" doc:"Display color as #rrggbb"`
	XPThreshold int64  `json:"xp_threshold" doc:"Total XP needed to reach this level"`
}

func levelResponse(l domain.LevelDefinition) LevelResponse {
	return LevelResponse{
		ID:          l.ID,
		Name:        l.Name,
		Icon:        l.Icon,
		Color:       l.Color,
		XPThreshold: l.XPThreshold,
	}
}

// ProgressResponse is a user's progression summary.
type ProgressResponse struct {
	UserID          string         `json:"user_id" doc:"User ID"`
	TotalXP         int64          `json:"total_xp" doc:"Lifetime XP"`
	Level           LevelResponse  `json:"level" doc:"Current level"`
	NextLevel       *LevelResponse `json:"next_level,omitempty" doc:"Next level; absent at the top level"`
	ProgressPercent float64        `json:"progress_percent" doc:"Progress through the current level, 0 to 100"`
	XPToNextLevel   int64          `json:"xp_to_next_level" doc:"XP still needed for the next level"`
	CurrentStreak   int            `json:"current_streak" doc:"Consecutive active days, 0 once lapsed"`
	LongestStreak   int            `json:"longest_streak" doc:"Best streak ever reached"`
	DailyXP         int64          `json:"daily_xp" doc:"XP earned from tasks today"`
	CompletedToday  []string       `json:"completed_today" doc:"IDs of tasks completed today"`
	TasksCompleted  int            `json:"tasks_completed" doc:"Lifetime task completions"`
	LastActiveDate  string         `json:"last_active_date,omitempty" doc:"Last day with activity (YYYY-MM-DD)"`
}

func progressResponse(s service.ProgressSummary) ProgressResponse {
	resp := ProgressResponse{
		UserID:          s.Progress.UserID,
		TotalXP:         s.Progress.TotalXP,
		Level:           levelResponse(s.Level),
		ProgressPercent: s.ProgressPercent,
		XPToNextLevel:   s.XPToNextLevel,
		CurrentStreak:   s.CurrentStreak,
		LongestStreak:   s.Progress.LongestStreak,
		DailyXP:         s.DailyXP,
		CompletedToday:  s.CompletedToday,
		TasksCompleted:  s.Progress.TasksCompleted,
		LastActiveDate:  s.Progress.LastActiveDate.String(),
	}
	if s.NextLevel.ID != s.Level.ID {
		next := levelResponse(s.NextLevel)
		resp.NextLevel = &next
	}
	if resp.CompletedToday == nil {
		resp.CompletedToday = []string{}
	}
	return resp
}

// OutcomeResponse describes the effect of a progress change.
type OutcomeResponse struct {
	XPChange      int64            `json:"xp_change" doc:"XP added (negative when removed)"`
	LeveledUp     bool             `json:"leveled_up" doc:"Whether the change reached a new level"`
	PreviousLevel LevelResponse    `json:"previous_level" doc:"Level before the change"`
	Progress      ProgressResponse `json:"progress" doc:"Progress after the change"`
}

func outcomeResponse(o *service.TaskOutcome) OutcomeResponse {
	return OutcomeResponse{
		XPChange:      o.XPChange,
		LeveledUp:     o.LeveledUp,
		PreviousLevel: levelResponse(o.PreviousLevel),
		Progress:      progressResponse(o.Summary),
	}
}

// AchievementResponse is an unlocked badge.
type AchievementResponse struct {
	ID         string    `json:"id" doc:"Achievement ID"`
	Name       string    `json:"name" doc:"Achievement name"`
	Icon       string    `json:"icon,omitempty" doc:"Display icon"`
	UnlockedAt time.Time `json:"unlocked_at" doc:"When it was unlocked"`
}

// ProfileResponse is a user's public profile.
type ProfileResponse struct {
	UserID       string                `json:"user_id" doc:"User ID"`
	Email        string                `json:"email" doc:"Email address"`
	Name         string                `json:"name" doc:"Display name"`
	Bio          string                `json:"bio,omitempty" doc:"Short bio"`
	PhotoURL     string                `json:"photo_url,omitempty" doc:"Avatar URL"`
	Achievements []AchievementResponse `json:"achievements" doc:"Unlocked achievements, oldest first"`
	CreatedAt    time.Time             `json:"created_at" doc:"Creation time"`
	UpdatedAt    time.Time             `json:"updated_at" doc:"Last update time"`
}

func profileResponse(p *domain.Profile) ProfileResponse {
	achievements := make([]AchievementResponse, 0, len(p.Achievements))
	for _, a := range p.Achievements {
		achievements = append(achievements, AchievementResponse{
			ID:         a.ID,
			Name:       a.Name,
			Icon:       a.Icon,
			UnlockedAt: a.UnlockedAt,
		})
	}
	return ProfileResponse{
		UserID:       p.UserID,
		Email:        p.Email,
		Name:         p.Name,
		Bio:          p.Bio,
		PhotoURL:     p.PhotoURL,
		Achievements: achievements,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
