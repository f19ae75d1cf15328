package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/service"
)

func (s *Server) registerLeaderboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getLeaderboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/leaderboard",
		Summary:     "Get leaderboard",
		Description: "Ranks users by XP or name. A name filter keeps each user's overall rank",
		Tags:        []string{"Leaderboard"},
	}, s.handleGetLeaderboard)
}

// LeaderboardInput holds the leaderboard query parameters.
type LeaderboardInput struct {
	Sort  string `query:"sort" enum:"xp,name" default:"xp" doc:"Ordering: xp (highest first) or name"`
	Query string `query:"q" maxLength:"100" doc:"Case-insensitive display name filter"`
	Limit int    `query:"limit" minimum:"0" doc:"Maximum entries; 0 uses the server default"`
}

// LeaderboardEntryResponse is one ranked user.
type LeaderboardEntryResponse struct {
	Rank           int    `json:"rank" doc:"1-based position in the full ranking"`
	UserID         string `json:"user_id" doc:"User ID"`
	DisplayName    string `json:"display_name" doc:"Profile name, or the user ID without a profile"`
	Level          int    `json:"level" doc:"Level number"`
	LevelName      string `json:"level_name" doc:"Level title"`
	TotalXP        int64  `json:"total_xp" doc:"Lifetime XP"`
	StreakDays     int    `json:"streak_days" doc:"Current streak, 0 once lapsed"`
	LastActiveDate string `json:"last_active_date,omitempty" doc:"Last day with activity (YYYY-MM-DD)"`
}

// LeaderboardResponse is a page of the ranking.
type LeaderboardResponse struct {
	Sort    string                     `json:"sort" doc:"Ordering used"`
	Entries []LeaderboardEntryResponse `json:"entries" doc:"Ranked entries"`
}

// LeaderboardOutput wraps the leaderboard for Huma.
type LeaderboardOutput struct {
	Body LeaderboardResponse
}

func (s *Server) handleGetLeaderboard(ctx context.Context, input *LeaderboardInput) (*LeaderboardOutput, error) {
	sortKey := domain.SortKey(input.Sort)
	entries, err := s.services.Leaderboard.GetLeaderboard(ctx, service.LeaderboardQuery{
		Sort:  sortKey,
		Query: input.Query,
		Limit: input.Limit,
	})
	if err != nil {
		return nil, err
	}

	names := make(map[int]string)
	for _, l := range s.services.Progression.Levels() {
		names[l.ID] = l.Name
	}

	resp := LeaderboardResponse{Sort: string(sortKey), Entries: make([]LeaderboardEntryResponse, 0, len(entries))}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, LeaderboardEntryResponse{
			Rank:           e.Rank,
			UserID:         e.UserID,
			DisplayName:    e.DisplayName,
			Level:          e.Level,
			LevelName:      names[e.Level],
			TotalXP:        e.TotalXP,
			StreakDays:     e.StreakDays,
			LastActiveDate: e.LastActiveDate.String(),
		})
	}
	return &LeaderboardOutput{Body: resp}, nil
}
