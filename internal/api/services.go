package api

import "github.com/levelupapp/levelup-server/internal/service"

// Services groups the business services used by the API server.
type Services struct {
	Profile     *service.ProfileService
	Progression *service.ProgressionService
	Leaderboard *service.LeaderboardService
}
