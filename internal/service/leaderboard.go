package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/progression"
	"github.com/levelupapp/levelup-server/internal/store"
)

// LeaderboardService ranks users.
type LeaderboardService struct {
	repo         store.Repository
	engine       *progression.Engine
	clock        progression.Clock
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
}

// NewLeaderboardService creates a new leaderboard service.
func NewLeaderboardService(
	repo store.Repository,
	engine *progression.Engine,
	clock progression.Clock,
	defaultLimit, maxLimit int,
	logger *slog.Logger,
) *LeaderboardService {
	return &LeaderboardService{
		repo:         repo,
		engine:       engine,
		clock:        clock,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		logger:       logger,
	}
}

// LeaderboardQuery selects ordering, a name filter and a page size.
type LeaderboardQuery struct {
	Sort  domain.SortKey
	Query string
	Limit int
}

// RankedEntry is a leaderboard entry with its 1-based position in the unfiltered ranking.
type RankedEntry struct {
	Rank int
	domain.LeaderboardEntry
}

// GetLeaderboard returns ranked entries. Ranks are positions in the full
// ordering, so a filtered result keeps each user's real rank. Lapsed
// streaks are reported as 0.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, q LeaderboardQuery) ([]RankedEntry, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}
	if !q.Sort.Valid() {
		q.Sort = domain.SortByXP
	}

	fetch := limit
	if q.Query != "" {
		fetch = 0
	}
	entries, err := s.repo.ListTopUsers(ctx, fetch, q.Sort)
	if err != nil {
		return nil, fmt.Errorf("listing leaderboard: %w", err)
	}

	today := s.clock.Today()
	ranks := make(map[string]int, len(entries))
	for i := range entries {
		ranks[entries[i].UserID] = i + 1
		p := domain.UserProgress{StreakDays: entries[i].StreakDays, LastActiveDate: entries[i].LastActiveDate}
		entries[i].StreakDays = s.engine.CurrentStreak(p, today)
	}

	filtered := progression.Top(progression.Filter(slices.Values(entries), q.Query), limit)

	out := make([]RankedEntry, 0, min(limit, len(entries)))
	for e := range filtered {
		out = append(out, RankedEntry{Rank: ranks[e.UserID], LeaderboardEntry: e})
	}
	return out, nil
}
