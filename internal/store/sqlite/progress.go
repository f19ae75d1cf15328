package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/progression"
	"github.com/levelupapp/levelup-server/internal/store"
)

// LoadProgress returns the stored progress for userID, or the default
// record (version 0) if none exists. Nothing is written.
func (s *Store) LoadProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	if userID == "" {
		return nil, store.ErrInvalidInput
	}

	p := domain.NewUserProgress(userID)
	var lastActive, streakBefore, completed, updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT total_xp, level, streak_days, longest_streak, last_active_date,
			streak_before, completed_today, tasks_completed, version, updated_at
		FROM progress WHERE user_id = ?`, userID).Scan(
		&p.TotalXP,
		&p.Level,
		&p.StreakDays,
		&p.LongestStreak,
		&lastActive,
		&streakBefore,
		&completed,
		&p.TasksCompleted,
		&p.Version,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading progress for %s: %w", userID, err)
	}

	if p.LastActiveDate, err = domain.ParseDate(lastActive); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(streakBefore), &p.StreakBefore); err != nil {
		return nil, fmt.Errorf("decoding streak snapshot for %s: %w", userID, err)
	}
	if err := json.Unmarshal([]byte(completed), &p.CompletedToday); err != nil {
		return nil, fmt.Errorf("decoding completed tasks for %s: %w", userID, err)
	}
	if len(p.CompletedToday) == 0 {
		p.CompletedToday = nil
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProgress writes p if the stored version still equals p.Version.
// Version 0 inserts only when no row exists; any other version updates
// only the row carrying that version. On success p.Version and p.UpdatedAt
// are advanced; otherwise store.ErrStaleWrite is returned.
func (s *Store) SaveProgress(ctx context.Context, p *domain.UserProgress) error {
	if p == nil || p.UserID == "" {
		return store.ErrInvalidInput
	}

	completed := p.CompletedToday
	if completed == nil {
		completed = map[string]int64{}
	}
	completedJSON, err := json.Marshal(completed)
	if err != nil {
		return fmt.Errorf("encoding completed tasks: %w", err)
	}
	streakBeforeJSON, err := json.Marshal(p.StreakBefore)
	if err != nil {
		return fmt.Errorf("encoding streak snapshot: %w", err)
	}
	updatedAt := s.now().UTC()

	var res sql.Result
	if p.Version == 0 {
		res, err = s.db.ExecContext(ctx, `
			INSERT INTO progress (user_id, total_xp, level, streak_days, longest_streak,
				last_active_date, streak_before, completed_today, tasks_completed, version, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, ?)
			ON CONFLICT(user_id) DO NOTHING`,
			p.UserID, p.TotalXP, p.Level, p.StreakDays, p.LongestStreak,
			p.LastActiveDate.String(), string(streakBeforeJSON), string(completedJSON), p.TasksCompleted, formatTime(updatedAt),
		)
	} else {
		res, err = s.db.ExecContext(ctx, `
			UPDATE progress SET total_xp = ?, level = ?, streak_days = ?, longest_streak = ?,
				last_active_date = ?, streak_before = ?, completed_today = ?, tasks_completed = ?,
				version = version + 1, updated_at = ?
			WHERE user_id = ? AND version = ?`,
			p.TotalXP, p.Level, p.StreakDays, p.LongestStreak,
			p.LastActiveDate.String(), string(streakBeforeJSON), string(completedJSON), p.TasksCompleted, formatTime(updatedAt),
			p.UserID, p.Version,
		)
	}
	if err != nil {
		return fmt.Errorf("saving progress for %s: %w", p.UserID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving progress for %s: %w", p.UserID, err)
	}
	if n == 0 {
		return fmt.Errorf("saving progress for %s at version %d: %w", p.UserID, p.Version, store.ErrStaleWrite)
	}

	p.Version++
	p.UpdatedAt = updatedAt
	return nil
}

// ListTopUsers ranks every user with a profile or progress row.
// XP ordering is done in SQL; name ordering needs Unicode case folding and
// is done in Go over the full set.
func (s *Store) ListTopUsers(ctx context.Context, limit int, key domain.SortKey) ([]domain.LeaderboardEntry, error) {
	query := `
		WITH ids AS (
			SELECT user_id FROM progress
			UNION
			SELECT user_id FROM profiles
		)
		SELECT ids.user_id,
			COALESCE(NULLIF(pf.name, ''), ids.user_id),
			COALESCE(pr.level, 1),
			COALESCE(pr.total_xp, 0) AS xp,
			COALESCE(pr.streak_days, 0),
			COALESCE(pr.last_active_date, '')
		FROM ids
		LEFT JOIN progress pr ON pr.user_id = ids.user_id
		LEFT JOIN profiles pf ON pf.user_id = ids.user_id`

	sqlLimit := -1
	if key != domain.SortByName {
		query += ` ORDER BY xp DESC, ids.user_id ASC LIMIT ?`
		if limit > 0 {
			sqlLimit = limit
		}
	} else {
		query += ` LIMIT ?`
	}

	rows, err := s.db.QueryContext(ctx, query, sqlLimit)
	if err != nil {
		return nil, fmt.Errorf("listing leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		var lastActive string
		if err := rows.Scan(&e.UserID, &e.DisplayName, &e.Level, &e.TotalXP, &e.StreakDays, &lastActive); err != nil {
			return nil, err
		}
		if e.LastActiveDate, err = domain.ParseDate(lastActive); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if key != domain.SortByName {
		return entries, nil
	}
	ranked := progression.Rank(slices.Values(entries), key)
	return slices.Collect(progression.Top(ranked, limit)), nil
}
