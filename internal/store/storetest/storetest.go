// Package storetest holds behaviour tests shared by every store.Repository backend.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/store"
)

// Factory opens a fresh, empty repository. It should register cleanup with t.
type Factory func(t *testing.T) store.Repository

// Run exercises the Repository contract against repositories built by open.
func Run(t *testing.T, open Factory) {
	t.Run("LoadProgressDefault", func(t *testing.T) { testLoadProgressDefault(t, open(t)) })
	t.Run("SaveAndReload", func(t *testing.T) { testSaveAndReload(t, open(t)) })
	t.Run("StaleWrite", func(t *testing.T) { testStaleWrite(t, open(t)) })
	t.Run("ConcurrentSaves", func(t *testing.T) { testConcurrentSaves(t, open(t)) })
	t.Run("InvalidInput", func(t *testing.T) { testInvalidInput(t, open(t)) })
	t.Run("Profiles", func(t *testing.T) { testProfiles(t, open(t)) })
	t.Run("Achievements", func(t *testing.T) { testAchievements(t, open(t)) })
	t.Run("ListTopUsers", func(t *testing.T) { testListTopUsers(t, open(t)) })
}

func testLoadProgressDefault(t *testing.T, repo store.Repository) {
	ctx := context.Background()

	p, err := repo.LoadProgress(ctx, "nobody")
	require.NoError(t, err)
	assert.Equal(t, "nobody", p.UserID)
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, int64(0), p.TotalXP)
	assert.Equal(t, int64(0), p.Version)

	// Loading must not create the record.
	entries, err := repo.ListTopUsers(ctx, 0, domain.SortByXP)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func testSaveAndReload(t *testing.T, repo store.Repository) {
	ctx := context.Background()

	p, err := repo.LoadProgress(ctx, "u1")
	require.NoError(t, err)

	p.TotalXP = 1010
	p.Level = 2
	p.StreakDays = 3
	p.LongestStreak = 7
	p.LastActiveDate = domain.NewDate(2024, 3, 10)
	p.StreakBefore = domain.StreakSnapshot{
		Day:            domain.NewDate(2024, 3, 10),
		StreakDays:     2,
		LongestStreak:  7,
		LastActiveDate: domain.NewDate(2024, 3, 9),
	}
	p.CompletedToday = map[string]int64{"workout": 20, "water": 5}
	p.TasksCompleted = 12
	require.NoError(t, repo.SaveProgress(ctx, p))
	assert.Equal(t, int64(1), p.Version)
	assert.False(t, p.UpdatedAt.IsZero())

	got, err := repo.LoadProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1010), got.TotalXP)
	assert.Equal(t, 2, got.Level)
	assert.Equal(t, 3, got.StreakDays)
	assert.Equal(t, 7, got.LongestStreak)
	assert.Equal(t, domain.NewDate(2024, 3, 10), got.LastActiveDate)
	assert.Equal(t, p.StreakBefore, got.StreakBefore)
	assert.Equal(t, map[string]int64{"workout": 20, "water": 5}, got.CompletedToday)
	assert.Equal(t, 12, got.TasksCompleted)
	assert.Equal(t, int64(1), got.Version)
	assert.WithinDuration(t, p.UpdatedAt, got.UpdatedAt, time.Second)

	got.CompletedToday = nil
	require.NoError(t, repo.SaveProgress(ctx, got))
	assert.Equal(t, int64(2), got.Version)

	again, err := repo.LoadProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, again.CompletedToday)
}

func testStaleWrite(t *testing.T, repo store.Repository) {
	ctx := context.Background()

	a, err := repo.LoadProgress(ctx, "u1")
	require.NoError(t, err)
	b, err := repo.LoadProgress(ctx, "u1")
	require.NoError(t, err)

	a.TotalXP = 10
	require.NoError(t, repo.SaveProgress(ctx, a))

	b.TotalXP = 99
	err = repo.SaveProgress(ctx, b)
	assert.ErrorIs(t, err, store.ErrStaleWrite)
	assert.Equal(t, int64(0), b.Version, "failed save must not advance the version")

	got, err := repo.LoadProgress(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.TotalXP)
}

func testConcurrentSaves(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	const workers = 8
	const perWorker = 5

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				for {
					p, err := repo.LoadProgress(ctx, "shared")
					if !assert.NoError(t, err) {
						return
					}
					p.TotalXP++
					err = repo.SaveProgress(ctx, p)
					if err == nil {
						break
					}
					if !errors.Is(err, store.ErrStaleWrite) {
						assert.NoError(t, err)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	got, err := repo.LoadProgress(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, int64(workers*perWorker), got.TotalXP)
	assert.Equal(t, int64(workers*perWorker), got.Version)
}

func testInvalidInput(t *testing.T, repo store.Repository) {
	ctx := context.Background()

	_, err := repo.LoadProgress(ctx, "")
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	assert.ErrorIs(t, repo.SaveProgress(ctx, &domain.UserProgress{}), store.ErrInvalidInput)
	assert.ErrorIs(t, repo.SaveProgress(ctx, nil), store.ErrInvalidInput)
	assert.ErrorIs(t, repo.CreateProfile(ctx, &domain.Profile{}), store.ErrInvalidInput)
}

func testProfiles(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := repo.GetProfile(ctx, "u1")
	assert.ErrorIs(t, err, store.ErrNotFound)

	profile := domain.NewProfile("u1", "ada@example.com", "", "", now)
	require.NoError(t, repo.CreateProfile(ctx, profile))

	err = repo.CreateProfile(ctx, domain.NewProfile("u1", "other@example.com", "Other", "", now))
	assert.ErrorIs(t, err, store.ErrAlreadyExists)

	got, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Name)
	assert.Equal(t, "ada@example.com", got.Email)
	assert.Empty(t, got.Achievements)

	got.Bio = "Counting reps"
	got.Name = "Ada L."
	require.NoError(t, repo.UpdateProfile(ctx, got))

	updated, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", updated.Name)
	assert.Equal(t, "Counting reps", updated.Bio)

	err = repo.UpdateProfile(ctx, domain.NewProfile("ghost", "g@example.com", "", "", now))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testAchievements(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	_, err := repo.AddAchievement(ctx, "u1", domain.Achievement{ID: "ach-1", Name: "First Steps"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, repo.CreateProfile(ctx, domain.NewProfile("u1", "ada@example.com", "Ada", "", now)))

	_, err = repo.AddAchievement(ctx, "u1", domain.Achievement{ID: "ach-1", Name: "First Steps", Icon: "👣", UnlockedAt: now})
	require.NoError(t, err)
	profile, err := repo.AddAchievement(ctx, "u1", domain.Achievement{ID: "ach-2", Name: "Week Warrior", Icon: "🔥", UnlockedAt: now})
	require.NoError(t, err)
	require.Len(t, profile.Achievements, 2)

	got, err := repo.GetProfile(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got.Achievements, 2)
	assert.Equal(t, "First Steps", got.Achievements[0].Name)
	assert.Equal(t, "Week Warrior", got.Achievements[1].Name)
	assert.Equal(t, "🔥", got.Achievements[1].Icon)
}

func testListTopUsers(t *testing.T, repo store.Repository) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

	save := func(userID string, xp int64, level int) {
		p, err := repo.LoadProgress(ctx, userID)
		require.NoError(t, err)
		p.TotalXP = xp
		p.Level = level
		require.NoError(t, repo.SaveProgress(ctx, p))
	}
	save("u1", 800, 1)
	save("u2", 5000, 6)
	save("u3", 1200, 2)
	require.NoError(t, repo.CreateProfile(ctx, domain.NewProfile("u1", "zed@example.com", "zed", "", now)))
	require.NoError(t, repo.CreateProfile(ctx, domain.NewProfile("u2", "amy@example.com", "Amy", "", now)))
	require.NoError(t, repo.CreateProfile(ctx, domain.NewProfile("u4", "bea@example.com", "bea", "", now)))

	byXP, err := repo.ListTopUsers(ctx, 0, domain.SortByXP)
	require.NoError(t, err)
	require.Len(t, byXP, 4)
	assert.Equal(t, []string{"u2", "u3", "u1", "u4"}, ids(byXP))
	assert.Equal(t, "Amy", byXP[0].DisplayName)
	assert.Equal(t, "u3", byXP[1].DisplayName, "missing profile falls back to user id")
	assert.Equal(t, 6, byXP[0].Level)
	assert.Equal(t, int64(0), byXP[3].TotalXP)
	assert.Equal(t, 1, byXP[3].Level)

	top2, err := repo.ListTopUsers(ctx, 2, domain.SortByXP)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u3"}, ids(top2))

	byName, err := repo.ListTopUsers(ctx, 0, domain.SortByName)
	require.NoError(t, err)
	assert.Equal(t, []string{"u2", "u4", "u3", "u1"}, ids(byName))
}

func ids(entries []domain.LeaderboardEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.UserID)
	}
	return out
}
