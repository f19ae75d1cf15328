package progression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelupapp/levelup-server/internal/domain"
)

func TestUpdateStreak(t *testing.T) {
	e := newEngine(t)

	tests := []struct {
		name        string
		progress    domain.UserProgress
		wantStreak  int
		wantLongest int
	}{
		{
			name:        "first activity ever",
			progress:    domain.UserProgress{},
			wantStreak:  1,
			wantLongest: 1,
		},
		{
			name:        "active yesterday extends",
			progress:    domain.UserProgress{StreakDays: 4, LongestStreak: 4, LastActiveDate: yesterday},
			wantStreak:  5,
			wantLongest: 5,
		},
		{
			name:        "gap of two days resets",
			progress:    domain.UserProgress{StreakDays: 4, LongestStreak: 9, LastActiveDate: day.AddDays(-2)},
			wantStreak:  1,
			wantLongest: 9,
		},
		{
			name:        "same day unchanged",
			progress:    domain.UserProgress{StreakDays: 3, LongestStreak: 3, LastActiveDate: day},
			wantStreak:  3,
			wantLongest: 3,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.UpdateStreak(tt.progress, day)
			assert.Equal(t, tt.wantStreak, got.StreakDays)
			assert.Equal(t, tt.wantLongest, got.LongestStreak)
		})
	}
}

func TestUpdateStreak_IdempotentWithinDay(t *testing.T) {
	e := newEngine(t)
	p := domain.UserProgress{StreakDays: 2, LastActiveDate: yesterday}

	first := e.RolloverDay(e.UpdateStreak(p, day), day)
	second := e.RolloverDay(e.UpdateStreak(first, day), day)

	assert.Equal(t, 3, first.StreakDays)
	assert.Equal(t, first, second)
}

func TestUpdateStreak_AcrossMonthBoundary(t *testing.T) {
	e := newEngine(t)
	p := domain.UserProgress{StreakDays: 1, LastActiveDate: domain.NewDate(2024, 2, 29)}

	got := e.UpdateStreak(p, domain.NewDate(2024, 3, 1))
	assert.Equal(t, 2, got.StreakDays)
}

func TestCurrentStreak(t *testing.T) {
	e := newEngine(t)

	assert.Equal(t, 5, e.CurrentStreak(domain.UserProgress{StreakDays: 5, LastActiveDate: day}, day))
	assert.Equal(t, 5, e.CurrentStreak(domain.UserProgress{StreakDays: 5, LastActiveDate: yesterday}, day))
	assert.Equal(t, 0, e.CurrentStreak(domain.UserProgress{StreakDays: 5, LastActiveDate: day.AddDays(-3)}, day))
	assert.Equal(t, 0, e.CurrentStreak(domain.UserProgress{}, day))
}

func TestUncompleteTask_RestoresStreakWhenDayEmpties(t *testing.T) {
	e := newEngine(t)
	start := domain.UserProgress{UserID: "u1", StreakDays: 3, LongestStreak: 3, LastActiveDate: yesterday}

	p := e.RolloverDay(e.UpdateStreak(start, day), day)
	done, err := e.CompleteTask(p, "water")
	require.NoError(t, err)
	done2, err := e.CompleteTask(done.Progress, "workout")
	require.NoError(t, err)
	assert.Equal(t, 4, done2.Progress.StreakDays)

	// One completion left: the day still counts.
	partial, err := e.UncompleteTask(done2.Progress, "workout")
	require.NoError(t, err)
	assert.Equal(t, 4, partial.Progress.StreakDays)
	assert.Equal(t, day, partial.Progress.LastActiveDate)

	undone, err := e.UncompleteTask(partial.Progress, "water")
	require.NoError(t, err)
	assert.Equal(t, 3, undone.Progress.StreakDays)
	assert.Equal(t, 3, undone.Progress.LongestStreak)
	assert.Equal(t, yesterday, undone.Progress.LastActiveDate)
	assert.Equal(t, 0, undone.Progress.TasksCompleted)
	assert.Equal(t, 3, e.CurrentStreak(undone.Progress, day), "streak through yesterday is still alive")

	// Completing again the same day extends the streak exactly once.
	redo := e.RolloverDay(e.UpdateStreak(undone.Progress, day), day)
	again, err := e.CompleteTask(redo, "water")
	require.NoError(t, err)
	assert.Equal(t, 4, again.Progress.StreakDays)
}

func TestUncompleteTask_RestoresResetStreak(t *testing.T) {
	e := newEngine(t)
	start := domain.UserProgress{UserID: "u1", StreakDays: 6, LongestStreak: 9, LastActiveDate: day.AddDays(-4)}

	p := e.RolloverDay(e.UpdateStreak(start, day), day)
	done, err := e.CompleteTask(p, "water")
	require.NoError(t, err)
	assert.Equal(t, 1, done.Progress.StreakDays)

	undone, err := e.UncompleteTask(done.Progress, "water")
	require.NoError(t, err)
	assert.Equal(t, 6, undone.Progress.StreakDays)
	assert.Equal(t, 9, undone.Progress.LongestStreak)
	assert.Equal(t, day.AddDays(-4), undone.Progress.LastActiveDate)
	assert.Equal(t, 0, e.CurrentStreak(undone.Progress, day))
}

func TestUncompleteTask_WithoutSnapshotKeepsStreak(t *testing.T) {
	e := newEngine(t)
	p := domain.UserProgress{UserID: "u1", StreakDays: 2, LastActiveDate: day, CompletedToday: map[string]int64{"water": 5}}

	undone, err := e.UncompleteTask(p, "water")
	require.NoError(t, err)
	assert.Equal(t, 2, undone.Progress.StreakDays)
	assert.Equal(t, day, undone.Progress.LastActiveDate)
}
