package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/progression"
	"github.com/levelupapp/levelup-server/internal/store"
)

// DefaultMaxSaveAttempts bounds the load-apply-save cycle when saves keep going stale.
const DefaultMaxSaveAttempts = 5

// ProgressionService runs engine transitions against stored progress.
type ProgressionService struct {
	repo        store.Repository
	engine      *progression.Engine
	clock       progression.Clock
	notifier    Notifier
	maxAttempts int
	logger      *slog.Logger
}

// NewProgressionService creates a new progression service.
// A nil notifier discards events; maxAttempts <= 0 uses DefaultMaxSaveAttempts.
func NewProgressionService(
	repo store.Repository,
	engine *progression.Engine,
	clock progression.Clock,
	notifier Notifier,
	maxAttempts int,
	logger *slog.Logger,
) *ProgressionService {
	if notifier == nil {
		notifier = NoopNotifier{}
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxSaveAttempts
	}
	return &ProgressionService{
		repo:        repo,
		engine:      engine,
		clock:       clock,
		notifier:    notifier,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// ProgressSummary is the read model for a user's progression screen.
type ProgressSummary struct {
	Progress        domain.UserProgress
	Level           domain.LevelDefinition
	NextLevel       domain.LevelDefinition
	ProgressPercent float64
	XPToNextLevel   int64
	CurrentStreak   int
	DailyXP         int64
	CompletedToday  []string
}

// TaskStatus is a catalog task with today's completion state.
type TaskStatus struct {
	Task      domain.TaskDefinition
	Completed bool
}

// TaskGroup is one category of the daily task list.
type TaskGroup struct {
	Category string
	Tasks    []TaskStatus
}

// TaskOutcome is the result of completing or un-completing a task.
type TaskOutcome struct {
	Summary       ProgressSummary
	XPChange      int64
	LeveledUp     bool
	PreviousLevel domain.LevelDefinition
}

// Levels returns the level roadmap.
func (s *ProgressionService) Levels() []domain.LevelDefinition {
	return s.engine.Levels().Levels()
}

// GetProgress returns the user's current progression. A day that has
// rolled over is shown as empty without writing anything.
func (s *ProgressionService) GetProgress(ctx context.Context, userID string) (*ProgressSummary, error) {
	p, err := s.repo.LoadProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	view := s.engine.RolloverDay(*p, s.clock.Today())
	// The stored day decides whether the streak has lapsed.
	view.LastActiveDate = p.LastActiveDate
	summary := s.summarize(view)
	return &summary, nil
}

// GetTasks returns the catalog grouped by category with today's completion flags.
func (s *ProgressionService) GetTasks(ctx context.Context, userID string) ([]TaskGroup, error) {
	p, err := s.repo.LoadProgress(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading progress: %w", err)
	}
	today := s.engine.RolloverDay(*p, s.clock.Today())

	categories := s.engine.Catalog().Categories()
	groups := make([]TaskGroup, 0, len(categories))
	for _, c := range categories {
		g := TaskGroup{Category: c.Category, Tasks: make([]TaskStatus, 0, len(c.Tasks))}
		for _, t := range c.Tasks {
			g.Tasks = append(g.Tasks, TaskStatus{Task: t, Completed: today.HasCompleted(t.ID)})
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// CompleteTask completes taskID for today. The first completion of a day
// extends or resets the streak before the completed set rolls over.
// Completing an already completed task returns the unchanged state.
func (s *ProgressionService) CompleteTask(ctx context.Context, userID, taskID string) (*TaskOutcome, error) {
	var result progression.CompletionResult
	var fresh bool

	saved, err := s.update(ctx, userID, func(p domain.UserProgress) (domain.UserProgress, bool, error) {
		today := s.clock.Today()
		p = s.engine.UpdateStreak(p, today)
		p = s.engine.RolloverDay(p, today)
		fresh = !p.HasCompleted(taskID)

		var err error
		result, err = s.engine.CompleteTask(p, taskID)
		if err != nil {
			return p, false, err
		}
		// A repeat completion can only happen on the same day, so there is nothing to save.
		return result.Progress, fresh, nil
	})
	if err != nil {
		return nil, err
	}

	if fresh {
		task, _ := s.engine.Catalog().Task(taskID)
		s.notifier.TaskCompleted(ctx, domain.TaskCompletedEvent{
			UserID:    userID,
			Task:      task,
			XPGranted: result.XPGranted,
			TotalXP:   saved.TotalXP,
			DailyXP:   saved.DailyXP(),
		})
		s.logger.Debug("task completed", "user_id", userID, "task_id", taskID, "xp", result.XPGranted)
	}
	s.notifyLevelUp(ctx, userID, result.XPResult, saved)

	return &TaskOutcome{
		Summary:       s.summarize(saved),
		XPChange:      result.XPGranted,
		LeveledUp:     result.LeveledUp,
		PreviousLevel: result.PreviousLevel,
	}, nil
}

// UncompleteTask reverses today's completion of taskID. Tasks completed on an
// earlier day cannot be reversed; asking to is a no-op and nothing is saved.
func (s *ProgressionService) UncompleteTask(ctx context.Context, userID, taskID string) (*TaskOutcome, error) {
	var result progression.XPResult
	var before int64

	saved, err := s.update(ctx, userID, func(p domain.UserProgress) (domain.UserProgress, bool, error) {
		before = p.TotalXP
		p = s.engine.RolloverDay(p, s.clock.Today())
		removing := p.HasCompleted(taskID)

		var err error
		result, err = s.engine.UncompleteTask(p, taskID)
		if err != nil {
			return p, false, err
		}
		return result.Progress, removing, nil
	})
	if err != nil {
		return nil, err
	}

	return &TaskOutcome{
		Summary:       s.summarize(saved),
		XPChange:      saved.TotalXP - before,
		PreviousLevel: result.PreviousLevel,
	}, nil
}

// ApplyXPDelta adds delta (which may be negative) to the user's XP.
func (s *ProgressionService) ApplyXPDelta(ctx context.Context, userID string, delta int64) (*TaskOutcome, error) {
	var result progression.XPResult
	var before int64

	saved, err := s.update(ctx, userID, func(p domain.UserProgress) (domain.UserProgress, bool, error) {
		before = p.TotalXP
		result = s.engine.ApplyXPDelta(p, delta)
		return result.Progress, true, nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyLevelUp(ctx, userID, result, saved)

	return &TaskOutcome{
		Summary:       s.summarize(saved),
		XPChange:      saved.TotalXP - before,
		LeveledUp:     result.LeveledUp,
		PreviousLevel: result.PreviousLevel,
	}, nil
}

// update runs load, apply and save, starting over when the save loses a race.
// apply reports whether its result needs saving; unsaved results are returned as-is.
func (s *ProgressionService) update(
	ctx context.Context,
	userID string,
	apply func(domain.UserProgress) (domain.UserProgress, bool, error),
) (domain.UserProgress, error) {
	for attempt := 1; ; attempt++ {
		cur, err := s.repo.LoadProgress(ctx, userID)
		if err != nil {
			return domain.UserProgress{}, fmt.Errorf("loading progress: %w", err)
		}

		next, save, err := apply(*cur)
		if err != nil {
			return domain.UserProgress{}, err
		}
		if !save {
			return next, nil
		}

		next = s.engine.Normalize(next)
		err = s.repo.SaveProgress(ctx, &next)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, store.ErrStaleWrite) || attempt >= s.maxAttempts {
			return domain.UserProgress{}, fmt.Errorf("saving progress after %d attempt(s): %w", attempt, err)
		}
		s.logger.Debug("progress save went stale, retrying", "user_id", userID, "attempt", attempt)
	}
}

func (s *ProgressionService) notifyLevelUp(ctx context.Context, userID string, result progression.XPResult, saved domain.UserProgress) {
	if !result.LeveledUp {
		return
	}
	s.notifier.LevelUp(ctx, domain.LevelUpEvent{
		UserID:        userID,
		PreviousLevel: result.PreviousLevel,
		NewLevel:      result.NewLevel,
		TotalXP:       saved.TotalXP,
	})
	s.logger.Info("user leveled up", "user_id", userID, "level", result.NewLevel.ID, "name", result.NewLevel.Name)
}

func (s *ProgressionService) summarize(p domain.UserProgress) ProgressSummary {
	levels := s.engine.Levels()
	cur := levels.LevelForXP(p.TotalXP)
	next := levels.Next(cur)

	return ProgressSummary{
		Progress:        p,
		Level:           cur,
		NextLevel:       next,
		ProgressPercent: s.engine.ProgressToNextLevel(p),
		XPToNextLevel:   max(0, next.XPThreshold-p.TotalXP),
		CurrentStreak:   s.engine.CurrentStreak(p, s.clock.Today()),
		DailyXP:         p.DailyXP(),
		CompletedToday:  slices.Sorted(maps.Keys(p.CompletedToday)),
	}
}
