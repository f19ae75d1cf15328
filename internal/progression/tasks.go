package progression

import (
	"slices"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/errors"
)

// Catalog is an immutable, validated set of daily tasks.
type Catalog struct {
	tasks []domain.TaskDefinition
	byID  map[string]int
}

// CategoryGroup is the tasks of one category in catalog order.
type CategoryGroup struct {
	Category string
	Tasks    []domain.TaskDefinition
}

// NewCatalog validates tasks and builds a catalog. IDs must be unique and rewards non-negative.
func NewCatalog(tasks []domain.TaskDefinition) (*Catalog, error) {
	if len(tasks) == 0 {
		return nil, errors.Wrap(ErrInvalidTable, errors.CodeValidation, "task catalog is empty")
	}
	byID := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if t.ID == "" {
			return nil, errors.Wrapf(ErrInvalidTable, errors.CodeValidation, "task at position %d has no id", i)
		}
		if _, dup := byID[t.ID]; dup {
			return nil, errors.Wrapf(ErrInvalidTable, errors.CodeValidation, "duplicate task id %q", t.ID)
		}
		if t.XPReward < 0 {
			return nil, errors.Wrapf(ErrInvalidTable, errors.CodeValidation, "task %q has negative reward %d", t.ID, t.XPReward)
		}
		byID[t.ID] = i
	}
	return &Catalog{tasks: slices.Clone(tasks), byID: byID}, nil
}

// Task looks up a task by id.
func (c *Catalog) Task(id string) (domain.TaskDefinition, error) {
	i, ok := c.byID[id]
	if !ok {
		return domain.TaskDefinition{}, errors.Wrapf(ErrUnknownTask, errors.CodeNotFound, "task %q not found", id)
	}
	return c.tasks[i], nil
}

// Tasks returns a copy of the catalog in definition order.
func (c *Catalog) Tasks() []domain.TaskDefinition {
	return slices.Clone(c.tasks)
}

// Categories groups tasks by category in first-seen order.
func (c *Catalog) Categories() []CategoryGroup {
	var groups []CategoryGroup
	index := make(map[string]int)
	for _, t := range c.tasks {
		i, ok := index[t.Category]
		if !ok {
			i = len(groups)
			index[t.Category] = i
			groups = append(groups, CategoryGroup{Category: t.Category})
		}
		groups[i].Tasks = append(groups[i].Tasks, t)
	}
	return groups
}

// TotalDailyXP is the XP available from completing every task once.
func (c *Catalog) TotalDailyXP() int64 {
	var total int64
	for _, t := range c.tasks {
		total += t.XPReward
	}
	return total
}

// CompletionResult is the outcome of completing a task.
// XPGranted is zero when the task was already completed today.
type CompletionResult struct {
	XPResult
	XPGranted int64
}

// CompleteTask marks taskID as done for the current day and grants its reward.
// Completing a task twice on the same day is a no-op. The caller is expected
// to have rolled p over to today first.
func (e *Engine) CompleteTask(p domain.UserProgress, taskID string) (CompletionResult, error) {
	task, err := e.catalog.Task(taskID)
	if err != nil {
		return CompletionResult{}, err
	}

	if p.HasCompleted(taskID) {
		lvl := e.levels.LevelForXP(p.TotalXP)
		return CompletionResult{
			XPResult: XPResult{Progress: p.Clone(), PreviousLevel: lvl, NewLevel: lvl},
		}, nil
	}

	res := e.ApplyXPDelta(p, task.XPReward)
	if res.Progress.CompletedToday == nil {
		res.Progress.CompletedToday = make(map[string]int64, 1)
	}
	res.Progress.CompletedToday[taskID] = task.XPReward
	res.Progress.TasksCompleted++

	return CompletionResult{XPResult: res, XPGranted: task.XPReward}, nil
}

// UncompleteTask reverses a completion made today, removing exactly the XP it granted.
// Un-completing a task that is not in today's set is a no-op.
// Undoing the last completion of the day also undoes that day's streak change.
func (e *Engine) UncompleteTask(p domain.UserProgress, taskID string) (XPResult, error) {
	if _, err := e.catalog.Task(taskID); err != nil {
		return XPResult{}, err
	}

	granted, ok := p.CompletedToday[taskID]
	if !ok {
		lvl := e.levels.LevelForXP(p.TotalXP)
		return XPResult{Progress: p.Clone(), PreviousLevel: lvl, NewLevel: lvl}, nil
	}

	res := e.ApplyXPDelta(p, -granted)
	delete(res.Progress.CompletedToday, taskID)
	if len(res.Progress.CompletedToday) == 0 {
		res.Progress.CompletedToday = nil
	}
	res.Progress.TasksCompleted = max(0, res.Progress.TasksCompleted-1)
	// A day with nothing completed does not count toward the streak.
	res.Progress = restoreStreak(res.Progress)
	return res, nil
}

// RolloverDay starts a new day: when today differs from the last active date
// the completed set is cleared. XP and level are untouched.
func (e *Engine) RolloverDay(p domain.UserProgress, today domain.Date) domain.UserProgress {
	out := p.Clone()
	if p.LastActiveDate == today {
		return out
	}
	out.CompletedToday = nil
	out.LastActiveDate = today
	return out
}
