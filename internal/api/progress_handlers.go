package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerProgressRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getProgress",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{userID}/progress",
		Summary:     "Get progress",
		Description: "Returns level, XP, streak and today's completions",
		Tags:        []string{"Progress"},
	}, s.handleGetProgress)

	huma.Register(s.api, huma.Operation{
		OperationID: "listTasks",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{userID}/tasks",
		Summary:     "List daily tasks",
		Description: "Returns the task catalog grouped by category with today's completion flags",
		Tags:        []string{"Progress"},
	}, s.handleListTasks)

	huma.Register(s.api, huma.Operation{
		OperationID: "completeTask",
		Method:      http.MethodPost,
		Path:        "/api/v1/profiles/{userID}/tasks/{taskID}/complete",
		Summary:     "Complete task",
		Description: "Marks a task done for today. Repeats on the same day grant nothing",
		Tags:        []string{"Progress"},
	}, s.handleCompleteTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "uncompleteTask",
		Method:      http.MethodDelete,
		Path:        "/api/v1/profiles/{userID}/tasks/{taskID}/complete",
		Summary:     "Undo task completion",
		Description: "Reverses today's completion and removes the XP it granted",
		Tags:        []string{"Progress"},
	}, s.handleUncompleteTask)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLevels",
		Method:      http.MethodGet,
		Path:        "/api/v1/levels",
		Summary:     "List levels",
		Description: "Returns the level roadmap in ascending order",
		Tags:        []string{"Progress"},
	}, s.handleListLevels)
}

// ProgressOutput wraps progress for Huma.
type ProgressOutput struct {
	Body ProgressResponse
}

// TaskResponse is a catalog task with today's state.
type TaskResponse struct {
	ID        string `json:"id" doc:"Task ID"`
	Name      string `json:"name" doc:"Task name"`
	Category  string `json:"category" doc:"Task category"`
	Icon      string `json:"icon,omitempty" doc:"Display icon"`
	XPReward  int64  `json:"xp_reward" doc:"XP granted on completion"`
	Completed bool   `json:"completed" doc:"Whether the task was completed today"`
}

// TaskGroupResponse is one category of tasks.
type TaskGroupResponse struct {
	Category string         `json:"category" doc:"Category name"`
	Tasks    []TaskResponse `json:"tasks" doc:"Tasks in catalog order"`
}

// TasksResponse is the grouped daily task list.
type TasksResponse struct {
	Categories []TaskGroupResponse `json:"categories" doc:"Categories in catalog order"`
}

// TasksOutput wraps the task list for Huma.
type TasksOutput struct {
	Body TasksResponse
}

// TaskInput identifies a user's task.
type TaskInput struct {
	UserPathInput
	TaskID string `path:"taskID" minLength:"1" doc:"Task ID"`
}

// LevelsResponse is the level roadmap.
type LevelsResponse struct {
	Levels []LevelResponse `json:"levels" doc:"Levels in ascending order"`
}

// LevelsOutput wraps the roadmap for Huma.
type LevelsOutput struct {
	Body LevelsResponse
}

func (s *Server) handleGetProgress(ctx context.Context, input *UserPathInput) (*ProgressOutput, error) {
	summary, err := s.services.Progression.GetProgress(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	return &ProgressOutput{Body: progressResponse(*summary)}, nil
}

func (s *Server) handleListTasks(ctx context.Context, input *UserPathInput) (*TasksOutput, error) {
	groups, err := s.services.Progression.GetTasks(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	resp := TasksResponse{Categories: make([]TaskGroupResponse, 0, len(groups))}
	for _, g := range groups {
		group := TaskGroupResponse{Category: g.Category, Tasks: make([]TaskResponse, 0, len(g.Tasks))}
		for _, t := range g.Tasks {
			group.Tasks = append(group.Tasks, TaskResponse{
				ID:        t.Task.ID,
				Name:      t.Task.Name,
				Category:  t.Task.Category,
				Icon:      t.Task.Icon,
				XPReward:  t.Task.XPReward,
				Completed: t.Completed,
			})
		}
		resp.Categories = append(resp.Categories, group)
	}
	return &TasksOutput{Body: resp}, nil
}

func (s *Server) handleCompleteTask(ctx context.Context, input *TaskInput) (*OutcomeOutput, error) {
	outcome, err := s.services.Progression.CompleteTask(ctx, input.UserID, input.TaskID)
	if err != nil {
		return nil, err
	}
	return &OutcomeOutput{Body: outcomeResponse(outcome)}, nil
}

func (s *Server) handleUncompleteTask(ctx context.Context, input *TaskInput) (*OutcomeOutput, error) {
	outcome, err := s.services.Progression.UncompleteTask(ctx, input.UserID, input.TaskID)
	if err != nil {
		return nil, err
	}
	return &OutcomeOutput{Body: outcomeResponse(outcome)}, nil
}

func (s *Server) handleListLevels(_ context.Context, _ *struct{}) (*LevelsOutput, error) {
	levels := s.services.Progression.Levels()
	resp := LevelsResponse{Levels: make([]LevelResponse, 0, len(levels))}
	for _, l := range levels {
		resp.Levels = append(resp.Levels, levelResponse(l))
	}
	return &LevelsOutput{Body: resp}, nil
}
