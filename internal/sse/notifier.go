package sse

import (
	"context"

	"github.com/levelupapp/levelup-server/internal/domain"
)

// Notifier publishes progression events to the user's SSE clients.
// It satisfies service.Notifier.
type Notifier struct {
	manager *Manager
}

// NewNotifier creates a Notifier backed by manager.
func NewNotifier(manager *Manager) *Notifier {
	return &Notifier{manager: manager}
}

// LevelUp queues a progress.level_up event.
func (n *Notifier) LevelUp(_ context.Context, e domain.LevelUpEvent) {
	n.manager.Emit(NewLevelUpEvent(e))
}

// TaskCompleted queues a progress.task_completed event.
func (n *Notifier) TaskCompleted(_ context.Context, e domain.TaskCompletedEvent) {
	n.manager.Emit(NewTaskCompletedEvent(e))
}
