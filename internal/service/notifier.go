package service

import (
	"context"

	"github.com/levelupapp/levelup-server/internal/domain"
)

// Notifier receives progression events after they have been saved.
// Calls are synchronous, so implementations must not block.
type Notifier interface {
	LevelUp(ctx context.Context, event domain.LevelUpEvent)
	TaskCompleted(ctx context.Context, event domain.TaskCompletedEvent)
}

// NoopNotifier discards every event.
type NoopNotifier struct{}

// LevelUp is a no-op.
func (NoopNotifier) LevelUp(context.Context, domain.LevelUpEvent) {}

// TaskCompleted is a no-op.
func (NoopNotifier) TaskCompleted(context.Context, domain.TaskCompletedEvent) {}
