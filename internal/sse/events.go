// Package sse streams progression events to connected clients as Server-Sent Events.
package sse

import (
	"time"

	"github.com/levelupapp/levelup-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventLevelUp is sent when a user reaches a higher level.
	EventLevelUp EventType = "progress.level_up"
	// EventTaskCompleted is sent when a user completes a daily task.
	EventTaskCompleted EventType = "progress.task_completed"
	// EventHeartbeat keeps idle connections open through proxies.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
	// UserID scopes delivery to one user's clients. Empty means everyone.
	UserID string `json:"-"`
}

// HeartbeatEventData is the payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewLevelUpEvent builds a user-scoped level-up event.
func NewLevelUpEvent(e domain.LevelUpEvent) Event {
	return Event{
		Type:      EventLevelUp,
		Data:      e,
		UserID:    e.UserID,
		Timestamp: time.Now(),
	}
}

// NewTaskCompletedEvent builds a user-scoped task completion event.
func NewTaskCompletedEvent(e domain.TaskCompletedEvent) Event {
	return Event{
		Type:      EventTaskCompleted,
		Data:      e,
		UserID:    e.UserID,
		Timestamp: time.Now(),
	}
}

// NewHeartbeatEvent creates a heartbeat event for every client.
func NewHeartbeatEvent() Event {
	now := time.Now()
	return Event{
		Type:      EventHeartbeat,
		Data:      HeartbeatEventData{ServerTime: now},
		Timestamp: now,
	}
}
