package sse

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelupapp/levelup-server/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func startManager(t *testing.T) *Manager {
	t.Helper()
	m := NewManager(testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go m.Start(ctx)
	t.Cleanup(cancel)
	return m
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case e := <-c.EventChan:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestManager_DeliversOnlyToTargetUser(t *testing.T) {
	m := startManager(t)

	alice, err := m.Connect("alice")
	require.NoError(t, err)
	bob, err := m.Connect("bob")
	require.NoError(t, err)
	assert.Equal(t, 2, m.ClientCount())

	m.EmitToUser("alice", Event{Type: EventTaskCompleted, Data: "for alice"})
	m.Emit(Event{Type: EventHeartbeat})

	first := receive(t, alice)
	assert.Equal(t, EventTaskCompleted, first.Type)
	assert.Equal(t, EventHeartbeat, receive(t, alice).Type)

	assert.Equal(t, EventHeartbeat, receive(t, bob).Type, "bob only sees the global event")
	select {
	case e := <-bob.EventChan:
		t.Fatalf("unexpected event for bob: %v", e.Type)
	default:
	}
}

func TestManager_Disconnect(t *testing.T) {
	m := startManager(t)

	c, err := m.Connect("alice")
	require.NoError(t, err)
	m.Disconnect(c.ID)
	m.Disconnect(c.ID)

	assert.Equal(t, 0, m.ClientCount())
	_, open := <-c.Done
	assert.False(t, open)
}

func TestManager_Clients(t *testing.T) {
	m := NewManager(testLogger())
	for _, u := range []string{"a", "b", "c"} {
		_, err := m.Connect(u)
		require.NoError(t, err)
	}

	users := map[string]bool{}
	for c := range m.Clients() {
		users[c.UserID] = true
	}
	assert.Len(t, users, 3)
}

func TestManager_Shutdown(t *testing.T) {
	m := startManager(t)

	c, err := m.Connect("alice")
	require.NoError(t, err)
	m.EmitToUser("alice", Event{Type: EventLevelUp})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, m.Shutdown(ctx))
	require.NoError(t, m.Shutdown(ctx), "second shutdown is a no-op")

	// The queued event was delivered before the client was closed.
	e, ok := <-c.EventChan
	require.True(t, ok)
	assert.Equal(t, EventLevelUp, e.Type)
	_, ok = <-c.EventChan
	assert.False(t, ok)

	// Emitting after shutdown must not panic.
	m.Emit(Event{Type: EventHeartbeat})
	assert.Equal(t, 0, m.ClientCount())
}

func TestNotifier(t *testing.T) {
	m := startManager(t)
	n := NewNotifier(m)

	c, err := m.Connect("u1")
	require.NoError(t, err)

	n.TaskCompleted(context.Background(), domain.TaskCompletedEvent{
		UserID:    "u1",
		Task:      domain.TaskDefinition{ID: "water", XPReward: 5},
		XPGranted: 5,
	})
	n.LevelUp(context.Background(), domain.LevelUpEvent{
		UserID:   "u1",
		NewLevel: domain.LevelDefinition{ID: 2, Name: "Apprentice"},
	})
	n.LevelUp(context.Background(), domain.LevelUpEvent{UserID: "u2"})

	first := receive(t, c)
	assert.Equal(t, EventTaskCompleted, first.Type)
	data, ok := first.Data.(domain.TaskCompletedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(5), data.XPGranted)

	second := receive(t, c)
	assert.Equal(t, EventLevelUp, second.Type)
	assert.Equal(t, "u1", second.UserID)
}
