package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/progression"
	"github.com/levelupapp/levelup-server/internal/store"
	"github.com/levelupapp/levelup-server/internal/validation"
)

var testDay = domain.NewDate(2024, 3, 10)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "badger"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testEngine() *progression.Engine {
	return progression.NewEngine(progression.DefaultLevelTable(), progression.DefaultCatalog())
}

// settableClock is a Clock tests can move between days.
type settableClock struct {
	mu  sync.Mutex
	day domain.Date
}

func (c *settableClock) Today() domain.Date {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.day
}

func (c *settableClock) Set(d domain.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.day = d
}

type recordingNotifier struct {
	mu        sync.Mutex
	levelUps  []domain.LevelUpEvent
	completed []domain.TaskCompletedEvent
}

func (n *recordingNotifier) LevelUp(_ context.Context, e domain.LevelUpEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.levelUps = append(n.levelUps, e)
}

func (n *recordingNotifier) TaskCompleted(_ context.Context, e domain.TaskCompletedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.completed = append(n.completed, e)
}

// staleRepo fails the next failures saves with store.ErrStaleWrite.
type staleRepo struct {
	store.Repository
	mu       sync.Mutex
	failures int
	saves    int
}

func (r *staleRepo) SaveProgress(ctx context.Context, p *domain.UserProgress) error {
	r.mu.Lock()
	r.saves++
	fail := r.failures > 0
	if fail {
		r.failures--
	}
	r.mu.Unlock()

	if fail {
		return store.ErrStaleWrite
	}
	return r.Repository.SaveProgress(ctx, p)
}

type progressionFixture struct {
	svc      *ProgressionService
	repo     *staleRepo
	clock    *settableClock
	notifier *recordingNotifier
}

func setupProgression(t *testing.T) *progressionFixture {
	t.Helper()
	f := &progressionFixture{
		repo:     &staleRepo{Repository: setupTestStore(t)},
		clock:    &settableClock{day: testDay},
		notifier: &recordingNotifier{},
	}
	f.svc = NewProgressionService(f.repo, testEngine(), f.clock, f.notifier, 3, testLogger())
	return f
}

func setupProfiles(t *testing.T) (*ProfileService, store.Repository) {
	t.Helper()
	repo := setupTestStore(t)
	return NewProfileService(repo, validation.New(), testLogger()), repo
}
