package sqlite

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/store"
	"github.com/levelupapp/levelup-server/internal/store/storetest"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	s, err := Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)

	for _, table := range []string{"profiles", "achievements", "progress"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestStore_Repository(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Repository {
		return newTestStore(t)
	})
}

func TestAchievementRowsUseUUIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := t.Context()

	_, err := s.db.ExecContext(ctx, `INSERT INTO profiles (user_id, created_at, updated_at) VALUES ('u1', ?, ?)`,
		formatTime(s.now()), formatTime(s.now()))
	require.NoError(t, err)
	require.NoError(t, insertAchievement(ctx, s.db, "u1", domainAchievement("ach-1")))

	var id string
	require.NoError(t, s.db.QueryRow(`SELECT id FROM achievements WHERE user_id = 'u1'`).Scan(&id))
	assert.Len(t, id, 36)
}

func domainAchievement(id string) domain.Achievement {
	return domain.Achievement{ID: id, Name: "First Steps", Icon: "👣"}
}
