package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelupapp/levelup-server/internal/store"
)

type TestEntity struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestEntity_CreateAndGet(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:")
	ctx := context.Background()

	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Name: "John"}))

	got, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "John", got.Name)

	err = entity.Create(ctx, "1", &TestEntity{ID: "1", Name: "Again"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestEntity_Get_NotFound(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:")

	_, err := entity.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestEntity_Update(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:")
	ctx := context.Background()

	assert.ErrorIs(t, entity.Update(ctx, "1", &TestEntity{ID: "1"}), store.ErrNotFound)

	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Name: "John"}))
	require.NoError(t, entity.Update(ctx, "1", &TestEntity{ID: "1", Name: "Jane"}))

	got, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", got.Name)
}

func TestEntity_Modify(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:")
	ctx := context.Background()

	require.NoError(t, entity.Create(ctx, "1", &TestEntity{ID: "1", Score: 1}))

	got, err := entity.Modify(ctx, "1", func(e *TestEntity) error {
		e.Score += 10
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 11, got.Score)

	_, err = entity.Modify(ctx, "1", func(*TestEntity) error { return store.ErrInvalidInput })
	assert.ErrorIs(t, err, store.ErrInvalidInput)

	stored, err := entity.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 11, stored.Score, "failed modify must not write")
}

func TestEntity_ContextCancellation(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, entity.Create(ctx, "1", &TestEntity{}), context.Canceled)
	_, err := entity.Get(ctx, "1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEntity_List(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:")
	other := store.NewEntity[TestEntity](s, "other:")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, entity.Create(ctx, id, &TestEntity{ID: id}))
	}
	require.NoError(t, other.Create(ctx, "z", &TestEntity{ID: "z"}))

	var got []string
	for e, err := range entity.List(ctx) {
		require.NoError(t, err)
		got = append(got, e.ID)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestEntity_List_EarlyTermination(t *testing.T) {
	s := setupTestStore(t)
	entity := store.NewEntity[TestEntity](s, "test:")
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, entity.Create(ctx, id, &TestEntity{ID: id}))
	}

	count := 0
	for _, err := range entity.List(ctx) {
		require.NoError(t, err)
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}
