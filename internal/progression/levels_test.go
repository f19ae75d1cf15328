package progression_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/errors"
	"github.com/levelupapp/levelup-server/internal/progression"
)

func TestDefaultLevelTable(t *testing.T) {
	table := progression.DefaultLevelTable()
	levels := table.Levels()

	require.Len(t, levels, 15)
	assert.Equal(t, "Novice", table.Min().Name)
	assert.Equal(t, "Omnipotent", table.Max().Name)
	assert.Equal(t, int64(14000), table.Max().XPThreshold)
	for i, l := range levels {
		assert.Equal(t, i+1, l.ID)
		assert.Equal(t, int64(i)*1000, l.XPThreshold)
	}
}

func TestLevelTable_LevelForXP(t *testing.T) {
	table := progression.DefaultLevelTable()

	tests := []struct {
		xp   int64
		want string
	}{
		{xp: 0, want: "Novice"},
		{xp: 999, want: "Novice"},
		{xp: 1000, want: "Apprentice"},
		{xp: 1500, want: "Apprentice"},
		{xp: 13999, want: "Transcendent"},
		{xp: 14000, want: "Omnipotent"},
		{xp: 1_000_000, want: "Omnipotent"},
		{xp: -5, want: "Novice"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, table.LevelForXP(tt.xp).Name, "xp=%d", tt.xp)
	}
}

func TestLevelTable_LevelForXPIsMonotonic(t *testing.T) {
	table := progression.DefaultLevelTable()

	prev := table.LevelForXP(0).ID
	for xp := int64(0); xp <= 16000; xp += 37 {
		id := table.LevelForXP(xp).ID
		assert.GreaterOrEqual(t, id, prev, "xp=%d", xp)
		prev = id
	}
}

func TestLevelTable_NextAndLookup(t *testing.T) {
	table := progression.DefaultLevelTable()

	assert.Equal(t, 2, table.Next(table.Min()).ID)
	assert.Equal(t, table.Max(), table.Next(table.Max()))

	l, err := table.Level(3)
	require.NoError(t, err)
	assert.Equal(t, "Warrior", l.Name)

	_, err = table.Level(16)
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.ErrorIs(t, err, progression.ErrUnknownLevel)
	assert.NotErrorIs(t, err, progression.ErrUnknownTask)
}

func TestNewLevelTable_Validation(t *testing.T) {
	tests := []struct {
		name   string
		levels []domain.LevelDefinition
	}{
		{name: "empty", levels: nil},
		{name: "ids not from one", levels: []domain.LevelDefinition{{ID: 2, Name: "a"}}},
		{name: "missing name", levels: []domain.LevelDefinition{{ID: 1}}},
		{name: "negative floor", levels: []domain.LevelDefinition{{ID: 1, Name: "a", XPThreshold: -1}}},
		{name: "thresholds not increasing", levels: []domain.LevelDefinition{
			{ID: 1, Name: "a", XPThreshold: 0},
			{ID: 2, Name: "b", XPThreshold: 0},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := progression.NewLevelTable(tt.levels)
			assert.ErrorIs(t, err, errors.ErrValidation)
			assert.ErrorIs(t, err, progression.ErrInvalidTable)
		})
	}
}

func TestNewLevelTable_CopiesInput(t *testing.T) {
	levels := []domain.LevelDefinition{{ID: 1, Name: "a"}, {ID: 2, Name: "b", XPThreshold: 10}}
	table, err := progression.NewLevelTable(levels)
	require.NoError(t, err)

	levels[1].Name = "changed"
	assert.Equal(t, "b", table.Max().Name)
}

func TestParseLevels(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table, err := progression.ParseLevels(strings.NewReader(`
levels:
  - {id: 1, name: Sprout, xp_threshold: 0}
  - {id: 2, name: Seedling, xp_threshold: 250}
`))
		require.NoError(t, err)
		assert.Equal(t, "Seedling", table.LevelForXP(300).Name)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := progression.ParseLevels(strings.NewReader(`
levels:
  - {id: 1, name: Sprout, threshold: 0}
`))
		assert.ErrorIs(t, err, progression.ErrInvalidTable)
	})

	t.Run("empty document", func(t *testing.T) {
		_, err := progression.ParseLevels(strings.NewReader(""))
		assert.ErrorIs(t, err, errors.ErrValidation)
		assert.ErrorIs(t, err, progression.ErrInvalidTable)
	})
}

func TestLoadLevels_EmptyPathUsesDefault(t *testing.T) {
	table, err := progression.LoadLevels("")
	require.NoError(t, err)
	assert.Len(t, table.Levels(), 15)

	_, err = progression.LoadLevels(t.TempDir() + "/missing.yaml")
	assert.Error(t, err)
}
