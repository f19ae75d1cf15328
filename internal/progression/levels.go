// Package progression implements the XP, level, daily task and streak rules.
//
// Every function here is pure: it takes a domain.UserProgress by value and
// returns a new one. Nothing in this package performs I/O or holds mutable
// state, so callers are responsible for loading, saving and serializing
// concurrent updates to the same user.
package progression

import (
	"slices"
	"sort"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/errors"
)

// LevelTable is an immutable, validated level roadmap ordered by threshold.
type LevelTable struct {
	levels []domain.LevelDefinition
}

// NewLevelTable validates levels and builds a table.
// IDs must run 1..n and thresholds must be non-negative and strictly increasing.
func NewLevelTable(levels []domain.LevelDefinition) (*LevelTable, error) {
	if len(levels) == 0 {
		return nil, errors.Wrap(ErrInvalidTable, errors.CodeValidation, "level table is empty")
	}
	for i, l := range levels {
		if l.ID != i+1 {
			return nil, errors.Wrapf(ErrInvalidTable, errors.CodeValidation, "level at position %d has id %d, want %d", i, l.ID, i+1)
		}
		if l.Name == "" {
			return nil, errors.Wrapf(ErrInvalidTable, errors.CodeValidation, "level %d has no name", l.ID)
		}
		if i == 0 && l.XPThreshold < 0 {
			return nil, errors.Wrapf(ErrInvalidTable, errors.CodeValidation, "level %d has negative threshold %d", l.ID, l.XPThreshold)
		}
		if i > 0 && l.XPThreshold <= levels[i-1].XPThreshold {
			return nil, errors.Wrapf(ErrInvalidTable, errors.CodeValidation, "level %d threshold %d does not exceed level %d threshold %d",
				l.ID, l.XPThreshold, levels[i-1].ID, levels[i-1].XPThreshold)
		}
	}
	return &LevelTable{levels: slices.Clone(levels)}, nil
}

// LevelForXP returns the highest level whose threshold is <= xp.
// XP below every threshold (including negative XP, which callers must not pass) maps to the first level.
func (t *LevelTable) LevelForXP(xp int64) domain.LevelDefinition {
	i := sort.Search(len(t.levels), func(i int) bool {
		return t.levels[i].XPThreshold > xp
	})
	if i == 0 {
		return t.levels[0]
	}
	return t.levels[i-1]
}

// Next returns the level after l, or l itself at the top of the table.
func (t *LevelTable) Next(l domain.LevelDefinition) domain.LevelDefinition {
	if l.ID >= 1 && l.ID < len(t.levels) {
		return t.levels[l.ID]
	}
	return t.Max()
}

// Level looks up a level by id.
func (t *LevelTable) Level(id int) (domain.LevelDefinition, error) {
	if id < 1 || id > len(t.levels) {
		return domain.LevelDefinition{}, errors.Wrapf(ErrUnknownLevel, errors.CodeNotFound, "level %d not found", id)
	}
	return t.levels[id-1], nil
}

// Levels returns a copy of the table in ascending order.
func (t *LevelTable) Levels() []domain.LevelDefinition {
	return slices.Clone(t.levels)
}

// Min returns the first level.
func (t *LevelTable) Min() domain.LevelDefinition {
	return t.levels[0]
}

// Max returns the terminal level.
func (t *LevelTable) Max() domain.LevelDefinition {
	return t.levels[len(t.levels)-1]
}
