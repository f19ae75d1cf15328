package progression

import "github.com/levelupapp/levelup-server/internal/domain"

// XPResult is the outcome of an XP change.
type XPResult struct {
	Progress      domain.UserProgress
	LeveledUp     bool
	PreviousLevel domain.LevelDefinition
	NewLevel      domain.LevelDefinition
}

// Engine applies the progression rules against a level table and task catalog.
type Engine struct {
	levels  *LevelTable
	catalog *Catalog
}

// NewEngine creates an engine. Both tables must already be validated.
func NewEngine(levels *LevelTable, catalog *Catalog) *Engine {
	return &Engine{levels: levels, catalog: catalog}
}

// Levels returns the level table.
func (e *Engine) Levels() *LevelTable { return e.levels }

// Catalog returns the task catalog.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// ApplyXPDelta adds delta to p's XP, clamping at zero, and recomputes the level.
// LeveledUp is set only when the level id increases, so losing XP never reports a level-up.
func (e *Engine) ApplyXPDelta(p domain.UserProgress, delta int64) XPResult {
	out := p.Clone()
	prev := e.levels.LevelForXP(p.TotalXP)

	out.TotalXP = max(0, p.TotalXP+delta)
	next := e.levels.LevelForXP(out.TotalXP)
	out.Level = next.ID

	return XPResult{
		Progress:      out,
		LeveledUp:     next.ID > prev.ID,
		PreviousLevel: prev,
		NewLevel:      next,
	}
}

// ProgressToNextLevel returns the percentage in [0, 100] of the way from the
// current level's threshold to the next one. The terminal level reports 100.
func (e *Engine) ProgressToNextLevel(p domain.UserProgress) float64 {
	cur := e.levels.LevelForXP(p.TotalXP)
	next := e.levels.Next(cur)
	if next.ID == cur.ID {
		return 100
	}
	span := float64(next.XPThreshold - cur.XPThreshold)
	pct := float64(p.TotalXP-cur.XPThreshold) / span * 100
	return min(100, max(0, pct))
}

// Normalize recomputes the derived level of p from its XP.
func (e *Engine) Normalize(p domain.UserProgress) domain.UserProgress {
	out := p.Clone()
	out.TotalXP = max(0, out.TotalXP)
	out.Level = e.levels.LevelForXP(out.TotalXP).ID
	return out
}
