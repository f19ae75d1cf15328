package progression

import "github.com/levelupapp/levelup-server/internal/domain"

// UpdateStreak records activity on today. It must run before RolloverDay,
// because it compares today with the previous active day.
//
// Activity on consecutive days extends the streak; any gap resets it to 1.
// Calling it again on the same day changes nothing.
func (e *Engine) UpdateStreak(p domain.UserProgress, today domain.Date) domain.UserProgress {
	out := p.Clone()
	if p.LastActiveDate == today {
		return out
	}
	out.StreakBefore = domain.StreakSnapshot{
		Day:            today,
		StreakDays:     p.StreakDays,
		LongestStreak:  p.LongestStreak,
		LastActiveDate: p.LastActiveDate,
	}
	switch p.LastActiveDate {
	case today.AddDays(-1):
		out.StreakDays = p.StreakDays + 1
	default:
		out.StreakDays = 1
	}
	out.LongestStreak = max(out.LongestStreak, out.StreakDays)
	return out
}

// restoreStreak undoes the streak change made on p's active day once that
// day has no completions left. Without a snapshot for the day it does nothing.
func restoreStreak(p domain.UserProgress) domain.UserProgress {
	before := p.StreakBefore
	if len(p.CompletedToday) > 0 || before.Day.IsZero() || before.Day != p.LastActiveDate {
		return p
	}
	p.StreakDays = before.StreakDays
	p.LongestStreak = before.LongestStreak
	p.LastActiveDate = before.LastActiveDate
	p.StreakBefore = domain.StreakSnapshot{}
	return p
}

// CurrentStreak is the streak to display on today. A streak whose last
// active day is older than yesterday has lapsed and reads as 0.
func (e *Engine) CurrentStreak(p domain.UserProgress, today domain.Date) int {
	if p.LastActiveDate == today || p.LastActiveDate == today.AddDays(-1) {
		return p.StreakDays
	}
	return 0
}
