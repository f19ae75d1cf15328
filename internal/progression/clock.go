package progression

import (
	"time"

	"github.com/levelupapp/levelup-server/internal/domain"
)

// Clock supplies the current calendar day.
type Clock interface {
	Today() domain.Date
}

// SystemClock reads the wall clock in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Today returns the current day in the clock's location, or UTC when unset.
func (c SystemClock) Today() domain.Date {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return domain.DateOf(time.Now().In(loc))
}

// FixedClock always reports the same day.
type FixedClock domain.Date

// Today returns the fixed day.
func (c FixedClock) Today() domain.Date {
	return domain.Date(c)
}
