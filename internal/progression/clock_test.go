package progression_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/progression"
)

func TestFixedClock(t *testing.T) {
	var c progression.Clock = progression.FixedClock(day)
	assert.Equal(t, day, c.Today())
}

func TestSystemClock(t *testing.T) {
	loc := time.FixedZone("UTC+14", 14*60*60)
	c := progression.SystemClock{Location: loc}

	assert.Equal(t, domain.DateOf(time.Now().In(loc)), c.Today())
	assert.False(t, progression.SystemClock{}.Today().IsZero())
}
