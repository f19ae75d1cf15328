package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_AddDaysCrossesMonthAndYear(t *testing.T) {
	d := NewDate(2024, time.December, 31)

	assert.Equal(t, NewDate(2025, time.January, 1), d.AddDays(1))
	assert.Equal(t, NewDate(2024, time.December, 30), d.AddDays(-1))
	assert.Equal(t, NewDate(2024, time.February, 29), NewDate(2024, time.March, 1).AddDays(-1))
}

func TestDate_Before(t *testing.T) {
	a := NewDate(2025, time.March, 9)
	b := NewDate(2025, time.March, 10)

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestDateOf_UsesLocationOfTime(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	// 20:00 UTC on the 1st is already the 2nd in Tokyo.
	instant := time.Date(2025, time.June, 1, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, NewDate(2025, time.June, 1), DateOf(instant))
	assert.Equal(t, NewDate(2025, time.June, 2), DateOf(instant.In(tokyo)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-01-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", d.String())

	zero, err := ParseDate("")
	require.NoError(t, err)
	assert.True(t, zero.IsZero())
	assert.Equal(t, "", zero.String())

	_, err = ParseDate("15/01/2025")
	assert.Error(t, err)
}

func TestDate_JSON(t *testing.T) {
	type wrapper struct {
		Day Date `json:"day"`
	}

	data, err := json.Marshal(wrapper{Day: NewDate(2025, time.July, 4)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2025-07-04"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"day":""}`), &w))
	assert.True(t, w.Day.IsZero())
}

var fixedNow = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
