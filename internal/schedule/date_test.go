package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTodayUsesLocation(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Amsterdam")
	require.NoError(t, err)

	now := time.Date(2026, time.February, 12, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, NewDate(2026, time.February, 12), Today(now, time.UTC))
	assert.Equal(t, NewDate(2026, time.February, 13), Today(now, loc))
	assert.Equal(t, NewDate(2026, time.February, 12), Today(now, nil))
}

func TestDateArithmetic(t *testing.T) {
	d := NewDate(2026, time.December, 30)

	assert.Equal(t, NewDate(2027, time.January, 6), d.AddDays(7))
	assert.Equal(t, 7, d.AddDays(7).DaysSince(d))
	assert.Equal(t, -3, d.AddDays(-3).DaysSince(d))
	assert.True(t, d.Before(d.AddDays(1)))
	assert.True(t, d.After(d.AddDays(-1)))
	assert.False(t, d.Before(d))
	assert.Equal(t, time.Wednesday, d.Weekday())
	assert.False(t, d.IsZero())
	assert.True(t, Date{}.IsZero())
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-13")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2026, time.February, 13), d)
	assert.Equal(t, time.Friday, d.Weekday())

	_, err = ParseDate("13-02-2026")
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseDate("not a date") })
}

func TestDateJSON(t *testing.T) {
	payload, err := json.Marshal(struct {
		Date Date `json:"date"`
	}{Date: NewDate(2026, time.February, 27)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-02-27"}`, string(payload))

	var decoded struct {
		Date Date `json:"date"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, NewDate(2026, time.February, 27), decoded.Date)

	assert.Error(t, json.Unmarshal([]byte(`{"date":"27/02/2026"}`), &decoded))
}
