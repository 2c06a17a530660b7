package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	d := NewDate(2026, time.February, 13)

	assert.Equal(t, "Vrijdag 13 februari", Format(d, LocaleDutch))
	assert.Equal(t, "Friday 13 February", Format(d, LocaleEnglish))
	assert.Equal(t, "Vrijdag 13 februari", Format(d, Locale("de")))
	assert.Equal(t, "Zondag 1 maart", Format(NewDate(2026, time.March, 1), LocaleDutch))
	assert.Equal(t, "Thursday 31 December", Format(NewDate(2026, time.December, 31), LocaleEnglish))
}

func TestParseLocale(t *testing.T) {
	assert.Equal(t, LocaleEnglish, ParseLocale(" EN "))
	assert.Equal(t, LocaleDutch, ParseLocale("nl"))
	assert.Equal(t, LocaleDutch, ParseLocale(""))
	assert.Equal(t, LocaleDutch, ParseLocale("fr"))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Zaterdag", WeekdayName(6, LocaleDutch))
	assert.Equal(t, "Sunday", WeekdayName(0, LocaleEnglish))
	assert.Empty(t, WeekdayName(7, LocaleEnglish))
	assert.Empty(t, WeekdayName(-1, LocaleDutch))
}
