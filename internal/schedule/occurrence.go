package schedule

import "time"

const daysPerWeek = 7

// NextOccurrence returns the first date on or after today of a class that
// repeats every seven days starting at base.
//
// The lattice is anchored on base alone; dayOfWeek is expected to equal
// base.Weekday() and is checked by the catalog when templates are loaded.
func NextOccurrence(base Date, dayOfWeek time.Weekday, today Date) Date {
	if !base.Before(today) {
		return base
	}

	weeksElapsed := today.DaysSince(base) / daysPerWeek
	candidate := base.AddDays(weeksElapsed * daysPerWeek)
	if candidate.Before(today) {
		candidate = candidate.AddDays(daysPerWeek)
	}
	return candidate
}
