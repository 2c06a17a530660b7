package schedule

import (
	"fmt"
	"strings"
)

// Locale selects one of the fixed display tables.
type Locale string

const (
	LocaleDutch   Locale = "nl"
	LocaleEnglish Locale = "en"
)

// ParseLocale maps a user supplied tag onto a supported locale, defaulting to Dutch.
func ParseLocale(raw string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(raw))) {
	case LocaleEnglish:
		return LocaleEnglish
	default:
		return LocaleDutch
	}
}

type names struct {
	weekdays [7]string
	months   [12]string
}

var tables = map[Locale]names{
	LocaleDutch: {
		weekdays: [7]string{"Zondag", "Maandag", "Dinsdag", "Woensdag", "Donderdag", "Vrijdag", "Zaterdag"},
		months:   [12]string{"januari", "februari", "maart", "april", "mei", "juni", "juli", "augustus", "september", "oktober", "november", "december"},
	},
	LocaleEnglish: {
		weekdays: [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		months:   [12]string{"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
	},
}

// Format renders d as "<weekday> <day> <month>", e.g. "Vrijdag 13 februari".
func Format(d Date, locale Locale) string {
	table, ok := tables[locale]
	if !ok {
		table = tables[LocaleDutch]
	}
	return fmt.Sprintf("%s %d %s", table.weekdays[d.Weekday()], d.Day, table.months[d.Month-1])
}

// WeekdayName returns the display name of a weekday.
func WeekdayName(day int, locale Locale) string {
	table, ok := tables[locale]
	if !ok {
		table = tables[LocaleDutch]
	}
	if day < 0 || day >= len(table.weekdays) {
		return ""
	}
	return table.weekdays[day]
}
