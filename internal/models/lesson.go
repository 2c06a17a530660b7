package models

import "github.com/uncodesociety/signup-api/internal/schedule"

// Subject enumerates the languages taught.
type Subject string

const (
	SubjectHTMLCSS Subject = "HTML/CSS"
	SubjectPython  Subject = "Python"
	SubjectJava    Subject = "Java"
)

// Valid reports whether the subject belongs to the closed set.
func (s Subject) Valid() bool {
	switch s {
	case SubjectHTMLCSS, SubjectPython, SubjectJava:
		return true
	}
	return false
}

// Level enumerates lesson difficulty.
type Level string

const (
	LevelBeginner     Level = "Beginner"
	LevelIntermediate Level = "Intermediate"
)

// Valid reports whether the level belongs to the closed set.
func (l Level) Valid() bool {
	return l == LevelBeginner || l == LevelIntermediate
}

// Recurrence anchors a weekly repeating lesson.
type Recurrence struct {
	BaseDate  schedule.Date `json:"base_date"`
	DayOfWeek int           `json:"day_of_week"`
}

// LessonTemplate is the authored, immutable description of a recurring lesson.
type LessonTemplate struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Subject       Subject    `json:"subject"`
	Level         Level      `json:"level"`
	DurationLabel string     `json:"duration_label"`
	TimeLabel     string     `json:"time_label,omitempty"`
	Location      string     `json:"location,omitempty"`
	Capacity      int        `json:"capacity"`
	SpotsLeft     int        `json:"spots_left"`
	Recurrence    Recurrence `json:"recurrence"`
}

// LessonOccurrence is a template enriched with its next derived date.
type LessonOccurrence struct {
	LessonTemplate
	NextDate  schedule.Date `json:"next_date"`
	DateLabel string        `json:"date_label"`
}

// DisplayTime returns the time label or the locale fallback.
func (o LessonOccurrence) DisplayTime(locale schedule.Locale) string {
	if o.TimeLabel != "" {
		return o.TimeLabel
	}
	return Placeholder(locale, PlaceholderTime)
}

// DisplayLocation returns the venue or the locale fallback.
func (o LessonOccurrence) DisplayLocation(locale schedule.Locale) string {
	if o.Location != "" {
		return o.Location
	}
	return Placeholder(locale, PlaceholderLocation)
}

// DisplayDate returns the formatted date or the locale fallback.
func (o LessonOccurrence) DisplayDate(locale schedule.Locale) string {
	if o.DateLabel != "" {
		return o.DateLabel
	}
	return Placeholder(locale, PlaceholderDate)
}

// PlaceholderKind identifies which field is awaiting a value.
type PlaceholderKind int

const (
	PlaceholderDate PlaceholderKind = iota
	PlaceholderTime
	PlaceholderLocation
)

var placeholders = map[schedule.Locale][3]string{
	schedule.LocaleDutch:   {"Datum volgt", "Tijd volgt", "Locatie volgt"},
	schedule.LocaleEnglish: {"Date TBA", "Time TBA", "Location TBA"},
}

// Placeholder returns the "to be announced" text for a field in locale.
func Placeholder(locale schedule.Locale, kind PlaceholderKind) string {
	texts, ok := placeholders[locale]
	if !ok {
		texts = placeholders[schedule.LocaleDutch]
	}
	return texts[kind]
}
