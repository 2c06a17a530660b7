// Package catalog holds the authored lesson templates and materialises them
// into dated occurrences.
package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/uncodesociety/signup-api/internal/models"
	"github.com/uncodesociety/signup-api/internal/schedule"
)

var templates = []models.LessonTemplate{
	{
		ID:            1,
		Title:         "Introductie Webontwikkeling",
		Subject:       models.SubjectHTMLCSS,
		Level:         models.LevelBeginner,
		DurationLabel: "1,5 uur",
		TimeLabel:     "15:00 - 16:30",
		Capacity:      16,
		SpotsLeft:     15,
		Recurrence:    models.Recurrence{BaseDate: schedule.MustParseDate("2026-02-13"), DayOfWeek: 5},
	},
	{
		ID:            2,
		Title:         "Je Eerste Python Programma",
		Subject:       models.SubjectPython,
		Level:         models.LevelBeginner,
		DurationLabel: "2 uur",
		TimeLabel:     "10:00 - 12:00",
		Capacity:      16,
		SpotsLeft:     12,
		Recurrence:    models.Recurrence{BaseDate: schedule.MustParseDate("2026-02-14"), DayOfWeek: 6},
	},
	{
		ID:            3,
		Title:         "Interactieve Websites Bouwen",
		Subject:       models.SubjectHTMLCSS,
		Level:         models.LevelIntermediate,
		DurationLabel: "1,5 uur",
		TimeLabel:     "16:00 - 17:30",
		Capacity:      12,
		SpotsLeft:     10,
		Recurrence:    models.Recurrence{BaseDate: schedule.MustParseDate("2026-02-18"), DayOfWeek: 3},
	},
	{
		ID:            4,
		Title:         "Object-Georiënteerd Programmeren",
		Subject:       models.SubjectJava,
		Level:         models.LevelBeginner,
		DurationLabel: "2 uur",
		TimeLabel:     "13:00 - 15:00",
		Capacity:      16,
		SpotsLeft:     14,
		Recurrence:    models.Recurrence{BaseDate: schedule.MustParseDate("2026-02-21"), DayOfWeek: 6},
	},
	{
		ID:            5,
		Title:         "Datastructuren in Python",
		Subject:       models.SubjectPython,
		Level:         models.LevelIntermediate,
		DurationLabel: "1,5 uur",
		TimeLabel:     "16:00 - 17:30",
		Capacity:      12,
		SpotsLeft:     8,
		Recurrence:    models.Recurrence{BaseDate: schedule.MustParseDate("2026-02-19"), DayOfWeek: 4},
	},
	{
		ID:            6,
		Title:         "Java Applicatie Ontwikkeling",
		Subject:       models.SubjectJava,
		Level:         models.LevelIntermediate,
		DurationLabel: "2 uur",
		TimeLabel:     "16:00 - 18:00",
		Capacity:      12,
		SpotsLeft:     11,
		Recurrence:    models.Recurrence{BaseDate: schedule.MustParseDate("2026-02-17"), DayOfWeek: 2},
	},
}

// Templates returns a copy of the authored lesson templates.
func Templates() []models.LessonTemplate {
	out := make([]models.LessonTemplate, len(templates))
	copy(out, templates)
	return out
}

// Build maps every template to its next occurrence on or after today,
// preserving input order.
func Build(items []models.LessonTemplate, today schedule.Date, locale schedule.Locale) []models.LessonOccurrence {
	occurrences := make([]models.LessonOccurrence, 0, len(items))
	for _, tpl := range items {
		next := schedule.NextOccurrence(tpl.Recurrence.BaseDate, weekday(tpl.Recurrence.DayOfWeek), today)
		occurrences = append(occurrences, models.LessonOccurrence{
			LessonTemplate: tpl,
			NextDate:       next,
			DateLabel:      schedule.Format(next, locale),
		})
	}
	return occurrences
}

// Find returns the occurrence with the given id.
func Find(occurrences []models.LessonOccurrence, id int) (models.LessonOccurrence, bool) {
	for _, occ := range occurrences {
		if occ.ID == id {
			return occ, true
		}
	}
	return models.LessonOccurrence{}, false
}

// Validate checks the authoring invariants of a template set and reports
// every violation found.
func Validate(items []models.LessonTemplate) error {
	var errs []error
	seen := make(map[int]struct{}, len(items))

	for _, tpl := range items {
		if _, dup := seen[tpl.ID]; dup {
			errs = append(errs, fmt.Errorf("lesson %d: duplicate id", tpl.ID))
		}
		seen[tpl.ID] = struct{}{}

		if tpl.Title == "" {
			errs = append(errs, fmt.Errorf("lesson %d: title is empty", tpl.ID))
		}
		if !tpl.Subject.Valid() {
			errs = append(errs, fmt.Errorf("lesson %d: unknown subject %q", tpl.ID, tpl.Subject))
		}
		if !tpl.Level.Valid() {
			errs = append(errs, fmt.Errorf("lesson %d: unknown level %q", tpl.ID, tpl.Level))
		}
		if tpl.Capacity <= 0 {
			errs = append(errs, fmt.Errorf("lesson %d: capacity must be positive", tpl.ID))
		}
		if tpl.SpotsLeft < 0 || tpl.SpotsLeft > tpl.Capacity {
			errs = append(errs, fmt.Errorf("lesson %d: spots left %d outside [0,%d]", tpl.ID, tpl.SpotsLeft, tpl.Capacity))
		}

		rec := tpl.Recurrence
		if rec.BaseDate.IsZero() {
			errs = append(errs, fmt.Errorf("lesson %d: base date is missing", tpl.ID))
			continue
		}
		if rec.DayOfWeek < 0 || rec.DayOfWeek > 6 {
			errs = append(errs, fmt.Errorf("lesson %d: day of week %d outside [0,6]", tpl.ID, rec.DayOfWeek))
			continue
		}
		if got := rec.BaseDate.Weekday(); got != weekday(rec.DayOfWeek) {
			errs = append(errs, fmt.Errorf("lesson %d: base date %s falls on %s, expected %s",
				tpl.ID, rec.BaseDate, got, weekday(rec.DayOfWeek)))
		}
	}

	return errors.Join(errs...)
}

func weekday(day int) time.Weekday {
	return time.Weekday(day)
}
