package dto

import "github.com/uncodesociety/signup-api/internal/schedule"

// LessonQuery captures query parameters for catalog reads.
type LessonQuery struct {
	Locale string `form:"locale" binding:"omitempty,oneof=nl en NL EN"`
}

// LessonExportQuery captures query parameters for schedule exports.
type LessonExportQuery struct {
	Format string `form:"format" binding:"omitempty,oneof=csv pdf"`
	Locale string `form:"locale" binding:"omitempty,oneof=nl en NL EN"`
}

// LessonResponse is a display-ready lesson occurrence.
type LessonResponse struct {
	ID        int           `json:"id"`
	Title     string        `json:"title"`
	Language  string        `json:"language"`
	Level     string        `json:"level"`
	Duration  string        `json:"duration"`
	Date      string        `json:"date"`
	Time      string        `json:"time"`
	Location  string        `json:"location"`
	Capacity  int           `json:"capacity"`
	SpotsLeft int           `json:"spotsLeft"`
	NextDate  schedule.Date `json:"nextDate"`
	Weekday   string        `json:"weekday"`
}

// LessonCatalogResponse wraps the derived catalog for one day and locale.
type LessonCatalogResponse struct {
	Today   schedule.Date    `json:"today"`
	Locale  string           `json:"locale"`
	Lessons []LessonResponse `json:"lessons"`
}

// ExportFile is a rendered schedule document.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
