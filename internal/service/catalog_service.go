package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/internal/catalog"
	"github.com/uncodesociety/signup-api/internal/dto"
	"github.com/uncodesociety/signup-api/internal/models"
	"github.com/uncodesociety/signup-api/internal/schedule"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
	"github.com/uncodesociety/signup-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}

// CatalogConfig tunes catalog derivation.
type CatalogConfig struct {
	Location *time.Location
	Locale   schedule.Locale
	CacheTTL time.Duration
	// Clock returns the current instant; defaults to time.Now.
	Clock func() time.Time
}

// CatalogService derives lesson occurrences for "today" in the configured timezone.
type CatalogService struct {
	templates []models.LessonTemplate
	cache     *CacheService
	metrics   *MetricsService
	renderers map[string]datasetRenderer
	cfg       CatalogConfig
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService. Templates are checked up front
// so a weekday that disagrees with its anchor date fails at startup.
func NewCatalogService(templates []models.LessonTemplate, cache *CacheService, metrics *MetricsService, cfg CatalogConfig, logger *zap.Logger) (*CatalogService, error) {
	if err := catalog.Validate(templates); err != nil {
		return nil, fmt.Errorf("lesson catalog: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Locale == "" {
		cfg.Locale = schedule.LocaleDutch
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	csv := export.NewCSVExporter()
	pdf := export.NewPDFExporter("Uncode Society - info@uncodesociety.org")
	return &CatalogService{
		templates: templates,
		cache:     cache,
		metrics:   metrics,
		renderers: map[string]datasetRenderer{ExportFormatCSV: csv, ExportFormatPDF: pdf},
		cfg:       cfg,
		logger:    logger,
	}, nil
}

// Today returns the current calendar date in the catalog timezone.
func (s *CatalogService) Today() schedule.Date {
	return schedule.Today(s.cfg.Clock(), s.cfg.Location)
}

// Occurrences returns the raw derived occurrences for today.
func (s *CatalogService) Occurrences(locale string) []models.LessonOccurrence {
	s.metrics.IncCatalogBuilds()
	return catalog.Build(s.templates, s.Today(), s.locale(locale))
}

// List returns the display-ready catalog, served from cache when enabled.
func (s *CatalogService) List(ctx context.Context, locale string) (*dto.LessonCatalogResponse, error) {
	loc := s.locale(locale)
	today := s.Today()
	key := fmt.Sprintf("catalog:%s:%s", loc, today)

	var cached dto.LessonCatalogResponse
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, nil
	}

	s.metrics.IncCatalogBuilds()
	occurrences := catalog.Build(s.templates, today, loc)
	resp := &dto.LessonCatalogResponse{
		Today:   today,
		Locale:  string(loc),
		Lessons: make([]dto.LessonResponse, 0, len(occurrences)),
	}
	for _, occ := range occurrences {
		resp.Lessons = append(resp.Lessons, toLessonResponse(occ, loc))
	}

	_ = s.cache.Set(ctx, key, resp, s.ttlUntilMidnight())
	return resp, nil
}

// Get returns a single lesson occurrence.
func (s *CatalogService) Get(ctx context.Context, id int, locale string) (*dto.LessonResponse, error) {
	list, err := s.List(ctx, locale)
	if err != nil {
		return nil, err
	}
	for i := range list.Lessons {
		if list.Lessons[i].ID == id {
			return &list.Lessons[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
}

// FindByTitle resolves a lesson by its exact title.
func (s *CatalogService) FindByTitle(title string) (models.LessonTemplate, bool) {
	for _, tpl := range s.templates {
		if tpl.Title == title {
			return tpl, true
		}
	}
	return models.LessonTemplate{}, false
}

// Export renders the schedule as CSV or PDF.
func (s *CatalogService) Export(ctx context.Context, format, locale string) (*dto.ExportFile, error) {
	if format == "" {
		format = ExportFormatPDF
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	list, err := s.List(ctx, locale)
	if err != nil {
		return nil, err
	}
	loc := schedule.Locale(list.Locale)

	data, err := renderer.Render(scheduleDataset(list, loc))
	if err != nil {
		s.logger.Error("render schedule export", zap.String("format", format), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &dto.ExportFile{
		Filename:    fmt.Sprintf("lesrooster-%s.%s", list.Today, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func (s *CatalogService) locale(raw string) schedule.Locale {
	if raw == "" {
		return s.cfg.Locale
	}
	return schedule.ParseLocale(raw)
}

// ttlUntilMidnight keeps cached entries from outliving the day they describe.
func (s *CatalogService) ttlUntilMidnight() time.Duration {
	now := s.cfg.Clock().In(s.cfg.Location)
	midnight := s.Today().AddDays(1).Time(s.cfg.Location)
	ttl := midnight.Sub(now)
	if s.cfg.CacheTTL > 0 && s.cfg.CacheTTL < ttl {
		ttl = s.cfg.CacheTTL
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return ttl
}

func toLessonResponse(occ models.LessonOccurrence, loc schedule.Locale) dto.LessonResponse {
	return dto.LessonResponse{
		ID:        occ.ID,
		Title:     occ.Title,
		Language:  string(occ.Subject),
		Level:     string(occ.Level),
		Duration:  occ.DurationLabel,
		Date:      occ.DisplayDate(loc),
		Time:      occ.DisplayTime(loc),
		Location:  occ.DisplayLocation(loc),
		Capacity:  occ.Capacity,
		SpotsLeft: occ.SpotsLeft,
		NextDate:  occ.NextDate,
		Weekday:   schedule.WeekdayName(int(occ.NextDate.Weekday()), loc),
	}
}

var exportLabels = map[schedule.Locale]struct {
	title, updated string
	columns        [8]string
}{
	schedule.LocaleDutch: {
		title:   "Lesrooster Uncode Society",
		updated: "Bijgewerkt op",
		columns: [8]string{"Les", "Taal", "Niveau", "Datum", "Tijd", "Duur", "Locatie", "Plaatsen"},
	},
	schedule.LocaleEnglish: {
		title:   "Uncode Society lesson schedule",
		updated: "Updated",
		columns: [8]string{"Lesson", "Language", "Level", "Date", "Time", "Duration", "Location", "Spots left"},
	},
}

func scheduleDataset(list *dto.LessonCatalogResponse, loc schedule.Locale) export.Dataset {
	labels, ok := exportLabels[loc]
	if !ok {
		labels = exportLabels[schedule.LocaleDutch]
	}
	keys := [8]string{"title", "language", "level", "date", "time", "duration", "location", "spots"}
	widths := [8]float64{3, 1.2, 1.2, 2, 1.5, 1, 2, 1}

	data := export.Dataset{
		Title:    labels.title,
		Subtitle: fmt.Sprintf("%s %s", labels.updated, schedule.Format(list.Today, loc)),
	}
	for i := range keys {
		data.Columns = append(data.Columns, export.Column{Key: keys[i], Title: labels.columns[i], Width: widths[i]})
	}
	for _, lesson := range list.Lessons {
		data.Rows = append(data.Rows, map[string]string{
			"title":    lesson.Title,
			"language": lesson.Language,
			"level":    lesson.Level,
			"date":     lesson.Date,
			"time":     lesson.Time,
			"duration": lesson.Duration,
			"location": lesson.Location,
			"spots":    fmt.Sprintf("%d/%d", lesson.SpotsLeft, lesson.Capacity),
		})
	}
	return data
}
