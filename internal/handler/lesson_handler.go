package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/uncodesociety/signup-api/internal/dto"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
	"github.com/uncodesociety/signup-api/pkg/response"
)

type lessonService interface {
	List(ctx context.Context, locale string) (*dto.LessonCatalogResponse, error)
	Get(ctx context.Context, id int, locale string) (*dto.LessonResponse, error)
	Export(ctx context.Context, format, locale string) (*dto.ExportFile, error)
}

// LessonHandler exposes the lesson catalog.
type LessonHandler struct {
	service lessonService
}

// NewLessonHandler constructs the handler.
func NewLessonHandler(service lessonService) *LessonHandler {
	return &LessonHandler{service: service}
}

// List godoc
// @Summary List upcoming lessons
// @Tags Lessons
// @Produce json
// @Param locale query string false "Display locale (nl or en)"
// @Success 200 {object} response.Envelope
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	var query dto.LessonQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid locale"))
		return
	}
	catalog, err := h.service.List(c.Request.Context(), query.Locale)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, catalog.Lessons, nil, map[string]interface{}{
		"today":  catalog.Today,
		"locale": catalog.Locale,
	})
}

// Get godoc
// @Summary Get a lesson occurrence
// @Tags Lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Param locale query string false "Display locale (nl or en)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid lesson id"))
		return
	}
	var query dto.LessonQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid locale"))
		return
	}
	lesson, err := h.service.Get(c.Request.Context(), id, query.Locale)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, lesson)
}

// Export godoc
// @Summary Download the lesson schedule
// @Tags Lessons
// @Produce application/pdf
// @Produce text/csv
// @Param format query string false "pdf or csv"
// @Param locale query string false "Display locale (nl or en)"
// @Success 200 {file} file
// @Router /lessons/export [get]
func (h *LessonHandler) Export(c *gin.Context) {
	var query dto.LessonExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export parameters"))
		return
	}
	file, err := h.service.Export(c.Request.Context(), query.Format, query.Locale)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.ContentType, file.Filename, file.Data)
}
