package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/uncodesociety/signup-api/internal/dto"
	"github.com/uncodesociety/signup-api/internal/models"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
	"github.com/uncodesociety/signup-api/pkg/response"
)

type deliveryLogService interface {
	List(ctx context.Context, filter models.NotificationLogFilter) ([]models.NotificationLog, *models.Pagination, error)
}

// NotificationLogHandler lists admin notification delivery outcomes.
type NotificationLogHandler struct {
	service deliveryLogService
}

// NewNotificationLogHandler constructs the handler.
func NewNotificationLogHandler(service deliveryLogService) *NotificationLogHandler {
	return &NotificationLogHandler{service: service}
}

// List godoc
// @Summary List notification deliveries
// @Tags Registrations
// @Produce json
// @Param status query string false "sent or failed"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /notifications [get]
func (h *NotificationLogHandler) List(c *gin.Context) {
	var query dto.NotificationLogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), models.NotificationLogFilter{
		Status:   models.DeliveryStatus(query.Status),
		Page:     query.Page,
		PageSize: query.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}
