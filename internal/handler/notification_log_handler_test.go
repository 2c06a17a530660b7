package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncodesociety/signup-api/internal/models"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
)

type deliveryLogServiceMock struct {
	items  []models.NotificationLog
	err    error
	filter models.NotificationLogFilter
}

func (m *deliveryLogServiceMock) List(ctx context.Context, filter models.NotificationLogFilter) ([]models.NotificationLog, *models.Pagination, error) {
	m.filter = filter
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.items, &models.Pagination{Page: 2, PageSize: 10, TotalCount: 11}, nil
}

func TestNotificationLogHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &deliveryLogServiceMock{items: []models.NotificationLog{{ID: "log-1", Status: models.DeliveryStatusFailed}}}
	handler := NewNotificationLogHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/api/v1/notifications?status=failed&page=2&pageSize=10", nil)
	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.DeliveryStatusFailed, mockSvc.filter.Status)
	assert.Equal(t, 2, mockSvc.filter.Page)
	assert.Equal(t, 10, mockSvc.filter.PageSize)

	body := decodeEnvelope(t, w)
	pagination := body["pagination"].(map[string]interface{})
	assert.EqualValues(t, 11, pagination["total_count"])
}

func TestNotificationLogHandlerRejectsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewNotificationLogHandler(&deliveryLogServiceMock{})

	c, w := newGinContext(http.MethodGet, "/api/v1/notifications?status=bounced", nil)
	handler.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationLogHandlerDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewNotificationLogHandler(&deliveryLogServiceMock{err: appErrors.Clone(appErrors.ErrServiceDisabled, "delivery log disabled")})

	c, w := newGinContext(http.MethodGet, "/api/v1/notifications", nil)
	handler.List(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
