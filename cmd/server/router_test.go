package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/internal/dto"
	"github.com/uncodesociety/signup-api/internal/handler"
	"github.com/uncodesociety/signup-api/internal/models"
	"github.com/uncodesociety/signup-api/internal/registration"
	"github.com/uncodesociety/signup-api/internal/schedule"
	"github.com/uncodesociety/signup-api/internal/service"
	"github.com/uncodesociety/signup-api/pkg/config"
)

type stubLessons struct{}

func (stubLessons) List(ctx context.Context, locale string) (*dto.LessonCatalogResponse, error) {
	return &dto.LessonCatalogResponse{Today: schedule.MustParseDate("2026-02-10"), Locale: "nl", Lessons: []dto.LessonResponse{}}, nil
}

func (stubLessons) Get(ctx context.Context, id int, locale string) (*dto.LessonResponse, error) {
	return &dto.LessonResponse{ID: id}, nil
}

func (stubLessons) Export(ctx context.Context, format, locale string) (*dto.ExportFile, error) {
	return &dto.ExportFile{Filename: "lesrooster.csv", ContentType: "text/csv", Data: []byte("x")}, nil
}

type stubRegistrations struct {
	calls int
}

func (s *stubRegistrations) Register(ctx context.Context, req registration.Submission) error {
	s.calls++
	return nil
}

type stubDeliveryLog struct{}

func (stubDeliveryLog) List(ctx context.Context, filter models.NotificationLogFilter) ([]models.NotificationLog, *models.Pagination, error) {
	return []models.NotificationLog{}, &models.Pagination{Page: 1, PageSize: 20}, nil
}

func testRouter(t *testing.T, env string) (*gin.Engine, *stubRegistrations) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	regs := &stubRegistrations{}
	metrics := service.NewMetricsService()
	cfg := &config.Config{Env: env, APIPrefix: "/api/v1"}
	r := newRouter(cfg, zap.NewNop(), metrics, routeHandlers{
		lessons:       handler.NewLessonHandler(stubLessons{}),
		registrations: handler.NewRegistrationHandler(regs),
		notifications: handler.NewNotificationLogHandler(stubDeliveryLog{}),
		metrics:       handler.NewMetricsHandler(metrics, nil),
	})
	return r, regs
}

func TestRouterServesCatalogRoutes(t *testing.T) {
	r, _ := testRouter(t, config.EnvDevelopment)

	for _, path := range []string{"/health", "/ready", "/metrics", "/api/v1/lessons", "/api/v1/lessons/2", "/api/v1/lessons/export", "/api/v1/notifications", "/api/v1/metrics/summary"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouterRegistrationAlias(t *testing.T) {
	r, regs := testRouter(t, config.EnvDevelopment)
	body := `{"fullName":"Sanne","age":16,"email":"sanne@example.com","lessonTitle":"Les"}`

	for _, path := range []string{"/api/v1/registrations", registrationFunctionPath} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, `{"data":{"success":true}}`, w.Body.String())
	}
	assert.Equal(t, 2, regs.calls)
}

func TestRouterAnswersPreflight(t *testing.T) {
	r, regs := testRouter(t, config.EnvDevelopment)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, registrationFunctionPath, nil)
	req.Header.Set("Origin", "https://uncodesociety.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Apikey")
	assert.Zero(t, regs.calls)
}

func TestRouterHidesDocsInProduction(t *testing.T) {
	r, _ := testRouter(t, config.EnvProduction)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
