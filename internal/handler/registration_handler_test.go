package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncodesociety/signup-api/internal/registration"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
)

type registrationServiceMock struct {
	calls []registration.Submission
	err   error
}

func (m *registrationServiceMock) Register(ctx context.Context, req registration.Submission) error {
	m.calls = append(m.calls, req)
	return m.err
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestRegistrationHandlerRegister(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &registrationServiceMock{}
	handler := NewRegistrationHandler(mockSvc)

	payload := []byte(`{"fullName":"Sanne de Vries","age":16,"email":"sanne@example.com","lessonTitle":"Je Eerste Python Programma","lessonLanguage":"Python","lessonLevel":"Beginner"}`)
	c, w := newGinContext(http.MethodPost, "/api/v1/registrations", payload)

	handler.Register(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":{"success":true}}`, w.Body.String())
	require.Len(t, mockSvc.calls, 1)
	got := mockSvc.calls[0]
	assert.Equal(t, "Sanne de Vries", got.FullName)
	require.NotNil(t, got.Age)
	assert.Equal(t, 16, *got.Age)
	assert.Equal(t, "Beginner", got.LessonLevel)
}

func TestRegistrationHandlerRejectsMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &registrationServiceMock{}
	handler := NewRegistrationHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/api/v1/registrations", []byte(`{"age":"sixteen"`))
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mockSvc.calls)
}

func TestRegistrationHandlerValidationDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &registrationServiceMock{
		err: appErrors.WithDetails(appErrors.ErrValidation, map[string]string{"age": "You must be 14 or older to participate"}),
	}
	handler := NewRegistrationHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/api/v1/registrations", []byte(`{"fullName":"Tim","age":12,"email":"tim@example.com","lessonTitle":"Les"}`))
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeEnvelope(t, w)
	errBody, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", errBody["code"])
	details, ok := errBody["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "You must be 14 or older to participate", details["age"])
}

func TestRegistrationHandlerNotificationFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRegistrationHandler(&registrationServiceMock{err: appErrors.ErrNotificationFailed})

	c, w := newGinContext(http.MethodPost, "/api/v1/registrations", []byte(`{"fullName":"Tim","age":20,"email":"tim@example.com","lessonTitle":"Les"}`))
	handler.Register(c)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeEnvelope(t, w)
	assert.Nil(t, body["data"])
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
