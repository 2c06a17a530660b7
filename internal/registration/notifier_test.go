package registration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncodesociety/signup-api/internal/models"
)

var sampleNotification = models.RegistrationNotification{
	FullName:       "Ada Lovelace",
	Age:            16,
	Email:          "ada@example.nl",
	LessonTitle:    "Je Eerste Python Programma",
	LessonLanguage: "Python",
	LessonLevel:    "Beginner",
}

func TestHTTPNotifierSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var got map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Ada Lovelace", got["fullName"])
		assert.Equal(t, float64(16), got["age"])
		assert.Equal(t, "Python", got["lessonLanguage"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"success":true}}`))
	}))
	defer server.Close()

	err := NewHTTPNotifier(server.URL, 0, nil).Notify(context.Background(), sampleNotification)
	assert.NoError(t, err)
}

func TestHTTPNotifierAcceptsBareSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	assert.NoError(t, NewHTTPNotifier(server.URL, 0, nil).Notify(context.Background(), sampleNotification))
}

func TestHTTPNotifierServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"code":"NOTIFICATION_FAILED","message":"something went wrong, please try again","status":500}}`))
	}))
	defer server.Close()

	err := NewHTTPNotifier(server.URL, 0, nil).Notify(context.Background(), sampleNotification)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusInternalServerError, remote.Status)
	assert.Equal(t, "NOTIFICATION_FAILED", remote.Code)
}

func TestHTTPNotifierValidationRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"VALIDATION_ERROR","message":"validation failed","details":{"age":"Please enter a valid age"}}}`))
	}))
	defer server.Close()

	err := NewHTTPNotifier(server.URL, 0, nil).Notify(context.Background(), sampleNotification)

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, "Please enter a valid age", remote.Details["age"])
}

func TestHTTPNotifierMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>gateway</html>`))
	}))
	defer server.Close()

	err := NewHTTPNotifier(server.URL, 0, nil).Notify(context.Background(), sampleNotification)
	assert.ErrorContains(t, err, "decode notifier response")
}

func TestHTTPNotifierMissingAcknowledgement(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"success":false}}`))
	}))
	defer server.Close()

	err := NewHTTPNotifier(server.URL, 0, nil).Notify(context.Background(), sampleNotification)
	assert.Error(t, err)
}

func TestHTTPNotifierUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := NewHTTPNotifier(url, 0, nil).Notify(context.Background(), sampleNotification)
	assert.ErrorContains(t, err, "call notifier")
}
