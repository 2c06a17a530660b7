package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uncodesociety/signup-api/internal/catalog"
	"github.com/uncodesociety/signup-api/internal/models"
	"github.com/uncodesociety/signup-api/internal/registration"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
	"github.com/uncodesociety/signup-api/pkg/mailer"
)

type mailerMock struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *mailerMock) Name() string { return "mock" }

func (m *mailerMock) Send(ctx context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return m.err
}

type recorderMock struct {
	entries []models.NotificationLog
}

func (r *recorderMock) Record(ctx context.Context, entry models.NotificationLog) {
	r.entries = append(r.entries, entry)
}

type memoryCacheRepo struct {
	mu     sync.Mutex
	values map[string]interface{}
	err    error
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{values: map[string]interface{}{}}
}

func (r *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (r *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return r.err
}

func (r *memoryCacheRepo) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if _, ok := r.values[key]; ok {
		return false, nil
	}
	r.values[key] = value
	return true, nil
}

func (r *memoryCacheRepo) Delete(ctx context.Context, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, key := range keys {
		delete(r.values, key)
	}
	return r.err
}

func (r *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	return r.err
}

type titleLookupStub map[string]models.LessonTemplate

func (s titleLookupStub) FindByTitle(title string) (models.LessonTemplate, bool) {
	tpl, ok := s[title]
	return tpl, ok
}

func intPtr(v int) *int { return &v }

func validSubmission() registration.Submission {
	return registration.Submission{
		Details: registration.Details{
			FullName: "Sanne de Vries",
			Age:      intPtr(16),
			Email:    "sanne@example.com",
		},
		LessonTitle:    "Je Eerste Python Programma",
		LessonLanguage: "Python",
		LessonLevel:    "Beginner",
	}
}

func newRegistrationFixture(t *testing.T, dedupe bool) (*RegistrationService, *mailerMock, *recorderMock, *memoryCacheRepo, *MetricsService) {
	t.Helper()
	m := &mailerMock{}
	rec := &recorderMock{}
	repo := newMemoryCacheRepo()
	metrics := NewMetricsService()
	cache := NewCacheService(repo, metrics, time.Minute, nil, dedupe)
	svc := NewRegistrationService(m, cache, rec, nil, metrics, RegistrationConfig{
		From:          "Uncode Society <onboarding@resend.dev>",
		AdminAddress:  "info@uncodesociety.org",
		DedupeEnabled: dedupe,
		DedupeTTL:     time.Minute,
		DedupeSecret:  "test-secret",
	}, nil)
	return svc, m, rec, repo, metrics
}

func TestRegistrationServiceRegisterSendsAdminEmail(t *testing.T) {
	svc, m, rec, _, metrics := newRegistrationFixture(t, false)

	require.NoError(t, svc.Register(context.Background(), validSubmission()))

	require.Len(t, m.sent, 1)
	msg := m.sent[0]
	assert.Equal(t, []string{"info@uncodesociety.org"}, msg.To)
	assert.Equal(t, "sanne@example.com", msg.ReplyTo)
	assert.Equal(t, "Nieuwe Aanmelding: Sanne de Vries - Je Eerste Python Programma", msg.Subject)
	assert.Contains(t, msg.HTML, "16 jaar")
	assert.Contains(t, msg.Text, "Niveau: Beginner")

	require.Len(t, rec.entries, 1)
	entry := rec.entries[0]
	assert.Equal(t, models.DeliveryStatusSent, entry.Status)
	assert.Equal(t, "mock", entry.Provider)
	assert.NotNil(t, entry.SentAt)
	assert.Nil(t, entry.Error)

	assert.EqualValues(t, 1, metrics.Snapshot().RegistrationsAccepted)
}

func TestRegistrationServiceRegisterRejectsInvalidInput(t *testing.T) {
	svc, m, rec, _, metrics := newRegistrationFixture(t, false)

	req := validSubmission()
	req.Age = intPtr(12)
	req.Email = "not-an-email"
	req.LessonTitle = "  "

	err := svc.Register(context.Background(), req)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Equal(t, "You must be 14 or older to participate", appErr.Details[registration.FieldAge])
	assert.Equal(t, "Please enter a valid email address", appErr.Details[registration.FieldEmail])
	assert.Contains(t, appErr.Details, registration.FieldLessonTitle)

	assert.Empty(t, m.sent)
	assert.Empty(t, rec.entries)
	assert.EqualValues(t, 1, metrics.Snapshot().RegistrationsRejected)
}

func TestRegistrationServiceRegisterMissingAge(t *testing.T) {
	svc, m, _, _, _ := newRegistrationFixture(t, false)

	req := validSubmission()
	req.Age = nil

	err := svc.Register(context.Background(), req)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Age is required", appErr.Details[registration.FieldAge])
	assert.Empty(t, m.sent)
}

func TestRegistrationServiceRegisterMailFailure(t *testing.T) {
	svc, m, rec, repo, metrics := newRegistrationFixture(t, true)
	m.err = errors.New("resend: 422 validation_error: invalid from")

	err := svc.Register(context.Background(), validSubmission())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotificationFailed.Code, appErr.Code)
	assert.Equal(t, 500, appErr.Status)

	require.Len(t, rec.entries, 1)
	assert.Equal(t, models.DeliveryStatusFailed, rec.entries[0].Status)
	require.NotNil(t, rec.entries[0].Error)
	assert.Contains(t, *rec.entries[0].Error, "invalid from")
	assert.Nil(t, rec.entries[0].SentAt)

	// the claim is released so the registrant can retry
	assert.Empty(t, repo.values)
	assert.EqualValues(t, 1, metrics.Snapshot().RegistrationsFailed)

	m.err = nil
	require.NoError(t, svc.Register(context.Background(), validSubmission()))
	assert.Len(t, m.sent, 2)
}

func TestRegistrationServiceSuppressesDuplicates(t *testing.T) {
	svc, m, _, repo, metrics := newRegistrationFixture(t, true)

	require.NoError(t, svc.Register(context.Background(), validSubmission()))

	again := validSubmission()
	again.Email = "SANNE@Example.com"
	require.NoError(t, svc.Register(context.Background(), again))

	assert.Len(t, m.sent, 1)
	assert.EqualValues(t, 1, metrics.Snapshot().RegistrationsDuplicate)

	require.Len(t, repo.values, 1)
	for key := range repo.values {
		assert.True(t, strings.HasPrefix(key, dedupeKeyPrefix))
		assert.NotContains(t, key, "sanne")
	}

	other := validSubmission()
	other.LessonTitle = "Datastructuren in Python"
	require.NoError(t, svc.Register(context.Background(), other))
	assert.Len(t, m.sent, 2)
}

func TestRegistrationServiceDedupeFailsOpen(t *testing.T) {
	svc, m, _, repo, _ := newRegistrationFixture(t, true)
	repo.err = errors.New("redis: connection refused")

	require.NoError(t, svc.Register(context.Background(), validSubmission()))
	require.NoError(t, svc.Register(context.Background(), validSubmission()))
	assert.Len(t, m.sent, 2)
}

func TestRegistrationServiceFingerprintDependsOnSecret(t *testing.T) {
	svc, _, _, _, _ := newRegistrationFixture(t, true)
	n := models.RegistrationNotification{FullName: "Sanne", Email: "s@example.com", LessonTitle: "Les"}

	first, err := svc.fingerprint(n)
	require.NoError(t, err)

	svc.cfg.DedupeSecret = strings.Repeat("x", 100)
	second, err := svc.fingerprint(n)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Len(t, strings.TrimPrefix(first, dedupeKeyPrefix), 64)
}

func TestRegistrationServiceFillsLessonDetailsFromCatalog(t *testing.T) {
	m := &mailerMock{}
	lookup := titleLookupStub{}
	for _, tpl := range catalog.Templates() {
		lookup[tpl.Title] = tpl
	}
	svc := NewRegistrationService(m, nil, nil, lookup, nil, RegistrationConfig{
		From:         "Uncode Society <onboarding@resend.dev>",
		AdminAddress: "info@uncodesociety.org",
	}, nil)

	req := validSubmission()
	req.LessonTitle = "Java Applicatie Ontwikkeling"
	req.LessonLanguage = ""
	req.LessonLevel = ""

	require.NoError(t, svc.Register(context.Background(), req))
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].Text, "Taal: Java")
	assert.Contains(t, m.sent[0].Text, "Niveau: Intermediate")
}
