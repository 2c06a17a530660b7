package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/uncodesociety/signup-api/internal/models"
	"github.com/uncodesociety/signup-api/internal/registration"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
	"github.com/uncodesociety/signup-api/pkg/mailer"
)

const dedupeKeyPrefix = "registration:dedupe:"

type deliveryRecorder interface {
	Record(ctx context.Context, log models.NotificationLog)
}

type lessonLookup interface {
	FindByTitle(title string) (models.LessonTemplate, bool)
}

// RegistrationConfig configures the notifier endpoint.
type RegistrationConfig struct {
	From          string
	AdminAddress  string
	DedupeEnabled bool
	DedupeTTL     time.Duration
	DedupeSecret  string
}

// RegistrationService validates sign-ups and forwards them to the administrator.
type RegistrationService struct {
	validator *registration.Validator
	mailer    mailer.Mailer
	cache     *CacheService
	recorder  deliveryRecorder
	lessons   lessonLookup
	metrics   *MetricsService
	cfg       RegistrationConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs the service. recorder, lessons and cache may be nil.
func NewRegistrationService(m mailer.Mailer, cache *CacheService, recorder deliveryRecorder, lessons lessonLookup, metrics *MetricsService, cfg RegistrationConfig, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DedupeTTL <= 0 {
		cfg.DedupeTTL = 10 * time.Minute
	}
	return &RegistrationService{
		validator: registration.DefaultValidator(),
		mailer:    m,
		cache:     cache,
		recorder:  recorder,
		lessons:   lessons,
		metrics:   metrics,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Register validates the submission and e-mails the administrator once.
// A repeat of an identical submission inside the guard window is acknowledged
// without sending a second message.
func (s *RegistrationService) Register(ctx context.Context, req registration.Submission) error {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordRegistration(models.OutcomeRejected)
		if ve, ok := registration.AsValidationError(err); ok {
			return appErrors.WithDetails(appErrors.ErrValidation, ve.Messages())
		}
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
	}

	notification := models.RegistrationNotification{
		FullName:       req.FullName,
		Age:            *req.Age,
		Email:          req.Email,
		LessonTitle:    req.LessonTitle,
		LessonLanguage: req.LessonLanguage,
		LessonLevel:    req.LessonLevel,
	}
	s.enrichLesson(&notification)

	claimKey := ""
	if s.cfg.DedupeEnabled {
		key, err := s.fingerprint(notification)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, appErrors.ErrInternal.Message)
		}
		claimed, err := s.cache.Claim(ctx, key, s.cfg.DedupeTTL)
		switch {
		case err != nil:
			// Redis trouble must not block sign-ups; send without the guard.
			s.logger.Warn("duplicate guard unavailable", zap.Error(err))
		case !claimed:
			s.metrics.RecordRegistration(models.OutcomeDuplicate)
			s.logger.Info("duplicate registration suppressed", zap.String("lesson", notification.LessonTitle))
			return nil
		default:
			claimKey = key
		}
	}

	email, err := composeRegistrationEmail(notification)
	if err != nil {
		s.release(ctx, claimKey)
		s.metrics.RecordRegistration(models.OutcomeFailed)
		return appErrors.Wrap(err, appErrors.ErrNotificationFailed.Code, appErrors.ErrNotificationFailed.Status, appErrors.ErrNotificationFailed.Message)
	}

	msg := mailer.Message{
		From:    s.cfg.From,
		To:      []string{s.cfg.AdminAddress},
		ReplyTo: notification.Email,
		Subject: email.Subject,
		HTML:    email.HTML,
		Text:    email.Text,
	}

	start := s.now()
	sendErr := s.mailer.Send(ctx, msg)
	s.metrics.ObserveMailSend(s.mailer.Name(), sendErr, s.now().Sub(start))

	entry := models.NotificationLog{
		LessonTitle:    notification.LessonTitle,
		LessonLanguage: notification.LessonLanguage,
		LessonLevel:    notification.LessonLevel,
		Provider:       s.mailer.Name(),
		CreatedAt:      start.UTC(),
	}

	if sendErr != nil {
		s.release(ctx, claimKey)
		s.metrics.RecordRegistration(models.OutcomeFailed)
		s.logger.Error("registration e-mail failed", zap.String("provider", s.mailer.Name()), zap.String("lesson", notification.LessonTitle), zap.Error(sendErr))

		errText := sendErr.Error()
		entry.Status = models.DeliveryStatusFailed
		entry.Error = &errText
		s.record(ctx, entry)
		return appErrors.Wrap(sendErr, appErrors.ErrNotificationFailed.Code, appErrors.ErrNotificationFailed.Status, appErrors.ErrNotificationFailed.Message)
	}

	sentAt := s.now().UTC()
	entry.Status = models.DeliveryStatusSent
	entry.SentAt = &sentAt
	s.record(ctx, entry)

	s.metrics.RecordRegistration(models.OutcomeAccepted)
	s.logger.Info("registration forwarded", zap.String("lesson", notification.LessonTitle), zap.String("provider", s.mailer.Name()))
	s.logger.Debug("registration participant", zap.String("full_name", notification.FullName), zap.Int("age", notification.Age))
	return nil
}

// enrichLesson fills language and level from the catalog when the caller omitted them.
func (s *RegistrationService) enrichLesson(n *models.RegistrationNotification) {
	if s.lessons == nil {
		return
	}
	tpl, ok := s.lessons.FindByTitle(n.LessonTitle)
	if !ok {
		s.logger.Warn("registration for unknown lesson title", zap.String("lesson", n.LessonTitle))
		return
	}
	if n.LessonLanguage == "" {
		n.LessonLanguage = string(tpl.Subject)
	}
	if n.LessonLevel == "" {
		n.LessonLevel = string(tpl.Level)
	}
}

func (s *RegistrationService) fingerprint(n models.RegistrationNotification) (string, error) {
	var key []byte
	if s.cfg.DedupeSecret != "" {
		key = []byte(s.cfg.DedupeSecret)
		if len(key) > blake2b.Size {
			sum := blake2b.Sum256(key)
			key = sum[:]
		}
	}
	h, err := blake2b.New256(key)
	if err != nil {
		return "", fmt.Errorf("init fingerprint: %w", err)
	}
	for _, part := range []string{
		strings.ToLower(strings.TrimSpace(n.Email)),
		strings.ToLower(strings.TrimSpace(n.FullName)),
		n.LessonTitle,
	} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return dedupeKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (s *RegistrationService) release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	_ = s.cache.Release(ctx, key)
}

func (s *RegistrationService) record(ctx context.Context, entry models.NotificationLog) {
	if s.recorder == nil {
		return
	}
	s.recorder.Record(ctx, entry)
}
