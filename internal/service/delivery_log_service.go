package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/uncodesociety/signup-api/internal/models"
	appErrors "github.com/uncodesociety/signup-api/pkg/errors"
	"github.com/uncodesociety/signup-api/pkg/jobs"
)

const deliveryLogJobType = "notification_log"

type notificationLogStore interface {
	Create(ctx context.Context, log *models.NotificationLog) error
	List(ctx context.Context, filter models.NotificationLogFilter) ([]models.NotificationLog, int, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// DeliveryLogConfig governs retention of delivery records.
type DeliveryLogConfig struct {
	Retention       time.Duration
	CleanupInterval time.Duration
}

// DeliveryLogService persists notification outcomes off the request path.
type DeliveryLogService struct {
	repo    notificationLogStore
	queue   jobDispatcher
	metrics *MetricsService
	cfg     DeliveryLogConfig
	logger  *zap.Logger
}

// NewDeliveryLogService constructs the service. Call SetQueue before Record
// to write asynchronously; without a queue records are written inline.
func NewDeliveryLogService(repo notificationLogStore, metrics *MetricsService, cfg DeliveryLogConfig, logger *zap.Logger) *DeliveryLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 30 * 24 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	return &DeliveryLogService{repo: repo, metrics: metrics, cfg: cfg, logger: logger}
}

// SetQueue attaches the dispatcher used by Record.
func (s *DeliveryLogService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Enabled reports whether records are persisted.
func (s *DeliveryLogService) Enabled() bool {
	return s != nil && s.repo != nil
}

// Record schedules a delivery record for persistence. Failures are logged and
// never surface to the registrant.
func (s *DeliveryLogService) Record(ctx context.Context, entry models.NotificationLog) {
	if !s.Enabled() {
		return
	}
	if s.queue == nil {
		if err := s.write(ctx, entry); err != nil {
			s.logger.Warn("write delivery log", zap.Error(err))
		}
		return
	}
	if err := s.queue.Enqueue(jobs.Job{Type: deliveryLogJobType, Payload: entry}); err != nil {
		s.logger.Warn("enqueue delivery log", zap.String("status", string(entry.Status)), zap.Error(err))
	}
}

// Handle is the jobs.Handler that writes queued records.
func (s *DeliveryLogService) Handle(ctx context.Context, job jobs.Job) error {
	entry, ok := job.Payload.(models.NotificationLog)
	if !ok {
		// retrying cannot fix a malformed payload
		s.logger.Error("unexpected delivery log payload", zap.String("job_id", job.ID), zap.String("type", fmt.Sprintf("%T", job.Payload)))
		return nil
	}
	return s.write(ctx, entry)
}

func (s *DeliveryLogService) write(ctx context.Context, entry models.NotificationLog) error {
	start := time.Now()
	err := s.repo.Create(ctx, &entry)
	s.metrics.ObserveDBQuery("notification_logs.create", time.Since(start))
	return err
}

// List returns delivery records newest first.
func (s *DeliveryLogService) List(ctx context.Context, filter models.NotificationLogFilter) ([]models.NotificationLog, *models.Pagination, error) {
	if !s.Enabled() {
		return nil, nil, appErrors.Clone(appErrors.ErrServiceDisabled, "delivery log disabled")
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	start := time.Now()
	items, total, err := s.repo.List(ctx, filter)
	s.metrics.ObserveDBQuery("notification_logs.list", time.Since(start))
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list delivery logs")
	}
	if items == nil {
		items = []models.NotificationLog{}
	}
	return items, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Prune deletes records older than the retention window.
func (s *DeliveryLogService) Prune(ctx context.Context, now time.Time) (int64, error) {
	if !s.Enabled() {
		return 0, nil
	}
	return s.repo.DeleteBefore(ctx, now.Add(-s.cfg.Retention))
}

// StartCleanup boots a goroutine that prunes expired records periodically.
func (s *DeliveryLogService) StartCleanup(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				removed, err := s.Prune(ctx, now.UTC())
				if err != nil {
					s.logger.Sugar().Warnw("delivery log cleanup failed", "error", err)
					continue
				}
				if removed > 0 {
					s.logger.Sugar().Infow("delivery logs pruned", "removed", removed)
				}
			}
		}
	}()
}
