package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/uncodesociety/signup-api/internal/models"
)

// NotificationLogRepository persists admin notification delivery outcomes.
type NotificationLogRepository struct {
	db *sqlx.DB
}

// NewNotificationLogRepository creates the repository.
func NewNotificationLogRepository(db *sqlx.DB) *NotificationLogRepository {
	return &NotificationLogRepository{db: db}
}

// Create inserts a delivery record.
func (r *NotificationLogRepository) Create(ctx context.Context, log *models.NotificationLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO notification_logs (id, lesson_title, lesson_language, lesson_level, status, provider, error, created_at, sent_at)
VALUES (:id, :lesson_title, :lesson_language, :lesson_level, :status, :provider, :error, :created_at, :sent_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create notification log: %w", err)
	}
	return nil
}

// List returns delivery records newest first together with the total count.
func (r *NotificationLogRepository) List(ctx context.Context, filter models.NotificationLogFilter) ([]models.NotificationLog, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, lesson_title, lesson_language, lesson_level, status, provider, error, created_at, sent_at FROM notification_logs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`, whereClause, size, offset)
	var logs []models.NotificationLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notification logs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM notification_logs WHERE %s", whereClause), args...); err != nil {
		return nil, 0, fmt.Errorf("count notification logs: %w", err)
	}
	return logs, total, nil
}

// DeleteBefore removes records created before cutoff and reports how many went.
func (r *NotificationLogRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notification_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune notification logs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune notification logs: %w", err)
	}
	return n, nil
}
