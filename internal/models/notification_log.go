package models

import "time"

// DeliveryStatus tracks what happened to an admin notification.
type DeliveryStatus string

const (
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// NotificationLog records one delivery attempt. Registrant details are never stored.
type NotificationLog struct {
	ID             string         `db:"id" json:"id"`
	LessonTitle    string         `db:"lesson_title" json:"lesson_title"`
	LessonLanguage string         `db:"lesson_language" json:"lesson_language"`
	LessonLevel    string         `db:"lesson_level" json:"lesson_level"`
	Status         DeliveryStatus `db:"status" json:"status"`
	Provider       string         `db:"provider" json:"provider"`
	Error          *string        `db:"error" json:"error,omitempty"`
	CreatedAt      time.Time      `db:"created_at" json:"created_at"`
	SentAt         *time.Time     `db:"sent_at" json:"sent_at,omitempty"`
}

// NotificationLogFilter scopes delivery log listings.
type NotificationLogFilter struct {
	Status   DeliveryStatus
	Page     int
	PageSize int
}
