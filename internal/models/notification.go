package models

import (
	"encoding/json"
	"time"
)

type NotificationType string

const (
	NotificationTypeWorkOrder NotificationType = "work_order"
	NotificationTypeSLA       NotificationType = "sla"
)

type NotificationAction string

const (
	NotificationActionSLAViolation NotificationAction = "sla_violation"
	NotificationActionAssigned     NotificationAction = "assigned"
)

// Notification is a persisted per-user notification row.
type Notification struct {
	ID        string             `json:"id" db:"id"`
	CompanyID string             `json:"company_id" db:"company_id"`
	UserID    string             `json:"user_id" db:"user_id"`
	Type      NotificationType   `json:"type" db:"type"`
	Action    NotificationAction `json:"action" db:"action"`
	Title     string             `json:"title" db:"title"`
	Message   string             `json:"message" db:"message"`
	Data      json.RawMessage    `json:"data,omitempty" db:"data"`
	CreatedAt time.Time          `json:"created_at" db:"created_at"`
	ReadAt    *time.Time         `json:"read_at,omitempty" db:"read_at"`
}
