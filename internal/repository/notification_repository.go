package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/maintworks/facility-api/internal/models"
)

type NotificationRepository interface {
	// CreateForUsers persists one notification row per recipient in a single
	// transaction: either every recipient gets the row or none does.
	CreateForUsers(ctx context.Context, userIDs []string, params CreateNotificationParams) ([]models.Notification, error)
	ListRecent(ctx context.Context, companyID, userID string, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, companyID, notificationID string) (models.Notification, error)
}

type notificationRepository struct {
	db *sql.DB
}

type CreateNotificationParams struct {
	CompanyID string
	Type      models.NotificationType
	Action    models.NotificationAction
	Title     string
	Message   string
	Data      map[string]interface{}
}

func NewNotificationRepository(db *sql.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

const notificationColumns = `id, company_id, user_id, type, action, title, message, data, created_at, read_at`

func (r *notificationRepository) CreateForUsers(ctx context.Context, userIDs []string, params CreateNotificationParams) ([]models.Notification, error) {
	if len(userIDs) == 0 {
		return nil, fmt.Errorf("at least one recipient is required")
	}

	var data interface{}
	if len(params.Data) > 0 {
		bytes, err := json.Marshal(params.Data)
		if err != nil {
			return nil, fmt.Errorf("marshal notification data: %w", err)
		}
		data = bytes
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin notification transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO facility.notifications (company_id, user_id, type, action, title, message, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + notificationColumns + `;
	`

	notifications := make([]models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		row := tx.QueryRowContext(ctx, query, params.CompanyID, userID, params.Type, params.Action, params.Title, params.Message, data)
		notif, err := scanNotification(row)
		if err != nil {
			return nil, fmt.Errorf("insert notification for user %s: %w", userID, err)
		}
		notifications = append(notifications, notif)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit notification transaction: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) ListRecent(ctx context.Context, companyID, userID string, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	query := `
		SELECT ` + notificationColumns + `
		FROM facility.notifications
		WHERE company_id = $1 AND user_id = $2
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.db.QueryContext(ctx, query, strings.TrimSpace(companyID), strings.TrimSpace(userID), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		notif, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notif)
	}
	return notifications, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, companyID, notificationID string) (models.Notification, error) {
	query := `
		UPDATE facility.notifications
		SET read_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING ` + notificationColumns + `;
	`
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(notificationID), strings.TrimSpace(companyID))
	return scanNotification(row)
}

func scanNotification(scanner interface {
	Scan(dest ...interface{}) error
}) (models.Notification, error) {
	var (
		notif   models.Notification
		dataRaw []byte
		readAt  sql.NullTime
	)

	if err := scanner.Scan(
		&notif.ID,
		&notif.CompanyID,
		&notif.UserID,
		&notif.Type,
		&notif.Action,
		&notif.Title,
		&notif.Message,
		&dataRaw,
		&notif.CreatedAt,
		&readAt,
	); err != nil {
		return models.Notification{}, err
	}

	if len(dataRaw) > 0 {
		notif.Data = dataRaw
	}
	if readAt.Valid {
		t := readAt.Time
		notif.ReadAt = &t
	}
	return notif, nil
}
