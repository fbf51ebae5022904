// Package notification delivers user-facing notifications. The core engines
// only depend on the Dispatcher interface; the concrete service persists one
// row per recipient and reports success synchronously.
package notification

import (
	"context"

	"github.com/maintworks/facility-api/internal/models"
)

// Payload is the notification content delivered to every recipient.
type Payload struct {
	CompanyID string
	Type      models.NotificationType
	Action    models.NotificationAction
	Title     string
	Message   string
	Data      map[string]interface{}
}

// Dispatcher delivers a payload to a set of users. An error means no
// recipient can be assumed to have been notified.
type Dispatcher interface {
	Notify(ctx context.Context, userIDs []string, payload Payload) error
}
