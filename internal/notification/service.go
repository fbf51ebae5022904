package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/maintworks/facility-api/internal/models"
	"github.com/maintworks/facility-api/internal/repository"
)

// Service is the Postgres-backed Dispatcher. Delivery is one notification row
// per recipient, written in a single transaction.
type Service struct {
	repo   repository.NotificationRepository
	logger zerolog.Logger
}

func NewService(repo repository.NotificationRepository, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger.With().Str("component", "notification_service").Logger(),
	}
}

func (s *Service) Notify(ctx context.Context, userIDs []string, payload Payload) error {
	recipients := dedupeUserIDs(userIDs)
	if len(recipients) == 0 {
		return fmt.Errorf("notification requires at least one recipient")
	}
	if payload.Type == "" {
		return fmt.Errorf("notification type is required")
	}

	title := strings.TrimSpace(payload.Title)
	if title == "" {
		title = string(payload.Action)
	}

	params := repository.CreateNotificationParams{
		CompanyID: payload.CompanyID,
		Type:      payload.Type,
		Action:    payload.Action,
		Title:     title,
		Message:   strings.TrimSpace(payload.Message),
		Data:      payload.Data,
	}
	if _, err := s.repo.CreateForUsers(ctx, recipients, params); err != nil {
		s.logger.Error().Err(err).
			Str("type", string(payload.Type)).
			Str("action", string(payload.Action)).
			Int("recipients", len(recipients)).
			Msg("failed to persist notifications")
		return err
	}

	s.logger.Info().
		Str("type", string(payload.Type)).
		Str("action", string(payload.Action)).
		Strs("user_ids", recipients).
		Msg("notifications dispatched")
	return nil
}

func (s *Service) ListRecent(ctx context.Context, companyID, userID string, limit int) ([]models.Notification, error) {
	return s.repo.ListRecent(ctx, companyID, userID, limit)
}

func (s *Service) MarkRead(ctx context.Context, companyID, notificationID string) (models.Notification, error) {
	return s.repo.MarkRead(ctx, companyID, notificationID)
}

func dedupeUserIDs(userIDs []string) []string {
	seen := make(map[string]struct{}, len(userIDs))
	var out []string
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
