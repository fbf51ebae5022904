package notification

import (
	"context"
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maintworks/facility-api/internal/models"
	"github.com/maintworks/facility-api/internal/repository"
)

type createCall struct {
	userIDs []string
	params  repository.CreateNotificationParams
}

type fakeNotificationRepo struct {
	calls     []createCall
	createErr error
	nextID    int
}

func (f *fakeNotificationRepo) CreateForUsers(_ context.Context, userIDs []string, params repository.CreateNotificationParams) ([]models.Notification, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.calls = append(f.calls, createCall{userIDs: userIDs, params: params})

	notifications := make([]models.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		f.nextID++
		notifications = append(notifications, models.Notification{
			ID:        fmt.Sprintf("notif-%d", f.nextID),
			CompanyID: params.CompanyID,
			UserID:    userID,
			Type:      params.Type,
			Action:    params.Action,
			Title:     params.Title,
			Message:   params.Message,
		})
	}
	return notifications, nil
}

func (f *fakeNotificationRepo) ListRecent(_ context.Context, _, _ string, _ int) ([]models.Notification, error) {
	return nil, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, _, _ string) (models.Notification, error) {
	return models.Notification{}, nil
}

func testPayload() Payload {
	return Payload{
		CompanyID: "company-1",
		Type:      models.NotificationTypeWorkOrder,
		Action:    models.NotificationActionSLAViolation,
		Title:     "SLA response time exceeded",
		Message:   "Work order overdue.",
	}
}

func TestNotifyPersistsOneRowPerRecipient(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, zerolog.Nop())

	err := service.Notify(context.Background(), []string{"user-1", "user-2"}, testPayload())

	require.NoError(t, err)
	require.Len(t, repo.calls, 1)
	assert.Equal(t, []string{"user-1", "user-2"}, repo.calls[0].userIDs)
	assert.Equal(t, "company-1", repo.calls[0].params.CompanyID)
	assert.Equal(t, "SLA response time exceeded", repo.calls[0].params.Title)
}

func TestNotifyDeduplicatesAndTrimsRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, zerolog.Nop())

	err := service.Notify(context.Background(), []string{" user-1 ", "user-1", "", "user-2"}, testPayload())

	require.NoError(t, err)
	require.Len(t, repo.calls, 1)
	assert.Equal(t, []string{"user-1", "user-2"}, repo.calls[0].userIDs)
}

func TestNotifyRejectsEmptyRecipients(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, zerolog.Nop())

	err := service.Notify(context.Background(), []string{"", "  "}, testPayload())

	require.Error(t, err)
	assert.Empty(t, repo.calls)
}

func TestNotifyRequiresType(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, zerolog.Nop())
	payload := testPayload()
	payload.Type = ""

	err := service.Notify(context.Background(), []string{"user-1"}, payload)

	require.Error(t, err)
	assert.Empty(t, repo.calls)
}

func TestNotifyDefaultsTitleToAction(t *testing.T) {
	repo := &fakeNotificationRepo{}
	service := NewService(repo, zerolog.Nop())
	payload := testPayload()
	payload.Title = "   "

	err := service.Notify(context.Background(), []string{"user-1"}, payload)

	require.NoError(t, err)
	require.Len(t, repo.calls, 1)
	assert.Equal(t, string(models.NotificationActionSLAViolation), repo.calls[0].params.Title)
}

func TestNotifyPropagatesRepositoryErrors(t *testing.T) {
	repo := &fakeNotificationRepo{createErr: errors.New("deadlock detected")}
	service := NewService(repo, zerolog.Nop())

	err := service.Notify(context.Background(), []string{"user-1"}, testPayload())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "deadlock")
}
