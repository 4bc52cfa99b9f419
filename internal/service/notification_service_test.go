package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

const testNotificationUserID = "9a1b2c3d-4e5f-46a7-b8c9-d0e1f2a3b401"

type notificationRepoMock struct {
	notifications map[string]*models.Notification
	created       []*models.Notification
	read          []string
	allReadFor    []string
	deactivated   []string
}

func (m *notificationRepoMock) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *notificationRepoMock) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	notification, ok := m.notifications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *notification
	return &copied, nil
}

func (m *notificationRepoMock) Create(ctx context.Context, notification *models.Notification) error {
	notification.ID = "n-new"
	m.created = append(m.created, notification)
	return nil
}

func (m *notificationRepoMock) MarkRead(ctx context.Context, id string) error {
	m.read = append(m.read, id)
	return nil
}

func (m *notificationRepoMock) MarkAllRead(ctx context.Context, userID string) error {
	m.allReadFor = append(m.allReadFor, userID)
	return nil
}

func (m *notificationRepoMock) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func (m *notificationRepoMock) UpsertSubscription(ctx context.Context, sub *models.PushSubscription) error {
	return nil
}

func (m *notificationRepoMock) DeactivateSubscription(ctx context.Context, endpoint string) error {
	return nil
}

type notificationUserRepoMock struct {
	user *models.User
}

func (m *notificationUserRepoMock) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func validNotificationRequest() CreateNotificationRequest {
	return CreateNotificationRequest{
		UserID: testNotificationUserID,
		Title:  "Reunión de padres",
		Body:   "La reunión se realizará el viernes a las 18:00.",
		Kind:   "RECORDATORIO",
	}
}

func TestNotificationCreate(t *testing.T) {
	repo := &notificationRepoMock{}
	users := &notificationUserRepoMock{user: &models.User{ID: testNotificationUserID}}
	svc := NewNotificationService(repo, users, nil, nil)

	notification, err := svc.Create(context.Background(), validNotificationRequest())
	require.NoError(t, err)
	require.Len(t, repo.created, 1)
	assert.Equal(t, testNotificationUserID, notification.UserID)
	assert.True(t, notification.Active)
}

func TestNotificationCreateUnknownUser(t *testing.T) {
	repo := &notificationRepoMock{}
	svc := NewNotificationService(repo, &notificationUserRepoMock{}, nil, nil)

	_, err := svc.Create(context.Background(), validNotificationRequest())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "UNKNOWN_PARENT", appErr.Code)
	assert.Equal(t, "El usuario indicado no existe", appErr.Message)
	assert.Empty(t, repo.created)
}

func TestNotificationCreateInvalidKind(t *testing.T) {
	svc := NewNotificationService(&notificationRepoMock{}, &notificationUserRepoMock{}, nil, nil)

	req := validNotificationRequest()
	req.Kind = "URGENTE"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestNotificationMarkReadRejectsStranger(t *testing.T) {
	repo := &notificationRepoMock{notifications: map[string]*models.Notification{
		"n1": {ID: "n1", UserID: "owner"},
	}}
	svc := NewNotificationService(repo, &notificationUserRepoMock{}, nil, nil)

	err := svc.MarkRead(context.Background(), "n1", "stranger")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "La notificación no le pertenece", appErr.Message)
	assert.Empty(t, repo.read)
}

func TestNotificationDismissOwn(t *testing.T) {
	repo := &notificationRepoMock{notifications: map[string]*models.Notification{
		"n1": {ID: "n1", UserID: "owner"},
	}}
	svc := NewNotificationService(repo, &notificationUserRepoMock{}, nil, nil)

	require.NoError(t, svc.Dismiss(context.Background(), "n1", "owner"))
	assert.Equal(t, []string{"n1"}, repo.deactivated)
}
