package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

type notificationRepository interface {
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Notification, error)
	Create(ctx context.Context, notification *models.Notification) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
	Deactivate(ctx context.Context, id string) error
	UpsertSubscription(ctx context.Context, sub *models.PushSubscription) error
	DeactivateSubscription(ctx context.Context, endpoint string) error
}

type notificationUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CreateNotificationRequest captures fields for notifying an account.
type CreateNotificationRequest struct {
	UserID string `json:"usuario_id" validate:"required,uuid"`
	Title  string `json:"titulo" validate:"required,max=200"`
	Body   string `json:"mensaje" validate:"required,max=2000"`
	Kind   string `json:"tipo" validate:"required,oneof=SISTEMA PUBLICACION RECORDATORIO"`
}

// SubscribeRequest registers a browser push endpoint for the caller.
type SubscribeRequest struct {
	Endpoint string `json:"endpoint" validate:"required,url"`
	P256DH   string `json:"p256dh" validate:"required"`
	Auth     string `json:"auth" validate:"required"`
}

// NotificationService orchestrates per-account notifications and push
// subscriptions. Accounts only ever see their own notifications.
type NotificationService struct {
	repo      notificationRepository
	users     notificationUserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewNotificationService creates a new notification service instance.
func NewNotificationService(repo notificationRepository, users notificationUserRepository, validate *validator.Validate, logger *zap.Logger) *NotificationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, users: users, validator: validate, logger: logger}
}

// List returns the caller's paginated notifications.
func (s *NotificationService) List(ctx context.Context, actorID string, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	filter.UserID = actorID
	notifications, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list notifications")
	}
	return notifications, pagination, nil
}

// Create stores a notification for a target account.
func (s *NotificationService) Create(ctx context.Context, req CreateNotificationRequest) (*models.Notification, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	if _, err := s.users.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownParent, "El usuario indicado no existe")
		}
		return nil, storageErr(err, "failed to check user")
	}

	notification := &models.Notification{
		UserID: req.UserID,
		Title:  req.Title,
		Body:   req.Body,
		Kind:   req.Kind,
		Active: true,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, storageErr(err, "failed to create notification")
	}
	return notification, nil
}

func (s *NotificationService) ownNotification(ctx context.Context, id, actorID string) (*models.Notification, error) {
	notification, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Notificación no encontrada")
		}
		return nil, storageErr(err, "failed to load notification")
	}
	if notification.UserID != actorID {
		return nil, appErrors.Clone(appErrors.ErrOwnership, "La notificación no le pertenece")
	}
	return notification, nil
}

// MarkRead flags one of the caller's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, id, actorID string) error {
	notification, err := s.ownNotification(ctx, id, actorID)
	if err != nil {
		return err
	}
	if err := s.repo.MarkRead(ctx, notification.ID); err != nil {
		return storageErr(err, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead flags every notification of the caller as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, actorID string) error {
	if err := s.repo.MarkAllRead(ctx, actorID); err != nil {
		return storageErr(err, "failed to mark notifications read")
	}
	return nil
}

// Dismiss soft-deletes one of the caller's notifications.
func (s *NotificationService) Dismiss(ctx context.Context, id, actorID string) error {
	notification, err := s.ownNotification(ctx, id, actorID)
	if err != nil {
		return err
	}
	if err := s.repo.Deactivate(ctx, notification.ID); err != nil {
		return storageErr(err, "failed to dismiss notification")
	}
	return nil
}

// Subscribe upserts a push registration keyed by endpoint.
func (s *NotificationService) Subscribe(ctx context.Context, actorID string, req SubscribeRequest) (*models.PushSubscription, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	sub := &models.PushSubscription{
		UserID:   actorID,
		Endpoint: req.Endpoint,
		P256DH:   req.P256DH,
		Auth:     req.Auth,
		Active:   true,
	}
	if err := s.repo.UpsertSubscription(ctx, sub); err != nil {
		return nil, storageErr(err, "failed to save push subscription")
	}
	return sub, nil
}

// Unsubscribe deactivates a push registration by endpoint.
func (s *NotificationService) Unsubscribe(ctx context.Context, endpoint string) error {
	if endpoint == "" {
		return appErrors.Clone(appErrors.ErrValidation, "El endpoint es requerido")
	}
	if err := s.repo.DeactivateSubscription(ctx, endpoint); err != nil {
		return storageErr(err, "failed to remove push subscription")
	}
	return nil
}
