package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const notificationColumns = "id, usuario_id, titulo, mensaje, tipo, leida, activo, created_at"

// NotificationRepository handles persistence for notifications and push
// subscriptions.
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository creates a new repository instance.
func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

// List returns active notifications matching the filter plus pagination metadata.
func (r *NotificationRepository) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, *models.Pagination, error) {
	q := newListQuery("notificaciones", notificationColumns, "created_at",
		[]string{"created_at", "leida"}).
		paginate(filter.ListParams)

	q.equals("activo", true)
	if filter.UserID != "" {
		q.equals("usuario_id", filter.UserID)
	}
	if filter.Read != nil {
		q.equals("leida", *filter.Read)
	}

	var notifications []models.Notification
	pagination, err := runList(ctx, r.store, q, &notifications)
	if err != nil {
		return nil, nil, err
	}
	return notifications, pagination, nil
}

// FindByID returns a notification by id.
func (r *NotificationRepository) FindByID(ctx context.Context, id string) (*models.Notification, error) {
	query := fmt.Sprintf("SELECT %s FROM notificaciones WHERE id = $1 LIMIT 1", notificationColumns)
	var notification models.Notification
	if err := r.store.Get(ctx, &notification, query, id); err != nil {
		return nil, err
	}
	return &notification, nil
}

// Create persists a new notification.
func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	notification.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO notificaciones (id, usuario_id, titulo, mensaje, tipo, leida, activo, created_at)
		VALUES (:id, :usuario_id, :titulo, :mensaje, :tipo, :leida, :activo, :created_at)`
	if _, err := r.store.NamedExec(ctx, query, notification); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE notificaciones SET leida = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// MarkAllRead flags every active notification of an account as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	if _, err := r.store.Exec(ctx, `UPDATE notificaciones SET leida = TRUE WHERE usuario_id = $1 AND activo = TRUE`, userID); err != nil {
		return fmt.Errorf("mark all notifications read: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a notification.
func (r *NotificationRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE notificaciones SET activo = FALSE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deactivate notification: %w", err)
	}
	return nil
}

// UpsertSubscription registers or refreshes a push subscription keyed by its
// endpoint.
func (r *NotificationRepository) UpsertSubscription(ctx context.Context, sub *models.PushSubscription) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	const query = `INSERT INTO suscripciones_push (id, usuario_id, endpoint, p256dh, auth, activo, created_at, updated_at)
		VALUES (:id, :usuario_id, :endpoint, :p256dh, :auth, TRUE, :created_at, :updated_at)
		ON CONFLICT (endpoint) DO UPDATE SET usuario_id = EXCLUDED.usuario_id, p256dh = EXCLUDED.p256dh, auth = EXCLUDED.auth, activo = TRUE, updated_at = EXCLUDED.updated_at`
	if _, err := r.store.NamedExec(ctx, query, sub); err != nil {
		return fmt.Errorf("upsert push subscription: %w", err)
	}
	return nil
}

// DeactivateSubscription soft-deletes a push subscription by endpoint.
func (r *NotificationRepository) DeactivateSubscription(ctx context.Context, endpoint string) error {
	if _, err := r.store.Exec(ctx, `UPDATE suscripciones_push SET activo = FALSE, updated_at = $2 WHERE endpoint = $1`, endpoint, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate push subscription: %w", err)
	}
	return nil
}
