package models

import "time"

// Notification targets a single account. Soft-deleted, never removed.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"usuario_id" json:"usuario_id"`
	Title     string    `db:"titulo" json:"titulo"`
	Body      string    `db:"mensaje" json:"mensaje"`
	Kind      string    `db:"tipo" json:"tipo"`
	Read      bool      `db:"leida" json:"leida"`
	Active    bool      `db:"activo" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NotificationFilter captures filtering criteria for listing notifications.
type NotificationFilter struct {
	UserID string
	Read   *bool
	ListParams
}

// PushSubscription is a browser push registration, upserted by endpoint.
type PushSubscription struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"usuario_id" json:"usuario_id"`
	Endpoint  string    `db:"endpoint" json:"endpoint"`
	P256DH    string    `db:"p256dh" json:"p256dh"`
	Auth      string    `db:"auth" json:"auth"`
	Active    bool      `db:"activo" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
