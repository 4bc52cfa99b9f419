package models

import "time"

// Audit actions recorded by the API.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionCreate         = "CREATE"
	AuditActionUpdate         = "UPDATE"
	AuditActionDelete         = "DELETE"
)

// AuditLog is an append-only trail entry. It survives hard deletion of the
// account it references.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"usuario_id" json:"usuario_id,omitempty"`
	Action     string    `db:"accion" json:"accion"`
	Resource   string    `db:"recurso" json:"recurso"`
	ResourceID *string   `db:"recurso_id" json:"recurso_id,omitempty"`
	Detail     []byte    `db:"detalle" json:"detalle,omitempty"`
	IPAddress  string    `db:"ip" json:"ip,omitempty"`
	UserAgent  string    `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
