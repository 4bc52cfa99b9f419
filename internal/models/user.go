package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleTeacher    UserRole = "TEACHER"
	RoleTutor      UserRole = "TUTOR"
	RoleStudent    UserRole = "STUDENT"
	RoleGuardian   UserRole = "GUARDIAN"
)

// User represents an account stored in the usuarios table. The password hash
// never leaves the server.
type User struct {
	ID           string     `db:"id" json:"id"`
	DNI          string     `db:"dni" json:"dni"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"nombre_completo" json:"nombre_completo"`
	Role         UserRole   `db:"rol" json:"rol"`
	Active       bool       `db:"activo" json:"activo"`
	Phone        *string    `db:"telefono" json:"telefono,omitempty"`
	AvatarURL    *string    `db:"avatar_url" json:"avatar_url,omitempty"`
	SchoolID     string     `db:"colegio_id" json:"colegio_id"`
	LastLogin    *time.Time `db:"ultimo_acceso" json:"ultimo_acceso,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Role     *UserRole
	Active   *bool
	SchoolID string
	ListParams
}
