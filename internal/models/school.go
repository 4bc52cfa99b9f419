package models

import "time"

// School represents a tenant organisation. Schools are never hard-deleted;
// deactivation is blocked while accounts reference them.
type School struct {
	ID             string    `db:"id" json:"id"`
	Code           string    `db:"codigo" json:"codigo"`
	Name           string    `db:"nombre" json:"nombre"`
	Email          string    `db:"email" json:"email"`
	Address        *string   `db:"direccion" json:"direccion,omitempty"`
	PrimaryColor   *string   `db:"color_primario" json:"color_primario,omitempty"`
	SecondaryColor *string   `db:"color_secundario" json:"color_secundario,omitempty"`
	LogoURL        *string   `db:"logo_url" json:"logo_url,omitempty"`
	Active         bool      `db:"activo" json:"activo"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolFilter captures filtering criteria for listing schools.
type SchoolFilter struct {
	Active *bool
	ListParams
}
