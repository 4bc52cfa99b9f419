package models

import "time"

// Area is a simple named lookup entity with unique name and code.
type Area struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"nombre" json:"nombre"`
	Code      string    `db:"codigo" json:"codigo"`
	Active    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Turn is a school shift (mañana, tarde, noche) with unique name and
// abbreviation.
type Turn struct {
	ID           string    `db:"id" json:"id"`
	Name         string    `db:"nombre" json:"nombre"`
	Abbreviation string    `db:"abreviatura" json:"abreviatura"`
	StartTime    *string   `db:"hora_inicio" json:"hora_inicio,omitempty"`
	EndTime      *string   `db:"hora_fin" json:"hora_fin,omitempty"`
	Active       bool      `db:"activo" json:"activo"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CatalogFilter captures filtering criteria for areas and turns.
type CatalogFilter struct {
	Active *bool
	ListParams
}
