package models

import "time"

// SchoolYear represents an academic year. At most one year is active at a
// time; activation swaps run in a single transaction.
type SchoolYear struct {
	ID        string    `db:"id" json:"id"`
	Year      int       `db:"anio" json:"anio"`
	Active    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SchoolYearFilter captures filtering criteria for listing school years.
type SchoolYearFilter struct {
	Active *bool
	ListParams
}
