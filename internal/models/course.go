package models

import "time"

// Course represents a subject taught within a level. The abbreviation is
// globally unique; the name is unique only within its level.
type Course struct {
	ID           string    `db:"id" json:"id"`
	LevelID      string    `db:"nivel_id" json:"nivel_id"`
	Name         string    `db:"nombre" json:"nombre"`
	Abbreviation string    `db:"abreviatura" json:"abreviatura"`
	Active       bool      `db:"activo" json:"activo"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// CourseFilter captures filtering criteria for listing courses.
type CourseFilter struct {
	LevelID string
	Active  *bool
	ListParams
}
