package models

import "time"

// Grade represents a class section of a level for a school year. Name and
// code are derived from (level, number, section, year) and never supplied by
// the caller. Grades are hard-deleted.
type Grade struct {
	ID        string    `db:"id" json:"id"`
	LevelID   string    `db:"nivel_id" json:"nivel_id"`
	YearID    string    `db:"anio_id" json:"anio_id"`
	TurnID    *string   `db:"turno_id" json:"turno_id,omitempty"`
	Number    int       `db:"grado" json:"grado"`
	Section   string    `db:"seccion" json:"seccion"`
	Name      string    `db:"nombre" json:"nombre"`
	Code      string    `db:"codigo" json:"codigo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// GradeFilter captures filtering criteria for listing grades.
type GradeFilter struct {
	LevelID string
	YearID  string
	TurnID  string
	ListParams
}
