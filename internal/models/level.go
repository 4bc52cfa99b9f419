package models

import "time"

// Level represents an educational stage (inicial, primaria, secundaria). The
// numeric range bounds the grade numbers its sections may carry; the grading
// fields parameterise the scoring scheme applied within the level.
type Level struct {
	ID         string    `db:"id" json:"id"`
	Code       string    `db:"codigo" json:"codigo"`
	Name       string    `db:"nombre" json:"nombre"`
	MinGrade   int       `db:"grado_minimo" json:"grado_minimo"`
	MaxGrade   int       `db:"grado_maximo" json:"grado_maximo"`
	MinScore   float64   `db:"nota_minima" json:"nota_minima"`
	MaxScore   float64   `db:"nota_maxima" json:"nota_maxima"`
	PassScore  float64   `db:"nota_aprobatoria" json:"nota_aprobatoria"`
	Active     bool      `db:"activo" json:"activo"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LevelFilter captures filtering criteria for listing levels.
type LevelFilter struct {
	Active *bool
	ListParams
}
