package models

import "time"

// Configuration is the singleton settings row for a school.
type Configuration struct {
	ID                   string    `db:"id" json:"id"`
	SchoolID             string    `db:"colegio_id" json:"colegio_id"`
	EnrollmentOpen       bool      `db:"matricula_abierta" json:"matricula_abierta"`
	PostsEnabled         bool      `db:"posts_habilitados" json:"posts_habilitados"`
	NotificationsEnabled bool      `db:"notificaciones_habilitadas" json:"notificaciones_habilitadas"`
	UpdatedAt            time.Time `db:"updated_at" json:"updated_at"`
}
