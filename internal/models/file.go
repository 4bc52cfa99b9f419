package models

import "time"

// StoredFile is the metadata row for an uploaded binary.
type StoredFile struct {
	ID         string    `db:"id" json:"id"`
	UploaderID string    `db:"usuario_id" json:"usuario_id"`
	Name       string    `db:"nombre" json:"nombre"`
	Folder     string    `db:"carpeta" json:"carpeta"`
	Location   string    `db:"ubicacion" json:"-"`
	MIMEType   string    `db:"mime_type" json:"mime_type"`
	SizeBytes  int64     `db:"tamano_bytes" json:"tamano_bytes"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FileFilter captures filtering criteria for listing stored files.
type FileFilter struct {
	UploaderID string
	Folder     string
	ListParams
}
