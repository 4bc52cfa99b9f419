package models

import "time"

// PostType enumerates supported publication types.
type PostType string

const (
	PostAnnouncement PostType = "ANUNCIO"
	PostHomework     PostType = "TAREA"
	PostMaterial     PostType = "MATERIAL"
)

// Post is authored by a teacher and targets a grade. Posts are soft-deleted.
type Post struct {
	ID            string    `db:"id" json:"id"`
	AuthorID      string    `db:"autor_id" json:"autor_id"`
	GradeID       string    `db:"grado_id" json:"grado_id"`
	Type          PostType  `db:"tipo" json:"tipo"`
	Content       string    `db:"contenido" json:"contenido"`
	AttachmentURL *string   `db:"adjunto_url" json:"adjunto_url,omitempty"`
	Active        bool      `db:"activo" json:"activo"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Reaction records one mutable reaction per account per post.
type Reaction struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	UserID    string    `db:"usuario_id" json:"usuario_id"`
	Kind      string    `db:"tipo" json:"tipo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Comment is append-only and soft-deletable.
type Comment struct {
	ID        string    `db:"id" json:"id"`
	PostID    string    `db:"post_id" json:"post_id"`
	UserID    string    `db:"usuario_id" json:"usuario_id"`
	Content   string    `db:"contenido" json:"contenido"`
	Active    bool      `db:"activo" json:"activo"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PostFilter captures filtering criteria for listing posts.
type PostFilter struct {
	GradeID  string
	AuthorID string
	Type     string
	ListParams
}
