package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/colegiosys/colegio-api/internal/models"
)

const postColumns = "id, autor_id, grado_id, tipo, contenido, adjunto_url, activo, created_at, updated_at"

// PostRepository handles persistence for posts, reactions and comments.
type PostRepository struct {
	store *Store
}

// NewPostRepository creates a new repository instance.
func NewPostRepository(store *Store) *PostRepository {
	return &PostRepository{store: store}
}

// List returns active posts matching the filter plus pagination metadata.
func (r *PostRepository) List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.Pagination, error) {
	q := newListQuery("posts", postColumns, "created_at",
		[]string{"tipo", "created_at", "updated_at"}).
		searchable("contenido").
		paginate(filter.ListParams)

	q.equals("activo", true)
	if filter.GradeID != "" {
		q.equals("grado_id", filter.GradeID)
	}
	if filter.AuthorID != "" {
		q.equals("autor_id", filter.AuthorID)
	}
	if filter.Type != "" {
		q.equals("tipo", filter.Type)
	}

	var posts []models.Post
	pagination, err := runList(ctx, r.store, q, &posts)
	if err != nil {
		return nil, nil, err
	}
	return posts, pagination, nil
}

// FindByID returns a post by id, including soft-deleted rows so callers can
// distinguish ownership failures from absence.
func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	query := fmt.Sprintf("SELECT %s FROM posts WHERE id = $1 LIMIT 1", postColumns)
	var post models.Post
	if err := r.store.Get(ctx, &post, query, id); err != nil {
		return nil, err
	}
	return &post, nil
}

// Create persists a new post.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	const query = `INSERT INTO posts (id, autor_id, grado_id, tipo, contenido, adjunto_url, activo, created_at, updated_at)
		VALUES (:id, :autor_id, :grado_id, :tipo, :contenido, :adjunto_url, :activo, :created_at, :updated_at)`
	if _, err := r.store.NamedExec(ctx, query, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update modifies a post.
func (r *PostRepository) Update(ctx context.Context, post *models.Post) error {
	post.UpdatedAt = time.Now().UTC()
	const query = `UPDATE posts SET tipo = :tipo, contenido = :contenido, adjunto_url = :adjunto_url, updated_at = :updated_at WHERE id = :id`
	if _, err := r.store.NamedExec(ctx, query, post); err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// Deactivate soft-deletes a post.
func (r *PostRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE posts SET activo = FALSE, updated_at = $2 WHERE id = $1`, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate post: %w", err)
	}
	return nil
}

// UpsertReaction stores the single mutable reaction an account keeps per
// post. The unique index on (post_id, usuario_id) backs the upsert.
func (r *PostRepository) UpsertReaction(ctx context.Context, reaction *models.Reaction) error {
	if reaction.ID == "" {
		reaction.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	reaction.CreatedAt = now
	reaction.UpdatedAt = now

	const query = `INSERT INTO reacciones (id, post_id, usuario_id, tipo, created_at, updated_at)
		VALUES (:id, :post_id, :usuario_id, :tipo, :created_at, :updated_at)
		ON CONFLICT (post_id, usuario_id) DO UPDATE SET tipo = EXCLUDED.tipo, updated_at = EXCLUDED.updated_at`
	if _, err := r.store.NamedExec(ctx, query, reaction); err != nil {
		return fmt.Errorf("upsert reaction: %w", err)
	}
	return nil
}

// DeleteReaction removes an account's reaction from a post.
func (r *PostRepository) DeleteReaction(ctx context.Context, postID, userID string) error {
	if _, err := r.store.Exec(ctx, `DELETE FROM reacciones WHERE post_id = $1 AND usuario_id = $2`, postID, userID); err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}

// ListReactions returns all reactions of a post.
func (r *PostRepository) ListReactions(ctx context.Context, postID string) ([]models.Reaction, error) {
	var reactions []models.Reaction
	const query = `SELECT id, post_id, usuario_id, tipo, created_at, updated_at FROM reacciones WHERE post_id = $1 ORDER BY created_at`
	if err := r.store.Select(ctx, &reactions, query, postID); err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	return reactions, nil
}

// CreateComment appends a comment to a post.
func (r *PostRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.NewString()
	}
	comment.CreatedAt = time.Now().UTC()

	const query = `INSERT INTO comentarios (id, post_id, usuario_id, contenido, activo, created_at)
		VALUES (:id, :post_id, :usuario_id, :contenido, :activo, :created_at)`
	if _, err := r.store.NamedExec(ctx, query, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// FindCommentByID returns a comment by id.
func (r *PostRepository) FindCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	var comment models.Comment
	const query = `SELECT id, post_id, usuario_id, contenido, activo, created_at FROM comentarios WHERE id = $1 LIMIT 1`
	if err := r.store.Get(ctx, &comment, query, id); err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns the active comments of a post, oldest first.
func (r *PostRepository) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	var comments []models.Comment
	const query = `SELECT id, post_id, usuario_id, contenido, activo, created_at FROM comentarios WHERE post_id = $1 AND activo = TRUE ORDER BY created_at`
	if err := r.store.Select(ctx, &comments, query, postID); err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// DeactivateComment soft-deletes a comment.
func (r *PostRepository) DeactivateComment(ctx context.Context, id string) error {
	if _, err := r.store.Exec(ctx, `UPDATE comentarios SET activo = FALSE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deactivate comment: %w", err)
	}
	return nil
}
