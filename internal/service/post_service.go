package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

type postRepository interface {
	List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, post *models.Post) error
	Deactivate(ctx context.Context, id string) error
	UpsertReaction(ctx context.Context, reaction *models.Reaction) error
	DeleteReaction(ctx context.Context, postID, userID string) error
	ListReactions(ctx context.Context, postID string) ([]models.Reaction, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	FindCommentByID(ctx context.Context, id string) (*models.Comment, error)
	ListComments(ctx context.Context, postID string) ([]models.Comment, error)
	DeactivateComment(ctx context.Context, id string) error
}

type postGradeRepository interface {
	FindByID(ctx context.Context, id string) (*models.Grade, error)
}

// CreatePostRequest captures fields for publishing to a grade wall.
type CreatePostRequest struct {
	GradeID       string  `json:"grado_id" validate:"required,uuid"`
	Type          string  `json:"tipo" validate:"required,oneof=ANUNCIO TAREA MATERIAL"`
	Content       string  `json:"contenido" validate:"required,max=5000"`
	AttachmentURL *string `json:"adjunto_url" validate:"omitempty,url"`
}

// UpdatePostRequest supports partial updates of a publication.
type UpdatePostRequest struct {
	Type          *string `json:"tipo" validate:"omitempty,oneof=ANUNCIO TAREA MATERIAL"`
	Content       *string `json:"contenido" validate:"omitempty,max=5000"`
	AttachmentURL *string `json:"adjunto_url" validate:"omitempty,url"`
}

// ReactionRequest sets the caller's reaction on a post.
type ReactionRequest struct {
	Kind string `json:"tipo" validate:"required,oneof=LIKE CELEBRATE SUPPORT"`
}

// CommentRequest adds a comment to a post.
type CommentRequest struct {
	Content string `json:"contenido" validate:"required,max=1000"`
}

// PostService orchestrates grade-wall publications, reactions and comments.
type PostService struct {
	repo      postRepository
	grades    postGradeRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPostService creates a new post service instance.
func NewPostService(repo postRepository, grades postGradeRepository, validate *validator.Validate, logger *zap.Logger) *PostService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostService{repo: repo, grades: grades, validator: validate, logger: logger}
}

// List returns paginated active posts.
func (s *PostService) List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.Pagination, error) {
	posts, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list posts")
	}
	return posts, pagination, nil
}

// Get returns a post by ID.
func (s *PostService) Get(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Publicación no encontrada")
		}
		return nil, storageErr(err, "failed to load post")
	}
	return post, nil
}

// canPublish limits authoring to teaching staff and administrators.
func canPublish(role models.UserRole) bool {
	switch role {
	case models.RoleSuperAdmin, models.RoleAdmin, models.RoleTeacher, models.RoleTutor:
		return true
	}
	return false
}

// canModerate allows authors to manage their own posts and administrators to
// manage any post.
func canModerate(post *models.Post, actorID string, role models.UserRole) bool {
	if role == models.RoleSuperAdmin || role == models.RoleAdmin {
		return true
	}
	return post.AuthorID == actorID
}

// Create publishes a new post to a grade wall.
func (s *PostService) Create(ctx context.Context, actorID string, role models.UserRole, req CreatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	if !canPublish(role) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "Su rol no permite publicar")
	}

	if _, err := s.grades.FindByID(ctx, req.GradeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownParent, "El grado indicado no existe")
		}
		return nil, storageErr(err, "failed to load grade")
	}

	post := &models.Post{
		AuthorID:      actorID,
		GradeID:       req.GradeID,
		Type:          models.PostType(req.Type),
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
		Active:        true,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, storageErr(err, "failed to create post")
	}
	return post, nil
}

// Update applies a partial update to a post the actor may moderate.
func (s *PostService) Update(ctx context.Context, id, actorID string, role models.UserRole, req UpdatePostRequest) (*models.Post, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canModerate(post, actorID, role) {
		return nil, appErrors.Clone(appErrors.ErrOwnership, "Solo el autor puede modificar la publicación")
	}

	if req.Type != nil {
		post.Type = models.PostType(*req.Type)
	}
	if req.Content != nil {
		post.Content = *req.Content
	}
	if req.AttachmentURL != nil {
		post.AttachmentURL = req.AttachmentURL
	}

	if err := s.repo.Update(ctx, post); err != nil {
		return nil, storageErr(err, "failed to update post")
	}
	return post, nil
}

// Deactivate soft-deletes a post the actor may moderate.
func (s *PostService) Deactivate(ctx context.Context, id, actorID string, role models.UserRole) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canModerate(post, actorID, role) {
		return appErrors.Clone(appErrors.ErrOwnership, "Solo el autor puede eliminar la publicación")
	}

	if err := s.repo.Deactivate(ctx, post.ID); err != nil {
		return storageErr(err, "failed to deactivate post")
	}
	return nil
}

// React sets or replaces the caller's reaction on a post.
func (s *PostService) React(ctx context.Context, postID, actorID string, req ReactionRequest) (*models.Reaction, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	reaction := &models.Reaction{PostID: postID, UserID: actorID, Kind: req.Kind}
	if err := s.repo.UpsertReaction(ctx, reaction); err != nil {
		return nil, storageErr(err, "failed to save reaction")
	}
	return reaction, nil
}

// RemoveReaction clears the caller's reaction on a post.
func (s *PostService) RemoveReaction(ctx context.Context, postID, actorID string) error {
	if _, err := s.Get(ctx, postID); err != nil {
		return err
	}
	if err := s.repo.DeleteReaction(ctx, postID, actorID); err != nil {
		return storageErr(err, "failed to remove reaction")
	}
	return nil
}

// Reactions lists all reactions on a post.
func (s *PostService) Reactions(ctx context.Context, postID string) ([]models.Reaction, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}
	reactions, err := s.repo.ListReactions(ctx, postID)
	if err != nil {
		return nil, storageErr(err, "failed to list reactions")
	}
	return reactions, nil
}

// Comment appends a comment to a post.
func (s *PostService) Comment(ctx context.Context, postID, actorID string, req CommentRequest) (*models.Comment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, UserID: actorID, Content: req.Content, Active: true}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, storageErr(err, "failed to create comment")
	}
	return comment, nil
}

// Comments lists active comments on a post.
func (s *PostService) Comments(ctx context.Context, postID string) ([]models.Comment, error) {
	if _, err := s.Get(ctx, postID); err != nil {
		return nil, err
	}
	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, storageErr(err, "failed to list comments")
	}
	return comments, nil
}

// RemoveComment soft-deletes a comment. Only the comment author or an
// administrator may remove it.
func (s *PostService) RemoveComment(ctx context.Context, commentID, actorID string, role models.UserRole) error {
	comment, err := s.repo.FindCommentByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Comentario no encontrado")
		}
		return storageErr(err, "failed to load comment")
	}

	if comment.UserID != actorID && role != models.RoleAdmin && role != models.RoleSuperAdmin {
		return appErrors.Clone(appErrors.ErrOwnership, "Solo el autor puede eliminar el comentario")
	}

	if err := s.repo.DeactivateComment(ctx, comment.ID); err != nil {
		return storageErr(err, "failed to deactivate comment")
	}
	return nil
}
