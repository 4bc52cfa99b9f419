package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

const testGradeID = "4f8a9b0c-1d2e-43f4-a5b6-c7d8e9f0a103"

type postRepoMock struct {
	posts       map[string]*models.Post
	comments    map[string]*models.Comment
	created     []*models.Post
	deactivated []string
	reactions   []*models.Reaction
	removed     []string
}

func (m *postRepoMock) List(ctx context.Context, filter models.PostFilter) ([]models.Post, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *postRepoMock) FindByID(ctx context.Context, id string) (*models.Post, error) {
	post, ok := m.posts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *post
	return &copied, nil
}

func (m *postRepoMock) Create(ctx context.Context, post *models.Post) error {
	post.ID = "p-new"
	m.created = append(m.created, post)
	return nil
}

func (m *postRepoMock) Update(ctx context.Context, post *models.Post) error {
	return nil
}

func (m *postRepoMock) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

func (m *postRepoMock) UpsertReaction(ctx context.Context, reaction *models.Reaction) error {
	m.reactions = append(m.reactions, reaction)
	return nil
}

func (m *postRepoMock) DeleteReaction(ctx context.Context, postID, userID string) error {
	return nil
}

func (m *postRepoMock) ListReactions(ctx context.Context, postID string) ([]models.Reaction, error) {
	return nil, nil
}

func (m *postRepoMock) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = "cm-new"
	return nil
}

func (m *postRepoMock) FindCommentByID(ctx context.Context, id string) (*models.Comment, error) {
	comment, ok := m.comments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *comment
	return &copied, nil
}

func (m *postRepoMock) ListComments(ctx context.Context, postID string) ([]models.Comment, error) {
	return nil, nil
}

func (m *postRepoMock) DeactivateComment(ctx context.Context, id string) error {
	m.removed = append(m.removed, id)
	return nil
}

type postGradeRepoMock struct {
	grade *models.Grade
}

func (m *postGradeRepoMock) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	if m.grade == nil {
		return nil, sql.ErrNoRows
	}
	return m.grade, nil
}

func newPostService(repo *postRepoMock) *PostService {
	return NewPostService(repo, &postGradeRepoMock{grade: &models.Grade{ID: testGradeID}}, nil, nil)
}

func TestPostCreateRoleForbidden(t *testing.T) {
	svc := newPostService(&postRepoMock{})

	_, err := svc.Create(context.Background(), "u1", models.RoleStudent, CreatePostRequest{
		GradeID: testGradeID,
		Type:    "ANUNCIO",
		Content: "Reunión de padres el viernes",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "Su rol no permite publicar", appErr.Message)
}

func TestPostCreateUnknownGrade(t *testing.T) {
	svc := NewPostService(&postRepoMock{}, &postGradeRepoMock{}, nil, nil)

	_, err := svc.Create(context.Background(), "u1", models.RoleTeacher, CreatePostRequest{
		GradeID: testGradeID,
		Type:    "TAREA",
		Content: "Resolver la página 42",
	})
	require.Error(t, err)
	assert.Equal(t, "El grado indicado no existe", appErrors.FromError(err).Message)
}

func TestPostCreateByTeacher(t *testing.T) {
	repo := &postRepoMock{}
	svc := newPostService(repo)

	post, err := svc.Create(context.Background(), "u1", models.RoleTeacher, CreatePostRequest{
		GradeID: testGradeID,
		Type:    "MATERIAL",
		Content: "Guía de laboratorio adjunta",
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", post.AuthorID)
	assert.True(t, post.Active)
	require.Len(t, repo.created, 1)
}

func TestPostUpdateByStranger(t *testing.T) {
	repo := &postRepoMock{posts: map[string]*models.Post{
		"p1": {ID: "p1", AuthorID: "u1", GradeID: testGradeID, Type: models.PostAnnouncement, Content: "hola", Active: true},
	}}
	svc := newPostService(repo)

	content := "editado"
	_, err := svc.Update(context.Background(), "p1", "u2", models.RoleTeacher, UpdatePostRequest{Content: &content})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 403, appErr.Status)
	assert.Equal(t, "Solo el autor puede modificar la publicación", appErr.Message)
}

func TestPostDeactivateByAdmin(t *testing.T) {
	repo := &postRepoMock{posts: map[string]*models.Post{
		"p1": {ID: "p1", AuthorID: "u1", GradeID: testGradeID, Active: true},
	}}
	svc := newPostService(repo)

	require.NoError(t, svc.Deactivate(context.Background(), "p1", "admin", models.RoleAdmin))
	assert.Equal(t, []string{"p1"}, repo.deactivated)
}

func TestPostReactInvalidKind(t *testing.T) {
	repo := &postRepoMock{posts: map[string]*models.Post{"p1": {ID: "p1", Active: true}}}
	svc := newPostService(repo)

	_, err := svc.React(context.Background(), "p1", "u1", ReactionRequest{Kind: "ANGRY"})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
	assert.Empty(t, repo.reactions)
}

func TestPostReactUpserts(t *testing.T) {
	repo := &postRepoMock{posts: map[string]*models.Post{"p1": {ID: "p1", Active: true}}}
	svc := newPostService(repo)

	reaction, err := svc.React(context.Background(), "p1", "u1", ReactionRequest{Kind: "LIKE"})
	require.NoError(t, err)
	assert.Equal(t, "LIKE", reaction.Kind)
	require.Len(t, repo.reactions, 1)
}

func TestCommentRemoveByStranger(t *testing.T) {
	repo := &postRepoMock{comments: map[string]*models.Comment{
		"cm1": {ID: "cm1", PostID: "p1", UserID: "u1", Content: "bien", Active: true},
	}}
	svc := newPostService(repo)

	err := svc.RemoveComment(context.Background(), "cm1", "u2", models.RoleStudent)
	require.Error(t, err)
	assert.Equal(t, "Solo el autor puede eliminar el comentario", appErrors.FromError(err).Message)
	assert.Empty(t, repo.removed)
}

func TestCommentRemoveByAuthor(t *testing.T) {
	repo := &postRepoMock{comments: map[string]*models.Comment{
		"cm1": {ID: "cm1", PostID: "p1", UserID: "u1", Content: "bien", Active: true},
	}}
	svc := newPostService(repo)

	require.NoError(t, svc.RemoveComment(context.Background(), "cm1", "u1", models.RoleStudent))
	assert.Equal(t, []string{"cm1"}, repo.removed)
}
