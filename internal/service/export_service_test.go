package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

type exportRepoMock struct {
	pagesSeen []int
}

func (m *exportRepoMock) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	m.pagesSeen = append(m.pagesSeen, filter.Page)
	return []models.User{
		{DNI: "12345678", FullName: "Ana Torres", Email: "ana@colegio.edu", Role: models.RoleTeacher, Active: true},
		{DNI: "87654321", FullName: "Luis Paz", Email: "luis@colegio.edu", Role: models.RoleStudent},
	}, models.NewPagination(filter.Page, filter.Limit, 2), nil
}

func TestExportUsersCSV(t *testing.T) {
	repo := &exportRepoMock{}
	svc := NewExportService(repo, nil)

	result, err := svc.Users(context.Background(), models.UserFilter{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".csv"))

	content := string(result.Data)
	assert.Contains(t, content, "DNI,Nombre completo,Correo,Rol,Estado")
	assert.Contains(t, content, "Ana Torres")
	assert.Contains(t, content, "Inactivo")
}

func TestExportUsersDefaultsToCSV(t *testing.T) {
	svc := NewExportService(&exportRepoMock{}, nil)

	result, err := svc.Users(context.Background(), models.UserFilter{}, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestExportUsersXLSX(t *testing.T) {
	svc := NewExportService(&exportRepoMock{}, nil)

	result, err := svc.Users(context.Background(), models.UserFilter{}, "xlsx")
	require.NoError(t, err)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", result.ContentType)
	assert.NotEmpty(t, result.Data)
}

func TestExportUsersUnsupportedFormat(t *testing.T) {
	svc := NewExportService(&exportRepoMock{}, nil)

	_, err := svc.Users(context.Background(), models.UserFilter{}, "docx")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "Formato de exportación no soportado", appErr.Message)
}

type exportPagedRepoMock struct {
	pagesSeen []int
}

func (m *exportPagedRepoMock) List(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	m.pagesSeen = append(m.pagesSeen, filter.Page)
	user := models.User{DNI: "00000001", FullName: "Usuario Página", Email: "pagina@colegio.edu", Role: models.RoleStudent}
	return []models.User{user}, models.NewPagination(filter.Page, filter.Limit, 250), nil
}

func TestExportUsersWalksEveryPage(t *testing.T) {
	repo := &exportPagedRepoMock{}
	svc := NewExportService(repo, nil)

	result, err := svc.Users(context.Background(), models.UserFilter{ListParams: models.ListParams{Page: 7, Limit: 5}}, "csv")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, repo.pagesSeen)
	assert.Equal(t, 3, strings.Count(string(result.Data), "Usuario Página"))
}
