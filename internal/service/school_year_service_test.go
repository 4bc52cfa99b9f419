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

type schoolYearRepoMock struct {
	years      map[string]*models.SchoolYear
	yearTaken  bool
	gradeCount int
	activated  []string
	deleted    []string
}

func (m *schoolYearRepoMock) List(ctx context.Context, filter models.SchoolYearFilter) ([]models.SchoolYear, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *schoolYearRepoMock) FindByID(ctx context.Context, id string) (*models.SchoolYear, error) {
	year, ok := m.years[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *year
	return &copied, nil
}

func (m *schoolYearRepoMock) FindActive(ctx context.Context) (*models.SchoolYear, error) {
	for _, year := range m.years {
		if year.Active {
			copied := *year
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *schoolYearRepoMock) ExistsByYear(ctx context.Context, year int, excludeID string) (bool, error) {
	return m.yearTaken, nil
}

func (m *schoolYearRepoMock) Create(ctx context.Context, year *models.SchoolYear) error {
	year.ID = "y-new"
	return nil
}

func (m *schoolYearRepoMock) SetActive(ctx context.Context, id string) error {
	m.activated = append(m.activated, id)
	return nil
}

func (m *schoolYearRepoMock) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *schoolYearRepoMock) CountGrades(ctx context.Context, id string) (int, error) {
	return m.gradeCount, nil
}

func TestSchoolYearCreateDuplicate(t *testing.T) {
	svc := NewSchoolYearService(&schoolYearRepoMock{yearTaken: true}, nil, nil)

	_, err := svc.Create(context.Background(), CreateSchoolYearRequest{Year: 2026})
	require.Error(t, err)
	assert.Equal(t, "Ya existe ese año escolar", appErrors.FromError(err).Message)
}

func TestSchoolYearCreateOutOfRange(t *testing.T) {
	svc := NewSchoolYearService(&schoolYearRepoMock{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateSchoolYearRequest{Year: 1999})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestSchoolYearCreateAndActivate(t *testing.T) {
	repo := &schoolYearRepoMock{}
	svc := NewSchoolYearService(repo, nil, nil)

	year, err := svc.Create(context.Background(), CreateSchoolYearRequest{Year: 2026, Active: true})
	require.NoError(t, err)
	assert.True(t, year.Active)
	assert.Equal(t, []string{"y-new"}, repo.activated)
}

func TestSchoolYearActivateSwap(t *testing.T) {
	repo := &schoolYearRepoMock{years: map[string]*models.SchoolYear{
		"y1": {ID: "y1", Year: 2025, Active: true},
		"y2": {ID: "y2", Year: 2026},
	}}
	svc := NewSchoolYearService(repo, nil, nil)

	year, err := svc.Activate(context.Background(), "y2")
	require.NoError(t, err)
	assert.True(t, year.Active)
	assert.Equal(t, []string{"y2"}, repo.activated)
}

func TestSchoolYearDeleteActive(t *testing.T) {
	repo := &schoolYearRepoMock{years: map[string]*models.SchoolYear{
		"y1": {ID: "y1", Year: 2026, Active: true},
	}}
	svc := NewSchoolYearService(repo, nil, nil)

	err := svc.Delete(context.Background(), "y1")
	require.Error(t, err)
	assert.Equal(t, "No se puede eliminar el año escolar activo", appErrors.FromError(err).Message)
	assert.Empty(t, repo.deleted)
}

func TestSchoolYearDeleteWithGrades(t *testing.T) {
	repo := &schoolYearRepoMock{
		years:      map[string]*models.SchoolYear{"y1": {ID: "y1", Year: 2024}},
		gradeCount: 3,
	}
	svc := NewSchoolYearService(repo, nil, nil)

	err := svc.Delete(context.Background(), "y1")
	require.Error(t, err)
	assert.Equal(t, "El año escolar tiene grados asociados", appErrors.FromError(err).Message)
}

func TestSchoolYearDeleteInactiveEmpty(t *testing.T) {
	repo := &schoolYearRepoMock{years: map[string]*models.SchoolYear{
		"y1": {ID: "y1", Year: 2024},
	}}
	svc := NewSchoolYearService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "y1"))
	assert.Equal(t, []string{"y1"}, repo.deleted)
}

func TestSchoolYearGetActiveMissing(t *testing.T) {
	svc := NewSchoolYearService(&schoolYearRepoMock{}, nil, nil)

	_, err := svc.GetActive(context.Background())
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 404, appErr.Status)
	assert.Equal(t, "No hay un año escolar activo", appErr.Message)
}
