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

const (
	testLevelID = "7b3f0cf0-4f44-4fb6-9a1f-0d6d7a2d9b01"
	testYearID  = "9c1d2e3f-5a6b-47c8-9d0e-1f2a3b4c5d02"
)

type gradeRepoMock struct {
	grades       map[string]*models.Grade
	sectionTaken bool
	postCount    int
	created      []*models.Grade
	deleted      []string
}

func (m *gradeRepoMock) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *gradeRepoMock) FindByID(ctx context.Context, id string) (*models.Grade, error) {
	grade, ok := m.grades[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *grade
	return &copied, nil
}

func (m *gradeRepoMock) ExistsSection(ctx context.Context, levelID, name, section, yearID, excludeID string) (bool, error) {
	return m.sectionTaken, nil
}

func (m *gradeRepoMock) Create(ctx context.Context, grade *models.Grade) error {
	grade.ID = "g-new"
	m.created = append(m.created, grade)
	return nil
}

func (m *gradeRepoMock) Update(ctx context.Context, grade *models.Grade) error {
	return nil
}

func (m *gradeRepoMock) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *gradeRepoMock) CountPosts(ctx context.Context, id string) (int, error) {
	return m.postCount, nil
}

type gradeLevelRepoMock struct {
	level *models.Level
}

func (m *gradeLevelRepoMock) FindByID(ctx context.Context, id string) (*models.Level, error) {
	if m.level == nil {
		return nil, sql.ErrNoRows
	}
	return m.level, nil
}

type gradeYearRepoMock struct {
	year *models.SchoolYear
}

func (m *gradeYearRepoMock) FindByID(ctx context.Context, id string) (*models.SchoolYear, error) {
	if m.year == nil {
		return nil, sql.ErrNoRows
	}
	return m.year, nil
}

type gradeTurnRepoMock struct {
	turn *models.Turn
}

func (m *gradeTurnRepoMock) FindByID(ctx context.Context, id string) (*models.Turn, error) {
	if m.turn == nil {
		return nil, sql.ErrNoRows
	}
	return m.turn, nil
}

func primaryLevel() *models.Level {
	return &models.Level{ID: testLevelID, Code: "PRI", Name: "Primaria", MinGrade: 1, MaxGrade: 6}
}

func newGradeService(repo *gradeRepoMock, level *models.Level, year *models.SchoolYear) *GradeService {
	return NewGradeService(repo,
		&gradeLevelRepoMock{level: level},
		&gradeYearRepoMock{year: year},
		&gradeTurnRepoMock{},
		nil, nil)
}

func TestGradeCreateDerivesNameAndCode(t *testing.T) {
	repo := &gradeRepoMock{}
	svc := newGradeService(repo, primaryLevel(), &models.SchoolYear{ID: testYearID, Year: 2026})

	grade, err := svc.Create(context.Background(), CreateGradeRequest{
		LevelID: testLevelID,
		YearID:  testYearID,
		Number:  3,
		Section: "b",
	})
	require.NoError(t, err)
	assert.Equal(t, "3° B - Primaria", grade.Name)
	assert.Equal(t, "PRI-3B-2026", grade.Code)
	assert.Equal(t, "B", grade.Section)
}

func TestGradeCreateNumberOutOfLevelRange(t *testing.T) {
	repo := &gradeRepoMock{}
	svc := newGradeService(repo, primaryLevel(), &models.SchoolYear{ID: testYearID, Year: 2026})

	_, err := svc.Create(context.Background(), CreateGradeRequest{
		LevelID: testLevelID,
		YearID:  testYearID,
		Number:  7,
		Section: "A",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Equal(t, "El grado debe estar entre 1 y 6 para el nivel Primaria", appErr.Message)
	assert.Empty(t, repo.created)
}

func TestGradeCreateUnknownLevel(t *testing.T) {
	svc := newGradeService(&gradeRepoMock{}, nil, &models.SchoolYear{ID: testYearID, Year: 2026})

	_, err := svc.Create(context.Background(), CreateGradeRequest{
		LevelID: testLevelID,
		YearID:  testYearID,
		Number:  3,
		Section: "A",
	})
	require.Error(t, err)
	assert.Equal(t, "El nivel indicado no existe", appErrors.FromError(err).Message)
}

func TestGradeCreateDuplicateSection(t *testing.T) {
	svc := newGradeService(&gradeRepoMock{sectionTaken: true}, primaryLevel(), &models.SchoolYear{ID: testYearID, Year: 2026})

	_, err := svc.Create(context.Background(), CreateGradeRequest{
		LevelID: testLevelID,
		YearID:  testYearID,
		Number:  3,
		Section: "A",
	})
	require.Error(t, err)
	assert.Equal(t, "Ya existe esa sección para el nivel y año indicados", appErrors.FromError(err).Message)
}

func TestGradeUpdateRederives(t *testing.T) {
	repo := &gradeRepoMock{grades: map[string]*models.Grade{
		"g1": {ID: "g1", LevelID: testLevelID, YearID: testYearID, Number: 3, Section: "A", Name: "3° A - Primaria", Code: "PRI-3A-2026"},
	}}
	svc := newGradeService(repo, primaryLevel(), &models.SchoolYear{ID: testYearID, Year: 2026})

	number := 4
	section := "c"
	grade, err := svc.Update(context.Background(), "g1", UpdateGradeRequest{Number: &number, Section: &section})
	require.NoError(t, err)
	assert.Equal(t, "4° C - Primaria", grade.Name)
	assert.Equal(t, "PRI-4C-2026", grade.Code)
}

func TestGradeDeleteWithPosts(t *testing.T) {
	repo := &gradeRepoMock{
		grades:    map[string]*models.Grade{"g1": {ID: "g1", LevelID: testLevelID, YearID: testYearID}},
		postCount: 2,
	}
	svc := newGradeService(repo, primaryLevel(), &models.SchoolYear{ID: testYearID, Year: 2026})

	err := svc.Delete(context.Background(), "g1")
	require.Error(t, err)
	assert.Equal(t, "El grado tiene publicaciones asociadas", appErrors.FromError(err).Message)
	assert.Empty(t, repo.deleted)
}
