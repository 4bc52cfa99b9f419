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

type areaRepoMock struct {
	areas       map[string]*models.Area
	codeTaken   bool
	nameTaken   bool
	deactivated []string
}

func (m *areaRepoMock) List(ctx context.Context, filter models.CatalogFilter) ([]models.Area, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *areaRepoMock) FindByID(ctx context.Context, id string) (*models.Area, error) {
	area, ok := m.areas[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *area
	return &copied, nil
}

func (m *areaRepoMock) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return m.nameTaken, nil
}

func (m *areaRepoMock) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	return m.codeTaken, nil
}

func (m *areaRepoMock) Create(ctx context.Context, area *models.Area) error {
	area.ID = "a-new"
	return nil
}

func (m *areaRepoMock) Update(ctx context.Context, area *models.Area) error {
	return nil
}

func (m *areaRepoMock) Deactivate(ctx context.Context, id string) error {
	m.deactivated = append(m.deactivated, id)
	return nil
}

type turnRepoMock struct {
	turns      map[string]*models.Turn
	nameTaken  bool
	abbrvTaken bool
}

func (m *turnRepoMock) List(ctx context.Context, filter models.CatalogFilter) ([]models.Turn, *models.Pagination, error) {
	return nil, nil, nil
}

func (m *turnRepoMock) FindByID(ctx context.Context, id string) (*models.Turn, error) {
	turn, ok := m.turns[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *turn
	return &copied, nil
}

func (m *turnRepoMock) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	return m.nameTaken, nil
}

func (m *turnRepoMock) ExistsByAbbreviation(ctx context.Context, abbreviation, excludeID string) (bool, error) {
	return m.abbrvTaken, nil
}

func (m *turnRepoMock) Create(ctx context.Context, turn *models.Turn) error {
	turn.ID = "t-new"
	return nil
}

func (m *turnRepoMock) Update(ctx context.Context, turn *models.Turn) error {
	return nil
}

func (m *turnRepoMock) Deactivate(ctx context.Context, id string) error {
	return nil
}

func TestAreaCreateDuplicateCode(t *testing.T) {
	svc := NewAreaService(&areaRepoMock{codeTaken: true}, nil, nil)

	_, err := svc.Create(context.Background(), AreaRequest{Name: "Matemática", Code: "MAT"})
	require.Error(t, err)
	assert.Equal(t, "Ya existe un área con ese código", appErrors.FromError(err).Message)
}

func TestAreaCreateDuplicateName(t *testing.T) {
	svc := NewAreaService(&areaRepoMock{nameTaken: true}, nil, nil)

	_, err := svc.Create(context.Background(), AreaRequest{Name: "Matemática", Code: "MAT"})
	require.Error(t, err)
	assert.Equal(t, "Ya existe un área con ese nombre", appErrors.FromError(err).Message)
}

func TestAreaDeactivate(t *testing.T) {
	repo := &areaRepoMock{areas: map[string]*models.Area{"a1": {ID: "a1", Name: "Ciencias", Code: "CIE", Active: true}}}
	svc := NewAreaService(repo, nil, nil)

	require.NoError(t, svc.Deactivate(context.Background(), "a1"))
	assert.Equal(t, []string{"a1"}, repo.deactivated)
}

func TestTurnCreateInvalidTime(t *testing.T) {
	svc := NewTurnService(&turnRepoMock{}, nil, nil)

	start := "7h30"
	_, err := svc.Create(context.Background(), TurnRequest{Name: "Mañana", Abbreviation: "M", StartTime: &start})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestTurnCreateDuplicateAbbreviation(t *testing.T) {
	svc := NewTurnService(&turnRepoMock{abbrvTaken: true}, nil, nil)

	_, err := svc.Create(context.Background(), TurnRequest{Name: "Tarde", Abbreviation: "T"})
	require.Error(t, err)
	assert.Equal(t, "Ya existe un turno con esa abreviatura", appErrors.FromError(err).Message)
}

func TestTurnCreateValid(t *testing.T) {
	svc := NewTurnService(&turnRepoMock{}, nil, nil)

	start, end := "07:30", "12:45"
	turn, err := svc.Create(context.Background(), TurnRequest{Name: "Mañana", Abbreviation: "M", StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.Equal(t, "t-new", turn.ID)
}
