package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colegiosys/colegio-api/internal/models"
	"github.com/colegiosys/colegio-api/internal/service"
)

type yearRepoStub struct {
	active    *models.SchoolYear
	years     map[string]*models.SchoolYear
	yearTaken bool
	activated []string
}

func (s *yearRepoStub) List(ctx context.Context, filter models.SchoolYearFilter) ([]models.SchoolYear, *models.Pagination, error) {
	out := make([]models.SchoolYear, 0, len(s.years))
	for _, y := range s.years {
		out = append(out, *y)
	}
	return out, models.NewPagination(1, 10, len(out)), nil
}

func (s *yearRepoStub) FindByID(ctx context.Context, id string) (*models.SchoolYear, error) {
	year, ok := s.years[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return year, nil
}

func (s *yearRepoStub) FindActive(ctx context.Context) (*models.SchoolYear, error) {
	if s.active == nil {
		return nil, sql.ErrNoRows
	}
	return s.active, nil
}

func (s *yearRepoStub) ExistsByYear(ctx context.Context, year int, excludeID string) (bool, error) {
	return s.yearTaken, nil
}

func (s *yearRepoStub) Create(ctx context.Context, year *models.SchoolYear) error {
	year.ID = "y-new"
	return nil
}

func (s *yearRepoStub) SetActive(ctx context.Context, id string) error {
	s.activated = append(s.activated, id)
	return nil
}

func (s *yearRepoStub) Delete(ctx context.Context, id string) error {
	return nil
}

func (s *yearRepoStub) CountGrades(ctx context.Context, id string) (int, error) {
	return 0, nil
}

func newYearRouter(stub *yearRepoStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSchoolYearHandler(service.NewSchoolYearService(stub, nil, nil))

	r := gin.New()
	r.GET("/anios/activo", h.GetActive)
	r.POST("/anios", h.Create)
	r.PUT("/anios/:id/activar", h.Activate)
	return r
}

func TestSchoolYearHandlerGetActive(t *testing.T) {
	stub := &yearRepoStub{active: &models.SchoolYear{ID: "y1", Year: 2026, Active: true}}
	r := newYearRouter(stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anios/activo", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool              `json:"success"`
		Year    models.SchoolYear `json:"anio"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 2026, body.Year.Year)
}

func TestSchoolYearHandlerGetActiveMissing(t *testing.T) {
	r := newYearRouter(&yearRepoStub{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/anios/activo", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "No hay un año escolar activo")
}

func TestSchoolYearHandlerCreate(t *testing.T) {
	r := newYearRouter(&yearRepoStub{})

	req := httptest.NewRequest(http.MethodPost, "/anios", strings.NewReader(`{"anio":2027}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"anio"`)
}

func TestSchoolYearHandlerCreateConflict(t *testing.T) {
	r := newYearRouter(&yearRepoStub{yearTaken: true})

	req := httptest.NewRequest(http.MethodPost, "/anios", strings.NewReader(`{"anio":2027}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Ya existe ese año escolar")
}

func TestSchoolYearHandlerCreateMalformedBody(t *testing.T) {
	r := newYearRouter(&yearRepoStub{})

	req := httptest.NewRequest(http.MethodPost, "/anios", strings.NewReader(`{"anio":`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Datos inválidos")
}

func TestSchoolYearHandlerActivate(t *testing.T) {
	stub := &yearRepoStub{years: map[string]*models.SchoolYear{
		"y2": {ID: "y2", Year: 2027},
	}}
	r := newYearRouter(stub)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/anios/y2/activar", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"y2"}, stub.activated)
}
