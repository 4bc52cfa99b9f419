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

type schoolYearRepository interface {
	List(ctx context.Context, filter models.SchoolYearFilter) ([]models.SchoolYear, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.SchoolYear, error)
	FindActive(ctx context.Context) (*models.SchoolYear, error)
	ExistsByYear(ctx context.Context, year int, excludeID string) (bool, error)
	Create(ctx context.Context, year *models.SchoolYear) error
	SetActive(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountGrades(ctx context.Context, id string) (int, error)
}

// CreateSchoolYearRequest captures fields for opening an academic year.
type CreateSchoolYearRequest struct {
	Year   int  `json:"anio" validate:"required,min=2000,max=2100"`
	Active bool `json:"activo"`
}

// SchoolYearService orchestrates school-year workflows.
type SchoolYearService struct {
	repo      schoolYearRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolYearService creates a new school-year service instance.
func NewSchoolYearService(repo schoolYearRepository, validate *validator.Validate, logger *zap.Logger) *SchoolYearService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolYearService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated school years.
func (s *SchoolYearService) List(ctx context.Context, filter models.SchoolYearFilter) ([]models.SchoolYear, *models.Pagination, error) {
	years, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list school years")
	}
	return years, pagination, nil
}

// Get returns a school year by ID.
func (s *SchoolYearService) Get(ctx context.Context, id string) (*models.SchoolYear, error) {
	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Año escolar no encontrado")
		}
		return nil, storageErr(err, "failed to load school year")
	}
	return year, nil
}

// GetActive returns the single currently active year.
func (s *SchoolYearService) GetActive(ctx context.Context) (*models.SchoolYear, error) {
	year, err := s.repo.FindActive(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "No hay un año escolar activo")
		}
		return nil, storageErr(err, "failed to load active school year")
	}
	return year, nil
}

// Create opens a new academic year, optionally activating it.
func (s *SchoolYearService) Create(ctx context.Context, req CreateSchoolYearRequest) (*models.SchoolYear, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	exists, err := s.repo.ExistsByYear(ctx, req.Year, "")
	if err != nil {
		return nil, storageErr(err, "failed to check year uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe ese año escolar")
	}

	year := &models.SchoolYear{Year: req.Year}
	if err := s.repo.Create(ctx, year); err != nil {
		return nil, storageErr(err, "failed to create school year")
	}

	if req.Active {
		if err := s.repo.SetActive(ctx, year.ID); err != nil {
			return nil, storageErr(err, "failed to activate school year")
		}
		year.Active = true
	}

	return year, nil
}

// Activate makes the given year the single active one. The repository swap
// runs in one transaction so two active years never coexist.
func (s *SchoolYearService) Activate(ctx context.Context, id string) (*models.SchoolYear, error) {
	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Año escolar no encontrado")
		}
		return nil, storageErr(err, "failed to load school year")
	}

	if err := s.repo.SetActive(ctx, year.ID); err != nil {
		return nil, storageErr(err, "failed to activate school year")
	}
	year.Active = true
	return year, nil
}

// Delete removes a year permanently when inactive and without grades.
func (s *SchoolYearService) Delete(ctx context.Context, id string) error {
	year, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Año escolar no encontrado")
		}
		return storageErr(err, "failed to load school year")
	}

	if year.Active {
		return appErrors.Clone(appErrors.ErrValidation, "No se puede eliminar el año escolar activo")
	}

	count, err := s.repo.CountGrades(ctx, id)
	if err != nil {
		return storageErr(err, "failed to check school year dependents")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrHasDependents, "El año escolar tiene grados asociados")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return storageErr(err, "failed to delete school year")
	}
	return nil
}
