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

type levelRepository interface {
	List(ctx context.Context, filter models.LevelFilter) ([]models.Level, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Level, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, level *models.Level) error
	Update(ctx context.Context, level *models.Level) error
	Deactivate(ctx context.Context, id string) error
	CountGrades(ctx context.Context, id string) (int, error)
}

// CreateLevelRequest captures fields for creating an educational level.
type CreateLevelRequest struct {
	Code      string  `json:"codigo" validate:"required,max=10"`
	Name      string  `json:"nombre" validate:"required,max=100"`
	MinGrade  int     `json:"grado_minimo" validate:"required,min=1"`
	MaxGrade  int     `json:"grado_maximo" validate:"required,min=1"`
	MinScore  float64 `json:"nota_minima" validate:"min=0"`
	MaxScore  float64 `json:"nota_maxima" validate:"required,gtfield=MinScore"`
	PassScore float64 `json:"nota_aprobatoria" validate:"required,gtefield=MinScore,ltefield=MaxScore"`
}

// UpdateLevelRequest supports partial updates of a level.
type UpdateLevelRequest struct {
	Code      *string  `json:"codigo" validate:"omitempty,max=10"`
	Name      *string  `json:"nombre" validate:"omitempty,max=100"`
	MinGrade  *int     `json:"grado_minimo" validate:"omitempty,min=1"`
	MaxGrade  *int     `json:"grado_maximo" validate:"omitempty,min=1"`
	MinScore  *float64 `json:"nota_minima" validate:"omitempty,min=0"`
	MaxScore  *float64 `json:"nota_maxima"`
	PassScore *float64 `json:"nota_aprobatoria"`
	Active    *bool    `json:"activo"`
}

// LevelService orchestrates educational-level workflows.
type LevelService struct {
	repo      levelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLevelService creates a new level service instance.
func NewLevelService(repo levelRepository, validate *validator.Validate, logger *zap.Logger) *LevelService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LevelService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated levels.
func (s *LevelService) List(ctx context.Context, filter models.LevelFilter) ([]models.Level, *models.Pagination, error) {
	levels, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list levels")
	}
	return levels, pagination, nil
}

// Get returns a level by ID.
func (s *LevelService) Get(ctx context.Context, id string) (*models.Level, error) {
	level, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Nivel no encontrado")
		}
		return nil, storageErr(err, "failed to load level")
	}
	return level, nil
}

func (s *LevelService) checkUnique(ctx context.Context, code, name, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return storageErr(err, "failed to check level code uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un nivel con ese código")
	}

	exists, err = s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return storageErr(err, "failed to check level name uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un nivel con ese nombre")
	}
	return nil
}

// Create registers a new level after range and uniqueness checks.
func (s *LevelService) Create(ctx context.Context, req CreateLevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	if req.MinGrade > req.MaxGrade {
		return nil, appErrors.Clone(appErrors.ErrValidation, "El grado mínimo no puede ser mayor que el máximo")
	}

	if err := s.checkUnique(ctx, req.Code, req.Name, ""); err != nil {
		return nil, err
	}

	level := &models.Level{
		Code:      req.Code,
		Name:      req.Name,
		MinGrade:  req.MinGrade,
		MaxGrade:  req.MaxGrade,
		MinScore:  req.MinScore,
		MaxScore:  req.MaxScore,
		PassScore: req.PassScore,
		Active:    true,
	}
	if err := s.repo.Create(ctx, level); err != nil {
		return nil, storageErr(err, "failed to create level")
	}
	return level, nil
}

// Update applies a partial update to a level.
func (s *LevelService) Update(ctx context.Context, id string, req UpdateLevelRequest) (*models.Level, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	level, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Nivel no encontrado")
		}
		return nil, storageErr(err, "failed to load level")
	}

	if req.Code != nil {
		level.Code = *req.Code
	}
	if req.Name != nil {
		level.Name = *req.Name
	}
	if req.MinGrade != nil {
		level.MinGrade = *req.MinGrade
	}
	if req.MaxGrade != nil {
		level.MaxGrade = *req.MaxGrade
	}
	if req.MinScore != nil {
		level.MinScore = *req.MinScore
	}
	if req.MaxScore != nil {
		level.MaxScore = *req.MaxScore
	}
	if req.PassScore != nil {
		level.PassScore = *req.PassScore
	}
	if req.Active != nil {
		level.Active = *req.Active
	}

	if level.MinGrade > level.MaxGrade {
		return nil, appErrors.Clone(appErrors.ErrValidation, "El grado mínimo no puede ser mayor que el máximo")
	}
	if level.MinScore > level.MaxScore || level.PassScore < level.MinScore || level.PassScore > level.MaxScore {
		return nil, appErrors.Clone(appErrors.ErrValidation, "El rango de notas no es válido")
	}

	if err := s.checkUnique(ctx, level.Code, level.Name, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, level); err != nil {
		return nil, storageErr(err, "failed to update level")
	}
	return level, nil
}

// Deactivate soft-deletes a level with no associated grades.
func (s *LevelService) Deactivate(ctx context.Context, id string) error {
	level, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Nivel no encontrado")
		}
		return storageErr(err, "failed to load level")
	}

	count, err := s.repo.CountGrades(ctx, level.ID)
	if err != nil {
		return storageErr(err, "failed to check level dependents")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrHasDependents, "El nivel tiene grados asociados")
	}

	if err := s.repo.Deactivate(ctx, level.ID); err != nil {
		return storageErr(err, "failed to deactivate level")
	}
	return nil
}
