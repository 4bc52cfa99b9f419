package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

type gradeRepository interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Grade, error)
	ExistsSection(ctx context.Context, levelID, name, section, yearID, excludeID string) (bool, error)
	Create(ctx context.Context, grade *models.Grade) error
	Update(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, id string) error
	CountPosts(ctx context.Context, id string) (int, error)
}

type gradeLevelRepository interface {
	FindByID(ctx context.Context, id string) (*models.Level, error)
}

type gradeYearRepository interface {
	FindByID(ctx context.Context, id string) (*models.SchoolYear, error)
}

type gradeTurnRepository interface {
	FindByID(ctx context.Context, id string) (*models.Turn, error)
}

// CreateGradeRequest captures fields for creating a grade section.
type CreateGradeRequest struct {
	LevelID string  `json:"nivel_id" validate:"required,uuid"`
	YearID  string  `json:"anio_id" validate:"required,uuid"`
	TurnID  *string `json:"turno_id" validate:"omitempty,uuid"`
	Number  int     `json:"grado" validate:"required,min=1"`
	Section string  `json:"seccion" validate:"required,len=1,alpha"`
}

// UpdateGradeRequest supports partial updates of a grade section.
type UpdateGradeRequest struct {
	TurnID  *string `json:"turno_id" validate:"omitempty,uuid"`
	Number  *int    `json:"grado" validate:"omitempty,min=1"`
	Section *string `json:"seccion" validate:"omitempty,len=1,alpha"`
}

// GradeService orchestrates grade-section workflows. Grade name and code are
// derived from the level, number, section and year, never accepted as input.
type GradeService struct {
	repo      gradeRepository
	levels    gradeLevelRepository
	years     gradeYearRepository
	turns     gradeTurnRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService creates a new grade service instance.
func NewGradeService(repo gradeRepository, levels gradeLevelRepository, years gradeYearRepository, turns gradeTurnRepository, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		repo:      repo,
		levels:    levels,
		years:     years,
		turns:     turns,
		validator: validate,
		logger:    logger,
	}
}

// List returns paginated grades.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.Grade, *models.Pagination, error) {
	grades, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list grades")
	}
	return grades, pagination, nil
}

// Get returns a grade by ID.
func (s *GradeService) Get(ctx context.Context, id string) (*models.Grade, error) {
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Grado no encontrado")
		}
		return nil, storageErr(err, "failed to load grade")
	}
	return grade, nil
}

func (s *GradeService) loadLevel(ctx context.Context, id string) (*models.Level, error) {
	level, err := s.levels.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownParent, "El nivel indicado no existe")
		}
		return nil, storageErr(err, "failed to load level")
	}
	return level, nil
}

func (s *GradeService) loadYear(ctx context.Context, id string) (*models.SchoolYear, error) {
	year, err := s.years.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownParent, "El año escolar indicado no existe")
		}
		return nil, storageErr(err, "failed to load school year")
	}
	return year, nil
}

func (s *GradeService) checkTurn(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	if _, err := s.turns.FindByID(ctx, *id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnknownParent, "El turno indicado no existe")
		}
		return storageErr(err, "failed to load turn")
	}
	return nil
}

// gradeName builds the display name, e.g. "3° B - Primaria".
func gradeName(level *models.Level, number int, section string) string {
	return fmt.Sprintf("%d° %s - %s", number, strings.ToUpper(section), level.Name)
}

// gradeCode builds the unique code, e.g. "PRI-3B-2026".
func gradeCode(level *models.Level, number int, section string, year int) string {
	return fmt.Sprintf("%s-%d%s-%d", level.Code, number, strings.ToUpper(section), year)
}

// Create registers a grade section. The grade number must fall within the
// level range and the (level, name, section, year) tuple must be unique.
func (s *GradeService) Create(ctx context.Context, req CreateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	level, err := s.loadLevel(ctx, req.LevelID)
	if err != nil {
		return nil, err
	}
	year, err := s.loadYear(ctx, req.YearID)
	if err != nil {
		return nil, err
	}
	if err := s.checkTurn(ctx, req.TurnID); err != nil {
		return nil, err
	}

	if req.Number < level.MinGrade || req.Number > level.MaxGrade {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("El grado debe estar entre %d y %d para el nivel %s", level.MinGrade, level.MaxGrade, level.Name))
	}

	section := strings.ToUpper(req.Section)
	name := gradeName(level, req.Number, section)

	exists, err := s.repo.ExistsSection(ctx, level.ID, name, section, year.ID, "")
	if err != nil {
		return nil, storageErr(err, "failed to check grade uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe esa sección para el nivel y año indicados")
	}

	grade := &models.Grade{
		LevelID: level.ID,
		YearID:  year.ID,
		TurnID:  req.TurnID,
		Number:  req.Number,
		Section: section,
		Name:    name,
		Code:    gradeCode(level, req.Number, section, year.Year),
	}
	if err := s.repo.Create(ctx, grade); err != nil {
		return nil, storageErr(err, "failed to create grade")
	}
	return grade, nil
}

// Update applies a partial update, re-deriving name and code when the number
// or section changes.
func (s *GradeService) Update(ctx context.Context, id string, req UpdateGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Grado no encontrado")
		}
		return nil, storageErr(err, "failed to load grade")
	}

	if err := s.checkTurn(ctx, req.TurnID); err != nil {
		return nil, err
	}
	if req.TurnID != nil {
		grade.TurnID = req.TurnID
	}
	if req.Number != nil {
		grade.Number = *req.Number
	}
	if req.Section != nil {
		grade.Section = strings.ToUpper(*req.Section)
	}

	level, err := s.loadLevel(ctx, grade.LevelID)
	if err != nil {
		return nil, err
	}
	year, err := s.loadYear(ctx, grade.YearID)
	if err != nil {
		return nil, err
	}

	if grade.Number < level.MinGrade || grade.Number > level.MaxGrade {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("El grado debe estar entre %d y %d para el nivel %s", level.MinGrade, level.MaxGrade, level.Name))
	}

	grade.Name = gradeName(level, grade.Number, grade.Section)
	grade.Code = gradeCode(level, grade.Number, grade.Section, year.Year)

	exists, err := s.repo.ExistsSection(ctx, grade.LevelID, grade.Name, grade.Section, grade.YearID, id)
	if err != nil {
		return nil, storageErr(err, "failed to check grade uniqueness")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "Ya existe esa sección para el nivel y año indicados")
	}

	if err := s.repo.Update(ctx, grade); err != nil {
		return nil, storageErr(err, "failed to update grade")
	}
	return grade, nil
}

// Delete removes a grade permanently when it has no publications.
func (s *GradeService) Delete(ctx context.Context, id string) error {
	grade, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Grado no encontrado")
		}
		return storageErr(err, "failed to load grade")
	}

	count, err := s.repo.CountPosts(ctx, grade.ID)
	if err != nil {
		return storageErr(err, "failed to check grade dependents")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrHasDependents, "El grado tiene publicaciones asociadas")
	}

	if err := s.repo.Delete(ctx, grade.ID); err != nil {
		return storageErr(err, "failed to delete grade")
	}
	return nil
}
