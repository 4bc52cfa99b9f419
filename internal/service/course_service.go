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

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation, excludeID string) (bool, error)
	ExistsByNameInLevel(ctx context.Context, name, levelID, excludeID string) (bool, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Deactivate(ctx context.Context, id string) error
}

// CreateCourseRequest captures fields for creating a course.
type CreateCourseRequest struct {
	LevelID      string `json:"nivel_id" validate:"required,uuid"`
	Name         string `json:"nombre" validate:"required,max=100"`
	Abbreviation string `json:"abreviatura" validate:"required,max=10"`
}

// UpdateCourseRequest supports partial updates of a course.
type UpdateCourseRequest struct {
	Name         *string `json:"nombre" validate:"omitempty,max=100"`
	Abbreviation *string `json:"abreviatura" validate:"omitempty,max=10"`
	Active       *bool   `json:"activo"`
}

// CourseService orchestrates course workflows. Abbreviations are unique
// globally while names are unique only within a level.
type CourseService struct {
	repo      courseRepository
	levels    gradeLevelRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService creates a new course service instance.
func NewCourseService(repo courseRepository, levels gradeLevelRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, levels: levels, validator: validate, logger: logger}
}

// List returns paginated courses.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list courses")
	}
	return courses, pagination, nil
}

// Get returns a course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Curso no encontrado")
		}
		return nil, storageErr(err, "failed to load course")
	}
	return course, nil
}

func (s *CourseService) checkUnique(ctx context.Context, abbreviation, name, levelID, excludeID string) error {
	exists, err := s.repo.ExistsByAbbreviation(ctx, abbreviation, excludeID)
	if err != nil {
		return storageErr(err, "failed to check course abbreviation uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un curso con esa abreviatura")
	}

	exists, err = s.repo.ExistsByNameInLevel(ctx, name, levelID, excludeID)
	if err != nil {
		return storageErr(err, "failed to check course name uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un curso con ese nombre en el nivel")
	}
	return nil
}

// Create registers a new course within a level.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	if _, err := s.levels.FindByID(ctx, req.LevelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnknownParent, "El nivel indicado no existe")
		}
		return nil, storageErr(err, "failed to load level")
	}

	if err := s.checkUnique(ctx, req.Abbreviation, req.Name, req.LevelID, ""); err != nil {
		return nil, err
	}

	course := &models.Course{
		LevelID:      req.LevelID,
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		Active:       true,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, storageErr(err, "failed to create course")
	}
	return course, nil
}

// Update applies a partial update to a course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Curso no encontrado")
		}
		return nil, storageErr(err, "failed to load course")
	}

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Abbreviation != nil {
		course.Abbreviation = *req.Abbreviation
	}
	if req.Active != nil {
		course.Active = *req.Active
	}

	if err := s.checkUnique(ctx, course.Abbreviation, course.Name, course.LevelID, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, storageErr(err, "failed to update course")
	}
	return course, nil
}

// Deactivate soft-deletes a course.
func (s *CourseService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Curso no encontrado")
		}
		return storageErr(err, "failed to load course")
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return storageErr(err, "failed to deactivate course")
	}
	return nil
}
