package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/colegiosys/colegio-api/internal/models"
	appErrors "github.com/colegiosys/colegio-api/pkg/errors"
)

type schoolRepository interface {
	List(ctx context.Context, filter models.SchoolFilter) ([]models.School, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.School, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, school *models.School) error
	Update(ctx context.Context, school *models.School) error
	Deactivate(ctx context.Context, id string) error
	CountUsers(ctx context.Context, id string) (int, error)
}

// CreateSchoolRequest captures fields for registering schools.
type CreateSchoolRequest struct {
	Code           string  `json:"codigo" validate:"required"`
	Name           string  `json:"nombre" validate:"required"`
	Email          string  `json:"email" validate:"required,email"`
	Address        *string `json:"direccion"`
	PrimaryColor   *string `json:"color_primario" validate:"omitempty,hexcolor"`
	SecondaryColor *string `json:"color_secundario" validate:"omitempty,hexcolor"`
	LogoURL        *string `json:"logo_url" validate:"omitempty,url"`
}

// UpdateSchoolRequest is a partial update; nil fields keep their stored value.
type UpdateSchoolRequest struct {
	Code           *string `json:"codigo"`
	Name           *string `json:"nombre"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Address        *string `json:"direccion"`
	PrimaryColor   *string `json:"color_primario" validate:"omitempty,hexcolor"`
	SecondaryColor *string `json:"color_secundario" validate:"omitempty,hexcolor"`
	LogoURL        *string `json:"logo_url" validate:"omitempty,url"`
}

// SchoolService handles school workflows.
type SchoolService struct {
	repo      schoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService creates a new school service.
func NewSchoolService(repo schoolRepository, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated schools.
func (s *SchoolService) List(ctx context.Context, filter models.SchoolFilter) ([]models.School, *models.Pagination, error) {
	schools, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list schools")
	}
	return schools, pagination, nil
}

// Get returns a school by ID.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Colegio no encontrado")
		}
		return nil, storageErr(err, "failed to load school")
	}
	return school, nil
}

func (s *SchoolService) checkUnique(ctx context.Context, code, email, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return storageErr(err, "failed to check school code")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un colegio con ese código")
	}

	exists, err = s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return storageErr(err, "failed to check school email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un colegio con ese correo")
	}
	return nil
}

// Create registers a new school.
func (s *SchoolService) Create(ctx context.Context, req CreateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := s.checkUnique(ctx, req.Code, req.Email, ""); err != nil {
		return nil, err
	}

	school := &models.School{
		Code:           req.Code,
		Name:           req.Name,
		Email:          req.Email,
		Address:        req.Address,
		PrimaryColor:   req.PrimaryColor,
		SecondaryColor: req.SecondaryColor,
		LogoURL:        req.LogoURL,
		Active:         true,
	}

	if err := s.repo.Create(ctx, school); err != nil {
		return nil, storageErr(err, "failed to create school")
	}
	return school, nil
}

// Update applies a partial update to a school.
func (s *SchoolService) Update(ctx context.Context, id string, req UpdateSchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Colegio no encontrado")
		}
		return nil, storageErr(err, "failed to load school")
	}

	if req.Code != nil {
		school.Code = strings.ToUpper(strings.TrimSpace(*req.Code))
	}
	if req.Name != nil {
		school.Name = *req.Name
	}
	if req.Email != nil {
		school.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Address != nil {
		school.Address = req.Address
	}
	if req.PrimaryColor != nil {
		school.PrimaryColor = req.PrimaryColor
	}
	if req.SecondaryColor != nil {
		school.SecondaryColor = req.SecondaryColor
	}
	if req.LogoURL != nil {
		school.LogoURL = req.LogoURL
	}

	if err := s.checkUnique(ctx, school.Code, school.Email, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, school); err != nil {
		return nil, storageErr(err, "failed to update school")
	}
	return school, nil
}

// Deactivate soft-deletes a school once no active accounts reference it.
func (s *SchoolService) Deactivate(ctx context.Context, id string) error {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Colegio no encontrado")
		}
		return storageErr(err, "failed to load school")
	}

	count, err := s.repo.CountUsers(ctx, school.ID)
	if err != nil {
		return storageErr(err, "failed to check school dependents")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrHasDependents, "El colegio tiene usuarios activos")
	}

	if err := s.repo.Deactivate(ctx, school.ID); err != nil {
		return storageErr(err, "failed to deactivate school")
	}
	return nil
}
