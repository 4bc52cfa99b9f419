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

type areaRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Area, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Area, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	ExistsByCode(ctx context.Context, code, excludeID string) (bool, error)
	Create(ctx context.Context, area *models.Area) error
	Update(ctx context.Context, area *models.Area) error
	Deactivate(ctx context.Context, id string) error
}

type turnRepository interface {
	List(ctx context.Context, filter models.CatalogFilter) ([]models.Turn, *models.Pagination, error)
	FindByID(ctx context.Context, id string) (*models.Turn, error)
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
	ExistsByAbbreviation(ctx context.Context, abbreviation, excludeID string) (bool, error)
	Create(ctx context.Context, turn *models.Turn) error
	Update(ctx context.Context, turn *models.Turn) error
	Deactivate(ctx context.Context, id string) error
}

// AreaRequest captures fields for creating a curricular area.
type AreaRequest struct {
	Name string `json:"nombre" validate:"required,max=100"`
	Code string `json:"codigo" validate:"required,max=10"`
}

// UpdateAreaRequest supports partial updates of an area.
type UpdateAreaRequest struct {
	Name   *string `json:"nombre" validate:"omitempty,max=100"`
	Code   *string `json:"codigo" validate:"omitempty,max=10"`
	Active *bool   `json:"activo"`
}

// TurnRequest captures fields for creating a school shift.
type TurnRequest struct {
	Name         string  `json:"nombre" validate:"required,max=50"`
	Abbreviation string  `json:"abreviatura" validate:"required,max=5"`
	StartTime    *string `json:"hora_inicio" validate:"omitempty,datetime=15:04"`
	EndTime      *string `json:"hora_fin" validate:"omitempty,datetime=15:04"`
}

// UpdateTurnRequest supports partial updates of a shift.
type UpdateTurnRequest struct {
	Name         *string `json:"nombre" validate:"omitempty,max=50"`
	Abbreviation *string `json:"abreviatura" validate:"omitempty,max=5"`
	StartTime    *string `json:"hora_inicio" validate:"omitempty,datetime=15:04"`
	EndTime      *string `json:"hora_fin" validate:"omitempty,datetime=15:04"`
	Active       *bool   `json:"activo"`
}

// AreaService orchestrates curricular-area workflows.
type AreaService struct {
	repo      areaRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAreaService creates a new area service instance.
func NewAreaService(repo areaRepository, validate *validator.Validate, logger *zap.Logger) *AreaService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AreaService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated areas.
func (s *AreaService) List(ctx context.Context, filter models.CatalogFilter) ([]models.Area, *models.Pagination, error) {
	areas, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list areas")
	}
	return areas, pagination, nil
}

// Get returns an area by ID.
func (s *AreaService) Get(ctx context.Context, id string) (*models.Area, error) {
	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Área no encontrada")
		}
		return nil, storageErr(err, "failed to load area")
	}
	return area, nil
}

func (s *AreaService) checkUnique(ctx context.Context, code, name, excludeID string) error {
	exists, err := s.repo.ExistsByCode(ctx, code, excludeID)
	if err != nil {
		return storageErr(err, "failed to check area code uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un área con ese código")
	}

	exists, err = s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return storageErr(err, "failed to check area name uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un área con ese nombre")
	}
	return nil
}

// Create registers a new curricular area.
func (s *AreaService) Create(ctx context.Context, req AreaRequest) (*models.Area, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	if err := s.checkUnique(ctx, req.Code, req.Name, ""); err != nil {
		return nil, err
	}

	area := &models.Area{Name: req.Name, Code: req.Code, Active: true}
	if err := s.repo.Create(ctx, area); err != nil {
		return nil, storageErr(err, "failed to create area")
	}
	return area, nil
}

// Update applies a partial update to an area.
func (s *AreaService) Update(ctx context.Context, id string, req UpdateAreaRequest) (*models.Area, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	area, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Área no encontrada")
		}
		return nil, storageErr(err, "failed to load area")
	}

	if req.Name != nil {
		area.Name = *req.Name
	}
	if req.Code != nil {
		area.Code = *req.Code
	}
	if req.Active != nil {
		area.Active = *req.Active
	}

	if err := s.checkUnique(ctx, area.Code, area.Name, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, area); err != nil {
		return nil, storageErr(err, "failed to update area")
	}
	return area, nil
}

// Deactivate soft-deletes an area.
func (s *AreaService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Área no encontrada")
		}
		return storageErr(err, "failed to load area")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return storageErr(err, "failed to deactivate area")
	}
	return nil
}

// TurnService orchestrates school-shift workflows.
type TurnService struct {
	repo      turnRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTurnService creates a new turn service instance.
func NewTurnService(repo turnRepository, validate *validator.Validate, logger *zap.Logger) *TurnService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TurnService{repo: repo, validator: validate, logger: logger}
}

// List returns paginated turns.
func (s *TurnService) List(ctx context.Context, filter models.CatalogFilter) ([]models.Turn, *models.Pagination, error) {
	turns, pagination, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageErr(err, "failed to list turns")
	}
	return turns, pagination, nil
}

// Get returns a turn by ID.
func (s *TurnService) Get(ctx context.Context, id string) (*models.Turn, error) {
	turn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Turno no encontrado")
		}
		return nil, storageErr(err, "failed to load turn")
	}
	return turn, nil
}

func (s *TurnService) checkUnique(ctx context.Context, name, abbreviation, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return storageErr(err, "failed to check turn name uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un turno con ese nombre")
	}

	exists, err = s.repo.ExistsByAbbreviation(ctx, abbreviation, excludeID)
	if err != nil {
		return storageErr(err, "failed to check turn abbreviation uniqueness")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "Ya existe un turno con esa abreviatura")
	}
	return nil
}

// Create registers a new shift.
func (s *TurnService) Create(ctx context.Context, req TurnRequest) (*models.Turn, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}
	if err := s.checkUnique(ctx, req.Name, req.Abbreviation, ""); err != nil {
		return nil, err
	}

	turn := &models.Turn{
		Name:         req.Name,
		Abbreviation: req.Abbreviation,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Active:       true,
	}
	if err := s.repo.Create(ctx, turn); err != nil {
		return nil, storageErr(err, "failed to create turn")
	}
	return turn, nil
}

// Update applies a partial update to a shift.
func (s *TurnService) Update(ctx context.Context, id string, req UpdateTurnRequest) (*models.Turn, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	turn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Turno no encontrado")
		}
		return nil, storageErr(err, "failed to load turn")
	}

	if req.Name != nil {
		turn.Name = *req.Name
	}
	if req.Abbreviation != nil {
		turn.Abbreviation = *req.Abbreviation
	}
	if req.StartTime != nil {
		turn.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		turn.EndTime = req.EndTime
	}
	if req.Active != nil {
		turn.Active = *req.Active
	}

	if err := s.checkUnique(ctx, turn.Name, turn.Abbreviation, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, turn); err != nil {
		return nil, storageErr(err, "failed to update turn")
	}
	return turn, nil
}

// Deactivate soft-deletes a shift.
func (s *TurnService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "Turno no encontrado")
		}
		return storageErr(err, "failed to load turn")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return storageErr(err, "failed to deactivate turn")
	}
	return nil
}
