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

type configurationRepository interface {
	FindBySchool(ctx context.Context, schoolID string) (*models.Configuration, error)
	Upsert(ctx context.Context, cfg *models.Configuration) error
}

// UpdateConfigurationRequest toggles per-school feature flags.
type UpdateConfigurationRequest struct {
	EnrollmentOpen       *bool `json:"matricula_abierta"`
	PostsEnabled         *bool `json:"posts_habilitados"`
	NotificationsEnabled *bool `json:"notificaciones_habilitadas"`
}

// ConfigurationService manages per-school settings. Missing rows resolve to
// defaults so schools work without an explicit configuration.
type ConfigurationService struct {
	repo      configurationRepository
	schools   schoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConfigurationService creates a new configuration service instance.
func NewConfigurationService(repo configurationRepository, schools schoolRepository, validate *validator.Validate, logger *zap.Logger) *ConfigurationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConfigurationService{repo: repo, schools: schools, validator: validate, logger: logger}
}

// Get returns the school configuration, falling back to defaults.
func (s *ConfigurationService) Get(ctx context.Context, schoolID string) (*models.Configuration, error) {
	if _, err := s.schools.FindByID(ctx, schoolID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "Colegio no encontrado")
		}
		return nil, storageErr(err, "failed to load school")
	}

	cfg, err := s.repo.FindBySchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.Configuration{
				SchoolID:             schoolID,
				EnrollmentOpen:       false,
				PostsEnabled:         true,
				NotificationsEnabled: true,
			}, nil
		}
		return nil, storageErr(err, "failed to load configuration")
	}
	return cfg, nil
}

// Update merges the given flags over the current configuration and upserts.
func (s *ConfigurationService) Update(ctx context.Context, schoolID string, req UpdateConfigurationRequest) (*models.Configuration, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err)
	}

	cfg, err := s.Get(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	if req.EnrollmentOpen != nil {
		cfg.EnrollmentOpen = *req.EnrollmentOpen
	}
	if req.PostsEnabled != nil {
		cfg.PostsEnabled = *req.PostsEnabled
	}
	if req.NotificationsEnabled != nil {
		cfg.NotificationsEnabled = *req.NotificationsEnabled
	}

	if err := s.repo.Upsert(ctx, cfg); err != nil {
		return nil, storageErr(err, "failed to save configuration")
	}
	return cfg, nil
}
